package mir_test

import (
	"strings"
	"testing"

	"ferrite/internal/mir"
	"ferrite/internal/testkit"
)

func TestLocationString(t *testing.T) {
	loc := mir.Location{Block: 3, Statement: 1}
	if got := loc.String(); got != "bb3[1]" {
		t.Fatalf("String = %q", got)
	}
}

func TestPrintIsStable(t *testing.T) {
	a := mir.Print(testkit.UnrelatedLifetimes().Body)
	b := mir.Print(testkit.UnrelatedLifetimes().Body)
	if a == "" || a != b {
		t.Fatalf("print is not deterministic:\n%s\n---\n%s", a, b)
	}
	for _, frag := range []string{"fn choose", "_0 = copy _2", "bb0:", "return"} {
		if !strings.Contains(a, frag) {
			t.Fatalf("missing %q in:\n%s", frag, a)
		}
	}
	if mir.Print(nil) != "" {
		t.Fatalf("nil body must print empty")
	}
}

func TestSuccessors(t *testing.T) {
	fx := testkit.DestructorObservesRegion()
	succs := fx.Body.Successors(0)
	if len(succs) != 1 || succs[0] != 1 {
		t.Fatalf("drop successors = %v, want [1]", succs)
	}
	if got := fx.Body.Successors(1); len(got) != 0 {
		t.Fatalf("return has successors: %v", got)
	}
	if got := fx.Body.Successors(mir.NoBlockID); got != nil {
		t.Fatalf("unknown block has successors: %v", got)
	}
}

func TestPlaceProjectionHelpers(t *testing.T) {
	p := mir.PlaceLocal(2).Deref().Field(1)
	if p.Local != 2 || len(p.Proj) != 2 {
		t.Fatalf("place = %+v", p)
	}
	if p.Proj[0].Kind != mir.PlaceProjDeref || p.Proj[1].Kind != mir.PlaceProjField || p.Proj[1].FieldIdx != 1 {
		t.Fatalf("projections = %+v", p.Proj)
	}

	// Extending a place must not alias the original's projection storage.
	base := mir.PlaceLocal(0).Deref()
	q := base.Field(0)
	r := base.Field(1)
	if q.Proj[1].FieldIdx == r.Proj[1].FieldIdx {
		t.Fatalf("projection slices alias: %+v vs %+v", q.Proj, r.Proj)
	}
}

func TestStmtAtAndTermAt(t *testing.T) {
	fx := testkit.UnrelatedLifetimes()
	body := fx.Body

	if s := body.StmtAt(mir.Location{Block: 0, Statement: 0}); s == nil || s.Kind != mir.StmtAssign {
		t.Fatalf("StmtAt(bb0[0]) = %+v", s)
	}
	if s := body.StmtAt(mir.Location{Block: 0, Statement: 1}); s != nil {
		t.Fatalf("terminator location yielded a statement")
	}
	if tm := body.TermAt(mir.Location{Block: 0, Statement: 1}); tm == nil || tm.Kind != mir.TermReturn {
		t.Fatalf("TermAt(bb0[1]) = %+v", tm)
	}
	if tm := body.TermAt(mir.Location{Block: 0, Statement: 0}); tm != nil {
		t.Fatalf("statement location yielded a terminator")
	}
}
