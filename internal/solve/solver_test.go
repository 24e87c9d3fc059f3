package solve_test

import (
	"testing"

	"ferrite/internal/constraints"
	"ferrite/internal/liveness"
	"ferrite/internal/mir"
	"ferrite/internal/regions"
	"ferrite/internal/solve"
)

func loc(b mir.BlockID, s uint32) mir.Location {
	return mir.Location{Block: b, Statement: s}
}

func push(set *constraints.Set, sup, sub regions.Vid) {
	set.Push(constraints.OutlivesConstraint{Sup: sup, Sub: sub, Locations: constraints.Single(loc(0, 0))})
}

func TestSolvePropagatesChain(t *testing.T) {
	tbl := regions.NewTable()
	a := tbl.NewUniversal("'a")
	b := tbl.NewUniversal("'b")
	e := tbl.NewExistential()

	set := constraints.NewSet()
	push(set, a, e)
	push(set, e, b)
	set.Link(tbl.Count())

	s := solve.New(set, tbl, nil)
	s.Solve()

	if !s.ContainsElement(e, b) {
		t.Fatalf("the existential must pick up 'b")
	}
	if !s.ContainsElement(a, b) {
		t.Fatalf("'b must propagate through the chain into 'a")
	}
	if s.ContainsElement(b, a) {
		t.Fatalf("propagation is directed, 'a must not leak into 'b")
	}

	errs := s.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %+v", len(errs), errs)
	}
	if errs[0].Kind != solve.ErrUnsatisfiedOutlives || errs[0].Fr != a || errs[0].OutlivedFr != b {
		t.Fatalf("error = %+v, want 'a must outlive 'b", errs[0])
	}
}

func TestKnownOutlivesSuppressesError(t *testing.T) {
	tbl := regions.NewTable()
	a := tbl.NewUniversal("'a")
	b := tbl.NewUniversal("'b")
	tbl.AddKnownOutlives(a, b)
	e := tbl.NewExistential()

	set := constraints.NewSet()
	push(set, a, e)
	push(set, e, b)
	set.Link(tbl.Count())

	s := solve.New(set, tbl, nil)
	s.Solve()
	if errs := s.Errors(); len(errs) != 0 {
		t.Fatalf("declared 'a: 'b must satisfy the obligation, got %+v", errs)
	}
}

func TestStaticAbsorbsEverything(t *testing.T) {
	tbl := regions.NewTable()
	a := tbl.NewUniversal("'a")

	set := constraints.NewSet()
	push(set, regions.StaticVid, a)
	set.Link(tbl.Count())

	s := solve.New(set, tbl, nil)
	s.Solve()
	if !s.ContainsElement(regions.StaticVid, a) {
		t.Fatalf("'static must contain 'a after propagation")
	}
	if errs := s.Errors(); len(errs) != 0 {
		t.Fatalf("'static outlives everything, got %+v", errs)
	}
}

func TestUniverseViolation(t *testing.T) {
	tbl := regions.NewTable()
	u := tbl.NewUniversal("'u")
	child := tbl.NextUniverse()
	p := tbl.NewPlaceholder(child)
	e := tbl.NewExistential()

	set := constraints.NewSet()
	push(set, u, p)
	push(set, e, p)
	set.Link(tbl.Count())

	s := solve.New(set, tbl, nil)
	s.Solve()

	errs := s.Errors()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %+v", len(errs), errs)
	}
	for _, err := range errs {
		if err.Kind != solve.ErrUniverseViolation || err.OutlivedFr != p {
			t.Fatalf("error = %+v, want a universe violation against the placeholder", err)
		}
	}
	if errs[0].Fr != u || errs[1].Fr != e {
		t.Fatalf("errors = %+v, want them ordered by region", errs)
	}
}

func TestPlaceholderNameableInOwnUniverse(t *testing.T) {
	tbl := regions.NewTable()
	child := tbl.NextUniverse()
	p1 := tbl.NewPlaceholder(child)
	p2 := tbl.NewPlaceholder(child)

	set := constraints.NewSet()
	push(set, p1, p2)
	set.Link(tbl.Count())

	s := solve.New(set, tbl, nil)
	s.Solve()
	if errs := s.Errors(); len(errs) != 0 {
		t.Fatalf("a region may contain placeholders its universe can name, got %+v", errs)
	}
}

func TestContainsPointSeededFromLiveness(t *testing.T) {
	tbl := regions.NewTable()
	a := tbl.NewUniversal("'a")
	e1 := tbl.NewExistential()
	e2 := tbl.NewExistential()

	live := liveness.NewValues()
	live.AddLiveAt(e2, loc(0, 1))
	live.AddLiveAt(e2, loc(0, 2))

	set := constraints.NewSet()
	push(set, e1, e2)
	set.Link(tbl.Count())

	s := solve.New(set, tbl, live)
	s.Solve()

	if !s.ContainsPoint(e2, loc(0, 1)) || !s.ContainsPoint(e1, loc(0, 2)) {
		t.Fatalf("liveness points must seed and propagate")
	}
	if s.ContainsPoint(e1, loc(1, 0)) {
		t.Fatalf("unseeded point must stay out of the existential")
	}
	if !s.ContainsPoint(a, loc(1, 0)) {
		t.Fatalf("universal regions cover every point")
	}
}
