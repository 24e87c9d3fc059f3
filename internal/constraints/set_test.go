package constraints_test

import (
	"testing"

	"ferrite/internal/constraints"
	"ferrite/internal/mir"
	"ferrite/internal/regions"
)

func edge(sup, sub regions.Vid) constraints.OutlivesConstraint {
	return constraints.OutlivesConstraint{
		Sup:       sup,
		Sub:       sub,
		Locations: constraints.Single(mir.Location{Block: 0, Statement: 0}),
	}
}

func TestPushDeduplicates(t *testing.T) {
	s := constraints.NewSet()
	if !s.Push(edge(1, 2)) {
		t.Fatalf("first push must be stored")
	}
	if s.Push(edge(1, 2)) {
		t.Fatalf("duplicate edge must be dropped")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	loops, dups := s.Discarded()
	if loops != 0 || dups != 1 {
		t.Fatalf("Discarded = (%d, %d), want (0, 1)", loops, dups)
	}
}

func TestPushRejectsSelfLoop(t *testing.T) {
	s := constraints.NewSet()
	if s.Push(edge(3, 3)) {
		t.Fatalf("self-loop must be dropped")
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
	loops, dups := s.Discarded()
	if loops != 1 || dups != 0 {
		t.Fatalf("Discarded = (%d, %d), want (1, 0)", loops, dups)
	}
}

func TestDuplicateKeepsFirstCause(t *testing.T) {
	s := constraints.NewSet()
	first := edge(1, 2)
	first.Category = constraints.CategoryReturn
	second := edge(1, 2)
	second.Category = constraints.CategoryCast
	s.Push(first)
	s.Push(second)
	if got := s.Get(0).Category; got != constraints.CategoryReturn {
		t.Fatalf("stored category = %v, want the first push's %v", got, constraints.CategoryReturn)
	}
}

func TestLinkBuildsSubAdjacency(t *testing.T) {
	s := constraints.NewSet()
	s.Push(edge(1, 0)) // #0
	s.Push(edge(2, 0)) // #1
	s.Push(edge(2, 1)) // #2
	s.Link(4)
	if !s.Linked() {
		t.Fatalf("Linked() must report true after Link")
	}

	var got []constraints.ConstraintIndex
	s.EachAffectedByDirty(0, func(ci constraints.ConstraintIndex, c *constraints.OutlivesConstraint) {
		if c.Sub != 0 {
			t.Fatalf("constraint #%d has sub '%d, want '0", ci, c.Sub)
		}
		got = append(got, ci)
	})
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("affected by '0 = %v, want [0 1]", got)
	}

	got = got[:0]
	s.EachAffectedByDirty(1, func(ci constraints.ConstraintIndex, _ *constraints.OutlivesConstraint) {
		got = append(got, ci)
	})
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("affected by '1 = %v, want [2]", got)
	}

	s.EachAffectedByDirty(3, func(constraints.ConstraintIndex, *constraints.OutlivesConstraint) {
		t.Fatalf("'3 has no incoming constraints")
	})
}

func TestAdjacencyWalkBeforeLinkPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("EachAffectedByDirty before Link must panic")
		}
	}()
	s := constraints.NewSet()
	s.Push(edge(1, 0))
	s.EachAffectedByDirty(0, func(constraints.ConstraintIndex, *constraints.OutlivesConstraint) {})
}

func TestPushAfterLinkPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Push after Link must panic")
		}
	}()
	s := constraints.NewSet()
	s.Push(edge(1, 0))
	s.Link(2)
	s.Push(edge(0, 1))
}

func TestLinkTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("second Link must panic")
		}
	}()
	s := constraints.NewSet()
	s.Link(1)
	s.Link(1)
}

func TestGraphOutgoing(t *testing.T) {
	s := constraints.NewSet()
	s.Push(edge(1, 0)) // #0
	s.Push(edge(1, 2)) // #1
	s.Push(edge(2, 0)) // #2
	g := constraints.NewGraph(s, 3)

	var subs []regions.Vid
	g.EachOutgoing(s, 1, func(_ constraints.ConstraintIndex, c *constraints.OutlivesConstraint) {
		if c.Sup != 1 {
			t.Fatalf("outgoing edge of '1 has sup '%d", c.Sup)
		}
		subs = append(subs, c.Sub)
	})
	if len(subs) != 2 || subs[0] != 0 || subs[1] != 2 {
		t.Fatalf("outgoing subs of '1 = %v, want [0 2]", subs)
	}

	g.EachOutgoing(s, 0, func(constraints.ConstraintIndex, *constraints.OutlivesConstraint) {
		t.Fatalf("'0 has no outgoing constraints")
	})
}

func TestCategoryRanking(t *testing.T) {
	order := []constraints.Category{
		constraints.CategoryCast,
		constraints.CategoryAssignment,
		constraints.CategoryAssignmentToUpvar,
		constraints.CategoryReturn,
		constraints.CategoryCallArgumentToUpvar,
		constraints.CategoryCallArgument,
		constraints.CategoryOther,
		constraints.CategoryBoring,
	}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Fatalf("%v must rank before %v", order[i-1], order[i])
		}
	}
}

func TestCategoryUpvarUpgrade(t *testing.T) {
	if got := constraints.CategoryAssignment.ToUpvar(); got != constraints.CategoryAssignmentToUpvar {
		t.Fatalf("assignment upgrade = %v", got)
	}
	if got := constraints.CategoryCallArgument.ToUpvar(); got != constraints.CategoryCallArgumentToUpvar {
		t.Fatalf("call-argument upgrade = %v", got)
	}
	if constraints.CategoryReturn.IsUpvarUpgradable() {
		t.Fatalf("return must not be upgradable")
	}
	if got := constraints.CategoryReturn.ToUpvar(); got != constraints.CategoryReturn {
		t.Fatalf("non-upgradable category changed: %v", got)
	}
}
