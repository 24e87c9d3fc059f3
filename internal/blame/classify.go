package blame

import (
	"sort"

	"ferrite/internal/constraints"
	"ferrite/internal/mir"
	"ferrite/internal/regions"
	"ferrite/internal/source"
)

// Classify determines the syntactic category of one constraint by
// inspecting the MIR at its recorded location. Edges tagged uninteresting
// by their producer stay Boring no matter what the statement looks like.
func (e *Engine) Classify(ci constraints.ConstraintIndex) constraints.Category {
	c := e.set.Get(ci)
	if c.Locations.All || !c.Locations.Interesting || c.Category == constraints.CategoryBoring {
		return constraints.CategoryBoring
	}
	loc := c.Locations.From

	if s := e.body.StmtAt(loc); s != nil && s.Kind == mir.StmtAssign {
		if e.body.IsReturnPlace(s.Assign.Dst) {
			return constraints.CategoryReturn
		}
		switch s.Assign.Src.Kind {
		case mir.RValueCast:
			return constraints.CategoryCast
		case mir.RValueUse, mir.RValueAggregate:
			return constraints.CategoryAssignment
		}
		return e.fallback(c)
	}
	if t := e.body.TermAt(loc); t != nil && t.Kind == mir.TermCall {
		return constraints.CategoryCallArgument
	}
	return e.fallback(c)
}

// fallback keeps the producer-specified category when the MIR at the
// location offers nothing more specific.
func (e *Engine) fallback(c *constraints.OutlivesConstraint) constraints.Category {
	return c.Category
}

// BlamedConstraint is the chosen explanation for a path.
type BlamedConstraint struct {
	Index    constraints.ConstraintIndex
	Category constraints.Category
	Span     source.Span
}

// BestBlame classifies every edge of a shortest path, upgrades
// assignment/call-argument edges to their *ToUpvar variants when the
// constrained region is local to the body while the outlived one is not,
// and picks the most specific category. Ties keep discovery order.
func (e *Engine) BestBlame(path []constraints.ConstraintIndex, fr, outlivedFr regions.Vid) BlamedConstraint {
	upgrade := e.tbl.IsLocal(fr) && !e.tbl.IsLocal(outlivedFr)

	blamed := make([]BlamedConstraint, 0, len(path))
	for _, ci := range path {
		cat := e.Classify(ci)
		if upgrade && cat.IsUpvarUpgradable() {
			cat = cat.ToUpvar()
		}
		span := e.spanOf(ci)
		blamed = append(blamed, BlamedConstraint{Index: ci, Category: cat, Span: span})
	}
	sort.SliceStable(blamed, func(i, j int) bool {
		return blamed[i].Category < blamed[j].Category
	})
	if len(blamed) == 0 {
		return BlamedConstraint{Index: constraints.NoConstraintIndex, Category: constraints.CategoryBoring, Span: e.body.Span}
	}
	return blamed[0]
}

func (e *Engine) spanOf(ci constraints.ConstraintIndex) source.Span {
	c := e.set.Get(ci)
	if !c.Span.Empty() || c.Span.File != source.NoFileID {
		return c.Span
	}
	if !c.Locations.All {
		return e.body.SpanAt(c.Locations.From)
	}
	return e.body.Span
}
