package constraints

import (
	"fmt"

	"ferrite/internal/mir"
	"ferrite/internal/regions"
	"ferrite/internal/source"
)

// ConstraintIndex addresses a constraint stably for the lifetime of a Set.
type ConstraintIndex int32

// NoConstraintIndex terminates intrusive constraint lists.
const NoConstraintIndex ConstraintIndex = -1

// Locations records where a constraint came from. All marks constraints
// that hold at every point (liveness and dropck obligations); otherwise From
// is the single program point the producer related types at. Interesting
// distinguishes user-relevant constraints from mechanical ones (reborrow
// plumbing); only interesting single-location edges are classified against
// the MIR during blame.
type Locations struct {
	All         bool
	From        mir.Location
	Interesting bool
}

// Single builds an interesting single-location origin.
func Single(from mir.Location) Locations {
	return Locations{From: from, Interesting: true}
}

// Boring builds an uninteresting single-location origin.
func Boring(from mir.Location) Locations {
	return Locations{From: from}
}

// All holds at every point of the body.
func All() Locations {
	return Locations{All: true}
}

// OutlivesConstraint asserts Sup outlives Sub: every point and region
// element of Sub's value must be contained in Sup's.
type OutlivesConstraint struct {
	Sup regions.Vid
	Sub regions.Vid

	Locations Locations
	Category  Category
	Span      source.Span

	// next links constraints sharing the same Sub, set by Set.Link.
	next ConstraintIndex
}

func (c OutlivesConstraint) String() string {
	return fmt.Sprintf("'%d: '%d (%s)", c.Sup, c.Sub, c.Category)
}
