package solve

import (
	"sort"

	"ferrite/internal/constraints"
	"ferrite/internal/liveness"
	"ferrite/internal/mir"
	"ferrite/internal/regions"
)

// value is the inferred extent of one region: the program points it must
// cover plus the universal and placeholder elements it must contain.
type value struct {
	points map[mir.Location]struct{}
	elems  map[regions.Vid]struct{}
}

func newValue() value {
	return value{
		points: make(map[mir.Location]struct{}),
		elems:  make(map[regions.Vid]struct{}),
	}
}

// ErrorKind distinguishes the containment failures the solver can find.
type ErrorKind uint8

const (
	// ErrUnsatisfiedOutlives: a universal region would have to outlive
	// another universal region with no declared relationship.
	ErrUnsatisfiedOutlives ErrorKind = iota
	// ErrUniverseViolation: a region picked up a placeholder from a
	// universe it cannot name.
	ErrUniverseViolation
)

// RegionError is one containment failure, expressed as the query the blame
// engine answers: why must Fr outlive OutlivedFr.
type RegionError struct {
	Kind       ErrorKind
	Fr         regions.Vid
	OutlivedFr regions.Vid
}

// Solver computes the minimal region values satisfying a linked constraint
// set, then checks them against the declared universal relationships.
type Solver struct {
	set    *constraints.Set
	tbl    *regions.Table
	values []value
}

// New seeds the solver: universal regions and placeholders contain
// themselves, and every liveness point joins its region's value.
func New(set *constraints.Set, tbl *regions.Table, live *liveness.Values) *Solver {
	s := &Solver{
		set:    set,
		tbl:    tbl,
		values: make([]value, tbl.Count()),
	}
	for v := range s.values {
		s.values[v] = newValue()
		vid := regions.Vid(v) //nolint:gosec // table vids are int32-bounded
		if tbl.IsUniversal(vid) || tbl.IsPlaceholder(vid) {
			s.values[v].elems[vid] = struct{}{}
		}
	}
	if live != nil {
		live.EachRegion(func(vid regions.Vid) {
			live.EachPoint(vid, func(loc mir.Location) {
				s.values[vid].points[loc] = struct{}{}
			})
		})
	}
	return s
}

// Solve propagates values to the least fixed point: for every constraint
// sup: sub, sup's value must contain sub's. Dirty regions requeue only the
// constraints their change affects.
func (s *Solver) Solve() {
	dirty := make([]regions.Vid, 0, len(s.values))
	queued := make([]bool, len(s.values))
	for v := range s.values {
		dirty = append(dirty, regions.Vid(v)) //nolint:gosec // table vids are int32-bounded
		queued[v] = true
	}
	for len(dirty) > 0 {
		r := dirty[len(dirty)-1]
		dirty = dirty[:len(dirty)-1]
		queued[r] = false

		s.set.EachAffectedByDirty(r, func(_ constraints.ConstraintIndex, c *constraints.OutlivesConstraint) {
			if s.union(c.Sup, c.Sub) && !queued[c.Sup] {
				queued[c.Sup] = true
				dirty = append(dirty, c.Sup)
			}
		})
	}
}

// union folds sub's value into sup's, reporting whether sup grew.
func (s *Solver) union(sup, sub regions.Vid) bool {
	changed := false
	dst := &s.values[sup]
	src := &s.values[sub]
	for loc := range src.points {
		if _, ok := dst.points[loc]; !ok {
			dst.points[loc] = struct{}{}
			changed = true
		}
	}
	for el := range src.elems {
		if _, ok := dst.elems[el]; !ok {
			dst.elems[el] = struct{}{}
			changed = true
		}
	}
	return changed
}

// ContainsPoint reports whether v's computed value covers loc.
func (s *Solver) ContainsPoint(v regions.Vid, loc mir.Location) bool {
	if s.tbl.IsUniversal(v) {
		return true
	}
	_, ok := s.values[v].points[loc]
	return ok
}

// ContainsElement reports whether v's computed value contains the region
// element el.
func (s *Solver) ContainsElement(v, el regions.Vid) bool {
	_, ok := s.values[v].elems[el]
	return ok
}

// Errors checks the solved values and returns every containment failure in
// a deterministic order.
func (s *Solver) Errors() []RegionError {
	var errs []RegionError
	for v := range s.values {
		vid := regions.Vid(v) //nolint:gosec // table vids are int32-bounded
		for _, el := range s.sortedElems(vid) {
			if el == vid {
				continue
			}
			if s.tbl.IsPlaceholder(el) && !s.tbl.Universe(vid).CanName(s.tbl.Universe(el)) {
				errs = append(errs, RegionError{Kind: ErrUniverseViolation, Fr: vid, OutlivedFr: el})
				continue
			}
			if s.tbl.IsUniversal(vid) && s.tbl.IsUniversal(el) && !s.tbl.KnownOutlives(vid, el) {
				errs = append(errs, RegionError{Kind: ErrUnsatisfiedOutlives, Fr: vid, OutlivedFr: el})
			}
		}
	}
	return errs
}

func (s *Solver) sortedElems(v regions.Vid) []regions.Vid {
	elems := make([]regions.Vid, 0, len(s.values[v].elems))
	for el := range s.values[v].elems {
		elems = append(elems, el)
	}
	sort.Slice(elems, func(i, j int) bool { return elems[i] < elems[j] })
	return elems
}
