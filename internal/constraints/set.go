package constraints

import (
	"fmt"

	"fortio.org/safecast"

	"ferrite/internal/regions"
)

type edgeKey struct {
	sup, sub regions.Vid
}

// Set is the append-only, deduplicated store of outlives constraints for one
// function-body analysis. It is populated during the analysis walk, linked
// once, then read-only for the solver and the blame engine.
type Set struct {
	constraints []OutlivesConstraint
	seen        map[edgeKey]struct{}

	heads  []ConstraintIndex
	linked bool

	droppedLoops int
	droppedDups  int
}

func NewSet() *Set {
	return &Set{
		seen: make(map[edgeKey]struct{}),
	}
}

// Push appends a constraint. Self-loops and already-seen (Sup, Sub) edges
// are silently discarded: only edge existence matters, and the first cause
// wins for explanation purposes. Returns whether the constraint was stored.
func (s *Set) Push(c OutlivesConstraint) bool {
	if s.linked {
		panic(fmt.Errorf("constraints: push after link"))
	}
	if c.Sup == c.Sub {
		s.droppedLoops++
		return false
	}
	key := edgeKey{sup: c.Sup, sub: c.Sub}
	if _, ok := s.seen[key]; ok {
		s.droppedDups++
		return false
	}
	s.seen[key] = struct{}{}
	if _, err := safecast.Conv[int32](len(s.constraints)); err != nil {
		panic(fmt.Errorf("constraints: index overflow: %w", err))
	}
	c.next = NoConstraintIndex
	s.constraints = append(s.constraints, c)
	return true
}

// Len returns the number of stored constraints.
func (s *Set) Len() int {
	return len(s.constraints)
}

// Get returns the constraint at ci. The result aliases set storage.
func (s *Set) Get(ci ConstraintIndex) *OutlivesConstraint {
	if ci == NoConstraintIndex || int(ci) >= len(s.constraints) {
		panic(fmt.Errorf("constraints: unknown index %d", ci))
	}
	return &s.constraints[ci]
}

// Each invokes f for every constraint in insertion order.
func (s *Set) Each(f func(ci ConstraintIndex, c *OutlivesConstraint)) {
	for i := range s.constraints {
		f(ConstraintIndex(i), &s.constraints[i]) //nolint:gosec // bounded by Push overflow check
	}
}

// Link builds, for every region, the head of its "what outlives me" list in
// one reverse scan, so that all constraints sharing a Sub are reachable in
// O(degree). Must be called exactly once, after the last Push.
func (s *Set) Link(regionCount int) {
	if s.linked {
		panic(fmt.Errorf("constraints: link called twice"))
	}
	s.linked = true
	s.heads = make([]ConstraintIndex, regionCount)
	for i := range s.heads {
		s.heads[i] = NoConstraintIndex
	}
	for i := len(s.constraints) - 1; i >= 0; i-- {
		c := &s.constraints[i]
		if int(c.Sub) >= regionCount {
			panic(fmt.Errorf("constraints: sub '%d out of range (%d regions)", c.Sub, regionCount))
		}
		c.next = s.heads[c.Sub]
		s.heads[c.Sub] = ConstraintIndex(i) //nolint:gosec // bounded by Push overflow check
	}
}

// Linked reports whether Link already ran.
func (s *Set) Linked() bool {
	return s.linked
}

// EachAffectedByDirty walks the constraints whose Sub is dirty, i.e. those a
// demand-driven solver must revisit after dirty's value changed.
func (s *Set) EachAffectedByDirty(dirty regions.Vid, f func(ci ConstraintIndex, c *OutlivesConstraint)) {
	if !s.linked {
		panic(fmt.Errorf("constraints: adjacency walk before link"))
	}
	if dirty == regions.NoVid || int(dirty) >= len(s.heads) {
		return
	}
	for ci := s.heads[dirty]; ci != NoConstraintIndex; ci = s.constraints[ci].next {
		f(ci, &s.constraints[ci])
	}
}

// Discarded returns how many pushes were dropped as self-loops and as
// duplicate edges. Debug-only accounting; nothing downstream depends on it.
func (s *Set) Discarded() (selfLoops, duplicates int) {
	return s.droppedLoops, s.droppedDups
}
