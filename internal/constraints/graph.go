package constraints

import (
	"fmt"

	"ferrite/internal/regions"
)

// Graph is the forward adjacency over a linked Set: for each region R, the
// constraints with Sup == R. The edge for "R: S" points from R to S, which
// is the direction blame search walks. Separate head/next arrays keep the
// Set's own intrusive links untouched.
type Graph struct {
	heads []ConstraintIndex
	next  []ConstraintIndex
}

// NewGraph indexes the set by Sup in one reverse scan.
func NewGraph(s *Set, regionCount int) *Graph {
	g := &Graph{
		heads: make([]ConstraintIndex, regionCount),
		next:  make([]ConstraintIndex, s.Len()),
	}
	for i := range g.heads {
		g.heads[i] = NoConstraintIndex
	}
	for i := s.Len() - 1; i >= 0; i-- {
		ci := ConstraintIndex(i) //nolint:gosec // bounded by Push overflow check
		c := s.Get(ci)
		if int(c.Sup) >= regionCount {
			panic(fmt.Errorf("constraints: sup '%d out of range (%d regions)", c.Sup, regionCount))
		}
		g.next[i] = g.heads[c.Sup]
		g.heads[c.Sup] = ci
	}
	return g
}

// EachOutgoing walks the constraints leaving r, i.e. those with Sup == r.
func (g *Graph) EachOutgoing(s *Set, r regions.Vid, f func(ci ConstraintIndex, c *OutlivesConstraint)) {
	if r == regions.NoVid || int(r) >= len(g.heads) {
		return
	}
	for ci := g.heads[r]; ci != NoConstraintIndex; ci = g.next[ci] {
		f(ci, s.Get(ci))
	}
}
