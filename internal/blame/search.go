package blame

import (
	"fmt"

	"ferrite/internal/constraints"
	"ferrite/internal/mir"
	"ferrite/internal/regions"
)

// traceKind is the visit state of a region during one search.
type traceKind uint8

const (
	traceNotVisited traceKind = iota
	traceStartRegion
	traceFromConstraint
)

type trace struct {
	kind traceKind
	edge constraints.ConstraintIndex
}

// Engine answers "why must this region outlive that one" queries against a
// populated constraint set.
type Engine struct {
	set   *constraints.Set
	graph *constraints.Graph
	body  *mir.Body
	tbl   *regions.Table
}

func New(set *constraints.Set, body *mir.Body, tbl *regions.Table) *Engine {
	return &Engine{
		set:   set,
		graph: constraints.NewGraph(set, tbl.Count()),
		body:  body,
		tbl:   tbl,
	}
}

// FindConstraintPaths searches breadth-first from fromRegion along the
// forward edges until targetTest passes, so the reconstructed path is a
// shortest path. It returns the path root-first plus the region that
// matched; ok is false when no reachable region satisfies the test.
func (e *Engine) FindConstraintPaths(fromRegion regions.Vid, targetTest func(regions.Vid) bool) (path []constraints.ConstraintIndex, found regions.Vid, ok bool) {
	ctx := make([]trace, e.tbl.Count())
	ctx[fromRegion] = trace{kind: traceStartRegion}

	queue := []regions.Vid{fromRegion}
	for head := 0; head < len(queue); head++ {
		r := queue[head]
		if targetTest(r) {
			return e.reconstruct(ctx, r), r, true
		}
		e.graph.EachOutgoing(e.set, r, func(ci constraints.ConstraintIndex, c *constraints.OutlivesConstraint) {
			if c.Sup != r {
				panic(fmt.Errorf("blame: edge %d leaves '%d but records sup '%d", ci, r, c.Sup))
			}
			if ctx[c.Sub].kind != traceNotVisited {
				return
			}
			ctx[c.Sub] = trace{kind: traceFromConstraint, edge: ci}
			queue = append(queue, c.Sub)
		})
	}
	return nil, regions.NoVid, false
}

// reconstruct walks the back-pointers from the found region to the start,
// then reverses into root-to-target order.
func (e *Engine) reconstruct(ctx []trace, found regions.Vid) []constraints.ConstraintIndex {
	var rev []constraints.ConstraintIndex
	r := found
	for {
		t := ctx[r]
		switch t.kind {
		case traceStartRegion:
			for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
				rev[i], rev[j] = rev[j], rev[i]
			}
			return rev
		case traceFromConstraint:
			rev = append(rev, t.edge)
			r = e.set.Get(t.edge).Sup
		default:
			panic(fmt.Errorf("blame: unvisited region '%d on reconstructed path", r))
		}
	}
}
