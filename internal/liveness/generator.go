package liveness

import (
	"fmt"

	"fortio.org/safecast"

	"ferrite/internal/constraints"
	"ferrite/internal/diag"
	"ferrite/internal/mir"
	"ferrite/internal/regions"
	"ferrite/internal/tys"
)

// Config carries everything one liveness generation pass needs. The pass
// owns nothing: values and the constraint set belong to the caller.
type Config struct {
	Body     *mir.Body
	Types    *tys.Interner
	Values   *Values
	Set      *constraints.Set
	Dropck   Dropck
	Init     InitOracle
	Reporter diag.Reporter
}

// Generator populates liveness obligations for one body: regular liveness
// forces every region of a used local's type live, drop liveness forces
// only what the memoized dropck result demands.
type Generator struct {
	cfg  Config
	flow []blockFlow

	dropData         map[tys.TypeID]*DropData
	overflowReported map[tys.TypeID]bool
}

// Generate runs both liveness walks over the body.
func Generate(cfg Config) {
	g := &Generator{
		cfg:              cfg,
		flow:             computeFlow(cfg.Body),
		dropData:         make(map[tys.TypeID]*DropData),
		overflowReported: make(map[tys.TypeID]bool),
	}
	for i := range cfg.Body.Blocks {
		g.walkBlock(&cfg.Body.Blocks[i], &g.flow[i])
	}
}

// walkBlock visits the block's points backward, maintaining the live and
// drop-live sets, and records obligations at every point. Both sets only
// ever feed additions into Values.
func (g *Generator) walkBlock(bb *mir.Block, flow *blockFlow) {
	live := cloneSet(flow.liveOut)
	dropLive := cloneSet(flow.dropOut)

	for idx := len(bb.Stmts); idx >= 0; idx-- {
		raw, err := safecast.Conv[uint32](idx)
		if err != nil {
			panic(fmt.Errorf("liveness: statement index overflow: %w", err))
		}
		loc := mir.Location{Block: bb.ID, Statement: raw}

		var use, def, dropUse localSet
		if idx == len(bb.Stmts) {
			use, def, dropUse = pointUseDef(g.cfg.Body, nil, &bb.Term)
		} else {
			use, def, dropUse = pointUseDef(g.cfg.Body, &bb.Stmts[idx], nil)
		}

		live = unionSet(cloneSet(use), subtractSet(live, def))
		dropLive = unionSet(cloneSet(dropUse), subtractSet(dropLive, def))

		for l := range live {
			g.pushTypeLiveConstraint(l, loc)
		}
		for l := range dropLive {
			if g.cfg.Init != nil && !g.cfg.Init.MayInit(l, loc) {
				continue
			}
			g.pushDropLiveConstraint(l, loc)
		}
	}
}

// pushTypeLiveConstraint forces every region of the local's type live at
// loc: the value may still be read there.
func (g *Generator) pushTypeLiveConstraint(l mir.LocalID, loc mir.Location) {
	decl := g.cfg.Body.LocalAt(l)
	if decl == nil || decl.Type == tys.NoTypeID {
		return
	}
	g.cfg.Types.EachFreeVar(decl.Type, func(v regions.Vid) {
		g.cfg.Values.AddLiveAt(v, loc)
	})
}

// pushDropLiveConstraint forces live only what the dropck result for the
// local's type names; destructor-dangling regions are already absent from
// that result.
func (g *Generator) pushDropLiveConstraint(l mir.LocalID, loc mir.Location) {
	decl := g.cfg.Body.LocalAt(l)
	if decl == nil || decl.Type == tys.NoTypeID {
		return
	}
	dd := g.dropDataFor(decl.Type, l)
	for _, v := range dd.Result.Regions {
		g.cfg.Values.AddLiveAt(v, loc)
	}
	for _, t := range dd.Result.Types {
		g.cfg.Types.EachFreeVar(t, func(v regions.Vid) {
			g.cfg.Values.AddLiveAt(v, loc)
		})
	}
}

// dropDataFor memoizes the dropck query per dropped type for the pass.
// Auxiliary constraints ride along once, when the entry is created, and an
// overflowed query is reported once per offending type; analysis continues
// with the partial result.
func (g *Generator) dropDataFor(t tys.TypeID, l mir.LocalID) *DropData {
	if dd, ok := g.dropData[t]; ok {
		return dd
	}
	dd := &DropData{Result: g.cfg.Dropck.DropckOutlives(t)}
	g.dropData[t] = dd

	for _, pair := range dd.Result.Constraints {
		g.cfg.Set.Push(constraints.OutlivesConstraint{
			Sup:       pair.Sup,
			Sub:       pair.Sub,
			Locations: constraints.All(),
			Category:  constraints.CategoryBoring,
		})
	}
	if dd.Result.Overflowed && !g.overflowReported[t] {
		g.overflowReported[t] = true
		span := g.cfg.Body.Span
		if decl := g.cfg.Body.LocalAt(l); decl != nil {
			span = decl.Span
		}
		diag.ReportError(g.cfg.Reporter, diag.RegionDropCheckOverflow, span,
			fmt.Sprintf("overflow while checking whether `%s` requires drop", typeName(g.cfg.Types, t))).
			Emit()
	}
	return dd
}

func typeName(in *tys.Interner, t tys.TypeID) string {
	ty := in.Get(t)
	if ty.Kind == tys.KindAdt {
		if info := in.Adt(ty.Adt); info != nil && info.Name != "" {
			return info.Name
		}
	}
	return fmt.Sprintf("ty%d", t)
}
