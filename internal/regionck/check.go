package regionck

import (
	"errors"
	"fmt"

	"ferrite/internal/blame"
	"ferrite/internal/constraints"
	"ferrite/internal/diag"
	"ferrite/internal/liveness"
	"ferrite/internal/mir"
	"ferrite/internal/regions"
	"ferrite/internal/relate"
	"ferrite/internal/solve"
	"ferrite/internal/source"
	"ferrite/internal/tys"
)

// Config wires one body check. Table must already hold the body's universal
// regions; Dropck and Init default to the structural and always-init
// implementations when nil.
type Config struct {
	Body   *mir.Body
	Types  *tys.Interner
	Table  *regions.Table
	Dropck liveness.Dropck
	Init   liveness.InitOracle

	// MaxDiags caps the bag; 0 means defaultMaxDiags.
	MaxDiags int
}

const defaultMaxDiags = 256

// Result is everything one body check produced. Set and Values stay around
// for inspection and for the dump surfaces.
type Result struct {
	Bag    *diag.Bag
	Set    *constraints.Set
	Values *liveness.Values
	Solver *solve.Solver
	Errors []solve.RegionError
}

// checker is the per-body pass state. It doubles as the relator delegate:
// constraints emitted while relating pick up the location, category and span
// staged for the current relation.
type checker struct {
	body  *mir.Body
	types *tys.Interner
	tbl   *regions.Table
	set   *constraints.Set
	vals  *liveness.Values

	curLoc  constraints.Locations
	curCat  constraints.Category
	curSpan source.Span
}

func (c *checker) PushOutlives(sup, sub regions.Vid) {
	c.set.Push(constraints.OutlivesConstraint{
		Sup:       sup,
		Sub:       sub,
		Locations: c.curLoc,
		Category:  c.curCat,
		Span:      c.curSpan,
	})
}

func (c *checker) NextExistential() regions.Vid                   { return c.tbl.NewExistential() }
func (c *checker) NextPlaceholder(u regions.Universe) regions.Vid { return c.tbl.NewPlaceholder(u) }
func (c *checker) NextUniverse() regions.Universe                 { return c.tbl.NextUniverse() }

// Check runs region inference over one body: collect subtyping and reborrow
// constraints from every statement and terminator, add liveness and dropck
// obligations, solve to a fixed point, and explain each containment failure.
func Check(cfg Config) *Result {
	if cfg.Dropck == nil {
		cfg.Dropck = liveness.StructuralDropck{Types: cfg.Types}
	}
	if cfg.Init == nil {
		cfg.Init = liveness.AlwaysInit{}
	}
	if cfg.MaxDiags <= 0 {
		cfg.MaxDiags = defaultMaxDiags
	}
	bag := diag.NewBag(cfg.MaxDiags)
	rep := diag.BagReporter{Bag: bag}

	c := &checker{
		body:  cfg.Body,
		types: cfg.Types,
		tbl:   cfg.Table,
		set:   constraints.NewSet(),
		vals:  liveness.NewValues(),
	}
	c.populate()

	liveness.Generate(liveness.Config{
		Body:     cfg.Body,
		Types:    cfg.Types,
		Values:   c.vals,
		Set:      c.set,
		Dropck:   cfg.Dropck,
		Init:     cfg.Init,
		Reporter: rep,
	})

	c.set.Link(cfg.Table.Count())

	solver := solve.New(c.set, cfg.Table, c.vals)
	solver.Solve()
	errs := solver.Errors()

	if len(errs) > 0 {
		eng := blame.New(c.set, cfg.Body, cfg.Table)
		counter := 0
		for _, re := range errs {
			eng.ReportOutlives(rep, re.Fr, re.OutlivedFr, &counter)
		}
	}
	bag.Sort()

	return &Result{
		Bag:    bag,
		Set:    c.set,
		Values: c.vals,
		Solver: solver,
		Errors: errs,
	}
}

// populate walks every point of the body once and emits the subtyping
// constraints its statements and terminators imply.
func (c *checker) populate() {
	for bi := range c.body.Blocks {
		bb := &c.body.Blocks[bi]
		for si := range bb.Stmts {
			loc := mir.Location{Block: bb.ID, Statement: uint32(si)} //nolint:gosec // block sizes are bounded
			c.visitStmt(&bb.Stmts[si], loc)
		}
		termLoc := mir.Location{Block: bb.ID, Statement: uint32(len(bb.Stmts))} //nolint:gosec // block sizes are bounded
		c.visitTerm(&bb.Term, termLoc)
	}
}

func (c *checker) visitStmt(s *mir.Stmt, loc mir.Location) {
	if s.Kind != mir.StmtAssign {
		return
	}
	srcTy := c.typeOfRValue(&s.Assign.Src, loc, s.Span)
	dstTy := c.typeOfPlace(s.Assign.Dst)
	if srcTy == tys.NoTypeID || dstTy == tys.NoTypeID {
		return
	}
	c.relateAt(srcTy, dstTy, loc, s.Span, true)
}

func (c *checker) visitTerm(t *mir.Terminator, loc mir.Location) {
	if t.Kind != mir.TermCall {
		return
	}
	fnTy := c.typeOfOperand(&t.Call.Func)
	fn := c.types.Get(fnTy)
	if fn.Kind != tys.KindFn {
		panic(fmt.Errorf("regionck: call through non-fn type %d at %s", fnTy, loc))
	}
	if len(fn.Elems) != len(t.Call.Args) {
		panic(fmt.Errorf("regionck: call arity %d vs %d at %s", len(t.Call.Args), len(fn.Elems), loc))
	}
	params, ret := c.instantiateFn(fn)
	for i := range t.Call.Args {
		argTy := c.typeOfOperand(&t.Call.Args[i])
		if argTy == tys.NoTypeID {
			continue
		}
		c.relateAt(argTy, params[i], loc, t.Span, true)
	}
	if t.Call.HasDst {
		dstTy := c.typeOfPlace(t.Call.Dst)
		if dstTy != tys.NoTypeID {
			c.relateAt(ret, dstTy, loc, t.Span, true)
		}
	}
}

// relateAt relates src <: dst covariantly at loc, staging the constraint
// origin the delegate stamps on every emitted edge.
func (c *checker) relateAt(src, dst tys.TypeID, loc mir.Location, span source.Span, interesting bool) {
	if interesting {
		c.curLoc = constraints.Single(loc)
		c.curCat = constraints.CategoryOther
	} else {
		c.curLoc = constraints.Boring(loc)
		c.curCat = constraints.CategoryBoring
	}
	c.curSpan = span

	rel := relate.New(c.types, c)
	if err := rel.Relate(src, dst, tys.Covariant); err != nil {
		if errors.Is(err, relate.ErrMismatch) {
			panic(fmt.Errorf("regionck: ill-typed assignment at %s: %w", loc, err))
		}
		panic(err)
	}
}

// instantiateFn strips the fn binder for a call site: every late-bound
// region becomes a fresh existential the solver is free to pick.
func (c *checker) instantiateFn(fn *tys.Type) (params []tys.TypeID, ret tys.TypeID) {
	if fn.Binders == 0 {
		return fn.Elems, fn.Ret
	}
	vars := make([]regions.Vid, fn.Binders)
	for i := range vars {
		vars[i] = c.tbl.NewExistential()
	}
	open := func(t tys.TypeID) tys.TypeID {
		return c.types.ReplaceRegions(t, func(r regions.Region, depth uint32) regions.Region {
			if r.Kind != regions.RegionBound || r.Depth != depth {
				return r
			}
			if int(r.Index) >= len(vars) {
				panic(fmt.Errorf("regionck: bound region index %d out of binder (%d vars)", r.Index, len(vars)))
			}
			return regions.Var(vars[r.Index])
		})
	}
	params = make([]tys.TypeID, len(fn.Elems))
	for i, p := range fn.Elems {
		params[i] = open(p)
	}
	return params, open(fn.Ret)
}

// typeOfRValue types the right-hand side. Borrows additionally emit the
// reborrow constraints chaining the new region to every reference the place
// path dereferences.
func (c *checker) typeOfRValue(rv *mir.RValue, loc mir.Location, span source.Span) tys.TypeID {
	switch rv.Kind {
	case mir.RValueUse:
		return c.typeOfOperand(&rv.Use)
	case mir.RValueCast:
		return rv.Cast.TargetTy
	case mir.RValueAggregate:
		c.relateAggregate(rv.Aggregate, loc, span)
		return rv.Aggregate.Ty
	case mir.RValueRef:
		elem := c.typeOfPlace(rv.Ref.Place)
		if elem == tys.NoTypeID {
			return tys.NoTypeID
		}
		c.pushReborrows(rv.Ref.Place, rv.Ref.Region, loc, span)
		return c.types.Intern(tys.MakeRef(regions.Var(rv.Ref.Region), elem, rv.Ref.Mut))
	}
	return tys.NoTypeID
}

// relateAggregate relates each element operand into the aggregate's declared
// element slot, so region-carrying elements constrain the aggregate type.
func (c *checker) relateAggregate(agg mir.AggregateOp, loc mir.Location, span source.Span) {
	ty := c.types.Get(agg.Ty)
	if ty.Kind != tys.KindTuple || len(ty.Elems) != len(agg.Elems) {
		return
	}
	for i := range agg.Elems {
		elemTy := c.typeOfOperand(&agg.Elems[i])
		if elemTy == tys.NoTypeID {
			continue
		}
		c.relateAt(elemTy, ty.Elems[i], loc, span, true)
	}
}

// pushReborrows walks the borrowed place's projection path and, for every
// reference dereferenced on the way, requires that reference's region to
// outlive the new borrow. These edges are plumbing, never blamed directly.
func (c *checker) pushReborrows(p mir.Place, borrow regions.Vid, loc mir.Location, span source.Span) {
	decl := c.body.LocalAt(p.Local)
	if decl == nil {
		return
	}
	cur := decl.Type
	for _, proj := range p.Proj {
		ty := c.types.Get(cur)
		switch proj.Kind {
		case mir.PlaceProjDeref:
			if ty.Kind != tys.KindRef {
				return
			}
			if ty.Region.Kind == regions.RegionVar || ty.Region.Kind == regions.RegionStatic {
				base := ty.Region.Vid
				if ty.Region.Kind == regions.RegionStatic {
					base = regions.StaticVid
				}
				c.set.Push(constraints.OutlivesConstraint{
					Sup:       base,
					Sub:       borrow,
					Locations: constraints.Boring(loc),
					Category:  constraints.CategoryBoring,
					Span:      span,
				})
			}
			cur = ty.Elem
		case mir.PlaceProjField:
			if ty.Kind != tys.KindTuple || proj.FieldIdx >= len(ty.Elems) {
				return
			}
			cur = ty.Elems[proj.FieldIdx]
		}
	}
}

func (c *checker) typeOfOperand(op *mir.Operand) tys.TypeID {
	if op.Kind == mir.OperandConst {
		return op.ConstType
	}
	return c.typeOfPlace(op.Place)
}

// typeOfPlace projects the local's declared type along the place path.
// A path the type cannot follow is an ICE: MIR reaching this pass is typed.
func (c *checker) typeOfPlace(p mir.Place) tys.TypeID {
	decl := c.body.LocalAt(p.Local)
	if decl == nil {
		return tys.NoTypeID
	}
	cur := decl.Type
	for _, proj := range p.Proj {
		ty := c.types.Get(cur)
		switch proj.Kind {
		case mir.PlaceProjDeref:
			if ty.Kind != tys.KindRef {
				panic(fmt.Errorf("regionck: deref of non-reference type %d in %s", cur, c.body.Name))
			}
			cur = ty.Elem
		case mir.PlaceProjField:
			if ty.Kind != tys.KindTuple || proj.FieldIdx >= len(ty.Elems) {
				panic(fmt.Errorf("regionck: field %d of non-tuple type %d in %s", proj.FieldIdx, cur, c.body.Name))
			}
			cur = ty.Elems[proj.FieldIdx]
		}
	}
	return cur
}
