package testkit

import (
	"fmt"
	"strings"

	"ferrite/internal/mir"
	"ferrite/internal/regions"
	"ferrite/internal/source"
	"ferrite/internal/tys"
)

// Fixture is a self-contained body plus the environment it is checked
// under. Fixtures are shared by tests and by the showcase CLI surfaces.
type Fixture struct {
	Name  string
	Files *source.FileSet
	Types *tys.Interner
	Table *regions.Table
	Body  *mir.Body
}

// spanOf locates the first occurrence of needle in the fixture source.
// Panics on a miss: fixture text and fixture MIR must stay in sync.
func spanOf(file source.FileID, text, needle string) source.Span {
	idx := strings.Index(text, needle)
	if idx < 0 {
		panic(fmt.Errorf("testkit: %q not found in fixture source", needle))
	}
	return source.Span{File: file, Start: uint32(idx), End: uint32(idx + len(needle))} //nolint:gosec // fixture sources are tiny
}

// UnrelatedLifetimes models returning a borrow of the wrong lifetime:
//
//	fn choose(x: &'a Int, y: &'b Int) -> &'a Int { return y }
//
// Nothing declares 'a: 'b, so the check must report one unsatisfied
// lifetime at the return.
func UnrelatedLifetimes() *Fixture {
	text := "fn choose(x: &'a Int, y: &'b Int) -> &'a Int {\n    return y\n}\n"
	files := source.NewFileSet()
	fid := files.Add("choose.fe", []byte(text))

	types := tys.NewInterner()
	tbl := regions.NewTable()
	ra := tbl.NewUniversal("'a")
	rb := tbl.NewUniversal("'b")

	intTy := types.Builtins().Int
	refA := types.Intern(tys.MakeRef(regions.Var(ra), intTy, false))
	refB := types.Intern(tys.MakeRef(regions.Var(rb), intTy, false))

	retStmt := spanOf(fid, text, "return y")
	body := &mir.Body{
		Name: "choose",
		Span: source.Span{File: fid, Start: 0, End: uint32(len(text))}, //nolint:gosec // fixture sources are tiny
		Locals: []mir.Local{
			{Name: "<ret>", Type: refA, Span: spanOf(fid, text, "-> &'a Int")},
			{Name: "x", Type: refA, Span: spanOf(fid, text, "x: &'a Int")},
			{Name: "y", Type: refB, Span: spanOf(fid, text, "y: &'b Int")},
		},
		Blocks: []mir.Block{
			{
				ID: 0,
				Stmts: []mir.Stmt{
					{
						Kind: mir.StmtAssign,
						Assign: mir.AssignStmt{
							Dst: mir.PlaceLocal(0),
							Src: mir.RValue{Kind: mir.RValueUse, Use: mir.CopyOperand(mir.PlaceLocal(2))},
						},
						Span: retStmt,
					},
				},
				Term: mir.Terminator{Kind: mir.TermReturn, Span: retStmt},
			},
		},
		Entry:       0,
		ReturnLocal: 0,
	}
	return &Fixture{Name: "unrelated-lifetimes", Files: files, Types: types, Table: tbl, Body: body}
}

// ClosureEscape models a borrow escaping through a captured reference:
//
//	|x: &Int| { *out = x }
//
// out is captured from the enclosing function, so storing the
// closure-local borrow x through it must be reported as an escape.
func ClosureEscape() *Fixture {
	text := "fn retain(out: &'env mut &'out Int) {\n    let f = |x: &Int| { *out = x };\n}\n"
	files := source.NewFileSet()
	fid := files.Add("retain.fe", []byte(text))

	types := tys.NewInterner()
	tbl := regions.NewTable()
	rEnv := tbl.NewExternal("'env", "")
	rOut := tbl.NewExternal("'out", "out")
	rx := tbl.NewUniversal("'x")

	intTy := types.Builtins().Int
	refOut := types.Intern(tys.MakeRef(regions.Var(rOut), intTy, false))
	refEnv := types.Intern(tys.MakeRef(regions.Var(rEnv), refOut, true))
	refX := types.Intern(tys.MakeRef(regions.Var(rx), intTy, false))

	store := spanOf(fid, text, "*out = x")
	body := &mir.Body{
		Name: "retain::{closure}",
		Span: spanOf(fid, text, "|x: &Int| { *out = x }"),
		Locals: []mir.Local{
			{Name: "<ret>", Type: types.Builtins().Unit, Span: store},
			{Name: "out", Type: refEnv, Span: spanOf(fid, text, "out: &'env mut &'out Int")},
			{Name: "x", Type: refX, Span: spanOf(fid, text, "x: &Int")},
		},
		Blocks: []mir.Block{
			{
				ID: 0,
				Stmts: []mir.Stmt{
					{
						Kind: mir.StmtAssign,
						Assign: mir.AssignStmt{
							Dst: mir.PlaceLocal(1).Deref(),
							Src: mir.RValue{Kind: mir.RValueUse, Use: mir.CopyOperand(mir.PlaceLocal(2))},
						},
						Span: store,
					},
				},
				Term: mir.Terminator{Kind: mir.TermReturn, Span: store},
			},
		},
		Entry:       0,
		ReturnLocal: 0,
	}
	return &Fixture{Name: "closure-escape", Files: files, Types: types, Table: tbl, Body: body}
}

// DestructorObservesRegion models a type whose destructor observes a
// borrowed region:
//
//	let guard = Guard(&data); ...; drop(guard)
//
// Drop liveness must keep the borrow's region live up to the drop without
// reporting anything.
func DestructorObservesRegion() *Fixture {
	text := "fn scoped() {\n    let data = 1;\n    let guard = Guard(&data);\n    drop(guard)\n}\n"
	files := source.NewFileSet()
	fid := files.Add("scoped.fe", []byte(text))

	types := tys.NewInterner()
	tbl := regions.NewTable()
	rg := tbl.NewExistential()

	intTy := types.Builtins().Int
	adt := types.NewAdt(tys.AdtInfo{
		Name:            "Guard",
		RegionVariances: []tys.Variance{tys.Covariant},
		HasDestructor:   true,
	})
	guardTy := types.Intern(tys.MakeAdt(adt, []regions.Region{regions.Var(rg)}, nil))
	refTy := types.Intern(tys.MakeRef(regions.Var(rg), intTy, false))

	borrow := spanOf(fid, text, "&data")
	construct := spanOf(fid, text, "Guard(&data)")
	dropSpan := spanOf(fid, text, "drop(guard)")
	body := &mir.Body{
		Name: "scoped",
		Span: source.Span{File: fid, Start: 0, End: uint32(len(text))}, //nolint:gosec // fixture sources are tiny
		Locals: []mir.Local{
			{Name: "<ret>", Type: types.Builtins().Unit, Span: dropSpan},
			{Name: "guard", Type: guardTy, Span: construct},
			{Name: "data", Type: intTy, Span: spanOf(fid, text, "data = 1")},
			{Name: "borrow", Type: refTy, Span: borrow},
		},
		Blocks: []mir.Block{
			{
				ID: 0,
				Stmts: []mir.Stmt{
					{
						Kind: mir.StmtAssign,
						Assign: mir.AssignStmt{
							Dst: mir.PlaceLocal(3),
							Src: mir.RValue{Kind: mir.RValueRef, Ref: mir.RefOp{Region: rg, Place: mir.PlaceLocal(2)}},
						},
						Span: borrow,
					},
					{
						Kind: mir.StmtAssign,
						Assign: mir.AssignStmt{
							Dst: mir.PlaceLocal(1),
							Src: mir.RValue{
								Kind:      mir.RValueAggregate,
								Aggregate: mir.AggregateOp{Ty: guardTy, Elems: []mir.Operand{mir.MoveOperand(mir.PlaceLocal(3))}},
							},
						},
						Span: construct,
					},
				},
				Term: mir.Terminator{
					Kind: mir.TermDrop,
					Drop: mir.DropTerm{Place: mir.PlaceLocal(1), Target: 1},
					Span: dropSpan,
				},
			},
			{
				ID:   1,
				Term: mir.Terminator{Kind: mir.TermReturn, Span: dropSpan},
			},
		},
		Entry:       0,
		ReturnLocal: 0,
	}
	return &Fixture{Name: "destructor-observes-region", Files: files, Types: types, Table: tbl, Body: body}
}

// ReborrowThenMove models reborrowing a reference and then moving the
// original into a longer-lived slot:
//
//	fn stash(x: &'short Int) { let slot: &'long Int; let r = &*x; slot = x }
//
// Nothing declares 'short: 'long, so the move into slot must be reported
// as an unsatisfied lifetime blamed at the assignment.
func ReborrowThenMove() *Fixture {
	text := "fn stash(x: &'short Int) {\n    let slot: &'long Int;\n    let r = &*x;\n    slot = x;\n}\n"
	files := source.NewFileSet()
	fid := files.Add("stash.fe", []byte(text))

	types := tys.NewInterner()
	tbl := regions.NewTable()
	rShort := tbl.NewUniversal("'short")
	rLong := tbl.NewUniversal("'long")
	rBorrow := tbl.NewExistential()

	intTy := types.Builtins().Int
	refShort := types.Intern(tys.MakeRef(regions.Var(rShort), intTy, false))
	refLong := types.Intern(tys.MakeRef(regions.Var(rLong), intTy, false))
	refBorrow := types.Intern(tys.MakeRef(regions.Var(rBorrow), intTy, false))

	reborrow := spanOf(fid, text, "&*x")
	move := spanOf(fid, text, "slot = x")
	body := &mir.Body{
		Name: "stash",
		Span: source.Span{File: fid, Start: 0, End: uint32(len(text))}, //nolint:gosec // fixture sources are tiny
		Locals: []mir.Local{
			{Name: "<ret>", Type: types.Builtins().Unit, Span: move},
			{Name: "x", Type: refShort, Span: spanOf(fid, text, "x: &'short Int")},
			{Name: "slot", Type: refLong, Span: spanOf(fid, text, "slot: &'long Int")},
			{Name: "r", Type: refBorrow, Span: spanOf(fid, text, "r = &*x")},
		},
		Blocks: []mir.Block{
			{
				ID: 0,
				Stmts: []mir.Stmt{
					{
						Kind: mir.StmtAssign,
						Assign: mir.AssignStmt{
							Dst: mir.PlaceLocal(3),
							Src: mir.RValue{Kind: mir.RValueRef, Ref: mir.RefOp{Region: rBorrow, Place: mir.PlaceLocal(1).Deref()}},
						},
						Span: reborrow,
					},
					{
						Kind: mir.StmtAssign,
						Assign: mir.AssignStmt{
							Dst: mir.PlaceLocal(2),
							Src: mir.RValue{Kind: mir.RValueUse, Use: mir.MoveOperand(mir.PlaceLocal(1))},
						},
						Span: move,
					},
				},
				Term: mir.Terminator{Kind: mir.TermReturn, Span: move},
			},
		},
		Entry:       0,
		ReturnLocal: 0,
	}
	return &Fixture{Name: "reborrow-then-move", Files: files, Types: types, Table: tbl, Body: body}
}

// AllFixtures returns every canned fixture, stable order.
func AllFixtures() []*Fixture {
	return []*Fixture{
		UnrelatedLifetimes(),
		ClosureEscape(),
		DestructorObservesRegion(),
		ReborrowThenMove(),
	}
}
