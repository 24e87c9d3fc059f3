package testkit

import (
	"fmt"

	"ferrite/internal/mir"
	"ferrite/internal/tys"
)

// CheckBodyInvariants runs a minimal set of structural invariants on a body:
// 1) entry and return local are in range
// 2) block IDs match their slice positions and every block is terminated
// 3) terminator successors point at existing blocks
// 4) every local carries a type and place bases resolve to declared locals
func CheckBodyInvariants(b *mir.Body) error {
	if b == nil {
		return fmt.Errorf("nil body")
	}
	if b.BlockAt(b.Entry) == nil {
		return fmt.Errorf("entry bb%d not in range (%d blocks)", b.Entry, len(b.Blocks))
	}
	if b.LocalAt(b.ReturnLocal) == nil {
		return fmt.Errorf("return local _%d not in range (%d locals)", b.ReturnLocal, len(b.Locals))
	}
	for i, l := range b.Locals {
		if l.Type == tys.NoTypeID {
			return fmt.Errorf("local _%d (%s) has no type", i, l.Name)
		}
	}
	for i := range b.Blocks {
		bb := &b.Blocks[i]
		if int(bb.ID) != i {
			return fmt.Errorf("block at index %d carries id bb%d", i, bb.ID)
		}
		if !bb.Terminated() {
			return fmt.Errorf("bb%d has no terminator", bb.ID)
		}
		for _, succ := range bb.Term.Successors() {
			if b.BlockAt(succ) == nil {
				return fmt.Errorf("bb%d jumps to missing bb%d", bb.ID, succ)
			}
		}
		for si := range bb.Stmts {
			if err := checkStmtPlaces(b, &bb.Stmts[si]); err != nil {
				return fmt.Errorf("bb%d[%d]: %w", bb.ID, si, err)
			}
		}
		if err := checkTermPlaces(b, &bb.Term); err != nil {
			return fmt.Errorf("bb%d terminator: %w", bb.ID, err)
		}
	}
	return nil
}

func checkStmtPlaces(b *mir.Body, s *mir.Stmt) error {
	if s.Kind != mir.StmtAssign {
		return nil
	}
	if err := checkPlace(b, s.Assign.Dst); err != nil {
		return err
	}
	return checkRValuePlaces(b, &s.Assign.Src)
}

func checkRValuePlaces(b *mir.Body, rv *mir.RValue) error {
	switch rv.Kind {
	case mir.RValueUse:
		return checkOperandPlace(b, rv.Use)
	case mir.RValueCast:
		return checkOperandPlace(b, rv.Cast.Value)
	case mir.RValueAggregate:
		for _, op := range rv.Aggregate.Elems {
			if err := checkOperandPlace(b, op); err != nil {
				return err
			}
		}
	case mir.RValueRef:
		return checkPlace(b, rv.Ref.Place)
	}
	return nil
}

func checkTermPlaces(b *mir.Body, t *mir.Terminator) error {
	switch t.Kind {
	case mir.TermIf:
		return checkOperandPlace(b, t.If.Cond)
	case mir.TermCall:
		if err := checkOperandPlace(b, t.Call.Func); err != nil {
			return err
		}
		for _, a := range t.Call.Args {
			if err := checkOperandPlace(b, a); err != nil {
				return err
			}
		}
		if t.Call.HasDst {
			return checkPlace(b, t.Call.Dst)
		}
	case mir.TermDrop:
		return checkPlace(b, t.Drop.Place)
	}
	return nil
}

func checkOperandPlace(b *mir.Body, op mir.Operand) error {
	if op.Kind == mir.OperandConst {
		if op.ConstType == tys.NoTypeID {
			return fmt.Errorf("const operand has no type")
		}
		return nil
	}
	return checkPlace(b, op.Place)
}

func checkPlace(b *mir.Body, p mir.Place) error {
	if b.LocalAt(p.Local) == nil {
		return fmt.Errorf("place base _%d not declared", p.Local)
	}
	return nil
}
