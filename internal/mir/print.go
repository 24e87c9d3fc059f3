package mir

import (
	"fmt"
	"strings"
)

// Print renders a body in a stable textual form, used for debug dumps and
// content digests.
func Print(b *Body) string {
	var sb strings.Builder
	if b == nil {
		return ""
	}
	fmt.Fprintf(&sb, "fn %s (entry bb%d, return _%d)\n", b.Name, b.Entry, b.ReturnLocal)
	for i, l := range b.Locals {
		fmt.Fprintf(&sb, "  let _%d: ty%d // %s\n", i, l.Type, l.Name)
	}
	for bi := range b.Blocks {
		bb := &b.Blocks[bi]
		fmt.Fprintf(&sb, "bb%d:\n", bb.ID)
		for si := range bb.Stmts {
			fmt.Fprintf(&sb, "  %s\n", printStmt(&bb.Stmts[si]))
		}
		fmt.Fprintf(&sb, "  %s\n", printTerm(&bb.Term))
	}
	return sb.String()
}

func printStmt(s *Stmt) string {
	switch s.Kind {
	case StmtAssign:
		return fmt.Sprintf("%s = %s", printPlace(s.Assign.Dst), printRValue(&s.Assign.Src))
	default:
		return "nop"
	}
}

func printRValue(rv *RValue) string {
	switch rv.Kind {
	case RValueUse:
		return printOperand(rv.Use)
	case RValueCast:
		return fmt.Sprintf("%s as ty%d", printOperand(rv.Cast.Value), rv.Cast.TargetTy)
	case RValueAggregate:
		parts := make([]string, len(rv.Aggregate.Elems))
		for i, e := range rv.Aggregate.Elems {
			parts[i] = printOperand(e)
		}
		return fmt.Sprintf("aggregate ty%d (%s)", rv.Aggregate.Ty, strings.Join(parts, ", "))
	case RValueRef:
		mut := ""
		if rv.Ref.Mut {
			mut = "mut "
		}
		return fmt.Sprintf("&'%d %s%s", rv.Ref.Region, mut, printPlace(rv.Ref.Place))
	}
	return "?"
}

func printOperand(op Operand) string {
	switch op.Kind {
	case OperandConst:
		return fmt.Sprintf("const ty%d", op.ConstType)
	case OperandCopy:
		return "copy " + printPlace(op.Place)
	case OperandMove:
		return "move " + printPlace(op.Place)
	}
	return "?"
}

func printPlace(p Place) string {
	out := fmt.Sprintf("_%d", p.Local)
	for _, proj := range p.Proj {
		switch proj.Kind {
		case PlaceProjDeref:
			out = "(*" + out + ")"
		case PlaceProjField:
			out = fmt.Sprintf("%s.%d", out, proj.FieldIdx)
		}
	}
	return out
}

func printTerm(t *Terminator) string {
	switch t.Kind {
	case TermReturn:
		return "return"
	case TermGoto:
		return fmt.Sprintf("goto bb%d", t.Goto.Target)
	case TermIf:
		return fmt.Sprintf("if %s then bb%d else bb%d", printOperand(t.If.Cond), t.If.Then, t.If.Else)
	case TermCall:
		parts := make([]string, len(t.Call.Args))
		for i, a := range t.Call.Args {
			parts[i] = printOperand(a)
		}
		dst := ""
		if t.Call.HasDst {
			dst = printPlace(t.Call.Dst) + " = "
		}
		return fmt.Sprintf("%scall %s(%s) -> bb%d", dst, printOperand(t.Call.Func), strings.Join(parts, ", "), t.Call.Target)
	case TermDrop:
		return fmt.Sprintf("drop %s -> bb%d", printPlace(t.Drop.Place), t.Drop.Target)
	case TermUnreachable:
		return "unreachable"
	}
	return "none"
}
