package mir

import (
	"ferrite/internal/source"
)

type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermGoto
	TermIf
	TermCall
	TermDrop
	TermUnreachable
)

type Terminator struct {
	Kind TermKind

	Goto GotoTerm
	If   IfTerm
	Call CallTerm
	Drop DropTerm
	Span source.Span
}

type GotoTerm struct {
	Target BlockID
}

type IfTerm struct {
	Cond Operand
	Then BlockID
	Else BlockID
}

// CallTerm represents a function call with its continuation block.
type CallTerm struct {
	Func   Operand
	Args   []Operand
	HasDst bool
	Dst    Place
	Target BlockID
}

// DropTerm destroys the place's value and continues at Target.
type DropTerm struct {
	Place  Place
	Target BlockID
}

// Successors returns the blocks control may continue at.
func (t *Terminator) Successors() []BlockID {
	switch t.Kind {
	case TermGoto:
		return []BlockID{t.Goto.Target}
	case TermIf:
		return []BlockID{t.If.Then, t.If.Else}
	case TermCall:
		return []BlockID{t.Call.Target}
	case TermDrop:
		return []BlockID{t.Drop.Target}
	}
	return nil
}
