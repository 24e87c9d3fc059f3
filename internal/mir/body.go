package mir

import (
	"ferrite/internal/source"
)

// Body is one function's control-flow graph, consumed read-only by the
// region-inference pass.
type Body struct {
	Name string
	Span source.Span

	Locals []Local
	Blocks []Block
	Entry  BlockID

	// ReturnLocal is the slot assignments to which count as returns.
	ReturnLocal LocalID
}

// BlockAt returns the block for id, nil when out of range.
func (b *Body) BlockAt(id BlockID) *Block {
	if b == nil || id == NoBlockID || int(id) >= len(b.Blocks) {
		return nil
	}
	return &b.Blocks[id]
}

// LocalAt returns the declaration for id, nil when out of range.
func (b *Body) LocalAt(id LocalID) *Local {
	if b == nil || id == NoLocalID || int(id) >= len(b.Locals) {
		return nil
	}
	return &b.Locals[id]
}

// Successors returns the successor blocks of id.
func (b *Body) Successors(id BlockID) []BlockID {
	bb := b.BlockAt(id)
	if bb == nil {
		return nil
	}
	return bb.Term.Successors()
}

// StmtAt returns the statement at loc, nil when loc addresses a terminator
// or is out of range.
func (b *Body) StmtAt(loc Location) *Stmt {
	bb := b.BlockAt(loc.Block)
	if bb == nil || int(loc.Statement) >= len(bb.Stmts) {
		return nil
	}
	return &bb.Stmts[loc.Statement]
}

// TermAt returns the terminator at loc, nil unless loc addresses one.
func (b *Body) TermAt(loc Location) *Terminator {
	bb := b.BlockAt(loc.Block)
	if bb == nil || int(loc.Statement) != len(bb.Stmts) {
		return nil
	}
	return &bb.Term
}

// SpanAt returns the span of the statement or terminator at loc.
func (b *Body) SpanAt(loc Location) source.Span {
	if s := b.StmtAt(loc); s != nil {
		return s.Span
	}
	if t := b.TermAt(loc); t != nil {
		return t.Span
	}
	return b.Span
}

// IsReturnPlace reports whether p is the unprojected return slot.
func (b *Body) IsReturnPlace(p Place) bool {
	return b != nil && p.Local == b.ReturnLocal && len(p.Proj) == 0
}
