package liveness

import (
	"ferrite/internal/mir"
)

// blockFlow holds the per-block sets of the two backward dataflows: regular
// liveness (may the value still be read) and drop liveness (may the value
// still be dropped).
type blockFlow struct {
	use     localSet
	def     localSet
	dropUse localSet

	liveIn  localSet
	liveOut localSet
	dropIn  localSet
	dropOut localSet
}

// computeFlow runs both liveness fixed points for all blocks of a body.
func computeFlow(body *mir.Body) []blockFlow {
	if body == nil {
		return nil
	}
	info := make([]blockFlow, len(body.Blocks))
	for i := range body.Blocks {
		use, def, dropUse := blockUseDef(body, &body.Blocks[i])
		info[i].use = use
		info[i].def = def
		info[i].dropUse = dropUse
		info[i].liveIn = localSet{}
		info[i].liveOut = localSet{}
		info[i].dropIn = localSet{}
		info[i].dropOut = localSet{}
	}

	changed := true
	for changed {
		changed = false
		for i := len(body.Blocks) - 1; i >= 0; i-- {
			liveOut := localSet{}
			dropOut := localSet{}
			for _, succ := range body.Successors(body.Blocks[i].ID) {
				liveOut = unionSet(liveOut, info[succ].liveIn)
				dropOut = unionSet(dropOut, info[succ].dropIn)
			}
			liveIn := unionSet(cloneSet(info[i].use), subtractSet(liveOut, info[i].def))
			dropIn := unionSet(cloneSet(info[i].dropUse), subtractSet(dropOut, info[i].def))

			if !setEqual(liveOut, info[i].liveOut) || !setEqual(liveIn, info[i].liveIn) ||
				!setEqual(dropOut, info[i].dropOut) || !setEqual(dropIn, info[i].dropIn) {
				info[i].liveOut = liveOut
				info[i].liveIn = liveIn
				info[i].dropOut = dropOut
				info[i].dropIn = dropIn
				changed = true
			}
		}
	}
	return info
}

// blockUseDef computes upward-exposed uses, kills and drop-uses for a block.
// A borrow of a place counts as a use of its base; a drop counts only as a
// drop-use. Pre-existing references do not keep their pointee live here.
func blockUseDef(body *mir.Body, bb *mir.Block) (use, def, dropUse localSet) {
	use = localSet{}
	def = localSet{}
	dropUse = localSet{}
	if bb == nil {
		return use, def, dropUse
	}
	addUse := func(id mir.LocalID) {
		if id == mir.NoLocalID || def.has(id) {
			return
		}
		use.add(id)
	}
	addDropUse := func(id mir.LocalID) {
		if id == mir.NoLocalID || def.has(id) {
			return
		}
		dropUse.add(id)
	}
	addDef := func(id mir.LocalID) {
		if id != mir.NoLocalID {
			def.add(id)
		}
	}

	for i := range bb.Stmts {
		u, d, _ := pointUseDef(body, &bb.Stmts[i], nil)
		for id := range u {
			addUse(id)
		}
		for id := range d {
			addDef(id)
		}
	}
	u, d, du := pointUseDef(body, nil, &bb.Term)
	for id := range u {
		addUse(id)
	}
	for id := range du {
		addDropUse(id)
	}
	for id := range d {
		addDef(id)
	}
	return use, def, dropUse
}

// pointUseDef computes the transfer sets of one statement or terminator.
func pointUseDef(body *mir.Body, s *mir.Stmt, t *mir.Terminator) (use, def, dropUse localSet) {
	use = localSet{}
	def = localSet{}
	dropUse = localSet{}

	if s != nil {
		switch s.Kind {
		case mir.StmtAssign:
			addUsesFromRValue(&s.Assign.Src, use)
			addUsesFromPlaceWrite(s.Assign.Dst, use)
			addDefFromPlace(s.Assign.Dst, def)
		}
		return use, def, dropUse
	}

	if t == nil {
		return use, def, dropUse
	}
	switch t.Kind {
	case mir.TermReturn:
		if body != nil && body.ReturnLocal != mir.NoLocalID {
			use.add(body.ReturnLocal)
		}
	case mir.TermIf:
		addUsesFromOperand(&t.If.Cond, use)
	case mir.TermCall:
		addUsesFromOperand(&t.Call.Func, use)
		for i := range t.Call.Args {
			addUsesFromOperand(&t.Call.Args[i], use)
		}
		if t.Call.HasDst {
			addUsesFromPlaceWrite(t.Call.Dst, use)
			addDefFromPlace(t.Call.Dst, def)
		}
	case mir.TermDrop:
		if t.Drop.Place.Local != mir.NoLocalID {
			dropUse.add(t.Drop.Place.Local)
		}
		addDefFromPlace(t.Drop.Place, def)
	}
	return use, def, dropUse
}

func addUsesFromRValue(rv *mir.RValue, use localSet) {
	switch rv.Kind {
	case mir.RValueUse:
		addUsesFromOperand(&rv.Use, use)
	case mir.RValueCast:
		addUsesFromOperand(&rv.Cast.Value, use)
	case mir.RValueAggregate:
		for i := range rv.Aggregate.Elems {
			addUsesFromOperand(&rv.Aggregate.Elems[i], use)
		}
	case mir.RValueRef:
		if rv.Ref.Place.Local != mir.NoLocalID {
			use.add(rv.Ref.Place.Local)
		}
	}
}

func addUsesFromOperand(op *mir.Operand, use localSet) {
	switch op.Kind {
	case mir.OperandCopy, mir.OperandMove:
		if op.Place.Local != mir.NoLocalID {
			use.add(op.Place.Local)
		}
	}
}

func addUsesFromPlaceWrite(p mir.Place, use localSet) {
	if len(p.Proj) == 0 {
		return
	}
	if p.Local != mir.NoLocalID {
		use.add(p.Local)
	}
}

func addDefFromPlace(p mir.Place, def localSet) {
	if p.Local != mir.NoLocalID && len(p.Proj) == 0 {
		def.add(p.Local)
	}
}
