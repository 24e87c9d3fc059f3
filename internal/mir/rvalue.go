package mir

import (
	"ferrite/internal/regions"
	"ferrite/internal/source"
	"ferrite/internal/tys"
)

// OperandKind distinguishes operand types.
type OperandKind uint8

const (
	// OperandConst represents a constant operand.
	OperandConst OperandKind = iota
	// OperandCopy represents a by-copy read of a place.
	OperandCopy
	// OperandMove represents a by-move read of a place.
	OperandMove
)

// Operand represents a MIR operand.
type Operand struct {
	Kind OperandKind

	// ConstType is the type of a constant operand.
	ConstType tys.TypeID
	Place     Place
}

// ConstOperand builds a typed constant operand.
func ConstOperand(t tys.TypeID) Operand {
	return Operand{Kind: OperandConst, ConstType: t}
}

// CopyOperand builds a by-copy operand.
func CopyOperand(p Place) Operand {
	return Operand{Kind: OperandCopy, Place: p}
}

// MoveOperand builds a by-move operand.
func MoveOperand(p Place) Operand {
	return Operand{Kind: OperandMove, Place: p}
}

// RValueKind distinguishes right-hand value kinds.
type RValueKind uint8

const (
	// RValueUse represents a plain use of an operand.
	RValueUse RValueKind = iota
	// RValueCast represents a cast operation.
	RValueCast
	// RValueAggregate represents tuple/struct construction.
	RValueAggregate
	// RValueRef represents taking a reference to a place.
	RValueRef
)

// RValue represents a right-hand value in MIR.
type RValue struct {
	Kind RValueKind

	Use       Operand
	Cast      CastOp
	Aggregate AggregateOp
	Ref       RefOp
}

// CastOp represents a cast operation.
type CastOp struct {
	Value    Operand
	TargetTy tys.TypeID
}

// AggregateOp represents tuple/struct construction.
type AggregateOp struct {
	Ty    tys.TypeID
	Elems []Operand
}

// RefOp represents a borrow of a place with the region chosen for it.
type RefOp struct {
	Region regions.Vid
	Place  Place
	Mut    bool
}

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	// StmtNop represents a no-op statement.
	StmtNop StmtKind = iota
	// StmtAssign represents an assignment statement.
	StmtAssign
)

// Stmt represents a MIR statement.
type Stmt struct {
	Kind StmtKind

	Assign AssignStmt
	Span   source.Span
}

// AssignStmt represents an assignment statement.
type AssignStmt struct {
	Dst Place
	Src RValue
}
