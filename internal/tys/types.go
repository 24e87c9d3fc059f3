package tys

import (
	"ferrite/internal/regions"
)

// TypeID identifies an interned type. ID 0 is the invalid sentinel.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// AdtID identifies a nominal type registered with the interner.
type AdtID uint32

// NoAdtID marks the absence of an ADT.
const NoAdtID AdtID = 0

// Kind enumerates type shapes.
type Kind uint8

const (
	// KindInvalid is the reserved sentinel shape.
	KindInvalid Kind = iota
	// KindUnit is the unit type.
	KindUnit
	// KindBool is the boolean type.
	KindBool
	// KindInt is the integer type.
	KindInt
	// KindStr is the string slice type.
	KindStr
	// KindRef is a reference with a region and a pointee.
	KindRef
	// KindTuple is a positional product.
	KindTuple
	// KindFn is a function pointer type; Binders counts its late-bound
	// regions (for<'a, 'b, ...>).
	KindFn
	// KindAdt is a nominal type applied to region and type arguments.
	KindAdt
	// KindCanonical is an as-yet-unresolved canonical placeholder standing
	// for a type to be captured during relation.
	KindCanonical
)

// Type is the structural descriptor interned behind a TypeID.
// Which fields are meaningful depends on Kind.
type Type struct {
	Kind Kind

	// KindRef
	Region regions.Region
	Mut    bool
	Elem   TypeID

	// KindTuple elements, KindFn parameters, KindAdt type arguments.
	Elems []TypeID

	// KindFn
	Ret     TypeID
	Binders uint32

	// KindAdt
	Adt     AdtID
	Regions []regions.Region

	// KindCanonical
	Var uint32
}

// AdtInfo describes a nominal type: its name plus the variance of each
// region and type parameter.
type AdtInfo struct {
	Name            string
	RegionVariances []Variance
	ArgVariances    []Variance
	HasDestructor   bool
	DanglingRegions []int // indices into region params exempt from dropck
}
