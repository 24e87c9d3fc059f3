package tys

import (
	"ferrite/internal/regions"
)

// MakeRef builds a reference type descriptor.
func MakeRef(r regions.Region, elem TypeID, mut bool) Type {
	return Type{Kind: KindRef, Region: r, Elem: elem, Mut: mut}
}

// MakeTuple builds a tuple descriptor.
func MakeTuple(elems ...TypeID) Type {
	return Type{Kind: KindTuple, Elems: elems}
}

// MakeFn builds a function type descriptor with binders late-bound regions.
func MakeFn(binders uint32, params []TypeID, ret TypeID) Type {
	return Type{Kind: KindFn, Binders: binders, Elems: params, Ret: ret}
}

// MakeAdt builds a nominal type application.
func MakeAdt(adt AdtID, rs []regions.Region, args []TypeID) Type {
	return Type{Kind: KindAdt, Adt: adt, Regions: rs, Elems: args}
}

// MakeCanonical builds a canonical placeholder standing for variable v.
func MakeCanonical(v uint32) Type {
	return Type{Kind: KindCanonical, Var: v}
}
