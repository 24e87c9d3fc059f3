package tys_test

import (
	"testing"

	"ferrite/internal/regions"
	"ferrite/internal/tys"
)

func TestInternStable(t *testing.T) {
	in := tys.NewInterner()
	intTy := in.Builtins().Int
	a := in.Intern(tys.MakeRef(regions.Var(1), intTy, false))
	b := in.Intern(tys.MakeRef(regions.Var(1), intTy, false))
	if a != b {
		t.Fatalf("structurally equal types got distinct ids: %d vs %d", a, b)
	}
	c := in.Intern(tys.MakeRef(regions.Var(2), intTy, false))
	if a == c {
		t.Fatalf("distinct regions must intern distinct ids")
	}
	mut := in.Intern(tys.MakeRef(regions.Var(1), intTy, true))
	if a == mut {
		t.Fatalf("mutability must be part of the type key")
	}
}

func TestInternBuiltinsDistinct(t *testing.T) {
	in := tys.NewInterner()
	bs := in.Builtins()
	ids := []tys.TypeID{bs.Invalid, bs.Unit, bs.Bool, bs.Int, bs.Str}
	seen := make(map[tys.TypeID]bool)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("builtin id %d reused", id)
		}
		seen[id] = true
	}
	if bs.Invalid != tys.NoTypeID {
		t.Fatalf("invalid builtin must occupy the sentinel slot, got %d", bs.Invalid)
	}
}

func TestEachFreeVarSkipsBound(t *testing.T) {
	in := tys.NewInterner()
	intTy := in.Builtins().Int
	refVar := in.Intern(tys.MakeRef(regions.Var(3), intTy, false))
	refBound := in.Intern(tys.MakeRef(regions.Bound(0, 0), intTy, false))
	fn := in.Intern(tys.MakeFn(1, []tys.TypeID{refBound, refVar}, in.Builtins().Unit))
	tup := in.Intern(tys.MakeTuple(fn, in.Intern(tys.MakeRef(regions.Var(5), intTy, false))))

	var got []regions.Vid
	in.EachFreeVar(tup, func(v regions.Vid) { got = append(got, v) })
	if len(got) != 2 || got[0] != 3 || got[1] != 5 {
		t.Fatalf("free vars = %v, want [3 5]", got)
	}
}

func TestVisitRegionsBinderDepth(t *testing.T) {
	in := tys.NewInterner()
	intTy := in.Builtins().Int
	inner := in.Intern(tys.MakeRef(regions.Bound(0, 0), intTy, false))
	fn := in.Intern(tys.MakeFn(1, []tys.TypeID{inner}, in.Builtins().Unit))
	outer := in.Intern(tys.MakeRef(regions.Var(2), fn, false))

	depths := make(map[regions.RegionKind]uint32)
	in.VisitRegions(outer, func(r regions.Region, depth uint32) {
		depths[r.Kind] = depth
	})
	if depths[regions.RegionVar] != 0 {
		t.Fatalf("outer region depth = %d, want 0", depths[regions.RegionVar])
	}
	if depths[regions.RegionBound] != 1 {
		t.Fatalf("bound region depth = %d, want 1", depths[regions.RegionBound])
	}
}

func TestReplaceRegions(t *testing.T) {
	in := tys.NewInterner()
	intTy := in.Builtins().Int
	ref := in.Intern(tys.MakeRef(regions.Var(7), intTy, false))
	tup := in.Intern(tys.MakeTuple(ref, intTy))

	out := in.ReplaceRegions(tup, func(r regions.Region, _ uint32) regions.Region {
		if r.Kind == regions.RegionVar && r.Vid == 7 {
			return regions.Var(9)
		}
		return r
	})
	want := in.Intern(tys.MakeTuple(in.Intern(tys.MakeRef(regions.Var(9), intTy, false)), intTy))
	if out != want {
		t.Fatalf("ReplaceRegions = %d, want %d", out, want)
	}
	// The original stays interned untouched.
	if again := in.Intern(tys.MakeTuple(ref, intTy)); again != tup {
		t.Fatalf("original type id changed: %d vs %d", again, tup)
	}
}

func TestXform(t *testing.T) {
	cases := []struct {
		ambient, pos, want tys.Variance
	}{
		{tys.Covariant, tys.Covariant, tys.Covariant},
		{tys.Covariant, tys.Contravariant, tys.Contravariant},
		{tys.Contravariant, tys.Contravariant, tys.Covariant},
		{tys.Contravariant, tys.Covariant, tys.Contravariant},
		{tys.Invariant, tys.Covariant, tys.Invariant},
		{tys.Invariant, tys.Contravariant, tys.Invariant},
		{tys.Covariant, tys.Invariant, tys.Invariant},
		{tys.Bivariant, tys.Covariant, tys.Bivariant},
		{tys.Covariant, tys.Bivariant, tys.Bivariant},
	}
	for _, c := range cases {
		if got := tys.Xform(c.ambient, c.pos); got != c.want {
			t.Fatalf("Xform(%v, %v) = %v, want %v", c.ambient, c.pos, got, c.want)
		}
	}
}
