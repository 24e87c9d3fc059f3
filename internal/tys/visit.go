package tys

import (
	"ferrite/internal/regions"
)

// VisitRegions walks every region occurrence in id, innermost types first.
// depth counts the binder levels entered so far; every KindFn type opens one
// binder level, even when it late-binds no regions.
func (in *Interner) VisitRegions(id TypeID, f func(r regions.Region, depth uint32)) {
	in.visitRegions(id, 0, f)
}

func (in *Interner) visitRegions(id TypeID, depth uint32, f func(r regions.Region, depth uint32)) {
	t := in.Get(id)
	switch t.Kind {
	case KindRef:
		f(t.Region, depth)
		in.visitRegions(t.Elem, depth, f)
	case KindTuple:
		for _, e := range t.Elems {
			in.visitRegions(e, depth, f)
		}
	case KindFn:
		for _, p := range t.Elems {
			in.visitRegions(p, depth+1, f)
		}
		in.visitRegions(t.Ret, depth+1, f)
	case KindAdt:
		for _, r := range t.Regions {
			f(r, depth)
		}
		for _, e := range t.Elems {
			in.visitRegions(e, depth, f)
		}
	}
}

// EachFreeVar invokes f once per region-variable occurrence in id.
// Binder-bound occurrences are skipped; they are not free.
func (in *Interner) EachFreeVar(id TypeID, f func(v regions.Vid)) {
	in.VisitRegions(id, func(r regions.Region, _ uint32) {
		if r.Kind == regions.RegionVar && r.Vid != regions.NoVid {
			f(r.Vid)
		}
	})
}

// ReplaceRegions rebuilds id with every region occurrence rewritten by f and
// returns the interned result. f receives the binder depth of the occurrence.
func (in *Interner) ReplaceRegions(id TypeID, f func(r regions.Region, depth uint32) regions.Region) TypeID {
	return in.replaceRegions(id, 0, f)
}

func (in *Interner) replaceRegions(id TypeID, depth uint32, f func(r regions.Region, depth uint32) regions.Region) TypeID {
	t := *in.Get(id)
	switch t.Kind {
	case KindRef:
		t.Region = f(t.Region, depth)
		t.Elem = in.replaceRegions(t.Elem, depth, f)
	case KindTuple:
		elems := make([]TypeID, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = in.replaceRegions(e, depth, f)
		}
		t.Elems = elems
	case KindFn:
		params := make([]TypeID, len(t.Elems))
		for i, p := range t.Elems {
			params[i] = in.replaceRegions(p, depth+1, f)
		}
		t.Elems = params
		t.Ret = in.replaceRegions(t.Ret, depth+1, f)
	case KindAdt:
		rs := make([]regions.Region, len(t.Regions))
		for i, r := range t.Regions {
			rs[i] = f(r, depth)
		}
		t.Regions = rs
		elems := make([]TypeID, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = in.replaceRegions(e, depth, f)
		}
		t.Elems = elems
	default:
		return id
	}
	return in.Intern(t)
}
