package liveness

import (
	"ferrite/internal/mir"
	"ferrite/internal/regions"
	"ferrite/internal/tys"
)

// OutlivesPair is one auxiliary region obligation produced while answering
// a dropck query.
type OutlivesPair struct {
	Sup regions.Vid
	Sub regions.Vid
}

// DropckResult is the outcome of the dropck_outlives query for one type:
// what must stay live for the type's destructor glue to be safe to run.
type DropckResult struct {
	Regions     []regions.Vid
	Types       []tys.TypeID
	Constraints []OutlivesPair
	Overflowed  bool
}

// Dropck answers dropck_outlives queries. Implementations must be
// referentially transparent for a fixed type.
type Dropck interface {
	DropckOutlives(t tys.TypeID) DropckResult
}

// InitOracle reports whether a local may (partially) hold an initialized
// value at a point.
type InitOracle interface {
	MayInit(l mir.LocalID, at mir.Location) bool
}

// AlwaysInit treats every local as possibly initialized everywhere.
type AlwaysInit struct{}

func (AlwaysInit) MayInit(mir.LocalID, mir.Location) bool { return true }

// DropData memoizes one dropck result for the duration of a pass.
type DropData struct {
	Result DropckResult
}

const structuralDropckDepthLimit = 64

// StructuralDropck derives drop obligations from type structure alone:
// references carry no destructor, tuples union their elements, nominal
// types with a destructor require their non-dangling region and type
// arguments. Recursion deeper than the limit reports overflow.
type StructuralDropck struct {
	Types *tys.Interner
}

func (d StructuralDropck) DropckOutlives(t tys.TypeID) DropckResult {
	var res DropckResult
	d.collect(t, 0, &res)
	return res
}

func (d StructuralDropck) collect(t tys.TypeID, depth int, res *DropckResult) {
	if depth > structuralDropckDepthLimit {
		res.Overflowed = true
		return
	}
	ty := d.Types.Get(t)
	switch ty.Kind {
	case tys.KindRef:
		// Dropping a reference never runs the pointee's destructor.
	case tys.KindTuple:
		for _, e := range ty.Elems {
			d.collect(e, depth+1, res)
		}
	case tys.KindAdt:
		info := d.Types.Adt(ty.Adt)
		if info == nil {
			return
		}
		if info.HasDestructor {
			dangling := make(map[int]bool, len(info.DanglingRegions))
			for _, i := range info.DanglingRegions {
				dangling[i] = true
			}
			for i, r := range ty.Regions {
				if dangling[i] || r.Kind != regions.RegionVar {
					continue
				}
				res.Regions = append(res.Regions, r.Vid)
			}
			res.Types = append(res.Types, ty.Elems...)
			return
		}
		for _, e := range ty.Elems {
			d.collect(e, depth+1, res)
		}
	}
}
