package regions

// Vid identifies a region (lifetime) variable. Vids are dense, minted per
// function body, and never recycled within one analysis.
type Vid int32

// NoVid marks the absence of a region variable.
const NoVid Vid = -1

// StaticVid is always the first universal region registered by NewTable.
const StaticVid Vid = 0

// Universe indexes the nested universes created while instantiating
// quantified types. RootUniverse can name every pre-existing region;
// placeholders minted in a child universe are invisible to it.
type Universe uint32

const RootUniverse Universe = 0

// CanName reports whether a region living in universe u may refer to an
// element from universe other.
func (u Universe) CanName(other Universe) bool {
	return u >= other
}

// RegionKind distinguishes how a region occurrence inside a type is
// represented before resolution.
type RegionKind uint8

const (
	// RegionVar is a concrete region variable.
	RegionVar RegionKind = iota
	// RegionBound refers to a binder-quantified region by De Bruijn depth
	// (0 = innermost binder) and position within that binder.
	RegionBound
	// RegionStatic is the 'static region.
	RegionStatic
)

// Region is a region occurrence as written inside a type.
type Region struct {
	Kind  RegionKind
	Vid   Vid
	Depth uint32
	Index uint32
}

// Var wraps a region variable occurrence.
func Var(v Vid) Region {
	return Region{Kind: RegionVar, Vid: v}
}

// Bound builds a binder-relative occurrence.
func Bound(depth, index uint32) Region {
	return Region{Kind: RegionBound, Depth: depth, Index: index}
}

// Static builds the 'static occurrence.
func Static() Region {
	return Region{Kind: RegionStatic}
}
