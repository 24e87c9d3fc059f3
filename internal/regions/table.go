package regions

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Origin records why a region variable exists.
type Origin uint8

const (
	// OriginUniversal is a free region of the function signature or its
	// captured environment, known before inference starts.
	OriginUniversal Origin = iota
	// OriginExistential is an inference variable minted during the pass.
	OriginExistential
	// OriginPlaceholder is a universally instantiated bound region, minted
	// in a fresh universe while relating under a binder.
	OriginPlaceholder
)

func (o Origin) String() string {
	switch o {
	case OriginUniversal:
		return "universal"
	case OriginExistential:
		return "existential"
	case OriginPlaceholder:
		return "placeholder"
	}
	return "unknown"
}

// VarInfo is the per-variable record kept by the Table.
type VarInfo struct {
	Origin   Origin
	Universe Universe
	// Name is the user-visible lifetime name for universal regions ("'a").
	Name string
	// Upvar names the captured variable a non-local universal region came
	// from, when there is one.
	Upvar string
	// Local reports whether a universal region belongs to the body being
	// checked rather than to an enclosing function.
	Local bool
}

type edge struct{ sup, sub Vid }

// Table owns every region variable of one function-body analysis: the
// universal regions registered up front, then existentials and placeholders
// minted while relating types. 'static is always vid 0.
type Table struct {
	vars          []VarInfo
	universals    int
	nextUniverse  Universe
	knownOutlives map[edge]struct{}
}

// NewTable builds a table with 'static pre-registered.
func NewTable() *Table {
	t := &Table{
		nextUniverse:  RootUniverse,
		knownOutlives: make(map[edge]struct{}),
	}
	t.NewUniversal("'static")
	return t
}

func (t *Table) mint(info VarInfo) Vid {
	raw, err := safecast.Conv[int32](len(t.vars))
	if err != nil {
		panic(fmt.Errorf("regions: vid overflow: %w", err))
	}
	t.vars = append(t.vars, info)
	return Vid(raw)
}

// NewUniversal registers a named free region local to the checked body.
// Universal regions must all be registered before any inference variable.
func (t *Table) NewUniversal(name string) Vid {
	if t.universals != len(t.vars) {
		panic(fmt.Errorf("regions: universal %q registered after inference started", name))
	}
	v := t.mint(VarInfo{Origin: OriginUniversal, Universe: RootUniverse, Name: name, Local: true})
	t.universals++
	return v
}

// NewExternal registers a universal region that belongs to an enclosing
// function. upvar, when non-empty, names the captured variable carrying it.
func (t *Table) NewExternal(name, upvar string) Vid {
	if t.universals != len(t.vars) {
		panic(fmt.Errorf("regions: external %q registered after inference started", name))
	}
	v := t.mint(VarInfo{Origin: OriginUniversal, Universe: RootUniverse, Name: name, Upvar: upvar, Local: false})
	t.universals++
	return v
}

// NewExistential mints an inference variable in the root universe.
func (t *Table) NewExistential() Vid {
	return t.mint(VarInfo{Origin: OriginExistential, Universe: RootUniverse})
}

// NewPlaceholder mints a placeholder in universe u.
func (t *Table) NewPlaceholder(u Universe) Vid {
	return t.mint(VarInfo{Origin: OriginPlaceholder, Universe: u})
}

// NextUniverse creates a child universe and returns it.
func (t *Table) NextUniverse() Universe {
	t.nextUniverse++
	return t.nextUniverse
}

// Count returns the number of region variables minted so far.
func (t *Table) Count() int {
	return len(t.vars)
}

// NumUniversals returns how many universal regions were registered.
func (t *Table) NumUniversals() int {
	return t.universals
}

func (t *Table) info(v Vid) *VarInfo {
	if v == NoVid || int(v) >= len(t.vars) {
		panic(fmt.Errorf("regions: unknown vid %d", v))
	}
	return &t.vars[v]
}

// Origin returns the origin of v.
func (t *Table) Origin(v Vid) Origin {
	return t.info(v).Origin
}

// Universe returns the universe v lives in.
func (t *Table) Universe(v Vid) Universe {
	return t.info(v).Universe
}

// IsUniversal reports whether v is a universal region.
func (t *Table) IsUniversal(v Vid) bool {
	return t.info(v).Origin == OriginUniversal
}

// IsPlaceholder reports whether v is a placeholder.
func (t *Table) IsPlaceholder(v Vid) bool {
	return t.info(v).Origin == OriginPlaceholder
}

// IsLocal reports whether a universal region belongs to the checked body.
// Non-universal regions are always local.
func (t *Table) IsLocal(v Vid) bool {
	info := t.info(v)
	if info.Origin != OriginUniversal {
		return true
	}
	return info.Local
}

// Name returns the display name of v, "" when it has none.
func (t *Table) Name(v Vid) string {
	return t.info(v).Name
}

// UpvarName returns the captured-variable name tied to v, "" when none.
func (t *Table) UpvarName(v Vid) string {
	return t.info(v).Upvar
}

// AddKnownOutlives declares sup: sub as an assumed relationship between
// universal regions (for example from where-clauses).
func (t *Table) AddKnownOutlives(sup, sub Vid) {
	t.knownOutlives[edge{sup, sub}] = struct{}{}
}

// EachKnownOutlives invokes f for every declared relationship in a
// deterministic order.
func (t *Table) EachKnownOutlives(f func(sup, sub Vid)) {
	edges := make([]edge, 0, len(t.knownOutlives))
	for e := range t.knownOutlives {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].sup != edges[j].sup {
			return edges[i].sup < edges[j].sup
		}
		return edges[i].sub < edges[j].sub
	})
	for _, e := range edges {
		f(e.sup, e.sub)
	}
}

// KnownOutlives reports whether sup: sub holds by declaration. 'static
// outlives everything and every region outlives itself.
func (t *Table) KnownOutlives(sup, sub Vid) bool {
	if sup == sub || sup == StaticVid {
		return true
	}
	_, ok := t.knownOutlives[edge{sup, sub}]
	return ok
}
