package tys

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"ferrite/internal/regions"
)

// Builtins stores TypeIDs for primitive types seeded by the interner.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Bool    TypeID
	Int     TypeID
	Str     TypeID
}

// Interner provides stable TypeIDs by keying structural descriptors.
type Interner struct {
	types    []Type
	index    map[string]TypeID
	builtins Builtins
	adts     []AdtInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[string]TypeID, 64),
	}
	in.adts = append(in.adts, AdtInfo{}) // reserve 0 as invalid sentinel
	in.builtins.Invalid = in.Intern(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Str = in.Intern(Type{Kind: KindStr})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern returns the stable ID for t, creating it on first sight.
func (in *Interner) Intern(t Type) TypeID {
	key := typeKey(&t)
	if id, ok := in.index[key]; ok {
		return id
	}
	raw, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("tys: type id overflow: %w", err))
	}
	id := TypeID(raw)
	in.types = append(in.types, t)
	in.index[key] = id
	return id
}

// Get returns the descriptor behind id. The result aliases interner storage
// and must not be mutated.
func (in *Interner) Get(id TypeID) *Type {
	if int(id) >= len(in.types) {
		panic(fmt.Errorf("tys: unknown type id %d", id))
	}
	return &in.types[id]
}

// NewAdt registers a nominal type and returns its ID.
func (in *Interner) NewAdt(info AdtInfo) AdtID {
	raw, err := safecast.Conv[uint32](len(in.adts))
	if err != nil {
		panic(fmt.Errorf("tys: adt id overflow: %w", err))
	}
	in.adts = append(in.adts, info)
	return AdtID(raw)
}

// Adt returns the registered info for id, or nil for the sentinel.
func (in *Interner) Adt(id AdtID) *AdtInfo {
	if id == NoAdtID || int(id) >= len(in.adts) {
		return nil
	}
	return &in.adts[id]
}

func typeKey(t *Type) string {
	var sb strings.Builder
	writeTypeKey(&sb, t)
	return sb.String()
}

func writeTypeKey(sb *strings.Builder, t *Type) {
	fmt.Fprintf(sb, "k%d", t.Kind)
	switch t.Kind {
	case KindRef:
		fmt.Fprintf(sb, "[%s;m%t;%d]", regionKey(t.Region), t.Mut, t.Elem)
	case KindTuple:
		sb.WriteByte('(')
		for _, e := range t.Elems {
			fmt.Fprintf(sb, "%d,", e)
		}
		sb.WriteByte(')')
	case KindFn:
		fmt.Fprintf(sb, "b%d(", t.Binders)
		for _, e := range t.Elems {
			fmt.Fprintf(sb, "%d,", e)
		}
		fmt.Fprintf(sb, ")->%d", t.Ret)
	case KindAdt:
		fmt.Fprintf(sb, "a%d<", t.Adt)
		for _, r := range t.Regions {
			sb.WriteString(regionKey(r))
			sb.WriteByte(',')
		}
		for _, e := range t.Elems {
			fmt.Fprintf(sb, "%d,", e)
		}
		sb.WriteByte('>')
	case KindCanonical:
		fmt.Fprintf(sb, "?%d", t.Var)
	}
}

func regionKey(r regions.Region) string {
	return fmt.Sprintf("r%d.%d.%d.%d", r.Kind, r.Vid, r.Depth, r.Index)
}
