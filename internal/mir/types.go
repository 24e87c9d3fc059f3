package mir

import (
	"ferrite/internal/source"
	"ferrite/internal/tys"
)

type BlockID int32
type LocalID int32

const (
	NoBlockID BlockID = -1
	NoLocalID LocalID = -1
)

// Local is a function-body slot with its fully inferred type.
type Local struct {
	Name string
	Type tys.TypeID
	Span source.Span
}

type PlaceProjKind uint8

const (
	PlaceProjDeref PlaceProjKind = iota
	PlaceProjField
)

type PlaceProj struct {
	Kind     PlaceProjKind
	FieldIdx int
}

// Place is a local plus a projection path into it.
type Place struct {
	Local LocalID
	Proj  []PlaceProj
}

func (p Place) IsValid() bool {
	return p.Local != NoLocalID
}

// PlaceLocal builds an unprojected place.
func PlaceLocal(l LocalID) Place {
	return Place{Local: l}
}

// Deref returns the place extended with a deref projection.
func (p Place) Deref() Place {
	proj := make([]PlaceProj, 0, len(p.Proj)+1)
	proj = append(proj, p.Proj...)
	proj = append(proj, PlaceProj{Kind: PlaceProjDeref})
	return Place{Local: p.Local, Proj: proj}
}

// Field returns the place extended with a field projection.
func (p Place) Field(idx int) Place {
	proj := make([]PlaceProj, 0, len(p.Proj)+1)
	proj = append(proj, p.Proj...)
	proj = append(proj, PlaceProj{Kind: PlaceProjField, FieldIdx: idx})
	return Place{Local: p.Local, Proj: proj}
}
