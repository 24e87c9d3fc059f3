package tys

// Variance describes how subtyping of a container relates to subtyping of a
// component reached through it.
type Variance uint8

const (
	// Covariant preserves the subtyping direction.
	Covariant Variance = iota
	// Contravariant flips the subtyping direction.
	Contravariant
	// Invariant requires equality in both directions.
	Invariant
	// Bivariant imposes nothing.
	Bivariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "covariant"
	case Contravariant:
		return "contravariant"
	case Invariant:
		return "invariant"
	case Bivariant:
		return "bivariant"
	}
	return "unknown"
}

// Xform composes the ambient variance with the variance of the position
// being entered.
func Xform(ambient, pos Variance) Variance {
	switch {
	case ambient == Bivariant || pos == Bivariant:
		return Bivariant
	case ambient == Invariant || pos == Invariant:
		return Invariant
	case ambient == pos:
		return Covariant
	default:
		return Contravariant
	}
}
