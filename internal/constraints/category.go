package constraints

// Category ranks the syntactic origin of an outlives constraint when picking
// which edge of a blame path to surface. Lower values are more specific and
// win; the declaration order below is the ranking.
type Category uint8

const (
	CategoryCast Category = iota
	CategoryAssignment
	CategoryAssignmentToUpvar
	CategoryReturn
	CategoryCallArgumentToUpvar
	CategoryCallArgument
	CategoryOther
	CategoryBoring
)

func (c Category) String() string {
	switch c {
	case CategoryCast:
		return "cast"
	case CategoryAssignment:
		return "assignment"
	case CategoryAssignmentToUpvar:
		return "assignment-to-upvar"
	case CategoryReturn:
		return "return"
	case CategoryCallArgumentToUpvar:
		return "call-argument-to-upvar"
	case CategoryCallArgument:
		return "call-argument"
	case CategoryOther:
		return "other"
	case CategoryBoring:
		return "boring"
	}
	return "unknown"
}

// IsUpvarUpgradable reports whether the category has a *ToUpvar variant.
func (c Category) IsUpvarUpgradable() bool {
	return c == CategoryAssignment || c == CategoryCallArgument
}

// ToUpvar returns the *ToUpvar variant of an upgradable category.
func (c Category) ToUpvar() Category {
	switch c {
	case CategoryAssignment:
		return CategoryAssignmentToUpvar
	case CategoryCallArgument:
		return CategoryCallArgumentToUpvar
	}
	return c
}
