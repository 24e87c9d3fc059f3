package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses the registered name as-is.
	PathModeAuto PathMode = iota
	// PathModeBasename strips directories from the registered name.
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	Width     int // maximum rendered line width, 0 = unlimited
	ShowNotes bool
}
