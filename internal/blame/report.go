package blame

import (
	"fmt"

	"ferrite/internal/diag"
	"ferrite/internal/mir"
	"ferrite/internal/regions"
)

// displayName resolves the name to print for a region, assigning synthetic
// names ('1, '2, ...) from the shared counter when it has none.
func (e *Engine) displayName(v regions.Vid, counter *int) string {
	if name := e.tbl.Name(v); name != "" {
		return name
	}
	*counter++
	return fmt.Sprintf("'%d", *counter)
}

// ReportOutlives explains why fr must outlive outlivedFr and emits one of
// two report shapes: a closure-escape report when either endpoint resolves
// to a named captured variable, or a generic unsatisfied-lifetime report.
func (e *Engine) ReportOutlives(rep diag.Reporter, fr, outlivedFr regions.Vid, counter *int) {
	path, _, ok := e.FindConstraintPaths(fr, func(v regions.Vid) bool { return v == outlivedFr })
	if !ok {
		panic(fmt.Errorf("blame: no constraint path from '%d to '%d", fr, outlivedFr))
	}
	best := e.BestBlame(path, fr, outlivedFr)

	upvar := e.tbl.UpvarName(fr)
	if upvar == "" {
		upvar = e.tbl.UpvarName(outlivedFr)
	}
	if upvar != "" {
		diag.ReportError(rep, diag.RegionBorrowEscape, best.Span,
			fmt.Sprintf("borrowed data escapes outside of closure body: `%s` escapes here", upvar)).
			WithNote(best.Span, fmt.Sprintf("`%s` is a reference captured by the closure", upvar)).
			Emit()
		return
	}

	frName := e.displayName(fr, counter)
	outName := e.displayName(outlivedFr, counter)
	diag.ReportError(rep, diag.RegionUnsatisfied, best.Span,
		"lifetime may not live long enough").
		WithNote(best.Span, fmt.Sprintf("%s here requires that %s must outlive %s", best.Category, frName, outName)).
		Emit()
}

// ReportMustContainPoint explains why fr must contain loc: the path runs to
// any region targetTest accepts, typically those whose liveness pinned the
// point.
func (e *Engine) ReportMustContainPoint(rep diag.Reporter, fr regions.Vid, loc mir.Location, targetTest func(regions.Vid) bool, counter *int) {
	path, _, ok := e.FindConstraintPaths(fr, targetTest)
	if !ok {
		panic(fmt.Errorf("blame: no constraint path from '%d to a region live at %s", fr, loc))
	}
	best := e.BestBlame(path, fr, fr)
	frName := e.displayName(fr, counter)
	diag.ReportError(rep, diag.RegionValueNotLive, best.Span,
		"borrowed value does not live long enough").
		WithNote(e.body.SpanAt(loc), fmt.Sprintf("%s here requires that %s is live at %s", best.Category, frName, loc)).
		Emit()
}
