package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ferrite/internal/diag"
	"ferrite/internal/source"
)

// Pretty renders diagnostics in a human-readable form. It walks bag.Items()
// in order (run bag.Sort() first). Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline under the span and the
// notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeader(w, fs, d.Primary, d.Severity, d.Code, d.Message, opts)
		writeContext(w, fs, d.Primary, opts)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				writeHeader(w, fs, n.Span, diag.SevInfo, diag.RegionInfo, "note: "+n.Msg, opts)
				writeContext(w, fs, n.Span, opts)
			}
		}
	}
}

func writeHeader(w io.Writer, fs *source.FileSet, sp source.Span, sev diag.Severity, code diag.Code, msg string, opts PrettyOpts) {
	loc := "<unknown>"
	if f := fs.Get(sp.File); f != nil {
		start, _ := fs.Resolve(sp)
		name := f.Name
		if opts.PathMode == PathModeBasename {
			name = filepath.Base(name)
		}
		loc = fmt.Sprintf("%s:%d:%d", name, start.Line, start.Col)
	}
	line := fmt.Sprintf("%s: %s %s: %s", loc, sevString(sev, opts.Color), code, msg)
	if opts.Width > 0 {
		line = runewidth.Truncate(line, opts.Width, "...")
	}
	fmt.Fprintln(w, line)
}

// writeContext prints the source line under the span with a caret underline.
// Underline width is measured in display cells, not bytes.
func writeContext(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	f := fs.Get(sp.File)
	if f == nil || sp.Empty() {
		return
	}
	start, end := fs.Resolve(sp)
	text := fs.LineText(sp.File, start.Line)
	if text == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", text)

	prefixRunes := int(start.Col) - 1
	if prefixRunes > len([]rune(text)) {
		prefixRunes = len([]rune(text))
	}
	pad := runewidth.StringWidth(string([]rune(text)[:prefixRunes]))

	spanRunes := 1
	if end.Line == start.Line && end.Col > start.Col {
		spanRunes = int(end.Col - start.Col)
	}
	marker := "^" + strings.Repeat("~", max(spanRunes-1, 0))
	if opts.Color {
		marker = color.New(color.FgHiRed, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), marker)
}

func sevString(sev diag.Severity, colored bool) string {
	s := sev.String()
	if !colored {
		return s
	}
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint(s)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(s)
	default:
		return color.New(color.FgCyan).Sprint(s)
	}
}
