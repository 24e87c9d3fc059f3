package diagfmt_test

import (
	"strings"
	"testing"

	"ferrite/internal/diag"
	"ferrite/internal/diagfmt"
	"ferrite/internal/source"
)

func renderOne(t *testing.T, opts diagfmt.PrettyOpts) string {
	t.Helper()
	text := "fn choose() {\n    return y\n}\n"
	fs := source.NewFileSet()
	id := fs.Add("src/choose.fe", []byte(text))

	sp := source.Span{File: id, Start: 18, End: 26} // "return y"
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.RegionUnsatisfied, sp, "lifetime may not live long enough").
		WithNote(sp, "'a must outlive 'b"))

	var sb strings.Builder
	diagfmt.Pretty(&sb, bag, fs, opts)
	return sb.String()
}

func TestPrettyHeaderAndUnderline(t *testing.T) {
	out := renderOne(t, diagfmt.PrettyOpts{ShowNotes: true})

	underline := "      ^" + strings.Repeat("~", 7) + "\n"
	want := "src/choose.fe:2:5: ERROR RegionUnsatisfied(4001): lifetime may not live long enough\n" +
		"      return y\n" + underline +
		"src/choose.fe:2:5: INFO RegionInfo(4000): note: 'a must outlive 'b\n" +
		"      return y\n" + underline
	if out != want {
		t.Fatalf("rendered:\n%s\nwant:\n%s", out, want)
	}
}

func TestPrettyHidesNotes(t *testing.T) {
	out := renderOne(t, diagfmt.PrettyOpts{ShowNotes: false})
	if strings.Contains(out, "note:") {
		t.Fatalf("notes rendered despite ShowNotes=false:\n%s", out)
	}
}

func TestPrettyBasenamePaths(t *testing.T) {
	out := renderOne(t, diagfmt.PrettyOpts{PathMode: diagfmt.PathModeBasename})
	if !strings.HasPrefix(out, "choose.fe:2:5:") {
		t.Fatalf("basename mode output:\n%s", out)
	}
}

func TestPrettyTruncatesWideHeaders(t *testing.T) {
	out := renderOne(t, diagfmt.PrettyOpts{Width: 30})
	first, _, _ := strings.Cut(out, "\n")
	if !strings.HasSuffix(first, "...") || len(first) > 30 {
		t.Fatalf("header not truncated: %q", first)
	}
}

func TestPrettyUnknownFile(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.RegionUnsatisfied, source.Span{}, "no span"))

	var sb strings.Builder
	diagfmt.Pretty(&sb, bag, fs, diagfmt.PrettyOpts{})
	if !strings.HasPrefix(sb.String(), "<unknown>: ERROR") {
		t.Fatalf("rendered: %q", sb.String())
	}
}
