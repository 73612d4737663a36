package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cznic/mathutil"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ember/internal/diag"
	"ember/internal/source"
)

const tabWidth = 4

type palette struct {
	err    *color.Color
	warn   *color.Color
	info   *color.Color
	note   *color.Color
	gutter *color.Color
	caret  *color.Color
	bold   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// printer keeps the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Pretty renders diagnostics in human-readable form. It walks bag.Items()
// in order (call bag.Sort() first). For each diagnostic it prints
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// then the source line with a ^~~~ marker under the primary span, then the
// notes. Timing diagnostics always show their notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	pal := newPalette(opts.Color)
	p := &printer{w: w}
	for i, d := range bag.Items() {
		if i > 0 {
			p.printf("\n")
		}
		writeDiagnostic(p, pal, &d, fs, opts)
	}
	return p.err
}

func writeDiagnostic(p *printer, pal palette, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	head := pal.severity(d.Severity).Sprintf("%s %s", d.Severity, d.Code.ID())
	if loc, ok := location(fs, d.Primary, opts.PathMode, opts.BaseDir); ok {
		p.printf("%s: %s: %s\n", pal.bold.Sprint(loc), head, d.Message)
		start, end := fs.Resolve(d.Primary)
		writeSnippet(p, pal, fs.Get(d.Primary.File), start, end, opts)
	} else {
		p.printf("%s: %s\n", head, d.Message)
	}
	if !opts.ShowNotes && d.Code != diag.ObsTimings {
		return
	}
	for _, n := range d.Notes {
		label := pal.note.Sprint("note")
		if loc, ok := location(fs, n.Span, opts.PathMode, opts.BaseDir); ok {
			p.printf("  %s: %s: %s\n", label, loc, n.Msg)
			continue
		}
		p.printf("  %s: %s\n", label, n.Msg)
	}
}

// location formats "path:line:col". The zero span carries no location.
func location(fs *source.FileSet, sp source.Span, mode PathMode, base string) (string, bool) {
	if sp == (source.Span{}) {
		return "", false
	}
	f := fs.Get(sp.File)
	if f == nil {
		return "", false
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, mode, base), start.Line, start.Col), true
}

func writeSnippet(p *printer, pal palette, f *source.File, start, end source.LineCol, opts PrettyOpts) {
	total := lineCount(f)
	if total == 0 {
		return
	}
	primary := mathutil.Clamp(int(start.Line), 1, total)
	ctx := mathutil.Max(opts.Context, 0)
	first := mathutil.Clamp(primary-ctx, 1, total)
	last := mathutil.Clamp(primary+ctx, 1, total)
	gw := len(strconv.Itoa(last))
	blank := strings.Repeat(" ", gw)

	p.printf("%s %s\n", blank, pal.gutter.Sprint("|"))
	for n := first; n <= last; n++ {
		line := f.GetLine(uint32(n)) //nolint:gosec // n <= lineCount
		text := clip(expandTabs(line), opts.Width)
		p.printf("%s %s\n", pal.gutter.Sprintf("%*d |", gw, n), text)
		if n != primary {
			continue
		}
		pad, width := markerRange(line, start, end)
		if opts.Width > 0 {
			pad = mathutil.Min(pad, opts.Width)
			width = mathutil.Max(mathutil.Min(width, opts.Width-pad), 1)
		}
		marker := "^" + strings.Repeat("~", width-1)
		p.printf("%s %s %s%s\n", blank, pal.gutter.Sprint("|"), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
	}
}

// markerRange returns the display offset and width of the span on its first
// line. A span running past the line is cut at the line end.
func markerRange(line string, start, end source.LineCol) (pad, width int) {
	from := mathutil.Clamp(int(start.Col)-1, 0, len(line))
	to := len(line)
	if end.Line == start.Line {
		to = mathutil.Clamp(int(end.Col)-1, from, len(line))
	}
	pad = runewidth.StringWidth(expandTabs(line[:from]))
	width = mathutil.Max(runewidth.StringWidth(expandTabs(line[from:to])), 1)
	return pad, width
}

func lineCount(f *source.File) int {
	if f == nil {
		return 0
	}
	n := len(f.LineIdx)
	if len(f.Content) == 0 || f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clip(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// Summary counts diagnostics by severity, e.g. "2 errors, 1 warning".
func Summary(bag *diag.Bag) string {
	var errs, warns int
	if bag != nil {
		for _, d := range bag.Items() {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				warns++
			}
		}
	}
	return plural(errs, "error") + ", " + plural(warns, "warning")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
