package diag

import (
	"fmt"
	"strings"

	"ember/internal/source"
)

// FormatShort renders diagnostics one per line as
// "<severity> <code> <path>:<line>:<col> <message>", followed by notes when
// includeNotes is set. Multi-line messages are folded into one line.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	var b strings.Builder
	for i := range diags {
		d := &diags[i]
		writeShortLine(&b, severityLabel(d.Severity), d.Code, d.Primary, d.Message, fs)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			writeShortLine(&b, "note", d.Code, n.Span, n.Msg, fs)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeShortLine(b *strings.Builder, sev string, code Code, sp source.Span, msg string, fs *source.FileSet) {
	path := "<unknown>"
	line, col := uint32(0), uint32(0)
	if f := fs.Get(sp.File); f != nil {
		path = f.Path
		start, _ := fs.Resolve(sp)
		line, col = start.Line, start.Col
	}
	msg = strings.Join(strings.Fields(msg), " ")
	fmt.Fprintf(b, "%s %s %s:%d:%d %s\n", sev, code.ID(), path, line, col, msg)
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevInfo:
		return "info"
	default:
		return "unknown"
	}
}
