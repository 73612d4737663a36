package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/internal/diag"
	"ember/internal/source"
)

func TestJSONPositionsAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("/work/proj/src/main.em", []byte("fn main() {\n  return y;\n}\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SemaUnknownSymbol, source.Span{File: id, Start: 21, End: 22}, "unknown symbol y").
		WithNote(source.Span{File: id, Start: 3, End: 7}, "inside main"))

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeRelative,
		BaseDir:          "/work/proj",
		IncludeNotes:     true,
	}))

	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 1, out.Count)
	d := out.Diagnostics[0]
	require.Equal(t, "ERROR", d.Severity)
	require.Equal(t, "SEM3002", d.Code)
	require.Equal(t, diag.SemaUnknownSymbol.Title(), d.Title)
	require.Equal(t, LocationJSON{
		File: "src/main.em", StartByte: 21, EndByte: 22,
		StartLine: 2, StartCol: 10, EndLine: 2, EndCol: 11,
	}, d.Location)
	require.Len(t, d.Notes, 1)
	require.Equal(t, "inside main", d.Notes[0].Message)
	require.Equal(t, uint32(1), d.Notes[0].Location.StartLine)
}

func TestJSONNotesAndMax(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SemaTypeMismatch, source.Span{}, "first").WithNote(source.Span{}, "hidden"))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings").WithNote(source.Span{}, "{}"))
	bag.Add(diag.NewError(diag.SemaTypeMismatch, source.Span{}, "third"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	require.Equal(t, 3, out.Count)
	require.Empty(t, out.Diagnostics[0].Notes)
	require.Len(t, out.Diagnostics[1].Notes, 1)
	require.Empty(t, out.Diagnostics[1].Location.File)

	out = BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	require.Equal(t, 2, out.Count)
	require.Equal(t, "timings", out.Diagnostics[1].Message)

	empty := BuildDiagnosticsOutput(nil, fs, JSONOpts{})
	require.Equal(t, 0, empty.Count)
	require.NotNil(t, empty.Diagnostics)
}
