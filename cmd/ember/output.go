package main

import (
	"encoding/json"
	"fmt"
	"io"

	"ember/internal/diag"
	"ember/internal/diagfmt"
	"ember/internal/driver"
	"ember/internal/source"
	"ember/internal/ui"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatShort  outputFormat = "short"
	formatJSON   outputFormat = "json"
)

func readFormat(value string) (outputFormat, error) {
	switch f := outputFormat(value); f {
	case formatPretty, formatShort, formatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q (must be pretty, short or json)", value)
}

type unitJSON struct {
	Path string `json:"path"`
	diagfmt.DiagnosticsOutput
}

type reportJSON struct {
	Units []unitJSON `json:"units"`
}

// reporter renders per-unit diagnostics in the selected format.
type reporter struct {
	out       io.Writer
	format    outputFormat
	color     bool
	withNotes bool
	timings   bool
	units     []unitJSON
}

func (r *reporter) unit(res *driver.Result) error {
	res.Bag.Sort()
	switch r.format {
	case formatJSON:
		r.units = append(r.units, unitJSON{
			Path: res.Path,
			DiagnosticsOutput: diagfmt.BuildDiagnosticsOutput(res.Bag, res.Files, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     r.withNotes,
			}),
		})
		return nil
	case formatShort:
		if res.Bag.Len() > 0 {
			if _, err := fmt.Fprintln(r.out, diag.FormatShort(res.Bag.Items(), res.Files, r.withNotes)); err != nil {
				return err
			}
		}
	default:
		if err := diagfmt.Pretty(r.out, res.Bag, res.Files, diagfmt.PrettyOpts{
			Color:     r.color,
			Context:   1,
			ShowNotes: r.withNotes,
		}); err != nil {
			return err
		}
	}
	if r.timings && len(res.Timing.Phases) > 0 {
		if _, err := fmt.Fprintln(r.out, ui.TimingTable(res.Path, res.Timing)); err != nil {
			return err
		}
	}
	return nil
}

// loadFailure renders a failure that happened before any unit was compiled.
func (r *reporter) loadFailure(code diag.Code, path string, err error) error {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(code, source.Span{}, err.Error()))
	return r.unit(&driver.Result{Path: path, Files: source.NewFileSet(), Bag: bag})
}

// flush writes the JSON document; the other formats stream.
func (r *reporter) flush() error {
	if r.format != formatJSON {
		return nil
	}
	units := r.units
	if units == nil {
		units = []unitJSON{}
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(reportJSON{Units: units})
}
