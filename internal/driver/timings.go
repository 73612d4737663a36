package driver

import (
	"encoding/json"
	"fmt"

	"ember/internal/diag"
	"ember/internal/observ"
	"ember/internal/source"
)

type timingPayload struct {
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic records the report as an info diagnostic whose
// only note carries the JSON payload. A full bag grows by one.
func appendTimingDiagnostic(bag *diag.Bag, path string, report observ.Report) {
	if bag == nil {
		return
	}
	msg := fmt.Sprintf("timings: total %.2f ms", report.TotalMS)
	if path != "" {
		msg += " for " + path
	}
	data, err := json.Marshal(timingPayload{Path: path, TotalMS: report.TotalMS, Phases: report.Phases})
	if err != nil {
		return
	}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).WithNote(source.Span{}, string(data))
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
