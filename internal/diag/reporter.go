package diag

import (
	"errors"
	"sync"

	"ember/internal/source"
)

// Reporter receives diagnostics from a phase.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter writes into a Bag. It is safe for concurrent use so that the
// driver can check several units in parallel.
type BagReporter struct {
	mu  sync.Mutex
	Bag *Bag
}

func (r *BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil || r.Bag == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}

// ReportError forwards a fault to r. It returns false when err is not a
// *Error, leaving the caller to handle plain errors.
func ReportError(r Reporter, err error) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	if r != nil {
		d := de.Diag
		r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
	}
	return true
}
