package diag

import (
	"fmt"

	"ember/internal/source"
)

// Error is a fatal fault. It aborts the unit that raised it.
type Error struct {
	Diag Diagnostic
}

// Errorf builds an error-severity fault with a formatted message.
func Errorf(code Code, primary source.Span, format string, args ...any) *Error {
	return &Error{Diag: NewError(code, primary, fmt.Sprintf(format, args...))}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Diag.Message
}

// WithNote attaches a note and returns the receiver.
func (e *Error) WithNote(sp source.Span, format string, args ...any) *Error {
	if e == nil {
		return nil
	}
	e.Diag = e.Diag.WithNote(sp, fmt.Sprintf(format, args...))
	return e
}

// Code reports the fault category.
func (e *Error) Code() Code {
	if e == nil {
		return UnknownCode
	}
	return e.Diag.Code
}
