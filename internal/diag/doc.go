// Package diag defines the diagnostic model shared by the semantic core, the
// code generator and the driver.
//
// The core is fail-fast: the first semantic fault aborts the compilation unit.
// Faults travel as *Error values (an ordinary Go error wrapping one
// Diagnostic), so callers use errors.As to recover the structured record.
//
// A Diagnostic carries a Severity, a Code (coarse fault category, stable
// numeric identifier), an already formatted Message, the primary source.Span
// and optional Notes. Notes add context such as "candidate declared here";
// they never repeat the message.
//
// Bag and Reporter are used by the driver to collect the diagnostics of many
// units (one per unit at most, given fail-fast) before rendering them with
// internal/diagfmt.
package diag
