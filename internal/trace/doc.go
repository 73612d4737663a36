// Package trace records what the compiler pipeline is doing.
//
// Events are spans (begin/end pairs) and points. Every event has a Scope
// (driver, pass, module, node) and a tracer's Level decides which scopes it
// keeps: "phase" keeps driver and pass spans, "detail" adds module events
// such as resolved declarations, "debug" adds node events such as overload
// resolution outcomes.
//
// A tracer travels through context.Context:
//
//	tr, _ := trace.New(trace.Config{Level: trace.LevelDetail, Mode: trace.ModeStream, OutputPath: "-"})
//	ctx = trace.WithTracer(ctx, tr)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "resolve", 0)
//	defer span.End("")
//
// Tracing never changes compilation results. Write errors are ignored.
package trace
