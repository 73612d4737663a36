package sema

import (
	"context"
	"errors"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/layout"
	"ember/internal/source"
	"ember/internal/symbols"
	"ember/internal/trace"
	"ember/internal/types"
)

// Result holds the checked program.
type Result struct {
	Table  *symbols.Table
	Types  *types.Interner
	Layout *layout.Engine
	Target layout.Target

	// Funcs maps every function or operator with a body to its checked form.
	Funcs map[symbols.DeclID]*hir.Func
	// Globals holds folded initializers; globals without one are absent.
	Globals map[symbols.DeclID]*hir.Expr
	// Order lists every declaration except overload sets in registration
	// order.
	Order []symbols.DeclID
}

// Check resolves every declaration interface of prog and validates every
// function body. The first fault aborts the unit and is returned as a
// *diag.Error. The tracer is taken from ctx.
func Check(ctx context.Context, prog *ast.Program, table *symbols.Table, in *types.Interner, target layout.Target) (*Result, error) {
	res := &Result{
		Table:   table,
		Types:   in,
		Layout:  layout.New(target, in),
		Target:  target,
		Funcs:   make(map[symbols.DeclID]*hir.Func),
		Globals: make(map[symbols.DeclID]*hir.Expr),
	}
	tc := &typeChecker{
		prog:    prog,
		table:   table,
		types:   in,
		b:       in.Builtins(),
		layout:  res.Layout,
		tracer:  trace.FromContext(ctx),
		parent:  trace.ParentFromContext(ctx),
		state:   make(map[symbols.DeclID]resolveState, table.Len()),
		result:  res,
		strings: table.Strings,
	}
	if err := tc.run(); err != nil {
		return nil, unwrapFatal(err)
	}
	return res, nil
}

type resolveState uint8

const (
	unvisited resolveState = iota
	ongoing
	finished
)

type typeChecker struct {
	prog    *ast.Program
	table   *symbols.Table
	types   *types.Interner
	b       types.Builtins
	layout  *layout.Engine
	tracer  trace.Tracer
	parent  uint64
	strings *source.Interner

	state  map[symbols.DeclID]resolveState
	stack  []symbols.DeclID
	result *Result

	// module is the module whose names are visible; fn is the body being
	// validated, nil while resolving interfaces.
	module symbols.ModuleID
	fn     *funcState
}

func (tc *typeChecker) run() error {
	span := trace.Begin(tc.tracer, trace.ScopePass, "resolve", tc.parent)
	for _, id := range tc.table.Order() {
		if err := tc.resolve(id); err != nil {
			span.End("failed")
			return err
		}
		if tc.table.Decl(id).Kind != symbols.DeclOverloadSet {
			tc.result.Order = append(tc.result.Order, id)
		}
	}
	if err := tc.checkSignatures(); err != nil {
		span.End("failed")
		return err
	}
	span.End("")

	span = trace.Begin(tc.tracer, trace.ScopePass, "validate", tc.parent)
	for _, id := range tc.result.Order {
		d := tc.table.Decl(id)
		if !d.Kind.IsCallable() || d.Extern {
			continue
		}
		fn, err := tc.checkBody(id)
		if err != nil {
			span.End("failed")
			return err
		}
		tc.result.Funcs[id] = fn
	}
	span.End("")
	return nil
}

// fatalError marks faults that no overload candidate can recover from, such
// as a cycle found while resolving a referenced declaration.
type fatalError struct {
	err error
}

func (f *fatalError) Error() string { return f.err.Error() }
func (f *fatalError) Unwrap() error { return f.err }

func fatal(err error) error {
	if err == nil {
		return nil
	}
	var f *fatalError
	if errors.As(err, &f) {
		return err
	}
	return &fatalError{err: err}
}

func isFatal(err error) bool {
	var f *fatalError
	return errors.As(err, &f)
}

func unwrapFatal(err error) error {
	var de *diag.Error
	if errors.As(err, &de) {
		return de
	}
	return err
}

func (tc *typeChecker) name(id source.StringID) string {
	return tc.strings.MustLookup(id)
}

func (tc *typeChecker) typeName(t types.TypeID) string {
	return tc.types.TypeString(t)
}

func (tc *typeChecker) intern(s string) source.StringID {
	return tc.strings.Intern(s)
}
