package sema

import (
	"fmt"
	"strings"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/symbols"
	"ember/internal/trace"
	"ember/internal/types"
)

// resolveOverload picks the single candidate matching args. Candidates whose
// arity does not fit are never tried. When exactly one candidate remains the
// arguments are converted to its parameters; otherwise every candidate is
// tried and must match the const-stripped parameter types exactly. Ties are
// reported, never broken.
func (tc *typeChecker) resolveOverload(name string, cands []symbols.DeclID, args []ast.ExprID, sp source.Span) (*hir.Expr, error) {
	var fits, wrongArity []symbols.DeclID
	for _, c := range cands {
		if err := tc.resolve(c); err != nil {
			return nil, err
		}
		if tc.arityFits(tc.table.Decl(c), len(args)) {
			fits = append(fits, c)
		} else {
			wrongArity = append(wrongArity, c)
		}
	}

	switch len(fits) {
	case 0:
		err := diag.Errorf(diag.SemaNoOverload, sp, "no overload of %q takes %d argument(s)", name, len(args))
		for _, c := range wrongArity {
			err = err.WithNote(tc.table.Decl(c).Span, "candidate %s takes %d parameter(s)", tc.signature(c), len(tc.table.Decl(c).Params))
		}
		return nil, err
	case 1:
		call, err := tc.callConverted(fits[0], args, sp)
		if err != nil {
			return nil, err
		}
		tc.traceOverload(name, fits[0])
		return call, nil
	}

	type failure struct {
		cand symbols.DeclID
		msgs []string
	}
	var (
		matches  []symbols.DeclID
		matched  [][]*hir.Expr
		failures []failure
	)
	for _, c := range fits {
		out, msgs, err := tc.tryCandidate(tc.table.Decl(c), args)
		if err != nil {
			return nil, err
		}
		if len(msgs) > 0 {
			failures = append(failures, failure{cand: c, msgs: msgs})
			continue
		}
		matches = append(matches, c)
		matched = append(matched, out)
	}

	switch len(matches) {
	case 0:
		err := diag.Errorf(diag.SemaNoOverload, sp, "no overload of %q matches the arguments", name)
		for _, f := range failures {
			for _, m := range f.msgs {
				err = err.WithNote(tc.table.Decl(f.cand).Span, "candidate %s: %s", tc.signature(f.cand), m)
			}
		}
		for _, c := range wrongArity {
			err = err.WithNote(tc.table.Decl(c).Span, "candidate %s takes %d parameter(s)", tc.signature(c), len(tc.table.Decl(c).Params))
		}
		return nil, err
	case 1:
		tc.traceOverload(name, matches[0])
		return tc.callNode(matches[0], matched[0], sp), nil
	}
	err := diag.Errorf(diag.SemaAmbiguousOverload, sp, "call to %q is ambiguous", name)
	for i, c := range matches {
		err = err.WithNote(tc.table.Decl(c).Span, "candidate %s matches argument types (%s)", tc.signature(c), tc.typeList(matched[i]))
	}
	return nil, err
}

func (tc *typeChecker) arityFits(d *symbols.Decl, n int) bool {
	if d.Variadic {
		return n >= len(d.Params)
	}
	return n == len(d.Params)
}

// tryCandidate validates every argument against d. Recoverable failures are
// returned as messages; only fatal errors abort.
func (tc *typeChecker) tryCandidate(d *symbols.Decl, args []ast.ExprID) ([]*hir.Expr, []string, error) {
	out := make([]*hir.Expr, len(args))
	var msgs []string
	for i, a := range args {
		var (
			e   *hir.Expr
			err error
		)
		if i >= len(d.Params) {
			e, err = tc.variadicArg(a)
		} else {
			want := tc.types.RemoveConst(d.Params[i].Type)
			e, err = tc.validate(a, want)
			if err == nil {
				e = tc.ensureRValue(e)
				if !tc.types.EqualUnqualified(e.Type, want) {
					msgs = append(msgs, fmt.Sprintf("argument %d has type %s, expected %s", i+1, tc.typeName(e.Type), tc.typeName(want)))
					continue
				}
			}
		}
		if err != nil {
			if isFatal(err) {
				return nil, nil, err
			}
			msgs = append(msgs, fmt.Sprintf("argument %d: %v", i+1, err))
			continue
		}
		out[i] = e
	}
	return out, msgs, nil
}

// callConverted builds a call of the only arity-compatible candidate,
// converting each argument to its parameter type.
func (tc *typeChecker) callConverted(id symbols.DeclID, args []ast.ExprID, sp source.Span) (*hir.Expr, error) {
	d := tc.table.Decl(id)
	out, err := tc.convertArgs(d.Params, args, func(i int, got, want string) string {
		return fmt.Sprintf("argument %d of %s: cannot use %s as %s", i+1, tc.signature(id), got, want)
	})
	if err != nil {
		return nil, err
	}
	return tc.callNode(id, out, sp), nil
}

func (tc *typeChecker) convertArgs(params []symbols.Param, args []ast.ExprID, what func(i int, got, want string) string) ([]*hir.Expr, error) {
	out := make([]*hir.Expr, len(args))
	for i, a := range args {
		if i >= len(params) {
			e, err := tc.variadicArg(a)
			if err != nil {
				return nil, err
			}
			out[i] = e
			continue
		}
		want := tc.types.RemoveConst(params[i].Type)
		e, err := tc.validate(a, want)
		if err != nil {
			return nil, err
		}
		e, err = tc.coerce(e, want, e.Span, func(got, want string) string { return what(i, got, want) })
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// variadicArg validates a trailing argument of a variadic extern; float32
// values are promoted to float64.
func (tc *typeChecker) variadicArg(a ast.ExprID) (*hir.Expr, error) {
	e, err := tc.validate(a, types.NoTypeID)
	if err != nil {
		return nil, err
	}
	e = tc.ensureRValue(e)
	switch {
	case tc.types.IsVoid(e.Type):
		return nil, diag.Errorf(diag.SemaZeroSizeOperation, e.Span, "void value passed as variadic argument")
	case tc.types.IsFloat(e.Type) && tc.types.WidthOf(e.Type) == types.Width32:
		e = tc.wrap(hir.ConvFloatExtend, e, tc.b.Float64, 0)
	}
	return e, nil
}

func (tc *typeChecker) callNode(id symbols.DeclID, args []*hir.Expr, sp source.Span) *hir.Expr {
	return &hir.Expr{
		Kind: hir.ExprCall,
		Type: tc.table.Decl(id).Result,
		Cat:  hir.RValue,
		Span: sp,
		Data: &hir.CallData{Func: id, Args: args},
	}
}

// operatorCandidates collects operator overloads visible from the current
// module: all of its own and the exported ones of its imports.
func (tc *typeChecker) operatorCandidates(op ast.Op) []symbols.DeclID {
	name := tc.intern(op.OperatorSetName())
	mod := tc.table.Module(tc.module)
	var out []symbols.DeclID
	if id, ok := mod.Member(name); ok {
		if set := tc.table.Decl(id); set.Kind == symbols.DeclOverloadSet {
			out = append(out, set.Members...)
		}
	}
	for _, imp := range mod.Imports {
		id, ok := tc.table.Module(imp).Member(name)
		if !ok {
			continue
		}
		set := tc.table.Decl(id)
		if set.Kind != symbols.DeclOverloadSet {
			continue
		}
		for _, m := range set.Members {
			if tc.table.Decl(m).Exported {
				out = append(out, m)
			}
		}
	}
	return out
}

func (tc *typeChecker) traceOverload(name string, chosen symbols.DeclID) {
	if !tc.tracer.Enabled() || !tc.tracer.Level().ShouldEmit(trace.ScopeNode) {
		return
	}
	trace.Point(tc.tracer, trace.ScopeNode, "overload", name+" -> "+tc.signature(chosen), tc.parent)
}

// signature renders a resolved function as mod::name(T, U) => R.
func (tc *typeChecker) signature(id symbols.DeclID) string {
	d := tc.table.Decl(id)
	var sb strings.Builder
	sb.WriteString(tc.table.QualifiedName(id))
	sb.WriteByte('(')
	for i, p := range d.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tc.typeName(p.Type))
	}
	if d.Variadic {
		if len(d.Params) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
	}
	sb.WriteByte(')')
	if d.Result != types.NoTypeID && !tc.types.IsVoid(d.Result) {
		sb.WriteString(" => ")
		sb.WriteString(tc.typeName(d.Result))
	}
	return sb.String()
}

func (tc *typeChecker) typeList(es []*hir.Expr) string {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = tc.typeName(e.Type)
	}
	return strings.Join(names, ", ")
}

// checkSignatures rejects overload set members whose const-stripped
// parameter lists coincide.
func (tc *typeChecker) checkSignatures() error {
	for _, id := range tc.table.Order() {
		set := tc.table.Decl(id)
		if set.Kind != symbols.DeclOverloadSet {
			continue
		}
		for i, a := range set.Members {
			for _, b := range set.Members[:i] {
				if tc.sameParams(tc.table.Decl(a), tc.table.Decl(b)) {
					return diag.Errorf(diag.SemaRedefinition, tc.table.Decl(a).Span,
						"%s is redeclared with the same parameter types", tc.signature(a)).
						WithNote(tc.table.Decl(b).Span, "previous declaration %s", tc.signature(b))
				}
			}
		}
	}
	return nil
}

func (tc *typeChecker) sameParams(a, b *symbols.Decl) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !tc.types.EqualUnqualified(a.Params[i].Type, b.Params[i].Type) {
			return false
		}
	}
	return true
}
