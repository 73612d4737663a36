package sema

import (
	"errors"
	"fmt"
	"strings"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/layout"
	"ember/internal/source"
	"ember/internal/symbols"
	"ember/internal/trace"
	"ember/internal/types"
)

// resolve fills the interface of id exactly once. Re-entering a declaration
// that is still being resolved is a dependency cycle.
func (tc *typeChecker) resolve(id symbols.DeclID) error {
	switch tc.state[id] {
	case finished:
		return nil
	case ongoing:
		return fatal(tc.cycleError(id))
	}
	tc.state[id] = ongoing
	tc.stack = append(tc.stack, id)

	savedModule, savedFn := tc.module, tc.fn
	d := tc.table.Decl(id)
	tc.module, tc.fn = d.Module, nil
	err := tc.resolveDecl(id, d)
	tc.module, tc.fn = savedModule, savedFn

	tc.stack = tc.stack[:len(tc.stack)-1]
	if err != nil {
		return fatal(err)
	}
	tc.state[id] = finished
	if d.Kind != symbols.DeclOverloadSet {
		trace.Point(tc.tracer, trace.ScopeModule, "resolved", tc.table.QualifiedName(id), tc.parent)
	}
	return nil
}

func (tc *typeChecker) cycleError(id symbols.DeclID) *diag.Error {
	start := 0
	for i, s := range tc.stack {
		if s == id {
			start = i
			break
		}
	}
	chain := make([]string, 0, len(tc.stack)-start+1)
	for _, s := range tc.stack[start:] {
		chain = append(chain, tc.table.QualifiedName(s))
	}
	chain = append(chain, tc.table.QualifiedName(id))
	err := diag.Errorf(diag.SemaCyclicDependency, tc.table.Decl(id).Span,
		"cyclic dependency: %s", strings.Join(chain, " -> "))
	for _, s := range tc.stack[start+1:] {
		err = err.WithNote(tc.table.Decl(s).Span, "%s depends on the next declaration", tc.table.QualifiedName(s))
	}
	return err
}

func (tc *typeChecker) resolveDecl(id symbols.DeclID, d *symbols.Decl) error {
	switch d.Kind {
	case symbols.DeclOverloadSet:
		for _, m := range d.Members {
			if err := tc.resolve(m); err != nil {
				return err
			}
		}
		return nil
	case symbols.DeclStruct:
		return tc.resolveStruct(d)
	case symbols.DeclAlias:
		node := tc.prog.Decl(d.Node)
		t, err := tc.resolveType(node.Type, true)
		if err != nil {
			return err
		}
		d.Type = t
		return nil
	case symbols.DeclFunc, symbols.DeclOperator:
		return tc.resolveFunc(d)
	case symbols.DeclGlobal:
		return tc.resolveGlobal(id, d)
	}
	return diag.Errorf(diag.ProjectBadPayload, d.Span, "declaration %s has invalid kind", tc.table.QualifiedName(id))
}

func (tc *typeChecker) resolveStruct(d *symbols.Decl) error {
	node := tc.prog.Decl(d.Node)
	fields := make([]types.StructField, 0, len(node.Fields))
	seen := make(map[source.StringID]source.Span, len(node.Fields))
	for _, f := range node.Fields {
		name := tc.intern(f.Name)
		if prev, dup := seen[name]; dup {
			return diag.Errorf(diag.SemaRedefinition, f.Span, "duplicate field %q in struct %s", f.Name, tc.name(d.Name)).
				WithNote(prev, "previous field declared here")
		}
		seen[name] = f.Span
		t, err := tc.resolveType(f.Type, true)
		if err != nil {
			return err
		}
		if err := tc.requireStorable(t, f.Span, "field "+f.Name); err != nil {
			return err
		}
		fields = append(fields, types.StructField{Name: name, Type: t})
	}
	tc.types.SetStructFields(d.Type, fields)
	if _, err := tc.layout.LayoutOf(d.Type); err != nil {
		return tc.layoutError(err, d.Span)
	}
	return nil
}

func (tc *typeChecker) resolveFunc(d *symbols.Decl) error {
	node := tc.prog.Decl(d.Node)
	params := make([]symbols.Param, 0, len(node.Params))
	paramTypes := make([]types.TypeID, 0, len(node.Params))
	seen := make(map[source.StringID]source.Span, len(node.Params))
	hasStruct := false
	for _, p := range node.Params {
		name := tc.intern(p.Name)
		if p.Name != "" && p.Name != "_" {
			if prev, dup := seen[name]; dup {
				return diag.Errorf(diag.SemaRedefinition, p.Span, "duplicate parameter %q", p.Name).
					WithNote(prev, "previous parameter declared here")
			}
			seen[name] = p.Span
		}
		t, err := tc.resolveType(p.Type, false)
		if err != nil {
			return err
		}
		if err := tc.requireStorable(t, p.Span, "parameter "+p.Name); err != nil {
			return err
		}
		hasStruct = hasStruct || tc.types.IsStruct(t)
		params = append(params, symbols.Param{Name: name, Type: t, Span: p.Span})
		paramTypes = append(paramTypes, t)
	}
	result := tc.b.Void
	if node.Result.IsValid() {
		t, err := tc.resolveType(node.Result, false)
		if err != nil {
			return err
		}
		if tc.types.IsFn(t) {
			return diag.Errorf(diag.SemaZeroSizeOperation, node.Span, "function cannot return function type %s", tc.typeName(t))
		}
		result = t
	}
	if d.Kind == symbols.DeclOperator && !hasStruct {
		return diag.Errorf(diag.SemaInvalidOperand, d.Span, "operator %s needs at least one struct parameter", node.Op)
	}
	if d.Variadic && !d.Extern {
		return diag.Errorf(diag.SemaInvalidOperand, d.Span, "only extern functions can be variadic")
	}
	d.Params = params
	d.Result = result
	d.Type = tc.types.Fn(paramTypes, d.Variadic, result)
	return nil
}

func (tc *typeChecker) resolveGlobal(id symbols.DeclID, d *symbols.Decl) error {
	node := tc.prog.Decl(d.Node)
	name := tc.name(d.Name)
	declared, qualified := types.NoTypeID, types.NoTypeID
	if node.Type.IsValid() {
		t, err := tc.resolveType(node.Type, true)
		if err != nil {
			return err
		}
		qualified = t
		declared = tc.types.RemoveConst(t)
	}
	if !node.Init.IsValid() {
		if declared == types.NoTypeID {
			return diag.Errorf(diag.SemaTypeMismatch, d.Span, "global %q needs a type or an initializer", name)
		}
		if d.Const {
			return diag.Errorf(diag.SemaNotConstant, d.Span, "constant %q must be initialized", name)
		}
		if err := tc.requireStorable(declared, d.Span, "global "+name); err != nil {
			return err
		}
		d.Type = qualified
		return nil
	}

	init, t, err := tc.unifyInit(name, declared, node.Init, d.Span)
	if err != nil {
		return err
	}
	if err := tc.requireStorable(t, d.Span, "global "+name); err != nil {
		return err
	}
	folded, ok := tc.constEval(init)
	if !ok {
		return diag.Errorf(diag.SemaNotConstant, init.Span, "initializer of %q is not a constant expression", name)
	}
	d.Type = t
	if qualified != types.NoTypeID {
		d.Type = qualified
	}
	tc.result.Globals[id] = folded
	return nil
}

// requireStorable rejects types that cannot be held in a variable.
func (tc *typeChecker) requireStorable(t types.TypeID, sp source.Span, what string) error {
	switch {
	case tc.types.IsFn(t):
		return diag.Errorf(diag.SemaZeroSizeOperation, sp, "%s cannot have function type %s; use a pointer", what, tc.typeName(t))
	case tc.types.IsNull(t):
		return diag.Errorf(diag.SemaTypeMismatch, sp, "%s cannot have type null", what)
	}
	return nil
}

func (tc *typeChecker) layoutError(err error, sp source.Span) error {
	var le *layout.Error
	if !errors.As(err, &le) {
		return diag.Errorf(diag.SemaInvalidOperand, sp, "%v", err)
	}
	switch le.Kind {
	case layout.ErrFunctionType:
		return diag.Errorf(diag.SemaZeroSizeOperation, sp, "function type %s has no size", le.Name)
	case layout.ErrRecursive:
		return diag.Errorf(diag.SemaCyclicDependency, sp, "type %s contains itself", le.Name)
	default:
		return diag.Errorf(diag.SemaInvalidOperand, sp, "%v", le)
	}
}

// resolveType turns a syntactic type into a TypeID. A strong reference
// needs the referenced struct fully resolved (its layout is part of the
// referencing type); references behind pointers, slices and function types
// are weak.
func (tc *typeChecker) resolveType(id ast.TypeID, strong bool) (types.TypeID, error) {
	te := tc.prog.Type(id)
	if te == nil {
		return types.NoTypeID, diag.Errorf(diag.ProjectBadPayload, source.Span{}, "missing type #%d", id)
	}
	switch te.Kind {
	case ast.TypeNamed:
		return tc.resolveNamedType(te, strong)
	case ast.TypeConst:
		elem, err := tc.resolveType(te.Elem, strong)
		if err != nil {
			return types.NoTypeID, err
		}
		return tc.types.AddConst(elem), nil
	case ast.TypePointer:
		elem, err := tc.resolveType(te.Elem, false)
		if err != nil {
			return types.NoTypeID, err
		}
		if te.Nullable {
			return tc.types.NullablePointer(elem), nil
		}
		return tc.types.Pointer(elem), nil
	case ast.TypeArray:
		elem, err := tc.resolveType(te.Elem, strong)
		if err != nil {
			return types.NoTypeID, err
		}
		if err := tc.requireStorable(elem, te.Span, "array element"); err != nil {
			return types.NoTypeID, err
		}
		return tc.types.Array(te.Len, elem), nil
	case ast.TypeSlice:
		elem, err := tc.resolveType(te.Elem, false)
		if err != nil {
			return types.NoTypeID, err
		}
		if err := tc.requireStorable(elem, te.Span, "slice element"); err != nil {
			return types.NoTypeID, err
		}
		return tc.types.Slice(elem), nil
	case ast.TypeTuple:
		elems := make([]types.TypeID, len(te.Elems))
		for i, e := range te.Elems {
			t, err := tc.resolveType(e, strong)
			if err != nil {
				return types.NoTypeID, err
			}
			if err := tc.requireStorable(t, te.Span, "tuple element"); err != nil {
				return types.NoTypeID, err
			}
			elems[i] = t
		}
		return tc.types.Tuple(elems), nil
	case ast.TypeFunc:
		params := make([]types.TypeID, len(te.Elems))
		for i, e := range te.Elems {
			t, err := tc.resolveType(e, false)
			if err != nil {
				return types.NoTypeID, err
			}
			params[i] = t
		}
		result := tc.b.Void
		if te.Result.IsValid() {
			t, err := tc.resolveType(te.Result, false)
			if err != nil {
				return types.NoTypeID, err
			}
			result = t
		}
		return tc.types.Fn(params, te.Variadic, result), nil
	}
	return types.NoTypeID, diag.Errorf(diag.ProjectBadPayload, te.Span, "invalid type kind %d", te.Kind)
}

func (tc *typeChecker) resolveNamedType(te *ast.TypeExpr, strong bool) (types.TypeID, error) {
	if te.Module == "" {
		if t, ok := tc.types.BuiltinByName(te.Name); ok {
			return t, nil
		}
	}
	qual := source.NoStringID
	if te.Module != "" {
		qual = tc.intern(te.Module)
	}
	found, err := tc.table.Lookup(tc.module, qual, tc.intern(te.Name), te.Span)
	if err != nil {
		return types.NoTypeID, err
	}
	if !found.Decl.IsValid() || !tc.table.Decl(found.Decl).Kind.IsType() {
		return types.NoTypeID, diag.Errorf(diag.SemaUnknownSymbol, te.Span, "%s is not a type", qualified(te.Module, te.Name))
	}
	d := tc.table.Decl(found.Decl)
	if d.Kind == symbols.DeclAlias || strong {
		if err := tc.resolve(found.Decl); err != nil {
			return types.NoTypeID, err
		}
	}
	return d.Type, nil
}

// requireStruct resolves the declaration behind a struct type reached
// through a weak reference.
func (tc *typeChecker) requireStruct(t types.TypeID) error {
	info, ok := tc.types.StructInfo(tc.types.RemoveConst(t))
	if !ok || info.Resolved {
		return nil
	}
	return tc.resolve(symbols.DeclID(info.Decl))
}

// requireLayout makes sure every struct t strongly depends on is resolved
// and returns the layout.
func (tc *typeChecker) requireLayout(t types.TypeID, sp source.Span) (layout.StructLayout, error) {
	if err := tc.resolveStructsIn(t); err != nil {
		return layout.StructLayout{}, err
	}
	l, err := tc.layout.LayoutOf(t)
	if err != nil {
		return layout.StructLayout{}, tc.layoutError(err, sp)
	}
	return l, nil
}

func (tc *typeChecker) resolveStructsIn(t types.TypeID) error {
	tt, ok := tc.types.Lookup(t)
	if !ok {
		return nil
	}
	switch tt.Kind {
	case types.KindStruct:
		return tc.requireStruct(t)
	case types.KindConst, types.KindArray:
		return tc.resolveStructsIn(tt.Elem)
	case types.KindTuple:
		info, _ := tc.types.TupleInfo(t)
		if info == nil {
			return nil
		}
		for _, e := range info.Elems {
			if err := tc.resolveStructsIn(e); err != nil {
				return err
			}
		}
	}
	return nil
}

func qualified(module, name string) string {
	if module == "" {
		return name
	}
	return fmt.Sprintf("%s::%s", module, name)
}
