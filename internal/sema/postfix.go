package sema

import (
	"fmt"
	"strconv"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/symbols"
	"ember/internal/types"
)

// call resolves a named callee through the overload engine; any other
// callee must be a non-nullable function pointer.
func (tc *typeChecker) call(x *ast.Expr) (*hir.Expr, error) {
	if callee := tc.prog.Expr(x.X); callee != nil && callee.Kind == ast.ExprIdent && !tc.isLocalName(callee) {
		qual := source.NoStringID
		if callee.Module != "" {
			qual = tc.intern(callee.Module)
		}
		found, err := tc.table.Lookup(tc.module, qual, tc.intern(callee.Name), callee.Span)
		if err != nil {
			return nil, err
		}
		if found.IsOverloadSet() {
			return tc.resolveOverload(qualified(callee.Module, callee.Name), found.Funcs, x.Args, x.Span)
		}
	}

	f, err := tc.validate(x.X, types.NoTypeID)
	if err != nil {
		return nil, err
	}
	if f.Kind == hir.ExprDeref && tc.types.IsFn(f.Type) {
		f = f.Data.(*hir.DerefData).X
	}
	f = tc.ensureRValue(f)
	if !tc.types.IsNonNullablePointer(f.Type) || !tc.types.IsFn(tc.types.Elem(f.Type)) {
		return nil, diag.Errorf(diag.SemaInvalidOperand, x.Span, "cannot call a value of type %s", tc.typeName(f.Type))
	}
	fnType := tc.types.Elem(f.Type)
	info, _ := tc.types.FnInfo(fnType)
	if len(x.Args) < len(info.Params) || (!info.Variadic && len(x.Args) != len(info.Params)) {
		return nil, diag.Errorf(diag.SemaTypeMismatch, x.Span, "function of type %s takes %d argument(s), got %d",
			tc.typeName(fnType), len(info.Params), len(x.Args))
	}
	params := make([]symbols.Param, len(info.Params))
	for i, p := range info.Params {
		params[i] = symbols.Param{Type: p}
	}
	args, err := tc.convertArgs(params, x.Args, func(i int, got, want string) string {
		return fmt.Sprintf("argument %d: cannot use %s as %s", i+1, got, want)
	})
	if err != nil {
		return nil, err
	}
	return &hir.Expr{Kind: hir.ExprIndirectCall, Type: info.Result, Cat: hir.RValue, Span: x.Span,
		Data: &hir.IndirectCallData{Callee: f, Args: args}}, nil
}

func (tc *typeChecker) isLocalName(x *ast.Expr) bool {
	if x.Module != "" || tc.fn == nil {
		return false
	}
	_, ok := tc.fn.lookup(tc.intern(x.Name))
	return ok
}

func (tc *typeChecker) index(x *ast.Expr) (*hir.Expr, error) {
	base, err := tc.validate(x.X, types.NoTypeID)
	if err != nil {
		return nil, err
	}
	idx, err := tc.validate(x.Y, tc.b.Usize)
	if err != nil {
		return nil, err
	}
	idx = tc.ensureRValue(idx)
	if !tc.types.IsInteger(idx.Type) {
		return nil, diag.Errorf(diag.SemaTypeMismatch, idx.Span, "index must be an integer, got %s", tc.typeName(idx.Type))
	}

	cat := hir.LValue
	switch {
	case tc.types.IsArray(base.Type):
		cat = base.Cat
	case tc.types.IsSlice(base.Type):
		base = tc.ensureRValue(base)
	case tc.types.IsNonNullablePointer(base.Type) && tc.types.IsArray(tc.types.Elem(base.Type)):
		if base, err = tc.derefValue(tc.ensureRValue(base), base.Span); err != nil {
			return nil, err
		}
	default:
		return nil, diag.Errorf(diag.SemaInvalidOperand, x.Span, "cannot index a value of type %s", tc.typeName(base.Type))
	}
	return &hir.Expr{Kind: hir.ExprIndex, Type: tc.types.Elem(base.Type), Cat: cat, Span: x.Span,
		Data: &hir.IndexData{X: base, Index: idx}}, nil
}

// field selects a struct field, a tuple element or a slice half. A
// non-nullable pointer operand is dereferenced once.
func (tc *typeChecker) field(x *ast.Expr) (*hir.Expr, error) {
	base, err := tc.validate(x.X, types.NoTypeID)
	if err != nil {
		return nil, err
	}
	if tc.types.IsNonNullablePointer(base.Type) {
		if base, err = tc.derefValue(tc.ensureRValue(base), base.Span); err != nil {
			return nil, err
		}
	}
	t := base.Type
	qualify := func(ft types.TypeID) types.TypeID {
		if tc.types.IsConst(t) {
			return tc.types.AddConst(ft)
		}
		return ft
	}

	switch tc.types.KindOf(t) {
	case types.KindStruct:
		if err := tc.requireStruct(t); err != nil {
			return nil, err
		}
		st := tc.types.RemoveConst(t)
		idx, ok := tc.types.FieldIndex(st, tc.intern(x.Name))
		if !ok {
			return nil, diag.Errorf(diag.SemaUnknownSymbol, x.Span, "struct %s has no field %q", tc.typeName(st), x.Name)
		}
		info, _ := tc.types.StructInfo(st)
		return &hir.Expr{Kind: hir.ExprField, Type: qualify(info.Fields[idx].Type), Cat: base.Cat, Span: x.Span,
			Data: &hir.FieldData{X: base, Index: idx}}, nil

	case types.KindTuple:
		info, _ := tc.types.TupleInfo(tc.types.RemoveConst(t))
		idx, err := strconv.Atoi(x.Name)
		if err != nil || info == nil || idx < 0 || idx >= len(info.Elems) {
			return nil, diag.Errorf(diag.SemaUnknownSymbol, x.Span, "tuple %s has no element %q", tc.typeName(t), x.Name)
		}
		return &hir.Expr{Kind: hir.ExprField, Type: qualify(info.Elems[idx]), Cat: base.Cat, Span: x.Span,
			Data: &hir.FieldData{X: base, Index: idx}}, nil

	case types.KindSlice:
		base = tc.ensureRValue(base)
		switch x.Name {
		case "ptr":
			return &hir.Expr{Kind: hir.ExprSliceField, Type: tc.types.NullablePointer(tc.types.Elem(base.Type)), Cat: hir.RValue,
				Span: x.Span, Data: &hir.SliceFieldData{X: base, Field: hir.SlicePtr}}, nil
		case "len":
			return &hir.Expr{Kind: hir.ExprSliceField, Type: tc.b.Usize, Cat: hir.RValue,
				Span: x.Span, Data: &hir.SliceFieldData{X: base, Field: hir.SliceLen}}, nil
		}
		return nil, diag.Errorf(diag.SemaUnknownSymbol, x.Span, "slice has no field %q", x.Name)
	}
	return nil, diag.Errorf(diag.SemaInvalidOperand, x.Span, "type %s has no field %q", tc.typeName(t), x.Name)
}

func (tc *typeChecker) cast(x *ast.Expr) (*hir.Expr, error) {
	target, err := tc.resolveType(x.Type, true)
	if err != nil {
		return nil, err
	}
	target = tc.types.RemoveConst(target)
	e, err := tc.validate(x.X, types.NoTypeID)
	if err != nil {
		return nil, err
	}
	e = tc.ensureRValue(e)
	if !tc.castAllowed(x.Cast, e.Type, target) {
		return nil, diag.Errorf(diag.SemaInvalidCast, x.Span, "invalid %s cast from %s to %s", x.Cast, tc.typeName(e.Type), tc.typeName(target))
	}
	return &hir.Expr{Kind: hir.ExprCast, Type: target, Cat: hir.RValue, Span: x.Span, Data: &hir.CastData{Cast: x.Cast, X: e}}, nil
}

func (tc *typeChecker) castAllowed(kind ast.CastKind, from, to types.TypeID) bool {
	in := tc.types
	s, d := in.Under(from), in.Under(to)
	bothInt := in.IsInteger(from) && in.IsInteger(to)
	fromBits, toBits := tc.layout.IntBits(from), tc.layout.IntBits(to)
	switch kind {
	case ast.CastSign:
		if bothInt {
			return s.Kind != d.Kind && fromBits == toBits
		}
		byteLike := func(t types.TypeID) bool { return in.IsInteger(t) && tc.layout.IntBits(t) == 8 }
		return (in.IsByte(from) && byteLike(to)) || (byteLike(from) && in.IsByte(to))
	case ast.CastWiden:
		if bothInt {
			return s.Kind == d.Kind && toBits >= fromBits
		}
		return s.Kind == types.KindFloat && d.Kind == types.KindFloat && s.Width == types.Width32 && d.Width == types.Width64
	case ast.CastNarrow:
		if bothInt {
			return s.Kind == d.Kind && toBits <= fromBits
		}
		return s.Kind == types.KindFloat && d.Kind == types.KindFloat && s.Width == types.Width64 && d.Width == types.Width32
	case ast.CastConvert:
		return (in.IsInteger(from) && in.IsFloat(to)) ||
			(in.IsFloat(from) && in.IsInteger(to)) ||
			(in.IsBool(from) && in.IsInteger(to))
	case ast.CastPointer:
		return (in.IsPointer(from) && in.IsPointer(to)) ||
			(in.IsPointer(from) && in.IsPlatformInt(to)) ||
			(in.IsPlatformInt(from) && in.IsPointer(to))
	}
	return false
}

// sizeQuery folds sizeof and alignof to usize literals.
func (tc *typeChecker) sizeQuery(x *ast.Expr) (*hir.Expr, error) {
	t, err := tc.resolveType(x.Type, true)
	if err != nil {
		return nil, err
	}
	what := "sizeof"
	if x.Kind == ast.ExprAlignof {
		what = "alignof"
	}
	if tc.types.IsFn(t) {
		return nil, diag.Errorf(diag.SemaZeroSizeOperation, x.Span, "cannot apply %s to function type %s", what, tc.typeName(t))
	}
	l, err := tc.requireLayout(t, x.Span)
	if err != nil {
		return nil, err
	}
	v := l.Size
	if x.Kind == ast.ExprAlignof {
		v = l.Align
	}
	return tc.literal(tc.b.Usize, x.Span, &hir.LiteralData{Kind: hir.LitInt, Int: uint64(v)}), nil
}

type builtinSig struct {
	args int
	mem  bool
}

var builtinSigs = map[hir.Builtin]builtinSig{
	hir.BuiltinClz:      {args: 1},
	hir.BuiltinCtz:      {args: 1},
	hir.BuiltinPopcount: {args: 1},
	hir.BuiltinBswap:    {args: 1},
	hir.BuiltinRotl:     {args: 2},
	hir.BuiltinRotr:     {args: 2},
	hir.BuiltinMemcpy:   {args: 3, mem: true},
	hir.BuiltinMemmove:  {args: 3, mem: true},
	hir.BuiltinMemset:   {args: 3, mem: true},
}

func (tc *typeChecker) builtin(x *ast.Expr) (*hir.Expr, error) {
	b, ok := hir.LookupBuiltin(x.Name)
	if !ok {
		return nil, diag.Errorf(diag.SemaUnknownSymbol, x.Span, "unknown builtin %q", x.Name)
	}
	sig := builtinSigs[b]
	if len(x.Args) != sig.args {
		return nil, diag.Errorf(diag.SemaInvalidOperand, x.Span, "%s takes %d argument(s), got %d", x.Name, sig.args, len(x.Args))
	}
	mismatch := func(i int, got, want string) string {
		return fmt.Sprintf("argument %d of %s: cannot use %s as %s", i+1, x.Name, got, want)
	}
	if sig.mem {
		second := tc.types.Pointer(tc.types.AddConst(tc.b.Byte))
		if b == hir.BuiltinMemset {
			second = tc.b.Byte
		}
		params := []symbols.Param{
			{Type: tc.types.Pointer(tc.b.Byte)},
			{Type: second},
			{Type: tc.b.Usize},
		}
		args, err := tc.convertArgs(params, x.Args, mismatch)
		if err != nil {
			return nil, err
		}
		return &hir.Expr{Kind: hir.ExprBuiltin, Type: tc.b.Void, Cat: hir.RValue, Span: x.Span,
			Data: &hir.BuiltinData{Builtin: b, Args: args}}, nil
	}

	v, err := tc.validate(x.Args[0], types.NoTypeID)
	if err != nil {
		return nil, err
	}
	v = tc.ensureRValue(v)
	if !tc.types.IsInteger(v.Type) {
		return nil, diag.Errorf(diag.SemaInvalidOperand, v.Span, "%s needs an integer operand, got %s", x.Name, tc.typeName(v.Type))
	}
	if b == hir.BuiltinBswap && tc.layout.IntBits(v.Type) < 16 {
		return nil, diag.Errorf(diag.SemaInvalidOperand, v.Span, "bswap needs at least 16 bits, got %s", tc.typeName(v.Type))
	}
	args := []*hir.Expr{v}
	if sig.args == 2 {
		n, err := tc.validate(x.Args[1], v.Type)
		if err != nil {
			return nil, err
		}
		if n, err = tc.coerce(n, v.Type, n.Span, func(got, want string) string { return mismatch(1, got, want) }); err != nil {
			return nil, err
		}
		args = append(args, n)
	}
	return &hir.Expr{Kind: hir.ExprBuiltin, Type: v.Type, Cat: hir.RValue, Span: x.Span,
		Data: &hir.BuiltinData{Builtin: b, Args: args}}, nil
}
