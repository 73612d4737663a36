package sema

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/types"
)

func mask(bits int) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}
	return 1<<uint(bits) - 1
}

// intLit types an integer literal. neg folds a leading minus into the value
// so that the most negative value of a type is accepted.
func (tc *typeChecker) intLit(lit *ast.Expr, hint types.TypeID, neg bool, sp source.Span) (*hir.Expr, error) {
	text := lit.Text
	if neg {
		text = "-" + text
	}
	v, err := strconv.ParseUint(strings.ReplaceAll(lit.Text, "_", ""), 0, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, diag.Errorf(diag.SemaLiteralRange, sp, "integer literal %s does not fit in 64 bits", text)
		}
		return nil, diag.Errorf(diag.ProjectBadPayload, sp, "malformed integer literal %q", lit.Text)
	}

	t := tc.types.RemoveConst(hint)
	if !tc.types.IsInteger(t) && !tc.types.IsByte(t) {
		switch {
		case !neg && v <= math.MaxInt32, neg && v <= 1<<31:
			t = tc.b.Int32
		case !neg && v <= math.MaxInt64, neg && v <= 1<<63:
			t = tc.b.Int64
		case !neg:
			t = tc.b.Uint64
		default:
			return nil, diag.Errorf(diag.SemaLiteralRange, sp, "integer literal %s is out of range", text)
		}
	}
	bits := tc.layout.IntBits(t)
	if !intFits(v, neg, bits, tc.types.IsSigned(t)) {
		return nil, diag.Errorf(diag.SemaLiteralRange, sp, "integer literal %s overflows %s", text, tc.typeName(t))
	}
	if neg {
		v = -v
	}
	return tc.literal(t, sp, &hir.LiteralData{Kind: hir.LitInt, Int: v & mask(bits)}), nil
}

func intFits(v uint64, neg bool, bits int, signed bool) bool {
	switch {
	case signed && neg:
		return v <= 1<<uint(bits-1)
	case signed:
		return v <= 1<<uint(bits-1)-1
	case neg:
		return v == 0
	default:
		return v <= mask(bits)
	}
}

// floatLit types a float literal by hint, then by suffix, then float64.
// float32 values are rounded to single precision here.
func (tc *typeChecker) floatLit(lit *ast.Expr, hint types.TypeID, neg bool, sp source.Span) (*hir.Expr, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(lit.Text, "_", ""), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, diag.Errorf(diag.SemaLiteralRange, sp, "float literal %s is out of range", lit.Text)
		}
		return nil, diag.Errorf(diag.ProjectBadPayload, sp, "malformed float literal %q", lit.Text)
	}
	if neg {
		f = -f
	}
	width := types.Width64
	switch h := tc.types.RemoveConst(hint); {
	case tc.types.IsFloat(h):
		width = tc.types.WidthOf(h)
	case lit.Width == 32:
		width = types.Width32
	}
	t := tc.b.Float64
	if width == types.Width32 {
		if math.Abs(f) > math.MaxFloat32 {
			return nil, diag.Errorf(diag.SemaLiteralRange, sp, "float literal %s overflows float32", lit.Text)
		}
		f = float64(float32(f))
		t = tc.b.Float32
	}
	return tc.literal(t, sp, &hir.LiteralData{Kind: hir.LitFloat, Float: f}), nil
}

// stringLit has type *const [N]byte; the terminating NUL is not counted.
func (tc *typeChecker) stringLit(x *ast.Expr) *hir.Expr {
	arr := tc.types.AddConst(tc.types.Array(uint64(len(x.Bytes)), tc.b.Byte))
	return tc.literal(tc.types.Pointer(arr), x.Span, &hir.LiteralData{Kind: hir.LitString, Str: x.Bytes})
}

func (tc *typeChecker) structLit(x *ast.Expr) (*hir.Expr, error) {
	t, err := tc.resolveType(x.Type, true)
	if err != nil {
		return nil, err
	}
	t = tc.types.RemoveConst(t)
	info, ok := tc.types.StructInfo(t)
	if !ok {
		return nil, diag.Errorf(diag.SemaTypeMismatch, x.Span, "%s is not a struct type", tc.typeName(t))
	}
	values := make([]*hir.Expr, len(info.Fields))
	seen := make([]source.Span, len(info.Fields))
	for _, fi := range x.Fields {
		idx, ok := tc.types.FieldIndex(t, tc.intern(fi.Name))
		if !ok {
			return nil, diag.Errorf(diag.SemaTypeMismatch, fi.Span, "struct %s has no field %q", tc.typeName(t), fi.Name)
		}
		if values[idx] != nil {
			return nil, diag.Errorf(diag.SemaRedefinition, fi.Span, "field %q is initialized twice", fi.Name).
				WithNote(seen[idx], "first initialization here")
		}
		want := info.Fields[idx].Type
		v, err := tc.validate(fi.Value, want)
		if err != nil {
			return nil, err
		}
		v, err = tc.coerce(v, want, v.Span, func(got, want string) string {
			return "field " + strconv.Quote(fi.Name) + ": cannot use " + got + " as " + want
		})
		if err != nil {
			return nil, err
		}
		values[idx] = v
		seen[idx] = fi.Span
	}
	for i, v := range values {
		if v == nil {
			return nil, diag.Errorf(diag.SemaTypeMismatch, x.Span, "missing field %q in %s literal",
				tc.name(info.Fields[i].Name), tc.typeName(t))
		}
	}
	return &hir.Expr{Kind: hir.ExprStructLit, Type: t, Cat: hir.RValue, Span: x.Span, Data: &hir.StructLitData{Fields: values}}, nil
}

func (tc *typeChecker) tupleLit(x *ast.Expr, hint types.TypeID) (*hir.Expr, error) {
	var hints []types.TypeID
	if info, ok := tc.types.TupleInfo(tc.types.RemoveConst(hint)); ok && len(info.Elems) == len(x.Args) {
		hints = info.Elems
	}
	elems := make([]*hir.Expr, len(x.Args))
	elemTypes := make([]types.TypeID, len(x.Args))
	for i, a := range x.Args {
		want := types.NoTypeID
		if hints != nil {
			want = tc.types.RemoveConst(hints[i])
		}
		e, err := tc.validate(a, want)
		if err != nil {
			return nil, err
		}
		e = tc.convert(e, want)
		if err := tc.requireStorable(e.Type, e.Span, "tuple element"); err != nil {
			return nil, err
		}
		elems[i] = e
		elemTypes[i] = e.Type
	}
	return &hir.Expr{Kind: hir.ExprTupleLit, Type: tc.types.Tuple(elemTypes), Cat: hir.RValue, Span: x.Span,
		Data: &hir.TupleLitData{Elems: elems}}, nil
}

// arrayLit takes its element type from an array hint or else from the
// first element.
func (tc *typeChecker) arrayLit(x *ast.Expr, hint types.TypeID) (*hir.Expr, error) {
	elem := types.NoTypeID
	if h := tc.types.RemoveConst(hint); tc.types.IsArray(h) {
		elem = tc.types.RemoveConst(tc.types.Elem(h))
	}
	if elem == types.NoTypeID && len(x.Args) == 0 {
		return nil, diag.Errorf(diag.SemaTypeMismatch, x.Span, "cannot deduce the element type of an empty array literal")
	}
	elems := make([]*hir.Expr, len(x.Args))
	for i, a := range x.Args {
		e, err := tc.validate(a, elem)
		if err != nil {
			return nil, err
		}
		if elem == types.NoTypeID {
			e = tc.ensureRValue(e)
			if err := tc.requireStorable(e.Type, e.Span, "array element"); err != nil {
				return nil, err
			}
			elem = e.Type
		}
		e, err = tc.coerce(e, elem, e.Span, func(got, want string) string {
			return "array element " + strconv.Itoa(i) + ": cannot use " + got + " as " + want
		})
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	return &hir.Expr{Kind: hir.ExprArrayLit, Type: tc.types.Array(uint64(len(elems)), elem), Cat: hir.RValue, Span: x.Span,
		Data: &hir.ArrayLitData{Elems: elems}}, nil
}
