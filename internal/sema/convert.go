package sema

import (
	"fmt"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/types"
)

// ensureRValue loads a stored value. Function designators stay as they are:
// they have no value to load.
func (tc *typeChecker) ensureRValue(e *hir.Expr) *hir.Expr {
	if e.Cat != hir.LValue || tc.types.IsFn(e.Type) {
		return e
	}
	return &hir.Expr{
		Kind: hir.ExprLoad,
		Type: tc.types.RemoveConst(e.Type),
		Cat:  hir.RValue,
		Span: e.Span,
		Data: &hir.LoadData{X: e},
	}
}

func (tc *typeChecker) wrap(conv hir.ConvKind, e *hir.Expr, to types.TypeID, n uint64) *hir.Expr {
	return &hir.Expr{
		Kind: hir.ExprConvert,
		Type: to,
		Cat:  hir.RValue,
		Span: e.Span,
		Data: &hir.ConvertData{Conv: conv, X: e, Len: n},
	}
}

// convert applies the first implicit conversion rule taking e to target.
// Without an applicable rule the rvalue of e is returned unchanged; callers
// that require target decide whether that is a mismatch.
func (tc *typeChecker) convert(e *hir.Expr, target types.TypeID) *hir.Expr {
	e = tc.ensureRValue(e)
	if target == types.NoTypeID {
		return e
	}
	src := tc.types.RemoveConst(e.Type)
	dst := tc.types.RemoveConst(target)
	if src == dst {
		return e
	}
	s, d := tc.types.Under(src), tc.types.Under(dst)
	switch {
	case s.Kind == types.KindFloat && d.Kind == types.KindFloat:
		if s.Width == types.Width32 && d.Width == types.Width64 {
			return tc.wrap(hir.ConvFloatExtend, e, dst, 0)
		}
	case (s.Kind == types.KindInt || s.Kind == types.KindUint) && s.Kind == d.Kind:
		if s.Width != types.WidthPlatform && d.Width != types.WidthPlatform && s.Width < d.Width {
			return tc.wrap(hir.ConvIntWiden, e, dst, 0)
		}
	case s.Kind == types.KindNull && d.Kind == types.KindNullablePtr:
		return tc.wrap(hir.ConvNullToPointer, e, dst, 0)
	case s.Kind == types.KindNull && d.Kind == types.KindSlice:
		return tc.wrap(hir.ConvNullToSlice, e, dst, 0)
	case isPointerKind(s.Kind) && isPointerKind(d.Kind):
		if tc.pointerConvertible(s, d) {
			return tc.wrap(hir.ConvPointer, e, dst, 0)
		}
	case s.Kind == types.KindSlice && d.Kind == types.KindSlice:
		return tc.convertSlice(e, s.Elem, d.Elem, dst)
	case s.Kind == types.KindPtr && d.Kind == types.KindSlice:
		return tc.convertArrayToSlice(e, s.Elem, d.Elem, dst)
	}
	return e
}

func isPointerKind(k types.Kind) bool {
	return k == types.KindPtr || k == types.KindNullablePtr
}

// keepsConst reports whether moving from pointee from to pointee to never
// drops a const qualifier.
func (tc *typeChecker) keepsConst(from, to types.TypeID) bool {
	return !tc.types.IsConst(from) || tc.types.IsConst(to)
}

func (tc *typeChecker) pointerConvertible(s, d types.Type) bool {
	if s.Kind == types.KindNullablePtr && d.Kind == types.KindPtr {
		return false
	}
	from, to := s.Elem, d.Elem
	switch {
	case from == to:
		return true
	case to == tc.types.AddConst(from):
		return true
	}
	if arr := tc.types.Under(from); arr.Kind == types.KindArray {
		if (to == arr.Elem || to == tc.types.AddConst(arr.Elem)) && tc.keepsConst(from, to) {
			return true
		}
	}
	return tc.types.IsByte(to) && !tc.types.IsByte(from) && tc.keepsConst(from, to)
}

func (tc *typeChecker) convertSlice(e *hir.Expr, from, to, dst types.TypeID) *hir.Expr {
	if to == tc.types.AddConst(from) {
		return tc.wrap(hir.ConvSliceConst, e, dst, 0)
	}
	if tc.types.IsByte(to) && !tc.types.IsByte(from) && tc.keepsConst(from, to) {
		size, ok := tc.staticSize(from)
		if !ok {
			return e
		}
		return tc.wrap(hir.ConvSliceToBytes, e, dst, size)
	}
	return e
}

// convertArrayToSlice turns *[N]T into a slice of T, const T or bytes.
// Len carries the element count of the resulting slice.
func (tc *typeChecker) convertArrayToSlice(e *hir.Expr, pointee, to, dst types.TypeID) *hir.Expr {
	arr := tc.types.Under(pointee)
	if arr.Kind != types.KindArray {
		return e
	}
	elem := arr.Elem
	switch {
	case to == elem || to == tc.types.AddConst(elem):
		return tc.wrap(hir.ConvArrayToSlice, e, dst, arr.Count)
	case tc.types.IsByte(to) && tc.keepsConst(elem, to):
		size, ok := tc.staticSize(elem)
		if !ok {
			return e
		}
		return tc.wrap(hir.ConvArrayToSlice, e, dst, arr.Count*size)
	}
	return e
}

func (tc *typeChecker) staticSize(t types.TypeID) (uint64, bool) {
	if tc.requireStruct(t) != nil {
		return 0, false
	}
	n, err := tc.layout.SizeOf(t)
	if err != nil || n < 0 {
		return 0, false
	}
	return uint64(n), true
}

// coerce converts e to target and reports a mismatch built by what.
func (tc *typeChecker) coerce(e *hir.Expr, target types.TypeID, sp source.Span, what func(got, want string) string) (*hir.Expr, error) {
	out := tc.convert(e, target)
	if !tc.types.EqualUnqualified(out.Type, target) {
		return nil, diag.Errorf(diag.SemaTypeMismatch, sp, "%s", what(tc.typeName(out.Type), tc.typeName(target)))
	}
	return out, nil
}

// unifyInit validates the initializer of a global or local named name
// against its optional declared type and returns the converted initializer
// with the storage type.
func (tc *typeChecker) unifyInit(name string, declared types.TypeID, init ast.ExprID, sp source.Span) (*hir.Expr, types.TypeID, error) {
	e, err := tc.validate(init, declared)
	if err != nil {
		return nil, types.NoTypeID, err
	}
	if tc.types.IsVoid(e.Type) {
		return nil, types.NoTypeID, diag.Errorf(diag.SemaTypeMismatch, e.Span, "cannot initialize %q with a void value", name)
	}
	if declared != types.NoTypeID {
		out, err := tc.coerce(e, declared, e.Span, func(got, want string) string {
			return fmt.Sprintf("cannot initialize %q of type %s with a value of type %s", name, want, got)
		})
		return out, declared, err
	}
	e = tc.ensureRValue(e)
	if tc.types.IsNull(e.Type) {
		return nil, types.NoTypeID, diag.Errorf(diag.SemaTypeMismatch, sp, "cannot deduce the type of %q from null", name)
	}
	return e, tc.types.RemoveConst(e.Type), nil
}
