package sema

import (
	"math"

	"ember/internal/ast"
	"ember/internal/hir"
	"ember/internal/types"
)

// constEval folds a global initializer. Literals, aggregates of constants,
// arithmetic on constants, casts, conversions, reads of const globals and
// addresses of globals or functions are constant; anything else reports
// false.
func (tc *typeChecker) constEval(e *hir.Expr) (*hir.Expr, bool) {
	switch data := e.Data.(type) {
	case *hir.LiteralData:
		return e, true

	case *hir.LoadData:
		g, ok := data.X.Data.(*hir.GlobalData)
		if !ok || !tc.types.IsConst(data.X.Type) {
			return nil, false
		}
		init, ok := tc.result.Globals[g.Decl]
		return init, ok

	case *hir.AddrOfData:
		switch data.X.Data.(type) {
		case *hir.GlobalData, *hir.FuncRefData:
			return e, true
		}
		return nil, false

	case *hir.ConvertData:
		x, ok := tc.constEval(data.X)
		if !ok {
			return nil, false
		}
		return tc.foldConvert(e, data, x)

	case *hir.UnaryData:
		x, ok := tc.constEval(data.X)
		if !ok {
			return nil, false
		}
		return tc.foldUnary(e, data.Op, x)

	case *hir.BinaryData:
		x, ok := tc.constEval(data.X)
		if !ok {
			return nil, false
		}
		y, ok := tc.constEval(data.Y)
		if !ok {
			return nil, false
		}
		return tc.foldBinary(e, data.Op, x, y)

	case *hir.CastData:
		x, ok := tc.constEval(data.X)
		if !ok {
			return nil, false
		}
		return tc.foldCast(e, data.Cast, x)

	case *hir.StructLitData:
		fields, ok := tc.constList(data.Fields)
		if !ok {
			return nil, false
		}
		return &hir.Expr{Kind: e.Kind, Type: e.Type, Cat: e.Cat, Span: e.Span, Data: &hir.StructLitData{Fields: fields}}, true

	case *hir.TupleLitData:
		elems, ok := tc.constList(data.Elems)
		if !ok {
			return nil, false
		}
		return &hir.Expr{Kind: e.Kind, Type: e.Type, Cat: e.Cat, Span: e.Span, Data: &hir.TupleLitData{Elems: elems}}, true

	case *hir.ArrayLitData:
		elems, ok := tc.constList(data.Elems)
		if !ok {
			return nil, false
		}
		return &hir.Expr{Kind: e.Kind, Type: e.Type, Cat: e.Cat, Span: e.Span, Data: &hir.ArrayLitData{Elems: elems}}, true
	}
	return nil, false
}

func (tc *typeChecker) constList(es []*hir.Expr) ([]*hir.Expr, bool) {
	out := make([]*hir.Expr, len(es))
	for i, e := range es {
		c, ok := tc.constEval(e)
		if !ok {
			return nil, false
		}
		out[i] = c
	}
	return out, true
}

func litOf(e *hir.Expr) (*hir.LiteralData, bool) {
	lit, ok := e.Data.(*hir.LiteralData)
	return lit, ok
}

func (tc *typeChecker) intConst(t types.TypeID, v uint64, from *hir.Expr) *hir.Expr {
	return tc.literal(t, from.Span, &hir.LiteralData{Kind: hir.LitInt, Int: v & mask(tc.layout.IntBits(t))})
}

func (tc *typeChecker) floatConst(t types.TypeID, f float64, from *hir.Expr) *hir.Expr {
	if tc.types.WidthOf(t) == types.Width32 {
		f = float64(float32(f))
	}
	return tc.literal(t, from.Span, &hir.LiteralData{Kind: hir.LitFloat, Float: f})
}

func (tc *typeChecker) boolConst(v bool, from *hir.Expr) *hir.Expr {
	return tc.literal(tc.b.Bool, from.Span, &hir.LiteralData{Kind: hir.LitBool, Bool: v})
}

// signExtend interprets the low bits of v as a signed value.
func signExtend(v uint64, bits int) int64 {
	if bits >= 64 {
		return int64(v)
	}
	shift := uint(64 - bits)
	return int64(v<<shift) >> shift
}

// intValue returns the integer constant as int64 and whether its type is
// signed; unsigned values are returned zero-extended.
func (tc *typeChecker) intValue(e *hir.Expr, lit *hir.LiteralData) (int64, bool) {
	if tc.types.IsSigned(e.Type) {
		return signExtend(lit.Int, tc.layout.IntBits(e.Type)), true
	}
	return int64(lit.Int), false
}

func (tc *typeChecker) foldConvert(e *hir.Expr, data *hir.ConvertData, x *hir.Expr) (*hir.Expr, bool) {
	lit, isLit := litOf(x)
	switch data.Conv {
	case hir.ConvFloatExtend:
		if isLit {
			return tc.floatConst(e.Type, lit.Float, e), true
		}
	case hir.ConvIntWiden:
		if isLit {
			v, _ := tc.intValue(x, lit)
			return tc.intConst(e.Type, uint64(v), e), true
		}
	case hir.ConvNullToPointer:
		return tc.literal(e.Type, e.Span, &hir.LiteralData{Kind: hir.LitNull}), true
	default:
		return &hir.Expr{Kind: e.Kind, Type: e.Type, Cat: e.Cat, Span: e.Span,
			Data: &hir.ConvertData{Conv: data.Conv, X: x, Len: data.Len}}, true
	}
	return nil, false
}

func (tc *typeChecker) foldUnary(e *hir.Expr, op ast.Op, x *hir.Expr) (*hir.Expr, bool) {
	lit, ok := litOf(x)
	if !ok {
		return nil, false
	}
	switch {
	case op == ast.OpNeg && lit.Kind == hir.LitInt:
		return tc.intConst(e.Type, -lit.Int, e), true
	case op == ast.OpNeg && lit.Kind == hir.LitFloat:
		return tc.floatConst(e.Type, -lit.Float, e), true
	case op == ast.OpNot && lit.Kind == hir.LitBool:
		return tc.boolConst(!lit.Bool, e), true
	case op == ast.OpBitNot && lit.Kind == hir.LitInt:
		return tc.intConst(e.Type, ^lit.Int, e), true
	}
	return nil, false
}

func (tc *typeChecker) foldBinary(e *hir.Expr, op ast.Op, x, y *hir.Expr) (*hir.Expr, bool) {
	a, ok := litOf(x)
	if !ok {
		return nil, false
	}
	b, ok := litOf(y)
	if !ok {
		return nil, false
	}
	switch {
	case a.Kind == hir.LitInt && b.Kind == hir.LitInt:
		return tc.foldIntBinary(e, op, x, a, y, b)
	case a.Kind == hir.LitFloat && b.Kind == hir.LitFloat:
		return tc.foldFloatBinary(e, op, a.Float, b.Float)
	case a.Kind == hir.LitBool && b.Kind == hir.LitBool:
		switch op {
		case ast.OpLogAnd, ast.OpBitAnd:
			return tc.boolConst(a.Bool && b.Bool, e), true
		case ast.OpLogOr, ast.OpBitOr:
			return tc.boolConst(a.Bool || b.Bool, e), true
		case ast.OpBitXor, ast.OpNe:
			return tc.boolConst(a.Bool != b.Bool, e), true
		case ast.OpEq:
			return tc.boolConst(a.Bool == b.Bool, e), true
		}
	}
	return nil, false
}

func (tc *typeChecker) foldIntBinary(e *hir.Expr, op ast.Op, x *hir.Expr, a *hir.LiteralData, y *hir.Expr, b *hir.LiteralData) (*hir.Expr, bool) {
	av, signed := tc.intValue(x, a)
	bv, _ := tc.intValue(y, b)
	ua, ub := a.Int, b.Int
	cmp := func(lt, eq bool) (*hir.Expr, bool) {
		switch op {
		case ast.OpEq:
			return tc.boolConst(eq, e), true
		case ast.OpNe:
			return tc.boolConst(!eq, e), true
		case ast.OpLt:
			return tc.boolConst(lt, e), true
		case ast.OpLe:
			return tc.boolConst(lt || eq, e), true
		case ast.OpGt:
			return tc.boolConst(!lt && !eq, e), true
		case ast.OpGe:
			return tc.boolConst(!lt, e), true
		}
		return nil, false
	}
	if op.IsComparison() {
		if signed {
			return cmp(av < bv, av == bv)
		}
		return cmp(ua < ub, ua == ub)
	}

	var r uint64
	switch op {
	case ast.OpAdd:
		r = ua + ub
	case ast.OpSub:
		r = ua - ub
	case ast.OpMul:
		r = ua * ub
	case ast.OpDiv, ast.OpRem:
		if ub == 0 {
			return nil, false
		}
		switch {
		case signed && op == ast.OpDiv:
			r = uint64(av / bv)
		case signed:
			r = uint64(av % bv)
		case op == ast.OpDiv:
			r = ua / ub
		default:
			r = ua % ub
		}
	case ast.OpBitAnd:
		r = ua & ub
	case ast.OpBitOr:
		r = ua | ub
	case ast.OpBitXor:
		r = ua ^ ub
	case ast.OpShl, ast.OpShr:
		bits := tc.layout.IntBits(e.Type)
		if ub >= uint64(bits) {
			return nil, false
		}
		switch {
		case op == ast.OpShl:
			r = ua << ub
		case signed:
			r = uint64(av >> ub)
		default:
			r = ua >> ub
		}
	default:
		return nil, false
	}
	return tc.intConst(e.Type, r, e), true
}

func (tc *typeChecker) foldFloatBinary(e *hir.Expr, op ast.Op, a, b float64) (*hir.Expr, bool) {
	switch op {
	case ast.OpAdd:
		return tc.floatConst(e.Type, a+b, e), true
	case ast.OpSub:
		return tc.floatConst(e.Type, a-b, e), true
	case ast.OpMul:
		return tc.floatConst(e.Type, a*b, e), true
	case ast.OpDiv:
		return tc.floatConst(e.Type, a/b, e), true
	case ast.OpRem:
		return tc.floatConst(e.Type, math.Mod(a, b), e), true
	case ast.OpEq:
		return tc.boolConst(a == b, e), true
	case ast.OpNe:
		return tc.boolConst(a != b, e), true
	case ast.OpLt:
		return tc.boolConst(a < b, e), true
	case ast.OpLe:
		return tc.boolConst(a <= b, e), true
	case ast.OpGt:
		return tc.boolConst(a > b, e), true
	case ast.OpGe:
		return tc.boolConst(a >= b, e), true
	}
	return nil, false
}

func (tc *typeChecker) foldCast(e *hir.Expr, kind ast.CastKind, x *hir.Expr) (*hir.Expr, bool) {
	lit, ok := litOf(x)
	if !ok {
		return nil, false
	}
	switch {
	case lit.Kind == hir.LitInt && tc.types.IsFloat(e.Type):
		v, signed := tc.intValue(x, lit)
		f := float64(v)
		if !signed {
			f = float64(lit.Int)
		}
		return tc.floatConst(e.Type, f, e), true
	case lit.Kind == hir.LitInt:
		if tc.types.IsPointer(e.Type) {
			return nil, false
		}
		v, _ := tc.intValue(x, lit)
		return tc.intConst(e.Type, uint64(v), e), true
	case lit.Kind == hir.LitFloat && tc.types.IsFloat(e.Type):
		return tc.floatConst(e.Type, lit.Float, e), true
	case lit.Kind == hir.LitFloat:
		if math.IsNaN(lit.Float) || math.IsInf(lit.Float, 0) {
			return nil, false
		}
		if tc.types.IsSigned(e.Type) {
			return tc.intConst(e.Type, uint64(int64(lit.Float)), e), true
		}
		return tc.intConst(e.Type, uint64(lit.Float), e), true
	case lit.Kind == hir.LitBool:
		var v uint64
		if lit.Bool {
			v = 1
		}
		return tc.intConst(e.Type, v, e), true
	case lit.Kind == hir.LitNull && kind == ast.CastPointer && tc.types.IsPointer(e.Type):
		return tc.literal(e.Type, e.Span, &hir.LiteralData{Kind: hir.LitNull}), true
	}
	return nil, false
}
