package sema

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/types"
)

// validate type-checks one expression. The hint only shapes literals and
// aggregate elements; callers that need a type convert and compare.
func (tc *typeChecker) validate(id ast.ExprID, hint types.TypeID) (*hir.Expr, error) {
	x := tc.prog.Expr(id)
	if x == nil {
		return nil, diag.Errorf(diag.ProjectBadPayload, source.Span{}, "missing expression #%d", id)
	}
	switch x.Kind {
	case ast.ExprIdent:
		return tc.ident(x)
	case ast.ExprIntLit:
		return tc.intLit(x, hint, false, x.Span)
	case ast.ExprFloatLit:
		return tc.floatLit(x, hint, false, x.Span)
	case ast.ExprBoolLit:
		return tc.literal(tc.b.Bool, x.Span, &hir.LiteralData{Kind: hir.LitBool, Bool: x.Bool}), nil
	case ast.ExprNullLit:
		return tc.literal(tc.b.Null, x.Span, &hir.LiteralData{Kind: hir.LitNull}), nil
	case ast.ExprStringLit:
		return tc.stringLit(x), nil
	case ast.ExprUnary:
		return tc.unary(x, hint)
	case ast.ExprBinary:
		return tc.binary(x, hint)
	case ast.ExprCall:
		return tc.call(x)
	case ast.ExprIndex:
		return tc.index(x)
	case ast.ExprField:
		return tc.field(x)
	case ast.ExprCast:
		return tc.cast(x)
	case ast.ExprSizeof, ast.ExprAlignof:
		return tc.sizeQuery(x)
	case ast.ExprStructLit:
		return tc.structLit(x)
	case ast.ExprTupleLit:
		return tc.tupleLit(x, hint)
	case ast.ExprArrayLit:
		return tc.arrayLit(x, hint)
	case ast.ExprBuiltin:
		return tc.builtin(x)
	}
	return nil, diag.Errorf(diag.ProjectBadPayload, x.Span, "invalid expression kind %d", x.Kind)
}

func (tc *typeChecker) literal(t types.TypeID, sp source.Span, data *hir.LiteralData) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprLiteral, Type: t, Cat: hir.RValue, Span: sp, Data: data}
}

func (tc *typeChecker) ident(x *ast.Expr) (*hir.Expr, error) {
	name := tc.intern(x.Name)
	if x.Module == "" && tc.fn != nil {
		if id, ok := tc.fn.lookup(name); ok {
			l := tc.fn.locals[id]
			return &hir.Expr{Kind: hir.ExprLocal, Type: l.Type, Cat: hir.LValue, Span: x.Span, Data: &hir.LocalData{Local: id}}, nil
		}
	}
	qual := source.NoStringID
	if x.Module != "" {
		qual = tc.intern(x.Module)
	}
	found, err := tc.table.Lookup(tc.module, qual, name, x.Span)
	if err != nil {
		return nil, err
	}
	if found.IsOverloadSet() {
		if len(found.Funcs) != 1 {
			return nil, diag.Errorf(diag.SemaAmbiguousSymbol, x.Span,
				"%s is overloaded and cannot be used as a value", qualified(x.Module, x.Name))
		}
		fid := found.Funcs[0]
		if err := tc.resolve(fid); err != nil {
			return nil, err
		}
		return &hir.Expr{Kind: hir.ExprFuncRef, Type: tc.table.Decl(fid).Type, Cat: hir.LValue, Span: x.Span, Data: &hir.FuncRefData{Decl: fid}}, nil
	}
	d := tc.table.Decl(found.Decl)
	if d.Kind.IsType() {
		return nil, diag.Errorf(diag.SemaInvalidOperand, x.Span, "type %s cannot be used as a value", qualified(x.Module, x.Name))
	}
	if err := tc.resolve(found.Decl); err != nil {
		return nil, err
	}
	t := d.Type
	if d.Const {
		t = tc.types.AddConst(t)
	}
	return &hir.Expr{Kind: hir.ExprGlobal, Type: t, Cat: hir.LValue, Span: x.Span, Data: &hir.GlobalData{Decl: found.Decl}}, nil
}

// isUntypedLiteral reports numeric literals, possibly negated, whose type
// still follows the hint.
func (tc *typeChecker) isUntypedLiteral(id ast.ExprID) bool {
	x := tc.prog.Expr(id)
	if x == nil {
		return false
	}
	if x.Kind == ast.ExprUnary && x.Op == ast.OpNeg {
		x = tc.prog.Expr(x.X)
		if x == nil {
			return false
		}
	}
	return x.Kind == ast.ExprIntLit || x.Kind == ast.ExprFloatLit
}

func (tc *typeChecker) unary(x *ast.Expr, hint types.TypeID) (*hir.Expr, error) {
	switch x.Op {
	case ast.OpAddr:
		return tc.addrOf(x)
	case ast.OpDeref:
		return tc.deref(x)
	case ast.OpNeg:
		if lit := tc.prog.Expr(x.X); lit != nil {
			switch lit.Kind {
			case ast.ExprIntLit:
				return tc.intLit(lit, hint, true, x.Span)
			case ast.ExprFloatLit:
				return tc.floatLit(lit, hint, true, x.Span)
			}
		}
	}

	operandHint := hint
	if x.Op == ast.OpNot {
		operandHint = tc.b.Bool
	}
	e, err := tc.validate(x.X, operandHint)
	if err != nil {
		return nil, err
	}
	e = tc.ensureRValue(e)
	if tc.types.IsStruct(e.Type) {
		return tc.operatorCall(x.Op, []ast.ExprID{x.X}, e.Type, x.Span)
	}
	if tc.types.IsVoid(e.Type) {
		return nil, diag.Errorf(diag.SemaZeroSizeOperation, x.Span, "operator %s applied to a void value", x.Op)
	}
	var ok bool
	switch x.Op {
	case ast.OpNeg:
		ok = tc.types.IsArithmetic(e.Type)
	case ast.OpNot:
		ok = tc.types.IsBool(e.Type)
	case ast.OpBitNot:
		ok = tc.types.IsInteger(e.Type) || tc.types.IsByte(e.Type)
	}
	if !ok {
		return nil, diag.Errorf(diag.SemaInvalidOperand, x.Span, "operator %s is not defined for %s", x.Op, tc.typeName(e.Type))
	}
	return &hir.Expr{Kind: hir.ExprUnary, Type: e.Type, Cat: hir.RValue, Span: x.Span, Data: &hir.UnaryData{Op: x.Op, X: e}}, nil
}

func (tc *typeChecker) addrOf(x *ast.Expr) (*hir.Expr, error) {
	e, err := tc.validate(x.X, types.NoTypeID)
	if err != nil {
		return nil, err
	}
	if e.Cat != hir.LValue {
		return nil, diag.Errorf(diag.SemaInvalidOperand, x.Span, "cannot take the address of a temporary %s", tc.typeName(e.Type))
	}
	return &hir.Expr{Kind: hir.ExprAddrOf, Type: tc.types.Pointer(e.Type), Cat: hir.RValue, Span: x.Span, Data: &hir.AddrOfData{X: e}}, nil
}

func (tc *typeChecker) deref(x *ast.Expr) (*hir.Expr, error) {
	e, err := tc.validate(x.X, types.NoTypeID)
	if err != nil {
		return nil, err
	}
	e = tc.ensureRValue(e)
	return tc.derefValue(e, x.Span)
}

func (tc *typeChecker) derefValue(e *hir.Expr, sp source.Span) (*hir.Expr, error) {
	switch {
	case tc.types.IsNullablePointer(e.Type):
		return nil, diag.Errorf(diag.SemaInvalidOperand, sp,
			"cannot dereference nullable pointer %s; cast it to a non-nullable pointer first", tc.typeName(e.Type))
	case !tc.types.IsNonNullablePointer(e.Type):
		return nil, diag.Errorf(diag.SemaInvalidOperand, sp, "cannot dereference %s", tc.typeName(e.Type))
	}
	return &hir.Expr{Kind: hir.ExprDeref, Type: tc.types.Elem(e.Type), Cat: hir.LValue, Span: sp, Data: &hir.DerefData{X: e}}, nil
}

func (tc *typeChecker) operatorCall(op ast.Op, args []ast.ExprID, operand types.TypeID, sp source.Span) (*hir.Expr, error) {
	cands := tc.operatorCandidates(op)
	if len(cands) == 0 {
		return nil, diag.Errorf(diag.SemaInvalidOperand, sp, "no operator %s is declared for %s", op, tc.typeName(operand))
	}
	return tc.resolveOverload(op.OperatorSetName(), cands, args, sp)
}

func (tc *typeChecker) binary(x *ast.Expr, hint types.TypeID) (*hir.Expr, error) {
	op := x.Op
	if op.IsLogical() {
		return tc.logical(x)
	}
	operandHint := hint
	if op.IsComparison() {
		operandHint = types.NoTypeID
	}
	l, err := tc.validate(x.X, operandHint)
	if err != nil {
		return nil, err
	}
	rHint := operandHint
	if op == ast.OpShl || op == ast.OpShr {
		rHint = types.NoTypeID
	}
	r, err := tc.validate(x.Y, rHint)
	if err != nil {
		return nil, err
	}
	l, r = tc.ensureRValue(l), tc.ensureRValue(r)
	if tc.types.IsStruct(l.Type) || tc.types.IsStruct(r.Type) {
		operand := l.Type
		if !tc.types.IsStruct(operand) {
			operand = r.Type
		}
		return tc.operatorCall(op, []ast.ExprID{x.X, x.Y}, operand, x.Span)
	}
	if tc.types.IsVoid(l.Type) || tc.types.IsVoid(r.Type) {
		return nil, diag.Errorf(diag.SemaZeroSizeOperation, x.Span, "operator %s applied to a void value", op)
	}

	shift := op == ast.OpShl || op == ast.OpShr
	lu, ru := tc.isUntypedLiteral(x.X), tc.isUntypedLiteral(x.Y)
	switch {
	case lu && !ru && !shift:
		if l, err = tc.revalidate(x.X, r.Type); err != nil {
			return nil, err
		}
	case ru && !lu:
		if r, err = tc.revalidate(x.Y, l.Type); err != nil {
			return nil, err
		}
	}

	if shift {
		if !tc.types.IsInteger(l.Type) || !tc.types.IsInteger(r.Type) {
			return nil, diag.Errorf(diag.SemaInvalidOperand, x.Span, "operator %s needs integer operands, got %s and %s",
				op, tc.typeName(l.Type), tc.typeName(r.Type))
		}
		return tc.binaryNode(op, l, r, l.Type, x.Span), nil
	}

	if op == ast.OpEq || op == ast.OpNe {
		switch {
		case tc.types.IsNull(l.Type) && tc.types.IsPointer(r.Type):
			l = tc.wrap(hir.ConvNullToPointer, l, r.Type, 0)
		case tc.types.IsNull(r.Type) && tc.types.IsPointer(l.Type):
			r = tc.wrap(hir.ConvNullToPointer, r, l.Type, 0)
		}
	}
	if !tc.types.EqualUnqualified(l.Type, r.Type) {
		if conv := tc.convert(r, l.Type); tc.types.EqualUnqualified(conv.Type, l.Type) {
			r = conv
		} else if conv := tc.convert(l, r.Type); tc.types.EqualUnqualified(conv.Type, r.Type) {
			l = conv
		} else {
			return nil, diag.Errorf(diag.SemaTypeMismatch, x.Span, "mismatched operand types %s and %s for operator %s",
				tc.typeName(l.Type), tc.typeName(r.Type), op)
		}
	}

	t := l.Type
	var ok bool
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpRem:
		ok = tc.types.IsArithmetic(t)
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		ok = tc.types.IsInteger(t) || tc.types.IsBool(t) || tc.types.IsByte(t)
	case ast.OpEq, ast.OpNe:
		ok = tc.types.IsArithmetic(t) || tc.types.IsBool(t) || tc.types.IsByte(t) || tc.types.IsPointer(t)
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		ok = tc.types.IsArithmetic(t) || tc.types.IsByte(t)
	}
	if !ok {
		return nil, diag.Errorf(diag.SemaInvalidOperand, x.Span, "operator %s is not defined for %s", op, tc.typeName(t))
	}
	result := t
	if op.IsComparison() {
		result = tc.b.Bool
	}
	return tc.binaryNode(op, l, r, result, x.Span), nil
}

func (tc *typeChecker) revalidate(id ast.ExprID, hint types.TypeID) (*hir.Expr, error) {
	e, err := tc.validate(id, tc.types.RemoveConst(hint))
	if err != nil {
		return nil, err
	}
	return tc.ensureRValue(e), nil
}

func (tc *typeChecker) binaryNode(op ast.Op, l, r *hir.Expr, t types.TypeID, sp source.Span) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprBinary, Type: t, Cat: hir.RValue, Span: sp, Data: &hir.BinaryData{Op: op, X: l, Y: r}}
}

func (tc *typeChecker) logical(x *ast.Expr) (*hir.Expr, error) {
	operands := [2]*hir.Expr{}
	for i, id := range []ast.ExprID{x.X, x.Y} {
		e, err := tc.validate(id, tc.b.Bool)
		if err != nil {
			return nil, err
		}
		e = tc.ensureRValue(e)
		if !tc.types.IsBool(e.Type) {
			return nil, diag.Errorf(diag.SemaTypeMismatch, e.Span, "operands of %s must be bool, got %s", x.Op, tc.typeName(e.Type))
		}
		operands[i] = e
	}
	return tc.binaryNode(x.Op, operands[0], operands[1], tc.b.Bool, x.Span), nil
}
