package sema

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/symbols"
	"ember/internal/types"
)

// checkBody validates the body of a function or operator. Gotos are
// collected by name first and bound to labels once the whole body is known.
func (tc *typeChecker) checkBody(id symbols.DeclID) (*hir.Func, error) {
	d := tc.table.Decl(id)
	node := tc.prog.Decl(d.Node)

	fs := newFuncState(id, d.Result)
	savedModule, savedFn := tc.module, tc.fn
	tc.module, tc.fn = d.Module, fs
	defer func() { tc.module, tc.fn = savedModule, savedFn }()

	fs.push()
	for _, p := range d.Params {
		name := tc.name(p.Name)
		fs.param(hir.Local{Name: p.Name, Type: p.Type, Span: p.Span, Param: true}, name == "" || name == "_")
	}
	body, err := tc.checkTopBlock(node.Body)
	if err != nil {
		return nil, err
	}
	fs.pop()

	body, err = tc.bindGotos(body)
	if err != nil {
		return nil, err
	}
	return &hir.Func{
		Decl:   id,
		Result: d.Result,
		Locals: fs.locals,
		Labels: fs.labels,
		Body:   body,
	}, nil
}

// checkTopBlock validates the outermost block in the parameter scope so a
// local cannot redeclare a parameter.
func (tc *typeChecker) checkTopBlock(id ast.StmtID) (*hir.Stmt, error) {
	s := tc.prog.Stmt(id)
	if s == nil {
		return nil, diag.Errorf(diag.ProjectBadPayload, source.Span{}, "missing statement #%d", id)
	}
	if s.Kind != ast.StmtBlock {
		return tc.checkStmt(id)
	}
	stmts, err := tc.checkStmts(s.Stmts)
	if err != nil {
		return nil, err
	}
	return &hir.Stmt{Kind: hir.StmtBlock, Span: s.Span, Data: &hir.BlockData{Stmts: stmts}}, nil
}

func (tc *typeChecker) checkStmts(ids []ast.StmtID) ([]*hir.Stmt, error) {
	out := make([]*hir.Stmt, 0, len(ids))
	for _, id := range ids {
		s, err := tc.checkStmt(id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (tc *typeChecker) checkStmt(id ast.StmtID) (*hir.Stmt, error) {
	s := tc.prog.Stmt(id)
	if s == nil {
		return nil, diag.Errorf(diag.ProjectBadPayload, source.Span{}, "missing statement #%d", id)
	}
	fs := tc.fn
	switch s.Kind {
	case ast.StmtBlock:
		fs.push()
		defer fs.pop()
		stmts, err := tc.checkStmts(s.Stmts)
		if err != nil {
			return nil, err
		}
		return &hir.Stmt{Kind: hir.StmtBlock, Span: s.Span, Data: &hir.BlockData{Stmts: stmts}}, nil

	case ast.StmtExpr:
		e, err := tc.validate(s.Expr, types.NoTypeID)
		if err != nil {
			return nil, err
		}
		return &hir.Stmt{Kind: hir.StmtExpr, Span: s.Span, Data: &hir.ExprStmtData{X: e}}, nil

	case ast.StmtVar:
		return tc.checkVar(s)

	case ast.StmtAssign:
		return tc.checkAssign(s)

	case ast.StmtIf:
		construct := "if"
		if s.Negate {
			construct = "unless"
		}
		cond, err := tc.condition(s.Expr, construct)
		if err != nil {
			return nil, err
		}
		then, err := tc.checkScoped(s.Then)
		if err != nil {
			return nil, err
		}
		var els *hir.Stmt
		if s.Else.IsValid() {
			if els, err = tc.checkScoped(s.Else); err != nil {
				return nil, err
			}
		}
		return &hir.Stmt{Kind: hir.StmtIf, Span: s.Span, Data: &hir.IfData{Cond: cond, Then: then, Else: els, Negate: s.Negate}}, nil

	case ast.StmtWhile:
		construct := "while"
		if s.Negate {
			construct = "until"
		}
		cond, err := tc.condition(s.Expr, construct)
		if err != nil {
			return nil, err
		}
		body, err := tc.checkLoopBody(s.Body)
		if err != nil {
			return nil, err
		}
		return &hir.Stmt{Kind: hir.StmtWhile, Span: s.Span, Data: &hir.WhileData{Cond: cond, Body: body, Negate: s.Negate}}, nil

	case ast.StmtLoop:
		body, err := tc.checkLoopBody(s.Body)
		if err != nil {
			return nil, err
		}
		return &hir.Stmt{Kind: hir.StmtLoop, Span: s.Span, Data: &hir.LoopData{Body: body}}, nil

	case ast.StmtBreak, ast.StmtContinue:
		if fs.loops == 0 {
			return nil, diag.Errorf(diag.SemaMisplacedControl, s.Span, "%s outside of a loop", s.Kind)
		}
		kind := hir.StmtBreak
		if s.Kind == ast.StmtContinue {
			kind = hir.StmtContinue
		}
		return &hir.Stmt{Kind: kind, Span: s.Span}, nil

	case ast.StmtGoto:
		return &hir.Stmt{Kind: hir.StmtGoto, Span: s.Span, Data: &hir.GotoData{Name: tc.intern(s.Name)}}, nil

	case ast.StmtLabel:
		id, prev := fs.defineLabel(tc.intern(s.Name), s.Span)
		if prev != nil {
			return nil, diag.Errorf(diag.SemaRedefinition, s.Span, "label %q is already defined", s.Name).
				WithNote(prev.Span, "previous label declared here")
		}
		return &hir.Stmt{Kind: hir.StmtLabel, Span: s.Span, Data: &hir.LabelData{Label: id}}, nil

	case ast.StmtReturn:
		return tc.checkReturn(s)
	}
	return nil, diag.Errorf(diag.ProjectBadPayload, s.Span, "invalid statement kind %d", s.Kind)
}

// checkScoped validates a branch in its own scope.
func (tc *typeChecker) checkScoped(id ast.StmtID) (*hir.Stmt, error) {
	tc.fn.push()
	defer tc.fn.pop()
	return tc.checkStmt(id)
}

func (tc *typeChecker) checkLoopBody(id ast.StmtID) (*hir.Stmt, error) {
	tc.fn.loops++
	defer func() { tc.fn.loops-- }()
	return tc.checkScoped(id)
}

func (tc *typeChecker) condition(id ast.ExprID, construct string) (*hir.Expr, error) {
	e, err := tc.validate(id, tc.b.Bool)
	if err != nil {
		return nil, err
	}
	e = tc.ensureRValue(e)
	if !tc.types.EqualUnqualified(e.Type, tc.b.Bool) {
		return nil, diag.Errorf(diag.SemaTypeMismatch, e.Span, "%s condition must be bool, got %s", construct, tc.typeName(e.Type))
	}
	return e, nil
}

// checkVar declares a local. The name becomes visible after its
// initializer; an initialized local lowers to an assignment.
func (tc *typeChecker) checkVar(s *ast.Stmt) (*hir.Stmt, error) {
	// qualified keeps the declared const; declared drives initialization.
	declared, qualified := types.NoTypeID, types.NoTypeID
	if s.Type.IsValid() {
		t, err := tc.resolveType(s.Type, true)
		if err != nil {
			return nil, err
		}
		qualified = t
		declared = tc.types.RemoveConst(t)
	}

	var (
		init *hir.Expr
		t    = declared
	)
	switch {
	case s.Expr.IsValid():
		var err error
		init, t, err = tc.unifyInit(s.Name, declared, s.Expr, s.Span)
		if err != nil {
			return nil, err
		}
	case s.Const:
		return nil, diag.Errorf(diag.SemaNotConstant, s.Span, "constant %q must be initialized", s.Name)
	case declared == types.NoTypeID:
		return nil, diag.Errorf(diag.SemaTypeMismatch, s.Span, "variable %q needs a type or an initializer", s.Name)
	}
	if err := tc.requireStorable(t, s.Span, "variable "+s.Name); err != nil {
		return nil, err
	}
	if _, err := tc.requireLayout(t, s.Span); err != nil {
		return nil, err
	}

	stored := t
	if qualified != types.NoTypeID {
		stored = qualified
	}
	if s.Const {
		stored = tc.types.AddConst(t)
	}
	id, prev := tc.fn.declare(hir.Local{Name: tc.intern(s.Name), Type: stored, Span: s.Span})
	if prev != nil {
		return nil, diag.Errorf(diag.SemaRedefinition, s.Span, "%q is already declared in this scope", s.Name).
			WithNote(prev.Span, "previous declaration here")
	}
	if init == nil {
		return &hir.Stmt{Kind: hir.StmtNop, Span: s.Span}, nil
	}
	target := &hir.Expr{Kind: hir.ExprLocal, Type: t, Cat: hir.LValue, Span: s.Span, Data: &hir.LocalData{Local: id}}
	return &hir.Stmt{Kind: hir.StmtAssign, Span: s.Span, Data: &hir.AssignData{Target: target, Value: init}}, nil
}

func (tc *typeChecker) checkAssign(s *ast.Stmt) (*hir.Stmt, error) {
	target, err := tc.validate(s.Target, types.NoTypeID)
	if err != nil {
		return nil, err
	}
	if target.Cat != hir.LValue || tc.types.IsFn(target.Type) {
		return nil, diag.Errorf(diag.SemaNotAssignable, target.Span, "cannot assign to a value of type %s", tc.typeName(target.Type))
	}
	if tc.types.IsConst(target.Type) {
		return nil, diag.Errorf(diag.SemaNotAssignable, target.Span, "cannot assign to constant of type %s", tc.typeName(target.Type))
	}
	want := target.Type
	value, err := tc.validate(s.Expr, want)
	if err != nil {
		return nil, err
	}
	value, err = tc.coerce(value, want, value.Span, func(got, want string) string {
		return "cannot assign a value of type " + got + " to " + want
	})
	if err != nil {
		return nil, err
	}
	return &hir.Stmt{Kind: hir.StmtAssign, Span: s.Span, Data: &hir.AssignData{Target: target, Value: value}}, nil
}

func (tc *typeChecker) checkReturn(s *ast.Stmt) (*hir.Stmt, error) {
	want := tc.types.RemoveConst(tc.fn.result)
	if !s.Expr.IsValid() {
		if !tc.types.IsVoid(want) {
			return nil, diag.Errorf(diag.SemaTypeMismatch, s.Span, "missing return value in function returning %s", tc.typeName(want))
		}
		return &hir.Stmt{Kind: hir.StmtReturn, Span: s.Span, Data: &hir.ReturnData{}}, nil
	}
	e, err := tc.validate(s.Expr, want)
	if err != nil {
		return nil, err
	}
	if tc.types.IsVoid(e.Type) {
		return nil, diag.Errorf(diag.SemaTypeMismatch, e.Span, "cannot return a void value")
	}
	if tc.types.IsVoid(want) {
		return nil, diag.Errorf(diag.SemaTypeMismatch, e.Span, "function returning void cannot return a value")
	}
	e, err = tc.coerce(e, want, e.Span, func(got, want string) string {
		return "cannot return " + got + " from function returning " + want
	})
	if err != nil {
		return nil, err
	}
	return &hir.Stmt{Kind: hir.StmtReturn, Span: s.Span, Data: &hir.ReturnData{Value: e}}, nil
}

// bindGotos rebuilds the body with every goto bound to its label. Leaf
// statements other than gotos are shared with the input tree.
func (tc *typeChecker) bindGotos(s *hir.Stmt) (*hir.Stmt, error) {
	if s == nil {
		return nil, nil
	}
	switch data := s.Data.(type) {
	case *hir.GotoData:
		id, ok := tc.fn.labelIDs[data.Name]
		if !ok {
			return nil, diag.Errorf(diag.SemaUnresolvedGoto, s.Span, "goto target %q is not defined in this function", tc.name(data.Name))
		}
		return &hir.Stmt{Kind: s.Kind, Span: s.Span, Data: &hir.GotoData{Name: data.Name, Label: id}}, nil
	case *hir.BlockData:
		stmts := make([]*hir.Stmt, len(data.Stmts))
		for i, c := range data.Stmts {
			b, err := tc.bindGotos(c)
			if err != nil {
				return nil, err
			}
			stmts[i] = b
		}
		return &hir.Stmt{Kind: s.Kind, Span: s.Span, Data: &hir.BlockData{Stmts: stmts}}, nil
	case *hir.IfData:
		then, err := tc.bindGotos(data.Then)
		if err != nil {
			return nil, err
		}
		els, err := tc.bindGotos(data.Else)
		if err != nil {
			return nil, err
		}
		return &hir.Stmt{Kind: s.Kind, Span: s.Span, Data: &hir.IfData{Cond: data.Cond, Then: then, Else: els, Negate: data.Negate}}, nil
	case *hir.WhileData:
		body, err := tc.bindGotos(data.Body)
		if err != nil {
			return nil, err
		}
		return &hir.Stmt{Kind: s.Kind, Span: s.Span, Data: &hir.WhileData{Cond: data.Cond, Body: body, Negate: data.Negate}}, nil
	case *hir.LoopData:
		body, err := tc.bindGotos(data.Body)
		if err != nil {
			return nil, err
		}
		return &hir.Stmt{Kind: s.Kind, Span: s.Span, Data: &hir.LoopData{Body: body}}, nil
	}
	return s, nil
}
