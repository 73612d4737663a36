package llvm

import (
	"ember/internal/hir"
)

func (fe *funcEmitter) emitStmt(s *hir.Stmt) error {
	if s == nil {
		return nil
	}
	switch data := s.Data.(type) {
	case nil:
		return fe.emitBareStmt(s)
	case *hir.BlockData:
		for _, inner := range data.Stmts {
			if err := fe.emitStmt(inner); err != nil {
				return err
			}
		}
		return nil
	case *hir.ExprStmtData:
		_, _, err := fe.emitValue(data.X)
		return err
	case *hir.AssignData:
		return fe.emitAssign(data)
	case *hir.IfData:
		return fe.emitIf(data)
	case *hir.WhileData:
		return fe.emitWhile(data)
	case *hir.LoopData:
		return fe.emitLoop(data)
	case *hir.GotoData:
		if data.Label == hir.NoLabelID {
			return unsupported(s.Span, "goto %s has no target", fe.emitter.syms.Strings.MustLookup(data.Name))
		}
		fe.emitTerm("br label %%%s", labelName(data.Label))
		return nil
	case *hir.LabelData:
		fe.startBlock(labelName(data.Label))
		return nil
	case *hir.ReturnData:
		return fe.emitReturn(data)
	}
	return unsupported(s.Span, "unexpected statement kind %d", s.Kind)
}

// emitBareStmt handles the statements without payload.
func (fe *funcEmitter) emitBareStmt(s *hir.Stmt) error {
	switch s.Kind {
	case hir.StmtNop:
		return nil
	case hir.StmtBreak, hir.StmtContinue:
		if len(fe.loops) == 0 {
			return unsupported(s.Span, "loop control outside of a loop")
		}
		top := fe.loops[len(fe.loops)-1]
		target := top.brk
		if s.Kind == hir.StmtContinue {
			target = top.cont
		}
		fe.emitTerm("br label %%%s", target)
		return nil
	}
	return unsupported(s.Span, "unexpected statement kind %d", s.Kind)
}

func (fe *funcEmitter) emitAssign(data *hir.AssignData) error {
	val, ty, err := fe.emitValue(data.Value)
	if err != nil {
		return err
	}
	addr, err := fe.emitAddr(data.Target)
	if err != nil {
		return err
	}
	if ty != "void" {
		fe.emit("store %s %s, ptr %s", ty, val, addr)
	}
	return nil
}

func (fe *funcEmitter) emitIf(data *hir.IfData) error {
	cond, _, err := fe.emitValue(data.Cond)
	if err != nil {
		return err
	}
	thenL := fe.nextLabel("if.then")
	endL := fe.nextLabel("if.end")
	elseL := endL
	if data.Else != nil {
		elseL = fe.nextLabel("if.else")
	}
	onTrue, onFalse := thenL, elseL
	if data.Negate {
		onTrue, onFalse = onFalse, onTrue
	}
	fe.emitTerm("br i1 %s, label %%%s, label %%%s", cond, onTrue, onFalse)

	fe.startBlock(thenL)
	if err := fe.emitStmt(data.Then); err != nil {
		return err
	}
	fe.branch(endL)
	if data.Else != nil {
		fe.startBlock(elseL)
		if err := fe.emitStmt(data.Else); err != nil {
			return err
		}
		fe.branch(endL)
	}
	fe.startBlock(endL)
	return nil
}

func (fe *funcEmitter) emitWhile(data *hir.WhileData) error {
	condL := fe.nextLabel("while.cond")
	bodyL := fe.nextLabel("while.body")
	endL := fe.nextLabel("while.end")

	fe.startBlock(condL)
	cond, _, err := fe.emitValue(data.Cond)
	if err != nil {
		return err
	}
	onTrue, onFalse := bodyL, endL
	if data.Negate {
		onTrue, onFalse = onFalse, onTrue
	}
	fe.emitTerm("br i1 %s, label %%%s, label %%%s", cond, onTrue, onFalse)

	fe.loops = append(fe.loops, loopTargets{cont: condL, brk: endL})
	fe.startBlock(bodyL)
	if err := fe.emitStmt(data.Body); err != nil {
		return err
	}
	fe.branch(condL)
	fe.loops = fe.loops[:len(fe.loops)-1]
	fe.startBlock(endL)
	return nil
}

func (fe *funcEmitter) emitLoop(data *hir.LoopData) error {
	bodyL := fe.nextLabel("loop.body")
	endL := fe.nextLabel("loop.end")

	fe.loops = append(fe.loops, loopTargets{cont: bodyL, brk: endL})
	fe.startBlock(bodyL)
	if err := fe.emitStmt(data.Body); err != nil {
		return err
	}
	fe.branch(bodyL)
	fe.loops = fe.loops[:len(fe.loops)-1]
	fe.startBlock(endL)
	return nil
}

func (fe *funcEmitter) emitReturn(data *hir.ReturnData) error {
	if data.Value == nil {
		fe.emitTerm("ret void")
		return nil
	}
	val, ty, err := fe.emitValue(data.Value)
	if err != nil {
		return err
	}
	if ty == "void" || fe.sig.ret == "void" {
		fe.emitTerm("ret void")
		return nil
	}
	fe.emitTerm("ret %s %s", ty, val)
	return nil
}
