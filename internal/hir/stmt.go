package hir

import (
	"ember/internal/source"
)

// StmtKind enumerates typed statement kinds.
type StmtKind uint8

const (
	StmtNop StmtKind = iota
	StmtBlock
	StmtExpr
	StmtAssign
	// StmtIf also represents "unless" through Negate.
	StmtIf
	// StmtWhile also represents "until" through Negate.
	StmtWhile
	StmtLoop
	StmtBreak
	StmtContinue
	StmtGoto
	StmtLabel
	StmtReturn
)

type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the kind-specific payload of a Stmt.
type StmtData interface {
	stmtData()
}

type BlockData struct {
	Stmts []*Stmt
}

type ExprStmtData struct {
	X *Expr
}

type AssignData struct {
	Target *Expr
	Value  *Expr
}

type IfData struct {
	Cond   *Expr
	Then   *Stmt
	Else   *Stmt // nil without else branch
	Negate bool
}

type WhileData struct {
	Cond   *Expr
	Body   *Stmt
	Negate bool
}

type LoopData struct {
	Body *Stmt
}

// GotoData names its target. Label is NoLabelID until labels of the
// enclosing function are resolved.
type GotoData struct {
	Name  source.StringID
	Label LabelID
}

type LabelData struct {
	Label LabelID
}

type ReturnData struct {
	Value *Expr // nil for a bare return
}

func (*BlockData) stmtData()    {}
func (*ExprStmtData) stmtData() {}
func (*AssignData) stmtData()   {}
func (*IfData) stmtData()       {}
func (*WhileData) stmtData()    {}
func (*LoopData) stmtData()     {}
func (*GotoData) stmtData()     {}
func (*LabelData) stmtData()    {}
func (*ReturnData) stmtData()   {}
