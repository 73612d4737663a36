package ast

import "ember/internal/source"

type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtExpr
	StmtVar
	StmtAssign
	StmtIf
	StmtWhile
	StmtLoop
	StmtBreak
	StmtContinue
	StmtGoto
	StmtLabel
	StmtReturn
)

func (k StmtKind) String() string {
	switch k {
	case StmtBlock:
		return "block"
	case StmtExpr:
		return "expression statement"
	case StmtVar:
		return "variable declaration"
	case StmtAssign:
		return "assignment"
	case StmtIf:
		return "if"
	case StmtWhile:
		return "while"
	case StmtLoop:
		return "loop"
	case StmtBreak:
		return "break"
	case StmtContinue:
		return "continue"
	case StmtGoto:
		return "goto"
	case StmtLabel:
		return "label"
	case StmtReturn:
		return "return"
	default:
		return "invalid statement"
	}
}

// Stmt is an untyped statement node.
//
//	StmtBlock     Stmts
//	StmtExpr      Expr
//	StmtVar       Name, Type (optional), Expr (optional init), Const
//	StmtAssign    Target, Expr
//	StmtIf        Expr (condition), Then, Else (optional), Negate ("unless")
//	StmtWhile     Expr (condition), Body, Negate ("until")
//	StmtLoop      Body
//	StmtGoto      Name
//	StmtLabel     Name
//	StmtReturn    Expr (optional)
type Stmt struct {
	Kind   StmtKind    `msgpack:"kind"`
	Span   source.Span `msgpack:"span"`
	Stmts  []StmtID    `msgpack:"stmts,omitempty"`
	Expr   ExprID      `msgpack:"expr,omitempty"`
	Target ExprID      `msgpack:"target,omitempty"`
	Then   StmtID      `msgpack:"then,omitempty"`
	Else   StmtID      `msgpack:"else,omitempty"`
	Body   StmtID      `msgpack:"body,omitempty"`
	Negate bool        `msgpack:"negate,omitempty"`
	Name   string      `msgpack:"name,omitempty"`
	Type   TypeID      `msgpack:"type,omitempty"`
	Const  bool        `msgpack:"const,omitempty"`
}
