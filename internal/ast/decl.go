package ast

import "ember/internal/source"

type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclStruct
	DeclGlobal
	DeclAlias
	DeclFunc
	DeclOperator
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclGlobal:
		return "global"
	case DeclAlias:
		return "alias"
	case DeclFunc:
		return "function"
	case DeclOperator:
		return "operator"
	default:
		return "invalid"
	}
}

type Field struct {
	Name string      `msgpack:"name"`
	Type TypeID      `msgpack:"type"`
	Span source.Span `msgpack:"span"`
}

type Param struct {
	Name string      `msgpack:"name"`
	Type TypeID      `msgpack:"type"`
	Span source.Span `msgpack:"span"`
}

// Decl is a top-level declaration. Which fields are meaningful depends on Kind:
//
//	DeclStruct    Fields
//	DeclGlobal    Type (optional), Init (optional), Const
//	DeclAlias     Type
//	DeclFunc      Params, Result (optional), Body (NoStmtID for externs),
//	              Variadic, LinkName
//	DeclOperator  Op, Params, Result, Body
type Decl struct {
	Kind     DeclKind    `msgpack:"kind"`
	Name     string      `msgpack:"name"`
	Exported bool        `msgpack:"exported,omitempty"`
	Span     source.Span `msgpack:"span"`

	Fields []Field `msgpack:"fields,omitempty"`

	Type  TypeID `msgpack:"type,omitempty"`
	Init  ExprID `msgpack:"init,omitempty"`
	Const bool   `msgpack:"const,omitempty"`

	Op       Op      `msgpack:"op,omitempty"`
	Params   []Param `msgpack:"params,omitempty"`
	Result   TypeID  `msgpack:"result,omitempty"`
	Body     StmtID  `msgpack:"body,omitempty"`
	Variadic bool    `msgpack:"variadic,omitempty"`
	LinkName string  `msgpack:"link,omitempty"`
}

// IsExtern reports a body-less function.
func (d *Decl) IsExtern() bool {
	return d != nil && d.Kind == DeclFunc && !d.Body.IsValid()
}
