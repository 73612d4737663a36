package symbols

import (
	"ember/internal/ast"
	"ember/internal/source"
	"ember/internal/types"
)

// DeclKind classifies a declaration.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclStruct
	DeclGlobal
	DeclAlias
	// DeclOverloadSet groups every function (or operator) sharing a name in
	// one module.
	DeclOverloadSet
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
		return "type alias"
	case DeclOverloadSet:
		return "overload set"
	case DeclFunc:
		return "function"
	case DeclOperator:
		return "operator"
	default:
		return "invalid"
	}
}

// IsCallable is true for overload set members.
func (k DeclKind) IsCallable() bool {
	return k == DeclFunc || k == DeclOperator
}

// IsType is true for declarations usable in type position.
func (k DeclKind) IsType() bool {
	return k == DeclStruct || k == DeclAlias
}

// Param is a resolved function parameter.
type Param struct {
	Name source.StringID
	Type types.TypeID
	Span source.Span
}

// Decl is one declaration. Registration fills the identity fields; the
// interface fields below the marker are written once by the resolver.
type Decl struct {
	Kind     DeclKind
	Name     source.StringID
	Module   ModuleID
	Exported bool
	Span     source.Span
	Node     ast.DeclID // NoDeclID for overload sets
	Set      DeclID     // owning overload set of a function or operator
	Members  []DeclID   // functions of an overload set, in declaration order
	Op       ast.Op
	Extern   bool
	LinkName string

	// interface
	Type     types.TypeID // struct type, global type, alias target or fn type
	Params   []Param
	Result   types.TypeID
	Variadic bool
	Const    bool
}
