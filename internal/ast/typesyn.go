package ast

import "ember/internal/source"

type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeNamed
	TypeConst
	TypePointer
	TypeArray
	TypeSlice
	TypeTuple
	TypeFunc
)

// TypeExpr is a type as written in source.
//
//	TypeNamed    Module (optional qualifier), Name
//	TypeConst    Elem
//	TypePointer  Elem, Nullable
//	TypeArray    Len, Elem
//	TypeSlice    Elem
//	TypeTuple    Elems
//	TypeFunc     Elems (parameters), Variadic, Result (optional)
type TypeExpr struct {
	Kind     TypeKind    `msgpack:"kind"`
	Span     source.Span `msgpack:"span"`
	Module   string      `msgpack:"module,omitempty"`
	Name     string      `msgpack:"name,omitempty"`
	Elem     TypeID      `msgpack:"elem,omitempty"`
	Nullable bool        `msgpack:"nullable,omitempty"`
	Len      uint64      `msgpack:"len,omitempty"`
	Elems    []TypeID    `msgpack:"elems,omitempty"`
	Variadic bool        `msgpack:"variadic,omitempty"`
	Result   TypeID      `msgpack:"result,omitempty"`
}
