package ast

import "ember/internal/source"

type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprIntLit
	ExprFloatLit
	ExprBoolLit
	ExprNullLit
	ExprStringLit
	ExprUnary
	ExprBinary
	ExprCall
	ExprIndex
	ExprField
	ExprCast
	ExprSizeof
	ExprAlignof
	ExprStructLit
	ExprTupleLit
	ExprArrayLit
	ExprBuiltin
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "identifier"
	case ExprIntLit:
		return "integer literal"
	case ExprFloatLit:
		return "float literal"
	case ExprBoolLit:
		return "bool literal"
	case ExprNullLit:
		return "null"
	case ExprStringLit:
		return "string literal"
	case ExprUnary:
		return "unary expression"
	case ExprBinary:
		return "binary expression"
	case ExprCall:
		return "call"
	case ExprIndex:
		return "index expression"
	case ExprField:
		return "field access"
	case ExprCast:
		return "cast"
	case ExprSizeof:
		return "sizeof"
	case ExprAlignof:
		return "alignof"
	case ExprStructLit:
		return "struct literal"
	case ExprTupleLit:
		return "tuple literal"
	case ExprArrayLit:
		return "array literal"
	case ExprBuiltin:
		return "builtin call"
	default:
		return "invalid expression"
	}
}

// CastKind is the explicit cast form used in source.
type CastKind uint8

const (
	CastInvalid CastKind = iota
	CastSign
	CastWiden
	CastNarrow
	CastConvert
	CastPointer
)

func (k CastKind) String() string {
	switch k {
	case CastSign:
		return "sign"
	case CastWiden:
		return "widen"
	case CastNarrow:
		return "narrow"
	case CastConvert:
		return "convert"
	case CastPointer:
		return "pointer"
	default:
		return "invalid"
	}
}

type FieldInit struct {
	Name  string      `msgpack:"name"`
	Value ExprID      `msgpack:"value"`
	Span  source.Span `msgpack:"span"`
}

// Expr is an untyped expression node.
//
//	ExprIdent      Module (optional qualifier), Name
//	ExprIntLit     Text (decimal, 0x, 0o or 0b, '_' separators allowed)
//	ExprFloatLit   Text, Width (0 when unsuffixed)
//	ExprBoolLit    Bool
//	ExprStringLit  Bytes (already unescaped)
//	ExprUnary      Op, X
//	ExprBinary     Op, X, Y
//	ExprCall       X (callee), Args
//	ExprIndex      X, Y
//	ExprField      X, Name
//	ExprCast       Cast, Type, X
//	ExprSizeof     Type
//	ExprAlignof    Type
//	ExprStructLit  Type, Fields
//	ExprTupleLit   Args
//	ExprArrayLit   Args
//	ExprBuiltin    Name, Args
type Expr struct {
	Kind   ExprKind    `msgpack:"kind"`
	Span   source.Span `msgpack:"span"`
	Module string      `msgpack:"module,omitempty"`
	Name   string      `msgpack:"name,omitempty"`
	Text   string      `msgpack:"text,omitempty"`
	Bytes  []byte      `msgpack:"bytes,omitempty"`
	Width  uint8       `msgpack:"width,omitempty"`
	Bool   bool        `msgpack:"bool,omitempty"`
	Op     Op          `msgpack:"op,omitempty"`
	Cast   CastKind    `msgpack:"cast,omitempty"`
	X      ExprID      `msgpack:"x,omitempty"`
	Y      ExprID      `msgpack:"y,omitempty"`
	Args   []ExprID    `msgpack:"args,omitempty"`
	Type   TypeID      `msgpack:"type,omitempty"`
	Fields []FieldInit `msgpack:"fields,omitempty"`
}
