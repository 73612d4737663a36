package hir

import (
	"ember/internal/ast"
	"ember/internal/source"
	"ember/internal/symbols"
	"ember/internal/types"
)

// ExprKind enumerates typed expression kinds.
type ExprKind uint8

const (
	// ExprLiteral is a constant immediate (int, float, bool, null, string).
	ExprLiteral ExprKind = iota
	// ExprLocal names a parameter or local variable slot.
	ExprLocal
	// ExprGlobal names a global variable.
	ExprGlobal
	// ExprFuncRef names one resolved function.
	ExprFuncRef
	// ExprLoad turns a stored value (lvalue) into a value (rvalue).
	ExprLoad
	// ExprConvert is an implicit conversion inserted by the checker.
	ExprConvert
	ExprUnary
	ExprAddrOf
	ExprDeref
	ExprBinary
	ExprCall
	ExprIndirectCall
	// ExprField selects a struct field or tuple element by index.
	ExprField
	// ExprSliceField selects the pointer or length half of a slice.
	ExprSliceField
	ExprIndex
	ExprCast
	ExprStructLit
	ExprTupleLit
	ExprArrayLit
	ExprBuiltin
)

// Category is the value category of an expression.
type Category uint8

const (
	RValue Category = iota
	LValue
)

func (c Category) String() string {
	if c == LValue {
		return "lvalue"
	}
	return "rvalue"
}

// Expr is a typed expression. Trees are immutable once built.
type Expr struct {
	Kind ExprKind
	Type types.TypeID
	Cat  Category
	Span source.Span
	Data ExprData
}

// IsLValue reports whether e denotes addressable storage.
func (e *Expr) IsLValue() bool {
	return e != nil && e.Cat == LValue
}

// ExprData is the kind-specific payload of an Expr.
type ExprData interface {
	exprData()
}

// LitKind distinguishes literal payloads.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitNull
	LitString
)

// LiteralData holds an immediate. Integers are stored as the two's
// complement bit pattern of their type.
type LiteralData struct {
	Kind  LitKind
	Int   uint64
	Float float64
	Bool  bool
	Str   []byte
}

type LocalData struct {
	Local LocalID
}

type GlobalData struct {
	Decl symbols.DeclID
}

type FuncRefData struct {
	Decl symbols.DeclID
}

type LoadData struct {
	X *Expr
}

// ConvKind enumerates implicit conversions.
type ConvKind uint8

const (
	ConvFloatExtend ConvKind = iota + 1
	ConvIntWiden
	ConvNullToPointer
	ConvNullToSlice
	// ConvPointer covers pointer conversions that keep the address:
	// nullability, const pointee, array decay and byte pointee.
	ConvPointer
	// ConvSliceConst adds const to the element; the representation is kept.
	ConvSliceConst
	// ConvSliceToBytes rescales the length by the element size.
	ConvSliceToBytes
	// ConvArrayToSlice pairs a pointer to an array with its static length.
	ConvArrayToSlice
)

func (k ConvKind) String() string {
	switch k {
	case ConvFloatExtend:
		return "fpext"
	case ConvIntWiden:
		return "widen"
	case ConvNullToPointer:
		return "null-to-ptr"
	case ConvNullToSlice:
		return "null-to-slice"
	case ConvPointer:
		return "ptr"
	case ConvSliceConst:
		return "slice-const"
	case ConvSliceToBytes:
		return "slice-bytes"
	case ConvArrayToSlice:
		return "array-to-slice"
	default:
		return "conv?"
	}
}

type ConvertData struct {
	Conv ConvKind
	X    *Expr
	// Len is the static length for ConvArrayToSlice and the element size for
	// ConvSliceToBytes.
	Len uint64
}

type UnaryData struct {
	Op ast.Op
	X  *Expr
}

type AddrOfData struct {
	X *Expr
}

type DerefData struct {
	X *Expr
}

type BinaryData struct {
	Op ast.Op
	X  *Expr
	Y  *Expr
}

// CallData is a direct call of a resolved function with converted
// arguments, including the trailing variadic ones.
type CallData struct {
	Func symbols.DeclID
	Args []*Expr
}

type IndirectCallData struct {
	Callee *Expr
	Args   []*Expr
}

type FieldData struct {
	X     *Expr
	Index int
}

// SliceField selects one half of a slice.
type SliceField uint8

const (
	SlicePtr SliceField = iota
	SliceLen
)

type SliceFieldData struct {
	X     *Expr
	Field SliceField
}

// IndexData indexes an array (lvalue or rvalue) or a slice.
type IndexData struct {
	X     *Expr
	Index *Expr
}

type CastData struct {
	Cast ast.CastKind
	X    *Expr
}

// StructLitData lists field values in declaration order.
type StructLitData struct {
	Fields []*Expr
}

type TupleLitData struct {
	Elems []*Expr
}

type ArrayLitData struct {
	Elems []*Expr
}

// Builtin identifies an intrinsic operation.
type Builtin uint8

const (
	BuiltinInvalid Builtin = iota
	BuiltinClz
	BuiltinCtz
	BuiltinPopcount
	BuiltinBswap
	BuiltinRotl
	BuiltinRotr
	BuiltinMemcpy
	BuiltinMemmove
	BuiltinMemset
)

var builtinNames = map[string]Builtin{
	"clz":      BuiltinClz,
	"ctz":      BuiltinCtz,
	"popcount": BuiltinPopcount,
	"bswap":    BuiltinBswap,
	"rotl":     BuiltinRotl,
	"rotr":     BuiltinRotr,
	"memcpy":   BuiltinMemcpy,
	"memmove":  BuiltinMemmove,
	"memset":   BuiltinMemset,
}

// LookupBuiltin maps a source name to a Builtin.
func LookupBuiltin(name string) (Builtin, bool) {
	b, ok := builtinNames[name]
	return b, ok
}

func (b Builtin) String() string {
	for name, v := range builtinNames {
		if v == b {
			return name
		}
	}
	return "invalid"
}

type BuiltinData struct {
	Builtin Builtin
	Args    []*Expr
}

func (*LiteralData) exprData()      {}
func (*LocalData) exprData()        {}
func (*GlobalData) exprData()       {}
func (*FuncRefData) exprData()      {}
func (*LoadData) exprData()         {}
func (*ConvertData) exprData()      {}
func (*UnaryData) exprData()        {}
func (*AddrOfData) exprData()       {}
func (*DerefData) exprData()        {}
func (*BinaryData) exprData()       {}
func (*CallData) exprData()         {}
func (*IndirectCallData) exprData() {}
func (*FieldData) exprData()        {}
func (*SliceFieldData) exprData()   {}
func (*IndexData) exprData()        {}
func (*CastData) exprData()         {}
func (*StructLitData) exprData()    {}
func (*TupleLitData) exprData()     {}
func (*ArrayLitData) exprData()     {}
func (*BuiltinData) exprData()      {}
