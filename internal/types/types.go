package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindNull
	KindBool
	KindByte
	KindInt
	KindUint
	KindFloat
	KindConst
	KindNullablePtr
	KindPtr
	KindArray
	KindSlice
	KindTuple
	KindFn
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindConst:
		return "const"
	case KindNullablePtr:
		return "nullable pointer"
	case KindPtr:
		return "pointer"
	case KindArray:
		return "array"
	case KindSlice:
		return "slice"
	case KindTuple:
		return "tuple"
	case KindFn:
		return "function"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	// WidthPlatform is the pointer-sized width of isize/usize.
	WidthPlatform Width = 0
	Width8        Width = 8
	Width16       Width = 16
	Width32       Width = 32
	Width64       Width = 64
)

// Type is a compact descriptor for any supported type. Composite kinds keep
// their element lists in side tables addressed by Payload.
type Type struct {
	Kind    Kind
	Elem    TypeID
	Count   uint64 // array length
	Width   Width  // numeric primitives
	Payload uint32 // tuple, fn and struct side tables
}

// Descriptor helpers ---------------------------------------------------------

func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

func MakeArray(elem TypeID, count uint64) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

func MakeSlice(elem TypeID) Type {
	return Type{Kind: KindSlice, Elem: elem}
}

func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPtr, Elem: elem}
}

func MakeNullablePointer(elem TypeID) Type {
	return Type{Kind: KindNullablePtr, Elem: elem}
}
