package types

import (
	"fmt"

	"fortio.org/safecast"

	"ember/internal/source"
)

// Builtins stores TypeIDs for primitive types.
type Builtins struct {
	Void    TypeID
	Null    TypeID
	Bool    TypeID
	Byte    TypeID
	Int8    TypeID
	Int16   TypeID
	Int32   TypeID
	Int64   TypeID
	Isize   TypeID
	Uint8   TypeID
	Uint16  TypeID
	Uint32  TypeID
	Uint64  TypeID
	Usize   TypeID
	Float32 TypeID
	Float64 TypeID
}

// Interner hash-conses type descriptors so that structural equality is
// TypeID equality. Struct types are nominal: each RegisterStruct call yields
// a fresh TypeID.
type Interner struct {
	Strings *source.Interner

	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	byName   map[string]TypeID

	structs    []StructInfo
	tuples     []TupleInfo
	tupleIndex map[string]TypeID
	fns        []FnInfo
	fnIndex    map[string]TypeID
}

// NewInterner constructs an interner seeded with built-in primitives. strs is
// used to spell struct and field names; a private interner is created when
// it is nil.
func NewInterner(strs *source.Interner) *Interner {
	if strs == nil {
		strs = source.NewInterner()
	}
	in := &Interner{
		Strings:    strs,
		types:      make([]Type, 1, 64), // 0 is NoTypeID
		index:      make(map[Type]TypeID, 64),
		byName:     make(map[string]TypeID, 16),
		structs:    make([]StructInfo, 1, 8),
		tuples:     make([]TupleInfo, 1, 8),
		tupleIndex: make(map[string]TypeID),
		fns:        make([]FnInfo, 1, 16),
		fnIndex:    make(map[string]TypeID),
	}
	b := &in.builtins
	b.Void = in.builtin("void", Type{Kind: KindVoid})
	b.Null = in.Intern(Type{Kind: KindNull})
	b.Bool = in.builtin("bool", Type{Kind: KindBool})
	b.Byte = in.builtin("byte", Type{Kind: KindByte})
	b.Int8 = in.builtin("int8", MakeInt(Width8))
	b.Int16 = in.builtin("int16", MakeInt(Width16))
	b.Int32 = in.builtin("int32", MakeInt(Width32))
	b.Int64 = in.builtin("int64", MakeInt(Width64))
	b.Isize = in.builtin("isize", MakeInt(WidthPlatform))
	b.Uint8 = in.builtin("uint8", MakeUint(Width8))
	b.Uint16 = in.builtin("uint16", MakeUint(Width16))
	b.Uint32 = in.builtin("uint32", MakeUint(Width32))
	b.Uint64 = in.builtin("uint64", MakeUint(Width64))
	b.Usize = in.builtin("usize", MakeUint(WidthPlatform))
	b.Float32 = in.builtin("float32", MakeFloat(Width32))
	b.Float64 = in.builtin("float64", MakeFloat(Width64))
	return in
}

func (in *Interner) builtin(name string, t Type) TypeID {
	id := in.Intern(t)
	in.byName[name] = id
	return id
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// BuiltinByName maps a primitive type name such as "int32" to its TypeID.
func (in *Interner) BuiltinByName(name string) (TypeID, bool) {
	id, ok := in.byName[name]
	return id, ok
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return tt
}

// Len reports the number of interned types including the reserved slot.
func (in *Interner) Len() int {
	return len(in.types)
}

// Constructors ---------------------------------------------------------------

func (in *Interner) Pointer(elem TypeID) TypeID {
	return in.Intern(MakePointer(elem))
}

func (in *Interner) NullablePointer(elem TypeID) TypeID {
	return in.Intern(MakeNullablePointer(elem))
}

func (in *Interner) Slice(elem TypeID) TypeID {
	return in.Intern(MakeSlice(elem))
}

// Array builds [n]elem. A const element stays on the element, so
// Array(n, Const(T)) is the only spelling of a const array.
func (in *Interner) Array(n uint64, elem TypeID) TypeID {
	return in.Intern(MakeArray(elem, n))
}

func slot(n int, what string) uint32 {
	s, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s overflow: %w", what, err))
	}
	return s
}
