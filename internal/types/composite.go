package types

import (
	"slices"
	"strconv"
	"strings"

	"ember/internal/source"
)

// TupleInfo stores the element types for a tuple type.
type TupleInfo struct {
	Elems []TypeID
}

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params   []TypeID
	Variadic bool
	Result   TypeID
}

// StructField describes a single field inside a nominal struct type.
type StructField struct {
	Name source.StringID
	Type TypeID
}

// StructInfo stores metadata for a struct type. Fields stay nil until the
// declaration's interface has been resolved.
type StructInfo struct {
	Name     source.StringID
	Module   source.StringID
	Decl     uint32
	Fields   []StructField
	Resolved bool
}

func listKey(ids []TypeID, extra ...string) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	for _, e := range extra {
		sb.WriteByte(';')
		sb.WriteString(e)
	}
	return sb.String()
}

// Tuple creates or finds the tuple type with the given elements.
func (in *Interner) Tuple(elems []TypeID) TypeID {
	key := listKey(elems)
	if id, ok := in.tupleIndex[key]; ok {
		return id
	}
	in.tuples = append(in.tuples, TupleInfo{Elems: slices.Clone(elems)})
	id := in.internRaw(Type{Kind: KindTuple, Payload: slot(len(in.tuples)-1, "tuple info")})
	in.tupleIndex[key] = id
	return id
}

// TupleInfo returns the element types for a tuple TypeID.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple || int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}

// Fn creates or finds a function type.
func (in *Interner) Fn(params []TypeID, variadic bool, result TypeID) TypeID {
	key := listKey(params, strconv.FormatBool(variadic), strconv.FormatUint(uint64(result), 10))
	if id, ok := in.fnIndex[key]; ok {
		return id
	}
	in.fns = append(in.fns, FnInfo{Params: slices.Clone(params), Variadic: variadic, Result: result})
	id := in.internRaw(Type{Kind: KindFn, Payload: slot(len(in.fns)-1, "fn info")})
	in.fnIndex[key] = id
	return id
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// RegisterStruct allocates a nominal struct type. decl is the owning
// declaration handle and is only carried for diagnostics and lookups.
func (in *Interner) RegisterStruct(name, module source.StringID, decl uint32) TypeID {
	in.structs = append(in.structs, StructInfo{Name: name, Module: module, Decl: decl})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot(len(in.structs)-1, "struct info")})
}

// SetStructFields stores the resolved fields and marks the struct resolved.
func (in *Interner) SetStructFields(id TypeID, fields []StructField) {
	info, ok := in.StructInfo(id)
	if !ok {
		return
	}
	info.Fields = slices.Clone(fields)
	info.Resolved = true
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct || tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil, false
	}
	return &in.structs[tt.Payload], true
}

// FieldIndex finds a struct field by name.
func (in *Interner) FieldIndex(id TypeID, name source.StringID) (int, bool) {
	info, ok := in.StructInfo(id)
	if !ok {
		return -1, false
	}
	for i, f := range info.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}
