package llvm

import (
	"fmt"
	"strings"

	"ember/internal/layout"
	"ember/internal/source"
	"ember/internal/symbols"
	"ember/internal/types"
)

// irType returns the IR spelling of a value of type t. Zero-sized types have
// no value representation and are spelled "void".
func (e *Emitter) irType(t types.TypeID) (string, error) {
	if e.layout.IsZeroSized(t) {
		return "void", nil
	}
	tt := e.types.Under(t)
	switch tt.Kind {
	case types.KindBool:
		return "i1", nil
	case types.KindByte:
		return "i8", nil
	case types.KindInt, types.KindUint:
		return fmt.Sprintf("i%d", e.layout.IntBits(t)), nil
	case types.KindFloat:
		if tt.Width == types.Width32 {
			return "float", nil
		}
		return "double", nil
	case types.KindPtr, types.KindNullablePtr:
		return "ptr", nil
	case types.KindArray:
		elem, err := e.irType(tt.Elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[%d x %s]", tt.Count, elem), nil
	case types.KindSlice:
		return e.sliceType(), nil
	case types.KindTuple:
		info, ok := e.types.TupleInfo(e.types.RemoveConst(t))
		if !ok {
			return "", unsupported(source.Span{}, "unknown tuple type %s", e.types.TypeString(t))
		}
		return e.packedType(t, info.Elems)
	case types.KindStruct:
		return e.structName(e.types.RemoveConst(t))
	}
	return "", unsupported(source.Span{}, "type %s has no value representation", e.types.TypeString(t))
}

// sizeType is the integer type of usize on the target.
func (e *Emitter) sizeType() string {
	return fmt.Sprintf("i%d", e.target.PtrBits())
}

func (e *Emitter) sliceType() string {
	return fmt.Sprintf("<{ ptr, %s }>", e.sizeType())
}

func (e *Emitter) structName(t types.TypeID) (string, error) {
	info, ok := e.types.StructInfo(t)
	if !ok {
		return "", unsupported(source.Span{}, "unknown struct type %s", e.types.TypeString(t))
	}
	d := e.syms.Decl(symbols.DeclID(info.Decl))
	if d == nil {
		return "", unsupported(source.Span{}, "struct %s has no declaration", e.types.TypeString(t))
	}
	return "%" + symbol("struct."+e.syms.ModuleName(d.Module)+"."+e.syms.Name(symbols.DeclID(info.Decl))), nil
}

// slot is one member of a packed aggregate: either field Field or Pad bytes
// of padding.
type slot struct {
	Field int
	Pad   int
	Type  string
}

// fieldSlots walks the layout of an aggregate with the given field types.
// Zero-sized fields are skipped and gaps are filled with byte arrays so that
// the packed IR type reproduces the computed offsets exactly.
func (e *Emitter) fieldSlots(t types.TypeID, fields []types.TypeID) ([]slot, layout.StructLayout, error) {
	l, err := e.layout.LayoutOf(t)
	if err != nil {
		return nil, l, unsupported(source.Span{}, "cannot lay out %s: %v", e.types.TypeString(t), err)
	}
	slots := make([]slot, 0, len(fields)+1)
	cur := 0
	for i, f := range fields {
		if e.layout.IsZeroSized(f) {
			continue
		}
		off := l.FieldOffsets[i]
		if off > cur {
			slots = append(slots, slot{Field: -1, Pad: off - cur, Type: padType(off - cur)})
		}
		ty, err := e.irType(f)
		if err != nil {
			return nil, l, err
		}
		size, _ := e.layout.SizeOf(f)
		slots = append(slots, slot{Field: i, Type: ty})
		cur = off + size
	}
	if l.Size > cur {
		slots = append(slots, slot{Field: -1, Pad: l.Size - cur, Type: padType(l.Size - cur)})
	}
	return slots, l, nil
}

func padType(n int) string {
	return fmt.Sprintf("[%d x i8]", n)
}

func packedBody(slots []slot) string {
	if len(slots) == 0 {
		return "<{}>"
	}
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = s.Type
	}
	return "<{ " + strings.Join(parts, ", ") + " }>"
}

func (e *Emitter) packedType(t types.TypeID, fields []types.TypeID) (string, error) {
	slots, _, err := e.fieldSlots(t, fields)
	if err != nil {
		return "", err
	}
	return packedBody(slots), nil
}

// aggregateFields lists the member types of a struct or tuple.
func (e *Emitter) aggregateFields(t types.TypeID) ([]types.TypeID, bool) {
	t = e.types.RemoveConst(t)
	if info, ok := e.types.StructInfo(t); ok && e.types.IsStruct(t) {
		out := make([]types.TypeID, len(info.Fields))
		for i, f := range info.Fields {
			out[i] = f.Type
		}
		return out, true
	}
	if info, ok := e.types.TupleInfo(t); ok && e.types.IsTuple(t) {
		return info.Elems, true
	}
	return nil, false
}

func (e *Emitter) emitTypes() error {
	for _, id := range e.res.Order {
		d := e.syms.Decl(id)
		if d.Kind != symbols.DeclStruct {
			continue
		}
		name, err := e.structName(d.Type)
		if err != nil {
			return err
		}
		fields, _ := e.aggregateFields(d.Type)
		slots, _, err := e.fieldSlots(d.Type, fields)
		if err != nil {
			return err
		}
		fmt.Fprintf(&e.typeDefs, "%s = type %s\n", name, packedBody(slots))
	}
	return nil
}

func (e *Emitter) alignOf(t types.TypeID) int {
	a, err := e.layout.AlignOf(t)
	if err != nil || a < 1 {
		return 1
	}
	return a
}
