package llvm

import (
	"strconv"
	"strings"

	"ember/internal/symbols"
	"ember/internal/types"
)

// mangle returns the symbol of a callable. Defined functions are named
// <module>.<name>$<codes> and operators <module>.op.<op>$<codes>, where the
// codes spell the parameter types; externs keep their link name.
func (e *Emitter) mangle(id symbols.DeclID) string {
	d := e.syms.Decl(id)
	if d.Extern {
		return d.LinkName
	}
	var sb strings.Builder
	sb.WriteString(e.syms.ModuleName(d.Module))
	sb.WriteByte('.')
	if d.Kind == symbols.DeclOperator {
		sb.WriteString("op.")
		sb.WriteString(d.Op.Name())
	} else {
		sb.WriteString(e.syms.Name(id))
	}
	sb.WriteByte('$')
	for i, p := range d.Params {
		if i > 0 {
			sb.WriteByte('_')
		}
		e.typeCode(&sb, e.types.RemoveConst(p.Type))
	}
	return sb.String()
}

// typeCode writes a prefix-free code for t: every code starts with a letter
// naming its kind and composite codes carry their arity, so concatenated
// codes decode uniquely.
func (e *Emitter) typeCode(sb *strings.Builder, t types.TypeID) {
	tt, ok := e.types.Lookup(t)
	if !ok {
		sb.WriteByte('X')
		return
	}
	width := func(w types.Width) {
		if w == types.WidthPlatform {
			sb.WriteString("sz")
			return
		}
		sb.WriteString(strconv.Itoa(int(w)))
	}
	switch tt.Kind {
	case types.KindVoid:
		sb.WriteByte('v')
	case types.KindNull:
		sb.WriteByte('n')
	case types.KindBool:
		sb.WriteByte('b')
	case types.KindByte:
		sb.WriteByte('c')
	case types.KindInt:
		sb.WriteByte('i')
		width(tt.Width)
	case types.KindUint:
		sb.WriteByte('u')
		width(tt.Width)
	case types.KindFloat:
		sb.WriteByte('f')
		width(tt.Width)
	case types.KindConst:
		sb.WriteByte('K')
		e.typeCode(sb, tt.Elem)
	case types.KindPtr:
		sb.WriteByte('P')
		e.typeCode(sb, tt.Elem)
	case types.KindNullablePtr:
		sb.WriteByte('Q')
		e.typeCode(sb, tt.Elem)
	case types.KindArray:
		sb.WriteByte('A')
		sb.WriteString(strconv.FormatUint(tt.Count, 10))
		e.typeCode(sb, tt.Elem)
	case types.KindSlice:
		sb.WriteByte('S')
		e.typeCode(sb, tt.Elem)
	case types.KindTuple:
		info, _ := e.types.TupleInfo(t)
		sb.WriteByte('T')
		if info == nil {
			sb.WriteByte('0')
			return
		}
		sb.WriteString(strconv.Itoa(len(info.Elems)))
		for _, el := range info.Elems {
			e.typeCode(sb, el)
		}
	case types.KindFn:
		info, _ := e.types.FnInfo(t)
		sb.WriteByte('F')
		if info == nil {
			sb.WriteByte('0')
			return
		}
		sb.WriteString(strconv.Itoa(len(info.Params)))
		for _, p := range info.Params {
			e.typeCode(sb, p)
		}
		if info.Variadic {
			sb.WriteByte('V')
		}
		e.typeCode(sb, info.Result)
	case types.KindStruct:
		info, _ := e.types.StructInfo(t)
		name := "?"
		if info != nil {
			d := e.syms.Decl(symbols.DeclID(info.Decl))
			name = e.syms.ModuleName(d.Module) + "." + e.syms.Name(symbols.DeclID(info.Decl))
		}
		sb.WriteByte('N')
		sb.WriteString(strconv.Itoa(len(name)))
		sb.WriteString(name)
	default:
		sb.WriteByte('X')
	}
}
