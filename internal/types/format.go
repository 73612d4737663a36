package types

import (
	"fmt"
	"strings"
)

// TypeString renders t for diagnostics.
func (in *Interner) TypeString(t TypeID) string {
	var sb strings.Builder
	in.writeType(&sb, t, 0)
	return sb.String()
}

func (in *Interner) writeType(sb *strings.Builder, t TypeID, depth int) {
	if depth > 32 {
		sb.WriteString("...")
		return
	}
	tt, ok := in.Lookup(t)
	if !ok {
		sb.WriteString("<invalid>")
		return
	}
	switch tt.Kind {
	case KindVoid, KindNull, KindBool, KindByte:
		sb.WriteString(tt.Kind.String())
	case KindInt, KindUint:
		switch {
		case tt.Width == WidthPlatform && tt.Kind == KindInt:
			sb.WriteString("isize")
		case tt.Width == WidthPlatform:
			sb.WriteString("usize")
		case tt.Kind == KindUint:
			fmt.Fprintf(sb, "uint%d", tt.Width)
		default:
			fmt.Fprintf(sb, "int%d", tt.Width)
		}
	case KindFloat:
		fmt.Fprintf(sb, "float%d", tt.Width)
	case KindConst:
		sb.WriteString("const ")
		in.writeType(sb, tt.Elem, depth+1)
	case KindPtr:
		sb.WriteByte('*')
		in.writeType(sb, tt.Elem, depth+1)
	case KindNullablePtr:
		sb.WriteString("?*")
		in.writeType(sb, tt.Elem, depth+1)
	case KindArray:
		fmt.Fprintf(sb, "[%d]", tt.Count)
		in.writeType(sb, tt.Elem, depth+1)
	case KindSlice:
		sb.WriteString("[]")
		in.writeType(sb, tt.Elem, depth+1)
	case KindTuple:
		info, _ := in.TupleInfo(t)
		sb.WriteByte('(')
		if info != nil {
			for i, e := range info.Elems {
				if i > 0 {
					sb.WriteString(", ")
				}
				in.writeType(sb, e, depth+1)
			}
		}
		sb.WriteByte(')')
	case KindFn:
		info, _ := in.FnInfo(t)
		sb.WriteString("fn(")
		if info != nil {
			for i, p := range info.Params {
				if i > 0 {
					sb.WriteString(", ")
				}
				in.writeType(sb, p, depth+1)
			}
			if info.Variadic {
				if len(info.Params) > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString("...")
			}
		}
		sb.WriteByte(')')
		if info != nil && info.Result != NoTypeID && in.KindOf(info.Result) != KindVoid {
			sb.WriteString(" => ")
			in.writeType(sb, info.Result, depth+1)
		}
	case KindStruct:
		info, ok := in.StructInfo(t)
		if !ok {
			sb.WriteString("struct")
			return
		}
		if mod, ok := in.Strings.Lookup(info.Module); ok && mod != "" {
			sb.WriteString(mod)
			sb.WriteString("::")
		}
		name, _ := in.Strings.Lookup(info.Name)
		sb.WriteString(name)
	default:
		sb.WriteString(tt.Kind.String())
	}
}
