package llvm

import (
	"fmt"
	"strings"

	"ember/internal/hir"
	"ember/internal/symbols"
)

func (e *Emitter) emitGlobals() error {
	for _, id := range e.res.Order {
		d := e.syms.Decl(id)
		if d.Kind != symbols.DeclGlobal || e.layout.IsZeroSized(d.Type) {
			continue
		}
		ty, err := e.irType(d.Type)
		if err != nil {
			return err
		}
		init := "zeroinitializer"
		if x, ok := e.res.Globals[id]; ok {
			if init, err = e.constValue(x); err != nil {
				return err
			}
		}
		linkage := "internal"
		if d.Exported {
			linkage = "dso_local"
		}
		kind := "global"
		if d.Const || e.types.IsConst(d.Type) {
			kind = "constant"
		}
		fmt.Fprintf(&e.globals, "@%s = %s %s %s %s, align %d\n",
			symbol(e.globalNames[id]), linkage, kind, ty, init, e.alignOf(d.Type))
	}
	return nil
}

func (e *Emitter) emitExterns() error {
	for _, id := range e.res.Order {
		d := e.syms.Decl(id)
		if !d.Kind.IsCallable() || !d.Extern {
			continue
		}
		sig, err := e.signature(id)
		if err != nil {
			return err
		}
		params := append([]string(nil), sig.params...)
		if sig.variadic {
			params = append(params, "...")
		}
		fmt.Fprintf(&e.decls, "declare %s @%s(%s)\n", sig.ret, symbol(e.funcNames[id]), strings.Join(params, ", "))
	}
	return nil
}

// constValue renders a folded initializer as an IR constant, without its
// leading type.
func (e *Emitter) constValue(x *hir.Expr) (string, error) {
	switch data := x.Data.(type) {
	case *hir.LiteralData:
		return e.literalText(x, data), nil

	case *hir.ConvertData:
		switch data.Conv {
		case hir.ConvPointer:
			return e.constValue(data.X)
		case hir.ConvNullToPointer:
			return "null", nil
		case hir.ConvNullToSlice, hir.ConvSliceConst, hir.ConvSliceToBytes, hir.ConvArrayToSlice:
			ptr, n, err := e.constSlice(x)
			if err != nil {
				return "", err
			}
			if ptr == "null" && n == 0 {
				return "zeroinitializer", nil
			}
			return fmt.Sprintf("<{ ptr %s, %s %d }>", ptr, e.sizeType(), n), nil
		}

	case *hir.AddrOfData:
		switch target := data.X.Data.(type) {
		case *hir.GlobalData:
			if e.layout.IsZeroSized(data.X.Type) {
				return e.zeroSizedConstAddr(), nil
			}
			return "@" + symbol(e.globalNames[target.Decl]), nil
		case *hir.FuncRefData:
			return "@" + symbol(e.funcNames[target.Decl]), nil
		}

	case *hir.StructLitData:
		return e.constAggregate(x, data.Fields)
	case *hir.TupleLitData:
		return e.constAggregate(x, data.Elems)

	case *hir.ArrayLitData:
		elemTy, err := e.irType(e.types.Elem(x.Type))
		if err != nil {
			return "", err
		}
		parts := make([]string, len(data.Elems))
		for i, el := range data.Elems {
			v, err := e.constValue(el)
			if err != nil {
				return "", err
			}
			parts[i] = elemTy + " " + v
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	}
	return "", unsupported(x.Span, "initializer is not a constant")
}

// constSlice folds a constant slice to its pointer and element count.
func (e *Emitter) constSlice(x *hir.Expr) (string, uint64, error) {
	data, ok := x.Data.(*hir.ConvertData)
	if !ok {
		return "", 0, unsupported(x.Span, "slice initializer is not a constant")
	}
	switch data.Conv {
	case hir.ConvNullToSlice:
		return "null", 0, nil
	case hir.ConvArrayToSlice:
		ptr, err := e.constValue(data.X)
		return ptr, data.Len, err
	case hir.ConvSliceConst:
		return e.constSlice(data.X)
	case hir.ConvSliceToBytes:
		ptr, n, err := e.constSlice(data.X)
		return ptr, n * data.Len, err
	}
	return "", 0, unsupported(x.Span, "slice initializer is not a constant")
}

func (e *Emitter) constAggregate(x *hir.Expr, values []*hir.Expr) (string, error) {
	fields, ok := e.aggregateFields(x.Type)
	if !ok {
		return "", unsupported(x.Span, "unexpected aggregate type %s", e.types.TypeString(x.Type))
	}
	slots, _, err := e.fieldSlots(x.Type, fields)
	if err != nil {
		return "", err
	}
	if len(slots) == 0 {
		return "<{}>", nil
	}
	parts := make([]string, len(slots))
	for i, s := range slots {
		if s.Field < 0 {
			parts[i] = s.Type + " zeroinitializer"
			continue
		}
		v, err := e.constValue(values[s.Field])
		if err != nil {
			return "", err
		}
		parts[i] = s.Type + " " + v
	}
	return "<{ " + strings.Join(parts, ", ") + " }>", nil
}

// zeroSizedConstAddr is the address handed out for storage that occupies no
// bytes: non-null and never dereferenced.
func (e *Emitter) zeroSizedConstAddr() string {
	return fmt.Sprintf("inttoptr (%s 1 to ptr)", e.sizeType())
}
