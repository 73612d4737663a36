package layout

import (
	"math"

	"fortio.org/safecast"

	"ember/internal/types"
)

// Engine computes and caches layouts for one target.
type Engine struct {
	Target Target
	Types  *types.Interner

	cache map[types.TypeID]StructLayout
	stack map[types.TypeID]struct{}
}

func New(target Target, typesIn *types.Interner) *Engine {
	return &Engine{
		Target: target,
		Types:  typesIn,
		cache:  make(map[types.TypeID]StructLayout, 64),
		stack:  make(map[types.TypeID]struct{}, 8),
	}
}

// LayoutOf computes the layout of t. Only successful results are cached so
// that a struct queried before its resolution can be laid out later.
func (e *Engine) LayoutOf(t types.TypeID) (StructLayout, error) {
	l, err := e.layoutOf(t)
	if err != nil {
		return StructLayout{Size: 0, Align: 1}, err
	}
	return l, nil
}

func (e *Engine) layoutOf(t types.TypeID) (StructLayout, *Error) {
	if l, ok := e.cache[t]; ok {
		return l, nil
	}
	if _, busy := e.stack[t]; busy {
		return StructLayout{}, e.fail(ErrRecursive, t)
	}
	e.stack[t] = struct{}{}
	l, err := e.compute(t)
	delete(e.stack, t)
	if err != nil {
		return StructLayout{}, err
	}
	e.cache[t] = l
	return l, nil
}

func (e *Engine) fail(kind ErrorKind, t types.TypeID) *Error {
	return &Error{Kind: kind, Type: t, Name: e.Types.TypeString(t)}
}

func scalar(size, align int) StructLayout {
	return StructLayout{Size: size, Align: align}
}

func (e *Engine) compute(t types.TypeID) (StructLayout, *Error) {
	tt, ok := e.Types.Lookup(t)
	if !ok {
		return StructLayout{}, e.fail(ErrInvalidType, t)
	}
	switch tt.Kind {
	case types.KindVoid, types.KindNull:
		return scalar(0, 1), nil
	case types.KindBool, types.KindByte:
		return scalar(1, 1), nil
	case types.KindInt, types.KindUint:
		if tt.Width == types.WidthPlatform {
			return scalar(e.Target.PtrSize, e.Target.PtrAlign), nil
		}
		return scalar(int(tt.Width)/8, e.Target.IntAlignFor(int(tt.Width))), nil
	case types.KindFloat:
		if tt.Width == types.Width32 {
			return scalar(4, e.Target.Float32Align), nil
		}
		return scalar(8, e.Target.Float64Align), nil
	case types.KindPtr, types.KindNullablePtr:
		return scalar(e.Target.PtrSize, e.Target.PtrAlign), nil
	case types.KindConst:
		return e.layoutOf(tt.Elem)
	case types.KindArray:
		return e.arrayLayout(t, tt)
	case types.KindSlice:
		return e.SliceLayout(), nil
	case types.KindTuple:
		info, _ := e.Types.TupleInfo(t)
		if info == nil {
			return StructLayout{}, e.fail(ErrInvalidType, t)
		}
		return e.aggregate(info.Elems)
	case types.KindStruct:
		info, ok := e.Types.StructInfo(t)
		if !ok || !info.Resolved {
			return StructLayout{}, e.fail(ErrUnresolvedStruct, t)
		}
		fields := make([]types.TypeID, len(info.Fields))
		for i, f := range info.Fields {
			fields[i] = f.Type
		}
		return e.aggregate(fields)
	case types.KindFn:
		return StructLayout{}, e.fail(ErrFunctionType, t)
	}
	return StructLayout{}, e.fail(ErrInvalidType, t)
}

func (e *Engine) arrayLayout(t types.TypeID, tt types.Type) (StructLayout, *Error) {
	elem, err := e.layoutOf(tt.Elem)
	if err != nil {
		return StructLayout{}, err
	}
	stride := roundUp(elem.Size, elem.Align)
	n, convErr := safecast.Conv[int](tt.Count)
	if convErr != nil || (stride > 0 && n > math.MaxInt32/stride) {
		return StructLayout{}, e.fail(ErrTooLarge, t)
	}
	return StructLayout{Size: n * stride, Align: elem.Align}, nil
}

func (e *Engine) aggregate(fields []types.TypeID) (StructLayout, *Error) {
	b := NewBuilder(len(fields))
	for _, f := range fields {
		l, err := e.layoutOf(f)
		if err != nil {
			return StructLayout{}, err
		}
		b.AppendField(l.Size, l.Align)
	}
	return b.Build(), nil
}

// SliceLayout is the fixed {pointer, usize} pair backing every slice.
func (e *Engine) SliceLayout() StructLayout {
	b := NewBuilder(2)
	b.AppendField(e.Target.PtrSize, e.Target.PtrAlign)
	b.AppendField(e.Target.PtrSize, e.Target.PtrAlign)
	return b.Build()
}

func (e *Engine) SizeOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

func (e *Engine) AlignOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}

// IsZeroSized reports whether t occupies no storage. Types without a layout
// (functions) are not zero-sized.
func (e *Engine) IsZeroSized(t types.TypeID) bool {
	l, err := e.LayoutOf(t)
	return err == nil && l.Size == 0
}

// IntBits returns the bit width of an integer type on this target.
func (e *Engine) IntBits(t types.TypeID) int {
	u := e.Types.Under(t)
	switch u.Kind {
	case types.KindInt, types.KindUint:
		if u.Width == types.WidthPlatform {
			return e.Target.PtrBits()
		}
		return int(u.Width)
	case types.KindBool:
		return 1
	case types.KindByte:
		return 8
	}
	return 0
}

// FieldOffset returns the byte offset of field i of a struct or tuple.
func (e *Engine) FieldOffset(t types.TypeID, i int) (int, error) {
	l, err := e.LayoutOf(t)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(l.FieldOffsets) {
		return 0, &Error{Kind: ErrInvalidType, Type: t}
	}
	return l.FieldOffsets[i], nil
}
