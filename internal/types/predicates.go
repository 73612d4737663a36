package types

// Under returns the descriptor of t with any top-level const removed.
func (in *Interner) Under(t TypeID) Type {
	tt, ok := in.Lookup(t)
	if !ok {
		return Type{}
	}
	if tt.Kind == KindConst {
		inner, _ := in.Lookup(tt.Elem)
		return inner
	}
	return tt
}

// KindOf reports the kind of t looking through const.
func (in *Interner) KindOf(t TypeID) Kind {
	return in.Under(t).Kind
}

func (in *Interner) IsVoid(t TypeID) bool { return in.KindOf(t) == KindVoid }
func (in *Interner) IsNull(t TypeID) bool { return in.KindOf(t) == KindNull }
func (in *Interner) IsBool(t TypeID) bool { return in.KindOf(t) == KindBool }
func (in *Interner) IsByte(t TypeID) bool { return in.KindOf(t) == KindByte }

func (in *Interner) IsInteger(t TypeID) bool {
	k := in.KindOf(t)
	return k == KindInt || k == KindUint
}

func (in *Interner) IsSigned(t TypeID) bool   { return in.KindOf(t) == KindInt }
func (in *Interner) IsUnsigned(t TypeID) bool { return in.KindOf(t) == KindUint }
func (in *Interner) IsFloat(t TypeID) bool    { return in.KindOf(t) == KindFloat }

// IsArithmetic covers integers and floats.
func (in *Interner) IsArithmetic(t TypeID) bool {
	return in.IsInteger(t) || in.IsFloat(t)
}

// IsPointer is true for both nullable and non-nullable pointers.
func (in *Interner) IsPointer(t TypeID) bool {
	k := in.KindOf(t)
	return k == KindPtr || k == KindNullablePtr
}

func (in *Interner) IsNullablePointer(t TypeID) bool { return in.KindOf(t) == KindNullablePtr }
func (in *Interner) IsNonNullablePointer(t TypeID) bool {
	return in.KindOf(t) == KindPtr
}
func (in *Interner) IsSlice(t TypeID) bool  { return in.KindOf(t) == KindSlice }
func (in *Interner) IsArray(t TypeID) bool  { return in.KindOf(t) == KindArray }
func (in *Interner) IsStruct(t TypeID) bool { return in.KindOf(t) == KindStruct }
func (in *Interner) IsTuple(t TypeID) bool  { return in.KindOf(t) == KindTuple }
func (in *Interner) IsFn(t TypeID) bool     { return in.KindOf(t) == KindFn }

// IsPlatformInt is true for isize and usize.
func (in *Interner) IsPlatformInt(t TypeID) bool {
	u := in.Under(t)
	return (u.Kind == KindInt || u.Kind == KindUint) && u.Width == WidthPlatform
}

// Elem returns the pointee/element of pointers, arrays, slices and const.
func (in *Interner) Elem(t TypeID) TypeID {
	tt, ok := in.Lookup(t)
	if !ok {
		return NoTypeID
	}
	switch tt.Kind {
	case KindConst:
		return in.Elem(tt.Elem)
	case KindPtr, KindNullablePtr, KindArray, KindSlice:
		return tt.Elem
	}
	return NoTypeID
}

// ArrayLen returns the length of an array type.
func (in *Interner) ArrayLen(t TypeID) (uint64, bool) {
	u := in.Under(t)
	if u.Kind != KindArray {
		return 0, false
	}
	return u.Count, true
}

// WidthOf returns the declared width of a numeric type.
func (in *Interner) WidthOf(t TypeID) Width {
	return in.Under(t).Width
}
