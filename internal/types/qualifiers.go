package types

// AddConst qualifies t. Function types are never qualified, arrays carry the
// qualifier on their element and an already const type is returned as is.
func (in *Interner) AddConst(t TypeID) TypeID {
	tt, ok := in.Lookup(t)
	if !ok {
		return t
	}
	switch tt.Kind {
	case KindConst, KindFn:
		return t
	case KindArray:
		return in.Array(tt.Count, in.AddConst(tt.Elem))
	default:
		return in.Intern(Type{Kind: KindConst, Elem: t})
	}
}

// RemoveConst strips the top-level qualifier, looking through arrays.
func (in *Interner) RemoveConst(t TypeID) TypeID {
	tt, ok := in.Lookup(t)
	if !ok {
		return t
	}
	switch tt.Kind {
	case KindConst:
		return tt.Elem
	case KindArray:
		elem := in.RemoveConst(tt.Elem)
		if elem == tt.Elem {
			return t
		}
		return in.Array(tt.Count, elem)
	default:
		return t
	}
}

// IsConst reports whether t is const at the top level (arrays through their
// element).
func (in *Interner) IsConst(t TypeID) bool {
	tt, ok := in.Lookup(t)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindConst:
		return true
	case KindArray:
		return in.IsConst(tt.Elem)
	}
	return false
}

// Equal is structural equality; hash-consing makes it identity on TypeIDs.
func (in *Interner) Equal(a, b TypeID) bool {
	return a == b
}

// EqualUnqualified compares a and b after stripping top-level const. This is
// the comparison used for assignments and argument matching.
func (in *Interner) EqualUnqualified(a, b TypeID) bool {
	return in.RemoveConst(a) == in.RemoveConst(b)
}
