package layout

// StructLayout is the size, alignment and field offsets of a type. Scalars
// have no offsets.
type StructLayout struct {
	Size         int
	Align        int
	FieldOffsets []int
}

// Builder accumulates fields in declaration order.
type Builder struct {
	size    int
	align   int
	offsets []int
}

func NewBuilder(hint int) *Builder {
	return &Builder{align: 1, offsets: make([]int, 0, hint)}
}

// AppendField places a field at the next offset that is a multiple of align
// and returns that offset.
func (b *Builder) AppendField(size, align int) int {
	if align < 1 {
		align = 1
	}
	if b.align < 1 {
		b.align = 1
	}
	b.size = roundUp(b.size, align)
	off := b.size
	b.offsets = append(b.offsets, off)
	b.size += size
	b.align = max(b.align, align)
	return off
}

// Build pads the size to the accumulated alignment.
func (b *Builder) Build() StructLayout {
	align := max(b.align, 1)
	offsets := make([]int, len(b.offsets))
	copy(offsets, b.offsets)
	return StructLayout{
		Size:         roundUp(b.size, align),
		Align:        align,
		FieldOffsets: offsets,
	}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}
