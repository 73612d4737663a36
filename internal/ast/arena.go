package ast

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Arena stores nodes of one kind. Handles are 1-based; 0 means "none".
type Arena[T any] struct {
	data []T
}

// NewArena creates an arena with room for capHint elements.
func NewArena[T any](capHint uint) Arena[T] {
	return Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate appends value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return n
}

func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// Slice exposes the backing storage; read only.
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return n
}

// EncodeMsgpack writes the arena as a plain array.
func (a Arena[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(a.data)
}

func (a *Arena[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var data []T
	if err := dec.Decode(&data); err != nil {
		return err
	}
	a.data = data
	return nil
}
