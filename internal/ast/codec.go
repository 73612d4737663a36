package ast

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode writes p in the interchange format shared with the front end.
func Encode(w io.Writer, p *Program) error {
	if p == nil {
		return fmt.Errorf("ast: nil program")
	}
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(p)
}

// Decode reads a Program written by Encode and checks its format version,
// handles and spans.
func Decode(r io.Reader) (*Program, error) {
	dec := msgpack.NewDecoder(r)
	p := &Program{}
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("ast: decode: %w", err)
	}
	if p.Version != FormatVersion {
		return nil, fmt.Errorf("ast: unsupported format version %d (want %d)", p.Version, FormatVersion)
	}
	if err := p.CheckHandles(); err != nil {
		return nil, err
	}
	if err := p.CheckSpans(); err != nil {
		return nil, err
	}
	return p, nil
}
