package ast

import (
	"fmt"

	"fortio.org/safecast"

	"ember/internal/source"
)

// CheckSpans verifies that every span in p is well formed: Start <= End,
// the file exists, and, when the file carries content, the span lies inside
// it. The zero span marks synthesized nodes and is always accepted.
func (p *Program) CheckSpans() error {
	sizes := make([]uint32, len(p.Files))
	hasContent := make([]bool, len(p.Files))
	for i, f := range p.Files {
		n, err := safecast.Conv[uint32](len(f.Content))
		if err != nil {
			return fmt.Errorf("ast: file %q too large: %w", f.Path, err)
		}
		sizes[i], hasContent[i] = n, f.Content != nil
	}
	check := func(sp source.Span, format string, args ...any) error {
		if sp == (source.Span{}) {
			return nil
		}
		at := fmt.Sprintf(format, args...)
		switch {
		case sp.End < sp.Start:
			return fmt.Errorf("ast: inverted span %v at %s", sp, at)
		case int(sp.File) >= len(p.Files):
			return fmt.Errorf("ast: span %v at %s names unknown file", sp, at)
		case hasContent[sp.File] && sp.End > sizes[sp.File]:
			return fmt.Errorf("ast: span %v at %s ends past %s (%d bytes)", sp, at, p.Files[sp.File].Path, sizes[sp.File])
		}
		return nil
	}

	for i, m := range p.Modules.Slice() {
		if err := check(m.Span, "module %d", i+1); err != nil {
			return err
		}
	}
	for i := range p.Decls.Slice() {
		d := &p.Decls.Slice()[i]
		if err := check(d.Span, "decl %d", i+1); err != nil {
			return err
		}
		for _, f := range d.Fields {
			if err := check(f.Span, "decl %d field %s", i+1, f.Name); err != nil {
				return err
			}
		}
		for _, prm := range d.Params {
			if err := check(prm.Span, "decl %d param %s", i+1, prm.Name); err != nil {
				return err
			}
		}
	}
	for i := range p.Types.Slice() {
		if err := check(p.Types.Slice()[i].Span, "type %d", i+1); err != nil {
			return err
		}
	}
	for i := range p.Exprs.Slice() {
		e := &p.Exprs.Slice()[i]
		if err := check(e.Span, "expr %d", i+1); err != nil {
			return err
		}
		for _, f := range e.Fields {
			if err := check(f.Span, "expr %d field %s", i+1, f.Name); err != nil {
				return err
			}
		}
	}
	for i := range p.Stmts.Slice() {
		if err := check(p.Stmts.Slice()[i].Span, "stmt %d", i+1); err != nil {
			return err
		}
	}
	return nil
}
