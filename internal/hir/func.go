package hir

import (
	"ember/internal/source"
	"ember/internal/symbols"
	"ember/internal/types"
)

// LocalID indexes Func.Locals.
type LocalID uint32

// LabelID indexes Func.Labels; 0 is "unresolved".
type LabelID uint32

const NoLabelID LabelID = 0

type Local struct {
	Name  source.StringID
	Type  types.TypeID
	Span  source.Span
	Param bool
}

type Label struct {
	Name source.StringID
	Span source.Span
}

// Func is a checked function or operator body. Parameters occupy the first
// Locals slots in declaration order.
type Func struct {
	Decl   symbols.DeclID
	Result types.TypeID
	Locals []Local
	Labels []Label // Labels[0] is reserved
	Body   *Stmt
}

// Label returns the label for id or nil.
func (f *Func) Label(id LabelID) *Label {
	if id == NoLabelID || int(id) >= len(f.Labels) {
		return nil
	}
	return &f.Labels[id]
}

// Params returns the parameter slots.
func (f *Func) Params() []Local {
	n := 0
	for n < len(f.Locals) && f.Locals[n].Param {
		n++
	}
	return f.Locals[:n]
}
