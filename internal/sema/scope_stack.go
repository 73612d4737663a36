package sema

import (
	"fmt"

	"fortio.org/safecast"

	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/symbols"
	"ember/internal/types"
)

// funcState is the per-body state of the statement validator.
type funcState struct {
	decl   symbols.DeclID
	result types.TypeID

	locals []hir.Local
	scopes []map[source.StringID]hir.LocalID

	labels   []hir.Label
	labelIDs map[source.StringID]hir.LabelID

	loops int
}

func newFuncState(decl symbols.DeclID, result types.TypeID) *funcState {
	return &funcState{
		decl:     decl,
		result:   result,
		labels:   make([]hir.Label, 1, 4),
		labelIDs: make(map[source.StringID]hir.LabelID),
	}
}

func (fs *funcState) push() {
	fs.scopes = append(fs.scopes, make(map[source.StringID]hir.LocalID))
}

func (fs *funcState) pop() {
	fs.scopes = fs.scopes[:len(fs.scopes)-1]
}

// declare adds a local to the innermost scope. The previous slot is
// returned when the name is already taken there.
func (fs *funcState) declare(l hir.Local) (hir.LocalID, *hir.Local) {
	top := fs.scopes[len(fs.scopes)-1]
	if prev, ok := top[l.Name]; ok {
		return prev, &fs.locals[prev]
	}
	n, err := safecast.Conv[uint32](len(fs.locals))
	if err != nil {
		panic(fmt.Errorf("locals overflow: %w", err))
	}
	id := hir.LocalID(n)
	fs.locals = append(fs.locals, l)
	top[l.Name] = id
	return id, nil
}

// param appends a parameter slot. Blank names get a slot but no binding.
func (fs *funcState) param(l hir.Local, blank bool) {
	n, err := safecast.Conv[uint32](len(fs.locals))
	if err != nil {
		panic(fmt.Errorf("locals overflow: %w", err))
	}
	fs.locals = append(fs.locals, l)
	if !blank {
		fs.scopes[len(fs.scopes)-1][l.Name] = hir.LocalID(n)
	}
}

func (fs *funcState) lookup(name source.StringID) (hir.LocalID, bool) {
	for i := len(fs.scopes) - 1; i >= 0; i-- {
		if id, ok := fs.scopes[i][name]; ok {
			return id, true
		}
	}
	return 0, false
}

// defineLabel registers a function-wide label.
func (fs *funcState) defineLabel(name source.StringID, sp source.Span) (hir.LabelID, *hir.Label) {
	if prev, ok := fs.labelIDs[name]; ok {
		return prev, &fs.labels[prev]
	}
	n, err := safecast.Conv[uint32](len(fs.labels))
	if err != nil {
		panic(fmt.Errorf("labels overflow: %w", err))
	}
	id := hir.LabelID(n)
	fs.labels = append(fs.labels, hir.Label{Name: name, Span: sp})
	fs.labelIDs[name] = id
	return id, nil
}
