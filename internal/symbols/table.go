package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"ember/internal/source"
)

// Module is a namespace of declarations.
type Module struct {
	ID      ModuleID
	Name    source.StringID
	Imports []ModuleID
	Decls   []DeclID // top level: structs, globals, aliases and overload sets
	Span    source.Span

	scope map[source.StringID]DeclID
}

// Member returns the top-level declaration named name.
func (m *Module) Member(name source.StringID) (DeclID, bool) {
	id, ok := m.scope[name]
	return id, ok
}

// ImportsModule reports whether m imports other.
func (m *Module) ImportsModule(other ModuleID) bool {
	for _, id := range m.Imports {
		if id == other {
			return true
		}
	}
	return false
}

// Table owns every declaration of the program behind stable handles.
type Table struct {
	Strings *source.Interner

	decls   []Decl
	modules []Module
	byName  map[source.StringID]ModuleID
	order   []DeclID // registration order of top-level and member decls
}

// NewTable builds an empty table. If strings is nil a fresh interner is
// allocated.
func NewTable(strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Strings: strings,
		decls:   make([]Decl, 1, 64),
		modules: make([]Module, 1, 4),
		byName:  make(map[source.StringID]ModuleID, 4),
	}
}

func (t *Table) newDecl(d Decl) DeclID {
	n, err := safecast.Conv[uint32](len(t.decls))
	if err != nil {
		panic(fmt.Errorf("decl arena overflow: %w", err))
	}
	t.decls = append(t.decls, d)
	t.order = append(t.order, DeclID(n))
	return DeclID(n)
}

func (t *Table) newModule(name source.StringID, span source.Span) ModuleID {
	n, err := safecast.Conv[uint32](len(t.modules))
	if err != nil {
		panic(fmt.Errorf("module arena overflow: %w", err))
	}
	id := ModuleID(n)
	t.modules = append(t.modules, Module{
		ID:    id,
		Name:  name,
		Span:  span,
		scope: make(map[source.StringID]DeclID, 16),
	})
	t.byName[name] = id
	return id
}

// Decl returns the declaration for id or nil.
func (t *Table) Decl(id DeclID) *Decl {
	if !id.IsValid() || int(id) >= len(t.decls) {
		return nil
	}
	return &t.decls[id]
}

// Module returns the module for id or nil.
func (t *Table) Module(id ModuleID) *Module {
	if !id.IsValid() || int(id) >= len(t.modules) {
		return nil
	}
	return &t.modules[id]
}

// ModuleByName finds a module by its interned name.
func (t *Table) ModuleByName(name source.StringID) (ModuleID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Modules returns module IDs in registration order.
func (t *Table) Modules() []ModuleID {
	ids := make([]ModuleID, 0, len(t.modules)-1)
	for i := 1; i < len(t.modules); i++ {
		ids = append(ids, ModuleID(i))
	}
	return ids
}

// Order lists every declaration in registration order. Overload set
// members follow their set.
func (t *Table) Order() []DeclID {
	return t.order
}

// Len reports the number of declarations.
func (t *Table) Len() int {
	return len(t.decls) - 1
}

// Name returns the plain name of a declaration.
func (t *Table) Name(id DeclID) string {
	d := t.Decl(id)
	if d == nil {
		return "<invalid>"
	}
	return t.Strings.MustLookup(d.Name)
}

// QualifiedName returns "module::name".
func (t *Table) QualifiedName(id DeclID) string {
	d := t.Decl(id)
	if d == nil {
		return "<invalid>"
	}
	mod := t.Module(d.Module)
	if mod == nil {
		return t.Strings.MustLookup(d.Name)
	}
	return t.Strings.MustLookup(mod.Name) + "::" + t.Strings.MustLookup(d.Name)
}

// ModuleName returns the name of module id.
func (t *Table) ModuleName(id ModuleID) string {
	m := t.Module(id)
	if m == nil {
		return "<invalid>"
	}
	return t.Strings.MustLookup(m.Name)
}
