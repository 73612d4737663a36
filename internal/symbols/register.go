package symbols

import (
	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/types"
)

// Register creates an empty declaration for every top-level declaration of
// prog. Functions and operators are grouped into overload sets by name and
// struct declarations receive their nominal TypeID right away. Interfaces
// are left for the resolver.
func Register(prog *ast.Program, in *types.Interner) (*Table, error) {
	t := NewTable(in.Strings)
	r := registrar{prog: prog, table: t, types: in}
	for _, mid := range prog.ModuleIDs() {
		if err := r.module(prog.Module(mid)); err != nil {
			return nil, err
		}
	}
	for i, mid := range prog.ModuleIDs() {
		if err := r.imports(ModuleID(i+1), prog.Module(mid)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

type registrar struct {
	prog  *ast.Program
	table *Table
	types *types.Interner
}

func (r *registrar) intern(s string) source.StringID {
	return r.table.Strings.Intern(s)
}

func (r *registrar) module(m *ast.Module) error {
	name := r.intern(m.Name)
	if prev, ok := r.table.ModuleByName(name); ok {
		return diag.Errorf(diag.SemaRedefinition, m.Span, "module %q is defined twice", m.Name).
			WithNote(r.table.Module(prev).Span, "previous definition")
	}
	mid := r.table.newModule(name, m.Span)
	for _, id := range m.Decls {
		if err := r.decl(mid, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *registrar) imports(mid ModuleID, m *ast.Module) error {
	mod := r.table.Module(mid)
	for _, imp := range m.Imports {
		target, ok := r.table.ModuleByName(r.intern(imp))
		if !ok {
			return diag.Errorf(diag.SemaUnknownSymbol, m.Span, "module %q imports unknown module %q", m.Name, imp)
		}
		if target == mid || mod.ImportsModule(target) {
			continue
		}
		mod.Imports = append(mod.Imports, target)
	}
	return nil
}

func (r *registrar) decl(mid ModuleID, id ast.DeclID) error {
	d := r.prog.Decl(id)
	if d == nil {
		return diag.Errorf(diag.ProjectBadPayload, source.Span{}, "missing declaration #%d", id)
	}
	mod := r.table.Module(mid)
	switch d.Kind {
	case ast.DeclFunc, ast.DeclOperator:
		return r.function(mod, id, d)
	case ast.DeclStruct, ast.DeclGlobal, ast.DeclAlias:
	default:
		return diag.Errorf(diag.ProjectBadPayload, d.Span, "declaration %q has invalid kind %d", d.Name, d.Kind)
	}

	name := r.intern(d.Name)
	if prev, ok := mod.Member(name); ok {
		return r.redefinition(d, prev)
	}
	decl := Decl{
		Name:     name,
		Module:   mid,
		Exported: d.Exported,
		Span:     d.Span,
		Node:     id,
		Const:    d.Const,
	}
	switch d.Kind {
	case ast.DeclStruct:
		decl.Kind = DeclStruct
	case ast.DeclGlobal:
		decl.Kind = DeclGlobal
	default:
		decl.Kind = DeclAlias
	}
	did := r.table.newDecl(decl)
	if decl.Kind == DeclStruct {
		r.table.Decl(did).Type = r.types.RegisterStruct(name, mod.Name, uint32(did))
	}
	mod.scope[name] = did
	mod.Decls = append(mod.Decls, did)
	return nil
}

func (r *registrar) function(mod *Module, id ast.DeclID, d *ast.Decl) error {
	setName := d.Name
	kind := DeclFunc
	if d.Kind == ast.DeclOperator {
		kind = DeclOperator
		if !d.Op.Overloadable() {
			return diag.Errorf(diag.SemaInvalidOperand, d.Span, "operator %s cannot be overloaded", d.Op)
		}
		if (d.Op.IsUnary() && len(d.Params) != 1) || (d.Op.IsBinary() && len(d.Params) != 2) {
			return diag.Errorf(diag.SemaInvalidOperand, d.Span,
				"operator %s takes %d parameter(s), got %d", d.Op, opArity(d.Op), len(d.Params))
		}
		if !d.Body.IsValid() {
			return diag.Errorf(diag.SemaInvalidOperand, d.Span, "operator %s must have a body", d.Op)
		}
		setName = d.Op.OperatorSetName()
	}
	name := r.intern(setName)

	setID, ok := mod.Member(name)
	if ok {
		if set := r.table.Decl(setID); set.Kind != DeclOverloadSet {
			return r.redefinition(d, setID)
		}
	} else {
		setID = r.table.newDecl(Decl{
			Kind:   DeclOverloadSet,
			Name:   name,
			Module: mod.ID,
			Span:   d.Span,
		})
		mod.scope[name] = setID
		mod.Decls = append(mod.Decls, setID)
	}

	link := ""
	extern := kind == DeclFunc && !d.Body.IsValid()
	if extern {
		link = d.LinkName
		if link == "" {
			link = d.Name
		}
	}
	fid := r.table.newDecl(Decl{
		Kind:     kind,
		Name:     name,
		Module:   mod.ID,
		Exported: d.Exported,
		Span:     d.Span,
		Node:     id,
		Set:      setID,
		Op:       d.Op,
		Extern:   extern,
		LinkName: link,
		Variadic: d.Variadic,
	})
	set := r.table.Decl(setID)
	set.Members = append(set.Members, fid)
	set.Exported = set.Exported || d.Exported
	return nil
}

func (r *registrar) redefinition(d *ast.Decl, prev DeclID) error {
	p := r.table.Decl(prev)
	return diag.Errorf(diag.SemaRedefinition, d.Span, "redefinition of %q", d.Name).
		WithNote(p.Span, "previous %s declared here", p.Kind)
}

func opArity(op ast.Op) int {
	if op.IsUnary() {
		return 1
	}
	return 2
}
