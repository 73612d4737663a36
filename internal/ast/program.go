package ast

import (
	"ember/internal/source"
)

// FormatVersion is bumped whenever the encoded layout of Program changes.
const FormatVersion uint16 = 1

// SourceFile is a file the front end parsed. Spans refer to files by their
// index in Program.Files.
type SourceFile struct {
	Path    string `msgpack:"path"`
	Content []byte `msgpack:"content,omitempty"`
}

// Module is one compilation module with its import list.
type Module struct {
	Name    string      `msgpack:"name"`
	Imports []string    `msgpack:"imports,omitempty"`
	Decls   []DeclID    `msgpack:"decls"`
	Span    source.Span `msgpack:"span"`
}

// Program is the whole untyped tree handed over by the front end.
type Program struct {
	Version uint16          `msgpack:"version"`
	Files   []SourceFile    `msgpack:"files"`
	Modules Arena[Module]   `msgpack:"modules"`
	Decls   Arena[Decl]     `msgpack:"decls"`
	Exprs   Arena[Expr]     `msgpack:"exprs"`
	Stmts   Arena[Stmt]     `msgpack:"stmts"`
	Types   Arena[TypeExpr] `msgpack:"types"`
}

func NewProgram() *Program {
	return &Program{
		Version: FormatVersion,
		Modules: NewArena[Module](4),
		Decls:   NewArena[Decl](64),
		Exprs:   NewArena[Expr](256),
		Stmts:   NewArena[Stmt](128),
		Types:   NewArena[TypeExpr](64),
	}
}

func (p *Program) Module(id ModuleID) *Module { return p.Modules.Get(uint32(id)) }
func (p *Program) Decl(id DeclID) *Decl       { return p.Decls.Get(uint32(id)) }
func (p *Program) Expr(id ExprID) *Expr       { return p.Exprs.Get(uint32(id)) }
func (p *Program) Stmt(id StmtID) *Stmt       { return p.Stmts.Get(uint32(id)) }
func (p *Program) Type(id TypeID) *TypeExpr   { return p.Types.Get(uint32(id)) }
func (p *Program) ModuleIDs() []ModuleID {
	n := p.Modules.Len()
	ids := make([]ModuleID, 0, n)
	for i := uint32(1); i <= n; i++ {
		ids = append(ids, ModuleID(i))
	}
	return ids
}

// FileSet rebuilds a source.FileSet whose FileIDs match the indices of Files.
func (p *Program) FileSet() *source.FileSet {
	fs := source.NewFileSet()
	for _, f := range p.Files {
		fs.AddVirtual(f.Path, f.Content)
	}
	return fs
}
