package ast

import (
	"ember/internal/source"
)

// Builder assembles a Program programmatically. Nodes inherit the span set
// with At; declarations go into the module selected last by Module or Use.
type Builder struct {
	Prog *Program
	mod  ModuleID
	span source.Span
}

func NewBuilder() *Builder {
	return &Builder{Prog: NewProgram()}
}

// File registers a source file and returns its id for use in spans.
func (b *Builder) File(path string, content []byte) source.FileID {
	b.Prog.Files = append(b.Prog.Files, SourceFile{Path: path, Content: content})
	return source.FileID(len(b.Prog.Files) - 1)
}

// At sets the span attached to subsequently built nodes.
func (b *Builder) At(sp source.Span) *Builder {
	b.span = sp
	return b
}

func (b *Builder) Module(name string, imports ...string) ModuleID {
	b.mod = ModuleID(b.Prog.Modules.Allocate(Module{Name: name, Imports: imports, Span: b.span}))
	return b.mod
}

func (b *Builder) Use(m ModuleID) {
	b.mod = m
}

// Types ---------------------------------------------------------------------

func (b *Builder) newType(t TypeExpr) TypeID {
	t.Span = b.span
	return TypeID(b.Prog.Types.Allocate(t))
}

func (b *Builder) Named(name string) TypeID {
	return b.newType(TypeExpr{Kind: TypeNamed, Name: name})
}

func (b *Builder) Qualified(module, name string) TypeID {
	return b.newType(TypeExpr{Kind: TypeNamed, Module: module, Name: name})
}

func (b *Builder) Const(elem TypeID) TypeID {
	return b.newType(TypeExpr{Kind: TypeConst, Elem: elem})
}

func (b *Builder) Ptr(elem TypeID) TypeID {
	return b.newType(TypeExpr{Kind: TypePointer, Elem: elem})
}

func (b *Builder) NullablePtr(elem TypeID) TypeID {
	return b.newType(TypeExpr{Kind: TypePointer, Elem: elem, Nullable: true})
}

func (b *Builder) Array(n uint64, elem TypeID) TypeID {
	return b.newType(TypeExpr{Kind: TypeArray, Len: n, Elem: elem})
}

func (b *Builder) Slice(elem TypeID) TypeID {
	return b.newType(TypeExpr{Kind: TypeSlice, Elem: elem})
}

func (b *Builder) Tuple(elems ...TypeID) TypeID {
	return b.newType(TypeExpr{Kind: TypeTuple, Elems: elems})
}

func (b *Builder) FuncType(params []TypeID, result TypeID, variadic bool) TypeID {
	return b.newType(TypeExpr{Kind: TypeFunc, Elems: params, Result: result, Variadic: variadic})
}

// Expressions ---------------------------------------------------------------

func (b *Builder) newExpr(e Expr) ExprID {
	e.Span = b.span
	return ExprID(b.Prog.Exprs.Allocate(e))
}

func (b *Builder) Ident(name string) ExprID {
	return b.newExpr(Expr{Kind: ExprIdent, Name: name})
}

func (b *Builder) QualIdent(module, name string) ExprID {
	return b.newExpr(Expr{Kind: ExprIdent, Module: module, Name: name})
}

func (b *Builder) Int(text string) ExprID {
	return b.newExpr(Expr{Kind: ExprIntLit, Text: text})
}

func (b *Builder) Float(text string) ExprID {
	return b.newExpr(Expr{Kind: ExprFloatLit, Text: text})
}

// FloatW builds a float literal carrying an explicit width suffix (32 or 64).
func (b *Builder) FloatW(text string, width uint8) ExprID {
	return b.newExpr(Expr{Kind: ExprFloatLit, Text: text, Width: width})
}

func (b *Builder) Bool(v bool) ExprID {
	return b.newExpr(Expr{Kind: ExprBoolLit, Bool: v})
}

func (b *Builder) Null() ExprID {
	return b.newExpr(Expr{Kind: ExprNullLit})
}

func (b *Builder) Str(s string) ExprID {
	return b.newExpr(Expr{Kind: ExprStringLit, Bytes: []byte(s)})
}

func (b *Builder) Unary(op Op, x ExprID) ExprID {
	return b.newExpr(Expr{Kind: ExprUnary, Op: op, X: x})
}

func (b *Builder) Binary(op Op, x, y ExprID) ExprID {
	return b.newExpr(Expr{Kind: ExprBinary, Op: op, X: x, Y: y})
}

func (b *Builder) Call(callee ExprID, args ...ExprID) ExprID {
	return b.newExpr(Expr{Kind: ExprCall, X: callee, Args: args})
}

// CallName is shorthand for calling an unqualified name.
func (b *Builder) CallName(name string, args ...ExprID) ExprID {
	return b.Call(b.Ident(name), args...)
}

func (b *Builder) Index(x, index ExprID) ExprID {
	return b.newExpr(Expr{Kind: ExprIndex, X: x, Y: index})
}

func (b *Builder) Member(x ExprID, name string) ExprID {
	return b.newExpr(Expr{Kind: ExprField, X: x, Name: name})
}

func (b *Builder) Cast(kind CastKind, t TypeID, x ExprID) ExprID {
	return b.newExpr(Expr{Kind: ExprCast, Cast: kind, Type: t, X: x})
}

func (b *Builder) Sizeof(t TypeID) ExprID {
	return b.newExpr(Expr{Kind: ExprSizeof, Type: t})
}

func (b *Builder) Alignof(t TypeID) ExprID {
	return b.newExpr(Expr{Kind: ExprAlignof, Type: t})
}

func (b *Builder) Init(name string, value ExprID) FieldInit {
	return FieldInit{Name: name, Value: value, Span: b.span}
}

func (b *Builder) StructLit(t TypeID, fields ...FieldInit) ExprID {
	return b.newExpr(Expr{Kind: ExprStructLit, Type: t, Fields: fields})
}

func (b *Builder) TupleLit(elems ...ExprID) ExprID {
	return b.newExpr(Expr{Kind: ExprTupleLit, Args: elems})
}

func (b *Builder) ArrayLit(elems ...ExprID) ExprID {
	return b.newExpr(Expr{Kind: ExprArrayLit, Args: elems})
}

func (b *Builder) Builtin(name string, args ...ExprID) ExprID {
	return b.newExpr(Expr{Kind: ExprBuiltin, Name: name, Args: args})
}

// Statements ----------------------------------------------------------------

func (b *Builder) newStmt(s Stmt) StmtID {
	s.Span = b.span
	return StmtID(b.Prog.Stmts.Allocate(s))
}

func (b *Builder) Block(stmts ...StmtID) StmtID {
	return b.newStmt(Stmt{Kind: StmtBlock, Stmts: stmts})
}

func (b *Builder) Do(e ExprID) StmtID {
	return b.newStmt(Stmt{Kind: StmtExpr, Expr: e})
}

func (b *Builder) Var(name string, t TypeID, init ExprID) StmtID {
	return b.newStmt(Stmt{Kind: StmtVar, Name: name, Type: t, Expr: init})
}

func (b *Builder) ConstVar(name string, t TypeID, init ExprID) StmtID {
	return b.newStmt(Stmt{Kind: StmtVar, Name: name, Type: t, Expr: init, Const: true})
}

func (b *Builder) Assign(target, value ExprID) StmtID {
	return b.newStmt(Stmt{Kind: StmtAssign, Target: target, Expr: value})
}

func (b *Builder) If(cond ExprID, then, els StmtID) StmtID {
	return b.newStmt(Stmt{Kind: StmtIf, Expr: cond, Then: then, Else: els})
}

func (b *Builder) Unless(cond ExprID, then, els StmtID) StmtID {
	return b.newStmt(Stmt{Kind: StmtIf, Expr: cond, Then: then, Else: els, Negate: true})
}

func (b *Builder) While(cond ExprID, body StmtID) StmtID {
	return b.newStmt(Stmt{Kind: StmtWhile, Expr: cond, Body: body})
}

func (b *Builder) Until(cond ExprID, body StmtID) StmtID {
	return b.newStmt(Stmt{Kind: StmtWhile, Expr: cond, Body: body, Negate: true})
}

func (b *Builder) Loop(body StmtID) StmtID {
	return b.newStmt(Stmt{Kind: StmtLoop, Body: body})
}

func (b *Builder) Break() StmtID {
	return b.newStmt(Stmt{Kind: StmtBreak})
}

func (b *Builder) Continue() StmtID {
	return b.newStmt(Stmt{Kind: StmtContinue})
}

func (b *Builder) Goto(label string) StmtID {
	return b.newStmt(Stmt{Kind: StmtGoto, Name: label})
}

func (b *Builder) Label(name string) StmtID {
	return b.newStmt(Stmt{Kind: StmtLabel, Name: name})
}

func (b *Builder) Return(value ExprID) StmtID {
	return b.newStmt(Stmt{Kind: StmtReturn, Expr: value})
}

// Declarations --------------------------------------------------------------

func (b *Builder) addDecl(d Decl) DeclID {
	d.Span = b.span
	id := DeclID(b.Prog.Decls.Allocate(d))
	if m := b.Prog.Module(b.mod); m != nil {
		m.Decls = append(m.Decls, id)
	}
	return id
}

func (b *Builder) F(name string, t TypeID) Field {
	return Field{Name: name, Type: t, Span: b.span}
}

func (b *Builder) P(name string, t TypeID) Param {
	return Param{Name: name, Type: t, Span: b.span}
}

func (b *Builder) Struct(name string, fields ...Field) DeclID {
	return b.addDecl(Decl{Kind: DeclStruct, Name: name, Fields: fields})
}

func (b *Builder) Global(name string, t TypeID, init ExprID) DeclID {
	return b.addDecl(Decl{Kind: DeclGlobal, Name: name, Type: t, Init: init})
}

func (b *Builder) ConstGlobal(name string, t TypeID, init ExprID) DeclID {
	return b.addDecl(Decl{Kind: DeclGlobal, Name: name, Type: t, Init: init, Const: true})
}

func (b *Builder) Alias(name string, t TypeID) DeclID {
	return b.addDecl(Decl{Kind: DeclAlias, Name: name, Type: t})
}

func (b *Builder) Func(name string, params []Param, result TypeID, body StmtID) DeclID {
	return b.addDecl(Decl{Kind: DeclFunc, Name: name, Params: params, Result: result, Body: body})
}

// Extern declares a body-less function linked as link (name when empty).
func (b *Builder) Extern(name, link string, params []Param, result TypeID, variadic bool) DeclID {
	if link == "" {
		link = name
	}
	return b.addDecl(Decl{Kind: DeclFunc, Name: name, Params: params, Result: result, Variadic: variadic, LinkName: link})
}

func (b *Builder) Operator(op Op, params []Param, result TypeID, body StmtID) DeclID {
	return b.addDecl(Decl{Kind: DeclOperator, Name: op.OperatorSetName(), Op: op, Params: params, Result: result, Body: body})
}

// Export marks d visible to importing modules and returns it.
func (b *Builder) Export(d DeclID) DeclID {
	if decl := b.Prog.Decl(d); decl != nil {
		decl.Exported = true
	}
	return d
}
