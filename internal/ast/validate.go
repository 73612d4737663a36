package ast

import "fmt"

// CheckHandles verifies that every handle stored in p points inside its
// arena. Decode runs it so that later passes may rely on Get never failing
// for a valid handle.
func (p *Program) CheckHandles() error {
	c := handleChecker{p: p}
	for i, m := range p.Modules.Slice() {
		for _, d := range m.Decls {
			c.decl(d, "module %d", i+1)
		}
	}
	for i := range p.Decls.Slice() {
		d := &p.Decls.Slice()[i]
		at := fmt.Sprintf("decl %d", i+1)
		for _, f := range d.Fields {
			c.typ(f.Type, "%s field", at)
		}
		for _, prm := range d.Params {
			c.typ(prm.Type, "%s param", at)
		}
		c.typ(d.Type, "%s type", at)
		c.typ(d.Result, "%s result", at)
		c.expr(d.Init, "%s init", at)
		c.stmt(d.Body, "%s body", at)
	}
	for i := range p.Types.Slice() {
		t := &p.Types.Slice()[i]
		at := fmt.Sprintf("type %d", i+1)
		c.typ(t.Elem, "%s elem", at)
		c.typ(t.Result, "%s result", at)
		for _, e := range t.Elems {
			c.typ(e, "%s elems", at)
		}
	}
	for i := range p.Exprs.Slice() {
		e := &p.Exprs.Slice()[i]
		at := fmt.Sprintf("expr %d", i+1)
		c.expr(e.X, "%s x", at)
		c.expr(e.Y, "%s y", at)
		c.typ(e.Type, "%s type", at)
		for _, a := range e.Args {
			c.expr(a, "%s args", at)
		}
		for _, f := range e.Fields {
			c.expr(f.Value, "%s fields", at)
		}
	}
	for i := range p.Stmts.Slice() {
		s := &p.Stmts.Slice()[i]
		at := fmt.Sprintf("stmt %d", i+1)
		for _, sub := range s.Stmts {
			c.stmt(sub, "%s stmts", at)
		}
		c.expr(s.Expr, "%s expr", at)
		c.expr(s.Target, "%s target", at)
		c.stmt(s.Then, "%s then", at)
		c.stmt(s.Else, "%s else", at)
		c.stmt(s.Body, "%s body", at)
		c.typ(s.Type, "%s type", at)
	}
	return c.err
}

type handleChecker struct {
	p   *Program
	err error
}

func (c *handleChecker) fail(kind string, id uint32, format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf("ast: %s handle %d out of range at %s", kind, id, fmt.Sprintf(format, args...))
	}
}

func (c *handleChecker) decl(id DeclID, format string, args ...any) {
	if !id.IsValid() || uint32(id) > c.p.Decls.Len() {
		c.fail("decl", uint32(id), format, args...)
	}
}

func (c *handleChecker) typ(id TypeID, format string, args ...any) {
	if uint32(id) > c.p.Types.Len() {
		c.fail("type", uint32(id), format, args...)
	}
}

func (c *handleChecker) expr(id ExprID, format string, args ...any) {
	if uint32(id) > c.p.Exprs.Len() {
		c.fail("expr", uint32(id), format, args...)
	}
}

func (c *handleChecker) stmt(id StmtID, format string, args ...any) {
	if uint32(id) > c.p.Stmts.Len() {
		c.fail("stmt", uint32(id), format, args...)
	}
}
