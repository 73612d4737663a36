package hir

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"ember/internal/symbols"
	"ember/internal/types"
)

// Printer renders checked functions as an indented S-expression-like dump.
type Printer struct {
	w      io.Writer
	types  *types.Interner
	table  *symbols.Table
	fn     *Func
	indent int
	err    error
}

func NewPrinter(w io.Writer, in *types.Interner, table *symbols.Table) *Printer {
	return &Printer{w: w, types: in, table: table}
}

// Print dumps fn to w.
func Print(w io.Writer, fn *Func, in *types.Interner, table *symbols.Table) error {
	return NewPrinter(w, in, table).PrintFunc(fn)
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) line(format string, args ...any) {
	p.printf("%s", strings.Repeat("  ", p.indent))
	p.printf(format, args...)
	p.printf("\n")
}

func (p *Printer) typeStr(t types.TypeID) string {
	return p.types.TypeString(t)
}

func (p *Printer) name(id symbols.DeclID) string {
	return p.table.QualifiedName(id)
}

func (p *Printer) PrintFunc(fn *Func) error {
	p.fn = fn
	params := make([]string, 0, len(fn.Locals))
	for _, l := range fn.Params() {
		params = append(params, p.types.Strings.MustLookup(l.Name)+" "+p.typeStr(l.Type))
	}
	p.line("fn %s(%s) => %s", p.name(fn.Decl), strings.Join(params, ", "), p.typeStr(fn.Result))
	p.indent++
	for i, l := range fn.Locals[len(fn.Params()):] {
		p.line("local %%%d %s %s", i+len(fn.Params()), p.types.Strings.MustLookup(l.Name), p.typeStr(l.Type))
	}
	p.stmt(fn.Body)
	p.indent--
	return p.err
}

func (p *Printer) stmt(s *Stmt) {
	if s == nil {
		p.line("<nil>")
		return
	}
	switch d := s.Data.(type) {
	case *BlockData:
		p.line("block")
		p.indent++
		for _, c := range d.Stmts {
			p.stmt(c)
		}
		p.indent--
	case *ExprStmtData:
		p.line("expr %s", p.expr(d.X))
	case *AssignData:
		p.line("assign %s = %s", p.expr(d.Target), p.expr(d.Value))
	case *IfData:
		kw := "if"
		if d.Negate {
			kw = "unless"
		}
		p.line("%s %s", kw, p.expr(d.Cond))
		p.indent++
		p.stmt(d.Then)
		p.indent--
		if d.Else != nil {
			p.line("else")
			p.indent++
			p.stmt(d.Else)
			p.indent--
		}
	case *WhileData:
		kw := "while"
		if d.Negate {
			kw = "until"
		}
		p.line("%s %s", kw, p.expr(d.Cond))
		p.indent++
		p.stmt(d.Body)
		p.indent--
	case *LoopData:
		p.line("loop")
		p.indent++
		p.stmt(d.Body)
		p.indent--
	case *GotoData:
		p.line("goto L%d %s", d.Label, p.types.Strings.MustLookup(d.Name))
	case *LabelData:
		name := ""
		if l := p.fn.Label(d.Label); l != nil {
			name = p.types.Strings.MustLookup(l.Name)
		}
		p.line("label L%d %s", d.Label, name)
	case *ReturnData:
		if d.Value == nil {
			p.line("return")
		} else {
			p.line("return %s", p.expr(d.Value))
		}
	default:
		switch s.Kind {
		case StmtBreak:
			p.line("break")
		case StmtContinue:
			p.line("continue")
		default:
			p.line("nop")
		}
	}
}

func (p *Printer) exprs(xs []*Expr) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = p.expr(x)
	}
	return strings.Join(parts, " ")
}

func (p *Printer) expr(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	var body string
	switch d := e.Data.(type) {
	case *LiteralData:
		body = p.literal(e, d)
	case *LocalData:
		name := "?"
		if int(d.Local) < len(p.fn.Locals) {
			name = p.types.Strings.MustLookup(p.fn.Locals[d.Local].Name)
		}
		body = fmt.Sprintf("local %%%d %s", d.Local, name)
	case *GlobalData:
		body = "global " + p.name(d.Decl)
	case *FuncRefData:
		body = "fn " + p.name(d.Decl)
	case *LoadData:
		body = "load " + p.expr(d.X)
	case *ConvertData:
		body = d.Conv.String() + " " + p.expr(d.X)
	case *UnaryData:
		body = d.Op.Name() + " " + p.expr(d.X)
	case *AddrOfData:
		body = "addr " + p.expr(d.X)
	case *DerefData:
		body = "deref " + p.expr(d.X)
	case *BinaryData:
		body = d.Op.String() + " " + p.expr(d.X) + " " + p.expr(d.Y)
	case *CallData:
		body = strings.TrimSpace("call " + p.name(d.Func) + " " + p.exprs(d.Args))
	case *IndirectCallData:
		body = strings.TrimSpace("icall " + p.expr(d.Callee) + " " + p.exprs(d.Args))
	case *FieldData:
		body = fmt.Sprintf("field %d %s", d.Index, p.expr(d.X))
	case *SliceFieldData:
		f := "ptr"
		if d.Field == SliceLen {
			f = "len"
		}
		body = "slice." + f + " " + p.expr(d.X)
	case *IndexData:
		body = "index " + p.expr(d.X) + " " + p.expr(d.Index)
	case *CastData:
		body = d.Cast.String() + " " + p.expr(d.X)
	case *StructLitData:
		body = "struct " + p.exprs(d.Fields)
	case *TupleLitData:
		body = "tuple " + p.exprs(d.Elems)
	case *ArrayLitData:
		body = "array " + p.exprs(d.Elems)
	case *BuiltinData:
		body = d.Builtin.String() + " " + p.exprs(d.Args)
	default:
		body = "?"
	}
	cat := ""
	if e.Cat == LValue {
		cat = "&"
	}
	return fmt.Sprintf("(%s%s: %s)", cat, strings.TrimSpace(body), p.typeStr(e.Type))
}

func (p *Printer) literal(e *Expr, d *LiteralData) string {
	switch d.Kind {
	case LitInt:
		if p.types.IsSigned(e.Type) {
			return strconv.FormatInt(int64(d.Int), 10)
		}
		return strconv.FormatUint(d.Int, 10)
	case LitFloat:
		return strconv.FormatFloat(d.Float, 'g', -1, 64)
	case LitBool:
		return strconv.FormatBool(d.Bool)
	case LitNull:
		return "null"
	case LitString:
		return strconv.Quote(string(d.Str))
	}
	return "?"
}
