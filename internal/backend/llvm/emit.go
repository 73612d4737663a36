package llvm

import (
	"fmt"
	"slices"
	"strings"

	"ember/internal/diag"
	"ember/internal/layout"
	"ember/internal/sema"
	"ember/internal/source"
	"ember/internal/symbols"
	"ember/internal/types"
)

// Options configures one emission.
type Options struct {
	// Entry is wrapped into the platform entry symbol of the target.
	// NoDeclID emits no wrapper.
	Entry symbols.DeclID
}

type stringConst struct {
	bytes      []byte
	globalName string
}

// Emitter lowers a checked program into textual IR. Every section is
// collected into its own buffer and the buffers are joined in a fixed order
// once all functions have been lowered, so that intrinsics discovered late
// still land among the declarations.
type Emitter struct {
	res    *sema.Result
	types  *types.Interner
	layout *layout.Engine
	syms   *symbols.Table
	target layout.Target

	typeDefs strings.Builder
	globals  strings.Builder
	decls    strings.Builder
	defs     strings.Builder
	entry    strings.Builder

	stringConsts map[string]*stringConst
	stringOrder  []*stringConst
	intrinsics   map[string]string
	funcNames    map[symbols.DeclID]string
	globalNames  map[symbols.DeclID]string
	sigs         map[symbols.DeclID]funcSig
}

// Emit produces the IR module for a checked program.
func Emit(res *sema.Result, opts Options) (string, error) {
	if res == nil {
		return "", nil
	}
	e := &Emitter{
		res:          res,
		types:        res.Types,
		layout:       res.Layout,
		syms:         res.Table,
		target:       res.Target,
		stringConsts: make(map[string]*stringConst),
		intrinsics:   make(map[string]string),
		funcNames:    make(map[symbols.DeclID]string),
		globalNames:  make(map[symbols.DeclID]string),
		sigs:         make(map[symbols.DeclID]funcSig),
	}
	e.prepareNames()
	if err := e.emitTypes(); err != nil {
		return "", err
	}
	if err := e.emitGlobals(); err != nil {
		return "", err
	}
	if err := e.emitExterns(); err != nil {
		return "", err
	}
	if err := e.emitFunctions(); err != nil {
		return "", err
	}
	if opts.Entry.IsValid() {
		if err := e.emitEntry(opts.Entry); err != nil {
			return "", err
		}
	}
	return e.assemble(), nil
}

func (e *Emitter) prepareNames() {
	for _, id := range e.res.Order {
		d := e.syms.Decl(id)
		switch {
		case d.Kind.IsCallable():
			e.funcNames[id] = e.mangle(id)
		case d.Kind == symbols.DeclGlobal:
			e.globalNames[id] = e.syms.ModuleName(d.Module) + "." + e.syms.Name(id)
		}
	}
}

func (e *Emitter) assemble() string {
	var out strings.Builder
	fmt.Fprintf(&out, "target triple = %q\n\n", e.target.Triple)
	section := func(s string) {
		if s == "" {
			return
		}
		out.WriteString(s)
		out.WriteString("\n")
	}
	section(e.typeDefs.String())
	section(e.globals.String())

	var decls strings.Builder
	decls.WriteString(e.decls.String())
	names := make([]string, 0, len(e.intrinsics))
	for name := range e.intrinsics {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		decls.WriteString(e.intrinsics[name])
		decls.WriteString("\n")
	}
	section(decls.String())
	section(e.defs.String())

	var pool strings.Builder
	for _, sc := range e.stringOrder {
		fmt.Fprintf(&pool, "@%s = private unnamed_addr constant [%d x i8] %s\n",
			sc.globalName, len(sc.bytes)+1, formatLLVMBytes(sc.bytes))
	}
	section(pool.String())
	section(e.entry.String())
	return strings.TrimRight(out.String(), "\n") + "\n"
}

// internString returns the pool constant holding s, numbering new entries
// in first-use order.
func (e *Emitter) internString(s []byte) string {
	key := string(s)
	if sc, ok := e.stringConsts[key]; ok {
		return "@" + sc.globalName
	}
	sc := &stringConst{bytes: []byte(key), globalName: fmt.Sprintf(".str.%d", len(e.stringOrder))}
	e.stringConsts[key] = sc
	e.stringOrder = append(e.stringOrder, sc)
	return "@" + sc.globalName
}

func formatLLVMBytes(data []byte) string {
	var sb strings.Builder
	sb.WriteString("c\"")
	for _, b := range data {
		if b >= 0x20 && b < 0x7f && b != '"' && b != '\\' {
			sb.WriteByte(b)
			continue
		}
		fmt.Fprintf(&sb, "\\%02X", b)
	}
	sb.WriteString("\\00\"")
	return sb.String()
}

// useIntrinsic records the declaration of an intrinsic and returns its
// symbol.
func (e *Emitter) useIntrinsic(name, ret string, params ...string) string {
	if _, ok := e.intrinsics[name]; !ok {
		e.intrinsics[name] = fmt.Sprintf("declare %s @%s(%s)", ret, name, strings.Join(params, ", "))
	}
	return "@" + name
}

func unsupported(sp source.Span, format string, args ...any) error {
	return diag.Errorf(diag.CodegenUnsupported, sp, format, args...)
}

// symbol spells a global or local name, quoting it when it contains
// characters outside the bare identifier set.
func symbol(name string) string {
	if name == "" {
		return `""`
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c == '.', c == '_', c == '$', c == '-':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return quoteSymbol(name)
		}
	}
	return name
}

func quoteSymbol(name string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x20 || c >= 0x7f || c == '"' || c == '\\' {
			fmt.Fprintf(&sb, "\\%02X", c)
			continue
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('"')
	return sb.String()
}
