package llvm

import (
	"fmt"
	"strings"

	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/source"
	"ember/internal/symbols"
)

type funcSig struct {
	ret    string
	params []string
	// kept lists the indices of the parameters present in params; zero-sized
	// parameters have no slot in the emitted signature.
	kept     []int
	variadic bool
}

// fnType is the callee type spelled in a call; variadic callees need the
// full function type.
func (s funcSig) fnType() string {
	if !s.variadic {
		return s.ret
	}
	params := append(append([]string(nil), s.params...), "...")
	return fmt.Sprintf("%s (%s)", s.ret, strings.Join(params, ", "))
}

func (e *Emitter) signature(id symbols.DeclID) (funcSig, error) {
	if sig, ok := e.sigs[id]; ok {
		return sig, nil
	}
	d := e.syms.Decl(id)
	ret, err := e.irType(d.Result)
	if err != nil {
		return funcSig{}, err
	}
	sig := funcSig{ret: ret, variadic: d.Variadic}
	for i, p := range d.Params {
		if e.layout.IsZeroSized(p.Type) {
			continue
		}
		ty, err := e.irType(p.Type)
		if err != nil {
			return funcSig{}, err
		}
		sig.params = append(sig.params, ty)
		sig.kept = append(sig.kept, i)
	}
	e.sigs[id] = sig
	return sig, nil
}

type loopTargets struct {
	cont string
	brk  string
}

type funcEmitter struct {
	emitter *Emitter
	f       *hir.Func
	sig     funcSig

	// allocas collects every entry-block slot; body is written after them.
	allocas strings.Builder
	body    strings.Builder

	tmpID      int
	labelID    int
	scratchID  int
	block      string
	terminated bool

	localAlloca []string // "" for zero-sized locals
	loops       []loopTargets
}

func (e *Emitter) emitFunctions() error {
	for _, id := range e.res.Order {
		f, ok := e.res.Funcs[id]
		if !ok {
			continue
		}
		if err := e.emitFunction(f); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitFunction(f *hir.Func) error {
	sig, err := e.signature(f.Decl)
	if err != nil {
		return err
	}
	fe := &funcEmitter{
		emitter:     e,
		f:           f,
		sig:         sig,
		block:       "entry",
		localAlloca: make([]string, len(f.Locals)),
	}
	if err := fe.emitAllocas(); err != nil {
		return err
	}
	if err := fe.emitStmt(f.Body); err != nil {
		return err
	}
	if !fe.terminated {
		if sig.ret == "void" {
			fe.emitTerm("ret void")
		} else {
			fe.emitTerm("unreachable")
		}
	}

	params := make([]string, len(sig.kept))
	for j, i := range sig.kept {
		params[j] = fmt.Sprintf("%s %%p%d", sig.params[j], i)
	}
	fmt.Fprintf(&e.defs, "define %s @%s(%s) {\n", sig.ret, symbol(e.funcNames[f.Decl]), strings.Join(params, ", "))
	e.defs.WriteString("entry:\n")
	e.defs.WriteString(fe.allocas.String())
	for j, i := range sig.kept {
		fmt.Fprintf(&e.defs, "  store %s %%p%d, ptr %s\n", sig.params[j], i, fe.localAlloca[i])
	}
	e.defs.WriteString(fe.body.String())
	e.defs.WriteString("}\n\n")
	return nil
}

func (fe *funcEmitter) emitAllocas() error {
	e := fe.emitter
	for i, local := range fe.f.Locals {
		if e.layout.IsZeroSized(local.Type) {
			continue
		}
		ty, err := e.irType(local.Type)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%%l%d", i)
		fe.localAlloca[i] = name
		fmt.Fprintf(&fe.allocas, "  %s = alloca %s, align %d\n", name, ty, e.alignOf(local.Type))
	}
	return nil
}

func (fe *funcEmitter) nextTemp() string {
	fe.tmpID++
	return fmt.Sprintf("%%t%d", fe.tmpID)
}

func (fe *funcEmitter) nextLabel(prefix string) string {
	fe.labelID++
	return fmt.Sprintf("%s.%d", prefix, fe.labelID)
}

// emit writes one instruction. Code following a terminator goes to a fresh
// block without predecessors.
func (fe *funcEmitter) emit(format string, args ...any) {
	fe.reopen()
	fe.body.WriteString("  ")
	fmt.Fprintf(&fe.body, format, args...)
	fe.body.WriteByte('\n')
}

// reopen starts a fresh block when the current one is closed, so that
// fe.block names the block the next instruction lands in.
func (fe *funcEmitter) reopen() {
	if fe.terminated {
		fe.startBlock(fe.nextLabel("dead"))
	}
}

func (fe *funcEmitter) emitTerm(format string, args ...any) {
	fe.emit(format, args...)
	fe.terminated = true
}

// startBlock opens label, falling through from the current block when it
// is still open.
func (fe *funcEmitter) startBlock(label string) {
	if !fe.terminated {
		fmt.Fprintf(&fe.body, "  br label %%%s\n", label)
	}
	fmt.Fprintf(&fe.body, "%s:\n", label)
	fe.block = label
	fe.terminated = false
}

// branch closes the current block with a jump unless it is closed already.
func (fe *funcEmitter) branch(label string) {
	if !fe.terminated {
		fe.emitTerm("br label %%%s", label)
	}
}

// scratch allocates an entry-block slot for materialized temporaries.
func (fe *funcEmitter) scratch(ty string, align int) string {
	fe.scratchID++
	name := fmt.Sprintf("%%s%d", fe.scratchID)
	fmt.Fprintf(&fe.allocas, "  %s = alloca %s, align %d\n", name, ty, align)
	return name
}

func labelName(id hir.LabelID) string {
	return fmt.Sprintf("lbl.%d", id)
}

// emitEntry synthesizes the platform entry symbol calling id and returning
// its result at the exit code width.
func (e *Emitter) emitEntry(id symbols.DeclID) error {
	d := e.syms.Decl(id)
	if d == nil || d.Kind != symbols.DeclFunc || d.Extern {
		return diag.Errorf(diag.CodegenEntryPoint, spanOf(d), "entry point must be a function with a body")
	}
	name := e.syms.QualifiedName(id)
	if len(d.Params) != 0 {
		return diag.Errorf(diag.CodegenEntryPoint, d.Span, "entry point %s must not take parameters", name)
	}
	zero := e.layout.IsZeroSized(d.Result)
	if !zero && !e.types.IsInteger(d.Result) && !e.types.IsBool(d.Result) && !e.types.IsByte(d.Result) {
		return diag.Errorf(diag.CodegenEntryPoint, d.Span, "entry point %s must return an integer, a bool or nothing, not %s",
			name, e.types.TypeString(d.Result))
	}
	sym := e.target.EntrySymbol
	for _, taken := range e.funcNames {
		if taken == sym {
			return diag.Errorf(diag.CodegenEntryPoint, d.Span, "entry symbol %q is already defined", sym)
		}
	}
	for _, taken := range e.globalNames {
		if taken == sym {
			return diag.Errorf(diag.CodegenEntryPoint, d.Span, "entry symbol %q is already defined", sym)
		}
	}

	exit := fmt.Sprintf("i%d", e.target.ExitCodeBits)
	callee := "@" + symbol(e.funcNames[id])
	fmt.Fprintf(&e.entry, "define %s @%s() {\nentry:\n", exit, symbol(sym))
	if zero {
		fmt.Fprintf(&e.entry, "  call void %s()\n  ret %s 0\n}\n", callee, exit)
		return nil
	}
	ty, err := e.irType(d.Result)
	if err != nil {
		return err
	}
	fmt.Fprintf(&e.entry, "  %%t0 = call %s %s()\n", ty, callee)
	val := "%t0"
	bits := e.layout.IntBits(d.Result)
	if op := resizeOp(bits, e.target.ExitCodeBits, e.types.IsSigned(d.Result)); op != "" {
		fmt.Fprintf(&e.entry, "  %%t1 = %s %s %%t0 to %s\n", op, ty, exit)
		val = "%t1"
	}
	fmt.Fprintf(&e.entry, "  ret %s %s\n}\n", exit, val)
	return nil
}

func spanOf(d *symbols.Decl) (sp source.Span) {
	if d != nil {
		sp = d.Span
	}
	return sp
}

// resizeOp picks the integer extension or truncation between two widths;
// "" means no instruction is needed.
func resizeOp(from, to int, signed bool) string {
	switch {
	case from < to && signed:
		return "sext"
	case from < to:
		return "zext"
	case from > to:
		return "trunc"
	}
	return ""
}
