package llvm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ember/internal/ast"
	"ember/internal/hir"
	"ember/internal/types"
)

// emitValue lowers x to an SSA operand and its IR type. Zero-sized values
// still have their side effects lowered but yield type "void" and no
// operand.
func (fe *funcEmitter) emitValue(x *hir.Expr) (val, ty string, err error) {
	if x.Cat == hir.LValue && x.Kind != hir.ExprFuncRef {
		return fe.emitLoad(x)
	}
	e := fe.emitter
	switch data := x.Data.(type) {
	case *hir.LiteralData:
		ty, err := e.irType(x.Type)
		if err != nil || ty == "void" {
			return "", ty, err
		}
		return e.literalText(x, data), ty, nil
	case *hir.LoadData:
		return fe.emitLoad(data.X)
	case *hir.FuncRefData:
		return "@" + symbol(e.funcNames[data.Decl]), "ptr", nil
	case *hir.ConvertData:
		return fe.emitConvert(x, data)
	case *hir.UnaryData:
		return fe.emitUnary(x, data)
	case *hir.AddrOfData:
		addr, err := fe.emitAddr(data.X)
		return addr, "ptr", err
	case *hir.BinaryData:
		return fe.emitBinary(x, data)
	case *hir.CallData:
		return fe.emitCall(data)
	case *hir.IndirectCallData:
		return fe.emitIndirectCall(data)
	case *hir.FieldData, *hir.IndexData:
		addr, err := fe.emitAddr(x)
		if err != nil {
			return "", "", err
		}
		return fe.load(x.Type, addr)
	case *hir.SliceFieldData:
		s, sty, err := fe.emitValue(data.X)
		if err != nil {
			return "", "", err
		}
		tmp := fe.nextTemp()
		fe.emit("%s = extractvalue %s %s, %d", tmp, sty, s, data.Field)
		if data.Field == hir.SlicePtr {
			return tmp, "ptr", nil
		}
		return tmp, e.sizeType(), nil
	case *hir.CastData:
		return fe.emitCast(x, data)
	case *hir.StructLitData, *hir.TupleLitData, *hir.ArrayLitData:
		addr, err := fe.buildAggregate(x)
		if err != nil {
			return "", "", err
		}
		return fe.load(x.Type, addr)
	case *hir.BuiltinData:
		return fe.emitBuiltin(x, data)
	}
	return "", "", unsupported(x.Span, "unexpected expression kind %d", x.Kind)
}

func (fe *funcEmitter) emitLoad(lv *hir.Expr) (val, ty string, err error) {
	addr, err := fe.emitAddr(lv)
	if err != nil {
		return "", "", err
	}
	return fe.load(lv.Type, addr)
}

func (fe *funcEmitter) load(t types.TypeID, addr string) (val, ty string, err error) {
	ty, err = fe.emitter.irType(t)
	if err != nil || ty == "void" {
		return "", ty, err
	}
	tmp := fe.nextTemp()
	fe.emit("%s = load %s, ptr %s", tmp, ty, addr)
	return tmp, ty, nil
}

// literalText spells an immediate. Floats use the hexadecimal form of their
// IEEE-754 double pattern; float32 values are exact in that form.
func (e *Emitter) literalText(x *hir.Expr, lit *hir.LiteralData) string {
	switch lit.Kind {
	case hir.LitInt:
		return e.intText(x.Type, lit.Int)
	case hir.LitFloat:
		f := lit.Float
		if e.types.WidthOf(x.Type) == types.Width32 {
			f = float64(float32(f))
		}
		return fmt.Sprintf("0x%016X", math.Float64bits(f))
	case hir.LitBool:
		return strconv.FormatBool(lit.Bool)
	case hir.LitString:
		return e.internString(lit.Str)
	}
	if e.types.IsSlice(x.Type) {
		return "zeroinitializer"
	}
	return "null"
}

func (e *Emitter) intText(t types.TypeID, v uint64) string {
	bits := e.layout.IntBits(t)
	if bits > 0 && bits < 64 {
		v &= 1<<uint(bits) - 1
	}
	if bits == 1 {
		return strconv.FormatBool(v != 0)
	}
	if e.types.IsSigned(t) && bits < 64 && v&(1<<uint(bits-1)) != 0 {
		return strconv.FormatInt(int64(v)-int64(1)<<uint(bits), 10)
	}
	if e.types.IsSigned(t) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatUint(v, 10)
}

// emitAddr lowers x to a pointer to its storage. Rvalues are materialized
// into scratch slots first.
func (fe *funcEmitter) emitAddr(x *hir.Expr) (string, error) {
	e := fe.emitter
	switch data := x.Data.(type) {
	case *hir.LocalData:
		if addr := fe.localAlloca[data.Local]; addr != "" {
			return addr, nil
		}
		return e.zeroSizedConstAddr(), nil
	case *hir.GlobalData:
		if e.layout.IsZeroSized(x.Type) {
			return e.zeroSizedConstAddr(), nil
		}
		return "@" + symbol(e.globalNames[data.Decl]), nil
	case *hir.FuncRefData:
		return "@" + symbol(e.funcNames[data.Decl]), nil
	case *hir.DerefData:
		val, _, err := fe.emitValue(data.X)
		return val, err
	case *hir.FieldData:
		base, err := fe.emitBaseAddr(data.X)
		if err != nil {
			return "", err
		}
		off, err := e.layout.FieldOffset(e.types.RemoveConst(data.X.Type), data.Index)
		if err != nil {
			return "", unsupported(x.Span, "cannot lay out %s: %v", e.types.TypeString(data.X.Type), err)
		}
		return fe.offsetAddr(base, off), nil
	case *hir.IndexData:
		return fe.emitIndexAddr(x, data)
	case *hir.StructLitData, *hir.TupleLitData, *hir.ArrayLitData:
		return fe.buildAggregate(x)
	}
	if x.Cat == hir.LValue {
		return "", unsupported(x.Span, "unexpected lvalue kind %d", x.Kind)
	}
	return fe.materialize(x)
}

// emitBaseAddr addresses the aggregate operand of a field or index access.
// Nested accesses on a temporary share the temporary's scratch slot.
func (fe *funcEmitter) emitBaseAddr(x *hir.Expr) (string, error) {
	if x.Cat == hir.LValue || x.Kind == hir.ExprField || x.Kind == hir.ExprIndex {
		return fe.emitAddr(x)
	}
	return fe.materialize(x)
}

// materialize stores the value of x into a fresh scratch slot.
func (fe *funcEmitter) materialize(x *hir.Expr) (string, error) {
	switch x.Data.(type) {
	case *hir.StructLitData, *hir.TupleLitData, *hir.ArrayLitData:
		return fe.buildAggregate(x)
	}
	val, ty, err := fe.emitValue(x)
	if err != nil {
		return "", err
	}
	if ty == "void" {
		return fe.emitter.zeroSizedConstAddr(), nil
	}
	slot := fe.scratch(ty, fe.emitter.alignOf(x.Type))
	fe.emit("store %s %s, ptr %s", ty, val, slot)
	return slot, nil
}

func (fe *funcEmitter) offsetAddr(base string, off int) string {
	if off == 0 {
		return base
	}
	tmp := fe.nextTemp()
	fe.emit("%s = getelementptr inbounds i8, ptr %s, %s %d", tmp, base, fe.emitter.sizeType(), off)
	return tmp
}

func (fe *funcEmitter) emitIndexAddr(x *hir.Expr, data *hir.IndexData) (string, error) {
	e := fe.emitter
	var base string
	if e.types.IsSlice(data.X.Type) {
		s, sty, err := fe.emitValue(data.X)
		if err != nil {
			return "", err
		}
		base = fe.nextTemp()
		fe.emit("%s = extractvalue %s %s, 0", base, sty, s)
	} else {
		var err error
		if base, err = fe.emitBaseAddr(data.X); err != nil {
			return "", err
		}
	}
	idx, ity, err := fe.emitValue(data.Index)
	if err != nil {
		return "", err
	}
	stride, err := e.layout.SizeOf(x.Type)
	if err != nil {
		return "", unsupported(x.Span, "cannot lay out %s: %v", e.types.TypeString(x.Type), err)
	}
	if stride == 0 {
		return base, nil
	}
	st := e.sizeType()
	idx = fe.resizeInt(idx, ity, st, e.types.IsSigned(data.Index.Type))
	if stride != 1 {
		scaled := fe.nextTemp()
		fe.emit("%s = mul %s %s, %d", scaled, st, idx, stride)
		idx = scaled
	}
	tmp := fe.nextTemp()
	fe.emit("%s = getelementptr inbounds i8, ptr %s, %s %s", tmp, base, st, idx)
	return tmp, nil
}

// buildAggregate stores each member of an aggregate literal at its layout
// offset inside a scratch slot and returns the slot.
func (fe *funcEmitter) buildAggregate(x *hir.Expr) (string, error) {
	e := fe.emitter
	var elems []*hir.Expr
	switch data := x.Data.(type) {
	case *hir.StructLitData:
		elems = data.Fields
	case *hir.TupleLitData:
		elems = data.Elems
	case *hir.ArrayLitData:
		elems = data.Elems
	}
	ty, err := e.irType(x.Type)
	if err != nil {
		return "", err
	}
	slot := e.zeroSizedConstAddr()
	if ty != "void" {
		slot = fe.scratch(ty, e.alignOf(x.Type))
	}
	stride := 0
	if e.types.IsArray(x.Type) {
		if stride, err = e.layout.SizeOf(e.types.Elem(x.Type)); err != nil {
			return "", unsupported(x.Span, "cannot lay out %s: %v", e.types.TypeString(x.Type), err)
		}
	}
	for i, el := range elems {
		val, vty, err := fe.emitValue(el)
		if err != nil {
			return "", err
		}
		if vty == "void" {
			continue
		}
		off := i * stride
		if !e.types.IsArray(x.Type) {
			if off, err = e.layout.FieldOffset(e.types.RemoveConst(x.Type), i); err != nil {
				return "", unsupported(x.Span, "cannot lay out %s: %v", e.types.TypeString(x.Type), err)
			}
		}
		fe.emit("store %s %s, ptr %s", vty, val, fe.offsetAddr(slot, off))
	}
	return slot, nil
}

func (fe *funcEmitter) emitConvert(x *hir.Expr, data *hir.ConvertData) (val, ty string, err error) {
	e := fe.emitter
	if data.Conv == hir.ConvNullToPointer {
		return "null", "ptr", nil
	}
	if data.Conv == hir.ConvNullToSlice {
		return "zeroinitializer", e.sliceType(), nil
	}
	v, vty, err := fe.emitValue(data.X)
	if err != nil {
		return "", "", err
	}
	to, err := e.irType(x.Type)
	if err != nil {
		return "", "", err
	}
	switch data.Conv {
	case hir.ConvFloatExtend:
		tmp := fe.nextTemp()
		fe.emit("%s = fpext %s %s to %s", tmp, vty, v, to)
		return tmp, to, nil
	case hir.ConvIntWiden:
		return fe.resizeInt(v, vty, to, e.types.IsSigned(data.X.Type)), to, nil
	case hir.ConvPointer, hir.ConvSliceConst:
		return v, to, nil
	case hir.ConvSliceToBytes:
		n, scaled, out := fe.nextTemp(), fe.nextTemp(), fe.nextTemp()
		fe.emit("%s = extractvalue %s %s, 1", n, vty, v)
		fe.emit("%s = mul %s %s, %d", scaled, e.sizeType(), n, data.Len)
		fe.emit("%s = insertvalue %s %s, %s %s, 1", out, to, v, e.sizeType(), scaled)
		return out, to, nil
	case hir.ConvArrayToSlice:
		withPtr, out := fe.nextTemp(), fe.nextTemp()
		fe.emit("%s = insertvalue %s undef, ptr %s, 0", withPtr, to, v)
		fe.emit("%s = insertvalue %s %s, %s %d, 1", out, to, withPtr, e.sizeType(), data.Len)
		return out, to, nil
	}
	return "", "", unsupported(x.Span, "unexpected conversion %s", data.Conv)
}

// resizeInt extends or truncates an integer operand between two IR
// integer types.
func (fe *funcEmitter) resizeInt(val, from, to string, signed bool) string {
	op := resizeOp(intBits(from), intBits(to), signed)
	if op == "" {
		return val
	}
	tmp := fe.nextTemp()
	fe.emit("%s = %s %s %s to %s", tmp, op, from, val, to)
	return tmp
}

func intBits(ty string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(ty, "i"))
	if err != nil {
		return 0
	}
	return n
}

func (fe *funcEmitter) emitUnary(x *hir.Expr, data *hir.UnaryData) (val, ty string, err error) {
	v, ty, err := fe.emitValue(data.X)
	if err != nil {
		return "", "", err
	}
	tmp := fe.nextTemp()
	switch {
	case data.Op == ast.OpNeg && fe.emitter.types.IsFloat(x.Type):
		fe.emit("%s = fneg %s %s", tmp, ty, v)
	case data.Op == ast.OpNeg:
		fe.emit("%s = sub %s 0, %s", tmp, ty, v)
	case data.Op == ast.OpNot:
		fe.emit("%s = xor i1 %s, true", tmp, v)
	case data.Op == ast.OpBitNot:
		fe.emit("%s = xor %s %s, -1", tmp, ty, v)
	default:
		return "", "", unsupported(x.Span, "unexpected unary operator %s", data.Op)
	}
	return tmp, ty, nil
}

func (fe *funcEmitter) emitBinary(x *hir.Expr, data *hir.BinaryData) (val, ty string, err error) {
	if data.Op.IsLogical() {
		return fe.emitLogical(data)
	}
	e := fe.emitter
	l, lty, err := fe.emitValue(data.X)
	if err != nil {
		return "", "", err
	}
	r, rty, err := fe.emitValue(data.Y)
	if err != nil {
		return "", "", err
	}
	if data.Op == ast.OpShl || data.Op == ast.OpShr {
		r = fe.resizeInt(r, rty, lty, e.types.IsSigned(data.Y.Type))
	}
	mnemonic, ok := binaryMnemonic(data.Op, e.operandClass(data.X.Type))
	if !ok {
		return "", "", unsupported(x.Span, "operator %s is not defined for %s", data.Op, e.types.TypeString(data.X.Type))
	}
	tmp := fe.nextTemp()
	fe.emit("%s = %s %s %s, %s", tmp, mnemonic, lty, l, r)
	if data.Op.IsComparison() {
		return tmp, "i1", nil
	}
	return tmp, lty, nil
}

// emitLogical lowers && and || with short-circuit evaluation.
func (fe *funcEmitter) emitLogical(data *hir.BinaryData) (val, ty string, err error) {
	l, _, err := fe.emitValue(data.X)
	if err != nil {
		return "", "", err
	}
	rhsL := fe.nextLabel("logic.rhs")
	endL := fe.nextLabel("logic.end")
	fe.reopen()
	from := fe.block
	short := "false"
	if data.Op == ast.OpLogAnd {
		fe.emitTerm("br i1 %s, label %%%s, label %%%s", l, rhsL, endL)
	} else {
		short = "true"
		fe.emitTerm("br i1 %s, label %%%s, label %%%s", l, endL, rhsL)
	}
	fe.startBlock(rhsL)
	r, _, err := fe.emitValue(data.Y)
	if err != nil {
		return "", "", err
	}
	fe.reopen()
	rhsEnd := fe.block
	fe.branch(endL)
	fe.startBlock(endL)
	tmp := fe.nextTemp()
	fe.emit("%s = phi i1 [ %s, %%%s ], [ %s, %%%s ]", tmp, short, from, r, rhsEnd)
	return tmp, "i1", nil
}

func (fe *funcEmitter) emitArgs(args []*hir.Expr) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		v, ty, err := fe.emitValue(a)
		if err != nil {
			return nil, err
		}
		if ty == "void" {
			continue
		}
		out = append(out, ty+" "+v)
	}
	return out, nil
}

func (fe *funcEmitter) emitCall(data *hir.CallData) (val, ty string, err error) {
	e := fe.emitter
	sig, err := e.signature(data.Func)
	if err != nil {
		return "", "", err
	}
	args, err := fe.emitArgs(data.Args)
	if err != nil {
		return "", "", err
	}
	return fe.call(sig, "@"+symbol(e.funcNames[data.Func]), args)
}

func (fe *funcEmitter) emitIndirectCall(data *hir.IndirectCallData) (val, ty string, err error) {
	e := fe.emitter
	callee, _, err := fe.emitValue(data.Callee)
	if err != nil {
		return "", "", err
	}
	info, ok := e.types.FnInfo(e.types.RemoveConst(e.types.Elem(data.Callee.Type)))
	if !ok {
		return "", "", unsupported(data.Callee.Span, "callee of type %s is not a function pointer", e.types.TypeString(data.Callee.Type))
	}
	ret, err := e.irType(info.Result)
	if err != nil {
		return "", "", err
	}
	sig := funcSig{ret: ret, variadic: info.Variadic}
	for _, p := range info.Params {
		if e.layout.IsZeroSized(p) {
			continue
		}
		pty, err := e.irType(p)
		if err != nil {
			return "", "", err
		}
		sig.params = append(sig.params, pty)
	}
	args, err := fe.emitArgs(data.Args)
	if err != nil {
		return "", "", err
	}
	return fe.call(sig, callee, args)
}

func (fe *funcEmitter) call(sig funcSig, callee string, args []string) (val, ty string, err error) {
	if sig.ret == "void" {
		fe.emit("call %s %s(%s)", sig.fnType(), callee, strings.Join(args, ", "))
		return "", "void", nil
	}
	tmp := fe.nextTemp()
	fe.emit("%s = call %s %s(%s)", tmp, sig.fnType(), callee, strings.Join(args, ", "))
	return tmp, sig.ret, nil
}

func (fe *funcEmitter) emitCast(x *hir.Expr, data *hir.CastData) (val, ty string, err error) {
	e := fe.emitter
	v, from, err := fe.emitValue(data.X)
	if err != nil {
		return "", "", err
	}
	to, err := e.irType(x.Type)
	if err != nil {
		return "", "", err
	}
	src := data.X.Type
	op := ""
	switch data.Cast {
	case ast.CastSign:
	case ast.CastWiden, ast.CastNarrow:
		if e.types.IsFloat(src) {
			switch {
			case from == "float" && to == "double":
				op = "fpext"
			case from == "double" && to == "float":
				op = "fptrunc"
			}
			break
		}
		return fe.resizeInt(v, from, to, e.types.IsSigned(src)), to, nil
	case ast.CastConvert:
		switch {
		case e.types.IsBool(src):
			return fe.resizeInt(v, from, to, false), to, nil
		case e.types.IsFloat(src) && e.types.IsSigned(x.Type):
			op = "fptosi"
		case e.types.IsFloat(src):
			op = "fptoui"
		case e.types.IsSigned(src):
			op = "sitofp"
		default:
			op = "uitofp"
		}
	case ast.CastPointer:
		switch {
		case from == "ptr" && to != "ptr":
			op = "ptrtoint"
		case from != "ptr" && to == "ptr":
			op = "inttoptr"
		}
	default:
		return "", "", unsupported(x.Span, "unexpected cast %s", data.Cast)
	}
	if op == "" {
		return v, to, nil
	}
	tmp := fe.nextTemp()
	fe.emit("%s = %s %s %s to %s", tmp, op, from, v, to)
	return tmp, to, nil
}
