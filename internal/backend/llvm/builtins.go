package llvm

import (
	"strings"

	"ember/internal/ast"
	"ember/internal/hir"
	"ember/internal/types"
)

// opClass selects the instruction flavor for an operand type.
type opClass uint8

const (
	classSigned opClass = iota
	classUnsigned
	classFloat
	classBool
	classPointer
	numClasses
)

func (e *Emitter) operandClass(t types.TypeID) opClass {
	switch e.types.KindOf(t) {
	case types.KindInt:
		return classSigned
	case types.KindFloat:
		return classFloat
	case types.KindBool:
		return classBool
	case types.KindPtr, types.KindNullablePtr, types.KindNull:
		return classPointer
	}
	return classUnsigned
}

// binaryMnemonics maps an operator and operand class to its instruction.
// An empty entry means the operator is not defined for the class.
var binaryMnemonics = map[ast.Op][numClasses]string{
	// signed, unsigned, float, bool, pointer
	ast.OpAdd:    {"add", "add", "fadd", "", ""},
	ast.OpSub:    {"sub", "sub", "fsub", "", ""},
	ast.OpMul:    {"mul", "mul", "fmul", "", ""},
	ast.OpDiv:    {"sdiv", "udiv", "fdiv", "", ""},
	ast.OpRem:    {"srem", "urem", "frem", "", ""},
	ast.OpBitAnd: {"and", "and", "", "and", ""},
	ast.OpBitOr:  {"or", "or", "", "or", ""},
	ast.OpBitXor: {"xor", "xor", "", "xor", ""},
	ast.OpShl:    {"shl", "shl", "", "", ""},
	ast.OpShr:    {"ashr", "lshr", "", "", ""},
	ast.OpEq:     {"icmp eq", "icmp eq", "fcmp oeq", "icmp eq", "icmp eq"},
	ast.OpNe:     {"icmp ne", "icmp ne", "fcmp une", "icmp ne", "icmp ne"},
	ast.OpLt:     {"icmp slt", "icmp ult", "fcmp olt", "", ""},
	ast.OpLe:     {"icmp sle", "icmp ule", "fcmp ole", "", ""},
	ast.OpGt:     {"icmp sgt", "icmp ugt", "fcmp ogt", "", ""},
	ast.OpGe:     {"icmp sge", "icmp uge", "fcmp oge", "", ""},
}

func binaryMnemonic(op ast.Op, class opClass) (string, bool) {
	row, ok := binaryMnemonics[op]
	if !ok || row[class] == "" {
		return "", false
	}
	return row[class], true
}

type intrinsic struct {
	name string
	// mem intrinsics are overloaded on the length type only.
	mem bool
}

var builtinIntrinsics = map[hir.Builtin]intrinsic{
	hir.BuiltinClz:      {name: "llvm.ctlz"},
	hir.BuiltinCtz:      {name: "llvm.cttz"},
	hir.BuiltinPopcount: {name: "llvm.ctpop"},
	hir.BuiltinBswap:    {name: "llvm.bswap"},
	hir.BuiltinRotl:     {name: "llvm.fshl"},
	hir.BuiltinRotr:     {name: "llvm.fshr"},
	hir.BuiltinMemcpy:   {name: "llvm.memcpy.p0.p0", mem: true},
	hir.BuiltinMemmove:  {name: "llvm.memmove.p0.p0", mem: true},
	hir.BuiltinMemset:   {name: "llvm.memset.p0", mem: true},
}

func (fe *funcEmitter) emitBuiltin(x *hir.Expr, data *hir.BuiltinData) (val, ty string, err error) {
	e := fe.emitter
	in, ok := builtinIntrinsics[data.Builtin]
	if !ok {
		return "", "", unsupported(x.Span, "unknown builtin %s", data.Builtin)
	}
	vals := make([]string, len(data.Args))
	tys := make([]string, len(data.Args))
	for i, a := range data.Args {
		if vals[i], tys[i], err = fe.emitValue(a); err != nil {
			return "", "", err
		}
	}

	if in.mem {
		st := e.sizeType()
		name := in.name + "." + st
		second := "ptr"
		if data.Builtin == hir.BuiltinMemset {
			second = "i8"
		}
		sym := e.useIntrinsic(name, "void", "ptr", second, st, "i1")
		fe.emit("call void %s(ptr %s, %s %s, %s %s, i1 false)", sym, vals[0], second, vals[1], st, vals[2])
		return "", "void", nil
	}

	ty = tys[0]
	name := in.name + "." + ty
	args := []string{ty + " " + vals[0]}
	params := []string{ty}
	switch data.Builtin {
	case hir.BuiltinClz, hir.BuiltinCtz:
		args = append(args, "i1 false")
		params = append(params, "i1")
	case hir.BuiltinRotl, hir.BuiltinRotr:
		// A funnel shift of a value with itself is a rotate.
		args = append(args, ty+" "+vals[0], ty+" "+vals[1])
		params = append(params, ty, ty)
	}
	sym := e.useIntrinsic(name, ty, params...)
	tmp := fe.nextTemp()
	fe.emit("%s = call %s %s(%s)", tmp, ty, sym, strings.Join(args, ", "))
	return tmp, ty, nil
}
