package llvm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/layout"
	"ember/internal/sema"
	"ember/internal/symbols"
	"ember/internal/types"
)

func checkFor(t *testing.T, target layout.Target, b *ast.Builder) *sema.Result {
	t.Helper()
	in := types.NewInterner(nil)
	table, err := symbols.Register(b.Prog, in)
	require.NoError(t, err)
	res, err := sema.Check(context.Background(), b.Prog, table, in, target)
	require.NoError(t, err)
	return res
}

func declNamed(t *testing.T, res *sema.Result, qname string) symbols.DeclID {
	t.Helper()
	for _, id := range res.Order {
		if res.Table.QualifiedName(id) == qname {
			return id
		}
	}
	t.Fatalf("no declaration %s", qname)
	return symbols.NoDeclID
}

func emitProgram(t *testing.T, b *ast.Builder) string {
	t.Helper()
	out, err := Emit(checkFor(t, layout.X86_64LinuxGNU(), b), Options{})
	require.NoError(t, err)
	return out
}

// emitWithEntry wraps main::main into the platform entry symbol.
func emitWithEntry(t *testing.T, b *ast.Builder) (string, error) {
	t.Helper()
	res := checkFor(t, layout.X86_64LinuxGNU(), b)
	return Emit(res, Options{Entry: declNamed(t, res, "main::main")})
}

func addProgram() *ast.Builder {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("add", []ast.Param{b.P("a", b.Named("int32")), b.P("b", b.Named("int32"))}, b.Named("int32"),
		b.Block(b.Return(b.Binary(ast.OpAdd, b.Ident("a"), b.Ident("b")))))
	b.Func("main", nil, b.Named("int32"),
		b.Block(b.Return(b.CallName("add", b.Int("1"), b.Int("2")))))
	return b
}

func TestEmitFunctionAndCall(t *testing.T) {
	out := emitProgram(t, addProgram())

	require.True(t, strings.HasPrefix(out, "target triple = \"x86_64-unknown-linux-gnu\"\n\n"))
	require.Contains(t, out, "define i32 @main.add$i32_i32(i32 %p0, i32 %p1) {\nentry:\n"+
		"  %l0 = alloca i32, align 4\n"+
		"  %l1 = alloca i32, align 4\n"+
		"  store i32 %p0, ptr %l0\n"+
		"  store i32 %p1, ptr %l1\n")
	require.Contains(t, out, "  %t1 = load i32, ptr %l0\n  %t2 = load i32, ptr %l1\n  %t3 = add i32 %t1, %t2\n  ret i32 %t3\n}")
	require.Contains(t, out, "  %t1 = call i32 @main.add$i32_i32(i32 1, i32 2)\n  ret i32 %t1\n")
	require.NotContains(t, out, "define i32 @main()")
	require.True(t, strings.HasSuffix(out, "}\n"))
}

func TestEmitEntryWrapper(t *testing.T) {
	out, err := emitWithEntry(t, addProgram())
	require.NoError(t, err)
	require.Contains(t, out, "define i32 @main() {\nentry:\n  %t0 = call i32 @main.main$()\n  ret i32 %t0\n}\n")
	require.Greater(t, strings.Index(out, "define i32 @main()"), strings.Index(out, "define i32 @main.main$()"),
		"the wrapper comes last")
}

func TestEmitEntryWrapperResizesResult(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("main", nil, b.Named("int8"), b.Block(b.Return(b.Int("3"))))
	out, err := emitWithEntry(t, b)
	require.NoError(t, err)
	require.Contains(t, out, "  %t0 = call i8 @main.main$()\n  %t1 = sext i8 %t0 to i32\n  ret i32 %t1\n")

	b = ast.NewBuilder()
	b.Module("main")
	b.Func("main", nil, b.Named("uint64"), b.Block(b.Return(b.Int("3"))))
	out, err = emitWithEntry(t, b)
	require.NoError(t, err)
	require.Contains(t, out, "  %t1 = trunc i64 %t0 to i32\n")
}

func TestEmitEntryWrapperVoidMain(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("main", nil, ast.NoTypeID, b.Block())
	out, err := emitWithEntry(t, b)
	require.NoError(t, err)
	require.Contains(t, out, "define void @main.main$() {\nentry:\n  ret void\n}")
	require.Contains(t, out, "define i32 @main() {\nentry:\n  call void @main.main$()\n  ret i32 0\n}\n")
}

func TestEmitEntryPointRejections(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("main", []ast.Param{b.P("argc", b.Named("int32"))}, b.Named("int32"), b.Block(b.Return(b.Ident("argc"))))
	_, err := emitWithEntry(t, b)
	requireCode(t, err, diag.CodegenEntryPoint)

	b = ast.NewBuilder()
	b.Module("main")
	b.Func("main", nil, b.Named("float64"), b.Block(b.Return(b.Float("1.0"))))
	_, err = emitWithEntry(t, b)
	requireCode(t, err, diag.CodegenEntryPoint)

	b = ast.NewBuilder()
	b.Module("main")
	b.Extern("main", "", nil, b.Named("int32"), false)
	_, err = emitWithEntry(t, b)
	requireCode(t, err, diag.CodegenEntryPoint)
}

func requireCode(t *testing.T, err error, code diag.Code) {
	t.Helper()
	require.Error(t, err)
	var de *diag.Error
	require.True(t, errors.As(err, &de), "expected *diag.Error, got %v", err)
	require.Equal(t, code, de.Code(), "got %v", err)
}

func TestEmitStructPadding(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Struct("P", b.F("a", b.Named("int8")), b.F("b", b.Named("int32")), b.F("c", b.Named("int8")))
	b.Global("g", b.Named("P"), ast.NoExprID)
	out := emitProgram(t, b)

	require.Contains(t, out, "%struct.main.P = type <{ i8, [3 x i8], i32, i8, [3 x i8] }>\n")
	require.Contains(t, out, "@main.g = internal global %struct.main.P zeroinitializer, align 4\n")
	require.Less(t, strings.Index(out, "%struct.main.P = type"), strings.Index(out, "@main.g ="))
}

func TestEmitConstantStructInitializer(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Struct("P", b.F("a", b.Named("int8")), b.F("b", b.Named("int32")))
	b.ConstGlobal("origin", b.Named("P"), b.StructLit(b.Named("P"), b.Init("a", b.Int("1")), b.Init("b", b.Int("2"))))
	out := emitProgram(t, b)

	require.Contains(t, out,
		"@main.origin = internal constant %struct.main.P <{ i8 1, [3 x i8] zeroinitializer, i32 2 }>, align 4\n")
}

func TestEmitZeroSizedElision(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Struct("E", b.F("v", b.Array(0, b.Named("int32"))))
	b.Global("g", b.Named("E"), ast.NoExprID)
	b.Func("take", []ast.Param{b.P("e", b.Named("E")), b.P("x", b.Named("int32"))}, b.Named("int32"),
		b.Block(b.Return(b.Ident("x"))))
	b.Func("main", nil, b.Named("int32"),
		b.Block(b.Return(b.CallName("take", b.Ident("g"), b.Int("5")))))
	out := emitProgram(t, b)

	require.Contains(t, out, "%struct.main.E = type <{}>\n")
	require.Contains(t, out, "define i32 @main.take$N6main.E_i32(i32 %p1) {\nentry:\n"+
		"  %l1 = alloca i32, align 4\n"+
		"  store i32 %p1, ptr %l1\n")
	require.Contains(t, out, "call i32 @main.take$N6main.E_i32(i32 5)")
	require.NotContains(t, out, "@main.g =")
	require.NotContains(t, out, "%l0 = alloca")
}

func TestEmitFloatGlobals(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Global("d", b.Named("float64"), b.Float("0.1"))
	b.Global("s", b.Named("float32"), b.Float("0.1"))
	b.Global("f", b.Named("float32"), b.Float("1.5"))
	out := emitProgram(t, b)

	require.Contains(t, out, "@main.d = internal global double 0x3FB999999999999A, align 8\n")
	require.Contains(t, out, "@main.s = internal global float 0x3FB99999A0000000, align 4\n")
	require.Contains(t, out, "@main.f = internal global float 0x3FF8000000000000, align 4\n")
}

func TestEmitIntegerGlobals(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Global("g", b.Named("int32"), b.Unary(ast.OpNeg, b.Int("5")))
	b.Export(b.Global("h", b.Named("uint8"), b.Int("200")))
	b.ConstGlobal("k", b.Named("bool"), b.Bool(true))
	b.Global("c", b.Const(b.Named("int32")), b.Int("9"))
	out := emitProgram(t, b)

	require.Contains(t, out, "@main.g = internal global i32 -5, align 4\n")
	require.Contains(t, out, "@main.h = dso_local global i8 200, align 1\n")
	require.Contains(t, out, "@main.k = internal constant i1 true, align 1\n")
	require.Contains(t, out, "@main.c = internal constant i32 9, align 4\n")
}

func TestEmitConstantSliceGlobal(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.ConstGlobal("greeting", b.Slice(b.Const(b.Named("byte"))), b.Str("hello"))
	b.Global("empty", b.Slice(b.Named("int32")), b.Null())
	out := emitProgram(t, b)

	require.Contains(t, out, "@main.greeting = internal constant <{ ptr, i64 }> <{ ptr @.str.0, i64 5 }>, align 8\n")
	require.Contains(t, out, "@main.empty = internal global <{ ptr, i64 }> zeroinitializer, align 8\n")
	require.Contains(t, out, "@.str.0 = private unnamed_addr constant [6 x i8] c\"hello\\00\"\n")
}

func TestEmitStringPool(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Extern("puts", "", []ast.Param{b.P("s", b.Ptr(b.Const(b.Named("byte"))))}, b.Named("int32"), false)
	b.Func("main", nil, ast.NoTypeID, b.Block(
		b.Do(b.CallName("puts", b.Str("hi"))),
		b.Do(b.CallName("puts", b.Str("yo"))),
		b.Do(b.CallName("puts", b.Str("hi"))),
	))
	out := emitProgram(t, b)

	require.Equal(t, 2, strings.Count(out, "private unnamed_addr constant"))
	require.Contains(t, out, "@.str.0 = private unnamed_addr constant [3 x i8] c\"hi\\00\"\n")
	require.Contains(t, out, "@.str.1 = private unnamed_addr constant [3 x i8] c\"yo\\00\"\n")
	require.Contains(t, out, "declare i32 @puts(ptr)\n")
	require.Equal(t, 2, strings.Count(out, "call i32 @puts(ptr @.str.0)"))
	require.Contains(t, out, "call i32 @puts(ptr @.str.1)")
	require.Less(t, strings.Index(out, "declare i32 @puts"), strings.Index(out, "define void @main.main$"))
	require.Less(t, strings.Index(out, "define void @main.main$"), strings.Index(out, "@.str.0 = "))
}

func TestEmitVariadicExtern(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Extern("printf", "", []ast.Param{b.P("fmt", b.Ptr(b.Const(b.Named("byte"))))}, b.Named("int32"), true)
	b.Func("main", nil, ast.NoTypeID, b.Block(b.Do(b.CallName("printf", b.Str("%d\n"), b.Int("3")))))
	out := emitProgram(t, b)

	require.Contains(t, out, "declare i32 @printf(ptr, ...)\n")
	require.Contains(t, out, "call i32 (ptr, ...) @printf(ptr @.str.0, ")
	require.Contains(t, out, "c\"%d\\0A\\00\"")
}

func TestEmitWhileLoop(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("count", []ast.Param{b.P("n", b.Named("int32"))}, b.Named("int32"), b.Block(
		b.Var("i", b.Named("int32"), b.Int("0")),
		b.While(b.Binary(ast.OpLt, b.Ident("i"), b.Ident("n")), b.Block(
			b.Assign(b.Ident("i"), b.Binary(ast.OpAdd, b.Ident("i"), b.Int("1"))),
		)),
		b.Return(b.Ident("i")),
	))
	out := emitProgram(t, b)

	require.Contains(t, out, "  store i32 0, ptr %l1\n  br label %while.cond.1\nwhile.cond.1:\n")
	require.Contains(t, out, "  %t3 = icmp slt i32 %t1, %t2\n  br i1 %t3, label %while.body.2, label %while.end.3\n")
	require.Contains(t, out, "while.body.2:\n")
	require.Contains(t, out, "  br label %while.cond.1\nwhile.end.3:\n")
}

func TestEmitLoopBreakContinue(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("spin", []ast.Param{b.P("stop", b.Named("bool"))}, ast.NoTypeID, b.Block(
		b.Loop(b.Block(
			b.If(b.Ident("stop"), b.Block(b.Break()), ast.NoStmtID),
			b.Continue(),
		)),
	))
	out := emitProgram(t, b)

	require.Contains(t, out, "  br label %loop.body.1\nloop.body.1:\n")
	require.Contains(t, out, "if.then.3:\n  br label %loop.end.2\n")
	require.Contains(t, out, "if.end.4:\n  br label %loop.body.1\n")
	require.Contains(t, out, "loop.end.2:\n  ret void\n")
}

func TestEmitIfElseBothReturn(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("sign", []ast.Param{b.P("x", b.Named("int32"))}, b.Named("int32"), b.Block(
		b.If(b.Binary(ast.OpLt, b.Ident("x"), b.Int("0")),
			b.Block(b.Return(b.Int("1"))),
			b.Block(b.Return(b.Int("2")))),
	))
	out := emitProgram(t, b)

	require.Contains(t, out, "br i1 %t2, label %if.then.1, label %if.else.3\n")
	require.Contains(t, out, "if.then.1:\n  ret i32 1\n")
	require.Contains(t, out, "if.else.3:\n  ret i32 2\n")
	require.Contains(t, out, "if.end.2:\n  unreachable\n}")
}

func TestEmitUnlessSwapsTargets(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("f", []ast.Param{b.P("c", b.Named("bool"))}, ast.NoTypeID, b.Block(
		b.Unless(b.Ident("c"), b.Block(), ast.NoStmtID),
	))
	out := emitProgram(t, b)
	require.Contains(t, out, "br i1 %t1, label %if.end.2, label %if.then.1\n")
}

func TestEmitGoto(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("f", nil, ast.NoTypeID, b.Block(
		b.Goto("end"),
		b.Label("end"),
	))
	out := emitProgram(t, b)
	require.Contains(t, out, "entry:\n  br label %lbl.1\nlbl.1:\n  ret void\n")
}

func TestEmitShortCircuit(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("both", []ast.Param{b.P("x", b.Named("bool")), b.P("y", b.Named("bool"))}, b.Named("bool"), b.Block(
		b.Return(b.Binary(ast.OpLogAnd, b.Ident("x"), b.Ident("y"))),
	))
	b.Func("either", []ast.Param{b.P("x", b.Named("bool")), b.P("y", b.Named("bool"))}, b.Named("bool"), b.Block(
		b.Return(b.Binary(ast.OpLogOr, b.Ident("x"), b.Ident("y"))),
	))
	out := emitProgram(t, b)

	require.Contains(t, out, "  %t1 = load i1, ptr %l0\n  br i1 %t1, label %logic.rhs.1, label %logic.end.2\n")
	require.Contains(t, out, "  %t3 = phi i1 [ false, %entry ], [ %t2, %logic.rhs.1 ]\n  ret i1 %t3\n")
	require.Contains(t, out, "  br i1 %t1, label %logic.end.2, label %logic.rhs.1\n")
	require.Contains(t, out, "  %t3 = phi i1 [ true, %entry ], [ %t2, %logic.rhs.1 ]\n")
}

func TestEmitShortCircuitAfterTerminator(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("f", []ast.Param{b.P("x", b.Named("bool"))}, b.Named("bool"), b.Block(
		b.Return(b.Bool(false)),
		b.Return(b.Binary(ast.OpLogAnd, b.Bool(true), b.Ident("x"))),
	))
	out := emitProgram(t, b)

	require.Contains(t, out, "  ret i1 false\ndead.3:\n  br i1 true, label %logic.rhs.1, label %logic.end.2\n")
	require.Contains(t, out, "  %t2 = phi i1 [ false, %dead.3 ], [ %t1, %logic.rhs.1 ]\n")
	require.NotContains(t, out, "%entry ], [ %t1")
}

func TestEmitSliceConversions(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	i32 := b.Named("int32")
	cbytes := b.Slice(b.Const(b.Named("byte")))
	b.Func("view", []ast.Param{b.P("p", b.Ptr(b.Array(3, i32)))}, b.Slice(i32), b.Block(
		b.Return(b.Ident("p")),
	))
	b.Func("raw", []ast.Param{b.P("p", b.Ptr(b.Array(3, i32)))}, cbytes, b.Block(
		b.Return(b.Ident("p")),
	))
	b.Func("bytes", []ast.Param{b.P("s", b.Slice(i32))}, cbytes, b.Block(
		b.Return(b.Ident("s")),
	))
	out := emitProgram(t, b)

	// pointer to array: element count for a typed view, byte count for bytes
	require.Contains(t, out, "  %t2 = insertvalue <{ ptr, i64 }> undef, ptr %t1, 0\n"+
		"  %t3 = insertvalue <{ ptr, i64 }> %t2, i64 3, 1\n")
	require.Contains(t, out, "  %t3 = insertvalue <{ ptr, i64 }> %t2, i64 12, 1\n")

	// slice to bytes rescales the runtime length
	require.Contains(t, out, "  %t2 = extractvalue <{ ptr, i64 }> %t1, 1\n"+
		"  %t3 = mul i64 %t2, 4\n"+
		"  %t4 = insertvalue <{ ptr, i64 }> %t1, i64 %t3, 1\n")
}

func TestEmitBuiltins(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("lead", []ast.Param{b.P("x", b.Named("int32"))}, b.Named("int32"), b.Block(
		b.Return(b.Builtin("clz", b.Ident("x"))),
	))
	b.Func("rot", []ast.Param{b.P("x", b.Named("uint32")), b.P("n", b.Named("uint32"))}, b.Named("uint32"), b.Block(
		b.Return(b.Builtin("rotl", b.Ident("x"), b.Ident("n"))),
	))
	b.Func("copy", []ast.Param{
		b.P("dst", b.Ptr(b.Named("byte"))),
		b.P("src", b.Ptr(b.Const(b.Named("byte")))),
		b.P("n", b.Named("usize")),
	}, ast.NoTypeID, b.Block(
		b.Do(b.Builtin("memcpy", b.Ident("dst"), b.Ident("src"), b.Ident("n"))),
	))
	out := emitProgram(t, b)

	require.Contains(t, out, "  %t2 = call i32 @llvm.ctlz.i32(i32 %t1, i1 false)\n")
	require.Contains(t, out, "  %t3 = call i32 @llvm.fshl.i32(i32 %t1, i32 %t1, i32 %t2)\n")
	require.Contains(t, out, "  call void @llvm.memcpy.p0.p0.i64(ptr %t1, ptr %t2, i64 %t3, i1 false)\n")

	require.Contains(t, out, "declare i32 @llvm.ctlz.i32(i32, i1)\n")
	require.Contains(t, out, "declare i32 @llvm.fshl.i32(i32, i32, i32)\n")
	require.Contains(t, out, "declare void @llvm.memcpy.p0.p0.i64(ptr, ptr, i64, i1)\n")
	require.Equal(t, 1, strings.Count(out, "declare i32 @llvm.ctlz.i32"))
}

func TestEmitOverloadsAndOperators(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Struct("V", b.F("x", b.Named("int32")))
	b.Func("f", []ast.Param{b.P("x", b.Named("int32"))}, ast.NoTypeID, b.Block())
	b.Func("f", []ast.Param{b.P("x", b.Named("int64"))}, ast.NoTypeID, b.Block())
	b.Operator(ast.OpAdd, []ast.Param{b.P("a", b.Named("V")), b.P("b", b.Named("V"))}, b.Named("V"), b.Block(
		b.Return(b.Ident("a")),
	))
	out := emitProgram(t, b)

	require.Contains(t, out, "define void @main.f$i32(i32 %p0) {")
	require.Contains(t, out, "define void @main.f$i64(i64 %p0) {")
	require.Contains(t, out, "define %struct.main.V @main.op.add$N6main.V_N6main.V(%struct.main.V %p0, %struct.main.V %p1) {")
}

func TestEmitFieldOfReturnedStruct(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Struct("P", b.F("a", b.Named("int8")), b.F("b", b.Named("int32")), b.F("c", b.Named("int8")))
	b.Func("mk", nil, b.Named("P"), b.Block(
		b.Return(b.StructLit(b.Named("P"), b.Init("a", b.Int("1")), b.Init("b", b.Int("2")), b.Init("c", b.Int("3")))),
	))
	b.Func("get", nil, b.Named("int32"), b.Block(
		b.Return(b.Member(b.CallName("mk"), "b")),
	))
	out := emitProgram(t, b)

	require.Contains(t, out, "define i32 @main.get$() {\nentry:\n  %s1 = alloca %struct.main.P, align 4\n")
	require.Contains(t, out, "  %t1 = call %struct.main.P @main.mk$()\n"+
		"  store %struct.main.P %t1, ptr %s1\n"+
		"  %t2 = getelementptr inbounds i8, ptr %s1, i64 4\n"+
		"  %t3 = load i32, ptr %t2\n"+
		"  ret i32 %t3\n")
}

func TestEmitCasts(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("narrow", []ast.Param{b.P("x", b.Named("int64"))}, b.Named("int32"), b.Block(
		b.Return(b.Cast(ast.CastNarrow, b.Named("int32"), b.Ident("x"))),
	))
	b.Func("widen", []ast.Param{b.P("x", b.Named("uint8"))}, b.Named("uint32"), b.Block(
		b.Return(b.Cast(ast.CastWiden, b.Named("uint32"), b.Ident("x"))),
	))
	b.Func("tofloat", []ast.Param{b.P("x", b.Named("int32"))}, b.Named("float64"), b.Block(
		b.Return(b.Cast(ast.CastConvert, b.Named("float64"), b.Ident("x"))),
	))
	out := emitProgram(t, b)

	require.Contains(t, out, "  %t2 = trunc i64 %t1 to i32\n")
	require.Contains(t, out, "  %t2 = zext i8 %t1 to i32\n")
	require.Contains(t, out, "  %t2 = sitofp i32 %t1 to double\n")
}

func TestEmitTargetPointerWidth(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Global("s", b.Slice(b.Named("int32")), ast.NoExprID)
	b.Global("n", b.Named("usize"), b.Int("1"))
	out, err := Emit(checkFor(t, layout.I686LinuxGNU(), b), Options{})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, "target triple = \"i686-unknown-linux-gnu\"\n"))
	require.Contains(t, out, "@main.s = internal global <{ ptr, i32 }> zeroinitializer, align 4\n")
	require.Contains(t, out, "@main.n = internal global i32 1, align 4\n")
}

func TestEmitNilResult(t *testing.T) {
	out, err := Emit(nil, Options{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestFormatLLVMBytes(t *testing.T) {
	require.Equal(t, `c"\00"`, formatLLVMBytes(nil))
	require.Equal(t, `c"a\22b\5C\0A\00"`, formatLLVMBytes([]byte("a\"b\\\n")))
	require.Equal(t, `c"\FF\00"`, formatLLVMBytes([]byte{0xff}))
}

func TestSymbolQuoting(t *testing.T) {
	require.Equal(t, "main.f$i32_i64", symbol("main.f$i32_i64"))
	require.Equal(t, `"1st"`, symbol("1st"))
	require.Equal(t, `"a b"`, symbol("a b"))
	require.Equal(t, `"q\22"`, symbol(`q"`))
	require.Equal(t, `""`, symbol(""))
}

func TestResizeOp(t *testing.T) {
	require.Equal(t, "sext", resizeOp(8, 32, true))
	require.Equal(t, "zext", resizeOp(8, 32, false))
	require.Equal(t, "trunc", resizeOp(64, 32, true))
	require.Equal(t, "", resizeOp(32, 32, false))
}
