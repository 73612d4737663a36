package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
)

func globalInit(t *testing.T, res *Result, qname string) *hir.LiteralData {
	t.Helper()
	v, ok := res.Globals[onlyDecl(t, res, qname)]
	require.True(t, ok, "%s has no initializer", qname)
	require.Equal(t, hir.ExprLiteral, v.Kind)
	return v.Data.(*hir.LiteralData)
}

func TestGlobalInitializersFold(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	i32 := b.Named("int32")
	b.ConstGlobal("A", b.Named("int8"), b.Unary(ast.OpNeg, b.Int("128")))
	b.Global("B", i32, b.Ident("A"))
	b.Global("C", ast.NoTypeID, b.Binary(ast.OpBitOr, b.Binary(ast.OpShl, b.Int("1"), b.Int("4")), b.Int("3")))
	b.Global("D", b.Named("float32"), b.Binary(ast.OpMul, b.Float("1.5"), b.Float("2.0")))
	b.Global("E", b.Named("int8"), b.Cast(ast.CastNarrow, b.Named("int8"), b.Int("300")))
	b.Global("F", b.Named("bool"), b.Binary(ast.OpLt, b.Unary(ast.OpNeg, b.Int("1")), b.Int("2")))
	b.Global("G", b.Named("uint8"), b.Binary(ast.OpAdd, b.Int("250"), b.Int("10")))
	b.Global("H", ast.NoTypeID, b.Sizeof(b.Named("int64")))

	res := mustCheck(t, b)
	bt := res.Types.Builtins()

	require.Equal(t, uint64(0x80), globalInit(t, res, "main::A").Int)
	require.Equal(t, uint64(0xffffff80), globalInit(t, res, "main::B").Int)
	require.Equal(t, uint64(19), globalInit(t, res, "main::C").Int)
	require.Equal(t, bt.Int32, res.Table.Decl(onlyDecl(t, res, "main::C")).Type)
	require.Equal(t, 3.0, globalInit(t, res, "main::D").Float)
	require.Equal(t, uint64(44), globalInit(t, res, "main::E").Int)
	require.True(t, globalInit(t, res, "main::F").Bool)
	require.Equal(t, uint64(4), globalInit(t, res, "main::G").Int, "uint8 arithmetic wraps")
	require.Equal(t, bt.Usize, res.Table.Decl(onlyDecl(t, res, "main::H")).Type)
}

func TestGlobalWithoutInitializer(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Global("counter", b.Named("int64"), ast.NoExprID)

	res := mustCheck(t, b)
	id := onlyDecl(t, res, "main::counter")
	require.NotContains(t, res.Globals, id)
	require.Equal(t, res.Types.Builtins().Int64, res.Table.Decl(id).Type)
}

func TestGlobalNotConstant(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ast.Builder)
	}{
		{"mutable global", func(b *ast.Builder) {
			b.Global("a", b.Named("int32"), b.Int("1"))
			b.Global("c", b.Named("int32"), b.Ident("a"))
		}},
		{"division by zero", func(b *ast.Builder) {
			b.Global("c", b.Named("int32"), b.Binary(ast.OpDiv, b.Int("7"), b.Int("0")))
		}},
		{"oversized shift", func(b *ast.Builder) {
			b.Global("c", b.Named("int32"), b.Binary(ast.OpShl, b.Int("1"), b.Int("32")))
		}},
		{"call", func(b *ast.Builder) {
			b.Func("one", nil, b.Named("int32"), b.Block(b.Return(b.Int("1"))))
			b.Global("c", b.Named("int32"), b.CallName("one"))
		}},
		{"uninitialized constant", func(b *ast.Builder) {
			b.ConstGlobal("c", b.Named("int32"), ast.NoExprID)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder()
			b.Module("main")
			tt.build(b)
			_, err := check(t, b)
			requireFault(t, err, diag.SemaNotConstant)
		})
	}
}

func TestGlobalAddressIsConstant(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	i32 := b.Named("int32")
	b.Global("x", i32, b.Int("1"))
	b.Global("px", b.Ptr(i32), b.Unary(ast.OpAddr, b.Ident("x")))

	res := mustCheck(t, b)
	v := res.Globals[onlyDecl(t, res, "main::px")]
	require.Equal(t, hir.ExprAddrOf, v.Kind)
}

func TestGlobalCycle(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.ConstGlobal("a", ast.NoTypeID, b.Binary(ast.OpAdd, b.Ident("b"), b.Int("1")))
	b.ConstGlobal("b", ast.NoTypeID, b.Ident("a"))

	_, err := check(t, b)
	de := requireFault(t, err, diag.SemaCyclicDependency)
	require.Contains(t, de.Error(), "main::a -> main::b -> main::a")
}

func TestConstGlobalNotAssignable(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.ConstGlobal("k", b.Named("int32"), b.Int("1"))
	b.Func("f", nil, ast.NoTypeID, b.Block(b.Assign(b.Ident("k"), b.Int("2"))))

	_, err := check(t, b)
	requireFault(t, err, diag.SemaNotAssignable)
}

func TestConstTypedGlobal(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	i32 := b.Named("int32")
	b.Global("g", b.Const(i32), b.Int("7"))
	b.Global("h", i32, b.Binary(ast.OpAdd, b.Ident("g"), b.Int("1")))

	res := mustCheck(t, b)
	bt := res.Types.Builtins()
	require.Equal(t, res.Types.AddConst(bt.Int32), res.Table.Decl(onlyDecl(t, res, "main::g")).Type)
	require.Equal(t, uint64(8), globalInit(t, res, "main::h").Int)

	b = ast.NewBuilder()
	b.Module("main")
	b.Global("g", b.Const(b.Named("int32")), b.Int("1"))
	b.Func("f", nil, ast.NoTypeID, b.Block(b.Assign(b.Ident("g"), b.Int("2"))))

	_, err := check(t, b)
	requireFault(t, err, diag.SemaNotAssignable)
}
