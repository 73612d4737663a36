package sema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/hir"
	"ember/internal/layout"
	"ember/internal/symbols"
	"ember/internal/types"
)

func check(t *testing.T, b *ast.Builder) (*Result, error) {
	t.Helper()
	in := types.NewInterner(nil)
	table, err := symbols.Register(b.Prog, in)
	require.NoError(t, err)
	return Check(context.Background(), b.Prog, table, in, layout.X86_64LinuxGNU())
}

func mustCheck(t *testing.T, b *ast.Builder) *Result {
	t.Helper()
	res, err := check(t, b)
	require.NoError(t, err)
	return res
}

func requireFault(t *testing.T, err error, code diag.Code) *diag.Error {
	t.Helper()
	require.Error(t, err)
	var de *diag.Error
	require.True(t, errors.As(err, &de), "expected *diag.Error, got %v", err)
	require.Equal(t, code, de.Code(), "got %v", err)
	return de
}

// decls returns the non-set declarations named qname in registration order.
func decls(res *Result, qname string) []symbols.DeclID {
	var out []symbols.DeclID
	for _, id := range res.Order {
		if res.Table.QualifiedName(id) == qname {
			out = append(out, id)
		}
	}
	return out
}

func onlyDecl(t *testing.T, res *Result, qname string) symbols.DeclID {
	t.Helper()
	ids := decls(res, qname)
	require.Len(t, ids, 1, "declarations named %s", qname)
	return ids[0]
}

func body(t *testing.T, res *Result, qname string) []*hir.Stmt {
	t.Helper()
	fn := res.Funcs[onlyDecl(t, res, qname)]
	require.NotNil(t, fn)
	require.Equal(t, hir.StmtBlock, fn.Body.Kind)
	return fn.Body.Data.(*hir.BlockData).Stmts
}

func returned(t *testing.T, s *hir.Stmt) *hir.Expr {
	t.Helper()
	require.Equal(t, hir.StmtReturn, s.Kind)
	v := s.Data.(*hir.ReturnData).Value
	require.NotNil(t, v)
	return v
}

func TestCheckAddProgram(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	i32 := b.Named("int32")
	b.Func("add", []ast.Param{b.P("x", i32), b.P("y", i32)}, i32,
		b.Block(b.Return(b.Binary(ast.OpAdd, b.Ident("x"), b.Ident("y")))))
	b.Func("main", nil, i32,
		b.Block(b.Return(b.CallName("add", b.Int("1"), b.Int("2")))))

	res := mustCheck(t, b)
	in := res.Types
	i32t := in.Builtins().Int32

	add := onlyDecl(t, res, "main::add")
	d := res.Table.Decl(add)
	require.Equal(t, i32t, d.Result)
	require.Len(t, d.Params, 2)
	require.Equal(t, in.Fn([]types.TypeID{i32t, i32t}, false, i32t), d.Type)

	sum := returned(t, body(t, res, "main::add")[0])
	require.Equal(t, hir.ExprBinary, sum.Kind)
	require.Equal(t, i32t, sum.Type)
	bin := sum.Data.(*hir.BinaryData)
	require.Equal(t, hir.ExprLoad, bin.X.Kind)
	require.Equal(t, hir.ExprLoad, bin.Y.Kind)

	call := returned(t, body(t, res, "main::main")[0])
	require.Equal(t, hir.ExprCall, call.Kind)
	cd := call.Data.(*hir.CallData)
	require.Equal(t, add, cd.Func)
	require.Len(t, cd.Args, 2)
	for _, a := range cd.Args {
		require.Equal(t, hir.ExprLiteral, a.Kind)
		require.Equal(t, i32t, a.Type)
	}

	fn := res.Funcs[add]
	require.Len(t, fn.Locals, 2)
	require.True(t, fn.Locals[0].Param)
}

func TestOrderSkipsOverloadSets(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	i32 := b.Named("int32")
	b.Struct("P", b.F("x", i32))
	b.Func("f", []ast.Param{b.P("x", i32)}, ast.NoTypeID, b.Block())
	b.Global("g", i32, b.Int("3"))

	res := mustCheck(t, b)
	for _, id := range res.Order {
		require.NotEqual(t, symbols.DeclOverloadSet, res.Table.Decl(id).Kind)
	}
	require.Len(t, res.Order, 3)
	require.Equal(t, symbols.DeclStruct, res.Table.Decl(res.Order[0]).Kind)
	require.Equal(t, symbols.DeclFunc, res.Table.Decl(res.Order[1]).Kind)
	require.Equal(t, symbols.DeclGlobal, res.Table.Decl(res.Order[2]).Kind)
}

func TestExternHasNoBody(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	i32 := b.Named("int32")
	b.Extern("puts", "puts", []ast.Param{b.P("s", b.Ptr(b.Const(b.Named("byte"))))}, i32, false)
	b.Func("main", nil, i32, b.Block(b.Return(b.CallName("puts", b.Str("hi")))))

	res := mustCheck(t, b)
	puts := onlyDecl(t, res, "main::puts")
	require.NotContains(t, res.Funcs, puts)

	call := returned(t, body(t, res, "main::main")[0])
	arg := call.Data.(*hir.CallData).Args[0]
	require.Equal(t, hir.ExprConvert, arg.Kind)
	require.Equal(t, hir.ConvPointer, arg.Data.(*hir.ConvertData).Conv)
}
