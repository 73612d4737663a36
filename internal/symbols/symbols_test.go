package symbols

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/types"
)

func register(t *testing.T, b *ast.Builder) (*Table, error) {
	t.Helper()
	return Register(b.Prog, types.NewInterner(nil))
}

func faultCode(t *testing.T, err error) diag.Code {
	t.Helper()
	var de *diag.Error
	require.True(t, errors.As(err, &de), "expected *diag.Error, got %v", err)
	return de.Code()
}

func TestRegisterGroupsOverloads(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	i32 := b.Named("int32")
	i64 := b.Named("int64")
	b.Func("f", []ast.Param{b.P("x", i32)}, ast.NoTypeID, b.Block())
	b.Func("f", []ast.Param{b.P("x", i64)}, ast.NoTypeID, b.Block())
	b.Struct("Point", b.F("x", i32))
	b.Extern("puts", "puts", []ast.Param{b.P("s", b.Ptr(b.Named("byte")))}, i32, false)

	tbl, err := register(t, b)
	require.NoError(t, err)

	mod := tbl.Module(1)
	require.Len(t, mod.Decls, 3, "set f, struct Point, set puts")

	fid, ok := mod.Member(tbl.Strings.Intern("f"))
	require.True(t, ok)
	set := tbl.Decl(fid)
	require.Equal(t, DeclOverloadSet, set.Kind)
	require.Len(t, set.Members, 2)
	for _, m := range set.Members {
		require.Equal(t, fid, tbl.Decl(m).Set)
	}

	pid, _ := mod.Member(tbl.Strings.Intern("Point"))
	require.NotEqual(t, types.NoTypeID, tbl.Decl(pid).Type, "struct types are registered eagerly")

	puts, _ := mod.Member(tbl.Strings.Intern("puts"))
	ext := tbl.Decl(tbl.Decl(puts).Members[0])
	require.True(t, ext.Extern)
	require.Equal(t, "puts", ext.LinkName)
	require.Equal(t, "main::puts", tbl.QualifiedName(puts))
}

func TestRegisterRedefinitions(t *testing.T) {
	t.Run("global twice", func(t *testing.T) {
		b := ast.NewBuilder()
		b.Module("main")
		b.Global("x", b.Named("int32"), ast.NoExprID)
		b.Global("x", b.Named("int32"), ast.NoExprID)
		_, err := register(t, b)
		require.Equal(t, diag.SemaRedefinition, faultCode(t, err))
	})
	t.Run("function named like a struct", func(t *testing.T) {
		b := ast.NewBuilder()
		b.Module("main")
		b.Struct("S")
		b.Func("S", nil, ast.NoTypeID, b.Block())
		_, err := register(t, b)
		require.Equal(t, diag.SemaRedefinition, faultCode(t, err))
	})
	t.Run("struct named like a function", func(t *testing.T) {
		b := ast.NewBuilder()
		b.Module("main")
		b.Func("S", nil, ast.NoTypeID, b.Block())
		b.Struct("S")
		_, err := register(t, b)
		require.Equal(t, diag.SemaRedefinition, faultCode(t, err))
	})
	t.Run("module twice", func(t *testing.T) {
		b := ast.NewBuilder()
		b.Module("main")
		b.Module("main")
		_, err := register(t, b)
		require.Equal(t, diag.SemaRedefinition, faultCode(t, err))
	})
	t.Run("unknown import", func(t *testing.T) {
		b := ast.NewBuilder()
		b.Module("main", "nowhere")
		_, err := register(t, b)
		require.Equal(t, diag.SemaUnknownSymbol, faultCode(t, err))
	})
	t.Run("operator arity", func(t *testing.T) {
		b := ast.NewBuilder()
		b.Module("main")
		s := b.Named("S")
		b.Struct("S")
		b.Operator(ast.OpAdd, []ast.Param{b.P("a", s)}, s, b.Block())
		_, err := register(t, b)
		require.Equal(t, diag.SemaInvalidOperand, faultCode(t, err))
	})
}

func TestLookupVisibility(t *testing.T) {
	b := ast.NewBuilder()
	i32 := b.Named("int32")
	b.Module("a")
	b.Export(b.Func("f", []ast.Param{b.P("x", i32)}, ast.NoTypeID, b.Block()))
	b.Func("f", []ast.Param{b.P("x", b.Named("int64"))}, ast.NoTypeID, b.Block())
	b.Export(b.Global("shared", i32, ast.NoExprID))
	b.Global("hidden", i32, ast.NoExprID)
	b.Module("b")
	b.Export(b.Func("f", []ast.Param{b.P("x", b.Named("float64"))}, ast.NoTypeID, b.Block()))
	b.Export(b.Global("shared", i32, ast.NoExprID))
	b.Module("main", "a", "b")

	tbl, err := register(t, b)
	require.NoError(t, err)
	main, _ := tbl.ModuleByName(tbl.Strings.Intern("main"))
	modA, _ := tbl.ModuleByName(tbl.Strings.Intern("a"))
	s := tbl.Strings.Intern

	found, err := tbl.Lookup(main, source.NoStringID, s("f"), source.Span{})
	require.NoError(t, err)
	require.Len(t, found.Funcs, 2, "exported members of a::f and b::f merge")

	_, err = tbl.Lookup(main, source.NoStringID, s("shared"), source.Span{})
	require.Equal(t, diag.SemaAmbiguousSymbol, faultCode(t, err))

	found, err = tbl.Lookup(main, s("a"), s("shared"), source.Span{})
	require.NoError(t, err)
	require.True(t, found.Decl.IsValid())

	_, err = tbl.Lookup(main, s("a"), s("hidden"), source.Span{})
	require.Equal(t, diag.SemaUnknownSymbol, faultCode(t, err))

	found, err = tbl.Lookup(modA, source.NoStringID, s("f"), source.Span{})
	require.NoError(t, err)
	require.Len(t, found.Funcs, 2, "a sees its own private overload")

	_, err = tbl.Lookup(modA, s("b"), s("f"), source.Span{})
	require.Equal(t, diag.SemaUnknownSymbol, faultCode(t, err), "b is not imported by a")
}
