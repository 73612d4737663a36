package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ember/internal/ast"
	"ember/internal/diag"
)

func TestCyclicStructRejected(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Struct("A", b.F("a", b.Named("A")))

	_, err := check(t, b)
	de := requireFault(t, err, diag.SemaCyclicDependency)
	require.Contains(t, de.Error(), "main::A -> main::A")
}

func TestMutualCycleThroughArray(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Struct("A", b.F("b", b.Array(2, b.Named("B"))))
	b.Struct("B", b.F("a", b.Tuple(b.Named("int8"), b.Named("A"))))

	_, err := check(t, b)
	de := requireFault(t, err, diag.SemaCyclicDependency)
	require.Contains(t, de.Error(), "main::A -> main::B -> main::A")
	require.Len(t, de.Diag.Notes, 1)
}

func TestPointerBreaksCycle(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Struct("Node", b.F("value", b.Named("int32")), b.F("next", b.NullablePtr(b.Named("Node"))))
	b.Struct("List", b.F("items", b.Slice(b.Named("List"))), b.F("len", b.Named("usize")))

	res := mustCheck(t, b)
	node := res.Table.Decl(onlyDecl(t, res, "main::Node"))
	l, err := res.Layout.LayoutOf(node.Type)
	require.NoError(t, err)
	require.Equal(t, 16, l.Size)
	require.Equal(t, []int{0, 8}, l.FieldOffsets)
}

func TestStructAcrossModules(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("geom")
	b.Export(b.Struct("P", b.F("x", b.Named("int8")), b.F("y", b.Named("int32")), b.F("z", b.Named("int8"))))
	b.Module("main", "geom")
	b.Struct("Q", b.F("p", b.Qualified("geom", "P")), b.F("tag", b.Named("bool")))

	res := mustCheck(t, b)
	q := res.Table.Decl(onlyDecl(t, res, "main::Q"))
	l, err := res.Layout.LayoutOf(q.Type)
	require.NoError(t, err)
	require.Equal(t, 16, l.Size)
	require.Equal(t, 4, l.Align)
	require.Equal(t, []int{0, 12}, l.FieldOffsets)
}

func TestUnexportedStructInvisible(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("geom")
	b.Struct("P", b.F("x", b.Named("int8")))
	b.Module("main", "geom")
	b.Struct("Q", b.F("p", b.Qualified("geom", "P")))

	_, err := check(t, b)
	require.Error(t, err)
}

func TestAliasResolution(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Alias("Bytes", b.Slice(b.Named("byte")))
	b.Func("n", []ast.Param{b.P("b", b.Named("Bytes"))}, b.Named("usize"),
		b.Block(b.Return(b.Member(b.Ident("b"), "len"))))

	res := mustCheck(t, b)
	alias := res.Table.Decl(onlyDecl(t, res, "main::Bytes"))
	in := res.Types
	require.Equal(t, in.Slice(in.Builtins().Byte), alias.Type)
}

func TestAliasCycle(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Alias("A", b.Ptr(b.Named("B")))
	b.Alias("B", b.Ptr(b.Named("A")))

	_, err := check(t, b)
	requireFault(t, err, diag.SemaCyclicDependency)
}

func TestDuplicateStructField(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Struct("P", b.F("x", b.Named("int8")), b.F("x", b.Named("int16")))

	_, err := check(t, b)
	requireFault(t, err, diag.SemaRedefinition)
}

func TestDuplicateParameter(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	i32 := b.Named("int32")
	b.Func("f", []ast.Param{b.P("x", i32), b.P("x", i32)}, ast.NoTypeID, b.Block())

	_, err := check(t, b)
	requireFault(t, err, diag.SemaRedefinition)
}

func TestValueUsedAsType(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Global("g", b.Named("int32"), b.Int("1"))
	b.Func("f", []ast.Param{b.P("x", b.Named("g"))}, ast.NoTypeID, b.Block())

	_, err := check(t, b)
	requireFault(t, err, diag.SemaUnknownSymbol)
}

func TestFunctionCannotReturnFunction(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	b.Func("f", nil, b.FuncType(nil, ast.NoTypeID, false), b.Block())

	_, err := check(t, b)
	requireFault(t, err, diag.SemaZeroSizeOperation)
}

func TestFunctionPointerInStruct(t *testing.T) {
	b := ast.NewBuilder()
	b.Module("main")
	cb := b.Ptr(b.FuncType([]ast.TypeID{b.Named("Handler")}, ast.NoTypeID, false))
	b.Struct("Handler", b.F("cb", cb), b.F("data", b.Ptr(b.Named("void"))))

	res := mustCheck(t, b)
	h := res.Table.Decl(onlyDecl(t, res, "main::Handler"))
	size, err := res.Layout.SizeOf(h.Type)
	require.NoError(t, err)
	require.Equal(t, 16, size)
}
