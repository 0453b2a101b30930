package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/diagnostic"
)

func parseOk(t *testing.T, src string) []ast.Decl {
	t.Helper()
	diags := diagnostic.NewList()
	p := New("t.gul", src, diags)
	decls := p.ParseFile()
	require.False(t, diags.HasErrors(), "unexpected parse errors: %s", diags.Format())
	return decls
}

func TestParseImportWithAlias(t *testing.T) {
	decls := parseOk(t, `import std.io as io;`)
	require.Len(t, decls, 1)
	imp, ok := decls[0].(*ast.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"std", "io"}, identNames(imp.Path))
	require.NotNil(t, imp.Alias)
	assert.Equal(t, "io", imp.Alias.Name)
}

func identNames(ids []ast.Identifier) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return names
}

func TestParseTemplateStruct(t *testing.T) {
	decls := parseOk(t, `struct box<T: View> { var value: T; }`)
	require.Len(t, decls, 1)
	sd, ok := decls[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "box", sd.Name.Name)
	require.Len(t, sd.TemplateParams, 1)
	assert.Equal(t, "T", sd.TemplateParams[0].Name.Name)
	require.Len(t, sd.TemplateParams[0].Constraints, 1)
	require.Len(t, sd.Members, 1)
}

func TestParseNestedTemplateArgsRightShift(t *testing.T) {
	decls := parseOk(t, `struct Holder { var items: List<List<T>>; }`)
	require.Len(t, decls, 1)
}

func TestParseFunctionWithContracts(t *testing.T) {
	decls := parseOk(t, `func divide(val a: i32, val b: i32) -> i32 requires b where a : i32 { return a; }`)
	require.Len(t, decls, 1)
	fd, ok := decls[0].(*ast.FunctionDecl)
	require.True(t, ok)
	require.Len(t, fd.Params, 2)
	assert.NotEmpty(t, fd.Conts)
}

func TestParseHasExpression(t *testing.T) {
	decls := parseOk(t, `func check() -> bool { return i32 has func parse(_ s: string) -> i32; }`)
	require.Len(t, decls, 1)
}

func TestParseClassWithVirtualDeinit(t *testing.T) {
	decls := parseOk(t, `class Widget { virtual deinit {} }`)
	require.Len(t, decls, 1)
	sd, ok := decls[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, ast.KindClass, sd.Kind)
	require.Len(t, sd.Members, 1)
	dd, ok := sd.Members[0].(*ast.DestructorDecl)
	require.True(t, ok)
	assert.True(t, dd.Modifiers.Has(ast.ModVirtual))
}

func TestParseSubscriptGetSet(t *testing.T) {
	decls := parseOk(t, `struct Arr { subscript(val i: i32) -> i32 { get { return i; } set {} } }`)
	require.Len(t, decls, 1)
	sd := decls[0].(*ast.StructDecl)
	sub := sd.Members[0].(*ast.SubscriptOperatorDecl)
	require.NotNil(t, sub.Get)
	require.NotNil(t, sub.Set)
}

func TestFloatVsMemberAccessInParser(t *testing.T) {
	decls := parseOk(t, `func f() { 1.toString(); }`)
	require.Len(t, decls, 1)
}
