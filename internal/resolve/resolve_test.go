package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/builtins"
	"codeberg.org/saruga/gulc/internal/session"
)

func TestResolveBuiltin(t *testing.T) {
	sess := session.New()
	r := New(sess, builtins.New())
	u := &ast.UnresolvedType{Name: ast.Identifier{Name: "i32"}}
	got := r.ResolveType(u)
	bt, ok := got.(*ast.BuiltInType)
	require.True(t, ok)
	assert.Equal(t, "i32", bt.Name)
}

func TestResolveBoolAndSelf(t *testing.T) {
	sess := session.New()
	r := New(sess, builtins.New())
	_, ok := r.ResolveType(&ast.UnresolvedType{Name: ast.Identifier{Name: "bool"}}).(*ast.BoolType)
	assert.True(t, ok)
	_, ok = r.ResolveType(&ast.UnresolvedType{Name: ast.Identifier{Name: "Self"}}).(*ast.SelfType)
	assert.True(t, ok)
}

func TestResolveFileScopeStruct(t *testing.T) {
	sd := &ast.StructDecl{}
	sd.Name = ast.Identifier{Name: "Widget"}

	sess := session.New()
	r := New(sess, builtins.New())
	r.FileDecls = []ast.Decl{sd}

	got := r.ResolveType(&ast.UnresolvedType{Name: ast.Identifier{Name: "Widget"}})
	st, ok := got.(*ast.StructType)
	require.True(t, ok)
	assert.Same(t, sd, st.Decl)
}

func TestResolveUnknownNameIsFatal(t *testing.T) {
	sess := session.New()
	r := New(sess, builtins.New())
	u := &ast.UnresolvedType{Name: ast.Identifier{Name: "Nope"}}
	u.Range.File = "a.gul"
	r.ResolveType(u)
	assert.True(t, sess.Diags.HasErrors())
}

func TestResolveAmbiguousAcrossImports(t *testing.T) {
	a := &ast.StructDecl{}
	a.Name = ast.Identifier{Name: "Shared"}
	b := &ast.StructDecl{}
	b.Name = ast.Identifier{Name: "Shared"}

	impA := &ast.ImportDecl{Resolved: &ast.NamespaceDecl{Members: []ast.Decl{a}}}
	impB := &ast.ImportDecl{Resolved: &ast.NamespaceDecl{Members: []ast.Decl{b}}}

	sess := session.New()
	r := New(sess, builtins.New())
	r.Imports = []*ast.ImportDecl{impA, impB}

	u := &ast.UnresolvedType{Name: ast.Identifier{Name: "Shared"}}
	u.Range.File = "a.gul"
	r.ResolveType(u)
	assert.True(t, sess.Diags.HasErrors())
}

func TestResolveTemplateTypenameFromParamStack(t *testing.T) {
	tp := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename}
	tp.Name = ast.Identifier{Name: "T"}

	sess := session.New()
	restore := sess.PushTemplateParams([]*ast.TemplateParameterDecl{tp})
	defer restore()

	r := New(sess, builtins.New())
	got := r.ResolveType(&ast.UnresolvedType{Name: ast.Identifier{Name: "T"}})
	ref, ok := got.(*ast.TemplateTypenameRefType)
	require.True(t, ok)
	assert.Same(t, tp, ref.Param)
}

func TestResolveTemplateArgMismatchDefersAsTemplated(t *testing.T) {
	tp := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename}
	sd := &ast.StructDecl{TemplateParams: []*ast.TemplateParameterDecl{tp}}
	sd.Name = ast.Identifier{Name: "List"}

	sess := session.New()
	r := New(sess, builtins.New())
	r.FileDecls = []ast.Decl{sd}

	got := r.ResolveType(&ast.UnresolvedType{Name: ast.Identifier{Name: "List"}})
	_, ok := got.(*ast.TemplatedType)
	require.True(t, ok)
}

func TestDependentWrappingForMemberOfTemplate(t *testing.T) {
	tp := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename}
	tp.Name = ast.Identifier{Name: "T"}
	inner := &ast.StructDecl{}
	inner.Name = ast.Identifier{Name: "Node"}
	outer := &ast.StructDecl{TemplateParams: []*ast.TemplateParameterDecl{tp}, Members: []ast.Decl{inner}}
	outer.Name = ast.Identifier{Name: "List"}
	inner.Common().Container = outer
	inner.Common().ContainedInTemplate = true
	inner.Common().ContainerTemplateType = &ast.TemplateStructType{Decl: outer, Args: []ast.Type{&ast.TemplateTypenameRefType{Param: tp}}}

	sess := session.New()
	restore := sess.PushContainer(outer)
	defer restore()

	r := New(sess, builtins.New())
	got := r.ResolveType(&ast.UnresolvedType{Name: ast.Identifier{Name: "Node"}})
	_, ok := got.(*ast.DependentType)
	assert.True(t, ok)
}

func TestImplicitNumericWidening(t *testing.T) {
	reg := builtins.New()
	i8 := reg.Lookup("i8")
	i32 := reg.Lookup("i32")
	conv, ok := ImplicitConversion(i8, i32, reg)
	require.True(t, ok)
	assert.Equal(t, ConvNumericWiden, conv.Kind)
}

func TestImplicitIntToFloat(t *testing.T) {
	reg := builtins.New()
	i32 := reg.Lookup("i32")
	f32 := reg.Lookup("f32")
	conv, ok := ImplicitConversion(i32, f32, reg)
	require.True(t, ok)
	assert.Equal(t, ConvIntToFloat, conv.Kind)
}

func TestNoImplicitFloatToInt(t *testing.T) {
	reg := builtins.New()
	f32 := reg.Lookup("f32")
	i32 := reg.Lookup("i32")
	_, ok := ImplicitConversion(f32, i32, reg)
	assert.False(t, ok)
}

func TestImplicitSignedUnsignedSameWidth(t *testing.T) {
	reg := builtins.New()
	i32 := reg.Lookup("i32")
	u32 := reg.Lookup("u32")
	conv, ok := ImplicitConversion(i32, u32, reg)
	require.True(t, ok)
	assert.Equal(t, 2, conv.Distance)
}

func TestNoImplicitIntegerNarrowing(t *testing.T) {
	reg := builtins.New()
	i32 := reg.Lookup("i32")
	i8 := reg.Lookup("i8")
	_, ok := ImplicitConversion(i32, i8, reg)
	assert.False(t, ok)
}

func TestNoImplicitNarrowingAcrossSignedness(t *testing.T) {
	reg := builtins.New()
	i32 := reg.Lookup("i32")
	u8 := reg.Lookup("u8")
	_, ok := ImplicitConversion(i32, u8, reg)
	assert.False(t, ok)
}

func TestStructUpcastConversion(t *testing.T) {
	base := &ast.StructType{Decl: &ast.StructDecl{}}
	derivedDecl := &ast.StructDecl{Inherits: []ast.Type{base}}
	derived := &ast.StructType{Decl: derivedDecl}

	reg := builtins.New()
	conv, ok := ImplicitConversion(derived, base, reg)
	require.True(t, ok)
	assert.Equal(t, ConvStructUpcast, conv.Kind)
}
