package declcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/session"
)

func newProgram(files map[string][]ast.Decl) *Program {
	prog := &Program{Files: files}
	for f := range files {
		prog.Order = append(prog.Order, f)
	}
	return prog
}

func varDecl(name string) *ast.VariableDecl {
	d := &ast.VariableDecl{}
	d.Name = ast.Identifier{Name: name}
	return d
}

func TestImportResolvesAgainstMergedNamespace(t *testing.T) {
	io := &ast.FunctionDecl{}
	io.Name = ast.Identifier{Name: "readLine"}
	ns := &ast.NamespaceDecl{Members: []ast.Decl{io}}
	ns.Name = ast.Identifier{Name: "io"}

	imp := &ast.ImportDecl{Path: []ast.Identifier{{Name: "io"}}}
	imp.Name = ast.Identifier{Name: "_"}

	sess := session.New()
	prog := newProgram(map[string][]ast.Decl{
		"a.gul": {ns},
		"b.gul": {imp},
	})
	c := New(sess, prog)
	ok := c.Run()
	require.True(t, ok, sess.Diags.Format())
	require.NotNil(t, imp.Resolved)
	assert.Equal(t, "io", imp.Resolved.Name.Name)
}

func TestUnresolvedImportIsFatal(t *testing.T) {
	imp := &ast.ImportDecl{Path: []ast.Identifier{{Name: "nope"}}}
	imp.Name = ast.Identifier{Name: "_"}

	sess := session.New()
	prog := newProgram(map[string][]ast.Decl{"a.gul": {imp}})
	c := New(sess, prog)
	ok := c.Run()
	assert.False(t, ok)
	assert.True(t, sess.Diags.HasErrors())
}

func TestRedefinitionOfTwoVariablesIsRejected(t *testing.T) {
	a := varDecl("x")
	b := varDecl("x")
	sess := session.New()
	prog := newProgram(map[string][]ast.Decl{"a.gul": {a, b}})
	c := New(sess, prog)
	ok := c.Run()
	assert.False(t, ok)
}

func TestDistinctFunctionOverloadsDoNotCollide(t *testing.T) {
	f1 := &ast.FunctionDecl{Params: []*ast.ParameterDecl{}}
	f1.Name = ast.Identifier{Name: "f"}
	f2 := &ast.FunctionDecl{Params: []*ast.ParameterDecl{{}}}
	f2.Name = ast.Identifier{Name: "f"}
	sess := session.New()
	prog := newProgram(map[string][]ast.Decl{"a.gul": {f1, f2}})
	c := New(sess, prog)
	ok := c.Run()
	assert.True(t, ok, sess.Diags.Format())
}

func TestStaticStructCannotHaveConstructor(t *testing.T) {
	ctor := &ast.ConstructorDecl{}
	ctor.Name = ast.Identifier{Name: "init"}
	ctor.Body = []ast.Stmt{}
	sd := &ast.StructDecl{Members: []ast.Decl{ctor}}
	sd.Name = ast.Identifier{Name: "S"}
	sd.Modifiers = ast.ModStatic

	sess := session.New()
	prog := newProgram(map[string][]ast.Decl{"a.gul": {sd}})
	c := New(sess, prog)
	ok := c.Run()
	assert.False(t, ok)
}

func TestTraitCannotContainInstanceData(t *testing.T) {
	v := varDecl("count")
	td := &ast.TraitDecl{Members: []ast.Decl{v}}
	td.Name = ast.Identifier{Name: "Countable"}

	sess := session.New()
	prog := newProgram(map[string][]ast.Decl{"a.gul": {td}})
	c := New(sess, prog)
	ok := c.Run()
	assert.False(t, ok)
}

func TestTemplateStructSetsContainerTemplateTypeOnMembers(t *testing.T) {
	tp := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename}
	tp.Name = ast.Identifier{Name: "T"}
	v := varDecl("value")
	sd := &ast.StructDecl{Members: []ast.Decl{v}, TemplateParams: []*ast.TemplateParameterDecl{tp}}
	sd.Name = ast.Identifier{Name: "Box"}

	sess := session.New()
	prog := newProgram(map[string][]ast.Decl{"a.gul": {sd}})
	c := New(sess, prog)
	ok := c.Run()
	require.True(t, ok, sess.Diags.Format())
	assert.True(t, v.Common().ContainedInTemplate)
	require.NotNil(t, v.Common().ContainerTemplateType)
	assert.Same(t, sd, v.Common().Container)
}
