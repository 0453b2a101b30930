package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/session"
)

func hasExpr(operandType ast.Type, shape *ast.HasShape) *ast.AsIsHasExpr {
	operand := &ast.LiteralExpr{Kind: ast.LitInt, Text: "0"}
	operand.SetValueType(operandType)
	return &ast.AsIsHasExpr{Kind: ast.CastHas, Operand: operand, HasShape: shape}
}

func TestFoldHasTrait(t *testing.T) {
	trait := &ast.TraitType{Decl: &ast.TraitDecl{}}
	sd := &ast.StructDecl{Inherits: []ast.Type{trait}}
	st := &ast.StructType{Decl: sd}

	s := New(session.New(), nil)
	solved := s.FoldHas(hasExpr(st, &ast.HasShape{Kind: ast.HasTrait, Trait: trait}))
	assertBool(t, true, solved)
}

func TestFoldHasInitMatches(t *testing.T) {
	i32 := &ast.BuiltInType{Name: "i32"}
	ctor := &ast.ConstructorDecl{Params: []*ast.ParameterDecl{{Label: ast.Identifier{Name: "x"}, Type: i32}}}
	sd := &ast.StructDecl{Members: []ast.Decl{ctor}}
	st := &ast.StructType{Decl: sd}

	s := New(session.New(), nil)
	shape := &ast.HasShape{Kind: ast.HasInit, Params: []*ast.ParameterDecl{{Label: ast.Identifier{Name: "x"}, Type: i32}}}
	solved := s.FoldHas(hasExpr(st, shape))
	assertBool(t, true, solved)
}

func TestFoldHasInitNoMatch(t *testing.T) {
	i32 := &ast.BuiltInType{Name: "i32"}
	sd := &ast.StructDecl{}
	st := &ast.StructType{Decl: sd}

	s := New(session.New(), nil)
	shape := &ast.HasShape{Kind: ast.HasInit, Params: []*ast.ParameterDecl{{Label: ast.Identifier{Name: "x"}, Type: i32}}}
	solved := s.FoldHas(hasExpr(st, shape))
	assertBool(t, false, solved)
}

func TestFoldHasCase(t *testing.T) {
	ec := &ast.EnumConstDecl{}
	ec.Name = ast.Identifier{Name: "Red"}
	ed := &ast.EnumDecl{Consts: []*ast.EnumConstDecl{ec}}
	et := &ast.EnumType{Decl: ed}

	s := New(session.New(), nil)
	name := ast.Identifier{Name: "Red"}
	solved := s.FoldHas(hasExpr(et, &ast.HasShape{Kind: ast.HasCase, Name: &name}))
	assertBool(t, true, solved)
}

func TestFoldHasDeinitVirtualRequiresVirtual(t *testing.T) {
	dd := &ast.DestructorDecl{}
	sd := &ast.StructDecl{Members: []ast.Decl{dd}}
	st := &ast.StructType{Decl: sd}

	s := New(session.New(), nil)
	solved := s.FoldHas(hasExpr(st, &ast.HasShape{Kind: ast.HasDeinit, Virtual: true}))
	assertBool(t, false, solved)

	dd.Modifiers = ast.ModVirtual
	solved = s.FoldHas(hasExpr(st, &ast.HasShape{Kind: ast.HasDeinit, Virtual: true}))
	assertBool(t, true, solved)
}

func TestEvaluateWhereCheckExtendsType(t *testing.T) {
	trait := &ast.TraitType{Decl: &ast.TraitDecl{}}
	sd := &ast.StructDecl{Inherits: []ast.Type{trait}}
	st := &ast.StructType{Decl: sd}

	operand := &ast.IdentifierExpr{Name: ast.Identifier{Name: "T"}}
	operand.SetValueType(st)
	expr := &ast.AsIsHasExpr{Kind: ast.CastIs, Operand: operand, Target: trait}
	w := &ast.WhereCont{Expr: expr}

	sess := session.New()
	s := New(sess, nil)
	ok := s.EvaluateWhere(w)
	assert.True(t, ok, sess.Diags.Format())
}

func TestEvaluateWhereFailsWhenNotSubtype(t *testing.T) {
	trait := &ast.TraitType{Decl: &ast.TraitDecl{}}
	sd := &ast.StructDecl{}
	st := &ast.StructType{Decl: sd}

	operand := &ast.IdentifierExpr{Name: ast.Identifier{Name: "T"}}
	operand.SetValueType(st)
	expr := &ast.AsIsHasExpr{Kind: ast.CastIs, Operand: operand, Target: trait}
	w := &ast.WhereCont{Expr: expr}

	sess := session.New()
	s := New(sess, nil)
	ok := s.EvaluateWhere(w)
	assert.False(t, ok)
	assert.True(t, sess.Diags.HasErrors())
}

func assertBool(t *testing.T, want bool, solved *ast.SolvedConstExpr) {
	t.Helper()
	lit, ok := solved.Value.(*ast.LiteralExpr)
	require.True(t, ok)
	wantText := "false"
	if want {
		wantText = "true"
	}
	assert.Equal(t, wantText, lit.Text)
}
