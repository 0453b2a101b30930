package overload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/builtins"
	"codeberg.org/saruga/gulc/internal/resolve"
)

func param(label string, t ast.Type, def ast.Expr) *ast.ParameterDecl {
	p := &ast.ParameterDecl{Label: ast.Identifier{Name: label}, Type: t, Default: def}
	p.Name = ast.Identifier{Name: label}
	return p
}

func arg(label string, t ast.Type) ast.CallArg {
	lit := &ast.LiteralExpr{Kind: ast.LitInt, Text: "0"}
	lit.SetValueType(t)
	var l *ast.Identifier
	if label != "" {
		l = &ast.Identifier{Name: label}
	}
	return ast.CallArg{Label: l, Value: lit}
}

func TestCompareFunctionsExactAndDifferent(t *testing.T) {
	i32 := &ast.BuiltInType{Name: "i32"}
	f1 := Signature{Name: "f", Params: []*ast.ParameterDecl{param("a", i32, nil)}}
	f2 := Signature{Name: "f", Params: []*ast.ParameterDecl{param("a", i32, nil)}}
	assert.Equal(t, Exact, CompareFunctions(f1, f2, false))

	f3 := Signature{Name: "g", Params: nil}
	assert.Equal(t, Different, CompareFunctions(f1, f3, false))
}

func TestCompareFunctionsSimilarUnderDefaults(t *testing.T) {
	i32 := &ast.BuiltInType{Name: "i32"}
	defExpr := &ast.LiteralExpr{Kind: ast.LitInt, Text: "1"}
	short := Signature{Name: "f", Params: []*ast.ParameterDecl{param("a", i32, nil)}}
	long := Signature{Name: "f", Params: []*ast.ParameterDecl{param("a", i32, nil), param("b", i32, defExpr)}}
	assert.Equal(t, Similar, CompareFunctions(short, long, true))
	assert.Equal(t, Different, CompareFunctions(short, long, false))
}

func TestCompareArgumentsToParametersMatch(t *testing.T) {
	i32 := &ast.BuiltInType{Name: "i32"}
	params := []*ast.ParameterDecl{param("a", i32, nil)}
	args := []ast.CallArg{arg("a", i32)}
	result := CompareArgumentsToParameters(params, args, nil)
	assert.Equal(t, Match, result)
}

func TestCompareArgumentsToParametersCastable(t *testing.T) {
	reg := builtins.New()
	i8 := reg.Lookup("i8")
	i32 := reg.Lookup("i32")
	params := []*ast.ParameterDecl{param("a", i32, nil)}
	args := []ast.CallArg{arg("a", i8)}
	convertible := func(from, to ast.Type) bool {
		_, ok := resolve.ImplicitConversion(from, to, reg)
		return ok
	}
	result := CompareArgumentsToParameters(params, args, convertible)
	assert.Equal(t, Castable, result)
}

func TestCompareArgumentsToParametersDefaultValues(t *testing.T) {
	i32 := &ast.BuiltInType{Name: "i32"}
	defExpr := &ast.LiteralExpr{Kind: ast.LitInt, Text: "1"}
	params := []*ast.ParameterDecl{param("a", i32, nil), param("b", i32, defExpr)}
	args := []ast.CallArg{arg("a", i32)}
	result := CompareArgumentsToParameters(params, args, nil)
	assert.Equal(t, DefaultValues, result)
}

func TestCompareArgumentsToParametersFailsOnLabelMismatch(t *testing.T) {
	i32 := &ast.BuiltInType{Name: "i32"}
	params := []*ast.ParameterDecl{param("a", i32, nil)}
	args := []ast.CallArg{arg("wrong", i32)}
	result := CompareArgumentsToParameters(params, args, nil)
	assert.Equal(t, Fail, result)
}

func TestSelectPrefersMatchOverCastable(t *testing.T) {
	winner, ok := Select([]Candidate{
		{Decl: &ast.FunctionDecl{}, Result: Castable},
		{Decl: &ast.FunctionDecl{}, Result: Match},
	})
	require.True(t, ok)
	assert.Equal(t, Match, winner.Result)
}

func TestSelectAmbiguousOnResidualTie(t *testing.T) {
	_, ok := Select([]Candidate{
		{Decl: &ast.FunctionDecl{}, Result: Match, TemplateSpecialization: 1},
		{Decl: &ast.FunctionDecl{}, Result: Match, TemplateSpecialization: 1},
	})
	assert.False(t, ok)
}

func TestSelectBreaksTiesBySpecializationStrength(t *testing.T) {
	specific := Candidate{Decl: &ast.FunctionDecl{}, Result: Match, TemplateSpecialization: 0}
	generic := Candidate{Decl: &ast.FunctionDecl{}, Result: Match, TemplateSpecialization: 3}
	winner, ok := Select([]Candidate{generic, specific})
	require.True(t, ok)
	assert.Same(t, specific.Decl, winner.Decl)
}

func TestCompareTemplateArgumentsToParametersSpecialization(t *testing.T) {
	base := &ast.StructType{Decl: &ast.StructDecl{}}
	derivedDecl := &ast.StructDecl{Inherits: []ast.Type{base}}
	derived := &ast.StructType{Decl: derivedDecl}

	tp := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename, Constraints: []ast.Type{base}}
	matches := CompareTemplateArgumentsToParameters([]*ast.TemplateParameterDecl{tp}, []ast.Type{derived})
	require.Len(t, matches, 1)
	assert.Equal(t, Match, matches[0].Result)
	assert.Equal(t, 1, matches[0].Specialization)
}

func TestCallableViaCallOperator(t *testing.T) {
	i32 := &ast.BuiltInType{Name: "i32"}
	call := &ast.CallOperatorDecl{Params: []*ast.ParameterDecl{param("a", i32, nil)}}
	sd := &ast.StructDecl{Members: []ast.Decl{call}}
	st := &ast.StructType{Decl: sd}

	decl, result := CallableViaCall(st, []ast.CallArg{arg("a", i32)}, nil)
	require.NotNil(t, decl)
	assert.Equal(t, Match, result)
	assert.Same(t, call, decl)
}
