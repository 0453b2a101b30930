package instantiate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/builtins"
	"codeberg.org/saruga/gulc/internal/contract"
	"codeberg.org/saruga/gulc/internal/resolve"
	"codeberg.org/saruga/gulc/internal/session"
)

func newInstantiator() (*Instantiator, *session.Session) {
	sess := session.New()
	reg := builtins.New()
	r := resolve.New(sess, reg)
	convertible := func(from, to ast.Type) bool {
		_, ok := resolve.ImplicitConversion(from, to, reg)
		return ok
	}
	s := contract.New(sess, convertible)
	return New(sess, r, s), sess
}

// genericBox builds `struct Box<T> { var value: T }`.
func genericBox() (*ast.StructDecl, *ast.TemplateParameterDecl) {
	tp := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename}
	tp.Name = ast.Identifier{Name: "T"}

	field := &ast.VariableDecl{Type: &ast.TemplateTypenameRefType{Param: tp}}
	field.Name = ast.Identifier{Name: "value"}

	sd := &ast.StructDecl{
		TemplateParams: []*ast.TemplateParameterDecl{tp},
		Members:        []ast.Decl{field},
	}
	sd.Name = ast.Identifier{Name: "Box"}
	return sd, tp
}

func TestInstantiateSubstitutesTypenameParam(t *testing.T) {
	in, _ := newInstantiator()
	box, _ := genericBox()
	i32 := &ast.BuiltInType{Name: "i32"}

	inst, ok := in.Instantiate(box, []ast.Type{i32})
	require.True(t, ok)

	field := inst.Members[0].(*ast.VariableDecl)
	assert.Same(t, i32, field.Type)
	assert.Same(t, box, inst.OriginalDecl)
}

func TestInstantiateCachesByCanonicalArgs(t *testing.T) {
	in, _ := newInstantiator()
	box, _ := genericBox()
	i32 := &ast.BuiltInType{Name: "i32"}

	first, ok := in.Instantiate(box, []ast.Type{i32})
	require.True(t, ok)
	second, ok := in.Instantiate(box, []ast.Type{i32})
	require.True(t, ok)

	assert.Same(t, first, second)
}

func TestInstantiateDistinctArgsProduceDistinctInstantiations(t *testing.T) {
	in, _ := newInstantiator()
	box, _ := genericBox()
	i32 := &ast.BuiltInType{Name: "i32"}
	f32 := &ast.BuiltInType{Name: "f32", Floating: true}

	withI32, ok := in.Instantiate(box, []ast.Type{i32})
	require.True(t, ok)
	withF32, ok := in.Instantiate(box, []ast.Type{f32})
	require.True(t, ok)

	assert.NotSame(t, withI32, withF32)
	assert.Len(t, SortedStructInstantiations(box), 2)
}

func TestInstantiateRejectsUnsatisfiedWhereConstraint(t *testing.T) {
	in, _ := newInstantiator()

	trait := &ast.TraitType{Decl: &ast.TraitDecl{}}
	traitDecl := trait.Decl
	traitDecl.Name = ast.Identifier{Name: "Comparable"}

	tp := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename}
	tp.Name = ast.Identifier{Name: "T"}

	operand := &ast.IdentifierExpr{Name: ast.Identifier{Name: "T"}}
	operand.SetValueType(&ast.TemplateTypenameRefType{Param: tp})
	whereExpr := &ast.AsIsHasExpr{Kind: ast.CastIs, Operand: operand, Target: trait}

	sd := &ast.StructDecl{
		TemplateParams: []*ast.TemplateParameterDecl{tp},
		Conts:          []ast.Cont{&ast.WhereCont{Expr: whereExpr}},
	}
	sd.Name = ast.Identifier{Name: "Sorter"}

	i32 := &ast.BuiltInType{Name: "i32"}
	_, ok := in.Instantiate(sd, []ast.Type{i32})
	assert.False(t, ok)
	assert.Empty(t, sd.TemplateInstantiations)
}

func TestInstantiateAcceptsSatisfiedWhereConstraint(t *testing.T) {
	in, _ := newInstantiator()

	trait := &ast.TraitType{Decl: &ast.TraitDecl{}}
	traitDecl := trait.Decl
	traitDecl.Name = ast.Identifier{Name: "Comparable"}

	argStruct := &ast.StructDecl{Inherits: []ast.Type{trait}}
	argStruct.Name = ast.Identifier{Name: "Money"}
	argType := &ast.StructType{Decl: argStruct}

	tp := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename}
	tp.Name = ast.Identifier{Name: "T"}

	operand := &ast.IdentifierExpr{Name: ast.Identifier{Name: "T"}}
	operand.SetValueType(&ast.TemplateTypenameRefType{Param: tp})
	whereExpr := &ast.AsIsHasExpr{Kind: ast.CastIs, Operand: operand, Target: trait}

	sd := &ast.StructDecl{
		TemplateParams: []*ast.TemplateParameterDecl{tp},
		Conts:          []ast.Cont{&ast.WhereCont{Expr: whereExpr}},
	}
	sd.Name = ast.Identifier{Name: "Sorter"}

	_, ok := in.Instantiate(sd, []ast.Type{argType})
	assert.True(t, ok)
}

func TestInstantiateNestedTemplateLeavesOuterParamUnsubstituted(t *testing.T) {
	in, _ := newInstantiator()

	outerT := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename}
	outerT.Name = ast.Identifier{Name: "Outer"}

	innerU := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename}
	innerU.Name = ast.Identifier{Name: "Inner"}

	innerField := &ast.VariableDecl{Type: &ast.TemplateTypenameRefType{Param: innerU}}
	innerField.Name = ast.Identifier{Name: "value"}
	innerStruct := &ast.StructDecl{
		TemplateParams: []*ast.TemplateParameterDecl{innerU},
		Members:        []ast.Decl{innerField},
	}
	innerStruct.Name = ast.Identifier{Name: "Inner"}

	outerField := &ast.VariableDecl{Type: &ast.TemplateTypenameRefType{Param: outerT}}
	outerField.Name = ast.Identifier{Name: "value"}
	outer := &ast.StructDecl{
		TemplateParams: []*ast.TemplateParameterDecl{outerT},
		Members:        []ast.Decl{outerField, innerStruct},
	}
	outer.Name = ast.Identifier{Name: "Outer"}

	i32 := &ast.BuiltInType{Name: "i32"}
	inst, ok := in.Instantiate(outer, []ast.Type{i32})
	require.True(t, ok)

	field := inst.Members[0].(*ast.VariableDecl)
	assert.Same(t, i32, field.Type)

	copiedInner := inst.Members[1].(*ast.StructDecl)
	innerFieldCopy := copiedInner.Members[0].(*ast.VariableDecl)
	ref, isRef := innerFieldCopy.Type.(*ast.TemplateTypenameRefType)
	require.True(t, isRef, "Inner's own parameter must stay unsubstituted by Outer's instantiation")
	assert.Same(t, innerU, ref.Param)
}

func TestInstantiateSubstitutesConstTemplateArg(t *testing.T) {
	in, _ := newInstantiator()

	cp := &ast.TemplateParameterDecl{Kind: ast.TemplateParamConst}
	cp.Name = ast.Identifier{Name: "N"}

	body := []ast.Stmt{
		&ast.ReturnStmt{Value: &ast.TemplateConstRefExpr{Param: cp}},
	}
	fn := &ast.FunctionDecl{TemplateParams: []*ast.TemplateParameterDecl{cp}, Body: body}
	fn.Name = ast.Identifier{Name: "length"}

	lit := &ast.LiteralExpr{Kind: ast.LitInt, Text: "4"}
	instFn, ok := in.InstantiateFunction(fn, []ast.Type{&ast.ConstArgType{Value: lit}})
	require.True(t, ok)

	ret := instFn.Body[0].(*ast.ReturnStmt)
	retLit, ok := ret.Value.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, "4", retLit.Text)
}
