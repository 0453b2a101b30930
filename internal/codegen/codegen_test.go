package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/session"
)

func i32Type() *ast.BuiltInType {
	return &ast.BuiltInType{Name: "i32", SizeBytes: 4, Signed: true}
}

func varMember(name string, t ast.Type) *ast.VariableDecl {
	vd := &ast.VariableDecl{Type: t}
	vd.Name = ast.Identifier{Name: name}
	return vd
}

func TestComputeStructLayoutPacksFieldsAndPads(t *testing.T) {
	lc := NewLayoutComputer(8)
	decl := &ast.StructDecl{
		Members: []ast.Decl{
			varMember("a", &ast.BoolType{}),
			varMember("b", i32Type()),
		},
	}
	decl.Name = ast.Identifier{Name: "Point"}

	layout := lc.ComputeStructLayout(decl)
	require.Len(t, layout.Fields, 2)
	assert.Equal(t, 0, layout.Fields[0].Offset)
	assert.Equal(t, 4, layout.Fields[1].Offset) // padded up to i32's alignment
	assert.Equal(t, 4, layout.Alignment)
	assert.Equal(t, 8, layout.Size) // tail-padded to alignment
}

func TestComputeEmbeddedLayoutIsUnpadded(t *testing.T) {
	lc := NewLayoutComputer(8)
	decl := &ast.StructDecl{
		Members: []ast.Decl{
			varMember("a", &ast.BoolType{}),
			varMember("b", i32Type()),
		},
	}
	decl.Name = ast.Identifier{Name: "Point"}

	full := lc.ComputeStructLayout(decl)
	embedded := lc.ComputeEmbeddedLayout(decl)
	assert.Equal(t, 8, full.Size)
	assert.Equal(t, 8, embedded.Size) // last field ends exactly at 8 here, same as padded
}

func TestComputeStructLayoutEmbedsBaseAtOffsetZero(t *testing.T) {
	lc := NewLayoutComputer(8)
	base := &ast.StructDecl{Members: []ast.Decl{varMember("x", i32Type())}}
	base.Name = ast.Identifier{Name: "Base"}

	derived := &ast.StructDecl{
		Inherits: []ast.Type{&ast.StructType{Decl: base}},
		Members:  []ast.Decl{varMember("y", i32Type())},
	}
	derived.Name = ast.Identifier{Name: "Derived"}

	layout := lc.ComputeStructLayout(derived)
	require.NotNil(t, layout.BaseLayout)
	require.Len(t, layout.Fields, 1)
	assert.Equal(t, 4, layout.Fields[0].Offset) // right after base's 4-byte field
}

func virtualFunc(name string, override bool) *ast.FunctionDecl {
	fd := &ast.FunctionDecl{Body: []ast.Stmt{}}
	fd.Name = ast.Identifier{Name: name}
	if override {
		fd.Modifiers = ast.ModOverride
	} else {
		fd.Modifiers = ast.ModVirtual
	}
	return fd
}

func TestBuildVTableOrdersInheritedOverriddenAndNewSlots(t *testing.T) {
	base := &ast.StructDecl{Members: []ast.Decl{
		virtualFunc("speak", false),
		virtualFunc("move", false),
	}}
	base.Name = ast.Identifier{Name: "Animal"}

	overrideSpeak := virtualFunc("speak", true)
	newFly := virtualFunc("fly", false)
	derived := &ast.StructDecl{
		Inherits: []ast.Type{&ast.StructType{Decl: base}},
		Members:  []ast.Decl{overrideSpeak, newFly},
	}
	derived.Name = ast.Identifier{Name: "Bird"}

	slots := BuildVTable(derived)
	require.Len(t, slots, 3)
	assert.Equal(t, "speak", slots[0].Name)
	assert.Same(t, overrideSpeak, slots[0].Decl) // overridden in place, base slot order kept
	assert.Equal(t, "move", slots[1].Name)
	assert.Equal(t, "fly", slots[2].Name) // appended after inherited slots
	assert.Same(t, newFly, slots[2].Decl)
	assert.Len(t, derived.VTable, 3)
}

func TestPlanSretRewritesStructReturningFunctions(t *testing.T) {
	structDecl := &ast.StructDecl{}
	structDecl.Name = ast.Identifier{Name: "Vec3"}
	retType := &ast.StructType{Decl: structDecl}

	plan := PlanSret(retType, true)
	assert.True(t, plan.HasSret)
	assert.True(t, plan.HasSelf)
	assert.Equal(t, 2, plan.LeadingParamCount())

	scalarPlan := PlanSret(i32Type(), true)
	assert.False(t, scalarPlan.HasSret)
	assert.True(t, scalarPlan.HasSelf)
	assert.Equal(t, 1, scalarPlan.LeadingParamCount())
}

func TestParamIsByPointer(t *testing.T) {
	assert.False(t, ParamIsByPointer(ast.ParamVal))
	assert.True(t, ParamIsByPointer(ast.ParamIn))
	assert.True(t, ParamIsByPointer(ast.ParamOut))
	assert.True(t, ParamIsByPointer(ast.ParamInOut))
}

func TestSelectCopyConstructorPrefersUserWrittenOverCache(t *testing.T) {
	decl := &ast.StructDecl{}
	cached := &ast.ConstructorDecl{Kind: ast.CtorCopy}
	decl.CachedCopyConstructor = cached
	assert.Same(t, cached, SelectCopyConstructor(decl))

	written := &ast.ConstructorDecl{Kind: ast.CtorCopy}
	decl.Members = []ast.Decl{written}
	assert.Same(t, written, SelectCopyConstructor(decl))
}

func TestBaseConstructorCallOK(t *testing.T) {
	base := &ast.StructDecl{}
	base.Name = ast.Identifier{Name: "Base"}
	derived := &ast.StructDecl{Inherits: []ast.Type{&ast.StructType{Decl: base}}}
	derived.Name = ast.Identifier{Name: "Derived"}

	badCtor := &ast.ConstructorDecl{Body: []ast.Stmt{}}
	assert.False(t, BaseConstructorCallOK(derived, badCtor))

	goodCtor := &ast.ConstructorDecl{Body: []ast.Stmt{
		&ast.ExprStmt{Expr: &ast.ConstructorCallExpr{
			Decl:       &ast.ConstructorDecl{},
			StructType: &ast.StructType{Decl: base},
		}},
	}}
	assert.True(t, BaseConstructorCallOK(derived, goodCtor))

	// No base: trivially satisfied regardless of body.
	assert.True(t, BaseConstructorCallOK(base, badCtor))
}

func TestQualifiedNameWalksContainerChain(t *testing.T) {
	outer := &ast.StructDecl{}
	outer.Name = ast.Identifier{Name: "Outer"}
	inner := &ast.StructDecl{}
	inner.Name = ast.Identifier{Name: "Inner"}
	inner.Container = outer

	assert.Equal(t, "Outer.Inner", QualifiedName(inner))
}

func TestConstructorNameDistinguishesKinds(t *testing.T) {
	decl := &ast.StructDecl{}
	decl.Name = ast.Identifier{Name: "Widget"}

	assert.Equal(t, "Widget.init", ConstructorName(decl, &ast.ConstructorDecl{Kind: ast.CtorNormal}))
	assert.Equal(t, "Widget.init.copy", ConstructorName(decl, &ast.ConstructorDecl{Kind: ast.CtorCopy}))
	assert.Equal(t, "Widget.init.move", ConstructorName(decl, &ast.ConstructorDecl{Kind: ast.CtorMove}))
}

// --- Driver-level lowering ---

func newTestDriver() (*Driver, *TextEmitter) {
	emit := NewTextEmitter()
	d := New(emit, session.New(), TargetDescriptor{PointerSize: 8})
	return d, emit
}

func TestGenFunctionEmitsSretParamForStructReturn(t *testing.T) {
	d, emit := newTestDriver()
	vecDecl := &ast.StructDecl{Members: []ast.Decl{varMember("x", i32Type())}}
	vecDecl.Name = ast.Identifier{Name: "Vec3"}
	retType := &ast.StructType{Decl: vecDecl}

	fn := &ast.FunctionDecl{
		ReturnType: retType,
		Body: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.TemporaryValueRefExpr{Temp: &ast.VariableDecl{Type: retType}}},
		},
	}
	fn.Name = ast.Identifier{Name: "makeVec"}

	d.genFunction(fn, "makeVec", false, nil)
	out := emit.String()
	assert.Contains(t, out, "func makeVec(Vec3*)")
	assert.Contains(t, out, "ret void")
}

func TestGenStructBuildsVTableGlobalWhenVirtual(t *testing.T) {
	d, emit := newTestDriver()
	decl := &ast.StructDecl{Members: []ast.Decl{virtualFunc("speak", false)}}
	decl.Name = ast.Identifier{Name: "Animal"}
	// give the virtual function a body so genFunction doesn't choke
	decl.Members[0].(*ast.FunctionDecl).Body = []ast.Stmt{}

	d.genStruct(decl)
	out := emit.String()
	assert.Contains(t, out, "global Animal.vtable")
}

func TestGenDestructorCallsFieldAndBaseDestructors(t *testing.T) {
	d, emit := newTestDriver()

	inner := &ast.StructDecl{Members: []ast.Decl{}}
	inner.Name = ast.Identifier{Name: "Inner"}
	inner.Members = []ast.Decl{&ast.DestructorDecl{Body: []ast.Stmt{}}}

	base := &ast.StructDecl{}
	base.Name = ast.Identifier{Name: "Base"}
	base.Members = []ast.Decl{&ast.DestructorDecl{Body: []ast.Stmt{}}}

	outer := &ast.StructDecl{
		Inherits: []ast.Type{&ast.StructType{Decl: base}},
		Members: []ast.Decl{
			varMember("field", &ast.StructType{Decl: inner}),
			&ast.DestructorDecl{Body: []ast.Stmt{}},
		},
	}
	outer.Name = ast.Identifier{Name: "Outer"}

	selfType := &ast.StructType{Decl: outer}
	dtor := outer.Members[1].(*ast.DestructorDecl)
	d.genDestructor(outer, dtor, selfType)

	out := emit.String()
	assert.Contains(t, out, "Inner.deinit")
	assert.Contains(t, out, "Base.deinit")
}

func TestGenCompoundDestroysTemporariesInReverseOrder(t *testing.T) {
	d, emit := newTestDriver()

	owned := &ast.StructDecl{Members: []ast.Decl{&ast.DestructorDecl{Body: []ast.Stmt{}}}}
	owned.Name = ast.Identifier{Name: "Owned"}
	ownedType := &ast.StructType{Decl: owned}

	t1 := &ast.VariableDecl{Type: ownedType}
	t1.Name = ast.Identifier{Name: "t1"}
	t2 := &ast.VariableDecl{Type: ownedType}
	t2.Name = ast.Identifier{Name: "t2"}

	ctx := &genCtx{locals: map[*ast.VariableDecl]ValueID{}}
	ctx.locals[t1] = d.Emit.CreateAlloca(ownedType, "t1")
	ctx.locals[t2] = d.Emit.CreateAlloca(ownedType, "t2")

	cs := &ast.CompoundStmt{Temporaries: []*ast.VariableDecl{t1, t2}}
	d.genCompound(cs, ctx, nil)

	out := emit.String()
	// t1 (%0) and t2 (%1) are allocated in that order; P7 destroys them in
	// reverse, so t2's destructor call must appear before t1's.
	t2Call := strings.Index(out, "Owned.deinit(%1)")
	t1Call := strings.Index(out, "Owned.deinit(%0)")
	require.NotEqual(t, -1, t2Call)
	require.NotEqual(t, -1, t1Call)
	assert.Less(t, t2Call, t1Call)
}

func TestGenCompoundSkipsDestroyingSretReturnedTemporary(t *testing.T) {
	d, emit := newTestDriver()

	owned := &ast.StructDecl{Members: []ast.Decl{&ast.DestructorDecl{Body: []ast.Stmt{}}}}
	owned.Name = ast.Identifier{Name: "Owned"}
	ownedType := &ast.StructType{Decl: owned}

	temp := &ast.VariableDecl{Type: ownedType}
	temp.Name = ast.Identifier{Name: "result"}

	ctx := &genCtx{
		plan:   SretPlan{HasSret: true, SretType: ownedType},
		locals: map[*ast.VariableDecl]ValueID{},
	}
	ctx.locals[temp] = d.Emit.CreateAlloca(ownedType, "result")

	cs := &ast.CompoundStmt{
		Stmts:       []ast.Stmt{&ast.ReturnStmt{Value: &ast.TemporaryValueRefExpr{Temp: temp}}},
		Temporaries: []*ast.VariableDecl{temp},
	}
	d.genStmt(cs, ctx)

	out := emit.String()
	assert.NotContains(t, out, "Owned.deinit")
	assert.Contains(t, out, "ret void")
}
