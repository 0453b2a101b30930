package codegen

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"codeberg.org/saruga/gulc/internal/ast"
)

// genCtx carries the per-function state genStmt/genExpr need: where each
// parameter and local lives, and how the function's return is shaped.
type genCtx struct {
	plan       SretPlan
	selfType   ast.Type
	retType    ast.Type
	paramIndex map[*ast.ParameterDecl]int
	selfIndex  int // -1 when there is no self
	locals     map[*ast.VariableDecl]ValueID
}

func structTypeOf(t ast.Type) (*ast.StructType, bool) {
	switch v := t.(type) {
	case *ast.StructType:
		return v, true
	case *ast.PointerType:
		return structTypeOf(v.Inner)
	case *ast.ReferenceType:
		return structTypeOf(v.Inner)
	default:
		return nil, false
	}
}

// findField looks up a named field's layout on decl or, failing that, on
// its base (fields are only ever declared once; a derived struct's layout
// embeds the base's own fields at the base's offsets).
func (d *Driver) findField(decl *ast.StructDecl, name string) (FieldInfo, bool) {
	layout := d.Layouts.ComputeStructLayout(decl)
	for _, f := range layout.Fields {
		if f.Name == name {
			return f, true
		}
	}
	if base := baseStructDecl(decl); base != nil {
		return d.findField(base, name)
	}
	return FieldInfo{}, false
}

func endsInReturn(body []ast.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(*ast.ReturnStmt)
	return ok
}

func isVoidReturn(t ast.Type) bool {
	if t == nil {
		return true
	}
	bt, ok := t.(*ast.BuiltInType)
	return ok && bt.IsVoid
}

// sortedStrings returns m's keys in deterministic order so label blocks are
// created in the same sequence across runs.
func sortedStrings(m map[string]bool) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// collectLabels gathers every LabeledStmt name reachable from body so its
// block can be created before the body is walked (goto may jump forward).
func collectLabels(body []ast.Stmt, out map[string]bool) {
	for _, s := range body {
		switch v := s.(type) {
		case *ast.LabeledStmt:
			out[v.Label.Name] = true
			collectLabels([]ast.Stmt{v.Stmt}, out)
		case *ast.CompoundStmt:
			collectLabels(v.Stmts, out)
		case *ast.IfStmt:
			collectLabels(v.Then.Stmts, out)
			if v.Else != nil {
				collectLabels([]ast.Stmt{v.Else}, out)
			}
		case *ast.WhileStmt:
			collectLabels(v.Body.Stmts, out)
		case *ast.DoWhileStmt:
			collectLabels(v.Body.Stmts, out)
		case *ast.ForStmt:
			collectLabels(v.Body.Stmts, out)
		case *ast.SwitchStmt:
			for _, c := range v.Cases {
				collectLabels(c.Body, out)
			}
		case *ast.DoCatchStmt:
			collectLabels(v.Body.Stmts, out)
		}
	}
}

func paramEmittedType(p *ast.ParameterDecl) ast.Type {
	if ParamIsByPointer(p.RefKind) {
		return &ast.PointerType{Inner: p.Type}
	}
	return p.Type
}

func (d *Driver) prepareLabels(body []ast.Stmt) {
	d.loopStack = nil
	labels := map[string]bool{}
	collectLabels(body, labels)
	d.labelBlock = map[string]BlockID{}
	for _, name := range sortedStrings(labels) {
		d.labelBlock[name] = d.Emit.CreateBlock("label." + name)
	}
}

func (d *Driver) genFunction(fn *ast.FunctionDecl, name string, isMember bool, selfType ast.Type) {
	plan := PlanSret(fn.ReturnType, isMember)

	var paramTypes []ast.Type
	if plan.HasSret {
		paramTypes = append(paramTypes, &ast.PointerType{Inner: plan.SretType})
	}
	selfIdx := -1
	if plan.HasSelf {
		selfIdx = len(paramTypes)
		paramTypes = append(paramTypes, &ast.PointerType{Inner: selfType})
	}
	paramIndex := map[*ast.ParameterDecl]int{}
	for _, p := range fn.Params {
		paramIndex[p] = len(paramTypes)
		paramTypes = append(paramTypes, paramEmittedType(p))
	}

	emitRetType := fn.ReturnType
	if plan.HasSret {
		emitRetType = nil
	}

	d.Emit.DeclareFunction(name, paramTypes, emitRetType)
	entry := d.Emit.CreateBlock("entry")
	d.Emit.SetInsertBlock(entry)
	d.prepareLabels(fn.Body)

	ctx := &genCtx{
		plan: plan, selfType: selfType, retType: fn.ReturnType,
		paramIndex: paramIndex, selfIndex: selfIdx,
		locals: map[*ast.VariableDecl]ValueID{},
	}

	for _, s := range fn.Body {
		d.genStmt(s, ctx)
	}
	if !endsInReturn(fn.Body) && (plan.HasSret || isVoidReturn(fn.ReturnType)) {
		d.Emit.CreateRetVoid()
	}
}

func (d *Driver) genConstructor(decl *ast.StructDecl, ctor *ast.ConstructorDecl, selfType ast.Type) {
	if !BaseConstructorCallOK(decl, ctor) {
		d.internalError(ctor.Range, "constructor for %s does not call its base constructor first", decl.Name.Name)
	}

	layout := d.Layouts.ComputeStructLayout(decl)
	name := ConstructorName(decl, ctor)

	if layout.HasVTable {
		d.emitConstructorBody(decl, ctor, selfType, name+".base", false)
		d.emitConstructorBody(decl, ctor, selfType, name, true)
		return
	}
	d.emitConstructorBody(decl, ctor, selfType, name, false)
}

// emitConstructorBody emits one constructor variant. assignVTable
// distinguishes the "plain" variant (used when this constructor runs as a
// base class's constructor, invoked from a derived type's own constructor
// that has already installed its own vtable pointer) from the
// "vtable-assigning" variant, the type's own public entry point, which
// installs decl's vtable pointer into the new object (spec.md §4.8:
// "plain-vs-vtable-assigning constructor variants").
func (d *Driver) emitConstructorBody(decl *ast.StructDecl, ctor *ast.ConstructorDecl, selfType ast.Type, name string, assignVTable bool) {
	paramTypes := []ast.Type{&ast.PointerType{Inner: selfType}}
	paramIndex := map[*ast.ParameterDecl]int{}
	for _, p := range ctor.Params {
		paramIndex[p] = len(paramTypes)
		paramTypes = append(paramTypes, paramEmittedType(p))
	}

	d.Emit.DeclareFunction(name, paramTypes, nil)
	entry := d.Emit.CreateBlock("entry")
	d.Emit.SetInsertBlock(entry)
	d.prepareLabels(ctor.Body)

	if assignVTable {
		self := d.Emit.Param(0)
		vtableAddr := d.Emit.CreateGEP(self, 0, "vtable")
		d.Emit.CreateStore(vtableAddr, d.Emit.ConstInt(nil, VTableGlobalName(decl)))
	}

	ctx := &genCtx{
		plan:       SretPlan{HasSelf: true},
		selfType:   selfType,
		paramIndex: paramIndex,
		selfIndex:  0,
		locals:     map[*ast.VariableDecl]ValueID{},
	}

	body := ctor.Body
	if len(body) > 0 && baseStructDecl(decl) != nil {
		if stmt, ok := body[0].(*ast.ExprStmt); ok {
			if call, ok := stmt.Expr.(*ast.ConstructorCallExpr); ok {
				d.genBaseConstructorCall(call, ctx)
				body = body[1:]
			}
		}
	}
	for _, s := range body {
		d.genStmt(s, ctx)
	}
	if !endsInReturn(ctor.Body) {
		d.Emit.CreateRetVoid()
	}
}

// genBaseConstructorCall lowers the mandatory first statement of a derived
// type's constructor: a call into the base's constructor. Targets the
// base's "plain" (non-vtable-assigning) variant when the base itself has a
// vtable, since the derived constructor is the one responsible for
// installing the final, most-derived vtable pointer.
func (d *Driver) genBaseConstructorCall(call *ast.ConstructorCallExpr, ctx *genCtx) {
	st, ok := structTypeOf(call.StructType)
	if !ok || st.Decl == nil || call.Decl == nil {
		d.internalError(call.Range, "codegen: base constructor call missing a resolved target")
	}
	name := ConstructorName(st.Decl, call.Decl)
	if d.Layouts.ComputeStructLayout(st.Decl).HasVTable {
		name += ".base"
	}
	self := d.Emit.Param(ctx.selfIndex)
	args := []ValueID{self}
	for _, a := range call.Args {
		args = append(args, d.genExpr(a, ctx))
	}
	d.Emit.CreateCall(name, args)
}

func (d *Driver) genDestructor(decl *ast.StructDecl, dtor *ast.DestructorDecl, selfType ast.Type) {
	name := DestructorName(decl)
	d.Emit.DeclareFunction(name, []ast.Type{&ast.PointerType{Inner: selfType}}, nil)
	entry := d.Emit.CreateBlock("entry")
	d.Emit.SetInsertBlock(entry)
	d.prepareLabels(dtor.Body)

	ctx := &genCtx{
		plan:       SretPlan{HasSelf: true},
		selfType:   selfType,
		paramIndex: map[*ast.ParameterDecl]int{},
		selfIndex:  0,
		locals:     map[*ast.VariableDecl]ValueID{},
	}

	for _, s := range dtor.Body {
		d.genStmt(s, ctx)
	}

	layout := d.Layouts.ComputeStructLayout(decl)
	for i := len(layout.Fields) - 1; i >= 0; i-- {
		d.genDestroyField(layout.Fields[i], ctx)
	}
	if base := baseStructDecl(decl); base != nil {
		self := d.Emit.Param(0)
		d.Emit.CreateCall(DestructorName(base), []ValueID{self})
	}

	if !endsInReturn(dtor.Body) {
		d.Emit.CreateRetVoid()
	}
}

func vtableSlotIndex(decl *ast.StructDecl, name string) int {
	for i, e := range decl.VTable {
		switch md := e.(type) {
		case *ast.FunctionDecl:
			if md.Name.Name == name {
				return i
			}
		case *ast.DestructorDecl:
			if name == "deinit" {
				return i
			}
		}
	}
	return -1
}

// genDestroyField emits the member destructor call for one field, during
// the owning struct's own deinit. ComputeStructLayout's field list is in
// declaration order; genDestructor walks it backwards so fields are
// destroyed in reverse order of construction (P7).
func (d *Driver) genDestroyField(f FieldInfo, ctx *genCtx) {
	st, ok := f.Decl.Type.(*ast.StructType)
	if !ok || st.Decl == nil {
		return
	}
	if StaticDestructor(st.Decl) == nil && VirtualDestructor(st.Decl) == nil {
		return
	}
	self := d.Emit.Param(ctx.selfIndex)
	addr := d.Emit.CreateGEP(self, f.Offset, f.Name)
	d.genDestroyAddr(st.Decl, addr)
}

// genDestroyLocal emits a local/temporary's destructor call, skipped
// entirely when it has no destructor (a plain-data type with nothing to
// clean up), used by genCompound's reverse-order CompoundStmt.Temporaries
// walk (P7).
func (d *Driver) genDestroyLocal(t *ast.VariableDecl, ctx *genCtx) {
	st, ok := t.Type.(*ast.StructType)
	if !ok || st.Decl == nil {
		return
	}
	addr, ok := ctx.locals[t]
	if !ok {
		return
	}
	d.genDestroyAddr(st.Decl, addr)
}

func (d *Driver) genDestroyAddr(decl *ast.StructDecl, addr ValueID) {
	if vd := VirtualDestructor(decl); vd != nil {
		BuildVTable(decl)
		idx := vtableSlotIndex(decl, "deinit")
		d.Emit.CreateCall(fmt.Sprintf("%s.vtable[%d]", QualifiedName(decl), idx), []ValueID{addr})
		return
	}
	if StaticDestructor(decl) != nil {
		d.Emit.CreateCall(DestructorName(decl), []ValueID{addr})
	}
}
