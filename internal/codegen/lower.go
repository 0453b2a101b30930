package codegen

import "codeberg.org/saruga/gulc/internal/ast"

func (d *Driver) findLoopFrame(label *ast.Identifier) (loopFrame, bool) {
	if label == nil {
		if len(d.loopStack) == 0 {
			return loopFrame{}, false
		}
		return d.loopStack[len(d.loopStack)-1], true
	}
	for i := len(d.loopStack) - 1; i >= 0; i-- {
		if d.loopStack[i].label == label.Name {
			return d.loopStack[i], true
		}
	}
	return loopFrame{}, false
}

// genCompound lowers a block's statements, then its temporaries' destructors
// in reverse construction order (P7). sretTemp, when non-nil, names the one
// temporary whose storage was handed straight to the caller's sret slot by
// the enclosing return statement — it must not be destroyed here.
func (d *Driver) genCompound(cs *ast.CompoundStmt, ctx *genCtx, sretTemp *ast.VariableDecl) {
	for _, s := range cs.Stmts {
		d.genStmt(s, ctx)
	}
	for i := len(cs.Temporaries) - 1; i >= 0; i-- {
		t := cs.Temporaries[i]
		if t == sretTemp {
			continue
		}
		d.genDestroyLocal(t, ctx)
	}
}

func (d *Driver) genStmt(s ast.Stmt, ctx *genCtx) {
	switch v := s.(type) {
	case *ast.CompoundStmt:
		d.genCompound(v, ctx, d.sretTempOf(v, ctx))

	case *ast.IfStmt:
		d.genIf(v, ctx)

	case *ast.WhileStmt:
		d.genWhile(v, ctx, "")
	case *ast.DoWhileStmt:
		d.genDoWhile(v, ctx, "")
	case *ast.ForStmt:
		d.genFor(v, ctx, "")
	case *ast.SwitchStmt:
		d.genSwitch(v, ctx, "")

	case *ast.BreakStmt:
		frame, ok := d.findLoopFrame(v.Label)
		if !ok {
			d.internalError(v.Range, "codegen: break outside a loop")
		}
		d.Emit.CreateBr(frame.breakB)

	case *ast.ContinueStmt:
		frame, ok := d.findLoopFrame(v.Label)
		if !ok {
			d.internalError(v.Range, "codegen: continue outside a loop")
		}
		d.Emit.CreateBr(frame.continueB)

	case *ast.GotoStmt:
		id, ok := d.labelBlock[v.Label.Name]
		if !ok {
			d.internalError(v.Range, "codegen: goto references unknown label %q", v.Label.Name)
		}
		d.Emit.CreateBr(id)

	case *ast.ReturnStmt:
		d.genReturn(v, ctx)

	case *ast.LabeledStmt:
		id, ok := d.labelBlock[v.Label.Name]
		if ok {
			d.Emit.CreateBr(id)
			d.Emit.SetInsertBlock(id)
		}
		d.genStmtLabeled(v.Stmt, ctx, v.Label.Name)

	case *ast.DoCatchStmt:
		// Contract bookkeeping only: no unwinding mechanism exists at this
		// pass, so the body just runs its normal control flow. Catch/finally
		// have no runtime surface here.
		d.genCompound(v.Body, ctx, nil)

	case *ast.ExprStmt:
		d.genExpr(v.Expr, ctx)

	case *ast.VarDeclStmt:
		d.genVarDecl(v.Decl, ctx)

	default:
		d.internalError(s.SrcRange(), "codegen: unhandled statement %T", s)
	}
}

// sretTempOf detects the one shape genCompound needs to special-case: a
// compound statement's last statement returning a temporary by value, in a
// struct-returning function, where that temporary's construction should
// target the caller's sret slot directly rather than a local and then a
// copy.
func (d *Driver) sretTempOf(cs *ast.CompoundStmt, ctx *genCtx) *ast.VariableDecl {
	if !ctx.plan.HasSret || len(cs.Stmts) == 0 {
		return nil
	}
	ret, ok := cs.Stmts[len(cs.Stmts)-1].(*ast.ReturnStmt)
	if !ok {
		return nil
	}
	tref, ok := ret.Value.(*ast.TemporaryValueRefExpr)
	if !ok {
		return nil
	}
	return tref.Temp
}

func (d *Driver) genStmtLabeled(s ast.Stmt, ctx *genCtx, label string) {
	switch v := s.(type) {
	case *ast.WhileStmt:
		d.genWhile(v, ctx, label)
	case *ast.DoWhileStmt:
		d.genDoWhile(v, ctx, label)
	case *ast.ForStmt:
		d.genFor(v, ctx, label)
	case *ast.SwitchStmt:
		d.genSwitch(v, ctx, label)
	default:
		d.genStmt(s, ctx)
	}
}

func (d *Driver) genIf(v *ast.IfStmt, ctx *genCtx) {
	thenB := d.Emit.CreateBlock("if.then")
	elseB := d.Emit.CreateBlock("if.else")
	endB := d.Emit.CreateBlock("if.end")

	cond := d.genExpr(v.Cond, ctx)
	d.Emit.CreateCondBr(cond, thenB, elseB)

	d.Emit.SetInsertBlock(thenB)
	d.genCompound(v.Then, ctx, nil)
	d.Emit.CreateBr(endB)

	d.Emit.SetInsertBlock(elseB)
	if v.Else != nil {
		d.genStmt(v.Else, ctx)
	}
	d.Emit.CreateBr(endB)

	d.Emit.SetInsertBlock(endB)
}

func (d *Driver) genWhile(v *ast.WhileStmt, ctx *genCtx, label string) {
	condB := d.Emit.CreateBlock("while.cond")
	bodyB := d.Emit.CreateBlock("while.body")
	endB := d.Emit.CreateBlock("while.end")

	d.Emit.CreateBr(condB)
	d.Emit.SetInsertBlock(condB)
	cond := d.genExpr(v.Cond, ctx)
	d.Emit.CreateCondBr(cond, bodyB, endB)

	d.Emit.SetInsertBlock(bodyB)
	d.loopStack = append(d.loopStack, loopFrame{label: label, continueB: condB, breakB: endB})
	d.genCompound(v.Body, ctx, nil)
	d.loopStack = d.loopStack[:len(d.loopStack)-1]
	d.Emit.CreateBr(condB)

	d.Emit.SetInsertBlock(endB)
}

func (d *Driver) genDoWhile(v *ast.DoWhileStmt, ctx *genCtx, label string) {
	bodyB := d.Emit.CreateBlock("do.body")
	condB := d.Emit.CreateBlock("do.cond")
	endB := d.Emit.CreateBlock("do.end")

	d.Emit.CreateBr(bodyB)
	d.Emit.SetInsertBlock(bodyB)
	d.loopStack = append(d.loopStack, loopFrame{label: label, continueB: condB, breakB: endB})
	d.genCompound(v.Body, ctx, nil)
	d.loopStack = d.loopStack[:len(d.loopStack)-1]
	d.Emit.CreateBr(condB)

	d.Emit.SetInsertBlock(condB)
	cond := d.genExpr(v.Cond, ctx)
	d.Emit.CreateCondBr(cond, bodyB, endB)

	d.Emit.SetInsertBlock(endB)
}

func (d *Driver) genFor(v *ast.ForStmt, ctx *genCtx, label string) {
	if v.Init != nil {
		d.genStmt(v.Init, ctx)
	}

	condB := d.Emit.CreateBlock("for.cond")
	bodyB := d.Emit.CreateBlock("for.body")
	stepB := d.Emit.CreateBlock("for.step")
	endB := d.Emit.CreateBlock("for.end")

	d.Emit.CreateBr(condB)
	d.Emit.SetInsertBlock(condB)
	if v.Cond != nil {
		cond := d.genExpr(v.Cond, ctx)
		d.Emit.CreateCondBr(cond, bodyB, endB)
	} else {
		d.Emit.CreateBr(bodyB)
	}

	d.Emit.SetInsertBlock(bodyB)
	d.loopStack = append(d.loopStack, loopFrame{label: label, continueB: stepB, breakB: endB})
	d.genCompound(v.Body, ctx, nil)
	d.loopStack = d.loopStack[:len(d.loopStack)-1]
	d.Emit.CreateBr(stepB)

	d.Emit.SetInsertBlock(stepB)
	if v.Step != nil {
		d.genStmt(v.Step, ctx)
	}
	d.Emit.CreateBr(condB)

	d.Emit.SetInsertBlock(endB)
}

func (d *Driver) genSwitch(v *ast.SwitchStmt, ctx *genCtx, label string) {
	subject := d.genExpr(v.Subject, ctx)
	endB := d.Emit.CreateBlock("switch.end")
	d.loopStack = append(d.loopStack, loopFrame{label: label, continueB: endB, breakB: endB})

	type caseBlock struct {
		c    *ast.CaseStmt
		body BlockID
	}
	var blocks []caseBlock
	var defaultBody BlockID
	hasDefault := false
	for _, c := range v.Cases {
		b := d.Emit.CreateBlock("switch.case")
		if len(c.Values) == 0 {
			defaultBody = b
			hasDefault = true
		}
		blocks = append(blocks, caseBlock{c: c, body: b})
	}

	testB := d.Emit.CreateBlock("switch.test")
	d.Emit.CreateBr(testB)
	d.Emit.SetInsertBlock(testB)
	for _, cb := range blocks {
		for _, val := range cb.c.Values {
			v2 := d.genExpr(val, ctx)
			cmp := d.Emit.CreateCmp(CmpEq, subject, v2)
			nextTest := d.Emit.CreateBlock("switch.test")
			d.Emit.CreateCondBr(cmp, cb.body, nextTest)
			d.Emit.SetInsertBlock(nextTest)
		}
	}
	if hasDefault {
		d.Emit.CreateBr(defaultBody)
	} else {
		d.Emit.CreateBr(endB)
	}

	for i, cb := range blocks {
		d.Emit.SetInsertBlock(cb.body)
		for _, s := range cb.c.Body {
			d.genStmt(s, ctx)
		}
		if cb.c.Fallthrough && i+1 < len(blocks) {
			d.Emit.CreateBr(blocks[i+1].body)
		} else {
			d.Emit.CreateBr(endB)
		}
	}

	d.Emit.SetInsertBlock(endB)
	d.loopStack = d.loopStack[:len(d.loopStack)-1]
}

func (d *Driver) genReturn(v *ast.ReturnStmt, ctx *genCtx) {
	if v.Value == nil {
		d.Emit.CreateRetVoid()
		return
	}
	if ctx.plan.HasSret {
		// A temporary with no storage of its own yet is built straight in
		// the caller's sret slot, so no aggregate store is emitted for it.
		if tref, ok := v.Value.(*ast.TemporaryValueRefExpr); ok {
			if _, allocated := ctx.locals[tref.Temp]; !allocated {
				ctx.locals[tref.Temp] = d.Emit.Param(0)
				d.Emit.CreateRetVoid()
				return
			}
		}
		val := d.genExpr(v.Value, ctx)
		sretAddr := d.Emit.Param(0)
		d.Emit.CreateStore(sretAddr, val)
		d.Emit.CreateRetVoid()
		return
	}
	d.Emit.CreateRet(d.genExpr(v.Value, ctx))
}

func (d *Driver) genVarDecl(decl *ast.VariableDecl, ctx *genCtx) {
	addr := d.Emit.CreateAlloca(decl.Type, decl.Name.Name)
	ctx.locals[decl] = addr
	if decl.Init != nil {
		d.Emit.CreateStore(addr, d.genExpr(decl.Init, ctx))
	}
}
