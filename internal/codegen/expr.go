package codegen

import (
	"fmt"

	"codeberg.org/saruga/gulc/internal/ast"
)

// genExpr lowers e to a single value or address. For lvalue-producing
// semantic nodes (locals, parameters, self, members, temporaries) the
// returned ValueID is the slot's address; LValueToRValueExpr/
// ImplicitDerefExpr are what turn an address into a loaded value. This
// keeps the by-reference parameter convention (sret.go) and the struct
// member/temporary addressing uniform without a separate "addr of" pass.
func (d *Driver) genExpr(e ast.Expr, ctx *genCtx) ValueID {
	switch v := e.(type) {
	case *ast.LiteralExpr:
		if v.Kind == ast.LitFloat {
			return d.Emit.ConstFloat(v.ValueType(), v.Text)
		}
		return d.Emit.ConstInt(v.ValueType(), v.Text)

	case *ast.ParameterRefExpr:
		idx, ok := ctx.paramIndex[v.Decl]
		if !ok {
			d.internalError(v.Range, "codegen: parameter %s has no emitted slot", v.Decl.Name.Name)
		}
		return d.Emit.Param(idx)

	case *ast.CurrentSelfExpr:
		if ctx.selfIndex < 0 {
			d.internalError(v.Range, "codegen: self referenced outside a member context")
		}
		return d.Emit.Param(ctx.selfIndex)

	case *ast.LocalVariableRefExpr:
		addr, ok := ctx.locals[v.Decl]
		if !ok {
			d.internalError(v.Range, "codegen: local %s has no allocated storage", v.Decl.Name.Name)
		}
		return addr

	case *ast.TemporaryValueRefExpr:
		addr, ok := ctx.locals[v.Temp]
		if !ok {
			d.internalError(v.Range, "codegen: temporary has no allocated storage")
		}
		return addr

	case *ast.StoreTemporaryValueExpr:
		val := d.genExpr(v.Value, ctx)
		addr := d.Emit.CreateAlloca(v.Value.ValueType(), "tmp")
		d.Emit.CreateStore(addr, val)
		ctx.locals[v.Temp] = addr
		return addr

	case *ast.LValueToRValueExpr:
		return d.Emit.CreateLoad(d.genExpr(v.Operand, ctx), v.ValueType())

	case *ast.ImplicitDerefExpr:
		return d.Emit.CreateLoad(d.genExpr(v.Operand, ctx), v.ValueType())

	case *ast.ImplicitCastExpr:
		return d.Emit.CreateBitCast(d.genExpr(v.Operand, ctx), v.ToType)

	case *ast.RValueToInRefExpr:
		val := d.genExpr(v.Operand, ctx)
		addr := d.Emit.CreateAlloca(v.Operand.ValueType(), "inref.tmp")
		d.Emit.CreateStore(addr, val)
		return addr

	case *ast.MemberVariableRefExpr:
		recvAddr := d.genExpr(v.Receiver, ctx)
		st, ok := structTypeOf(v.Receiver.ValueType())
		if !ok {
			d.internalError(v.Range, "codegen: member access on a non-struct receiver")
		}
		field, ok := d.findField(st.Decl, v.Decl.Name.Name)
		if !ok {
			d.internalError(v.Range, "codegen: unknown field %s on %s", v.Decl.Name.Name, st.Decl.Name.Name)
		}
		return d.Emit.CreateGEP(recvAddr, field.Offset, field.Name)

	case *ast.MemberPropertyRefExpr:
		return d.genPropertyGet(v, ctx)

	case *ast.SubscriptCallExpr:
		return d.genSubscriptGet(v, ctx)

	case *ast.EnumConstRefExpr:
		return d.Emit.ConstInt(v.ValueType(), v.Decl.Name.Name)

	case *ast.TemplateConstRefExpr:
		return d.Emit.ConstInt(v.ValueType(), v.Param.Name.Name)

	case *ast.SolvedConstExpr:
		return d.genExpr(v.Value, ctx)

	case *ast.ConstructorCallExpr:
		st, ok := structTypeOf(v.StructType)
		if !ok {
			d.internalError(v.Range, "codegen: constructor call without a resolved struct type")
		}
		addr := d.Emit.CreateAlloca(v.StructType, "ctor.tmp")
		args := []ValueID{addr}
		for _, a := range v.Args {
			args = append(args, d.genExpr(a, ctx))
		}
		name := "?"
		if v.Decl != nil {
			name = ConstructorName(st.Decl, v.Decl)
		}
		d.Emit.CreateCall(name, args)
		return addr

	case *ast.DestructorCallExpr:
		recv := d.genExpr(v.Receiver, ctx)
		name := "?"
		if v.Decl != nil {
			name = QualifiedName(v.Decl)
		}
		return d.Emit.CreateCall(name, []ValueID{recv})

	case *ast.FunctionCallExpr:
		return d.genCall(v, ctx)

	case *ast.BinaryExpr:
		if v.Op.IsAssignment() {
			return d.genAssign(v, ctx)
		}
		lhs := d.genExpr(v.Left, ctx)
		rhs := d.genExpr(v.Right, ctx)
		if op, ok := cmpOpFor(v.Op); ok {
			return d.Emit.CreateCmp(op, lhs, rhs)
		}
		if op, ok := arithOpFor(v.Op); ok {
			return d.Emit.CreateArith(op, lhs, rhs)
		}
		d.internalError(v.Range, "codegen: unhandled binary operator")

	case *ast.UnaryExpr:
		operand := d.genExpr(v.Operand, ctx)
		switch v.Op {
		case ast.OpAddrOf:
			return operand
		case ast.OpDeref:
			return d.Emit.CreateLoad(operand, v.ValueType())
		case ast.OpNeg:
			zero := d.Emit.ConstInt(v.ValueType(), "0")
			return d.Emit.CreateArith(ArithSub, zero, operand)
		default:
			return operand
		}

	case *ast.ParenExpr:
		return d.genExpr(v.Inner, ctx)

	case *ast.TernaryExpr:
		cond := d.genExpr(v.Cond, ctx)
		thenB := d.Emit.CreateBlock("ternary.then")
		elseB := d.Emit.CreateBlock("ternary.else")
		endB := d.Emit.CreateBlock("ternary.end")
		result := d.Emit.CreateAlloca(v.ValueType(), "ternary.result")

		d.Emit.CreateCondBr(cond, thenB, elseB)
		d.Emit.SetInsertBlock(thenB)
		d.Emit.CreateStore(result, d.genExpr(v.Then, ctx))
		d.Emit.CreateBr(endB)
		d.Emit.SetInsertBlock(elseB)
		d.Emit.CreateStore(result, d.genExpr(v.Else, ctx))
		d.Emit.CreateBr(endB)
		d.Emit.SetInsertBlock(endB)
		return d.Emit.CreateLoad(result, v.ValueType())

	default:
		d.internalError(e.SrcRange(), "codegen: unhandled expression %T", e)
	}
	return 0
}

func (d *Driver) genCall(v *ast.FunctionCallExpr, ctx *genCtx) ValueID {
	if vref, ok := v.Callee.(*ast.VTableFunctionReferenceExpr); ok {
		recvAddr := d.genExpr(vref.Receiver, ctx)
		args := []ValueID{recvAddr}
		for _, a := range v.Args {
			args = append(args, d.genExpr(a.Value, ctx))
		}
		declName := "?"
		if st, ok := structTypeOf(vref.Receiver.ValueType()); ok {
			declName = QualifiedName(st.Decl)
		}
		return d.Emit.CreateCall(fmt.Sprintf("%s.vtable[%d]", declName, vref.Index), args)
	}

	var args []ValueID
	if mem, ok := v.Callee.(*ast.MemberExpr); ok {
		args = append(args, d.genExpr(mem.Receiver, ctx))
	}
	for _, a := range v.Args {
		args = append(args, d.genExpr(a.Value, ctx))
	}

	name := "?"
	if v.ResolvedDecl != nil {
		name = QualifiedName(v.ResolvedDecl)
	} else if id, ok := v.Callee.(*ast.IdentifierExpr); ok {
		name = id.Name.Name
	}
	return d.Emit.CreateCall(name, args)
}

func (d *Driver) genAssign(v *ast.BinaryExpr, ctx *genCtx) ValueID {
	switch lhs := v.Left.(type) {
	case *ast.MemberPropertyRefExpr:
		val := d.computeAssignValue(v, ctx, func() ValueID { return d.genPropertyGet(lhs, ctx) })
		d.genPropertySet(lhs, val, ctx)
		return val
	case *ast.SubscriptCallExpr:
		val := d.computeAssignValue(v, ctx, func() ValueID { return d.genSubscriptGet(lhs, ctx) })
		d.genSubscriptSet(lhs, val, ctx)
		return val
	default:
		addr := d.genExpr(v.Left, ctx)
		val := d.computeAssignValue(v, ctx, func() ValueID { return d.Emit.CreateLoad(addr, v.Left.ValueType()) })
		d.Emit.CreateStore(addr, val)
		return val
	}
}

func (d *Driver) computeAssignValue(v *ast.BinaryExpr, ctx *genCtx, readCurrent func() ValueID) ValueID {
	rhs := d.genExpr(v.Right, ctx)
	if v.Op == ast.OpAssign {
		return rhs
	}
	return d.Emit.CreateArith(fusedArithOp(v.Op), readCurrent(), rhs)
}

func fusedArithOp(op ast.BinaryOpKind) ArithOp {
	switch op {
	case ast.OpAddAssign:
		return ArithAdd
	case ast.OpSubAssign:
		return ArithSub
	case ast.OpMulAssign:
		return ArithMul
	case ast.OpDivAssign:
		return ArithDiv
	case ast.OpModAssign:
		return ArithMod
	case ast.OpBitAndAssign:
		return ArithAnd
	case ast.OpBitOrAssign:
		return ArithOr
	case ast.OpBitXorAssign:
		return ArithXor
	case ast.OpShlAssign:
		return ArithShl
	case ast.OpShrAssign:
		return ArithShr
	default:
		return ArithAdd
	}
}

func arithOpFor(op ast.BinaryOpKind) (ArithOp, bool) {
	switch op {
	case ast.OpAdd:
		return ArithAdd, true
	case ast.OpSub:
		return ArithSub, true
	case ast.OpMul:
		return ArithMul, true
	case ast.OpDiv:
		return ArithDiv, true
	case ast.OpMod:
		return ArithMod, true
	case ast.OpBitAnd, ast.OpLogAnd:
		return ArithAnd, true
	case ast.OpBitOr, ast.OpLogOr:
		return ArithOr, true
	case ast.OpBitXor:
		return ArithXor, true
	case ast.OpShl:
		return ArithShl, true
	case ast.OpShr:
		return ArithShr, true
	}
	return 0, false
}

func cmpOpFor(op ast.BinaryOpKind) (CmpOp, bool) {
	switch op {
	case ast.OpEq:
		return CmpEq, true
	case ast.OpNeq:
		return CmpNeq, true
	case ast.OpLt:
		return CmpLt, true
	case ast.OpLte:
		return CmpLte, true
	case ast.OpGt:
		return CmpGt, true
	case ast.OpGte:
		return CmpGte, true
	}
	return 0, false
}

func (d *Driver) genPropertyGet(v *ast.MemberPropertyRefExpr, ctx *genCtx) ValueID {
	recv := d.genExpr(v.Receiver, ctx)
	return d.Emit.CreateCall(QualifiedName(v.Decl)+".get", []ValueID{recv})
}

func (d *Driver) genPropertySet(v *ast.MemberPropertyRefExpr, val ValueID, ctx *genCtx) {
	recv := d.genExpr(v.Receiver, ctx)
	d.Emit.CreateCall(QualifiedName(v.Decl)+".set", []ValueID{recv, val})
}

func (d *Driver) genSubscriptGet(v *ast.SubscriptCallExpr, ctx *genCtx) ValueID {
	recv := d.genExpr(v.Receiver, ctx)
	args := []ValueID{recv}
	for _, a := range v.Args {
		args = append(args, d.genExpr(a.Value, ctx))
	}
	name := "?"
	if v.ResolvedDecl != nil {
		name = QualifiedName(v.ResolvedDecl) + ".get"
	}
	return d.Emit.CreateCall(name, args)
}

func (d *Driver) genSubscriptSet(v *ast.SubscriptCallExpr, val ValueID, ctx *genCtx) {
	recv := d.genExpr(v.Receiver, ctx)
	args := []ValueID{recv}
	for _, a := range v.Args {
		args = append(args, d.genExpr(a.Value, ctx))
	}
	args = append(args, val)
	name := "?"
	if v.ResolvedDecl != nil {
		name = QualifiedName(v.ResolvedDecl) + ".set"
	}
	d.Emit.CreateCall(name, args)
}
