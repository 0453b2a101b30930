package ast

// WalkDecl visits decl and every Decl it owns, depth-first, calling visit on
// each (including decl itself). A pair of plain walk functions over the
// tagged variants, instead of a visitor-base-class hierarchy.
func WalkDecl(d Decl, visit func(Decl)) {
	if d == nil {
		return
	}
	visit(d)
	switch t := d.(type) {
	case *NamespaceDecl:
		for _, m := range t.Members {
			WalkDecl(m, visit)
		}
	case *StructDecl:
		for _, m := range t.Members {
			WalkDecl(m, visit)
		}
	case *TraitDecl:
		for _, m := range t.Members {
			WalkDecl(m, visit)
		}
	case *EnumDecl:
		for _, c := range t.Consts {
			WalkDecl(c, visit)
		}
		for _, m := range t.Members {
			WalkDecl(m, visit)
		}
	case *FunctionDecl:
		for _, p := range t.Params {
			WalkDecl(p, visit)
		}
	case *OperatorDecl:
		for _, p := range t.Params {
			WalkDecl(p, visit)
		}
	case *CallOperatorDecl:
		for _, p := range t.Params {
			WalkDecl(p, visit)
		}
	case *SubscriptOperatorDecl:
		for _, p := range t.Params {
			WalkDecl(p, visit)
		}
		if t.Get != nil {
			WalkDecl(t.Get, visit)
		}
		if t.Set != nil {
			WalkDecl(t.Set, visit)
		}
	case *ConstructorDecl:
		for _, p := range t.Params {
			WalkDecl(p, visit)
		}
	case *ExtensionDecl:
		for _, m := range t.Members {
			WalkDecl(m, visit)
		}
	}
}

// WalkExpr visits e and every Expr it owns, depth-first.
func WalkExpr(e Expr, visit func(Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch t := e.(type) {
	case *BinaryExpr:
		WalkExpr(t.Left, visit)
		WalkExpr(t.Right, visit)
	case *UnaryExpr:
		WalkExpr(t.Operand, visit)
	case *TernaryExpr:
		WalkExpr(t.Cond, visit)
		WalkExpr(t.Then, visit)
		WalkExpr(t.Else, visit)
	case *ParenExpr:
		WalkExpr(t.Inner, visit)
	case *AsIsHasExpr:
		WalkExpr(t.Operand, visit)
	case *MemberExpr:
		WalkExpr(t.Receiver, visit)
	case *FunctionCallExpr:
		WalkExpr(t.Callee, visit)
		for _, a := range t.Args {
			WalkExpr(a.Value, visit)
		}
	case *SubscriptCallExpr:
		WalkExpr(t.Receiver, visit)
		for _, a := range t.Args {
			WalkExpr(a.Value, visit)
		}
	case *ArrayLiteralExpr:
		for _, el := range t.Elements {
			WalkExpr(el, visit)
		}
	case *LabeledArgExpr:
		WalkExpr(t.Value, visit)
	case *ImplicitCastExpr:
		WalkExpr(t.Operand, visit)
	case *ImplicitDerefExpr:
		WalkExpr(t.Operand, visit)
	case *LValueToRValueExpr:
		WalkExpr(t.Operand, visit)
	case *RValueToInRefExpr:
		WalkExpr(t.Operand, visit)
	case *ConstructorCallExpr:
		for _, a := range t.Args {
			WalkExpr(a, visit)
		}
	case *DestructorCallExpr:
		WalkExpr(t.Receiver, visit)
	case *StoreTemporaryValueExpr:
		WalkExpr(t.Value, visit)
	case *VTableFunctionReferenceExpr:
		WalkExpr(t.Receiver, visit)
	case *MemberVariableRefExpr:
		WalkExpr(t.Receiver, visit)
	case *MemberPropertyRefExpr:
		WalkExpr(t.Receiver, visit)
	case *MemberSubscriptOperatorRefExpr:
		WalkExpr(t.Receiver, visit)
	case *SolvedConstExpr:
		WalkExpr(t.Original, visit)
	}
}

// WalkStmt visits s and every Stmt/Expr it owns, depth-first.
func WalkStmt(s Stmt, visitStmt func(Stmt), visitExpr func(Expr)) {
	if s == nil {
		return
	}
	visitStmt(s)
	switch t := s.(type) {
	case *CompoundStmt:
		for _, sub := range t.Stmts {
			WalkStmt(sub, visitStmt, visitExpr)
		}
	case *IfStmt:
		WalkExpr(t.Cond, visitExpr)
		WalkStmt(t.Then, visitStmt, visitExpr)
		WalkStmt(t.Else, visitStmt, visitExpr)
	case *WhileStmt:
		WalkExpr(t.Cond, visitExpr)
		WalkStmt(t.Body, visitStmt, visitExpr)
	case *DoWhileStmt:
		WalkStmt(t.Body, visitStmt, visitExpr)
		WalkExpr(t.Cond, visitExpr)
	case *ForStmt:
		WalkStmt(t.Init, visitStmt, visitExpr)
		WalkExpr(t.Cond, visitExpr)
		WalkStmt(t.Step, visitStmt, visitExpr)
		WalkStmt(t.Body, visitStmt, visitExpr)
	case *SwitchStmt:
		WalkExpr(t.Subject, visitExpr)
		for _, c := range t.Cases {
			WalkStmt(c, visitStmt, visitExpr)
		}
	case *CaseStmt:
		for _, v := range t.Values {
			WalkExpr(v, visitExpr)
		}
		for _, sub := range t.Body {
			WalkStmt(sub, visitStmt, visitExpr)
		}
	case *ReturnStmt:
		WalkExpr(t.Value, visitExpr)
	case *LabeledStmt:
		WalkStmt(t.Stmt, visitStmt, visitExpr)
	case *DoCatchStmt:
		WalkStmt(t.Body, visitStmt, visitExpr)
		for _, c := range t.Catches {
			WalkStmt(c.Body, visitStmt, visitExpr)
		}
		if t.Finally != nil {
			WalkStmt(t.Finally, visitStmt, visitExpr)
		}
	case *ExprStmt:
		WalkExpr(t.Expr, visitExpr)
	case *VarDeclStmt:
		WalkExpr(t.Decl.Init, visitExpr)
	}
}
