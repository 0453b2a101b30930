// Package contract implements pass C (spec.md §4.7): evaluating `where`
// constraints and folding `has` expressions to compile-time booleans.
//
// Implemented as small, table-driven predicate functions called from one
// tree walk, with the has-expression folding table expressed as the literal
// switch its clause semantics require.
package contract

import (
	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/diagnostic"
	"codeberg.org/saruga/gulc/internal/overload"
	"codeberg.org/saruga/gulc/internal/session"
)

// Solver evaluates WhereCont constraints and has-expressions, reporting
// into sess.
type Solver struct {
	sess       *session.Session
	convertible func(from, to ast.Type) bool
}

// New creates a Solver. convertible drives the Castable leg of
// compareArgsToParams used by several has-shapes below; pass nil to treat
// every conversion as unavailable (exact-match only).
func New(sess *session.Session, convertible func(from, to ast.Type) bool) *Solver {
	return &Solver{sess: sess, convertible: convertible}
}

// ExtractCheckExtendsType recognizes the one accepted WhereCont shape of
// spec.md §4.7, `T : SomeType`. internal/parser builds the same
// AsIsHasExpr with Kind==CastIs for both `where T : SomeType` and
// `where T is SomeType`, so both spellings arrive here alike. Returns
// ok=false for any other shape, which callers must reject as unsupported.
func ExtractCheckExtendsType(w *ast.WhereCont) (ast.CheckExtendsType, bool) {
	aih, ok := w.Expr.(*ast.AsIsHasExpr)
	if !ok || aih.Kind != ast.CastIs {
		return ast.CheckExtendsType{}, false
	}
	param := aih.Operand.ValueType()
	if param == nil {
		return ast.CheckExtendsType{}, false
	}
	return ast.CheckExtendsType{Param: param, Required: aih.Target}, true
}

// EvaluateWhere evaluates one WhereCont against the active
// template-parameter→argument substitution already applied to its operand's
// ValueType (instantiation substitutes before calling in). Reports a
// constraint-unsatisfied diagnostic on failure.
func (s *Solver) EvaluateWhere(w *ast.WhereCont) bool {
	check, ok := ExtractCheckExtendsType(w)
	if !ok {
		s.sess.Diags.Errorf(diagnostic.PhaseContract, diagnostic.CodeConstraintUnsatisfied, w.Range.File,
			w.Range.Start, w.Range.End, "unsupported where-clause shape")
		return false
	}
	if ast.Subtype(check.Param, check.Required) {
		return true
	}
	s.sess.Diags.Errorf(diagnostic.PhaseContract, diagnostic.CodeConstraintUnsatisfied, w.Range.File,
		w.Range.Start, w.Range.End, "constraint not satisfied: type does not extend required type")
	return false
}

// FoldHas folds a `has` AsIsHasExpr to a SolvedConstExpr wrapping a boolean
// literal, per the table of spec.md §4.7. The operand's resolved type is
// read from its ValueType (set by pass R before C runs).
func (s *Solver) FoldHas(e *ast.AsIsHasExpr) *ast.SolvedConstExpr {
	t := e.Operand.ValueType()
	result := s.fold(t, e.HasShape)
	return &ast.SolvedConstExpr{
		ExprBase: ast.ExprBase{Range: e.Range},
		Original: e,
		Value:    boolLiteral(result),
	}
}

func boolLiteral(v bool) ast.Expr {
	text := "false"
	if v {
		text = "true"
	}
	lit := &ast.LiteralExpr{Kind: ast.LitInt, Text: text}
	return lit
}

func (s *Solver) fold(t ast.Type, shape *ast.HasShape) bool {
	if shape == nil || t == nil {
		return false
	}
	switch shape.Kind {
	case ast.HasTrait:
		return ast.Subtype(t, shape.Trait)
	case ast.HasInit:
		sd, ok := declOf(t).(*ast.StructDecl)
		if !ok {
			return false
		}
		for _, m := range sd.Members {
			ctor, ok := m.(*ast.ConstructorDecl)
			if !ok || ctor.Kind != ast.CtorNormal {
				continue
			}
			if overload.CompareArgumentsToParameters(ctor.Params, paramsAsArgs(shape.Params), s.convertible) != overload.Fail {
				return true
			}
		}
		return false
	case ast.HasDeinit:
		sd, ok := declOf(t).(*ast.StructDecl)
		if !ok {
			return false
		}
		for _, m := range sd.Members {
			dd, ok := m.(*ast.DestructorDecl)
			if ok {
				return !shape.Virtual || dd.Modifiers.Has(ast.ModVirtual)
			}
		}
		return false
	case ast.HasCase:
		ed, ok := declOf(t).(*ast.EnumDecl)
		if !ok || shape.Name == nil {
			return false
		}
		for _, c := range ed.Consts {
			if c.Name.Name == shape.Name.Name {
				return true
			}
		}
		return false
	case ast.HasVar:
		if shape.Name == nil {
			return false
		}
		for _, m := range membersOf(t) {
			vd, ok := m.(*ast.VariableDecl)
			if ok && vd.Name.Name == shape.Name.Name && ast.Same(vd.Type, shape.Type) {
				return true
			}
		}
		return false
	case ast.HasProperty:
		if shape.Name == nil {
			return false
		}
		for _, m := range membersOf(t) {
			pd, ok := m.(*ast.PropertyDecl)
			if !ok || pd.Name.Name != shape.Name.Name || !ast.Same(pd.Type, shape.Type) {
				continue
			}
			if shape.Get && pd.Get == nil {
				continue
			}
			if shape.Set && pd.Set == nil {
				continue
			}
			return true
		}
		return false
	case ast.HasSubscript:
		var best *ast.SubscriptOperatorDecl
		bestRank := overload.Fail
		ambiguous := false
		for _, m := range membersOf(t) {
			sub, ok := m.(*ast.SubscriptOperatorDecl)
			if !ok {
				continue
			}
			r := overload.CompareArgumentsToParameters(sub.Params, paramsAsArgs(shape.Params), s.convertible)
			if r == overload.Fail {
				continue
			}
			if r > bestRank {
				bestRank = r
				best = sub
				ambiguous = false
			} else if r == bestRank && best != nil {
				ambiguous = true
			}
		}
		if best == nil || ambiguous {
			return false
		}
		if shape.Get && best.Get == nil {
			return false
		}
		if shape.Set && best.Set == nil {
			return false
		}
		return true
	case ast.HasFuncOrOperatorOrCall:
		matches := 0
		ambiguous := false
		for _, m := range membersOf(t) {
			sig, params, ok := callableSignature(m)
			if !ok || sig.Name != derefName(shape.Name) {
				continue
			}
			r := overload.CompareArgumentsToParameters(params, paramsAsArgs(shape.Params), s.convertible)
			if r == overload.Fail {
				continue
			}
			if r >= overload.Castable {
				matches++
			}
			if matches > 1 {
				ambiguous = true
			}
		}
		return matches >= 1 && !ambiguous
	}
	return false
}

func derefName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func callableSignature(d ast.Decl) (overload.Signature, []*ast.ParameterDecl, bool) {
	switch t := d.(type) {
	case *ast.FunctionDecl:
		return overload.FuncSignature(t), t.Params, true
	case *ast.OperatorDecl:
		return overload.FuncSignature(t), t.Params, true
	case *ast.CallOperatorDecl:
		return overload.FuncSignature(t), t.Params, true
	}
	return overload.Signature{}, nil, false
}

// paramsAsArgs treats a has-shape's declared parameter list as a stand-in
// argument list purely for the purposes of overload.CompareArgumentsToParameters,
// which only reads each CallArg's label and value-type.
func paramsAsArgs(params []*ast.ParameterDecl) []ast.CallArg {
	args := make([]ast.CallArg, len(params))
	for i, p := range params {
		var label *ast.Identifier
		if !p.Label.IsAnonymous() {
			l := p.Label
			label = &l
		}
		placeholder := &ast.LiteralExpr{Kind: ast.LitInt, Text: "0"}
		placeholder.SetValueType(p.Type)
		args[i] = ast.CallArg{Label: label, Value: placeholder}
	}
	return args
}

func declOf(t ast.Type) ast.Decl {
	switch ct := t.(type) {
	case *ast.StructType:
		return ct.Decl
	case *ast.TraitType:
		return ct.Decl
	case *ast.EnumType:
		return ct.Decl
	case *ast.TemplateStructType:
		return ct.Decl
	case *ast.TemplateTraitType:
		return ct.Decl
	}
	return nil
}

func membersOf(t ast.Type) []ast.Decl {
	switch d := declOf(t).(type) {
	case *ast.StructDecl:
		return d.Members
	case *ast.TraitDecl:
		return d.Members
	}
	return nil
}
