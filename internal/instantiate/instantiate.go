// Package instantiate implements pass I (spec.md §4.5): turning a generic
// declaration plus a concrete argument tuple into a cloned StructDecl,
// TraitDecl or FunctionDecl whose OriginalDecl points back at the generic.
// Each result is cached in the generic's own TemplateInstantiations map,
// keyed by CanonicalKey of the arguments.
//
// Implemented as a deep-copy-and-rewrite pass: a map-driven substitution
// walk generalized from identifier renaming to type/const
// template-parameter substitution.
package instantiate

import (
	"sort"
	"strings"

	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/contract"
	"codeberg.org/saruga/gulc/internal/resolve"
	"codeberg.org/saruga/gulc/internal/session"
)

// Instantiator runs pass I: it re-resolves the copy's declared types with
// the resolver and evaluates its where clauses with the contract solver.
// It does not re-run overload resolution or has-folding on copied bodies.
type Instantiator struct {
	sess     *session.Session
	resolver *resolve.Resolver
	solver   *contract.Solver
}

// New creates an Instantiator.
func New(sess *session.Session, resolver *resolve.Resolver, solver *contract.Solver) *Instantiator {
	return &Instantiator{sess: sess, resolver: resolver, solver: solver}
}

// binding maps a generic's template-parameter decls to the concrete
// arguments being substituted in, scoped to one instantiation.
type binding struct {
	typeArgs  map[*ast.TemplateParameterDecl]ast.Type
	constArgs map[*ast.TemplateParameterDecl]ast.Expr
}

// CanonicalKey canonicalizes an argument tuple to the cache-key string used
// by spec.md §4.5 step 1/2 ("canonicalize A", "look up (G,A) in cache").
// Folding SolvedConsts is delegated to canonicalConstExpr, and canonicalType
// renders no qualifiers, so structurally-identical arguments always produce
// the same key regardless of surface qualifier spelling.
func CanonicalKey(args []ast.Type) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = canonicalType(a)
	}
	return strings.Join(parts, ",")
}

func canonicalType(t ast.Type) string {
	switch v := t.(type) {
	case nil:
		return "<nil>"
	case *ast.BuiltInType:
		return "builtin:" + v.Name
	case *ast.BoolType:
		return "bool"
	case *ast.SelfType:
		return "Self"
	case *ast.StructType:
		return "struct:" + v.Decl.Name.Name
	case *ast.TraitType:
		return "trait:" + v.Decl.Name.Name
	case *ast.EnumType:
		return "enum:" + v.Decl.Name.Name
	case *ast.PointerType:
		return "ptr<" + canonicalType(v.Inner) + ">"
	case *ast.ReferenceType:
		return "ref<" + canonicalType(v.Inner) + ">"
	case *ast.TemplateStructType:
		return "tstruct:" + v.Decl.Name.Name + "<" + CanonicalKey(v.Args) + ">"
	case *ast.TemplateTraitType:
		return "ttrait:" + v.Decl.Name.Name + "<" + CanonicalKey(v.Args) + ">"
	case *ast.TemplateTypenameRefType:
		return "tparam:" + v.Param.Name.Name
	case *ast.ConstArgType:
		return "const:" + canonicalConstExpr(v.Value)
	default:
		return "?"
	}
}

// canonicalConstExpr renders a const template argument's value expression
// for the cache key. Only literal and identifier forms are expected here —
// a const template argument is required to be a compile-time constant by
// the time it reaches instantiation.
func canonicalConstExpr(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.LiteralExpr:
		return v.Text
	case *ast.IdentifierExpr:
		return v.Name.Name
	case *ast.SolvedConstExpr:
		return canonicalConstExpr(v.Value)
	default:
		return "?"
	}
}

// Instantiate produces (or returns the cached) instantiation of a StructDecl
// generic, with the same limits as stated on Instantiator.
// Trait/Function instantiation follow the identical shape (see
// InstantiateTrait/InstantiateFunction) but are kept as separate entry
// points because their cache maps and body shapes differ per ast/decl.go.
func (in *Instantiator) Instantiate(generic *ast.StructDecl, args []ast.Type) (*ast.StructDecl, bool) {
	key := CanonicalKey(args)
	if generic.TemplateInstantiations == nil {
		generic.TemplateInstantiations = map[string]*ast.StructDecl{}
	}
	if cached, ok := generic.TemplateInstantiations[key]; ok {
		return cached, true
	}

	b := bind(generic.TemplateParams, args)

	placeholder := &ast.StructDecl{}
	placeholder.Name = generic.Name
	placeholder.OriginalDecl = generic
	generic.TemplateInstantiations[key] = placeholder

	copied := copyStructDecl(generic, b)
	*placeholder = *copied
	placeholder.OriginalDecl = generic

	if !in.checkWhereConts(generic.Conts, b) {
		delete(generic.TemplateInstantiations, key)
		return nil, false
	}

	in.reResolveStruct(placeholder)

	generic.TemplateInstantiations[key] = placeholder
	return placeholder, true
}

// InstantiateFunction mirrors Instantiate for a generic FunctionDecl.
func (in *Instantiator) InstantiateFunction(generic *ast.FunctionDecl, args []ast.Type) (*ast.FunctionDecl, bool) {
	key := CanonicalKey(args)
	if generic.TemplateInstantiations == nil {
		generic.TemplateInstantiations = map[string]*ast.FunctionDecl{}
	}
	if cached, ok := generic.TemplateInstantiations[key]; ok {
		return cached, true
	}

	b := bind(generic.TemplateParams, args)
	placeholder := &ast.FunctionDecl{}
	placeholder.Name = generic.Name
	placeholder.OriginalDecl = generic
	generic.TemplateInstantiations[key] = placeholder

	copied := copyFunctionDecl(generic, b)
	*placeholder = *copied
	placeholder.OriginalDecl = generic

	if !in.checkWhereConts(generic.Conts, b) {
		delete(generic.TemplateInstantiations, key)
		return nil, false
	}

	for _, p := range placeholder.Params {
		p.Type = in.resolver.ResolveType(p.Type)
	}
	placeholder.ReturnType = in.resolver.ResolveType(placeholder.ReturnType)

	generic.TemplateInstantiations[key] = placeholder
	return placeholder, true
}

// InstantiateTrait mirrors Instantiate for a generic TraitDecl.
func (in *Instantiator) InstantiateTrait(generic *ast.TraitDecl, args []ast.Type) (*ast.TraitDecl, bool) {
	key := CanonicalKey(args)
	if generic.TemplateInstantiations == nil {
		generic.TemplateInstantiations = map[string]*ast.TraitDecl{}
	}
	if cached, ok := generic.TemplateInstantiations[key]; ok {
		return cached, true
	}

	b := bind(generic.TemplateParams, args)
	placeholder := &ast.TraitDecl{}
	placeholder.Name = generic.Name
	placeholder.OriginalDecl = generic
	generic.TemplateInstantiations[key] = placeholder

	copied := copyTraitDecl(generic, b)
	*placeholder = *copied
	placeholder.OriginalDecl = generic

	if !in.checkWhereConts(generic.Conts, b) {
		delete(generic.TemplateInstantiations, key)
		return nil, false
	}

	for _, m := range placeholder.Members {
		reResolveDeclTypes(in.resolver, m)
	}

	generic.TemplateInstantiations[key] = placeholder
	return placeholder, true
}

func bind(params []*ast.TemplateParameterDecl, args []ast.Type) binding {
	b := binding{typeArgs: map[*ast.TemplateParameterDecl]ast.Type{}, constArgs: map[*ast.TemplateParameterDecl]ast.Expr{}}
	for i, p := range params {
		if i >= len(args) {
			break
		}
		if p.Kind == ast.TemplateParamConst {
			if ca, ok := args[i].(*ast.ConstArgType); ok {
				b.constArgs[p] = ca.Value
			}
			continue
		}
		b.typeArgs[p] = args[i]
	}
	return b
}

// checkWhereConts evaluates spec.md §4.5 step 5: WhereCont contracts
// against the substituted argument tuple. Each WhereCont's operand type is
// first substituted through b so CheckExtendsType sees the concrete
// argument, matching EvaluateWhere's expectation that substitution already
// ran.
func (in *Instantiator) checkWhereConts(conts []ast.Cont, b binding) bool {
	for _, c := range conts {
		w, ok := c.(*ast.WhereCont)
		if !ok {
			continue
		}
		substituted := substituteExprMaybe(w.Expr, b)
		sc := &ast.WhereCont{ContBase: w.ContBase, Expr: substituted}
		if !in.solver.EvaluateWhere(sc) {
			return false
		}
	}
	return true
}

func (in *Instantiator) reResolveStruct(sd *ast.StructDecl) {
	for i, inh := range sd.Inherits {
		sd.Inherits[i] = in.resolver.ResolveType(inh)
	}
	for _, m := range sd.Members {
		reResolveDeclTypes(in.resolver, m)
	}
}

func reResolveDeclTypes(r *resolve.Resolver, d ast.Decl) {
	switch t := d.(type) {
	case *ast.VariableDecl:
		t.Type = r.ResolveType(t.Type)
	case *ast.FunctionDecl:
		for _, p := range t.Params {
			p.Type = r.ResolveType(p.Type)
		}
		t.ReturnType = r.ResolveType(t.ReturnType)
	case *ast.ConstructorDecl:
		for _, p := range t.Params {
			p.Type = r.ResolveType(p.Type)
		}
	case *ast.PropertyDecl:
		t.Type = r.ResolveType(t.Type)
	case *ast.SubscriptOperatorDecl:
		for _, p := range t.Params {
			p.Type = r.ResolveType(p.Type)
		}
		t.ReturnType = r.ResolveType(t.ReturnType)
	}
}

// --- deep copy + substitution ---

func substituteType(t ast.Type, b binding) ast.Type {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case *ast.TemplateTypenameRefType:
		if concrete, ok := b.typeArgs[v.Param]; ok {
			return concrete
		}
		return v
	case *ast.PointerType:
		return &ast.PointerType{TypeBase: v.TypeBase, Inner: substituteType(v.Inner, b)}
	case *ast.ReferenceType:
		return &ast.ReferenceType{TypeBase: v.TypeBase, Inner: substituteType(v.Inner, b)}
	case *ast.FlatArrayType:
		return &ast.FlatArrayType{TypeBase: v.TypeBase, Element: substituteType(v.Element, b), LengthExpr: substituteExprMaybe(v.LengthExpr, b)}
	case *ast.DimensionType:
		return &ast.DimensionType{TypeBase: v.TypeBase, Inner: substituteType(v.Inner, b), Rank: v.Rank}
	case *ast.FunctionPointerType:
		params := make([]ast.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = substituteType(p, b)
		}
		return &ast.FunctionPointerType{TypeBase: v.TypeBase, Params: params, ReturnType: substituteType(v.ReturnType, b)}
	case *ast.TemplateStructType:
		args := make([]ast.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = substituteType(a, b)
		}
		return &ast.TemplateStructType{TypeBase: v.TypeBase, Decl: v.Decl, Args: args}
	case *ast.TemplateTraitType:
		args := make([]ast.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = substituteType(a, b)
		}
		return &ast.TemplateTraitType{TypeBase: v.TypeBase, Decl: v.Decl, Args: args}
	case *ast.UnresolvedType:
		args := make([]ast.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = substituteType(a, b)
		}
		return &ast.UnresolvedType{TypeBase: v.TypeBase, Path: v.Path, Name: v.Name, Args: args}
	default:
		return t
	}
}

// substituteExprMaybe deep-copies e (substituteExpr) and additionally
// rewrites its already-resolved ValueType, since pass R may have run before
// instantiation and left a TemplateTypenameRefType sitting in ValueTy that
// the raw node-kind switch below never sees.
func substituteExprMaybe(e ast.Expr, b binding) ast.Expr {
	if e == nil {
		return nil
	}
	cp := substituteExpr(e, b).(ast.Expr)
	if vt := e.ValueType(); vt != nil {
		cp.SetValueType(substituteType(vt, b))
	}
	return cp
}

// substituteExpr deep-copies e, substituting TemplateConstRefExpr per
// spec.md §4.5 step 4 and recursing through every composite expression kind
// the parser can produce. Returns ast.Expr wrapped as any so callers that
// only have an Expr (not a concrete variant) can call it uniformly.
func substituteExpr(e ast.Expr, b binding) any {
	if e == nil {
		return ast.Expr(nil)
	}
	switch v := e.(type) {
	case *ast.TemplateConstRefExpr:
		if concrete, ok := b.constArgs[v.Param]; ok {
			// Clone rather than reuse: the same const-arg expr can be
			// substituted at multiple TemplateConstRefExpr sites within one
			// instantiation, and later passes mutate ValueType in place.
			if lit, ok := concrete.(*ast.LiteralExpr); ok {
				cp := *lit
				return &cp
			}
			if id, ok := concrete.(*ast.IdentifierExpr); ok {
				cp := *id
				return &cp
			}
			return concrete
		}
		return v
	case *ast.LiteralExpr:
		cp := *v
		return &cp
	case *ast.IdentifierExpr:
		cp := *v
		args := make([]ast.Type, len(v.TemplateArgs))
		for i, a := range v.TemplateArgs {
			args[i] = substituteType(a, b)
		}
		cp.TemplateArgs = args
		return &cp
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{ExprBase: v.ExprBase, Op: v.Op, Left: substituteExprMaybe(v.Left, b), Right: substituteExprMaybe(v.Right, b)}
	case *ast.UnaryExpr:
		return &ast.UnaryExpr{ExprBase: v.ExprBase, Op: v.Op, Operand: substituteExprMaybe(v.Operand, b), Postfix: v.Postfix}
	case *ast.TernaryExpr:
		return &ast.TernaryExpr{ExprBase: v.ExprBase, Cond: substituteExprMaybe(v.Cond, b), Then: substituteExprMaybe(v.Then, b), Else: substituteExprMaybe(v.Else, b)}
	case *ast.ParenExpr:
		return &ast.ParenExpr{ExprBase: v.ExprBase, Inner: substituteExprMaybe(v.Inner, b)}
	case *ast.AsIsHasExpr:
		cp := &ast.AsIsHasExpr{ExprBase: v.ExprBase, Kind: v.Kind, Operand: substituteExprMaybe(v.Operand, b), Target: substituteType(v.Target, b)}
		if v.HasShape != nil {
			shape := *v.HasShape
			shape.Trait = substituteType(v.HasShape.Trait, b)
			shape.Type = substituteType(v.HasShape.Type, b)
			shape.Params = copyParams(v.HasShape.Params, b)
			cp.HasShape = &shape
		}
		return cp
	case *ast.MemberExpr:
		return &ast.MemberExpr{ExprBase: v.ExprBase, Receiver: substituteExprMaybe(v.Receiver, b), Name: v.Name, IsArrow: v.IsArrow}
	case *ast.FunctionCallExpr:
		args := make([]ast.CallArg, len(v.Args))
		for i, a := range v.Args {
			args[i] = ast.CallArg{Label: a.Label, Value: substituteExprMaybe(a.Value, b)}
		}
		return &ast.FunctionCallExpr{ExprBase: v.ExprBase, Callee: substituteExprMaybe(v.Callee, b), Args: args}
	case *ast.SubscriptCallExpr:
		args := make([]ast.CallArg, len(v.Args))
		for i, a := range v.Args {
			args[i] = ast.CallArg{Label: a.Label, Value: substituteExprMaybe(a.Value, b)}
		}
		return &ast.SubscriptCallExpr{ExprBase: v.ExprBase, Receiver: substituteExprMaybe(v.Receiver, b), Args: args}
	case *ast.ArrayLiteralExpr:
		elems := make([]ast.Expr, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = substituteExprMaybe(el, b)
		}
		return &ast.ArrayLiteralExpr{ExprBase: v.ExprBase, Elements: elems}
	case *ast.LabeledArgExpr:
		return &ast.LabeledArgExpr{ExprBase: v.ExprBase, Label: v.Label, Value: substituteExprMaybe(v.Value, b)}
	case *ast.VarDeclExpr:
		return &ast.VarDeclExpr{ExprBase: v.ExprBase, Decl: copyVariableDecl(v.Decl, b)}
	default:
		return v
	}
}

func copyStmt(s ast.Stmt, b binding) ast.Stmt {
	if s == nil {
		return nil
	}
	switch v := s.(type) {
	case *ast.CompoundStmt:
		stmts := make([]ast.Stmt, len(v.Stmts))
		for i, sub := range v.Stmts {
			stmts[i] = copyStmt(sub, b)
		}
		return &ast.CompoundStmt{StmtBase: v.StmtBase, Stmts: stmts}
	case *ast.IfStmt:
		then, _ := copyStmt(v.Then, b).(*ast.CompoundStmt)
		var els ast.Stmt
		if v.Else != nil {
			els = copyStmt(v.Else, b)
		}
		return &ast.IfStmt{StmtBase: v.StmtBase, Cond: substituteExprMaybe(v.Cond, b), Then: then, Else: els}
	case *ast.WhileStmt:
		body, _ := copyStmt(v.Body, b).(*ast.CompoundStmt)
		return &ast.WhileStmt{StmtBase: v.StmtBase, Cond: substituteExprMaybe(v.Cond, b), Body: body}
	case *ast.DoWhileStmt:
		body, _ := copyStmt(v.Body, b).(*ast.CompoundStmt)
		return &ast.DoWhileStmt{StmtBase: v.StmtBase, Body: body, Cond: substituteExprMaybe(v.Cond, b)}
	case *ast.ForStmt:
		body, _ := copyStmt(v.Body, b).(*ast.CompoundStmt)
		return &ast.ForStmt{
			StmtBase: v.StmtBase,
			Init:     copyStmt(v.Init, b),
			Cond:     substituteExprMaybe(v.Cond, b),
			Step:     copyStmt(v.Step, b),
			Body:     body,
		}
	case *ast.SwitchStmt:
		cases := make([]*ast.CaseStmt, len(v.Cases))
		for i, c := range v.Cases {
			values := make([]ast.Expr, len(c.Values))
			for j, val := range c.Values {
				values[j] = substituteExprMaybe(val, b)
			}
			body := make([]ast.Stmt, len(c.Body))
			for j, st := range c.Body {
				body[j] = copyStmt(st, b)
			}
			cases[i] = &ast.CaseStmt{StmtBase: c.StmtBase, Values: values, Body: body, Fallthrough: c.Fallthrough}
		}
		return &ast.SwitchStmt{StmtBase: v.StmtBase, Subject: substituteExprMaybe(v.Subject, b), Cases: cases}
	case *ast.BreakStmt:
		cp := *v
		return &cp
	case *ast.ContinueStmt:
		cp := *v
		return &cp
	case *ast.GotoStmt:
		cp := *v
		return &cp
	case *ast.ReturnStmt:
		return &ast.ReturnStmt{StmtBase: v.StmtBase, Value: substituteExprMaybe(v.Value, b)}
	case *ast.LabeledStmt:
		return &ast.LabeledStmt{StmtBase: v.StmtBase, Label: v.Label, Stmt: copyStmt(v.Stmt, b)}
	case *ast.DoCatchStmt:
		body, _ := copyStmt(v.Body, b).(*ast.CompoundStmt)
		catches := make([]*ast.CatchClause, len(v.Catches))
		for i, c := range v.Catches {
			cbody, _ := copyStmt(c.Body, b).(*ast.CompoundStmt)
			catches[i] = &ast.CatchClause{Range: c.Range, Name: c.Name, Type: substituteType(c.Type, b), Body: cbody}
		}
		var finally *ast.CompoundStmt
		if v.Finally != nil {
			finally, _ = copyStmt(v.Finally, b).(*ast.CompoundStmt)
		}
		return &ast.DoCatchStmt{StmtBase: v.StmtBase, Body: body, Catches: catches, Finally: finally}
	case *ast.ExprStmt:
		return &ast.ExprStmt{StmtBase: v.StmtBase, Expr: substituteExprMaybe(v.Expr, b)}
	case *ast.VarDeclStmt:
		return &ast.VarDeclStmt{StmtBase: v.StmtBase, Decl: copyVariableDecl(v.Decl, b)}
	default:
		return s
	}
}

func copyVariableDecl(d *ast.VariableDecl, b binding) *ast.VariableDecl {
	if d == nil {
		return nil
	}
	cp := &ast.VariableDecl{
		DeclCommon: d.DeclCommon,
		Type:       substituteType(d.Type, b),
		Init:       substituteExprMaybe(d.Init, b),
		IsConst:    d.IsConst,
		IsLet:      d.IsLet,
	}
	return cp
}

func copyParams(params []*ast.ParameterDecl, b binding) []*ast.ParameterDecl {
	out := make([]*ast.ParameterDecl, len(params))
	for i, p := range params {
		out[i] = &ast.ParameterDecl{
			DeclCommon: p.DeclCommon,
			Label:      p.Label,
			Type:       substituteType(p.Type, b),
			RefKind:    p.RefKind,
			Default:    substituteExprMaybe(p.Default, b),
		}
	}
	return out
}

func copyBody(body []ast.Stmt, b binding) []ast.Stmt {
	if body == nil {
		return nil
	}
	out := make([]ast.Stmt, len(body))
	for i, s := range body {
		out[i] = copyStmt(s, b)
	}
	return out
}

func copyConts(conts []ast.Cont, b binding) []ast.Cont {
	out := make([]ast.Cont, len(conts))
	for i, c := range conts {
		switch t := c.(type) {
		case *ast.RequiresCont:
			out[i] = &ast.RequiresCont{ContBase: t.ContBase, Expr: substituteExprMaybe(t.Expr, b)}
		case *ast.EnsuresCont:
			out[i] = &ast.EnsuresCont{ContBase: t.ContBase, Expr: substituteExprMaybe(t.Expr, b)}
		case *ast.ThrowsCont:
			out[i] = &ast.ThrowsCont{ContBase: t.ContBase, Type: substituteType(t.Type, b)}
		case *ast.WhereCont:
			out[i] = &ast.WhereCont{ContBase: t.ContBase, Expr: substituteExprMaybe(t.Expr, b)}
		default:
			out[i] = c
		}
	}
	return out
}

func copyMembers(members []ast.Decl, b binding) []ast.Decl {
	out := make([]ast.Decl, len(members))
	for i, m := range members {
		out[i] = copyDecl(m, b)
	}
	return out
}

func copyDecl(d ast.Decl, b binding) ast.Decl {
	switch t := d.(type) {
	case *ast.VariableDecl:
		return copyVariableDecl(t, b)
	case *ast.FunctionDecl:
		return copyFunctionDecl(t, b)
	case *ast.ConstructorDecl:
		return &ast.ConstructorDecl{DeclCommon: t.DeclCommon, Kind: t.Kind, Params: copyParams(t.Params, b), Body: copyBody(t.Body, b), Conts: copyConts(t.Conts, b)}
	case *ast.DestructorDecl:
		return &ast.DestructorDecl{DeclCommon: t.DeclCommon, Body: copyBody(t.Body, b)}
	case *ast.PropertyDecl:
		cp := &ast.PropertyDecl{DeclCommon: t.DeclCommon, Type: substituteType(t.Type, b)}
		if t.Get != nil {
			cp.Get = &ast.PropertyGetterDecl{DeclCommon: t.Get.DeclCommon, RefKind: t.Get.RefKind, Body: copyBody(t.Get.Body, b)}
		}
		if t.Set != nil {
			cp.Set = &ast.PropertySetterDecl{DeclCommon: t.Set.DeclCommon, Body: copyBody(t.Set.Body, b)}
		}
		return cp
	case *ast.SubscriptOperatorDecl:
		cp := &ast.SubscriptOperatorDecl{DeclCommon: t.DeclCommon, Params: copyParams(t.Params, b), ReturnType: substituteType(t.ReturnType, b)}
		if t.Get != nil {
			cp.Get = &ast.SubscriptGetterDecl{DeclCommon: t.Get.DeclCommon, RefKind: t.Get.RefKind, Body: copyBody(t.Get.Body, b)}
		}
		if t.Set != nil {
			cp.Set = &ast.SubscriptSetterDecl{DeclCommon: t.Set.DeclCommon, Body: copyBody(t.Set.Body, b)}
		}
		return cp
	case *ast.StructDecl:
		return copyStructDecl(t, b)
	case *ast.TraitDecl:
		return copyTraitDecl(t, b)
	case *ast.EnumDecl:
		return copyEnumDecl(t, b)
	case *ast.ExtensionDecl:
		return &ast.ExtensionDecl{DeclCommon: t.DeclCommon, ExtendedType: substituteType(t.ExtendedType, b), Inherits: substituteTypeList(t.Inherits, b), Members: copyMembers(t.Members, b)}
	case *ast.TypeAliasDecl:
		return &ast.TypeAliasDecl{DeclCommon: t.DeclCommon, TemplateParams: t.TemplateParams, Aliased: substituteType(t.Aliased, b)}
	default:
		return d
	}
}

func substituteTypeList(types []ast.Type, b binding) []ast.Type {
	out := make([]ast.Type, len(types))
	for i, t := range types {
		out[i] = substituteType(t, b)
	}
	return out
}

func copyFunctionDecl(t *ast.FunctionDecl, b binding) *ast.FunctionDecl {
	return &ast.FunctionDecl{
		DeclCommon:     t.DeclCommon,
		Params:         copyParams(t.Params, b),
		ReturnType:     substituteType(t.ReturnType, b),
		Body:           copyBody(t.Body, b),
		TemplateParams: t.TemplateParams,
		Conts:          copyConts(t.Conts, b),
	}
}

func copyStructDecl(t *ast.StructDecl, b binding) *ast.StructDecl {
	return &ast.StructDecl{
		DeclCommon:     t.DeclCommon,
		Kind:           t.Kind,
		Inherits:       substituteTypeList(t.Inherits, b),
		Members:        copyMembers(t.Members, b),
		TemplateParams: t.TemplateParams,
		Conts:          copyConts(t.Conts, b),
	}
}

func copyTraitDecl(t *ast.TraitDecl, b binding) *ast.TraitDecl {
	return &ast.TraitDecl{
		DeclCommon:     t.DeclCommon,
		Inherits:       substituteTypeList(t.Inherits, b),
		Members:        copyMembers(t.Members, b),
		TemplateParams: t.TemplateParams,
		Conts:          copyConts(t.Conts, b),
	}
}

func copyEnumDecl(t *ast.EnumDecl, b binding) *ast.EnumDecl {
	consts := make([]*ast.EnumConstDecl, len(t.Consts))
	for i, c := range t.Consts {
		consts[i] = &ast.EnumConstDecl{DeclCommon: c.DeclCommon, Value: substituteExprMaybe(c.Value, b)}
	}
	return &ast.EnumDecl{
		DeclCommon:     t.DeclCommon,
		UnderlyingType: substituteType(t.UnderlyingType, b),
		Consts:         consts,
		Members:        copyMembers(t.Members, b),
	}
}

// sortedCacheKeys returns a generic decl's instantiation cache keys in
// sorted order, used by internal/codegen to emit instantiations
// deterministically regardless of Go's randomized map iteration.
func sortedCacheKeys[V any](cache map[string]V) []string {
	keys := make([]string, 0, len(cache))
	for k := range cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedStructInstantiations returns generic's cached instantiations in
// deterministic canonical-key order.
func SortedStructInstantiations(generic *ast.StructDecl) []*ast.StructDecl {
	keys := sortedCacheKeys(generic.TemplateInstantiations)
	out := make([]*ast.StructDecl, len(keys))
	for i, k := range keys {
		out[i] = generic.TemplateInstantiations[k]
	}
	return out
}
