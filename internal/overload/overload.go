// Package overload implements signature comparison and overload resolution.
//
// Its three comparison primitives (compareFunctions,
// compareArgumentsToParameters, compareTemplateArgumentsToParameters) are
// free functions operating on gulc's ast package, keeping comparison/matching
// logic in small pure functions separate from the declaration-checking tree
// walk.
package overload

import "codeberg.org/saruga/gulc/internal/ast"

// CompareResult is compareFunctions' verdict (spec.md §4.6).
type CompareResult uint8

const (
	Different CompareResult = iota
	Similar
	Exact
)

// ArgMatchResult is compareArgumentsToParameters' verdict (spec.md §4.6).
type ArgMatchResult uint8

const (
	Fail ArgMatchResult = iota
	DefaultValues
	Castable
	Match
)

// Signature is the shape compareFunctions/compareArgumentsToParameters
// operate over: a uniform view across FunctionDecl, OperatorDecl,
// CallOperatorDecl, ConstructorDecl, and SubscriptOperatorDecl, since
// spec.md §4.6 treats them identically for comparison purposes.
type Signature struct {
	Name     string
	IsStatic bool
	IsMut    bool
	Params   []*ast.ParameterDecl
}

// FuncSignature builds a Signature from any of the callable Decl kinds.
func FuncSignature(d ast.Decl) Signature {
	switch t := d.(type) {
	case *ast.FunctionDecl:
		return Signature{Name: t.Name.Name, IsStatic: t.Modifiers.Has(ast.ModStatic), Params: t.Params}
	case *ast.OperatorDecl:
		return Signature{Name: t.Symbol, Params: t.Params}
	case *ast.CallOperatorDecl:
		return Signature{Params: t.Params}
	case *ast.ConstructorDecl:
		return Signature{Name: "init", Params: t.Params}
	case *ast.SubscriptOperatorDecl:
		return Signature{Params: t.Params}
	}
	return Signature{}
}

// compareFunctions decides whether two declarations' signatures are Exact,
// Similar (collide under default-argument expansion), or Different
// (spec.md §4.6, used for redefinition detection by internal/declcheck's
// later typed pass).
func CompareFunctions(l, r Signature, allowSimilarity bool) CompareResult {
	if l.Name != r.Name || l.IsStatic != r.IsStatic || l.IsMut != r.IsMut {
		return Different
	}
	if sameParamList(l.Params, r.Params) {
		return Exact
	}
	if !allowSimilarity {
		return Different
	}
	if collidesUnderDefaults(l.Params, r.Params) || collidesUnderDefaults(r.Params, l.Params) {
		return Similar
	}
	return Different
}

func sameParamList(a, b []*ast.ParameterDecl) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Label.Name != b[i].Label.Name || !ast.Same(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

// collidesUnderDefaults reports whether a call matching short's full
// parameter list would also be accepted by long (long's extra tail
// parameters are all optional).
func collidesUnderDefaults(short, long []*ast.ParameterDecl) bool {
	if len(short) > len(long) {
		return false
	}
	for i := range short {
		if short[i].Label.Name != long[i].Label.Name || !ast.Same(short[i].Type, long[i].Type) {
			return false
		}
	}
	for i := len(short); i < len(long); i++ {
		if !long[i].IsOptional() {
			return false
		}
	}
	return true
}

// CompareArgumentsToParameters implements spec.md §4.6's
// compareArgsToParams: Match (exact types and labels), Castable (implicit
// conversion available for every arg), DefaultValues (fewer args than
// params but every unmatched param is optional), or Fail.
func CompareArgumentsToParameters(params []*ast.ParameterDecl, args []ast.CallArg, convertible func(from, to ast.Type) bool) ArgMatchResult {
	if len(args) > len(params) {
		return Fail
	}
	best := Match
	downgrade := func(to ArgMatchResult) {
		if to < best {
			best = to
		}
	}
	for i, param := range params {
		if i >= len(args) {
			if !param.IsOptional() {
				return Fail
			}
			downgrade(DefaultValues)
			continue
		}
		arg := args[i]
		if !labelsMatch(param.Label, arg.Label) {
			return Fail
		}
		argType := ast.Type(nil)
		if arg.Value != nil {
			argType = arg.Value.ValueType()
		}
		if ast.Same(argType, param.Type) {
			continue
		}
		if convertible != nil && convertible(argType, param.Type) {
			downgrade(Castable)
			continue
		}
		return Fail
	}
	return best
}

func labelsMatch(paramLabel ast.Identifier, argLabel *ast.Identifier) bool {
	if paramLabel.IsAnonymous() {
		return argLabel == nil
	}
	return argLabel != nil && argLabel.Name == paramLabel.Name
}

// TemplateArgMatch is one parameter's result from
// CompareTemplateArgumentsToParameters: its ArgMatchResult plus the
// specialization-strength integer of spec.md §4.6 (0 = exact, 1..k =
// inheritance hops). A non-specialized typename param ("∞") is marked by
// Unspecialized, with Specialization left at 0.
type TemplateArgMatch struct {
	Result           ArgMatchResult
	Specialization   int
	Unspecialized    bool
}

// CompareTemplateArgumentsToParameters additionally computes, per
// parameter, the specialization strength used to break ties among multiple
// viable template candidates (spec.md §4.6).
func CompareTemplateArgumentsToParameters(tparams []*ast.TemplateParameterDecl, targs []ast.Type) []TemplateArgMatch {
	out := make([]TemplateArgMatch, len(tparams))
	for i, tp := range tparams {
		if i >= len(targs) {
			out[i] = TemplateArgMatch{Result: Fail}
			continue
		}
		arg := targs[i]
		if tp.Kind == ast.TemplateParamConst {
			out[i] = TemplateArgMatch{Result: Match}
			continue
		}
		if len(tp.Constraints) == 0 {
			out[i] = TemplateArgMatch{Result: Match, Unspecialized: true}
			continue
		}
		best := -1
		for _, c := range tp.Constraints {
			if ast.Same(arg, c) {
				best = 0
				break
			}
			d := ast.InheritanceDistance(arg, c)
			if d >= 0 && (best < 0 || d < best) {
				best = d
			}
		}
		if best < 0 {
			out[i] = TemplateArgMatch{Result: Fail}
			continue
		}
		out[i] = TemplateArgMatch{Result: Match, Specialization: best}
	}
	return out
}

// TotalSpecialization sums the specialization strengths of a template-match
// result set; lower totals win (spec.md §4.6). An unspecialized parameter
// contributes the largest possible weight rather than 0, so specialized
// candidates are always preferred.
func TotalSpecialization(matches []TemplateArgMatch) int {
	total := 0
	for _, m := range matches {
		if m.Unspecialized {
			total += 1 << 20
			continue
		}
		total += m.Specialization
	}
	return total
}

// AllMatch reports whether every entry in matches succeeded.
func AllMatch(matches []TemplateArgMatch) bool {
	for _, m := range matches {
		if m.Result == Fail {
			return false
		}
	}
	return true
}

// Candidate pairs a callable decl with its computed match category, the
// unit Select ranks.
type Candidate struct {
	Decl   ast.Decl
	Result ArgMatchResult
	// TemplateSpecialization is 0 for non-template candidates, and the
	// summed specialization strength (lower wins) for template candidates.
	TemplateSpecialization int
}

// Select implements spec.md §4.6's overload-selection lexicographic order:
// Match > Castable > DefaultValues, ties broken by specialization strength.
// Returns the winning candidate and ok=false if there is none or the
// selection is ambiguous (residual tie).
func Select(candidates []Candidate) (Candidate, bool) {
	var best []Candidate
	bestRank := Fail
	for _, c := range candidates {
		if c.Result == Fail {
			continue
		}
		switch {
		case c.Result > bestRank:
			bestRank = c.Result
			best = []Candidate{c}
		case c.Result == bestRank:
			best = append(best, c)
		}
	}
	if len(best) == 0 {
		return Candidate{}, false
	}
	if len(best) == 1 {
		return best[0], true
	}
	minSpec := best[0].TemplateSpecialization
	for _, c := range best[1:] {
		if c.TemplateSpecialization < minSpec {
			minSpec = c.TemplateSpecialization
		}
	}
	var tied []Candidate
	for _, c := range best {
		if c.TemplateSpecialization == minSpec {
			tied = append(tied, c)
		}
	}
	if len(tied) != 1 {
		return Candidate{}, false
	}
	return tied[0], true
}

// CallableViaCall reports whether t can be functor-dispatched (spec.md
// §4.6's "functor dispatch"): t is a FunctionPointer matching args directly,
// or a Struct/Trait with at least one non-static call operator whose
// parameters match. Returns the selected call-operator decl when found
// through the struct/trait path.
func CallableViaCall(t ast.Type, args []ast.CallArg, convertible func(from, to ast.Type) bool) (*ast.CallOperatorDecl, ArgMatchResult) {
	members, ok := callCandidateMembers(t)
	if !ok {
		return nil, Fail
	}
	var best *ast.CallOperatorDecl
	bestRank := Fail
	for _, m := range members {
		call, ok := m.(*ast.CallOperatorDecl)
		if !ok || call.Modifiers.Has(ast.ModStatic) {
			continue
		}
		r := CompareArgumentsToParameters(call.Params, args, convertible)
		if r > bestRank {
			bestRank = r
			best = call
		}
	}
	return best, bestRank
}

func callCandidateMembers(t ast.Type) ([]ast.Decl, bool) {
	switch ct := t.(type) {
	case *ast.StructType:
		return ct.Decl.Members, true
	case *ast.TraitType:
		return ct.Decl.Members, true
	case *ast.TemplateStructType:
		return ct.Decl.Members, true
	case *ast.TemplateTraitType:
		return ct.Decl.Members, true
	}
	return nil, false
}
