package codegen

import "codeberg.org/saruga/gulc/internal/ast"

// IsStructReturning reports whether retType is a struct returned by value,
// which requires the sret rewrite (spec.md §4.8: "struct-returning
// functions are rewritten void-returning with a prepended sret pointer
// parameter").
func IsStructReturning(retType ast.Type) bool {
	_, ok := retType.(*ast.StructType)
	return ok
}

// SretPlan describes how one function's emitted parameter list is ordered:
// an optional hidden sret pointer first, then an optional implicit self for
// member functions, then the function's declared parameters.
type SretPlan struct {
	HasSret  bool
	HasSelf  bool
	SretType ast.Type
}

// PlanSret computes the sret/self ordering for one function. isMember
// distinguishes a free function from a struct method, since methods
// additionally receive an implicit self — placed after sret, per spec.md
// §4.8: "struct members get self after sret".
func PlanSret(retType ast.Type, isMember bool) SretPlan {
	if !IsStructReturning(retType) {
		return SretPlan{HasSelf: isMember}
	}
	return SretPlan{HasSret: true, HasSelf: isMember, SretType: retType}
}

// LeadingParamCount returns how many emitted parameter slots the plan occupies
// before the function's own declared parameters begin.
func (p SretPlan) LeadingParamCount() int {
	n := 0
	if p.HasSret {
		n++
	}
	if p.HasSelf {
		n++
	}
	return n
}

// ParamIsByPointer reports whether a parameter of the given passing
// convention is passed as a pointer at the emitted-call level (spec.md
// §4.8: "val -> copy, in/out/inout -> pointer").
func ParamIsByPointer(k ast.ParamRefKind) bool {
	return k != ast.ParamVal
}
