package ast

// Same implements the type-equivalence relation of spec.md §4.4: two types
// are "same" when they have identical variants and, recursively, identical
// structure. This underlies P3 (spec.md §8): same(T,T) is always true,
// same is symmetric, and same(Ptr(T),Ptr(U)) iff same(T,U) and the
// qualifiers match.
func Same(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch at := a.(type) {
	case *BoolType:
		_, ok := b.(*BoolType)
		return ok
	case *BuiltInType:
		bt, ok := b.(*BuiltInType)
		return ok && at.Name == bt.Name
	case *PointerType:
		bt, ok := b.(*PointerType)
		return ok && Same(at.Inner, bt.Inner) && at.Qual() == bt.Qual()
	case *ReferenceType:
		bt, ok := b.(*ReferenceType)
		return ok && Same(at.Inner, bt.Inner) && at.Qual() == bt.Qual()
	case *FlatArrayType:
		bt, ok := b.(*FlatArrayType)
		return ok && Same(at.Element, bt.Element)
	case *DimensionType:
		bt, ok := b.(*DimensionType)
		return ok && Same(at.Inner, bt.Inner) && at.Rank == bt.Rank
	case *FunctionPointerType:
		bt, ok := b.(*FunctionPointerType)
		if !ok || len(at.Params) != len(bt.Params) || !Same(at.ReturnType, bt.ReturnType) {
			return false
		}
		for i := range at.Params {
			if !Same(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return true
	case *StructType:
		bt, ok := b.(*StructType)
		return ok && at.Decl == bt.Decl
	case *TraitType:
		bt, ok := b.(*TraitType)
		return ok && at.Decl == bt.Decl
	case *EnumType:
		bt, ok := b.(*EnumType)
		return ok && at.Decl == bt.Decl
	case *AliasType:
		bt, ok := b.(*AliasType)
		return ok && at.Decl == bt.Decl
	case *TemplateStructType:
		bt, ok := b.(*TemplateStructType)
		return ok && at.Decl == bt.Decl && sameArgTuple(at.Args, bt.Args)
	case *TemplateTraitType:
		bt, ok := b.(*TemplateTraitType)
		return ok && at.Decl == bt.Decl && sameArgTuple(at.Args, bt.Args)
	case *TemplateTypenameRefType:
		bt, ok := b.(*TemplateTypenameRefType)
		if !ok {
			return false
		}
		// Under the AllTemplatesAreSame plan (spec.md §4.4) used for
		// template-function signature matching, any two typename
		// references compare same even across distinct parameter decls.
		return at.Param == bt.Param || AllTemplatesAreSame
	case *DependentType:
		bt, ok := b.(*DependentType)
		return ok && Same(at.Container, bt.Container) && Same(at.Inner, bt.Inner)
	case *SelfType:
		_, ok := b.(*SelfType)
		return ok
	case *UnresolvedNestedType, *UnresolvedType, *TemplatedType:
		return false // never same; must be resolved first
	default:
		return false
	}
}

// AllTemplatesAreSame toggles the relaxed typename-reference equivalence
// used only while pass S compares template-function signatures against each
// other for redefinition purposes (spec.md §4.4). It defaults to false, and
// no package in gulc sets it.
var AllTemplatesAreSame bool

func sameArgTuple(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Same(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Subtype implements the `A : B` subtype check of spec.md §4.4: same types,
// or A's inheritance closure contains B, or A is a template-typename
// reference whose constraints reach B.
func Subtype(a, b Type) bool {
	if Same(a, b) {
		return true
	}
	switch at := a.(type) {
	case *StructType:
		return inheritsClosureContains(at.Decl.Inherits, b)
	case *TraitType:
		return inheritsClosureContains(at.Decl.Inherits, b)
	case *TemplateStructType:
		return inheritsClosureContains(at.Decl.Inherits, b)
	case *TemplateTraitType:
		return inheritsClosureContains(at.Decl.Inherits, b)
	case *TemplateTypenameRefType:
		return inheritsClosureContains(at.Param.Constraints, b)
	case *DependentType:
		return Subtype(at.Inner, b)
	}
	return false
}

func inheritsClosureContains(list []Type, target Type) bool {
	for _, t := range list {
		if Same(t, target) {
			return true
		}
		if Subtype(t, target) {
			return true
		}
	}
	return false
}

// InheritanceDistance returns the number of inheritance hops from a to b
// along a's inherits chain (0 if Same(a,b)), or -1 if b is unreachable. Used
// by internal/overload to compute specialization strength (spec.md §4.6,
// §8's scenario 3).
func InheritanceDistance(a, b Type) int {
	if Same(a, b) {
		return 0
	}
	var inherits []Type
	switch at := a.(type) {
	case *StructType:
		inherits = at.Decl.Inherits
	case *TraitType:
		inherits = at.Decl.Inherits
	case *TemplateStructType:
		inherits = at.Decl.Inherits
	case *TemplateTraitType:
		inherits = at.Decl.Inherits
	case *TemplateTypenameRefType:
		inherits = at.Param.Constraints
	case *DependentType:
		return InheritanceDistance(at.Inner, b)
	default:
		return -1
	}
	best := -1
	for _, t := range inherits {
		d := InheritanceDistance(t, b)
		if d < 0 {
			continue
		}
		if best < 0 || d+1 < best {
			best = d + 1
		}
	}
	return best
}
