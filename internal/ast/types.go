package ast

// Qualifier is the mutability qualifier carried by every Type (spec.md §3).
// Unassigned on a resolved type means "inherit from context"; Mut and Immut
// never compose (the parser rejects "mut immut").
type Qualifier uint8

const (
	Unassigned Qualifier = iota
	Mut
	Immut
)

func (q Qualifier) String() string {
	switch q {
	case Mut:
		return "mut"
	case Immut:
		return "immut"
	default:
		return ""
	}
}

// Type is the tagged variant of gulc's Type family. Every concrete type
// below embeds TypeBase and implements the unexported isType marker.
type Type interface {
	isType()
	Qual() Qualifier
	SetQual(Qualifier)
	IsLValue() bool
	SetLValue(bool)
	SrcRange() Range
}

// TypeBase carries the fields common to every Type variant: the qualifier,
// the lvalue flag ("whether the typed expression denotes a storage
// location"), and the source range.
type TypeBase struct {
	Qualifier Qualifier
	LValue    bool
	Range     Range
}

func (t *TypeBase) Qual() Qualifier       { return t.Qualifier }
func (t *TypeBase) SetQual(q Qualifier)   { t.Qualifier = q }
func (t *TypeBase) IsLValue() bool        { return t.LValue }
func (t *TypeBase) SetLValue(v bool)      { t.LValue = v }
func (t *TypeBase) SrcRange() Range       { return t.Range }

// --- Primitive ---

// BoolType is the boolean primitive.
type BoolType struct{ TypeBase }

func (*BoolType) isType() {}

// BuiltInType is a fixed-width numeric primitive (i8..i64, u8..u64,
// f16/32/64), or void.
type BuiltInType struct {
	TypeBase
	Name      string
	SizeBytes int
	Signed    bool
	Floating  bool
	IsVoid    bool
}

func (*BuiltInType) isType() {}

// --- Compound ---

// PointerType is `T*`-equivalent: an owning or non-owning pointer to inner.
type PointerType struct {
	TypeBase
	Inner Type
}

func (*PointerType) isType() {}

// ReferenceType is a language-level reference to Inner.
type ReferenceType struct {
	TypeBase
	Inner Type
}

func (*ReferenceType) isType() {}

// FlatArrayType is `T[n]`: a single-dimension array with a length
// expression (kept unresolved/resolved as an Expr, see expr.go).
type FlatArrayType struct {
	TypeBase
	Element    Type
	LengthExpr Expr
}

func (*FlatArrayType) isType() {}

// DimensionType is `T[,,...]`: a multi-dimensional array of fixed rank
// (GLOSSARY: "a multi-dimensional array whose rank is fixed at declaration").
type DimensionType struct {
	TypeBase
	Inner Type
	Rank  int
}

func (*DimensionType) isType() {}

// FunctionPointerType is a first-class function value's type.
type FunctionPointerType struct {
	TypeBase
	Params     []Type
	ReturnType Type
}

func (*FunctionPointerType) isType() {}

// --- Nominal ---

// StructType references a resolved StructDecl (covers struct/class/union,
// spec.md §3's "one StructDecl variant with a kind tag").
type StructType struct {
	TypeBase
	Decl *StructDecl
}

func (*StructType) isType() {}

// TraitType references a resolved TraitDecl.
type TraitType struct {
	TypeBase
	Decl *TraitDecl
}

func (*TraitType) isType() {}

// EnumType references a resolved EnumDecl.
type EnumType struct {
	TypeBase
	Decl *EnumDecl
}

func (*EnumType) isType() {}

// AliasType references a resolved TypeAliasDecl.
type AliasType struct {
	TypeBase
	Decl *TypeAliasDecl
}

func (*AliasType) isType() {}

// --- Template ---

// TemplateStructType is a StructDecl template applied to concrete Args.
type TemplateStructType struct {
	TypeBase
	Decl *StructDecl
	Args []Type
}

func (*TemplateStructType) isType() {}

// TemplateTraitType is a TraitDecl template applied to concrete Args.
type TemplateTraitType struct {
	TypeBase
	Decl *TraitDecl
	Args []Type
}

func (*TemplateTraitType) isType() {}

// TemplatedType is an unresolved-overload placeholder: a template reference
// whose Candidates haven't yet been narrowed to one decl (spec.md §4.4,
// "packaged into a Templated{candidates, args} placeholder, deferred for
// S").
type TemplatedType struct {
	TypeBase
	Candidates []Decl
	Args       []Type
}

func (*TemplatedType) isType() {}

// TemplateTypenameRefType is a reference to an in-scope `typename` template
// parameter, not yet substituted.
type TemplateTypenameRefType struct {
	TypeBase
	Param *TemplateParameterDecl
}

func (*TemplateTypenameRefType) isType() {}

// ConstArgType wraps a const template argument's value expression so it can
// occupy a template-argument slot alongside typename arguments (every Args
// list in this package is uniformly []Type, e.g. TemplateStructType.Args,
// IdentifierExpr.TemplateArgs). Produced by the parser/resolver for a
// `const` template-parameter position; unwrapped by internal/instantiate
// when substituting TemplateConstRefExpr.
type ConstArgType struct {
	TypeBase
	Value Expr
}

func (*ConstArgType) isType() {}

// --- Relational ---

// DependentType is "an inner nominal viewed through an un-instantiated
// template container" (GLOSSARY). Container carries the enclosing
// containerTemplateType; Inner is the resolved nominal found underneath it.
type DependentType struct {
	TypeBase
	Container Type
	Inner     Type
}

func (*DependentType) isType() {}

// UnresolvedNestedType is an `A.B` path fragment awaiting resolution of its
// container before the final segment can be looked up.
type UnresolvedNestedType struct {
	TypeBase
	Container Type
	Name      Identifier
	Args      []Type
}

func (*UnresolvedNestedType) isType() {}

// SelfType is the `Self` placeholder, resolved to the enclosing type at use.
type SelfType struct{ TypeBase }

func (*SelfType) isType() {}

// UnresolvedType is a type as the parser produced it: a dotted Path, a
// terminal Name, and optional template Args, not yet looked up by R.
type UnresolvedType struct {
	TypeBase
	Path []Identifier
	Name Identifier
	Args []Type
}

func (*UnresolvedType) isType() {}
