package ast

// Visibility is a declaration's access level (spec.md §3).
type Visibility uint8

const (
	VisUnassigned Visibility = iota
	VisPublic
	VisPrivate
	VisProtected
	VisInternal
	VisProtectedInternal
)

// Modifier is a bit-flag enum with a Has-style query method.
type Modifier uint16

const (
	ModStatic Modifier = 1 << iota
	ModExtern
	ModMut
	ModVolatile
	ModAbstract
	ModVirtual
	ModOverride
	ModPrototype
)

// Has reports whether m includes flag.
func (m Modifier) Has(flag Modifier) bool {
	return m&flag != 0
}

// StructKind distinguishes struct/class/union, spec.md §3's "one StructDecl
// variant with a kind tag."
type StructKind uint8

const (
	KindStruct StructKind = iota
	KindClass
	KindUnion
)

// ConstructorKind distinguishes init/init copy/init move.
type ConstructorKind uint8

const (
	CtorNormal ConstructorKind = iota
	CtorCopy
	CtorMove
)

// DeclCommon is embedded by every Decl variant and carries the fields every
// declaration has per spec.md §3.
type DeclCommon struct {
	Name       Identifier
	Range      Range
	Visibility Visibility
	Modifiers  Modifier
	IsConstExpr bool

	// Container is a non-owning back-pointer to the immediately enclosing
	// Decl, or nil at file scope. Set by pass V (internal/declcheck).
	Container Decl
	// ContainedInTemplate is set by pass V when an enclosing container is a
	// template declaration.
	ContainedInTemplate bool
	// ContainerTemplateType preserves the template view of Container so
	// later substitution (pass I) can rebind through it.
	ContainerTemplateType Type

	// OriginalDecl is set on materialized template instantiations, pointing
	// back at the generic they were cloned from.
	OriginalDecl Decl

	Attrs []Attr
}

func (d *DeclCommon) declCommon() *DeclCommon { return d }

// Decl is the tagged variant of spec.md §3's Decl family.
type Decl interface {
	isDecl()
	Common() *DeclCommon
}

// NamespaceDecl groups declarations under a dotted qualified name.
type NamespaceDecl struct {
	DeclCommon
	Members []Decl
}

func (*NamespaceDecl) isDecl()             {}
func (d *NamespaceDecl) Common() *DeclCommon { return &d.DeclCommon }

// ImportDecl is `import path [as alias]`.
type ImportDecl struct {
	DeclCommon
	Path    []Identifier
	Alias   *Identifier
	Resolved *NamespaceDecl
}

func (*ImportDecl) isDecl()               {}
func (d *ImportDecl) Common() *DeclCommon { return &d.DeclCommon }

// StructDecl covers struct/class/union (Kind distinguishes them), optionally
// a template when TemplateParams is non-empty.
type StructDecl struct {
	DeclCommon
	Kind           StructKind
	Inherits       []Type
	Members        []Decl
	TemplateParams []*TemplateParameterDecl
	Conts          []Cont

	// VTable is non-empty when the struct has virtual dispatch surface
	// (spec.md §4.8); populated by internal/codegen's layout pass.
	VTable []Decl

	// TemplateInstantiations memoizes instantiations of this generic decl,
	// keyed by a canonical argument-tuple string (spec.md §5). Populated
	// only when TemplateParams is non-empty.
	TemplateInstantiations map[string]*StructDecl

	CachedCopyConstructor *ConstructorDecl
	CachedMoveConstructor *ConstructorDecl
}

func (*StructDecl) isDecl()               {}
func (d *StructDecl) Common() *DeclCommon { return &d.DeclCommon }

// IsTemplate reports whether this struct declares template parameters.
func (d *StructDecl) IsTemplate() bool { return len(d.TemplateParams) > 0 }

// TraitDecl is a trait declaration, optionally templated.
type TraitDecl struct {
	DeclCommon
	Inherits       []Type
	Members        []Decl
	TemplateParams []*TemplateParameterDecl
	Conts          []Cont

	TemplateInstantiations map[string]*TraitDecl
}

func (*TraitDecl) isDecl()               {}
func (d *TraitDecl) Common() *DeclCommon { return &d.DeclCommon }

// IsTemplate reports whether this trait declares template parameters.
func (d *TraitDecl) IsTemplate() bool { return len(d.TemplateParams) > 0 }

// EnumDecl is an enum declaration (never a template, spec.md §4.3).
type EnumDecl struct {
	DeclCommon
	UnderlyingType Type
	Consts         []*EnumConstDecl
	Members        []Decl
}

func (*EnumDecl) isDecl()               {}
func (d *EnumDecl) Common() *DeclCommon { return &d.DeclCommon }

// EnumConstDecl is one `case Name [= expr]` entry.
type EnumConstDecl struct {
	DeclCommon
	Value Expr
}

func (*EnumConstDecl) isDecl()               {}
func (d *EnumConstDecl) Common() *DeclCommon { return &d.DeclCommon }

// FunctionDecl is a free or member function, optionally templated.
type FunctionDecl struct {
	DeclCommon
	Params         []*ParameterDecl
	ReturnType     Type
	Body           []Stmt
	TemplateParams []*TemplateParameterDecl
	Conts          []Cont

	TemplateInstantiations map[string]*FunctionDecl
}

func (*FunctionDecl) isDecl()               {}
func (d *FunctionDecl) Common() *DeclCommon { return &d.DeclCommon }

// IsTemplate reports whether this function declares template parameters.
func (d *FunctionDecl) IsTemplate() bool { return len(d.TemplateParams) > 0 }

// IsPrototype reports whether the body was replaced by `;` (GLOSSARY
// "Prototype (declaration)"), used inside traits and extern declarations.
func (d *FunctionDecl) IsPrototype() bool { return d.Body == nil }

// OperatorKind distinguishes prefix/infix/postfix operator declarations.
type OperatorKind uint8

const (
	OpPrefix OperatorKind = iota
	OpInfix
	OpPostfix
)

// OperatorDecl is `operator prefix|infix|postfix <op>`.
type OperatorDecl struct {
	DeclCommon
	Kind       OperatorKind
	Symbol     string
	Params     []*ParameterDecl
	ReturnType Type
	Body       []Stmt
}

func (*OperatorDecl) isDecl()               {}
func (d *OperatorDecl) Common() *DeclCommon { return &d.DeclCommon }

// CallOperatorDecl is `call(...)`, the functor-dispatch surface (GLOSSARY
// "Functor").
type CallOperatorDecl struct {
	DeclCommon
	Params     []*ParameterDecl
	ReturnType Type
	Body       []Stmt
}

func (*CallOperatorDecl) isDecl()               {}
func (d *CallOperatorDecl) Common() *DeclCommon { return &d.DeclCommon }

// SubscriptOperatorDecl is `subscript(...) -> T { get ...; set ... }`.
type SubscriptOperatorDecl struct {
	DeclCommon
	Params     []*ParameterDecl
	ReturnType Type
	Get        *SubscriptGetterDecl
	Set        *SubscriptSetterDecl
}

func (*SubscriptOperatorDecl) isDecl()               {}
func (d *SubscriptOperatorDecl) Common() *DeclCommon { return &d.DeclCommon }

// SubscriptGetterDecl is the nested getter of a SubscriptOperatorDecl.
type SubscriptGetterDecl struct {
	DeclCommon
	RefKind ParamRefKind
	Body    []Stmt
}

func (*SubscriptGetterDecl) isDecl()               {}
func (d *SubscriptGetterDecl) Common() *DeclCommon { return &d.DeclCommon }

// SubscriptSetterDecl is the nested setter of a SubscriptOperatorDecl.
type SubscriptSetterDecl struct {
	DeclCommon
	Body []Stmt
}

func (*SubscriptSetterDecl) isDecl()               {}
func (d *SubscriptSetterDecl) Common() *DeclCommon { return &d.DeclCommon }

// PropertyDecl is `property name : T { get [ref [mut]]; set }`.
type PropertyDecl struct {
	DeclCommon
	Type Type
	Get  *PropertyGetterDecl
	Set  *PropertySetterDecl
}

func (*PropertyDecl) isDecl()               {}
func (d *PropertyDecl) Common() *DeclCommon { return &d.DeclCommon }

// PropertyGetterDecl is the nested getter of a PropertyDecl.
type PropertyGetterDecl struct {
	DeclCommon
	RefKind ParamRefKind
	Body    []Stmt
}

func (*PropertyGetterDecl) isDecl()               {}
func (d *PropertyGetterDecl) Common() *DeclCommon { return &d.DeclCommon }

// PropertySetterDecl is the nested setter of a PropertyDecl.
type PropertySetterDecl struct {
	DeclCommon
	Body []Stmt
}

func (*PropertySetterDecl) isDecl()               {}
func (d *PropertySetterDecl) Common() *DeclCommon { return &d.DeclCommon }

// ConstructorDecl is `init`, `init copy`, or `init move` (Kind
// distinguishes).
type ConstructorDecl struct {
	DeclCommon
	Kind   ConstructorKind
	Params []*ParameterDecl
	Body   []Stmt
	Conts  []Cont
}

func (*ConstructorDecl) isDecl()               {}
func (d *ConstructorDecl) Common() *DeclCommon { return &d.DeclCommon }

// DestructorDecl is `deinit`.
type DestructorDecl struct {
	DeclCommon
	Body []Stmt
}

func (*DestructorDecl) isDecl()               {}
func (d *DestructorDecl) Common() *DeclCommon { return &d.DeclCommon }

// VariableDecl is `var`/`let`/`const name : T [= expr]`.
type VariableDecl struct {
	DeclCommon
	Type    Type
	Init    Expr
	IsConst bool
	IsLet   bool
}

func (*VariableDecl) isDecl()               {}
func (d *VariableDecl) Common() *DeclCommon { return &d.DeclCommon }

// ParamRefKind is a parameter's passing convention.
type ParamRefKind uint8

const (
	ParamVal ParamRefKind = iota
	ParamIn
	ParamOut
	ParamInOut
)

// ParameterDecl is one function/operator/constructor parameter. Label is
// the mandatory call-site argument label (spec.md §6); it may equal Name or
// be the anonymous "_" to permit unlabeled calls.
type ParameterDecl struct {
	DeclCommon
	Label      Identifier
	Type       Type
	RefKind    ParamRefKind
	Default    Expr
}

func (*ParameterDecl) isDecl()               {}
func (d *ParameterDecl) Common() *DeclCommon { return &d.DeclCommon }

// IsOptional reports whether this parameter has a default value (spec.md
// §4.3's DefaultValues match category relies on this).
func (d *ParameterDecl) IsOptional() bool { return d.Default != nil }

// TemplateParamKind distinguishes a `typename` parameter from a `const`
// value parameter.
type TemplateParamKind uint8

const (
	TemplateParamTypename TemplateParamKind = iota
	TemplateParamConst
)

// TemplateParameterDecl is `<T>`, `<T: Trait>`, or `<const name: Type>`.
type TemplateParameterDecl struct {
	DeclCommon
	Kind        TemplateParamKind
	Constraints []Type // typename: "T: Trait" constraints
	ConstType   Type   // const: the value parameter's type
}

func (*TemplateParameterDecl) isDecl()               {}
func (d *TemplateParameterDecl) Common() *DeclCommon { return &d.DeclCommon }

// TemplateXInst is a materialized template instantiation: the concrete decl
// produced by substituting a template's parameters with a specific argument
// tuple (GLOSSARY "Instantiation"). InstantiatedDecl holds the cloned,
// substituted declaration (a *StructDecl, *TraitDecl, or *FunctionDecl);
// Args holds the canonical argument tuple it was keyed by.
type TemplateXInst struct {
	DeclCommon
	Generic          Decl
	Args             []Type
	InstantiatedDecl Decl
}

func (*TemplateXInst) isDecl()               {}
func (d *TemplateXInst) Common() *DeclCommon { return &d.DeclCommon }

// ExtensionDecl adds Members to ExtendedType without modifying its original
// definition (GLOSSARY "Extension"). Cannot define destructors or instance
// data members (spec.md §4.3).
type ExtensionDecl struct {
	DeclCommon
	ExtendedType Type
	Inherits     []Type
	Members      []Decl
}

func (*ExtensionDecl) isDecl()               {}
func (d *ExtensionDecl) Common() *DeclCommon { return &d.DeclCommon }

// TypeAliasDecl is `typealias [prefix] name [<...>] = T`.
type TypeAliasDecl struct {
	DeclCommon
	TemplateParams []*TemplateParameterDecl
	Aliased        Type
}

func (*TypeAliasDecl) isDecl()               {}
func (d *TypeAliasDecl) Common() *DeclCommon { return &d.DeclCommon }

// IsTemplate reports whether this alias is templated, matching the
// redefinition rule that distinguishes templated aliases from non-templated
// ones (spec.md §4.3).
func (d *TypeAliasDecl) IsTemplate() bool { return len(d.TemplateParams) > 0 }

// TypeSuffixDecl is `typesuffix name(...) -> T`: a user-defined
// numeric-literal suffix handler (e.g. `42_px`).
type TypeSuffixDecl struct {
	DeclCommon
	Params     []*ParameterDecl
	ReturnType Type
	Body       []Stmt
}

func (*TypeSuffixDecl) isDecl()               {}
func (d *TypeSuffixDecl) Common() *DeclCommon { return &d.DeclCommon }
