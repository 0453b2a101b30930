// Package declcheck implements pass V (spec.md §4.3): import resolution,
// redefinition checking, and modifier-legality validation, plus populating
// every Decl's container/containedInTemplate/containerTemplateType fields.
//
// A whole-tree walk populates a lookup structure before any typed work
// happens, using a stack-save-and-restore discipline to track the current
// container while walking.
package declcheck

import (
	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/diagnostic"
	"codeberg.org/saruga/gulc/internal/session"
)

// Program is the set of top-level declarations across every source file
// being compiled together, keyed by file path, matching the CLI's
// "list of absolute source-file paths" contract (spec.md §6).
type Program struct {
	Files map[string][]ast.Decl
	Order []string
}

// NamespacePrototype is one namespace's merged declaration list across every
// file (spec.md §4.3 sub-phase 1: "every namespace across all files, merged
// by qualified name").
type NamespacePrototype struct {
	QualifiedName string
	Members       []ast.Decl
}

// Checker runs pass V over a Program.
type Checker struct {
	sess  *session.Session
	prog  *Program
	protos map[string]*NamespacePrototype
}

// New creates a Checker for prog, reporting into sess.
func New(sess *session.Session, prog *Program) *Checker {
	return &Checker{sess: sess, prog: prog, protos: map[string]*NamespacePrototype{}}
}

// Run executes all three sub-phases of pass V in order, returning ok=false
// if any phase reported a fatal diagnostic.
func (c *Checker) Run() bool {
	c.buildNamespacePrototypes()
	c.resolveImports()
	if c.sess.Diags.HasErrors() {
		return false
	}
	for _, file := range c.prog.Order {
		c.checkRedefinitions(c.prog.Files[file])
	}
	for _, file := range c.prog.Order {
		for _, d := range c.prog.Files[file] {
			c.assignContainers(d, nil, false, nil)
		}
	}
	for _, file := range c.prog.Order {
		for _, d := range c.prog.Files[file] {
			c.checkModifierLegality(d)
		}
	}
	return !c.sess.Diags.HasErrors()
}

// buildNamespacePrototypes merges every NamespaceDecl across all files by
// qualified name, the structure ImportDecl resolution walks.
func (c *Checker) buildNamespacePrototypes() {
	var walk func(d ast.Decl, prefix string)
	walk = func(d ast.Decl, prefix string) {
		ns, ok := d.(*ast.NamespaceDecl)
		if !ok {
			return
		}
		qualified := ns.Name.Name
		if prefix != "" {
			qualified = prefix + "." + qualified
		}
		proto, ok := c.protos[qualified]
		if !ok {
			proto = &NamespacePrototype{QualifiedName: qualified}
			c.protos[qualified] = proto
		}
		proto.Members = append(proto.Members, ns.Members...)
		for _, m := range ns.Members {
			walk(m, qualified)
		}
	}
	for _, file := range c.prog.Order {
		for _, d := range c.prog.Files[file] {
			walk(d, "")
		}
	}
}

// resolveImports walks every ImportDecl's dotted path across the merged
// namespace-prototype tree (spec.md §4.3 sub-phase 1). Failure is fatal;
// aliases must be unique within a file and cannot collide with file-scope
// declarations.
func (c *Checker) resolveImports() {
	for _, file := range c.prog.Order {
		decls := c.prog.Files[file]
		seenAlias := map[string]ast.Range{}
		fileScope := map[string]bool{}
		for _, d := range decls {
			fileScope[d.Common().Name.Name] = true
		}
		for _, d := range decls {
			imp, ok := d.(*ast.ImportDecl)
			if !ok {
				continue
			}
			qualified := joinIdents(imp.Path)
			proto, found := c.protos[qualified]
			if !found {
				c.sess.Diags.Errorf(diagnostic.PhaseDeclValidate, diagnostic.CodeUnknownName, file,
					imp.Range.Start, imp.Range.End, "import path %q does not resolve to a namespace", qualified)
				continue
			}
			ns := &ast.NamespaceDecl{Members: proto.Members}
			ns.Name = ast.Identifier{Name: proto.QualifiedName}
			imp.Resolved = ns

			if imp.Alias != nil {
				if fileScope[imp.Alias.Name] {
					c.sess.Diags.Errorf(diagnostic.PhaseDeclValidate, diagnostic.CodeRedefinition, file,
						imp.Alias.Range.Start, imp.Alias.Range.End,
						"import alias %q collides with a file-scope declaration", imp.Alias.Name)
				}
				if prev, ok := seenAlias[imp.Alias.Name]; ok {
					c.sess.Diags.Errorf(diagnostic.PhaseDeclValidate, diagnostic.CodeRedefinition, file,
						imp.Alias.Range.Start, imp.Alias.Range.End,
						"import alias %q already used at %d:%d", imp.Alias.Name, prev.Start.Line, prev.Start.Column)
				}
				seenAlias[imp.Alias.Name] = imp.Alias.Range
			}
		}
	}
}

func joinIdents(ids []ast.Identifier) string {
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += "."
		}
		s += id.Name
	}
	return s
}

// assignContainers sets container/containedInTemplate/containerTemplateType
// on d and recurses into its members (spec.md §4.3's closing paragraph).
func (c *Checker) assignContainers(d ast.Decl, container ast.Decl, containedInTemplate bool, containerTemplateType ast.Type) {
	common := d.Common()
	common.Container = container
	common.ContainedInTemplate = containedInTemplate
	common.ContainerTemplateType = containerTemplateType

	var members []ast.Decl
	nextContainedInTemplate := containedInTemplate
	nextTemplateType := containerTemplateType

	switch t := d.(type) {
	case *ast.NamespaceDecl:
		members = t.Members
	case *ast.StructDecl:
		members = t.Members
		if t.IsTemplate() {
			nextContainedInTemplate = true
			tt := &ast.TemplateStructType{Decl: t}
			for _, tp := range t.TemplateParams {
				tt.Args = append(tt.Args, &ast.TemplateTypenameRefType{Param: tp})
			}
			nextTemplateType = tt
		}
	case *ast.TraitDecl:
		members = t.Members
		if t.IsTemplate() {
			nextContainedInTemplate = true
			tt := &ast.TemplateTraitType{Decl: t}
			for _, tp := range t.TemplateParams {
				tt.Args = append(tt.Args, &ast.TemplateTypenameRefType{Param: tp})
			}
			nextTemplateType = tt
		}
	case *ast.EnumDecl:
		for _, ec := range t.Consts {
			c.assignContainers(ec, d, nextContainedInTemplate, nextTemplateType)
		}
		members = t.Members
	case *ast.ExtensionDecl:
		members = t.Members
	}

	for _, m := range members {
		c.assignContainers(m, d, nextContainedInTemplate, nextTemplateType)
	}
}

// checkRedefinitions applies the shape-compatibility rules of spec.md §4.3
// sub-phase 2 within one container's member list (here, one file's
// top-level list), then recurses into the members of every nested struct,
// trait, namespace and extension.
func (c *Checker) checkRedefinitions(decls []ast.Decl) {
	byName := map[string][]ast.Decl{}
	for _, d := range decls {
		name := d.Common().Name
		if name.IsAnonymous() {
			continue
		}
		for _, other := range byName[name.Name] {
			if shapeCompatible(d, other) {
				c.sess.Diags.Errorf(diagnostic.PhaseDeclValidate, diagnostic.CodeRedefinition, d.Common().Range.File,
					d.Common().Range.Start, d.Common().Range.End,
					"redefinition of %q", name.Name)
			}
		}
		byName[name.Name] = append(byName[name.Name], d)
	}
	// Recurse into containers with members so each container's own scope is
	// checked for internal collisions too.
	for _, d := range decls {
		switch t := d.(type) {
		case *ast.StructDecl:
			c.checkRedefinitions(t.Members)
		case *ast.TraitDecl:
			c.checkRedefinitions(t.Members)
		case *ast.NamespaceDecl:
			c.checkRedefinitions(t.Members)
		case *ast.ExtensionDecl:
			c.checkRedefinitions(t.Members)
		}
	}
}

// shapeCompatible decides whether a and b "redefine" each other per spec.md
// §4.3: distinct function overloads are allowed (skipped here, deferred to
// pass S), a variable and a function of the same name collide, two
// subscripts collide unless their parameter lists differ, templates vs
// non-templates collide only when the non-template's name matches and the
// template has zero arguments (zero-arg templates can't be distinguished
// from a plain declaration by name alone, so they're checked here).
func shapeCompatible(a, b ast.Decl) bool {
	// Functions, subscripts, and templated aliases are skipped at this
	// stage; their signatures are not yet typed (rejected later in S).
	switch a.(type) {
	case *ast.FunctionDecl, *ast.SubscriptOperatorDecl:
		return false
	case *ast.TypeAliasDecl:
		if a.(*ast.TypeAliasDecl).IsTemplate() {
			return false
		}
	}
	switch b.(type) {
	case *ast.FunctionDecl, *ast.SubscriptOperatorDecl:
		return false
	case *ast.TypeAliasDecl:
		if b.(*ast.TypeAliasDecl).IsTemplate() {
			return false
		}
	}

	aTemplate := isZeroArgTemplateCompatible(a)
	bTemplate := isZeroArgTemplateCompatible(b)
	if aTemplate != bTemplate {
		// A template collides with a non-template of the same name only
		// when the template declares zero parameters (spec.md §4.3).
		if aTemplate {
			return zeroTemplateParams(a)
		}
		return zeroTemplateParams(b)
	}
	return true
}

func isZeroArgTemplateCompatible(d ast.Decl) bool {
	switch t := d.(type) {
	case *ast.StructDecl:
		return t.IsTemplate()
	case *ast.TraitDecl:
		return t.IsTemplate()
	case *ast.FunctionDecl:
		return t.IsTemplate()
	}
	return false
}

func zeroTemplateParams(d ast.Decl) bool {
	switch t := d.(type) {
	case *ast.StructDecl:
		return t.IsTemplate() && len(t.TemplateParams) == 0
	case *ast.TraitDecl:
		return t.IsTemplate() && len(t.TemplateParams) == 0
	case *ast.FunctionDecl:
		return t.IsTemplate() && len(t.TemplateParams) == 0
	}
	return true
}

// checkModifierLegality enforces the exhaustive table of spec.md §4.3 sub-
// phase 3.
func (c *Checker) checkModifierLegality(d ast.Decl) {
	common := d.Common()
	fail := func(format string, args ...any) {
		c.sess.Diags.Errorf(diagnostic.PhaseDeclValidate, diagnostic.CodeInvalidModifierComb, common.Range.File,
			common.Range.Start, common.Range.End, format, args...)
	}

	switch t := d.(type) {
	case *ast.ImportDecl:
		if t.Modifiers != 0 {
			fail("import declarations cannot carry modifiers")
		}
	case *ast.ConstructorDecl:
		if t.Modifiers.Has(ast.ModVirtual) {
			fail("init cannot be virtual")
		}
		if t.Modifiers.Has(ast.ModStatic) {
			fail("init cannot be static")
		}
		if t.Body == nil && !t.Modifiers.Has(ast.ModExtern) {
			c.sess.Diags.Errorf(diagnostic.PhaseDeclValidate, diagnostic.CodeMissingBody, common.Range.File,
				common.Range.Start, common.Range.End, "init requires a body unless extern")
		}
	case *ast.DestructorDecl:
		if t.Modifiers.Has(ast.ModStatic) {
			fail("deinit cannot be static")
		}
	case *ast.EnumDecl:
		if t.Modifiers.Has(ast.ModAbstract) {
			fail("enums cannot be abstract")
		}
	case *ast.ExtensionDecl:
		for _, m := range t.Members {
			if _, ok := m.(*ast.DestructorDecl); ok {
				fail("extensions cannot define destructors")
			}
			if vd, ok := m.(*ast.VariableDecl); ok && !vd.Modifiers.Has(ast.ModStatic) {
				fail("extensions cannot define instance data members")
			}
		}
	case *ast.StructDecl:
		if t.Kind == ast.KindUnion && t.Modifiers.Has(ast.ModAbstract) {
			fail("unions cannot be abstract")
		}
		if t.Modifiers.Has(ast.ModStatic) {
			for _, m := range t.Members {
				if _, ok := m.(*ast.ConstructorDecl); ok {
					fail("static structs cannot have constructors")
				}
				if _, ok := m.(*ast.DestructorDecl); ok {
					fail("static structs cannot have destructors")
				}
			}
		}
	case *ast.TraitDecl:
		for _, m := range t.Members {
			if vd, ok := m.(*ast.VariableDecl); ok && !vd.Modifiers.Has(ast.ModStatic) {
				fail("traits cannot contain instance data (%s)", vd.Name.Name)
			}
		}
	}

	for _, m := range childMembers(d) {
		c.checkModifierLegality(m)
	}
}

func childMembers(d ast.Decl) []ast.Decl {
	switch t := d.(type) {
	case *ast.NamespaceDecl:
		return t.Members
	case *ast.StructDecl:
		return t.Members
	case *ast.TraitDecl:
		return t.Members
	case *ast.ExtensionDecl:
		return t.Members
	}
	return nil
}
