// Package resolve implements pass R (spec.md §4.4): the ordered search that
// turns every Unresolved{path, name, args} type into a concrete Type node.
//
// Name resolution tries a fixed ordered list of scopes before reporting an
// unknown-name diagnostic: built-ins, template-typename stack,
// enclosing-decls stack, file scope, then imports — plus an
// ambiguity-across-imports check a single-file source never needs.
package resolve

import (
	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/builtins"
	"codeberg.org/saruga/gulc/internal/diagnostic"
	"codeberg.org/saruga/gulc/internal/session"
)

// Resolver resolves Unresolved types against one file's declarations plus
// its resolved imports.
type Resolver struct {
	sess     *session.Session
	builtins *builtins.Registry
	// FileDecls is the current file's top-level declaration list (spec.md
	// §4.4 step 4).
	FileDecls []ast.Decl
	// Imports is the current file's resolved, non-aliased ImportDecls
	// (spec.md §4.4 step 5) — aliased imports are excluded because they are
	// reached through their alias name instead: resolvePath looks an alias
	// up among FileDecls when it is the first segment of a dotted path.
	Imports []*ast.ImportDecl
}

// New creates a Resolver reporting into sess.
func New(sess *session.Session, reg *builtins.Registry) *Resolver {
	return &Resolver{sess: sess, builtins: reg}
}

// ResolveType resolves one Unresolved-family type node, returning the
// concrete node it stands for. Non-Unresolved inputs pass through
// unchanged (idempotent, so callers can resolve a tree bottom-up without
// checking kind first).
func (r *Resolver) ResolveType(t ast.Type) ast.Type {
	switch u := t.(type) {
	case *ast.UnresolvedType:
		return r.resolveUnresolved(u)
	case *ast.UnresolvedNestedType:
		return r.resolveNested(u)
	}
	return t
}

func (r *Resolver) resolveUnresolved(u *ast.UnresolvedType) ast.Type {
	if len(u.Path) > 0 {
		container := r.resolvePath(u.Path, u.Range)
		if container == nil {
			return u
		}
		return r.searchContainer(container, u.Name, u.Args, u.Range)
	}

	if len(u.Args) == 0 {
		if t := r.matchBuiltinOrSelf(u.Name.Name, u.TypeBase); t != nil {
			return t
		}
		if t := r.searchTemplateParamStack(u.Name); t != nil {
			return t
		}
	}

	if t := r.searchContainerStack(u.Name, u.Args); t != nil {
		return t
	}
	if t := r.searchDecls(r.FileDecls, u.Name, u.Args); t != nil {
		return t
	}
	return r.searchImports(u)
}

// matchBuiltinOrSelf covers step 1 of spec.md §4.4: built-ins, bool, and
// Self, each carrying over the Unresolved node's qualifier/lvalue/range.
func (r *Resolver) matchBuiltinOrSelf(name string, base ast.TypeBase) ast.Type {
	switch name {
	case "bool":
		bt := &ast.BoolType{TypeBase: base}
		return bt
	case "Self":
		st := &ast.SelfType{TypeBase: base}
		return st
	}
	if bt := r.builtins.Lookup(name); bt != nil {
		bt.TypeBase = base
		return bt
	}
	return nil
}

// searchTemplateParamStack covers step 2: the innermost-first stack of
// enclosing template-parameter lists, looking for a typename parameter
// named name.
func (r *Resolver) searchTemplateParamStack(name ast.Identifier) ast.Type {
	stack := r.sess.TemplateParamStack()
	for i := len(stack) - 1; i >= 0; i-- {
		params, ok := stack[i].([]*ast.TemplateParameterDecl)
		if !ok {
			continue
		}
		for _, p := range params {
			if p.Kind == ast.TemplateParamTypename && p.Name.Name == name.Name {
				return &ast.TemplateTypenameRefType{Param: p}
			}
		}
	}
	return nil
}

// searchContainerStack covers step 3: the innermost-first stack of
// enclosing declarations, searching each one's owned members.
func (r *Resolver) searchContainerStack(name ast.Identifier, args []ast.Type) ast.Type {
	stack := r.sess.ContainerStack()
	for i := len(stack) - 1; i >= 0; i-- {
		container, ok := stack[i].(ast.Decl)
		if !ok {
			continue
		}
		if t, found := r.searchDeclsFull(members(container), name, args); t != nil {
			return wrapIfDependent(found, t)
		}
	}
	return nil
}

// searchImports covers step 5: every non-aliased import, flagging ambiguity
// when more than one resolves the name.
func (r *Resolver) searchImports(u *ast.UnresolvedType) ast.Type {
	var found ast.Type
	hits := 0
	for _, imp := range r.Imports {
		if imp.Resolved == nil {
			continue
		}
		if t := r.searchDecls(imp.Resolved.Members, u.Name, u.Args); t != nil {
			hits++
			if found == nil {
				found = t
			}
		}
	}
	if hits > 1 {
		r.sess.Diags.Errorf(diagnostic.PhaseResolve, diagnostic.CodeAmbiguousName, u.Range.File,
			u.Range.Start, u.Range.End, "%q is ambiguous across imports", u.Name.Name)
		return u
	}
	if found != nil {
		return found
	}
	r.sess.Diags.Errorf(diagnostic.PhaseResolve, diagnostic.CodeUnknownName, u.Range.File,
		u.Range.Start, u.Range.End, "unknown type %q", u.Name.Name)
	return u
}

// resolvePath resolves a dotted path's container portion: file scope, then
// aliased imports, then namespace prototypes, per spec.md §4.4's
// "path is resolved first" clause.
func (r *Resolver) resolvePath(path []ast.Identifier, rng ast.Range) ast.Decl {
	var cur ast.Decl
	for i, seg := range path {
		if cur == nil {
			cur = r.findTopLevel(seg)
			if _, isImport := cur.(*ast.ImportDecl); cur == nil || isImport {
				cur = nil
				for _, d := range r.FileDecls {
					imp, ok := d.(*ast.ImportDecl)
					if ok && imp.Alias != nil && imp.Alias.Name == seg.Name && imp.Resolved != nil {
						cur = imp.Resolved
						break
					}
				}
			}
		} else {
			cur = findMember(members(cur), seg)
		}
		if cur == nil {
			r.sess.Diags.Errorf(diagnostic.PhaseResolve, diagnostic.CodeUnresolvedNested, rng.File,
				rng.Start, rng.End, "cannot resolve %q in path", seg.Name)
			return nil
		}
		_ = i
	}
	return cur
}

func (r *Resolver) findTopLevel(name ast.Identifier) ast.Decl {
	return findMember(r.FileDecls, name)
}

func findMember(decls []ast.Decl, name ast.Identifier) ast.Decl {
	for _, d := range decls {
		if d.Common().Name.Name == name.Name {
			return d
		}
	}
	return nil
}

// searchContainer resolves the final segment of a dotted path against an
// already-resolved container decl.
func (r *Resolver) searchContainer(container ast.Decl, name ast.Identifier, args []ast.Type, rng ast.Range) ast.Type {
	t, found := r.searchDeclsFull(members(container), name, args)
	if t == nil {
		r.sess.Diags.Errorf(diagnostic.PhaseResolve, diagnostic.CodeUnresolvedNested, rng.File,
			rng.Start, rng.End, "%q has no member %q", container.Common().Name.Name, name.Name)
		return &ast.UnresolvedNestedType{Name: name, Args: args}
	}
	return wrapIfDependent(found, t)
}

func (r *Resolver) resolveNested(u *ast.UnresolvedNestedType) ast.Type {
	container := r.ResolveType(u.Container)
	decl := declOf(container)
	if decl == nil {
		return u
	}
	return r.searchContainer(decl, u.Name, u.Args, u.Range)
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

// searchDecls finds name among decls, building the concrete Type node for
// whichever kind it is, discarding which Decl was matched. Most callers need
// searchDeclsFull instead, to drive wrapIfDependent off the matched decl's
// own containedInTemplate state rather than the container being searched.
func (r *Resolver) searchDecls(decls []ast.Decl, name ast.Identifier, args []ast.Type) ast.Type {
	t, _ := r.searchDeclsFull(decls, name, args)
	return t
}

// searchDeclsFull finds name among decls, building the concrete Type node
// for whichever kind it is, and also returns the matched Decl itself. A
// templated hit whose Args don't immediately line up with the decl's
// parameter count is packaged as a TemplatedType placeholder, deferred for
// pass S (spec.md §4.4).
func (r *Resolver) searchDeclsFull(decls []ast.Decl, name ast.Identifier, args []ast.Type) (ast.Type, ast.Decl) {
	for _, d := range decls {
		if d.Common().Name.Name != name.Name {
			continue
		}
		switch t := d.(type) {
		case *ast.StructDecl:
			if t.IsTemplate() {
				if len(args) != len(t.TemplateParams) {
					return &ast.TemplatedType{Candidates: []ast.Decl{t}, Args: args}, d
				}
				return &ast.TemplateStructType{Decl: t, Args: args}, d
			}
			return &ast.StructType{Decl: t}, d
		case *ast.TraitDecl:
			if t.IsTemplate() {
				if len(args) != len(t.TemplateParams) {
					return &ast.TemplatedType{Candidates: []ast.Decl{t}, Args: args}, d
				}
				return &ast.TemplateTraitType{Decl: t, Args: args}, d
			}
			return &ast.TraitType{Decl: t}, d
		case *ast.EnumDecl:
			return &ast.EnumType{Decl: t}, d
		case *ast.TypeAliasDecl:
			return &ast.AliasType{Decl: t}, d
		}
	}
	return nil, nil
}

// wrapIfDependent applies spec.md §4.4's closing rule: when the matched decl
// lives inside an un-instantiated template container, wrap the result in
// Dependent{containerTemplateType, inner} so substitution can find it later.
func wrapIfDependent(found ast.Decl, inner ast.Type) ast.Type {
	common := found.Common()
	if !common.ContainedInTemplate || common.ContainerTemplateType == nil {
		return inner
	}
	return &ast.DependentType{Container: common.ContainerTemplateType, Inner: inner}
}

func members(d ast.Decl) []ast.Decl {
	switch t := d.(type) {
	case *ast.StructDecl:
		return t.Members
	case *ast.TraitDecl:
		return t.Members
	case *ast.NamespaceDecl:
		return t.Members
	case *ast.ExtensionDecl:
		return t.Members
	case *ast.EnumDecl:
		return t.Members
	}
	return nil
}
