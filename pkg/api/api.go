// Package api provides the public, embeddable entry point into the gulc
// middle-end: Compile drives every pass (spec.md §2: L, P, V, R, I, then G)
// over a set of source files and returns the resulting Module.
//
// A single exported function wraps the full pipeline behind one call,
// taking a list of source-file paths since gulc compiles many files
// together rather than one unit in isolation.
package api

import (
	"fmt"
	"os"

	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/builtins"
	"codeberg.org/saruga/gulc/internal/codegen"
	"codeberg.org/saruga/gulc/internal/config"
	"codeberg.org/saruga/gulc/internal/contract"
	"codeberg.org/saruga/gulc/internal/declcheck"
	"codeberg.org/saruga/gulc/internal/diagnostic"
	"codeberg.org/saruga/gulc/internal/instantiate"
	"codeberg.org/saruga/gulc/internal/log"
	"codeberg.org/saruga/gulc/internal/parser"
	"codeberg.org/saruga/gulc/internal/resolve"
	"codeberg.org/saruga/gulc/internal/session"
)

// TargetDescriptor carries target facts Compile needs beyond the AST
// itself (spec.md §6): pointer size for codegen's layout pass, plus any
// gulc.toml-provided implicit-conversion overrides (spec.md §9, Open
// Question 1).
type TargetDescriptor struct {
	PointerSize int
	Config      *config.Config
}

// DefaultTarget is the target Compile assumes when the caller has no
// gulc.toml and no CLI override.
func DefaultTarget() TargetDescriptor {
	return TargetDescriptor{PointerSize: config.DefaultPointerSize}
}

// Module is the result of one compilation: the rendered IR text (empty if
// any pass reported an error before codegen ran) and every diagnostic
// collected along the way.
type Module struct {
	IR          string
	Diagnostics []*diagnostic.Diagnostic
}

// HasErrors reports whether any collected diagnostic is an error, matching
// spec.md §6's "a compilation with errors produces no output" exit
// condition.
func (m *Module) HasErrors() bool {
	for _, d := range m.Diagnostics {
		if d.Severity == diagnostic.Error {
			return true
		}
	}
	return false
}

// Compile reads, lexes, parses, decl-validates, resolves, instantiates and
// lowers every file in files as one program, targeting target. It returns
// an error only when a file can't even be read or codegen hits an internal
// (pipeline-bug) failure; ordinary pass-level problems are reported as
// diagnostics on the returned Module, never as a Go error (spec.md §6, §7).
// logger may be nil, in which case no pass-entry/exit logging happens.
func Compile(files []string, target TargetDescriptor, logger *log.Logger) (*Module, error) {
	if logger == nil {
		logger = log.Nop()
	}
	sess := session.New()
	reg := builtins.New()

	prog := &declcheck.Program{Files: map[string][]ast.Decl{}, Order: files}
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("gulc: reading %s: %w", file, err)
		}
		sess.CurrentFile = file
		logger.PassEnter("parse", file)
		p := parser.New(file, string(source), sess.Diags)
		prog.Files[file] = p.ParseFile()
		logger.PassExit("parse", file, errorCount(sess.Diags))
	}

	mod := &Module{}
	if sess.Diags.HasErrors() {
		mod.Diagnostics = sess.Diags.Items()
		return mod, nil
	}

	logger.PassEnter("declcheck", "")
	ok := declcheck.New(sess, prog).Run()
	logger.PassExit("declcheck", "", errorCount(sess.Diags))
	if !ok {
		mod.Diagnostics = sess.Diags.Items()
		return mod, nil
	}

	convertible := convertibleFunc(target.Config, reg)
	solver := contract.New(sess, convertible)

	for _, file := range prog.Order {
		decls := prog.Files[file]
		sess.CurrentFile = file

		r := resolve.New(sess, reg)
		r.FileDecls = decls
		r.Imports = importsOf(decls)
		inst := instantiate.New(sess, r, solver)

		c := &compilation{resolver: r, instantiator: inst}
		logger.PassEnter("resolve", file)
		for _, d := range decls {
			ast.WalkDecl(d, c.resolveDeclTypes)
		}
		logger.PassExit("resolve", file, errorCount(sess.Diags))
	}

	if sess.Diags.HasErrors() {
		mod.Diagnostics = sess.Diags.Items()
		return mod, nil
	}

	var all []ast.Decl
	for _, file := range prog.Order {
		all = append(all, prog.Files[file]...)
	}

	emit := codegen.NewTextEmitter()
	driver := codegen.New(emit, sess, codegen.TargetDescriptor{PointerSize: target.PointerSize})
	logger.PassEnter("codegen", "")
	err := driver.Run(all)
	logger.PassExit("codegen", "", errorCount(sess.Diags))
	if err != nil {
		return nil, err
	}

	mod.Diagnostics = sess.Diags.Items()
	if !mod.HasErrors() {
		mod.IR = emit.String()
	}
	return mod, nil
}

// convertibleFunc builds the convertible callback contract.New and the
// instantiator's where-clause checking require: a gulc.toml
// implicitConvTable entry takes precedence over internal/resolve's
// built-in numeric-conversion table, per spec.md §9's Open Question 1
// resolution.
func convertibleFunc(cfg *config.Config, reg *builtins.Registry) func(from, to ast.Type) bool {
	return func(from, to ast.Type) bool {
		if fb, ok := from.(*ast.BuiltInType); ok {
			if tb, ok := to.(*ast.BuiltInType); ok {
				if allowed, matched := cfg.Override(fb.Name, tb.Name); matched {
					return allowed
				}
			}
		}
		_, ok := resolve.ImplicitConversion(from, to, reg)
		return ok
	}
}

func errorCount(diags *diagnostic.List) int {
	n := 0
	for _, d := range diags.Items() {
		if d.Severity == diagnostic.Error {
			n++
		}
	}
	return n
}

// importsOf collects a file's non-aliased imports: Resolver.Imports'
// contract (internal/resolve/resolve.go) excludes aliased imports, which
// are reached through their alias name instead rather than searched
// unqualified.
func importsOf(decls []ast.Decl) []*ast.ImportDecl {
	var imports []*ast.ImportDecl
	for _, d := range decls {
		if im, ok := d.(*ast.ImportDecl); ok && im.Alias == nil {
			imports = append(imports, im)
		}
	}
	return imports
}

// compilation carries the per-file resolver/instantiator pair
// resolveDeclTypes closes over while ast.WalkDecl drives it across every
// top-level declaration.
type compilation struct {
	resolver     *resolve.Resolver
	instantiator *instantiate.Instantiator
}

// resolveDeclTypes resolves every Type field owned directly by d (not its
// members — ast.WalkDecl already recurses into those separately). Modeled
// on, but distinct from, internal/instantiate's unexported
// reResolveDeclTypes: that helper only ever runs over struct/trait
// *members*, so it has no case for the container-level Type fields
// (Inherits, ExtendedType, UnderlyingType, Aliased) this top-level walk
// also needs to cover.
func (c *compilation) resolveDeclTypes(d ast.Decl) {
	switch t := d.(type) {
	case *ast.StructDecl:
		for i, inh := range t.Inherits {
			t.Inherits[i] = c.resolveType(inh)
		}
	case *ast.TraitDecl:
		for i, inh := range t.Inherits {
			t.Inherits[i] = c.resolveType(inh)
		}
	case *ast.ExtensionDecl:
		t.ExtendedType = c.resolveType(t.ExtendedType)
		for i, inh := range t.Inherits {
			t.Inherits[i] = c.resolveType(inh)
		}
	case *ast.EnumDecl:
		t.UnderlyingType = c.resolveType(t.UnderlyingType)
	case *ast.TypeAliasDecl:
		t.Aliased = c.resolveType(t.Aliased)
	case *ast.VariableDecl:
		t.Type = c.resolveType(t.Type)
	case *ast.FunctionDecl:
		for _, p := range t.Params {
			p.Type = c.resolveType(p.Type)
		}
		t.ReturnType = c.resolveType(t.ReturnType)
	case *ast.ConstructorDecl:
		for _, p := range t.Params {
			p.Type = c.resolveType(p.Type)
		}
	case *ast.PropertyDecl:
		t.Type = c.resolveType(t.Type)
	case *ast.SubscriptOperatorDecl:
		for _, p := range t.Params {
			p.Type = c.resolveType(p.Type)
		}
		t.ReturnType = c.resolveType(t.ReturnType)
	}
}

// resolveType wraps Resolver.ResolveType, additionally following a
// template-shaped hit (*ast.TemplateStructType / *ast.TemplateTraitType)
// through to a concrete instantiation (spec.md §4.5): ResolveType alone
// only locates the generic declaration and the argument list, it does not
// instantiate. Instantiate/InstantiateTrait already re-resolve every
// member's own declared types internally, so no further walk is needed
// once they return.
func (c *compilation) resolveType(t ast.Type) ast.Type {
	resolved := c.resolver.ResolveType(t)
	switch v := resolved.(type) {
	case *ast.TemplateStructType:
		if concrete, ok := c.instantiator.Instantiate(v.Decl, v.Args); ok {
			return &ast.StructType{Decl: concrete}
		}
	case *ast.TemplateTraitType:
		if concrete, ok := c.instantiator.InstantiateTrait(v.Decl, v.Args); ok {
			return &ast.TraitType{Decl: concrete}
		}
	}
	return resolved
}
