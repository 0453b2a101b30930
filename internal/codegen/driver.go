// Package codegen is pass G of the gulc pipeline (spec.md §4.8): it walks
// the fully lexed, parsed, decl-validated, resolved, instantiated,
// overload-resolved and contract-checked AST the earlier passes hand it,
// and drives an Emitter to produce output for it. It never names a
// concrete SSA library or object format — see emitter.go.
//
// The driver shape is a full-tree walk driving an external sink; struct
// layout and alignment (layout.go, vtable.go) are computed separately and
// fed to that walk.
package codegen

import (
	"fmt"

	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/diagnostic"
	"codeberg.org/saruga/gulc/internal/instantiate"
	"codeberg.org/saruga/gulc/internal/session"
)

// TargetDescriptor carries the few facts codegen needs about the
// compilation target beyond the AST itself (spec.md §6). PointerSize drives
// layout.go's pointer/reference sizing.
type TargetDescriptor struct {
	PointerSize int
}

// Driver walks a resolved AST and drives Emit, one compilation at a time.
type Driver struct {
	Emit    Emitter
	Sess    *session.Session
	Layouts *LayoutComputer

	loopStack  []loopFrame
	labelBlock map[string]BlockID
}

type loopFrame struct {
	label     string // "" for an unlabeled loop
	continueB BlockID
	breakB    BlockID
}

// internalErrorSignal unwinds the Go call stack back to Run's recover,
// matching spec.md §4.8's failure model: "every unhandled case in G is an
// internal error... internal errors print the source range and abort."
// panic/recover is reserved for exactly this case (session.Result's doc
// comment makes the same point for the other passes).
type internalErrorSignal struct{ msg string }

// New creates a Driver for one compilation.
func New(emit Emitter, sess *session.Session, target TargetDescriptor) *Driver {
	return &Driver{
		Emit:    emit,
		Sess:    sess,
		Layouts: NewLayoutComputer(target.PointerSize),
	}
}

func (d *Driver) internalError(at ast.Range, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.Sess.Diags.Errorf(diagnostic.PhaseCodegen, diagnostic.CodeInternal, at.File, at.Start, at.End, "%s", msg)
	d.Sess.Abort()
	panic(internalErrorSignal{msg})
}

// Run lowers every top-level declaration. It returns an error only for an
// internal (pipeline-bug) failure; user-facing diagnostics for earlier
// passes are expected to have already aborted the session before Run is
// ever called.
func (d *Driver) Run(decls []ast.Decl) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(internalErrorSignal); ok {
				err = fmt.Errorf("gulc codegen internal error: %s", sig.msg)
				return
			}
			panic(r)
		}
	}()

	for _, decl := range decls {
		if d.Sess.HasAborted() {
			return nil
		}
		d.genDecl(decl)
	}
	return nil
}

func (d *Driver) genDecl(decl ast.Decl) {
	switch v := decl.(type) {
	case *ast.NamespaceDecl:
		for _, m := range v.Members {
			d.genDecl(m)
		}
	case *ast.StructDecl:
		d.genStruct(v)
	case *ast.FunctionDecl:
		if v.IsTemplate() || v.IsPrototype() {
			return
		}
		d.genFunction(v, QualifiedName(v), false, nil)
	case *ast.TraitDecl, *ast.EnumDecl, *ast.ExtensionDecl, *ast.TypeAliasDecl,
		*ast.ImportDecl, *ast.TypeSuffixDecl:
		// No runtime surface of their own: traits/aliases/typesuffixes are
		// fully erased by the time their use sites reach this pass; enums
		// contribute only their EnumConstDecl values, folded as constants
		// by pass R/S; imports are resolution-time only.
	default:
		d.internalError(declRange(decl), "codegen: unhandled top-level declaration %T", decl)
	}
}

func declRange(decl ast.Decl) ast.Range {
	return decl.Common().Range
}

func (d *Driver) genStruct(decl *ast.StructDecl) {
	if decl.IsTemplate() {
		for _, inst := range instantiate.SortedStructInstantiations(decl) {
			d.genStruct(inst)
		}
		return
	}

	layout := d.Layouts.ComputeStructLayout(decl)
	if layout.HasVTable {
		entries := BuildVTable(decl)
		names := make([]string, len(entries))
		for i, e := range entries {
			if e.Decl == nil {
				names[i] = "nil"
				continue
			}
			names[i] = QualifiedName(e.Decl)
		}
		d.Emit.DeclareGlobal(VTableGlobalName(decl), nil, fmt.Sprintf("%v", names))
	}

	selfType := &ast.StructType{Decl: decl}
	for _, m := range decl.Members {
		switch md := m.(type) {
		case *ast.FunctionDecl:
			if md.IsTemplate() || md.IsPrototype() {
				continue
			}
			d.genFunction(md, QualifiedName(md), true, selfType)
		case *ast.ConstructorDecl:
			d.genConstructor(decl, md, selfType)
		case *ast.DestructorDecl:
			d.genDestructor(decl, md, selfType)
		case *ast.StructDecl:
			d.genStruct(md)
		}
	}
}
