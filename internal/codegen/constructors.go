package codegen

import "codeberg.org/saruga/gulc/internal/ast"

// SelectCopyConstructor returns decl's applicable copy constructor,
// preferring a user-written `init copy` over the synthesized one cached on
// CachedCopyConstructor — the whole reason that cache slot exists is so
// call sites don't re-search Members on every copy (spec.md §4.8, end-to-end
// scenario "copy-constructor-selection via cachedCopyConstructor").
func SelectCopyConstructor(decl *ast.StructDecl) *ast.ConstructorDecl {
	for _, m := range decl.Members {
		if c, ok := m.(*ast.ConstructorDecl); ok && c.Kind == ast.CtorCopy {
			return c
		}
	}
	return decl.CachedCopyConstructor
}

// SelectMoveConstructor mirrors SelectCopyConstructor for `init move`.
func SelectMoveConstructor(decl *ast.StructDecl) *ast.ConstructorDecl {
	for _, m := range decl.Members {
		if c, ok := m.(*ast.ConstructorDecl); ok && c.Kind == ast.CtorMove {
			return c
		}
	}
	return decl.CachedMoveConstructor
}

// BaseConstructorCallOK reports whether ctor's body begins with a call into
// decl's base constructor when decl has a base, or trivially holds when it
// doesn't (spec.md §4.8's "base-constructor-call as first body statement").
// Pass V is expected to have already rejected a violation at the source
// level; codegen treats one reaching this point as an internal error
// (driver.go), since it means a pipeline invariant broke upstream, not
// that the user wrote something wrong.
func BaseConstructorCallOK(decl *ast.StructDecl, ctor *ast.ConstructorDecl) bool {
	if baseStructDecl(decl) == nil {
		return true
	}
	if len(ctor.Body) == 0 {
		return false
	}
	stmt, ok := ctor.Body[0].(*ast.ExprStmt)
	if !ok {
		return false
	}
	call, ok := stmt.Expr.(*ast.ConstructorCallExpr)
	return ok && call.Decl != nil
}

// VirtualDestructor returns decl's own destructor if marked virtual, or nil.
// Used by the driver to decide whether a deinit call must go through the
// vtable rather than being resolved statically.
func VirtualDestructor(decl *ast.StructDecl) *ast.DestructorDecl {
	for _, m := range decl.Members {
		if d, ok := m.(*ast.DestructorDecl); ok && d.Modifiers.Has(ast.ModVirtual) {
			return d
		}
	}
	return nil
}

// StaticDestructor returns decl's own non-virtual destructor, or nil if it
// has none (a type with no explicit deinit and no members requiring one
// gets no destructor call at all).
func StaticDestructor(decl *ast.StructDecl) *ast.DestructorDecl {
	for _, m := range decl.Members {
		if d, ok := m.(*ast.DestructorDecl); ok {
			return d
		}
	}
	return nil
}
