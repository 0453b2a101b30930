package codegen

import "codeberg.org/saruga/gulc/internal/ast"

// QualifiedName renders decl's fully-qualified emitted symbol name by
// walking its Container chain (spec.md §3's DeclCommon.Container), joining
// with ".". This is not a committed binary ABI — there is no linker this
// driver targets yet — just enough determinism for the text emitter and for
// golden-file tests to compare against.
func QualifiedName(d ast.Decl) string {
	name := d.Common().Name.Name
	container := d.Common().Container
	for container != nil {
		cn := container.Common().Name.Name
		if cn != "" {
			name = cn + "." + name
		}
		container = container.Common().Container
	}
	return name
}

// ConstructorName renders the emitted symbol for one of a struct's
// constructors, distinguishing init/init copy/init move since all three
// otherwise share the struct's name.
func ConstructorName(decl *ast.StructDecl, ctor *ast.ConstructorDecl) string {
	base := QualifiedName(decl) + ".init"
	switch ctor.Kind {
	case ast.CtorCopy:
		return base + ".copy"
	case ast.CtorMove:
		return base + ".move"
	default:
		return base
	}
}

// DestructorName renders the emitted symbol for a struct's destructor.
func DestructorName(decl *ast.StructDecl) string {
	return QualifiedName(decl) + ".deinit"
}
