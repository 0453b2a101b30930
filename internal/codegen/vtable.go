package codegen

import "codeberg.org/saruga/gulc/internal/ast"

// VTableEntry is one virtual-dispatch slot: Name is the dispatched member's
// name ("deinit" for the destructor slot), Decl is the most-derived
// override reachable from the struct BuildVTable was called on.
type VTableEntry struct {
	Name string
	Decl ast.Decl // *ast.FunctionDecl or *ast.DestructorDecl
}

// BuildVTable computes decl's virtual-dispatch table as a global immutable
// function-pointer array (spec.md §4.8): inherited slots keep the base's
// order, an override rewrites its inherited slot in place (so dispatch
// through a base pointer still reaches the most-derived override), and new
// virtual members decl itself introduces are appended after the inherited
// slots. Also populates decl.VTable with the parallel []ast.Decl list pass
// G's other consumers (and tests/printing) read.
func BuildVTable(decl *ast.StructDecl) []VTableEntry {
	var inherited []VTableEntry
	if base := baseStructDecl(decl); base != nil {
		inherited = BuildVTable(base)
	}

	slots := append([]VTableEntry{}, inherited...)
	indexOf := func(name string) int {
		for i, e := range slots {
			if e.Name == name {
				return i
			}
		}
		return -1
	}

	for _, m := range decl.Members {
		switch md := m.(type) {
		case *ast.FunctionDecl:
			if !md.Modifiers.Has(ast.ModVirtual) && !md.Modifiers.Has(ast.ModOverride) {
				continue
			}
			name := md.Name.Name
			if i := indexOf(name); i >= 0 {
				slots[i] = VTableEntry{Name: name, Decl: md}
			} else {
				slots = append(slots, VTableEntry{Name: name, Decl: md})
			}
		case *ast.DestructorDecl:
			if !md.Modifiers.Has(ast.ModVirtual) {
				continue
			}
			if i := indexOf("deinit"); i >= 0 {
				slots[i] = VTableEntry{Name: "deinit", Decl: md}
			} else {
				slots = append(slots, VTableEntry{Name: "deinit", Decl: md})
			}
		}
	}

	decl.VTable = make([]ast.Decl, len(slots))
	for i, e := range slots {
		decl.VTable[i] = e.Decl
	}
	return slots
}

// VTableGlobalName is the symbol the layout driver declares the vtable
// array under for one struct.
func VTableGlobalName(decl *ast.StructDecl) string {
	return decl.Name.Name + ".vtable"
}
