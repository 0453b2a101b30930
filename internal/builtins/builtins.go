// Package builtins registers the primitive types of spec.md §4.4 step 1
// (i8..i64, u8..u64, f16/32/64, void) and the numeric-conversion metadata
// internal/resolve's convert.go drives off of. bool and Self are not in the
// registry; internal/resolve matches those two names itself.
//
// Registered as a flat name-keyed table consulted before any user-scope
// lookup runs.
package builtins

import "codeberg.org/saruga/gulc/internal/ast"

// Registry is the read-only set of built-in primitive types, looked up by
// name during the first step of type resolution (spec.md §4.4).
type Registry struct {
	byName map[string]*ast.BuiltInType
	order  []string
}

// New builds the standard built-in registry.
func New() *Registry {
	r := &Registry{byName: map[string]*ast.BuiltInType{}}
	add := func(name string, size int, signed, floating bool) {
		r.byName[name] = &ast.BuiltInType{Name: name, SizeBytes: size, Signed: signed, Floating: floating}
		r.order = append(r.order, name)
	}
	add("i8", 1, true, false)
	add("i16", 2, true, false)
	add("i32", 4, true, false)
	add("i64", 8, true, false)
	add("u8", 1, false, false)
	add("u16", 2, false, false)
	add("u32", 4, false, false)
	add("u64", 8, false, false)
	add("f16", 2, true, true)
	add("f32", 4, true, true)
	add("f64", 8, true, true)
	r.byName["void"] = &ast.BuiltInType{Name: "void", IsVoid: true}
	r.order = append(r.order, "void")
	return r
}

// Lookup returns the built-in type named name, or nil if name is not a
// built-in. "bool" and "Self" are deliberately excluded here: they have
// their own Type variants (BoolType, SelfType) and are matched directly by
// internal/resolve before falling back to this registry.
func (r *Registry) Lookup(name string) *ast.BuiltInType {
	bt, ok := r.byName[name]
	if !ok {
		return nil
	}
	// Return a fresh copy so callers can attach a distinct TypeBase
	// (qualifier, lvalue flag, range) without mutating the shared registry
	// entry.
	copy := *bt
	return &copy
}

// Names returns every built-in name in declaration order, used by
// diagnostics that need to enumerate "did you mean one of..." suggestions.
func (r *Registry) Names() []string {
	return r.order
}

// IsIntegral reports whether name is one of the signed/unsigned integer
// built-ins.
func IsIntegral(bt *ast.BuiltInType) bool {
	return bt != nil && !bt.Floating && !bt.IsVoid
}

// IntegralRank orders the integer built-ins from narrowest to widest within
// a signedness class, used by internal/resolve/convert.go's widening table.
var IntegralRank = map[string]int{
	"i8": 0, "i16": 1, "i32": 2, "i64": 3,
	"u8": 0, "u16": 1, "u32": 2, "u64": 3,
}

// FloatRank orders the floating-point built-ins from narrowest to widest.
var FloatRank = map[string]int{
	"f16": 0, "f32": 1, "f64": 2,
}
