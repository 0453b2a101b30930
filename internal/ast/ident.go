package ast

// Identifier is a name with its source range (spec.md §3). Identifiers
// compare by textual equality; "_" is the anonymous label and never matches
// another name for redefinition purposes (SameIdentifier below encodes that rule).
type Identifier struct {
	Name  string
	Range Range
}

// Anonymous is the reserved "no name" identifier text.
const Anonymous = "_"

// IsAnonymous reports whether this identifier is the anonymous label.
func (id Identifier) IsAnonymous() bool {
	return id.Name == Anonymous
}

// SameIdentifier reports whether two identifiers denote the same name for
// redefinition-checking purposes: anonymous labels never collide with
// anything, including each other.
func SameIdentifier(a, b Identifier) bool {
	if a.IsAnonymous() || b.IsAnonymous() {
		return false
	}
	return a.Name == b.Name
}
