// Package ast defines gulc's algebraic node families — Identifier, Type,
// Decl, Stmt, Expr, and Cont — as Go tagged interfaces.
//
// Type lives in this package rather than a separate types package because
// Type spans both unresolved and resolved states and its nominal variants
// reference Decl while Decl references Type; splitting them would force an
// import cycle.
package ast

import "codeberg.org/saruga/gulc/internal/sourcemap"

// Range is the source range carried by every node, per spec.md §3's
// "(start, end) : (line,column)" requirement. Unlike a comparable byte-offset
// Loc, Range stores line/column pairs directly; internal/sourcemap.LineIndex
// produces them from a lexer's byte offsets.
type Range struct {
	Start sourcemap.Position
	End   sourcemap.Position
	File  string
}
