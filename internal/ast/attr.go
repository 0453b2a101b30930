package ast

// Attr is an attribute attached to a declaration, `[Name(expr,...)]`.
// Attributes may stack and prefix any declaration (spec.md §4.2); they are
// deferred to an unspecified later resolution pass, so UnresolvedAttr is the
// only variant this repository produces.
type Attr interface {
	isAttr()
	SrcRange() Range
}

// UnresolvedAttr is an attribute as the parser produced it: a name and its
// argument expressions, not yet interpreted by any pass.
type UnresolvedAttr struct {
	Range Range
	Name  Identifier
	Args  []Expr
}

func (*UnresolvedAttr) isAttr()          {}
func (a *UnresolvedAttr) SrcRange() Range { return a.Range }
