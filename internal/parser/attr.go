package parser

import (
	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/lexer"
)

// parseAttrs consumes a stacked run of `[Name(expr,...)]` attributes
// prefixing a declaration (spec.md §4.2). Each produces an UnresolvedAttr,
// deferred to an unspecified later resolution pass.
func (p *Parser) parseAttrs() []ast.Attr {
	var attrs []ast.Attr
	for p.at(lexer.LBracket) {
		start := p.tok
		p.advance()
		name := p.ident()
		var args []ast.Expr
		if p.accept(lexer.LParen) {
			for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
				args = append(args, p.parseExpr())
				if !p.accept(lexer.Comma) {
					break
				}
			}
			p.expect(lexer.RParen, "')'")
		}
		p.expect(lexer.RBracket, "']'")
		attrs = append(attrs, &ast.UnresolvedAttr{
			Range: p.rangeFrom(start), Name: name, Args: args,
		})
	}
	return attrs
}
