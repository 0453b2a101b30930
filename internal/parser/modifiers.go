package parser

import (
	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/lexer"
)

// parseModifiers consumes the modifier/visibility keyword run that may
// prefix any declaration (spec.md §6). Legality per declaration kind is
// checked later by internal/declcheck's exhaustive table (spec.md §4.3
// sub-phase 3) — the parser only recognizes the tokens.
func (p *Parser) parseModifiers() (ast.Visibility, ast.Modifier, bool) {
	vis := ast.VisUnassigned
	var mods ast.Modifier
	isConstExpr := false
loop:
	for {
		switch p.tok.Kind {
		case lexer.KwPublic:
			vis = ast.VisPublic
			p.advance()
		case lexer.KwPrivate:
			vis = ast.VisPrivate
			p.advance()
		case lexer.KwProtected:
			vis = ast.VisProtected
			p.advance()
			if p.at(lexer.KwInternal) {
				vis = ast.VisProtectedInternal
				p.advance()
			}
		case lexer.KwInternal:
			vis = ast.VisInternal
			p.advance()
		case lexer.KwStatic:
			mods |= ast.ModStatic
			p.advance()
		case lexer.KwExtern:
			mods |= ast.ModExtern
			p.advance()
		case lexer.KwMut:
			mods |= ast.ModMut
			p.advance()
		case lexer.KwVolatile:
			mods |= ast.ModVolatile
			p.advance()
		case lexer.KwAbstract:
			mods |= ast.ModAbstract
			p.advance()
		case lexer.KwVirtual:
			mods |= ast.ModVirtual
			p.advance()
		case lexer.KwOverride:
			mods |= ast.ModOverride
			p.advance()
		case lexer.KwConst:
			// `const` as a modifier (isConstExpr) vs. `const name = ...` as
			// a declaration keyword: an identifier right after `const` means
			// declaration keyword, so the modifier run stops here and leaves
			// `const` for the caller.
			p.lex.Checkpoint()
			next := p.lex.Next()
			p.lex.Rewind()
			if next.Kind == lexer.Ident {
				break loop
			}
			isConstExpr = true
			p.advance()
		default:
			break loop
		}
	}
	return vis, mods, isConstExpr
}
