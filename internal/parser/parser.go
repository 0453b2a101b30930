// Package parser builds gulc's unresolved AST via recursive descent with
// Pratt-style precedence climbing and one token of lookahead via the
// lexer. Declaration grammar, modifier-legality tables, and the
// template-argument/right-shift-toggle interaction are gulc's own.
package parser

import (
	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/diagnostic"
	"codeberg.org/saruga/gulc/internal/lexer"
)

// Parser holds one file's parse state.
type Parser struct {
	file  string
	lex   *lexer.Lexer
	diags *diagnostic.List

	tok     lexer.Token
	prevEnd lexer.Token
}

// New creates a Parser over source for file.
func New(file, source string, diags *diagnostic.List) *Parser {
	p := &Parser{file: file, lex: lexer.New(file, source, diags), diags: diags}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.prevEnd = p.tok
	p.tok = p.lex.Next()
}

func (p *Parser) at(k lexer.Kind) bool { return p.tok.Kind == k }

func (p *Parser) accept(k lexer.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k lexer.Kind, what string) lexer.Token {
	if !p.at(k) {
		p.errorf(diagnostic.CodeUnexpectedToken, "expected %s, got %q", what, p.tok.Text)
		return p.tok
	}
	t := p.tok
	p.advance()
	return t
}

func (p *Parser) errorf(code diagnostic.Code, format string, args ...any) {
	p.diags.Errorf(diagnostic.PhaseParse, code, p.file, p.tok.Start, p.tok.End, format, args...)
}

func (p *Parser) rangeFrom(start lexer.Token) ast.Range {
	return ast.Range{Start: start.Start, End: p.prevEnd.End, File: p.file}
}

func (p *Parser) ident() ast.Identifier {
	t := p.tok
	if p.at(lexer.Ident) || p.at(lexer.Underscore) || isReservedWordUsableAsName(p.tok.Kind) {
		p.advance()
		return ast.Identifier{Name: t.Text, Range: ast.Range{Start: t.Start, End: t.End, File: p.file}}
	}
	p.errorf(diagnostic.CodeUnexpectedToken, "expected identifier, got %q", t.Text)
	return ast.Identifier{Name: t.Text, Range: ast.Range{Start: t.Start, End: t.End, File: p.file}}
}

// isReservedWordUsableAsName allows reserved words as labels/arg names per
// spec.md §6: "reserved words may be used as labels (and as argument names
// prefixed with @)".
func isReservedWordUsableAsName(k lexer.Kind) bool {
	return k >= lexer.KwNamespace && k <= lexer.KwCopyKw
}

// ParseFile parses a whole source file into its top-level declarations.
func (p *Parser) ParseFile() []ast.Decl {
	var decls []ast.Decl
	for !p.at(lexer.EOF) {
		d := p.parseDecl()
		if d != nil {
			decls = append(decls, d)
		} else {
			p.advance() // avoid an infinite loop on unrecoverable input
		}
	}
	return decls
}
