package parser

import (
	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/lexer"
)

// parseQualifier consumes an optional leading mut/immut qualifier.
func (p *Parser) parseQualifier() ast.Qualifier {
	switch p.tok.Kind {
	case lexer.KwMut:
		p.advance()
		return ast.Mut
	case lexer.KwImmut:
		p.advance()
		return ast.Immut
	}
	return ast.Unassigned
}

// parseType parses one Type production: compound prefixes (pointer,
// reference, array, dimension), then a nominal/unresolved path with
// optional template arguments.
func (p *Parser) parseType() ast.Type {
	start := p.tok
	qual := p.parseQualifier()

	switch p.tok.Kind {
	case lexer.Star:
		p.advance()
		inner := p.parseType()
		t := &ast.PointerType{Inner: inner}
		t.Range = p.rangeFrom(start)
		t.Qualifier = qual
		return t
	case lexer.Amp:
		p.advance()
		inner := p.parseType()
		t := &ast.ReferenceType{Inner: inner}
		t.Range = p.rangeFrom(start)
		t.Qualifier = qual
		return t
	case lexer.KwSelf:
		p.advance()
		t := &ast.SelfType{}
		t.Range = p.rangeFrom(start)
		t.Qualifier = qual
		return t
	}

	// `func(Params) -> T` function-pointer type.
	if p.at(lexer.KwFunc) {
		p.advance()
		p.expect(lexer.LParen, "'('")
		var params []ast.Type
		for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
			params = append(params, p.parseType())
			if !p.accept(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.RParen, "')'")
		var ret ast.Type
		if p.accept(lexer.Arrow) {
			ret = p.parseType()
		}
		t := &ast.FunctionPointerType{Params: params, ReturnType: ret}
		t.Range = p.rangeFrom(start)
		t.Qualifier = qual
		return t
	}

	base := p.parseUnresolvedOrBuiltin(start, qual)
	return p.parseTypePostfix(start, qual, base)
}

func (p *Parser) parseUnresolvedOrBuiltin(start lexer.Token, qual ast.Qualifier) ast.Type {
	var path []ast.Identifier
	name := p.ident()
	for p.at(lexer.Dot) {
		// Lookahead: `A.B` where B starts a new path segment vs. a nested
		// type name handled by parseTypePostfix's dotted walk below. Only
		// consume here when followed by another identifier-like token.
		p.advance()
		path = append(path, name)
		name = p.ident()
	}

	var args []ast.Type
	if p.at(lexer.Less) {
		args = p.parseTemplateArgList()
	}

	t := &ast.UnresolvedType{Path: path, Name: name, Args: args}
	t.Range = p.rangeFrom(start)
	t.Qualifier = qual
	return t
}

// parseTypePostfix handles nested `.Name<Args>` suffixes after the initial
// path/name/args have been parsed, producing UnresolvedNestedType wrappers.
func (p *Parser) parseTypePostfix(start lexer.Token, qual ast.Qualifier, base ast.Type) ast.Type {
	for p.at(lexer.Dot) {
		p.advance()
		name := p.ident()
		var args []ast.Type
		if p.at(lexer.Less) {
			args = p.parseTemplateArgList()
		}
		nt := &ast.UnresolvedNestedType{Container: base, Name: name, Args: args}
		nt.Range = p.rangeFrom(start)
		nt.Qualifier = qual
		base = nt
	}

	// Array / dimension suffixes: `T[]`, `T[n]`, `T[,]`.
	for p.at(lexer.LBracket) {
		p.advance()
		if p.accept(lexer.RBracket) {
			at := &ast.FlatArrayType{Element: base}
			at.Range = p.rangeFrom(start)
			at.Qualifier = qual
			base = at
			continue
		}
		rank := 1
		for p.accept(lexer.Comma) {
			rank++
		}
		if p.at(lexer.RBracket) {
			p.advance()
			dt := &ast.DimensionType{Inner: base, Rank: rank}
			dt.Range = p.rangeFrom(start)
			dt.Qualifier = qual
			base = dt
			continue
		}
		lengthExpr := p.parseExpr()
		p.expect(lexer.RBracket, "']'")
		at := &ast.FlatArrayType{Element: base, LengthExpr: lengthExpr}
		at.Range = p.rangeFrom(start)
		at.Qualifier = qual
		base = at
	}
	return base
}

// parseTemplateArgList parses `<T, U, ...>`, toggling the lexer's
// right-shift-splitting flag for its duration (spec.md §4.1, §4.2).
func (p *Parser) parseTemplateArgList() []ast.Type {
	p.expect(lexer.Less, "'<'")
	p.lex.PushRightShiftSplitting()
	defer p.lex.PopRightShiftSplitting()

	var args []ast.Type
	for !p.at(lexer.TemplateEnd) && !p.at(lexer.EOF) {
		args = append(args, p.parseType())
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.TemplateEnd, "'>'")
	return args
}

// parseTemplateParamList parses `<T>`, `<T: Trait>`, `<const name: Type>`
// declaration-side parameter lists, with the same right-shift toggle.
func (p *Parser) parseTemplateParamList() []*ast.TemplateParameterDecl {
	p.expect(lexer.Less, "'<'")
	p.lex.PushRightShiftSplitting()
	defer p.lex.PopRightShiftSplitting()

	var params []*ast.TemplateParameterDecl
	for !p.at(lexer.TemplateEnd) && !p.at(lexer.EOF) {
		start := p.tok
		if p.accept(lexer.KwConst) {
			name := p.ident()
			p.expect(lexer.Colon, "':'")
			ty := p.parseType()
			d := &ast.TemplateParameterDecl{Kind: ast.TemplateParamConst, ConstType: ty}
			d.Name = name
			d.Range = p.rangeFrom(start)
			params = append(params, d)
		} else {
			name := p.ident()
			var constraints []ast.Type
			if p.accept(lexer.Colon) {
				constraints = append(constraints, p.parseType())
				for p.accept(lexer.Amp) {
					constraints = append(constraints, p.parseType())
				}
			}
			d := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename, Constraints: constraints}
			d.Name = name
			d.Range = p.rangeFrom(start)
			params = append(params, d)
		}
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.TemplateEnd, "'>'")
	return params
}
