package parser

import (
	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/lexer"
)

func (p *Parser) parseCompoundStmt() *ast.CompoundStmt {
	start := p.tok
	p.expect(lexer.LBrace, "'{'")
	var stmts []ast.Stmt
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(lexer.RBrace, "'}'")
	cs := &ast.CompoundStmt{Stmts: stmts}
	cs.Range = p.rangeFrom(start)
	return cs
}

func (p *Parser) parseStmt() ast.Stmt {
	start := p.tok
	switch p.tok.Kind {
	case lexer.LBrace:
		return p.parseCompoundStmt()
	case lexer.KwIf:
		return p.parseIfStmt()
	case lexer.KwWhile:
		p.advance()
		cond := p.parseExpr()
		body := p.parseCompoundStmt()
		s := &ast.WhileStmt{Cond: cond, Body: body}
		s.Range = p.rangeFrom(start)
		return s
	case lexer.KwDo:
		return p.parseDoStmt()
	case lexer.KwFor:
		return p.parseForStmt()
	case lexer.KwSwitch:
		return p.parseSwitchStmt()
	case lexer.KwBreak:
		p.advance()
		var label *ast.Identifier
		if p.at(lexer.Ident) {
			l := p.ident()
			label = &l
		}
		p.accept(lexer.Semi)
		s := &ast.BreakStmt{Label: label}
		s.Range = p.rangeFrom(start)
		return s
	case lexer.KwContinue:
		p.advance()
		var label *ast.Identifier
		if p.at(lexer.Ident) {
			l := p.ident()
			label = &l
		}
		p.accept(lexer.Semi)
		s := &ast.ContinueStmt{Label: label}
		s.Range = p.rangeFrom(start)
		return s
	case lexer.KwGoto:
		p.advance()
		label := p.ident()
		p.accept(lexer.Semi)
		s := &ast.GotoStmt{Label: label}
		s.Range = p.rangeFrom(start)
		return s
	case lexer.KwReturn:
		p.advance()
		var value ast.Expr
		if !p.at(lexer.Semi) && !p.at(lexer.RBrace) {
			value = p.parseExpr()
		}
		p.accept(lexer.Semi)
		s := &ast.ReturnStmt{Value: value}
		s.Range = p.rangeFrom(start)
		return s
	case lexer.KwVar, lexer.KwLet, lexer.KwConst:
		d := p.parseVarLikeDecl()
		p.accept(lexer.Semi)
		s := &ast.VarDeclStmt{Decl: d}
		s.Range = d.Range
		return s
	}

	// label: stmt
	if p.at(lexer.Ident) {
		save := p.tok
		p.advance()
		if p.at(lexer.Colon) {
			p.advance()
			label := ast.Identifier{Name: save.Text, Range: ast.Range{Start: save.Start, End: save.End, File: p.file}}
			inner := p.parseStmt()
			s := &ast.LabeledStmt{Label: label, Stmt: inner}
			s.Range = p.rangeFrom(start)
			return s
		}
		idExpr := &ast.IdentifierExpr{Name: ast.Identifier{Name: save.Text, Range: ast.Range{Start: save.Start, End: save.End, File: p.file}}}
		idExpr.Range = ast.Range{Start: save.Start, End: save.End, File: p.file}
		e := p.continueAssignFrom(idExpr, save)
		p.accept(lexer.Semi)
		s := &ast.ExprStmt{Expr: e}
		s.Range = p.rangeFrom(start)
		return s
	}

	e := p.parseExpr()
	p.accept(lexer.Semi)
	s := &ast.ExprStmt{Expr: e}
	s.Range = p.rangeFrom(start)
	return s
}

// continueAssignFrom resumes full-precedence parsing (postfix up through
// assignment) given an already-consumed leading identifier, mirroring
// continueExprFrom but covering binary/assignment operators too since a
// bare identifier statement is most often `x = ...` or `x.y();`.
func (p *Parser) continueAssignFrom(e ast.Expr, start lexer.Token) ast.Expr {
	e = p.continueExprFrom(e, start)
	if op, ok := assignOps[p.tok.Kind]; ok {
		p.advance()
		right := p.parseAssignment()
		be := &ast.BinaryExpr{Op: op, Left: e, Right: right}
		be.Range = p.rangeFrom(start)
		return be
	}
	return e
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.tok
	p.expect(lexer.KwIf, "'if'")
	cond := p.parseExpr()
	then := p.parseCompoundStmt()
	var els ast.Stmt
	if p.accept(lexer.KwElse) {
		if p.at(lexer.KwIf) {
			els = p.parseIfStmt()
		} else {
			els = p.parseCompoundStmt()
		}
	}
	s := &ast.IfStmt{Cond: cond, Then: then, Else: els}
	s.Range = p.rangeFrom(start)
	return s
}

func (p *Parser) parseDoStmt() ast.Stmt {
	start := p.tok
	p.expect(lexer.KwDo, "'do'")
	body := p.parseCompoundStmt()
	if p.at(lexer.KwCatch) || p.at(lexer.KwFinally) {
		var catches []*ast.CatchClause
		for p.accept(lexer.KwCatch) {
			cstart := p.prevEnd
			var name *ast.Identifier
			var ty ast.Type
			if p.accept(lexer.LParen) {
				n := p.ident()
				name = &n
				if p.accept(lexer.Colon) {
					ty = p.parseType()
				}
				p.expect(lexer.RParen, "')'")
			}
			cbody := p.parseCompoundStmt()
			catches = append(catches, &ast.CatchClause{
				Range: p.rangeFrom(cstart), Name: name, Type: ty, Body: cbody,
			})
		}
		var finally *ast.CompoundStmt
		if p.accept(lexer.KwFinally) {
			finally = p.parseCompoundStmt()
		}
		s := &ast.DoCatchStmt{Body: body, Catches: catches, Finally: finally}
		s.Range = p.rangeFrom(start)
		return s
	}
	p.expect(lexer.KwWhile, "'while'")
	cond := p.parseExpr()
	p.accept(lexer.Semi)
	s := &ast.DoWhileStmt{Body: body, Cond: cond}
	s.Range = p.rangeFrom(start)
	return s
}

func (p *Parser) parseForStmt() ast.Stmt {
	start := p.tok
	p.expect(lexer.KwFor, "'for'")
	p.expect(lexer.LParen, "'('")
	var initStmt ast.Stmt
	if !p.at(lexer.Semi) {
		initStmt = p.parseStmt()
	} else {
		p.advance()
	}
	var cond ast.Expr
	if !p.at(lexer.Semi) {
		cond = p.parseExpr()
	}
	p.expect(lexer.Semi, "';'")
	var step ast.Stmt
	if !p.at(lexer.RParen) {
		e := p.parseExpr()
		es := &ast.ExprStmt{Expr: e}
		es.Range = e.SrcRange()
		step = es
	}
	p.expect(lexer.RParen, "')'")
	body := p.parseCompoundStmt()
	s := &ast.ForStmt{Init: initStmt, Cond: cond, Step: step, Body: body}
	s.Range = p.rangeFrom(start)
	return s
}

func (p *Parser) parseSwitchStmt() ast.Stmt {
	start := p.tok
	p.expect(lexer.KwSwitch, "'switch'")
	subject := p.parseExpr()
	p.expect(lexer.LBrace, "'{'")
	var cases []*ast.CaseStmt
	for p.at(lexer.KwCase) || p.at(lexer.KwDefault) {
		cstart := p.tok
		var values []ast.Expr
		if p.accept(lexer.KwCase) {
			values = append(values, p.parseExpr())
			for p.accept(lexer.Comma) {
				values = append(values, p.parseExpr())
			}
		} else {
			p.expect(lexer.KwDefault, "'default'")
		}
		p.expect(lexer.Colon, "':'")
		var body []ast.Stmt
		fallsThrough := false
		for !p.at(lexer.KwCase) && !p.at(lexer.KwDefault) && !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
			if p.at(lexer.KwFallthrough) {
				p.advance()
				p.accept(lexer.Semi)
				fallsThrough = true
				break
			}
			body = append(body, p.parseStmt())
		}
		cs := &ast.CaseStmt{Values: values, Body: body, Fallthrough: fallsThrough}
		cs.Range = p.rangeFrom(cstart)
		cases = append(cases, cs)
	}
	p.expect(lexer.RBrace, "'}'")
	s := &ast.SwitchStmt{Subject: subject, Cases: cases}
	s.Range = p.rangeFrom(start)
	return s
}

// parseVarLikeDecl parses `var|let|const name [: Type] [= expr]`, shared by
// statement-position and expression-position declarations.
func (p *Parser) parseVarLikeDecl() *ast.VariableDecl {
	start := p.tok
	isLet := p.at(lexer.KwLet)
	isConst := p.at(lexer.KwConst)
	p.advance() // var/let/const
	name := p.ident()
	var ty ast.Type
	if p.accept(lexer.Colon) {
		ty = p.parseType()
	}
	var init ast.Expr
	if p.accept(lexer.Eq) {
		init = p.parseExpr()
	}
	d := &ast.VariableDecl{Type: ty, Init: init, IsConst: isConst, IsLet: isLet}
	d.Name = name
	d.Range = p.rangeFrom(start)
	return d
}
