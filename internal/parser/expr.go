package parser

import (
	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/lexer"
)

// parseExpr parses a full expression at the lowest precedence (assignment),
// the entry point of the Pratt-style ladder of spec.md §4.2: assignment ->
// ternary -> logical-or -> logical-and -> bitwise-or/xor/and -> equality ->
// relational -> shift -> additive -> multiplicative -> as/is/has -> prefix
// -> postfix/call/subscript/member -> primary.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

var assignOps = map[lexer.Kind]ast.BinaryOpKind{
	lexer.Eq:        ast.OpAssign,
	lexer.PlusEq:    ast.OpAddAssign,
	lexer.MinusEq:   ast.OpSubAssign,
	lexer.StarEq:    ast.OpMulAssign,
	lexer.SlashEq:   ast.OpDivAssign,
	lexer.PercentEq: ast.OpModAssign,
	lexer.AmpEq:     ast.OpBitAndAssign,
	lexer.PipeEq:    ast.OpBitOrAssign,
	lexer.CaretEq:   ast.OpBitXorAssign,
	lexer.ShlEq:     ast.OpShlAssign,
	lexer.ShrEq:     ast.OpShrAssign,
}

func (p *Parser) parseAssignment() ast.Expr {
	start := p.tok
	left := p.parseTernary()
	if op, ok := assignOps[p.tok.Kind]; ok {
		p.advance()
		right := p.parseAssignment()
		e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		e.Range = p.rangeFrom(start)
		return e
	}
	return left
}

func (p *Parser) parseTernary() ast.Expr {
	start := p.tok
	cond := p.parseLogicalOr()
	if p.accept(lexer.Question) {
		then := p.parseExpr()
		p.expect(lexer.Colon, "':'")
		els := p.parseAssignment()
		e := &ast.TernaryExpr{Cond: cond, Then: then, Else: els}
		e.Range = p.rangeFrom(start)
		return e
	}
	return cond
}

func (p *Parser) binaryLevel(next func() ast.Expr, ops map[lexer.Kind]ast.BinaryOpKind) ast.Expr {
	start := p.tok
	left := next()
	for {
		op, ok := ops[p.tok.Kind]
		if !ok {
			return left
		}
		p.advance()
		right := next()
		e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		e.Range = p.rangeFrom(start)
		left = e
	}
}

func (p *Parser) parseLogicalOr() ast.Expr {
	return p.binaryLevel(p.parseLogicalAnd, map[lexer.Kind]ast.BinaryOpKind{lexer.PipePipe: ast.OpLogOr})
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	return p.binaryLevel(p.parseBitOr, map[lexer.Kind]ast.BinaryOpKind{lexer.AmpAmp: ast.OpLogAnd})
}

func (p *Parser) parseBitOr() ast.Expr {
	return p.binaryLevel(p.parseBitXor, map[lexer.Kind]ast.BinaryOpKind{lexer.Pipe: ast.OpBitOr})
}

func (p *Parser) parseBitXor() ast.Expr {
	return p.binaryLevel(p.parseBitAnd, map[lexer.Kind]ast.BinaryOpKind{lexer.Caret: ast.OpBitXor})
}

func (p *Parser) parseBitAnd() ast.Expr {
	return p.binaryLevel(p.parseEquality, map[lexer.Kind]ast.BinaryOpKind{lexer.Amp: ast.OpBitAnd})
}

func (p *Parser) parseEquality() ast.Expr {
	return p.binaryLevel(p.parseRelational, map[lexer.Kind]ast.BinaryOpKind{
		lexer.EqEq: ast.OpEq, lexer.BangEq: ast.OpNeq,
	})
}

func (p *Parser) parseRelational() ast.Expr {
	return p.binaryLevel(p.parseShift, map[lexer.Kind]ast.BinaryOpKind{
		lexer.Less: ast.OpLt, lexer.LessEq: ast.OpLte, lexer.Greater: ast.OpGt, lexer.GreaterEq: ast.OpGte,
	})
}

func (p *Parser) parseShift() ast.Expr {
	return p.binaryLevel(p.parseAdditive, map[lexer.Kind]ast.BinaryOpKind{
		lexer.Shl: ast.OpShl, lexer.Shr: ast.OpShr,
	})
}

func (p *Parser) parseAdditive() ast.Expr {
	return p.binaryLevel(p.parseMultiplicative, map[lexer.Kind]ast.BinaryOpKind{
		lexer.Plus: ast.OpAdd, lexer.Minus: ast.OpSub,
	})
}

func (p *Parser) parseMultiplicative() ast.Expr {
	return p.binaryLevel(p.parseAsIsHas, map[lexer.Kind]ast.BinaryOpKind{
		lexer.Star: ast.OpMul, lexer.Slash: ast.OpDiv, lexer.Percent: ast.OpMod,
	})
}

func (p *Parser) parseAsIsHas() ast.Expr {
	start := p.tok
	left := p.parsePrefix()
	for {
		var kind ast.CastKind
		switch p.tok.Kind {
		case lexer.KwAs:
			kind = ast.CastAs
		case lexer.KwIs:
			kind = ast.CastIs
		case lexer.KwHas:
			kind = ast.CastHas
		default:
			return left
		}
		p.advance()
		e := &ast.AsIsHasExpr{Kind: kind, Operand: left}
		if kind == ast.CastHas {
			e.HasShape = p.parseHasShape()
		} else {
			e.Target = p.parseType()
		}
		e.Range = p.rangeFrom(start)
		left = e
	}
}

// parseHasShape parses the RHS declaration-shape grammar of a `has`
// expression (spec.md §4.7's folding table).
func (p *Parser) parseHasShape() *ast.HasShape {
	switch p.tok.Kind {
	case lexer.KwInit:
		p.advance()
		params := p.parseParenParamList()
		return &ast.HasShape{Kind: ast.HasInit, Params: params}
	case lexer.KwDeinit:
		p.advance()
		virtual := p.accept(lexer.KwVirtual)
		return &ast.HasShape{Kind: ast.HasDeinit, Virtual: virtual}
	case lexer.KwCase:
		p.advance()
		name := p.ident()
		return &ast.HasShape{Kind: ast.HasCase, Name: &name}
	case lexer.KwVar:
		p.advance()
		name := p.ident()
		p.expect(lexer.Colon, "':'")
		ty := p.parseType()
		return &ast.HasShape{Kind: ast.HasVar, Name: &name, Type: ty}
	case lexer.KwProperty:
		p.advance()
		name := p.ident()
		p.expect(lexer.Colon, "':'")
		ty := p.parseType()
		get, set := p.parseOptionalGetSetFlags()
		return &ast.HasShape{Kind: ast.HasProperty, Name: &name, Type: ty, Get: get, Set: set}
	case lexer.KwSubscript:
		p.advance()
		params := p.parseParenParamList()
		var ty ast.Type
		if p.accept(lexer.Arrow) {
			ty = p.parseType()
		}
		get, set := p.parseOptionalGetSetFlags()
		return &ast.HasShape{Kind: ast.HasSubscript, Params: params, Type: ty, Get: get, Set: set}
	case lexer.KwFunc, lexer.KwOperator, lexer.KwCall:
		p.advance()
		if p.at(lexer.Ident) {
			p.advance() // optional function name
		}
		params := p.parseParenParamList()
		var ty ast.Type
		if p.accept(lexer.Arrow) {
			ty = p.parseType()
		}
		return &ast.HasShape{Kind: ast.HasFuncOrOperatorOrCall, Params: params, Type: ty}
	default:
		ty := p.parseType()
		return &ast.HasShape{Kind: ast.HasTrait, Trait: ty}
	}
}

func (p *Parser) parseOptionalGetSetFlags() (get, set bool) {
	if !p.accept(lexer.LBrace) {
		return false, false
	}
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		switch p.tok.Kind {
		case lexer.KwGet:
			get = true
			p.advance()
		case lexer.KwSet:
			set = true
			p.advance()
		default:
			p.advance()
		}
		p.accept(lexer.Semi)
	}
	p.expect(lexer.RBrace, "'}'")
	return get, set
}

func (p *Parser) parseParenParamList() []*ast.ParameterDecl {
	p.expect(lexer.LParen, "'('")
	var params []*ast.ParameterDecl
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		params = append(params, p.parseParameter())
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen, "')'")
	return params
}

func (p *Parser) parsePrefix() ast.Expr {
	start := p.tok
	switch p.tok.Kind {
	case lexer.Minus:
		p.advance()
		e := &ast.UnaryExpr{Op: ast.OpNeg, Operand: p.parsePrefix()}
		e.Range = p.rangeFrom(start)
		return e
	case lexer.Bang:
		p.advance()
		e := &ast.UnaryExpr{Op: ast.OpNot, Operand: p.parsePrefix()}
		e.Range = p.rangeFrom(start)
		return e
	case lexer.Tilde:
		p.advance()
		e := &ast.UnaryExpr{Op: ast.OpBitNot, Operand: p.parsePrefix()}
		e.Range = p.rangeFrom(start)
		return e
	case lexer.PlusPlus:
		p.advance()
		e := &ast.UnaryExpr{Op: ast.OpPreInc, Operand: p.parsePrefix()}
		e.Range = p.rangeFrom(start)
		return e
	case lexer.MinusMinus:
		p.advance()
		e := &ast.UnaryExpr{Op: ast.OpPreDec, Operand: p.parsePrefix()}
		e.Range = p.rangeFrom(start)
		return e
	case lexer.Amp:
		p.advance()
		e := &ast.UnaryExpr{Op: ast.OpAddrOf, Operand: p.parsePrefix()}
		e.Range = p.rangeFrom(start)
		return e
	case lexer.Star:
		p.advance()
		e := &ast.UnaryExpr{Op: ast.OpDeref, Operand: p.parsePrefix()}
		e.Range = p.rangeFrom(start)
		return e
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	start := p.tok
	e := p.parsePrimary()
	for {
		switch p.tok.Kind {
		case lexer.Dot:
			p.advance()
			isArrow := false
			name := p.ident()
			me := &ast.MemberExpr{Receiver: e, Name: name, IsArrow: isArrow}
			me.Range = p.rangeFrom(start)
			e = me
		case lexer.LParen:
			args := p.parseCallArgs()
			ce := &ast.FunctionCallExpr{Callee: e, Args: args}
			ce.Range = p.rangeFrom(start)
			e = ce
		case lexer.LBracket:
			p.advance()
			var args []ast.CallArg
			for !p.at(lexer.RBracket) && !p.at(lexer.EOF) {
				args = append(args, p.parseOneCallArg())
				if !p.accept(lexer.Comma) {
					break
				}
			}
			p.expect(lexer.RBracket, "']'")
			se := &ast.SubscriptCallExpr{Receiver: e, Args: args}
			se.Range = p.rangeFrom(start)
			e = se
		case lexer.PlusPlus:
			p.advance()
			ue := &ast.UnaryExpr{Op: ast.OpPostInc, Operand: e, Postfix: true}
			ue.Range = p.rangeFrom(start)
			e = ue
		case lexer.MinusMinus:
			p.advance()
			ue := &ast.UnaryExpr{Op: ast.OpPostDec, Operand: e, Postfix: true}
			ue.Range = p.rangeFrom(start)
			e = ue
		default:
			return e
		}
	}
}

func (p *Parser) parseCallArgs() []ast.CallArg {
	p.expect(lexer.LParen, "'('")
	var args []ast.CallArg
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		args = append(args, p.parseOneCallArg())
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen, "')'")
	return args
}

// parseOneCallArg parses `label: expr`, `@reservedWordLabel: expr`, or a
// bare `expr` (anonymous label, only legal when the callee parameter
// declares "_").
func (p *Parser) parseOneCallArg() ast.CallArg {
	if p.at(lexer.At) {
		p.advance()
		name := p.ident()
		p.expect(lexer.Colon, "':'")
		return ast.CallArg{Label: &name, Value: p.parseExpr()}
	}
	if p.at(lexer.Ident) {
		// Disambiguate `label: expr` from a bare expression starting with
		// an identifier by checking for a following colon without
		// consuming on failure (single token of lookahead is enough since
		// labels are themselves bare identifiers, not full expressions).
		save := p.tok
		name := p.tok
		p.advance()
		if p.at(lexer.Colon) {
			p.advance()
			id := ast.Identifier{Name: name.Text, Range: ast.Range{Start: name.Start, End: name.End, File: p.file}}
			return ast.CallArg{Label: &id, Value: p.parseExpr()}
		}
		// Not a label: re-parse as an expression starting from the
		// identifier we already consumed, via parsePostfix continuation.
		idExpr := &ast.IdentifierExpr{Name: ast.Identifier{Name: save.Text, Range: ast.Range{Start: save.Start, End: save.End, File: p.file}}}
		idExpr.Range = ast.Range{Start: save.Start, End: save.End, File: p.file}
		return ast.CallArg{Value: p.continueExprFrom(idExpr, save)}
	}
	return ast.CallArg{Value: p.parseExpr()}
}

// continueExprFrom resumes postfix/binary parsing given an already-parsed
// primary expression (used by the label-vs-expression lookahead above).
func (p *Parser) continueExprFrom(e ast.Expr, start lexer.Token) ast.Expr {
	for {
		switch p.tok.Kind {
		case lexer.Dot:
			p.advance()
			name := p.ident()
			me := &ast.MemberExpr{Receiver: e, Name: name}
			me.Range = p.rangeFrom(start)
			e = me
		case lexer.LParen:
			args := p.parseCallArgs()
			ce := &ast.FunctionCallExpr{Callee: e, Args: args}
			ce.Range = p.rangeFrom(start)
			e = ce
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.tok
	switch p.tok.Kind {
	case lexer.IntLiteral, lexer.FloatLiteral:
		text := p.tok.Text
		kind := ast.LitInt
		if p.tok.Kind == lexer.FloatLiteral {
			kind = ast.LitFloat
		}
		p.advance()
		numeric, suffix := lexer.SuffixOf(text)
		e := &ast.LiteralExpr{Kind: kind, Text: numeric}
		if suffix != "" {
			id := ast.Identifier{Name: suffix}
			e.Suffix = &id
		}
		e.Range = p.rangeFrom(start)
		return e
	case lexer.CharLiteral:
		e := &ast.LiteralExpr{Kind: ast.LitChar, Text: p.tok.Text}
		p.advance()
		e.Range = p.rangeFrom(start)
		return e
	case lexer.StringLiteral:
		e := &ast.LiteralExpr{Kind: ast.LitString, Text: p.tok.Text}
		p.advance()
		e.Range = p.rangeFrom(start)
		return e
	case lexer.KwTrue, lexer.KwFalse:
		e := &ast.LiteralExpr{Kind: ast.LitInt, Text: p.tok.Text}
		p.advance()
		e.Range = p.rangeFrom(start)
		return e
	case lexer.KwSelf:
		p.advance()
		e := &ast.CurrentSelfExpr{}
		e.Range = p.rangeFrom(start)
		return e
	case lexer.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(lexer.RParen, "')'")
		e := &ast.ParenExpr{Inner: inner}
		e.Range = p.rangeFrom(start)
		return e
	case lexer.LBracket:
		p.advance()
		var elems []ast.Expr
		for !p.at(lexer.RBracket) && !p.at(lexer.EOF) {
			elems = append(elems, p.parseExpr())
			if !p.accept(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.RBracket, "']'")
		e := &ast.ArrayLiteralExpr{Elements: elems}
		e.Range = p.rangeFrom(start)
		return e
	case lexer.KwVar, lexer.KwLet, lexer.KwConst:
		d := p.parseVarLikeDecl()
		e := &ast.VarDeclExpr{Decl: d}
		e.Range = d.Range
		return e
	case lexer.Ident, lexer.Underscore:
		name := p.ident()
		var targs []ast.Type
		if p.at(lexer.Less) && p.looksLikeTemplateArgStart() {
			saveTok, savePrev := p.tok, p.prevEnd
			p.lex.Checkpoint()
			args, ok := p.tryParseTemplateArgList()
			if ok {
				targs = args
				p.lex.Commit()
			} else {
				p.lex.Rewind()
				p.tok, p.prevEnd = saveTok, savePrev
			}
		}
		e := &ast.IdentifierExpr{Name: name, TemplateArgs: targs}
		e.Range = p.rangeFrom(start)
		return e
	}
	p.errorf(diagnostic.CodeUnexpectedToken, "unexpected token %q in expression", p.tok.Text)
	p.advance()
	e := &ast.LiteralExpr{Kind: ast.LitInt, Text: "0"}
	e.Range = p.rangeFrom(start)
	return e
}

// looksLikeTemplateArgStart is the gate before paying for a
// checkpoint/rewind. It accepts every `<`, so the speculative
// template-argument parse is attempted whenever an identifier is followed
// by `<`.
func (p *Parser) looksLikeTemplateArgStart() bool {
	return true
}

// tryParseTemplateArgList attempts to parse `<Args>` as an expression-
// position template-argument list, reporting success so the caller can
// commit or rewind the lexer checkpoint it opened (spec.md §4.1: "the
// parser speculatively opens template-argument lists"). Diagnostics raised
// during the speculative attempt are discarded on failure so a plain `a <
// b` comparison never leaks a bogus parse error.
func (p *Parser) tryParseTemplateArgList() (args []ast.Type, ok bool) {
	realDiags := p.diags
	scratch := diagnostic.NewList()
	p.diags = scratch
	defer func() { p.diags = realDiags }()

	args = p.parseTemplateArgList()
	return args, !scratch.HasErrors()
}
