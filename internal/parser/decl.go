package parser

import (
	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/diagnostic"
	"codeberg.org/saruga/gulc/internal/lexer"
)

// parseDecl dispatches on the leading keyword (after consuming any
// attributes and modifiers) to the production for each declaration kind in
// spec.md §6.
func (p *Parser) parseDecl() ast.Decl {
	start := p.tok
	attrs := p.parseAttrs()
	vis, mods, isConstExpr := p.parseModifiers()

	var d ast.Decl
	switch p.tok.Kind {
	case lexer.KwNamespace:
		d = p.parseNamespaceDecl(start)
	case lexer.KwImport:
		d = p.parseImportDecl(start)
	case lexer.KwStruct:
		d = p.parseStructDecl(start, ast.KindStruct)
	case lexer.KwClass:
		d = p.parseStructDecl(start, ast.KindClass)
	case lexer.KwUnion:
		d = p.parseStructDecl(start, ast.KindUnion)
	case lexer.KwTrait:
		d = p.parseTraitDecl(start)
	case lexer.KwEnum:
		d = p.parseEnumDecl(start)
	case lexer.KwExtension:
		d = p.parseExtensionDecl(start)
	case lexer.KwFunc:
		d = p.parseFunctionDecl(start)
	case lexer.KwInit:
		d = p.parseConstructorDecl(start)
	case lexer.KwDeinit:
		d = p.parseDestructorDecl(start)
	case lexer.KwCall:
		d = p.parseCallOperatorDecl(start)
	case lexer.KwOperator:
		d = p.parseOperatorDecl(start)
	case lexer.KwSubscript:
		d = p.parseSubscriptDecl(start)
	case lexer.KwProperty:
		d = p.parsePropertyDecl(start)
	case lexer.KwTypealias:
		d = p.parseTypeAliasDecl(start)
	case lexer.KwTypesuffix:
		d = p.parseTypeSuffixDecl(start)
	case lexer.KwVar, lexer.KwLet, lexer.KwConst:
		vd := p.parseVarLikeDecl()
		p.accept(lexer.Semi)
		d = vd
	default:
		p.errorf(diagnostic.CodeUnexpectedToken, "expected a declaration, got %q", p.tok.Text)
		return nil
	}

	if d == nil {
		return nil
	}
	common := d.Common()
	common.Visibility = vis
	common.Modifiers = mods
	common.IsConstExpr = isConstExpr
	common.Attrs = attrs
	return d
}

func (p *Parser) parseNamespaceDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwNamespace, "'namespace'")
	name := p.ident()
	for p.accept(lexer.Dot) {
		// Flatten `namespace a.b.c;` into nested dotted name text; kept as
		// one Identifier since spec.md models Namespace by qualified name.
		next := p.ident()
		name.Name = name.Name + "." + next.Name
	}
	d := &ast.NamespaceDecl{}
	d.Name = name
	if p.at(lexer.LBrace) {
		p.advance()
		for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
			m := p.parseDecl()
			if m != nil {
				d.Members = append(d.Members, m)
			} else {
				p.advance()
			}
		}
		p.expect(lexer.RBrace, "'}'")
	} else {
		p.accept(lexer.Semi)
	}
	d.Range = p.rangeFrom(start)
	return d
}

func (p *Parser) parseImportDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwImport, "'import'")
	var path []ast.Identifier
	path = append(path, p.ident())
	for p.accept(lexer.Dot) {
		path = append(path, p.ident())
	}
	var alias *ast.Identifier
	if p.accept(lexer.KwAs) {
		a := p.ident()
		alias = &a
	}
	p.accept(lexer.Semi)
	d := &ast.ImportDecl{Path: path, Alias: alias}
	d.Name = path[len(path)-1]
	d.Range = p.rangeFrom(start)
	return d
}

func (p *Parser) parseConts() []ast.Cont {
	var conts []ast.Cont
	for {
		start := p.tok
		switch p.tok.Kind {
		case lexer.KwWhere:
			p.advance()
			e := p.parseExpr()
			if p.accept(lexer.Colon) {
				// `where T : SomeType` is stored like `where T is SomeType`.
				ext := &ast.AsIsHasExpr{Kind: ast.CastIs, Operand: e, Target: p.parseType()}
				ext.Range = p.rangeFrom(start)
				e = ext
			}
			c := &ast.WhereCont{Expr: e}
			c.Range = p.rangeFrom(start)
			conts = append(conts, c)
		case lexer.KwRequires:
			p.advance()
			e := p.parseExpr()
			c := &ast.RequiresCont{Expr: e}
			c.Range = p.rangeFrom(start)
			conts = append(conts, c)
		case lexer.KwEnsures:
			p.advance()
			e := p.parseExpr()
			c := &ast.EnsuresCont{Expr: e}
			c.Range = p.rangeFrom(start)
			conts = append(conts, c)
		case lexer.KwThrows:
			p.advance()
			var ty ast.Type
			if !p.at(lexer.LBrace) && !p.at(lexer.Semi) {
				ty = p.parseType()
			}
			c := &ast.ThrowsCont{Type: ty}
			c.Range = p.rangeFrom(start)
			conts = append(conts, c)
		default:
			return conts
		}
	}
}

func (p *Parser) parseInheritList() []ast.Type {
	if !p.accept(lexer.Colon) {
		return nil
	}
	var list []ast.Type
	list = append(list, p.parseType())
	for p.accept(lexer.Comma) {
		list = append(list, p.parseType())
	}
	return list
}

func (p *Parser) parseStructDecl(start lexer.Token, kind ast.StructKind) ast.Decl {
	p.advance() // struct/class/union
	name := p.ident()
	d := &ast.StructDecl{Kind: kind}
	d.Name = name
	if p.at(lexer.Less) {
		d.TemplateParams = p.parseTemplateParamList()
	}
	d.Inherits = p.parseInheritList()
	d.Conts = p.parseConts()
	p.expect(lexer.LBrace, "'{'")
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		m := p.parseDecl()
		if m != nil {
			d.Members = append(d.Members, m)
		} else {
			p.advance()
		}
	}
	p.expect(lexer.RBrace, "'}'")
	d.Range = p.rangeFrom(start)
	if d.IsTemplate() {
		d.TemplateInstantiations = map[string]*ast.StructDecl{}
	}
	return d
}

func (p *Parser) parseTraitDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwTrait, "'trait'")
	name := p.ident()
	d := &ast.TraitDecl{}
	d.Name = name
	if p.at(lexer.Less) {
		d.TemplateParams = p.parseTemplateParamList()
	}
	d.Inherits = p.parseInheritList()
	d.Conts = p.parseConts()
	p.expect(lexer.LBrace, "'{'")
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		m := p.parseDecl()
		if m != nil {
			d.Members = append(d.Members, m)
		} else {
			p.advance()
		}
	}
	p.expect(lexer.RBrace, "'}'")
	d.Range = p.rangeFrom(start)
	if d.IsTemplate() {
		d.TemplateInstantiations = map[string]*ast.TraitDecl{}
	}
	return d
}

func (p *Parser) parseEnumDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwEnum, "'enum'")
	name := p.ident()
	d := &ast.EnumDecl{}
	d.Name = name
	if p.accept(lexer.Colon) {
		d.UnderlyingType = p.parseType()
	}
	p.expect(lexer.LBrace, "'{'")
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		if p.accept(lexer.KwCase) {
			cstart := p.prevEnd
			for {
				cname := p.ident()
				ec := &ast.EnumConstDecl{}
				ec.Name = cname
				if p.accept(lexer.Eq) {
					ec.Value = p.parseExpr()
				}
				ec.Range = p.rangeFrom(cstart)
				d.Consts = append(d.Consts, ec)
				if !p.accept(lexer.Comma) {
					break
				}
			}
			p.accept(lexer.Semi)
			continue
		}
		m := p.parseDecl()
		if m != nil {
			d.Members = append(d.Members, m)
		} else {
			p.advance()
		}
	}
	p.expect(lexer.RBrace, "'}'")
	d.Range = p.rangeFrom(start)
	return d
}

func (p *Parser) parseExtensionDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwExtension, "'extension'")
	extended := p.parseType()
	d := &ast.ExtensionDecl{ExtendedType: extended}
	d.Inherits = p.parseInheritList()
	p.expect(lexer.LBrace, "'{'")
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		m := p.parseDecl()
		if m != nil {
			d.Members = append(d.Members, m)
		} else {
			p.advance()
		}
	}
	p.expect(lexer.RBrace, "'}'")
	d.Range = p.rangeFrom(start)
	return d
}

func (p *Parser) parseParameter() *ast.ParameterDecl {
	start := p.tok
	refKind := ast.ParamVal
	switch p.tok.Kind {
	case lexer.KwIn:
		refKind = ast.ParamIn
		p.advance()
	case lexer.KwOut:
		refKind = ast.ParamOut
		p.advance()
	case lexer.KwInout:
		refKind = ast.ParamInOut
		p.advance()
	case lexer.KwVal:
		p.advance()
	}
	label := p.ident()
	name := label
	// `label name : Type` form: a second identifier means the first was an
	// explicit label distinct from the parameter's internal name.
	if p.at(lexer.Ident) || p.at(lexer.Underscore) {
		name = p.ident()
	}
	p.expect(lexer.Colon, "':'")
	ty := p.parseType()
	d := &ast.ParameterDecl{Label: label, Type: ty, RefKind: refKind}
	d.Name = name
	if p.accept(lexer.Eq) {
		d.Default = p.parseExpr()
	}
	d.Range = p.rangeFrom(start)
	return d
}

func (p *Parser) parseParamList() []*ast.ParameterDecl {
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

func (p *Parser) parseOptionalBody() []ast.Stmt {
	if p.accept(lexer.Semi) {
		return nil // prototype (GLOSSARY "Prototype (declaration)")
	}
	cs := p.parseCompoundStmt()
	return cs.Stmts
}

func (p *Parser) parseFunctionDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwFunc, "'func'")
	name := p.ident()
	d := &ast.FunctionDecl{}
	d.Name = name
	if p.at(lexer.Less) {
		d.TemplateParams = p.parseTemplateParamList()
	}
	d.Params = p.parseParamList()
	if p.accept(lexer.Arrow) {
		d.ReturnType = p.parseType()
	}
	d.Conts = p.parseConts()
	d.Body = p.parseOptionalBody()
	d.Range = p.rangeFrom(start)
	if d.IsTemplate() {
		d.TemplateInstantiations = map[string]*ast.FunctionDecl{}
	}
	return d
}

func (p *Parser) parseConstructorDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwInit, "'init'")
	kind := ast.CtorNormal
	if p.accept(lexer.KwCopy) {
		kind = ast.CtorCopy
	} else if p.accept(lexer.KwMove) {
		kind = ast.CtorMove
	}
	d := &ast.ConstructorDecl{Kind: kind}
	d.Name = ast.Identifier{Name: "init"}
	d.Params = p.parseParamList()
	d.Conts = p.parseConts()
	d.Body = p.parseOptionalBody()
	d.Range = p.rangeFrom(start)
	return d
}

func (p *Parser) parseDestructorDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwDeinit, "'deinit'")
	d := &ast.DestructorDecl{}
	d.Name = ast.Identifier{Name: "deinit"}
	d.Body = p.parseOptionalBody()
	d.Range = p.rangeFrom(start)
	return d
}

func (p *Parser) parseCallOperatorDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwCall, "'call'")
	d := &ast.CallOperatorDecl{}
	d.Name = ast.Identifier{Name: "call"}
	d.Params = p.parseParamList()
	if p.accept(lexer.Arrow) {
		d.ReturnType = p.parseType()
	}
	d.Body = p.parseOptionalBody()
	d.Range = p.rangeFrom(start)
	return d
}

var operatorSymbols = map[lexer.Kind]string{
	lexer.Plus: "+", lexer.Minus: "-", lexer.Star: "*", lexer.Slash: "/", lexer.Percent: "%",
	lexer.Amp: "&", lexer.Pipe: "|", lexer.Caret: "^", lexer.Tilde: "~", lexer.Bang: "!",
	lexer.EqEq: "==", lexer.BangEq: "!=", lexer.Less: "<", lexer.LessEq: "<=",
	lexer.Greater: ">", lexer.GreaterEq: ">=", lexer.Shl: "<<", lexer.Shr: ">>",
	lexer.AmpAmp: "&&", lexer.PipePipe: "||", lexer.PlusPlus: "++", lexer.MinusMinus: "--",
	lexer.Eq: "=", lexer.LBracket: "[]",
}

func (p *Parser) parseOperatorDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwOperator, "'operator'")
	kind := ast.OpInfix
	switch p.tok.Kind {
	case lexer.KwPrefix:
		kind = ast.OpPrefix
		p.advance()
	case lexer.KwInfix:
		kind = ast.OpInfix
		p.advance()
	case lexer.KwPostfix:
		kind = ast.OpPostfix
		p.advance()
	}
	sym, ok := operatorSymbols[p.tok.Kind]
	if !ok {
		p.errorf(diagnostic.CodeUnexpectedToken, "expected an operator symbol, got %q", p.tok.Text)
		sym = p.tok.Text
	}
	p.advance()
	d := &ast.OperatorDecl{Kind: kind, Symbol: sym}
	d.Name = ast.Identifier{Name: "operator" + sym}
	d.Params = p.parseParamList()
	if p.accept(lexer.Arrow) {
		d.ReturnType = p.parseType()
	}
	d.Body = p.parseOptionalBody()
	d.Range = p.rangeFrom(start)
	return d
}

func (p *Parser) parseSubscriptDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwSubscript, "'subscript'")
	d := &ast.SubscriptOperatorDecl{}
	d.Name = ast.Identifier{Name: "subscript"}
	d.Params = p.parseParamList()
	p.expect(lexer.Arrow, "'->'")
	d.ReturnType = p.parseType()
	p.expect(lexer.LBrace, "'{'")
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		gstart := p.tok
		if p.accept(lexer.KwGet) {
			refKind := ast.ParamVal
			if p.accept(lexer.KwRef) {
				refKind = ast.ParamIn
				if p.accept(lexer.KwMut) {
					refKind = ast.ParamInOut
				}
			}
			g := &ast.SubscriptGetterDecl{RefKind: refKind}
			g.Name = ast.Identifier{Name: "get"}
			g.Body = p.parseOptionalBody()
			g.Range = p.rangeFrom(gstart)
			d.Get = g
		} else if p.accept(lexer.KwSet) {
			s := &ast.SubscriptSetterDecl{}
			s.Name = ast.Identifier{Name: "set"}
			s.Body = p.parseOptionalBody()
			s.Range = p.rangeFrom(gstart)
			d.Set = s
		} else {
			p.advance()
		}
	}
	p.expect(lexer.RBrace, "'}'")
	d.Range = p.rangeFrom(start)
	return d
}

func (p *Parser) parsePropertyDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwProperty, "'property'")
	name := p.ident()
	d := &ast.PropertyDecl{}
	d.Name = name
	p.expect(lexer.Colon, "':'")
	d.Type = p.parseType()
	p.expect(lexer.LBrace, "'{'")
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		gstart := p.tok
		if p.accept(lexer.KwGet) {
			refKind := ast.ParamVal
			if p.accept(lexer.KwRef) {
				refKind = ast.ParamIn
				if p.accept(lexer.KwMut) {
					refKind = ast.ParamInOut
				}
			}
			g := &ast.PropertyGetterDecl{RefKind: refKind}
			g.Name = ast.Identifier{Name: "get"}
			g.Body = p.parseOptionalBody()
			g.Range = p.rangeFrom(gstart)
			d.Get = g
		} else if p.accept(lexer.KwSet) {
			s := &ast.PropertySetterDecl{}
			s.Name = ast.Identifier{Name: "set"}
			s.Body = p.parseOptionalBody()
			s.Range = p.rangeFrom(gstart)
			d.Set = s
		} else {
			p.advance()
		}
	}
	p.expect(lexer.RBrace, "'}'")
	d.Range = p.rangeFrom(start)
	return d
}

func (p *Parser) parseTypeAliasDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwTypealias, "'typealias'")
	p.accept(lexer.KwPrefix) // optional `prefix` qualifier token, parsed but not semantically modeled beyond presence
	name := p.ident()
	d := &ast.TypeAliasDecl{}
	d.Name = name
	if p.at(lexer.Less) {
		d.TemplateParams = p.parseTemplateParamList()
	}
	p.expect(lexer.Eq, "'='")
	d.Aliased = p.parseType()
	p.accept(lexer.Semi)
	d.Range = p.rangeFrom(start)
	return d
}

func (p *Parser) parseTypeSuffixDecl(start lexer.Token) ast.Decl {
	p.expect(lexer.KwTypesuffix, "'typesuffix'")
	name := p.ident()
	d := &ast.TypeSuffixDecl{}
	d.Name = name
	d.Params = p.parseParamList()
	p.expect(lexer.Arrow, "'->'")
	d.ReturnType = p.parseType()
	d.Body = p.parseOptionalBody()
	d.Range = p.rangeFrom(start)
	return d
}
