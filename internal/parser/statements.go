package parser

import (
	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/lexer"
)

// parseStatement dispatches on curToken to the matching §12 production.
// PRE: curToken is the statement's first token. POST: curToken is the
// statement's last token (its closing `;`/`}` or the last token of an
// elided-semicolon statement).
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.VAR:
		return p.parseVariableStatement()
	case lexer.SEMICOLON:
		return &ast.EmptyStatement{Token: p.curToken}
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.CONTINUE:
		return p.parseContinueStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.WITH:
		return p.parseWithStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration()
	case lexer.IDENT:
		if p.peekTokenIs(lexer.COLON) {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// consumeSemicolon implements ASI (§7.9.1) for the common case: an
// explicit `;` is consumed, a `}`/EOF/a peek token on a new line allows
// the semicolon to be elided, and anything else is a syntax error.
func (p *Parser) consumeSemicolon() {
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		return
	}
	if p.peekToken.FollowsNewline || p.peekTokenIs(lexer.RBRACE) || p.peekTokenIs(lexer.EOF) {
		return
	}
	p.errorf(p.peekToken.Pos, "missing semicolon before %s", p.peekToken.Type)
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseFullExpression(LOWEST)
	p.consumeSemicolon()
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// parseBlockStatement parses a Block (§12.1). PRE: curToken is `{`.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Body = append(block.Body, stmt)
		}
		p.nextToken()
	}
	return block
}

// parseVariableStatement parses a VariableStatement (§12.2): `var`
// followed by one or more Declarators.
func (p *Parser) parseVariableStatement() *ast.VariableStatement {
	vs := &ast.VariableStatement{Token: p.curToken}
	for {
		if !p.expectPeek(lexer.IDENT) {
			return vs
		}
		decl := &ast.Declarator{Name: &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			decl.Init = p.parseAssignmentOperand()
		}
		vs.Declarations = append(vs.Declarations, decl)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}
	p.consumeSemicolon()
	return vs
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	is := &ast.IfStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return is
	}
	p.nextToken()
	is.Test = p.parseFullExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return is
	}
	p.nextToken()
	is.Consequent = p.parseStatement()
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		p.nextToken()
		is.Alternate = p.parseStatement()
	}
	return is
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	ds := &ast.DoWhileStatement{Token: p.curToken}
	p.nextToken()
	ds.Body = p.parseStatement()
	if !p.expectPeek(lexer.WHILE) {
		return ds
	}
	if !p.expectPeek(lexer.LPAREN) {
		return ds
	}
	p.nextToken()
	ds.Test = p.parseFullExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return ds
	}
	p.consumeSemicolon()
	return ds
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	ws := &ast.WhileStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return ws
	}
	p.nextToken()
	ws.Test = p.parseFullExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return ws
	}
	p.nextToken()
	ws.Body = p.parseStatement()
	return ws
}

// parseForStatement parses both for-statement forms (§12.6.3/§12.6.4),
// disambiguating `for (ExprOrVarNoIn in Expr) Stmt` from
// `for (Init; Test; Update) Stmt` by parsing the init clause with `in`
// excluded from the grammar and then checking what follows it.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return &ast.ForStatement{Token: tok}
	}

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		return p.finishForStatement(tok, nil)
	}

	p.nextToken()
	if p.curTokenIs(lexer.VAR) {
		vs := &ast.VariableStatement{Token: p.curToken}
		if !p.expectPeek(lexer.IDENT) {
			return vs
		}
		decl := &ast.Declarator{Name: &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			savedNoIn := p.noIn
			p.noIn = true
			decl.Init = p.parseAssignmentOperand()
			p.noIn = savedNoIn
		}
		vs.Declarations = append(vs.Declarations, decl)
		if p.peekTokenIs(lexer.IN) {
			p.nextToken()
			p.nextToken()
			right := p.parseFullExpression(LOWEST)
			if !p.expectPeek(lexer.RPAREN) {
				return vs
			}
			p.nextToken()
			body := p.parseStatement()
			return &ast.ForInStatement{Token: tok, Left: vs, Right: right, Body: body}
		}
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			if !p.expectPeek(lexer.IDENT) {
				return vs
			}
			d := &ast.Declarator{Name: &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}}
			if p.peekTokenIs(lexer.ASSIGN) {
				p.nextToken()
				p.nextToken()
				savedNoIn := p.noIn
				p.noIn = true
				d.Init = p.parseAssignmentOperand()
				p.noIn = savedNoIn
			}
			vs.Declarations = append(vs.Declarations, d)
		}
		if !p.expectPeek(lexer.SEMICOLON) {
			return vs
		}
		return p.finishForStatement(tok, vs)
	}

	savedNoIn := p.noIn
	p.noIn = true
	init := p.parseFullExpression(LOWEST)
	p.noIn = savedNoIn
	if p.peekTokenIs(lexer.IN) {
		p.nextToken()
		p.nextToken()
		right := p.parseFullExpression(LOWEST)
		if !p.expectPeek(lexer.RPAREN) {
			return &ast.ForInStatement{Token: tok, Left: init, Right: right}
		}
		p.nextToken()
		body := p.parseStatement()
		return &ast.ForInStatement{Token: tok, Left: init, Right: right, Body: body}
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return &ast.ExpressionStatement{Token: tok, Expression: init}
	}
	return p.finishForStatement(tok, init)
}

// finishForStatement parses the `Test; Update) Body` tail shared by
// both the empty-init and the already-parsed-init cases. PRE: curToken
// is the `;` that ends the init clause.
func (p *Parser) finishForStatement(tok lexer.Token, init ast.Node) *ast.ForStatement {
	fs := &ast.ForStatement{Token: tok, Init: init}
	if !p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		fs.Test = p.parseFullExpression(LOWEST)
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return fs
	}
	if !p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		fs.Update = p.parseFullExpression(LOWEST)
	}
	if !p.expectPeek(lexer.RPAREN) {
		return fs
	}
	p.nextToken()
	fs.Body = p.parseStatement()
	return fs
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	cs := &ast.ContinueStatement{Token: p.curToken}
	if p.peekTokenIs(lexer.IDENT) && !p.peekToken.FollowsNewline {
		p.nextToken()
		cs.Label = p.curToken.Literal
	}
	p.consumeSemicolon()
	return cs
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	bs := &ast.BreakStatement{Token: p.curToken}
	if p.peekTokenIs(lexer.IDENT) && !p.peekToken.FollowsNewline {
		p.nextToken()
		bs.Label = p.curToken.Literal
	}
	p.consumeSemicolon()
	return bs
}

// parseReturnStatement parses ReturnStatement (§12.9): the restricted
// production means a LineTerminator right after `return` elides the
// argument via ASI rather than parsing the next line as one.
func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	rs := &ast.ReturnStatement{Token: p.curToken}
	if !p.peekTokenIs(lexer.SEMICOLON) && !p.peekTokenIs(lexer.RBRACE) &&
		!p.peekTokenIs(lexer.EOF) && !p.peekToken.FollowsNewline {
		p.nextToken()
		rs.Argument = p.parseFullExpression(LOWEST)
	}
	p.consumeSemicolon()
	return rs
}

func (p *Parser) parseWithStatement() *ast.WithStatement {
	ws := &ast.WithStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return ws
	}
	p.nextToken()
	ws.Object = p.parseFullExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return ws
	}
	p.nextToken()
	ws.Body = p.parseStatement()
	return ws
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	ss := &ast.SwitchStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return ss
	}
	p.nextToken()
	ss.Discriminant = p.parseFullExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return ss
	}
	if !p.expectPeek(lexer.LBRACE) {
		return ss
	}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		cc := &ast.CaseClause{}
		if p.curTokenIs(lexer.CASE) {
			p.nextToken()
			cc.Test = p.parseFullExpression(LOWEST)
		} else if !p.curTokenIs(lexer.DEFAULT) {
			p.errorf(p.curToken.Pos, "expected case or default, got %s", p.curToken.Type)
			break
		}
		if !p.expectPeek(lexer.COLON) {
			return ss
		}
		p.nextToken()
		for !p.curTokenIs(lexer.CASE) && !p.curTokenIs(lexer.DEFAULT) &&
			!p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
			stmt := p.parseStatement()
			if stmt != nil {
				cc.Body = append(cc.Body, stmt)
			}
			p.nextToken()
		}
		ss.Cases = append(ss.Cases, cc)
	}
	return ss
}

func (p *Parser) parseLabeledStatement() *ast.LabeledStatement {
	label := p.curToken.Literal
	tok := p.curToken
	p.nextToken() // consume ':'
	p.nextToken()
	body := p.parseStatement()
	return &ast.LabeledStatement{Token: tok, Label: label, Body: body}
}

// parseThrowStatement parses ThrowStatement (§12.13): like return, a
// restricted production, but throw has no no-argument form, so a
// LineTerminator right after `throw` is a syntax error rather than an
// ASI elision.
func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	ts := &ast.ThrowStatement{Token: p.curToken}
	if p.peekToken.FollowsNewline {
		p.errorf(p.peekToken.Pos, "illegal newline after throw")
		return ts
	}
	p.nextToken()
	ts.Argument = p.parseFullExpression(LOWEST)
	p.consumeSemicolon()
	return ts
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	ts := &ast.TryStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LBRACE) {
		return ts
	}
	ts.Block = p.parseBlockStatement()

	if p.peekTokenIs(lexer.CATCH) {
		p.nextToken()
		cc := &ast.CatchClause{}
		if !p.expectPeek(lexer.LPAREN) {
			return ts
		}
		if !p.expectPeek(lexer.IDENT) {
			return ts
		}
		cc.Param = &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
		if !p.expectPeek(lexer.RPAREN) {
			return ts
		}
		if !p.expectPeek(lexer.LBRACE) {
			return ts
		}
		cc.Body = p.parseBlockStatement()
		ts.Catch = cc
	}
	if p.peekTokenIs(lexer.FINALLY) {
		p.nextToken()
		if !p.expectPeek(lexer.LBRACE) {
			return ts
		}
		ts.Finally = p.parseBlockStatement()
	}
	if ts.Catch == nil && ts.Finally == nil {
		p.errorf(ts.Token.Pos, "missing catch or finally after try")
	}
	return ts
}

// parseFunctionDeclaration parses a FunctionDeclaration (§13): unlike
// a function expression, the name is mandatory.
func (p *Parser) parseFunctionDeclaration() ast.Statement {
	fl := &ast.FunctionLiteral{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return fl
	}
	fl.Name = &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	if !p.expectPeek(lexer.LPAREN) {
		return fl
	}
	fl.Parameters = p.parseParameterList()
	if !p.expectPeek(lexer.LBRACE) {
		return fl
	}
	fl.Body = p.parseBlockStatement()
	return fl
}
