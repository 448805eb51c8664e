package parser

import (
	"strconv"

	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/lexer"
)

// parseExpression implements operator-precedence (Pratt) parsing for
// every §11 production: a prefix function builds the left operand,
// then infix functions fold in operators whose precedence exceeds the
// caller's floor. PRE: curToken is the first token of the expression.
// POST: curToken is the last token consumed.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.errorf(p.curToken.Pos, "unexpected token %s in expression", p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		if p.noIn && p.peekTokenIs(lexer.IN) {
			break
		}
		// Restricted production (§7.9.1 rule 1): a LineTerminator before
		// a postfix ++/-- ends the expression here; ASI inserts a
		// semicolon and the token starts the next statement instead.
		if (p.peekTokenIs(lexer.INC) || p.peekTokenIs(lexer.DEC)) && p.peekToken.FollowsNewline {
			break
		}
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) peekPrecedence() int { return getPrecedence(p.peekToken.Type) }
func (p *Parser) curPrecedence() int  { return getPrecedence(p.curToken.Type) }

// parseFullExpression parses an Expression production (§11.14): one or
// more AssignmentExpressions joined by the comma operator. The comma
// token is deliberately absent from the precedences/infix tables, so
// parseExpression itself only ever produces a single
// AssignmentExpression; callers whose grammar slot is the full
// comma-including "Expression" (statement bodies, return/throw
// arguments, a for-loop's NoIn init clause) wrap it here, while slots
// that are "AssignmentExpression" (array elements, call arguments,
// property values) call parseAssignmentOperand directly instead.
func (p *Parser) parseFullExpression(precedence int) ast.Expression {
	first := p.parseExpression(precedence)
	if first == nil {
		return nil
	}
	return p.parseSequenceExpression(first)
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	v, err := parseNumericLiteral(p.curToken.Literal)
	if err != nil {
		p.errorf(p.curToken.Pos, "invalid number literal %q", p.curToken.Literal)
	}
	return &ast.NumberLiteral{Token: p.curToken, Value: v}
}

// parseNumericLiteral converts a NUMBER token's literal text (decimal,
// hex `0x`, or one with a fraction/exponent) into its float64 value.
func parseNumericLiteral(lit string) (float64, error) {
	if len(lit) > 1 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X') {
		n, err := strconv.ParseUint(lit[2:], 16, 64)
		return float64(n), err
	}
	return strconv.ParseFloat(lit, 64)
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curToken.Type == lexer.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parseThisExpression() ast.Expression {
	return &ast.ThisExpression{Token: p.curToken}
}

// parseRegExpLiteral builds a RegExpLiteral from curToken, which the
// parser's nextToken already resolved to a REGEXP token (see
// fetchToken/regexAllowedAfter in parser.go) rather than SLASH.
func (p *Parser) parseRegExpLiteral() ast.Expression {
	tok := p.curToken
	pattern, flags := splitRegExpLiteral(tok.Literal)
	return &ast.RegExpLiteral{Token: tok, Pattern: pattern, Flags: flags}
}

// splitRegExpLiteral splits a `/pattern/flags` lexeme at its final
// unescaped slash.
func splitRegExpLiteral(lit string) (pattern, flags string) {
	if len(lit) < 2 {
		return "", ""
	}
	for i := len(lit) - 1; i > 0; i-- {
		if lit[i] == '/' {
			return lit[1:i], lit[i+1:]
		}
	}
	return lit[1:], ""
}

func (p *Parser) parseGroupingExpression() ast.Expression {
	p.nextToken()
	savedNoIn := p.noIn
	p.noIn = false
	exp := p.parseExpression(LOWEST)
	p.noIn = savedNoIn
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return exp
}

// parseArrayLiteral parses an ArrayLiteral (§11.1.4). A comma with
// nothing before it (or before the closing bracket) is an elision,
// represented as a nil Expression slot.
func (p *Parser) parseArrayLiteral() ast.Expression {
	al := &ast.ArrayLiteral{Token: p.curToken}
	for !p.peekTokenIs(lexer.RBRACKET) {
		if p.peekTokenIs(lexer.COMMA) {
			al.Elements = append(al.Elements, nil)
			p.nextToken()
			continue
		}
		p.nextToken()
		al.Elements = append(al.Elements, p.parseAssignmentOperand())
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return al
}

// parseAssignmentOperand parses one AssignmentExpression (the grammar
// level list elements and arguments are built from), disabling NoIn
// only where the caller already has it off.
func (p *Parser) parseAssignmentOperand() ast.Expression {
	return p.parseExpression(ASSIGN - 1)
}

// parseObjectLiteral parses an ObjectLiteral (§11.1.5), recognizing
// `get name() {...}` / `set name(v) {...}` accessor pairs by the
// contextual `get`/`set` identifiers immediately before a property key.
func (p *Parser) parseObjectLiteral() ast.Expression {
	ol := &ast.ObjectLiteral{Token: p.curToken}
	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		prop := p.parsePropertyAssignment()
		if prop == nil {
			return nil
		}
		ol.Properties = append(ol.Properties, prop)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return ol
}

func (p *Parser) parsePropertyAssignment() *ast.Property {
	if p.curTokenIs(lexer.IDENT) && (p.curToken.Literal == "get" || p.curToken.Literal == "set") &&
		!p.peekTokenIs(lexer.COLON) && !p.peekTokenIs(lexer.COMMA) && !p.peekTokenIs(lexer.RBRACE) {
		kind := ast.PropertyGet
		if p.curToken.Literal == "set" {
			kind = ast.PropertySet
		}
		p.nextToken()
		key := p.parsePropertyKey()
		fn := &ast.FunctionLiteral{Token: p.curToken}
		if !p.expectPeek(lexer.LPAREN) {
			return nil
		}
		fn.Parameters = p.parseParameterList()
		if !p.expectPeek(lexer.LBRACE) {
			return nil
		}
		fn.Body = p.parseBlockStatement()
		return &ast.Property{Key: key, Value: fn, Kind: kind}
	}

	key := p.parsePropertyKey()
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	value := p.parseAssignmentOperand()
	return &ast.Property{Key: key, Value: value, Kind: ast.PropertyInit}
}

func (p *Parser) parsePropertyKey() ast.Expression {
	switch p.curToken.Type {
	case lexer.STRING:
		return p.parseStringLiteral()
	case lexer.NUMBER:
		return p.parseNumberLiteral()
	default:
		// Any IdentifierName, including keywords used as property names
		// (§11.1.5 allows reserved words here).
		return &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpression{Token: tok, Operator: tok.Literal, Operand: operand}
}

func (p *Parser) parsePrefixUpdateExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(UNARY)
	return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Operand: operand, Prefix: true}
}

// parsePostfixUpdateExpression handles `x++`/`x--`. parseExpression's
// main loop already refuses to reach here when a LineTerminator
// precedes the operator (the §7.9.1 restricted production), so by the
// time this runs the postfix form is certain.
func (p *Parser) parsePostfixUpdateExpression(operand ast.Expression) ast.Expression {
	tok := p.curToken
	return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Operand: operand, Prefix: false}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.LogicalExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
}

func (p *Parser) parseConditionalExpression(test ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	savedNoIn := p.noIn
	p.noIn = false
	consequent := p.parseExpression(ASSIGN - 1)
	p.noIn = savedNoIn
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	alternate := p.parseExpression(ASSIGN - 1)
	return &ast.ConditionalExpression{Token: tok, Test: test, Consequent: consequent, Alternate: alternate}
}

// parseAssignmentExpression implements §11.13: both `=` and every
// compound assignment operator right-associate around the same node
// shape, differing only in the Operator string the evaluator switches
// on.
func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	value := p.parseExpression(ASSIGN - 1)
	return &ast.AssignmentExpression{Token: tok, Operator: tok.Literal, Target: left, Value: value}
}

func (p *Parser) parseDottedMemberExpression(object ast.Expression) ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	prop := &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	return &ast.MemberExpression{Token: tok, Object: object, Property: prop, Computed: false}
}

func (p *Parser) parseComputedMemberExpression(object ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	prop := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return &ast.MemberExpression{Token: tok, Object: object, Property: prop, Computed: true}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.curToken
	args := p.parseArguments()
	return &ast.CallExpression{Token: tok, Callee: callee, Arguments: args}
}

// parseNewExpression parses a NewExpression/MemberExpression-with-new
// (§11.2.2): the callee is parsed at CALL precedence so member access
// (`new a.b.C()`) is included but a trailing `(...)` is not — it's
// consumed explicitly below as this NewExpression's own argument list,
// matching the grammar's NewExpression/MemberExpression split.
func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	callee := p.parseExpression(CALL)
	ne := &ast.NewExpression{Token: tok, Callee: callee}
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		ne.Arguments = p.parseArguments()
	}
	return ne
}

func (p *Parser) parseArguments() []ast.Expression {
	var args []ast.Expression
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseAssignmentOperand())
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseAssignmentOperand())
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return args
}

// parseFunctionExpression parses the FunctionExpression production
// (§13): the name is optional, unlike a FunctionDeclaration.
func (p *Parser) parseFunctionExpression() ast.Expression {
	fl := &ast.FunctionLiteral{Token: p.curToken}
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		fl.Name = &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
	}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	fl.Parameters = p.parseParameterList()
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	fl.Body = p.parseBlockStatement()
	return fl
}

func (p *Parser) parseParameterList() []*ast.Identifier {
	var params []*ast.Identifier
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal})
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal})
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return params
}

// parseSequenceExpression wraps the comma operator (§11.14) around an
// already-parsed first operand; used at statement level where a comma
// is not swallowed by a lower-precedence construct (array/argument
// lists parse their own commas and never call this).
func (p *Parser) parseSequenceExpression(first ast.Expression) ast.Expression {
	exprs := []ast.Expression{first}
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		exprs = append(exprs, p.parseAssignmentOperand())
	}
	if len(exprs) == 1 {
		return first
	}
	return &ast.SequenceExpression{Token: lexer.Token{Type: lexer.COMMA, Literal: ",", Pos: first.Pos()}, Expressions: exprs}
}
