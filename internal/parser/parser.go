// Package parser implements a Pratt parser (ECMA-262-3 §12-§14) that
// turns an internal/lexer token stream into an internal/ast tree.
package parser

import (
	"fmt"

	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/diag"
	"github.com/es3lang/es3/internal/lexer"
)

// Precedence levels, lowest to highest (ECMA-262-3 §11 production order).
const (
	_ int = iota
	LOWEST
	COMMA       // ,
	ASSIGN      // = += -= ...
	CONDITIONAL // ?:
	LOGOR       // ||
	LOGAND      // &&
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	EQUALS      // == != === !==
	RELATIONAL  // < > <= >= instanceof in
	SHIFT       // << >> >>>
	ADDITIVE    // + -
	MULTIPLICATIVE
	UNARY // delete void typeof + - ~ ! ++ --
	POSTFIX
	CALL   // f(args) new f(args)
	MEMBER // f.x f[x]
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN: ASSIGN, lexer.PLUS_ASSIGN: ASSIGN, lexer.MINUS_ASSIGN: ASSIGN,
	lexer.STAR_ASSIGN: ASSIGN, lexer.SLASH_ASSIGN: ASSIGN, lexer.PERCENT_ASSIGN: ASSIGN,
	lexer.LSHIFT_ASSIGN: ASSIGN, lexer.RSHIFT_ASSIGN: ASSIGN, lexer.URSHIFT_ASSIGN: ASSIGN,
	lexer.BAND_ASSIGN: ASSIGN, lexer.BOR_ASSIGN: ASSIGN, lexer.BXOR_ASSIGN: ASSIGN,
	lexer.QUESTION: CONDITIONAL,
	lexer.LOR:      LOGOR,
	lexer.LAND:     LOGAND,
	lexer.BOR:      BITOR,
	lexer.BXOR:     BITXOR,
	lexer.BAND:     BITAND,
	lexer.EQ:       EQUALS, lexer.NE: EQUALS, lexer.SEQ: EQUALS, lexer.SNE: EQUALS,
	lexer.LT: RELATIONAL, lexer.GT: RELATIONAL, lexer.LE: RELATIONAL, lexer.GE: RELATIONAL,
	lexer.INSTANCEOF: RELATIONAL, lexer.IN: RELATIONAL,
	lexer.LSHIFT: SHIFT, lexer.RSHIFT: SHIFT, lexer.URSHIFT: SHIFT,
	lexer.PLUS: ADDITIVE, lexer.MINUS: ADDITIVE,
	lexer.STAR: MULTIPLICATIVE, lexer.SLASH: MULTIPLICATIVE, lexer.PERCENT: MULTIPLICATIVE,
	lexer.LPAREN:   CALL,
	lexer.LBRACKET: MEMBER,
	lexer.DOT:      MEMBER,
	lexer.INC:      POSTFIX,
	lexer.DEC:      POSTFIX,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser turns a token stream into an *ast.Program. noIn tracks whether
// the `in` relational operator is currently excluded from the grammar
// (ECMA-262-3 §12.6.4's Expression-NoIn production, needed so the init
// clause of a `for (...)` can't swallow the `in` of a for-in loop).
type Parser struct {
	l      *lexer.Lexer
	source string
	file   string

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn

	noIn bool

	errors []*diag.SyntaxError
}

// New creates a Parser over l. source/file are carried only for error
// rendering (diag.SyntaxError.FormatWithContext).
func New(l *lexer.Lexer, source, file string) *Parser {
	p := &Parser{l: l, source: source, file: file}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentifier,
		lexer.NUMBER:   p.parseNumberLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.TRUE:     p.parseBooleanLiteral,
		lexer.FALSE:    p.parseBooleanLiteral,
		lexer.NULL:     p.parseNullLiteral,
		lexer.THIS:     p.parseThisExpression,
		lexer.LPAREN:   p.parseGroupingExpression,
		lexer.LBRACKET: p.parseArrayLiteral,
		lexer.LBRACE:   p.parseObjectLiteral,
		lexer.FUNCTION: p.parseFunctionExpression,
		lexer.NEW:      p.parseNewExpression,
		lexer.REGEXP:   p.parseRegExpLiteral,
		lexer.DELETE: p.parseUnaryExpression,
		lexer.VOID:   p.parseUnaryExpression,
		lexer.TYPEOF: p.parseUnaryExpression,
		lexer.PLUS:   p.parseUnaryExpression,
		lexer.MINUS:  p.parseUnaryExpression,
		lexer.BNOT:   p.parseUnaryExpression,
		lexer.LNOT:   p.parseUnaryExpression,
		lexer.INC:    p.parsePrefixUpdateExpression,
		lexer.DEC:    p.parsePrefixUpdateExpression,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS: p.parseBinaryExpression, lexer.MINUS: p.parseBinaryExpression,
		lexer.STAR: p.parseBinaryExpression, lexer.SLASH: p.parseBinaryExpression,
		lexer.PERCENT: p.parseBinaryExpression,
		lexer.LT:      p.parseBinaryExpression, lexer.GT: p.parseBinaryExpression,
		lexer.LE: p.parseBinaryExpression, lexer.GE: p.parseBinaryExpression,
		lexer.EQ: p.parseBinaryExpression, lexer.NE: p.parseBinaryExpression,
		lexer.SEQ: p.parseBinaryExpression, lexer.SNE: p.parseBinaryExpression,
		lexer.INSTANCEOF: p.parseBinaryExpression, lexer.IN: p.parseBinaryExpression,
		lexer.LSHIFT: p.parseBinaryExpression, lexer.RSHIFT: p.parseBinaryExpression,
		lexer.URSHIFT: p.parseBinaryExpression,
		lexer.BAND:    p.parseBinaryExpression, lexer.BOR: p.parseBinaryExpression,
		lexer.BXOR: p.parseBinaryExpression,
		lexer.LAND: p.parseLogicalExpression, lexer.LOR: p.parseLogicalExpression,
		lexer.QUESTION: p.parseConditionalExpression,
		lexer.ASSIGN:   p.parseAssignmentExpression,
		lexer.PLUS_ASSIGN: p.parseAssignmentExpression, lexer.MINUS_ASSIGN: p.parseAssignmentExpression,
		lexer.STAR_ASSIGN: p.parseAssignmentExpression, lexer.SLASH_ASSIGN: p.parseAssignmentExpression,
		lexer.PERCENT_ASSIGN: p.parseAssignmentExpression,
		lexer.LSHIFT_ASSIGN:  p.parseAssignmentExpression, lexer.RSHIFT_ASSIGN: p.parseAssignmentExpression,
		lexer.URSHIFT_ASSIGN: p.parseAssignmentExpression,
		lexer.BAND_ASSIGN:    p.parseAssignmentExpression, lexer.BOR_ASSIGN: p.parseAssignmentExpression,
		lexer.BXOR_ASSIGN:    p.parseAssignmentExpression,
		lexer.LPAREN:   p.parseCallExpression,
		lexer.LBRACKET: p.parseComputedMemberExpression,
		lexer.DOT:      p.parseDottedMemberExpression,
		lexer.INC:      p.parsePostfixUpdateExpression,
		lexer.DEC:      p.parsePostfixUpdateExpression,
	}

	// Prime curToken/peekToken. The very first token of a program is an
	// expression-start position, so regex is allowed there too.
	p.peekToken = p.fetchToken(true)
	p.nextToken()
	return p
}

// Errors returns every syntax error accumulated while parsing.
func (p *Parser) Errors() []*diag.SyntaxError { return p.errors }

// regexAllowedAfter reports whether a `/` immediately following a
// token of type t can only be read as the start of a RegExp literal
// (ECMA-262-3 §7.8.5's note on lexical grammar ambiguity). It is false
// exactly for token types that can end an expression, where `/` must
// be division or /=.
func regexAllowedAfter(t lexer.TokenType) bool {
	switch t {
	case lexer.IDENT, lexer.NUMBER, lexer.STRING, lexer.REGEXP,
		lexer.THIS, lexer.NULL, lexer.TRUE, lexer.FALSE,
		lexer.RPAREN, lexer.RBRACKET, lexer.INC, lexer.DEC:
		return false
	default:
		return true
	}
}

// fetchToken reads the next token from the lexer. When regexAllowed is
// true it tries LexRegexp first — if the next character isn't `/`, the
// lexer has consumed only whitespace and comments and keeps the
// newline bit, so this falls through to ordinary NextToken with no
// lost state, and if it is `/` the token
// stream never commits to SLASH/division before the parser had a
// chance to choose.
func (p *Parser) fetchToken(regexAllowed bool) lexer.Token {
	if regexAllowed {
		if tok := p.l.LexRegexp(); tok.Type == lexer.REGEXP {
			return tok
		}
	}
	return p.l.NextToken()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.fetchToken(regexAllowedAfter(p.curToken.Type))
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool  { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.errorf(p.peekToken.Pos, "expected next token to be %s, got %s instead", t, p.peekToken.Type)
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...interface{}) {
	p.errors = append(p.errors, diag.NewSyntaxError(pos, fmt.Sprintf(format, args...), p.source, p.file))
}

func getPrecedence(t lexer.TokenType) int {
	if prec, ok := precedences[t]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram parses a complete Program (ECMA-262-3 §14).
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Body = append(program.Body, stmt)
		}
		p.nextToken()
	}
	return program
}
