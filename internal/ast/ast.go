// Package ast defines the ECMA-262-3 syntax tree: every Program,
// Statement, and Expression production §4.E/§12-§14 names, each
// carrying the lexer.Token it began at for error reporting.
package ast

import (
	"bytes"
	"strings"

	"github.com/es3lang/es3/internal/lexer"
)

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: a Program production (ECMA-262-3 §14) is a
// SourceElements list of statements and function declarations.
type Program struct {
	Body []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Body) > 0 {
		return p.Body[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, stmt := range p.Body {
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() lexer.Position {
	if len(p.Body) > 0 {
		return p.Body[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

// Identifier is an IdentifierReference or BindingIdentifier (§4.E).
type Identifier struct {
	Token lexer.Token
	Name  string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Name }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }

// NumberLiteral is a NumericLiteral (§7.8.3); Value is the IEEE 754
// double the lexer's literal text was already converted to (ToNumber
// parsing happens once, at parse time, not re-derived on every eval).
type NumberLiteral struct {
	Token lexer.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }
func (nl *NumberLiteral) Pos() lexer.Position  { return nl.Token.Pos }

// StringLiteral is a StringLiteral (§7.8.4); Value holds the escapes
// already decoded by the lexer.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return "\"" + sl.Value + "\"" }
func (sl *StringLiteral) Pos() lexer.Position  { return sl.Token.Pos }

// BooleanLiteral is `true` or `false` (§7.8.2).
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }
func (bl *BooleanLiteral) Pos() lexer.Position  { return bl.Token.Pos }

// NullLiteral is `null` (§7.8.1).
type NullLiteral struct {
	Token lexer.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "null" }
func (n *NullLiteral) Pos() lexer.Position  { return n.Token.Pos }

// RegExpLiteral is a RegularExpressionLiteral (§7.8.5), kept as its raw
// `/pattern/flags` source text — RegExp's body is a contract stub (the
// distilled spec's Non-goals), so no pattern compilation happens here.
type RegExpLiteral struct {
	Token   lexer.Token
	Pattern string
	Flags   string
}

func (rl *RegExpLiteral) expressionNode()      {}
func (rl *RegExpLiteral) TokenLiteral() string { return rl.Token.Literal }
func (rl *RegExpLiteral) String() string       { return "/" + rl.Pattern + "/" + rl.Flags }
func (rl *RegExpLiteral) Pos() lexer.Position  { return rl.Token.Pos }

// ThisExpression is the `this` keyword (§11.1.1).
type ThisExpression struct {
	Token lexer.Token
}

func (te *ThisExpression) expressionNode()      {}
func (te *ThisExpression) TokenLiteral() string { return te.Token.Literal }
func (te *ThisExpression) String() string       { return "this" }
func (te *ThisExpression) Pos() lexer.Position  { return te.Token.Pos }

// ArrayLiteral is an ArrayLiteral (§11.1.4). Elision (holes in `[1,,3]`)
// is represented by a nil Expression at that slot, preserving the
// elements-list length the parser saw (and the []] length ECMA-262-3's
// Array.prototype algorithms depend on).
type ArrayLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) Pos() lexer.Position  { return al.Token.Pos }
func (al *ArrayLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("[")
	parts := make([]string, len(al.Elements))
	for i, e := range al.Elements {
		if e != nil {
			parts[i] = e.String()
		}
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("]")
	return out.String()
}

// PropertyKind distinguishes an ObjectLiteral property's role.
type PropertyKind int

const (
	PropertyInit PropertyKind = iota
	PropertyGet
	PropertySet
)

// Property is one PropertyAssignment inside an ObjectLiteral (§11.1.5):
// a plain `key: value`, or a `get key() {...}`/`set key(v) {...}`
// accessor pair (each installed individually; two Property entries with
// the same Key and complementary Kind together form one accessor
// property at evaluation time).
type Property struct {
	Key   Expression // Identifier or StringLiteral or NumberLiteral
	Value Expression // FunctionLiteral for Get/Set, any Expression for Init
	Kind  PropertyKind
}

func (p *Property) String() string {
	switch p.Kind {
	case PropertyGet, PropertySet:
		prefix := "get "
		if p.Kind == PropertySet {
			prefix = "set "
		}
		fn, _ := p.Value.(*FunctionLiteral)
		params := ""
		body := "{}"
		if fn != nil {
			parts := make([]string, len(fn.Parameters))
			for i, param := range fn.Parameters {
				parts[i] = param.String()
			}
			params = strings.Join(parts, ", ")
			body = fn.Body.String()
		}
		return prefix + p.Key.String() + "(" + params + ") " + body
	default:
		return p.Key.String() + ": " + p.Value.String()
	}
}

// ObjectLiteral is an ObjectLiteral (§11.1.5).
type ObjectLiteral struct {
	Token      lexer.Token
	Properties []*Property
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Literal }
func (ol *ObjectLiteral) Pos() lexer.Position  { return ol.Token.Pos }
func (ol *ObjectLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	parts := make([]string, len(ol.Properties))
	for i, p := range ol.Properties {
		parts[i] = p.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")
	return out.String()
}
