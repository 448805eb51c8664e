package ast

import (
	"bytes"
	"strings"

	"github.com/es3lang/es3/internal/lexer"
)

// UnaryExpression is a prefix unary operator (§11.4): delete, void,
// typeof, +, -, ~, !, ++, --.
type UnaryExpression struct {
	Token    lexer.Token
	Operand  Expression
	Operator string
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) Pos() lexer.Position  { return ue.Token.Pos }
func (ue *UnaryExpression) String() string {
	sep := ""
	if r := rune(ue.Operator[0]); r >= 'a' && r <= 'z' {
		sep = " "
	}
	return "(" + ue.Operator + sep + ue.Operand.String() + ")"
}

// UpdateExpression is `++`/`--`, prefix or postfix (§11.3, §11.4.4-7).
type UpdateExpression struct {
	Token    lexer.Token
	Operand  Expression
	Operator string
	Prefix   bool
}

func (ue *UpdateExpression) expressionNode()      {}
func (ue *UpdateExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UpdateExpression) Pos() lexer.Position  { return ue.Token.Pos }
func (ue *UpdateExpression) String() string {
	if ue.Prefix {
		return ue.Operator + ue.Operand.String()
	}
	return ue.Operand.String() + ue.Operator
}

// BinaryExpression covers every non-short-circuit infix operator
// (§11.5-§11.10, §11.8): arithmetic, relational, equality, bitwise.
type BinaryExpression struct {
	Left     Expression
	Right    Expression
	Token    lexer.Token
	Operator string
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) Pos() lexer.Position  { return be.Left.Pos() }
func (be *BinaryExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(be.Left.String())
	out.WriteString(" " + be.Operator + " ")
	out.WriteString(be.Right.String())
	out.WriteString(")")
	return out.String()
}

// LogicalExpression is `&&`/`||` (§11.11), kept distinct from
// BinaryExpression because both operators short-circuit: the right
// operand must not be evaluated unconditionally.
type LogicalExpression struct {
	Left     Expression
	Right    Expression
	Token    lexer.Token
	Operator string
}

func (le *LogicalExpression) expressionNode()      {}
func (le *LogicalExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LogicalExpression) Pos() lexer.Position  { return le.Left.Pos() }
func (le *LogicalExpression) String() string {
	return "(" + le.Left.String() + " " + le.Operator + " " + le.Right.String() + ")"
}

// ConditionalExpression is the `?:` ternary (§11.12).
type ConditionalExpression struct {
	Test       Expression
	Consequent Expression
	Alternate  Expression
	Token      lexer.Token
}

func (ce *ConditionalExpression) expressionNode()      {}
func (ce *ConditionalExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *ConditionalExpression) Pos() lexer.Position  { return ce.Test.Pos() }
func (ce *ConditionalExpression) String() string {
	return "(" + ce.Test.String() + " ? " + ce.Consequent.String() + " : " + ce.Alternate.String() + ")"
}

// AssignmentExpression is `=` or a compound assignment (§11.13).
// Operator is the textual operator ("=", "+=", "&=", ...); Target must
// be a Reference-producing expression (Identifier or MemberExpression)
// at evaluation time, not a syntactic restriction this node enforces.
type AssignmentExpression struct {
	Target   Expression
	Value    Expression
	Token    lexer.Token
	Operator string
}

func (ae *AssignmentExpression) expressionNode()      {}
func (ae *AssignmentExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignmentExpression) Pos() lexer.Position  { return ae.Target.Pos() }
func (ae *AssignmentExpression) String() string {
	return "(" + ae.Target.String() + " " + ae.Operator + " " + ae.Value.String() + ")"
}

// SequenceExpression is the comma operator (§11.14): evaluate every
// expression in order, yield the last one's value.
type SequenceExpression struct {
	Token       lexer.Token
	Expressions []Expression
}

func (se *SequenceExpression) expressionNode()      {}
func (se *SequenceExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SequenceExpression) Pos() lexer.Position  { return se.Token.Pos }
func (se *SequenceExpression) String() string {
	parts := make([]string, len(se.Expressions))
	for i, e := range se.Expressions {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// MemberExpression is property access, dotted (`a.b`, §11.2.1) or
// bracketed (`a[b]`, §11.2.1); Computed distinguishes the two so
// evaluation knows whether Property is an Identifier naming the
// property literally or an Expression to be ToString'd.
type MemberExpression struct {
	Object   Expression
	Property Expression
	Token    lexer.Token
	Computed bool
}

func (me *MemberExpression) expressionNode()      {}
func (me *MemberExpression) TokenLiteral() string { return me.Token.Literal }
func (me *MemberExpression) Pos() lexer.Position  { return me.Object.Pos() }
func (me *MemberExpression) String() string {
	if me.Computed {
		return me.Object.String() + "[" + me.Property.String() + "]"
	}
	return me.Object.String() + "." + me.Property.String()
}

// CallExpression is a function Call (§11.2.3).
type CallExpression struct {
	Callee    Expression
	Token     lexer.Token
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Pos() lexer.Position  { return ce.Callee.Pos() }
func (ce *CallExpression) String() string {
	args := make([]string, len(ce.Arguments))
	for i, a := range ce.Arguments {
		args[i] = a.String()
	}
	return ce.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// NewExpression is `new` Construct (§11.2.2), with or without an
// argument list (`new Foo` and `new Foo()` are both valid and
// equivalent per the grammar — Arguments is nil for the former).
type NewExpression struct {
	Callee    Expression
	Token     lexer.Token
	Arguments []Expression
}

func (ne *NewExpression) expressionNode()      {}
func (ne *NewExpression) TokenLiteral() string { return ne.Token.Literal }
func (ne *NewExpression) Pos() lexer.Position  { return ne.Token.Pos }
func (ne *NewExpression) String() string {
	args := make([]string, len(ne.Arguments))
	for i, a := range ne.Arguments {
		args[i] = a.String()
	}
	return "new " + ne.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
