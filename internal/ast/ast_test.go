package ast

import (
	"testing"

	"github.com/es3lang/es3/internal/lexer"
)

func ident(name string) *Identifier {
	return &Identifier{Token: lexer.Token{Type: lexer.IDENT, Literal: name}, Name: name}
}

func num(lit string, v float64) *NumberLiteral {
	return &NumberLiteral{Token: lexer.Token{Type: lexer.NUMBER, Literal: lit}, Value: v}
}

func TestProgramStringConcatenatesStatements(t *testing.T) {
	prog := &Program{Body: []Statement{
		&ExpressionStatement{Token: lexer.Token{Literal: "1"}, Expression: num("1", 1)},
		&ExpressionStatement{Token: lexer.Token{Literal: "2"}, Expression: num("2", 2)},
	}}
	want := "1;\n2;\n"
	if got := prog.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmptyProgram(t *testing.T) {
	prog := &Program{}
	if prog.TokenLiteral() != "" {
		t.Errorf("empty program TokenLiteral() = %q, want empty", prog.TokenLiteral())
	}
	if prog.Pos() != (lexer.Position{Line: 1, Column: 1}) {
		t.Errorf("empty program Pos() = %v, want {1 1}", prog.Pos())
	}
}

func TestBinaryExpressionString(t *testing.T) {
	be := &BinaryExpression{Left: num("1", 1), Operator: "+", Right: num("2", 2)}
	if got, want := be.String(), "(1 + 2)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLogicalExpressionString(t *testing.T) {
	le := &LogicalExpression{Left: ident("a"), Operator: "&&", Right: ident("b")}
	if got, want := le.String(), "(a && b)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConditionalExpressionString(t *testing.T) {
	ce := &ConditionalExpression{Test: ident("a"), Consequent: num("1", 1), Alternate: num("2", 2)}
	if got, want := ce.String(), "(a ? 1 : 2)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMemberExpressionDottedVsComputed(t *testing.T) {
	dotted := &MemberExpression{Object: ident("a"), Property: ident("b"), Computed: false}
	if got, want := dotted.String(), "a.b"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	computed := &MemberExpression{Object: ident("a"), Property: num("0", 0), Computed: true}
	if got, want := computed.String(), "a[0]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCallExpressionString(t *testing.T) {
	ce := &CallExpression{Callee: ident("f"), Arguments: []Expression{num("1", 1), num("2", 2)}}
	if got, want := ce.String(), "f(1, 2)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNewExpressionString(t *testing.T) {
	ne := &NewExpression{Callee: ident("Foo"), Arguments: []Expression{num("1", 1)}}
	if got, want := ne.String(), "new Foo(1)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestArrayLiteralWithElision(t *testing.T) {
	al := &ArrayLiteral{Elements: []Expression{num("1", 1), nil, num("3", 3)}}
	if got, want := al.String(), "[1, , 3]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestObjectLiteralAccessorProperty(t *testing.T) {
	getter := &FunctionLiteral{Token: lexer.Token{Literal: "function"}, Body: &BlockStatement{}}
	ol := &ObjectLiteral{Properties: []*Property{
		{Key: ident("x"), Value: num("1", 1), Kind: PropertyInit},
		{Key: ident("y"), Value: getter, Kind: PropertyGet},
	}}
	got := ol.String()
	want := "{x: 1, get y() {\n}}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVariableStatementMultipleDeclarators(t *testing.T) {
	vs := &VariableStatement{
		Token: lexer.Token{Literal: "var"},
		Declarations: []*Declarator{
			{Name: ident("a")},
			{Name: ident("b"), Init: num("1", 1)},
		},
	}
	if got, want := vs.String(), "var a, b = 1;"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIfStatementWithAndWithoutAlternate(t *testing.T) {
	body := &ExpressionStatement{Expression: ident("x")}
	is := &IfStatement{Token: lexer.Token{Literal: "if"}, Test: ident("a"), Consequent: body}
	if got, want := is.String(), "if (a) x;"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	is.Alternate = &ExpressionStatement{Expression: ident("y")}
	if got, want := is.String(), "if (a) x; else y;"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestForStatementWithMissingClauses(t *testing.T) {
	fs := &ForStatement{Token: lexer.Token{Literal: "for"}, Body: &EmptyStatement{}}
	if got, want := fs.String(), "for (; ; ) ;"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestForInStatementString(t *testing.T) {
	fi := &ForInStatement{
		Token: lexer.Token{Literal: "for"},
		Left: &VariableStatement{
			Token:        lexer.Token{Literal: "var"},
			Declarations: []*Declarator{{Name: ident("k")}},
		},
		Right: ident("obj"),
		Body:  &ExpressionStatement{Expression: ident("k")},
	}
	want := "for (var k; in obj) k;"
	if got := fi.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSwitchStatementWithDefault(t *testing.T) {
	ss := &SwitchStatement{
		Token:        lexer.Token{Literal: "switch"},
		Discriminant: ident("x"),
		Cases: []*CaseClause{
			{Test: num("1", 1), Body: []Statement{&BreakStatement{Token: lexer.Token{Literal: "break"}}}},
			{Body: []Statement{&BreakStatement{Token: lexer.Token{Literal: "break"}}}},
		},
	}
	got := ss.String()
	if !contains(got, "case 1:") || !contains(got, "default:") {
		t.Errorf("got %q", got)
	}
}

func TestTryStatementWithCatchAndFinally(t *testing.T) {
	ts := &TryStatement{
		Token: lexer.Token{Literal: "try"},
		Block: &BlockStatement{},
		Catch: &CatchClause{Param: ident("e"), Body: &BlockStatement{}},
		Finally: &BlockStatement{},
	}
	got := ts.String()
	if !contains(got, "catch (e)") || !contains(got, "finally") {
		t.Errorf("got %q", got)
	}
}

func TestFunctionLiteralIsBothExpressionAndStatement(t *testing.T) {
	fl := &FunctionLiteral{
		Token:      lexer.Token{Literal: "function"},
		Name:       ident("f"),
		Parameters: []*Identifier{ident("a"), ident("b")},
		Body:       &BlockStatement{},
	}
	var _ Expression = fl
	var _ Statement = fl
	if got, want := fl.String(), "function f(a, b) {\n}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
