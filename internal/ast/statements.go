package ast

import (
	"bytes"
	"strings"

	"github.com/es3lang/es3/internal/lexer"
)

// ExpressionStatement wraps an expression used as a statement (§12.4).
type ExpressionStatement struct {
	Expression Expression
	Token      lexer.Token
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) Pos() lexer.Position  { return es.Token.Pos }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ";"
}

// BlockStatement is a Block (§12.1): a braced statement list forming no
// scope of its own (ES3 has only function scope; the block exists for
// grouping, not for `let`-style lexical scoping a later edition adds).
type BlockStatement struct {
	Token lexer.Token
	Body  []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Pos() lexer.Position  { return bs.Token.Pos }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, stmt := range bs.Body {
		out.WriteString("  ")
		out.WriteString(strings.ReplaceAll(stmt.String(), "\n", "\n  "))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// EmptyStatement is a bare `;` (§12.3).
type EmptyStatement struct {
	Token lexer.Token
}

func (es *EmptyStatement) statementNode()       {}
func (es *EmptyStatement) TokenLiteral() string { return es.Token.Literal }
func (es *EmptyStatement) Pos() lexer.Position  { return es.Token.Pos }
func (es *EmptyStatement) String() string       { return ";" }

// Declarator is one `name` or `name = init` inside a VariableStatement
// (§12.2's VariableDeclaration production).
type Declarator struct {
	Name *Identifier
	Init Expression
}

func (d *Declarator) String() string {
	if d.Init != nil {
		return d.Name.String() + " = " + d.Init.String()
	}
	return d.Name.String()
}

// VariableStatement is `var` (§12.2), possibly declaring several names
// in one statement (`var a, b = 1, c;`).
type VariableStatement struct {
	Token        lexer.Token
	Declarations []*Declarator
}

func (vs *VariableStatement) statementNode()       {}
func (vs *VariableStatement) TokenLiteral() string { return vs.Token.Literal }
func (vs *VariableStatement) Pos() lexer.Position  { return vs.Token.Pos }
func (vs *VariableStatement) String() string {
	parts := make([]string, len(vs.Declarations))
	for i, d := range vs.Declarations {
		parts[i] = d.String()
	}
	return "var " + strings.Join(parts, ", ") + ";"
}

// IfStatement is `if`/`else` (§12.5).
type IfStatement struct {
	Test       Expression
	Consequent Statement
	Alternate  Statement
	Token      lexer.Token
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Pos() lexer.Position  { return is.Token.Pos }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(is.Test.String())
	out.WriteString(") ")
	out.WriteString(is.Consequent.String())
	if is.Alternate != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternate.String())
	}
	return out.String()
}

// DoWhileStatement is `do...while` (§12.6.1): the body always runs once
// before Test is checked.
type DoWhileStatement struct {
	Body  Statement
	Test  Expression
	Token lexer.Token
}

func (dw *DoWhileStatement) statementNode()       {}
func (dw *DoWhileStatement) TokenLiteral() string { return dw.Token.Literal }
func (dw *DoWhileStatement) Pos() lexer.Position  { return dw.Token.Pos }
func (dw *DoWhileStatement) String() string {
	return "do " + dw.Body.String() + " while (" + dw.Test.String() + ");"
}

// WhileStatement is `while` (§12.6.2).
type WhileStatement struct {
	Test  Expression
	Body  Statement
	Token lexer.Token
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Pos() lexer.Position  { return ws.Token.Pos }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Test.String() + ") " + ws.Body.String()
}

// ForStatement is a C-style `for` (§12.6.3). Init may be a
// VariableStatement (`for (var i = 0; ...)`) or an Expression, or nil;
// Test and Update may each be nil (`for (;;)`).
type ForStatement struct {
	Init   Node // *VariableStatement or Expression, or nil
	Test   Expression
	Update Expression
	Body   Statement
	Token  lexer.Token
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) Pos() lexer.Position  { return fs.Token.Pos }
func (fs *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if fs.Init != nil {
		out.WriteString(fs.Init.String())
	}
	out.WriteString("; ")
	if fs.Test != nil {
		out.WriteString(fs.Test.String())
	}
	out.WriteString("; ")
	if fs.Update != nil {
		out.WriteString(fs.Update.String())
	}
	out.WriteString(") ")
	out.WriteString(fs.Body.String())
	return out.String()
}

// ForInStatement is `for (x in obj)` (§12.6.4). Left is a
// VariableStatement with exactly one undeclared-initializer Declarator
// (`for (var x in obj)`) or an Expression naming an assignable reference
// (`for (x in obj)`).
type ForInStatement struct {
	Left  Node
	Right Expression
	Body  Statement
	Token lexer.Token
}

func (fi *ForInStatement) statementNode()       {}
func (fi *ForInStatement) TokenLiteral() string { return fi.Token.Literal }
func (fi *ForInStatement) Pos() lexer.Position  { return fi.Token.Pos }
func (fi *ForInStatement) String() string {
	return "for (" + fi.Left.String() + " in " + fi.Right.String() + ") " + fi.Body.String()
}

// ContinueStatement is `continue` (§12.7), optionally targeting an
// enclosing Label.
type ContinueStatement struct {
	Token lexer.Token
	Label string
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) Pos() lexer.Position  { return cs.Token.Pos }
func (cs *ContinueStatement) String() string {
	if cs.Label != "" {
		return "continue " + cs.Label + ";"
	}
	return "continue;"
}

// BreakStatement is `break` (§12.8), optionally targeting an enclosing
// Label.
type BreakStatement struct {
	Token lexer.Token
	Label string
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) Pos() lexer.Position  { return bs.Token.Pos }
func (bs *BreakStatement) String() string {
	if bs.Label != "" {
		return "break " + bs.Label + ";"
	}
	return "break;"
}

// ReturnStatement is `return` (§12.9), valid only inside a function body
// (a parse-time constraint enforced by the parser, not this node).
type ReturnStatement struct {
	Argument Expression
	Token    lexer.Token
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() lexer.Position  { return rs.Token.Pos }
func (rs *ReturnStatement) String() string {
	if rs.Argument != nil {
		return "return " + rs.Argument.String() + ";"
	}
	return "return;"
}

// WithStatement is `with` (§12.10): pushes Object onto the scope chain
// for the duration of Body.
type WithStatement struct {
	Object Expression
	Body   Statement
	Token  lexer.Token
}

func (ws *WithStatement) statementNode()       {}
func (ws *WithStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WithStatement) Pos() lexer.Position  { return ws.Token.Pos }
func (ws *WithStatement) String() string {
	return "with (" + ws.Object.String() + ") " + ws.Body.String()
}

// CaseClause is one `case`/`default` arm inside a SwitchStatement
// (§12.11). Test is nil for the `default` clause.
type CaseClause struct {
	Test Expression
	Body []Statement
}

func (cc *CaseClause) String() string {
	var out bytes.Buffer
	if cc.Test != nil {
		out.WriteString("case " + cc.Test.String() + ":")
	} else {
		out.WriteString("default:")
	}
	for _, stmt := range cc.Body {
		out.WriteString("\n  ")
		out.WriteString(strings.ReplaceAll(stmt.String(), "\n", "\n  "))
	}
	return out.String()
}

// SwitchStatement is `switch` (§12.11). At most one CaseClause may have
// a nil Test (the default clause), and it need not be last.
type SwitchStatement struct {
	Discriminant Expression
	Token        lexer.Token
	Cases        []*CaseClause
}

func (ss *SwitchStatement) statementNode()       {}
func (ss *SwitchStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *SwitchStatement) Pos() lexer.Position  { return ss.Token.Pos }
func (ss *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("switch (")
	out.WriteString(ss.Discriminant.String())
	out.WriteString(") {\n")
	for _, c := range ss.Cases {
		out.WriteString(c.String())
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// LabeledStatement is `label: statement` (§12.12).
type LabeledStatement struct {
	Body  Statement
	Token lexer.Token
	Label string
}

func (ls *LabeledStatement) statementNode()       {}
func (ls *LabeledStatement) TokenLiteral() string { return ls.Token.Literal }
func (ls *LabeledStatement) Pos() lexer.Position  { return ls.Token.Pos }
func (ls *LabeledStatement) String() string {
	return ls.Label + ": " + ls.Body.String()
}

// ThrowStatement is `throw` (§12.13).
type ThrowStatement struct {
	Argument Expression
	Token    lexer.Token
}

func (ts *ThrowStatement) statementNode()       {}
func (ts *ThrowStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *ThrowStatement) Pos() lexer.Position  { return ts.Token.Pos }
func (ts *ThrowStatement) String() string {
	return "throw " + ts.Argument.String() + ";"
}

// CatchClause is the `catch (ident) { ... }` part of a TryStatement
// (§12.14); nil if the try statement has no catch (finally-only form).
type CatchClause struct {
	Param *Identifier
	Body  *BlockStatement
}

func (cc *CatchClause) String() string {
	return "catch (" + cc.Param.String() + ") " + cc.Body.String()
}

// TryStatement is `try`/`catch`/`finally` (§12.14). At least one of
// Catch or Finally is non-nil; both may be present.
type TryStatement struct {
	Block   *BlockStatement
	Catch   *CatchClause
	Finally *BlockStatement
	Token   lexer.Token
}

func (ts *TryStatement) statementNode()       {}
func (ts *TryStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *TryStatement) Pos() lexer.Position  { return ts.Token.Pos }
func (ts *TryStatement) String() string {
	var out bytes.Buffer
	out.WriteString("try ")
	out.WriteString(ts.Block.String())
	if ts.Catch != nil {
		out.WriteString(" ")
		out.WriteString(ts.Catch.String())
	}
	if ts.Finally != nil {
		out.WriteString(" finally ")
		out.WriteString(ts.Finally.String())
	}
	return out.String()
}
