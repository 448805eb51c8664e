package ast

import (
	"strings"

	"github.com/es3lang/es3/internal/lexer"
)

// FunctionLiteral is the shared shape of a FunctionDeclaration and a
// FunctionExpression (§13): a name (empty for an anonymous function
// expression), a formal parameter list, and a body. The parser
// distinguishes the two syntactic forms; both compile to this one node,
// and internal/eval tells them apart by statement- vs expression-context,
// matching how §13 describes both productions with one FunctionBody
// grammar.
type FunctionLiteral struct {
	Name       *Identifier // nil for an anonymous function expression
	Token      lexer.Token
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) statementNode()       {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FunctionLiteral) Pos() lexer.Position  { return fl.Token.Pos }
func (fl *FunctionLiteral) String() string {
	params := make([]string, len(fl.Parameters))
	for i, p := range fl.Parameters {
		params[i] = p.String()
	}
	name := ""
	if fl.Name != nil {
		name = fl.Name.String()
	}
	return "function " + name + "(" + strings.Join(params, ", ") + ") " + fl.Body.String()
}
