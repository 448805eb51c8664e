package eval

import (
	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/object"
	"github.com/es3lang/es3/internal/parser"
	"github.com/es3lang/es3/internal/runtime"
	"github.com/es3lang/es3/internal/value"
)

// installEval wires the distinguished Global.eval of ECMA-262-3 §15.1.2.1
// onto the Evaluator's realm. The installed CFunction itself only ever
// runs the indirect form (global scope, global this); evalCallExpression
// recognizes a direct call of this exact object and routes it through
// directEval instead, per ECMA-262-3 §4.G's one-line mention of direct-eval
// detection.
func (e *Evaluator) installEval() {
	fn := object.NewCFunction(e.Realm.FunctionProto, "eval", 1,
		func(this value.Value, args []value.Value) (value.Value, error) {
			src := ""
			if len(args) > 0 {
				if s, ok := args[0].(value.String); ok {
					src = s.String()
				} else {
					return args[0], nil
				}
			}
			ctx := runtime.NewGlobalContext(e.Realm.Global)
			return e.evalSource(src, ctx), nil
		})
	e.evalFn = fn
	e.Realm.Global.DefineOwn("eval", fn, value.AttrDontEnum)
}

// evalSource parses src as a program and evaluates its statement list in
// ctx, the same way Run does for the top-level program, but without
// replacing ctx's scope chain — eval's body hoists into and executes
// against whatever variable environment the caller supplies.
func (e *Evaluator) evalSource(src string, ctx *runtime.ExecutionContext) value.Value {
	l := lexer.NewFromString(src)
	p := parser.New(l, src, e.File)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		e.throwError("SyntaxError", errs[0].Error(), lexer.Position{})
		return value.Undefined
	}
	e.hoist(prog.Body, ctx)
	comp := e.evalStatementList(prog.Body, ctx)
	if comp.Value == nil {
		return value.Undefined
	}
	return comp.Value
}

// isDirectEvalCall reports whether a CallExpression invokes the
// distinguished eval function through a bare identifier reference
// (`eval(...)`), the condition ECMA-262-3 §15.1.2.1.1 uses to select
// direct eval — anything else (`window.eval(...)`, `(0, eval)(...)`, an
// aliased binding) is an indirect call even if it resolves to the same
// function object.
func (e *Evaluator) isDirectEvalCall(n *ast.CallExpression, calleeVal value.Value) bool {
	if e.evalFn == nil || calleeVal != value.Value(e.evalFn) {
		return false
	}
	id, ok := n.Callee.(*ast.Identifier)
	return ok && id.Name == "eval"
}

// directEval runs src in the calling context's own scope and `this`
// binding (ECMA-262-3 §15.1.2.1.1), so declarations made inside a direct
// eval call are visible to the caller after it returns.
func (e *Evaluator) directEval(args []value.Value, ctx *runtime.ExecutionContext) value.Value {
	if len(args) == 0 {
		return value.Undefined
	}
	s, ok := args[0].(value.String)
	if !ok {
		return args[0]
	}
	return e.evalSource(s.String(), ctx)
}
