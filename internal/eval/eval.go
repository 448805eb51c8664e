// Package eval implements a tree-walk evaluator following ECMA-262-3
// §4.G: one Evaluator dispatches each ast.Statement to a Completion and
// each ast.Expression to a Value (or Reference), via a centralized Eval
// dispatcher rather than per-node methods — ast nodes cannot carry
// methods from another package, so evaluation is one dispatcher with
// per-kind helpers, not per-node Eval methods.
package eval

import (
	"fmt"

	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/diag"
	"github.com/es3lang/es3/internal/host"
	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/object"
	"github.com/es3lang/es3/internal/runtime"
	"github.com/es3lang/es3/internal/value"
)

// Evaluator holds the one Realm (global object graph) and the ambient
// bookkeeping — source text for error messages, the call traceback, and
// the dynamic label-to-target table — that every statement/expression
// evaluation consults.
type Evaluator struct {
	Realm  *object.Realm
	Host   host.Hooks
	Source string
	File   string

	Traceback diag.StackTrace

	// MaxCallDepth caps nested Call/Construct activations, throwing a
	// RangeError instead of overflowing the host Go stack on unbounded
	// recursion. Zero means unlimited.
	MaxCallDepth int

	// Flags holds the host's compatibility-flag selection; this package
	// consults UNDEFDEF (getValue, below) and EXT1 (the ToNumber
	// conversions of the unary, update and arithmetic operators) — the
	// rest gate lexer/parser behavior and are read from
	// internal/lexer.Flags at construction time instead.
	Flags lexer.Flags

	labelEnv map[string]value.Target
	nextID   int

	// evalFn is the distinguished Global.eval function object, used by
	// evalCallExpression to recognize a direct-eval call site.
	evalFn *object.NativeObject
}

// New builds an Evaluator over a fresh Realm.
func New(source, file string) *Evaluator {
	e := &Evaluator{
		Realm:    object.NewRealm(),
		Host:     host.Default(),
		Source:   source,
		File:     file,
		labelEnv: make(map[string]value.Target),
	}
	e.installEval()
	return e
}

// Run evaluates an entire program at global scope: hoists var/function
// declarations onto Global, then evaluates the body's statement list.
// caught is non-nil if an uncaught script exception propagated to the
// top; a script exception never escapes Run as a panic, while any other
// panic (a Go-level fault) propagates unchanged, since runtime.Catch
// re-panics it.
func (e *Evaluator) Run(prog *ast.Program) (comp value.Completion, caught *runtime.Thrown) {
	ctx := runtime.NewGlobalContext(e.Realm.Global)
	caught = runtime.Catch(func() {
		e.hoist(prog.Body, ctx)
		comp = e.evalStatementList(prog.Body, ctx)
	})
	return comp, caught
}

// evalStatementList implements the statement-list Completion threading
// of ECMA-262-3 §12.1: the last non-nil completion value seen so far is
// carried forward through consecutive Normal completions, and the list
// stops at the first abrupt (non-Normal) completion, which inherits that
// carried value if it didn't supply its own.
func (e *Evaluator) evalStatementList(stmts []ast.Statement, ctx *runtime.ExecutionContext) value.Completion {
	var last value.Value
	for _, s := range stmts {
		c := e.evalStatement(s, ctx)
		if c.Value != nil {
			last = c.Value
		}
		if c.Kind != value.Normal {
			return value.Completion{Kind: c.Kind, Value: last, Target: c.Target}
		}
	}
	return value.NormalCompletion(last)
}

// evalStatement dispatches one statement to its Completion.
func (e *Evaluator) evalStatement(node ast.Statement, ctx *runtime.ExecutionContext) value.Completion {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		return e.evalExpressionStatement(n, ctx)
	case *ast.VariableStatement:
		return e.evalVariableStatement(n, ctx)
	case *ast.EmptyStatement:
		return value.NormalCompletion(nil)
	case *ast.BlockStatement:
		return e.evalStatementList(n.Body, ctx)
	case *ast.IfStatement:
		return e.evalIfStatement(n, ctx)
	case *ast.DoWhileStatement:
		return e.evalDoWhileStatement(n, ctx, value.NoTarget)
	case *ast.WhileStatement:
		return e.evalWhileStatement(n, ctx, value.NoTarget)
	case *ast.ForStatement:
		return e.evalForStatement(n, ctx, value.NoTarget)
	case *ast.ForInStatement:
		return e.evalForInStatement(n, ctx, value.NoTarget)
	case *ast.ContinueStatement:
		return e.evalContinueStatement(n)
	case *ast.BreakStatement:
		return e.evalBreakStatement(n)
	case *ast.ReturnStatement:
		return e.evalReturnStatement(n, ctx)
	case *ast.WithStatement:
		return e.evalWithStatement(n, ctx)
	case *ast.SwitchStatement:
		return e.evalSwitchStatement(n, ctx, value.NoTarget)
	case *ast.LabeledStatement:
		return e.evalLabeledStatement(n, ctx)
	case *ast.ThrowStatement:
		return e.evalThrowStatement(n, ctx)
	case *ast.TryStatement:
		return e.evalTryStatement(n, ctx)
	case *ast.FunctionLiteral:
		// A function declaration's binding was already installed by
		// hoist; reaching it as a statement is a no-op (ECMA-262-3 §13
		// treats FunctionDeclaration as carrying no completion value).
		return value.NormalCompletion(nil)
	default:
		panic(fmt.Sprintf("eval: unhandled statement type %T", node))
	}
}

// evalExpression dispatches one expression to a Value or a Reference.
func (e *Evaluator) evalExpression(node ast.Expression, ctx *runtime.ExecutionContext) value.Value {
	switch n := node.(type) {
	case *ast.Identifier:
		return runtime.Lookup(ctx.Scope, n.Name)
	case *ast.NumberLiteral:
		return value.Number(n.Value)
	case *ast.StringLiteral:
		return value.NewString(n.Value)
	case *ast.BooleanLiteral:
		return value.Boolean(n.Value)
	case *ast.NullLiteral:
		return value.Null
	case *ast.ThisExpression:
		return ctx.This
	case *ast.RegExpLiteral:
		return e.evalRegExpLiteral(n)
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(n, ctx)
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(n, ctx)
	case *ast.FunctionLiteral:
		return e.makeFunction(n, ctx)
	case *ast.UnaryExpression:
		return e.evalUnaryExpression(n, ctx)
	case *ast.UpdateExpression:
		return e.evalUpdateExpression(n, ctx)
	case *ast.BinaryExpression:
		return e.evalBinaryExpression(n, ctx)
	case *ast.LogicalExpression:
		return e.evalLogicalExpression(n, ctx)
	case *ast.ConditionalExpression:
		return e.evalConditionalExpression(n, ctx)
	case *ast.AssignmentExpression:
		return e.evalAssignmentExpression(n, ctx)
	case *ast.SequenceExpression:
		return e.evalSequenceExpression(n, ctx)
	case *ast.MemberExpression:
		return e.evalMemberExpression(n, ctx)
	case *ast.CallExpression:
		return e.evalCallExpression(n, ctx)
	case *ast.NewExpression:
		return e.evalNewExpression(n, ctx)
	default:
		panic(fmt.Sprintf("eval: unhandled expression type %T", node))
	}
}

// getValue wraps runtime.GetValue, turning its abstract-operation
// ReferenceError into a thrown script exception via raise rather than a
// Go error return, keeping every evalExpression call site panic-clean.
func (e *Evaluator) getValue(v value.Value, pos lexer.Position) value.Value {
	// Under UNDEFDEF, reading a null-base Reference (an undeclared
	// identifier) yields undefined instead of throwing ReferenceError.
	if e.Flags.Has(lexer.UNDEFDEF) {
		if ref, ok := v.(value.Reference); ok && ref.Base == nil {
			return value.Undefined
		}
	}
	gv, err := runtime.GetValue(v, pos, e.Source, e.File)
	if err != nil {
		e.raiseGoError(err, pos)
	}
	return gv
}

func (e *Evaluator) putValue(ref value.Value, v value.Value, pos lexer.Position) {
	if err := runtime.PutValue(ref, v, e.Realm.Global, pos, e.Source, e.File); err != nil {
		e.raiseGoError(err, pos)
	}
}

// eval is evalExpression followed by GetValue — the common case for an
// expression evaluated purely for its value (not as an assignment
// target or a delete/typeof operand).
func (e *Evaluator) eval(node ast.Expression, ctx *runtime.ExecutionContext) value.Value {
	return e.getValue(e.evalExpression(node, ctx), node.Pos())
}

// throwError builds kind's Error object with message and raises it as a
// script exception carrying the current traceback.
func (e *Evaluator) throwError(kind, message string, pos lexer.Position) {
	errObj := e.Realm.NewError(kind, message)
	runtime.Raise(errObj, e.Traceback.Push(diag.StackFrame{Position: pos}))
}

// raiseGoError converts an abstract-operation failure (a
// *diag.RuntimeError from GetValue/PutValue, a *value.ConversionError
// from ToNumber/ToObject/..., or an object.NotCallableError) into the
// matching thrown Error object.
func (e *Evaluator) raiseGoError(err error, pos lexer.Position) {
	switch t := err.(type) {
	case *diag.RuntimeError:
		e.throwError(t.Name, t.Message, pos)
	default:
		e.throwError("TypeError", err.Error(), pos)
	}
}
