package eval

import (
	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/diag"
	"github.com/es3lang/es3/internal/object"
	"github.com/es3lang/es3/internal/runtime"
	"github.com/es3lang/es3/internal/value"
)

func (e *Evaluator) evalExpressionStatement(n *ast.ExpressionStatement, ctx *runtime.ExecutionContext) value.Completion {
	return value.NormalCompletion(e.eval(n.Expression, ctx))
}

func (e *Evaluator) evalVariableStatement(n *ast.VariableStatement, ctx *runtime.ExecutionContext) value.Completion {
	for _, d := range n.Declarations {
		if d.Init == nil {
			continue
		}
		v := e.eval(d.Init, ctx)
		ref := runtime.Lookup(ctx.Scope, d.Name.Name)
		e.putValue(ref, v, d.Name.Pos())
	}
	return value.NormalCompletion(nil)
}

func (e *Evaluator) evalIfStatement(n *ast.IfStatement, ctx *runtime.ExecutionContext) value.Completion {
	if bool(value.ToBoolean(e.eval(n.Test, ctx))) {
		return e.evalStatement(n.Consequent, ctx)
	}
	if n.Alternate != nil {
		return e.evalStatement(n.Alternate, ctx)
	}
	return value.NormalCompletion(nil)
}

// loopSignal decides what an iteration-body Completion means for the
// enclosing loop: continue stepping, stop with a final Completion, or
// propagate an abrupt completion the loop itself doesn't target.
type loopSignal int

const (
	loopContinue loopSignal = iota
	loopBreak
	loopPropagate
)

func loopStep(c value.Completion, target value.Target) (loopSignal, value.Completion) {
	switch c.Kind {
	case value.Normal:
		return loopContinue, c
	case value.Continue:
		if c.Target == value.NoTarget || c.Target == target {
			return loopContinue, c
		}
		return loopPropagate, c
	case value.Break:
		if c.Target == value.NoTarget || c.Target == target {
			return loopBreak, c
		}
		return loopPropagate, c
	default:
		return loopPropagate, c
	}
}

func (e *Evaluator) evalWhileStatement(n *ast.WhileStatement, ctx *runtime.ExecutionContext, target value.Target) value.Completion {
	var last value.Value
	for bool(value.ToBoolean(e.eval(n.Test, ctx))) {
		c := e.evalStatement(n.Body, ctx)
		if c.Value != nil {
			last = c.Value
		}
		sig, c := loopStep(c, target)
		switch sig {
		case loopBreak:
			return value.NormalCompletion(last)
		case loopPropagate:
			return value.Completion{Kind: c.Kind, Value: last, Target: c.Target}
		}
	}
	return value.NormalCompletion(last)
}

func (e *Evaluator) evalDoWhileStatement(n *ast.DoWhileStatement, ctx *runtime.ExecutionContext, target value.Target) value.Completion {
	var last value.Value
	for {
		c := e.evalStatement(n.Body, ctx)
		if c.Value != nil {
			last = c.Value
		}
		sig, c := loopStep(c, target)
		switch sig {
		case loopBreak:
			return value.NormalCompletion(last)
		case loopPropagate:
			return value.Completion{Kind: c.Kind, Value: last, Target: c.Target}
		}
		if !bool(value.ToBoolean(e.eval(n.Test, ctx))) {
			break
		}
	}
	return value.NormalCompletion(last)
}

func (e *Evaluator) evalForStatement(n *ast.ForStatement, ctx *runtime.ExecutionContext, target value.Target) value.Completion {
	switch init := n.Init.(type) {
	case *ast.VariableStatement:
		e.evalVariableStatement(init, ctx)
	case ast.Expression:
		e.eval(init, ctx)
	}
	var last value.Value
	for n.Test == nil || bool(value.ToBoolean(e.eval(n.Test, ctx))) {
		c := e.evalStatement(n.Body, ctx)
		if c.Value != nil {
			last = c.Value
		}
		sig, c := loopStep(c, target)
		switch sig {
		case loopBreak:
			return value.NormalCompletion(last)
		case loopPropagate:
			return value.Completion{Kind: c.Kind, Value: last, Target: c.Target}
		}
		if n.Update != nil {
			e.eval(n.Update, ctx)
		}
	}
	return value.NormalCompletion(last)
}

func (e *Evaluator) evalForInStatement(n *ast.ForInStatement, ctx *runtime.ExecutionContext, target value.Target) value.Completion {
	rv := e.eval(n.Right, ctx)
	if rv.Kind() == value.KindUndefined || rv.Kind() == value.KindNull {
		return value.NormalCompletion(nil)
	}
	obj, err := value.ToObject(rv)
	if err != nil {
		e.raiseGoError(err, n.Pos())
	}

	assign := func(name string) {
		v := value.NewString(name)
		switch left := n.Left.(type) {
		case *ast.VariableStatement:
			ref := runtime.Lookup(ctx.Scope, left.Declarations[0].Name.Name)
			e.putValue(ref, v, n.Pos())
		case ast.Expression:
			ref := e.evalExpression(left, ctx)
			e.putValue(ref, v, n.Pos())
		}
	}

	var last value.Value
	it := object.NewEnumerator(obj)
	for {
		name, ok := it.Next()
		if !ok {
			break
		}
		assign(name)
		c := e.evalStatement(n.Body, ctx)
		if c.Value != nil {
			last = c.Value
		}
		sig, c := loopStep(c, target)
		switch sig {
		case loopBreak:
			return value.NormalCompletion(last)
		case loopPropagate:
			return value.Completion{Kind: c.Kind, Value: last, Target: c.Target}
		}
	}
	return value.NormalCompletion(last)
}

func (e *Evaluator) evalReturnStatement(n *ast.ReturnStatement, ctx *runtime.ExecutionContext) value.Completion {
	v := value.Value(value.Undefined)
	if n.Argument != nil {
		v = e.eval(n.Argument, ctx)
	}
	return value.ReturnCompletion(v)
}

func (e *Evaluator) evalWithStatement(n *ast.WithStatement, ctx *runtime.ExecutionContext) value.Completion {
	v := e.eval(n.Object, ctx)
	obj, err := value.ToObject(v)
	if err != nil {
		e.raiseGoError(err, n.Pos())
	}
	var comp value.Completion
	runtime.With(ctx, obj, func() error {
		comp = e.evalStatement(n.Body, ctx)
		return nil
	})
	return comp
}

func (e *Evaluator) evalSwitchStatement(n *ast.SwitchStatement, ctx *runtime.ExecutionContext, target value.Target) value.Completion {
	disc := e.eval(n.Discriminant, ctx)

	start := -1
	defaultIdx := -1
	for i, c := range n.Cases {
		if c.Test == nil {
			defaultIdx = i
			continue
		}
		tv := e.eval(c.Test, ctx)
		if value.StrictEquals(disc, tv) {
			start = i
			break
		}
	}
	if start == -1 {
		start = defaultIdx
	}
	if start == -1 {
		return value.NormalCompletion(nil)
	}

	var last value.Value
	for i := start; i < len(n.Cases); i++ {
		c := e.evalStatementList(n.Cases[i].Body, ctx)
		if c.Value != nil {
			last = c.Value
		}
		if c.Kind == value.Break && (c.Target == value.NoTarget || c.Target == target) {
			return value.NormalCompletion(last)
		}
		if c.Kind != value.Normal {
			return value.Completion{Kind: c.Kind, Value: last, Target: c.Target}
		}
	}
	return value.NormalCompletion(last)
}

func (e *Evaluator) evalThrowStatement(n *ast.ThrowStatement, ctx *runtime.ExecutionContext) value.Completion {
	v := e.eval(n.Argument, ctx)
	runtime.Raise(v, e.Traceback.Push(diag.StackFrame{Position: n.Pos()}))
	panic("unreachable: runtime.Raise always panics")
}

// runCatchable runs body, turning a script-level panic (runtime.Thrown)
// into a Throw Completion rather than letting it propagate past the
// caller — the tree-walk evaluator's local use of ECMA-262-3 §4.J's
// try-frame, scoped to one try/catch/finally evaluation.
func (e *Evaluator) runCatchable(body func() value.Completion) value.Completion {
	var result value.Completion
	caught := runtime.Catch(func() { result = body() })
	if caught != nil {
		return value.ThrowCompletion(caught.Value)
	}
	return result
}

func (e *Evaluator) evalTryStatement(n *ast.TryStatement, ctx *runtime.ExecutionContext) value.Completion {
	result := e.runCatchable(func() value.Completion {
		return e.evalStatementList(n.Block.Body, ctx)
	})

	if n.Catch != nil && result.Kind == value.Throw {
		catchObj := object.New("Object", nil)
		catchObj.DefineOwn(n.Catch.Param.Name, result.Value, value.AttrDontDelete)
		result = e.runCatchable(func() value.Completion {
			prev := ctx.PushScope(catchObj)
			defer ctx.PopScope(prev)
			return e.evalStatementList(n.Catch.Body.Body, ctx)
		})
	}

	if n.Finally != nil {
		finallyResult := e.runCatchable(func() value.Completion {
			return e.evalStatementList(n.Finally.Body, ctx)
		})
		// A non-Normal finally completion overrides whatever try/catch
		// produced, including swallowing an in-flight throw.
		if finallyResult.Kind != value.Normal {
			result = finallyResult
		}
	}

	if result.Kind == value.Throw {
		runtime.Raise(result.Value, e.Traceback)
		panic("unreachable: runtime.Raise always panics")
	}
	return result
}
