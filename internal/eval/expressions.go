package eval

import (
	"strings"

	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/object"
	"github.com/es3lang/es3/internal/runtime"
	"github.com/es3lang/es3/internal/value"
)

func (e *Evaluator) evalRegExpLiteral(n *ast.RegExpLiteral) value.Value {
	ctorVal, _ := e.Realm.Global.Get("RegExp")
	ctor, ok := ctorVal.(value.Object)
	if !ok || !ctor.IsConstructor() {
		return value.Undefined
	}
	obj, err := ctor.Construct([]value.Value{value.NewString(n.Pattern), value.NewString(n.Flags)})
	if err != nil {
		return value.Undefined
	}
	if no, ok := obj.(*object.NativeObject); ok {
		ro := value.AttrDontEnum | value.AttrReadOnly
		no.DefineOwn("source", value.NewString(n.Pattern), ro)
		no.DefineOwn("global", value.Boolean(strings.Contains(n.Flags, "g")), ro)
		no.DefineOwn("ignoreCase", value.Boolean(strings.Contains(n.Flags, "i")), ro)
		no.DefineOwn("multiline", value.Boolean(strings.Contains(n.Flags, "m")), ro)
	}
	return obj
}

// evalArrayLiteral implements ECMA-262-3 §11.1.4; an elided element
// (a nil Expression slot) evaluates to Undefined rather than being
// skipped, so the built array's length matches the literal's element
// count.
func (e *Evaluator) evalArrayLiteral(n *ast.ArrayLiteral, ctx *runtime.ExecutionContext) value.Value {
	elems := make([]value.Value, len(n.Elements))
	for i, el := range n.Elements {
		if el == nil {
			elems[i] = value.Undefined
			continue
		}
		elems[i] = e.eval(el, ctx)
	}
	return e.Realm.NewArray(elems)
}

// evalObjectLiteral implements ECMA-262-3 §11.1.5: properties install in
// source order (ECMA-262-3 §8's insertion-order scenario), and a get/set
// pair sharing one key combine into a single accessor property via
// DefineAccessor rather than overwriting each other.
func (e *Evaluator) evalObjectLiteral(n *ast.ObjectLiteral, ctx *runtime.ExecutionContext) value.Value {
	obj := object.New("Object", e.Realm.ObjectProto)
	for _, p := range n.Properties {
		key := e.propertyKeyName(p.Key)
		switch p.Kind {
		case ast.PropertyGet:
			fn := e.makeFunction(p.Value.(*ast.FunctionLiteral), ctx)
			obj.DefineAccessor(key, fn, nil, value.AttrNone)
		case ast.PropertySet:
			fn := e.makeFunction(p.Value.(*ast.FunctionLiteral), ctx)
			obj.DefineAccessor(key, nil, fn, value.AttrNone)
		default:
			obj.DefineOwn(key, e.eval(p.Value, ctx), value.AttrNone)
		}
	}
	return obj
}

func (e *Evaluator) propertyKeyName(key ast.Expression) string {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name
	case *ast.StringLiteral:
		return k.Value
	case *ast.NumberLiteral:
		return value.NumberToString(value.Number(k.Value))
	default:
		return key.String()
	}
}

// evalUnaryExpression implements ECMA-262-3 §11.4's prefix operators.
// delete/typeof/void inspect the operand's raw Reference (an
// unresolvable reference makes delete a no-op success and typeof
// "undefined" without throwing); the arithmetic/bitwise/logical forms
// evaluate the operand to a Value first.
func (e *Evaluator) evalUnaryExpression(n *ast.UnaryExpression, ctx *runtime.ExecutionContext) value.Value {
	switch n.Operator {
	case "typeof":
		ref := e.evalExpression(n.Operand, ctx)
		if r, ok := ref.(value.Reference); ok && r.Base == nil {
			return value.NewString("undefined")
		}
		v := e.getValue(ref, n.Operand.Pos())
		return value.NewString(typeOf(v))
	case "delete":
		ref := e.evalExpression(n.Operand, ctx)
		r, ok := ref.(value.Reference)
		if !ok || r.Base == nil {
			return value.Boolean(true)
		}
		return value.Boolean(r.Base.Delete(r.Property))
	case "void":
		e.eval(n.Operand, ctx)
		return value.Undefined
	case "+":
		v := e.eval(n.Operand, ctx)
		num, err := value.ToNumberFlags(v, e.Flags.Has(lexer.EXT1))
		if err != nil {
			e.raiseGoError(err, n.Pos())
		}
		return num
	case "-":
		v := e.eval(n.Operand, ctx)
		num, err := value.ToNumberFlags(v, e.Flags.Has(lexer.EXT1))
		if err != nil {
			e.raiseGoError(err, n.Pos())
		}
		return -num
	case "~":
		v := e.eval(n.Operand, ctx)
		i32, err := value.ToInt32(v)
		if err != nil {
			e.raiseGoError(err, n.Pos())
		}
		return value.Number(float64(^i32))
	case "!":
		v := e.eval(n.Operand, ctx)
		return value.Boolean(!bool(value.ToBoolean(v)))
	default:
		e.throwError("SyntaxError", "unknown unary operator "+n.Operator, n.Pos())
		return value.Undefined
	}
}

// evalUpdateExpression implements prefix/postfix `++`/`--` (§11.3,
// §11.4.4-7): ToNumber the current value, PutValue the incremented
// result, and yield the old value for postfix or the new one for prefix.
func (e *Evaluator) evalUpdateExpression(n *ast.UpdateExpression, ctx *runtime.ExecutionContext) value.Value {
	ref := e.evalExpression(n.Operand, ctx)
	old := e.getValue(ref, n.Operand.Pos())
	oldNum, err := value.ToNumberFlags(old, e.Flags.Has(lexer.EXT1))
	if err != nil {
		e.raiseGoError(err, n.Pos())
	}
	var newNum value.Number
	if n.Operator == "++" {
		newNum = oldNum + 1
	} else {
		newNum = oldNum - 1
	}
	e.putValue(ref, newNum, n.Pos())
	if n.Prefix {
		return newNum
	}
	return oldNum
}

func (e *Evaluator) evalBinaryExpression(n *ast.BinaryExpression, ctx *runtime.ExecutionContext) value.Value {
	left := e.eval(n.Left, ctx)
	right := e.eval(n.Right, ctx)
	result, err := binaryOp(n.Operator, left, right, e.Flags.Has(lexer.EXT1))
	if err != nil {
		e.raiseGoError(err, n.Pos())
	}
	return result
}

// evalLogicalExpression implements `&&`/`||` (§11.11): the right operand
// is evaluated only when the left one doesn't already decide the result.
func (e *Evaluator) evalLogicalExpression(n *ast.LogicalExpression, ctx *runtime.ExecutionContext) value.Value {
	left := e.eval(n.Left, ctx)
	truthy := bool(value.ToBoolean(left))
	if n.Operator == "&&" {
		if !truthy {
			return left
		}
		return e.eval(n.Right, ctx)
	}
	if truthy {
		return left
	}
	return e.eval(n.Right, ctx)
}

func (e *Evaluator) evalConditionalExpression(n *ast.ConditionalExpression, ctx *runtime.ExecutionContext) value.Value {
	if bool(value.ToBoolean(e.eval(n.Test, ctx))) {
		return e.eval(n.Consequent, ctx)
	}
	return e.eval(n.Alternate, ctx)
}

// evalAssignmentExpression implements §11.13: the target is resolved to
// a Reference first, a compound operator's left operand is GetValue'd
// before the right side is evaluated (ECMA-262-3 §4.G's ordering rule),
// then the combined result is PutValue'd back onto the same reference.
func (e *Evaluator) evalAssignmentExpression(n *ast.AssignmentExpression, ctx *runtime.ExecutionContext) value.Value {
	ref := e.evalExpression(n.Target, ctx)
	var newVal value.Value
	if n.Operator == "=" {
		newVal = e.eval(n.Value, ctx)
	} else {
		old := e.getValue(ref, n.Target.Pos())
		rhs := e.eval(n.Value, ctx)
		op := strings.TrimSuffix(n.Operator, "=")
		result, err := binaryOp(op, old, rhs, e.Flags.Has(lexer.EXT1))
		if err != nil {
			e.raiseGoError(err, n.Pos())
		}
		newVal = result
	}
	e.putValue(ref, newVal, n.Pos())
	return newVal
}

// evalSequenceExpression implements the comma operator (§11.14).
func (e *Evaluator) evalSequenceExpression(n *ast.SequenceExpression, ctx *runtime.ExecutionContext) value.Value {
	var last value.Value = value.Undefined
	for _, expr := range n.Expressions {
		last = e.eval(expr, ctx)
	}
	return last
}

// evalMemberExpression implements property access (§11.2.1), producing a
// Reference whose Base is the accessed object (ToObject-wrapped if the
// base was a primitive, e.g. `"abc".length`) so a later GetValue/PutValue
// or Call can use it directly.
func (e *Evaluator) evalMemberExpression(n *ast.MemberExpression, ctx *runtime.ExecutionContext) value.Value {
	base := e.eval(n.Object, ctx)
	var propName string
	if n.Computed {
		pv := e.eval(n.Property, ctx)
		s, err := value.ToString(pv)
		if err != nil {
			e.raiseGoError(err, n.Pos())
		}
		propName = s.String()
	} else {
		propName = n.Property.(*ast.Identifier).Name
	}
	baseObj, err := value.ToObject(base)
	if err != nil {
		e.raiseGoError(err, n.Pos())
	}
	return value.Reference{Base: baseObj, Property: propName, ThisValue: base}
}

// callThis resolves the `this` argument for a Call evaluation
// (ECMA-262-3 §4.G): the reference's base object, except when that base is
// a call activation object, in which case an unqualified function call
// (`foo()` resolved straight off the scope chain) passes no `this` at
// all — invoke then substitutes Global for it, per ECMA-262-3 §10.1.6.
func callThis(callee value.Value) value.Value {
	ref, ok := callee.(value.Reference)
	if !ok || ref.Base == nil {
		return value.Undefined
	}
	if no, ok := ref.Base.(*object.NativeObject); ok && no.Class() == "Activation" {
		return value.Undefined
	}
	return ref.Base
}

func (e *Evaluator) evalCallExpression(n *ast.CallExpression, ctx *runtime.ExecutionContext) value.Value {
	calleeRef := e.evalExpression(n.Callee, ctx)
	calleeVal := e.getValue(calleeRef, n.Callee.Pos())
	fn, ok := calleeVal.(value.Object)
	if !ok || !fn.IsCallable() {
		e.throwError("TypeError", n.Callee.String()+" is not a function", n.Pos())
		return value.Undefined
	}
	args := make([]value.Value, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = e.eval(a, ctx)
	}
	if e.isDirectEvalCall(n, calleeVal) {
		return e.directEval(args, ctx)
	}
	result, err := fn.Call(callThis(calleeRef), args)
	if err != nil {
		e.raiseGoError(err, n.Pos())
	}
	return result
}

func (e *Evaluator) evalNewExpression(n *ast.NewExpression, ctx *runtime.ExecutionContext) value.Value {
	calleeVal := e.eval(n.Callee, ctx)
	ctor, ok := calleeVal.(value.Object)
	if !ok || !ctor.IsConstructor() {
		e.throwError("TypeError", n.Callee.String()+" is not a constructor", n.Pos())
		return value.Undefined
	}
	args := make([]value.Value, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = e.eval(a, ctx)
	}
	result, err := ctor.Construct(args)
	if err != nil {
		e.raiseGoError(err, n.Pos())
	}
	return result
}
