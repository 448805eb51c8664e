package eval

import (
	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/diag"
	"github.com/es3lang/es3/internal/object"
	"github.com/es3lang/es3/internal/runtime"
	"github.com/es3lang/es3/internal/value"
)

// hoist implements the ECMA-262-3 §10.1.3 variable instantiation pre-pass: every var-declared name in
// body (found anywhere in nested statements, but not inside a nested
// function's own body) is bound to Undefined on ctx.Variable unless
// already defined, and every function declaration is bound to its
// Function object — both with ctx.VarAttrs (DontDelete). This runs once
// per call (and once for the top-level program) rather than as a
// separate parser pre-pass, since the parser this port built resolves
// names dynamically rather than through a stable arena (see DESIGN.md).
func (e *Evaluator) hoist(body []ast.Statement, ctx *runtime.ExecutionContext) {
	for _, name := range collectVarNames(body) {
		if !ctx.Variable.HasProperty(name) {
			ctx.Variable.DefineOwn(name, value.Undefined, ctx.VarAttrs)
		}
	}
	for _, fn := range collectFunctionDecls(body) {
		fnObj := e.makeFunction(fn, ctx)
		ctx.Variable.DefineOwn(fn.Name.Name, fnObj, ctx.VarAttrs)
	}
}

// collectVarNames walks every statement reachable without crossing into
// a nested FunctionLiteral's body, returning each VariableStatement name
// in declaration order (duplicates included; re-defining an existing
// property via DefineOwn is harmless).
func collectVarNames(stmts []ast.Statement) []string {
	var names []string
	var walk func(ast.Statement)
	walkList := func(list []ast.Statement) {
		for _, s := range list {
			walk(s)
		}
	}
	walk = func(s ast.Statement) {
		switch n := s.(type) {
		case *ast.VariableStatement:
			for _, d := range n.Declarations {
				names = append(names, d.Name.Name)
			}
		case *ast.BlockStatement:
			walkList(n.Body)
		case *ast.IfStatement:
			walk(n.Consequent)
			if n.Alternate != nil {
				walk(n.Alternate)
			}
		case *ast.DoWhileStatement:
			walk(n.Body)
		case *ast.WhileStatement:
			walk(n.Body)
		case *ast.ForStatement:
			if vs, ok := n.Init.(*ast.VariableStatement); ok {
				walk(vs)
			}
			walk(n.Body)
		case *ast.ForInStatement:
			if vs, ok := n.Left.(*ast.VariableStatement); ok {
				walk(vs)
			}
			walk(n.Body)
		case *ast.WithStatement:
			walk(n.Body)
		case *ast.SwitchStatement:
			for _, c := range n.Cases {
				walkList(c.Body)
			}
		case *ast.LabeledStatement:
			walk(n.Body)
		case *ast.TryStatement:
			walkList(n.Block.Body)
			if n.Catch != nil {
				walkList(n.Catch.Body.Body)
			}
			if n.Finally != nil {
				walkList(n.Finally.Body)
			}
		}
	}
	walkList(stmts)
	return names
}

// collectFunctionDecls returns every FunctionLiteral appearing as a
// named statement, found the same way collectVarNames finds var names
// (so a function declaration nested in a block is still hoisted — a
// common host extension beyond the strict SourceElements-only grammar,
// and harmless since re-visiting the statement during ordinary
// evaluation is a no-op).
func collectFunctionDecls(stmts []ast.Statement) []*ast.FunctionLiteral {
	var decls []*ast.FunctionLiteral
	var walk func(ast.Statement)
	walkList := func(list []ast.Statement) {
		for _, s := range list {
			walk(s)
		}
	}
	walk = func(s ast.Statement) {
		switch n := s.(type) {
		case *ast.FunctionLiteral:
			if n.Name != nil {
				decls = append(decls, n)
			}
		case *ast.BlockStatement:
			walkList(n.Body)
		case *ast.IfStatement:
			walk(n.Consequent)
			if n.Alternate != nil {
				walk(n.Alternate)
			}
		case *ast.DoWhileStatement:
			walk(n.Body)
		case *ast.WhileStatement:
			walk(n.Body)
		case *ast.ForStatement:
			walk(n.Body)
		case *ast.ForInStatement:
			walk(n.Body)
		case *ast.WithStatement:
			walk(n.Body)
		case *ast.SwitchStatement:
			for _, c := range n.Cases {
				walkList(c.Body)
			}
		case *ast.LabeledStatement:
			walk(n.Body)
		case *ast.TryStatement:
			walkList(n.Block.Body)
			if n.Catch != nil {
				walkList(n.Catch.Body.Body)
			}
			if n.Finally != nil {
				walkList(n.Finally.Body)
			}
		}
	}
	walkList(stmts)
	return decls
}

// makeFunction builds the Function object for a FunctionLiteral
// evaluated as an expression or (via hoist) as a declaration: it
// captures ctx's current scope chain as the closure, and — for a named
// function expression — splices in a one-binding scope naming the
// function itself (READONLY, DONTDELETE), per ECMA-262-3 §13.
func (e *Evaluator) makeFunction(fnLit *ast.FunctionLiteral, ctx *runtime.ExecutionContext) value.Object {
	params := make([]string, len(fnLit.Parameters))
	for i, p := range fnLit.Parameters {
		params[i] = p.Name
	}
	name := ""
	if fnLit.Name != nil {
		name = fnLit.Name.Name
	}

	closure := ctx.Scope
	var fnObj *object.NativeObject

	call := func(this value.Value, args []value.Value) (value.Value, error) {
		return e.invoke(fnLit, params, closure, fnObj, this, args)
	}
	construct := func(args []value.Value) (value.Object, error) {
		proto := object.DefaultPrototype(fnObj, e.Realm.ObjectProto)
		instance := object.New("Object", proto)
		result, err := e.invoke(fnLit, params, closure, fnObj, instance, args)
		if err != nil {
			return nil, err
		}
		if obj, ok := result.(value.Object); ok {
			return obj, nil
		}
		return instance, nil
	}

	fnObj = object.NewUserFunction(e.Realm.FunctionProto, e.Realm.ObjectProto, name, params, call, construct)

	if fnLit.Name != nil {
		nameScope := object.New("Object", nil)
		nameScope.DefineOwn(name, fnObj, value.AttrReadOnly|value.AttrDontDelete)
		closure = runtime.NewScope(nameScope, ctx.Scope)
	}
	return fnObj
}

// invoke runs fnLit's body as one call/construct activation: a fresh
// Activation object binds the formal parameters and `arguments`, is
// spliced in front of closure, var/function hoisting runs against it,
// then the body evaluates and its Completion is translated per
// ECMA-262-3 §13.2.1 (a Return completion becomes its value, a throw
// propagates as a throw, and Normal/Break/Continue at top of body
// becomes undefined).
func (e *Evaluator) invoke(fnLit *ast.FunctionLiteral, params []string, closure *runtime.Scope, fnObj value.Object, this value.Value, args []value.Value) (result value.Value, err error) {
	if this == nil || this.Kind() == value.KindUndefined || this.Kind() == value.KindNull {
		this = e.Realm.Global
	}

	activation := object.New("Activation", nil)
	for i, p := range params {
		var v value.Value = value.Undefined
		if i < len(args) {
			v = args[i]
		}
		activation.DefineOwn(p, v, value.AttrNone)
	}
	activation.DefineOwn("arguments", object.NewArguments(e.Realm.ObjectProto, fnObj, args), value.AttrDontDelete)

	callCtx := runtime.NewCallContext(this, activation, closure, e.Realm.Global)

	frameName := "<anonymous>"
	if fnLit.Name != nil {
		frameName = fnLit.Name.Name
	}
	prevTB := e.Traceback
	e.Traceback = e.Traceback.Push(diag.StackFrame{Position: fnLit.Pos(), FunctionName: frameName})
	defer func() { e.Traceback = prevTB }()

	if e.MaxCallDepth > 0 && e.Traceback.Depth() > e.MaxCallDepth {
		e.throwError("RangeError", "maximum call stack size exceeded", fnLit.Pos())
		return value.Undefined, nil
	}

	e.hoist(fnLit.Body.Body, callCtx)
	comp := e.evalStatementList(fnLit.Body.Body, callCtx)

	switch comp.Kind {
	case value.Return:
		return comp.Value, nil
	default:
		return value.Undefined, nil
	}
}
