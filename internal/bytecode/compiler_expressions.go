package bytecode

import (
	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/value"
)

// compileRef compiles n so that, after execution, a single Reference
// value sits on top of the stack — the form an assignment target,
// delete operand or typeof operand needs (ECMA-262-3 §4.H's REF/LOOKUP
// opcodes). Anything that is not itself a reference-producing expression
// (a literal, a binary expression, ...) compiles as a value instead;
// GETVALUE is a no-op on an already-resolved value, so callers that
// always want a value can follow compileRef with emit(OpGetValue)
// uniformly.
func (c *Compiler) compileRef(n ast.Expression) {
	switch e := n.(type) {
	case *ast.Identifier:
		c.chunk.emitLiteral(value.NewString(e.Name))
		c.chunk.emit(OpLookup)
	case *ast.MemberExpression:
		c.compileExpr(e.Object)
		if e.Computed {
			c.compileExpr(e.Property)
			c.chunk.emit(OpToString)
		} else {
			c.chunk.emitLiteral(value.NewString(e.Property.(*ast.Identifier).Name))
		}
		c.chunk.emit(OpRef)
	default:
		c.compileExpr(n)
	}
}

// compileExpr compiles n so that its Value (never a Reference) sits on
// top of the stack afterward.
func (c *Compiler) compileExpr(n ast.Expression) {
	switch e := n.(type) {
	case *ast.NumberLiteral:
		c.chunk.emitLiteral(value.Number(e.Value))
	case *ast.StringLiteral:
		c.chunk.emitLiteral(value.NewString(e.Value))
	case *ast.BooleanLiteral:
		c.chunk.emitLiteral(value.Boolean(e.Value))
	case *ast.NullLiteral:
		c.chunk.emitLiteral(value.Null)
	case *ast.ThisExpression:
		c.chunk.emit(OpThis)
	case *ast.Identifier:
		c.compileRef(e)
		c.chunk.emit(OpGetValue)
	case *ast.RegExpLiteral:
		c.chunk.emit(OpRegExp)
		c.chunk.emitLiteral(value.NewString(e.Pattern))
		c.chunk.emitLiteral(value.NewString(e.Flags))
		c.chunk.emitIntOperand(OpNewByte, OpNewWord, 2)
	case *ast.ArrayLiteral:
		c.compileArrayLiteral(e)
	case *ast.ObjectLiteral:
		c.compileObjectLiteral(e)
	case *ast.FunctionLiteral:
		c.compileFunctionLiteral(e)
	case *ast.UnaryExpression:
		c.compileUnary(e)
	case *ast.UpdateExpression:
		c.compileUpdate(e)
	case *ast.BinaryExpression:
		c.compileExpr(e.Left)
		c.compileExpr(e.Right)
		switch e.Operator {
		case "!=":
			c.chunk.emit(OpEq)
			c.chunk.emit(OpNot)
		case "!==":
			c.chunk.emit(OpSEq)
			c.chunk.emit(OpNot)
		default:
			c.chunk.emit(binaryOpcode(e.Operator))
		}
	case *ast.LogicalExpression:
		c.compileLogical(e)
	case *ast.ConditionalExpression:
		c.compileConditional(e)
	case *ast.AssignmentExpression:
		c.compileAssignment(e)
	case *ast.SequenceExpression:
		for i, expr := range e.Expressions {
			c.compileExpr(expr)
			if i != len(e.Expressions)-1 {
				c.chunk.emit(OpPop)
			}
		}
	case *ast.MemberExpression:
		c.compileRef(e)
		c.chunk.emit(OpGetValue)
	case *ast.CallExpression:
		c.compileCall(e)
	case *ast.NewExpression:
		c.compileNew(e)
	default:
		c.chunk.emitLiteral(value.Undefined)
	}
}

// compileArrayLiteral builds `[e0, e1, ...]` by constructing an empty
// Array (ARRAY pushes the realm's Array constructor, NEW 0 invokes it)
// and then, per element, duplicating the array reference and storing
// through REF/PUTVALUE — the same machinery an ordinary indexed
// assignment uses, so the array's length-tracking Put hook
// (object/realm.go's growArrayLength) fires exactly as it would for
// hand-written `a[0] = x;` code.
func (c *Compiler) compileArrayLiteral(n *ast.ArrayLiteral) {
	c.chunk.emit(OpArray)
	c.chunk.emitIntOperand(OpNewByte, OpNewWord, 0)
	for i, el := range n.Elements {
		c.chunk.emit(OpDup)
		c.chunk.emitLiteral(value.NewString(value.NumberToString(value.Number(i))))
		c.chunk.emit(OpRef)
		if el == nil {
			c.chunk.emitLiteral(value.Undefined)
		} else {
			c.compileExpr(el)
		}
		c.chunk.emit(OpPutValue)
	}
}

// compileObjectLiteral builds `{k: v, ...}` the same way: OBJECT+NEW 0
// for a bare instance, then REF/PUTVALUE per property in source order.
// Accessor properties (get/set) are not compiled as accessors: every
// property kind compiles its value expression and stores it with
// PUTVALUE, so a get/set entry becomes an ordinary data property holding
// the accessor function itself.
func (c *Compiler) compileObjectLiteral(n *ast.ObjectLiteral) {
	c.chunk.emit(OpObject)
	c.chunk.emitIntOperand(OpNewByte, OpNewWord, 0)
	for _, p := range n.Properties {
		c.chunk.emit(OpDup)
		c.chunk.emitLiteral(value.NewString(propertyKeyName(p.Key)))
		c.chunk.emit(OpRef)
		c.compileExpr(p.Value)
		c.chunk.emit(OpPutValue)
	}
}

func propertyKeyName(key ast.Expression) string {
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

// compileFunctionLiteral compiles fnLit's body into its own Chunk and
// emits FUNC to build the closure at runtime (vm.go's execFunc mirrors
// eval/function.go's makeFunction).
func (c *Compiler) compileFunctionLiteral(fnLit *ast.FunctionLiteral) {
	params := make([]string, len(fnLit.Parameters))
	for i, p := range fnLit.Parameters {
		params[i] = p.Name
	}
	name := ""
	if fnLit.Name != nil {
		name = fnLit.Name.Name
	}
	proto := &FuncProto{Name: name, Params: params, Chunk: compileFunction(fnLit)}
	idx := c.chunk.addFunc(proto)
	c.chunk.emitIntOperand(OpFuncByte, OpFuncWord, idx)
}

func (c *Compiler) compileUnary(n *ast.UnaryExpression) {
	switch n.Operator {
	case "typeof":
		c.compileRef(n.Operand)
		c.chunk.emit(OpTypeOf)
	case "delete":
		c.compileRef(n.Operand)
		c.chunk.emit(OpDelete)
	case "void":
		c.compileExpr(n.Operand)
		c.chunk.emit(OpPop)
		c.chunk.emitLiteral(value.Undefined)
	case "+":
		c.compileExpr(n.Operand)
		c.chunk.emit(OpToNumber)
	case "-":
		c.compileExpr(n.Operand)
		c.chunk.emit(OpNeg)
	case "~":
		c.compileExpr(n.Operand)
		c.chunk.emit(OpInv)
	case "!":
		c.compileExpr(n.Operand)
		c.chunk.emit(OpNot)
	}
}

// compileUpdate implements prefix/postfix `++`/`--`. The target compiles
// to a Reference exactly once (DUP then copies the Reference value
// itself, never re-running the target's bytecode), avoiding a double
// evaluation of a computed member expression's property.
func (c *Compiler) compileUpdate(n *ast.UpdateExpression) {
	c.compileRef(n.Operand)
	c.chunk.emit(OpDup)
	c.chunk.emit(OpGetValue)
	c.chunk.emit(OpToNumber)
	// Stack: [ref, oldNum]
	step := OpAdd
	if n.Operator == "--" {
		step = OpSub
	}
	if n.Prefix {
		c.chunk.emitLiteral(value.Number(1))
		c.chunk.emit(step)
		// Stack: [ref, newNum] -> generic store-and-yield pattern.
		c.chunk.emit(OpDup)
		c.chunk.emit(OpRoll3)
		c.chunk.emit(OpPutValue)
		// leaves newNum as the expression result.
		return
	}
	c.chunk.emit(OpDup)
	c.chunk.emitLiteral(value.Number(1))
	c.chunk.emit(step)
	// Stack: [ref, oldNum, newNum]
	c.chunk.emit(OpExch)
	// Stack: [ref, newNum, oldNum]
	c.chunk.emit(OpRoll3)
	// Stack: [oldNum, ref, newNum]
	c.chunk.emit(OpPutValue)
	// leaves oldNum as the expression result.
}

func (c *Compiler) compileLogical(n *ast.LogicalExpression) {
	c.compileExpr(n.Left)
	c.chunk.emit(OpDup)
	c.chunk.emit(OpToBoolean)
	if n.Operator == "&&" {
		c.chunk.emit(OpNot)
	}
	patch := c.chunk.emitWord(OpBTrue, 0)
	c.chunk.emit(OpPop)
	c.compileExpr(n.Right)
	c.chunk.patchWord(patch, int32(c.chunk.here()))
}

func (c *Compiler) compileConditional(n *ast.ConditionalExpression) {
	c.compileExpr(n.Test)
	c.chunk.emit(OpToBoolean)
	truePatch := c.chunk.emitWord(OpBTrue, 0)
	c.compileExpr(n.Alternate)
	endPatch := c.chunk.emitWord(OpBAlways, 0)
	c.chunk.patchWord(truePatch, int32(c.chunk.here()))
	c.compileExpr(n.Consequent)
	c.chunk.patchWord(endPatch, int32(c.chunk.here()))
}

// compileAssignment implements `=` and the compound `op=` forms
// (ECMA-262-3 §11.13): the target compiles to a Reference once; `=`
// evaluates the new value directly, while a compound form GETVALUEs the
// same Reference (a second DUP of it, not a re-evaluation) before
// combining it with the right-hand side. Either way the final
// [ref, val, val] / ROLL3 / PUTVALUE sequence stores val and leaves one
// copy of it as the expression's own result.
func (c *Compiler) compileAssignment(n *ast.AssignmentExpression) {
	c.compileRef(n.Target)
	if n.Operator == "=" {
		c.compileExpr(n.Value)
	} else {
		c.chunk.emit(OpDup)
		c.chunk.emit(OpGetValue)
		c.compileExpr(n.Value)
		op := n.Operator[:len(n.Operator)-1]
		c.chunk.emit(binaryOpcode(op))
	}
	// Stack: [ref, val]
	c.chunk.emit(OpDup)
	c.chunk.emit(OpRoll3)
	// Stack: [val, ref, val]
	c.chunk.emit(OpPutValue)
	// leaves val as the expression result.
}

func (c *Compiler) compileCall(n *ast.CallExpression) {
	c.compileRef(n.Callee)
	c.chunk.emit(OpDup)
	c.chunk.emit(OpGetValue)
	// Stack: [calleeRef, fn]
	c.chunk.emit(OpExch)
	// Stack: [fn, calleeRef] — CALL (vm.go) reads the reference's base to
	// resolve `this`, nulling it out when the base is an Activation
	// object, mirroring eval/expressions.go's callThis.
	for _, a := range n.Arguments {
		c.compileExpr(a)
	}
	c.chunk.emitIntOperand(OpCallByte, OpCallWord, len(n.Arguments))
}

func (c *Compiler) compileNew(n *ast.NewExpression) {
	c.compileExpr(n.Callee)
	for _, a := range n.Arguments {
		c.compileExpr(a)
	}
	c.chunk.emitIntOperand(OpNewByte, OpNewWord, len(n.Arguments))
}

// binaryOpcode maps a BinaryExpression operator string to its opcode.
func binaryOpcode(op string) OpCode {
	switch op {
	case "+":
		return OpAdd
	case "-":
		return OpSub
	case "*":
		return OpMul
	case "/":
		return OpDiv
	case "%":
		return OpMod
	case "<<":
		return OpLShift
	case ">>":
		return OpRShift
	case ">>>":
		return OpURShift
	case "&":
		return OpBAnd
	case "|":
		return OpBOr
	case "^":
		return OpBXor
	case "<":
		return OpLt
	case ">":
		return OpGt
	case "<=":
		return OpLe
	case ">=":
		return OpGe
	case "==":
		return OpEq
	case "===":
		return OpSEq
	case "instanceof":
		return OpInstanceOf
	case "in":
		return OpIn
	default:
		return OpNop
	}
}
