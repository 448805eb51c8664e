package bytecode

import (
	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/diag"
	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/object"
	"github.com/es3lang/es3/internal/runtime"
	"github.com/es3lang/es3/internal/value"
)

// VM runs a compiled Chunk against the same Realm/object/runtime substrate
// internal/eval's tree-walker uses. Source and File feed diag's error
// formatting the same way Evaluator.Source/Evaluator.File do.
type VM struct {
	Realm  *object.Realm
	Source string
	File   string

	Traceback diag.StackTrace

	// MaxCallDepth caps nested Call/Construct activations; see
	// eval.Evaluator's field of the same name. Zero means unlimited.
	MaxCallDepth int

	// Flags holds the host's compatibility-flag selection; see
	// eval.Evaluator.Flags for which ones this package consults.
	Flags lexer.Flags
}

// New returns a VM ready to run programs against realm.
func New(realm *object.Realm, source, file string) *VM {
	return &VM{Realm: realm, Source: source, File: file}
}

// blockKind identifies what a runtime block frame is for.
type blockKind uint8

const (
	blockEnum blockKind = iota
	blockWith
	blockTryC
	blockTryF
)

// blockFrame is the runtime counterpart of one S_ENUM/S_WITH/S_TRYC/S_TRYF
// push: enough state to undo the frame's effect on a normal END unwind, or
// to locate and enter its handler on an exception.
type blockFrame struct {
	kind  blockKind
	depth int // byte offset of the handler, for TRYC/TRYF.

	stackDepth int // value-stack length when the frame was pushed.

	enumerator *object.Enumerator // ENUM only.
	savedScope *runtime.Scope     // WITH only: scope chain head to restore.
}

// frame is one activation of a Chunk: its own program counter, value
// stack, block stack and execution context. A function call gets a fresh
// frame; the top-level program runs in one too.
type frame struct {
	chunk *Chunk
	pc    int

	stack  []value.Value
	blocks []blockFrame

	ctx *runtime.ExecutionContext

	completion value.Value // SETC/GETC register; also the value a fallen-off-the-end chunk returns.
	pos        lexer.Position
}

func newFrame(chunk *Chunk, ctx *runtime.ExecutionContext) *frame {
	return &frame{chunk: chunk, ctx: ctx, completion: value.Undefined}
}

func (f *frame) push(v value.Value) { f.stack = append(f.stack, v) }

func (f *frame) pop() value.Value {
	n := len(f.stack) - 1
	v := f.stack[n]
	f.stack = f.stack[:n]
	return v
}

func (f *frame) peek() value.Value { return f.stack[len(f.stack)-1] }

// Run compiles and evaluates an entire program at global scope. caught is
// non-nil if an uncaught exception reached the top; Run itself never
// panics.
func (vm *VM) Run(prog *ast.Program) (result value.Value, caught *runtime.Thrown) {
	chunk := Compile(prog)
	ctx := runtime.NewGlobalContext(vm.Realm.Global)
	f := newFrame(chunk, ctx)
	caught = runtime.Catch(func() { vm.execChunk(f) })
	if caught != nil {
		return value.Undefined, caught
	}
	return f.completion, nil
}

// execChunk drives f's dispatch loop to completion, giving f's own block
// stack a chance to handle any exception that unwound here as a Go panic
// from deeper Go-level execution (a nested call's execChunk re-raising, or
// a throw with no handler anywhere below f) before propagating it further.
func (vm *VM) execChunk(f *frame) {
	for {
		thrown := runtime.Catch(func() { vm.run(f) })
		if thrown == nil {
			return
		}
		if vm.tryHandle(f, thrown.Value) {
			continue
		}
		panic(thrown)
	}
}

// run dispatches f.chunk.Code from f.pc until the chunk falls off its end
// or hits compileReturn's terminator END (see the comment on the END case
// below for how that's distinguished from an ordinary unwind-only END).
func (vm *VM) run(f *frame) {
	c := f.chunk
	for f.pc < len(c.Code) {
		op := OpCode(c.Code[f.pc])
		f.pc++
		var arg int32
		switch op.width() {
		case widthByte:
			arg = int32(c.Code[f.pc])
			f.pc++
		case widthWord:
			arg = c.readWord(f.pc)
			f.pc += 4
		}

		switch op {
		case OpNop:
		case OpDup:
			f.push(f.peek())
		case OpPop:
			f.pop()
		case OpExch:
			n := len(f.stack)
			f.stack[n-1], f.stack[n-2] = f.stack[n-2], f.stack[n-1]
		case OpRoll3:
			n := len(f.stack)
			a, b, c := f.stack[n-3], f.stack[n-2], f.stack[n-1]
			f.stack[n-3], f.stack[n-2], f.stack[n-1] = c, a, b

		case OpSetC:
			f.completion = f.peek()
		case OpGetC:
			f.push(f.completion)

		case OpLiteralByte, OpLiteralWord:
			f.push(c.Literals[arg])
		case OpThis:
			f.push(f.ctx.This)
		case OpObject:
			ctor, _ := f.ctx.Global.Get("Object")
			f.push(ctor)
		case OpArray:
			ctor, _ := f.ctx.Global.Get("Array")
			f.push(ctor)
		case OpRegExp:
			ctor, _ := f.ctx.Global.Get("RegExp")
			f.push(ctor)

		case OpRef:
			vm.execRef(f)
		case OpGetValue:
			vm.execGetValue(f)
		case OpLookup:
			name := asPropertyName(f.pop())
			f.push(runtime.Lookup(f.ctx.Scope, name))
		case OpPutValue:
			vm.execPutValue(f)
		case OpPutVar:
			v := f.pop()
			name := asPropertyName(f.pop())
			f.ctx.Variable.DefineOwn(name, v, f.ctx.VarAttrs)
		case OpVar:
			name := asPropertyName(f.pop())
			if !f.ctx.Variable.HasProperty(name) {
				f.ctx.Variable.DefineOwn(name, value.Undefined, f.ctx.VarAttrs)
			}
		case OpDelete:
			vm.execDelete(f)
		case OpTypeOf:
			vm.execTypeOf(f)

		case OpToObject:
			v := f.pop()
			obj, err := value.ToObject(v)
			if err != nil {
				vm.raiseGoError(f, err)
				break
			}
			f.push(obj)
		case OpToNumber:
			v := f.pop()
			n, err := value.ToNumberFlags(v, vm.Flags.Has(lexer.EXT1))
			if err != nil {
				vm.raiseGoError(f, err)
				break
			}
			f.push(n)
		case OpToBoolean:
			f.push(value.ToBoolean(f.pop()))
		case OpToString:
			v := f.pop()
			s, err := value.ToString(v)
			if err != nil {
				vm.raiseGoError(f, err)
				break
			}
			f.push(s)
		case OpToPrimitive:
			v := f.pop()
			p, err := value.ToPrimitive(v, value.HintDefault)
			if err != nil {
				vm.raiseGoError(f, err)
				break
			}
			f.push(p)

		case OpNeg:
			n, err := value.ToNumberFlags(f.pop(), vm.Flags.Has(lexer.EXT1))
			if err != nil {
				vm.raiseGoError(f, err)
				break
			}
			f.push(value.Number(-float64(n)))
		case OpInv:
			i, err := value.ToInt32(f.pop())
			if err != nil {
				vm.raiseGoError(f, err)
				break
			}
			f.push(value.Number(float64(^i)))
		case OpNot:
			f.push(value.Boolean(!bool(value.ToBoolean(f.pop()))))

		case OpMul, OpDiv, OpMod, OpAdd, OpSub, OpLShift, OpRShift, OpURShift,
			OpLt, OpGt, OpLe, OpGe, OpInstanceOf, OpIn, OpEq, OpSEq, OpBAnd, OpBXor, OpBOr:
			vm.execBinary(f, op)

		case OpBAlways:
			f.pc = int(arg)
		case OpBTrue:
			if bool(f.pop().(value.Boolean)) {
				f.pc = int(arg)
			}
		case OpBEnum:
			vm.execBEnum(f, int(arg))

		case OpNewByte, OpNewWord:
			vm.execNew(f, int(arg))
		case OpCallByte, OpCallWord:
			vm.execCall(f, int(arg))

		case OpEndByte, OpEndWord:
			target := int(arg)
			before := len(f.blocks)
			vm.unwindTo(f, target)
			// compileReturn always emits one unconditional END(0) in
			// addition to whatever emitUnwindTo(0) already emitted, so by
			// the time this one runs the block stack is guaranteed to
			// already be at depth 0 — the only way an END executes with
			// nothing left to pop. That's the signal to stop this chunk,
			// as opposed to an ordinary unwind-only END (from a with/try
			// exiting normally), which always has something to pop.
			if before == target {
				return
			}
		case OpThrow:
			vm.raise(f, f.pop())

		case OpSEnum:
			vm.execSEnum(f)
		case OpSWith:
			vm.execSWith(f)
		case OpSTryC:
			f.blocks = append(f.blocks, blockFrame{kind: blockTryC, depth: int(arg), stackDepth: len(f.stack)})
		case OpSTryF:
			f.blocks = append(f.blocks, blockFrame{kind: blockTryF, depth: int(arg), stackDepth: len(f.stack)})

		case OpFuncByte, OpFuncWord:
			f.push(vm.execFunc(f, c.Funcs[arg]))

		case OpLoc:
			f.pos = c.Locs[arg]
		}
	}
}

// unwindTo pops block frames down to target, restoring any WITH scopes
// spliced in along the way. It does not truncate the value stack: every
// construct that reaches its own END is assumed stack-balanced already
// (the compiler never leaves stray values behind on a normal exit path).
func (vm *VM) unwindTo(f *frame, target int) {
	for len(f.blocks) > target {
		n := len(f.blocks) - 1
		b := f.blocks[n]
		f.blocks = f.blocks[:n]
		if b.kind == blockWith {
			f.ctx.PopScope(b.savedScope)
		}
	}
}

// tryHandle searches f's own block stack for the nearest TRYC/TRYF frame
// able to handle v, the way the VM's own block-search (an auto-pop on
// dispatch, mirroring S_ENUM's B_ENUM-exhaustion auto-pop) handles a THROW
// reached directly from f's own dispatch loop. If found, it restores any
// spliced WITH scopes, truncates the stack back to the frame's recorded
// depth, pushes v, and repositions f.pc at the handler; the frame itself
// is already gone by the time the handler runs, so handler bodies never
// carry their own unwind of it. Returns false if no handler exists in f.
func (vm *VM) tryHandle(f *frame, v value.Value) bool {
	for len(f.blocks) > 0 {
		n := len(f.blocks) - 1
		b := f.blocks[n]
		f.blocks = f.blocks[:n]
		if b.kind == blockWith {
			f.ctx.PopScope(b.savedScope)
			continue
		}
		if b.kind == blockTryC || b.kind == blockTryF {
			f.stack = f.stack[:b.stackDepth]
			f.push(v)
			f.pc = b.depth
			return true
		}
		// An ENUM frame in the way of an unwinding exception is simply
		// dropped; its enumerator has nothing left to clean up.
	}
	return false
}

// raise is THROW's handler: give f's own block stack first chance, and
// fall back to an actual Go panic (letting execChunk's Catch wrapper, in
// this frame or an enclosing one reached through a Go-level call, retry
// the search) only if nothing in f can handle it.
func (vm *VM) raise(f *frame, v value.Value) {
	if vm.tryHandle(f, v) {
		return
	}
	runtime.Raise(v, vm.Traceback)
}

// raiseGoError converts an abstract-operation failure (a
// *diag.RuntimeError from GetValue/PutValue, a *value.ConversionError
// from ToNumber/ToObject/..., or anything else) into the matching thrown
// Error object, mirroring eval/eval.go's raiseGoError.
func (vm *VM) raiseGoError(f *frame, err error) {
	if t, ok := err.(*diag.RuntimeError); ok {
		vm.throwError(f, t.Name, t.Message)
		return
	}
	vm.throwError(f, "TypeError", err.Error())
}

func (vm *VM) throwError(f *frame, kind, message string) {
	errObj := vm.Realm.NewError(kind, message)
	vm.raise(f, errObj)
}

func (vm *VM) execRef(f *frame) {
	name := asPropertyName(f.pop())
	base := f.pop()
	baseObj, err := value.ToObject(base)
	if err != nil {
		vm.raiseGoError(f, err)
		return
	}
	f.push(value.Reference{Base: baseObj, Property: name, ThisValue: base})
}

func (vm *VM) execGetValue(f *frame) {
	v := f.pop()
	// Under UNDEFDEF, reading a null-base Reference (an undeclared
	// identifier) yields undefined instead of throwing ReferenceError —
	// see eval.Evaluator.getValue's identical check.
	if vm.Flags.Has(lexer.UNDEFDEF) {
		if ref, ok := v.(value.Reference); ok && ref.Base == nil {
			f.push(value.Undefined)
			return
		}
	}
	gv, err := runtime.GetValue(v, f.pos, vm.Source, vm.File)
	if err != nil {
		vm.raiseGoError(f, err)
		return
	}
	f.push(gv)
}

func (vm *VM) execPutValue(f *frame) {
	v := f.pop()
	ref := f.pop()
	if err := runtime.PutValue(ref, v, vm.Realm.Global, f.pos, vm.Source, vm.File); err != nil {
		vm.raiseGoError(f, err)
	}
}

func (vm *VM) execDelete(f *frame) {
	v := f.pop()
	ref, ok := v.(value.Reference)
	if !ok || ref.Base == nil {
		f.push(value.Boolean(true))
		return
	}
	f.push(value.Boolean(ref.Base.Delete(ref.Property)))
}

func (vm *VM) execTypeOf(f *frame) {
	v := f.pop()
	if ref, ok := v.(value.Reference); ok {
		if ref.Base == nil {
			f.push(value.NewString("undefined"))
			return
		}
		gv, err := runtime.GetValue(v, f.pos, vm.Source, vm.File)
		if err != nil {
			vm.raiseGoError(f, err)
			return
		}
		f.push(value.NewString(typeOfValue(gv)))
		return
	}
	f.push(value.NewString(typeOfValue(v)))
}

// execSEnum pushes an ENUM frame walking the popped value's enumerable
// names. Unlike S_WITH, the compiler does not TOOBJECT the operand first
// (compileForIn emits none): for-in's null/undefined right-hand side
// must run zero iterations rather than throw the TypeError ToObject
// would raise (ECMA-262-3 §12.6.4), so that check belongs here rather
// than at every for-in call site. An empty object stands in for
// null/undefined, since an Enumerator over it naturally yields no names.
// The pushed frame's depth field is unused (B_ENUM carries its own jump
// target); stackDepth lets an exception unwind through it cleanly even
// though, unlike WITH/TRYC/TRYF, there's nothing else to clean up.
func (vm *VM) execSEnum(f *frame) {
	v := f.pop()
	var obj value.Object
	if v.Kind() == value.KindUndefined || v.Kind() == value.KindNull {
		obj = object.New("Object", nil)
	} else {
		var err error
		obj, err = value.ToObject(v)
		if err != nil {
			vm.raiseGoError(f, err)
			return
		}
	}
	f.blocks = append(f.blocks, blockFrame{
		kind:       blockEnum,
		stackDepth: len(f.stack),
		enumerator: object.NewEnumerator(obj),
	})
}

func (vm *VM) execSWith(f *frame) {
	obj := f.pop().(value.Object)
	prev := f.ctx.PushScope(obj)
	f.blocks = append(f.blocks, blockFrame{
		kind:       blockWith,
		stackDepth: len(f.stack),
		savedScope: prev,
	})
}

// execBEnum advances the innermost ENUM frame (always the top of the
// block stack: for-in compiles to a single enclosing S_ENUM with no other
// block construct between it and its own B_ENUM). On exhaustion the frame
// is popped here — the same auto-pop-on-dispatch contract S_TRYC/S_TRYF
// use for their own handler entry — so compileForIn's own fall-through
// path never needs to unwind it itself.
func (vm *VM) execBEnum(f *frame, target int) {
	b := &f.blocks[len(f.blocks)-1]
	name, ok := b.enumerator.Next()
	if !ok {
		f.blocks = f.blocks[:len(f.blocks)-1]
		return
	}
	f.push(value.NewString(name))
	f.pc = target
}

func (vm *VM) execNew(f *frame, n int) {
	args := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = f.pop()
	}
	ctorVal := f.pop()
	ctor, ok := ctorVal.(value.Object)
	if !ok || !ctor.IsConstructor() {
		vm.throwError(f, "TypeError", "value is not a constructor")
		return
	}
	result, err := ctor.Construct(args)
	if err != nil {
		vm.raiseGoError(f, err)
		return
	}
	f.push(result)
}

func (vm *VM) execCall(f *frame, n int) {
	args := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = f.pop()
	}
	calleeRef := f.pop()
	fnVal := f.pop()
	fn, ok := fnVal.(value.Object)
	if !ok || !fn.IsCallable() {
		vm.throwError(f, "TypeError", "value is not a function")
		return
	}
	result, err := fn.Call(callThisVM(calleeRef), args)
	if err != nil {
		vm.raiseGoError(f, err)
		return
	}
	f.push(result)
}

// callThisVM resolves `this` for a call the same way eval/expressions.go's
// callThis does: a Reference's Base, except when Base is the Activation
// object a plain identifier resolved through (a bare function call should
// see `this` as undefined, not the enclosing activation).
func callThisVM(callee value.Value) value.Value {
	ref, ok := callee.(value.Reference)
	if !ok || ref.Base == nil {
		return value.Undefined
	}
	if no, ok := ref.Base.(*object.NativeObject); ok && no.Class() == "Activation" {
		return value.Undefined
	}
	return ref.Base
}

// execFunc builds the closure for one FUNC opcode: a value.Object whose
// Call/Construct drive vm.invoke against proto.Chunk, capturing the
// current frame's scope the same way eval/function.go's makeFunction
// captures ctx.Scope. A named function literal splices in a one-binding
// scope so the function can refer to itself by name from inside its own
// body, matching makeFunction's nameScope handling.
func (vm *VM) execFunc(f *frame, proto *FuncProto) value.Object {
	closure := f.ctx.Scope

	var fnObj *object.NativeObject
	call := func(this value.Value, args []value.Value) (value.Value, error) {
		return vm.invoke(proto, closure, fnObj, this, args)
	}
	construct := func(args []value.Value) (value.Object, error) {
		instanceProto := object.DefaultPrototype(fnObj, vm.Realm.ObjectProto)
		instance := object.New("Object", instanceProto)
		result, err := vm.invoke(proto, closure, fnObj, instance, args)
		if err != nil {
			return nil, err
		}
		if obj, ok := result.(value.Object); ok {
			return obj, nil
		}
		return instance, nil
	}
	fnObj = object.NewUserFunction(vm.Realm.FunctionProto, vm.Realm.ObjectProto, proto.Name, proto.Params, call, construct)

	if proto.Name != "" {
		nameScope := object.New("Object", nil)
		nameScope.DefineOwn(proto.Name, fnObj, value.AttrReadOnly|value.AttrDontDelete)
		closure = runtime.NewScope(nameScope, f.ctx.Scope)
	}
	return fnObj
}

// invoke runs proto.Chunk as one function call, mirroring
// eval/function.go's invoke: a fresh Activation binds the formal
// parameters and `arguments`, NewCallContext splices it in front of
// closure, and the chunk runs to completion (or an uncaught-here
// exception, which propagates as a Go panic exactly as invoke's Go
// function call does for the tree-walker).
func (vm *VM) invoke(proto *FuncProto, closure *runtime.Scope, fnObj value.Object, this value.Value, args []value.Value) (value.Value, error) {
	if this == nil || this.Kind() == value.KindUndefined || this.Kind() == value.KindNull {
		this = vm.Realm.Global
	}

	activation := object.New("Activation", nil)
	for i, p := range proto.Params {
		var v value.Value = value.Undefined
		if i < len(args) {
			v = args[i]
		}
		activation.DefineOwn(p, v, value.AttrNone)
	}
	activation.DefineOwn("arguments", object.NewArguments(vm.Realm.ObjectProto, fnObj, args), value.AttrDontDelete)

	callCtx := runtime.NewCallContext(this, activation, closure, vm.Realm.Global)

	frameName := "<anonymous>"
	if proto.Name != "" {
		frameName = proto.Name
	}
	prevTB := vm.Traceback
	vm.Traceback = vm.Traceback.Push(diag.StackFrame{FunctionName: frameName})
	defer func() { vm.Traceback = prevTB }()

	callFrame := newFrame(proto.Chunk, callCtx)

	if vm.MaxCallDepth > 0 && vm.Traceback.Depth() > vm.MaxCallDepth {
		vm.throwError(callFrame, "RangeError", "maximum call stack size exceeded")
		return value.Undefined, nil
	}
	vm.execChunk(callFrame)
	return callFrame.completion, nil
}

func asPropertyName(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return s.String()
	}
	s, _ := value.ToString(v)
	return s.String()
}
