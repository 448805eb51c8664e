package runtime

import (
	"github.com/es3lang/es3/internal/value"
)

// ExecutionContext bundles the four pieces of state ECMA-262-3 §4.F says
// every statement/expression evaluation needs: the scope chain searched
// by identifier references, the object `this` resolves to, and the
// variable object that `var` declarations and hoisted function
// declarations install their bindings on (with the attribute bits used
// for those installs).
//
// A new ExecutionContext is created for each function call (global code
// gets one too, at program start); entering a `with` or a catch clause
// mutates Scope in place via PushScope/PopScope rather than allocating a
// whole new context, matching ECMA-262-3 §4.F's scope-chain splice model.
type ExecutionContext struct {
	This     value.Value
	Scope    *Scope
	Variable value.Object
	VarAttrs value.PropAttr

	// Global is the program's one Global object, used by PutValue as the
	// implicit assignment target for a null-base reference.
	Global value.Object
}

// NewGlobalContext builds the execution context for top-level program
// code: This is the Global object itself, the scope chain is just
// Global, and var/function declarations install directly onto Global
// with DontDelete (ECMA-262-3 §10.1.3's "cannot be deleted" rule for
// global var/function bindings).
func NewGlobalContext(global value.Object) *ExecutionContext {
	return &ExecutionContext{
		This:     global,
		Scope:    NewScope(global, nil),
		Variable: global,
		VarAttrs: value.AttrDontDelete,
		Global:   global,
	}
}

// NewCallContext builds the execution context for a function invocation:
// activation is the freshly created activation object (carrying
// `arguments` and the bound parameters), installed as both the head of
// the scope chain (in front of the function's captured closure scope)
// and the variable object that the call body's var/function
// declarations install onto. Activation-object bindings get DontDelete
// per ECMA-262-3 §10.1.3.
func NewCallContext(this value.Value, activation value.Object, closureScope *Scope, global value.Object) *ExecutionContext {
	return &ExecutionContext{
		This:     this,
		Scope:    NewScope(activation, closureScope),
		Variable: activation,
		VarAttrs: value.AttrDontDelete,
		Global:   global,
	}
}

// PushScope splices obj in front of the current scope chain, returning
// the Scope node that was current before the splice so the caller can
// restore it with PopScope. Used by `with` (ECMA-262-3 §4.F) and by
// catch-clause entry (ECMA-262-3 §4.G), both of which push a single object
// onto the chain for the duration of a nested statement.
func (ctx *ExecutionContext) PushScope(obj value.Object) *Scope {
	prev := ctx.Scope
	ctx.Scope = NewScope(obj, prev)
	return prev
}

// PopScope restores the scope chain saved by a prior PushScope.
func (ctx *ExecutionContext) PopScope(prev *Scope) {
	ctx.Scope = prev
}
