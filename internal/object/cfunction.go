package object

import "github.com/es3lang/es3/internal/value"

// CFunctionImpl is the Go implementation of a host-exposed native
// function, per ECMA-262-3 §4.C ("CFunction: name, required argument
// count (length), a Go func(this, args) (Value, error)"). It mirrors
// SEE's libsee/cfunction.c: a C entry point plus a declared arity used
// to populate the function object's "length" property.
type CFunctionImpl func(this value.Value, args []value.Value) (value.Value, error)

// NewCFunction builds a callable NativeObject of class "Function" that
// dispatches to fn. length becomes the function's own, read-only,
// non-enumerable "length" property (ECMA-262-3 §15.3.5.1); name becomes
// its "name" property for diagnostics (an SEE/Mozilla extension this
// CLI's error messages also rely on — ECMA-262-3 §4.K).
func NewCFunction(funcProto Object, name string, length int, fn CFunctionImpl) *NativeObject {
	f := New("Function", funcProto)
	f.SetCall(fn)
	f.DefineOwn("length", value.Number(length), value.AttrReadOnly|value.AttrDontEnum|value.AttrDontDelete)
	f.DefineOwn("name", value.NewString(name), value.AttrReadOnly|value.AttrDontEnum|value.AttrDontDelete)
	return f
}

// NewConstructor builds a NativeObject that is both callable (fn) and
// constructible (ctor), the shape of the Object/Array/Error global
// constructors stood up in globals.go. Per ECMA-262-3 §13.2, invoking
// a user function with `new` and invoking it as a plain call share one
// function object; host constructors follow the same shape here.
func NewConstructor(funcProto Object, name string, length int, fn CFunctionImpl, ctor func(args []value.Value) (Object, error)) *NativeObject {
	f := NewCFunction(funcProto, name, length, fn)
	f.SetConstruct(ctor)
	return f
}

// Object is a local alias so this file reads naturally against
// value.Object without repeating the package-qualified name throughout;
// object.go already defines the concrete NativeObject against
// value.Object directly, so this alias is scoped to this file's
// constructor signatures.
type Object = value.Object
