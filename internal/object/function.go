package object

import "github.com/es3lang/es3/internal/value"

// This file covers the object-shape half of ECMA-262-3 §4.K ("Function
// objects"): the "length"/"name"/own "prototype" property wiring and
// the `arguments` object shape. The other half — capturing the
// defining scope chain, named-function-expression self-binding, and
// translating a function body's Completion into a Call/Construct
// result — belongs to internal/eval, which is the layer that actually
// knows about runtime.Scope and ast.Node; keeping those out of this
// package avoids an object→runtime→ast→object import cycle. eval
// builds each user function as a NativeObject via NewUserFunction,
// supplying the Call/Construct closures itself.

// NewUserFunction builds a callable, constructible NativeObject for a
// user-defined (non-native) function: class "Function", a read-only
// "length" equal to len(params), a read-only "name", and an own,
// writable, enumerable, non-deletable "prototype" object whose own
// "constructor" points back at the function — the wiring ECMA-262-3
// §13.2 requires so that `new F()` has somewhere to inherit from before
// any user code runs.
func NewUserFunction(funcProto, objectProto value.Object, name string, params []string, call CFunctionImpl, construct func(args []value.Value) (value.Object, error)) *NativeObject {
	f := New("Function", funcProto)
	f.SetCall(call)
	if construct != nil {
		f.SetConstruct(construct)
	}
	f.DefineOwn("length", value.Number(len(params)), value.AttrReadOnly|value.AttrDontEnum|value.AttrDontDelete)
	f.DefineOwn("name", value.NewString(name), value.AttrReadOnly|value.AttrDontEnum|value.AttrDontDelete)

	proto := New("Object", objectProto)
	proto.DefineOwn("constructor", f, value.AttrDontEnum)
	f.DefineOwn("prototype", proto, value.AttrDontDelete)

	// ECMA-262-3 §15.3.5.3's default [[HasInstance]]: true when proto
	// (read fresh each call, since user code may reassign f's own
	// "prototype" property before an instanceof check runs against it)
	// appears anywhere on v's prototype chain.
	f.SetHasInstance(func(v value.Value) (bool, error) {
		obj, ok := v.(value.Object)
		if !ok {
			return false, nil
		}
		current, err := f.Get("prototype")
		if err != nil {
			return false, err
		}
		currentProto, ok := current.(value.Object)
		if !ok {
			return false, &value.ConversionError{Message: "TypeError: prototype is not an object"}
		}
		for p := obj.Prototype(); p != nil; p = p.Prototype() {
			if p == currentProto {
				return true, nil
			}
		}
		return false, nil
	})
	return f
}

// DefaultPrototype returns the own "prototype" property installed by
// NewUserFunction, for Construct implementations that need the
// instance's initial [[Prototype]] (ECMA-262-3 §13.2.2 step 1: if the
// value there isn't an object, fall back to Object.prototype, which the
// caller passes in as the objectProto fallback).
func DefaultPrototype(fn value.Object, objectProto value.Object) value.Object {
	v, err := fn.Get("prototype")
	if err != nil {
		return objectProto
	}
	if p, ok := v.(value.Object); ok {
		return p
	}
	return objectProto
}

// NewArguments builds the `arguments` object of ECMA-262-3 §10.1.8: own
// enumerable index properties 0..len(args)-1, a non-enumerable
// "length", and a non-enumerable "callee" pointing back at the
// currently-executing function.
func NewArguments(objectProto, callee value.Object, args []value.Value) *NativeObject {
	a := New("Arguments", objectProto)
	for i, v := range args {
		a.DefineOwn(indexName(i), v, value.AttrNone)
	}
	a.DefineOwn("length", value.Number(len(args)), value.AttrDontEnum)
	a.DefineOwn("callee", callee, value.AttrDontEnum)
	return a
}

func indexName(i int) string {
	// Arguments indices are always small, non-negative ints; avoid
	// pulling in strconv.Itoa's generality for a hot construction path.
	if i == 0 {
		return "0"
	}
	digits := [20]byte{}
	pos := len(digits)
	n := i
	for n > 0 {
		pos--
		digits[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[pos:])
}
