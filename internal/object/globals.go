package object

import (
	"math"

	"github.com/es3lang/es3/internal/value"
)

// installGlobals populates the global object with the intrinsics
// ECMA-262-3 §15 requires to exist at program start. Number/String/
// Boolean are real primitive wrappers (construct/call coercion plus
// valueOf/toString); Array and the Error family carry the shape §8's
// scenarios exercise; Date/Math/RegExp are out of core scope and are
// wired as contract stubs — enough to be `new`-able, not full library
// bodies.
func (r *Realm) installGlobals() {
	g := r.Global
	g.DefineOwn("NaN", value.Number(math.NaN()), value.AttrDontEnum|value.AttrDontDelete|value.AttrReadOnly)
	g.DefineOwn("Infinity", value.Number(math.Inf(1)), value.AttrDontEnum|value.AttrDontDelete|value.AttrReadOnly)
	g.DefineOwn("undefined", value.Undefined, value.AttrDontEnum|value.AttrDontDelete|value.AttrReadOnly)

	objectCtor := NewConstructor(r.FunctionProto, "Object", 1,
		func(this value.Value, args []value.Value) (value.Value, error) {
			return r.constructObject(args)
		},
		func(args []value.Value) (value.Object, error) {
			o, err := r.constructObject(args)
			if err != nil {
				return nil, err
			}
			return o.(value.Object), nil
		})
	objectCtor.DefineOwn("prototype", r.ObjectProto, value.AttrReadOnly|value.AttrDontEnum|value.AttrDontDelete)
	r.ObjectProto.DefineOwn("constructor", objectCtor, value.AttrDontEnum)
	g.DefineOwn("Object", objectCtor, value.AttrDontEnum)

	functionCtor := NewConstructor(r.FunctionProto, "Function", 1,
		func(this value.Value, args []value.Value) (value.Value, error) { return value.Undefined, nil },
		func(args []value.Value) (value.Object, error) {
			return New("Function", r.FunctionProto), nil
		})
	functionCtor.DefineOwn("prototype", r.FunctionProto, value.AttrReadOnly|value.AttrDontEnum|value.AttrDontDelete)
	r.FunctionProto.DefineOwn("constructor", functionCtor, value.AttrDontEnum)
	g.DefineOwn("Function", functionCtor, value.AttrDontEnum)

	arrayCtor := NewConstructor(r.FunctionProto, "Array", 1,
		func(this value.Value, args []value.Value) (value.Value, error) {
			return r.NewArray(args), nil
		},
		func(args []value.Value) (value.Object, error) {
			return r.NewArray(args), nil
		})
	arrayCtor.DefineOwn("prototype", r.ArrayProto, value.AttrReadOnly|value.AttrDontEnum|value.AttrDontDelete)
	r.ArrayProto.DefineOwn("constructor", arrayCtor, value.AttrDontEnum)
	g.DefineOwn("Array", arrayCtor, value.AttrDontEnum)

	for _, kind := range []string{"Error", "TypeError", "ReferenceError", "SyntaxError", "RangeError", "EvalError", "URIError"} {
		g.DefineOwn(kind, r.newErrorConstructor(kind), value.AttrDontEnum)
	}

	installWrapperConstructors(r)
	g.DefineOwn("Number", r.numberCtor, value.AttrDontEnum)
	g.DefineOwn("String", r.stringCtor, value.AttrDontEnum)
	g.DefineOwn("Boolean", r.booleanCtor, value.AttrDontEnum)

	for _, name := range []string{"Date", "Math", "RegExp"} {
		g.DefineOwn(name, r.newContractStub(name), value.AttrDontEnum)
	}
}

// newErrorConstructor builds a constructor for one of the native error
// kinds of ECMA-262-3 §15.11.6, sharing Error.prototype's toString.
func (r *Realm) newErrorConstructor(kind string) *NativeObject {
	makeErr := func(args []value.Value) (value.Object, error) {
		msg := ""
		if len(args) > 0 {
			s, err := value.ToString(args[0])
			if err != nil {
				return nil, err
			}
			msg = s.String()
		}
		return r.NewError(kind, msg), nil
	}
	ctor := NewConstructor(r.FunctionProto, kind, 1,
		func(this value.Value, args []value.Value) (value.Value, error) {
			o, err := makeErr(args)
			if err != nil {
				return nil, err
			}
			return o, nil
		},
		makeErr)
	ctor.DefineOwn("prototype", r.ErrorProto, value.AttrReadOnly|value.AttrDontEnum|value.AttrDontDelete)
	return ctor
}

// newContractStub builds a constructible placeholder for a built-in
// object library whose body is out of core scope:
// `new X()` returns an empty object of class name, and calling X()
// without `new` returns undefined, matching SEE's shape for a library
// the embedding host is expected to supply.
func (r *Realm) newContractStub(name string) *NativeObject {
	proto := New(name, r.ObjectProto)
	ctor := NewConstructor(r.FunctionProto, name, 1,
		func(this value.Value, args []value.Value) (value.Value, error) { return value.Undefined, nil },
		func(args []value.Value) (value.Object, error) { return New(name, proto), nil })
	ctor.DefineOwn("prototype", proto, value.AttrReadOnly|value.AttrDontEnum|value.AttrDontDelete)
	proto.DefineOwn("constructor", ctor, value.AttrDontEnum)
	return ctor
}

// constructObject implements `new Object()`/`Object(v)`: wraps a
// primitive via ToObject, passes an existing object through, and
// builds a bare object for undefined/null/no-argument calls.
func (r *Realm) constructObject(args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return New("Object", r.ObjectProto), nil
	}
	v := args[0]
	if v.Kind() == value.KindNull || v.Kind() == value.KindUndefined {
		return New("Object", r.ObjectProto), nil
	}
	return value.ToObject(v)
}
