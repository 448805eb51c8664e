package object

import "github.com/es3lang/es3/internal/value"

// Realm bundles the intrinsic objects every execution context shares:
// the two root prototypes and the wrapper prototypes ToObject needs.
// Non-core constructors (Array, Error and its subclasses) are "contract
// stubs": enough shape to be `new`-able and
// carry the properties §8's scenarios exercise (a message on Error,
// numeric indices + length on Array), not full library bodies.
type Realm struct {
	ObjectProto   *NativeObject
	FunctionProto *NativeObject
	NumberProto   *NativeObject
	StringProto   *NativeObject
	BooleanProto  *NativeObject
	ArrayProto    *NativeObject
	ErrorProto    *NativeObject

	numberCtor  *NativeObject
	stringCtor  *NativeObject
	booleanCtor *NativeObject

	Global *NativeObject
}

// NewRealm builds the intrinsic prototype graph and a populated global
// object, and installs the ToObject wrapper hook against it. eval.New
// and the CLI's bytecode path call it to stand up a fresh
// interpreter's object world.
func NewRealm() *Realm {
	r := &Realm{}
	r.ObjectProto = New("Object", nil)
	r.FunctionProto = New("Function", r.ObjectProto)
	r.FunctionProto.SetCall(func(this value.Value, args []value.Value) (value.Value, error) {
		return value.Undefined, nil
	})

	r.NumberProto = New("Number", r.ObjectProto)
	r.StringProto = New("String", r.ObjectProto)
	r.BooleanProto = New("Boolean", r.ObjectProto)
	r.ArrayProto = newArrayObject(r.ObjectProto, nil)
	r.ErrorProto = New("Error", r.ObjectProto)
	r.ErrorProto.DefineOwn("name", value.NewString("Error"), value.AttrDontEnum)
	r.ErrorProto.DefineOwn("message", value.NewString(""), value.AttrDontEnum)
	installErrorToString(r.ErrorProto)

	installToObjectHook(r.NumberProto, r.StringProto, r.BooleanProto)

	r.Global = New("global", r.ObjectProto)
	r.installGlobals()
	return r
}

func installErrorToString(proto *NativeObject) {
	toString := NewCFunction(nil, "toString", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		obj, ok := this.(value.Object)
		if !ok {
			return value.NewString("Error"), nil
		}
		name, err := obj.Get("name")
		if err != nil {
			return nil, err
		}
		msg, err := obj.Get("message")
		if err != nil {
			return nil, err
		}
		nameStr, err := value.ToString(name)
		if err != nil {
			return nil, err
		}
		msgStr, err := value.ToString(msg)
		if err != nil {
			return nil, err
		}
		if msgStr.S.Len() == 0 {
			return nameStr, nil
		}
		return value.NewString(nameStr.String() + ": " + msgStr.String()), nil
	})
	proto.DefineOwn("toString", toString, value.AttrDontEnum)
}

// newArrayObject builds a bare Array instance: class "Array", a
// writable/non-enumerable "length" kept in sync by Put on numeric
// indices, per ECMA-262-3 §15.4.5.1 (array index assignment grows
// length). This is the contract stub this port settles for —
// enough to support object/array literal evaluation and §8 scenario 9,
// not Array.prototype's method bodies.
func newArrayObject(proto value.Object, elems []value.Value) *NativeObject {
	a := New("Array", proto)
	a.DefineOwn("length", value.Number(0), value.AttrDontEnum|value.AttrDontDelete)
	a.SetAfterPut(a.growArrayLength)
	for i, v := range elems {
		a.DefineOwn(indexName(i), v, value.AttrNone)
		a.growArrayLength(indexName(i))
	}
	return a
}

// growArrayLength grows "length" if name is a numeric index >= the
// current length, per ECMA-262-3 §15.4.5.1 ("assigning to an array
// index not less than length updates length"). Installed as the
// array's afterPut hook so it fires on every Put, not just the literal
// constructor.
func (o *NativeObject) growArrayLength(name string) {
	idx, ok := parseArrayIndex(name)
	if !ok {
		return
	}
	cur, _ := o.Get("length")
	curLen := int(cur.(value.Number))
	if idx >= curLen {
		o.DefineOwn("length", value.Number(idx+1), value.AttrDontEnum|value.AttrDontDelete)
	}
}

func parseArrayIndex(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	n := 0
	for _, c := range name {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// NewArray builds an Array instance from elems, via the realm's Array
// prototype — used by internal/eval's array-literal evaluation and by
// the Array constructor in globals.go for `new Array(...)`.
func (r *Realm) NewArray(elems []value.Value) *NativeObject {
	return newArrayObject(r.ArrayProto, elems)
}

// NewError builds an Error instance of the given ECMA-262-3 native
// error kind ("Error", "TypeError", "ReferenceError", "SyntaxError",
// "RangeError", "EvalError", "URIError") carrying message, for the
// evaluator to throw on abstract-operation failures (ToObjectHook
// TypeErrors, unresolved-reference ReferenceErrors per §8 scenario 3).
func (r *Realm) NewError(kind, message string) *NativeObject {
	e := New("Error", r.ErrorProto)
	e.DefineOwn("name", value.NewString(kind), value.AttrDontEnum)
	e.DefineOwn("message", value.NewString(message), value.AttrDontEnum)
	return e
}
