package object

import "github.com/es3lang/es3/internal/value"

// The class* constants name the internal [[Class]] ToObject assigns to each
// wrapped primitive, per ECMA-262-3 §15.5–§15.7.
const (
	classNumber  = "Number"
	classString  = "String"
	classBoolean = "Boolean"
)

// primitiveValue is the hidden [[PrimitiveValue]] slot of a wrapper
// object (ECMA-262-3 §8.6.2), kept out of the property map so it is
// invisible to for...in and Get/Put, keeping interpreter-internal
// bookkeeping alongside (not inside) the field map.
type primitiveValue struct {
	*NativeObject
	prim value.Value
}

func (w *primitiveValue) Primitive() value.Value { return w.prim }

// installToObjectHook registers ToObjectHook against the given
// prototypes, called once during Realm construction (realm.go). Kept
// separate from NewRealm so tests can install a minimal hook without
// building a whole realm.
func installToObjectHook(numberProto, stringProto, booleanProto value.Object) {
	value.ToObjectHook = func(v value.Value) (value.Object, error) {
		switch t := v.(type) {
		case value.Number:
			w := &primitiveValue{NativeObject: New(classNumber, numberProto), prim: t}
			return w, nil
		case value.String:
			w := &primitiveValue{NativeObject: New(classString, stringProto), prim: t}
			w.DefineOwn("length", value.Number(t.S.Len()), value.AttrReadOnly|value.AttrDontEnum|value.AttrDontDelete)
			return w, nil
		case value.Boolean:
			w := &primitiveValue{NativeObject: New(classBoolean, booleanProto), prim: t}
			return w, nil
		default:
			return nil, &value.ConversionError{Message: "TypeError: cannot convert value to object"}
		}
	}
}

// AsPrimitive extracts the wrapped primitive from a wrapper object
// produced by ToObject, for use by valueOf/toString natives installed
// on Number.prototype/String.prototype/Boolean.prototype. ok is false
// for any other object.
func AsPrimitive(o value.Object) (value.Value, bool) {
	w, ok := o.(*primitiveValue)
	if !ok {
		return nil, false
	}
	return w.prim, true
}

// installValueOf installs ECMA-262-3 §15.5.4.3/§15.6.4.3/§15.7.4.2's
// valueOf on a wrapper prototype: unwrap this's [[PrimitiveValue]], or
// throw if this isn't one of this wrapper's own instances.
func installValueOf(proto *NativeObject) {
	proto.DefineOwn("valueOf", NewCFunction(nil, "valueOf", 0,
		func(this value.Value, args []value.Value) (value.Value, error) {
			obj, ok := this.(value.Object)
			if !ok {
				return nil, &value.ConversionError{Message: "TypeError: valueOf called on non-object"}
			}
			prim, ok := AsPrimitive(obj)
			if !ok {
				return nil, &value.ConversionError{Message: "TypeError: valueOf called on incompatible object"}
			}
			return prim, nil
		}), value.AttrDontEnum)
}

// installToString installs the wrapper's toString (§15.5.4.2/§15.6.4.2/
// §15.7.4.2): ToString of the unwrapped [[PrimitiveValue]].
func installToString(proto *NativeObject) {
	proto.DefineOwn("toString", NewCFunction(nil, "toString", 0,
		func(this value.Value, args []value.Value) (value.Value, error) {
			obj, ok := this.(value.Object)
			if !ok {
				return nil, &value.ConversionError{Message: "TypeError: toString called on non-object"}
			}
			prim, ok := AsPrimitive(obj)
			if !ok {
				return nil, &value.ConversionError{Message: "TypeError: toString called on incompatible object"}
			}
			return value.ToString(prim)
		}), value.AttrDontEnum)
}

// newWrapperConstructor builds a Number/String/Boolean global constructor
// (ECMA-262-3 §15.5.1-2/§15.6.1-2/§15.7.1-2): called without `new`, coerce
// coerces the single argument (or a type-specific zero value with none) to
// the primitive; called with `new`, the same primitive is wrapped via
// ToObject so later valueOf/toString calls can recover it with
// AsPrimitive. Installs valueOf/toString on proto as a side effect.
func newWrapperConstructor(funcProto value.Object, name string, proto *NativeObject, zero value.Value, coerce func(value.Value) (value.Value, error)) *NativeObject {
	installValueOf(proto)
	installToString(proto)
	arg := func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return zero, nil
		}
		return coerce(args[0])
	}
	ctor := NewConstructor(funcProto, name, 1,
		func(this value.Value, args []value.Value) (value.Value, error) {
			return arg(args)
		},
		func(args []value.Value) (Object, error) {
			prim, err := arg(args)
			if err != nil {
				return nil, err
			}
			obj, err := value.ToObject(prim)
			if err != nil {
				return nil, err
			}
			return obj, nil
		})
	ctor.DefineOwn("prototype", proto, value.AttrReadOnly|value.AttrDontEnum|value.AttrDontDelete)
	proto.DefineOwn("constructor", ctor, value.AttrDontEnum)
	return ctor
}

// installWrapperConstructors builds the Number/String/Boolean globals as
// real primitive wrappers (rather than generic contract stubs): the
// constructors coerce like §15.5-§15.7 require, and AsPrimitive now has
// its documented caller.
func installWrapperConstructors(r *Realm) {
	r.numberCtor = newWrapperConstructor(r.FunctionProto, "Number", r.NumberProto, value.Number(0),
		func(v value.Value) (value.Value, error) { return value.ToNumber(v) })
	r.stringCtor = newWrapperConstructor(r.FunctionProto, "String", r.StringProto, value.NewString(""),
		func(v value.Value) (value.Value, error) { return value.ToString(v) })
	r.booleanCtor = newWrapperConstructor(r.FunctionProto, "Boolean", r.BooleanProto, value.Boolean(false),
		func(v value.Value) (value.Value, error) { return value.ToBoolean(v), nil })
}
