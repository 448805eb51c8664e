// Package object implements the ECMAScript object protocol of
// ECMA-262-3 §8.6.2: the internal-method vtable (value.Object), a NativeObject that
// implements it over an ordered property map, and the host-facing
// CFunction/FunctionObject wrappers (§4.K).
package object

import (
	"sort"

	"github.com/es3lang/es3/internal/value"
)

// property is one entry of a NativeObject's own property map. A plain
// data property carries value; an accessor property (ECMA-262-3 §8.6.1,
// the `get`/`set` ObjectLiteral forms of §11.1.5) carries getter and/or
// setter instead, and value stays nil.
type property struct {
	value value.Value
	attrs value.PropAttr

	getter value.Object
	setter value.Object
}

func (p *property) isAccessor() bool { return p.getter != nil || p.setter != nil }

// NativeObject is the "performance-critical built-in" object
// representation the design notes call for: a property bag with O(1)
// lookup, rather than a dyn-dispatched interface value per property.
// Insertion order is preserved (via order) so object-literal evaluation
// and for...in enumeration see properties "inserted left-to-right"
// (ECMA-262-3 §8, scenario 9).
type NativeObject struct {
	class     string
	prototype value.Object
	props     map[string]*property
	order     []string

	call       func(this value.Value, args []value.Value) (value.Value, error)
	construct  func(args []value.Value) (value.Object, error)
	hasInstFn  func(v value.Value) (bool, error)

	// afterPut runs once a Put/DefineOwn has installed name, for objects
	// whose class needs to react to property writes — currently only
	// Array's index-assignment-grows-length rule (ECMA-262-3 §15.4.5.1).
	afterPut func(name string)
}

// New creates a bare NativeObject of the given internal class with the
// given prototype (nil for Object.prototype itself).
func New(class string, prototype value.Object) *NativeObject {
	return &NativeObject{
		class:     class,
		prototype: prototype,
		props:     make(map[string]*property),
	}
}

func (o *NativeObject) Kind() value.Kind { return value.KindObject }
func (o *NativeObject) isValue()         {}
func (o *NativeObject) isStorable()      {}

func (o *NativeObject) Class() string           { return o.class }
func (o *NativeObject) Prototype() value.Object { return o.prototype }
func (o *NativeObject) SetPrototype(p value.Object) { o.prototype = p }

// Get implements [[Get]]: own-property map, then the prototype chain,
// defaulting to Undefined. An accessor property with no getter yields
// Undefined, per ECMA-262-3 §8.6.2.1.
func (o *NativeObject) Get(name string) (value.Value, error) {
	if p, ok := o.props[name]; ok {
		if p.isAccessor() {
			if p.getter == nil {
				return value.Undefined, nil
			}
			return p.getter.Call(o, nil)
		}
		return p.value, nil
	}
	if o.prototype != nil {
		return o.prototype.Get(name)
	}
	return value.Undefined, nil
}

// CanPut implements [[CanPut]]: false iff some object in the prototype
// chain (including this one) has a READONLY own data property of that
// name, or an inherited accessor property with no setter.
func (o *NativeObject) CanPut(name string) bool {
	for cur := value.Object(o); cur != nil; {
		no, ok := cur.(*NativeObject)
		if !ok {
			break
		}
		if p, found := no.props[name]; found {
			if p.isAccessor() {
				return p.setter != nil
			}
			return p.attrs&value.AttrReadOnly == 0
		}
		cur = no.prototype
	}
	return true
}

// findAccessor walks the prototype chain (self included) for the
// nearest property named name that is an accessor, per ECMA-262-3
// §8.6.2.2 step 2's inherited-accessor case.
func (o *NativeObject) findAccessor(name string) *property {
	for cur := value.Object(o); cur != nil; {
		no, ok := cur.(*NativeObject)
		if !ok {
			break
		}
		if p, found := no.props[name]; found {
			if p.isAccessor() {
				return p
			}
			return nil
		}
		cur = no.prototype
	}
	return nil
}

// Put implements [[Put]]: create or update, honoring CanPut and
// dispatching to an inherited or own accessor's setter. A failed Put due
// to a READONLY property, or an accessor with no setter, fails silently,
// per ECMA-262-3 §4.C ("fails silently if own property READONLY").
func (o *NativeObject) Put(name string, v value.Value, attrs value.PropAttr) error {
	if p, ok := o.props[name]; ok && p.isAccessor() {
		if p.setter == nil {
			return nil
		}
		_, err := p.setter.Call(o, []value.Value{v})
		return err
	}
	if acc := o.findAccessor(name); acc != nil {
		if acc.setter == nil {
			return nil
		}
		_, err := acc.setter.Call(o, []value.Value{v})
		return err
	}
	if p, ok := o.props[name]; ok {
		if p.attrs&value.AttrReadOnly != 0 {
			return nil
		}
		p.value = v
		if o.afterPut != nil {
			o.afterPut(name)
		}
		return nil
	}
	if !o.CanPut(name) {
		return nil
	}
	o.props[name] = &property{value: v, attrs: attrs}
	o.order = append(o.order, name)
	if o.afterPut != nil {
		o.afterPut(name)
	}
	return nil
}

// DefineAccessor installs (or merges into) an accessor property: an
// ObjectLiteral's `get name() {...}`/`set name(v) {...}` pair compiles to
// two DefineAccessor calls with the same name, one supplying getter and
// the other setter — each call preserves whichever half was already
// installed.
func (o *NativeObject) DefineAccessor(name string, getter, setter value.Object, attrs value.PropAttr) {
	if p, ok := o.props[name]; ok && p.isAccessor() {
		if getter != nil {
			p.getter = getter
		}
		if setter != nil {
			p.setter = setter
		}
		p.attrs = attrs
		return
	}
	o.props[name] = &property{getter: getter, setter: setter, attrs: attrs}
	o.order = append(o.order, name)
}

// DefineOwn installs name directly on this object with the given
// attributes, bypassing CanPut — used for declaration-time installs
// (function/variable hoisting, parameter binding) that must succeed
// regardless of a same-named READONLY inherited property.
func (o *NativeObject) DefineOwn(name string, v value.Value, attrs value.PropAttr) {
	if p, ok := o.props[name]; ok {
		p.value = v
		p.attrs = attrs
		return
	}
	o.props[name] = &property{value: v, attrs: attrs}
	o.order = append(o.order, name)
}

// HasProperty implements [[HasProperty]]: walks the prototype chain.
func (o *NativeObject) HasProperty(name string) bool {
	if _, ok := o.props[name]; ok {
		return true
	}
	if o.prototype != nil {
		return o.prototype.HasProperty(name)
	}
	return false
}

// HasOwnProperty reports whether name is an own property (no prototype
// walk).
func (o *NativeObject) HasOwnProperty(name string) bool {
	_, ok := o.props[name]
	return ok
}

// Delete implements [[Delete]]: returns false (no-op) if DONTDELETE.
func (o *NativeObject) Delete(name string) bool {
	p, ok := o.props[name]
	if !ok {
		return true
	}
	if p.attrs&value.AttrDontDelete != 0 {
		return false
	}
	delete(o.props, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// DefaultValue implements [[DefaultValue]] (ECMA-262-3 §8.6.2.6): try
// the hint-preferred method first, then the other, per
// value.DefaultValueOrder; if neither yields a primitive, TypeError.
func (o *NativeObject) DefaultValue(hint value.Hint) (value.Value, error) {
	for _, method := range value.DefaultValueOrder(hint) {
		fnVal, err := o.Get(method)
		if err != nil {
			return nil, err
		}
		fnObj, ok := fnVal.(value.Object)
		if !ok || !fnObj.IsCallable() {
			continue
		}
		result, err := fnObj.Call(o, nil)
		if err != nil {
			return nil, err
		}
		if _, isObj := result.(value.Object); !isObj {
			return result, nil
		}
	}
	return nil, &value.ConversionError{Message: "TypeError: cannot convert object to primitive value"}
}

// OwnPropertyNames returns own properties in insertion order along with
// their DONTENUM bit, per ECMA-262-3 §4.I.
func (o *NativeObject) OwnPropertyNames() (names []string, dontEnum []bool) {
	names = make([]string, len(o.order))
	dontEnum = make([]bool, len(o.order))
	copy(names, o.order)
	for i, n := range names {
		dontEnum[i] = o.props[n].attrs&value.AttrDontEnum != 0
	}
	return names, dontEnum
}

// sortedOwnPropertyNames is a debug/test helper (not used by the
// enumerate algorithm, which must use insertion/identity order) for
// deterministic dumps.
func (o *NativeObject) sortedOwnPropertyNames() []string {
	names, _ := o.OwnPropertyNames()
	sort.Strings(names)
	return names
}

func (o *NativeObject) IsCallable() bool { return o.call != nil }

func (o *NativeObject) Call(this value.Value, args []value.Value) (value.Value, error) {
	if o.call == nil {
		return nil, ErrNotCallable(o.class)
	}
	return o.call(this, args)
}

func (o *NativeObject) IsConstructor() bool { return o.construct != nil }

func (o *NativeObject) Construct(args []value.Value) (value.Object, error) {
	if o.construct == nil {
		return nil, ErrNotConstructor(o.class)
	}
	return o.construct(args)
}

func (o *NativeObject) HasInstance(v value.Value) (bool, error) {
	if o.hasInstFn == nil {
		return false, nil
	}
	return o.hasInstFn(v)
}

// SetCall/SetConstruct/SetHasInstance attach native implementations of
// the optional internal methods; used when building CFunction and the
// contract-stub constructors in globals.go.
func (o *NativeObject) SetCall(fn func(this value.Value, args []value.Value) (value.Value, error)) {
	o.call = fn
}

func (o *NativeObject) SetConstruct(fn func(args []value.Value) (value.Object, error)) {
	o.construct = fn
}

func (o *NativeObject) SetHasInstance(fn func(v value.Value) (bool, error)) {
	o.hasInstFn = fn
}

func (o *NativeObject) SetAfterPut(fn func(name string)) {
	o.afterPut = fn
}
