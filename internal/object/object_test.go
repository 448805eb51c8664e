package object

import (
	"testing"

	"github.com/es3lang/es3/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutThenGetRoundTrip(t *testing.T) {
	o := New("Object", nil)
	require.NoError(t, o.Put("x", value.Number(42), value.AttrNone))
	v, err := o.Get("x")
	require.NoError(t, err)
	assert.Equal(t, value.Number(42), v)
	assert.True(t, o.HasProperty("x"))
}

func TestPrototypeChainGet(t *testing.T) {
	proto := New("Object", nil)
	require.NoError(t, proto.Put("inherited", value.NewString("from-proto"), value.AttrNone))
	child := New("Object", proto)

	v, err := child.Get("inherited")
	require.NoError(t, err)
	assert.Equal(t, "from-proto", v.(value.String).String())
	assert.True(t, child.HasProperty("inherited"))
	assert.False(t, child.HasOwnProperty("inherited"))
}

func TestReadOnlyPutFailsSilently(t *testing.T) {
	o := New("Object", nil)
	o.DefineOwn("frozen", value.Number(1), value.AttrReadOnly)
	require.NoError(t, o.Put("frozen", value.Number(2), value.AttrNone))
	v, _ := o.Get("frozen")
	assert.Equal(t, value.Number(1), v)
}

func TestDeleteHonoursDontDelete(t *testing.T) {
	o := New("Object", nil)
	o.DefineOwn("perm", value.Number(1), value.AttrDontDelete)
	assert.False(t, o.Delete("perm"))
	assert.True(t, o.HasProperty("perm"))

	o.DefineOwn("temp", value.Number(1), value.AttrNone)
	assert.True(t, o.Delete("temp"))
	assert.False(t, o.HasProperty("temp"))
}

func TestOwnPropertyNamesInsertionOrder(t *testing.T) {
	o := New("Object", nil)
	o.DefineOwn("b", value.Number(2), value.AttrNone)
	o.DefineOwn("a", value.Number(1), value.AttrNone)
	names, _ := o.OwnPropertyNames()
	assert.Equal(t, []string{"b", "a"}, names)
}

func TestEnumeratorSkipsDontEnumAndDedupsShadowed(t *testing.T) {
	proto := New("Object", nil)
	proto.DefineOwn("shared", value.Number(0), value.AttrNone)
	proto.DefineOwn("hidden", value.Number(0), value.AttrDontEnum)
	child := New("Object", proto)
	child.DefineOwn("shared", value.Number(1), value.AttrNone)
	child.DefineOwn("own", value.Number(2), value.AttrNone)

	e := NewEnumerator(child)
	var got []string
	for {
		name, ok := e.Next()
		if !ok {
			break
		}
		got = append(got, name)
	}
	assert.ElementsMatch(t, []string{"shared", "own"}, got)
	assert.Len(t, got, 2)
}

func TestEnumeratorSkipsDeletedDuringIteration(t *testing.T) {
	o := New("Object", nil)
	o.DefineOwn("a", value.Number(1), value.AttrNone)
	o.DefineOwn("b", value.Number(2), value.AttrNone)
	e := NewEnumerator(o)
	o.Delete("b")
	var got []string
	for {
		name, ok := e.Next()
		if !ok {
			break
		}
		got = append(got, name)
	}
	assert.Equal(t, []string{"a"}, got)
}

func TestRealmObjectConstructorRoundTrip(t *testing.T) {
	r := NewRealm()
	obj, err := r.Global.Get("Object")
	require.NoError(t, err)
	ctor := obj.(value.Object)
	require.True(t, ctor.IsConstructor())

	inst, err := ctor.Construct(nil)
	require.NoError(t, err)
	assert.Equal(t, "Object", inst.Class())
	assert.Equal(t, r.ObjectProto, inst.Prototype())
}

func TestRealmArrayLiteralGrowsLength(t *testing.T) {
	r := NewRealm()
	arr := r.NewArray([]value.Value{value.Number(1), value.Number(2)})
	length, err := arr.Get("length")
	require.NoError(t, err)
	assert.Equal(t, value.Number(2), length)

	require.NoError(t, arr.Put("5", value.Number(9), value.AttrNone))
	length, err = arr.Get("length")
	require.NoError(t, err)
	assert.Equal(t, value.Number(6), length)
}

func TestRealmErrorToString(t *testing.T) {
	r := NewRealm()
	e := r.NewError("TypeError", "bad value")
	toString, err := e.Get("toString")
	require.NoError(t, err)
	fn := toString.(value.Object)
	result, err := fn.Call(e, nil)
	require.NoError(t, err)
	assert.Equal(t, "TypeError: bad value", result.(value.String).String())
}

func TestToObjectWrapsPrimitives(t *testing.T) {
	NewRealm() // installs value.ToObjectHook as a side effect
	wrapped, err := value.ToObject(value.NewString("hi"))
	require.NoError(t, err)
	assert.Equal(t, "String", wrapped.Class())
	prim, ok := AsPrimitive(wrapped)
	require.True(t, ok)
	assert.Equal(t, "hi", prim.(value.String).String())
}

func TestNumberConstructorCoercesAndWraps(t *testing.T) {
	r := NewRealm()
	ctorVal, err := r.Global.Get("Number")
	require.NoError(t, err)
	ctor := ctorVal.(value.Object)

	bare, err := ctor.Call(value.Undefined, []value.Value{value.NewString("42")})
	require.NoError(t, err)
	assert.Equal(t, value.Number(42), bare)

	inst, err := ctor.Construct([]value.Value{value.NewString("42")})
	require.NoError(t, err)
	assert.Equal(t, "Number", inst.Class())
	prim, ok := AsPrimitive(inst)
	require.True(t, ok)
	assert.Equal(t, value.Number(42), prim)
}

func TestNumberPrototypeValueOfAndToString(t *testing.T) {
	r := NewRealm()
	ctorVal, _ := r.Global.Get("Number")
	ctor := ctorVal.(value.Object)
	inst, err := ctor.Construct([]value.Value{value.Number(7)})
	require.NoError(t, err)

	valueOf, err := inst.Get("valueOf")
	require.NoError(t, err)
	result, err := valueOf.(value.Object).Call(inst, nil)
	require.NoError(t, err)
	assert.Equal(t, value.Number(7), result)

	toString, err := inst.Get("toString")
	require.NoError(t, err)
	strResult, err := toString.(value.Object).Call(inst, nil)
	require.NoError(t, err)
	assert.Equal(t, "7", strResult.(value.String).String())
}

func TestBooleanConstructorDefaultsFalse(t *testing.T) {
	r := NewRealm()
	ctorVal, _ := r.Global.Get("Boolean")
	ctor := ctorVal.(value.Object)

	bare, err := ctor.Call(value.Undefined, nil)
	require.NoError(t, err)
	assert.Equal(t, value.Boolean(false), bare)
}
