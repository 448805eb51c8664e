package jsonvalue

import (
	"math"
	"testing"

	"github.com/es3lang/es3/internal/object"
	"github.com/es3lang/es3/internal/value"
)

func TestEncodePrimitives(t *testing.T) {
	tests := []struct {
		v    value.Value
		want string
	}{
		{value.Undefined, "null"},
		{value.Null, "null"},
		{value.Boolean(true), "true"},
		{value.Boolean(false), "false"},
		{value.Number(42), "42"},
		{value.Number(1.5), "1.5"},
		{value.NewString("hi"), `"hi"`},
	}
	for _, tt := range tests {
		got, err := Encode(tt.v)
		if err != nil {
			t.Fatalf("Encode(%#v): %v", tt.v, err)
		}
		if got != tt.want {
			t.Fatalf("Encode(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestEncodeNaNAndInfinityBecomeNull(t *testing.T) {
	for _, n := range []value.Number{value.Number(math.NaN()), value.Number(math.Inf(1)), value.Number(math.Inf(-1))} {
		got, err := Encode(n)
		if err != nil {
			t.Fatalf("Encode(%v): %v", n, err)
		}
		if got != "null" {
			t.Fatalf("Encode(%v) = %q, want null", n, got)
		}
	}
}

func TestEncodeObjectSkipsNonEnumerableProperties(t *testing.T) {
	realm := object.NewRealm()
	obj := object.New("Object", realm.ObjectProto)
	obj.DefineOwn("visible", value.Number(1), value.AttrNone)
	obj.DefineOwn("hidden", value.Number(2), value.AttrDontEnum)

	got, err := Encode(obj)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != `{"visible":1}` {
		t.Fatalf("Encode(obj) = %q, want %q", got, `{"visible":1}`)
	}
}

func TestEncodeArrayWalksIndicesInOrder(t *testing.T) {
	realm := object.NewRealm()
	arr := realm.NewArray([]value.Value{value.Number(1), value.NewString("two"), value.Boolean(true)})

	got, err := Encode(arr)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != `[1,"two",true]` {
		t.Fatalf("Encode(arr) = %q, want %q", got, `[1,"two",true]`)
	}
}

func TestEncodeRejectsCallableObjects(t *testing.T) {
	realm := object.NewRealm()
	fn := object.NewCFunction(realm.FunctionProto, "f", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		return value.Undefined, nil
	})

	_, err := Encode(fn)
	if err == nil {
		t.Fatalf("Encode(function): expected an UnsupportedValueError, got nil")
	}
	if _, ok := err.(*UnsupportedValueError); !ok {
		t.Fatalf("Encode(function) error = %#v, want *UnsupportedValueError", err)
	}
}

func TestEncodeRejectsBareReference(t *testing.T) {
	ref := value.Reference{Property: "x"}
	_, err := Encode(ref)
	if err == nil {
		t.Fatalf("Encode(reference): expected an error, got nil")
	}
}

func TestEncodeEscapesKeysWithPathMetacharacters(t *testing.T) {
	realm := object.NewRealm()
	obj := object.New("Object", realm.ObjectProto)
	obj.DefineOwn("a.b", value.Number(1), value.AttrNone)

	got, err := Encode(obj)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != `{"a.b":1}` {
		t.Fatalf("Encode(obj) = %q, want %q", got, `{"a.b":1}`)
	}
}

func TestDecodeRoundTripsObjectsAndArrays(t *testing.T) {
	realm := object.NewRealm()
	src := `{"name":"Ada","tags":["x","y"],"active":true,"score":3.5,"nothing":null}`

	got, err := Decode(realm, src)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	obj, ok := got.(value.Object)
	if !ok {
		t.Fatalf("Decode result = %#v, want an object", got)
	}

	name, _ := obj.Get("name")
	if s, ok := name.(value.String); !ok || s.String() != "Ada" {
		t.Fatalf("name = %#v, want String(Ada)", name)
	}

	active, _ := obj.Get("active")
	if b, ok := active.(value.Boolean); !ok || !bool(b) {
		t.Fatalf("active = %#v, want true", active)
	}

	nothing, _ := obj.Get("nothing")
	if nothing != value.Null {
		t.Fatalf("nothing = %#v, want Null", nothing)
	}

	tagsVal, _ := obj.Get("tags")
	tags, ok := tagsVal.(value.Object)
	if !ok || tags.Class() != "Array" {
		t.Fatalf("tags = %#v, want an Array", tagsVal)
	}
	first, _ := tags.Get("0")
	if s, ok := first.(value.String); !ok || s.String() != "x" {
		t.Fatalf("tags[0] = %#v, want String(x)", first)
	}
}

func TestEncodeOrderedAppliesNaturalKeyOrder(t *testing.T) {
	realm := object.NewRealm()
	obj := object.New("Object", realm.ObjectProto)
	obj.DefineOwn("item10", value.Number(10), value.AttrNone)
	obj.DefineOwn("item2", value.Number(2), value.AttrNone)
	obj.DefineOwn("item1", value.Number(1), value.AttrNone)

	got, err := EncodeOrdered(obj, NaturalKeyOrder)
	if err != nil {
		t.Fatalf("EncodeOrdered: %v", err)
	}
	want := `{"item1":1,"item2":2,"item10":10}`
	if got != want {
		t.Fatalf("EncodeOrdered(obj, NaturalKeyOrder) = %q, want %q", got, want)
	}

	// Default Encode keeps insertion order instead.
	gotDefault, err := Encode(obj)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if gotDefault != `{"item10":10,"item2":2,"item1":1}` {
		t.Fatalf("Encode(obj) = %q, want insertion order", gotDefault)
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	realm := object.NewRealm()
	if _, err := Decode(realm, "{not json"); err == nil {
		t.Fatalf("Decode(malformed): expected an error, got nil")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	realm := object.NewRealm()
	original := realm.NewArray([]value.Value{value.Number(1), value.Number(2), value.Number(3)})

	text, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(realm, text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	arr, ok := got.(value.Object)
	if !ok || arr.Class() != "Array" {
		t.Fatalf("round-trip result = %#v, want an Array", got)
	}
	length, _ := arr.Get("length")
	if n, ok := length.(value.Number); !ok || n != 3 {
		t.Fatalf("length = %#v, want 3", length)
	}
}
