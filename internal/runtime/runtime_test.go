package runtime

import (
	"testing"

	"github.com/es3lang/es3/internal/diag"
	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/object"
	"github.com/es3lang/es3/internal/value"
)

func TestLookupFindsNearestScope(t *testing.T) {
	outer := object.New("Object", nil)
	outer.Put("x", value.Number(1), value.AttrNone)
	inner := object.New("Object", nil)
	inner.Put("x", value.Number(2), value.AttrNone)

	chain := NewScope(inner, NewScope(outer, nil))
	ref := Lookup(chain, "x")
	if ref.Base != value.Object(inner) {
		t.Fatalf("got base %#v, want inner scope's object", ref.Base)
	}
}

func TestLookupFallsThroughToOuterScope(t *testing.T) {
	outer := object.New("Object", nil)
	outer.Put("y", value.Number(1), value.AttrNone)
	inner := object.New("Object", nil)

	chain := NewScope(inner, NewScope(outer, nil))
	ref := Lookup(chain, "y")
	if ref.Base != value.Object(outer) {
		t.Fatalf("got base %#v, want outer scope's object", ref.Base)
	}
}

func TestLookupUnresolvedYieldsNullBase(t *testing.T) {
	chain := NewScope(object.New("Object", nil), nil)
	ref := Lookup(chain, "nope")
	if ref.Base != nil {
		t.Fatalf("got base %#v, want nil", ref.Base)
	}
	if ref.Property != "nope" {
		t.Fatalf("got property %q", ref.Property)
	}
}

func TestGetValuePassesThroughNonReference(t *testing.T) {
	got, err := GetValue(value.Number(5), lexer.Position{}, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Number(5) {
		t.Fatalf("got %#v, want 5", got)
	}
}

func TestGetValueResolvesReference(t *testing.T) {
	obj := object.New("Object", nil)
	obj.Put("x", value.Number(42), value.AttrNone)
	ref := value.Reference{Base: obj, Property: "x"}

	got, err := GetValue(ref, lexer.Position{}, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Number(42) {
		t.Fatalf("got %#v, want 42", got)
	}
}

func TestGetValueNullBaseThrowsReferenceError(t *testing.T) {
	ref := value.Reference{Base: nil, Property: "undeclared"}
	_, err := GetValue(ref, lexer.Position{Line: 3, Column: 1}, "x = undeclared;", "t.js")
	if err == nil {
		t.Fatalf("expected a ReferenceError")
	}
	rerr, ok := err.(*diag.RuntimeError)
	if !ok || rerr.Name != "ReferenceError" {
		t.Fatalf("got %#v, want *diag.RuntimeError{Name: ReferenceError}", err)
	}
}

func TestPutValueUpdatesReferenceBase(t *testing.T) {
	obj := object.New("Object", nil)
	obj.Put("x", value.Number(1), value.AttrNone)
	ref := value.Reference{Base: obj, Property: "x"}

	global := object.New("global", nil)
	if err := PutValue(ref, value.Number(9), global, lexer.Position{}, "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := obj.Get("x")
	if got != value.Number(9) {
		t.Fatalf("got %#v, want 9", got)
	}
}

func TestPutValueNullBaseFallsBackToGlobal(t *testing.T) {
	ref := value.Reference{Base: nil, Property: "implicitGlobal"}
	global := object.New("global", nil)

	if err := PutValue(ref, value.Number(7), global, lexer.Position{}, "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := global.Get("implicitGlobal")
	if got != value.Number(7) {
		t.Fatalf("got %#v, want 7 installed on global", got)
	}
}

func TestPutValueNonReferenceIsBadLvalue(t *testing.T) {
	global := object.New("global", nil)
	err := PutValue(value.Number(1), value.Number(2), global, lexer.Position{}, "", "")
	if err == nil {
		t.Fatalf("expected a ReferenceError for a non-reference assignment target")
	}
}

func TestExecutionContextPushPopScope(t *testing.T) {
	global := object.New("global", nil)
	ctx := NewGlobalContext(global)
	withObj := object.New("Object", nil)
	withObj.Put("x", value.Number(99), value.AttrNone)

	prev := ctx.PushScope(withObj)
	ref := Lookup(ctx.Scope, "x")
	if ref.Base != value.Object(withObj) {
		t.Fatalf("expected with-pushed object to shadow global lookup of x")
	}
	ctx.PopScope(prev)
	if ctx.Scope.Object != value.Object(global) {
		t.Fatalf("expected scope restored to global after PopScope")
	}
}

func TestWithUnwindsScopeOnError(t *testing.T) {
	global := object.New("global", nil)
	ctx := NewGlobalContext(global)
	withObj := object.New("Object", nil)

	err := With(ctx, withObj, func() error {
		return diag.NewRuntimeError("TypeError", lexer.Position{}, "boom", "", "")
	})
	if err == nil {
		t.Fatalf("expected the body's error to propagate")
	}
	if ctx.Scope.Object != value.Object(global) {
		t.Fatalf("expected scope restored to global even though body returned an error")
	}
}

func TestWithUnwindsScopeOnPanic(t *testing.T) {
	global := object.New("global", nil)
	ctx := NewGlobalContext(global)
	withObj := object.New("Object", nil)

	func() {
		defer func() { recover() }()
		With(ctx, withObj, func() error {
			panic("simulated thrown exception unwinding through with")
		})
	}()

	if ctx.Scope.Object != value.Object(global) {
		t.Fatalf("expected scope restored to global even though body panicked")
	}
}

func TestRaiseAndCatch(t *testing.T) {
	caught := Catch(func() {
		Raise(value.NewString("boom"), nil)
	})
	if caught == nil {
		t.Fatalf("expected Catch to recover the Thrown panic")
	}
	s, ok := caught.Value.(value.String)
	if !ok || s.String() != "boom" {
		t.Fatalf("got %#v, want thrown string \"boom\"", caught.Value)
	}
}

func TestCatchReturnsNilWhenNothingThrown(t *testing.T) {
	caught := Catch(func() {})
	if caught != nil {
		t.Fatalf("got %#v, want nil (nothing was thrown)", caught)
	}
}

func TestCatchRepanicsNonThrownValues(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected the non-Thrown panic to propagate past Catch")
		}
	}()
	Catch(func() {
		panic("not a script exception")
	})
}
