package eval

import (
	"testing"

	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/parser"
	"github.com/es3lang/es3/internal/value"
)

// run parses and evaluates src as a whole program, failing the test on
// a parse error or an uncaught script exception.
func run(t *testing.T, src string) value.Completion {
	t.Helper()
	l := lexer.NewFromString(src)
	p := parser.New(l, src, "test.js")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("%q: unexpected parse errors: %v", src, errs)
	}
	e := New(src, "test.js")
	comp, caught := e.Run(prog)
	if caught != nil {
		t.Fatalf("%q: uncaught exception: %v", src, caught.Value)
	}
	return comp
}

// runThrows parses and evaluates src, asserting it raises an uncaught
// exception, and returns the thrown value.
func runThrows(t *testing.T, src string) value.Value {
	t.Helper()
	l := lexer.NewFromString(src)
	p := parser.New(l, src, "test.js")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("%q: unexpected parse errors: %v", src, errs)
	}
	e := New(src, "test.js")
	_, caught := e.Run(prog)
	if caught == nil {
		t.Fatalf("%q: expected an uncaught exception, got none", src)
	}
	return caught.Value
}

func mustNumber(t *testing.T, v value.Value) float64 {
	t.Helper()
	n, ok := v.(value.Number)
	if !ok {
		t.Fatalf("got %#v, want Number", v)
	}
	return float64(n)
}

func mustString(t *testing.T, v value.Value) string {
	t.Helper()
	s, ok := v.(value.String)
	if !ok {
		t.Fatalf("got %#v, want String", v)
	}
	return s.String()
}

func TestVariableDeclarationAndArithmetic(t *testing.T) {
	comp := run(t, "var a = 1, b = 2; a + b;")
	if got := mustNumber(t, comp.Value); got != 3 {
		t.Fatalf("got %v, want 3", got)
	}
}

func TestAddIsPolymorphicOnString(t *testing.T) {
	comp := run(t, `"a" + 1 + 2;`)
	if got := mustString(t, comp.Value); got != "a12" {
		t.Fatalf("got %q, want %q", got, "a12")
	}
}

func TestTypeofUndeclaredIsUndefinedString(t *testing.T) {
	comp := run(t, "typeof undeclaredThing;")
	if got := mustString(t, comp.Value); got != "undefined" {
		t.Fatalf("got %q, want %q", got, "undefined")
	}
}

func TestReadingUndeclaredThrowsReferenceError(t *testing.T) {
	thrown := runThrows(t, "undeclaredThing;")
	obj, ok := thrown.(value.Object)
	if !ok {
		t.Fatalf("got %#v, want an Error object", thrown)
	}
	name, _ := obj.Get("name")
	if got := mustString(t, name); got != "ReferenceError" {
		t.Fatalf("got %q, want ReferenceError", got)
	}
}

func TestNaNIsNeverEqualToItself(t *testing.T) {
	comp := run(t, "NaN == NaN;")
	if b, ok := comp.Value.(value.Boolean); !ok || bool(b) {
		t.Fatalf("got %#v, want false", comp.Value)
	}
}

func TestNullAbstractEqualsUndefinedButNotStrict(t *testing.T) {
	comp := run(t, "(null == undefined) && !(null === undefined);")
	if b, ok := comp.Value.(value.Boolean); !ok || !bool(b) {
		t.Fatalf("got %#v, want true", comp.Value)
	}
}

func TestForLoopStringAccumulation(t *testing.T) {
	comp := run(t, `
		var s = "";
		for (var i = 0; i < 4; i++) {
			s = s + i;
		}
		s;
	`)
	if got := mustString(t, comp.Value); got != "0123" {
		t.Fatalf("got %q, want %q", got, "0123")
	}
}

func TestTryCatchFinallyCompletionValue(t *testing.T) {
	comp := run(t, `
		var result;
		try {
			throw "boom";
		} catch (e) {
			result = "caught " + e;
		} finally {
			result = result + " and finalized";
		}
		result;
	`)
	if got := mustString(t, comp.Value); got != "caught boom and finalized" {
		t.Fatalf("got %q, want %q", got, "caught boom and finalized")
	}
}

func TestClosureCapturesActivationAcrossCalls(t *testing.T) {
	comp := run(t, `
		function makeCounter() {
			var n = 0;
			return function() {
				n = n + 1;
				return n;
			};
		}
		var counter = makeCounter();
		counter();
		counter();
	`)
	if got := mustNumber(t, comp.Value); got != 2 {
		t.Fatalf("got %v, want 2", got)
	}
}

func TestStringVersusNumericComparison(t *testing.T) {
	comp := run(t, `("10" < "9") + 0;`)
	// String comparison is lexicographic: "10" < "9" is true (since '1' < '9').
	if got := mustNumber(t, comp.Value); got != 1 {
		t.Fatalf("got %v, want 1 (lexicographic string comparison)", got)
	}

	comp = run(t, `(10 < 9) + 0;`)
	if got := mustNumber(t, comp.Value); got != 0 {
		t.Fatalf("got %v, want 0 (numeric comparison)", got)
	}
}

func TestObjectLiteralPreservesInsertionOrder(t *testing.T) {
	comp := run(t, `
		var obj = {b: 1, a: 2, c: 3};
		var order = "";
		for (var k in obj) {
			order = order + k;
		}
		order;
	`)
	if got := mustString(t, comp.Value); got != "bac" {
		t.Fatalf("got %q, want %q", got, "bac")
	}
}

func TestBreakContinueWithLabels(t *testing.T) {
	comp := run(t, `
		var s = "";
		outer:
		for (var i = 0; i < 3; i++) {
			for (var j = 0; j < 3; j++) {
				if (j == 1) continue outer;
				s = s + i + j;
			}
		}
		s;
	`)
	if got := mustString(t, comp.Value); got != "001020" {
		t.Fatalf("got %q, want %q", got, "001020")
	}
}

func TestDirectEvalSeesCallerScope(t *testing.T) {
	comp := run(t, `
		function f() {
			var x = 41;
			return eval("x + 1;");
		}
		f();
	`)
	if got := mustNumber(t, comp.Value); got != 42 {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestIndirectEvalRunsInGlobalScope(t *testing.T) {
	comp := run(t, `
		var g = "global";
		function f() {
			var g = "local";
			var indirect = eval;
			return indirect("g;");
		}
		f();
	`)
	if got := mustString(t, comp.Value); got != "global" {
		t.Fatalf("got %q, want %q", got, "global")
	}
}

func TestObjectLiteralAccessorProperty(t *testing.T) {
	comp := run(t, `
		var log = "";
		var obj = {
			_v: 1,
			get v() { return this._v; },
			set v(x) { log = log + x; this._v = x; }
		};
		obj.v = 5;
		obj.v + obj.v;
	`)
	if got := mustNumber(t, comp.Value); got != 10 {
		t.Fatalf("got %v, want 10", got)
	}
}
