package bytecode

import (
	"testing"

	"github.com/es3lang/es3/internal/ast"
	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/object"
	"github.com/es3lang/es3/internal/parser"
	"github.com/es3lang/es3/internal/value"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.NewFromString(src)
	p := parser.New(l, src, "test.js")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("%q: unexpected parse errors: %v", src, errs)
	}
	return prog
}

// run compiles and executes src as a whole program, failing the test on a
// parse error or an uncaught script exception. Unlike internal/eval.Run,
// which returns a value.Completion, this returns the bare value.Value the
// completion register held when the chunk fell off its end — the VM has
// already resolved completions into register writes and control flow by
// compile time, so there is nothing left to rebox.
func run(t *testing.T, src string) value.Value {
	t.Helper()
	prog := mustParse(t, src)
	vm := New(object.NewRealm(), src, "test.js")
	result, caught := vm.Run(prog)
	if caught != nil {
		t.Fatalf("%q: uncaught exception: %v", src, caught.Value)
	}
	return result
}

// runThrows compiles and executes src, asserting it raises an uncaught
// exception, and returns the thrown value.
func runThrows(t *testing.T, src string) value.Value {
	t.Helper()
	prog := mustParse(t, src)
	vm := New(object.NewRealm(), src, "test.js")
	_, caught := vm.Run(prog)
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

func mustBool(t *testing.T, v value.Value) bool {
	t.Helper()
	b, ok := v.(value.Boolean)
	if !ok {
		t.Fatalf("got %#v, want Boolean", v)
	}
	return bool(b)
}

func TestVariableDeclarationAndArithmetic(t *testing.T) {
	got := mustNumber(t, run(t, "var a = 1, b = 2; a + b;"))
	if got != 3 {
		t.Fatalf("got %v, want 3", got)
	}
}

func TestAddIsPolymorphicOnString(t *testing.T) {
	got := mustString(t, run(t, `"a" + 1 + 2;`))
	if got != "a12" {
		t.Fatalf("got %q, want %q", got, "a12")
	}
}

func TestIfElseTakesTheMatchingBranch(t *testing.T) {
	got := mustNumber(t, run(t, "var x; if (1 < 2) { x = 10; } else { x = 20; } x;"))
	if got != 10 {
		t.Fatalf("got %v, want 10", got)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	got := mustNumber(t, run(t, "var i = 0, sum = 0; while (i < 5) { sum = sum + i; i = i + 1; } sum;"))
	if got != 10 {
		t.Fatalf("got %v, want 10", got)
	}
}

func TestForLoopWithBreak(t *testing.T) {
	got := mustNumber(t, run(t, `
		var i, found = -1;
		for (i = 0; i < 10; i = i + 1) {
			if (i == 4) { found = i; break; }
		}
		found;
	`))
	if got != 4 {
		t.Fatalf("got %v, want 4", got)
	}
}

func TestLabeledContinueSkipsToOuterLoop(t *testing.T) {
	got := mustNumber(t, run(t, `
		var total = 0;
		outer: for (var i = 0; i < 3; i = i + 1) {
			for (var j = 0; j < 3; j = j + 1) {
				if (j == 1) { continue outer; }
				total = total + 1;
			}
		}
		total;
	`))
	// Each outer iteration runs the inner loop's j==0 body once, then
	// continues outer before j reaches 1 again.
	if got != 3 {
		t.Fatalf("got %v, want 3", got)
	}
}

func TestForInEnumeratesEnumerableProperties(t *testing.T) {
	got := mustNumber(t, run(t, `
		var o = {a: 1, b: 2, c: 3};
		var count = 0;
		for (var k in o) { count = count + 1; }
		count;
	`))
	if got != 3 {
		t.Fatalf("got %v, want 3", got)
	}
}

func TestForInOverUndefinedRunsZeroTimes(t *testing.T) {
	got := mustNumber(t, run(t, `
		var count = 0;
		for (var k in undefined) { count = count + 1; }
		count;
	`))
	if got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestSwitchFallsThroughUntilBreak(t *testing.T) {
	got := mustString(t, run(t, `
		var x = 2, r = "";
		switch (x) {
			case 1: r = r + "one";
			case 2: r = r + "two";
			case 3: r = r + "three"; break;
			default: r = r + "?";
		}
		r;
	`))
	if got != "twothree" {
		t.Fatalf("got %q, want %q", got, "twothree")
	}
}

func TestFunctionCallAndReturn(t *testing.T) {
	got := mustNumber(t, run(t, `
		function add(a, b) { return a + b; }
		add(3, 4);
	`))
	if got != 7 {
		t.Fatalf("got %v, want 7", got)
	}
}

func TestClosureCapturesEnclosingVariable(t *testing.T) {
	got := mustNumber(t, run(t, `
		function makeAdder(x) {
			return function(y) { return x + y; };
		}
		var add5 = makeAdder(5);
		add5(3);
	`))
	if got != 8 {
		t.Fatalf("got %v, want 8", got)
	}
}

func TestNamedFunctionExpressionCanCallItself(t *testing.T) {
	got := mustNumber(t, run(t, `
		var fact = function fact(n) {
			if (n <= 1) { return 1; }
			return n * fact(n - 1);
		};
		fact(5);
	`))
	if got != 120 {
		t.Fatalf("got %v, want 120", got)
	}
}

func TestConstructorBuildsInstanceWithPrototypeMethod(t *testing.T) {
	got := mustNumber(t, run(t, `
		function Point(x, y) { this.x = x; this.y = y; }
		Point.prototype.sum = function() { return this.x + this.y; };
		var p = new Point(3, 4);
		p.sum();
	`))
	if got != 7 {
		t.Fatalf("got %v, want 7", got)
	}
}

func TestTryCatchBindsThrownValue(t *testing.T) {
	got := mustString(t, run(t, `
		var r;
		try {
			throw "boom";
		} catch (e) {
			r = "caught:" + e;
		}
		r;
	`))
	if got != "caught:boom" {
		t.Fatalf("got %q, want %q", got, "caught:boom")
	}
}

func TestFinallyRunsAfterNormalCompletion(t *testing.T) {
	got := mustString(t, run(t, `
		var r = "";
		try {
			r = r + "try";
		} finally {
			r = r + "-finally";
		}
		r;
	`))
	if got != "try-finally" {
		t.Fatalf("got %q, want %q", got, "try-finally")
	}
}

func TestFinallyRunsWhenTryHasNoCatch(t *testing.T) {
	got := mustString(t, run(t, `
		var r = "";
		try {
			try {
				throw "x";
			} finally {
				r = r + "inner-finally";
			}
		} catch (e) {
			r = r + ":outer-caught:" + e;
		}
		r;
	`))
	if got != "inner-finally:outer-caught:x" {
		t.Fatalf("got %q, want %q", got, "inner-finally:outer-caught:x")
	}
}

func TestFinallyRunsWhenCatchBodyRethrows(t *testing.T) {
	got := mustString(t, run(t, `
		var r = "";
		try {
			try {
				throw "x";
			} catch (e) {
				r = r + "caught:" + e + ";";
				throw "y";
			} finally {
				r = r + "finally;";
			}
		} catch (e2) {
			r = r + "outer:" + e2;
		}
		r;
	`))
	if got != "caught:x;finally;outer:y" {
		t.Fatalf("got %q, want %q", got, "caught:x;finally;outer:y")
	}
}

func TestUncaughtThrowFromCalleePropagatesToCallerTry(t *testing.T) {
	got := mustString(t, run(t, `
		function explode() { throw "kaboom"; }
		var r;
		try {
			explode();
		} catch (e) {
			r = "caught:" + e;
		}
		r;
	`))
	if got != "caught:kaboom" {
		t.Fatalf("got %q, want %q", got, "caught:kaboom")
	}
}

func TestWithStatementSplicesObjectOntoScope(t *testing.T) {
	got := mustNumber(t, run(t, `
		var o = {x: 42};
		var r;
		with (o) { r = x; }
		r;
	`))
	if got != 42 {
		t.Fatalf("got %v, want 42", got)
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

func TestInstanceOfRecognizesConstructedInstance(t *testing.T) {
	got := mustBool(t, run(t, `
		function Point() {}
		var p = new Point();
		p instanceof Point;
	`))
	if !got {
		t.Fatalf("got false, want true")
	}
}

func TestInOperatorFindsInheritedProperty(t *testing.T) {
	got := mustBool(t, run(t, `
		function Point() {}
		Point.prototype.x = 1;
		var p = new Point();
		"x" in p;
	`))
	if !got {
		t.Fatalf("got false, want true")
	}
}

func TestNaNIsNeverEqualToItself(t *testing.T) {
	got := mustBool(t, run(t, "NaN == NaN;"))
	if got {
		t.Fatalf("got true, want false")
	}
}
