package runtime

import (
	"github.com/es3lang/es3/internal/diag"
	"github.com/es3lang/es3/internal/host"
	"github.com/es3lang/es3/internal/value"
)

// Thrown is an in-flight ECMAScript exception (ECMA-262-3 §4.G's `throw`):
// the value that was thrown, plus the call traceback captured at the
// point of the throw. It is carried as a Go panic value so a throw can
// unwind through an arbitrary depth of nested tree-walk evaluator calls
// without every intermediate frame having to check and re-propagate an
// error return — the same "C stack doubles as the exception's unwind
// path" design the original interpreter's setjmp/longjmp try contexts
// used, translated to Go's panic/recover.
type Thrown struct {
	Value     value.Value
	Traceback diag.StackTrace
}

func (t *Thrown) Error() string { return "uncaught exception" }

// Raise panics with a Thrown wrapping v. Callers evaluating a `throw`
// statement call Raise after converting the thrown expression to a
// Value via GetValue, per ECMA-262-3 §4.G.
func Raise(v value.Value, tb diag.StackTrace) {
	panic(&Thrown{Value: v, Traceback: tb})
}

// Catch runs body and recovers a Thrown panic raised anywhere beneath
// it, returning it instead of letting it propagate. Any other panic
// (a Go-level programming fault, not an ECMAScript throw) is
// re-panicked unchanged — only Thrown values are catchable by a script
// try/catch, matching ECMA-262-3 §4.G's "exception caught by the nearest
// surrounding try frame" (a frame catches ECMAScript exceptions, not
// host-side faults).
func Catch(body func()) (caught *Thrown) {
	defer func() {
		if r := recover(); r != nil {
			t, ok := r.(*Thrown)
			if !ok {
				panic(r)
			}
			caught = t
		}
	}()
	body()
	return nil
}

// AbortFunc is the runtime package's view of host.Hooks.Abort, the hook
// for uncatchable conditions (ECMA-262-3 §4.J, §6) — kept as its own
// named type so callers in this package don't need to import host just
// to hold a reference to the callback. Nothing in this module invokes
// it: a throw with no surrounding try frame reaches the top as the
// *Thrown that Catch returns, and Run hands that to its caller.
type AbortFunc func(message string)

// FromHost adapts a host.Hooks' Abort callback to an AbortFunc.
func FromHost(h host.Hooks) AbortFunc {
	return AbortFunc(h.Abort)
}
