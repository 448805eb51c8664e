package runtime

import "github.com/es3lang/es3/internal/value"

// With implements ECMA-262-3 §4.F's `with(obj) stmt`: obj is pushed onto
// the front of ctx's scope chain, body runs, and the push is undone on
// every exit path — normal return, break, continue, return, or a thrown
// panic unwinding through body — via defer, so a `with` can never leak
// its pushed scope even when body panics out through an exception.
func With(ctx *ExecutionContext, obj value.Object, body func() error) error {
	prev := ctx.PushScope(obj)
	defer ctx.PopScope(prev)
	return body()
}
