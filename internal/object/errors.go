package object

import "fmt"

// NotCallableError/NotConstructorError back the TypeErrors raised when the
// evaluator calls or news a non-function object (ECMA-262-3 §4.G, "Call
// evaluation" / "new evaluation").
type NotCallableError struct{ Class string }

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("TypeError: %s is not a function", e.Class)
}

type NotConstructorError struct{ Class string }

func (e *NotConstructorError) Error() string {
	return fmt.Sprintf("TypeError: %s is not a constructor", e.Class)
}

func ErrNotCallable(class string) error    { return &NotCallableError{Class: class} }
func ErrNotConstructor(class string) error { return &NotConstructorError{Class: class} }
