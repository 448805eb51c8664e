// Package runtime implements the scope chain and execution context of
// ECMA-262-3 §4.F: name resolution (scope_lookup, GetValue, PutValue),
// with-statement scope pushing, and the try-frame/traceback machinery
// of §4.J.
package runtime

import (
	"github.com/es3lang/es3/internal/diag"
	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/value"
)

// Scope is one link in the scope chain: an object searched front-to-back
// for a name, plus the enclosing (outer) link. A function call's scope
// chain runs activation object -> ... captured closure scope ... ->
// Global; a with(obj) statement splices obj's object in front of the
// current chain for the duration of its body.
type Scope struct {
	Object value.Object
	Outer  *Scope
}

// NewScope pushes obj in front of outer, returning the new head of chain.
func NewScope(obj value.Object, outer *Scope) *Scope {
	return &Scope{Object: obj, Outer: outer}
}

// Lookup implements scope_lookup(chain, name) (ECMA-262-3 §4.F): the first
// object in the chain that HasProperty(name) supplies the reference's
// base; if none does, the reference's base is nil ("null-base"), and a
// subsequent GetValue on it throws ReferenceError.
func Lookup(chain *Scope, name string) value.Reference {
	for s := chain; s != nil; s = s.Outer {
		if s.Object.HasProperty(name) {
			return value.Reference{Base: s.Object, Property: name}
		}
	}
	return value.Reference{Base: nil, Property: name}
}

// GetValue implements ECMA-262-3 §4.F's GetValue(v): a non-Reference passes
// through unchanged; a Reference with a nil base throws ReferenceError;
// otherwise the base object's [[Get]] supplies the value.
func GetValue(v value.Value, pos lexer.Position, source, file string) (value.Value, error) {
	ref, ok := v.(value.Reference)
	if !ok {
		return v, nil
	}
	if ref.Base == nil {
		return nil, diag.NewRuntimeError("ReferenceError", pos, ref.Property+" is not defined", source, file)
	}
	return ref.Base.Get(ref.Property)
}

// PutValue implements ECMA-262-3 §4.F's PutValue(v, w): v must be a
// Reference (assigning to a non-reference, e.g. `1 = 2`, is a bad-lvalue
// ReferenceError); the target is the reference's base, or global when the
// base is null-base (an undeclared-variable assignment implicitly
// creates a Global property, per ECMA-262-3 §10.1.4).
func PutValue(v value.Value, w value.Value, global value.Object, pos lexer.Position, source, file string) error {
	ref, ok := v.(value.Reference)
	if !ok {
		return diag.NewRuntimeError("ReferenceError", pos, "invalid assignment left-hand side", source, file)
	}
	target := ref.Base
	if target == nil {
		target = global
	}
	return target.Put(ref.Property, w, value.AttrNone)
}
