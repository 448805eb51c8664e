package object

import "github.com/es3lang/es3/internal/value"

// Enumerator walks a for...in target per ECMA-262-3 §4.I: a snapshot of
// names taken before the loop body runs, in prototype-chain order with
// shallowest-occurrence dedup, skipping DONTENUM properties and any
// name deleted since the snapshot was taken (the "delete-safe" rule).
type Enumerator struct {
	names []string
	obj   value.Object
	i     int
}

// NewEnumerator snapshots the enumerable property names of obj and its
// prototype chain, closest object first, each name appearing once (at
// its shallowest occurrence) regardless of how many ancestors redeclare
// it.
func NewEnumerator(obj value.Object) *Enumerator {
	seen := make(map[string]bool)
	var names []string
	for cur := obj; cur != nil; cur = cur.Prototype() {
		ownNames, dontEnum := cur.OwnPropertyNames()
		for i, n := range ownNames {
			if seen[n] {
				continue
			}
			seen[n] = true
			if dontEnum[i] {
				continue
			}
			names = append(names, n)
		}
	}
	return &Enumerator{names: names, obj: obj}
}

// Next returns the next live property name and true, or ("", false)
// once the snapshot is exhausted. A name deleted from obj (or from
// whichever ancestor it came from) after the snapshot was taken is
// skipped, per the delete-safe requirement; a name merely shadowed by a
// later Put is still live and is returned.
func (e *Enumerator) Next() (string, bool) {
	for e.i < len(e.names) {
		name := e.names[e.i]
		e.i++
		if e.obj.HasProperty(name) {
			return name, true
		}
	}
	return "", false
}
