package strval

import "sync"

// Table is a per-interpreter intern table. Two calls to Intern with
// equal contents return the identical *String (reference equality),
// matching the testable property in ECMA-262-3 §8:
// "for all strings s that are interned: intern(s) is intern(s)".
type Table struct {
	mu      sync.Mutex
	entries map[string]*String
}

// NewTable creates an empty per-interpreter intern table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*String)}
}

// Intern returns the canonical *String for s's contents, registering it
// on first use. The returned string is marked Interned.
func (t *Table) Intern(s *String) *String {
	key := s.String()
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.entries[key]; ok {
		return existing
	}
	canon := &String{data: append([]uint16(nil), s.data...), flags: Interned}
	t.entries[key] = canon
	return canon
}

// InternString is a convenience wrapper around Intern for Go strings.
func (t *Table) InternString(s string) *String {
	return t.Intern(FromString(s))
}

// global is the process-wide table for engine constants (keywords,
// well-known property names) shared by every interpreter instance, per
// ECMA-262-3 §5: "the intern table is per-interpreter plus a process-wide
// set initialized once".
var global = NewTable()

// Global returns the process-wide intern table.
func Global() *Table { return global }

// InternGlobal interns s in the process-wide table.
func InternGlobal(s string) *String {
	return global.InternString(s)
}
