// Package symbol implements the process-wide identifier table: a dense,
// append-only mapping from interned strings to small positive integers.
package symbol

import "sync"

// ID is an interned identifier. Zero is reserved and never returned by
// Table.Intern; it is used by callers as an "absent symbol" sentinel.
type ID int32

// Table is a string<->ID interner. Once an ID is issued it is never
// recycled or renumbered: Intern is append-only, matching the source's
// SymbolTableInt_AddFast contract that a symbol's registration position is
// permanent for the life of the process.
type Table struct {
	mu      sync.RWMutex
	names   []string
	lookup  map[string]ID
}

// New creates an empty table. Use NewWithKnownSymbols to also preload the
// compiler's fixed block of well-known names.
func New() *Table {
	return &Table{
		names:  make([]string, 1, 256), // index 0 is the reserved "no symbol"
		lookup: make(map[string]ID, 256),
	}
}

// Intern returns the ID for name, creating one if it doesn't already exist.
func (t *Table) Intern(name string) ID {
	t.mu.RLock()
	if id, ok := t.lookup[name]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.lookup[name]; ok {
		return id
	}
	id := ID(len(t.names))
	t.names = append(t.names, name)
	t.lookup[name] = id
	return id
}

// Lookup returns the ID for name without creating one. ok is false if name
// has never been interned.
func (t *Table) Lookup(name string) (id ID, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok = t.lookup[name]
	return id, ok
}

// Name returns the string an ID was interned from. It panics on an ID that
// this table never issued, since that indicates a caller bug rather than a
// recoverable condition.
func (t *Table) Name(id ID) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id <= 0 || int(id) >= len(t.names) {
		panic("symbol: Name called with an unknown ID")
	}
	return t.names[id]
}

// Count returns the number of interned symbols, including the reserved
// zero slot.
func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names)
}
