package symbol

import "testing"

func TestInternIdempotent(t *testing.T) {
	tab := New()
	a := tab.Intern("foo")
	b := tab.Intern("foo")
	if a != b {
		t.Fatalf("Intern(foo) = %d, %d; want equal", a, b)
	}
	if tab.Name(a) != "foo" {
		t.Fatalf("Name(%d) = %q, want foo", a, tab.Name(a))
	}
}

func TestInternDistinctNames(t *testing.T) {
	tab := New()
	a := tab.Intern("foo")
	b := tab.Intern("bar")
	if a == b {
		t.Fatalf("distinct names produced the same ID %d", a)
	}
}

func TestLookupNoCreate(t *testing.T) {
	tab := New()
	if _, ok := tab.Lookup("missing"); ok {
		t.Fatalf("Lookup found a name that was never interned")
	}
	tab.Intern("present")
	id, ok := tab.Lookup("present")
	if !ok || tab.Name(id) != "present" {
		t.Fatalf("Lookup(present) = %d, %v; want a valid id", id, ok)
	}
}

func TestAppendOnlyNeverRenumbers(t *testing.T) {
	tab := New()
	first := tab.Intern("a")
	tab.Intern("b")
	tab.Intern("c")
	again := tab.Intern("a")
	if first != again {
		t.Fatalf("re-interning a already-known name changed its ID: %d -> %d", first, again)
	}
}

func TestKnownSymbolPreloadIsStable(t *testing.T) {
	tab := NewWithKnownSymbols()
	if tab.Name(SIf) != "$if" {
		t.Fatalf("SIf = %q, want $if", tab.Name(SIf))
	}
	if tab.Name(SFn) != "$fn" {
		t.Fatalf("SFn = %q, want $fn", tab.Name(SFn))
	}
	// A symbol interned after the preload must not collide with it.
	extra := tab.Intern("user-defined")
	if extra < numKnownSymbols {
		t.Fatalf("user symbol %d collided with the known-symbol block (< %d)", extra, numKnownSymbols)
	}
}

func TestWellKnownPropertySlot(t *testing.T) {
	tab := NewWithKnownSymbols()
	if _, ok := WellKnownPropertySlot(tab.Intern("nonsense")); ok {
		t.Fatalf("WellKnownPropertySlot matched an arbitrary symbol")
	}
	if slot, ok := WellKnownPropertySlot(PLength); !ok || slot != 7 {
		t.Fatalf("WellKnownPropertySlot(PLength) = %d, %v; want 7, true", slot, ok)
	}
}
