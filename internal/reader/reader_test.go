package reader

import (
	"testing"

	"smile/internal/symbol"
	"smile/internal/value"
)

func TestReadAllSingleForm(t *testing.T) {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	v, err := ReadAll(symbols, `[$if #t 1 2]`)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	items := value.ListToSlice(v)
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	if !items[0].IsSymbol() || symbols.Name(items[0].AsSymbol()) != "$if" {
		t.Fatalf("head = %v, want $if", items[0])
	}
	if !value.ToBool(items[1]) {
		t.Fatalf("second item should read as #t")
	}
}

func TestReadAllWrapsMultipleFormsInProgn(t *testing.T) {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	v, err := ReadAll(symbols, `[$set x 1] [$set y 2]`)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	items := value.ListToSlice(v)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 ($progn + 2 forms)", len(items))
	}
	if symbols.Name(items[0].AsSymbol()) != "$progn" {
		t.Fatalf("expected $progn wrapper, got %v", items[0])
	}
}

func TestReadString(t *testing.T) {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	v, err := ReadAll(symbols, `"hello\nworld"`)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	s, ok := v.Obj.(*value.String)
	if !ok {
		t.Fatalf("expected a String, got %T", v.Obj)
	}
	if s.Text != "hello\nworld" {
		t.Fatalf("got %q, want escaped newline", s.Text)
	}
}

func TestReadDottedPair(t *testing.T) {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	v, err := ReadAll(symbols, `(1 . 2)`)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	p, ok := v.Obj.(*value.Pair)
	if !ok {
		t.Fatalf("expected a Pair, got %T", v.Obj)
	}
	if value.ToInteger32(value.FromObject(p.Left)) != 1 || value.ToInteger32(value.FromObject(p.Right)) != 2 {
		t.Fatalf("dotted pair contents wrong: %v . %v", p.Left, p.Right)
	}
}

func TestReadQuoteSugar(t *testing.T) {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	v, err := ReadAll(symbols, `'x`)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	items := value.ListToSlice(v)
	if len(items) != 2 || symbols.Name(items[0].AsSymbol()) != "$quote" {
		t.Fatalf("'x should read as ($quote x), got %v", items)
	}
}

func TestReadEmptyListIsNull(t *testing.T) {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	v, err := ReadAll(symbols, `()`)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !v.IsNull() {
		t.Fatalf("() should read as Null, got kind %v", v.Kind)
	}
}

func TestReadSkipsComments(t *testing.T) {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	v, err := ReadAll(symbols, "; a leading comment\n42 ; trailing")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if v.AsInt32() != 42 {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestReadMismatchedCloserErrors(t *testing.T) {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	if _, err := ReadAll(symbols, `(1 2]`); err == nil {
		t.Fatalf("expected an error for mismatched closer")
	}
}
