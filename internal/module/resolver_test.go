package module

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"smile/internal/symbol"
	"smile/internal/value"
)

func TestResolveLoadsFileAndCachesResult(t *testing.T) {
	value.EnsureInit()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "greeting.smile"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var calls int32
	symbols := symbol.NewWithKnownSymbols()
	r := NewResolver(symbols, func(_ *symbol.Table, _ string, source []byte) (value.SmileArg, error) {
		atomic.AddInt32(&calls, 1)
		return value.FromObject(value.NewString(string(source))), nil
	})
	r.SetBaseDir(dir)

	first, err := r.Resolve("greeting")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := r.Resolve("greeting")
	if err != nil {
		t.Fatalf("Resolve (second): %v", err)
	}

	if calls != 1 {
		t.Fatalf("Run invoked %d times, want exactly 1", calls)
	}
	if first.Obj != second.Obj {
		t.Fatalf("expected the cached result's Obj identity to be reused")
	}
}

func TestResolveConcurrentCallersRunOnce(t *testing.T) {
	value.EnsureInit()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "m.smile"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var calls int32
	symbols := symbol.NewWithKnownSymbols()
	r := NewResolver(symbols, func(_ *symbol.Table, _ string, _ []byte) (value.SmileArg, error) {
		atomic.AddInt32(&calls, 1)
		return value.FromInt32(7), nil
	})
	r.SetBaseDir(dir)

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Resolve("m")
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("goroutine %d: Resolve: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("Run invoked %d times across %d concurrent resolvers, want exactly 1", calls, n)
	}
}

func TestResolveMissingFileErrors(t *testing.T) {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	r := NewResolver(symbols, func(_ *symbol.Table, _ string, _ []byte) (value.SmileArg, error) {
		t.Fatalf("Run should not be called for a module that can't be located")
		return value.SmileArg{}, nil
	})
	r.SetBaseDir(t.TempDir())

	if _, err := r.Resolve("does-not-exist"); err == nil {
		t.Fatalf("expected an error for a missing module")
	}
}

func TestResolveCachesFailureAndDoesNotRetry(t *testing.T) {
	value.EnsureInit()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.smile"), []byte("oops"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var calls int32
	symbols := symbol.NewWithKnownSymbols()
	r := NewResolver(symbols, func(_ *symbol.Table, _ string, _ []byte) (value.SmileArg, error) {
		atomic.AddInt32(&calls, 1)
		return value.SmileArg{}, fmt.Errorf("boom")
	})
	r.SetBaseDir(dir)

	if _, err := r.Resolve("broken"); err == nil {
		t.Fatalf("expected the first Resolve to fail")
	}
	if _, err := r.Resolve("broken"); err == nil {
		t.Fatalf("expected the second Resolve to re-raise the same failure")
	}
	if calls != 1 {
		t.Fatalf("Run invoked %d times, want exactly 1 (failure must not retry)", calls)
	}
}

func TestResolveSearchPathFallback(t *testing.T) {
	value.EnsureInit()
	base := t.TempDir()
	lib := t.TempDir()
	if err := os.WriteFile(filepath.Join(lib, "util.smile"), []byte("util"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	symbols := symbol.NewWithKnownSymbols()
	r := NewResolver(symbols, func(_ *symbol.Table, path string, source []byte) (value.SmileArg, error) {
		return value.FromObject(value.NewString(string(source))), nil
	})
	r.SetBaseDir(base)
	r.AddSearchPath(lib)

	v, err := r.Resolve("util")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	s, ok := v.Obj.(*value.String)
	if !ok || s.Text != "util" {
		t.Fatalf("expected the search-path module's contents, got %v", v)
	}
}
