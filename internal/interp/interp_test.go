package interp_test

import (
	"os"
	"path/filepath"
	"testing"

	"smile/internal/compiler"
	"smile/internal/interp"
	"smile/internal/module"
	"smile/internal/reader"
	"smile/internal/symbol"
	"smile/internal/value"
)

func run(t *testing.T, src string) value.SmileArg {
	t.Helper()
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	program, err := reader.ReadAll(symbols, src)
	if err != nil {
		t.Fatalf("ReadAll(%q): %v", src, err)
	}
	c := compiler.New(symbols)
	seg, info := c.Compile(program)
	if c.HasErrors() {
		for _, m := range c.Errors() {
			t.Logf("compile error: %v", m)
		}
		t.Fatalf("compile(%q) failed", src)
	}
	in := interp.New(symbols, info, c.Tables)
	result, err := in.Run(seg)
	if err != nil {
		t.Fatalf("run(%q): %v", src, err)
	}
	return result
}

func TestArithmeticViaOperatorMethodCall(t *testing.T) {
	v := run(t, `[(1 . +) 2]`)
	if value.ToInteger32(v) != 3 {
		t.Fatalf("got %v, want 3", value.ToString(v))
	}
}

func TestIfStripsNot(t *testing.T) {
	v := run(t, `[$if [$not #f] "yes" "no"]`)
	if value.ToString(v) != "yes" {
		t.Fatalf("got %q, want \"yes\"", value.ToString(v))
	}
}

func TestScopeShadowsOuterBinding(t *testing.T) {
	v := run(t, `[$scope [x] [$set x 1] [$scope [x] [$set x 2] x]]`)
	if value.ToInteger32(v) != 2 {
		t.Fatalf("got %v, want the inner scope's x (2)", value.ToString(v))
	}
}

func TestScopeDoesNotLeakIntoOuter(t *testing.T) {
	v := run(t, `[$progn [$scope [x] [$set x 1] [$scope [x] [$set x 2] x]] [$scope [x] [$set x 5] x]]`)
	if value.ToInteger32(v) != 5 {
		t.Fatalf("got %v, want an unrelated outer scope's own x (5)", value.ToString(v))
	}
}

func TestFunctionDefinitionAndCall(t *testing.T) {
	v := run(t, `[$progn [$set square [$fn [n] [(n . *) n]]] [square 6]]`)
	if value.ToInteger32(v) != 36 {
		t.Fatalf("got %v, want 36", value.ToString(v))
	}
}

func TestCatchCapturesThrownValue(t *testing.T) {
	v := run(t, `[$catch [$throw "boom"] ]`)
	if value.ToString(v) != "boom" {
		t.Fatalf("got %q, want the thrown value", value.ToString(v))
	}
}

func TestCatchPassesThroughNormalResult(t *testing.T) {
	v := run(t, `[$catch 42]`)
	if value.ToInteger32(v) != 42 {
		t.Fatalf("got %v, want 42 (no throw happened)", value.ToString(v))
	}
}

func TestTillBrkReturnsValue(t *testing.T) {
	v := run(t, `[$till [done] [$brk done "stopped"]]`)
	if value.ToString(v) != "stopped" {
		t.Fatalf("got %q, want \"stopped\"", value.ToString(v))
	}
}

func TestAndCoercesToBoolean(t *testing.T) {
	v := run(t, `[$and 5 7]`)
	if v.Kind != value.KindBool || !value.ToBool(v) {
		t.Fatalf("got %q, want true (coerced, not the last operand's own value 7)", value.ToString(v))
	}
}

func TestAndShortCircuitsOnFalse(t *testing.T) {
	v := run(t, `[$and #f 7]`)
	if value.ToBool(v) {
		t.Fatalf("got %q, want #f", value.ToString(v))
	}
}

func TestOrCoercesToBoolean(t *testing.T) {
	v := run(t, `[$or #f 7]`)
	if v.Kind != value.KindBool || !value.ToBool(v) {
		t.Fatalf("got %q, want true (coerced, not the last operand's own value 7)", value.ToString(v))
	}
}

func TestOrShortCircuitsOnTrue(t *testing.T) {
	v := run(t, `[$or 5 #f]`)
	if !value.ToBool(v) {
		t.Fatalf("got %q, want #t", value.ToString(v))
	}
}

func TestUnboundGlobalReadsAsNull(t *testing.T) {
	v := run(t, `neverAssigned`)
	if v.Kind != value.KindNull {
		t.Fatalf("got %q, want Null for an unbound global", value.ToString(v))
	}
}

func TestIncludeLoadsModuleThroughResolver(t *testing.T) {
	value.EnsureInit()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "answer.smile"), []byte("42"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	symbols := symbol.NewWithKnownSymbols()
	program, err := reader.ReadAll(symbols, `[$include "answer"]`)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	c := compiler.New(symbols)
	seg, info := c.Compile(program)
	if c.HasErrors() {
		t.Fatalf("compile failed")
	}

	in := interp.New(symbols, info, c.Tables)
	resolver := module.NewResolver(symbols, func(syms *symbol.Table, path string, source []byte) (value.SmileArg, error) {
		prog, err := reader.ReadAll(syms, string(source))
		if err != nil {
			return value.SmileArg{}, err
		}
		mc := compiler.New(syms)
		mseg, minfo := mc.Compile(prog)
		if mc.HasErrors() {
			t.Fatalf("module compile failed")
		}
		return in.RunModule(minfo, mc.Tables, mseg)
	})
	resolver.SetBaseDir(dir)
	in.Include = resolver.Resolve

	result, err := in.Run(seg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if value.ToInteger32(result) != 42 {
		t.Fatalf("got %v, want 42", value.ToString(result))
	}
}

func TestEscapedFunctionResolvesOwnLiteralPool(t *testing.T) {
	value.EnsureInit()
	dir := t.TempDir()
	// The module defines and returns a closure whose body references a
	// string literal from the MODULE's own table; the host program then
	// calls that closure while its own, different Tables is "current" in
	// the interpreter — exercising invokeUserFunction's Tables restore.
	moduleSrc := `[$fn [] "from-module"]`
	if err := os.WriteFile(filepath.Join(dir, "greeter.smile"), []byte(moduleSrc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	symbols := symbol.NewWithKnownSymbols()
	hostSrc := `[$progn [$set greet [$include "greeter"]] [$set hostString "host-literal"] [greet]]`
	program, err := reader.ReadAll(symbols, hostSrc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	c := compiler.New(symbols)
	seg, info := c.Compile(program)
	if c.HasErrors() {
		t.Fatalf("host compile failed")
	}

	in := interp.New(symbols, info, c.Tables)
	resolver := module.NewResolver(symbols, func(syms *symbol.Table, path string, source []byte) (value.SmileArg, error) {
		prog, err := reader.ReadAll(syms, string(source))
		if err != nil {
			return value.SmileArg{}, err
		}
		mc := compiler.New(syms)
		mseg, minfo := mc.Compile(prog)
		if mc.HasErrors() {
			t.Fatalf("module compile failed")
		}
		return in.RunModule(minfo, mc.Tables, mseg)
	})
	resolver.SetBaseDir(dir)
	in.Include = resolver.Resolve

	result, err := in.Run(seg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if value.ToString(result) != "from-module" {
		t.Fatalf("got %q, want the module closure's own literal", value.ToString(result))
	}
}
