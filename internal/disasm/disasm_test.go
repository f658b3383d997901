package disasm

import (
	"strings"
	"testing"

	"smile/internal/bytecode"
	"smile/internal/compiler"
	"smile/internal/reader"
	"smile/internal/symbol"
	"smile/internal/value"
)

func compileSource(t *testing.T, src string) (*symbol.Table, *compiler.Compiler, *bytecode.ByteCodeSegment) {
	t.Helper()
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	program, err := reader.ReadAll(symbols, src)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	c := compiler.New(symbols)
	seg, _ := c.Compile(program)
	if c.HasErrors() {
		for _, m := range c.Errors() {
			t.Logf("compile error: %v", m)
		}
		t.Fatalf("compile failed")
	}
	return symbols, c, seg
}

func TestDisassembleLiteral(t *testing.T) {
	symbols, c, seg := compileSource(t, `1`)
	out := Disassemble(symbols, c.Tables, seg)
	if !strings.Contains(out, "LdInt32") && !strings.Contains(out, "LdByte") {
		t.Fatalf("expected an integer load instruction, got:\n%s", out)
	}
}

func TestDisassembleStringLiteralIsQuoted(t *testing.T) {
	symbols, c, seg := compileSource(t, `"hi"`)
	out := Disassemble(symbols, c.Tables, seg)
	if !strings.Contains(out, `"hi"`) {
		t.Fatalf("expected the string literal rendered quoted, got:\n%s", out)
	}
}

func TestDisassembleMethodCallShowsMethodName(t *testing.T) {
	symbols, c, seg := compileSource(t, `[("hi" . length)]`)
	out := Disassemble(symbols, c.Tables, seg)
	if !strings.Contains(out, "length") {
		t.Fatalf("expected method name 'length' in disassembly, got:\n%s", out)
	}
}

func TestSummaryReportsCounts(t *testing.T) {
	_, c, seg := compileSource(t, `[$scope [x] [$set x 1] x]`)
	summary := Summary(c.Tables, seg, 4)
	if !strings.Contains(summary, "instructions") {
		t.Fatalf("expected Summary to mention instructions, got %q", summary)
	}
}
