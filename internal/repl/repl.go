// Package repl is the interactive read-compile-run loop: scan a line,
// read/compile it fresh, run it against the accumulated global
// environment. Each line is independent at the read/compile stage; only
// the interpreter's globals persist across lines.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"smile/internal/bytecode"
	"smile/internal/compiler"
	"smile/internal/interp"
	"smile/internal/module"
	"smile/internal/reader"
	"smile/internal/symbol"
	"smile/internal/value"
)

const prompt = ">>> "

// Session holds the state that must survive across lines: one symbol
// table and one interpreter whose globals accumulate bindings. Each line
// compiles against a brand new, empty-GlobalDict ClosureInfo (Compile
// always starts one fresh); Interp.Reglobalize replays the previous
// line's bindings into the new global closure so a name bound on one line
// is still visible on the next.
type Session struct {
	Symbols *symbol.Table
	Interp  *interp.Interp
}

// NewSession builds an empty session with no bindings yet, wired to a
// module resolver anchored at baseDir so a line can $include sibling
// files.
func NewSession(baseDir string) *Session {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	emptyInfo := &bytecode.ClosureInfo{Kind: bytecode.ClosureGlobal, GlobalDict: make(map[symbol.ID]int)}
	in := interp.New(symbols, emptyInfo, bytecode.NewCompiledTables())

	resolver := module.NewResolver(symbols, func(syms *symbol.Table, path string, source []byte) (value.SmileArg, error) {
		program, err := reader.ReadAll(syms, string(source))
		if err != nil {
			return value.SmileArg{}, err
		}
		c := compiler.New(syms)
		seg, info := c.Compile(program)
		if c.HasErrors() {
			return value.SmileArg{}, fmt.Errorf("module %s: %s", path, firstError(c))
		}
		return in.RunModule(info, c.Tables, seg)
	})
	resolver.SetBaseDir(baseDir)
	in.Include = resolver.Resolve

	return &Session{Symbols: symbols, Interp: in}
}

func firstError(c *compiler.Compiler) string {
	for _, m := range c.Errors() {
		return m.Text
	}
	return "compile failed"
}

// Eval compiles and runs one line (or multi-form block) of input against
// the session's accumulated globals, returning the resulting value.
func (s *Session) Eval(line string) (value.SmileArg, error) {
	program, err := reader.ReadAll(s.Symbols, line)
	if err != nil {
		return value.SmileArg{}, err
	}
	c := compiler.New(s.Symbols)
	seg, info := c.Compile(program)
	if c.HasErrors() {
		var sb strings.Builder
		for _, m := range c.Errors() {
			sb.WriteString(m.Error())
			sb.WriteString("\n")
		}
		return value.SmileArg{}, fmt.Errorf("%s", strings.TrimRight(sb.String(), "\n"))
	}
	s.Interp.Reglobalize(info, c.Tables)
	return s.Interp.Run(seg)
}

// Run drives the classic prompt/read/eval/print loop, writing prompts and
// results to stdout and reading lines from stdin. It returns when the
// input stream ends or a line is exactly "exit".
func Run(stdin io.Reader, stdout io.Writer, session *Session) {
	fmt.Fprintln(stdout, "smile repl | type 'exit' to quit")
	scanner := bufio.NewScanner(stdin)

	for {
		fmt.Fprint(stdout, prompt)
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "exit" {
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		result, err := session.Eval(line)
		if err != nil {
			fmt.Fprintln(stdout, "error:", err)
			continue
		}
		fmt.Fprintln(stdout, value.ToString(result))
	}
}
