// cmd/smile is the CLI entry point: a flat command-name dispatch with
// single-letter aliases, `--help`/`--version` handled before anything
// else, and log.Fatalf on a fatal startup error. Three subcommands: run,
// repl, disasm.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"smile/internal/compiler"
	"smile/internal/disasm"
	"smile/internal/interp"
	"smile/internal/module"
	"smile/internal/reader"
	"smile/internal/repl"
	"smile/internal/symbol"
	"smile/internal/value"
)

const version = "0.1.0"

var commandAliases = map[string]string{
	"r": "run",
	"i": "repl",
	"d": "disasm",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Printf("smile %s\n", version)
	case "run":
		if len(args) < 2 {
			log.Fatal("usage: smile run <file>")
		}
		if err := runFile(args[1]); err != nil {
			log.Fatalf("error: %v", err)
		}
	case "disasm":
		if len(args) < 2 {
			log.Fatal("usage: smile disasm <file>")
		}
		if err := disasmFile(args[1]); err != nil {
			log.Fatalf("error: %v", err)
		}
	case "repl":
		session := repl.NewSession(".")
		repl.Run(os.Stdin, os.Stdout, session)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("smile - a small S-expression language")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  smile run <file>      Run a program                  (alias: r)")
	fmt.Println("  smile repl            Start the interactive REPL     (alias: i)")
	fmt.Println("  smile disasm <file>   Print a program's bytecode     (alias: d)")
	fmt.Println("  smile version         Print the version")
	fmt.Println("  smile help            Print this message")
}

func runFile(filename string) error {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	source, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	program, err := reader.ReadAll(symbols, string(source))
	if err != nil {
		return err
	}

	c := compiler.New(symbols)
	seg, info := c.Compile(program)
	if c.HasErrors() {
		return reportParseErrors(c)
	}

	in := interp.New(symbols, info, c.Tables)
	resolver := module.NewResolver(symbols, func(syms *symbol.Table, path string, src []byte) (value.SmileArg, error) {
		prog, err := reader.ReadAll(syms, string(src))
		if err != nil {
			return value.SmileArg{}, err
		}
		mc := compiler.New(syms)
		mseg, minfo := mc.Compile(prog)
		if mc.HasErrors() {
			return value.SmileArg{}, reportParseErrors(mc)
		}
		return in.RunModule(minfo, mc.Tables, mseg)
	})
	resolver.SetBaseDir(filepath.Dir(filename))
	in.Include = resolver.Resolve

	result, err := in.Run(seg)
	if err != nil {
		return err
	}
	if colorize() {
		fmt.Printf("\x1b[32m%s\x1b[0m\n", value.ToString(result))
	} else {
		fmt.Println(value.ToString(result))
	}
	return nil
}

func disasmFile(filename string) error {
	value.EnsureInit()
	symbols := symbol.NewWithKnownSymbols()
	source, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	program, err := reader.ReadAll(symbols, string(source))
	if err != nil {
		return err
	}

	c := compiler.New(symbols)
	seg, _ := c.Compile(program)
	if c.HasErrors() {
		return reportParseErrors(c)
	}

	fmt.Println(disasm.Disassemble(symbols, c.Tables, seg))
	return nil
}

func reportParseErrors(c *compiler.Compiler) error {
	for _, m := range c.Errors() {
		fmt.Fprintln(os.Stderr, m.Error())
	}
	return fmt.Errorf("%d compile error(s)", c.ErrorCount())
}

// colorize reports whether stdout is an actual terminal, never when piped
// to a file or another process.
func colorize() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
