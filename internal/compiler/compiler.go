// Package compiler lowers an AST (the design: ordinary value.SmileArg trees
// — Lists, Pairs, Symbols, literals) into bytecode, by way of the
// intermediate block IR in ir.go. One Compiler compiles one top-level
// program or $fn body; CompileExpr is the recursive special-form/call
// dispatcher the design describes.
package compiler

import (
	"smile/internal/ast"
	"smile/internal/bytecode"
	"smile/internal/errors"
	"smile/internal/symbol"
	"smile/internal/value"
)

// Flags controls whether a compiled expression's result is kept on the
// stack. Every CompileExpr call site either wants the value (default) or
// knows it's discarding it (a non-final statement in a $progn body), in
// which case FlagNoResult lets the compiler skip pushing it at all instead
// of pushing then popping.
type Flags uint8

const (
	FlagNoResult Flags = 1 << iota
)

// Compiler holds the state threaded through one compile: the symbol table
// shared with the rest of the engine, the tables a finished program's
// literals/closures/user-functions are interned into, and the current
// function-nesting scope chain.
type Compiler struct {
	Symbols *symbol.Table
	Tables  *bytecode.CompiledTables

	fn                   *funcFrame
	currentUserFunction  *bytecode.UserFunctionInfo

	curSrcLoc  int
	srcFile    string
	messages   []*errors.ParseMessage
	errorCount int
}

// New creates a Compiler ready to compile a top-level program: fn is seeded
// with an outermost funcFrame acting as the program's own LOCAL frame, per
// scope.go's doc comment.
func New(symbols *symbol.Table) *Compiler {
	return &Compiler{
		Symbols: symbols,
		Tables:  bytecode.NewCompiledTables(),
		fn:      newFuncFrame(nil),
	}
}

// Errors returns every diagnostic message accumulated so far, in the order
// they were raised.
func (c *Compiler) Errors() []*errors.ParseMessage { return c.messages }

// ErrorCount returns how many of Errors() are Severity >= errors.Error.
func (c *Compiler) ErrorCount() int { return c.errorCount }

// HasErrors reports whether compiling produced any ERROR/FATAL message; the
// caller should not hand the resulting segment to the interpreter if so.
func (c *Compiler) HasErrors() bool { return c.errorCount > 0 }

func (c *Compiler) addMessage(sev errors.Severity, text string) {
	pos := errors.Position{File: c.srcFile, Line: c.curSrcLoc}
	c.messages = append(c.messages, errors.NewParseMessage(sev, pos, text))
	if sev >= errors.Error {
		c.errorCount++
	}
}

// fail records an ERROR diagnostic and marks b malformed (the design's
// block ERROR flag: "instructions must never be emitted into a running
// program"), returning b for a one-line `return c.fail(...)` at each call
// site.
func (c *Compiler) fail(b *Block, text string) *Block {
	c.addMessage(errors.Error, text)
	b.MarkError()
	return b
}

// suppress appends Pop when flags asks the caller to discard a value this
// block just pushed (FinalStackDelta == 1): the uniform "push the result,
// then drop it if unwanted" convention every form in special_forms.go and
// calls.go follows, so assignment/call/control forms need not special-case
// NoResult internally.
func (c *Compiler) suppress(b *Block, flags Flags) {
	if flags&FlagNoResult != 0 && b.FinalStackDelta == 1 {
		b.Emit(bytecode.OpPop, bytecode.Operand{}, -1, c.curSrcLoc)
	}
}

// Compile compiles a whole top-level program (by convention a single
// expression; callers that have several top-level forms wrap them in a
// $progn first). It returns the flattened segment plus the program's own
// ClosureInfo: a GLOBAL closure, since top-level bindings are name-keyed
// rather than slot-assigned.
func (c *Compiler) Compile(program value.SmileArg) (*bytecode.ByteCodeSegment, *bytecode.ClosureInfo) {
	block := c.CompileExpr(program, 0)
	seg := Flatten(block)
	info := &bytecode.ClosureInfo{
		Kind:          bytecode.ClosureGlobal,
		NumVariables:  c.fn.nextLocalSlot,
		TempSize:      block.MaxStackDepth,
		VariableNames: append([]symbol.ID(nil), c.fn.slotNames...),
		GlobalDict:    make(map[symbol.ID]int),
	}
	return seg, info
}

// CompileExpr is the single recursive entry point every lowering in
// special_forms.go/calls.go calls back into for a sub-expression: it
// classifies expr by shape (symbol, list, literal) and dispatches to the
// matching compile* helper.
func (c *Compiler) CompileExpr(expr value.SmileArg, flags Flags) *Block {
	if loc, ok := value.GetSourceLocation(expr); ok {
		c.curSrcLoc = loc.Line
	}

	switch {
	case expr.IsSymbol():
		return c.compileVarRead(expr.AsSymbol(), flags)
	case expr.Kind == value.KindList:
		return c.compileList(expr, flags)
	case expr.Kind == value.KindPair:
		b := NewBlock(nil)
		return c.fail(b, "a (receiver . method) pair is only valid as a call's callee")
	default:
		return c.compileLiteral(expr, flags)
	}
}

// compileList dispatches a non-empty list expression: special forms named
// in the design's known-symbol block get dedicated lowering below;
// everything else is a call (general or method, per calls.go).
func (c *Compiler) compileList(expr value.SmileArg, flags Flags) *Block {
	l, ok := expr.Obj.(*value.List)
	if !ok {
		b := NewBlock(nil)
		return c.fail(b, "malformed list expression")
	}
	head := value.FromObject(l.A)
	tailItems := ast.Items(value.FromObject(l.D))

	if head.IsSymbol() {
		switch head.AsSymbol() {
		case symbol.SIf:
			return c.compileIf(tailItems, flags)
		case symbol.SAnd:
			return c.compileAnd(tailItems, flags)
		case symbol.SOr:
			return c.compileOr(tailItems, flags)
		case symbol.SNot:
			return c.compileNot(tailItems, flags)
		case symbol.SScope:
			return c.compileScope(tailItems, flags)
		case symbol.SProgn:
			return c.compileProgn(tailItems, flags)
		case symbol.SProg1:
			return c.compileProg1(tailItems, flags)
		case symbol.SFn:
			return c.compileFn(tailItems, flags)
		case symbol.SQuote:
			return c.compileQuote(tailItems, flags)
		case symbol.SReturn:
			return c.compileReturn(tailItems, flags)
		case symbol.SNew:
			return c.compileNew(tailItems, flags)
		case symbol.SInclude:
			return c.compileInclude(tailItems, flags)
		case symbol.SBrk:
			return c.compileBrk(tailItems, flags)
		case symbol.SSet:
			return c.compileSet(tailItems, flags)
		case symbol.SOpset:
			return c.compileOpset(tailItems, flags)
		case symbol.SWhile:
			return c.compileWhile(tailItems, flags)
		case symbol.STill:
			return c.compileTill(tailItems, flags)
		case symbol.SCatch:
			return c.compileCatch(tailItems, flags)
		case symbol.SThrow:
			return c.compileThrow(tailItems, flags)
		case symbol.SEq:
			return c.compileEqNe(tailItems, bytecode.OpEq, flags)
		case symbol.SNe:
			return c.compileEqNe(tailItems, bytecode.OpNe, flags)
		case symbol.SDot:
			return c.compileDotForm(tailItems, flags)
		}
	}

	return c.compileCallForm(l, flags)
}
