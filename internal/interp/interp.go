// Package interp is the bytecode interpreter: the design's dispatch
// loop over a flattened bytecode.ByteCodeSegment, operating on value.Closure
// activations. internal/compiler produces the segments this package
// executes; this package in turn wires itself into internal/value via
// SetUserFunctionInvoker/SetTillInvoker so that a plain value.Call on a
// user Function or a TillContinuation re-enters here without value
// importing interp (which would cycle).
package interp

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"smile/internal/bytecode"
	"smile/internal/errors"
	"smile/internal/symbol"
	"smile/internal/value"
)

// IncludeResolver loads and evaluates the module named by path (per the
// include/module semantics below), returning the value that form should yield.
// internal/module implements this against the filesystem with a
// singleflight-deduplicated cache; tests can supply a stub.
type IncludeResolver func(path string) (value.SmileArg, error)

// BreakHook is invoked by OpBrk, handing control to the embedder (a
// debugger's REPL, a step command) before execution continues.
type BreakHook func(cl *value.Closure, seg *bytecode.ByteCodeSegment, pc int)

// Interp holds everything one running program shares: the symbol table
// bytecode operands resolve against, the single persistent global
// environment LdX/StX read and write, and the optional embedder hooks.
type Interp struct {
	Symbols *symbol.Table
	Globals *value.Closure

	// Tables is the literal/descriptor pool every Ld*/NewFn operand indexes
	// into. A single program (top-level segment plus every $fn nested in
	// it) shares one CompiledTables, produced by the Compiler that compiled
	// it — see compiler.go's Compile/compileFn.
	Tables *bytecode.CompiledTables

	Include IncludeResolver
	OnBreak BreakHook
}

// New creates an interpreter with a fresh, empty global closure. info
// should be the ClosureInfo a top-level Compile call returned, so the
// global closure's dense local-slot count matches what that compile
// expects (the design's "LOCAL vs GLOBAL" distinction: a top-level
// program can have both $scope-declared dense locals and name-keyed
// globals in the same activation). tables is the same Compiler.Tables the
// program was compiled against.
func New(symbols *symbol.Table, info *bytecode.ClosureInfo, tables *bytecode.CompiledTables) *Interp {
	in := &Interp{
		Symbols: symbols,
		Globals: value.NewClosure(nil, info, info.NumVariables, info.TempSize),
		Tables:  tables,
	}
	// value.Function/value.TillContinuation hold no reference back to the
	// Interp that can run them (avoiding the internal/value <-> internal/interp
	// import cycle means that link can only be a package-level callback); the
	// most recently constructed Interp wins, matching the single-program,
	// single-active-interpreter embedding this package's callers (cmd/smile,
	// internal/repl) actually use — a module's body runs through
	// RunModule against this same Interp rather than a second one, so the
	// callback is never rebound mid-program.
	value.SetUserFunctionInvoker(in.invokeUserFunction)
	value.SetTillInvoker(invokeTill)
	return in
}

// RunModule executes a separately compiled program (an $include target) as
// its own top-level activation: its own GLOBAL closure (a module's bindings
// don't leak into the including program's globals or vice versa) and its
// own CompiledTables for the duration of the call, restoring the caller's
// before returning. A loaded module runs through this same Interp rather
// than a freshly constructed one, so the package-level invoker callbacks
// (see New, above) never get rebound mid-program.
func (in *Interp) RunModule(info *bytecode.ClosureInfo, tables *bytecode.CompiledTables, seg *bytecode.ByteCodeSegment) (value.SmileArg, error) {
	savedGlobals, savedTables := in.Globals, in.Tables
	in.Globals = value.NewClosure(nil, info, info.NumVariables, info.TempSize)
	in.Tables = tables
	defer func() { in.Globals, in.Tables = savedGlobals, savedTables }()
	return in.run(in.Globals, seg)
}

// Run executes seg as the top-level program, in the interpreter's global
// closure.
func (in *Interp) Run(seg *bytecode.ByteCodeSegment) (value.SmileArg, error) {
	return in.run(in.Globals, seg)
}

// Reglobalize swaps in a fresh global closure built from info (a new
// top-level Compile call's ClosureInfo, which always starts with an empty
// GlobalDict) while replaying every binding the previous global closure
// held, so a name bound on one REPL line is still visible when the next
// line compiles against its own, unrelated ClosureInfo. tables replaces
// in.Tables to match whatever CompiledTables that same compile interned
// literals into.
func (in *Interp) Reglobalize(info *bytecode.ClosureInfo, tables *bytecode.CompiledTables) {
	fresh := value.NewClosure(nil, info, info.NumVariables, info.TempSize)
	if in.Globals != nil {
		if old, ok := in.Globals.Info.(*bytecode.ClosureInfo); ok {
			for sym, idx := range old.GlobalDict {
				globalStore(fresh, sym, in.Globals.Variables[idx])
			}
		}
	}
	in.Globals = fresh
	in.Tables = tables
}

// catchFrame is one active $catch region: OpCatchPush records where its
// handler starts, OpCatchPop discards it on normal fallthrough, and an
// exception unwinding past any instruction in between consults the
// innermost still-active frame instead of propagating further. Scoped to a
// single run() activation, matching $catch's lexical (single-segment)
// reach. A throw from a deeper call reaches here as the error that call's
// instruction returns, which run's handling block (loop.go) routes to the
// innermost frame.
type catchFrame struct {
	handlerPC int
}

// errKind classifies an error surfacing from an instruction so run's single
// handling block (see loop.go) can route it correctly: a TillBreak unwinds
// to a matching $till's resume point regardless of any $catch in between
// (the design's escape continuations are a distinct mechanism from
// exceptions); anything else is a catchable exception.
func errKind(err error) (tillBreak *value.TillBreak, isTillBreak bool) {
	tillBreak, isTillBreak = err.(*value.TillBreak)
	return
}

// errKinded is implemented by value.KindError: a failure originating in
// internal/value that knows which of the design's named error-kind symbols
// it should surface as, rather than always falling back to eval-error.
type errKinded interface {
	ErrorKind() errors.Kind
}

// errToValue turns a Go error surfacing mid-instruction into the SmileArg a
// $catch handler receives. A *thrown error already carries the exact value
// $throw pushed; anything else (a host-level error.Exception, a
// value.KindError from a bad operation, a wrapped I/O failure) is lifted
// into a UserObject exception shaped like the design describes: "{ kind,
// message, stack-trace }", based off the shared Primitive root so it
// participates in property lookup like any other object. A $catch handler
// branching on e.kind sees arithmetic-error, type-error, property-error, or
// object-security-error where the failing value.KindError names one;
// anything else (a wrapped I/O failure, an internal invariant violation)
// still reads as the eval-error catch-all.
func errToValue(symbols *symbol.Table, err error) value.SmileArg {
	if t, ok := err.(*thrown); ok {
		return t.Value
	}
	uo := value.NewUserObject(value.Known.Primitive)
	kind := errors.EvalError
	message := err.Error()
	if exc, ok := pkgerrors.Cause(err).(*errors.Exception); ok {
		kind = exc.ErrKind
		message = exc.Message
	} else if exc, ok := err.(*errors.Exception); ok {
		kind = exc.ErrKind
		message = exc.Message
	} else if ke, ok := err.(errKinded); ok {
		kind = ke.ErrorKind()
	}
	uo.Dict[symbols.Intern("kind")] = value.FromObject(value.NewString(string(kind)))
	uo.Dict[symbols.Intern("message")] = value.FromObject(value.NewString(message))
	return value.FromObject(uo)
}

// thrown is the Go error an explicit $throw raises, carrying the thrown
// value itself rather than a re-derived message (errToValue unwraps it
// losslessly, so `[$catch [$throw v]]` yields exactly v).
type thrown struct {
	Value value.SmileArg
}

func (t *thrown) Error() string {
	return fmt.Sprintf("uncaught throw: %s", value.ToString(t.Value))
}
