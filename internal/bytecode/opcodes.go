// Package bytecode holds the flat instruction format the interpreter
// executes and the per-program tables its operands index into: the design's
// "Compiled Tables" and "Bytecode Segment", and the opcode catalogue of
// the design. internal/compiler lowers an AST into this shape; internal/interp
// executes it.
package bytecode

// OpCode is the 8-bit instruction tag. The source's ByteCodeStruct uses a
// machine-word opcode (32 or 64 bits, "for alignment with the operand
// union"); Go has no such alignment pressure, so a byte is plenty and keeps
// ByteCode small without losing any of the families below.
type OpCode byte

const (
	// --- Load literals ----------------------------------------------------
	// Operand: none, except where noted.
	OpLdNull    OpCode = iota // push Null
	OpLdBool                  // Operand.Int64 (nonzero = true): push Bool
	OpLdByte                  // Operand.Int64 (low byte): push Byte
	OpLdInt16                 // Operand.Int64 (low 16 bits): push Integer16
	OpLdInt32                 // Operand.Int64 (low 32 bits): push Integer32
	OpLdInt64                 // Operand.Int64: push Integer64
	OpLdFloat32               // Operand.Float64: push Float32
	OpLdFloat64               // Operand.Float64: push Float64
	OpLdReal32                // Operand.Float64: push Real32
	OpLdReal64                // Operand.Float64: push Real64
	OpLdChar                  // Operand.Int64 (low byte): push Char
	OpLdUni                   // Operand.Int64 (low 32 bits as rune): push UniChar
	OpLdSym                   // Operand.Symbol: push Symbol
	OpLdStr                   // Operand.A: index into CompiledTables.Strings: push String
	OpLdObj                   // Operand.A: index into CompiledTables.Objects: push Object

	// --- Variable load/store ----------------------------------------------
	OpLdX // Operand.Symbol: outer GLOBAL-closure name-keyed load
	OpStX // Operand.Symbol: outer GLOBAL-closure name-keyed store

	OpLdArg0 // slot 0..7 in the current frame
	OpLdArg1
	OpLdArg2
	OpLdArg3
	OpLdArg4
	OpLdArg5
	OpLdArg6
	OpLdArg7
	OpLdArgN // Operand.A: function-nesting depth, Operand.B: slot; general form for an enclosing frame or a slot >= 8

	OpStArg0
	OpStArg1
	OpStArg2
	OpStArg3
	OpStArg4
	OpStArg5
	OpStArg6
	OpStArg7
	OpStArgN

	OpLdLoc0
	OpLdLoc1
	OpLdLoc2
	OpLdLoc3
	OpLdLoc4
	OpLdLoc5
	OpLdLoc6
	OpLdLoc7
	OpLdLocN

	OpStLoc0
	OpStLoc1
	OpStLoc2
	OpStLoc3
	OpStLoc4
	OpStLoc5
	OpStLoc6
	OpStLoc7
	OpStLocN

	// --- Property load/store -----------------------------------------------
	OpLdProp // Operand.Symbol
	OpStProp // Operand.Symbol

	OpLdA
	OpLdD
	OpLdLeft
	OpLdRight
	OpLdStart
	OpLdEnd
	OpLdCount
	OpLdLength
	OpLdMember // single-arg get-member fast path; Operand.Symbol names the method

	// --- Control -----------------------------------------------------------
	OpJmp // Operand.Int64 (relative delta): unconditional relative jump
	OpBt  // Operand.Int64 (relative delta): pop, branch if true
	OpBf  // Operand.Int64 (relative delta): pop, branch if false
	OpBrk // explicit breakpoint; hands control to the embedder

	// --- Calls ---------------------------------------------------------
	OpCall // Operand.Int64: argc; pops callee + argc args, pushes result

	OpMet0 // Operand.Symbol: receiver + 0 args already on stack
	OpMet1
	OpMet2
	OpMet3
	OpMet4
	OpMet5
	OpMet6
	OpMet7
	OpMetN // Operand.A: argc, Operand.Symbol: method; general method call for argc > 7

	OpRet // pop result (if any), unwind to the caller

	// --- Construction --------------------------------------------------
	OpNewFn  // Operand.A: index into CompiledTables.UserFunctions: push a new closure-carrying Function
	OpNewObj // Operand.Int64: n property pairs; pops base + 2n, pushes new UserObject
	OpNewPair
	OpNewList // Operand.Int64: n; pops n items, pushes a proper list

	// OpNewTill pushes a fresh value.TillContinuation: $till's lowering emits
	// one per named continuation on each activation, so nested/recursive
	// $till forms get distinct break targets. Not in the design's literal
	// opcode list; see DESIGN.md.
	OpNewTill

	// --- Include ---------------------------------------------------------
	OpLdInclude // Operand.A: index into CompiledTables.Strings naming the module path; resolved and cached by internal/module at run time

	// --- Stack utility ---------------------------------------------------
	OpPop
	OpDup
	OpSwap

	// --- Comparison --------------------------------------------------------
	// $eq/$ne are pre-known symbol IDs (the design) but, unlike +/-/*//%,
	// have no corresponding operator-method name for a Met1 dispatch to
	// land on; these two opcodes give them a direct, allocation-free
	// lowering instead of inventing a dispatched "==" method every kind's
	// vtable would otherwise need a GetProperty entry for. See DESIGN.md.
	OpEq  // pop b, pop a, push Bool(value.CompareEqual(a, b))
	OpNe  // pop b, pop a, push Bool(!value.CompareEqual(a, b))
	OpNot // pop v, push Bool(!value.ToBool(v)); $not's lowering

	// --- Exceptions -------------------------------------------------------
	// Not individually enumerated in the design's opcode-family list, but
	// required to realize the design's "Escape continuations"/Throw
	// primitive as concrete bytecode rather than a host setjmp: see
	// DESIGN.md's Open Question resolution for $catch/$throw.
	OpCatchPush // Operand.Int64 (relative delta): push an active catch frame whose handler starts at pc+1+delta
	OpCatchPop  // pop the innermost active catch frame (normal, non-exceptional fallthrough)
	OpThrow     // pop a value, raise it as a language-level exception

	numOpCodes
)

var opcodeNames = [numOpCodes]string{
	OpLdNull: "LdNull", OpLdBool: "LdBool", OpLdByte: "LdByte", OpLdInt16: "LdInt16",
	OpLdInt32: "LdInt32", OpLdInt64: "LdInt64", OpLdFloat32: "LdFloat32", OpLdFloat64: "LdFloat64",
	OpLdReal32: "LdReal32", OpLdReal64: "LdReal64", OpLdChar: "LdChar", OpLdUni: "LdUni",
	OpLdSym: "LdSym", OpLdStr: "LdStr", OpLdObj: "LdObj",
	OpLdX: "LdX", OpStX: "StX",
	OpLdArg0: "LdArg0", OpLdArg1: "LdArg1", OpLdArg2: "LdArg2", OpLdArg3: "LdArg3",
	OpLdArg4: "LdArg4", OpLdArg5: "LdArg5", OpLdArg6: "LdArg6", OpLdArg7: "LdArg7", OpLdArgN: "LdArgN",
	OpStArg0: "StArg0", OpStArg1: "StArg1", OpStArg2: "StArg2", OpStArg3: "StArg3",
	OpStArg4: "StArg4", OpStArg5: "StArg5", OpStArg6: "StArg6", OpStArg7: "StArg7", OpStArgN: "StArgN",
	OpLdLoc0: "LdLoc0", OpLdLoc1: "LdLoc1", OpLdLoc2: "LdLoc2", OpLdLoc3: "LdLoc3",
	OpLdLoc4: "LdLoc4", OpLdLoc5: "LdLoc5", OpLdLoc6: "LdLoc6", OpLdLoc7: "LdLoc7", OpLdLocN: "LdLocN",
	OpStLoc0: "StLoc0", OpStLoc1: "StLoc1", OpStLoc2: "StLoc2", OpStLoc3: "StLoc3",
	OpStLoc4: "StLoc4", OpStLoc5: "StLoc5", OpStLoc6: "StLoc6", OpStLoc7: "StLoc7", OpStLocN: "StLocN",
	OpLdProp: "LdProp", OpStProp: "StProp",
	OpLdA: "LdA", OpLdD: "LdD", OpLdLeft: "LdLeft", OpLdRight: "LdRight",
	OpLdStart: "LdStart", OpLdEnd: "LdEnd", OpLdCount: "LdCount", OpLdLength: "LdLength",
	OpLdMember: "LdMember",
	OpJmp:      "Jmp", OpBt: "Bt", OpBf: "Bf", OpBrk: "Brk",
	OpCall: "Call",
	OpMet0: "Met0", OpMet1: "Met1", OpMet2: "Met2", OpMet3: "Met3",
	OpMet4: "Met4", OpMet5: "Met5", OpMet6: "Met6", OpMet7: "Met7", OpMetN: "MetN",
	OpRet:       "Ret",
	OpNewFn:     "NewFn", OpNewObj: "NewObj", OpNewPair: "NewPair", OpNewList: "NewList",
	OpNewTill:   "NewTill",
	OpLdInclude: "LdInclude",
	OpPop:       "Pop", OpDup: "Dup", OpSwap: "Swap",
	OpEq: "Eq", OpNe: "Ne", OpNot: "Not",
	OpCatchPush: "CatchPush", OpCatchPop: "CatchPop", OpThrow: "Throw",
}

// String renders an opcode's mnemonic, used by the disassembler and error
// messages.
func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "Op?"
}

// shortSlot returns the fixed slot for one of the Ld/StArg0..7 or
// Ld/StLoc0..7 short forms, given the family's first opcode as base. The
// compiler (encodeVarOp) and the interpreter (shortVarSlot) do their own
// opcode arithmetic and do not call it.
func shortSlot(op, base OpCode) int { return int(op - base) }
