// Package disasm renders a compiled bytecode.ByteCodeSegment as readable
// text: a "debug printer" (one mnemonic-plus-operand line per instruction,
// literals, symbol names and string-table operands resolved rather than left
// as raw table indices; object-table operands print as "#index") and a
// summary a CLI `disasm` subcommand or a test failure
// message can print. A flat loop over instructions formats address,
// mnemonic, and resolved operand for each opcode family in turn.
package disasm

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"smile/internal/bytecode"
	"smile/internal/symbol"
)

// Disassemble renders every instruction of seg as one line each, addresses
// and branch targets resolved to absolute addresses for readability
// (bytecode.Delta's relative encoding is what the interpreter wants, not a
// reader).
func Disassemble(symbols *symbol.Table, tables *bytecode.CompiledTables, seg *bytecode.ByteCodeSegment) string {
	var sb strings.Builder
	for addr, instr := range seg.Code {
		fmt.Fprintf(&sb, "%4d  %s\n", addr, line(symbols, tables, addr, instr))
	}
	return sb.String()
}

// line formats one instruction's mnemonic and resolved operand.
func line(symbols *symbol.Table, tables *bytecode.CompiledTables, addr int, instr bytecode.ByteCode) string {
	op := instr.Op
	mnemonic := op.String()

	switch op {
	case bytecode.OpLdBool:
		return fmt.Sprintf("%-10s %v", mnemonic, instr.Operand.Int64 != 0)
	case bytecode.OpLdByte, bytecode.OpLdInt16, bytecode.OpLdInt32, bytecode.OpLdInt64,
		bytecode.OpLdChar, bytecode.OpLdUni, bytecode.OpCall, bytecode.OpNewObj, bytecode.OpNewList:
		return fmt.Sprintf("%-10s %d", mnemonic, instr.Operand.Int64)
	case bytecode.OpLdFloat32, bytecode.OpLdFloat64, bytecode.OpLdReal32, bytecode.OpLdReal64:
		return fmt.Sprintf("%-10s %g", mnemonic, instr.Operand.Float64)
	case bytecode.OpLdSym:
		return fmt.Sprintf("%-10s %s", mnemonic, symbolName(symbols, instr.Operand.Symbol))
	case bytecode.OpLdStr, bytecode.OpLdInclude:
		return fmt.Sprintf("%-10s %s", mnemonic, quotedString(tables, int(instr.Operand.A)))
	case bytecode.OpLdObj:
		return fmt.Sprintf("%-10s #%d", mnemonic, instr.Operand.A)
	case bytecode.OpLdX, bytecode.OpStX, bytecode.OpLdProp, bytecode.OpStProp,
		bytecode.OpLdMember, bytecode.OpMet0, bytecode.OpMet1, bytecode.OpMet2, bytecode.OpMet3,
		bytecode.OpMet4, bytecode.OpMet5, bytecode.OpMet6, bytecode.OpMet7:
		return fmt.Sprintf("%-10s %s", mnemonic, symbolName(symbols, instr.Operand.Symbol))
	case bytecode.OpLdArgN, bytecode.OpStArgN, bytecode.OpLdLocN, bytecode.OpStLocN:
		return fmt.Sprintf("%-10s depth=%d slot=%d", mnemonic, instr.Operand.A, instr.Operand.B)
	case bytecode.OpMetN:
		return fmt.Sprintf("%-10s argc=%d %s", mnemonic, instr.Operand.A, symbolName(symbols, instr.Operand.Symbol))
	case bytecode.OpJmp, bytecode.OpBt, bytecode.OpBf, bytecode.OpCatchPush:
		target := addr + 1 + int(instr.Operand.Int64)
		return fmt.Sprintf("%-10s -> %d", mnemonic, target)
	case bytecode.OpNewFn:
		idx := int(instr.Operand.A)
		name := "<anonymous>"
		if idx >= 0 && idx < len(tables.UserFunctions) && tables.UserFunctions[idx].Name != "" {
			name = tables.UserFunctions[idx].Name
		}
		return fmt.Sprintf("%-10s #%d %s", mnemonic, idx, name)
	default:
		return mnemonic
	}
}

func symbolName(symbols *symbol.Table, id symbol.ID) string {
	if symbols == nil {
		return fmt.Sprintf("sym#%d", id)
	}
	return symbols.Name(id)
}

func quotedString(tables *bytecode.CompiledTables, idx int) string {
	if idx < 0 || idx >= len(tables.Strings) {
		return fmt.Sprintf("str#%d <out of range>", idx)
	}
	return fmt.Sprintf("%q", tables.Strings[idx])
}

// Summary is the compiler debug printer's header line: instruction/constant
// counts and the stack high-water mark, each rendered with thousands
// separators the way a printer reporting on a sizeable compiled program
// would (the design's "the debug printer" is otherwise unspecified in
// format, so this follows the same resolved-operand style as Disassemble
// rather than dumping raw counts).
func Summary(tables *bytecode.CompiledTables, seg *bytecode.ByteCodeSegment, maxStackDepth int) string {
	return fmt.Sprintf(
		"%s instructions, %s strings, %s objects, %s functions, max stack depth %s",
		humanize.Comma(int64(seg.Len())),
		humanize.Comma(int64(len(tables.Strings))),
		humanize.Comma(int64(len(tables.Objects))),
		humanize.Comma(int64(len(tables.UserFunctions))),
		humanize.Comma(int64(maxStackDepth)),
	)
}
