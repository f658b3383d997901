package compiler

import "smile/internal/bytecode"

// Flatten walks block's already-spliced instruction list (see Block.Append)
// and produces a finished bytecode.ByteCodeSegment, in the three steps
// the design describes as "Calculate addresses", "Resolve branches", and
// "Emit": label pseudo-instructions are given the address of the next real
// instruction (so a branch pointing at one resolves against where
// execution actually continues) and excluded from the emitted segment;
// every branch's delta is computed and written into its operand; then each
// real instruction is copied into the segment in order.
func Flatten(block *Block) *bytecode.ByteCodeSegment {
	addr := 0
	for instr := block.first; instr != nil; instr = instr.next {
		instr.address = addr
		if instr.kind != instrLabel {
			addr++
		}
	}

	for instr := block.first; instr != nil; instr = instr.next {
		if instr.kind != instrReal || instr.branchTarget == nil {
			continue
		}
		instr.operand.Int64 = bytecode.Delta(instr.address, instr.branchTarget.address)
	}

	seg := bytecode.NewSegment()
	for instr := block.first; instr != nil; instr = instr.next {
		if instr.kind != instrReal {
			continue
		}
		seg.Append(bytecode.ByteCode{
			Op:             instr.op,
			Operand:        instr.operand,
			SourceLocation: instr.srcLoc,
		})
	}
	return seg
}
