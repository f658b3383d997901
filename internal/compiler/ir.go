package compiler

import "smile/internal/bytecode"

// instrKind distinguishes a real (bytecode-emitting) instruction from the
// one pseudo-instruction form this IR uses: a zero-size Label a branch
// points at. Child blocks are spliced straight into their parent's list
// rather than marked by a pseudo-instruction. Labels never reach a
// ByteCodeSegment; flatten/resolve/emit strips them away first.
type instrKind uint8

const (
	instrReal instrKind = iota
	instrLabel
)

// Instruction is one node of the compiler's doubly-linked intermediate
// list (the design, "Intermediate Block"): "a doubly-linked list; each has
// an opcode, a pre-resolution instruction_address, a source-location
// index, the same operand union as bytecode, plus either a child_block ...
// or a branch_target".
type Instruction struct {
	prev, next *Instruction

	kind    instrKind
	op      bytecode.OpCode
	operand bytecode.Operand
	srcLoc  int

	// branchTarget is set on Jmp/Bt/Bf and points at the Label
	// pseudo-instruction this branch resolves against.
	branchTarget *Instruction

	// address is assigned during flatten/resolve, once this instruction's
	// final position in the emitted ByteCodeSegment is known.
	address int
}

// Block is the design's "Intermediate block": "{ parent, first, last,
// num_instructions, max_stack_depth, final_stack_delta, flags }". Rather
// than holding a separate Op_Block pseudo-instruction for every compiled
// sub-expression and a distinct flatten pass that splices them in
// afterward, this implementation splices a completed child block's
// instruction list into its parent immediately, in Append — by the time
// the top-level Compile call finishes, the result is the identical single
// flattened list the design's step 1 describes, just produced incrementally
// instead of in one pass at the end. See DESIGN.md.
type Block struct {
	Parent *Block
	first, last *Instruction

	NumInstructions int
	MaxStackDepth   int
	FinalStackDelta int
	Flags           BlockFlags

	depth int // running stack depth, relative to this block's start
}

// BlockFlags mirrors the design's block flags: ESCAPE (all paths leave via
// return/throw) and ERROR (malformed form; must not be emitted/executed).
type BlockFlags uint8

const (
	FlagEscape BlockFlags = 1 << iota
	FlagError
)

func NewBlock(parent *Block) *Block {
	return &Block{Parent: parent}
}

// link appends an already-constructed Instruction node to b's list.
func (b *Block) link(instr *Instruction) {
	if b.last == nil {
		b.first = instr
		b.last = instr
	} else {
		instr.prev = b.last
		b.last.next = instr
		b.last = instr
	}
	b.NumInstructions++
}

// Emit appends a real instruction with the given net stack effect
// (stackDelta), updating MaxStackDepth as the running-sum maximum and
// FinalStackDelta as the running sum, exactly as the design's
// "Stack-depth tracking" describes.
func (b *Block) Emit(op bytecode.OpCode, operand bytecode.Operand, stackDelta int, srcLoc int) *Instruction {
	instr := &Instruction{kind: instrReal, op: op, operand: operand, srcLoc: srcLoc}
	b.link(instr)
	b.depth += stackDelta
	if b.depth > b.MaxStackDepth {
		b.MaxStackDepth = b.depth
	}
	b.FinalStackDelta = b.depth
	return instr
}

// EmitLabel appends a zero-size label pseudo-instruction that a later
// EmitBranch can target.
func (b *Block) EmitLabel() *Instruction {
	instr := &Instruction{kind: instrLabel}
	b.link(instr)
	return instr
}

// EmitBranch appends Jmp/Bt/Bf targeting label. Bt/Bf pop their condition
// (stackDelta -1); Jmp is stack-neutral.
func (b *Block) EmitBranch(op bytecode.OpCode, label *Instruction, srcLoc int) *Instruction {
	stackDelta := 0
	if op == bytecode.OpBt || op == bytecode.OpBf {
		stackDelta = -1
	}
	instr := b.Emit(op, bytecode.Operand{}, stackDelta, srcLoc)
	instr.branchTarget = label
	return instr
}

// Append splices child's instruction list onto the end of b, and folds its
// stack-depth accounting into b's running totals as though child's
// instructions had been emitted directly into b at the current depth.
func (b *Block) Append(child *Block) {
	if child.first == nil {
		return
	}
	base := b.depth
	if base+child.MaxStackDepth > b.MaxStackDepth {
		b.MaxStackDepth = base + child.MaxStackDepth
	}
	b.splice(child)
	b.depth = base + child.FinalStackDelta
	b.FinalStackDelta = b.depth
}

// AppendAt splices child in exactly like Append, except the stack-depth
// accounting treats child as starting from the given base rather than b's
// current running depth. special_forms.go's $if uses this for its then/else
// arms: both are alternatives reached from the same depth (the one left
// after the condition's Bf/Bt pops it), not a sequence where the else arm
// follows the then arm's net effect.
func (b *Block) AppendAt(child *Block, base int) {
	if child.first == nil {
		return
	}
	if base+child.MaxStackDepth > b.MaxStackDepth {
		b.MaxStackDepth = base + child.MaxStackDepth
	}
	b.splice(child)
	b.depth = base + child.FinalStackDelta
	b.FinalStackDelta = b.depth
}

// splice is the list-surgery half of Append/AppendAt: link child's
// instructions onto b and merge non-stack bookkeeping, leaving all
// depth/MaxStackDepth arithmetic to the caller.
func (b *Block) splice(child *Block) {
	b.NumInstructions += child.NumInstructions
	if b.last == nil {
		b.first = child.first
	} else {
		b.last.next = child.first
		child.first.prev = b.last
	}
	b.last = child.last
	b.Flags |= child.Flags & FlagError
}

// linkLabel appends an already-allocated label pseudo-instruction (one a
// branch emitted earlier already points at via branchTarget) to b's list,
// without touching stack-depth accounting.
func (b *Block) linkLabel(label *Instruction) {
	label.kind = instrLabel
	b.link(label)
}

// MarkEscape sets FlagEscape: every path out of b ends in return/throw.
func (b *Block) MarkEscape() { b.Flags |= FlagEscape }

// MarkError sets FlagError: b came from a malformed form and its
// instructions must never be emitted into a running program.
func (b *Block) MarkError() { b.Flags |= FlagError }

func (b *Block) IsEscape() bool { return b.Flags&FlagEscape != 0 }
func (b *Block) IsError() bool  { return b.Flags&FlagError != 0 }
