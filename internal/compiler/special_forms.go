package compiler

import (
	"smile/internal/ast"
	"smile/internal/bytecode"
	"smile/internal/symbol"
	"smile/internal/value"
)

// stripNot recognizes a `[$not inner]` wrapper and returns inner with
// inverted=true, or expr unchanged with inverted=false otherwise. $if and
// $while call this on their condition so `[$if [$not x] a b]` compiles to
// the same branch as `[$if x b a]` would, per the design's "after
// stripping any wrapping $not" note, instead of compiling $not's own Not
// opcode and then branching on that.
func stripNot(expr value.SmileArg) (inner value.SmileArg, inverted bool) {
	if !ast.IsList(expr) {
		return expr, false
	}
	l, ok := expr.Obj.(*value.List)
	if !ok || !value.FromObject(l.A).IsSymbol() || value.FromObject(l.A).AsSymbol() != symbol.SNot {
		return expr, false
	}
	tail := ast.Items(value.FromObject(l.D))
	if len(tail) != 1 {
		return expr, false
	}
	return tail[0], true
}

func (c *Compiler) compileIf(items []value.SmileArg, flags Flags) *Block {
	if len(items) < 2 || len(items) > 3 {
		b := NewBlock(nil)
		return c.fail(b, "$if needs a condition and a then-branch, and at most one else-branch")
	}
	cond, thenExpr := items[0], items[1]
	elseExpr := value.Null()
	if len(items) == 3 {
		elseExpr = items[2]
	}

	inner, inverted := stripNot(cond)
	branchOp := bytecode.OpBf
	if inverted {
		branchOp = bytecode.OpBt
		cond = inner
	}

	b := NewBlock(nil)
	b.Append(c.CompileExpr(cond, 0))

	elseLabel := &Instruction{}
	endLabel := &Instruction{}
	b.EmitBranch(branchOp, elseLabel, c.curSrcLoc)

	base := b.depth
	thenBlock := c.CompileExpr(thenExpr, flags)
	b.AppendAt(thenBlock, base)
	b.EmitBranch(bytecode.OpJmp, endLabel, c.curSrcLoc)

	b.linkLabel(elseLabel)
	elseBlock := c.CompileExpr(elseExpr, flags)
	b.AppendAt(elseBlock, base)

	b.linkLabel(endLabel)

	if thenBlock.IsEscape() && elseBlock.IsEscape() {
		b.MarkEscape()
	}
	return b
}

// compileAnd/compileOr both test every operand in turn and settle on a
// coerced LdBool true/false, never either operand's own value: $and
// branches to the false label the moment an operand tests false and falls
// through to LdBool true if none did; $or is the mirror image, branching
// to the true label the moment an operand tests true.
func (c *Compiler) compileAnd(items []value.SmileArg, flags Flags) *Block {
	return c.compileShortCircuit(items, bytecode.OpBf, flags)
}

func (c *Compiler) compileOr(items []value.SmileArg, flags Flags) *Block {
	return c.compileShortCircuit(items, bytecode.OpBt, flags)
}

func (c *Compiler) compileShortCircuit(items []value.SmileArg, testOp bytecode.OpCode, flags Flags) *Block {
	fallThrough := testOp == bytecode.OpBf // $and's all-true case, $or's all-false case
	if len(items) == 0 {
		return c.compileLiteral(value.FromBool(fallThrough), flags)
	}
	b := NewBlock(nil)
	decidedLabel := &Instruction{}
	endLabel := &Instruction{}
	for _, item := range items {
		operand := item
		op := testOp
		if inner, ok := stripNot(item); ok {
			operand = inner
			if op == bytecode.OpBf {
				op = bytecode.OpBt
			} else {
				op = bytecode.OpBf
			}
		}
		b.Append(c.CompileExpr(operand, 0))
		b.EmitBranch(op, decidedLabel, c.curSrcLoc)
	}

	// Both paths below reach here from the same depth (every operand's
	// test already popped it), so, like compileIf's then/else arms, each
	// is appended at that same base rather than chained onto the other's
	// net effect.
	base := b.depth

	fallBlock := NewBlock(nil)
	fallBlock.Emit(bytecode.OpLdBool, bytecode.Operand{Int64: boolInt64(fallThrough)}, 1, c.curSrcLoc)
	fallBlock.EmitBranch(bytecode.OpJmp, endLabel, c.curSrcLoc)
	b.AppendAt(fallBlock, base)

	b.linkLabel(decidedLabel)
	decidedBlock := NewBlock(nil)
	decidedBlock.Emit(bytecode.OpLdBool, bytecode.Operand{Int64: boolInt64(!fallThrough)}, 1, c.curSrcLoc)
	b.AppendAt(decidedBlock, base)

	b.linkLabel(endLabel)
	c.suppress(b, flags)
	return b
}

func boolInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func (c *Compiler) compileNot(items []value.SmileArg, flags Flags) *Block {
	if len(items) != 1 {
		b := NewBlock(nil)
		return c.fail(b, "$not takes exactly one argument")
	}
	b := NewBlock(nil)
	b.Append(c.CompileExpr(items[0], 0))
	b.Emit(bytecode.OpNot, bytecode.Operand{}, 0, c.curSrcLoc)
	c.suppress(b, flags)
	return b
}

func (c *Compiler) compileScope(items []value.SmileArg, flags Flags) *Block {
	if len(items) < 1 || !ast.IsList(items[0]) && !ast.IsNull(items[0]) {
		b := NewBlock(nil)
		return c.fail(b, "$scope needs a declaration list as its first argument")
	}
	names := ast.Items(items[0])
	body := items[1:]

	b := NewBlock(nil)
	c.fn.pushScope()
	for _, n := range names {
		if !n.IsSymbol() {
			c.fail(b, "$scope declarations must be symbols")
			continue
		}
		decl := c.fn.declareLocal(n.AsSymbol())
		b.Emit(bytecode.OpLdNull, bytecode.Operand{}, 1, c.curSrcLoc)
		op, operand := c.encodeVarOp(decl, 0, true)
		// Store opcodes peek rather than pop (they leave the stored value on
		// the stack, so an assignment expression composes uniformly with
		// c.suppress); a declaration's init value is never read, so an
		// explicit Pop follows instead of folding -1 into the store itself.
		b.Emit(op, operand, 0, c.curSrcLoc)
		b.Emit(bytecode.OpPop, bytecode.Operand{}, -1, c.curSrcLoc)
	}
	b.Append(c.compileProgn(body, flags))
	c.fn.popScope()
	return b
}

func (c *Compiler) compileProgn(items []value.SmileArg, flags Flags) *Block {
	if len(items) == 0 {
		return c.compileLiteral(value.Null(), flags)
	}
	b := NewBlock(nil)
	for _, it := range items[:len(items)-1] {
		b.Append(c.CompileExpr(it, FlagNoResult))
	}
	last := c.CompileExpr(items[len(items)-1], flags)
	b.Append(last)
	if last.IsEscape() {
		b.MarkEscape()
	}
	return b
}

func (c *Compiler) compileProg1(items []value.SmileArg, flags Flags) *Block {
	if len(items) == 0 {
		return c.compileLiteral(value.Null(), flags)
	}
	b := NewBlock(nil)
	b.Append(c.CompileExpr(items[0], 0))
	for _, it := range items[1:] {
		b.Append(c.CompileExpr(it, FlagNoResult))
	}
	c.suppress(b, flags)
	return b
}

func (c *Compiler) compileQuote(items []value.SmileArg, flags Flags) *Block {
	if len(items) != 1 {
		b := NewBlock(nil)
		return c.fail(b, "$quote takes exactly one argument")
	}
	return c.compileLiteral(items[0], flags)
}

func (c *Compiler) compileReturn(items []value.SmileArg, flags Flags) *Block {
	if len(items) > 1 {
		b := NewBlock(nil)
		return c.fail(b, "$return takes at most one argument")
	}
	b := NewBlock(nil)
	if len(items) == 0 {
		b.Emit(bytecode.OpLdNull, bytecode.Operand{}, 1, c.curSrcLoc)
	} else {
		b.Append(c.CompileExpr(items[0], 0))
	}
	b.Emit(bytecode.OpRet, bytecode.Operand{}, -1, c.curSrcLoc)
	b.MarkEscape()
	return b
}

func (c *Compiler) compileNew(items []value.SmileArg, flags Flags) *Block {
	if len(items) < 1 || len(items)%2 != 1 {
		b := NewBlock(nil)
		return c.fail(b, "$new needs a base and property/value pairs")
	}
	b := NewBlock(nil)
	b.Append(c.CompileExpr(items[0], 0))
	pairs := items[1:]
	n := len(pairs) / 2
	for i := 0; i < n; i++ {
		propExpr := pairs[2*i]
		if !propExpr.IsSymbol() {
			c.fail(b, "$new property names must be symbols")
			continue
		}
		b.Emit(bytecode.OpLdSym, bytecode.Operand{Symbol: propExpr.AsSymbol()}, 1, c.curSrcLoc)
		b.Append(c.CompileExpr(pairs[2*i+1], 0))
	}
	b.Emit(bytecode.OpNewObj, bytecode.Operand{Int64: int64(n)}, -(2 * n), c.curSrcLoc)
	c.suppress(b, flags)
	return b
}

func (c *Compiler) compileInclude(items []value.SmileArg, flags Flags) *Block {
	if len(items) != 1 {
		b := NewBlock(nil)
		return c.fail(b, "$include takes exactly one path argument")
	}
	str, ok := items[0].Obj.(*value.String)
	if !ok {
		b := NewBlock(nil)
		return c.fail(b, "$include's argument must be a literal string path")
	}
	b := NewBlock(nil)
	idx := c.Tables.AddString(str.Text)
	b.Emit(bytecode.OpLdInclude, bytecode.Operand{A: int32(idx)}, 1, c.curSrcLoc)
	c.suppress(b, flags)
	return b
}

// compileBrk lowers `[$brk name expr?]`: name resolves to a TillContinuation
// bound by the matching $till, expr is the value to unwind to it with (Null
// if omitted). Calling it raises value.TillBreak, which never returns to
// this call site — see DESIGN.md's $catch/$throw/$till Open Question note.
func (c *Compiler) compileBrk(items []value.SmileArg, flags Flags) *Block {
	if len(items) < 1 || len(items) > 2 || !items[0].IsSymbol() {
		b := NewBlock(nil)
		return c.fail(b, "$brk needs a continuation name and an optional value")
	}
	valExpr := value.Null()
	if len(items) == 2 {
		valExpr = items[1]
	}
	b := NewBlock(nil)
	b.Append(c.compileVarRead(items[0].AsSymbol(), 0))
	b.Append(c.CompileExpr(valExpr, 0))
	b.Emit(bytecode.OpCall, bytecode.Operand{Int64: 1}, -1, c.curSrcLoc)
	b.MarkEscape()
	c.suppress(b, flags)
	return b
}

func (c *Compiler) compileSet(items []value.SmileArg, flags Flags) *Block {
	if len(items) != 2 {
		b := NewBlock(nil)
		return c.fail(b, "$set takes a target and a value")
	}
	target, valExpr := items[0], items[1]
	switch {
	case target.IsSymbol():
		return c.emitVarWrite(target.AsSymbol(), valExpr, flags)
	case target.Kind == value.KindPair:
		recv := ast.PairLeft(target)
		prop := ast.PairRight(target)
		if !prop.IsSymbol() {
			b := NewBlock(nil)
			return c.fail(b, "$set property target must be (receiver . symbol)")
		}
		return c.emitPropWrite(recv, prop.AsSymbol(), valExpr, flags)
	default:
		b := NewBlock(nil)
		return c.fail(b, "$set target must be a symbol or a (receiver . property) pair")
	}
}

// compileOpset lowers `[$opset op target expr]` ("target = target op expr")
// for a variable target. A (receiver . property) target is not accepted:
// it fails with a compile error.
func (c *Compiler) compileOpset(items []value.SmileArg, flags Flags) *Block {
	if len(items) != 3 || !items[0].IsSymbol() || !items[1].IsSymbol() {
		b := NewBlock(nil)
		return c.fail(b, "$opset needs an operator symbol, a variable target, and a value")
	}
	opSym := items[0].AsSymbol()
	sym := items[1].AsSymbol()

	b := NewBlock(nil)
	b.Append(c.compileVarRead(sym, 0))
	b.Append(c.CompileExpr(items[2], 0))
	b.Emit(bytecode.OpMet1, bytecode.Operand{Symbol: opSym}, -1, c.curSrcLoc)

	decl, dist, found := c.fn.resolve(sym)
	if found {
		op, operand := c.encodeVarOp(decl, dist, true)
		b.Emit(op, operand, 0, c.curSrcLoc)
	} else {
		b.Emit(bytecode.OpStX, bytecode.Operand{Symbol: sym}, 0, c.curSrcLoc)
	}
	c.suppress(b, flags)
	return b
}

func (c *Compiler) compileWhile(items []value.SmileArg, flags Flags) *Block {
	if len(items) < 1 {
		b := NewBlock(nil)
		return c.fail(b, "$while needs a condition")
	}
	cond, body := items[0], items[1:]
	inner, inverted := stripNot(cond)
	branchOp := bytecode.OpBf
	if inverted {
		branchOp = bytecode.OpBt
		cond = inner
	}

	b := NewBlock(nil)
	topLabel := &Instruction{}
	endLabel := &Instruction{}
	b.linkLabel(topLabel)
	b.Append(c.CompileExpr(cond, 0))
	b.EmitBranch(branchOp, endLabel, c.curSrcLoc)
	b.Append(c.compileProgn(body, FlagNoResult))
	b.EmitBranch(bytecode.OpJmp, topLabel, c.curSrcLoc)
	b.linkLabel(endLabel)
	b.Emit(bytecode.OpLdNull, bytecode.Operand{}, 1, c.curSrcLoc)
	c.suppress(b, flags)
	return b
}

// compileTill lowers `[$till [name...] body...]`: each name is bound to a
// fresh TillContinuation before the loop starts, and the body repeats
// forever except as interrupted by a matching $brk. DESIGN.md's
// $catch/$throw/$till/$brk Open Question note describes this lowering.
func (c *Compiler) compileTill(items []value.SmileArg, flags Flags) *Block {
	if len(items) < 1 {
		b := NewBlock(nil)
		return c.fail(b, "$till needs a continuation-name list")
	}
	names := ast.Items(items[0])
	body := items[1:]

	b := NewBlock(nil)
	c.fn.pushScope()
	endLabel := &Instruction{}
	for _, n := range names {
		if !n.IsSymbol() {
			c.fail(b, "$till continuation names must be symbols")
			continue
		}
		decl := c.fn.declareLocal(n.AsSymbol())
		// OpNewTill carries a branch target (like Jmp/Bt/Bf) pointing past the
		// loop below: a matching $brk's TillBreak resumes execution there, the
		// same address/delta mechanism Flatten already resolves for ordinary
		// branches, so the interpreter needs no separate per-till bookkeeping
		// table to find it.
		instr := b.Emit(bytecode.OpNewTill, bytecode.Operand{}, 1, c.curSrcLoc)
		instr.branchTarget = endLabel
		op, operand := c.encodeVarOp(decl, 0, true)
		// See compileScope's matching comment: store peeks, so the
		// initializer's Pop is explicit rather than folded into the store.
		b.Emit(op, operand, 0, c.curSrcLoc)
		b.Emit(bytecode.OpPop, bytecode.Operand{}, -1, c.curSrcLoc)
	}

	topLabel := &Instruction{}
	b.linkLabel(topLabel)
	b.Append(c.compileProgn(body, FlagNoResult))
	b.EmitBranch(bytecode.OpJmp, topLabel, c.curSrcLoc)
	b.linkLabel(endLabel)
	b.MarkEscape()
	c.fn.popScope()
	c.suppress(b, flags)
	return b
}

// compileCatch lowers `[$catch body...]`: if evaluating body raises a
// language-level exception, this form's own result is the thrown value
// instead of the exception propagating further; a body that completes
// normally yields its own value either way. See DESIGN.md's Open Question
// resolution for why this needed the added Catch*/Throw opcode family.
func (c *Compiler) compileCatch(items []value.SmileArg, flags Flags) *Block {
	b := NewBlock(nil)
	handlerLabel := &Instruction{}
	endLabel := &Instruction{}

	b.EmitBranch(bytecode.OpCatchPush, handlerLabel, c.curSrcLoc)
	base := b.depth
	bodyBlock := c.compileProgn(items, 0)
	b.AppendAt(bodyBlock, base)
	b.Emit(bytecode.OpCatchPop, bytecode.Operand{}, 0, c.curSrcLoc)
	b.EmitBranch(bytecode.OpJmp, endLabel, c.curSrcLoc)

	// The interpreter pushes the thrown value before transferring control
	// here, so the handler's entry depth matches the post-body depth above.
	b.linkLabel(handlerLabel)
	b.linkLabel(endLabel)
	c.suppress(b, flags)
	return b
}

func (c *Compiler) compileThrow(items []value.SmileArg, flags Flags) *Block {
	if len(items) != 1 {
		b := NewBlock(nil)
		return c.fail(b, "$throw takes exactly one argument")
	}
	b := NewBlock(nil)
	b.Append(c.CompileExpr(items[0], 0))
	b.Emit(bytecode.OpThrow, bytecode.Operand{}, -1, c.curSrcLoc)
	b.MarkEscape()
	c.suppress(b, flags)
	return b
}

func (c *Compiler) compileEqNe(items []value.SmileArg, op bytecode.OpCode, flags Flags) *Block {
	if len(items) != 2 {
		b := NewBlock(nil)
		return c.fail(b, "comparison takes exactly two arguments")
	}
	b := NewBlock(nil)
	b.Append(c.CompileExpr(items[0], 0))
	b.Append(c.CompileExpr(items[1], 0))
	b.Emit(op, bytecode.Operand{}, -1, c.curSrcLoc)
	c.suppress(b, flags)
	return b
}

// compileDotForm lowers the explicit `[$dot obj method]` spelling of
// property read, equivalent to the (obj . method) pair sugar used as a call
// callee but written out as a standalone expression.
func (c *Compiler) compileDotForm(items []value.SmileArg, flags Flags) *Block {
	if len(items) != 2 || !items[1].IsSymbol() {
		b := NewBlock(nil)
		return c.fail(b, "$dot needs a receiver and a property symbol")
	}
	return c.emitPropRead(items[0], items[1].AsSymbol(), flags)
}
