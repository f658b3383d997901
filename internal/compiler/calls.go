package compiler

import (
	"smile/internal/ast"
	"smile/internal/bytecode"
	"smile/internal/symbol"
	"smile/internal/value"
)

// compileCallForm lowers an ordinary list expression whose head wasn't one
// of compileList's recognized special forms: either a method call, if the
// head is a (receiver . method) Pair (the design's "Method call"), or a
// general call otherwise.
func (c *Compiler) compileCallForm(l *value.List, flags Flags) *Block {
	callee := value.FromObject(l.A)
	args := ast.Items(value.FromObject(l.D))

	if callee.Kind == value.KindPair {
		p := callee.Obj.(*value.Pair)
		method := value.FromObject(p.Right)
		if !method.IsSymbol() {
			b := NewBlock(nil)
			return c.fail(b, "a method-call callee's method must be a symbol")
		}
		return c.compileMethodCall(value.FromObject(p.Left), method.AsSymbol(), args, flags)
	}
	return c.compileGeneralCall(callee, args, flags)
}

func (c *Compiler) compileGeneralCall(callee value.SmileArg, args []value.SmileArg, flags Flags) *Block {
	b := NewBlock(nil)
	b.Append(c.CompileExpr(callee, 0))
	for _, a := range args {
		b.Append(c.CompileExpr(a, 0))
	}
	b.Emit(bytecode.OpCall, bytecode.Operand{Int64: int64(len(args))}, -len(args), c.curSrcLoc)
	c.suppress(b, flags)
	return b
}

// compileMethodCall lowers `(recv . method)(args...)`: Met0..Met7 cover the
// common low-argc case with the method symbol as the only operand; MetN
// carries both argc and the symbol for everything past 7, per the design
// the design's "Calls" family.
func (c *Compiler) compileMethodCall(recv value.SmileArg, method symbol.ID, args []value.SmileArg, flags Flags) *Block {
	b := NewBlock(nil)
	b.Append(c.CompileExpr(recv, 0))
	for _, a := range args {
		b.Append(c.CompileExpr(a, 0))
	}
	argc := len(args)
	var op bytecode.OpCode
	var operand bytecode.Operand
	if argc <= 7 {
		op = bytecode.OpMet0 + bytecode.OpCode(argc)
		operand = bytecode.Operand{Symbol: method}
	} else {
		op = bytecode.OpMetN
		operand = bytecode.Operand{A: int32(argc), Symbol: method}
	}
	b.Emit(op, operand, -argc, c.curSrcLoc)
	c.suppress(b, flags)
	return b
}

// compileVarRead resolves sym against the current function-nesting chain
// (scope.go's funcFrame.resolve) and emits the matching Ld form, or LdX for
// an unresolved (global) name. A pure read with no result wanted is simply
// skipped: the design's contract only requires side effects to still run
// under FlagNoResult, and reading a variable has none.
func (c *Compiler) compileVarRead(sym symbol.ID, flags Flags) *Block {
	if flags&FlagNoResult != 0 {
		return NewBlock(nil)
	}
	b := NewBlock(nil)
	decl, dist, found := c.fn.resolve(sym)
	if !found {
		b.Emit(bytecode.OpLdX, bytecode.Operand{Symbol: sym}, 1, c.curSrcLoc)
		return b
	}
	if dist == 0 {
		decl.WasRead = true
	} else {
		decl.WasReadDeep = true
	}
	op, operand := c.encodeVarOp(decl, dist, false)
	b.Emit(op, operand, 1, c.curSrcLoc)
	return b
}

// emitVarWrite compiles valExpr and stores it into sym, leaving the stored
// value as this block's own result (the convention every assignment form in
// special_forms.go relies on, so a trailing c.suppress is all NoResult ever
// needs).
func (c *Compiler) emitVarWrite(sym symbol.ID, valExpr value.SmileArg, flags Flags) *Block {
	b := NewBlock(nil)
	b.Append(c.CompileExpr(valExpr, 0))
	decl, dist, found := c.fn.resolve(sym)
	if !found {
		b.Emit(bytecode.OpStX, bytecode.Operand{Symbol: sym}, 0, c.curSrcLoc)
	} else {
		if dist == 0 {
			decl.WasWritten = true
		} else {
			decl.WasWrittenDeep = true
		}
		op, operand := c.encodeVarOp(decl, dist, true)
		b.Emit(op, operand, 0, c.curSrcLoc)
	}
	c.suppress(b, flags)
	return b
}

// encodeVarOp picks the short Ld/StArg0..7 or Ld/StLoc0..7 form when decl's
// own function frame is the innermost one (dist == 0) and its slot is small
// enough to have a dedicated opcode, falling back to the general *N form
// (which carries both the function-nesting depth and the slot) otherwise.
func (c *Compiler) encodeVarOp(decl *VarDecl, dist int, store bool) (bytecode.OpCode, bytecode.Operand) {
	short := dist == 0 && decl.Slot < 8
	if decl.Kind == VarArgument {
		if short {
			base := bytecode.OpLdArg0
			if store {
				base = bytecode.OpStArg0
			}
			return base + bytecode.OpCode(decl.Slot), bytecode.Operand{}
		}
		op := bytecode.OpLdArgN
		if store {
			op = bytecode.OpStArgN
		}
		return op, bytecode.Operand{A: int32(dist), B: int32(decl.Slot)}
	}
	if short {
		base := bytecode.OpLdLoc0
		if store {
			base = bytecode.OpStLoc0
		}
		return base + bytecode.OpCode(decl.Slot), bytecode.Operand{}
	}
	op := bytecode.OpLdLocN
	if store {
		op = bytecode.OpStLocN
	}
	return op, bytecode.Operand{A: int32(dist), B: int32(decl.Slot)}
}

// wellKnownLoadOp maps a WellKnownPropertySlot index to its dedicated short
// load opcode, in the same order symbol.WellKnownPropertySlot declares them.
func wellKnownLoadOp(slot int) bytecode.OpCode { return bytecode.OpLdA + bytecode.OpCode(slot) }

func (c *Compiler) emitPropRead(receiverExpr value.SmileArg, prop symbol.ID, flags Flags) *Block {
	b := NewBlock(nil)
	b.Append(c.CompileExpr(receiverExpr, 0))
	if slot, ok := symbol.WellKnownPropertySlot(prop); ok {
		b.Emit(wellKnownLoadOp(slot), bytecode.Operand{}, 0, c.curSrcLoc)
	} else {
		b.Emit(bytecode.OpLdProp, bytecode.Operand{Symbol: prop}, 0, c.curSrcLoc)
	}
	c.suppress(b, flags)
	return b
}

// emitPropWrite compiles receiver and value, then StProp: the design
// gives the well-known properties short load opcodes only, so every store
// (well-known or not) goes through the general StProp form. Like
// emitVarWrite, the stored value is left as the result.
func (c *Compiler) emitPropWrite(receiverExpr value.SmileArg, prop symbol.ID, valExpr value.SmileArg, flags Flags) *Block {
	b := NewBlock(nil)
	b.Append(c.CompileExpr(receiverExpr, 0))
	b.Append(c.CompileExpr(valExpr, 0))
	b.Emit(bytecode.OpStProp, bytecode.Operand{Symbol: prop}, -1, c.curSrcLoc)
	c.suppress(b, flags)
	return b
}

// compileLiteral emits the Ld form matching expr's own kind. A literal has
// no side effect, so FlagNoResult just skips emitting anything, same as
// compileVarRead.
func (c *Compiler) compileLiteral(expr value.SmileArg, flags Flags) *Block {
	if flags&FlagNoResult != 0 {
		return NewBlock(nil)
	}
	b := NewBlock(nil)
	loc := c.curSrcLoc
	switch expr.Kind {
	case value.KindNull:
		b.Emit(bytecode.OpLdNull, bytecode.Operand{}, 1, loc)
	case value.KindBool, value.KindBoxedBool:
		var iv int64
		if value.ToBool(expr) {
			iv = 1
		}
		b.Emit(bytecode.OpLdBool, bytecode.Operand{Int64: iv}, 1, loc)
	case value.KindByte:
		b.Emit(bytecode.OpLdByte, bytecode.Operand{Int64: int64(expr.AsByte())}, 1, loc)
	case value.KindInt16:
		b.Emit(bytecode.OpLdInt16, bytecode.Operand{Int64: int64(expr.AsInt16())}, 1, loc)
	case value.KindInt32:
		b.Emit(bytecode.OpLdInt32, bytecode.Operand{Int64: int64(expr.AsInt32())}, 1, loc)
	case value.KindInt64:
		b.Emit(bytecode.OpLdInt64, bytecode.Operand{Int64: expr.AsInt64()}, 1, loc)
	case value.KindFloat32:
		b.Emit(bytecode.OpLdFloat32, bytecode.Operand{Float64: float64(expr.AsFloat32())}, 1, loc)
	case value.KindFloat64:
		b.Emit(bytecode.OpLdFloat64, bytecode.Operand{Float64: expr.AsFloat64()}, 1, loc)
	case value.KindReal32:
		b.Emit(bytecode.OpLdReal32, bytecode.Operand{Float64: expr.AsReal32()}, 1, loc)
	case value.KindReal64:
		b.Emit(bytecode.OpLdReal64, bytecode.Operand{Float64: expr.AsReal64()}, 1, loc)
	case value.KindChar:
		b.Emit(bytecode.OpLdChar, bytecode.Operand{Int64: int64(expr.AsChar())}, 1, loc)
	case value.KindUni:
		b.Emit(bytecode.OpLdUni, bytecode.Operand{Int64: int64(expr.AsUni())}, 1, loc)
	case value.KindString:
		s, _ := expr.Obj.(*value.String)
		text := ""
		if s != nil {
			text = s.Text
		}
		idx := c.Tables.AddString(text)
		b.Emit(bytecode.OpLdStr, bytecode.Operand{A: int32(idx)}, 1, loc)
	default:
		if expr.IsSymbol() {
			b.Emit(bytecode.OpLdSym, bytecode.Operand{Symbol: expr.AsSymbol()}, 1, loc)
			return b
		}
		boxed := expr
		if boxed.Kind.IsUnboxed() {
			boxed = value.Box(boxed)
		}
		idx := c.Tables.AddObject(boxed.Obj)
		b.Emit(bytecode.OpLdObj, bytecode.Operand{A: int32(idx)}, 1, loc)
	}
	return b
}

// compileFn lowers `[$fn [arg...] body...]` into a Function-constructing
// NewFn: it pushes a fresh funcFrame for the body (scope.go), compiles the
// body as an implicit $progn, flattens it into its own ByteCodeSegment, and
// records everything the interpreter needs to activate a closure over it
// (bytecode.UserFunctionInfo) in this compile's CompiledTables.
func (c *Compiler) compileFn(items []value.SmileArg, flags Flags) *Block {
	if len(items) < 1 {
		b := NewBlock(nil)
		return c.fail(b, "$fn needs an argument list")
	}
	argSymbols := ast.Items(items[0])
	body := items[1:]

	b := NewBlock(nil)
	parentFrame := c.fn
	c.fn = newFuncFrame(parentFrame)

	info := &bytecode.UserFunctionInfo{
		ArgsAST: items[0],
		BodyAST: ast.List(body...),
		Parent:  c.currentUserFunction,
	}
	parentFn := c.currentUserFunction
	c.currentUserFunction = info

	argInfos := make([]bytecode.ArgInfo, 0, len(argSymbols))
	for i, a := range argSymbols {
		if !a.IsSymbol() {
			c.fail(b, "$fn argument names must be symbols")
			continue
		}
		sym := a.AsSymbol()
		c.fn.declareArg(sym, i)
		argInfos = append(argInfos, bytecode.ArgInfo{Name: sym})
	}

	bodyBlock := c.compileProgn(body, 0)
	info.ByteCode = Flatten(bodyBlock)
	info.NumArgs = len(argInfos)
	info.Args = argInfos
	info.ClosureInfo = &bytecode.ClosureInfo{
		Kind:          bytecode.ClosureLocal,
		NumArgs:       len(argInfos),
		NumVariables:  c.fn.nextLocalSlot,
		TempSize:      bodyBlock.MaxStackDepth,
		VariableNames: append([]symbol.ID(nil), c.fn.slotNames...),
	}
	// Every $fn nested in one program interns into the same top-level
	// Tables (AddString/AddObject don't get a fresh pool per function);
	// recorded here too so a UserFunctionInfo is self-contained for a
	// caller that only has the function, not the Compiler that built it.
	info.CompiledTables = c.Tables

	c.fn = parentFrame
	c.currentUserFunction = parentFn
	idx := c.Tables.AddUserFunction(info)
	b.Emit(bytecode.OpNewFn, bytecode.Operand{A: int32(idx)}, 1, c.curSrcLoc)
	c.suppress(b, flags)
	return b
}
