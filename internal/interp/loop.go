package interp

import (
	"fmt"

	"smile/internal/bytecode"
	"smile/internal/errors"
	"smile/internal/value"
)

// peek returns cl's top evaluation-stack entry without removing it: every
// store opcode (StX/StArg*/StLoc*) leaves the stored value in place rather
// than popping and re-pushing it, the convention special_forms.go/calls.go
// rely on so an assignment composes like any other expression.
func peek(cl *value.Closure) value.SmileArg { return cl.Stack[cl.StackTop-1] }

// run is the bytecode dispatch loop: the design's single stepping
// function, executing seg in closure cl until an OpRet, an uncaught error,
// or the segment runs out (the implicit-$progn-result fallthrough a
// compiled function body or top-level program ends with when it never hits
// $return). Every nested activation — a user function call via
// invokeUserFunction, a $till loop's repeated body, the top-level program
// itself — goes through this same function; it is the only place that
// understands catchFrame/TillBreak unwinding.
func (in *Interp) run(cl *value.Closure, seg *bytecode.ByteCodeSegment) (value.SmileArg, error) {
	var catchFrames []catchFrame
	var tillFrames map[*struct{}]int

	pc := 0
	for pc < seg.Len() {
		ip := pc
		instr := seg.Code[pc]
		pc++

		var err error

		switch instr.Op {
		// --- Load literals --------------------------------------------------
		case bytecode.OpLdNull:
			cl.Push(value.Null())
		case bytecode.OpLdBool:
			cl.Push(value.FromBool(instr.Operand.Int64 != 0))
		case bytecode.OpLdByte:
			cl.Push(value.FromByte(byte(instr.Operand.Int64)))
		case bytecode.OpLdInt16:
			cl.Push(value.FromInt16(int16(instr.Operand.Int64)))
		case bytecode.OpLdInt32:
			cl.Push(value.FromInt32(int32(instr.Operand.Int64)))
		case bytecode.OpLdInt64:
			cl.Push(value.FromInt64(instr.Operand.Int64))
		case bytecode.OpLdFloat32:
			cl.Push(value.FromFloat32(float32(instr.Operand.Float64)))
		case bytecode.OpLdFloat64:
			cl.Push(value.FromFloat64(instr.Operand.Float64))
		case bytecode.OpLdReal32:
			cl.Push(value.FromReal32(instr.Operand.Float64))
		case bytecode.OpLdReal64:
			cl.Push(value.FromReal64(instr.Operand.Float64))
		case bytecode.OpLdChar:
			cl.Push(value.FromChar(byte(instr.Operand.Int64)))
		case bytecode.OpLdUni:
			cl.Push(value.FromUni(rune(instr.Operand.Int64)))
		case bytecode.OpLdSym:
			cl.Push(value.FromSymbol(instr.Operand.Symbol))
		case bytecode.OpLdStr:
			cl.Push(value.FromObject(value.NewString(in.Tables.Strings[instr.Operand.A])))
		case bytecode.OpLdObj:
			obj, _ := in.Tables.Objects[instr.Operand.A].(value.Object)
			cl.Push(value.FromObject(obj))

		// --- Variable load/store ---------------------------------------------
		case bytecode.OpLdX:
			v, ok := globalLoad(in.Globals, instr.Operand.Symbol)
			if !ok {
				v = value.Null()
			}
			cl.Push(v)
		case bytecode.OpStX:
			globalStore(in.Globals, instr.Operand.Symbol, peek(cl))

		case bytecode.OpLdArg0, bytecode.OpLdArg1, bytecode.OpLdArg2, bytecode.OpLdArg3,
			bytecode.OpLdArg4, bytecode.OpLdArg5, bytecode.OpLdArg6, bytecode.OpLdArg7,
			bytecode.OpLdLoc0, bytecode.OpLdLoc1, bytecode.OpLdLoc2, bytecode.OpLdLoc3,
			bytecode.OpLdLoc4, bytecode.OpLdLoc5, bytecode.OpLdLoc6, bytecode.OpLdLoc7:
			cl.Push(cl.Variables[shortVarSlot(instr.Op)])
		case bytecode.OpLdArgN, bytecode.OpLdLocN:
			cl.Push(ancestor(cl, int(instr.Operand.A)).Variables[instr.Operand.B])

		case bytecode.OpStArg0, bytecode.OpStArg1, bytecode.OpStArg2, bytecode.OpStArg3,
			bytecode.OpStArg4, bytecode.OpStArg5, bytecode.OpStArg6, bytecode.OpStArg7,
			bytecode.OpStLoc0, bytecode.OpStLoc1, bytecode.OpStLoc2, bytecode.OpStLoc3,
			bytecode.OpStLoc4, bytecode.OpStLoc5, bytecode.OpStLoc6, bytecode.OpStLoc7:
			cl.Variables[shortVarSlot(instr.Op)] = peek(cl)
		case bytecode.OpStArgN, bytecode.OpStLocN:
			ancestor(cl, int(instr.Operand.A)).Variables[instr.Operand.B] = peek(cl)

		// --- Property load/store -----------------------------------------------
		case bytecode.OpLdProp:
			recv := cl.Pop()
			v, ok := value.GetProperty(recv, instr.Operand.Symbol)
			if !ok {
				err = errors.NewException(errors.PropertyError, "no such property: "+in.Symbols.Name(instr.Operand.Symbol))
				break
			}
			cl.Push(v)
		case bytecode.OpStProp:
			val := cl.Pop()
			recv := cl.Pop()
			if serr := value.SetProperty(recv, instr.Operand.Symbol, val); serr != nil {
				err = serr
				break
			}
			cl.Push(val)

		case bytecode.OpLdA, bytecode.OpLdD, bytecode.OpLdLeft, bytecode.OpLdRight,
			bytecode.OpLdStart, bytecode.OpLdEnd, bytecode.OpLdCount, bytecode.OpLdLength:
			slot := int(instr.Op - bytecode.OpLdA)
			recv := cl.Pop()
			v, ok := value.GetProperty(recv, wellKnownProps[slot])
			if !ok {
				err = errors.NewException(errors.PropertyError, "no such property")
				break
			}
			cl.Push(v)

		// OpLdMember isn't emitted by compileDotForm/emitPropRead (those pick
		// between OpLdProp and the OpLdA.. family); kept for completeness of
		// the opcode catalogue. As a single-arg fast path it resolves the
		// method then calls it with the one argument pushed after (above)
		// the receiver on the stack.
		case bytecode.OpLdMember:
			arg := cl.Pop()
			recv := cl.Pop()
			fn, ok := value.GetProperty(recv, instr.Operand.Symbol)
			if !ok {
				err = errors.NewException(errors.PropertyError, "no such method")
				break
			}
			var result value.SmileArg
			result, err = value.Call(fn, []value.SmileArg{arg})
			if err == nil {
				cl.Push(result)
			}

		// --- Control -------------------------------------------------------
		case bytecode.OpJmp:
			pc = int(int64(ip+1) + instr.Operand.Int64)
		case bytecode.OpBt:
			if value.ToBool(cl.Pop()) {
				pc = int(int64(ip+1) + instr.Operand.Int64)
			}
		case bytecode.OpBf:
			if !value.ToBool(cl.Pop()) {
				pc = int(int64(ip+1) + instr.Operand.Int64)
			}
		case bytecode.OpBrk:
			if in.OnBreak != nil {
				in.OnBreak(cl, seg, ip)
			}

		// --- Calls -----------------------------------------------------------
		case bytecode.OpCall:
			var result value.SmileArg
			result, err = in.popCall(cl, int(instr.Operand.Int64))
			if err == nil {
				cl.Push(result)
			}

		case bytecode.OpMet0, bytecode.OpMet1, bytecode.OpMet2, bytecode.OpMet3,
			bytecode.OpMet4, bytecode.OpMet5, bytecode.OpMet6, bytecode.OpMet7:
			argc := int(instr.Op - bytecode.OpMet0)
			var result value.SmileArg
			result, err = in.popMethodCall(cl, instr.Operand.Symbol, argc)
			if err == nil {
				cl.Push(result)
			}
		case bytecode.OpMetN:
			var result value.SmileArg
			result, err = in.popMethodCall(cl, instr.Operand.Symbol, int(instr.Operand.A))
			if err == nil {
				cl.Push(result)
			}

		case bytecode.OpRet:
			return cl.Pop(), nil

		// --- Construction --------------------------------------------------
		case bytecode.OpNewFn:
			cl.Push(in.newFunction(cl, int(instr.Operand.A)))

		case bytecode.OpNewObj:
			cl.Push(newObject(cl, int(instr.Operand.Int64)))

		case bytecode.OpNewPair:
			right := cl.Pop()
			left := cl.Pop()
			cl.Push(value.FromObject(value.NewPair(left, right)))

		case bytecode.OpNewList:
			n := int(instr.Operand.Int64)
			items := make([]value.SmileArg, n)
			for i := n - 1; i >= 0; i-- {
				items[i] = cl.Pop()
			}
			cl.Push(value.ListFromSlice(items))

		case bytecode.OpNewTill:
			till := value.NewTillContinuation()
			if tillFrames == nil {
				tillFrames = make(map[*struct{}]int)
			}
			tillFrames[till.Token] = int(int64(ip+1) + instr.Operand.Int64)
			cl.Push(value.FromObject(till))

		// --- Include -----------------------------------------------------------
		case bytecode.OpLdInclude:
			if in.Include == nil {
				err = errors.NewException(errors.EvalError, "no module resolver configured")
				break
			}
			var result value.SmileArg
			result, err = in.Include(in.Tables.Strings[instr.Operand.A])
			if err == nil {
				cl.Push(result)
			}

		// --- Stack utility ---------------------------------------------------
		case bytecode.OpPop:
			cl.Pop()
		case bytecode.OpDup:
			cl.Push(peek(cl))
		case bytecode.OpSwap:
			a := cl.Pop()
			b := cl.Pop()
			cl.Push(a)
			cl.Push(b)

		// --- Comparison --------------------------------------------------------
		case bytecode.OpEq:
			b := cl.Pop()
			a := cl.Pop()
			cl.Push(value.FromBool(value.CompareEqual(a, b)))
		case bytecode.OpNe:
			b := cl.Pop()
			a := cl.Pop()
			cl.Push(value.FromBool(!value.CompareEqual(a, b)))
		case bytecode.OpNot:
			v := cl.Pop()
			cl.Push(value.FromBool(!value.ToBool(v)))

		// --- Exceptions -------------------------------------------------------
		case bytecode.OpCatchPush:
			catchFrames = append(catchFrames, catchFrame{handlerPC: int(int64(ip+1) + instr.Operand.Int64)})
		case bytecode.OpCatchPop:
			catchFrames = catchFrames[:len(catchFrames)-1]
		case bytecode.OpThrow:
			err = &thrown{Value: cl.Pop()}

		default:
			err = fmt.Errorf("interp: unhandled opcode %s", instr.Op)
		}

		if err == nil {
			continue
		}

		// A TillBreak unwinds straight to the $till activation whose
		// OpNewTill minted its Token, bypassing any $catch frames nested in
		// between (the design's escape continuations are a distinct mechanism
		// from exceptions); anything else consults the innermost still-open
		// catch frame, if any.
		if tb, ok := errKind(err); ok {
			if resumePC, found := tillFrames[tb.Token]; found {
				cl.Push(tb.Result)
				pc = resumePC
				continue
			}
			return value.SmileArg{}, err
		}
		if n := len(catchFrames); n > 0 {
			frame := catchFrames[n-1]
			catchFrames = catchFrames[:n-1]
			cl.Push(errToValue(in.Symbols, err))
			pc = frame.handlerPC
			continue
		}
		return value.SmileArg{}, err
	}

	// Fell off the end of the segment without an explicit $return: the
	// compiled body's implicit $progn left exactly one value on the stack
	// (compileFn/Compile never call suppress on their own top level).
	return cl.Pop(), nil
}

// shortVarSlot decodes one of the Ld/StArg0..7 or Ld/StLoc0..7 short forms'
// fixed slot from the opcode itself (shared by both families: Arg and Loc
// opcodes are only distinguished for readability in the catalogue, both
// index the same Closure.Variables array — see encodeVarOp in calls.go).
func shortVarSlot(op bytecode.OpCode) int {
	switch {
	case op >= bytecode.OpLdArg0 && op <= bytecode.OpLdArg7:
		return int(op - bytecode.OpLdArg0)
	case op >= bytecode.OpLdLoc0 && op <= bytecode.OpLdLoc7:
		return int(op - bytecode.OpLdLoc0)
	case op >= bytecode.OpStArg0 && op <= bytecode.OpStArg7:
		return int(op - bytecode.OpStArg0)
	default: // OpStLoc0..7
		return int(op - bytecode.OpStLoc0)
	}
}

// newFunction builds the Function OpNewFn pushes: info.ArgsAST is the raw
// (possibly Null) SmileArg argument-name list compileFn recorded, converted
// back to the *value.List NewUserFunction wants.
func (in *Interp) newFunction(cl *value.Closure, idx int) value.SmileArg {
	info := in.Tables.UserFunctions[idx]
	var args *value.List
	if sa, ok := info.ArgsAST.(value.SmileArg); ok {
		args, _ = sa.Obj.(*value.List)
	}
	fn := value.NewUserFunction(info.Name, args, info, info.ClosureInfo, cl)
	return value.FromObject(fn)
}

// newObject implements OpNewObj: n property pairs (symbol then value, in
// source order) followed by a base object are on the stack, topmost last
// pushed; this unwinds them back into declaration order before building the
// UserObject, per compileNew's "push base, then (LdSym prop, value) per
// pair" emission.
func newObject(cl *value.Closure, n int) value.SmileArg {
	type kv struct {
		sym value.SmileArg
		val value.SmileArg
	}
	pairs := make([]kv, n)
	for i := n - 1; i >= 0; i-- {
		pairs[i].val = cl.Pop()
		pairs[i].sym = cl.Pop()
	}
	base := cl.Pop()
	uo := value.NewUserObject(base.Obj)
	for _, p := range pairs {
		uo.Dict[p.sym.AsSymbol()] = p.val
	}
	return value.FromObject(uo)
}
