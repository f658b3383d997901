package interp

import (
	"smile/internal/bytecode"
	"smile/internal/errors"
	"smile/internal/symbol"
	"smile/internal/value"
)

// wellKnownProps maps a WellKnownPropertySlot index to its symbol.ID, in
// the exact order symbol.WellKnownPropertySlot declares them; OpLdA..
// OpLdLength carry no operand, so the opcode's own offset from OpLdA is the
// only thing identifying which property it reads.
var wellKnownProps = [8]symbol.ID{
	symbol.PA, symbol.PD, symbol.PLeft, symbol.PRight,
	symbol.PStart, symbol.PEnd, symbol.PCount, symbol.PLength,
}

// ancestor walks dist Parent links up from cl, the way a captured local's
// FuncDistance (scope.go) says to: each $fn activation's Closure.Parent is
// the runtime closure that was executing when OpNewFn built the Function
// being called (its lexical, not dynamic, enclosing activation).
func ancestor(cl *value.Closure, dist int) *value.Closure {
	for ; dist > 0; dist-- {
		cl = cl.Parent
	}
	return cl
}

// globalLoad/globalStore implement LdX/StX against the interpreter's single
// persistent global closure: GlobalDict is populated lazily, the first
// store of a given name appending a fresh slot (the design: a GLOBAL
// closure "backs its variables by name" rather than a compiler-assigned
// dense array).
func globalLoad(g *value.Closure, sym symbol.ID) (value.SmileArg, bool) {
	info := g.Info.(*bytecode.ClosureInfo)
	idx, ok := info.GlobalDict[sym]
	if !ok {
		return value.SmileArg{}, false
	}
	return g.Variables[idx], true
}

func globalStore(g *value.Closure, sym symbol.ID, v value.SmileArg) {
	info := g.Info.(*bytecode.ClosureInfo)
	idx, ok := info.GlobalDict[sym]
	if !ok {
		idx = len(g.Variables)
		info.GlobalDict[sym] = idx
		g.Variables = append(g.Variables, value.SmileArg{})
	}
	g.Variables[idx] = v
}

// invokeUserFunction is wired in via value.SetUserFunctionInvoker: it
// builds a fresh Closure over f's compiled body and resumes the
// interpreter loop there, letting value.Call on a user-defined Function
// work the same as calling an external one from the caller's point of
// view.
func (in *Interp) invokeUserFunction(f *value.Function, args []value.SmileArg) (value.SmileArg, error) {
	info, ok := f.Body.(*bytecode.UserFunctionInfo)
	if !ok {
		return value.SmileArg{}, &value.KindError{Op: "call", Kind: value.KindFunction}
	}
	ci := f.ClosureInfo.(*bytecode.ClosureInfo)
	if len(args) != info.NumArgs {
		return value.SmileArg{}, errors.NewException(errors.EvalError,
			"wrong number of arguments").WithFrame(f.Name, errors.Position{})
	}
	cl := value.NewClosure(f.CapturedEnv, ci, ci.NumVariables, ci.TempSize)
	copy(cl.Variables[:info.NumArgs], args)

	// A function defined in one module and handed to another (returned
	// from $include, passed as a callback) carries its defining program's
	// literal pool, not whatever happens to be "current" in.Tables right
	// now; restore it for the duration of this call so LdStr/LdObj/NewFn
	// inside the body resolve against the pool they were compiled against.
	if info.CompiledTables != nil && info.CompiledTables != in.Tables {
		saved := in.Tables
		in.Tables = info.CompiledTables
		defer func() { in.Tables = saved }()
	}
	return in.run(cl, info.ByteCode)
}

// invokeTill is wired in via value.SetTillInvoker: calling a
// TillContinuation never returns normally, it always raises the TillBreak
// the owning $till's run() activation is watching for.
func invokeTill(self *value.TillContinuation, args []value.SmileArg) (value.SmileArg, error) {
	result := value.Null()
	if len(args) > 0 {
		result = args[0]
	}
	return value.SmileArg{}, &value.TillBreak{Token: self.Token, Result: result}
}

// popCall pops callee and argc arguments off cl's evaluation stack (in push
// order) and invokes it through the single value.Call dispatch point,
// matching OpCall's stack contract (the design): "pops callee + argc
// args, pushes result".
func (in *Interp) popCall(cl *value.Closure, argc int) (value.SmileArg, error) {
	args := make([]value.SmileArg, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i] = cl.Pop()
	}
	callee := cl.Pop()
	return value.Call(callee, args)
}

// popMethodCall pops argc arguments then the receiver, and always
// dispatches method as GetProperty-then-Call. The design's object model
// only exposes GetProperty/Call as primitives, so a "method call" is
// sugar: look the method up as a property, then call the resulting
// Function with (receiver-omitted) args — the resolved value itself must
// be directly callable (a bound Function), matching how $dot/method-call
// syntax is specified to resolve against a property lookup rather than a
// separate vtable slot.
func (in *Interp) popMethodCall(cl *value.Closure, method symbol.ID, argc int) (value.SmileArg, error) {
	args := make([]value.SmileArg, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i] = cl.Pop()
	}
	recv := cl.Pop()
	fn, ok := value.GetProperty(recv, method)
	if !ok {
		return value.SmileArg{}, errors.NewException(errors.PropertyError, "no such method")
	}
	return value.Call(fn, args)
}
