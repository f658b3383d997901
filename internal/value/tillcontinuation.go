package value

// TillContinuation is the escape continuation object `$till`/`$brk` bind
// loop exits to: calling it (via `$brk`) unwinds execution back to the
// matching `$till` form. Per the Design Notes, the engine represents the
// actual unwind as a typed Go value returned up the interpreter's call
// stack (an explicit sum type, not setjmp/longjmp); this object is the
// handle the interpreter matches that unwind against, identified by Token.
type TillContinuation struct {
	Header
	Token  *struct{} // unique per $till activation; identity is all that matters
	Active bool
}

func NewTillContinuation() *TillContinuation {
	return &TillContinuation{
		Header: Header{Kind: KindTillContinuation, VTable: registry[KindTillContinuation]},
		Token:  new(struct{}),
		Active: true,
	}
}

// TillBreak is the typed unwind signal a $brk call raises: an ordinary Go
// error value threaded up through nested run calls (see the Design
// Notes' "dispatch loop returns a sum type" mandate) rather than a
// setjmp/longjmp. internal/interp matches the Token against the
// TillContinuation its own $till frame installed; a Token that doesn't match
// any frame on the current Go call stack re-propagates until one does.
type TillBreak struct {
	Token  *struct{}
	Result SmileArg
}

func (e *TillBreak) Error() string { return "break out of $till" }

// tillInvoker is set by every interp.New call so a TillContinuation's Call
// raises the TillBreak its matching $till frame is watching for, instead of
// this package needing to know about the interpreter's frame stack.
var tillInvoker func(self *TillContinuation, args []SmileArg) (SmileArg, error)

// SetTillInvoker installs the callback internal/interp uses to turn calling
// a TillContinuation into a TillBreak unwind.
func SetTillInvoker(invoker func(self *TillContinuation, args []SmileArg) (SmileArg, error)) {
	tillInvoker = invoker
}

func tillContinuationCall(self SmileArg, args []SmileArg) (SmileArg, error) {
	t, ok := self.Obj.(*TillContinuation)
	if !ok {
		return SmileArg{}, &KindError{Op: "call", Kind: self.Kind}
	}
	if tillInvoker == nil {
		return SmileArg{}, &KindError{Op: "call", Kind: self.Kind}
	}
	return tillInvoker(t, args)
}

func buildTillContinuationVTable() {
	registry[KindTillContinuation] = &VTable{
		Kind:              KindTillContinuation,
		Name:              "TillContinuation",
		CompareEqual:      func(self, other SmileArg) bool { return self.Obj == other.Obj },
		DeepEqual:         func(self, other SmileArg, visited *VisitedSet) bool { return self.Obj == other.Obj },
		Hash:              hashIdentity,
		GetSecurity:       NoSecurity,
		SetSecurity:       UnsupportedSetSecurity,
		GetProperty:       UnsupportedGetProperty,
		SetProperty:       UnsupportedSetProperty,
		HasProperty:       UnsupportedHasProperty,
		GetPropertyNames:  UnsupportedGetPropertyNames,
		ToBool:            func(self SmileArg) bool { return true },
		ToInteger32:       func(self SmileArg) int32 { return 0 },
		ToFloat64:         func(self SmileArg) float64 { return 0 },
		ToString:          func(self SmileArg) string { return "(till-continuation)" },
		Call:              tillContinuationCall,
		GetSourceLocation: UnsupportedGetSourceLocation,
		Box:               IdentityBox,
		Unbox:             IdentityUnbox,
	}
}
