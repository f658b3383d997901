package value

import "smile/internal/errors"

// ExternalFunctionInfo describes a host-provided function: the design's
// "{ name, fn_ptr, param, arg_check_flags, min_args, max_args,
// arg_type_checks }". ArgCheckFlags selects which of min/max/exact arity
// checking applies; the high bit of each ArgTypeChecks byte permits null,
// matching the source's bit-packed convention.
type ArgCheckKind uint8

const (
	ArgCheckNone ArgCheckKind = iota
	ArgCheckMin
	ArgCheckMax
	ArgCheckExact
)

const argTypeAllowsNull = 0x80

type ExternalFunctionInfo struct {
	Name          string
	Fn            func(args []SmileArg, param any) (SmileArg, error)
	Param         any
	ArgCheckFlags ArgCheckKind
	MinArgs       int
	MaxArgs       int
	ArgTypeChecks []byte
}

// checkArity reports whether argc satisfies this function's declared arity
// policy.
func (e *ExternalFunctionInfo) checkArity(argc int) bool {
	switch e.ArgCheckFlags {
	case ArgCheckMin:
		return argc >= e.MinArgs
	case ArgCheckMax:
		return argc <= e.MaxArgs
	case ArgCheckExact:
		return argc == e.MinArgs
	default:
		return true
	}
}

// checkTypes validates each argument's kind against ArgTypeChecks, where a
// zero byte means "no constraint" and the high bit permits Null regardless
// of the declared kind.
func (e *ExternalFunctionInfo) checkTypes(args []SmileArg) bool {
	for i, a := range args {
		if i >= len(e.ArgTypeChecks) {
			break
		}
		want := e.ArgTypeChecks[i]
		if want == 0 {
			continue
		}
		allowNull := want&argTypeAllowsNull != 0
		wantKind := Kind(want &^ argTypeAllowsNull)
		if a.Kind == KindNull && allowNull {
			continue
		}
		if a.Kind != wantKind {
			return false
		}
	}
	return true
}

// Function is the callable object. Exactly one of External or (Args, Body,
// ClosureInfo) is populated, selected by Header.Flags&FlagExternalFunction;
// per the design this is "two variants by flag" rather than two Go types, so a
// single Function value can be stored in generic object slots either way.
//
// Body and ClosureInfo hold `any` rather than concrete bytecode types: a
// concrete *bytecode.UserFunctionInfo would make this package import
// internal/bytecode, which in turn needs to hold value.Object in its
// CompiledTables — a cycle. The interpreter layer (internal/interp), which
// already imports both packages, performs the type assertion back to the
// concrete type.
type Function struct {
	Header
	Name         string
	Args         *List
	Body         any // concrete type: *bytecode.UserFunctionInfo
	ClosureInfo  any // concrete type: *bytecode.ClosureInfo
	External     *ExternalFunctionInfo
	CapturedEnv  *Closure
}

func NewUserFunction(name string, args *List, body any, closureInfo any, capturedEnv *Closure) *Function {
	return &Function{
		Header:      Header{Kind: KindFunction, VTable: registry[KindFunction]},
		Name:        name,
		Args:        args,
		Body:        body,
		ClosureInfo: closureInfo,
		CapturedEnv: capturedEnv,
	}
}

func NewExternalFunction(info *ExternalFunctionInfo) *Function {
	return &Function{
		Header:   Header{Kind: KindFunction, VTable: registry[KindFunction], Flags: FlagExternalFunction},
		Name:     info.Name,
		External: info,
	}
}

func buildFunctionVTable() {
	registry[KindFunction] = &VTable{
		Kind:              KindFunction,
		Name:              "Function",
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
		ToString: func(self SmileArg) string {
			f, _ := self.Obj.(*Function)
			if f == nil || f.Name == "" {
				return "(unnamed-fn)"
			}
			return "(fn " + f.Name + ")"
		},
		Call:              functionCall,
		GetSourceLocation: UnsupportedGetSourceLocation,
		Box:               IdentityBox,
		Unbox:             IdentityUnbox,
	}
}

// functionCall only handles the external-function path directly: invoking a
// user function requires pushing a new Closure and resuming the byte-code
// interpreter loop, which lives in internal/interp and is wired in via
// SetUserFunctionInvoker, which interp.New calls.
func functionCall(self SmileArg, args []SmileArg) (SmileArg, error) {
	f, ok := self.Obj.(*Function)
	if !ok {
		return SmileArg{}, &KindError{Op: "call", Kind: self.Kind}
	}
	if f.Flags&FlagExternalFunction != 0 {
		if !f.External.checkArity(len(args)) || !f.External.checkTypes(args) {
			return SmileArg{}, &KindError{Op: "call", Kind: self.Kind, ErrKind: errors.NativeMethodError}
		}
		return f.External.Fn(args, f.External.Param)
	}
	if userFunctionInvoker == nil {
		return SmileArg{}, &KindError{Op: "call", Kind: self.Kind, ErrKind: errors.EvalError}
	}
	return userFunctionInvoker(f, args)
}

// userFunctionInvoker is set by every interp.New call (the most recently
// constructed Interp's callback is the one in effect) so that
// value.Call on a user Function re-enters the bytecode interpreter without
// this package importing internal/interp (which imports this package).
var userFunctionInvoker func(f *Function, args []SmileArg) (SmileArg, error)

// SetUserFunctionInvoker installs the callback internal/interp uses to
// resume execution for a user-defined Function's Call.
func SetUserFunctionInvoker(invoker func(f *Function, args []SmileArg) (SmileArg, error)) {
	userFunctionInvoker = invoker
}
