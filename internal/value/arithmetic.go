package value

import (
	"smile/internal/errors"
	"smile/internal/symbol"
)

// arithmeticOps are the operator method names the design preloads
// ("common... operator names") and compileOpset/method-call syntax
// dispatch to via Met1, e.g. `(x . +) y` or the `$opset` sugar for `x += y`.
// Scalars expose them through GetProperty like any other property lookup:
// the result is a bound external Function closing over the receiver, so
// `Call`ing it with one argument (the right-hand operand) is all Met1 (or
// a direct value.Call) needs to do. See DESIGN.md's note on why this
// isn't a dedicated opcode family. The map itself lists only +, - and *,
// and nothing reads it: arithmeticGetProperty and applyArithmetic switch on
// all five operator symbols (+, -, *, /, %) directly.
var arithmeticOps = map[symbol.ID]func(a, b float64) float64{
	symbol.OAdd: func(a, b float64) float64 { return a + b },
	symbol.OSub: func(a, b float64) float64 { return a - b },
	symbol.OMul: func(a, b float64) float64 { return a * b },
}

// isIntegerKind reports whether k is one of the integral scalar kinds
// (unboxed or boxed), used to decide whether an arithmetic result should be
// computed and re-truncated as an integer instead of a float.
func isIntegerKind(k Kind) bool {
	switch k {
	case KindByte, KindBoxedByte, KindInt16, KindBoxedInt16,
		KindInt32, KindBoxedInt32, KindInt64, KindBoxedInt64:
		return true
	default:
		return false
	}
}

// arithmeticCapable reports the scalar kinds that get +, -, *, / and %
// GetProperty entries. Bool/Symbol/Char/UniChar are excluded: the
// operator-name preload doesn't attach a declared meaning to arithmetic on
// them, and none of those kinds implement it either.
func arithmeticCapable(k Kind) bool {
	switch k.UnboxedKindOrSelf() {
	case KindByte, KindInt16, KindInt32, KindInt64, KindFloat32, KindFloat64, KindReal32, KindReal64:
		return true
	default:
		return false
	}
}

// UnboxedKindOrSelf returns k's unboxed form if k is a boxed scalar,
// otherwise k unchanged; used by code that only cares about a scalar's
// logical kind regardless of boxedness.
func (k Kind) UnboxedKindOrSelf() Kind {
	if k.IsBoxedScalar() {
		return k.UnboxedKind()
	}
	return k
}

// arithmeticGetProperty resolves one of the preloaded operator-name symbols
// against a numeric scalar receiver, returning a bound external Function
// (the design's ExternalFunctionInfo variant) implementing it.
func arithmeticGetProperty(resultKind Kind) func(self SmileArg, prop symbol.ID) (SmileArg, bool) {
	return func(self SmileArg, prop symbol.ID) (SmileArg, bool) {
		switch prop {
		case symbol.OAdd, symbol.OSub, symbol.OMul, symbol.ODiv, symbol.OMod:
		default:
			return SmileArg{}, false
		}
		fn := NewExternalFunction(&ExternalFunctionInfo{
			Name:          symbolOpName(prop),
			ArgCheckFlags: ArgCheckExact,
			MinArgs:       1,
			MaxArgs:       1,
			Fn: func(args []SmileArg, _ any) (SmileArg, error) {
				return applyArithmetic(prop, resultKind, self, args[0])
			},
		})
		return FromObject(fn), true
	}
}

func symbolOpName(prop symbol.ID) string {
	switch prop {
	case symbol.OAdd:
		return "+"
	case symbol.OSub:
		return "-"
	case symbol.OMul:
		return "*"
	case symbol.ODiv:
		return "/"
	case symbol.OMod:
		return "%"
	default:
		return "?"
	}
}

func applyArithmetic(prop symbol.ID, resultKind Kind, self, other SmileArg) (SmileArg, error) {
	a, b := ToFloat64(self), ToFloat64(other)
	var r float64
	switch prop {
	case symbol.OAdd:
		r = a + b
	case symbol.OSub:
		r = a - b
	case symbol.OMul:
		r = a * b
	case symbol.ODiv:
		if isIntegerKind(resultKind) && b == 0 {
			return SmileArg{}, &KindError{Op: "/", Kind: resultKind, ErrKind: errors.ArithmeticError}
		}
		r = a / b
	case symbol.OMod:
		if isIntegerKind(resultKind) && int64(b) == 0 {
			return SmileArg{}, &KindError{Op: "%", Kind: resultKind, ErrKind: errors.ArithmeticError}
		}
		if isIntegerKind(resultKind) {
			r = float64(int64(a) % int64(b))
		} else {
			r = a - b*float64(int64(a/b))
		}
	}
	return fromFloat64AsKind(resultKind, r), nil
}

func fromFloat64AsKind(k Kind, v float64) SmileArg {
	switch k {
	case KindByte:
		return FromByte(byte(int64(v)))
	case KindInt16:
		return FromInt16(int16(int64(v)))
	case KindInt32:
		return FromInt32(int32(int64(v)))
	case KindInt64:
		return FromInt64(int64(v))
	case KindFloat32:
		return FromFloat32(float32(v))
	case KindFloat64:
		return FromFloat64(v)
	case KindReal32:
		return FromReal32(v)
	case KindReal64:
		return FromReal64(v)
	default:
		return FromFloat64(v)
	}
}
