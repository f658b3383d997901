package value

import (
	"math"

	"smile/internal/symbol"
)

// SmileArg is an evaluation-stack slot: the design describes it as a
// tagged union of a heap pointer and an unboxed payload, where "obj" points
// at a sentinel singleton when the real value lives in the payload. Go has
// no unions, and per the Design Notes ("boxed/unboxed distinction is a
// runtime discriminant, not a type-level one") the idiomatic translation is
// a discriminant field rather than sentinel heap objects: Kind says which
// interpretation applies, Bits carries an unboxed scalar's raw payload, and
// Obj carries a heap pointer for everything else. This keeps register-sized
// unboxing for hot scalars (no allocation) while staying branch-clear.
type SmileArg struct {
	Kind Kind
	Obj  Object
	Bits uint64
}

// FromObject wraps a heap object as a stack slot.
func FromObject(obj Object) SmileArg {
	return SmileArg{Kind: obj.Head().Kind, Obj: obj}
}

func unboxedArg(k Kind, bits uint64) SmileArg { return SmileArg{Kind: k, Bits: bits} }

func FromByte(v byte) SmileArg    { return unboxedArg(KindByte, uint64(v)) }
func FromInt16(v int16) SmileArg  { return unboxedArg(KindInt16, uint64(uint16(v))) }
func FromInt32(v int32) SmileArg  { return unboxedArg(KindInt32, uint64(uint32(v))) }
func FromInt64(v int64) SmileArg  { return unboxedArg(KindInt64, uint64(v)) }
func FromBool(v bool) SmileArg {
	if v {
		return unboxedArg(KindBool, 1)
	}
	return unboxedArg(KindBool, 0)
}
func FromFloat32(v float32) SmileArg { return unboxedArg(KindFloat32, uint64(math.Float32bits(v))) }
func FromFloat64(v float64) SmileArg { return unboxedArg(KindFloat64, math.Float64bits(v)) }
func FromChar(v byte) SmileArg       { return unboxedArg(KindChar, uint64(v)) }
func FromUni(v rune) SmileArg        { return unboxedArg(KindUni, uint64(uint32(v))) }

// FromSymbol wraps an interned symbol.ID as an unboxed Symbol value. This is
// the SmileArg form the AST's identifier leaves and the $quote/LdSym opcode
// both produce (the design: "quoted program fragments are live values").
func FromSymbol(id symbol.ID) SmileArg { return unboxedArg(KindSymbol, uint64(id)) }

// FromReal32/64 store the opaque decimal payload as raw float64 bits: the
// source's internal decimal parse/format algorithms are out of scope
// (the design), so the core only needs a register-sized value type with the
// declared operations, not bit-exact decimal semantics. See DESIGN.md.
func FromReal32(v float64) SmileArg { return unboxedArg(KindReal32, math.Float64bits(v)) }
func FromReal64(v float64) SmileArg { return unboxedArg(KindReal64, math.Float64bits(v)) }

func (a SmileArg) AsByte() byte       { return byte(a.Bits) }
func (a SmileArg) AsInt16() int16     { return int16(uint16(a.Bits)) }
func (a SmileArg) AsInt32() int32     { return int32(uint32(a.Bits)) }
func (a SmileArg) AsInt64() int64     { return int64(a.Bits) }
func (a SmileArg) AsBool() bool       { return a.Bits != 0 }
func (a SmileArg) AsFloat32() float32 { return math.Float32frombits(uint32(a.Bits)) }
func (a SmileArg) AsFloat64() float64 { return math.Float64frombits(a.Bits) }
func (a SmileArg) AsChar() byte       { return byte(a.Bits) }
func (a SmileArg) AsUni() rune        { return rune(uint32(a.Bits)) }
func (a SmileArg) AsReal32() float64  { return math.Float64frombits(a.Bits) }
func (a SmileArg) AsReal64() float64  { return math.Float64frombits(a.Bits) }

// IsNull reports whether a is the Null singleton (kind NULL per the design's
// LIST_BIT distinction between LIST and NULL).
func (a SmileArg) IsNull() bool { return a.Kind == KindNull }

// AsSymbol returns the interned symbol.ID carried by an unboxed or boxed
// Symbol value.
func (a SmileArg) AsSymbol() symbol.ID {
	if a.Kind == KindBoxedSymbol {
		return symbol.ID(boxedBits(a))
	}
	return symbol.ID(a.Bits)
}

// IsSymbol reports whether a carries a Symbol value, boxed or unboxed.
func (a SmileArg) IsSymbol() bool { return a.Kind == KindSymbol || a.Kind == KindBoxedSymbol }
