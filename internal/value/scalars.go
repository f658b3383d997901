package value

import (
	"strconv"

	"smile/internal/symbol"
)

// BoxedScalar is the heap-resident form shared by every scalar kind: the
// payload is the same raw bits an unboxed SmileArg would carry, just
// reachable wherever a general Object is required (the design: "Boxed
// counterparts of those scalars (same logical value but as a heap object
// usable wherever a generic value is required)").
type BoxedScalar struct {
	Header
	Bits uint64
}

// scalarKindSpec describes one scalar kind's behavior once, so the twelve
// unboxed/boxed kind pairs can share a single vtable-construction path
// instead of twelve hand-written near-duplicates.
type scalarKindSpec struct {
	unboxed   Kind
	boxed     Kind
	name      string
	toFloat64 func(bits uint64) float64
	toInt32   func(bits uint64) int32
	toBool    func(bits uint64) bool
	toString  func(bits uint64) string
}

var scalarSpecs = []scalarKindSpec{
	{
		unboxed: KindByte, boxed: KindBoxedByte, name: "Byte",
		toFloat64: func(b uint64) float64 { return float64(byte(b)) },
		toInt32:   func(b uint64) int32 { return int32(byte(b)) },
		toBool:    func(b uint64) bool { return byte(b) != 0 },
		toString:  func(b uint64) string { return strconv.Itoa(int(byte(b))) },
	},
	{
		unboxed: KindInt16, boxed: KindBoxedInt16, name: "Integer16",
		toFloat64: func(b uint64) float64 { return float64(int16(uint16(b))) },
		toInt32:   func(b uint64) int32 { return int32(int16(uint16(b))) },
		toBool:    func(b uint64) bool { return int16(uint16(b)) != 0 },
		toString:  func(b uint64) string { return strconv.Itoa(int(int16(uint16(b)))) },
	},
	{
		unboxed: KindInt32, boxed: KindBoxedInt32, name: "Integer32",
		toFloat64: func(b uint64) float64 { return float64(int32(uint32(b))) },
		toInt32:   func(b uint64) int32 { return int32(uint32(b)) },
		toBool:    func(b uint64) bool { return int32(uint32(b)) != 0 },
		toString:  func(b uint64) string { return strconv.Itoa(int(int32(uint32(b)))) },
	},
	{
		unboxed: KindInt64, boxed: KindBoxedInt64, name: "Integer64",
		toFloat64: func(b uint64) float64 { return float64(int64(b)) },
		toInt32:   func(b uint64) int32 { return int32(int64(b)) },
		toBool:    func(b uint64) bool { return int64(b) != 0 },
		toString:  func(b uint64) string { return strconv.FormatInt(int64(b), 10) },
	},
	{
		unboxed: KindBool, boxed: KindBoxedBool, name: "Bool",
		toFloat64: func(b uint64) float64 {
			if b != 0 {
				return 1
			}
			return 0
		},
		toInt32: func(b uint64) int32 {
			if b != 0 {
				return 1
			}
			return 0
		},
		toBool:   func(b uint64) bool { return b != 0 },
		toString: func(b uint64) string { return strconv.FormatBool(b != 0) },
	},
	{
		unboxed: KindFloat32, boxed: KindBoxedFloat32, name: "Float32",
		toFloat64: func(b uint64) float64 { return float64(SmileArg{Bits: b}.AsFloat32()) },
		toInt32:   func(b uint64) int32 { return int32(SmileArg{Bits: b}.AsFloat32()) },
		toBool:    func(b uint64) bool { return SmileArg{Bits: b}.AsFloat32() != 0 },
		toString:  func(b uint64) string { return strconv.FormatFloat(float64(SmileArg{Bits: b}.AsFloat32()), 'g', -1, 32) },
	},
	{
		unboxed: KindFloat64, boxed: KindBoxedFloat64, name: "Float64",
		toFloat64: func(b uint64) float64 { return SmileArg{Bits: b}.AsFloat64() },
		toInt32:   func(b uint64) int32 { return int32(SmileArg{Bits: b}.AsFloat64()) },
		toBool:    func(b uint64) bool { return SmileArg{Bits: b}.AsFloat64() != 0 },
		toString:  func(b uint64) string { return strconv.FormatFloat(SmileArg{Bits: b}.AsFloat64(), 'g', -1, 64) },
	},
	{
		unboxed: KindSymbol, boxed: KindBoxedSymbol, name: "Symbol",
		toFloat64: func(b uint64) float64 { return float64(b) },
		toInt32:   func(b uint64) int32 { return int32(b) },
		toBool:    func(b uint64) bool { return true },
		toString:  func(b uint64) string { return "#" + strconv.FormatUint(b, 10) },
	},
	{
		// Real32/Real64 carry an opaque decimal payload backed by float64
		// bits; see SPEC_FULL.md/DESIGN.md for why decimal-exact parsing
		// and formatting (out of scope) aren't implemented here.
		unboxed: KindReal32, boxed: KindBoxedReal32, name: "Real32",
		toFloat64: func(b uint64) float64 { return SmileArg{Bits: b}.AsReal32() },
		toInt32:   func(b uint64) int32 { return int32(SmileArg{Bits: b}.AsReal32()) },
		toBool:    func(b uint64) bool { return SmileArg{Bits: b}.AsReal32() != 0 },
		toString:  func(b uint64) string { return strconv.FormatFloat(SmileArg{Bits: b}.AsReal32(), 'g', -1, 64) + "r" },
	},
	{
		unboxed: KindReal64, boxed: KindBoxedReal64, name: "Real64",
		toFloat64: func(b uint64) float64 { return SmileArg{Bits: b}.AsReal64() },
		toInt32:   func(b uint64) int32 { return int32(SmileArg{Bits: b}.AsReal64()) },
		toBool:    func(b uint64) bool { return SmileArg{Bits: b}.AsReal64() != 0 },
		toString:  func(b uint64) string { return strconv.FormatFloat(SmileArg{Bits: b}.AsReal64(), 'g', -1, 64) + "r" },
	},
	{
		unboxed: KindChar, boxed: KindBoxedChar, name: "Char",
		toFloat64: func(b uint64) float64 { return float64(byte(b)) },
		toInt32:   func(b uint64) int32 { return int32(byte(b)) },
		toBool:    func(b uint64) bool { return true },
		toString:  func(b uint64) string { return string(rune(byte(b))) },
	},
	{
		unboxed: KindUni, boxed: KindBoxedUni, name: "UniChar",
		toFloat64: func(b uint64) float64 { return float64(rune(uint32(b))) },
		toInt32:   func(b uint64) int32 { return int32(uint32(b)) },
		toBool:    func(b uint64) bool { return true },
		toString:  func(b uint64) string { return string(rune(uint32(b))) },
	},
}

func buildScalarVTables() {
	for _, spec := range scalarSpecs {
		spec := spec
		unboxedVT := &VTable{
			Kind: spec.unboxed,
			Name: spec.name,
			CompareEqual: func(self, other SmileArg) bool {
				return scalarBitsEqual(spec, self, other)
			},
			DeepEqual: func(self, other SmileArg, visited *VisitedSet) bool {
				return scalarBitsEqual(spec, self, other)
			},
			Hash: func(self SmileArg, oracle *HashOracle) uint64 {
				return oracle.Mix(self.Bits ^ uint64(spec.unboxed))
			},
			GetSecurity:       NoSecurity,
			SetSecurity:       UnsupportedSetSecurity,
			GetProperty:       scalarGetProperty(spec.unboxed),
			SetProperty:       UnsupportedSetProperty,
			HasProperty:       UnsupportedHasProperty,
			GetPropertyNames:  UnsupportedGetPropertyNames,
			ToBool:            func(self SmileArg) bool { return spec.toBool(self.Bits) },
			ToInteger32:       func(self SmileArg) int32 { return spec.toInt32(self.Bits) },
			ToFloat64:         func(self SmileArg) float64 { return spec.toFloat64(self.Bits) },
			ToString:          func(self SmileArg) string { return spec.toString(self.Bits) },
			Call:              UnsupportedCall,
			GetSourceLocation: UnsupportedGetSourceLocation,
			Box: func(self SmileArg) SmileArg {
				boxed := &BoxedScalar{Header: Header{Kind: spec.boxed, VTable: registry[spec.boxed]}, Bits: self.Bits}
				return FromObject(boxed)
			},
			Unbox: func(self SmileArg) SmileArg { return unboxedArg(spec.unboxed, self.Bits) },
		}
		registry[spec.unboxed] = unboxedVT

		boxedVT := &VTable{}
		*boxedVT = *unboxedVT
		boxedVT.Kind = spec.boxed
		boxedVT.CompareEqual = func(self, other SmileArg) bool {
			return scalarBitsEqual(spec, self, other)
		}
		boxedVT.DeepEqual = func(self, other SmileArg, visited *VisitedSet) bool {
			return scalarBitsEqual(spec, self, other)
		}
		boxedVT.Hash = func(self SmileArg, oracle *HashOracle) uint64 {
			return oracle.Mix(boxedBits(self) ^ uint64(spec.unboxed))
		}
		boxedVT.ToBool = func(self SmileArg) bool { return spec.toBool(boxedBits(self)) }
		boxedVT.ToInteger32 = func(self SmileArg) int32 { return spec.toInt32(boxedBits(self)) }
		boxedVT.ToFloat64 = func(self SmileArg) float64 { return spec.toFloat64(boxedBits(self)) }
		boxedVT.ToString = func(self SmileArg) string { return spec.toString(boxedBits(self)) }
		boxedVT.Box = IdentityBox
		boxedVT.Unbox = func(self SmileArg) SmileArg { return unboxedArg(spec.unboxed, boxedBits(self)) }
		registry[spec.boxed] = boxedVT
	}
}

// scalarGetProperty returns arithmeticGetProperty for kinds the operator
// preload applies to (see arithmeticCapable), or UnsupportedGetProperty
// otherwise — Bool/Symbol/Char/UniChar have no declared arithmetic meaning.
func scalarGetProperty(unboxedKind Kind) func(self SmileArg, prop symbol.ID) (SmileArg, bool) {
	if !arithmeticCapable(unboxedKind) {
		return UnsupportedGetProperty
	}
	return arithmeticGetProperty(unboxedKind)
}

func boxedBits(self SmileArg) uint64 {
	if bs, ok := self.Obj.(*BoxedScalar); ok {
		return bs.Bits
	}
	return self.Bits
}

// scalarBitsEqual implements the design's reflexive/symmetric
// compareEqual that also considers an unboxed K equal to a boxed K with
// the same payload (the design invariant).
func scalarBitsEqual(spec scalarKindSpec, self, other SmileArg) bool {
	selfUnboxed := self.Kind == spec.unboxed || self.Kind == spec.boxed
	otherUnboxed := other.Kind == spec.unboxed || other.Kind == spec.boxed
	if !selfUnboxed || !otherUnboxed {
		return false
	}
	var a, b uint64
	if self.Kind == spec.boxed {
		a = boxedBits(self)
	} else {
		a = self.Bits
	}
	if other.Kind == spec.boxed {
		b = boxedBits(other)
	} else {
		b = other.Bits
	}
	return a == b
}

// VTableFor returns the vtable for a primary kind. It is populated for
// every kind after Init() runs.
func VTableFor(k Kind) *VTable { return registry[k] }
