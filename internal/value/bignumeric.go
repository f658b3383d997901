package value

import "math/big"

// BigNumber backs BigInt/BigFloat/BigReal/Int128/Float128/Real128: all six
// are always-boxed per SPEC_FULL.md's resolution of the design's Open Question
// on extended-numeric representation, and all six only need arbitrary-
// precision storage, not the interpreter reaching into their bits the way
// it does scalars. math/big is the natural host for this (BigInt on
// big.Int, the rest on big.Float, which already tracks a precision/exponent
// pair adequate for opaque Real128/Float128 storage even though true
// IEEE-754-128 semantics are out of scope).
type BigNumber struct {
	Header
	Int   *big.Int
	Float *big.Float
}

func NewBigInt(v *big.Int) *BigNumber {
	return &BigNumber{Header: Header{Kind: KindBigInt, VTable: registry[KindBigInt]}, Int: v}
}

func NewBigFloat(v *big.Float) *BigNumber {
	return &BigNumber{Header: Header{Kind: KindBigFloat, VTable: registry[KindBigFloat]}, Float: v}
}

func NewBigReal(v *big.Float) *BigNumber {
	return &BigNumber{Header: Header{Kind: KindBigReal, VTable: registry[KindBigReal]}, Float: v}
}

func NewInt128(v *big.Int) *BigNumber {
	return &BigNumber{Header: Header{Kind: KindInt128, VTable: registry[KindInt128]}, Int: v}
}

func NewFloat128(v *big.Float) *BigNumber {
	return &BigNumber{Header: Header{Kind: KindFloat128, VTable: registry[KindFloat128]}, Float: v}
}

func NewReal128(v *big.Float) *BigNumber {
	return &BigNumber{Header: Header{Kind: KindReal128, VTable: registry[KindReal128]}, Float: v}
}

func bigNumberToString(self SmileArg) string {
	n, ok := self.Obj.(*BigNumber)
	if !ok {
		return "(big)"
	}
	if n.Int != nil {
		return n.Int.String()
	}
	if n.Float != nil {
		return n.Float.String()
	}
	return "(big)"
}

func bigNumberCompareEqual(self, other SmileArg) bool {
	a, aok := self.Obj.(*BigNumber)
	b, bok := other.Obj.(*BigNumber)
	if !aok || !bok || self.Kind != other.Kind {
		return false
	}
	if a.Int != nil && b.Int != nil {
		return a.Int.Cmp(b.Int) == 0
	}
	if a.Float != nil && b.Float != nil {
		return a.Float.Cmp(b.Float) == 0
	}
	return false
}

func bigNumberToFloat64(self SmileArg) float64 {
	n, ok := self.Obj.(*BigNumber)
	if !ok {
		return 0
	}
	if n.Float != nil {
		f, _ := n.Float.Float64()
		return f
	}
	if n.Int != nil {
		f := new(big.Float).SetInt(n.Int)
		v, _ := f.Float64()
		return v
	}
	return 0
}

func buildBigNumericVTables() {
	for _, kv := range []struct {
		kind Kind
		name string
	}{
		{KindBigInt, "BigInt"},
		{KindBigFloat, "BigFloat"},
		{KindBigReal, "BigReal"},
		{KindInt128, "Integer128"},
		{KindFloat128, "Float128"},
		{KindReal128, "Real128"},
	} {
		vt := buildOpaqueVTable(kv.kind, kv.name, bigNumberToString)
		vt.CompareEqual = bigNumberCompareEqual
		vt.DeepEqual = func(self, other SmileArg, visited *VisitedSet) bool { return bigNumberCompareEqual(self, other) }
		vt.ToFloat64 = bigNumberToFloat64
		vt.ToBool = func(self SmileArg) bool {
			n, ok := self.Obj.(*BigNumber)
			if !ok {
				return false
			}
			if n.Int != nil {
				return n.Int.Sign() != 0
			}
			if n.Float != nil {
				return n.Float.Sign() != 0
			}
			return false
		}
		registry[kv.kind] = vt
	}
}
