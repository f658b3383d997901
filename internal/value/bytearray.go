package value

import "smile/internal/symbol"

// ByteArray is a mutable byte buffer, the writable counterpart to String.
type ByteArray struct {
	Header
	Bytes []byte
}

func NewByteArray(b []byte) *ByteArray {
	return &ByteArray{Header: Header{Kind: KindByteArray, VTable: registry[KindByteArray], Flags: FlagWritable}, Bytes: b}
}

func buildByteArrayVTable() {
	registry[KindByteArray] = &VTable{
		Kind:         KindByteArray,
		Name:         "ByteArray",
		CompareEqual: func(self, other SmileArg) bool { return self.Obj == other.Obj },
		DeepEqual:    byteArrayDeepEqual,
		Hash: func(self SmileArg, oracle *HashOracle) uint64 {
			b, _ := self.Obj.(*ByteArray)
			if b == nil {
				return oracle.Mix(0)
			}
			return oracle.HashBytes(b.Bytes)
		},
		GetSecurity:      NoSecurity,
		SetSecurity:      UnsupportedSetSecurity,
		GetProperty:      byteArrayGetProperty,
		SetProperty:      UnsupportedSetProperty,
		HasProperty:      func(self SmileArg, prop symbol.ID) bool { return prop == symbol.PLength },
		GetPropertyNames: func(self SmileArg) []symbol.ID { return []symbol.ID{symbol.PLength} },
		ToBool:           func(self SmileArg) bool { return true },
		ToInteger32: func(self SmileArg) int32 {
			b, _ := self.Obj.(*ByteArray)
			if b == nil {
				return 0
			}
			return int32(len(b.Bytes))
		},
		ToFloat64:         func(self SmileArg) float64 { return 0 },
		ToString:          func(self SmileArg) string { return "(bytearray)" },
		Call:              UnsupportedCall,
		GetSourceLocation: UnsupportedGetSourceLocation,
		Box:               IdentityBox,
		Unbox:             IdentityUnbox,
	}
}

func byteArrayDeepEqual(self, other SmileArg, visited *VisitedSet) bool {
	a, aok := self.Obj.(*ByteArray)
	b, bok := other.Obj.(*ByteArray)
	if !aok || !bok || len(a.Bytes) != len(b.Bytes) {
		return false
	}
	for i := range a.Bytes {
		if a.Bytes[i] != b.Bytes[i] {
			return false
		}
	}
	return true
}

func byteArrayGetProperty(self SmileArg, prop symbol.ID) (SmileArg, bool) {
	if prop != symbol.PLength {
		return SmileArg{}, false
	}
	b, ok := self.Obj.(*ByteArray)
	if !ok {
		return SmileArg{}, false
	}
	return FromInt32(int32(len(b.Bytes))), true
}
