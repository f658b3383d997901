package value

import "smile/internal/symbol"

// String is an immutable byte-string object. The glossary lists it as
// a primary kind but doesn't spell out its field layout the way it does for
// List/Pair/UserObject, so this mirrors the shape of ByteArray (the other
// raw-byte-bearing kind) minus mutability.
type String struct {
	Header
	Text string
}

func NewString(s string) *String {
	return &String{Header: Header{Kind: KindString, VTable: registry[KindString]}, Text: s}
}

func buildStringVTable() {
	registry[KindString] = &VTable{
		Kind:         KindString,
		Name:         "String",
		CompareEqual: stringCompareEqual,
		DeepEqual:    func(self, other SmileArg, visited *VisitedSet) bool { return stringCompareEqual(self, other) },
		Hash: func(self SmileArg, oracle *HashOracle) uint64 {
			s, _ := self.Obj.(*String)
			if s == nil {
				return oracle.Mix(0)
			}
			return oracle.HashBytes([]byte(s.Text))
		},
		GetSecurity:      NoSecurity,
		SetSecurity:      UnsupportedSetSecurity,
		GetProperty:      stringGetProperty,
		SetProperty:      UnsupportedSetProperty,
		HasProperty:      func(self SmileArg, prop symbol.ID) bool { return prop == symbol.PLength },
		GetPropertyNames: func(self SmileArg) []symbol.ID { return []symbol.ID{symbol.PLength} },
		ToBool:           func(self SmileArg) bool { return true },
		ToInteger32: func(self SmileArg) int32 {
			s, _ := self.Obj.(*String)
			if s == nil {
				return 0
			}
			return int32(len(s.Text))
		},
		ToFloat64: func(self SmileArg) float64 { return 0 },
		ToString: func(self SmileArg) string {
			s, _ := self.Obj.(*String)
			if s == nil {
				return ""
			}
			return s.Text
		},
		Call:              UnsupportedCall,
		GetSourceLocation: UnsupportedGetSourceLocation,
		Box:               IdentityBox,
		Unbox:             IdentityUnbox,
	}
}

func stringCompareEqual(self, other SmileArg) bool {
	a, aok := self.Obj.(*String)
	b, bok := other.Obj.(*String)
	return aok && bok && a.Text == b.Text
}

func stringGetProperty(self SmileArg, prop symbol.ID) (SmileArg, bool) {
	if prop != symbol.PLength {
		return SmileArg{}, false
	}
	s, ok := self.Obj.(*String)
	if !ok {
		return SmileArg{}, false
	}
	return FromInt32(int32(len(s.Text))), true
}
