package value

import "smile/internal/symbol"

// Range represents start..end[:stepping], carried as a single kind with an
// ElementKind field distinguishing integer/float/char ranges rather than a
// separate Kind per element type (mirroring how scalarKindSpec already
// avoids kind-per-variant duplication for boxed scalars).
type Range struct {
	Header
	ElementKind Kind
	Start       SmileArg
	End         SmileArg
	Step        SmileArg
}

func NewRange(elementKind Kind, start, end, step SmileArg) *Range {
	return &Range{
		Header:      Header{Kind: KindRange, VTable: registry[KindRange]},
		ElementKind: elementKind,
		Start:       start,
		End:         end,
		Step:        step,
	}
}

func buildRangeVTable() {
	registry[KindRange] = &VTable{
		Kind:         KindRange,
		Name:         "Range",
		CompareEqual: rangeCompareEqual,
		DeepEqual:    func(self, other SmileArg, visited *VisitedSet) bool { return rangeCompareEqual(self, other) },
		Hash: func(self SmileArg, oracle *HashOracle) uint64 {
			r, _ := self.Obj.(*Range)
			if r == nil {
				return oracle.Mix(0)
			}
			return oracle.Mix(Hash(r.Start, oracle) ^ Hash(r.End, oracle) ^ Hash(r.Step, oracle))
		},
		GetSecurity:      NoSecurity,
		SetSecurity:      UnsupportedSetSecurity,
		GetProperty:      rangeGetProperty,
		SetProperty:      UnsupportedSetProperty,
		HasProperty:      rangeHasProperty,
		GetPropertyNames: func(self SmileArg) []symbol.ID { return []symbol.ID{symbol.PStart, symbol.PEnd} },
		ToBool:           func(self SmileArg) bool { return true },
		ToInteger32:      func(self SmileArg) int32 { return 0 },
		ToFloat64:        func(self SmileArg) float64 { return 0 },
		ToString:         func(self SmileArg) string { return "(range)" },
		Call:             UnsupportedCall,
		GetSourceLocation: UnsupportedGetSourceLocation,
		Box:               IdentityBox,
		Unbox:             IdentityUnbox,
	}
}

func rangeCompareEqual(self, other SmileArg) bool {
	a, aok := self.Obj.(*Range)
	b, bok := other.Obj.(*Range)
	if !aok || !bok || a.ElementKind != b.ElementKind {
		return false
	}
	return CompareEqual(a.Start, b.Start) && CompareEqual(a.End, b.End) && CompareEqual(a.Step, b.Step)
}

func rangeGetProperty(self SmileArg, prop symbol.ID) (SmileArg, bool) {
	r, ok := self.Obj.(*Range)
	if !ok {
		return SmileArg{}, false
	}
	switch prop {
	case symbol.PStart:
		return r.Start, true
	case symbol.PEnd:
		return r.End, true
	default:
		return SmileArg{}, false
	}
}

func rangeHasProperty(self SmileArg, prop symbol.ID) bool {
	return prop == symbol.PStart || prop == symbol.PEnd
}
