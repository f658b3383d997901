package value

import "smile/internal/symbol"

// Pair is "{ header, left, right }" (the design), with an optional
// source-position variant carrying Position. Rather than two Go types for
// the with/without-position cases, HasPosition (backed by
// FlagHasSourcePosition) tells GetSourceLocation whether Position is
// meaningful, matching the header-flag scheme the rest of the object model
// uses for optional fields.
type Pair struct {
	Header
	Left, Right Object
	Position    SourceLocation
}

// NewPair builds a plain Pair with no attached source position (OpNewPair's
// runtime construction; a reader producing (receiver . method) call syntax
// attaches Position separately). Per the unboxed-never-reachable-from-a-heap-
// slot invariant Cons documents, an unboxed operand is boxed first.
func NewPair(left, right SmileArg) *Pair {
	if left.Kind.IsUnboxed() {
		left = Box(left)
	}
	if right.Kind.IsUnboxed() {
		right = Box(right)
	}
	return &Pair{Header: Header{Kind: KindPair, VTable: registry[KindPair]}, Left: left.Obj, Right: right.Obj}
}

func buildPairVTable() {
	registry[KindPair] = &VTable{
		Kind:             KindPair,
		Name:             "Pair",
		CompareEqual:     func(self, other SmileArg) bool { return self.Obj == other.Obj },
		DeepEqual:        deepEqualPair,
		Hash:             hashIdentity,
		GetSecurity:      NoSecurity,
		SetSecurity:      UnsupportedSetSecurity,
		GetProperty:      pairGetProperty,
		SetProperty:      UnsupportedSetProperty,
		HasProperty:      pairHasProperty,
		GetPropertyNames: func(self SmileArg) []symbol.ID { return []symbol.ID{symbol.PLeft, symbol.PRight} },
		ToBool:           func(self SmileArg) bool { return true },
		ToInteger32:      func(self SmileArg) int32 { return 0 },
		ToFloat64:        func(self SmileArg) float64 { return 0 },
		ToString:         func(self SmileArg) string { return "(pair)" },
		Call:             UnsupportedCall,
		GetSourceLocation: func(self SmileArg) (SourceLocation, bool) {
			p, ok := self.Obj.(*Pair)
			if !ok || p.Flags&FlagHasSourcePosition == 0 {
				return SourceLocation{}, false
			}
			return p.Position, true
		},
		Box:   IdentityBox,
		Unbox: IdentityUnbox,
	}
}

func deepEqualPair(self, other SmileArg, visited *VisitedSet) bool {
	if other.Kind != KindPair {
		return false
	}
	if self.Obj == other.Obj {
		return true
	}
	if visited.Enter(self.Obj) {
		return true
	}
	a := self.Obj.(*Pair)
	b, ok := other.Obj.(*Pair)
	if !ok {
		return false
	}
	return DeepEqual(FromObject(a.Left), FromObject(b.Left), visited) &&
		DeepEqual(FromObject(a.Right), FromObject(b.Right), visited)
}

func pairGetProperty(self SmileArg, prop symbol.ID) (SmileArg, bool) {
	p, ok := self.Obj.(*Pair)
	if !ok {
		return SmileArg{}, false
	}
	switch prop {
	case symbol.PLeft:
		return FromObject(p.Left), true
	case symbol.PRight:
		return FromObject(p.Right), true
	default:
		return SmileArg{}, false
	}
}

func pairHasProperty(self SmileArg, prop symbol.ID) bool {
	return prop == symbol.PLeft || prop == symbol.PRight
}
