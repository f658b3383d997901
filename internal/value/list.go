package value

import "smile/internal/symbol"

// List is the cons cell the design describes: "{ header, a: *HeapObject,
// d: *HeapObject }". Null is a single self-referential List cell whose kind
// is KindNull; the LIST_BIT test collapses to a single mask on Header.Kind
// rather than needing a separate nil check everywhere a list is walked.
type List struct {
	Header
	A Object
	D Object
}

// theNull is the process-wide Null singleton: a List cell whose A and D both
// point back at itself. Init() installs it; code elsewhere should treat a
// freshly-zero *List as invalid and always go through value.Null().
var theNull *List

// Null returns the Null singleton.
func Null() SmileArg { return FromObject(theNull) }

func newNullSingleton() *List {
	n := &List{Header: Header{Kind: KindNull, VTable: registry[KindNull]}}
	n.A = n
	n.D = n
	return n
}

// Cons builds a new list cell. Per the invariant that an unboxed kind must
// never be reachable from a heap slot, an unboxed head or tail is boxed
// before being stored.
func Cons(head, tail SmileArg) *List {
	if head.Kind.IsUnboxed() {
		head = Box(head)
	}
	if tail.Kind.IsUnboxed() {
		tail = Box(tail)
	}
	return &List{Header: Header{Kind: KindList, VTable: registry[KindList]}, A: head.Obj, D: tail.Obj}
}

// ListFromSlice builds a proper (Null-terminated) list from items, in order.
func ListFromSlice(items []SmileArg) SmileArg {
	result := Null()
	for i := len(items) - 1; i >= 0; i-- {
		result = FromObject(Cons(items[i], result))
	}
	return result
}

// ListToSlice walks a proper list and returns its elements in order. It
// stops at the first Null cell; a caller that needs to detect an improper
// (dotted) tail should walk A/D manually instead.
func ListToSlice(v SmileArg) []SmileArg {
	var out []SmileArg
	for v.Kind == KindList {
		l, ok := v.Obj.(*List)
		if !ok {
			break
		}
		out = append(out, FromObject(l.A))
		v = FromObject(l.D)
	}
	return out
}

func buildListVTables() {
	registry[KindList] = &VTable{
		Kind: KindList,
		Name: "List",
		CompareEqual: func(self, other SmileArg) bool {
			return self.Obj == other.Obj
		},
		DeepEqual:         deepEqualList,
		Hash:               hashIdentity,
		GetSecurity:        NoSecurity,
		SetSecurity:        UnsupportedSetSecurity,
		GetProperty:        listGetProperty,
		SetProperty:        UnsupportedSetProperty,
		HasProperty:        listHasProperty,
		GetPropertyNames:   listPropertyNames,
		ToBool:             func(self SmileArg) bool { return true },
		ToInteger32:        func(self SmileArg) int32 { return 0 },
		ToFloat64:          func(self SmileArg) float64 { return 0 },
		ToString:           func(self SmileArg) string { return "(list)" },
		Call:               UnsupportedCall,
		GetSourceLocation:  UnsupportedGetSourceLocation,
		Box:                IdentityBox,
		Unbox:              IdentityUnbox,
	}

	nullVT := &VTable{}
	*nullVT = *registry[KindList]
	nullVT.Kind = KindNull
	nullVT.Name = "Null"
	nullVT.CompareEqual = func(self, other SmileArg) bool { return other.Kind == KindNull }
	nullVT.DeepEqual = func(self, other SmileArg, visited *VisitedSet) bool { return other.Kind == KindNull }
	nullVT.ToBool = func(self SmileArg) bool { return false }
	nullVT.ToString = func(self SmileArg) string { return "null" }
	registry[KindNull] = nullVT
}

func deepEqualList(self, other SmileArg, visited *VisitedSet) bool {
	if other.Kind != KindList && other.Kind != KindNull {
		return false
	}
	if self.Obj == other.Obj {
		return true
	}
	if visited.Enter(self.Obj) {
		return true
	}
	a, aok := self.Obj.(*List)
	b, bok := other.Obj.(*List)
	if !aok || !bok {
		return false
	}
	return DeepEqual(FromObject(a.A), FromObject(b.A), visited) &&
		DeepEqual(FromObject(a.D), FromObject(b.D), visited)
}

// hashIdentity is the fallback Hash for kinds the design leaves unspecified
// beyond "hashes consistently for the identical object": pointer identity
// mixed through the oracle.
func hashIdentity(self SmileArg, oracle *HashOracle) uint64 {
	return oracle.Mix(uint64(objectAddr(self.Obj)))
}

func listGetProperty(self SmileArg, prop symbol.ID) (SmileArg, bool) {
	if slot, ok := symbol.WellKnownPropertySlot(prop); ok {
		l, _ := self.Obj.(*List)
		if l == nil {
			return SmileArg{}, false
		}
		switch slot {
		case 0: // a
			return FromObject(l.A), true
		case 1: // d
			return FromObject(l.D), true
		}
	}
	return SmileArg{}, false
}

func listHasProperty(self SmileArg, prop symbol.ID) bool {
	return prop == symbol.PA || prop == symbol.PD
}

func listPropertyNames(self SmileArg) []symbol.ID {
	return []symbol.ID{symbol.PA, symbol.PD}
}
