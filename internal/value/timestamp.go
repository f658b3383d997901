package value

import "time"

// Timestamp wraps a point in time. Always boxed, like the other extended
// numerics.
type Timestamp struct {
	Header
	When time.Time
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Header: Header{Kind: KindTimestamp, VTable: registry[KindTimestamp]}, When: t}
}

func buildTimestampVTable() {
	vt := buildOpaqueVTable(KindTimestamp, "Timestamp", func(self SmileArg) string {
		t, ok := self.Obj.(*Timestamp)
		if !ok {
			return "(timestamp)"
		}
		return t.When.UTC().Format(time.RFC3339Nano)
	})
	vt.CompareEqual = func(self, other SmileArg) bool {
		a, aok := self.Obj.(*Timestamp)
		b, bok := other.Obj.(*Timestamp)
		return aok && bok && a.When.Equal(b.When)
	}
	vt.DeepEqual = func(self, other SmileArg, visited *VisitedSet) bool {
		a, aok := self.Obj.(*Timestamp)
		b, bok := other.Obj.(*Timestamp)
		return aok && bok && a.When.Equal(b.When)
	}
	vt.ToFloat64 = func(self SmileArg) float64 {
		t, ok := self.Obj.(*Timestamp)
		if !ok {
			return 0
		}
		return float64(t.When.UnixNano()) / 1e9
	}
	registry[KindTimestamp] = vt
}
