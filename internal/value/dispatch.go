package value

import (
	"reflect"

	"smile/internal/symbol"
)

// The functions in this file are the single dispatch point every caller
// (interpreter, compiler-time constant folding, tests) goes through instead
// of reaching into a VTable field directly; they also give unboxed scalars a
// vtable lookup exactly like any heap object's, since registry is populated
// for every Kind, boxed or not.

func vtableFor(self SmileArg) *VTable {
	vt := registry[self.Kind]
	if vt == nil {
		panic("value: no vtable registered for kind " + kindName(self.Kind))
	}
	return vt
}

func CompareEqual(self, other SmileArg) bool { return vtableFor(self).CompareEqual(self, other) }

func DeepEqual(self, other SmileArg, visited *VisitedSet) bool {
	return vtableFor(self).DeepEqual(self, other, visited)
}

func Hash(self SmileArg, oracle *HashOracle) uint64 { return vtableFor(self).Hash(self, oracle) }

func GetSecurity(self SmileArg) Object { return vtableFor(self).GetSecurity(self) }
func SetSecurity(self SmileArg, key Object) error { return vtableFor(self).SetSecurity(self, key) }

func GetProperty(self SmileArg, prop symbol.ID) (SmileArg, bool) {
	return vtableFor(self).GetProperty(self, prop)
}
func SetProperty(self SmileArg, prop symbol.ID, val SmileArg) error {
	return vtableFor(self).SetProperty(self, prop, val)
}
func HasProperty(self SmileArg, prop symbol.ID) bool { return vtableFor(self).HasProperty(self, prop) }
func GetPropertyNames(self SmileArg) []symbol.ID     { return vtableFor(self).GetPropertyNames(self) }

func ToBool(self SmileArg) bool       { return vtableFor(self).ToBool(self) }
func ToInteger32(self SmileArg) int32 { return vtableFor(self).ToInteger32(self) }
func ToFloat64(self SmileArg) float64 { return vtableFor(self).ToFloat64(self) }
func ToString(self SmileArg) string   { return vtableFor(self).ToString(self) }

func Call(self SmileArg, args []SmileArg) (SmileArg, error) { return vtableFor(self).Call(self, args) }

func GetSourceLocation(self SmileArg) (SourceLocation, bool) {
	return vtableFor(self).GetSourceLocation(self)
}

func Box(self SmileArg) SmileArg   { return vtableFor(self).Box(self) }
func Unbox(self SmileArg) SmileArg { return vtableFor(self).Unbox(self) }

// objectAddr returns a stable identity for an Object, used by kinds whose
// hash/equality is pointer identity (List cells, UserObjects, etc). Every
// Object implementation here is a pointer type, so reflect.Value.Pointer is
// safe and avoids a per-kind type switch.
func objectAddr(obj Object) uintptr {
	if obj == nil {
		return 0
	}
	return reflect.ValueOf(obj).Pointer()
}
