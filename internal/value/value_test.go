package value

import (
	"testing"

	"smile/internal/errors"
	"smile/internal/symbol"
)

func setup(t *testing.T) {
	t.Helper()
	if !initialized {
		Init()
	}
}

func TestScalarBoxUnboxRoundTrip(t *testing.T) {
	setup(t)
	orig := FromInt32(42)
	boxed := Box(orig)
	if boxed.Kind != KindBoxedInt32 {
		t.Fatalf("Box(Int32) kind = %v, want KindBoxedInt32", boxed.Kind)
	}
	unboxed := Unbox(boxed)
	if unboxed.Kind != KindInt32 || unboxed.AsInt32() != 42 {
		t.Fatalf("round trip changed value: got kind=%v val=%d", unboxed.Kind, unboxed.AsInt32())
	}
}

func TestUnboxedEqualsBoxedSamePayload(t *testing.T) {
	setup(t)
	unboxed := FromInt64(7)
	boxed := Box(FromInt64(7))
	if !CompareEqual(unboxed, boxed) {
		t.Fatalf("unboxed Int64(7) should compare equal to boxed Int64(7)")
	}
	if !CompareEqual(boxed, unboxed) {
		t.Fatalf("CompareEqual should be symmetric")
	}
}

func TestScalarHashStableWithinProcess(t *testing.T) {
	setup(t)
	a := Hash(FromFloat64(3.5), Oracle)
	b := Hash(FromFloat64(3.5), Oracle)
	if a != b {
		t.Fatalf("identical value hashed differently within one process: %d vs %d", a, b)
	}
}

func TestNullSingletonSelfReferential(t *testing.T) {
	setup(t)
	n := Null()
	if !n.IsNull() {
		t.Fatalf("Null() did not report IsNull")
	}
	l := n.Obj.(*List)
	if l.A != l || l.D != l {
		t.Fatalf("Null cell must be self-referential in both a and d")
	}
	if ToBool(n) {
		t.Fatalf("Null must be falsy")
	}
}

func TestListDeepEqualBreaksCycles(t *testing.T) {
	setup(t)
	// Two distinct two-element cycles (a -> b -> a, and its mirror) with
	// matching payloads: structurally equal, but only terminates if
	// DeepEqual's visited-set actually breaks the cycle instead of
	// recursing forever.
	a := &List{Header: Header{Kind: KindList, VTable: registry[KindList]}}
	b := &List{Header: Header{Kind: KindList, VTable: registry[KindList]}}
	boxed := Box(FromInt32(1)).Obj
	a.A, b.A = boxed, boxed
	a.D, b.D = b, a

	visited := NewVisitedSet()
	if !DeepEqual(FromObject(a), FromObject(b), visited) {
		t.Fatalf("mirrored cyclic lists with matching payloads should be deep-equal")
	}
}

func TestPairGetProperty(t *testing.T) {
	setup(t)
	left := Box(FromInt32(1)).Obj
	right := Box(FromInt32(2)).Obj
	p := &Pair{Header: Header{Kind: KindPair, VTable: registry[KindPair]}, Left: left, Right: right}
	v, ok := GetProperty(FromObject(p), symbol.PLeft)
	if !ok {
		t.Fatalf("Pair should have a left property")
	}
	if v.Obj != left {
		t.Fatalf("Pair.left returned the wrong object")
	}
}

func TestUserObjectPrototypeChainLookup(t *testing.T) {
	setup(t)
	base := NewUserObject(nil)
	base.Dict[symbol.PCount] = FromInt32(99)

	child := NewUserObject(base)
	v, ok := GetProperty(FromObject(child), symbol.PCount)
	if !ok || v.AsInt32() != 99 {
		t.Fatalf("child should inherit property from base, got ok=%v v=%v", ok, v)
	}

	child.Dict[symbol.PCount] = FromInt32(1)
	v, ok = GetProperty(FromObject(child), symbol.PCount)
	if !ok || v.AsInt32() != 1 {
		t.Fatalf("child's own property should shadow base's, got %v", v)
	}
}

func TestUserObjectFrozenRejectsSet(t *testing.T) {
	setup(t)
	obj := NewUserObject(nil)
	obj.Flags |= FlagFrozen
	err := SetProperty(FromObject(obj), symbol.PCount, FromInt32(1))
	if err == nil {
		t.Fatalf("setting a property on a frozen object should fail")
	}
	if k, ok := err.(interface{ ErrorKind() errors.Kind }); !ok || k.ErrorKind() != errors.ObjectSecurityError {
		t.Fatalf("frozen object's SetProperty error should be object-security-error, got %v", err)
	}
}

func TestUserObjectSecuredRejectsSet(t *testing.T) {
	setup(t)
	obj := NewUserObject(nil)
	if err := SetSecurity(FromObject(obj), FromObject(NewString("key"))); err != nil {
		t.Fatalf("SetSecurity: %v", err)
	}
	err := SetProperty(FromObject(obj), symbol.PCount, FromInt32(1))
	if err == nil {
		t.Fatalf("setting a property on a secured object should fail without the matching key")
	}
	if k, ok := err.(interface{ ErrorKind() errors.Kind }); !ok || k.ErrorKind() != errors.ObjectSecurityError {
		t.Fatalf("secured object's SetProperty error should be object-security-error, got %v", err)
	}
}

func TestUserObjectNonAppendableRejectsNewProperty(t *testing.T) {
	setup(t)
	obj := NewUserObject(nil)
	obj.Flags &^= FlagWritable
	err := SetProperty(FromObject(obj), symbol.PCount, FromInt32(1))
	if err == nil {
		t.Fatalf("setting an absent property on a non-appendable object should fail")
	}
	if k, ok := err.(interface{ ErrorKind() errors.Kind }); !ok || k.ErrorKind() != errors.PropertyError {
		t.Fatalf("non-appendable object's SetProperty error should be property-error, got %v", err)
	}
}

func TestArithmeticDivideByZeroIsArithmeticError(t *testing.T) {
	setup(t)
	fn, ok := arithmeticGetProperty(KindInt32)(FromInt32(1), symbol.ODiv)
	if !ok {
		t.Fatalf("expected Int32 to expose the / operator property")
	}
	f := fn.Obj.(*Function)
	_, err := f.External.Fn([]SmileArg{FromInt32(0)}, f.External.Param)
	if err == nil {
		t.Fatalf("dividing by zero should fail")
	}
	if k, ok := err.(interface{ ErrorKind() errors.Kind }); !ok || k.ErrorKind() != errors.ArithmeticError {
		t.Fatalf("divide-by-zero error should be arithmetic-error, got %v", err)
	}
}

func TestStringHashAndEquality(t *testing.T) {
	setup(t)
	a := FromObject(NewString("hello"))
	b := FromObject(NewString("hello"))
	if !CompareEqual(a, b) {
		t.Fatalf("two strings with the same text should compare equal")
	}
	if Hash(a, Oracle) != Hash(b, Oracle) {
		t.Fatalf("two strings with the same text should hash the same")
	}
}

func TestRangeCompareEqual(t *testing.T) {
	setup(t)
	r1 := FromObject(NewRange(KindInt32, FromInt32(0), FromInt32(10), FromInt32(1)))
	r2 := FromObject(NewRange(KindInt32, FromInt32(0), FromInt32(10), FromInt32(1)))
	if !CompareEqual(r1, r2) {
		t.Fatalf("ranges with identical bounds should compare equal")
	}
}

func TestHandleCloseIsIdempotent(t *testing.T) {
	setup(t)
	calls := 0
	h := NewHandle("test", func() error { calls++; return nil })
	h.Close()
	h.Close()
	if calls != 1 {
		t.Fatalf("Close ran %d times, want exactly 1", calls)
	}
}

func TestEveryRegisteredKindHasCompleteVTable(t *testing.T) {
	setup(t)
	for k, vt := range registry {
		if vt.CompareEqual == nil || vt.DeepEqual == nil || vt.Hash == nil ||
			vt.GetSecurity == nil || vt.SetSecurity == nil ||
			vt.GetProperty == nil || vt.SetProperty == nil || vt.HasProperty == nil || vt.GetPropertyNames == nil ||
			vt.ToBool == nil || vt.ToInteger32 == nil || vt.ToFloat64 == nil || vt.ToString == nil ||
			vt.Call == nil || vt.GetSourceLocation == nil || vt.Box == nil || vt.Unbox == nil {
			t.Fatalf("kind %v has an incomplete vtable", k)
		}
	}
}

