package value

import "smile/internal/symbol"

// KnownObjects is the "known-objects table" the design requires to be
// "initialized exactly once per process before the first execution and
// treated as immutable thereafter": Primitive (the sole root every base
// chain terminates at), True/False/Null singletons, and a small-integer
// cache so hot loop counters don't allocate a fresh BoxedScalar every
// iteration.
type KnownObjects struct {
	Primitive *UserObject
	True      *BoxedScalar
	False     *BoxedScalar
	Null      *List

	smallIntLo int
	smallInts  []*BoxedScalar
}

// Known is the process-wide instance; Init() populates it exactly once.
var Known *KnownObjects

const smallIntCacheLo = -128
const smallIntCacheHi = 1024

func buildKnownObjects() *KnownObjects {
	k := &KnownObjects{
		smallIntLo: smallIntCacheLo,
		smallInts:  make([]*BoxedScalar, smallIntCacheHi-smallIntCacheLo),
	}
	k.Primitive = &UserObject{
		Header: Header{Kind: KindUserObject, VTable: registry[KindUserObject], Flags: FlagFrozen},
		Dict:   make(map[symbol.ID]SmileArg),
	}
	k.True = Box(FromBool(true)).Obj.(*BoxedScalar)
	k.False = Box(FromBool(false)).Obj.(*BoxedScalar)
	k.Null = newNullSingleton()
	theNull = k.Null
	return k
}

// BoxedInt32 returns a boxed Integer32 for v, reusing the small-integer
// cache when v falls in its range (the design's known-objects table exists
// precisely to avoid reboxing hot small integers on every loop iteration).
func (k *KnownObjects) BoxedInt32(v int32) SmileArg {
	if int(v) >= smallIntCacheLo && int(v) < smallIntCacheHi {
		idx := int(v) - k.smallIntLo
		if cached := k.smallInts[idx]; cached != nil {
			return FromObject(cached)
		}
		boxed := Box(FromInt32(v))
		k.smallInts[idx] = boxed.Obj.(*BoxedScalar)
		return boxed
	}
	return Box(FromInt32(v))
}
