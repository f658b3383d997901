// Package value implements the tagged, polymorphic object model: boxed
// heap objects, unboxed register values, and the per-kind virtual table of
// operations every value in the engine is dispatched through.
package value

// Kind is the 8-bit primary type tag carried by every value, boxed or
// unboxed. Flags live alongside it in a slot's Header/SmileArg but are
// tracked as a separate field rather than packed bits, since Go gives us a
// real struct instead of the source's single tagged word.
type Kind uint8

// Unboxed scalar kinds occupy the low nibble-and-a-bit range so that OR-ing
// in boxedBit yields the matching boxed kind, the same branchless
// unboxed<->boxed mapping the source describes.
const (
	KindByte Kind = iota
	KindInt16
	KindInt32
	KindInt64
	KindBool
	KindFloat32
	KindFloat64
	KindSymbol
	KindReal32
	KindReal64
	KindChar
	KindUni

	numUnboxedKinds
)

const boxedBit Kind = 0x10

// Boxed counterparts of the unboxed scalars above. A value with kind
// KindByte+boxedBit is logically the same Byte as KindByte, just reachable
// from a heap slot.
const (
	KindBoxedByte    = KindByte + boxedBit
	KindBoxedInt16   = KindInt16 + boxedBit
	KindBoxedInt32   = KindInt32 + boxedBit
	KindBoxedInt64   = KindInt64 + boxedBit
	KindBoxedBool    = KindBool + boxedBit
	KindBoxedFloat32 = KindFloat32 + boxedBit
	KindBoxedFloat64 = KindFloat64 + boxedBit
	KindBoxedSymbol  = KindSymbol + boxedBit
	KindBoxedReal32  = KindReal32 + boxedBit
	KindBoxedReal64  = KindReal64 + boxedBit
	KindBoxedChar    = KindChar + boxedBit
	KindBoxedUni     = KindUni + boxedBit
)

// Aggregate and extended kinds live past the boxed-scalar range; they are
// always heap objects and never appear unboxed.
const (
	KindNull Kind = 0x20 + iota
	KindList
	KindUserObject
	KindString
	KindPair
	KindRange
	KindByteArray
	KindHandle
	KindFunction
	KindClosure
	KindTillContinuation
	KindMacro

	// Extended numerics: the source always keeps these boxed (see
	// SPEC_FULL.md's Open Questions decision), backed by math/big.
	KindInt128
	KindFloat128
	KindReal128
	KindBigInt
	KindBigFloat
	KindBigReal
	KindTimestamp

	// Parse-time kinds. These are produced by the (out-of-scope) parser and
	// macro system; the core only needs to recognize and opaquely carry
	// them, per the design
	KindSyntax
	KindNonterminal
	KindLoanword
	KindParseDecl
	KindParseMessage

	// Reserved, per the design Open Questions: enumerated but unexercised.
	KindFacade
)

// IsUnboxed reports whether k is one of the register-only scalar kinds.
func (k Kind) IsUnboxed() bool { return k < numUnboxedKinds }

// IsBoxedScalar reports whether k is the heap-resident counterpart of an
// unboxed scalar kind.
func (k Kind) IsBoxedScalar() bool {
	return k&boxedBit != 0 && (k&^boxedBit) < numUnboxedKinds
}

// UnboxedKind returns the unboxed kind corresponding to a boxed scalar kind. It is
// only meaningful when IsBoxedScalar(k) is true.
func (k Kind) UnboxedKind() Kind { return k &^ boxedBit }

// BoxedKind returns the boxed kind corresponding to an unboxed scalar kind.
// It is only meaningful when IsUnboxed(k) is true.
func (k Kind) BoxedKind() Kind { return k | boxedBit }

// Flags carries secondary, orthogonal bits the design packs alongside the
// kind tag: object security, whether a source position is attached, and
// whether a Function is backed by an external (host) implementation.
type Flags uint8

const (
	FlagSecurity Flags = 1 << iota
	FlagHasSourcePosition
	FlagExternalFunction
	FlagWritable
	FlagAppendable
	FlagFrozen
)
