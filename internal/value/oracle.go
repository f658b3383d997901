package value

import (
	"crypto/rand"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// NewHashOracle seeds a process-wide hash perturbation value from OS
// entropy, matching the design: "generated at startup from OS entropy and
// never changes during the process lifetime." The source does this with a
// 32-bit scalar and a 16384-entry table mixed via its own siphash-derived
// hash.c/siphash.c; this port gets the same "keyed, unpredictable across
// processes, stable within one" property from a blake2b instance keyed by
// the random seed (golang.org/x/crypto/blake2b), which is the Go-ecosystem
// equivalent dependency named in SPEC_FULL.md's DOMAIN STACK.
func NewHashOracle() *HashOracle {
	o := &HashOracle{}
	if _, err := rand.Read(o.seed[:]); err != nil {
		// crypto/rand failing means the OS entropy source is unusable; a
		// zero seed keeps the oracle deterministic-but-still-functional
		// rather than leaving it half-initialized.
		o.seed = [32]byte{}
	}
	h, err := blake2b.New512(o.seed[:])
	if err != nil {
		h, _ = blake2b.New512(nil)
	}
	for i := range o.table {
		var idx [8]byte
		binary.LittleEndian.PutUint64(idx[:], uint64(i))
		h.Reset()
		h.Write(o.seed[:])
		h.Write(idx[:])
		sum := h.Sum(nil)
		o.table[i] = binary.LittleEndian.Uint32(sum)
	}
	return o
}

// Mix perturbs a raw hash value with the oracle so that the same logical
// value hashes identically within one process but differently across
// processes (the design "Hash oracle effect").
func (o *HashOracle) Mix(h uint64) uint64 {
	lo := o.table[h&0x3fff]
	hi := o.table[(h>>14)&0x3fff]
	mixed := h ^ uint64(lo) ^ (uint64(hi) << 32)
	mixed *= 0x9E3779B97F4A7C15
	return mixed
}

// HashBytes hashes a byte payload (string/symbol content, etc.) through a
// blake2b instance keyed by the oracle's seed, then folds the result into a
// 64-bit value and mixes it.
func (o *HashOracle) HashBytes(b []byte) uint64 {
	h, err := blake2b.New256(o.seed[:16])
	if err != nil {
		h, _ = blake2b.New256(nil)
	}
	h.Write(b)
	sum := h.Sum(nil)
	raw := binary.LittleEndian.Uint64(sum)
	return o.Mix(raw)
}
