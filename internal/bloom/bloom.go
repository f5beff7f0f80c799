// Package bloom implements the 64-bit, k=4 Bloom signature used to fast-reject
// containment checks before the expensive recursive comparison runs.
package bloom

import "github.com/sexpcore/sexp/internal/shash"

// K is the number of hash functions (bit positions derived per element hash).
const K = 4

// Signature is a 64-bit union-of-bit-sets summary of element hashes reachable
// from a value.
type Signature uint64

// FromHash derives the Bloom bit positions for a single element's semantic
// hash, by rotating the hash by 8*i bits for i in 0..K-1 and taking it mod 64.
func FromHash(elemHash uint32) Signature {
	var sig Signature
	for i := 0; i < K; i++ {
		rotated := shash.Rotl32(elemHash, i*8)
		bit := rotated & 63
		sig |= Signature(1) << bit
	}

	return sig
}

// Combine unions a child signature into a parent's (Bloom filter union).
func Combine(parent, child Signature) Signature {
	return parent | child
}

// MayContain reports whether needle's bits are a subset of container's bits.
// false means needle is definitely not contained; true means it might be
// (subject to full structural verification).
func MayContain(container, needle Signature) bool {
	return needle&^container == 0
}

// SplitLoHi splits the 64-bit signature into its low and high 32-bit halves,
// matching the external index's two-key storage convention.
func SplitLoHi(sig Signature) (lo, hi int32) {
	return int32(uint32(sig)), int32(uint32(sig >> 32))
}

// FromLoHi reconstructs a Signature from its two 32-bit halves.
func FromLoHi(lo, hi int32) Signature {
	return Signature(uint32(hi))<<32 | Signature(uint32(lo))
}
