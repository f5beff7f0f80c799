// Package shash implements the semantic hash kit: the small set of
// deterministic 32-bit hash primitives that back structural hashing, Bloom
// signatures, and index key extraction.
//
// All hashing bottoms out in xxhash.Sum64, which is stable across processes
// and platforms, then folds the 64-bit digest to 32 bits. Folding (rather
// than truncation) keeps both halves of the xxhash avalanche in play.
package shash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// fold combines the high and low 32 bits of a 64-bit digest into one 32-bit
// value using a wide XOR, preserving more avalanche than truncation would.
func fold(h uint64) uint32 {
	return uint32(h) ^ uint32(h>>32)
}

// Bytes hashes an arbitrary byte string.
func Bytes(data []byte) uint32 {
	return fold(xxhash.Sum64(data))
}

// Uint32 hashes a 32-bit unsigned value.
func Uint32(v uint32) uint32 {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)

	return Bytes(b[:])
}

// Int64 hashes a signed 64-bit integer, the representation used for both
// smallint and full integer atoms.
func Int64(v int64) uint32 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))

	return Bytes(b[:])
}

// Float64 hashes a double, normalizing -0.0 to +0.0 first so the two compare
// and hash identically, matching IEEE float equality.
func Float64(v float64) uint32 {
	if v == 0 {
		v = 0
	}

	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))

	return Bytes(b[:])
}

// StringWithTag hashes a byte string tagged with a type discriminator so
// that, e.g., a symbol and a string with the same bytes hash differently.
// The same tag constant must be used for both short and long string forms.
func StringWithTag(tag uint32, data []byte) uint32 {
	return Combine(Uint32(tag), Bytes(data))
}

// Combine mixes a child hash into a running accumulator. Order of arguments
// matters: Combine(a, b) != Combine(b, a) in general.
func Combine(a, b uint32) uint32 {
	// Same mixing shape as PostgreSQL's hash_combine (boost-style):
	// shift-add-xor with the golden-ratio constant to spread bits from both
	// inputs.
	h := a
	h ^= b + 0x9e3779b9 + (h << 6) + (h >> 2)

	return h
}

// Rotl32 rotates x left by r bits (r is taken mod 32).
func Rotl32(x uint32, r int) uint32 {
	r &= 31

	return (x << uint(r)) | (x >> uint(32-r))
}

// CombineChild folds a child's hash into its parent with a position-dependent
// rotation, so permuting a list's elements changes the resulting hash.
func CombineChild(parent, child uint32, position int) uint32 {
	rotated := Rotl32(child, position%31)

	return Combine(parent, rotated)
}
