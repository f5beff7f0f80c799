package query

import (
	"github.com/sexpcore/sexp/decode"
	"github.com/sexpcore/sexp/format"
	"github.com/sexpcore/sexp/internal/bloom"
	"github.com/sexpcore/sexp/internal/shash"
	"github.com/sexpcore/sexp/nav"
)

// ComputeBloom computes the 64-bit Bloom signature of the element at off: a
// union of the per-element bit sets of every node (atom or list) reachable
// from it, including itself. It is never stored in the binary format --
// computed on demand and reused within a single operation.
//
// A list node contributes the bit set of its children's blooms, unioned with
// the bit set derived from hash_uint32(LIST_TAG) -- a list marker that does
// not depend on the list's length or order, so a key-containment needle that
// is shorter than the container list it matches is not rejected. It is not
// the list's structural hash, since the signature only needs to reject, not
// identify.
func ComputeBloom(r *decode.Reader, off int) (bloom.Signature, error) {
	kind, err := nav.Type(r, off)
	if err != nil {
		return 0, err
	}

	if kind != nav.KindList {
		h, err := nav.Hash(r, off)
		if err != nil {
			return 0, err
		}

		return bloom.FromHash(h), nil
	}

	children, err := nav.Children(r, off)
	if err != nil {
		return 0, err
	}

	var sig bloom.Signature

	for _, c := range children {
		childSig, err := ComputeBloom(r, c)
		if err != nil {
			return 0, err
		}
		sig = bloom.Combine(sig, childSig)
	}

	shapeHash := shash.Uint32(uint32(format.TagList))
	sig = bloom.Combine(sig, bloom.FromHash(shapeHash))

	return sig, nil
}
