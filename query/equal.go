// Package query implements the query family that makes a serialized sexp
// value comparable to a binary JSON variant: semantic equality, the Bloom
// signature used to fast-reject containment checks, structural and
// key-based containment, and the inverted-index key extraction consumed by
// an external indexing subsystem.
//
// The structural hash itself (C8) lives in package nav rather than here: Cdr
// must recompute a large list's stored hash when rewriting its SEntry table,
// so the hash walk and the offset walk share one home.
package query

import (
	"bytes"

	"github.com/sexpcore/sexp/decode"
	"github.com/sexpcore/sexp/nav"
)

// Equal reports whether the elements at offA (in a) and offB (in b) are
// semantically equal: tags normalize smallint/integer to the same bucket,
// strings compare by content regardless of short/long form, symbols compare
// by text never by table index, and floats use IEEE == (NaN != NaN,
// -0.0 == 0.0).
//
// It first tries a byte-wise shortcut on identical payloads (the common case
// when comparing a value against itself or a verbatim copy), falling back to
// the semantic recursive walk otherwise. The shortcut is taken only when both
// buffers carry byte-identical symbol tables, since symbol references are
// table indices, and never for a float atom, so a NaN atom is never equal to
// itself; a list holding NaN does equal a byte-identical copy of itself.
func Equal(a *decode.Reader, offA int, b *decode.Reader, offB int) (bool, error) {
	endA, err := nav.Skip(a, offA)
	if err != nil {
		return false, err
	}

	endB, err := nav.Skip(b, offB)
	if err != nil {
		return false, err
	}

	kindA, err := nav.Type(a, offA)
	if err != nil {
		return false, err
	}

	if kindA != nav.KindFloat &&
		bytes.Equal(a.Buf()[:a.RootOffset()], b.Buf()[:b.RootOffset()]) &&
		bytes.Equal(a.Buf()[offA:endA], b.Buf()[offB:endB]) {
		return true, nil
	}

	return equalAt(a, offA, b, offB)
}

// NotEqual is the negation of Equal, provided as a first-class operation to
// mirror the operator surface table.
func NotEqual(a *decode.Reader, offA int, b *decode.Reader, offB int) (bool, error) {
	eq, err := Equal(a, offA, b, offB)
	if err != nil {
		return false, err
	}

	return !eq, nil
}

func equalAt(a *decode.Reader, offA int, b *decode.Reader, offB int) (bool, error) {
	kindA, err := nav.Type(a, offA)
	if err != nil {
		return false, err
	}

	kindB, err := nav.Type(b, offB)
	if err != nil {
		return false, err
	}

	if kindA != kindB {
		return false, nil
	}

	switch kindA {
	case nav.KindNil:
		return true, nil

	case nav.KindInteger:
		va, err := nav.Integer(a, offA)
		if err != nil {
			return false, err
		}
		vb, err := nav.Integer(b, offB)
		if err != nil {
			return false, err
		}

		return va == vb, nil

	case nav.KindFloat:
		va, err := nav.FloatVal(a, offA)
		if err != nil {
			return false, err
		}
		vb, err := nav.FloatVal(b, offB)
		if err != nil {
			return false, err
		}

		return va == vb, nil

	case nav.KindSymbol:
		return symbolsEqual(a, offA, b, offB)

	case nav.KindString:
		sa, err := nav.StringVal(a, offA)
		if err != nil {
			return false, err
		}
		sb, err := nav.StringVal(b, offB)
		if err != nil {
			return false, err
		}

		if len(sa) != len(sb) {
			return false, nil
		}

		return sa == sb, nil

	case nav.KindList:
		return listsEqual(a, offA, b, offB)

	default:
		return false, nil
	}
}

// symbolsEqual compares by length, then by cached hash (fast fail), then by
// text -- never by table index, since the two buffers may intern symbols in
// different orders.
func symbolsEqual(a *decode.Reader, offA int, b *decode.Reader, offB int) (bool, error) {
	idxA, err := nav.SymbolIndex(a, offA)
	if err != nil {
		return false, err
	}
	idxB, err := nav.SymbolIndex(b, offB)
	if err != nil {
		return false, err
	}

	nameA, err := a.Symbol(idxA)
	if err != nil {
		return false, err
	}
	nameB, err := b.Symbol(idxB)
	if err != nil {
		return false, err
	}

	if len(nameA) != len(nameB) {
		return false, nil
	}

	hashA, err := a.SymbolHash(idxA)
	if err != nil {
		return false, err
	}
	hashB, err := b.SymbolHash(idxB)
	if err != nil {
		return false, err
	}

	if hashA != hashB {
		return false, nil
	}

	return nameA == nameB, nil
}

func listsEqual(a *decode.Reader, offA int, b *decode.Reader, offB int) (bool, error) {
	lenA, err := nav.Length(a, offA)
	if err != nil {
		return false, err
	}
	lenB, err := nav.Length(b, offB)
	if err != nil {
		return false, err
	}

	if lenA != lenB {
		return false, nil
	}

	childrenA, err := nav.Children(a, offA)
	if err != nil {
		return false, err
	}
	childrenB, err := nav.Children(b, offB)
	if err != nil {
		return false, err
	}

	for i := range childrenA {
		eq, err := equalAt(a, childrenA[i], b, childrenB[i])
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}

	return true, nil
}
