package query

import (
	"github.com/sexpcore/sexp/decode"
	"github.com/sexpcore/sexp/format"
	"github.com/sexpcore/sexp/internal/shash"
	"github.com/sexpcore/sexp/nav"
)

// KeyKind tags an index key with the shape of value it summarizes, stored
// in the upper byte of the key so keys of different kinds never collide by
// construction.
type KeyKind uint32

// Key kind markers, each occupying the upper byte; makeKey keeps the low 24
// bits of the content hash below it.
const (
	KeyKindAtom KeyKind = (iota + 1) << 24
	KeyKindListHead
	KeyKindSymbol
	KeyKindString
	KeyKindInteger
	KeyKindFloat
	KeyKindPair
	KeyKindBloom
)

func makeKey(kind KeyKind, contentHash uint32) int32 {
	return int32(uint32(kind) | contentHash&0x00FFFFFF)
}

// Strategy selects which side of an operator a key set is being extracted
// for; the only behavioral difference is whether Pair keys are suppressed.
type Strategy int

const (
	// StrategyContains extracts keys for the structural @> query side: Pair
	// keys are emitted, matching value-side extraction exactly.
	StrategyContains Strategy = iota
	// StrategyContainsKey extracts keys for the @>> query side: Pair keys
	// are suppressed, since a 2-element needle may legitimately match a
	// container list of length > 2 (which carries a List-head key, not a
	// Pair key).
	StrategyContainsKey
	// StrategyContainedBy has no sound index-side contribution (the query
	// is itself the container, not the needle); extraction returns the
	// empty set.
	StrategyContainedBy
)

// KeySet is a capped, deduplicated set of 32-bit index keys, backed by an
// open-addressing hash set sized well above the cap to keep probe chains
// short, matching the reference GIN extractor's sizing rationale.
type KeySet struct {
	seen map[int32]struct{}
	keys []int32
	cap  int
}

func newKeySet(cap int) *KeySet {
	return &KeySet{seen: make(map[int32]struct{}, 8192), cap: cap}
}

func (s *KeySet) add(k int32) {
	if len(s.keys) >= s.cap {
		return
	}
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.keys = append(s.keys, k)
}

// Keys returns the extracted keys in first-seen order.
func (s *KeySet) Keys() []int32 { return s.keys }

// Len returns the number of distinct keys extracted.
func (s *KeySet) Len() int { return len(s.keys) }

// Has reports whether k was extracted.
func (s *KeySet) Has(k int32) bool {
	_, ok := s.seen[k]
	return ok
}

// Subset reports whether every key in s is present in other -- the
// necessary-but-not-sufficient index rejection test: Contains(A, B) implies
// ExtractQueryKeys(B) is a subset of ExtractIndexKeys(A).
func (s *KeySet) Subset(other *KeySet) bool {
	for _, k := range s.keys {
		if !other.Has(k) {
			return false
		}
	}

	return true
}

// ExtractIndexKeys extracts the value-side key set (C11) used as an inverted
// index posting for the element at off: atom keys and list-shape keys (Pair
// or List-head). Pair keys are always emitted on the value side.
//
// A whole-value Bloom summary is deliberately never folded into this set:
// the needle and container have different whole-value signatures in
// general, so a Bloom key derived from either side can never appear in the
// other's set without breaking the subset law queries rely on for index
// rejection.
func ExtractIndexKeys(r *decode.Reader, off int) (*KeySet, error) {
	return extract(r, off, true)
}

// ExtractQueryKeys extracts the query-side key set (C11) for the given
// operator strategy. For StrategyContainsKey, Pair keys are suppressed; see
// Strategy's doc comment for why. StrategyContainedBy always returns an
// empty set.
func ExtractQueryKeys(r *decode.Reader, off int, strategy Strategy) (*KeySet, error) {
	if strategy == StrategyContainedBy {
		return newKeySet(format.MaxIndexKeys), nil
	}

	return extract(r, off, strategy == StrategyContains)
}

func extract(r *decode.Reader, off int, emitPair bool) (*KeySet, error) {
	set := newKeySet(format.MaxIndexKeys)

	if err := extractRecursive(r, off, emitPair, set); err != nil {
		return nil, err
	}

	return set, nil
}

func extractRecursive(r *decode.Reader, off int, emitPair bool, set *KeySet) error {
	if set.Len() >= set.cap {
		return nil
	}

	kind, err := nav.Type(r, off)
	if err != nil {
		return err
	}

	switch kind {
	case nav.KindNil:
		set.add(makeKey(KeyKindAtom, 0))
		return nil

	case nav.KindInteger:
		h, err := nav.Hash(r, off)
		if err != nil {
			return err
		}
		set.add(makeKey(KeyKindInteger, h))
		return nil

	case nav.KindFloat:
		h, err := nav.Hash(r, off)
		if err != nil {
			return err
		}
		set.add(makeKey(KeyKindFloat, h))
		return nil

	case nav.KindSymbol:
		h, err := nav.Hash(r, off)
		if err != nil {
			return err
		}
		set.add(makeKey(KeyKindSymbol, h))
		return nil

	case nav.KindString:
		h, err := nav.Hash(r, off)
		if err != nil {
			return err
		}
		set.add(makeKey(KeyKindString, h))
		return nil

	case nav.KindList:
		return extractList(r, off, emitPair, set)

	default:
		return nil
	}
}

func extractList(r *decode.Reader, off int, emitPair bool, set *KeySet) error {
	children, err := nav.Children(r, off)
	if err != nil {
		return err
	}

	if len(children) == 0 {
		return nil
	}

	headKind, err := nav.Type(r, children[0])
	if err != nil {
		return err
	}

	if len(children) == 2 && headKind == nav.KindSymbol {
		if emitPair {
			headHash, err := nav.Hash(r, children[0])
			if err != nil {
				return err
			}
			tailHash, err := nav.Hash(r, children[1])
			if err != nil {
				return err
			}
			pairHash := shash.Combine(uint32(KeyKindPair), headHash)
			pairHash = shash.Combine(pairHash, tailHash)
			set.add(makeKey(KeyKindPair, pairHash))
		}
		// emitPair == false: no list-shape key at all for a query-side
		// 2-element symbol-headed needle -- a matching container of this
		// exact shape stores a Pair key, not a List-head key.
	} else if !emitPair && len(children) == 1 && headKind == nav.KindSymbol {
		// A 1-element symbol-headed needle also key-matches a 2-element
		// container with the same head, which stores a Pair key only.
	} else {
		headHash, err := nav.Hash(r, children[0])
		if err != nil {
			return err
		}
		set.add(makeKey(KeyKindListHead, headHash))
	}

	for _, c := range children {
		if err := extractRecursive(r, c, emitPair, set); err != nil {
			return err
		}
	}

	return nil
}
