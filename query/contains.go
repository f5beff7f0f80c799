package query

import (
	"github.com/sexpcore/sexp/decode"
	"github.com/sexpcore/sexp/internal/bloom"
	"github.com/sexpcore/sexp/nav"
)

// Contains reports structural containment (`@>`): whether some subtree of
// the container at (cont, contOff), taken in document order, is semantically
// equal to the needle at (needle, needleOff). Matching is exact and
// order-sensitive within lists.
//
// nil is a universal identity element: Contains(cont, Nil) is always true.
func Contains(cont *decode.Reader, contOff int, needle *decode.Reader, needleOff int) (bool, error) {
	needleKind, err := nav.Type(needle, needleOff)
	if err != nil {
		return false, err
	}

	if needleKind == nav.KindNil {
		return true, nil
	}

	contBloom, err := ComputeBloom(cont, contOff)
	if err != nil {
		return false, err
	}
	needleBloom, err := ComputeBloom(needle, needleOff)
	if err != nil {
		return false, err
	}

	if !bloom.MayContain(contBloom, needleBloom) {
		return false, nil
	}

	return containsScan(cont, contOff, needle, needleOff, needleKind)
}

// containsScan walks cont depth-first, type-filtering each node against the
// needle's collapsed kind before paying for a full comparison, and recursing
// into any list node (a list might contain the needle as a descendant even
// when the list itself doesn't match).
func containsScan(cont *decode.Reader, off int, needle *decode.Reader, needleOff int, needleKind nav.Kind) (bool, error) {
	kind, err := nav.Type(cont, off)
	if err != nil {
		return false, err
	}

	if kind == needleKind {
		eq, err := Equal(cont, off, needle, needleOff)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}

	if kind != nav.KindList {
		return false, nil
	}

	children, err := nav.Children(cont, off)
	if err != nil {
		return false, err
	}

	for _, c := range children {
		childKind, err := nav.Type(cont, c)
		if err != nil {
			return false, err
		}

		// Type filtering: only recurse if this child could possibly contain
		// the needle -- either its collapsed kind matches, or it's a list
		// (any list might have the needle buried further inside it).
		if childKind != needleKind && childKind != nav.KindList {
			continue
		}

		ok, err := containsScan(cont, c, needle, needleOff, needleKind)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

// ContainsKey reports key-based containment (`@>>`): whether some subtree of
// the container key-matches the needle. Unlike Contains, matching a list
// needle against a list candidate is head-equal and order-insensitive over
// the tail, and the candidate may have extra elements the needle doesn't
// consume.
func ContainsKey(cont *decode.Reader, contOff int, needle *decode.Reader, needleOff int) (bool, error) {
	needleKind, err := nav.Type(needle, needleOff)
	if err != nil {
		return false, err
	}

	if needleKind == nav.KindNil {
		return true, nil
	}

	contBloom, err := ComputeBloom(cont, contOff)
	if err != nil {
		return false, err
	}
	needleBloom, err := ComputeBloom(needle, needleOff)
	if err != nil {
		return false, err
	}

	if !bloom.MayContain(contBloom, needleBloom) {
		return false, nil
	}

	return containsKeyScan(cont, contOff, needle, needleOff, needleKind)
}

func containsKeyScan(cont *decode.Reader, off int, needle *decode.Reader, needleOff int, needleKind nav.Kind) (bool, error) {
	kind, err := nav.Type(cont, off)
	if err != nil {
		return false, err
	}

	if needleKind != nav.KindList {
		if kind == needleKind {
			eq, err := Equal(cont, off, needle, needleOff)
			if err != nil {
				return false, err
			}
			if eq {
				return true, nil
			}
		}
	} else if kind == nav.KindList {
		ok, err := keyMatch(cont, off, needle, needleOff)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	if kind != nav.KindList {
		return false, nil
	}

	children, err := nav.Children(cont, off)
	if err != nil {
		return false, err
	}

	for _, c := range children {
		ok, err := containsKeyScan(cont, c, needle, needleOff, needleKind)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

// keyMatch reports whether the list at (a, aOff) key-matches the needle list
// at (b, bOff): their heads must be semantically equal, and every element of
// the needle's tail must have a distinct-position match somewhere in the
// candidate's tail (order-independent; the candidate may have unmatched
// leftover elements).
func keyMatch(a *decode.Reader, aOff int, b *decode.Reader, bOff int) (bool, error) {
	aChildren, err := nav.Children(a, aOff)
	if err != nil {
		return false, err
	}
	bChildren, err := nav.Children(b, bOff)
	if err != nil {
		return false, err
	}

	// Empty needle (nil collapses lists with no elements, so this only
	// triggers via a hand-built zero-length list) matches anything.
	if len(bChildren) == 0 {
		return true, nil
	}

	if len(aChildren) < len(bChildren) {
		return false, nil
	}

	// The head must be semantically equal (not a recursive key-match, even
	// when the head is itself a list): only the tail accepts supersets.
	headEq, err := Equal(a, aChildren[0], b, bChildren[0])
	if err != nil {
		return false, err
	}
	if !headEq {
		return false, nil
	}

	if len(bChildren) == 1 {
		return true, nil
	}

	used := make([]bool, len(aChildren))
	used[0] = true

	for _, bc := range bChildren[1:] {
		found := false

		for ci := 1; ci < len(aChildren); ci++ {
			if used[ci] {
				continue
			}

			ok, err := keyElementMatches(a, aChildren[ci], b, bc)
			if err != nil {
				return false, err
			}
			if ok {
				used[ci] = true
				found = true
				break
			}
		}

		if !found {
			return false, nil
		}
	}

	return true, nil
}

// keyElementMatches matches a single needle element against a single
// candidate element: atoms require equality, lists require a recursive
// key-match.
func keyElementMatches(a *decode.Reader, aOff int, b *decode.Reader, bOff int) (bool, error) {
	bKind, err := nav.Type(b, bOff)
	if err != nil {
		return false, err
	}

	aKind, err := nav.Type(a, aOff)
	if err != nil {
		return false, err
	}

	if bKind != nav.KindList {
		if aKind != bKind {
			return false, nil
		}

		return Equal(a, aOff, b, bOff)
	}

	if aKind != nav.KindList {
		return false, nil
	}

	return keyMatch(a, aOff, b, bOff)
}
