package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sexpcore/sexp/decode"
	"github.com/sexpcore/sexp/encode"
	"github.com/sexpcore/sexp/format"
	"github.com/sexpcore/sexp/internal/bloom"
	"github.com/sexpcore/sexp/parser"
)

func build(t *testing.T, src string) (*decode.Reader, int) {
	t.Helper()

	n, err := parser.Parse(src)
	require.NoError(t, err)

	buf, err := encode.New().Write(n)
	require.NoError(t, err)

	r, err := decode.Open(buf)
	require.NoError(t, err)

	return r, r.RootOffset()
}

func TestEqualIdenticalValues(t *testing.T) {
	cases := []string{
		"nil", "foo", `"bar"`, "42", "3.14", "(1 2 3)", "(a (b c) d)",
	}

	for _, src := range cases {
		ra, aOff := build(t, src)
		rb, bOff := build(t, src)

		eq, err := Equal(ra, aOff, rb, bOff)
		require.NoError(t, err)
		require.True(t, eq, src)
	}
}

func TestEqualSmallintIntegerInterchangeable(t *testing.T) {
	ra, aOff := build(t, "3")

	// The writer always encodes 3 as a smallint; hand-encode the full
	// integer form: [version][symtab count=0][integer tag][zigzag(3)=6].
	rb, err := decode.Open([]byte{format.Version, 0, byte(format.TagInteger), 6})
	require.NoError(t, err)

	eq, err := Equal(ra, aOff, rb, rb.RootOffset())
	require.NoError(t, err)
	require.True(t, eq)
}

func TestEqualShortLongStringInterchangeable(t *testing.T) {
	// The writer encodes a 20-byte string in the short form; hand-encode the
	// same bytes in the long form ([long tag][varint length][bytes]) -- the
	// two must compare equal regardless of encoded form.
	s := strings.Repeat("x", 20)

	ra, aOff := build(t, `"`+s+`"`)
	rb, err := decode.Open(append([]byte{format.Version, 0, byte(format.TagLongStr), 20}, s...))
	require.NoError(t, err)
	bOff := rb.RootOffset()

	eq, err := Equal(ra, aOff, rb, bOff)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestEqualDifferentValues(t *testing.T) {
	ra, aOff := build(t, "(1 2 3)")
	rb, bOff := build(t, "(1 2 4)")

	eq, err := Equal(ra, aOff, rb, bOff)
	require.NoError(t, err)
	require.False(t, eq)
}

func TestEqualFloatNaN(t *testing.T) {
	ra, aOff := build(t, "nan")
	rb, bOff := build(t, "nan")

	eq, err := Equal(ra, aOff, rb, bOff)
	require.NoError(t, err)
	require.False(t, eq, "NaN is never equal to itself")
}

func TestNotEqual(t *testing.T) {
	ra, aOff := build(t, "1")
	rb, bOff := build(t, "2")

	neq, err := NotEqual(ra, aOff, rb, bOff)
	require.NoError(t, err)
	require.True(t, neq)
}

func TestComputeBloomNonZero(t *testing.T) {
	r, off := build(t, "(a b (c d) e)")

	sig, err := ComputeBloom(r, off)
	require.NoError(t, err)
	require.NotZero(t, uint64(sig))
}

func TestBloomUnionContainsChildren(t *testing.T) {
	whole, wholeOff := build(t, "(a b c)")
	wholeSig, err := ComputeBloom(whole, wholeOff)
	require.NoError(t, err)

	for _, src := range []string{"a", "b", "c"} {
		r, off := build(t, src)
		sig, err := ComputeBloom(r, off)
		require.NoError(t, err)
		require.True(t, bloom.MayContain(wholeSig, sig))
	}
}

func TestContainsStructural(t *testing.T) {
	cont, contOff := build(t, "(a (b c) d)")
	needle, needleOff := build(t, "(b c)")

	ok, err := Contains(cont, contOff, needle, needleOff)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestContainsRequiresExactOrder(t *testing.T) {
	cont, contOff := build(t, "(a (b c) d)")
	needle, needleOff := build(t, "(c b)")

	ok, err := Contains(cont, contOff, needle, needleOff)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestContainsNilAlwaysTrue(t *testing.T) {
	cont, contOff := build(t, "(a b c)")
	needle, needleOff := build(t, "nil")

	ok, err := Contains(cont, contOff, needle, needleOff)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestContainsKeyOrderInsensitiveTail(t *testing.T) {
	cont, contOff := build(t, "(point (x 1) (y 2) (z 3))")
	needle, needleOff := build(t, "(point (z 3) (x 1))")

	ok, err := ContainsKey(cont, contOff, needle, needleOff)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestContainsKeyRequiresHeadEqual(t *testing.T) {
	cont, contOff := build(t, "(point (x 1) (y 2))")
	needle, needleOff := build(t, "(vector (x 1))")

	ok, err := ContainsKey(cont, contOff, needle, needleOff)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestContainsKeyRejectsMissingElement(t *testing.T) {
	cont, contOff := build(t, "(point (x 1) (y 2))")
	needle, needleOff := build(t, "(point (x 1) (z 3))")

	ok, err := ContainsKey(cont, contOff, needle, needleOff)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestExtractIndexKeysDeterministic(t *testing.T) {
	r, off := build(t, "(a b (c d))")

	s1, err := ExtractIndexKeys(r, off)
	require.NoError(t, err)

	r2, off2 := build(t, "(a b (c d))")
	s2, err := ExtractIndexKeys(r2, off2)
	require.NoError(t, err)

	require.Equal(t, s1.Keys(), s2.Keys())
	require.True(t, s1.Len() > 0)
}

func TestExtractQueryKeysContainsIsSubsetOfIndexKeys(t *testing.T) {
	cont, contOff := build(t, "(a b (c d) e)")
	needle, needleOff := build(t, "(c d)")

	indexKeys, err := ExtractIndexKeys(cont, contOff)
	require.NoError(t, err)

	queryKeys, err := ExtractQueryKeys(needle, needleOff, StrategyContains)
	require.NoError(t, err)

	require.True(t, queryKeys.Subset(indexKeys))
}

func TestExtractQueryKeysContainedByIsEmpty(t *testing.T) {
	r, off := build(t, "(a b c)")

	set, err := ExtractQueryKeys(r, off, StrategyContainedBy)
	require.NoError(t, err)
	require.Equal(t, 0, set.Len())
}
