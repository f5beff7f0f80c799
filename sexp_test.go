package sexp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrintRoundTrip(t *testing.T) {
	cases := []string{
		"nil", "foo", `"hello"`, "42", "-7", "(1 2 3)", "(a (b c) d)",
	}

	for _, src := range cases {
		v, err := Parse(src)
		require.NoError(t, err)
		require.Equal(t, src, Print(v))
	}
}

func TestWriteOpenRoundTrip(t *testing.T) {
	v := List(Sym("point"), List(Sym("x"), Int(1)), List(Sym("y"), Int(2)))

	buf, err := Write(v)
	require.NoError(t, err)

	r, off, err := Open(buf)
	require.NoError(t, err)
	require.NotNil(t, r)
	require.GreaterOrEqual(t, off, 0)
}

func TestNilReaderIsCachedAcrossCalls(t *testing.T) {
	r1, off1, err := NilReader()
	require.NoError(t, err)

	r2, off2, err := NilReader()
	require.NoError(t, err)

	require.Equal(t, off1, off2)
	require.Same(t, &r1.Buf()[0], &r2.Buf()[0], "both Readers share the one cached nil buffer")
}

func TestEqualAndNotEqual(t *testing.T) {
	a := List(Int(1), Int(2), Int(3))
	b := List(Int(1), Int(2), Int(3))
	c := List(Int(1), Int(2), Int(4))

	eq, err := Equal(a, b)
	require.NoError(t, err)
	require.True(t, eq)

	neq, err := NotEqual(a, c)
	require.NoError(t, err)
	require.True(t, neq)
}

func TestTypeofAndPredicates(t *testing.T) {
	require.Equal(t, "nil", Typeof(Nil))
	require.Equal(t, "symbol", Typeof(Sym("x")))
	require.Equal(t, "string", Typeof(Str("x")))
	require.Equal(t, "integer", Typeof(Int(1)))
	require.Equal(t, "float", Typeof(Float(1.0)))
	require.Equal(t, "list", Typeof(List(Int(1))))

	require.True(t, IsNil(Nil))
	require.True(t, IsList(Nil))
	require.True(t, IsList(List(Int(1))))
	require.True(t, IsAtom(Sym("x")))
	require.False(t, IsAtom(Nil))
	require.True(t, IsSymbol(Sym("x")))
	require.True(t, IsString(Str("x")))
	require.True(t, IsNumber(Int(1)))
	require.True(t, IsNumber(Float(1.0)))
	require.False(t, IsNumber(Sym("x")))
}

func TestLengthCarCdrNth(t *testing.T) {
	v := List(Int(1), Int(2), Int(3))

	n, ok := Length(v)
	require.True(t, ok)
	require.Equal(t, 3, n)

	_, ok = Length(Sym("x"))
	require.False(t, ok)

	head, ok := Car(v)
	require.True(t, ok)
	eq, err := Equal(head, Int(1))
	require.NoError(t, err)
	require.True(t, eq)

	rest, ok := Cdr(v)
	require.True(t, ok)
	eq, err = Equal(rest, List(Int(2), Int(3)))
	require.NoError(t, err)
	require.True(t, eq)

	third, ok := Nth(v, 2)
	require.True(t, ok)
	eq, err = Equal(third, Int(3))
	require.NoError(t, err)
	require.True(t, eq)

	_, ok = Nth(v, 10)
	require.False(t, ok)
}

func TestCarCdrOnNilIsAbsentNotError(t *testing.T) {
	_, ok := Car(Nil)
	require.False(t, ok)

	_, ok = Cdr(Nil)
	require.False(t, ok)

	_, ok = Car(Sym("atom"))
	require.False(t, ok)
}

func TestContainsAndContainsKey(t *testing.T) {
	cont := List(Sym("a"), List(Sym("b"), Sym("c")), Sym("d"))
	needle := List(Sym("b"), Sym("c"))

	ok, err := Contains(cont, needle)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Contains(cont, Nil)
	require.NoError(t, err)
	require.True(t, ok, "nil is a universal identity element for Contains")

	point := List(Sym("point"), List(Sym("x"), Int(1)), List(Sym("y"), Int(2)))
	keyNeedle := List(Sym("point"), List(Sym("y"), Int(2)), List(Sym("x"), Int(1)))

	ok, err = ContainsKey(point, keyNeedle)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHashStableAcrossEqualValues(t *testing.T) {
	a := List(Sym("foo"), Int(1))
	b := List(Sym("foo"), Int(1))

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)

	require.Equal(t, ha, hb)
}

func TestHashExtendedSeedZeroWidensHash(t *testing.T) {
	v := Sym("foo")

	h, err := Hash(v)
	require.NoError(t, err)

	he, err := HashExtended(v, 0)
	require.NoError(t, err)

	require.Equal(t, int64(uint64(h)), he)
}

func TestHashExtendedNonZeroSeedVariesOutput(t *testing.T) {
	v := Sym("foo")

	h1, err := HashExtended(v, 1)
	require.NoError(t, err)
	h2, err := HashExtended(v, 2)
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
}

func TestComputeBloomAndIndexKeys(t *testing.T) {
	v := List(Sym("a"), Sym("b"), List(Sym("c"), Sym("d")))

	sig, err := ComputeBloom(v)
	require.NoError(t, err)
	require.NotZero(t, sig)

	keys, err := ExtractIndexKeys(v)
	require.NoError(t, err)
	require.NotEmpty(t, keys)

	needle := List(Sym("c"), Sym("d"))
	qkeys, err := ExtractQueryKeys(needle, StrategyContains)
	require.NoError(t, err)
	require.NotEmpty(t, qkeys)

	empty, err := ExtractQueryKeys(v, StrategyContainedBy)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestFloatNaNNeverEqualsItself(t *testing.T) {
	nan := Float(math.NaN())

	eq, err := Equal(nan, nan)
	require.NoError(t, err)
	require.False(t, eq)
}
