package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sexpcore/sexp/encode"
	"github.com/sexpcore/sexp/errs"
	"github.com/sexpcore/sexp/format"
	"github.com/sexpcore/sexp/parser"
)

func writeSrc(t *testing.T, src string) []byte {
	t.Helper()

	n, err := parser.Parse(src)
	require.NoError(t, err)

	buf, err := encode.New().Write(n)
	require.NoError(t, err)

	return buf
}

func TestOpenRejectsEmptyBuffer(t *testing.T) {
	_, err := Open(nil)
	require.ErrorIs(t, err, errs.ErrBufferTooShort)
}

func TestOpenRejectsFutureVersion(t *testing.T) {
	buf := writeSrc(t, "42")
	buf[0] = format.Version + 1

	_, err := Open(buf)
	require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}

func TestOpenAcceptsCurrentVersion(t *testing.T) {
	buf := writeSrc(t, "(a b c)")

	r, err := Open(buf)
	require.NoError(t, err)
	require.Equal(t, 3, r.NumSymbols())
}

func TestOpenSmallAndLargeSymbolTables(t *testing.T) {
	// 3 symbols exercises the stack-buffer hash-cache path (<= 16); the
	// > 16 path is not exercised here.
	buf := writeSrc(t, "(a b c)")

	r, err := Open(buf)
	require.NoError(t, err)

	for i, want := range []string{"a", "b", "c"} {
		name, err := r.Symbol(i)
		require.NoError(t, err)
		require.Equal(t, want, name)
	}
}

func TestSymbolOutOfRange(t *testing.T) {
	buf := writeSrc(t, "(a b)")

	r, err := Open(buf)
	require.NoError(t, err)

	_, err = r.Symbol(5)
	require.ErrorIs(t, err, errs.ErrInvalidSymbolRef)

	_, err = r.SymbolHash(-1)
	require.ErrorIs(t, err, errs.ErrInvalidSymbolRef)
}

func TestRootOffsetPointsPastSymbolTable(t *testing.T) {
	buf := writeSrc(t, "nil")

	r, err := Open(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf)-1, r.RootOffset())
}
