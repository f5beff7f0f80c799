package encode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sexpcore/sexp/decode"
	"github.com/sexpcore/sexp/errs"
	"github.com/sexpcore/sexp/format"
	"github.com/sexpcore/sexp/parser"
)

func parseWrite(t *testing.T, src string) []byte {
	t.Helper()

	n, err := parser.Parse(src)
	require.NoError(t, err)

	buf, err := New().Write(n)
	require.NoError(t, err)

	return buf
}

func TestWriteVersionByte(t *testing.T) {
	buf := parseWrite(t, "42")
	require.Equal(t, format.Version, buf[0])
}

func TestWriteEmptyListCollapsesToNil(t *testing.T) {
	buf := parseWrite(t, "()")
	nilBuf := parseWrite(t, "nil")
	require.Equal(t, nilBuf, buf)
}

func TestWriteSmallintBoundary(t *testing.T) {
	// -16..15 must use the inline smallint tag (one byte, no payload); one
	// past either edge forces the full integer tag (at least two bytes).
	small := parseWrite(t, "-16")
	require.Len(t, small, 3) // [version][symtab count=0][smallint tag]
	require.Equal(t, byte(format.TagSmallint), small[len(small)-1]&format.TagMask)

	small2 := parseWrite(t, "15")
	require.Equal(t, byte(format.TagSmallint), small2[len(small2)-1]&format.TagMask)

	big := parseWrite(t, "-17")
	require.Equal(t, byte(format.TagInteger), big[len(big)-2]&format.TagMask)

	big2 := parseWrite(t, "16")
	require.Equal(t, byte(format.TagInteger), big2[len(big2)-2]&format.TagMask)
}

func TestWriteShortLongStringBoundary(t *testing.T) {
	short := `"` + strings.Repeat("x", 31) + `"`
	long := `"` + strings.Repeat("x", 32) + `"`

	shortBuf := parseWrite(t, short)
	longBuf := parseWrite(t, long)

	// The tag byte sits right after [version][symtab count=0]; short strings
	// hold their length inline (tag 101 | 31), long strings use tag 110 with
	// a following varint length.
	require.Equal(t, byte(format.TagShortStr)|31, shortBuf[2])
	require.Equal(t, byte(format.TagLongStr), longBuf[2])
}

func TestWriteSmallLargeListBoundary(t *testing.T) {
	four := parseWrite(t, "(1 2 3 4)")
	five := parseWrite(t, "(1 2 3 4 5)")

	require.Equal(t, format.TagList, format.Tag(four[2]).Kind())
	require.Equal(t, byte(4), four[2]&format.DataMask, "4-element list uses the small-list inline count")

	require.Equal(t, format.TagList, format.Tag(five[2]).Kind())
	require.Equal(t, byte(0), five[2]&format.DataMask, "5-element list forces the large-list (k=0) encoding")
}

func TestWriteLargeListWithManyElements(t *testing.T) {
	var sb strings.Builder
	sb.WriteByte('(')
	for i := 0; i < 1000; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("1")
	}
	sb.WriteByte(')')

	buf := parseWrite(t, sb.String())
	require.NotEmpty(t, buf)
}

func TestWriteSymbolInternedOnce(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("(")
	for i := 0; i < 1000; i++ {
		sb.WriteString("dup ")
	}
	sb.WriteString(")")

	n, err := parser.Parse(sb.String())
	require.NoError(t, err)

	buf, err := New().Write(n)
	require.NoError(t, err)

	r, err := decode.Open(buf)
	require.NoError(t, err)
	require.Equal(t, 1, r.NumSymbols(), "a symbol repeated 1000 times interns to exactly one symbol-table entry")
}

// nestedList is a one-element list Node around inner. The parser enforces
// the same depth limit as the Writer, so a too-deep tree is built by hand.
type nestedList struct{ inner Node }

func (nestedList) Kind() Kind         { return KindList }
func (nestedList) Symbol() string     { return "" }
func (nestedList) Str() string        { return "" }
func (nestedList) Int() int64         { return 0 }
func (nestedList) Float() float64     { return 0 }
func (l nestedList) Elements() []Node { return []Node{l.inner} }

func TestWriteDepthLimitExceeded(t *testing.T) {
	n, err := parser.Parse("1")
	require.NoError(t, err)

	for i := 0; i < format.MaxDepth+2; i++ {
		n = nestedList{inner: n}
	}

	_, err = New().Write(n)
	require.ErrorIs(t, err, errs.ErrDepthExceeded)
}

func TestWriteWithMaxDepthOption(t *testing.T) {
	// "(((1)))" nests three lists deep (depths 0, 1, 2 at each list's own
	// writeElement check); a maxDepth of 1 rejects the innermost list.
	n, err := parser.Parse("(((1)))")
	require.NoError(t, err)

	_, err = New(WithMaxDepth(1)).Write(n)
	require.ErrorIs(t, err, errs.ErrDepthExceeded)

	_, err = New(WithMaxDepth(10)).Write(n)
	require.NoError(t, err)
}
