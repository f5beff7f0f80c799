// Package sexp is the public façade over the binary codec, navigator, and
// query engine: it stitches encode/decode/nav/query/parser together behind
// the operator surface a caller actually wants (Parse, Print, Equal, Car,
// Contains, Hash, ...), operating on the in-memory Value tree defined in
// value.go.
package sexp

import (
	"sync"

	"github.com/sexpcore/sexp/decode"
	"github.com/sexpcore/sexp/encode"
	"github.com/sexpcore/sexp/nav"
	"github.com/sexpcore/sexp/parser"
	"github.com/sexpcore/sexp/query"
)

// Parse scans text under the textual grammar and returns the resulting Value.
func Parse(text string) (Value, error) {
	n, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}

	return materialize(n), nil
}

// Print renders v as canonical text.
func Print(v Value) string {
	return parser.PrintNode(v)
}

// Write serializes v to the binary wire format.
func Write(v Value) ([]byte, error) {
	return encode.New().Write(v)
}

// WriteWithMaxDepth serializes v like Write, but rejects nesting deeper than
// maxDepth instead of the package default (format.MaxDepth). Non-positive
// values are ignored and fall back to the default.
func WriteWithMaxDepth(v Value, maxDepth int) ([]byte, error) {
	return encode.New(encode.WithMaxDepth(maxDepth)).Write(v)
}

// Open decodes a binary buffer produced by Write, returning a cursor over
// its root element. The returned Reader and offset are the Reader-based
// counterpart to a Value tree; most query operations accept either.
func Open(buf []byte) (*decode.Reader, int, error) {
	r, err := decode.Open(buf)
	if err != nil {
		return nil, 0, err
	}

	return r, r.RootOffset(), nil
}

var (
	nilOnce sync.Once
	nilBuf  []byte
	nilErr  error
)

// nilBuffer lazily builds the process-wide canonical nil buffer: a
// 3-byte-content encoding of the empty list, cached after first build.
func nilBuffer() ([]byte, error) {
	nilOnce.Do(func() {
		nilBuf, nilErr = Write(Nil)
	})

	return nilBuf, nilErr
}

// NilReader returns a cursor over the cached process-wide nil buffer.
func NilReader() (*decode.Reader, int, error) {
	buf, err := nilBuffer()
	if err != nil {
		return nil, 0, err
	}

	return Open(buf)
}

// materialize walks an encode.Node tree (as produced by the parser, or any
// other Node implementation) into the root package's own Value tree.
func materialize(n encode.Node) Value {
	switch n.Kind() {
	case encode.KindNil:
		return Nil
	case encode.KindSymbol:
		return Sym(n.Symbol())
	case encode.KindString:
		return Str(n.Str())
	case encode.KindInteger:
		return Int(n.Int())
	case encode.KindFloat:
		return Float(n.Float())
	case encode.KindList:
		elems := n.Elements()
		out := make([]Value, len(elems))
		for i, e := range elems {
			out[i] = materialize(e)
		}
		return List(out...)
	default:
		return Nil
	}
}

// cursor opens a throwaway Reader over v's serialized form, for operations
// implemented against the decode/nav/query layer rather than against Value
// directly. Equal, Contains, and friends need two independently-offseted
// cursors even when comparing two in-memory Values, since the navigator and
// query engines work on buffers, not trees.
func cursor(v Value) (*decode.Reader, int, error) {
	buf, err := Write(v)
	if err != nil {
		return nil, 0, err
	}

	return Open(buf)
}

// Equal reports whether a and b are semantically equal.
func Equal(a, b Value) (bool, error) {
	ra, aOff, err := cursor(a)
	if err != nil {
		return false, err
	}
	rb, bOff, err := cursor(b)
	if err != nil {
		return false, err
	}

	return query.Equal(ra, aOff, rb, bOff)
}

// NotEqual is the negation of Equal.
func NotEqual(a, b Value) (bool, error) {
	eq, err := Equal(a, b)
	if err != nil {
		return false, err
	}

	return !eq, nil
}

// Typeof returns one of "nil", "symbol", "string", "integer", "float", or
// "list".
func Typeof(v Value) string {
	switch v.Kind() {
	case encode.KindNil:
		return "nil"
	case encode.KindSymbol:
		return "symbol"
	case encode.KindString:
		return "string"
	case encode.KindInteger:
		return "integer"
	case encode.KindFloat:
		return "float"
	case encode.KindList:
		return "list"
	default:
		return "nil"
	}
}

// IsNil reports whether v is the empty list.
func IsNil(v Value) bool { return v.Kind() == encode.KindNil }

// IsList reports whether v is a list or nil (the empty list).
func IsList(v Value) bool { return v.Kind() == encode.KindList || v.Kind() == encode.KindNil }

// IsAtom reports whether v is not a list (nil counts as a list, not an atom).
func IsAtom(v Value) bool { return !IsList(v) }

// IsSymbol reports whether v is a symbol.
func IsSymbol(v Value) bool { return v.Kind() == encode.KindSymbol }

// IsString reports whether v is a string.
func IsString(v Value) bool { return v.Kind() == encode.KindString }

// IsNumber reports whether v is an integer or a float.
func IsNumber(v Value) bool {
	return v.Kind() == encode.KindInteger || v.Kind() == encode.KindFloat
}

// Length returns the number of elements in v if it is a list (nil has
// length 0); ok is false for atoms.
func Length(v Value) (n int, ok bool) {
	if !IsList(v) {
		return 0, false
	}

	return len(v.Elements()), true
}

// Car returns the first element of v, or (nil, false) if v is nil or an
// atom -- car-on-nil is absent, not an error. Car has no error result, so an
// atom is reported as absent too rather than as a type mismatch.
func Car(v Value) (Value, bool) {
	if v.Kind() != encode.KindList {
		return nil, false
	}

	elems := v.Elements()
	if len(elems) == 0 {
		return nil, false
	}

	return elems[0].(Value), true
}

// Head is an alias for Car.
func Head(v Value) (Value, bool) { return Car(v) }

// Cdr returns the list of all but the first element of v, or (nil, false)
// if v is nil or an atom.
func Cdr(v Value) (Value, bool) {
	if v.Kind() != encode.KindList {
		return nil, false
	}

	elems := v.Elements()
	if len(elems) == 0 {
		return nil, false
	}

	rest := make([]Value, len(elems)-1)
	for i, e := range elems[1:] {
		rest[i] = e.(Value)
	}

	return List(rest...), true
}

// Nth returns the i-th element (0-based) of v, or (nil, false) if out of
// range or v is not a list.
func Nth(v Value, i int) (Value, bool) {
	if v.Kind() != encode.KindList {
		return nil, false
	}

	elems := v.Elements()
	if i < 0 || i >= len(elems) {
		return nil, false
	}

	return elems[i].(Value), true
}

// Contains reports structural containment (`@>`) of needle within cont.
func Contains(cont, needle Value) (bool, error) {
	rc, cOff, err := cursor(cont)
	if err != nil {
		return false, err
	}
	rn, nOff, err := cursor(needle)
	if err != nil {
		return false, err
	}

	return query.Contains(rc, cOff, rn, nOff)
}

// ContainsKey reports key-based containment (`@>>`) of needle within cont.
func ContainsKey(cont, needle Value) (bool, error) {
	rc, cOff, err := cursor(cont)
	if err != nil {
		return false, err
	}
	rn, nOff, err := cursor(needle)
	if err != nil {
		return false, err
	}

	return query.ContainsKey(rc, cOff, rn, nOff)
}

// Hash returns the 32-bit structural hash of v.
func Hash(v Value) (uint32, error) {
	r, off, err := cursor(v)
	if err != nil {
		return 0, err
	}

	return nav.Hash(r, off)
}

// hashExtendedMul is the 64-bit golden-ratio multiplier used to mix the seed
// into the 32-bit structural hash.
const hashExtendedMul = 0x9E3779B97F4A7C15

// HashExtended implements the extended hash operator: with seed 0 it widens
// Hash(v) to 64 bits; otherwise it XORs the hash with seed rotated by 32
// bits (its two 32-bit halves swapped), multiplies by the golden-ratio
// constant, and folds the high half into the low half.
func HashExtended(v Value, seed int64) (int64, error) {
	h, err := Hash(v)
	if err != nil {
		return 0, err
	}

	if seed == 0 {
		return int64(uint64(h)), nil
	}

	s := uint64(seed)
	rotSwap := (s << 32) | (s >> 32)

	x := uint64(h) ^ rotSwap
	x *= hashExtendedMul
	x ^= x >> 32

	return int64(x), nil
}

// ComputeBloom returns the 64-bit Bloom signature of v.
func ComputeBloom(v Value) (uint64, error) {
	r, off, err := cursor(v)
	if err != nil {
		return 0, err
	}

	sig, err := query.ComputeBloom(r, off)
	return uint64(sig), err
}

// ExtractIndexKeys extracts the value-side index key set for v.
func ExtractIndexKeys(v Value) ([]int32, error) {
	r, off, err := cursor(v)
	if err != nil {
		return nil, err
	}

	set, err := query.ExtractIndexKeys(r, off)
	if err != nil {
		return nil, err
	}

	return set.Keys(), nil
}

// QueryStrategy selects which operator a query-side key extraction is for.
type QueryStrategy = query.Strategy

// Query strategy constants, re-exported from the query package so callers
// never need to import it directly for this one enum.
const (
	StrategyContains    = query.StrategyContains
	StrategyContainsKey = query.StrategyContainsKey
	StrategyContainedBy = query.StrategyContainedBy
)

// ExtractQueryKeys extracts the query-side index key set for v under the
// given strategy.
func ExtractQueryKeys(v Value, strategy QueryStrategy) ([]int32, error) {
	r, off, err := cursor(v)
	if err != nil {
		return nil, err
	}

	set, err := query.ExtractQueryKeys(r, off, strategy)
	if err != nil {
		return nil, err
	}

	return set.Keys(), nil
}
