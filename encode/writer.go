// Package encode serializes a Value tree into the sexp binary format: a
// version byte, a per-value symbol table, and a depth-first element
// encoding with small-list/large-list SEntry framing for O(1) navigation.
package encode

import (
	"math"

	"github.com/sexpcore/sexp/endian"
	"github.com/sexpcore/sexp/errs"
	"github.com/sexpcore/sexp/format"
	"github.com/sexpcore/sexp/internal/options"
	"github.com/sexpcore/sexp/internal/pool"
	"github.com/sexpcore/sexp/internal/shash"
	"github.com/sexpcore/sexp/internal/symtab"
	"github.com/sexpcore/sexp/internal/varint"
)

// wireEndian is fixed to little-endian: the sexp binary format is
// byte-order-fixed on the wire regardless of host architecture.
var wireEndian = endian.GetLittleEndianEngine()

// Kind enumerates the six Value variants the Writer can serialize.
type Kind uint8

const (
	KindNil Kind = iota
	KindSymbol
	KindString
	KindInteger
	KindFloat
	KindList
)

// Node is the Writer's input shape: anything that can report its own kind
// and payload. The root package's Value implementations satisfy Node
// directly (no adapter layer), so a Value can be passed straight to Write;
// the parser package's own node type satisfies it the same way.
type Node interface {
	Kind() Kind
	Symbol() string
	Str() string
	Int() int64
	Float() float64
	Elements() []Node
}

// Writer serializes Node trees to the binary format described in the
// package doc. A Writer is not safe for concurrent use; create one per
// goroutine or serialize one value at a time.
type Writer struct {
	maxDepth int
}

// New creates a Writer with default resource limits, applying any options in
// order (the same Option[T]/Apply pattern used throughout the module for
// configuration, see internal/options).
func New(opts ...options.Option[*Writer]) *Writer {
	w := &Writer{maxDepth: format.MaxDepth}
	// Apply never fails for the options defined below, but WithMaxDepth
	// still returns an error to fit the Option[T] contract used elsewhere
	// (e.g. a future WithMaxDepth(0) rejection); ignoring it here would be
	// silently wrong, so New itself stays infallible by construction: every
	// WithXxx below only ever returns nil.
	_ = options.Apply[*Writer](w, opts...)

	return w
}

// WithMaxDepth overrides the nesting-depth limit enforced while writing.
// Passing a non-positive value is a no-op, leaving the default in place.
func WithMaxDepth(n int) options.Option[*Writer] {
	return options.NoError(func(w *Writer) {
		if n > 0 {
			w.maxDepth = n
		}
	})
}

// Write serializes v into a new byte slice: [version][symbol table][root].
func (w *Writer) Write(v Node) ([]byte, error) {
	st := symtab.New()
	if err := internWalk(st, v, 0, w.maxDepth); err != nil {
		return nil, err
	}

	scratch := pool.Get()
	defer pool.Put(scratch)

	if _, _, err := writeElement(scratch, v, st, 0, w.maxDepth); err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+symtabSize(st)+scratch.Len())
	out = append(out, format.Version)
	out = appendSymtab(out, st)
	out = append(out, scratch.Bytes()...)

	return out, nil
}

func internWalk(st *symtab.Table, v Node, depth, maxDepth int) error {
	if depth > maxDepth {
		return errs.ErrDepthExceeded
	}

	switch v.Kind() {
	case KindSymbol:
		_, err := st.Intern(v.Symbol())
		return err
	case KindList:
		for _, el := range v.Elements() {
			if err := internWalk(st, el, depth+1, maxDepth); err != nil {
				return err
			}
		}
	}

	return nil
}

func symtabSize(st *symtab.Table) int {
	n := varint.Size(uint64(st.Len()))
	for _, name := range st.Names() {
		n += varint.Size(uint64(len(name))) + len(name)
	}

	return n
}

func appendSymtab(dst []byte, st *symtab.Table) []byte {
	dst = varint.Append(dst, uint64(st.Len()))
	for _, name := range st.Names() {
		dst = varint.Append(dst, uint64(len(name)))
		dst = append(dst, name...)
	}

	return dst
}

// writeElement appends v's encoding to dst and returns its structural hash
// and SEntry type, for use by an enclosing list.
func writeElement(dst *pool.ByteBuffer, v Node, st *symtab.Table, depth, maxDepth int) (uint32, format.SEntry, error) {
	switch v.Kind() {
	case KindNil:
		dst.MustWriteByte(byte(format.TagNil))
		return 0, format.SEntryNil, nil

	case KindInteger:
		return writeInteger(dst, v.Int()), format.SEntryInteger, nil

	case KindFloat:
		return writeFloat(dst, v.Float()), format.SEntryFloat, nil

	case KindSymbol:
		idx, err := st.Intern(v.Symbol())
		if err != nil {
			return 0, 0, err
		}
		dst.MustWriteByte(byte(format.TagSymbolRef))
		dst.B = varint.Append(dst.B, uint64(idx))
		h := shash.StringWithTag(uint32(format.TagSymbolRef), []byte(v.Symbol()))

		return h, format.SEntrySymbol, nil

	case KindString:
		if len(v.Str()) > format.MaxStringBytes {
			return 0, 0, errs.ErrStringTooLong
		}

		return writeString(dst, v.Str()), format.SEntryString, nil

	case KindList:
		if depth > maxDepth {
			return 0, 0, errs.ErrDepthExceeded
		}

		return writeList(dst, v.Elements(), st, depth, maxDepth)

	default:
		return 0, 0, errs.ErrInvalidTag
	}
}

func writeInteger(dst *pool.ByteBuffer, v int64) uint32 {
	if v >= format.SmallintMin && v <= format.SmallintMax {
		dst.MustWriteByte(byte(format.TagSmallint) | byte(v+format.SmallintBias))
	} else {
		dst.MustWriteByte(byte(format.TagInteger))
		dst.B = varint.Append(dst.B, varint.ZigZagEncode(v))
	}

	return shash.Combine(shash.Uint32(uint32(format.TagInteger)), shash.Int64(v))
}

func writeFloat(dst *pool.ByteBuffer, v float64) uint32 {
	dst.MustWriteByte(byte(format.TagFloat))
	var tmp [8]byte
	wireEndian.PutUint64(tmp[:], math.Float64bits(v))
	dst.MustWrite(tmp[:])

	return shash.Combine(shash.Uint32(uint32(format.TagFloat)), shash.Float64(v))
}

func writeString(dst *pool.ByteBuffer, s string) uint32 {
	if len(s) <= format.ShortStringMax {
		dst.MustWriteByte(byte(format.TagShortStr) | byte(len(s)))
		dst.MustWrite([]byte(s))
	} else {
		dst.MustWriteByte(byte(format.TagLongStr))
		dst.B = varint.Append(dst.B, uint64(len(s)))
		dst.MustWrite([]byte(s))
	}

	// Canonical string hash tag is the short-string tag, matching the
	// requirement that short and long forms of equal content hash equal.
	return shash.StringWithTag(uint32(format.TagShortStr), []byte(s))
}

func writeList(dst *pool.ByteBuffer, elems []Node, st *symtab.Table, depth, maxDepth int) (uint32, format.SEntry, error) {
	n := len(elems)
	if n == 0 {
		// The Nil constructor collapses empty lists; reaching here with a
		// hand-built zero-element Node is a caller error.
		dst.MustWriteByte(byte(format.TagNil))
		return 0, format.SEntryNil, nil
	}

	if n > format.MaxListLen {
		return 0, 0, errs.ErrListTooLong
	}

	childBuf := pool.Get()
	defer pool.Put(childBuf)

	offsets := make([]uint32, n)
	types := make([]format.SEntry, n)

	hashAcc := shash.Combine(shash.Uint32(uint32(n)), shash.Uint32(uint32(format.TagList)))

	for i, el := range elems {
		offsets[i] = uint32(childBuf.Len())
		childHash, sType, err := writeElement(childBuf, el, st, depth+1, maxDepth)
		if err != nil {
			return 0, 0, err
		}
		types[i] = sType
		hashAcc = shash.CombineChild(hashAcc, childHash, i)
	}

	if n <= format.SmallListMax {
		dst.MustWriteByte(byte(format.TagList) | byte(n))
		dst.B = varint.Append(dst.B, uint64(childBuf.Len()))
		dst.MustWrite(childBuf.Bytes())
	} else {
		dst.MustWriteByte(byte(format.TagList))

		var tmp [4]byte
		wireEndian.PutUint32(tmp[:], uint32(n))
		dst.MustWrite(tmp[:])
		wireEndian.PutUint32(tmp[:], hashAcc)
		dst.MustWrite(tmp[:])

		for i := 0; i < n; i++ {
			entry := format.MakeSEntry(types[i], offsets[i])
			wireEndian.PutUint32(tmp[:], uint32(entry))
			dst.MustWrite(tmp[:])
		}

		dst.MustWrite(childBuf.Bytes())
	}

	return hashAcc, format.SEntryList, nil
}
