// Package decode opens a serialized sexp buffer: it validates the version
// byte, decodes the symbol table header, and exposes a cursor positioned at
// the root element for the nav and query packages to drive.
package decode

import (
	"github.com/sexpcore/sexp/errs"
	"github.com/sexpcore/sexp/format"
	"github.com/sexpcore/sexp/internal/shash"
	"github.com/sexpcore/sexp/internal/varint"
)

// smallTableStackSize is the inline array capacity used to stage the hash
// cache while decoding a symbol table with few entries. It is applied to
// the hash cache only, and Open still copies the staged hashes into an
// exactly-sized heap slice before returning, so a small table costs one
// allocation for its hashes rather than none. Symbol names are always
// copied out of buf into Go strings.
const smallTableStackSize = 16

// Reader holds the decoded state of one serialized value: the underlying
// buffer, the symbol names (copied out of the buffer) and their cached hashes, and the byte
// offset of the root element. A Reader borrows buf for its entire lifetime
// and must not outlive mutation of the underlying bytes (the format treats
// buffers as immutable once constructed, so this is never a concern for
// values produced by this module's own Writer).
type Reader struct {
	buf    []byte
	names  []string
	hashes []uint32
	root   int
}

// Open validates buf's version byte and symbol-table header and returns a
// Reader positioned at the root element.
func Open(buf []byte) (*Reader, error) {
	if len(buf) < 1 {
		return nil, errs.ErrBufferTooShort
	}

	if buf[0] > format.Version {
		return nil, errs.ErrUnsupportedVersion
	}

	off := 1

	count, n, ok := varint.Decode(buf, off)
	if !ok {
		return nil, errs.ErrCorruptedData
	}
	off = n

	if count > format.MaxSymbols {
		return nil, errs.ErrTooManySymbols
	}

	var hashCache [smallTableStackSize]uint32

	names := make([]string, 0, count)

	var hashes []uint32
	if count <= smallTableStackSize {
		hashes = hashCache[:0]
	} else {
		hashes = make([]uint32, 0, count)
	}

	for i := uint64(0); i < count; i++ {
		length, n2, ok := varint.Decode(buf, off)
		if !ok {
			return nil, errs.ErrCorruptedData
		}
		off = n2

		if uint64(off)+length > uint64(len(buf)) {
			return nil, errs.ErrBufferTooShort
		}

		name := string(buf[off : off+int(length)])
		off += int(length)

		names = append(names, name)
		hashes = append(hashes, shash.Bytes([]byte(name)))
	}

	if off >= len(buf) {
		return nil, errs.ErrBufferTooShort
	}

	// Copy the stack-cached hashes into a heap slice once the count is
	// known, so the returned Reader never references hashCache's frame.
	if count <= smallTableStackSize {
		owned := make([]uint32, len(hashes))
		copy(owned, hashes)
		hashes = owned
	}

	return &Reader{buf: buf, names: names, hashes: hashes, root: off}, nil
}

// Buf returns the full underlying buffer, borrowed; callers must not
// retain slices of it beyond the Reader's lifetime assumptions.
func (r *Reader) Buf() []byte { return r.buf }

// RootOffset returns the byte offset of the root element's tag byte.
func (r *Reader) RootOffset() int { return r.root }

// NumSymbols returns the number of interned symbols.
func (r *Reader) NumSymbols() int { return len(r.names) }

// Symbol returns the i-th interned symbol name. The name is a copy made by
// Open, not a view into the buffer.
func (r *Reader) Symbol(i int) (string, error) {
	if i < 0 || i >= len(r.names) {
		return "", errs.ErrInvalidSymbolRef
	}

	return r.names[i], nil
}

// SymbolHash returns the cached 32-bit hash of the i-th interned symbol.
func (r *Reader) SymbolHash(i int) (uint32, error) {
	if i < 0 || i >= len(r.hashes) {
		return 0, errs.ErrInvalidSymbolRef
	}

	return r.hashes[i], nil
}
