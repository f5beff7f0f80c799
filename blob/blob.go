// Package blob packs many independently-serialized sexp buffers into one
// compressed container: a batch at rest, using a header+index+payload
// layering. Layout:
//
//	[version byte][compression type byte][varint count][count+1 varint offsets][compressed payload]
//
// offsets are byte positions into the decompressed payload, so member i
// occupies payload[offsets[i]:offsets[i+1]].
package blob

import (
	"github.com/sexpcore/sexp/compress"
	"github.com/sexpcore/sexp/errs"
	"github.com/sexpcore/sexp/format"
	"github.com/sexpcore/sexp/internal/pool"
	"github.com/sexpcore/sexp/internal/varint"
)

const blobVersion = 1

// Build concatenates values into a single compressed container using the
// given compression type. An empty values slice is valid and yields an
// empty-but-well-formed blob.
func Build(values [][]byte, compressionType format.CompressionType) ([]byte, error) {
	codec, err := compress.GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	payload := pool.Get()
	defer pool.Put(payload)

	offsets := make([]uint32, len(values)+1)
	for i, v := range values {
		payload.MustWrite(v)
		offsets[i+1] = uint32(payload.Len())
	}

	compressed, err := codec.Compress(payload.Bytes())
	if err != nil {
		return nil, err
	}

	out := pool.Get()
	defer pool.Put(out)

	out.MustWriteByte(blobVersion)
	out.MustWriteByte(byte(compressionType))
	out.MustWrite(varint.Append(nil, uint64(len(values))))
	for _, off := range offsets {
		out.MustWrite(varint.Append(nil, uint64(off)))
	}
	out.MustWrite(compressed)

	return append([]byte(nil), out.Bytes()...), nil
}

// Blob is a read-only view over a decoded container: the decompressed
// payload plus the offset table delimiting each member buffer within it.
type Blob struct {
	offsets []uint32
	payload []byte
}

// Open decodes buf, decompressing the payload once up front.
func Open(buf []byte) (*Blob, error) {
	if len(buf) < 2 {
		return nil, errs.ErrCorruptedData
	}
	if buf[0] != blobVersion {
		return nil, errs.ErrCorruptedData
	}

	compressionType := format.CompressionType(buf[1])
	pos := 2

	count, next, ok := varint.Decode(buf, pos)
	if !ok {
		return nil, errs.ErrCorruptedData
	}
	pos = next

	offsets := make([]uint32, count+1)
	for i := range offsets {
		v, next, ok := varint.Decode(buf, pos)
		if !ok {
			return nil, errs.ErrCorruptedData
		}
		offsets[i] = uint32(v)
		pos = next
	}

	codec, err := compress.GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	payload, err := codec.Decompress(buf[pos:])
	if err != nil {
		return nil, err
	}

	return &Blob{offsets: offsets, payload: payload}, nil
}

// Len returns the number of member buffers in the container.
func (b *Blob) Len() int {
	if len(b.offsets) == 0 {
		return 0
	}

	return len(b.offsets) - 1
}

// At returns the i-th member buffer, or (nil, false) if i is out of range.
// The returned slice aliases the Blob's decompressed payload and must not be
// modified.
func (b *Blob) At(i int) ([]byte, bool) {
	if i < 0 || i >= b.Len() {
		return nil, false
	}

	return b.payload[b.offsets[i]:b.offsets[i+1]], true
}

// All returns every member buffer in order. Each returned slice aliases the
// Blob's decompressed payload.
func (b *Blob) All() [][]byte {
	out := make([][]byte, b.Len())
	for i := range out {
		out[i] = b.payload[b.offsets[i]:b.offsets[i+1]]
	}

	return out
}
