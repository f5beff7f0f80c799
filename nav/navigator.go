// Package nav implements the Navigator (skip/car/cdr/nth/length/type) and
// the structural Hash engine over a decode.Reader cursor. Hash lives here
// rather than under query because Cdr must recompute a new large list's
// structural hash when rewriting its element table, and both operations
// share the same child-offset walking primitives.
package nav

import (
	"math"

	"github.com/sexpcore/sexp/decode"
	"github.com/sexpcore/sexp/endian"
	"github.com/sexpcore/sexp/errs"
	"github.com/sexpcore/sexp/format"
	"github.com/sexpcore/sexp/internal/shash"
	"github.com/sexpcore/sexp/internal/varint"
)

// wireEndian is fixed to little-endian, matching the Writer.
var wireEndian = endian.GetLittleEndianEngine()

// Kind is the collapsed type of an element: smallint and integer both
// report KindInteger, matching the format's smallint/integer interchange
// rule.
type Kind uint8

const (
	KindNil Kind = iota
	KindInteger
	KindFloat
	KindSymbol
	KindString
	KindList
)

// Type peeks the tag byte at off and returns its collapsed Kind.
func Type(r *decode.Reader, off int) (Kind, error) {
	tag, err := peekTag(r, off)
	if err != nil {
		return 0, err
	}

	switch tag.Kind() {
	case format.TagNil:
		return KindNil, nil
	case format.TagSmallint, format.TagInteger:
		return KindInteger, nil
	case format.TagFloat:
		return KindFloat, nil
	case format.TagSymbolRef:
		return KindSymbol, nil
	case format.TagShortStr, format.TagLongStr:
		return KindString, nil
	case format.TagList:
		return KindList, nil
	default:
		return 0, errs.ErrInvalidTag
	}
}

func peekTag(r *decode.Reader, off int) (format.Tag, error) {
	buf := r.Buf()
	if off < 0 || off >= len(buf) {
		return 0, errs.ErrBufferTooShort
	}

	return format.Tag(buf[off]), nil
}

// Integer decodes the element at off as an i64. Valid for both smallint
// and integer tags.
func Integer(r *decode.Reader, off int) (int64, error) {
	buf := r.Buf()
	tag, err := peekTag(r, off)
	if err != nil {
		return 0, err
	}

	switch tag.Kind() {
	case format.TagSmallint:
		return int64(tag&format.DataMask) - format.SmallintBias, nil
	case format.TagInteger:
		u, _, ok := varint.Decode(buf, off+1)
		if !ok {
			return 0, errs.ErrCorruptedData
		}

		return varint.ZigZagDecode(u), nil
	default:
		return 0, errs.ErrTypeMismatch
	}
}

// FloatVal decodes the 8-byte little-endian IEEE 754 double at off.
func FloatVal(r *decode.Reader, off int) (float64, error) {
	buf := r.Buf()
	tag, err := peekTag(r, off)
	if err != nil {
		return 0, err
	}

	if tag.Kind() != format.TagFloat {
		return 0, errs.ErrTypeMismatch
	}

	if off+9 > len(buf) {
		return 0, errs.ErrBufferTooShort
	}

	return math.Float64frombits(wireEndian.Uint64(buf[off+1 : off+9])), nil
}

// SymbolIndex decodes the raw symbol-table index of the symbol-reference
// element at off, without resolving it to a name. Used by the equality
// engine's hash-first-fail fast path, which needs the index to pull the
// Reader's cached per-symbol hash before falling back to a byte compare.
func SymbolIndex(r *decode.Reader, off int) (int, error) {
	buf := r.Buf()
	tag, err := peekTag(r, off)
	if err != nil {
		return 0, err
	}

	if tag.Kind() != format.TagSymbolRef {
		return 0, errs.ErrTypeMismatch
	}

	idx, _, ok := varint.Decode(buf, off+1)
	if !ok {
		return 0, errs.ErrCorruptedData
	}

	return int(idx), nil
}

// SymbolName resolves a symbol-reference element to its interned name, as
// held by the Reader (a copy made when the Reader was opened).
func SymbolName(r *decode.Reader, off int) (string, error) {
	idx, err := SymbolIndex(r, off)
	if err != nil {
		return "", err
	}

	return r.Symbol(idx)
}

// StringVal decodes a short or long string element, returning a copy of
// its bytes from the Reader's buffer.
func StringVal(r *decode.Reader, off int) (string, error) {
	buf := r.Buf()
	tag, err := peekTag(r, off)
	if err != nil {
		return "", err
	}

	switch tag.Kind() {
	case format.TagShortStr:
		l := int(tag & format.DataMask)
		if off+1+l > len(buf) {
			return "", errs.ErrBufferTooShort
		}

		return string(buf[off+1 : off+1+l]), nil
	case format.TagLongStr:
		length, n, ok := varint.Decode(buf, off+1)
		if !ok {
			return "", errs.ErrCorruptedData
		}

		end := n + int(length)
		if end > len(buf) {
			return "", errs.ErrBufferTooShort
		}

		return string(buf[n:end]), nil
	default:
		return "", errs.ErrTypeMismatch
	}
}

// listInfo describes a decoded list header, small or large.
type listInfo struct {
	large         bool
	count         int
	dataStart     int
	dataEnd       int
	entriesOffset int // absolute offset of the SEntry array, large lists only
	storedHash    uint32
}

func readListInfo(r *decode.Reader, off int) (listInfo, error) {
	buf := r.Buf()
	tag := format.Tag(buf[off])
	k := int(tag & format.DataMask)

	if k != 0 {
		size, n, ok := varint.Decode(buf, off+1)
		if !ok {
			return listInfo{}, errs.ErrCorruptedData
		}

		dataEnd := n + int(size)
		if dataEnd > len(buf) {
			return listInfo{}, errs.ErrBufferTooShort
		}

		return listInfo{count: k, dataStart: n, dataEnd: dataEnd}, nil
	}

	if off+9 > len(buf) {
		return listInfo{}, errs.ErrBufferTooShort
	}

	count := wireEndian.Uint32(buf[off+1 : off+5])
	if count == 0 {
		return listInfo{}, errs.ErrCorruptedData
	}

	storedHash := wireEndian.Uint32(buf[off+5 : off+9])
	entriesOffset := off + 9
	dataStart := entriesOffset + int(count)*4
	if dataStart > len(buf) {
		return listInfo{}, errs.ErrBufferTooShort
	}

	lastEntry := format.SEntry(wireEndian.Uint32(
		buf[entriesOffset+4*(int(count)-1) : entriesOffset+4*int(count)]))
	lastAbs := dataStart + int(lastEntry.Offset())

	dataEnd, err := Skip(r, lastAbs)
	if err != nil {
		return listInfo{}, err
	}

	return listInfo{
		large: true, count: int(count), dataStart: dataStart, dataEnd: dataEnd,
		entriesOffset: entriesOffset, storedHash: storedHash,
	}, nil
}

// Skip advances past exactly one element and returns the offset of the
// byte immediately following it.
func Skip(r *decode.Reader, off int) (int, error) {
	buf := r.Buf()
	if off < 0 || off >= len(buf) {
		return 0, errs.ErrBufferTooShort
	}

	tag := format.Tag(buf[off])

	switch tag.Kind() {
	case format.TagNil, format.TagSmallint:
		return off + 1, nil
	case format.TagInteger:
		_, n, ok := varint.Decode(buf, off+1)
		if !ok {
			return 0, errs.ErrCorruptedData
		}

		return n, nil
	case format.TagFloat:
		if off+9 > len(buf) {
			return 0, errs.ErrBufferTooShort
		}

		return off + 9, nil
	case format.TagSymbolRef:
		_, n, ok := varint.Decode(buf, off+1)
		if !ok {
			return 0, errs.ErrCorruptedData
		}

		return n, nil
	case format.TagShortStr:
		end := off + 1 + int(tag&format.DataMask)
		if end > len(buf) {
			return 0, errs.ErrBufferTooShort
		}

		return end, nil
	case format.TagLongStr:
		length, n, ok := varint.Decode(buf, off+1)
		if !ok {
			return 0, errs.ErrCorruptedData
		}

		end := n + int(length)
		if end > len(buf) {
			return 0, errs.ErrBufferTooShort
		}

		return end, nil
	case format.TagList:
		info, err := readListInfo(r, off)
		if err != nil {
			return 0, err
		}

		return info.dataEnd, nil
	default:
		return 0, errs.ErrInvalidTag
	}
}

// Length returns the element count of the list at off; 0 for nil.
func Length(r *decode.Reader, off int) (int, error) {
	kind, err := Type(r, off)
	if err != nil {
		return 0, err
	}

	if kind == KindNil {
		return 0, nil
	}

	if kind != KindList {
		return 0, errs.ErrTypeMismatch
	}

	info, err := readListInfo(r, off)
	if err != nil {
		return 0, err
	}

	return info.count, nil
}

// Children returns the absolute offsets of every direct child of the list
// at off, in order. Returns nil, nil for nil. This is the shared
// random-access/walk primitive behind Car, Nth, Cdr, and the query package's
// equality, containment, and key-extraction recursions.
func Children(r *decode.Reader, off int) ([]int, error) {
	kind, err := Type(r, off)
	if err != nil {
		return nil, err
	}

	if kind == KindNil {
		return nil, nil
	}

	if kind != KindList {
		return nil, errs.ErrTypeMismatch
	}

	info, err := readListInfo(r, off)
	if err != nil {
		return nil, err
	}

	offsets := make([]int, info.count)

	if info.large {
		buf := r.Buf()
		for i := 0; i < info.count; i++ {
			entry := format.SEntry(wireEndian.Uint32(
				buf[info.entriesOffset+4*i : info.entriesOffset+4*i+4]))
			offsets[i] = info.dataStart + int(entry.Offset())
		}

		return offsets, nil
	}

	cur := info.dataStart
	for i := 0; i < info.count; i++ {
		offsets[i] = cur

		next, err := Skip(r, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}

	return offsets, nil
}

// Car returns the offset of the first element of the list at off. Returns
// ok=false for nil (absent, not an error).
func Car(r *decode.Reader, off int) (int, bool, error) {
	kind, err := Type(r, off)
	if err != nil {
		return 0, false, err
	}

	if kind == KindNil {
		return 0, false, nil
	}

	if kind != KindList {
		return 0, false, errs.ErrTypeMismatch
	}

	children, err := Children(r, off)
	if err != nil {
		return 0, false, err
	}

	if len(children) == 0 {
		return 0, false, nil
	}

	return children[0], true, nil
}

// Head is an alias of Car.
func Head(r *decode.Reader, off int) (int, bool, error) { return Car(r, off) }

// Nth returns the offset of the i-th element (0-based) of the list at off.
// Returns ok=false if i is out of range or off is nil.
func Nth(r *decode.Reader, off int, i int) (int, bool, error) {
	kind, err := Type(r, off)
	if err != nil {
		return 0, false, err
	}

	if kind == KindNil {
		return 0, false, nil
	}

	if kind != KindList {
		return 0, false, errs.ErrTypeMismatch
	}

	info, err := readListInfo(r, off)
	if err != nil {
		return 0, false, err
	}

	if i < 0 || i >= info.count {
		return 0, false, nil
	}

	if info.large {
		buf := r.Buf()
		entry := format.SEntry(wireEndian.Uint32(
			buf[info.entriesOffset+4*i : info.entriesOffset+4*i+4]))

		return info.dataStart + int(entry.Offset()), true, nil
	}

	cur := info.dataStart
	for j := 0; j < i; j++ {
		next, err := Skip(r, cur)
		if err != nil {
			return 0, false, err
		}
		cur = next
	}

	return cur, true, nil
}

// Hash computes the structural hash of the element at off (the C8 Hash
// engine). Large lists short-circuit to their stored structural_hash
// rather than recursing, per the format's design.
func Hash(r *decode.Reader, off int) (uint32, error) {
	kind, err := Type(r, off)
	if err != nil {
		return 0, err
	}

	switch kind {
	case KindNil:
		return 0, nil
	case KindInteger:
		v, err := Integer(r, off)
		if err != nil {
			return 0, err
		}

		return shash.Combine(shash.Uint32(uint32(format.TagInteger)), shash.Int64(v)), nil
	case KindFloat:
		v, err := FloatVal(r, off)
		if err != nil {
			return 0, err
		}

		return shash.Combine(shash.Uint32(uint32(format.TagFloat)), shash.Float64(v)), nil
	case KindSymbol:
		name, err := SymbolName(r, off)
		if err != nil {
			return 0, err
		}

		return shash.StringWithTag(uint32(format.TagSymbolRef), []byte(name)), nil
	case KindString:
		s, err := StringVal(r, off)
		if err != nil {
			return 0, err
		}

		return shash.StringWithTag(uint32(format.TagShortStr), []byte(s)), nil
	case KindList:
		info, err := readListInfo(r, off)
		if err != nil {
			return 0, err
		}

		if info.large {
			return info.storedHash, nil
		}

		children, err := Children(r, off)
		if err != nil {
			return 0, err
		}

		acc := shash.Combine(shash.Uint32(uint32(len(children))), shash.Uint32(uint32(format.TagList)))
		for i, childOff := range children {
			childHash, err := Hash(r, childOff)
			if err != nil {
				return 0, err
			}
			acc = shash.CombineChild(acc, childHash, i)
		}

		return acc, nil
	default:
		return 0, errs.ErrInvalidTag
	}
}

type tailChild struct {
	start, end int
	sType      format.SEntry
	hash       uint32
}

// Cdr builds a new serialized value by copying the parent's header
// (version + symbol table) and rewriting the list frame with elements
// 1..n-1. Returns ok=false for nil (absent, not an error).
func Cdr(r *decode.Reader, off int) ([]byte, bool, error) {
	kind, err := Type(r, off)
	if err != nil {
		return nil, false, err
	}

	if kind == KindNil {
		return nil, false, nil
	}

	if kind != KindList {
		return nil, false, errs.ErrTypeMismatch
	}

	children, err := Children(r, off)
	if err != nil {
		return nil, false, err
	}

	header := r.Buf()[:r.RootOffset()]

	if len(children) <= 1 {
		out := make([]byte, 0, len(header)+1)
		out = append(out, header...)
		out = append(out, byte(format.TagNil))

		return out, true, nil
	}

	tailStarts := children[1:]
	infos := make([]tailChild, len(tailStarts))

	for i, start := range tailStarts {
		end, err := Skip(r, start)
		if err != nil {
			return nil, false, err
		}

		h, err := Hash(r, start)
		if err != nil {
			return nil, false, err
		}

		infos[i] = tailChild{
			start: start, end: end,
			sType: format.SEntryTypeForTag(format.Tag(r.Buf()[start])),
			hash:  h,
		}
	}

	newCount := len(infos)
	buf := r.Buf()

	if newCount <= format.SmallListMax {
		var data []byte
		for _, ci := range infos {
			data = append(data, buf[ci.start:ci.end]...)
		}

		out := make([]byte, 0, len(header)+1+varint.Size(uint64(len(data)))+len(data))
		out = append(out, header...)
		out = append(out, byte(format.TagList)|byte(newCount))
		out = varint.Append(out, uint64(len(data)))
		out = append(out, data...)

		return out, true, nil
	}

	var data []byte
	offsets := make([]uint32, newCount)
	for i, ci := range infos {
		offsets[i] = uint32(len(data))
		data = append(data, buf[ci.start:ci.end]...)
	}

	hashAcc := shash.Combine(shash.Uint32(uint32(newCount)), shash.Uint32(uint32(format.TagList)))
	for i, ci := range infos {
		hashAcc = shash.CombineChild(hashAcc, ci.hash, i)
	}

	out := make([]byte, 0, len(header)+9+4*newCount+len(data))
	out = append(out, header...)
	out = append(out, byte(format.TagList))

	var tmp [4]byte
	wireEndian.PutUint32(tmp[:], uint32(newCount))
	out = append(out, tmp[:]...)
	wireEndian.PutUint32(tmp[:], hashAcc)
	out = append(out, tmp[:]...)

	for i, ci := range infos {
		entry := format.MakeSEntry(ci.sType, offsets[i])
		wireEndian.PutUint32(tmp[:], uint32(entry))
		out = append(out, tmp[:]...)
	}

	out = append(out, data...)

	return out, true, nil
}
