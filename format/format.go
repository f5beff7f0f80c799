// Package format defines the on-the-wire constants for the sexp binary
// codec: the tag layout, list thresholds, and the packed SEntry type used by
// large lists for O(1) navigation.
package format

// Version is the current binary format version written by this module.
// Readers reject any buffer whose version byte exceeds Version.
const Version uint8 = 6

// Tag is the 3-bit type discriminator packed into the high bits of an
// element's leading byte.
type Tag uint8

// Element tags. Low 5 bits of the tag byte carry type-dependent inline data
// (smallint value, short-string length, or small-list count).
const (
	TagNil       Tag = 0x00 // 000
	TagSmallint  Tag = 0x20 // 001
	TagInteger   Tag = 0x40 // 010
	TagFloat     Tag = 0x60 // 011
	TagSymbolRef Tag = 0x80 // 100
	TagShortStr  Tag = 0xA0 // 101
	TagLongStr   Tag = 0xC0 // 110
	TagList      Tag = 0xE0 // 111
)

const (
	// TagMask isolates the high 3 type bits of a tag byte.
	TagMask = 0xE0
	// DataMask isolates the low 5 inline-data bits of a tag byte.
	DataMask = 0x1F
)

// Kind returns the type tag for b's high bits, normalizing nothing — callers
// wanting smallint/integer collapse must do so explicitly.
func (t Tag) Kind() Tag { return t & TagMask }

// Smallint range: signed 5-bit value biased into 0..31 for inline storage.
const (
	SmallintMin  = -16
	SmallintMax  = 15
	SmallintBias = 16
)

// ShortStringMax is the largest length (inclusive) encodable inline in a
// short-string tag byte; longer strings use the long form.
const ShortStringMax = 31

// SmallListMax is the largest element count using the compact small-list
// encoding; larger lists use the SEntry-indexed large-list encoding. This is
// a format-level constant, not a policy knob — readers and writers must
// agree on it bit-exactly.
const SmallListMax = 4

// Resource limits guarding against adversarial or malformed input.
const (
	MaxDepth       = 1000
	MaxSymbols     = 1 << 16 // 65536
	MaxListLen     = 1 << 20 // ~1M
	MaxStringBytes = 100 << 20
	MaxIndexKeys   = 1024
)

// SEntry packs an element's type and byte offset (from the start of a large
// list's element data) into one 32-bit slot, enabling type filtering and
// random access without dereferencing the element itself.
type SEntry uint32

const (
	sentryTypeShift = 29
	sentryTypeMask  = 0xE0000000
	sentryOffMask   = 0x0FFFFFFF
)

// SEntry type values, distinct from the atom Tag space (they describe the
// post-normalization shape: smallint and integer both become SEntryInteger).
const (
	SEntryNil SEntry = iota << sentryTypeShift
	SEntryInteger
	SEntryFloat
	SEntrySymbol
	SEntryString
	SEntryList
)

// MakeSEntry packs a type and offset into a single SEntry slot.
func MakeSEntry(typ SEntry, offset uint32) SEntry {
	return (typ & sentryTypeMask) | SEntry(offset)&sentryOffMask
}

// Type extracts the packed type from an SEntry.
func (e SEntry) Type() SEntry { return e & sentryTypeMask }

// Offset extracts the packed byte offset from an SEntry.
func (e SEntry) Offset() uint32 { return uint32(e & sentryOffMask) }

// SEntryTypeForTag maps an element's tag byte to its SEntry type, collapsing
// smallint into the generic integer bucket.
func SEntryTypeForTag(tag Tag) SEntry {
	switch tag.Kind() {
	case TagNil:
		return SEntryNil
	case TagSmallint, TagInteger:
		return SEntryInteger
	case TagFloat:
		return SEntryFloat
	case TagSymbolRef:
		return SEntrySymbol
	case TagShortStr, TagLongStr:
		return SEntryString
	case TagList:
		return SEntryList
	default:
		return SEntryNil
	}
}

// CompressionType identifies the general-purpose compressor applied to a
// batch of serialized values at rest, orthogonal to the binary format above.
type CompressionType uint8

const (
	CompressionNone CompressionType = iota
	CompressionZstd
	CompressionS2
	CompressionLZ4
)

// String implements fmt.Stringer for error messages and diagnostics.
func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}
