// Package errs defines the sentinel errors returned across the sexp module.
//
// Operations never wrap these with extra context beyond errors.Is-compatible
// wrapping; callers should match with errors.Is.
package errs

import "errors"

var (
	// ErrUnterminatedList is returned when a textual list is missing its closing paren.
	ErrUnterminatedList = errors.New("sexp: unterminated list")
	// ErrUnterminatedString is returned when a textual string literal has no closing quote.
	ErrUnterminatedString = errors.New("sexp: unterminated string")
	// ErrEmptyToken is returned when the parser expects a token and finds none.
	ErrEmptyToken = errors.New("sexp: empty token")
	// ErrTrailingGarbage is returned when input remains after a complete value was parsed.
	ErrTrailingGarbage = errors.New("sexp: trailing garbage after value")
	ErrBadEscape = errors.New("sexp: invalid string escape sequence")

	// ErrDepthExceeded is returned when nesting depth exceeds the configured limit.
	ErrDepthExceeded = errors.New("sexp: nesting depth limit exceeded")
	// ErrTooManySymbols is returned when a value's symbol table would exceed 65536 entries.
	ErrTooManySymbols = errors.New("sexp: symbol table limit exceeded")
	// ErrListTooLong is returned when a list would exceed the maximum element count.
	ErrListTooLong = errors.New("sexp: list length limit exceeded")
	// ErrStringTooLong is returned when a string would exceed the maximum byte length.
	ErrStringTooLong = errors.New("sexp: string length limit exceeded")

	// ErrCorruptedData is returned when a binary buffer fails structural validation.
	ErrCorruptedData = errors.New("sexp: corrupted data")
	// ErrUnsupportedVersion is returned when the buffer's version byte exceeds the reader's maximum.
	ErrUnsupportedVersion = errors.New("sexp: unsupported format version")
	// ErrInvalidTag is returned when a tag byte does not decode to a known type.
	ErrInvalidTag = errors.New("sexp: invalid element tag")
	// ErrInvalidSymbolRef is returned when a symbol reference index is out of range.
	ErrInvalidSymbolRef = errors.New("sexp: symbol reference out of range")
	// ErrBufferTooShort is returned when a read would run past the end of the buffer.
	ErrBufferTooShort = errors.New("sexp: buffer truncated")

	// ErrTypeMismatch is returned by car/cdr when called on a non-list, non-nil value.
	ErrTypeMismatch = errors.New("sexp: type mismatch")

	// ErrHashCollision names a symbol hash collision. No operation in this module
	// returns it: internal/symtab compares names whenever hashes match, so two
	// distinct symbols with equal hashes are still interned separately.
	ErrHashCollision = errors.New("sexp: symbol hash collision")
)
