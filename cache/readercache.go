// Package cache provides an LRU cache of opened decode.Reader cursors,
// keyed by a caller-supplied buffer identity (e.g. a row id, a content
// digest, a cache key already used by the caller's own storage layer).
// Repeatedly querying the same serialized value -- running several
// Contains/Hash/ExtractIndexKeys calls against one stored row, say -- would
// otherwise re-walk the symbol table on every call; this package lets a
// caller amortize that across calls.
package cache

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/sexpcore/sexp/decode"
)

// ReaderCache is a fixed-capacity LRU cache mapping an opaque key to an
// opened Reader. It is safe for concurrent use; the underlying lru.Cache
// does its own locking.
type ReaderCache struct {
	cache *lru.Cache
}

// New creates a ReaderCache holding at most size entries. size must be > 0.
func New(size int) (*ReaderCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &ReaderCache{cache: c}, nil
}

// Open returns a Reader over buf, reusing a cached one under key if present.
// A cache hit trusts that buf is unchanged since the entry was stored --
// callers that mutate storage out from under a key must Invalidate it first.
func (c *ReaderCache) Open(key string, buf []byte) (*decode.Reader, error) {
	if v, ok := c.cache.Get(key); ok {
		return v.(*decode.Reader), nil
	}

	r, err := decode.Open(buf)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, r)

	return r, nil
}

// Invalidate evicts key, if present.
func (c *ReaderCache) Invalidate(key string) {
	c.cache.Remove(key)
}

// Len returns the number of entries currently cached.
func (c *ReaderCache) Len() int {
	return c.cache.Len()
}

// Purge empties the cache.
func (c *ReaderCache) Purge() {
	c.cache.Purge()
}
