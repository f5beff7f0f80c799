// Package symtab implements the per-value symbol table: an open-addressing,
// linear-probing intern table used by the Writer to assign each distinct
// symbol name a single index, regardless of how many times it appears.
package symtab

import (
	"github.com/sexpcore/sexp/errs"
	"github.com/sexpcore/sexp/format"
	"github.com/sexpcore/sexp/internal/shash"
)

const (
	initialCapacity = 64 // must be a power of two
	maxLoadNum      = 1
	maxLoadDen      = 2 // load factor target <= 0.5
)

const emptySlot = -1

// Table interns symbol names in first-seen order and resolves duplicates to
// their existing index. It caches each entry's 32-bit hash to accelerate
// both lookup and later equality checks.
type Table struct {
	names  []string
	hashes []uint32

	slots    []int32 // hash(name) -> index into names, or emptySlot
	slotMask uint32
}

// New creates an empty symbol table.
func New() *Table {
	t := &Table{}
	t.growSlots(initialCapacity)

	return t
}

// Len returns the number of distinct interned symbols.
func (t *Table) Len() int { return len(t.names) }

// Names returns the interned symbols in table order (insertion order). The
// returned slice must not be mutated.
func (t *Table) Names() []string { return t.names }

// Hashes returns the cached 32-bit hash for each interned symbol, same order
// as Names.
func (t *Table) Hashes() []uint32 { return t.hashes }

// Intern returns the index of name, inserting it if not already present.
// Returns errs.ErrTooManySymbols once the table would exceed format.MaxSymbols
// distinct entries.
func (t *Table) Intern(name string) (int, error) {
	h := shash.Bytes([]byte(name))

	if idx, found := t.find(name, h); found {
		return idx, nil
	}

	if len(t.names) >= format.MaxSymbols {
		return 0, errs.ErrTooManySymbols
	}

	idx := len(t.names)
	t.names = append(t.names, name)
	t.hashes = append(t.hashes, h)
	t.insertSlot(idx, h)

	if len(t.names)*maxLoadDen > len(t.slots)*maxLoadNum {
		t.rehash()
	}

	return idx, nil
}

func (t *Table) find(name string, h uint32) (int, bool) {
	mask := t.slotMask
	i := uint32(h) & mask

	for probes := uint32(0); probes <= mask; probes++ {
		slot := t.slots[i]
		if slot == emptySlot {
			return 0, false
		}

		idx := int(slot)
		if t.hashes[idx] == h && t.names[idx] == name {
			return idx, true
		}

		i = (i + 1) & mask
	}

	return 0, false
}

func (t *Table) insertSlot(idx int, h uint32) {
	mask := t.slotMask
	i := uint32(h) & mask

	for t.slots[i] != emptySlot {
		i = (i + 1) & mask
	}

	t.slots[i] = int32(idx)
}

func (t *Table) growSlots(capacity int) {
	t.slots = make([]int32, capacity)
	for i := range t.slots {
		t.slots[i] = emptySlot
	}
	t.slotMask = uint32(capacity - 1)
}

func (t *Table) rehash() {
	t.growSlots(len(t.slots) * 2)
	for idx, h := range t.hashes {
		t.insertSlot(idx, h)
	}
}
