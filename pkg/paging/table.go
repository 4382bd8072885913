// Package paging mirrors a small indexed value table to the consumer
// one slot per step, because the parameter surface is far too narrow to
// sync it in one go. Slot 0 is never stored: on the wire it is the
// consumer's "ready" sentinel.
package paging

import "sync"

// Slot is one table entry.
type Slot struct {
	Index int
	Value float32
}

// Table holds the values being paged out. Traversal follows insertion
// order, not index order, so related slots registered together stream
// together.
type Table struct {
	mu    sync.Mutex
	order []int
	slots map[int]float32
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{slots: make(map[int]float32)}
}

// Set stores a value. First writes fix the slot's traversal position;
// later writes only update the value. Non-positive indexes are ignored.
func (t *Table) Set(index int, v float32) {
	if index <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.slots[index]; !ok {
		t.order = append(t.order, index)
	}
	t.slots[index] = v
}

// Get reads a slot.
func (t *Table) Get(index int) (float32, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.slots[index]
	return v, ok
}

// Len returns the number of registered slots.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.order)
}

// at returns the slot at a traversal position.
func (t *Table) at(pos int) Slot {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.order[pos]
	return Slot{Index: idx, Value: t.slots[idx]}
}

// Snapshot copies the table in traversal order for the status surfaces.
func (t *Table) Snapshot() []Slot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Slot, 0, len(t.order))
	for _, idx := range t.order {
		out = append(out, Slot{Index: idx, Value: t.slots[idx]})
	}
	return out
}
