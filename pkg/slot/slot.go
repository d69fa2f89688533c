// Package slot holds the latest rendered value of every source.
//
// A Table is created once at startup with one Slot per configured source, addressed by the
// source's position in the configuration. Each Slot has exactly one writer (the worker of
// the source's interval group) and is read by the aggregator.
package slot

import "sync"

// Slot is a single rendered value. The zero value holds the empty string.
type Slot struct {
	mu    sync.RWMutex
	value string
}

// Store replaces the value. Readers see either the old or the new string, never a mix.
func (s *Slot) Store(v string) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
}

// Load returns the current value.
func (s *Slot) Load() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Table is a fixed-size, index-addressed set of slots.
type Table struct {
	slots []Slot
}

// NewTable allocates n empty slots.
func NewTable(n int) *Table {
	return &Table{slots: make([]Slot, n)}
}

// Len returns the number of slots.
func (t *Table) Len() int { return len(t.slots) }

// At returns the slot at index i. It panics if i is out of range.
func (t *Table) At(i int) *Slot { return &t.slots[i] }

// Snapshot reads every slot in index order. Slots are read one at a time, so the result
// may mix values written at different moments.
func (t *Table) Snapshot() []string {
	values := make([]string, len(t.slots))
	for i := range t.slots {
		values[i] = t.slots[i].Load()
	}
	return values
}
