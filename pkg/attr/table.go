package attr

import (
	"slices"
	"sync"
)

// Table is a node class's accessor table. It is built once when the class
// is defined and shared by every instance of the class.
//
// The zero value is an empty table ready for use.
type Table struct {
	mu        sync.RWMutex
	order     []string
	accessors map[string]Accessor
	sets      []string
}

// NewTable returns a table with sets registered.
func NewTable(sets ...Set) *Table {
	t := &Table{}
	t.Register(sets...)
	return t
}

// Register merges sets into the table in order. For a name that appears more
// than once, the descriptor registered last wins, both within one call and
// across calls. Registering the same sets again leaves the table unchanged.
func (t *Table) Register(sets ...Set) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.accessors == nil {
		t.accessors = make(map[string]Accessor)
	}
	for _, s := range sets {
		for _, d := range s.Descriptors {
			if _, ok := t.accessors[d.Name]; !ok {
				t.order = append(t.order, d.Name)
			}
			t.accessors[d.Name] = NewAccessor(d)
		}
		if s.Name != "" && !slices.Contains(t.sets, s.Name) {
			t.sets = append(t.sets, s.Name)
		}
	}
}

// Lookup returns the accessor registered for name.
func (t *Table) Lookup(name string) (Accessor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.accessors[name]
	return a, ok
}

// Descriptors returns the effective descriptors in first-registration order.
func (t *Table) Descriptors() []Descriptor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Descriptor, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.accessors[name].Descriptor())
	}
	return out
}

// Sets returns the names of the registered sets in registration order.
func (t *Table) Sets() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.sets)
}

// Len returns the number of distinct attribute names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}
