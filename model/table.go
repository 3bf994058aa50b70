package model

// TypeIndex identifies a signature in the type section.
type TypeIndex uint32

// FuncIndex identifies a function in the combined import + local function index space.
type FuncIndex uint32

// Table is an append-only ordered table addressed by a typed index.
// Indices are assigned in insertion order starting at zero and never reused.
type Table[I ~uint32, V any] struct {
	items []V
}

// Push appends v and returns its index.
func (t *Table[I, V]) Push(v V) I {
	idx := I(len(t.items))
	t.items = append(t.items, v)
	return idx
}

// Get returns the value at idx.
func (t *Table[I, V]) Get(idx I) (V, bool) {
	if uint64(idx) >= uint64(len(t.items)) {
		var zero V
		return zero, false
	}
	return t.items[idx], true
}

// Len returns the number of entries.
func (t *Table[I, V]) Len() int {
	return len(t.items)
}

// Each calls fn for every entry in index order until fn returns false.
func (t *Table[I, V]) Each(fn func(I, V) bool) {
	for i, v := range t.items {
		if !fn(I(i), v) {
			return
		}
	}
}
