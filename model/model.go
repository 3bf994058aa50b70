package model

import (
	"fmt"
	"sort"
)

// Origin identifies where an imported function comes from.
type Origin struct {
	Module string
	Name   string
}

func (o Origin) String() string {
	return o.Module + ":" + o.Name
}

// Func is one entry of the function table.
// Origin is set iff the function is imported.
type Func struct {
	Origin *Origin
	Type   TypeIndex
}

// Imported reports whether the function is imported.
func (f Func) Imported() bool {
	return f.Origin != nil
}

// Model is the type model of a single module.
type Model struct {
	Exports map[string]FuncIndex
	Types   Table[TypeIndex, Signature]
	Funcs   Table[FuncIndex, Func]
}

// New returns an empty model.
func New() *Model {
	return &Model{Exports: make(map[string]FuncIndex)}
}

// Export returns the function index exported under name.
func (m *Model) Export(name string) (FuncIndex, bool) {
	idx, ok := m.Exports[name]
	return idx, ok
}

// ExportNames returns the function export names in sorted order.
func (m *Model) ExportNames() []string {
	names := make([]string, 0, len(m.Exports))
	for name := range m.Exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NumImported returns the number of imported functions.
// Imported functions always occupy the lowest function indices.
func (m *Model) NumImported() int {
	n := 0
	m.Funcs.Each(func(_ FuncIndex, f Func) bool {
		if !f.Imported() {
			return false
		}
		n++
		return true
	})
	return n
}

// Func returns the function at idx.
func (m *Model) Func(idx FuncIndex) (Func, error) {
	f, ok := m.Funcs.Get(idx)
	if !ok {
		return Func{}, fmt.Errorf("function index %d out of range (%d functions)", idx, m.Funcs.Len())
	}
	return f, nil
}

// Signature resolves the signature of the function at idx through its type index.
func (m *Model) Signature(idx FuncIndex) (Signature, error) {
	f, err := m.Func(idx)
	if err != nil {
		return Signature{}, err
	}
	sig, ok := m.Types.Get(f.Type)
	if !ok {
		return Signature{}, fmt.Errorf("function %d references type index %d out of range (%d types)", idx, f.Type, m.Types.Len())
	}
	return sig, nil
}
