package iface

import (
	"github.com/wippyai/wasm-validate/errors"
	"github.com/wippyai/wasm-validate/model"
)

// Decl is one declared function.
type Decl struct {
	Name      string
	Source    string // declaration text the signature was derived from, if parsed
	Signature model.Signature
}

// Interface is an ordered set of function declarations keyed by name.
type Interface struct {
	index map[string]int
	decls []Decl
}

// New returns an empty interface.
func New() *Interface {
	return &Interface{index: make(map[string]int)}
}

// Declare adds a function declaration. Declaring the same name twice is an error.
func (in *Interface) Declare(name string, sig model.Signature) error {
	return in.add(Decl{Name: name, Signature: sig.Clone()})
}

func (in *Interface) add(d Decl) error {
	if d.Name == "" {
		return errors.InvalidInput(errors.PhaseParse, "function name is empty")
	}
	if _, dup := in.index[d.Name]; dup {
		return errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Function(d.Name).
			Detail("function declared more than once").
			Build()
	}
	in.index[d.Name] = len(in.decls)
	in.decls = append(in.decls, d)
	return nil
}

// Lookup returns the declaration for name.
func (in *Interface) Lookup(name string) (Decl, bool) {
	i, ok := in.index[name]
	if !ok {
		return Decl{}, false
	}
	return in.decls[i], true
}

// Names returns the declared function names in declaration order.
func (in *Interface) Names() []string {
	names := make([]string, len(in.decls))
	for i, d := range in.decls {
		names[i] = d.Name
	}
	return names
}

// Decls returns the declarations in declaration order.
func (in *Interface) Decls() []Decl {
	out := make([]Decl, len(in.decls))
	copy(out, in.decls)
	return out
}

// Len returns the number of declarations.
func (in *Interface) Len() int {
	return len(in.decls)
}
