package model

import (
	"slices"
	"strings"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-validate/wasm"
)

// Signature is an ordered list of parameter types and an ordered list of result types.
type Signature struct {
	Params  []api.ValueType
	Results []api.ValueType
}

// NewSignature returns a signature holding copies of params and results.
func NewSignature(params, results []api.ValueType) Signature {
	return Signature{Params: slices.Clone(params), Results: slices.Clone(results)}
}

// Equal reports whether both signatures have the same parameter and result
// types in the same order.
func (s Signature) Equal(o Signature) bool {
	return slices.Equal(s.Params, o.Params) && slices.Equal(s.Results, o.Results)
}

// Clone returns a deep copy.
func (s Signature) Clone() Signature {
	return NewSignature(s.Params, s.Results)
}

// String renders the signature as "(i32, i64) -> (f32)".
func (s Signature) String() string {
	var b strings.Builder
	writeTypes(&b, s.Params)
	b.WriteString(" -> ")
	writeTypes(&b, s.Results)
	return b.String()
}

func writeTypes(b *strings.Builder, types []api.ValueType) {
	b.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(wasm.ValueTypeName(t))
	}
	b.WriteByte(')')
}
