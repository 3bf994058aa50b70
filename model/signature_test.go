package model

import (
	"testing"

	"github.com/tetratelabs/wazero/api"
)

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
	f32 = api.ValueTypeF32
	f64 = api.ValueTypeF64
)

func TestSignatureEqual(t *testing.T) {
	base := NewSignature([]api.ValueType{i32, i64}, []api.ValueType{f32})

	tests := []struct {
		name  string
		other Signature
		want  bool
	}{
		{"independent identical", NewSignature([]api.ValueType{i32, i64}, []api.ValueType{f32}), true},
		{"differing type", NewSignature([]api.ValueType{i32, f64}, []api.ValueType{f32}), false},
		{"differing order", NewSignature([]api.ValueType{i64, i32}, []api.ValueType{f32}), false},
		{"fewer params", NewSignature([]api.ValueType{i32}, []api.ValueType{f32}), false},
		{"more results", NewSignature([]api.ValueType{i32, i64}, []api.ValueType{f32, f32}), false},
		{"no results", NewSignature([]api.ValueType{i32, i64}, nil), false},
		{"params moved to results", NewSignature(nil, []api.ValueType{i32, i64, f32}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := tt.other.Equal(base); got != tt.want {
				t.Errorf("Equal is not symmetric")
			}
		})
	}
}

func TestSignatureEqualNilAndEmpty(t *testing.T) {
	a := Signature{}
	b := Signature{Params: []api.ValueType{}, Results: []api.ValueType{}}
	if !a.Equal(b) {
		t.Error("nil and empty sequences should be equal")
	}
}

func TestNewSignatureCopies(t *testing.T) {
	params := []api.ValueType{i32}
	sig := NewSignature(params, nil)
	params[0] = i64
	if sig.Params[0] != i32 {
		t.Error("NewSignature must not alias its input")
	}

	clone := sig.Clone()
	clone.Params[0] = f64
	if sig.Params[0] != i32 {
		t.Error("Clone must not alias the original")
	}
}

func TestSignatureString(t *testing.T) {
	tests := []struct {
		sig  Signature
		want string
	}{
		{Signature{}, "() -> ()"},
		{NewSignature([]api.ValueType{i32}, []api.ValueType{i32}), "(i32) -> (i32)"},
		{NewSignature([]api.ValueType{i32, i64, f32, f64}, nil), "(i32, i64, f32, f64) -> ()"},
	}
	for _, tt := range tests {
		if got := tt.sig.String(); got != tt.want {
			t.Errorf("String = %q, want %q", got, tt.want)
		}
	}
}
