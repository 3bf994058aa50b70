package wasm_test

import (
	"errors"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-validate/wasm"
)

func TestCheckLayoutValid(t *testing.T) {
	m := &wasm.Module{
		Types:          []wasm.TypeEntry{wasm.Func([]api.ValueType{i32}, []api.ValueType{i32})},
		Funcs:          []uint32{0},
		Exports:        []wasm.Export{{Name: "double", Kind: wasm.KindFunc}},
		Code:           []wasm.FuncBody{{Code: []byte{0x20, 0x00, 0x0b}}},
		CustomSections: []wasm.CustomSection{{Name: "name", Data: []byte{0x00}}},
	}
	if err := wasm.CheckLayout(m.Encode()); err != nil {
		t.Fatalf("CheckLayout: %v", err)
	}
}

func TestCheckLayoutErrors(t *testing.T) {
	header := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	with := func(b ...byte) []byte {
		return append(append([]byte{}, header...), b...)
	}

	tests := []struct {
		name   string
		data   []byte
		offset int
	}{
		{
			name:   "out of order",
			data:   with(0x03, 0x01, 0x00, 0x01, 0x01, 0x00),
			offset: 11,
		},
		{
			name:   "duplicate section",
			data:   with(0x01, 0x01, 0x00, 0x01, 0x01, 0x00),
			offset: 11,
		},
		{
			name:   "unknown section id",
			data:   with(0x20, 0x00),
			offset: 8,
		},
		{
			name:   "function without code",
			data:   with(0x01, 0x04, 0x01, 0x60, 0x00, 0x00, 0x03, 0x02, 0x01, 0x00),
			offset: 16,
		},
		{
			name:   "truncated section",
			data:   with(0x01, 0x05, 0x01),
			offset: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wasm.CheckLayout(tt.data)
			var pe *wasm.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if pe.Position != tt.offset {
				t.Errorf("Position = %d, want %d (%v)", pe.Position, tt.offset, err)
			}
		})
	}
}

func TestCheckLayoutCodeCountMismatch(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.TypeEntry{wasm.Func(nil, nil)},
		Funcs: []uint32{0, 0},
		Code:  []wasm.FuncBody{{Code: []byte{0x0b}}},
	}
	if err := wasm.CheckLayout(m.Encode()); err == nil {
		t.Fatal("expected error for function/code count mismatch")
	}
}
