package iface_test

import (
	"slices"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-validate/errors"
	"github.com/wippyai/wasm-validate/iface"
	"github.com/wippyai/wasm-validate/model"
)

func TestInterfaceDeclare(t *testing.T) {
	in := iface.New()
	params := []api.ValueType{i32}
	if err := in.Declare("double", model.Signature{Params: params, Results: types(i32)}); err != nil {
		t.Fatalf("Declare error: %v", err)
	}
	if err := in.Declare("run", model.Signature{}); err != nil {
		t.Fatalf("Declare error: %v", err)
	}

	// the interface keeps its own copy
	params[0] = i64
	d, ok := in.Lookup("double")
	if !ok {
		t.Fatal("double not found")
	}
	if d.Signature.Params[0] != i32 {
		t.Errorf("declared signature changed through caller slice: %s", d.Signature)
	}

	if _, ok := in.Lookup("missing"); ok {
		t.Error("Lookup found undeclared function")
	}
	if in.Len() != 2 {
		t.Errorf("Len = %d, want 2", in.Len())
	}
	if got := in.Names(); !slices.Equal(got, []string{"double", "run"}) {
		t.Errorf("Names = %v", got)
	}
}

func TestInterfaceDeclareErrors(t *testing.T) {
	in := iface.New()
	if err := in.Declare("f", model.Signature{}); err != nil {
		t.Fatalf("Declare error: %v", err)
	}

	err := in.Declare("f", model.Signature{Params: types(i32)})
	if !errors.HasKind(err, errors.KindInvalidInput) {
		t.Errorf("duplicate Declare error = %v, want invalid_input", err)
	}

	err = in.Declare("", model.Signature{})
	if !errors.HasKind(err, errors.KindInvalidInput) {
		t.Errorf("empty name Declare error = %v, want invalid_input", err)
	}

	if in.Len() != 1 {
		t.Errorf("Len = %d after failed declarations, want 1", in.Len())
	}
}
