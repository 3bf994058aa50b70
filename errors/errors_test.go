package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
		excludes []string
	}{
		{
			name:     "wasm validation with offset",
			err:      WasmValidation(PhaseStructure, "unexpected end of section", 42),
			contains: []string{"[structure]", "wasm_validation", "at offset 42", "unexpected end of section"},
		},
		{
			name:     "wasm validation without offset",
			err:      WasmValidation(PhaseStructure, "invalid function body", NoOffset),
			contains: []string{"[structure]", "wasm_validation", "invalid function body"},
			excludes: []string{"offset"},
		},
		{
			name:     "unsupported",
			err:      Unsupported(PhaseExtract, "memory import env:mem"),
			contains: []string{"[extract]", "unsupported", "memory import env:mem"},
		},
		{
			name:     "signature mismatch",
			err:      SignatureMismatch("double", "(i64) -> (i32)", "(i32) -> (i32)"),
			contains: []string{"[conform]", "signature_mismatch", `"double"`, "expected (i64) -> (i32)", "got (i32) -> (i32)"},
		},
		{
			name:     "missing export",
			err:      MissingExport("run"),
			contains: []string{"[conform]", "missing_export", `"run"`},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidInput,
				Detail: "read module",
				Cause:  errors.New("no such file"),
				Offset: NoOffset,
			},
			contains: []string{"[load]", "invalid_input", "read module", "caused by", "no such file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(msg, s) {
					t.Errorf("error message %q should not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseParse, KindInvalidData, cause, "parse WIT")

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
}

func TestError_Is(t *testing.T) {
	err := Unsupported(PhaseExtract, "table import env:tbl")

	if !err.Is(&Error{Phase: PhaseExtract, Kind: KindUnsupported}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseStructure, Kind: KindUnsupported}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseExtract, Kind: KindWasmValidation}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, &Error{Phase: PhaseExtract, Kind: KindUnsupported}) {
		t.Error("errors.Is should match")
	}
}

func TestHasKind(t *testing.T) {
	err := MissingExport("run")
	if !HasKind(err, KindMissingExport) {
		t.Error("HasKind should match direct error")
	}

	wrapped := Wrap(PhaseLoad, KindInvalidInput, err, "outer")
	if HasKind(wrapped, KindMissingExport) {
		t.Error("HasKind reports the outermost structured error")
	}

	if HasKind(errors.New("plain"), KindMissingExport) {
		t.Error("HasKind should not match plain errors")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseConform, KindSignatureMismatch).
		Function("add").
		Expected("(i32, i32) -> (i32)").
		Actual("(i32) -> (i32)").
		Offset(12).
		Cause(cause).
		Detail("param count %d != %d", 2, 1).
		Build()

	if err.Phase != PhaseConform {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseConform)
	}
	if err.Kind != KindSignatureMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindSignatureMismatch)
	}
	if err.Function != "add" {
		t.Errorf("Function = %q, want add", err.Function)
	}
	if err.Expected != "(i32, i32) -> (i32)" || err.Actual != "(i32) -> (i32)" {
		t.Errorf("Expected=%q Actual=%q", err.Expected, err.Actual)
	}
	if err.Offset != 12 {
		t.Errorf("Offset = %d, want 12", err.Offset)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "param count 2 != 1" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestBuilderDefaultsToNoOffset(t *testing.T) {
	err := New(PhaseStructure, KindWasmValidation).Detail("bad").Build()
	if err.Offset != NoOffset {
		t.Errorf("Offset = %d, want NoOffset", err.Offset)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidData", func(t *testing.T) {
		err := InvalidData(PhaseParse, "unbalanced <")
		if err.Kind != KindInvalidData || err.Phase != PhaseParse {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseConform, "nil interface")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseConform, "function", "run")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Detail, `"run"`) {
			t.Errorf("Detail = %q, should name the function", err.Detail)
		}
	})

	t.Run("Load", func(t *testing.T) {
		err := Load("read module", errors.New("eof"))
		if err.Phase != PhaseLoad {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseLoad)
		}
	})

	t.Run("ParseFailed", func(t *testing.T) {
		err := ParseFailed("WIT type", errors.New("bad"))
		if err.Detail != "parse WIT type" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})
}
