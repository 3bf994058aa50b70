// Package structure is the structural gate every module passes before its
// types are extracted: a full binary validation of the raw module bytes
// against a fixed set of core features.
package structure

import (
	"context"
	stderrors "errors"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-validate/errors"
	"github.com/wippyai/wasm-validate/wasm"
)

// DefaultFeatures is the WebAssembly 1.0 feature set: no bulk memory, SIMD,
// multi-value, reference types or sign extension.
const DefaultFeatures = api.CoreFeaturesV1

// Validator checks that data is a structurally valid module under features.
// A failure is an *errors.Error of kind wasm_validation.
type Validator interface {
	ValidateStructure(data []byte, features api.CoreFeatures) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(data []byte, features api.CoreFeatures) error

// ValidateStructure calls f.
func (f ValidatorFunc) ValidateStructure(data []byte, features api.CoreFeatures) error {
	return f(data, features)
}

// Wazero validates modules by checking section layout and then compiling
// them with a wazero interpreter runtime. Compilation validates every
// function body but nothing is instantiated or executed.
type Wazero struct {
	Logger *zap.Logger
}

// ValidateStructure implements Validator.
func (w Wazero) ValidateStructure(data []byte, features api.CoreFeatures) error {
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := wasm.CheckLayout(data); err != nil {
		log.Debug("layout check failed", zap.Error(err))
		return layoutError(err)
	}

	ctx := context.Background()
	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter().WithCoreFeatures(features))
	defer runtime.Close(ctx)

	compiled, err := runtime.CompileModule(ctx, data)
	if err != nil {
		log.Debug("compile failed", zap.Error(err))
		// wazero does not report where in the binary it failed
		return errors.New(errors.PhaseStructure, errors.KindWasmValidation).
			Detail("%s", err.Error()).
			Build()
	}
	defer compiled.Close(ctx)

	log.Debug("module compiled",
		zap.Int("size", len(data)),
		zap.Int("exports", len(compiled.ExportedFunctions())),
		zap.Int("imports", len(compiled.ImportedFunctions())))
	return nil
}

func layoutError(err error) error {
	var pe *wasm.ParseError
	if stderrors.As(err, &pe) {
		return errors.WasmValidation(errors.PhaseStructure, pe.Err.Error(), pe.Position)
	}
	return errors.Wrap(errors.PhaseStructure, errors.KindWasmValidation, err, "check layout")
}
