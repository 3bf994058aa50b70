package wasmvalidate

import (
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-validate/conform"
	"github.com/wippyai/wasm-validate/errors"
	"github.com/wippyai/wasm-validate/iface"
	"github.com/wippyai/wasm-validate/model"
	"github.com/wippyai/wasm-validate/structure"
)

// Config holds validator configuration. The zero value validates with
// WebAssembly 1.0 features and the wazero structural gate.
type Config struct {
	// Structure replaces the structural gate.
	Structure structure.Validator

	// Logger overrides the package logger for this validator.
	Logger *zap.Logger

	// Features widens the core features the structural gate accepts.
	// Zero means structure.DefaultFeatures, so an empty feature set cannot be
	// requested. WebAssembly 1.0 is the narrowest set the gate validates.
	Features api.CoreFeatures
}

// Validator checks modules against interfaces. It is immutable after New and
// safe for concurrent use.
type Validator struct {
	structure structure.Validator
	logger    *zap.Logger
	features  api.CoreFeatures
}

// New creates a validator. A nil config uses the defaults.
func New(cfg *Config) *Validator {
	if cfg == nil {
		cfg = &Config{}
	}

	v := &Validator{
		structure: cfg.Structure,
		logger:    cfg.Logger,
		features:  cfg.Features,
	}
	if v.logger == nil {
		v.logger = Logger()
	}
	if v.features == 0 {
		v.features = structure.DefaultFeatures
	}
	if v.structure == nil {
		v.structure = structure.Wazero{Logger: v.logger.Named("structure")}
	}
	return v
}

// Features returns the core features the structural gate accepts.
func (v *Validator) Features() api.CoreFeatures {
	return v.features
}

// Validate checks that module passes the structural gate and exports every
// function in declares with its declared signature. The first failure is
// returned.
func (v *Validator) Validate(in *iface.Interface, module []byte) error {
	if in == nil {
		return errors.InvalidInput(errors.PhaseConform, "interface is nil")
	}

	m, err := v.extract(module)
	if err != nil {
		return err
	}

	if err := conform.Check(m, in); err != nil {
		v.logger.Debug("module does not conform", zap.Error(err))
		return err
	}
	v.logger.Debug("module conforms", zap.Int("functions", in.Len()))
	return nil
}

// Inspect runs the structural gate and extraction, then reports on every
// declaration without stopping at the first nonconforming one. The error is
// non-nil only when the module itself is rejected.
func (v *Validator) Inspect(in *iface.Interface, module []byte) (*model.Model, conform.Report, error) {
	if in == nil {
		return nil, conform.Report{}, errors.InvalidInput(errors.PhaseConform, "interface is nil")
	}

	m, err := v.extract(module)
	if err != nil {
		return nil, conform.Report{}, err
	}
	return m, conform.Inspect(m, in), nil
}

// Extract runs the structural gate and returns the module type model.
func (v *Validator) Extract(module []byte) (*model.Model, error) {
	return v.extract(module)
}

func (v *Validator) extract(module []byte) (*model.Model, error) {
	if err := v.structure.ValidateStructure(module, v.features); err != nil {
		v.logger.Debug("structural validation failed", zap.Error(err))
		return nil, err
	}

	m, err := model.Extract(module)
	if err != nil {
		v.logger.Debug("extraction failed", zap.Error(err))
		return nil, err
	}

	v.logger.Debug("module extracted",
		zap.Int("types", m.Types.Len()),
		zap.Int("functions", m.Funcs.Len()),
		zap.Int("imported", m.NumImported()),
		zap.Int("exports", len(m.Exports)))
	return m, nil
}

// Validate checks module against in with the default configuration.
func Validate(in *iface.Interface, module []byte) error {
	return New(nil).Validate(in, module)
}
