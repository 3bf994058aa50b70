// Package conform reconciles a module's function exports against an
// interface: every declared function must be exported by the module with
// exactly the declared core signature. Exports the interface does not
// declare are permitted.
package conform

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-validate/errors"
	"github.com/wippyai/wasm-validate/iface"
	"github.com/wippyai/wasm-validate/model"
)

// Status is the outcome for one declared function.
type Status string

const (
	StatusOK       Status = "ok"
	StatusMissing  Status = "missing"
	StatusMismatch Status = "mismatch"
	StatusInvalid  Status = "invalid" // export references an out of range function or type
)

// Result is the conformance outcome of one declaration.
type Result struct {
	Origin   *model.Origin // set when the export re-exports an import
	Err      error
	Name     string
	Status   Status
	Expected model.Signature
	Actual   model.Signature
	Index    model.FuncIndex
}

// Report holds a result for every declaration, in declaration order.
type Report struct {
	Results    []Result
	Undeclared []string // function exports the interface does not declare, sorted
}

// OK reports whether every declaration conforms.
func (r Report) OK() bool {
	return r.Err() == nil
}

// Err returns the error of the first failing declaration, or nil.
func (r Report) Err() error {
	for _, res := range r.Results {
		if res.Err != nil {
			return res.Err
		}
	}
	return nil
}

// Check verifies every declaration of in against m, in declaration order,
// and returns the first failure.
func Check(m *model.Model, in *iface.Interface) error {
	for _, d := range in.Decls() {
		if res := check(m, d); res.Err != nil {
			return res.Err
		}
	}
	return nil
}

// Inspect checks every declaration without stopping at the first failure.
func Inspect(m *model.Model, in *iface.Interface) Report {
	decls := in.Decls()
	report := Report{Results: make([]Result, 0, len(decls))}
	for _, d := range decls {
		report.Results = append(report.Results, check(m, d))
	}
	for _, name := range m.ExportNames() {
		if _, ok := in.Lookup(name); !ok {
			report.Undeclared = append(report.Undeclared, name)
		}
	}
	return report
}

func check(m *model.Model, d iface.Decl) Result {
	res := Result{Name: d.Name, Expected: d.Signature}

	idx, ok := m.Export(d.Name)
	if !ok {
		Logger().Debug("declared function not exported", zap.String("name", d.Name))
		res.Status = StatusMissing
		res.Err = errors.MissingExport(d.Name)
		return res
	}
	res.Index = idx

	f, err := m.Func(idx)
	if err == nil {
		res.Origin = f.Origin
		res.Actual, err = m.Signature(idx)
	}
	if err != nil {
		res.Status = StatusInvalid
		res.Err = errors.New(errors.PhaseConform, errors.KindWasmValidation).
			Function(d.Name).
			Detail("%s", err.Error()).
			Build()
		return res
	}

	if !res.Actual.Equal(d.Signature) {
		Logger().Debug("signature mismatch",
			zap.String("name", d.Name),
			zap.Stringer("expected", d.Signature),
			zap.Stringer("actual", res.Actual))
		res.Status = StatusMismatch
		res.Err = errors.SignatureMismatch(d.Name, d.Signature.String(), res.Actual.String())
		return res
	}

	res.Status = StatusOK
	return res
}
