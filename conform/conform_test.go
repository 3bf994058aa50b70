package conform_test

import (
	"slices"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-validate/conform"
	"github.com/wippyai/wasm-validate/errors"
	"github.com/wippyai/wasm-validate/iface"
	"github.com/wippyai/wasm-validate/model"
)

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

func sig(params, results []api.ValueType) model.Signature {
	return model.NewSignature(params, results)
}

func vts(types ...api.ValueType) []api.ValueType { return types }

// testModel has one imported function re-exported as "log" and two local
// functions exported as "double" and "helper".
func testModel() *model.Model {
	m := model.New()
	unary := m.Types.Push(sig(vts(i32), vts(i32)))
	void := m.Types.Push(sig(vts(i32), nil))

	log := m.Funcs.Push(model.Func{Type: void, Origin: &model.Origin{Module: "env", Name: "log"}})
	double := m.Funcs.Push(model.Func{Type: unary})
	helper := m.Funcs.Push(model.Func{Type: void})

	m.Exports["log"] = log
	m.Exports["double"] = double
	m.Exports["helper"] = helper
	return m
}

func declare(t *testing.T, decls ...iface.Decl) *iface.Interface {
	t.Helper()
	in := iface.New()
	for _, d := range decls {
		if err := in.Declare(d.Name, d.Signature); err != nil {
			t.Fatalf("Declare(%s): %v", d.Name, err)
		}
	}
	return in
}

func TestCheckConforming(t *testing.T) {
	in := declare(t,
		iface.Decl{Name: "double", Signature: sig(vts(i32), vts(i32))},
		iface.Decl{Name: "log", Signature: sig(vts(i32), nil)},
	)
	if err := conform.Check(testModel(), in); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckEmptyInterface(t *testing.T) {
	if err := conform.Check(testModel(), iface.New()); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckSignatureMismatch(t *testing.T) {
	in := declare(t, iface.Decl{Name: "double", Signature: sig(vts(i64), vts(i32))})

	err := conform.Check(testModel(), in)
	e, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("expected *errors.Error, got %T: %v", err, err)
	}
	if e.Kind != errors.KindSignatureMismatch {
		t.Fatalf("Kind = %s, want signature_mismatch", e.Kind)
	}
	if e.Function != "double" {
		t.Errorf("Function = %q", e.Function)
	}
	if e.Expected != "(i64) -> (i32)" || e.Actual != "(i32) -> (i32)" {
		t.Errorf("Expected = %q, Actual = %q", e.Expected, e.Actual)
	}
}

func TestCheckMissingExport(t *testing.T) {
	in := declare(t, iface.Decl{Name: "run", Signature: sig(nil, nil)})

	err := conform.Check(testModel(), in)
	if !errors.HasKind(err, errors.KindMissingExport) {
		t.Fatalf("error = %v, want missing_export", err)
	}
	if e := err.(*errors.Error); e.Function != "run" {
		t.Errorf("Function = %q, want run", e.Function)
	}
}

func TestCheckFailsFastInDeclarationOrder(t *testing.T) {
	in := declare(t,
		iface.Decl{Name: "double", Signature: sig(vts(i32), vts(i32))},
		iface.Decl{Name: "helper", Signature: sig(nil, nil)},
		iface.Decl{Name: "run", Signature: sig(nil, nil)},
	)

	err := conform.Check(testModel(), in)
	if !errors.HasKind(err, errors.KindSignatureMismatch) {
		t.Fatalf("error = %v, want the helper mismatch first", err)
	}
}

func TestCheckOutOfRangeIndices(t *testing.T) {
	t.Run("function index", func(t *testing.T) {
		m := testModel()
		m.Exports["ghost"] = 42
		in := declare(t, iface.Decl{Name: "ghost", Signature: sig(nil, nil)})

		err := conform.Check(m, in)
		e, ok := err.(*errors.Error)
		if !ok || e.Kind != errors.KindWasmValidation {
			t.Fatalf("error = %v, want wasm_validation", err)
		}
		if e.Offset != errors.NoOffset {
			t.Errorf("Offset = %d, want NoOffset", e.Offset)
		}
		if e.Function != "ghost" {
			t.Errorf("Function = %q", e.Function)
		}
	})

	t.Run("type index", func(t *testing.T) {
		m := testModel()
		m.Exports["dangling"] = m.Funcs.Push(model.Func{Type: 9})
		in := declare(t, iface.Decl{Name: "dangling", Signature: sig(nil, nil)})

		if err := conform.Check(m, in); !errors.HasKind(err, errors.KindWasmValidation) {
			t.Fatalf("error = %v, want wasm_validation", err)
		}
	})
}

func TestInspect(t *testing.T) {
	m := testModel()
	m.Exports["ghost"] = 42

	in := declare(t,
		iface.Decl{Name: "log", Signature: sig(vts(i32), nil)},
		iface.Decl{Name: "run", Signature: sig(nil, nil)},
		iface.Decl{Name: "double", Signature: sig(vts(i64), vts(i32))},
		iface.Decl{Name: "ghost", Signature: sig(nil, nil)},
	)

	report := conform.Inspect(m, in)

	want := []struct {
		name   string
		status conform.Status
	}{
		{"log", conform.StatusOK},
		{"run", conform.StatusMissing},
		{"double", conform.StatusMismatch},
		{"ghost", conform.StatusInvalid},
	}
	if len(report.Results) != len(want) {
		t.Fatalf("results = %d, want %d", len(report.Results), len(want))
	}
	for i, w := range want {
		res := report.Results[i]
		if res.Name != w.name || res.Status != w.status {
			t.Errorf("result %d = %s/%s, want %s/%s", i, res.Name, res.Status, w.name, w.status)
		}
		if (res.Err == nil) != (w.status == conform.StatusOK) {
			t.Errorf("%s: Err = %v with status %s", res.Name, res.Err, res.Status)
		}
	}

	logRes := report.Results[0]
	if logRes.Origin == nil || logRes.Origin.String() != "env:log" {
		t.Errorf("log origin = %v, want env:log", logRes.Origin)
	}
	if logRes.Index != 0 {
		t.Errorf("log index = %d, want 0", logRes.Index)
	}

	doubleRes := report.Results[2]
	if doubleRes.Actual.String() != "(i32) -> (i32)" {
		t.Errorf("double actual = %s", doubleRes.Actual)
	}
	if doubleRes.Origin != nil {
		t.Errorf("double origin = %v, want local", doubleRes.Origin)
	}

	if !slices.Equal(report.Undeclared, []string{"helper"}) {
		t.Errorf("Undeclared = %v, want [helper]", report.Undeclared)
	}

	if report.OK() {
		t.Error("OK should be false")
	}
	if !errors.HasKind(report.Err(), errors.KindMissingExport) {
		t.Errorf("Err = %v, want the first failure (missing run)", report.Err())
	}
	if checkErr := conform.Check(m, in); checkErr.Error() != report.Err().Error() {
		t.Errorf("Check = %v, Report.Err = %v", checkErr, report.Err())
	}
}

func TestInspectAllConforming(t *testing.T) {
	in := declare(t, iface.Decl{Name: "double", Signature: sig(vts(i32), vts(i32))})
	report := conform.Inspect(testModel(), in)
	if !report.OK() {
		t.Fatalf("report not OK: %v", report.Err())
	}
	if !slices.Equal(report.Undeclared, []string{"helper", "log"}) {
		t.Errorf("Undeclared = %v", report.Undeclared)
	}
}
