package model

import (
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-validate/errors"
	"github.com/wippyai/wasm-validate/wasm"
)

// Extract walks the module's sections once, in binary order, and builds its
// type model. Sections other than type, import, function and export are
// skipped. Decoding failures are returned as wasm_validation errors carrying
// the decoder's message and offset.
//
// Extract performs no cross-checks between tables: a function may reference a
// type index that does not exist. Run the structural gate first.
func Extract(data []byte) (*Model, error) {
	mr, err := wasm.NewModuleReader(data)
	if err != nil {
		return nil, decodeError(err)
	}

	m := New()
	log := Logger()

	for !mr.EOF() {
		sec, err := mr.Read()
		if err != nil {
			return nil, decodeError(err)
		}

		log.Debug("section",
			zap.String("kind", wasm.SectionName(sec.ID)),
			zap.Int("offset", sec.Offset),
			zap.Int("size", len(sec.Data)))

		switch sec.ID {
		case wasm.SectionType:
			err = m.addTypes(sec)
		case wasm.SectionImport:
			err = m.addImports(sec)
		case wasm.SectionFunction:
			err = m.addFunctions(sec)
		case wasm.SectionExport:
			err = m.addExports(sec)
		}
		if err != nil {
			return nil, err
		}
	}

	log.Debug("module type model",
		zap.Int("types", m.Types.Len()),
		zap.Int("funcs", m.Funcs.Len()),
		zap.Int("imported", m.NumImported()),
		zap.Int("exports", len(m.Exports)))

	return m, nil
}

func (m *Model) addTypes(sec *wasm.Section) error {
	tr, err := sec.Types()
	if err != nil {
		return decodeError(err)
	}
	for tr.Remaining() > 0 {
		entry, err := tr.Read()
		if err != nil {
			return decodeError(err)
		}
		if !entry.IsFunc() {
			return errors.Unsupported(errors.PhaseExtract, "type section entry")
		}
		m.Types.Push(NewSignature(entry.Func.Params, entry.Func.Results))
	}
	return nil
}

func (m *Model) addImports(sec *wasm.Section) error {
	ir, err := sec.Imports()
	if err != nil {
		return decodeError(err)
	}
	for ir.Remaining() > 0 {
		imp, err := ir.Read()
		if err != nil {
			return decodeError(err)
		}
		if imp.Kind != wasm.KindFunc {
			return errors.Unsupported(errors.PhaseExtract,
				fmt.Sprintf("%s import %s:%s", wasm.KindName(imp.Kind), imp.Module, imp.Name))
		}
		m.Funcs.Push(Func{
			Type:   TypeIndex(imp.TypeIdx),
			Origin: &Origin{Module: imp.Module, Name: imp.Name},
		})
	}
	return nil
}

func (m *Model) addFunctions(sec *wasm.Section) error {
	fr, err := sec.Functions()
	if err != nil {
		return decodeError(err)
	}
	for fr.Remaining() > 0 {
		ty, err := fr.Read()
		if err != nil {
			return decodeError(err)
		}
		m.Funcs.Push(Func{Type: TypeIndex(ty)})
	}
	return nil
}

func (m *Model) addExports(sec *wasm.Section) error {
	er, err := sec.Exports()
	if err != nil {
		return decodeError(err)
	}
	for er.Remaining() > 0 {
		exp, err := er.Read()
		if err != nil {
			return decodeError(err)
		}
		if exp.Kind != wasm.KindFunc {
			continue
		}
		m.Exports[exp.Name] = FuncIndex(exp.Index)
	}
	return nil
}

func decodeError(err error) error {
	var pe *wasm.ParseError
	if stderrors.As(err, &pe) {
		return errors.WasmValidation(errors.PhaseExtract, pe.Err.Error(), pe.Position)
	}
	return errors.Wrap(errors.PhaseExtract, errors.KindWasmValidation, err, "decode module")
}
