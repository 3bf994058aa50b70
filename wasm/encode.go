package wasm

import (
	"encoding/binary"

	"github.com/tetratelabs/wazero/api"
)

// Module is a declarative description of a module for Encode. Sections are
// emitted in canonical order and only when non-empty.
type Module struct {
	Types          []TypeEntry
	Imports        []Import
	Funcs          []uint32 // Type indices for declared functions
	Tables         []TableType
	Memories       []MemoryType
	Globals        []Global
	Exports        []Export
	Code           []FuncBody
	CustomSections []CustomSection
}

// Encode encodes the module to WebAssembly binary format
func (m *Module) Encode() []byte {
	var w writer

	// Magic number and version
	w.u32le(Magic)
	w.u32le(Version)

	for _, cs := range m.CustomSections {
		var sec writer
		sec.name(cs.Name)
		sec.raw(cs.Data)
		w.section(SectionCustom, sec)
	}

	if len(m.Types) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Types)))
		for _, te := range m.Types {
			if te.Form == 0 || te.Form == FuncTypeByte {
				sec.byte(FuncTypeByte)
				sec.valTypes(te.Func.Params)
				sec.valTypes(te.Func.Results)
				continue
			}
			sec.byte(te.Form)
			sec.raw(te.Raw)
		}
		w.section(SectionType, sec)
	}

	if len(m.Imports) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			sec.name(imp.Module)
			sec.name(imp.Name)
			sec.byte(imp.Kind)
			switch imp.Kind {
			case KindFunc:
				sec.u32(imp.TypeIdx)
			case KindTable:
				sec.tableType(deref(imp.Table))
			case KindMemory:
				sec.limits(deref(imp.Memory).Limits)
			case KindGlobal:
				sec.globalType(deref(imp.Global))
			case KindTag:
				tag := deref(imp.Tag)
				sec.byte(tag.Attribute)
				sec.u32(tag.TypeIdx)
			}
		}
		w.section(SectionImport, sec)
	}

	if len(m.Funcs) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Funcs)))
		for _, typeIdx := range m.Funcs {
			sec.u32(typeIdx)
		}
		w.section(SectionFunction, sec)
	}

	if len(m.Tables) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Tables)))
		for _, t := range m.Tables {
			sec.tableType(t)
		}
		w.section(SectionTable, sec)
	}

	if len(m.Memories) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Memories)))
		for _, mem := range m.Memories {
			sec.limits(mem.Limits)
		}
		w.section(SectionMemory, sec)
	}

	if len(m.Globals) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Globals)))
		for _, g := range m.Globals {
			sec.globalType(g.Type)
			sec.raw(g.Init)
		}
		w.section(SectionGlobal, sec)
	}

	if len(m.Exports) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec.name(exp.Name)
			sec.byte(exp.Kind)
			sec.u32(exp.Index)
		}
		w.section(SectionExport, sec)
	}

	if len(m.Code) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Code)))
		for _, body := range m.Code {
			var b writer
			b.u32(uint32(len(body.Locals)))
			for _, l := range body.Locals {
				b.u32(l.Count)
				b.byte(byte(l.Type))
			}
			b.raw(body.Code)
			sec.u32(uint32(len(b.buf)))
			sec.raw(b.buf)
		}
		w.section(SectionCode, sec)
	}

	return w.buf
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// writer accumulates the binary encoding of a module or section.
type writer struct {
	buf []byte
}

func (w *writer) byte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *writer) raw(data []byte) {
	w.buf = append(w.buf, data...)
}

func (w *writer) u32(v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf = append(w.buf, b)
		if v == 0 {
			return
		}
	}
}

func (w *writer) u32le(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) name(s string) {
	w.u32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) valTypes(types []api.ValueType) {
	w.u32(uint32(len(types)))
	for _, t := range types {
		w.byte(byte(t))
	}
}

func (w *writer) limits(l Limits) {
	var flags byte
	if l.Max != nil {
		flags |= 0x01
	}
	if l.Shared {
		flags |= 0x02
	}
	w.byte(flags)
	w.u32(l.Min)
	if l.Max != nil {
		w.u32(*l.Max)
	}
}

func (w *writer) tableType(t TableType) {
	elem := t.ElemType
	if elem == 0 {
		elem = ValueTypeFuncref
	}
	w.byte(byte(elem))
	w.limits(t.Limits)
}

func (w *writer) globalType(g GlobalType) {
	w.byte(byte(g.ValType))
	if g.Mutable {
		w.byte(1)
	} else {
		w.byte(0)
	}
}

func (w *writer) section(id byte, sec writer) {
	w.byte(id)
	w.u32(uint32(len(sec.buf)))
	w.raw(sec.buf)
}
