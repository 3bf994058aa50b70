package wasm

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-validate/wasm/internal/binary"
)

// ParseError is the error returned for any decoding failure. Position is the
// absolute byte offset within the module.
type ParseError = binary.ParseError

// ModuleReader walks the top-level sections of a module in binary order.
type ModuleReader struct {
	r *binary.Reader
}

// NewModuleReader checks the module header and returns a reader positioned at
// the first section.
func NewModuleReader(data []byte) (*ModuleReader, error) {
	r := binary.NewReader(data, 0)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, r.FailAt(0, "magic header not detected")
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, r.FailAt(4, "unknown binary version 0x%x", version)
	}

	return &ModuleReader{r: r}, nil
}

// EOF reports whether every section has been read.
func (m *ModuleReader) EOF() bool {
	return m.r.EOF()
}

// Offset returns the absolute offset of the next section header.
func (m *ModuleReader) Offset() int {
	return m.r.Offset()
}

// Section is one top-level section. Offset is the absolute offset of the
// first payload byte.
type Section struct {
	Data   []byte
	Offset int
	ID     byte
}

// Read reads the next section header and payload.
func (m *ModuleReader) Read() (*Section, error) {
	id, err := m.r.ReadByte()
	if err != nil {
		return nil, err
	}
	size, err := m.r.ReadU32()
	if err != nil {
		return nil, err
	}
	offset := m.r.Offset()
	if int(size) > m.r.Len() {
		return nil, m.r.Fail("section size %d out of bounds", size)
	}
	data, err := m.r.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}
	return &Section{ID: id, Offset: offset, Data: data}, nil
}

func (s *Section) reader() *binary.Reader {
	r := binary.NewReader(s.Data, s.Offset)
	r.SetSection(SectionName(s.ID) + " section")
	return r
}

// EntryReader decodes the entries of a vector-shaped section one at a time.
type EntryReader[T any] struct {
	r      *binary.Reader
	decode func(*binary.Reader) (T, error)
	count  uint32
	read   uint32
	done   bool
}

func newEntryReader[T any](s *Section, decode func(*binary.Reader) (T, error)) (*EntryReader[T], error) {
	r := s.reader()
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	return &EntryReader[T]{r: r, count: count, decode: decode}, nil
}

// Count returns the number of entries the section declares.
func (e *EntryReader[T]) Count() uint32 {
	return e.count
}

// Remaining returns the number of entries not yet read.
func (e *EntryReader[T]) Remaining() uint32 {
	if e.done {
		return 0
	}
	return e.count - e.read
}

// Offset returns the absolute offset of the next entry.
func (e *EntryReader[T]) Offset() int {
	return e.r.Offset()
}

// Read decodes the next entry.
func (e *EntryReader[T]) Read() (T, error) {
	var zero T
	if e.Remaining() == 0 {
		return zero, e.r.Fail("read past the last section entry")
	}
	v, err := e.decode(e.r)
	if err != nil {
		e.done = true
		return zero, err
	}
	e.read++
	return v, nil
}

// Types returns a reader over the type section entries.
// A non-function form ends the reader: its body is not decoded.
func (s *Section) Types() (*EntryReader[TypeEntry], error) {
	var er *EntryReader[TypeEntry]
	er, err := newEntryReader(s, func(r *binary.Reader) (TypeEntry, error) {
		form, err := r.ReadByte()
		if err != nil {
			return TypeEntry{}, err
		}
		if form != FuncTypeByte {
			er.done = true
			return TypeEntry{Form: form}, nil
		}
		ft, err := readFuncType(r)
		if err != nil {
			return TypeEntry{}, err
		}
		return TypeEntry{Form: form, Func: ft}, nil
	})
	return er, err
}

// Imports returns a reader over the import section entries.
func (s *Section) Imports() (*EntryReader[Import], error) {
	return newEntryReader(s, readImport)
}

// Functions returns a reader over the function section's type indices.
func (s *Section) Functions() (*EntryReader[uint32], error) {
	return newEntryReader(s, func(r *binary.Reader) (uint32, error) {
		return r.ReadU32()
	})
}

// Exports returns a reader over the export section entries.
func (s *Section) Exports() (*EntryReader[Export], error) {
	return newEntryReader(s, readExport)
}

// Codes returns a reader over the code section bodies. Only the size prefix is
// decoded; the body is returned raw.
func (s *Section) Codes() (*EntryReader[[]byte], error) {
	return newEntryReader(s, func(r *binary.Reader) ([]byte, error) {
		size, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return r.ReadBytes(int(size))
	})
}

// CustomName returns the name of a custom section.
func (s *Section) CustomName() (string, error) {
	return s.reader().ReadName()
}

func readFuncType(r *binary.Reader) (FuncType, error) {
	params, err := readValTypes(r)
	if err != nil {
		return FuncType{}, err
	}
	results, err := readValTypes(r)
	if err != nil {
		return FuncType{}, err
	}
	return FuncType{Params: params, Results: results}, nil
}

func readValTypes(r *binary.Reader) ([]api.ValueType, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if int(count) > r.Len() {
		return nil, r.Fail("value type count %d out of bounds", count)
	}
	types := make([]api.ValueType, 0, count)
	for i := uint32(0); i < count; i++ {
		vt, err := readValType(r)
		if err != nil {
			return nil, err
		}
		types = append(types, vt)
	}
	return types, nil
}

func readValType(r *binary.Reader) (api.ValueType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if !isValueType(b) {
		return 0, r.FailAt(r.Offset()-1, "invalid value type 0x%02x", b)
	}
	return api.ValueType(b), nil
}

func readImport(r *binary.Reader) (Import, error) {
	module, err := r.ReadName()
	if err != nil {
		return Import{}, err
	}
	name, err := r.ReadName()
	if err != nil {
		return Import{}, err
	}
	kind, err := r.ReadByte()
	if err != nil {
		return Import{}, err
	}

	imp := Import{Module: module, Name: name, Kind: kind}

	switch kind {
	case KindFunc:
		imp.TypeIdx, err = r.ReadU32()
		if err != nil {
			return Import{}, err
		}
	case KindTable:
		table, err := readTableType(r)
		if err != nil {
			return Import{}, err
		}
		imp.Table = &table
	case KindMemory:
		limits, err := readLimits(r)
		if err != nil {
			return Import{}, err
		}
		imp.Memory = &MemoryType{Limits: limits}
	case KindGlobal:
		global, err := readGlobalType(r)
		if err != nil {
			return Import{}, err
		}
		imp.Global = &global
	case KindTag:
		tag, err := readTagType(r)
		if err != nil {
			return Import{}, err
		}
		imp.Tag = &tag
	default:
		return Import{}, r.FailAt(r.Offset()-1, "invalid import kind 0x%02x", kind)
	}
	return imp, nil
}

func readExport(r *binary.Reader) (Export, error) {
	name, err := r.ReadName()
	if err != nil {
		return Export{}, err
	}
	kind, err := r.ReadByte()
	if err != nil {
		return Export{}, err
	}
	if kind > KindTag {
		return Export{}, r.FailAt(r.Offset()-1, "invalid export kind 0x%02x", kind)
	}
	idx, err := r.ReadU32()
	if err != nil {
		return Export{}, err
	}
	return Export{Name: name, Kind: kind, Index: idx}, nil
}

func readLimits(r *binary.Reader) (Limits, error) {
	flags, err := r.ReadByte()
	if err != nil {
		return Limits{}, err
	}
	if flags > 0x03 {
		return Limits{}, r.FailAt(r.Offset()-1, "invalid limits flags 0x%02x", flags)
	}
	var l Limits
	l.Shared = flags&0x02 != 0
	l.Min, err = r.ReadU32()
	if err != nil {
		return Limits{}, err
	}
	if flags&0x01 != 0 {
		max, err := r.ReadU32()
		if err != nil {
			return Limits{}, err
		}
		l.Max = &max
	}
	return l, nil
}

func readTableType(r *binary.Reader) (TableType, error) {
	elem, err := r.ReadByte()
	if err != nil {
		return TableType{}, err
	}
	et := api.ValueType(elem)
	if et != ValueTypeFuncref && et != api.ValueTypeExternref {
		return TableType{}, r.FailAt(r.Offset()-1, "invalid table element type 0x%02x", elem)
	}
	limits, err := readLimits(r)
	if err != nil {
		return TableType{}, err
	}
	return TableType{ElemType: et, Limits: limits}, nil
}

func readGlobalType(r *binary.Reader) (GlobalType, error) {
	vt, err := readValType(r)
	if err != nil {
		return GlobalType{}, err
	}
	mut, err := r.ReadByte()
	if err != nil {
		return GlobalType{}, err
	}
	if mut > 1 {
		return GlobalType{}, r.FailAt(r.Offset()-1, "invalid global mutability 0x%02x", mut)
	}
	return GlobalType{ValType: vt, Mutable: mut == 1}, nil
}

func readTagType(r *binary.Reader) (TagType, error) {
	attr, err := r.ReadByte()
	if err != nil {
		return TagType{}, err
	}
	idx, err := r.ReadU32()
	if err != nil {
		return TagType{}, err
	}
	return TagType{Attribute: attr, TypeIdx: idx}, nil
}
