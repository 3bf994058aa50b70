package wasm

import "github.com/tetratelabs/wazero/api"

// FuncType represents a WebAssembly function signature with parameter and result types.
type FuncType struct {
	Params  []api.ValueType
	Results []api.ValueType
}

// TypeEntry is one entry of the type section.
// Form is FuncTypeByte for function types. Entries of any other form are not
// decoded: Func is empty and Raw holds nothing on read. Raw is only used when
// encoding a non-function form.
type TypeEntry struct {
	Raw  []byte
	Func FuncType
	Form byte
}

// Func returns a function-form type entry.
func Func(params, results []api.ValueType) TypeEntry {
	return TypeEntry{Form: FuncTypeByte, Func: FuncType{Params: params, Results: results}}
}

// IsFunc reports whether the entry is a function-form type.
func (e TypeEntry) IsFunc() bool {
	return e.Form == FuncTypeByte
}

// Import represents an imported function, table, memory, global, or tag.
// Kind uses KindFunc, KindTable, KindMemory, KindGlobal, or KindTag constants.
type Import struct {
	Table   *TableType
	Memory  *MemoryType
	Global  *GlobalType
	Tag     *TagType
	Module  string
	Name    string
	TypeIdx uint32
	Kind    byte
}

// Export describes an exported item.
// Kind uses KindFunc, KindTable, KindMemory, KindGlobal, or KindTag constants.
type Export struct {
	Name  string
	Index uint32
	Kind  byte
}

// Limits describes size constraints for tables and memories.
type Limits struct {
	Max    *uint32
	Min    uint32
	Shared bool
}

// TableType describes a table with element type and size limits.
type TableType struct {
	Limits   Limits
	ElemType api.ValueType
}

// MemoryType describes a linear memory with size limits.
type MemoryType struct {
	Limits Limits
}

// GlobalType describes a global variable's type and mutability.
type GlobalType struct {
	ValType api.ValueType
	Mutable bool
}

// Global is a module-defined global with its raw init expression (including end).
type Global struct {
	Init []byte
	Type GlobalType
}

// TagType describes an exception handling tag type.
type TagType struct {
	TypeIdx   uint32
	Attribute byte
}

// LocalEntry represents a group of local variables with the same type.
type LocalEntry struct {
	Count uint32
	Type  api.ValueType
}

// FuncBody represents a function's local declarations and bytecode.
type FuncBody struct {
	Locals []LocalEntry
	Code   []byte // Raw code bytes including end opcode
}

// CustomSection holds a named custom section's data.
type CustomSection struct {
	Name string
	Data []byte
}
