// Package model builds the type model of a core WebAssembly module.
//
// A Model holds three tables populated by a single forward pass over the
// module's sections:
//
//	Types    TypeIndex -> Signature   (type section order)
//	Funcs    FuncIndex -> Func        (imported functions first, then local ones)
//	Exports  name      -> FuncIndex   (function exports only, last writer wins)
//
// TypeIndex and FuncIndex are distinct types so the two index spaces cannot be
// mixed by accident.
//
// Extract only understands function-shaped ABIs: memory, table, global and tag
// imports and non-function type entries are rejected as unsupported.
package model
