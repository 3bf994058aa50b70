// Package wasmvalidate checks that a compiled core WebAssembly module exposes
// the functions an interface expects, with exactly the declared parameter and
// result types.
//
// # Architecture Overview
//
//	wasmvalidate/        Root package with Validator, Config and Validate
//	├── structure/       Structural gate (layout check + wazero compilation)
//	├── model/           Module type model and single-pass extraction
//	├── iface/           Interface grammar, WIT and core text parsers
//	├── conform/         Export reconciliation against an interface
//	├── wasm/            Core WASM binary reading and encoding
//	├── errors/          Structured error types
//	└── cmd/             wasm-validate command line tool
//
// # Quick Start
//
//	in, err := iface.ParseWIT(`export double: func(x: s32) -> s32;`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := wasmvalidate.Validate(in, wasmBytes); err != nil {
//	    log.Fatal(err)
//	}
//
// # Validation Stages
//
// Validate runs three stages and stops at the first failure:
//
//  1. The structural gate validates the raw bytes with the configured core
//     features (WebAssembly 1.0 by default).
//  2. The extractor builds the module type model from the type, import,
//     function and export sections. Memory, table and global imports are
//     rejected as unsupported.
//  3. The conformance check looks up each declared function among the
//     module's exports and compares signatures element by element.
//
// # Errors
//
// Every failure is an *errors.Error. Branch on its Kind:
//
//	var e *errors.Error
//	if stderrors.As(err, &e) && e.Kind == errors.KindSignatureMismatch {
//	    fmt.Println(e.Function, e.Expected, e.Actual)
//	}
//
// Binary defects carry the byte offset of the failure, or errors.NoOffset
// when the structural validator cannot tell where it failed.
package wasmvalidate
