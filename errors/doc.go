// Package errors provides structured error types for the wasm-validate library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the structured fields a caller needs to branch on a failure:
// the byte offset of a binary defect, the offending function name, and the expected
// and actual signatures of a mismatch.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConform, errors.KindSignatureMismatch).
//		Function("double").
//		Expected("(i32) -> (i32)").
//		Actual("(i64) -> (i32)").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.WasmValidation(errors.PhaseStructure, "unexpected end", 17)
//	err := errors.Unsupported(errors.PhaseExtract, "memory import env:mem")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
