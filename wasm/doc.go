// Package wasm reads the structural sections of a core WebAssembly binary module.
//
// The package does not build a complete module representation. It exposes a
// forward-only section reader and per-section entry readers so callers can walk
// a module once, in binary order, and keep only what they need.
//
// # Reading Sections
//
//	mr, err := wasm.NewModuleReader(data)
//	if err != nil {
//	    return err
//	}
//	for !mr.EOF() {
//	    sec, err := mr.Read()
//	    if err != nil {
//	        return err
//	    }
//	    switch sec.ID {
//	    case wasm.SectionType:
//	        types, err := sec.Types()
//	        ...
//	    }
//	}
//
// Every entry reader has the same shape: Count reports the declared number of
// entries and Read decodes the next one.
//
// # Errors
//
// Decoding failures are returned as *ParseError values carrying the absolute
// byte offset within the module where decoding failed.
//
// # Layout Checks
//
// CheckLayout verifies the module header and the section framing (ordering,
// declared sizes, function/code count agreement) without decoding entries.
//
// # Encoding
//
// Module.Encode builds a binary from a small declarative description. It is
// meant for constructing modules in tests and tools, not for round-tripping.
package wasm
