// Package iface holds the interface grammar a module is checked against: a set
// of declared function names, each with the core signature the module must
// export under that name.
//
// An Interface can be built directly with Declare, or parsed from text:
//
//	// WIT function declarations, lowered through the canonical ABI
//	in, err := iface.ParseWIT(`
//	    record point { x: f64, y: f64 }
//	    export distance: func(a: point, b: point) -> f64;
//	`)
//
//	// Core signatures, already lowered
//	in, err := iface.ParseCore(`
//	    double: (i32) -> (i32)
//	`)
//
// WIT lowering follows the canonical ABI rules for exported (lifted)
// functions: parameters that flatten to more than MaxFlatParams values are
// passed as a single i32 pointer, and results that flatten to more than
// MaxFlatResults values are returned through a single i32 pointer.
package iface
