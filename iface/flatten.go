package iface

import (
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-validate/model"
)

// Canonical ABI flattening limits
const (
	MaxFlatParams  = 16
	MaxFlatResults = 1
)

// FlattenTypes flattens WIT types to core wasm types
func FlattenTypes(types []wit.Type) []api.ValueType {
	var result []api.ValueType
	for _, t := range types {
		result = append(result, FlattenType(t)...)
	}
	return result
}

// Lower flattens a function's WIT parameter and result types into the core
// signature an exported (lifted) function must have.
func Lower(params, results []wit.Type) model.Signature {
	flatParams := FlattenTypes(params)
	flatResults := FlattenTypes(results)

	if len(flatParams) > MaxFlatParams {
		flatParams = []api.ValueType{api.ValueTypeI32}
	}
	// lifted functions return a pointer to the spilled results
	if len(flatResults) > MaxFlatResults {
		flatResults = []api.ValueType{api.ValueTypeI32}
	}

	return model.Signature{Params: flatParams, Results: flatResults}
}

// FlattenType flattens a WIT type to core wasm types
func FlattenType(t wit.Type) []api.ValueType {
	switch v := t.(type) {
	case nil:
		return nil
	case wit.Bool, wit.U8, wit.U16, wit.U32, wit.S8, wit.S16, wit.S32, wit.Char:
		return []api.ValueType{api.ValueTypeI32}
	case wit.U64, wit.S64:
		return []api.ValueType{api.ValueTypeI64}
	case wit.F32:
		return []api.ValueType{api.ValueTypeF32}
	case wit.F64:
		return []api.ValueType{api.ValueTypeF64}
	case wit.String:
		return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32} // ptr, len
	case *wit.TypeDef:
		return flattenTypeDef(v)
	default:
		return []api.ValueType{api.ValueTypeI32}
	}
}

func flattenTypeDef(td *wit.TypeDef) []api.ValueType {
	if td == nil || td.Kind == nil {
		return []api.ValueType{api.ValueTypeI32}
	}

	switch kind := td.Kind.(type) {
	case *wit.Record:
		var flat []api.ValueType
		for _, field := range kind.Fields {
			flat = append(flat, FlattenType(field.Type)...)
		}
		return flat
	case *wit.List:
		return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
	case *wit.Tuple:
		return FlattenTypes(kind.Types)
	case *wit.Variant:
		var payload []api.ValueType
		for _, c := range kind.Cases {
			payload = joinFlat(payload, FlattenType(c.Type))
		}
		return append([]api.ValueType{api.ValueTypeI32}, payload...)
	case *wit.Enum:
		return []api.ValueType{api.ValueTypeI32}
	case *wit.Option:
		return append([]api.ValueType{api.ValueTypeI32}, FlattenType(kind.Type)...)
	case *wit.Result:
		payload := FlattenType(kind.OK)
		payload = joinFlat(payload, FlattenType(kind.Err))
		return append([]api.ValueType{api.ValueTypeI32}, payload...)
	case *wit.Flags:
		return flattenFlags(len(kind.Flags))
	case *wit.Own, *wit.Borrow:
		return []api.ValueType{api.ValueTypeI32} // resource handle
	default:
		return []api.ValueType{api.ValueTypeI32}
	}
}

// flattenFlags packs flags into one i32 per 32 flags.
func flattenFlags(n int) []api.ValueType {
	if n == 0 {
		return nil
	}
	flat := make([]api.ValueType, (n+31)/32)
	for i := range flat {
		flat[i] = api.ValueTypeI32
	}
	return flat
}

// joinFlat merges a case payload into the shared variant payload.
func joinFlat(payload, caseFlat []api.ValueType) []api.ValueType {
	for i, ft := range caseFlat {
		if i < len(payload) {
			payload[i] = joinTypes(payload[i], ft)
		} else {
			payload = append(payload, ft)
		}
	}
	return payload
}

// joinTypes unions two core types for variant payloads
func joinTypes(a, b api.ValueType) api.ValueType {
	if a == b {
		return a
	}
	// 32-bit types can share storage
	if (a == api.ValueTypeI32 && b == api.ValueTypeF32) ||
		(a == api.ValueTypeF32 && b == api.ValueTypeI32) {
		return api.ValueTypeI32
	}
	return api.ValueTypeI64
}
