package iface

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-validate/errors"
	"github.com/wippyai/wasm-validate/model"
)

// name: (params) -> (results)
var corePattern = regexp.MustCompile(`^([^\s:]+)\s*:\s*\(([^)]*)\)\s*(?:->\s*\(([^)]*)\))?$`)

// ParseCore parses core signature declarations, one per line:
//
//	add: (i32, i32) -> (i32)
//	reset: ()
//
// Blank lines and lines starting with # or // are ignored.
func ParseCore(text string) (*Interface, error) {
	in := New()
	sc := bufio.NewScanner(strings.NewReader(text))
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		m := corePattern.FindStringSubmatch(line)
		if m == nil {
			return nil, errors.InvalidData(errors.PhaseParse, fmt.Sprintf("line %d: expected \"name: (params) -> (results)\", got %q", lineNo, line))
		}

		params, err := parseCoreTypes(m[2])
		if err != nil {
			return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, fmt.Sprintf("line %d: params", lineNo))
		}
		results, err := parseCoreTypes(m[3])
		if err != nil {
			return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, fmt.Sprintf("line %d: results", lineNo))
		}

		d := Decl{Name: m[1], Source: line, Signature: model.Signature{Params: params, Results: results}}
		if err := in.add(d); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.ParseFailed("core interface", err)
	}

	if in.Len() == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no functions found in core interface text")
	}
	return in, nil
}

func parseCoreTypes(s string) ([]api.ValueType, error) {
	var types []api.ValueType
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, ok := coreTypes[part]
		if !ok {
			return nil, fmt.Errorf("unknown value type %q", part)
		}
		types = append(types, t)
	}
	return types, nil
}

var coreTypes = map[string]api.ValueType{
	"i32": api.ValueTypeI32,
	"i64": api.ValueTypeI64,
	"f32": api.ValueTypeF32,
	"f64": api.ValueTypeF64,
}
