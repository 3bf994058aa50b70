package iface

import (
	"fmt"
	"regexp"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-validate/errors"
)

var (
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// [export|import] name: func(
	funcPattern = regexp.MustCompile(`(?:\b(export|import)\s+)?(%?[a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(`)

	// record|variant|enum|flags|resource name {
	bodyPattern = regexp.MustCompile(`\b(record|variant|enum|flags|resource)\s+(%?[a-zA-Z_][a-zA-Z0-9_-]*)\s*\{`)

	// resource name;
	resourcePattern = regexp.MustCompile(`\bresource\s+(%?[a-zA-Z_][a-zA-Z0-9_-]*)\s*;`)

	// type name = T;
	aliasPattern = regexp.MustCompile(`\btype\s+(%?[a-zA-Z_][a-zA-Z0-9_-]*)\s*=\s*([^;]+);`)
)

// namedDef is a named type declaration awaiting resolution.
type namedDef struct {
	kind string // record, variant, enum, flags, resource, type
	body string
}

// ParseWIT parses WIT function declarations and lowers each to the core
// signature an exported function must have. Functions declared with the
// import keyword and methods inside resource bodies are skipped. Named
// record, variant, enum, flags, resource and type alias declarations can
// be referenced from function types.
func ParseWIT(text string) (*Interface, error) {
	text = blockComment.ReplaceAllString(text, "")
	text = lineComment.ReplaceAllString(text, "")

	p := &witParser{
		defs:     make(map[string]namedDef),
		resolved: make(map[string]wit.Type),
		visiting: make(map[string]bool),
	}

	text, err := p.collectDefs(text)
	if err != nil {
		return nil, err
	}

	in := New()
	for _, loc := range funcPattern.FindAllStringSubmatchIndex(text, -1) {
		keyword := groupText(text, loc, 1)
		name := strings.TrimPrefix(groupText(text, loc, 2), "%")

		open := loc[1] - 1
		closeIdx, err := matchClose(text, open, '(', ')')
		if err != nil {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
				Function(name).
				Cause(err).
				Detail("function parameters").
				Build()
		}

		paramsStr := text[open+1 : closeIdx]
		rest := text[closeIdx+1:]
		end := strings.IndexByte(rest, ';')
		if end < 0 {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
				Function(name).
				Detail("missing ';' after function declaration").
				Build()
		}
		resultStr := strings.TrimSpace(rest[:end])
		source := strings.TrimSpace(text[loc[0] : closeIdx+1+end])

		if keyword == "import" {
			continue
		}

		params, err := p.parseParams(paramsStr)
		if err != nil {
			return nil, declError(name, "param", err)
		}

		var results []wit.Type
		if resultStr != "" {
			if !strings.HasPrefix(resultStr, "->") {
				return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
					Function(name).
					Detail("unexpected %q after parameters", resultStr).
					Build()
			}
			results, err = p.parseResults(strings.TrimSpace(resultStr[2:]))
			if err != nil {
				return nil, declError(name, "result", err)
			}
		}

		if err := in.add(Decl{Name: name, Source: source, Signature: Lower(params, results)}); err != nil {
			return nil, err
		}
	}

	if in.Len() == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no functions found in WIT text")
	}
	return in, nil
}

func declError(name, what string, cause error) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Function(name).
		Cause(cause).
		Detail("parse %s type", what).
		Build()
}

func groupText(s string, loc []int, group int) string {
	if loc[2*group] < 0 {
		return ""
	}
	return s[loc[2*group]:loc[2*group+1]]
}

type witParser struct {
	defs     map[string]namedDef
	resolved map[string]wit.Type
	visiting map[string]bool
}

// collectDefs records named type declarations and returns the text with
// their bodies removed, so fields and resource methods are not mistaken for
// function declarations.
func (p *witParser) collectDefs(text string) (string, error) {
	var out strings.Builder
	for {
		loc := bodyPattern.FindStringSubmatchIndex(text)
		if loc == nil {
			out.WriteString(text)
			break
		}
		open := loc[1] - 1
		closeIdx, err := matchClose(text, open, '{', '}')
		if err != nil {
			return "", errors.ParseFailed(groupText(text, loc, 1)+" "+groupText(text, loc, 2), err)
		}
		name := strings.TrimPrefix(groupText(text, loc, 2), "%")
		if err := p.define(name, namedDef{kind: groupText(text, loc, 1), body: text[open+1 : closeIdx]}); err != nil {
			return "", err
		}
		out.WriteString(text[:loc[0]])
		text = text[closeIdx+1:]
	}
	text = out.String()

	for _, m := range resourcePattern.FindAllStringSubmatch(text, -1) {
		if err := p.define(strings.TrimPrefix(m[1], "%"), namedDef{kind: "resource"}); err != nil {
			return "", err
		}
	}
	for _, m := range aliasPattern.FindAllStringSubmatch(text, -1) {
		if err := p.define(strings.TrimPrefix(m[1], "%"), namedDef{kind: "type", body: m[2]}); err != nil {
			return "", err
		}
	}
	return text, nil
}

func (p *witParser) define(name string, def namedDef) error {
	if _, dup := p.defs[name]; dup {
		return errors.InvalidData(errors.PhaseParse, fmt.Sprintf("type %q declared more than once", name))
	}
	p.defs[name] = def
	return nil
}

func (p *witParser) parseParams(s string) ([]wit.Type, error) {
	var types []wit.Type
	for _, part := range splitTopLevel(s) {
		idx := strings.Index(part, ":")
		if idx < 0 {
			return nil, fmt.Errorf("parameter %q has no type", part)
		}
		t, err := p.parseType(part[idx+1:])
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// parseResults accepts a single type, "()" or a parenthesized list of
// optionally named results.
func (p *witParser) parseResults(s string) ([]wit.Type, error) {
	if !strings.HasPrefix(s, "(") {
		t, err := p.parseType(s)
		if err != nil {
			return nil, err
		}
		return []wit.Type{t}, nil
	}
	if !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("unbalanced result list %q", s)
	}
	var types []wit.Type
	for _, part := range splitTopLevel(s[1 : len(s)-1]) {
		if idx := strings.Index(part, ":"); idx >= 0 {
			part = part[idx+1:]
		}
		t, err := p.parseType(part)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func (p *witParser) parseType(s string) (wit.Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty type")
	}

	lt := strings.IndexByte(s, '<')
	if lt < 0 {
		return p.parseNamed(s)
	}
	if !strings.HasSuffix(s, ">") {
		return nil, fmt.Errorf("unbalanced type %q", s)
	}
	head := strings.TrimSpace(s[:lt])
	args := splitTopLevel(s[lt+1 : len(s)-1])

	switch head {
	case "list":
		if len(args) != 1 {
			return nil, fmt.Errorf("list takes one type argument, got %d", len(args))
		}
		elem, err := p.parseType(args[0])
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.List{Type: elem}}, nil

	case "option":
		if len(args) != 1 {
			return nil, fmt.Errorf("option takes one type argument, got %d", len(args))
		}
		elem, err := p.parseType(args[0])
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Option{Type: elem}}, nil

	case "tuple":
		var types []wit.Type
		for _, a := range args {
			t, err := p.parseType(a)
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
		return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}, nil

	case "result":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("result takes one or two type arguments, got %d", len(args))
		}
		r := &wit.Result{}
		if args[0] != "_" {
			ok, err := p.parseType(args[0])
			if err != nil {
				return nil, err
			}
			r.OK = ok
		}
		if len(args) == 2 {
			e, err := p.parseType(args[1])
			if err != nil {
				return nil, err
			}
			r.Err = e
		}
		return &wit.TypeDef{Kind: r}, nil

	case "own", "borrow":
		if len(args) != 1 {
			return nil, fmt.Errorf("%s takes one resource argument, got %d", head, len(args))
		}
		name := strings.TrimPrefix(args[0], "%")
		if def, ok := p.defs[name]; !ok || def.kind != "resource" {
			return nil, fmt.Errorf("%s of unknown resource %q", head, name)
		}
		if head == "own" {
			return &wit.TypeDef{Kind: &wit.Own{}}, nil
		}
		return &wit.TypeDef{Kind: &wit.Borrow{}}, nil

	default:
		return nil, fmt.Errorf("unknown generic type %q", head)
	}
}

// parseNamed resolves a primitive or a declared type name.
func (p *witParser) parseNamed(s string) (wit.Type, error) {
	if s == "result" {
		return &wit.TypeDef{Kind: &wit.Result{}}, nil
	}
	if t, err := wit.ParseType(s); err == nil {
		return t, nil
	}

	name := strings.TrimPrefix(s, "%")
	if t, ok := p.resolved[name]; ok {
		return t, nil
	}
	def, ok := p.defs[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", s)
	}
	if p.visiting[name] {
		return nil, fmt.Errorf("type %q refers to itself", name)
	}
	p.visiting[name] = true
	defer delete(p.visiting, name)

	t, err := p.resolveDef(name, def)
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", name, err)
	}
	p.resolved[name] = t
	return t, nil
}

func (p *witParser) resolveDef(name string, def namedDef) (wit.Type, error) {
	typeName := name
	td := &wit.TypeDef{Name: &typeName}

	switch def.kind {
	case "type":
		return p.parseType(def.body)

	case "resource":
		// a bare resource is only usable through a handle
		td.Kind = &wit.Own{}

	case "record":
		r := &wit.Record{}
		for _, part := range splitTopLevel(def.body) {
			idx := strings.Index(part, ":")
			if idx < 0 {
				return nil, fmt.Errorf("record field %q has no type", part)
			}
			ft, err := p.parseType(part[idx+1:])
			if err != nil {
				return nil, err
			}
			r.Fields = append(r.Fields, wit.Field{Name: strings.TrimSpace(part[:idx]), Type: ft})
		}
		td.Kind = r

	case "variant":
		v := &wit.Variant{}
		for _, part := range splitTopLevel(def.body) {
			c := wit.Case{Name: part}
			if lp := strings.IndexByte(part, '('); lp >= 0 {
				if !strings.HasSuffix(part, ")") {
					return nil, fmt.Errorf("unbalanced variant case %q", part)
				}
				ct, err := p.parseType(part[lp+1 : len(part)-1])
				if err != nil {
					return nil, err
				}
				c.Name = strings.TrimSpace(part[:lp])
				c.Type = ct
			}
			v.Cases = append(v.Cases, c)
		}
		td.Kind = v

	case "enum":
		e := &wit.Enum{}
		for _, part := range splitTopLevel(def.body) {
			e.Cases = append(e.Cases, wit.EnumCase{Name: part})
		}
		td.Kind = e

	case "flags":
		f := &wit.Flags{}
		for _, part := range splitTopLevel(def.body) {
			f.Flags = append(f.Flags, wit.Flag{Name: part})
		}
		td.Kind = f

	default:
		return nil, fmt.Errorf("unsupported declaration %q", def.kind)
	}
	return td, nil
}

// splitTopLevel splits s on commas outside of <>, () and {} nesting,
// trimming whitespace and dropping empty parts.
func splitTopLevel(s string) []string {
	var result []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '{':
			depth++
		case '>', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					result = append(result, part)
				}
				start = i + 1
			}
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		result = append(result, part)
	}
	return result
}

// matchClose returns the index of the delimiter closing the one at open.
func matchClose(s string, open int, o, c byte) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case o:
			depth++
		case c:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("unbalanced %q at %d", o, open)
}
