package artifact

import (
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Dump is the debug-output bundle the compile subcommand's
// --format=yaml/--format=json flags serialize: tokens, diagnostics
// from every stage, the AST text dump, the symbol table rows, and the
// quadruple program, all as plain strings/slices so either codec can
// render them without a bespoke schema.
type Dump struct {
	Tokens      []string `json:"tokens" yaml:"tokens"`
	Diagnostics []string `json:"diagnostics" yaml:"diagnostics"`
	AST         string   `json:"ast" yaml:"ast"`
	Symbols     []Symbol `json:"symbols" yaml:"symbols"`
	Quadruples  []string `json:"quadruples" yaml:"quadruples"`
}

// YAML renders d with goccy/go-yaml.
func YAML(d Dump) (string, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// JSON renders d by building the document field-by-field with sjson
// rather than a single struct marshal, so each section can be added,
// skipped, or re-ordered independently (the IDE's "save as JSON" menu
// item only ever wants a subset of the bundle).
func JSON(d Dump) (string, error) {
	doc := "{}"
	var err error
	if doc, err = sjson.Set(doc, "tokens", d.Tokens); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "diagnostics", d.Diagnostics); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "ast", d.AST); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "quadruples", d.Quadruples); err != nil {
		return "", err
	}
	for i, s := range d.Symbols {
		path := "symbols." + strconv.Itoa(i)
		if doc, err = sjson.Set(doc, path+".scope", s.Scope); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, path+".name", s.Name); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, path+".type", s.Type); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, path+".lvl", s.LVL); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, path+".offset", s.Offset); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, path+".lines", s.Lines); err != nil {
			return "", err
		}
	}
	return doc, nil
}

// JSONGet reads a single field back out of a JSON document produced
// by JSON, for tooling that wants one value without unmarshaling the
// whole bundle.
func JSONGet(doc, path string) string {
	return gjson.Get(doc, path).String()
}
