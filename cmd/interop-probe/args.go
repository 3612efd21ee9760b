package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/coerce"
)

// parseArg reads one command-line argument as a YAML scalar or flow value:
// 42, 1.5, true, null, "text", [1, 2], {a: 1}. Anything that does not parse
// is taken as a plain string.
func parseArg(s string) any {
	var x any
	if err := yaml.Unmarshal([]byte(s), &x); err != nil {
		return s
	}
	return normalize(x)
}

// parseArgList reads a comma-separated argument line as a YAML flow sequence.
func parseArgList(s string) ([]any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var xs []any
	if err := yaml.Unmarshal([]byte("["+s+"]"), &xs); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	for i := range xs {
		xs[i] = normalize(xs[i])
	}
	return xs, nil
}

// normalize rewrites maps with non-string keys, which yaml.v3 produces for
// keys like 1 or true, into string-keyed maps.
func normalize(x any) any {
	switch v := x.(type) {
	case []any:
		for i := range v {
			v[i] = normalize(v[i])
		}
	case map[string]any:
		for k, e := range v {
			v[k] = normalize(e)
		}
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	}
	return x
}

// render prints a projection result; foreign values and views are formatted
// structurally.
func render(e *coerce.Engine, x any) string {
	if x == nil {
		return "null"
	}
	if v, ok := interop.Unwrap(x); ok {
		return e.Format(v)
	}
	return fmt.Sprint(x)
}
