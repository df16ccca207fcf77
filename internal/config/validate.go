package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

type fieldKind string

const (
	kindString  fieldKind = "string"
	kindNumber  fieldKind = "number"
	kindBoolean fieldKind = "boolean"
)

// schema declares the exact shape of the configuration document. Values
// are either a fieldKind for leaves or a nested schema for objects.
type schema map[string]any

var configSchema = schema{
	"service": schema{
		"name":        kindString,
		"httpPort":    kindNumber,
		"swaggerPort": kindNumber,
	},
	"paths": schema{
		"openapiYaml":     kindString,
		"definitionsYaml": kindString,
	},
	"db": schema{
		"host":     kindString,
		"port":     kindNumber,
		"database": kindString,
		"user":     kindString,
		"password": kindString,
		"schema":   kindString,
		"ssl":      kindBoolean,
	},
	"debug": kindBoolean,
}

// MustValidate checks the loaded configuration against the declared
// schema. On any violation it prints one diagnostic line per offending
// field and terminates the process. This is a startup gate only.
func MustValidate(cfg *Config) {
	problems := SchemaErrors(cfg.Raw())
	if len(problems) == 0 {
		return
	}

	fmt.Fprintln(os.Stderr, "Config validation failed:")
	for _, p := range problems {
		fmt.Fprintln(os.Stderr, "  - "+p)
	}
	os.Exit(1)
}

// SchemaErrors validates the raw document against the config schema and
// returns one line per violation, in the form
// `Field "<dotted.path>": expected <type>, got <value>`.
func SchemaErrors(raw map[string]any) []string {
	return checkObject("", configSchema, raw)
}

func checkObject(prefix string, decl schema, value map[string]any) []string {
	var problems []string

	keys := make([]string, 0, len(decl))
	for k := range decl {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := joinPath(prefix, key)
		got, present := value[key]

		switch want := decl[key].(type) {
		case schema:
			if !present {
				problems = append(problems, fieldError(path, "object", got, present))
				continue
			}
			obj, ok := got.(map[string]any)
			if !ok {
				problems = append(problems, fieldError(path, "object", got, present))
				continue
			}
			problems = append(problems, checkObject(path, want, obj)...)
		case fieldKind:
			if !present || !matchesKind(want, got) {
				problems = append(problems, fieldError(path, string(want), got, present))
			}
		}
	}

	// Undeclared fields are rejected as well.
	extras := make([]string, 0)
	for key := range value {
		if _, declared := decl[key]; !declared {
			extras = append(extras, joinPath(prefix, key))
		}
	}
	sort.Strings(extras)
	for _, path := range extras {
		problems = append(problems, fmt.Sprintf("Field %q: unexpected field", path))
	}

	return problems
}

func matchesKind(kind fieldKind, v any) bool {
	switch kind {
	case kindString:
		_, ok := v.(string)
		return ok
	case kindNumber:
		switch v.(type) {
		case int, int64, uint64, float64:
			return true
		}
		return false
	case kindBoolean:
		_, ok := v.(bool)
		return ok
	}
	return false
}

func fieldError(path, expected string, got any, present bool) string {
	rendered := "undefined"
	if present {
		if b, err := json.Marshal(got); err == nil {
			rendered = string(b)
		} else {
			rendered = fmt.Sprintf("%v", got)
		}
	}
	return fmt.Sprintf("Field %q: expected %s, got %s", path, expected, rendered)
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
