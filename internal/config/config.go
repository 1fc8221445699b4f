// Package config loads and validates scenario and personality files.
// Every file is checked against an embedded JSON Schema before it is
// decoded, so malformed input fails at setup with a line-level error
// instead of surfacing mid-battle.
package config

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var (
	scenarioSchema    = mustCompile("schemas/scenario.schema.json")
	personalitySchema = mustCompile("schemas/personality.schema.json")
)

func mustCompile(name string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("embedded schema %s: %v", name, err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, strings.NewReader(string(data))); err != nil {
		panic(fmt.Sprintf("embedded schema %s: %v", name, err))
	}
	s, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("embedded schema %s: %v", name, err))
	}
	return s
}

// loadValidated reads a YAML file, validates it against the schema,
// and decodes it into out.
func loadValidated(path string, schema *jsonschema.Schema, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decodeValidated(data, schema, out, path)
}

func decodeValidated(data []byte, schema *jsonschema.Schema, out any, label string) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	if err := schema.Validate(normalize(doc)); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	return nil
}

// normalize converts YAML-decoded values into the shapes the schema
// validator expects. yaml.v3 already produces map[string]any for
// string-keyed maps; this rewrites any residual map[any]any and
// recurses through containers.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	default:
		return v
	}
}
