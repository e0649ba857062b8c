package mcpserver

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// FieldKind is the primitive kind of a schema field.
type FieldKind string

const (
	String  FieldKind = "string"
	Number  FieldKind = "number"
	Integer FieldKind = "integer"
	Boolean FieldKind = "boolean"
	Array   FieldKind = "array"
	Object  FieldKind = "object"
)

// Field declares one argument of a tool.
type Field struct {
	Name        string
	Description string
	Kind        FieldKind
	Required    bool
	// Default is applied when an optional field is absent. Advertised
	// in the rendered JSON Schema so callers can rely on it.
	Default any
	// Enum restricts a string field to the listed values.
	Enum []string
}

// Schema is the declarative input shape of a tool. It renders to a
// JSON Schema object for catalog advertisement and compiles once into
// a validator used before every dispatch. Immutable after creation.
type Schema struct {
	fields   []Field
	rendered map[string]any
	compiled *jsonschema.Schema
}

// NewSchema builds and compiles a schema from the given fields.
func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{fields: fields}
	s.rendered = render(fields)

	raw, err := json.Marshal(s.rendered)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	s.compiled = compiled
	return s, nil
}

// MustSchema is NewSchema for statically declared tools; it panics on
// an invalid declaration.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// JSON returns the JSON Schema object advertised in the catalog.
func (s *Schema) JSON() map[string]any {
	return s.rendered
}

// Validate checks args against the schema and returns a defaulted
// copy. It returns an InvalidParams DispatchError describing the
// first violated constraint; on success the backing capability sees
// only conforming, defaulted arguments.
func (s *Schema) Validate(args map[string]any) (map[string]any, error) {
	if args == nil {
		args = map[string]any{}
	}
	if err := s.compiled.Validate(toPlain(args)); err != nil {
		return nil, InvalidParamsError(err.Error())
	}

	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	for _, f := range s.fields {
		if _, ok := out[f.Name]; !ok && f.Default != nil {
			out[f.Name] = f.Default
		}
	}
	return out, nil
}

func render(fields []Field) map[string]any {
	properties := make(map[string]any, len(fields))
	var required []string
	for _, f := range fields {
		prop := map[string]any{"type": string(f.Kind)}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		if f.Default != nil {
			prop["default"] = f.Default
		}
		if len(f.Enum) > 0 {
			enum := make([]any, len(f.Enum))
			for i, v := range f.Enum {
				enum[i] = v
			}
			prop["enum"] = enum
		}
		properties[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// toPlain normalizes args to the plain JSON value tree the validator
// expects. Arguments decoded by encoding/json already have that form;
// hand-built test arguments may carry ints or typed slices.
func toPlain(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var plain any
	if err := json.Unmarshal(raw, &plain); err != nil {
		return v
	}
	return plain
}
