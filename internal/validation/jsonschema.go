package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/shellweave/shellweave/pkg/graph"
)

// snapshotSchemaJSON is the JSON Schema for snapshot document validation.
// Embedded as a constant to avoid filesystem dependencies.
const snapshotSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://shellweave.dev/schemas/snapshot.json",
  "type": "object",
  "required": ["blocks"],
  "properties": {
    "blocks": {
      "type": "array",
      "items": { "$ref": "#/$defs/block" }
    },
    "connections": {
      "type": "array",
      "items": { "$ref": "#/$defs/connection" }
    },
    "inputs": { "type": "object" },
    "metadata": { "type": "object" }
  },
  "additionalProperties": false,
  "$defs": {
    "block": {
      "type": "object",
      "required": ["id", "title"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "title": { "type": "string", "minLength": 1 },
        "category": { "type": "string" },
        "params": {
          "type": "array",
          "items": { "$ref": "#/$defs/param" }
        },
        "output_name": { "type": "string" },
        "kind": {
          "type": "string",
          "enum": ["", "condition", "foreach", "while", "trycatch", "function"]
        },
        "condition": { "type": "string" },
        "input_param": { "type": "string" },
        "enabled": { "type": "string" },
        "zones": {
          "type": "array",
          "items": { "$ref": "#/$defs/zone" }
        }
      },
      "additionalProperties": false
    },
    "param": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": { "type": "string", "minLength": 1 },
        "type": {
          "type": "string",
          "enum": ["string", "int", "number", "bool", "switch", "raw"]
        },
        "value": {}
      },
      "additionalProperties": false
    },
    "zone": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": { "type": "string", "minLength": 1 },
        "blocks": {
          "type": "array",
          "items": { "$ref": "#/$defs/block" }
        }
      },
      "additionalProperties": false
    },
    "connection": {
      "type": "object",
      "required": ["from_block", "to_block"],
      "properties": {
        "from_block": { "type": "string", "minLength": 1 },
        "from_port": { "type": "string", "enum": ["", "out"] },
        "to_block": { "type": "string", "minLength": 1 },
        "to_port": { "type": "string", "enum": ["", "in"] }
      },
      "additionalProperties": false
    }
  }
}`

// SchemaValidator validates raw snapshot documents against the embedded
// JSON Schema (Draft 2020-12) before they are decoded.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the embedded snapshot schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(snapshotSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot schema: %w", err)
	}
	if err := c.AddResource("https://shellweave.dev/schemas/snapshot.json", schemaDoc); err != nil {
		return nil, fmt.Errorf("add snapshot schema resource: %w", err)
	}

	compiled, err := c.Compile("https://shellweave.dev/schemas/snapshot.json")
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}

	return &SchemaValidator{schema: compiled}, nil
}

// ValidateDocument validates raw snapshot JSON against the schema.
func (v *SchemaValidator) ValidateDocument(doc []byte) error {
	if len(doc) == 0 {
		return graph.NewError(graph.ErrCodeValidation, "empty snapshot document")
	}

	value, err := jsonschema.UnmarshalJSON(strings.NewReader(string(doc)))
	if err != nil {
		return graph.NewErrorf(graph.ErrCodeValidation, "invalid JSON: %v", err).WithCause(err)
	}

	if err := v.schema.Validate(value); err != nil {
		return toWeaveError(err)
	}
	return nil
}

// toWeaveError converts a jsonschema validation error into a structured error.
func toWeaveError(err error) error {
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		detail, _ := json.Marshal(ve.DetailedOutput())
		return graph.NewErrorf(graph.ErrCodeValidation, "snapshot schema violation: %v", ve).
			WithCause(err).
			WithDetails(map[string]any{"output": json.RawMessage(detail)})
	}
	return graph.NewErrorf(graph.ErrCodeValidation, "snapshot schema violation: %v", err).WithCause(err)
}
