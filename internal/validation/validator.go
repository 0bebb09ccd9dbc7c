package validation

import (
	"github.com/shellweave/shellweave/pkg/graph"
)

// Validator checks snapshot documents before generation: JSON Schema
// structure first, then graph semantics on the decoded snapshot.
type Validator struct {
	schema *SchemaValidator
}

// New creates a Validator with the embedded snapshot schema compiled.
func New() (*Validator, error) {
	sv, err := NewSchemaValidator()
	if err != nil {
		return nil, err
	}
	return &Validator{schema: sv}, nil
}

// ValidateDocument validates a raw snapshot document. Schema violations
// short-circuit: semantic checks only run on structurally valid input.
func (v *Validator) ValidateDocument(doc []byte) (*graph.ValidationResult, error) {
	result := &graph.ValidationResult{}

	if err := v.schema.ValidateDocument(doc); err != nil {
		result.AddError("$", graph.ErrCodeValidation, err.Error())
		return result, nil
	}

	snap, err := graph.ParseDocument(doc)
	if err != nil {
		return nil, err
	}

	result.Merge(ValidateSnapshot(snap))
	return result, nil
}

// ValidateSnapshot runs the semantic checks on an already-decoded snapshot.
func ValidateSnapshot(snap *graph.Snapshot) *graph.ValidationResult {
	return checkGraph(snap)
}
