package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellweave/shellweave/pkg/graph"
)

func TestSchemaValidatorAcceptsFullDocument(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	doc := []byte(`{
		"blocks": [
			{"id": "a1", "title": "Get-Process", "output_name": "procs",
			 "params": [{"name": "Name", "type": "string", "value": "pwsh"}]},
			{"id": "c1", "title": "Branch", "kind": "condition", "condition": "$true",
			 "zones": [{"name": "then", "blocks": [{"id": "t1", "title": "Write-Output"}]}]}
		],
		"connections": [{"from_block": "a1", "to_block": "c1"}],
		"inputs": {"env": "prod"},
		"metadata": {"name": "demo"}
	}`)

	assert.NoError(t, sv.ValidateDocument(doc))
}

func TestSchemaValidatorRejectsEmptyDocument(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	err = sv.ValidateDocument(nil)
	require.Error(t, err)
	var we *graph.WeaveError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, graph.ErrCodeValidation, we.Code)
}

func TestSchemaValidatorRejectsEmptyID(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	err = sv.ValidateDocument([]byte(`{"blocks":[{"id":"","title":"X"}]}`))
	assert.Error(t, err)
}

func TestSchemaValidatorRejectsBadParamShape(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	err = sv.ValidateDocument([]byte(`{"blocks":[{"id":"a","title":"X","params":[{"value":1}]}]}`))
	assert.Error(t, err)
}

func TestSchemaValidatorRejectsMissingBlocks(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	assert.Error(t, sv.ValidateDocument([]byte(`{}`)))
}
