package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentDefaults(t *testing.T) {
	doc := []byte(`{
		"blocks": [
			{"id": "a1", "title": "Get-Process", "params": [{"name": "Name", "value": "pwsh"}]}
		],
		"connections": [{"from_block": "a1", "to_block": "b1"}]
	}`)

	snap, err := ParseDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, KindLeaf, snap.Blocks[0].Kind)
	assert.Equal(t, ParamString, snap.Blocks[0].Params[0].Type)
	assert.Equal(t, PortOut, snap.Connections[0].FromPort)
	assert.Equal(t, PortIn, snap.Connections[0].ToPort)
}

func TestParseDocumentNestedParamDefaults(t *testing.T) {
	doc := []byte(`{
		"blocks": [
			{"id": "c1", "title": "Branch", "kind": "condition",
			 "zones": [{"name": "then", "blocks": [
				{"id": "t1", "title": "X", "params": [{"name": "P", "value": 1}]}
			 ]}]}
		]
	}`)

	snap, err := ParseDocument(doc)
	require.NoError(t, err)

	then := snap.Blocks[0].Zone(ZoneThen)
	require.NotNil(t, then)
	assert.Equal(t, ParamString, then.Blocks[0].Params[0].Type)
}

func TestParseDocumentEmpty(t *testing.T) {
	_, err := ParseDocument(nil)
	require.Error(t, err)

	var we *WeaveError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, ErrCodeValidation, we.Code)
}

func TestParseDocumentInvalidJSON(t *testing.T) {
	_, err := ParseDocument([]byte(`{"blocks":`))
	require.Error(t, err)
}

func TestMarshalDocumentRoundTrip(t *testing.T) {
	snap := &Snapshot{
		Blocks:   []Block{{ID: "a1", Title: "Get-Date", Kind: KindLeaf}},
		Metadata: map[string]any{"name": "demo"},
	}

	data, err := MarshalDocument(snap)
	require.NoError(t, err)

	back, err := ParseDocument(data)
	require.NoError(t, err)
	assert.Equal(t, "demo", back.Name())
	assert.Equal(t, snap.Blocks[0].ID, back.Blocks[0].ID)
}
