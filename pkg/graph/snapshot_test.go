package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotName(t *testing.T) {
	assert.Equal(t, "", (&Snapshot{}).Name())
	assert.Equal(t, "", (&Snapshot{Metadata: map[string]any{"name": 42}}).Name())
	assert.Equal(t, "demo", (&Snapshot{Metadata: map[string]any{"name": "demo"}}).Name())
}

func TestBlockIsContainer(t *testing.T) {
	assert.False(t, (&Block{}).IsContainer())
	assert.True(t, (&Block{Kind: KindForEach}).IsContainer())
	assert.True(t, (&Block{Kind: KindFunction}).IsContainer())
}

func TestBlockZoneLookup(t *testing.T) {
	b := &Block{Zones: []Zone{{Name: ZoneThen}, {Name: ZoneElse}}}

	require.NotNil(t, b.Zone(ZoneElse))
	assert.Equal(t, ZoneElse, b.Zone(ZoneElse).Name)
	assert.Nil(t, b.Zone(ZoneBody))
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	snap := &Snapshot{
		Blocks: []Block{
			{ID: "a1", Title: "A", Params: []Param{{Name: "P", Type: ParamString, Value: "v"}}},
			{ID: "c1", Title: "C", Kind: KindCondition,
				Zones: []Zone{{Name: ZoneThen, Blocks: []Block{{ID: "t1", Title: "T"}}}}},
		},
		Connections: []Connection{{FromBlock: "a1", ToBlock: "c1"}},
		Inputs:      map[string]any{"k": "v"},
		Metadata:    map[string]any{"name": "orig"},
	}

	clone := snap.Clone()
	require.Equal(t, snap, clone)

	// Mutating the clone leaves the original untouched.
	clone.Blocks[0].Params[0].Value = "changed"
	clone.Blocks[1].Zones[0].Blocks[0].Title = "changed"
	clone.Connections[0].ToBlock = "elsewhere"
	clone.Inputs["k"] = "changed"

	assert.Equal(t, "v", snap.Blocks[0].Params[0].Value)
	assert.Equal(t, "T", snap.Blocks[1].Zones[0].Blocks[0].Title)
	assert.Equal(t, "c1", snap.Connections[0].ToBlock)
	assert.Equal(t, "v", snap.Inputs["k"])
}

func TestSnapshotCloneNilMaps(t *testing.T) {
	clone := (&Snapshot{Blocks: []Block{{ID: "a1", Title: "A"}}}).Clone()
	assert.Nil(t, clone.Inputs)
	assert.Nil(t, clone.Metadata)
}
