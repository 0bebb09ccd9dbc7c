package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellweave/shellweave/pkg/graph"
)

// --- helpers ---

func linearSnapshot() *graph.Snapshot {
	return &graph.Snapshot{
		Blocks: []graph.Block{
			{ID: "fetch", Title: "Get-Content", Category: "io"},
			{ID: "transform", Title: "ConvertFrom-Json"},
			{ID: "store", Title: "Set-Content"},
		},
		Connections: []graph.Connection{
			{FromBlock: "fetch", ToBlock: "transform"},
			{FromBlock: "transform", ToBlock: "store"},
		},
		Metadata: map[string]any{"name": "etl"},
	}
}

func conditionSnapshot() *graph.Snapshot {
	return &graph.Snapshot{
		Blocks: []graph.Block{
			{ID: "decide", Title: "Branch", Kind: graph.KindCondition, Condition: "$x",
				Zones: []graph.Zone{
					{Name: graph.ZoneThen, Blocks: []graph.Block{
						{ID: "yes1", Title: "Write-Output"},
						{ID: "yes2", Title: "Out-String"},
					}},
					{Name: graph.ZoneElse, Blocks: []graph.Block{
						{ID: "no1", Title: "Write-Error"},
					}},
				}},
		},
		Connections: []graph.Connection{
			{FromBlock: "yes1", ToBlock: "yes2"},
		},
	}
}

// --- Build ---

func TestBuildNilSnapshot(t *testing.T) {
	_, err := Build(nil)
	assert.Error(t, err)
}

func TestBuildLinear(t *testing.T) {
	model, err := Build(linearSnapshot())
	require.NoError(t, err)

	assert.Equal(t, "etl", model.Title)
	require.Len(t, model.Nodes, 5) // start + 3 blocks + end
	assert.Equal(t, "__start__", model.Nodes[0].ID)
	assert.Equal(t, "__end__", model.Nodes[len(model.Nodes)-1].ID)

	// Category folds into the label.
	assert.Equal(t, "Get-Content\n(io)", model.Nodes[1].Label)
	assert.Equal(t, NodeKindCommand, model.Nodes[1].Kind)
}

func TestBuildBoundaryEdges(t *testing.T) {
	model, err := Build(linearSnapshot())
	require.NoError(t, err)

	assert.Contains(t, model.Edges, Edge{From: "__start__", To: "fetch"})
	assert.Contains(t, model.Edges, Edge{From: "store", To: "__end__"})
	assert.Contains(t, model.Edges, Edge{From: "fetch", To: "transform"})
	assert.NotContains(t, model.Edges, Edge{From: "__start__", To: "transform"})
}

func TestBuildContainerZonesBecomeSubGraphs(t *testing.T) {
	model, err := Build(conditionSnapshot())
	require.NoError(t, err)

	var decide *Node
	for _, n := range model.Nodes {
		if n.ID == "decide" {
			decide = n
		}
	}
	require.NotNil(t, decide)
	assert.Equal(t, NodeKindCondition, decide.Kind)
	require.Len(t, decide.Children, 2)

	then := decide.Children[0]
	assert.Equal(t, "decide: then", then.Label)
	require.Len(t, then.Nodes, 2)
	// Zone-internal connections become subgraph edges.
	assert.Equal(t, []Edge{{From: "yes1", To: "yes2"}}, then.Edges)
}

func TestBuildKindMapping(t *testing.T) {
	snap := &graph.Snapshot{Blocks: []graph.Block{
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B", Kind: graph.KindForEach},
		{ID: "c", Title: "C", Kind: graph.KindWhile},
		{ID: "d", Title: "D", Kind: graph.KindTryCatch},
		{ID: "e", Title: "E", Kind: graph.KindFunction},
	}}

	model, err := Build(snap)
	require.NoError(t, err)

	kinds := map[string]NodeKind{}
	for _, n := range model.Nodes {
		kinds[n.ID] = n.Kind
	}
	assert.Equal(t, NodeKindCommand, kinds["a"])
	assert.Equal(t, NodeKindForEach, kinds["b"])
	assert.Equal(t, NodeKindWhile, kinds["c"])
	assert.Equal(t, NodeKindTryCatch, kinds["d"])
	assert.Equal(t, NodeKindFunction, kinds["e"])
}
