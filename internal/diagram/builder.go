package diagram

import (
	"fmt"

	"github.com/shellweave/shellweave/pkg/graph"
)

// Build constructs a Model from a snapshot. Top-level blocks become
// nodes between virtual start/end markers; container zones become
// SubGraph children, recursively. Connections internal to each level
// become edges at that level.
func Build(snap *graph.Snapshot) (*Model, error) {
	if snap == nil {
		return nil, graph.NewError(graph.ErrCodeValidation, "snapshot is nil")
	}

	nodes := make([]*Node, 0, len(snap.Blocks)+2)
	nodes = append(nodes, &Node{ID: "__start__", Label: "Start", Kind: NodeKindStart})

	topIDs := make(map[string]bool, len(snap.Blocks))
	for i := range snap.Blocks {
		b := &snap.Blocks[i]
		topIDs[b.ID] = true
		nodes = append(nodes, blockToNode(b, snap.Connections))
	}

	nodes = append(nodes, &Node{ID: "__end__", Label: "End", Kind: NodeKindEnd})

	return &Model{
		Title: snap.Name(),
		Nodes: nodes,
		Edges: buildEdges(snap, topIDs),
	}, nil
}

// blockToNode maps a block to a diagram node, recursing into zones.
func blockToNode(b *graph.Block, conns []graph.Connection) *Node {
	node := &Node{
		ID:    b.ID,
		Label: nodeLabel(b),
		Kind:  kindToNodeKind(b.Kind),
	}

	for z := range b.Zones {
		zone := &b.Zones[z]
		sg := &SubGraph{Label: fmt.Sprintf("%s: %s", b.ID, zone.Name)}

		zoneIDs := make(map[string]bool, len(zone.Blocks))
		for i := range zone.Blocks {
			child := &zone.Blocks[i]
			zoneIDs[child.ID] = true
			sg.Nodes = append(sg.Nodes, blockToNode(child, conns))
		}
		for _, c := range conns {
			if zoneIDs[c.FromBlock] && zoneIDs[c.ToBlock] {
				sg.Edges = append(sg.Edges, Edge{From: c.FromBlock, To: c.ToBlock})
			}
		}

		node.Children = append(node.Children, sg)
	}

	return node
}

// kindToNodeKind converts a graph.ContainerKind to a NodeKind.
func kindToNodeKind(k graph.ContainerKind) NodeKind {
	switch k {
	case graph.KindCondition:
		return NodeKindCondition
	case graph.KindForEach:
		return NodeKindForEach
	case graph.KindWhile:
		return NodeKindWhile
	case graph.KindTryCatch:
		return NodeKindTryCatch
	case graph.KindFunction:
		return NodeKindFunction
	case graph.KindLeaf:
		return NodeKindCommand
	}
	return NodeKindCommand
}

// nodeLabel creates a human-readable label for a block node.
func nodeLabel(b *graph.Block) string {
	if b.Category != "" {
		return fmt.Sprintf("%s\n(%s)", b.Title, b.Category)
	}
	return b.Title
}

// buildEdges constructs the top-level edge list, wiring virtual start
// and end markers to the flow's sources and sinks.
func buildEdges(snap *graph.Snapshot, topIDs map[string]bool) []Edge {
	var edges []Edge

	hasIn := make(map[string]bool)
	hasOut := make(map[string]bool)
	for _, c := range snap.Connections {
		if !topIDs[c.FromBlock] || !topIDs[c.ToBlock] {
			continue
		}
		edges = append(edges, Edge{From: c.FromBlock, To: c.ToBlock})
		hasIn[c.ToBlock] = true
		hasOut[c.FromBlock] = true
	}

	var boundary []Edge
	for i := range snap.Blocks {
		id := snap.Blocks[i].ID
		if !hasIn[id] {
			boundary = append(boundary, Edge{From: "__start__", To: id})
		}
	}
	for i := range snap.Blocks {
		id := snap.Blocks[i].ID
		if !hasOut[id] {
			boundary = append(boundary, Edge{From: id, To: "__end__"})
		}
	}

	return append(boundary, edges...)
}
