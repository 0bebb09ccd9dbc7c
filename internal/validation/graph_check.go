package validation

import (
	"fmt"
	"sort"

	"github.com/shellweave/shellweave/pkg/graph"
)

// expectedZones maps each container kind to the zone names it may carry.
var expectedZones = map[graph.ContainerKind][]string{
	graph.KindCondition: {graph.ZoneThen, graph.ZoneElse},
	graph.KindForEach:   {graph.ZoneBody},
	graph.KindWhile:     {graph.ZoneBody},
	graph.KindTryCatch:  {graph.ZoneTry, graph.ZoneCatch},
	graph.KindFunction:  {graph.ZoneBody},
}

// checkGraph performs semantic analysis on a decoded snapshot: identity
// uniqueness, connection well-formedness, fan-in limits, zone shapes, and
// a pre-flight cycle check over the top-level blocks. The generator
// itself degrades gracefully on all of these; surfacing them early gives
// the editor precise diagnostics.
func checkGraph(snap *graph.Snapshot) *graph.ValidationResult {
	result := &graph.ValidationResult{}

	ids := make(map[string]bool)
	collectBlockIssues("blocks", snap.Blocks, ids, result)

	checkConnections(snap, ids, result)
	checkTopLevelCycle(snap, result)

	return result
}

func collectBlockIssues(path string, blocks []graph.Block, ids map[string]bool, result *graph.ValidationResult) {
	for i := range blocks {
		b := &blocks[i]
		blockPath := fmt.Sprintf("%s[%d]", path, i)

		if ids[b.ID] {
			result.AddError(blockPath, graph.ErrCodeValidation,
				fmt.Sprintf("duplicate block id %q", b.ID))
		}
		ids[b.ID] = true

		checkZones(b, blockPath, result)

		switch b.Kind {
		case graph.KindWhile:
			if b.Condition == "" {
				result.AddWarning(blockPath, graph.ErrCodeValidation,
					fmt.Sprintf("while block %q has no guard condition; a constant-true guard will be emitted", b.ID))
			}
		case graph.KindFunction:
			if body := b.Zone(graph.ZoneBody); body == nil || len(body.Blocks) == 0 {
				result.AddWarning(blockPath, graph.ErrCodeValidation,
					fmt.Sprintf("function block %q has an empty body", b.ID))
			}
		case graph.KindLeaf, graph.KindCondition, graph.KindForEach, graph.KindTryCatch:
		}

		for z := range b.Zones {
			collectBlockIssues(blockPath+"."+b.Zones[z].Name, b.Zones[z].Blocks, ids, result)
		}
	}
}

func checkZones(b *graph.Block, path string, result *graph.ValidationResult) {
	allowed, isContainer := expectedZones[b.Kind]
	if !isContainer {
		if len(b.Zones) > 0 {
			result.AddError(path, graph.ErrCodeValidation,
				fmt.Sprintf("leaf block %q carries zones", b.ID))
		}
		return
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}

	seen := make(map[string]bool, len(b.Zones))
	for _, z := range b.Zones {
		if !allowedSet[z.Name] {
			result.AddError(path, graph.ErrCodeValidation,
				fmt.Sprintf("block %q (%s) has unexpected zone %q; allowed: %v", b.ID, b.Kind, z.Name, allowed))
		}
		if seen[z.Name] {
			result.AddError(path, graph.ErrCodeValidation,
				fmt.Sprintf("block %q has duplicate zone %q", b.ID, z.Name))
		}
		seen[z.Name] = true
	}
}

func checkConnections(snap *graph.Snapshot, ids map[string]bool, result *graph.ValidationResult) {
	seenPairs := make(map[string]bool, len(snap.Connections))
	fanIn := make(map[string]int, len(snap.Connections))

	for i, c := range snap.Connections {
		path := fmt.Sprintf("connections[%d]", i)

		if !ids[c.FromBlock] {
			result.AddError(path, graph.ErrCodeNotFound,
				fmt.Sprintf("source block %q does not exist", c.FromBlock))
			continue
		}
		if !ids[c.ToBlock] {
			result.AddError(path, graph.ErrCodeNotFound,
				fmt.Sprintf("target block %q does not exist", c.ToBlock))
			continue
		}
		if c.FromBlock == c.ToBlock {
			result.AddError(path, graph.ErrCodeValidation,
				fmt.Sprintf("block %q connects to itself", c.FromBlock))
			continue
		}

		pair := c.FromBlock + "\x00" + c.FromPort + "\x00" + c.ToBlock + "\x00" + c.ToPort
		if seenPairs[pair] {
			result.AddError(path, graph.ErrCodeValidation,
				fmt.Sprintf("duplicate connection %s -> %s", c.FromBlock, c.ToBlock))
			continue
		}
		seenPairs[pair] = true

		fanIn[c.ToBlock]++
	}

	// An input port accepts at most one incoming connection: a block
	// consumes a single upstream value. The generator leaves ambiguous
	// upstreams unresolved, so flag this early.
	targets := make([]string, 0, len(fanIn))
	for id, n := range fanIn {
		if n > 1 {
			targets = append(targets, id)
		}
	}
	sort.Strings(targets)
	for _, id := range targets {
		result.AddWarning("connections", graph.ErrCodeValidation,
			fmt.Sprintf("block %q has %d incoming connections; its upstream will be left unresolved", id, fanIn[id]))
	}
}

// checkTopLevelCycle runs Kahn's algorithm over the top-level blocks so a
// cycle is reported before generation is even attempted. Generation
// itself still reports cycles in-band.
func checkTopLevelCycle(snap *graph.Snapshot, result *graph.ValidationResult) {
	inScope := make(map[string]bool, len(snap.Blocks))
	for i := range snap.Blocks {
		inScope[snap.Blocks[i].ID] = true
	}

	edges := make(map[string][]string)
	inDegree := make(map[string]int, len(snap.Blocks))
	for id := range inScope {
		inDegree[id] = 0
	}
	for _, c := range snap.Connections {
		if !inScope[c.FromBlock] || !inScope[c.ToBlock] || c.FromBlock == c.ToBlock {
			continue
		}
		edges[c.FromBlock] = append(edges[c.FromBlock], c.ToBlock)
		inDegree[c.ToBlock]++
	}

	queue := make([]string, 0, len(inDegree))
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	visited := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range edges[node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if visited != len(inScope) {
		result.AddError("blocks", graph.ErrCodeCycleDetected,
			"top-level blocks contain a dependency cycle")
	}
}
