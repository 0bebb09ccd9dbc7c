package codegen

import (
	"fmt"

	"github.com/shellweave/shellweave/pkg/graph"
)

// scope is the working view of one zone (or the top level): its blocks
// and the adjacency derived from connections internal to it. Connections
// pointing outside the scope are ignored; dangling connections are
// skipped defensively and reported as warnings.
type scope struct {
	blocks []*graph.Block
	byID   map[string]*graph.Block
	preds  map[string][]string // target block ID -> source block IDs, in connection order
	succs  map[string][]string // source block ID -> target block IDs, in connection order
	path   string              // scope path for diagnostics, e.g. "main" or "main/loop1.body"
}

// newScope indexes the given blocks and the connections whose endpoints
// both fall inside the scope. warn is invoked for malformed connections
// (self-edges, duplicate port pairs) so they surface as diagnostics
// without failing the pass.
func newScope(path string, blocks []*graph.Block, conns []graph.Connection, warn func(code, msg string)) *scope {
	sc := &scope{
		blocks: blocks,
		byID:   make(map[string]*graph.Block, len(blocks)),
		preds:  make(map[string][]string),
		succs:  make(map[string][]string),
		path:   path,
	}
	for _, b := range blocks {
		sc.byID[b.ID] = b
	}

	seen := make(map[string]bool, len(conns))
	for _, c := range conns {
		_, fromIn := sc.byID[c.FromBlock]
		_, toIn := sc.byID[c.ToBlock]
		if !fromIn || !toIn {
			continue // out of scope or dangling
		}
		if c.FromBlock == c.ToBlock {
			warn(graph.ErrCodeValidation, fmt.Sprintf("connection from block %s to itself skipped", c.FromBlock))
			continue
		}
		key := c.FromBlock + "\x00" + c.FromPort + "\x00" + c.ToBlock + "\x00" + c.ToPort
		if seen[key] {
			warn(graph.ErrCodeValidation, fmt.Sprintf("duplicate connection %s -> %s skipped", c.FromBlock, c.ToBlock))
			continue
		}
		seen[key] = true

		sc.preds[c.ToBlock] = append(sc.preds[c.ToBlock], c.FromBlock)
		sc.succs[c.FromBlock] = append(sc.succs[c.FromBlock], c.ToBlock)
	}

	return sc
}

// predCount returns the number of in-scope predecessors of a block.
func (sc *scope) predCount(id string) int {
	return len(sc.preds[id])
}

// succCount returns the number of in-scope successors of a block.
func (sc *scope) succCount(id string) int {
	return len(sc.succs[id])
}

// isFlowContainer reports whether a block is one of the four containers
// that emit control-flow constructs. Function containers are excluded:
// from the outside they behave as ordinary chain members.
func isFlowContainer(b *graph.Block) bool {
	switch b.Kind {
	case graph.KindCondition, graph.KindForEach, graph.KindWhile, graph.KindTryCatch:
		return true
	case graph.KindLeaf, graph.KindFunction:
		return false
	}
	return false
}

// zoneBlocks converts a zone's child slice to the pointer slice the
// scope machinery works with.
func zoneBlocks(z *graph.Zone) []*graph.Block {
	if z == nil {
		return nil
	}
	out := make([]*graph.Block, 0, len(z.Blocks))
	for i := range z.Blocks {
		out = append(out, &z.Blocks[i])
	}
	return out
}
