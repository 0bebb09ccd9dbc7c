package codegen

import (
	"github.com/shellweave/shellweave/pkg/graph"
)

// chain is a maximal run of blocks connected 1:1 that can be emitted as
// one fused pipeline expression. The last member is the terminal whose
// output may need capturing into a binding.
type chain struct {
	blocks []*graph.Block
}

func (c *chain) head() *graph.Block {
	return c.blocks[0]
}

func (c *chain) terminal() *graph.Block {
	return c.blocks[len(c.blocks)-1]
}

// buildChains partitions the sorted scope's chainable blocks (leaves and
// function containers; flow containers never chain) into maximal chains.
// A block extends its predecessor's chain only when the link is strictly
// 1:1: exactly one in-scope predecessor, whose only in-scope successor is
// this block, and that predecessor is itself chainable.
func buildChains(sorted []*graph.Block, sc *scope) (chains []*chain, byBlock map[string]*chain) {
	byBlock = make(map[string]*chain)

	for _, b := range sorted {
		if isFlowContainer(b) {
			continue
		}

		if prev := chainablePredecessor(b, sc, byBlock); prev != nil {
			prev.blocks = append(prev.blocks, b)
			byBlock[b.ID] = prev
			continue
		}

		c := &chain{blocks: []*graph.Block{b}}
		chains = append(chains, c)
		byBlock[b.ID] = c
	}

	return chains, byBlock
}

// chainablePredecessor returns the chain this block extends, or nil when
// the block starts a new chain.
func chainablePredecessor(b *graph.Block, sc *scope, byBlock map[string]*chain) *chain {
	if sc.predCount(b.ID) != 1 {
		return nil
	}
	predID := sc.preds[b.ID][0]
	pred, ok := sc.byID[predID]
	if !ok || isFlowContainer(pred) {
		return nil
	}
	if sc.succCount(predID) != 1 {
		return nil
	}
	return byBlock[predID]
}
