package codegen

import (
	"github.com/shellweave/shellweave/pkg/graph"
)

// Visit colors for the depth-first sort.
const (
	colorWhite = 0 // not visited
	colorGray  = 1 // currently visiting
	colorBlack = 2 // done
)

// topoSort orders the scope's blocks so every block appears after all of
// its in-scope predecessors. Blocks with no relative dependency keep
// their snapshot order. A cycle among the scope's blocks yields a
// CYCLE_DETECTED error and no order.
func topoSort(sc *scope) ([]*graph.Block, error) {
	color := make(map[string]int, len(sc.blocks))
	sorted := make([]*graph.Block, 0, len(sc.blocks))

	var visit func(b *graph.Block) error
	visit = func(b *graph.Block) error {
		color[b.ID] = colorGray
		for _, predID := range sc.preds[b.ID] {
			pred, ok := sc.byID[predID]
			if !ok {
				continue
			}
			switch color[predID] {
			case colorGray:
				return graph.NewErrorf(graph.ErrCodeCycleDetected,
					"dependency cycle through blocks %s and %s", predID, b.ID).
					WithBlock(b.ID)
			case colorWhite:
				if err := visit(pred); err != nil {
					return err
				}
			}
		}
		color[b.ID] = colorBlack
		sorted = append(sorted, b)
		return nil
	}

	for _, b := range sc.blocks {
		if color[b.ID] == colorWhite {
			if err := visit(b); err != nil {
				return nil, err
			}
		}
	}

	return sorted, nil
}
