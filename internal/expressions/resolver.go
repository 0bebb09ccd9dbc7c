package expressions

import (
	"context"
	"fmt"

	"github.com/shellweave/shellweave/pkg/graph"
)

// Resolver rewrites generation-time expressions on a working snapshot
// before code generation: ${{...}} tokens inside string parameter values
// and guard conditions, and block enabled flags (a falsy flag drops the
// block and its connections). The emitted script only ever sees the
// resulting literals.
type Resolver struct {
	engines       map[string]Engine
	defaultEngine Engine
}

// NewResolver constructs a Resolver with all three engines registered.
// Expr is the default engine for unprefixed enabled-flag expressions.
func NewResolver() (*Resolver, error) {
	celEngine, err := NewCELEngine()
	if err != nil {
		return nil, err
	}
	exprEngine := NewExprEngine()

	return &Resolver{
		engines: map[string]Engine{
			"cel":  celEngine,
			"expr": exprEngine,
			"jq":   NewGoJQEngine(),
		},
		defaultEngine: exprEngine,
	}, nil
}

// Apply resolves all generation-time expressions on the snapshot in
// place. Per-expression failures degrade to warning issues with the
// original value left untouched; only constructing the evaluation scope
// can fail outright.
func (r *Resolver) Apply(ctx context.Context, snap *graph.Snapshot) ([]graph.Issue, error) {
	data := map[string]any{
		"inputs":   snap.Inputs,
		"metadata": snap.Metadata,
	}

	var issues []graph.Issue
	snap.Blocks = r.resolveBlocks(ctx, "blocks", snap.Blocks, data, &issues)

	// Drop connections whose endpoints were removed by enabled flags.
	alive := make(map[string]bool)
	markAlive(snap.Blocks, alive)

	kept := snap.Connections[:0]
	for _, c := range snap.Connections {
		if alive[c.FromBlock] && alive[c.ToBlock] {
			kept = append(kept, c)
		}
	}
	snap.Connections = kept

	return issues, nil
}

// resolveBlocks processes one block list, returning the surviving blocks
// with their expressions resolved. Recurses into container zones.
func (r *Resolver) resolveBlocks(ctx context.Context, path string, blocks []graph.Block, data map[string]any, issues *[]graph.Issue) []graph.Block {
	out := blocks[:0]
	for i := range blocks {
		b := blocks[i]
		blockPath := fmt.Sprintf("%s[%s]", path, b.ID)

		if b.Enabled != "" {
			val, err := r.evalFlag(ctx, b.Enabled, data)
			if err != nil {
				*issues = append(*issues, warning(blockPath, graph.ErrCodeExpression, err.Error()))
			} else if !truthy(val) {
				continue // block disabled for this generation
			}
		}

		for p := range b.Params {
			param := &b.Params[p]
			s, ok := param.Value.(string)
			if !ok || !HasInterpolation(s) {
				continue
			}
			resolved, err := r.Interpolate(ctx, s, data)
			if err != nil {
				*issues = append(*issues, warning(blockPath, graph.ErrCodeInterpolation, err.Error()))
				continue
			}
			param.Value = resolved
		}

		if HasInterpolation(b.Condition) {
			resolved, err := r.Interpolate(ctx, b.Condition, data)
			if err != nil {
				*issues = append(*issues, warning(blockPath, graph.ErrCodeInterpolation, err.Error()))
			} else {
				b.Condition = resolved
			}
		}

		for z := range b.Zones {
			zone := &b.Zones[z]
			zone.Blocks = r.resolveBlocks(ctx, blockPath+"."+zone.Name, zone.Blocks, data, issues)
		}

		out = append(out, b)
	}
	return out
}

// evalFlag evaluates an enabled-flag expression, honoring an optional
// cel:/expr:/jq: engine prefix and defaulting to the Expr engine.
func (r *Resolver) evalFlag(ctx context.Context, raw string, data map[string]any) (any, error) {
	if engine, rest, ok := r.splitEnginePrefix(raw); ok {
		return engine.Evaluate(ctx, rest, data)
	}
	return r.defaultEngine.Evaluate(ctx, raw, data)
}

func markAlive(blocks []graph.Block, alive map[string]bool) {
	for i := range blocks {
		alive[blocks[i].ID] = true
		for z := range blocks[i].Zones {
			markAlive(blocks[i].Zones[z].Blocks, alive)
		}
	}
}

func warning(path, code, msg string) graph.Issue {
	return graph.Issue{Path: path, Code: code, Message: msg, Severity: graph.SeverityWarning}
}

// truthy interprets an evaluated flag value as a boolean.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case nil:
		return false
	case string:
		return t != "" && t != "false" && t != "0"
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}
