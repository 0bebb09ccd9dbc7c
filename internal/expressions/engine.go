package expressions

import "context"

// Engine evaluates generation-time expressions against snapshot inputs.
// Three implementations: CEL (conditions), Expr (logic), GoJQ (structural
// queries). Engines are selected per expression via the cel:/expr:/jq:
// prefix in ${{...}} tokens and enabled flags.
type Engine interface {
	Name() string
	Evaluate(ctx context.Context, expression string, data map[string]any) (any, error)
}
