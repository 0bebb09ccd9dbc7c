package expressions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shellweave/shellweave/pkg/graph"
)

// Interpolate resolves ${{...}} tokens inside a string against the given
// data map (keys: inputs, metadata). A token is either an engine-prefixed
// expression (${{cel: ...}}, ${{expr: ...}}, ${{jq: ...}}) or a plain
// dot-delimited path (${{inputs.region}}, ${{metadata.name}}).
func (r *Resolver) Interpolate(ctx context.Context, input string, data map[string]any) (string, error) {
	var result strings.Builder
	result.Grow(len(input))

	i := 0
	for i < len(input) {
		idx := strings.Index(input[i:], "${{")
		if idx == -1 {
			result.WriteString(input[i:])
			break
		}

		result.WriteString(input[i : i+idx])
		start := i + idx + 3 // skip "${{"

		end := strings.Index(input[start:], "}}")
		if end == -1 {
			return "", graph.NewError(graph.ErrCodeInterpolation, "unclosed ${{ expression")
		}
		end += start

		expr := strings.TrimSpace(input[start:end])

		// Reject recursive interpolation: no nested ${{ inside the expression.
		if strings.Contains(expr, "${{") {
			return "", graph.NewError(graph.ErrCodeInterpolation,
				"nested interpolation not allowed: ${{...}} cannot contain ${{")
		}
		if expr == "" {
			return "", graph.NewError(graph.ErrCodeInterpolation, "empty variable reference: ${{  }}")
		}

		val, err := r.resolveToken(ctx, expr, data)
		if err != nil {
			return "", err
		}

		result.WriteString(stringifyInline(val))
		i = end + 2 // skip "}}"
	}

	return result.String(), nil
}

// resolveToken resolves one interpolation token: engine-prefixed
// expressions go to the matching engine, plain paths are traversed.
func (r *Resolver) resolveToken(ctx context.Context, expr string, data map[string]any) (any, error) {
	if engine, rest, ok := r.splitEnginePrefix(expr); ok {
		return engine.Evaluate(ctx, rest, data)
	}

	parts := strings.SplitN(expr, ".", 2)
	namespace := parts[0]

	root, known := data[namespace]
	if !known || (namespace != "inputs" && namespace != "metadata") {
		available := []string{"inputs", "metadata"}
		return nil, graph.NewErrorf(graph.ErrCodeInterpolation,
			"unknown namespace %q in ${{%s}}; available: %s", namespace, expr, strings.Join(available, ", ")).
			WithDetails(map[string]any{"expression": expr, "available_namespaces": available})
	}

	if len(parts) == 1 || parts[1] == "" {
		return nil, graph.NewErrorf(graph.ErrCodeInterpolation,
			"invalid reference %q: expected %s.<field>", expr, namespace).
			WithDetails(map[string]any{"expression": expr})
	}

	m, ok := root.(map[string]any)
	if !ok || m == nil {
		return nil, graph.NewErrorf(graph.ErrCodeInterpolation,
			"cannot resolve %q: %s scope is empty", expr, namespace).
			WithDetails(map[string]any{"expression": expr})
	}

	// Direct key lookup first (supports keys with dots).
	if val, ok := m[parts[1]]; ok {
		return val, nil
	}

	return traversePath(m, parts[1], expr)
}

// splitEnginePrefix detects a cel:/expr:/jq: engine selector on a token.
func (r *Resolver) splitEnginePrefix(expr string) (Engine, string, bool) {
	for name, engine := range r.engines {
		prefix := name + ":"
		if strings.HasPrefix(expr, prefix) {
			return engine, strings.TrimSpace(strings.TrimPrefix(expr, prefix)), true
		}
	}
	return nil, "", false
}

// traversePath navigates into nested maps using a dot-delimited path.
func traversePath(root any, path, expr string) (any, error) {
	segments := strings.Split(path, ".")
	current := root

	for i, seg := range segments {
		if seg == "" {
			return nil, graph.NewErrorf(graph.ErrCodeInterpolation,
				"empty segment in path %q at position %d", expr, i).
				WithDetails(map[string]any{"expression": expr})
		}

		switch v := current.(type) {
		case map[string]any:
			val, ok := v[seg]
			if !ok {
				availableKeys := mapKeys(v)
				return nil, graph.NewErrorf(graph.ErrCodeInterpolation,
					"field %q not found in %q; available: [%s]", seg, expr, strings.Join(availableKeys, ", ")).
					WithDetails(map[string]any{"expression": expr, "available_fields": availableKeys})
			}
			current = val
		default:
			return nil, graph.NewErrorf(graph.ErrCodeInterpolation,
				"cannot traverse into non-object at %q in %q (type: %T)", seg, expr, current).
				WithDetails(map[string]any{"expression": expr})
		}
	}

	return current, nil
}

// stringifyInline converts a resolved value into its inline textual form.
// Scalars embed directly; complex types (maps, slices) are JSON-encoded.
func stringifyInline(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case nil:
		return "null"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// mapKeys returns sorted keys from a map[string]any.
func mapKeys(m map[string]any) []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Insertion sort keeps error messages deterministic for small maps.
	for i := 1; i < len(keys); i++ {
		key := keys[i]
		j := i - 1
		for j >= 0 && keys[j] > key {
			keys[j+1] = keys[j]
			j--
		}
		keys[j+1] = key
	}
	return keys
}

// HasInterpolation checks if a string contains any ${{...}} references.
func HasInterpolation(s string) bool {
	return strings.Contains(s, "${{")
}
