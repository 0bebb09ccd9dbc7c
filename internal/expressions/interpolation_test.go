package expressions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellweave/shellweave/pkg/graph"
)

// --- helpers ---

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver()
	require.NoError(t, err)
	return r
}

func scopeData(inputs, metadata map[string]any) map[string]any {
	return map[string]any{"inputs": inputs, "metadata": metadata}
}

func assertInterpError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var we *graph.WeaveError
	require.True(t, errors.As(err, &we), "expected WeaveError, got %T: %v", err, err)
	assert.Equal(t, code, we.Code)
}

// --- Interpolate tests ---

func TestInterpolate_NoTokens(t *testing.T) {
	r := newTestResolver(t)

	out, err := r.Interpolate(context.Background(), "plain text", scopeData(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)
}

func TestInterpolate_InputsPath(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(map[string]any{"region": "eu-west-1"}, nil)

	out, err := r.Interpolate(context.Background(), "deploy to ${{inputs.region}}", data)
	require.NoError(t, err)
	assert.Equal(t, "deploy to eu-west-1", out)
}

func TestInterpolate_MetadataPath(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(nil, map[string]any{"name": "nightly"})

	out, err := r.Interpolate(context.Background(), "${{metadata.name}} run", data)
	require.NoError(t, err)
	assert.Equal(t, "nightly run", out)
}

func TestInterpolate_DeepPath(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(map[string]any{
		"db": map[string]any{"conn": map[string]any{"host": "localhost"}},
	}, nil)

	out, err := r.Interpolate(context.Background(), "${{inputs.db.conn.host}}", data)
	require.NoError(t, err)
	assert.Equal(t, "localhost", out)
}

func TestInterpolate_DirectKeyWithDots(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(map[string]any{"api.key": "abc"}, nil)

	out, err := r.Interpolate(context.Background(), "${{inputs.api.key}}", data)
	require.NoError(t, err)
	assert.Equal(t, "abc", out)
}

func TestInterpolate_ScalarStringification(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(map[string]any{
		"count":   float64(5),
		"ratio":   1.5,
		"flag":    true,
		"nothing": nil,
	}, nil)

	cases := map[string]string{
		"${{inputs.count}}":   "5",
		"${{inputs.ratio}}":   "1.5",
		"${{inputs.flag}}":    "true",
		"${{inputs.nothing}}": "null",
	}
	for in, want := range cases {
		out, err := r.Interpolate(context.Background(), in, data)
		require.NoError(t, err, in)
		assert.Equal(t, want, out, in)
	}
}

func TestInterpolate_ComplexValueJSONEncoded(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(map[string]any{"items": []any{"a", "b"}}, nil)

	out, err := r.Interpolate(context.Background(), "${{inputs.items}}", data)
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, out)
}

func TestInterpolate_MultipleTokens(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(map[string]any{"a": "1", "b": "2"}, nil)

	out, err := r.Interpolate(context.Background(), "${{inputs.a}}-${{inputs.b}}", data)
	require.NoError(t, err)
	assert.Equal(t, "1-2", out)
}

func TestInterpolate_Unclosed(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Interpolate(context.Background(), "${{inputs.a", scopeData(nil, nil))
	assertInterpError(t, err, graph.ErrCodeInterpolation)
}

func TestInterpolate_Nested(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Interpolate(context.Background(), "${{ ${{inputs.a}} }}", scopeData(nil, nil))
	assertInterpError(t, err, graph.ErrCodeInterpolation)
}

func TestInterpolate_Empty(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Interpolate(context.Background(), "${{  }}", scopeData(nil, nil))
	assertInterpError(t, err, graph.ErrCodeInterpolation)
}

func TestInterpolate_UnknownNamespace(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Interpolate(context.Background(), "${{secrets.token}}", scopeData(nil, nil))
	assertInterpError(t, err, graph.ErrCodeInterpolation)
	assert.Contains(t, err.Error(), "unknown namespace")
}

func TestInterpolate_MissingField(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(map[string]any{"aaa": 1, "bbb": 2}, nil)

	_, err := r.Interpolate(context.Background(), "${{inputs.ccc}}", data)
	assertInterpError(t, err, graph.ErrCodeInterpolation)
	// The error lists available keys in sorted order.
	assert.Contains(t, err.Error(), "[aaa, bbb]")
}

func TestInterpolate_TraverseIntoScalar(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(map[string]any{"host": "localhost"}, nil)

	_, err := r.Interpolate(context.Background(), "${{inputs.host.port}}", data)
	assertInterpError(t, err, graph.ErrCodeInterpolation)
}

// --- engine-prefixed tokens ---

func TestInterpolate_ExprEngine(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(map[string]any{"n": 4}, nil)

	out, err := r.Interpolate(context.Background(), "${{expr: inputs.n * 2}}", data)
	require.NoError(t, err)
	assert.Equal(t, "8", out)
}

func TestInterpolate_CELEngine(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(map[string]any{"name": "world"}, nil)

	out, err := r.Interpolate(context.Background(), `${{cel: "hello " + string(inputs["name"])}}`, data)
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestInterpolate_JQEngine(t *testing.T) {
	r := newTestResolver(t)
	data := scopeData(map[string]any{"items": []any{"a", "b", "c"}}, nil)

	out, err := r.Interpolate(context.Background(), "${{jq: .inputs.items | length}}", data)
	require.NoError(t, err)
	assert.Equal(t, "3", out)
}

func TestHasInterpolation(t *testing.T) {
	assert.True(t, HasInterpolation("${{inputs.a}}"))
	assert.True(t, HasInterpolation("prefix ${{x}}"))
	assert.False(t, HasInterpolation("plain"))
	assert.False(t, HasInterpolation("${not-one}"))
}
