package expressions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellweave/shellweave/pkg/graph"
)

func TestExprEngine_Name(t *testing.T) {
	assert.Equal(t, "expr", NewExprEngine().Name())
}

func TestExprEngine_Arithmetic(t *testing.T) {
	e := NewExprEngine()

	out, err := e.Evaluate(context.Background(), "2 * 3 + 1", nil)
	require.NoError(t, err)
	assert.Equal(t, 7, out)
}

func TestExprEngine_DataAccess(t *testing.T) {
	e := NewExprEngine()
	data := scopeData(map[string]any{"region": "eu"}, nil)

	out, err := e.Evaluate(context.Background(), `inputs.region == "eu"`, data)
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestExprEngine_UndefinedVariablesAllowed(t *testing.T) {
	e := NewExprEngine()

	out, err := e.Evaluate(context.Background(), "missing == nil", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestExprEngine_ArrayOps(t *testing.T) {
	e := NewExprEngine()
	data := scopeData(map[string]any{"nums": []any{1, 2, 3, 4}}, nil)

	out, err := e.Evaluate(context.Background(), "len(filter(inputs.nums, # > 2))", data)
	require.NoError(t, err)
	assert.Equal(t, 2, out)
}

func TestExprEngine_CompileError(t *testing.T) {
	e := NewExprEngine()

	_, err := e.Evaluate(context.Background(), "1 +++", nil)
	assertInterpError(t, err, graph.ErrCodeValidation)
}

func TestExprEngine_EmptyExpression(t *testing.T) {
	e := NewExprEngine()

	_, err := e.Evaluate(context.Background(), "", nil)
	assertInterpError(t, err, graph.ErrCodeValidation)
}
