package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/mbt"
	"github.com/aretw0/mbt/internal/testutils"
	"github.com/aretw0/mbt/pkg/condition"
	"github.com/aretw0/mbt/pkg/generator"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	engine, err := mbt.New(testutils.CounterModel(t),
		mbt.WithExtended(testutils.NewEnvironment(t)),
		mbt.WithBacktrack(true),
	)
	require.NoError(t, err)
	require.NoError(t, engine.AddCondition(condition.KindReachedState, "C"))
	require.NoError(t, engine.SetGenerator(generator.KindShortestPath))
	return NewServer(engine, "test")
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestServer_Tools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleHasNext(ctx, call("has_next", nil))
	require.NoError(t, err)
	assert.Equal(t, "true", text(t, res))

	step, err := s.handleNextStep(ctx, call("next_step", nil), nil)
	require.NoError(t, err)
	assert.Equal(t, "e_enter", step.Label)
	assert.Equal(t, "B", step.Target)

	res, err = s.handleExecAction(ctx, call("exec_action", map[string]any{"script": "x = 4"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleDataValue(ctx, call("data_value", map[string]any{"name": "x"}))
	require.NoError(t, err)
	assert.Equal(t, "4", text(t, res))

	res, err = s.handleStatistics(ctx, call("statistics", map[string]any{"format": "compact"}))
	require.NoError(t, err)
	assert.Equal(t, "E:1/3 S:2/3 L:1", text(t, res))

	res, err = s.handleBacktrack(ctx, call("backtrack", nil))
	require.NoError(t, err)
	assert.Equal(t, "A/x=0;", text(t, res))
}

func TestServer_ToolErrors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	t.Run("Missing argument", func(t *testing.T) {
		res, err := s.handleDataValue(ctx, call("data_value", nil))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("Unbound variable", func(t *testing.T) {
		res, err := s.handleDataValue(ctx, call("data_value", map[string]any{"name": "nope"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("Unknown format", func(t *testing.T) {
		res, err := s.handleStatistics(ctx, call("statistics", map[string]any{"format": "fancy"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("Nothing to undo", func(t *testing.T) {
		res, err := s.handleBacktrack(ctx, call("backtrack", nil))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}

func TestServer_ModelResource(t *testing.T) {
	s := newTestServer(t)
	contents, err := s.readModel(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, ModelResourceURI, tc.URI)
	assert.Contains(t, tc.Text, "graph TD")
	assert.Contains(t, tc.Text, "class A current;")
}
