package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/mbt/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatisticsFormat(t *testing.T) {
	for in, want := range map[string]StatisticsFormat{
		"":        StatisticsPlain,
		"plain":   StatisticsPlain,
		"compact": StatisticsCompact,
		"verbose": StatisticsVerbose,
	} {
		got, err := ParseStatisticsFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseStatisticsFormat("fancy")
	assert.Error(t, err)
}

func TestTextHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	handler := NewTextHandler(out, WithStates(true))

	require.NoError(t, handler.Step(context.Background(), 1, domain.Step{Label: "e_enter", State: "B/x=0;"}))
	require.NoError(t, handler.Summary(context.Background(), &domain.Run{Statistics: "E:1/3 S:2/3 L:1\n"}))

	assert.Equal(t, "e_enter\nB/x=0;\nE:1/3 S:2/3 L:1\n", out.String())
}

func TestTextHandler_Renderer(t *testing.T) {
	t.Run("Rendered", func(t *testing.T) {
		out := &bytes.Buffer{}
		handler := NewTextHandler(out, WithTextHandlerRenderer(func(s string) (string, error) {
			return "Rendered: " + s, nil
		}))
		require.NoError(t, handler.Summary(context.Background(), &domain.Run{Statistics: "stats"}))
		assert.Equal(t, "Rendered: stats\n", out.String())
	})

	t.Run("Fallback", func(t *testing.T) {
		out := &bytes.Buffer{}
		handler := NewTextHandler(out, WithTextHandlerRenderer(func(string) (string, error) {
			return "", errors.New("boom")
		}))
		require.NoError(t, handler.Summary(context.Background(), &domain.Run{Statistics: "stats"}))
		assert.Equal(t, "stats\n", out.String())
	})
}

func TestJSONHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	handler := NewJSONHandler(out)

	step := domain.Step{Label: "a_b", TransitionID: "e0", Source: "A", Target: "B", State: "B"}
	require.NoError(t, handler.Step(context.Background(), 1, step))
	require.NoError(t, handler.Summary(context.Background(), &domain.Run{
		ID:         "run-1",
		Steps:      []domain.Step{step},
		Statistics: "E:1/1 S:2/2 L:1",
	}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first JSONEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, JSONEventStep, first.Type)
	assert.Equal(t, 1, first.Index)
	require.NotNil(t, first.Step)
	assert.Equal(t, step, *first.Step)

	var last JSONEvent
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &last))
	assert.Equal(t, JSONEventSummary, last.Type)
	assert.Equal(t, "run-1", last.RunID)
	assert.Equal(t, 1, last.Steps)
	assert.Equal(t, "E:1/1 S:2/2 L:1", last.Statistics)
}

func TestSignalManager_Lifecycle(t *testing.T) {
	sm := NewSignalManagerFrom(context.Background())
	ctx := sm.Context()
	require.NotNil(t, ctx)
	assert.NoError(t, ctx.Err())

	sm.Stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
