package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/aretw0/mbt/pkg/domain"
)

// Event types written by JSONHandler.
const (
	JSONEventStep    = "step"
	JSONEventSummary = "summary"
)

// JSONEvent is one line of JSONHandler output.
type JSONEvent struct {
	Type       string       `json:"type"`
	Index      int          `json:"index,omitempty"`
	Step       *domain.Step `json:"step,omitempty"`
	RunID      string       `json:"run_id,omitempty"`
	Steps      int          `json:"steps,omitempty"`
	Statistics string       `json:"statistics,omitempty"`
}

// JSONHandler writes the sequence as JSON Lines, one event per step and a
// final summary event.
type JSONHandler struct {
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler writing to w (stdout if nil).
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Step(_ context.Context, index int, step domain.Step) error {
	return h.Encoder.Encode(JSONEvent{Type: JSONEventStep, Index: index, Step: &step})
}

func (h *JSONHandler) Summary(_ context.Context, run *domain.Run) error {
	return h.Encoder.Encode(JSONEvent{
		Type:       JSONEventSummary,
		RunID:      run.ID,
		Steps:      len(run.Steps),
		Statistics: run.Statistics,
	})
}
