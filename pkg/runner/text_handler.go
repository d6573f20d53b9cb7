package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/mbt/pkg/domain"
)

// ContentRenderer transforms the statistics report before it is printed.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// TextHandler prints each step as its transition label, followed by the reached
// state when ShowState is set, and the statistics report at the end.
type TextHandler struct {
	Writer    io.Writer
	Renderer  ContentRenderer
	ShowState bool
	Quiet     bool
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the statistics renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithStates prints the reached state below every label.
func WithStates(enabled bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.ShowState = enabled
	}
}

// WithoutSummary suppresses the statistics report.
func WithoutSummary() TextHandlerOption {
	return func(h *TextHandler) {
		h.Quiet = true
	}
}

// NewTextHandler creates a handler writing to w (stdout if nil).
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{Writer: w}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) Step(_ context.Context, _ int, step domain.Step) error {
	if _, err := fmt.Fprintln(h.Writer, step.Label); err != nil {
		return err
	}
	if h.ShowState {
		if _, err := fmt.Fprintln(h.Writer, step.State); err != nil {
			return err
		}
	}
	return nil
}

func (h *TextHandler) Summary(_ context.Context, run *domain.Run) error {
	if h.Quiet || run.Statistics == "" {
		return nil
	}
	output := run.Statistics
	if h.Renderer != nil {
		// A failing renderer falls back to the raw report.
		if rendered, err := h.Renderer(output); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimRight(output, "\n"))
	return err
}
