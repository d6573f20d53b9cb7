package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/mbt/internal/logging"
	"github.com/aretw0/mbt/internal/presentation/graph"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/machine"
	"github.com/aretw0/mbt/pkg/ports"
	"github.com/aretw0/mbt/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ModelResourceURI is the resource exposing the model as a Mermaid flowchart.
const ModelResourceURI = "mbt://model"

// Server wraps an engine and exposes the online operations as MCP tools.
// Engine access is serialised.
type Server struct {
	mu        sync.Mutex
	engine    ports.Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Engine, version string, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("mbt-mcp", version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE, until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("has_next",
		mcp.WithDescription("Report whether the generator will produce another test step."),
	), s.handleHasNext)

	s.mcpServer.AddTool(mcp.NewTool("next_step",
		mcp.WithDescription("Walk one transition and return it as a test step. The harness should perform the step's label against the system under test."),
		mcp.WithOutputSchema[domain.Step](),
	), mcp.NewStructuredToolHandler(s.handleNextStep))

	s.mcpServer.AddTool(mcp.NewTool("backtrack",
		mcp.WithDescription("Undo the most recent step, data space included, when the system under test could not perform it."),
	), s.handleBacktrack)

	s.mcpServer.AddTool(mcp.NewTool("statistics",
		mcp.WithDescription("Return the coverage statistics."),
		mcp.WithString("format", mcp.Description("plain (default), compact or verbose")),
	), s.handleStatistics)

	s.mcpServer.AddTool(mcp.NewTool("data_value",
		mcp.WithDescription("Return the value of a data space variable."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name")),
	), s.handleDataValue)

	s.mcpServer.AddTool(mcp.NewTool("exec_action",
		mcp.WithDescription("Evaluate a script in the data space and return its value, if any."),
		mcp.WithString("script", mcp.Required(), mcp.Description("Script or expression")),
	), s.handleExecAction)
}

func (s *Server) handleHasNext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mcp.NewToolResultText(fmt.Sprint(s.engine.HasNextStep())), nil
}

func (s *Server) handleNextStep(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.engine.HasNextStep() {
		return domain.Step{}, errors.New("generation is finished")
	}
	step, err := s.engine.NextStep()
	if err != nil {
		s.logger.Error("next_step failed", "err", err)
		return domain.Step{}, fmt.Errorf("next step failed: %w", err)
	}
	return step, nil
}

func (s *Server) handleBacktrack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.Backtrack(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if cs, ok := s.engine.(interface{ CurrentState() string }); ok {
		return mcp.NewToolResultText(cs.CurrentState()), nil
	}
	return mcp.NewToolResultText("ok"), nil
}

func (s *Server) handleStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := runner.ParseStatisticsFormat(request.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return mcp.NewToolResultText(runner.Statistics(s.engine, format)), nil
}

func (s *Server) handleDataValue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	value, err := s.engine.DataValue(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(value), nil
}

func (s *Server) handleExecAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	script, err := request.RequireString("script")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	value, err := s.engine.ExecAction(script)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(value), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ModelResourceURI, "Model graph with coverage",
		mcp.WithMIMEType("text/plain"),
	), s.readModel)
}

func (s *Server) readModel(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var overlay *graph.GraphOverlay
	if mp, ok := s.engine.(interface{ Machine() machine.Machine }); ok {
		overlay = graph.OverlayFrom(mp.Machine())
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ModelResourceURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.engine.Model(), overlay),
		},
	}, nil
}
