package cli

import (
	"context"
	"fmt"
	"io"

	mcpAdapter "github.com/aretw0/mbt/pkg/adapters/mcp"
)

// ServeMCP exposes one engine as MCP tools, over stdio or SSE.
func ServeMCP(ctx context.Context, opts RunOptions, transport string, port int, version string, stderr io.Writer) error {
	logger, err := CreateLogger(opts, stderr)
	if err != nil {
		return err
	}
	engine, err := BuildEngine(ctx, opts, logger, debugHooks(opts, logger))
	if err != nil {
		return err
	}
	defer engine.Close()

	srv := mcpAdapter.NewServer(engine, version, mcpAdapter.WithLogger(logger))
	switch transport {
	case "", "stdio":
		return srv.ServeStdio()
	case "sse":
		return srv.ServeSSE(ctx, port)
	}
	return fmt.Errorf("unknown transport '%s' (expected stdio or sse)", transport)
}
