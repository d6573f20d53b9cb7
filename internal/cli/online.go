package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/mbt/internal/presentation/tui"
	httpAdapter "github.com/aretw0/mbt/pkg/adapters/http"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// Online serves one engine over HTTP until ctx is done.
func Online(ctx context.Context, opts RunOptions, addr, version string, stdout, stderr io.Writer) error {
	logger, err := CreateLogger(opts, stderr)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	hooks := domain.ChainHooks(metrics.Hooks(), debugHooks(opts, logger))

	engine, err := BuildEngine(ctx, opts, logger, hooks)
	if err != nil {
		return err
	}
	defer engine.Close()

	srv := &http.Server{
		Addr: addr,
		Handler: httpAdapter.NewHandler(engine,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithVersion(version),
			httpAdapter.WithMetrics(registry),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if opts.Pretty {
		tui.PrintBanner(stdout, version)
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Fprintf(stdout, "Serving model '%s' on %s\n", engine.Model().Name, srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		fmt.Fprintln(stdout, "Server stopped gracefully")
		return nil
	}
}
