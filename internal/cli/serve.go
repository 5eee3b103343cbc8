package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/mathpad/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPHandler exposes the runtime's engine and metrics over HTTP.
func NewHTTPHandler(rt *Runtime) http.Handler {
	return httpAdapter.NewHandler(rt.Engine,
		httpAdapter.WithLogger(rt.Logger),
		httpAdapter.WithMetricsHandler(promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{})),
	)
}

// Serve runs the HTTP API on port until SIGINT/SIGTERM, then shuts down gracefully.
func Serve(rt *Runtime, port int) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: NewHTTPHandler(rt),
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		rt.Logger.Info("Starting mathpad server", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-sigCtx.Done():
		rt.Logger.Info("Start shutdown", "signal", sigCtx.Signal())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			rt.Logger.Warn("Graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		rt.Logger.Info("mathpad server stopped gracefully")
		return nil
	}
}
