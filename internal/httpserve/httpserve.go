// Package httpserve runs an MCP server over HTTP, exposing both the SSE
// and the streamable transports, with graceful shutdown.
package httpserve

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hsinyulu/mcp-playground/internal/log"
)

const shutdownTimeout = 5 * time.Second

// Serve blocks until ctx is cancelled or the listener fails. Each
// incoming MCP connection gets the server returned by getServer, so a
// factory can hand out per-connection state if it wants to.
//
// Routes: /sse for the SSE transport, /mcp for the streamable HTTP
// transport, /healthz for liveness probes.
func Serve(ctx context.Context, addr string, getServer func(*http.Request) *mcp.Server, logger log.Logger) error {
	if logger == nil {
		logger = log.NewNop()
	}

	mux := http.NewServeMux()
	mux.Handle("/sse", mcp.NewSSEHandler(getServer, nil))
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(getServer, nil))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "sse", "/sse", "streamable", "/mcp")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
