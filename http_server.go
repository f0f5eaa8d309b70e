package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"loki-agent/internal/models"

	last9mcp "github.com/last9/mcp-go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HTTPServer wraps the MCP server for HTTP transport
type HTTPServer struct {
	server *last9mcp.Last9MCPServer
	config models.Config
}

// NewHTTPServer creates a new HTTP-based MCP server
func NewHTTPServer(server *last9mcp.Last9MCPServer, config models.Config) *HTTPServer {
	return &HTTPServer{
		server: server,
		config: config,
	}
}

// Handler returns the HTTP routes: the MCP endpoint on / and /mcp, plus /health.
func (h *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// Stateless handler: every request is served by the same MCP server, so
	// independent clients can call tools concurrently.
	httpHandler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return h.server.Server
	}, nil)

	mux.Handle("/", httpHandler)
	mux.Handle("/mcp", httpHandler)
	mux.HandleFunc("/health", h.handleHealth)
	return mux
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (h *HTTPServer) Start(ctx context.Context) error {
	addr := net.JoinHostPort(h.config.Host, h.config.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      h.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: h.config.RequestTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("MCP server listening", "addr", addr)

	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown requested, draining connections")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("HTTP server shutdown complete")

	if err := h.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("MCP server shutdown complete")
	return nil
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"server":  "loki-agent",
		"version": Version,
	})
}
