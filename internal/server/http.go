package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// HTTPServer serves the MCP streamable-http transport together with the
// health check endpoints on a single listener.
type HTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	healthChecker *HealthChecker
	httpServer    *http.Server
}

// NewHTTPServer creates an HTTP server wrapping the given MCP server.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer) *HTTPServer {
	return &HTTPServer{mcpServer: mcpSrv}
}

// SetHealthChecker attaches a health checker whose endpoints are served
// alongside the MCP endpoint.
func (s *HTTPServer) SetHealthChecker(h *HealthChecker) {
	s.healthChecker = h
}

// Start begins listening on addr and blocks until the server stops.
func (s *HTTPServer) Start(addr string) error {
	mux := http.NewServeMux()

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath("/mcp"),
	)
	mux.Handle("/mcp", streamable)

	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
