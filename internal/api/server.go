package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"supplychain/internal/actions"
)

// Server represents the HTTP front-end of the bridge
// Serves the form page, action endpoints, the descriptor directory, health and metrics
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	handler    http.Handler
	registry   *actions.Registry
	bridge     *actions.Bridge
	staticDir  string
	port       int
}

// NewServer creates a new API server instance
// staticDir is served under /build/ so the descriptor can be fetched by relative path; empty disables it
func NewServer(port int, registry *actions.Registry, bridge *actions.Bridge, staticDir string) *Server {
	mux := http.NewServeMux()
	handler := tracing(logging(mux))
	if bridge == nil {
		bridge = &actions.Bridge{}
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 2 * time.Minute, // sends wait for the receipt
			IdleTimeout:  60 * time.Second,
		},
		mux:       mux,
		handler:   handler,
		registry:  registry,
		bridge:    bridge,
		staticDir: staticDir,
		port:      port,
	}

	s.registerRoutes()

	return s
}

// Handler exposes the router with its middleware, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.handler
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", s.handleMetrics())

	// Action endpoints
	s.mux.HandleFunc("/actions/", s.handleActionRoutes)
	s.mux.HandleFunc("/products/", s.handleProductRoutes)

	if s.staticDir != "" {
		s.mux.Handle("/build/", http.StripPrefix("/build/", http.FileServer(http.Dir(s.staticDir))))
	}
}

// handleActionRoutes routes POST /actions/{name}
func (s *Server) handleActionRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/actions/"), "/")
	if name == "" || strings.Contains(name, "/") {
		s.sendError(w, "Endpoint not found", http.StatusNotFound)
		return
	}
	s.handleAction(w, r, name)
}

// handleProductRoutes routes GET /products/{id}
func (s *Server) handleProductRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/products/"), "/")
	if strings.Contains(id, "/") {
		s.sendError(w, "Endpoint not found", http.StatusNotFound)
		return
	}
	s.handleGetProduct(w, r, id)
}

// Start starts the HTTP server in a goroutine
// Returns immediately after starting the server
func (s *Server) Start() error {
	go func() {
		slog.Info("API server starting",
			"port", s.port,
			"actions", s.registry.Names(),
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("API server error", "error", err)
		}
	}()

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	return nil
}

// Shutdown gracefully shuts down the HTTP server
// Waits for active connections to close or context to timeout
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("API server shutting down...")
	return s.httpServer.Shutdown(ctx)
}
