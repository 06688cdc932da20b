// Package server provides the HTTP server for the Pixxel dashboard and API.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/parsaforughi/pixxel-age-filter/internal/server/api"
	"github.com/parsaforughi/pixxel-age-filter/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Live      *LiveHandler
	Stream    *StreamHandler
}

// Server represents the HTTP server for the Pixxel application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register REST API handlers if Store is configured
	if s.config.Store != nil {
		sessionsHandler := api.NewSessionsHandler(s.config.Store)
		readingsHandler := api.NewReadingsHandler(s.config.Store)

		// Use a wrapper to route between sessions and readings handlers
		sessionRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check if this is a readings request: /api/sessions/{id}/readings
			if strings.HasSuffix(r.URL.Path, "/readings") {
				readingsHandler.ServeHTTP(w, r)
				return
			}
			sessionsHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/sessions", sessionRouter)
		s.mux.Handle("/api/sessions/", sessionRouter)

		settingsHandler := api.NewSettingsHandler(s.config.Store)
		s.mux.Handle("/api/settings", settingsHandler)
		s.mux.Handle("/api/settings/", settingsHandler)
	}

	// Register live result WebSocket endpoint if a handler is configured
	if s.config.Live != nil {
		s.mux.Handle("/api/live", s.config.Live)
	}

	// Register camera preview endpoint if a handler is configured
	if s.config.Stream != nil {
		s.mux.Handle("/api/stream", s.config.Stream)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
