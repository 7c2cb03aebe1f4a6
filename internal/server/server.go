// Package server provides the HTTP server for leapmedia.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/leapmedia/internal/server/api"
	"github.com/ayusman/leapmedia/internal/store"
)

// Controller is the application surface the server exposes.
type Controller interface {
	api.StatusSource
	api.Toggler
}

// Config holds the server configuration.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Controller Controller
	Hands      *Broadcaster
	HUD        Encoder

	// Stats, when set, supplies the pipeline counters shown by /api/health.
	Stats func() any
}

// Server represents the HTTP server for the leapmedia application.
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

	if s.config.Store != nil {
		events := api.NewEventHandler(s.config.Store)
		s.mux.Handle("/api/events", events)
		s.mux.Handle("/api/events/", events)
	}

	if s.config.Controller != nil {
		s.mux.Handle("/api/state", api.NewStateHandler(s.config.Controller))
		s.mux.Handle("/api/settings/enabled", api.NewSettingsHandler(s.config.Controller))

		if s.config.HUD != nil {
			s.mux.Handle("/api/stream", NewStreamHandler(s.config.Controller, s.config.HUD, 0))
		}
	}

	if s.config.Hands != nil {
		s.mux.Handle("/api/hands", s.config.Hands)
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

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	}
	if s.config.Hands != nil {
		response["clients"] = s.config.Hands.Clients()
	}
	if s.config.Stats != nil {
		response["stats"] = s.config.Stats()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
