// Package server provides the HTTP surfaces of Flappy Finger Bird: the
// launcher endpoint, run history and the spectator feed.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ayusman/fingerbird/internal/logger"
	"github.com/ayusman/fingerbird/internal/server/api"
	"github.com/ayusman/fingerbird/internal/store"
)

// Launcher starts a game process.
type Launcher interface {
	Launch() (int, error)
}

// Config holds the server configuration. Routes are only registered for the
// collaborators that are set.
type Config struct {
	StaticDir string
	Store     *store.Store
	Launcher  Launcher
	Hub       *Hub
	Logger    *zap.Logger
}

// Server represents the HTTP server.
type Server struct {
	config Config
	router chi.Router
	log    *zap.Logger
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		log:    logger.OrNop(config.Logger),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/api/health", s.handleHealth)

	if s.config.Launcher != nil {
		r.Get("/launch-game", s.handleLaunch)
	}

	if s.config.Store != nil {
		r.Mount("/api/runs", api.NewRunsHandler(s.config.Store).Routes())
	}

	if s.config.Hub != nil {
		r.Get("/api/live", s.config.Hub.ServeHTTP)
		r.Get("/api/stream", NewStreamHandler(s.config.Hub).ServeHTTP)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleLaunch handles GET /launch-game. Responses are plain text.
func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := s.config.Launcher.Launch(); err != nil {
		s.log.Error("launch failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "Error: %v", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "Game launched")
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// HTTPServer returns an http.Server for addr that can be shut down gracefully.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
