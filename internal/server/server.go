// Package server provides the HTTP surface of the drawVSAI game: REST
// endpoints, the state WebSocket and the MJPEG streams.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/amechi-aduba/drawVSAI-react/internal/app"
	"github.com/amechi-aduba/drawVSAI-react/internal/server/api"
	"github.com/amechi-aduba/drawVSAI-react/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the drawVSAI application.
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
		categoryHandler := api.NewCategoryHandler(s.config.Store)
		s.mux.Handle("/api/categories", categoryHandler)
		s.mux.Handle("/api/categories/", categoryHandler)
	}

	if s.config.App != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App.Camera()))
		s.mux.Handle("/api/canvas", NewCanvasStreamHandler(s.config.App.Canvas()))
		s.mux.Handle("/api/state", NewStateHandler(s.config.App))
		s.mux.HandleFunc("/api/game", s.handleGameState)
		s.mux.HandleFunc("/api/game/reset", s.handleGameReset)
	}

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

// handleGameState handles GET /api/game and returns the round snapshot.
func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.config.App.Engine().Snapshot())
}

type gameResetRequest struct {
	Target string `json:"target"`
}

// handleGameReset handles POST /api/game/reset. An optional target word
// fixes the next round's target instead of drawing one at random.
func (s *Server) handleGameReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req gameResetRequest
	if r.Body != nil {
		// An empty body means a random target.
		json.NewDecoder(r.Body).Decode(&req)
	}

	engine := s.config.App.Engine()
	if req.Target != "" {
		engine.StartRoundWith(req.Target)
	} else {
		engine.StartRound()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(engine.Snapshot())
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
