// Package api implements the serve mode: an HTTP server that streams
// FileEvents over WebSocket and accepts review decisions back.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sprite-ai/watchdiff/internal/event"
	"github.com/sprite-ai/watchdiff/internal/review"
)

// Server exposes the event stream and review state over HTTP.
type Server struct {
	addr   string
	root   string
	mux    *http.ServeMux
	server *http.Server
	logger *slog.Logger

	mu      sync.Mutex
	session *review.Session
	clients map[*client]bool
}

// New creates a server rooted at the watched directory. Events flow after
// Attach.
func New(addr, root string) *Server {
	s := &Server{
		addr:    addr,
		root:    root,
		logger:  slog.Default().With("component", "api"),
		session: review.NewSession(),
		clients: make(map[*client]bool),
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/sessions", s.handleSessions)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// Attach consumes the pipeline's events, adding each to the review session
// and broadcasting it to connected clients. It returns when the channel
// closes.
func (s *Server) Attach(events <-chan event.FileEvent) {
	for fe := range events {
		s.mu.Lock()
		s.session.AddChange(fe)
		for c := range s.clients {
			c.enqueue(wsMsgFileEvent, fe)
		}
		s.mu.Unlock()
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("serve mode listening", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := s.session.ReviewStats()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":      stats,
		"completion": stats.CompletionPercentage(),
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := review.ListSessions(s.root)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": ids})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
