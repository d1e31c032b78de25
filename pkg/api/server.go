// Package api exposes the analysis pipeline over HTTP: export upload, report
// retrieval, semantic search and a websocket progress feed.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/chatlens/chatlens/pkg/analysis"
	"github.com/chatlens/chatlens/pkg/embeddings"
	"github.com/chatlens/chatlens/pkg/vector"
)

// Server represents the API server
type Server struct {
	service      *analysis.Service
	vectorClient vector.Client
	embedder     embeddings.Embedder
	hub          *ProgressHub
}

// NewServer creates a new API server wired to the analysis service. The
// server's progress hub is registered as the service's notifier.
func NewServer(service *analysis.Service) *Server {
	s := &Server{
		service: service,
		hub:     NewProgressHub(),
	}
	service.SetNotifier(s.hub)
	return s
}

// SetSearchBackend enables the semantic search endpoint. Without a backend
// the endpoint reports that search is not configured.
func (s *Server) SetSearchBackend(client vector.Client, embedder embeddings.Embedder) {
	s.vectorClient = client
	s.embedder = embedder
}

// Hub returns the websocket progress hub; the caller runs its loop.
func (s *Server) Hub() *ProgressHub { return s.hub }

// Router returns the HTTP handler for the server
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/analyses", s.handleAnalyses)
	mux.HandleFunc("/api/v1/analyses/", s.handleAnalysis)
	mux.HandleFunc("/api/v1/search", s.handleSearch)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s.withMiddleware(mux)
}

// withMiddleware wraps the handler with common middleware
func (s *Server) withMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// handleHealth returns the health status of the server
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "chatlens",
	})
}

// handleWebSocket upgrades the connection and attaches it to the progress hub
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
