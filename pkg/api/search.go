package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Search errors
var (
	ErrEmptyQuery   = errors.New("search query cannot be empty")
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")
)

// SearchRequest represents a semantic search over indexed messages
type SearchRequest struct {
	// Query is the search query text
	Query string `json:"query"`

	// Limit is the maximum number of results to return (default: 10, max: 100)
	Limit int `json:"limit,omitempty"`

	// AnalysisID restricts results to a single analysis when set
	AnalysisID string `json:"analysis_id,omitempty"`
}

// SearchResult represents a single matching message
type SearchResult struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	SentAt     time.Time `json:"sent_at"`
	Kind       string    `json:"kind"`
	Attachment string    `json:"attachment,omitempty"`
	AnalysisID string    `json:"analysis_id"`
}

// SearchResponse represents the search API response
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`

	// Query processing time in milliseconds
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// Validate validates the search request and applies defaults
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return ErrEmptyQuery
	}

	if r.Limit <= 0 {
		r.Limit = 10
	} else if r.Limit > 100 {
		r.Limit = 100
	}

	return nil
}

// handleSearch embeds the query text and runs vector similarity search
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.vectorClient == nil || s.embedder == nil {
		writeError(w, http.StatusServiceUnavailable, "search backend is not configured")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()

	embedding, err := s.embedder.Embed(r.Context(), req.Query)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to embed query")
		return
	}

	docs, err := s.vectorClient.Search(r.Context(), embedding, req.Limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	results := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		if req.AnalysisID != "" && doc.AnalysisID != req.AnalysisID {
			continue
		}
		results = append(results, SearchResult{
			ID:         doc.ID,
			Content:    doc.Content,
			Author:     doc.Author,
			SentAt:     doc.SentAt,
			Kind:       doc.Kind,
			Attachment: doc.Attachment,
			AnalysisID: doc.AnalysisID,
		})
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Results:          results,
		Count:            len(results),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}
