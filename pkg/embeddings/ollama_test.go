package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Input != "hello" {
			t.Errorf("unexpected input %q", req.Input)
		}
		_ = json.NewEncoder(w).Encode(embedResponse{
			Model:      req.Model,
			Embeddings: [][]float32{{0.1, 0.2, 0.3}},
		})
	}))
	defer srv.Close()

	embedder := NewOllamaEmbedder(srv.URL, "nomic-embed-text")
	got, err := embedder.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3-dimensional embedding, got %d", len(got))
	}
}

func TestEmbedEmptyText(t *testing.T) {
	embedder := NewOllamaEmbedder("http://localhost:11434", "nomic-embed-text")
	if _, err := embedder.Embed(context.Background(), ""); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestEmbedNoEmbeddings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: nil})
	}))
	defer srv.Close()

	embedder := NewOllamaEmbedder(srv.URL, "nomic-embed-text")
	if _, err := embedder.Embed(context.Background(), "hello"); err == nil {
		t.Error("expected error when server returns no embeddings")
	}
}
