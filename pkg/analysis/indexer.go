package analysis

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/chatlens/chatlens/pkg/embeddings"
	"github.com/chatlens/chatlens/pkg/models"
	"github.com/chatlens/chatlens/pkg/vector"
)

// IndexerConfig contains configuration for the message indexer
type IndexerConfig struct {
	BatchSize      int
	MaxConcurrency int
}

// DefaultIndexerConfig returns default indexer configuration
func DefaultIndexerConfig() IndexerConfig {
	return IndexerConfig{
		BatchSize:      100,
		MaxConcurrency: 5,
	}
}

// MessageIndexer embeds parsed messages and stores them in the vector
// database so past uploads stay searchable.
type MessageIndexer struct {
	embedder       embeddings.Embedder
	store          vector.Client
	batchSize      int
	maxConcurrency int
}

// NewMessageIndexer creates a new message indexer
func NewMessageIndexer(store vector.Client, embedder embeddings.Embedder, config ...IndexerConfig) *MessageIndexer {
	cfg := DefaultIndexerConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return &MessageIndexer{
		embedder:       embedder,
		store:          store,
		batchSize:      cfg.BatchSize,
		maxConcurrency: cfg.MaxConcurrency,
	}
}

// indexStats tracks indexing progress across workers
type indexStats struct {
	mu      sync.Mutex
	indexed int
	skipped int
	failed  int
}

func (s *indexStats) add(indexed, skipped, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexed += indexed
	s.skipped += skipped
	s.failed += failed
}

// IndexMessages embeds and stores the message sequence under the given
// analysis ID. System messages and empty bodies are skipped. Per-message
// failures are counted and logged, not fatal; only context cancellation
// aborts the run.
func (ix *MessageIndexer) IndexMessages(ctx context.Context, analysisID string, messages []models.Message) error {
	batches := make(chan []models.Message, ix.maxConcurrency)
	stats := &indexStats{}

	var wg sync.WaitGroup
	for i := 0; i < ix.maxConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range batches {
				ix.indexBatch(ctx, analysisID, batch, stats)
			}
		}()
	}

	var err error
	for start := 0; start < len(messages); start += ix.batchSize {
		end := min(start+ix.batchSize, len(messages))
		select {
		case batches <- messages[start:end]:
		case <-ctx.Done():
			err = ctx.Err()
		}
		if err != nil {
			break
		}
	}

	close(batches)
	wg.Wait()

	log.Printf("indexed %d messages for analysis %s (%d skipped, %d failed)",
		stats.indexed, analysisID, stats.skipped, stats.failed)

	if err != nil {
		return fmt.Errorf("indexing interrupted: %w", err)
	}
	return nil
}

func (ix *MessageIndexer) indexBatch(ctx context.Context, analysisID string, batch []models.Message, stats *indexStats) {
	indexed := 0
	skipped := 0
	failed := 0

	for _, msg := range batch {
		if msg.IsSystem() || msg.Content == "" {
			skipped++
			continue
		}

		embedding, err := ix.embedder.Embed(ctx, msg.Content)
		if err != nil {
			failed++
			log.Printf("failed to embed message from %s: %v", msg.Author, err)
			continue
		}

		doc := vector.Document{
			ID:         uuid.New().String(),
			Content:    msg.Content,
			Embedding:  embedding,
			Author:     msg.Author,
			SentAt:     msg.Timestamp,
			Kind:       string(msg.Type),
			Attachment: msg.AttachmentInfo,
			AnalysisID: analysisID,
		}

		if err := ix.store.Store(ctx, doc); err != nil {
			failed++
			log.Printf("failed to store message from %s: %v", msg.Author, err)
			continue
		}
		indexed++
	}

	stats.add(indexed, skipped, failed)
}
