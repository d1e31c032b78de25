package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatlens/chatlens/internal/config"
	"github.com/chatlens/chatlens/pkg/analysis"
	"github.com/chatlens/chatlens/pkg/api"
	"github.com/chatlens/chatlens/pkg/embeddings"
	"github.com/chatlens/chatlens/pkg/recap"
	"github.com/chatlens/chatlens/pkg/vector"
)

func main() {
	// Initialize logger
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting ChatLens server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	loc := time.Local
	if cfg.Analysis.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Analysis.Timezone)
		if err != nil {
			log.Fatalf("Invalid EXPORT_TIMEZONE: %v", err)
		}
	}

	service := analysis.NewService(analysis.ServiceConfig{
		ActivityWindowDays: cfg.Analysis.ActivityWindowDays,
		EnrichTitles:       cfg.Analysis.EnrichTitles,
		Location:           loc,
	})

	server := api.NewServer(service)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Hub().Run(ctx)

	// Recap generation is optional; enabled by RECAP_MODEL
	if cfg.Ollama.RecapModel != "" {
		recapClient := recap.NewClient(cfg.Ollama.URL, cfg.Ollama.RecapModel)
		if err := recapClient.Ping(ctx); err != nil {
			log.Printf("Warning: Ollama not reachable at %s: %v", cfg.Ollama.URL, err)
		}
		service.SetRecapGenerator(recapClient)
		log.Printf("Recap generation enabled with model %s", cfg.Ollama.RecapModel)
	}

	// Indexing and semantic search are optional; enabled by WEAVIATE_HOST
	if cfg.Weaviate.Host != "" {
		vectorClient, err := vector.NewWeaviateClient(
			cfg.Weaviate.Scheme,
			cfg.Weaviate.Host,
			cfg.Weaviate.APIKey,
		)
		if err != nil {
			log.Fatalf("Failed to create Weaviate client: %v", err)
		}
		if err := vectorClient.Initialize(ctx); err != nil {
			log.Fatalf("Failed to initialize Weaviate schema: %v", err)
		}

		embedder := embeddings.NewOllamaEmbedder(cfg.Ollama.URL, cfg.Ollama.EmbeddingModel)
		service.SetIndexer(analysis.NewMessageIndexer(vectorClient, embedder))
		server.SetSearchBackend(vectorClient, embedder)
		log.Printf("Message indexing enabled against %s", cfg.Weaviate.Host)
	}

	// Setup HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
