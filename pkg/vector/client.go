// Package vector stores parsed chat messages in Weaviate for semantic search
// across past analyses.
package vector

import (
	"context"
	"fmt"
	"time"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const className = "ChatMessage"

// Document is one indexed chat message with its embedding
type Document struct {
	ID         string
	Content    string
	Embedding  []float32
	Author     string
	SentAt     time.Time
	Kind       string // text, attachment or system
	Attachment string
	AnalysisID string
}

// Client interface for vector database operations
type Client interface {
	// Initialize sets up the database schema
	Initialize(ctx context.Context) error

	// Store stores a document with its embedding
	Store(ctx context.Context, doc Document) error

	// Search performs a vector similarity search
	Search(ctx context.Context, query []float32, limit int) ([]Document, error)

	// Delete removes a document by ID
	Delete(ctx context.Context, id string) error

	// HealthCheck verifies the connection to the vector database
	HealthCheck(ctx context.Context) error
}

// WeaviateClient implements the Client interface for Weaviate
type WeaviateClient struct {
	client *weaviate.Client
	scheme string
	host   string
}

// NewWeaviateClient creates a new Weaviate client
func NewWeaviateClient(scheme, host, apiKey string) (*WeaviateClient, error) {
	if host == "" {
		return nil, fmt.Errorf("weaviate host cannot be empty")
	}

	cfg := weaviate.Config{
		Scheme: scheme,
		Host:   host,
	}
	if apiKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: apiKey}
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}

	return &WeaviateClient{
		client: client,
		scheme: scheme,
		host:   host,
	}, nil
}

// Initialize creates the ChatMessage class if it does not already exist
func (c *WeaviateClient) Initialize(ctx context.Context) error {
	exists, err := c.client.Schema().ClassExistenceChecker().
		WithClassName(className).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check class existence: %w", err)
	}
	if exists {
		return nil
	}

	classObj := &models.Class{
		Class:       className,
		Description: "A chat message parsed from a WhatsApp export",
		Properties: []*models.Property{
			{
				Name:        "content",
				DataType:    []string{"text"},
				Description: "The message body",
			},
			{
				Name:        "author",
				DataType:    []string{"string"},
				Description: "Display name of the sender",
			},
			{
				Name:        "sentAt",
				DataType:    []string{"date"},
				Description: "When the message was sent",
			},
			{
				Name:        "kind",
				DataType:    []string{"string"},
				Description: "Message classification: text, attachment or system",
			},
			{
				Name:        "attachment",
				DataType:    []string{"string"},
				Description: "Attachment classification when kind is attachment",
			},
			{
				Name:        "analysisId",
				DataType:    []string{"string"},
				Description: "The analysis this message belongs to",
			},
		},
		VectorIndexType: "hnsw",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
	}

	if err := c.client.Schema().ClassCreator().WithClass(classObj).Do(ctx); err != nil {
		return fmt.Errorf("failed to create class schema: %w", err)
	}

	return nil
}

// Store stores a message document in Weaviate
func (c *WeaviateClient) Store(ctx context.Context, doc Document) error {
	dataObj := map[string]interface{}{
		"content":    doc.Content,
		"author":     doc.Author,
		"sentAt":     doc.SentAt.Format(time.RFC3339),
		"kind":       doc.Kind,
		"attachment": doc.Attachment,
		"analysisId": doc.AnalysisID,
	}

	_, err := c.client.Data().Creator().
		WithClassName(className).
		WithID(doc.ID).
		WithProperties(dataObj).
		WithVector(doc.Embedding).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	return nil
}

// Search performs vector similarity search over indexed messages
func (c *WeaviateClient) Search(ctx context.Context, query []float32, limit int) ([]Document, error) {
	result, err := c.client.GraphQL().Get().
		WithClassName(className).
		WithFields(
			graphql.Field{Name: "content"},
			graphql.Field{Name: "author"},
			graphql.Field{Name: "sentAt"},
			graphql.Field{Name: "kind"},
			graphql.Field{Name: "attachment"},
			graphql.Field{Name: "analysisId"},
			graphql.Field{Name: "_additional", Fields: []graphql.Field{
				{Name: "id"},
			}},
		).
		WithNearVector(c.client.GraphQL().NearVectorArgBuilder().
			WithVector(query)).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	return parseSearchResults(result)
}

// Delete removes a document from Weaviate
func (c *WeaviateClient) Delete(ctx context.Context, id string) error {
	err := c.client.Data().Deleter().
		WithClassName(className).
		WithID(id).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

// HealthCheck verifies Weaviate connection
func (c *WeaviateClient) HealthCheck(ctx context.Context) error {
	ready, err := c.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return fmt.Errorf("weaviate health check failed: %w", err)
	}
	if !ready {
		return fmt.Errorf("weaviate is not ready")
	}

	return nil
}

// parseSearchResults converts a Weaviate GraphQL response to documents
func parseSearchResults(result *models.GraphQLResponse) ([]Document, error) {
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("graphql query failed: %s", result.Errors[0].Message)
	}

	get, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return []Document{}, nil
	}
	items, ok := get[className].([]interface{})
	if !ok {
		return []Document{}, nil
	}

	documents := make([]Document, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		doc := Document{
			Content:    stringField(obj, "content"),
			Author:     stringField(obj, "author"),
			Kind:       stringField(obj, "kind"),
			Attachment: stringField(obj, "attachment"),
			AnalysisID: stringField(obj, "analysisId"),
		}

		if raw := stringField(obj, "sentAt"); raw != "" {
			if ts, err := time.Parse(time.RFC3339, raw); err == nil {
				doc.SentAt = ts
			}
		}

		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			doc.ID = stringField(additional, "id")
		}

		documents = append(documents, doc)
	}

	return documents, nil
}

func stringField(obj map[string]interface{}, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}
