package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	Weaviate WeaviateConfig
	Ollama   OllamaConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
}

// AnalysisConfig holds analysis pipeline configuration
type AnalysisConfig struct {
	ActivityWindowDays int
	EnrichTitles       bool
	Timezone           string // IANA name; empty means local time
}

// WeaviateConfig holds Weaviate-specific configuration. An empty host
// disables indexing and semantic search.
type WeaviateConfig struct {
	Scheme string
	Host   string
	APIKey string
}

// OllamaConfig holds Ollama-specific configuration. An empty recap model
// disables recap generation.
type OllamaConfig struct {
	URL            string
	RecapModel     string
	EmbeddingModel string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", ""),
		},
		Analysis: AnalysisConfig{
			ActivityWindowDays: getEnvInt("ACTIVITY_WINDOW_DAYS", 7),
			EnrichTitles:       getEnvBool("ENRICH_TITLES", false),
			Timezone:           getEnv("EXPORT_TIMEZONE", ""),
		},
		Weaviate: WeaviateConfig{
			Scheme: getEnv("WEAVIATE_SCHEME", "http"),
			Host:   getEnv("WEAVIATE_HOST", ""),
			APIKey: getEnv("WEAVIATE_API_KEY", ""),
		},
		Ollama: OllamaConfig{
			URL:            getEnv("OLLAMA_URL", "http://localhost:11434"),
			RecapModel:     getEnv("RECAP_MODEL", ""),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port != "" {
		port, err := strconv.Atoi(c.Server.Port)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid port: %s", c.Server.Port)
		}
	}

	if c.Analysis.ActivityWindowDays < 1 {
		return fmt.Errorf("ACTIVITY_WINDOW_DAYS must be at least 1")
	}

	if c.Weaviate.Scheme != "http" && c.Weaviate.Scheme != "https" {
		return fmt.Errorf("WEAVIATE_SCHEME must be http or https")
	}

	if c.Weaviate.Host != "" && c.Ollama.EmbeddingModel == "" {
		return fmt.Errorf("EMBEDDING_MODEL is required when WEAVIATE_HOST is set")
	}

	return nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a fallback default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a fallback default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
