package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"docchunk/internal/chunker"
)

// Config holds all configuration for the application.
type Config struct {
	DocsPath      string
	DBPath        string
	ChunkSize     int
	DefaultOrigin string
	GapPolicy     chunker.GapPolicy
	IndexWorkers  int
	APIPort       string
	LogLevel      slog.Level
	LogFormat     string

	// Vector indexing is enabled only when QdrantURL is set.
	QdrantURL          string
	QdrantCollection   string
	QdrantVectorSize   int
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string
}

// VectorsEnabled reports whether records should be embedded into Qdrant.
func (c *Config) VectorsEnabled() bool {
	return c.QdrantURL != ""
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or one of its parents, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load() // current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		DocsPath:           getEnv("DOCS_PATH", ""),
		DBPath:             getEnv("DB_PATH", "./data/docchunk.db"),
		DefaultOrigin:      getEnv("DEFAULT_ORIGIN", chunker.DefaultOrigin),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		QdrantURL:          getEnv("QDRANT_URL", ""),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "docchunks"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", "dummy-key"),
	}

	if cfg.ChunkSize, err = positiveInt("CHUNK_SIZE", chunker.DefaultChunkSize); err != nil {
		return nil, err
	}
	if cfg.IndexWorkers, err = positiveInt("INDEX_WORKERS", 4); err != nil {
		return nil, err
	}

	cfg.GapPolicy, err = chunker.ParseGapPolicy(getEnv("GAP_POLICY", "preserve"))
	if err != nil {
		return nil, fmt.Errorf("GAP_POLICY: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	// The vector size must match the output of the embeddings model. Changing it
	// requires recreating the Qdrant collection.
	if cfg.VectorsEnabled() {
		vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
		if vectorSizeStr == "" {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required when QDRANT_URL is set")
		}
		vectorSize, err := strconv.Atoi(vectorSizeStr)
		if err != nil {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
		}
		if vectorSize <= 0 {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
		}
		cfg.QdrantVectorSize = vectorSize
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// RequireDocsPath validates the settings only the indexing server needs.
func (c *Config) RequireDocsPath() error {
	if c.DocsPath == "" {
		return fmt.Errorf("DOCS_PATH is required")
	}
	info, err := os.Stat(c.DocsPath)
	if err != nil {
		return fmt.Errorf("DOCS_PATH is not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("DOCS_PATH must be a directory: %s", c.DocsPath)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func positiveInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}

// NewLogger builds the slog logger selected by LogLevel and LogFormat.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: c.LogLevel,
	}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
