// Package embedding turns record text into vectors through an OpenAI-compatible
// embeddings endpoint (llama.cpp, vLLM, OpenAI).
package embedding

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks docchunk/internal/embedding Embedder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyInput is returned when EmbedTexts is called without texts.
var ErrEmptyInput = errors.New("empty input array")

// Embedder generates one vector per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Client is an Embedder backed by an OpenAI-compatible API.
type Client struct {
	Model        string
	ExpectedSize int // Expected vector size for validation
	client       *openai.Client
}

// NewClient creates a new embeddings client. baseURL is the server root; the
// /v1 prefix is added here. expectedSize comes from QDRANT_VECTOR_SIZE and every
// returned vector is validated against it.
func NewClient(baseURL, apiKey, model string, expectedSize int) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
	return &Client{
		Model:        model,
		ExpectedSize: expectedSize,
		client:       openai.NewClientWithConfig(cfg),
	}
}

// EmbedTexts generates embeddings for the given texts, in input order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(c.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	result := make([][]float32, len(texts))
	for i, data := range resp.Data {
		idx := data.Index
		if idx < 0 || idx >= len(texts) || result[idx] != nil {
			return nil, fmt.Errorf("embedding %d has invalid index %d", i, idx)
		}
		if len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", idx, len(data.Embedding), c.ExpectedSize)
		}
		result[idx] = data.Embedding
	}

	return result, nil
}
