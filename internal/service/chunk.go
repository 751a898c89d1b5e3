package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunker.go -package=mocks docchunk/internal/service Chunker
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_service.go -package=mocks -mock_names=ChunkService=MockChunkService docchunk/internal/service ChunkService

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"docchunk/internal/chunker"
	"docchunk/internal/contextutil"
)

// Chunker produces linked records from markdown.
// This interface is defined from the service layer's perspective (consumer-first).
type Chunker interface {
	// Chunk splits text into text and code records.
	Chunk(text, origin string, size int) ([]chunker.TextRecord, []chunker.CodeRecord, error)
	// ChunkSize returns the size used when a request carries none.
	ChunkSize() int
}

// ChunkRequest represents a chunk request in the domain layer.
// A nil Size means the chunker's configured size.
type ChunkRequest struct {
	Text   string
	Origin string
	Size   *int
}

// ChunkResponse holds the records of one document.
type ChunkResponse struct {
	Texts []chunker.TextRecord
	Code  []chunker.CodeRecord
}

// ExtractRequest asks for the code blocks of a document without chunking it.
type ExtractRequest struct {
	Text string
}

// ExtractResponse holds the substituted text and the blocks removed from it.
type ExtractResponse struct {
	Text   string
	Blocks []chunker.CodeBlock
}

// ChunkService provides chunking functionality to the transports.
type ChunkService interface {
	// Chunk chunks a single document.
	Chunk(ctx context.Context, req ChunkRequest) (ChunkResponse, error)
	// ExtractCode replaces fenced code blocks with placeholders.
	ExtractCode(ctx context.Context, req ExtractRequest) (ExtractResponse, error)
}

type chunkService struct {
	chunker Chunker
}

// NewChunkService creates a new ChunkService.
func NewChunkService(c Chunker) ChunkService {
	return &chunkService{chunker: c}
}

// Chunk validates the request and chunks the text.
func (s *chunkService) Chunk(ctx context.Context, req ChunkRequest) (ChunkResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	size := s.chunker.ChunkSize()
	if req.Size != nil {
		size = *req.Size
	}
	if size <= 0 {
		logger.WarnContext(ctx, "invalid chunk size in request", "size", size)
		return ChunkResponse{}, &ValidationError{
			Field:   "size",
			Message: fmt.Sprintf("must be greater than 0, got %d", size),
		}
	}

	texts, codes, err := s.chunker.Chunk(req.Text, req.Origin, size)
	if err != nil {
		if errors.Is(err, chunker.ErrInvalidChunkSize) {
			return ChunkResponse{}, &ValidationError{Field: "size", Message: err.Error()}
		}
		logger.ErrorContext(ctx, "failed to chunk text", "error", err)
		return ChunkResponse{}, WrapError(err, "failed to chunk text")
	}

	logger.InfoContext(ctx, "chunk request processed successfully",
		"text_length", utf8.RuneCountInString(req.Text),
		"size", size,
		"text_records", len(texts),
		"code_records", len(codes),
	)
	return ChunkResponse{Texts: texts, Code: codes}, nil
}

// ExtractCode runs code extraction only. It never fails.
func (s *chunkService) ExtractCode(ctx context.Context, req ExtractRequest) (ExtractResponse, error) {
	text, blocks := chunker.ExtractCode(req.Text)
	if blocks == nil {
		blocks = []chunker.CodeBlock{}
	}
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "extracted code blocks", "blocks", len(blocks))
	return ExtractResponse{Text: text, Blocks: blocks}, nil
}
