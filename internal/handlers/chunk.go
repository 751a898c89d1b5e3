package handlers

import (
	"net/http"

	"docchunk/internal/chunker"
	"docchunk/internal/contextutil"
	"docchunk/internal/service"
)

// ChunkHandler handles HTTP requests that chunk a single markdown document.
type ChunkHandler struct {
	chunkService service.ChunkService
}

// NewChunkHandler creates a new ChunkHandler.
func NewChunkHandler(chunkService service.ChunkService) *ChunkHandler {
	return &ChunkHandler{chunkService: chunkService}
}

// ChunkRequest represents the HTTP request payload for chunking.
type ChunkRequest struct {
	Text   string `json:"text"`
	Origin string `json:"origin,omitempty"`
	// Size overrides the configured chunk size when present.
	Size *int `json:"size,omitempty" validate:"omitnil,gt=0"`
}

// ChunkResponse holds the text and code records of the document.
type ChunkResponse struct {
	Texts []chunker.TextRecord `json:"texts"`
	Code  []chunker.CodeRecord `json:"code"`
}

// ExtractRequest represents the HTTP request payload for code extraction.
type ExtractRequest struct {
	Text string `json:"text"`
}

// ExtractResponse holds the text with placeholders and the removed blocks.
type ExtractResponse struct {
	Text   string              `json:"text"`
	Blocks []chunker.CodeBlock `json:"blocks"`
}

// ServeHTTP handles POST /api/chunk.
func (h *ChunkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChunkRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(ctx, w, err, "Invalid request")
		return
	}

	svcResp, err := h.chunkService.Chunk(ctx, service.ChunkRequest{
		Text:   req.Text,
		Origin: req.Origin,
		Size:   req.Size,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to chunk document")
		return
	}

	resp := ChunkResponse{
		Texts: svcResp.Texts,
		Code:  svcResp.Code,
	}
	if resp.Texts == nil {
		resp.Texts = []chunker.TextRecord{}
	}
	if resp.Code == nil {
		resp.Code = []chunker.CodeRecord{}
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Extract handles POST /api/extract.
func (h *ChunkHandler) Extract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ExtractRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(ctx, w, err, "Invalid request")
		return
	}

	svcResp, err := h.chunkService.ExtractCode(ctx, service.ExtractRequest{Text: req.Text})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to extract code")
		return
	}

	writeJSON(ctx, w, http.StatusOK, ExtractResponse{
		Text:   svcResp.Text,
		Blocks: svcResp.Blocks,
	})
}
