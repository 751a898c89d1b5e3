package handlers

import (
	"net/http"

	"docchunk/internal/contextutil"
	"docchunk/internal/search"
)

// SearchHandler handles similarity search requests.
type SearchHandler struct {
	searcher search.Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher search.Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// SearchRequest represents the HTTP request payload for search.
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	K     int    `json:"k,omitempty" validate:"gte=0"`
	Kind  string `json:"kind,omitempty" validate:"omitempty,oneof=text code"`
}

// SearchHitResponse is one ranked hit.
type SearchHitResponse struct {
	Kind         string               `json:"kind"`
	Score        float32              `json:"score"`
	VectorScore  float32              `json:"vector_score"`
	LexicalScore float32              `json:"lexical_score"`
	DocumentID   string               `json:"document_id"`
	Title        string               `json:"title,omitempty"`
	RelPath      string               `json:"rel_path,omitempty"`
	Origin       string               `json:"origin"`
	Text         *TextRecordResponse  `json:"text"`
	Code         []CodeRecordResponse `json:"code"`
}

// SearchResponse holds the ranked hits.
type SearchResponse struct {
	Hits []SearchHitResponse `json:"hits"`
}

// ServeHTTP handles POST /api/search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(ctx, w, err, "Invalid request")
		return
	}

	hits, err := h.searcher.Search(ctx, search.Request{
		Query: req.Query,
		K:     req.K,
		Kind:  req.Kind,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to search")
		return
	}

	resp := SearchResponse{Hits: make([]SearchHitResponse, 0, len(hits))}
	for _, hit := range hits {
		resp.Hits = append(resp.Hits, SearchHitResponse{
			Kind:         hit.Kind,
			Score:        hit.Score,
			VectorScore:  hit.VectorScore,
			LexicalScore: hit.LexicalScore,
			DocumentID:   hit.DocumentID,
			Title:        hit.Title,
			RelPath:      hit.RelPath,
			Origin:       hit.Origin,
			Text:         toTextResponse(hit.Text),
			Code:         toCodeResponses(hit.Code),
		})
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}
