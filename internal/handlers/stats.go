package handlers

import (
	"context"
	"net/http"

	"docchunk/internal/indexer"
)

// StatsSource computes index statistics.
type StatsSource interface {
	Stats(ctx context.Context, embeddingModelName string) (*indexer.IndexStats, error)
}

// StatsHandler serves index statistics.
type StatsHandler struct {
	source         StatsSource
	embeddingModel string
}

// NewStatsHandler creates a new StatsHandler. embeddingModel is empty when
// vector indexing is disabled.
func NewStatsHandler(source StatsSource, embeddingModel string) *StatsHandler {
	return &StatsHandler{source: source, embeddingModel: embeddingModel}
}

// ServeHTTP handles GET /api/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.source.Stats(ctx, h.embeddingModel)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to compute stats")
		return
	}
	writeJSON(ctx, w, http.StatusOK, stats)
}
