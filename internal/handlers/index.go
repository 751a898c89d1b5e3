package handlers

import (
	"context"
	"net/http"

	"go.uber.org/atomic"

	"docchunk/internal/contextutil"
)

// Indexer re-indexes the docs root.
type Indexer interface {
	IndexAll(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// IndexHandler runs index passes in the background, one at a time. It serves
// POST /api/index and also runs the pass started at boot.
type IndexHandler struct {
	indexer Indexer
	// base bounds every run; cancelling it stops a run in progress.
	base    context.Context
	running atomic.Bool

	// done is called when a background run finishes. Tests use it to wait.
	done func()
}

// NewIndexHandler creates a new IndexHandler whose runs derive from ctx.
func NewIndexHandler(ctx context.Context, indexer Indexer) *IndexHandler {
	return &IndexHandler{indexer: indexer, base: ctx, done: func() {}}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Start launches a background run, clearing the index first when force is set.
// It returns false without doing anything if a run is already in progress.
// The run logs with the logger carried by ctx but is bounded by the handler's
// base context, not by ctx.
func (h *IndexHandler) Start(ctx context.Context, force bool) bool {
	if !h.running.CompareAndSwap(false, true) {
		return false
	}

	logger := contextutil.LoggerFromContext(ctx)
	runCtx := contextutil.WithLogger(h.base, logger)
	go func() {
		defer h.done()
		defer h.running.Store(false)

		if force {
			if err := h.indexer.ClearAll(runCtx); err != nil {
				logger.ErrorContext(runCtx, "failed to clear existing data", "error", err)
				return
			}
			logger.InfoContext(runCtx, "cleared all existing indexed data")
		}
		if err := h.indexer.IndexAll(runCtx); err != nil {
			logger.ErrorContext(runCtx, "indexing completed with errors", "error", err)
		} else {
			logger.InfoContext(runCtx, "indexing completed successfully")
		}
	}()
	return true
}

// Running reports whether a run is in progress.
func (h *IndexHandler) Running() bool {
	return h.running.Load()
}

// ServeHTTP handles POST /api/index. With ?force=true the index is cleared first.
// Only one run is allowed at a time; a request during a run gets 409.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	force := r.URL.Query().Get("force") == "true"

	if !h.Start(ctx, force) {
		writeError(w, http.StatusConflict, "Indexing already in progress")
		return
	}

	if force {
		logger.InfoContext(ctx, "force re-indexing triggered via API")
	} else {
		logger.InfoContext(ctx, "re-indexing triggered via API")
	}

	message := "Indexing started. Check server logs for progress."
	if force {
		message = "Force re-indexing started (all existing data cleared). Check server logs for progress."
	}
	writeJSON(ctx, w, http.StatusAccepted, IndexResponse{
		Message: message,
		Status:  "accepted",
	})
}
