package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docchunk/internal/handlers"
	"docchunk/internal/search"
	"docchunk/internal/service"
	"docchunk/internal/storage"
	"docchunk/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChunkService service.ChunkService
	// Index runs index passes; the same handler runs the startup pass.
	Index        *handlers.IndexHandler
	Stats        handlers.StatsSource
	Searcher     search.Searcher
	Documents    storage.DocumentStore
	Records      storage.RecordStore
	DB           handlers.Pinger

	// VectorStore is nil when vector indexing is disabled.
	VectorStore    vectorstore.VectorStore
	Collection     string
	EmbeddingModel string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	chunkHandler := handlers.NewChunkHandler(deps.ChunkService)
	documentHandler := handlers.NewDocumentHandler(deps.Documents, deps.Records)
	recordHandler := handlers.NewRecordHandler(deps.Documents, deps.Records)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chunk", chunkHandler)
		r.Post("/extract", chunkHandler.Extract)
		r.Method(http.MethodPost, "/index", deps.Index)
		r.Method(http.MethodPost, "/search", handlers.NewSearchHandler(deps.Searcher))

		r.Get("/documents", documentHandler.List)
		r.Get("/documents/{id}/records", documentHandler.Records)
		r.Get("/records/{linkID}", recordHandler.Get)
		r.Get("/records/{linkID}/html", recordHandler.HTML)

		r.Method(http.MethodGet, "/stats", handlers.NewStatsHandler(deps.Stats, deps.EmbeddingModel))
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB, deps.VectorStore, deps.Collection))
	})

	return r
}
