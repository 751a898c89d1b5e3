package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docchunk/internal/chunker"
	"docchunk/internal/config"
	"docchunk/internal/embedding"
	"docchunk/internal/handlers"
	"docchunk/internal/http"
	"docchunk/internal/indexer"
	"docchunk/internal/search"
	"docchunk/internal/service"
	"docchunk/internal/source"
	"docchunk/internal/storage"
	"docchunk/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.RequireDocsPath(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	slog.SetDefault(cfg.NewLogger(os.Stdout))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath, "driver", storage.DriverName, "build", storage.BuildMode)

	documents := storage.NewDocumentRepo(db)
	records := storage.NewRecordRepo(db)

	// Continue numbering after the records already stored.
	startID, err := indexer.NextLinkID(ctx, records)
	if err != nil {
		log.Fatalf("Failed to seed link identifiers: %v", err)
	}
	c := chunker.New(
		chunker.WithStartID(startID),
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithGapPolicy(cfg.GapPolicy),
		chunker.WithDefaultOrigin(cfg.DefaultOrigin),
	)
	slog.Info("Chunker initialized", "start_id", startID, "chunk_size", cfg.ChunkSize, "gap_policy", cfg.GapPolicy.String())

	scanner, err := source.NewScanner(cfg.DocsPath)
	if err != nil {
		log.Fatalf("Failed to initialize scanner: %v", err)
	}

	pipelineOpts := []indexer.Option{
		indexer.WithWorkers(cfg.IndexWorkers),
		indexer.WithBaseOrigin(cfg.DefaultOrigin),
	}

	// Interfaces stay nil when vector indexing is disabled.
	var (
		embedder       embedding.Embedder
		vectorStore    vectorstore.VectorStore
		embeddingModel string
	)
	if cfg.VectorsEnabled() {
		qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		defer func() {
			_ = qdrantStore.Close()
		}()

		// Ensure collection exists with correct vector size
		if err := qdrantStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

		// Validate embedding client vector size (fail-fast)
		client := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
		if _, err := client.EmbedTexts(ctx, []string{"test"}); err != nil {
			log.Fatalf("Failed to validate embedding client: %v", err)
		}
		slog.Info("Embedding client validated", "model", cfg.EmbeddingModelName, "vector_size", cfg.QdrantVectorSize)

		embedder, vectorStore, embeddingModel = client, qdrantStore, cfg.EmbeddingModelName
		pipelineOpts = append(pipelineOpts, indexer.WithVectors(embedder, vectorStore, cfg.QdrantCollection))
	} else {
		slog.Info("Vector indexing disabled (QDRANT_URL not set)")
	}

	pipeline := indexer.NewPipeline(scanner, documents, records, c, pipelineOpts...)

	// Index runs stop when the server shuts down.
	indexRuns := handlers.NewIndexHandler(ctx, pipeline)

	router := http.NewRouter(&http.Deps{
		ChunkService:   service.NewChunkService(c),
		Index:          indexRuns,
		Stats:          pipeline,
		Searcher:       search.NewService(embedder, vectorStore, cfg.QdrantCollection, documents, records),
		Documents:      documents,
		Records:        records,
		DB:             db,
		VectorStore:    vectorStore,
		Collection:     cfg.QdrantCollection,
		EmbeddingModel: embeddingModel,
	})

	// Start indexing in background after router is ready. API requests get 409
	// until this run ends.
	slog.Info("Starting background indexing", "docs_path", cfg.DocsPath)
	indexRuns.Start(ctx, false)

	srv := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}
