package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"docchunk/internal/chunker"
	"docchunk/internal/config"
	"docchunk/internal/contextutil"
	"docchunk/internal/mcp"
	"docchunk/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Stdout carries the protocol.
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, logger)

	c := chunker.New(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithGapPolicy(cfg.GapPolicy),
		chunker.WithDefaultOrigin(cfg.DefaultOrigin),
	)

	server := mcp.NewServer(service.NewChunkService(c))
	slog.Info("Starting MCP server", "name", mcp.ServerName, "version", mcp.ServerVersion,
		"chunk_size", cfg.ChunkSize, "gap_policy", cfg.GapPolicy.String())

	if err := server.Serve(ctx); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}
}
