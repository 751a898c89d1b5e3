package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"docchunk/internal/chunker"
	"docchunk/internal/config"
)

type output struct {
	Texts []chunker.TextRecord `json:"texts"`
	Code  []chunker.CodeRecord `json:"code"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	size := flag.Int("size", cfg.ChunkSize, "target chunk size in characters")
	origin := flag.String("origin", cfg.DefaultOrigin, "origin attached to every record")
	gap := flag.String("gap", cfg.GapPolicy.String(), "gap policy: preserve or compact")
	startID := flag.Int64("start-id", 0, "first link identifier")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [file.md]\n\nReads stdin when no file is given.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	slog.SetDefault(cfg.NewLogger(os.Stderr))

	policy, err := chunker.ParseGapPolicy(*gap)
	if err != nil {
		log.Fatalf("Invalid -gap: %v", err)
	}

	input, name, err := readInput(flag.Args())
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	c := chunker.New(
		chunker.WithStartID(*startID),
		chunker.WithGapPolicy(policy),
		chunker.WithDefaultOrigin(*origin),
	)
	texts, codes, err := c.Chunk(string(input), "", *size)
	if err != nil {
		log.Fatalf("Failed to chunk %s: %v", name, err)
	}
	slog.Debug("Chunked document", "input", name, "text_records", len(texts), "code_records", len(codes))

	out := output{Texts: texts, Code: codes}
	if out.Texts == nil {
		out.Texts = []chunker.TextRecord{}
	}
	if out.Code == nil {
		out.Code = []chunker.CodeRecord{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

func readInput(args []string) ([]byte, string, error) {
	switch len(args) {
	case 0:
		b, err := io.ReadAll(os.Stdin)
		return b, "stdin", err
	case 1:
		b, err := os.ReadFile(args[0])
		return b, args[0], err
	default:
		return nil, "", fmt.Errorf("expected at most one file, got %d", len(args))
	}
}
