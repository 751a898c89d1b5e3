package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
)

// ChunkerVersion is the version identifier for the chunker implementation.
// Update this when chunking logic changes significantly.
const ChunkerVersion = "v2.0"

// IndexStats describes the current state of the index.
type IndexStats struct {
	// Documents is the number of indexed documents.
	Documents int `json:"documents"`
	// TextRecords is the number of stored text records.
	TextRecords int `json:"text_records"`
	// CodeRecords is the number of stored code records.
	CodeRecords int `json:"code_records"`
	// OrphanCodeRecords counts code records whose parent identifier has no text
	// record, i.e. blocks from chunks that were only code.
	OrphanCodeRecords int `json:"orphan_code_records"`
	// TextSize summarises text record length in characters.
	TextSize SizeStats `json:"text_size"`
	// ChunkSize is the configured target chunk size.
	ChunkSize int `json:"chunk_size"`
	// GapPolicy is the configured gap policy.
	GapPolicy string `json:"gap_policy"`
	// NextLinkID is the identifier the next text record will receive.
	NextLinkID int64 `json:"next_link_id"`
	// ChunkerVersion is the version of the chunker used.
	ChunkerVersion string `json:"chunker_version"`
	// IndexVersion is a hash identifying the index build (chunker + embedding model + params).
	IndexVersion string `json:"index_version"`
}

// SizeStats contains min, max, mean and 95th percentile of a set of sizes.
type SizeStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// Stats computes index statistics from the database. embeddingModelName is
// part of the index version and may be empty when vectors are disabled.
func (p *Pipeline) Stats(ctx context.Context, embeddingModelName string) (*IndexStats, error) {
	counts, err := p.records.CountStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	lengths, err := p.records.TextLengths(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get text lengths: %w", err)
	}

	return &IndexStats{
		Documents:         counts.Documents,
		TextRecords:       counts.TextRecords,
		CodeRecords:       counts.CodeRecords,
		OrphanCodeRecords: counts.OrphanCode,
		TextSize:          computeSizeStats(lengths),
		ChunkSize:         p.chunker.ChunkSize(),
		GapPolicy:         p.chunker.GapPolicy().String(),
		NextLinkID:        p.chunker.NextID(),
		ChunkerVersion:    ChunkerVersion,
		IndexVersion:      p.indexVersion(embeddingModelName),
	}, nil
}

// indexVersion hashes everything that changes the stored records or vectors.
func (p *Pipeline) indexVersion(embeddingModelName string) string {
	input := fmt.Sprintf("%s|%s|chunkSize=%d|gap=%s",
		ChunkerVersion, embeddingModelName, p.chunker.ChunkSize(), p.chunker.GapPolicy())
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16] // 16 hex chars = 64 bits
}

// computeSizeStats computes min, max, mean, and p95 from sizes.
func computeSizeStats(sizes []int) SizeStats {
	if len(sizes) == 0 {
		return SizeStats{}
	}

	sorted := make([]int, len(sizes))
	copy(sorted, sizes)
	sort.Ints(sorted)

	sum := 0
	for _, n := range sorted {
		sum += n
	}
	mean := float64(sum) / float64(len(sorted))

	// Nearest-rank percentile.
	rank := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if rank < 0 {
		rank = 0
	}

	return SizeStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[rank],
	}
}
