// Package indexer keeps the SQLite records (and optionally the Qdrant vectors)
// in sync with the markdown files under the docs root.
package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"docchunk/internal/chunker"
	"docchunk/internal/contextutil"
	"docchunk/internal/embedding"
	"docchunk/internal/source"
	"docchunk/internal/storage"
	"docchunk/internal/vectorstore"
)

// Pipeline orchestrates the indexing of markdown files into SQLite and Qdrant.
type Pipeline struct {
	scanner    *source.Scanner
	documents  storage.DocumentStore
	records    storage.RecordStore
	chunker    *chunker.Chunker
	baseOrigin string
	workers    int

	// Vector indexing is skipped when either is nil.
	embedder    embedding.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithVectors enables embedding records into collection.
func WithVectors(embedder embedding.Embedder, store vectorstore.VectorStore, collection string) Option {
	return func(p *Pipeline) {
		p.embedder = embedder
		p.vectorStore = store
		p.collection = collection
	}
}

// WithWorkers sets how many files are indexed concurrently. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithBaseOrigin sets the origin prefix of indexed documents. A document's origin
// is the base followed by its relative path.
func WithBaseOrigin(origin string) Option {
	return func(p *Pipeline) {
		p.baseOrigin = origin
	}
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(
	scanner *source.Scanner,
	documents storage.DocumentStore,
	records storage.RecordStore,
	c *chunker.Chunker,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		scanner:    scanner,
		documents:  documents,
		records:    records,
		chunker:    c,
		baseOrigin: chunker.DefaultOrigin,
		workers:    1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// VectorsEnabled reports whether records are embedded into the vector store.
func (p *Pipeline) VectorsEnabled() bool {
	return p.embedder != nil && p.vectorStore != nil
}

// NextLinkID returns the identifier a fresh chunker should start from so that new
// records never reuse an identifier already stored.
func NextLinkID(ctx context.Context, records storage.RecordStore) (int64, error) {
	maxID, err := records.MaxLinkID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read max link id: %w", err)
	}
	return maxID + 1, nil
}

// DocumentOrigin joins the base origin and a relative path.
func DocumentOrigin(base, relPath string) string {
	if base == "" {
		return relPath
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(relPath, "/")
}

// IndexFile indexes a single markdown file. It reports skipped when the file
// and chunk size are unchanged since the last run.
//
// The document hash is written last, so a run that fails half-way is retried.
func (p *Pipeline) IndexFile(ctx context.Context, file source.ScannedFile) (skipped bool, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	content, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return false, fmt.Errorf("failed to read file %s: %w", file.AbsPath, err)
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])
	chunkSize := p.chunker.ChunkSize()

	existing, err := p.documents.GetByRelPath(ctx, file.RelPath)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("failed to check existing document: %w", err)
	}

	if existing != nil && existing.Hash == hash && existing.ChunkSize == chunkSize {
		logger.DebugContext(ctx, "skipping unchanged file", "rel_path", file.RelPath, "hash", hash)
		return true, nil
	}

	doc := &storage.Document{
		RelPath:   file.RelPath,
		Folder:    file.Folder,
		Title:     ExtractTitle(content, file.RelPath),
		Origin:    DocumentOrigin(p.baseOrigin, file.RelPath),
		ChunkSize: chunkSize,
	}
	if err := p.documents.Upsert(ctx, doc); err != nil {
		return false, fmt.Errorf("failed to upsert document: %w", err)
	}

	if existing != nil && p.VectorsEnabled() {
		if err := p.deleteVectors(ctx, doc.ID); err != nil {
			// New points overwrite most old ones; only a shrinking document leaves strays.
			logger.WarnContext(ctx, "failed to delete old vectors", "rel_path", file.RelPath, "error", err)
		}
	}

	texts, codes, err := p.chunker.Chunk(string(content), doc.Origin, chunkSize)
	if err != nil {
		return false, fmt.Errorf("failed to chunk %s: %w", file.RelPath, err)
	}

	textRows, codeRows := toStorageRecords(doc.ID, texts, codes)
	if err := p.records.ReplaceForDocument(ctx, doc.ID, textRows, codeRows); err != nil {
		return false, fmt.Errorf("failed to store records: %w", err)
	}

	if p.VectorsEnabled() {
		if err := p.embedRecords(ctx, doc.ID, textRows, codeRows); err != nil {
			return false, err
		}
	}

	doc.Hash = hash
	if err := p.documents.Upsert(ctx, doc); err != nil {
		return false, fmt.Errorf("failed to record document hash: %w", err)
	}

	logger.InfoContext(ctx, "indexed document",
		"rel_path", file.RelPath,
		"title", doc.Title,
		"text_records", len(textRows),
		"code_records", len(codeRows),
	)
	return false, nil
}

// IndexAll scans the docs root and indexes every markdown file with up to the
// configured number of workers. Documents whose file is gone are removed.
// Errors for individual files are logged but don't stop the indexing process.
func (p *Pipeline) IndexAll(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := p.scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan docs: %w", err)
	}

	logger.InfoContext(ctx, "starting indexing", "total_files", len(files), "workers", p.workers)

	var indexed, skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			wasSkipped, err := p.IndexFile(gctx, file)
			switch {
			case err != nil:
				failed.Inc()
				logger.ErrorContext(gctx, "failed to index file", "rel_path", file.RelPath, "error", err)
			case wasSkipped:
				skipped.Inc()
			default:
				indexed.Inc()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	removed, err := p.pruneMissing(ctx, files)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "indexing completed",
		"total_files", len(files),
		"indexed", indexed.Load(),
		"skipped", skipped.Load(),
		"removed", removed,
		"errors", failed.Load(),
	)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("indexing completed with %d errors", n)
	}
	return nil
}

// ClearAll removes every document, its records and its vectors.
func (p *Pipeline) ClearAll(ctx context.Context) error {
	docs, err := p.documents.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	for _, doc := range docs {
		if err := p.removeDocument(ctx, doc.ID); err != nil {
			return err
		}
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "cleared index", "documents", len(docs))
	return nil
}

func (p *Pipeline) pruneMissing(ctx context.Context, files []source.ScannedFile) (int, error) {
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		seen[f.RelPath] = struct{}{}
	}

	docs, err := p.documents.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list documents: %w", err)
	}

	removed := 0
	for _, doc := range docs {
		if _, ok := seen[doc.RelPath]; ok {
			continue
		}
		if err := p.removeDocument(ctx, doc.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (p *Pipeline) removeDocument(ctx context.Context, documentID string) error {
	if p.VectorsEnabled() {
		if err := p.deleteVectors(ctx, documentID); err != nil {
			return err
		}
	}
	if err := p.documents.Delete(ctx, documentID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}
	return nil
}

// deleteVectors removes the points of the records currently stored for the document.
func (p *Pipeline) deleteVectors(ctx context.Context, documentID string) error {
	texts, err := p.records.ListTextByDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to list text records: %w", err)
	}
	codes, err := p.records.ListCodeByDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to list code records: %w", err)
	}

	ids := make([]string, 0, len(texts)+len(codes))
	for _, t := range texts {
		ids = append(ids, vectorstore.TextPointID(t.LinkID))
	}
	for _, c := range codes {
		ids = append(ids, vectorstore.CodePointID(c.ID))
	}
	if err := p.vectorStore.Delete(ctx, p.collection, ids); err != nil {
		return fmt.Errorf("failed to delete vectors: %w", err)
	}
	return nil
}

// embedRecords embeds text and code records in one batch and upserts the points.
func (p *Pipeline) embedRecords(ctx context.Context, documentID string, texts []storage.TextRecord, codes []storage.CodeRecord) error {
	n := len(texts) + len(codes)
	if n == 0 {
		return nil
	}

	inputs := make([]string, 0, n)
	for _, t := range texts {
		inputs = append(inputs, t.Content)
	}
	for _, c := range codes {
		inputs = append(inputs, c.Content)
	}

	vectors, err := p.embedder.EmbedTexts(ctx, inputs)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vectors) != n {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", n, len(vectors))
	}

	points := make([]vectorstore.Point, 0, n)
	for i, t := range texts {
		points = append(points, vectorstore.Point{
			ID:  vectorstore.TextPointID(t.LinkID),
			Vec: vectors[i],
			Payload: vectorstore.Payload{
				Kind:       vectorstore.KindText,
				LinkID:     t.LinkID,
				DocumentID: documentID,
				Origin:     t.Origin,
				Ordinal:    t.Position,
			},
		})
	}
	for i, c := range codes {
		points = append(points, vectorstore.Point{
			ID:  vectorstore.CodePointID(c.ID),
			Vec: vectors[len(texts)+i],
			Payload: vectorstore.Payload{
				Kind:       vectorstore.KindCode,
				LinkID:     c.ParentLinkID,
				CodeID:     c.ID,
				DocumentID: documentID,
				Origin:     c.Origin,
				Ordinal:    c.Ordinal,
			},
		})
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}
	return nil
}

var codeIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("docchunk/code"))

// toStorageRecords converts chunker output into rows. Code record IDs are derived
// from the document and block ordinal, so they are stable across re-indexing.
func toStorageRecords(documentID string, texts []chunker.TextRecord, codes []chunker.CodeRecord) ([]storage.TextRecord, []storage.CodeRecord) {
	textRows := make([]storage.TextRecord, len(texts))
	for i, t := range texts {
		textRows[i] = storage.TextRecord{
			LinkID:        t.LinkID,
			DocumentID:    documentID,
			Position:      i,
			Content:       t.Content,
			NumCodeBlocks: t.NumCodeBlocks,
			Origin:        t.Origin,
		}
	}

	codeRows := make([]storage.CodeRecord, len(codes))
	for i, c := range codes {
		codeRows[i] = storage.CodeRecord{
			ID:           uuid.NewSHA1(codeIDNamespace, []byte(documentID+":"+strconv.Itoa(c.Ordinal))).String(),
			DocumentID:   documentID,
			ParentLinkID: c.ParentLinkID,
			Ordinal:      c.Ordinal,
			Language:     c.Language,
			Content:      c.Content,
			Origin:       c.Origin,
		}
	}
	return textRows, codeRows
}
