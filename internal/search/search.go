// Package search answers similarity queries over the stored records and
// resolves each hit back to its linked text and code.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"docchunk/internal/contextutil"
	"docchunk/internal/embedding"
	"docchunk/internal/service"
	"docchunk/internal/storage"
	"docchunk/internal/vectorstore"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_searcher.go -package=mocks docchunk/internal/search Searcher

// Searcher runs similarity searches.
type Searcher interface {
	Search(ctx context.Context, req Request) ([]Hit, error)
	// Available reports whether the vector backend is configured.
	Available() bool
}

// Service implements Searcher on top of the embeddings client, the vector store
// and SQLite.
type Service struct {
	embedder    embedding.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	documents   storage.DocumentStore
	records     storage.RecordStore
}

// NewService creates a search service. embedder and vectorStore may be nil, in
// which case every search fails with service.ErrUnavailable.
func NewService(
	embedder embedding.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	documents storage.DocumentStore,
	records storage.RecordStore,
) *Service {
	return &Service{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		documents:   documents,
		records:     records,
	}
}

// Available reports whether vector search is configured.
func (s *Service) Available() bool {
	return s.embedder != nil && s.vectorStore != nil
}

// Search embeds the query, searches the vector store and hydrates the hits from
// SQLite. Hits are ranked by vector score plus a lexical overlap bonus.
func (s *Service) Search(ctx context.Context, req Request) ([]Hit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if !s.Available() {
		return nil, service.ErrUnavailable
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, &service.ValidationError{Field: "query", Message: "query is required"}
	}
	if req.Kind != "" && req.Kind != vectorstore.KindText && req.Kind != vectorstore.KindCode {
		return nil, &service.ValidationError{Field: "kind", Message: "kind must be text or code"}
	}

	k := req.K
	if k < 0 {
		return nil, &service.ValidationError{Field: "k", Message: "k must not be negative"}
	}
	if k == 0 {
		k = DefaultK
	}
	if k > MaxK {
		k = MaxK
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		return nil, fmt.Errorf("failed to embed query: %w: %w", service.ErrExternalService, err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	// Over-fetch so the lexical re-rank has room to reorder.
	results, err := s.vectorStore.Search(ctx, s.collection, embeddings[0], k*2, vectorstore.Filter{Kind: req.Kind})
	if err != nil {
		logger.ErrorContext(ctx, "failed to search vector store", "error", err)
		return nil, fmt.Errorf("failed to search vector store: %w: %w", service.ErrExternalService, err)
	}

	logger.InfoContext(ctx, "vector search completed", "results_count", len(results), "k_requested", k)

	seen := make(map[string]bool, len(results))
	titles := make(map[string]*storage.Document)
	hits := make([]Hit, 0, len(results))
	for _, result := range results {
		if seen[result.PointID] {
			continue
		}
		seen[result.PointID] = true

		hit, err := s.hydrate(ctx, result)
		if errors.Is(err, storage.ErrNotFound) {
			// Point left behind by a document that changed since.
			logger.WarnContext(ctx, "skipping stale search result", "point_id", result.PointID)
			continue
		}
		if err != nil {
			return nil, err
		}

		doc, ok := titles[hit.DocumentID]
		if !ok {
			doc, err = s.documents.GetByID(ctx, hit.DocumentID)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("failed to get document: %w", err)
			}
			titles[hit.DocumentID] = doc
		}
		if doc != nil {
			hit.Title = doc.Title
			hit.RelPath = doc.RelPath
		}

		hit.LexicalScore = lexicalScore(query, hitContent(hit), hit.Title)
		hit.Score = hit.VectorScore + hit.LexicalScore
		hits = append(hits, hit)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// hydrate loads the records behind a search result. It returns storage.ErrNotFound
// when the matched record no longer exists.
func (s *Service) hydrate(ctx context.Context, result vectorstore.SearchResult) (Hit, error) {
	p := result.Payload
	hit := Hit{
		Kind:        p.Kind,
		VectorScore: result.Score,
		DocumentID:  p.DocumentID,
		Origin:      p.Origin,
	}

	switch p.Kind {
	case vectorstore.KindText:
		text, err := s.records.GetText(ctx, p.LinkID)
		if errors.Is(err, storage.ErrNotFound) {
			return Hit{}, err
		}
		if err != nil {
			return Hit{}, fmt.Errorf("failed to get text record: %w", err)
		}
		code, err := s.records.ListCodeByParent(ctx, p.LinkID)
		if err != nil {
			return Hit{}, fmt.Errorf("failed to list linked code: %w", err)
		}
		hit.Text = text
		hit.Code = code

	case vectorstore.KindCode:
		siblings, err := s.records.ListCodeByParent(ctx, p.LinkID)
		if err != nil {
			return Hit{}, fmt.Errorf("failed to list code records: %w", err)
		}
		for _, c := range siblings {
			if c.ID == p.CodeID {
				hit.Code = []storage.CodeRecord{c}
				break
			}
		}
		if hit.Code == nil {
			return Hit{}, storage.ErrNotFound
		}
		text, err := s.records.GetText(ctx, p.LinkID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return Hit{}, fmt.Errorf("failed to get parent text: %w", err)
		}
		hit.Text = text

	default:
		return Hit{}, fmt.Errorf("unknown record kind %q", p.Kind)
	}

	return hit, nil
}

// hitContent is the text the lexical score is computed on.
func hitContent(hit Hit) string {
	if hit.Kind == vectorstore.KindCode {
		return hit.Code[0].Content
	}
	return hit.Text.Content
}
