package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docchunk/internal/vectorstore VectorStore

import (
	"context"
	"strconv"

	"github.com/google/uuid"
)

// Record kinds stored in the "kind" payload field.
const (
	KindText = "text"
	KindCode = "code"
)

// Payload is the metadata stored with every point.
type Payload struct {
	Kind       string
	LinkID     int64  // link_id for text points, parent_link_id for code points
	CodeID     string // code record ID, code points only
	DocumentID string
	Origin     string
	Ordinal    int // position in the document for text, block ordinal for code
}

// Point represents a vector point with its payload.
type Point struct {
	ID      string
	Vec     []float32
	Payload Payload
}

// Filter narrows a search. Empty fields match everything.
type Filter struct {
	Kind   string
	Origin string
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Payload Payload
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search with optional filters.
	Search(ctx context.Context, collection string, query []float32, k int, filter Filter) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}

var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("docchunk/records"))

// TextPointID returns the point ID of the text record with linkID.
// IDs are name-based UUIDs, so re-indexing overwrites instead of duplicating.
func TextPointID(linkID int64) string {
	return uuid.NewSHA1(pointNamespace, []byte(KindText+":"+strconv.FormatInt(linkID, 10))).String()
}

// CodePointID returns the point ID of the code record with codeID.
func CodePointID(codeID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(KindCode+":"+codeID)).String()
}
