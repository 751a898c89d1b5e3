package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks docchunk/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// GetByRelPath gets a document by its relative path.
	// Returns nil and ErrNotFound if not found.
	GetByRelPath(ctx context.Context, relPath string) (*Document, error)
	// GetByID gets a document by ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Document, error)
	// List returns all documents ordered by relative path.
	List(ctx context.Context) ([]Document, error)
	// Upsert inserts a new document or updates an existing one.
	Upsert(ctx context.Context, doc *Document) error
	// Delete removes a document and, by cascade, its records.
	Delete(ctx context.Context, id string) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

const documentColumns = "id, rel_path, folder, title, origin, hash, chunk_size, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var (
		doc       Document
		title     sql.NullString
		updatedAt string
	)
	if err := row.Scan(&doc.ID, &doc.RelPath, &doc.Folder, &title, &doc.Origin, &doc.Hash, &doc.ChunkSize, &updatedAt); err != nil {
		return nil, err
	}
	doc.Title = title.String

	var err error
	doc.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}
	return &doc, nil
}

// GetByRelPath gets a document by its relative path.
// Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) GetByRelPath(ctx context.Context, relPath string) (*Document, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE rel_path = ?", relPath)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// GetByID gets a document by ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*Document, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// List returns all documents ordered by relative path.
// Returns an empty slice if there are none.
func (r *DocumentRepo) List(ctx context.Context) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+documentColumns+" FROM documents ORDER BY rel_path")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return docs, nil
}

// Upsert inserts a new document or updates an existing one.
// If no document exists at doc.RelPath, a new UUID is generated unless doc.ID is set.
// If it exists, its ID is preserved and the remaining fields are updated.
// doc.UpdatedAt is set to the current time.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *Document) error {
	existing, err := r.GetByRelPath(ctx, doc.RelPath)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	if existing != nil {
		doc.ID = existing.ID
	} else if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (`+documentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (rel_path) DO UPDATE SET
		 folder = excluded.folder, title = excluded.title, origin = excluded.origin,
		 hash = excluded.hash, chunk_size = excluded.chunk_size, updated_at = excluded.updated_at`,
		doc.ID, doc.RelPath, doc.Folder, doc.Title, doc.Origin, doc.Hash, doc.ChunkSize,
		doc.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// Delete removes a document. Returns ErrNotFound if it does not exist.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
