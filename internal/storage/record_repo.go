package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_record_store.go -package=mocks docchunk/internal/storage RecordStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// RecordStore defines the interface for text and code record storage.
type RecordStore interface {
	// ReplaceForDocument deletes the document's records and inserts the new ones
	// in a single transaction. Code records without an ID get a new UUID.
	ReplaceForDocument(ctx context.Context, documentID string, texts []TextRecord, codes []CodeRecord) error
	// ListTextByDocument returns the document's text records in document order.
	ListTextByDocument(ctx context.Context, documentID string) ([]TextRecord, error)
	// ListCodeByDocument returns the document's code records in document order.
	ListCodeByDocument(ctx context.Context, documentID string) ([]CodeRecord, error)
	// GetText gets a text record by link identifier. Returns ErrNotFound if not found.
	GetText(ctx context.Context, linkID int64) (*TextRecord, error)
	// ListCodeByParent returns the code records linked to linkID, in order.
	ListCodeByParent(ctx context.Context, linkID int64) ([]CodeRecord, error)
	// MaxLinkID returns the highest link identifier in use, or -1 when there is none.
	MaxLinkID(ctx context.Context) (int64, error)
	// CountStats counts documents and records.
	CountStats(ctx context.Context) (*RecordStats, error)
	// TextLengths returns the length in characters of every text record.
	TextLengths(ctx context.Context) ([]int, error)
}

// RecordRepo provides methods for record operations.
// It implements the RecordStore interface.
type RecordRepo struct {
	db *sql.DB
}

// NewRecordRepo creates a new RecordRepo.
func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// ReplaceForDocument deletes the document's records and inserts the new ones.
// Used when re-indexing a document.
func (r *RecordRepo) ReplaceForDocument(ctx context.Context, documentID string, texts []TextRecord, codes []CodeRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM text_records WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to delete text records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM code_records WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to delete code records: %w", err)
	}

	for i := range texts {
		t := &texts[i]
		t.DocumentID = documentID
		_, err := tx.ExecContext(ctx,
			"INSERT INTO text_records (link_id, document_id, position, content, num_code_blocks, origin) VALUES (?, ?, ?, ?, ?, ?)",
			t.LinkID, t.DocumentID, t.Position, t.Content, t.NumCodeBlocks, t.Origin,
		)
		if err != nil {
			return fmt.Errorf("failed to insert text record %d: %w", t.LinkID, err)
		}
	}

	for i := range codes {
		c := &codes[i]
		c.DocumentID = documentID
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO code_records (id, document_id, parent_link_id, ordinal, language, content, origin) VALUES (?, ?, ?, ?, ?, ?, ?)",
			c.ID, c.DocumentID, c.ParentLinkID, c.Ordinal, c.Language, c.Content, c.Origin,
		)
		if err != nil {
			return fmt.Errorf("failed to insert code record %d: %w", c.Ordinal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

const (
	textColumns = "link_id, document_id, position, content, num_code_blocks, origin"
	codeColumns = "id, document_id, parent_link_id, ordinal, language, content, origin"
)

func (r *RecordRepo) queryText(ctx context.Context, query string, args ...any) ([]TextRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query text records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []TextRecord{}
	for rows.Next() {
		var t TextRecord
		if err := rows.Scan(&t.LinkID, &t.DocumentID, &t.Position, &t.Content, &t.NumCodeBlocks, &t.Origin); err != nil {
			return nil, fmt.Errorf("failed to scan text record: %w", err)
		}
		records = append(records, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

func (r *RecordRepo) queryCode(ctx context.Context, query string, args ...any) ([]CodeRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query code records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []CodeRecord{}
	for rows.Next() {
		var c CodeRecord
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.ParentLinkID, &c.Ordinal, &c.Language, &c.Content, &c.Origin); err != nil {
			return nil, fmt.Errorf("failed to scan code record: %w", err)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

// ListTextByDocument returns the document's text records ordered by position.
// Returns an empty slice if there are none (not an error).
func (r *RecordRepo) ListTextByDocument(ctx context.Context, documentID string) ([]TextRecord, error) {
	return r.queryText(ctx, "SELECT "+textColumns+" FROM text_records WHERE document_id = ? ORDER BY position", documentID)
}

// ListCodeByDocument returns the document's code records ordered by ordinal.
func (r *RecordRepo) ListCodeByDocument(ctx context.Context, documentID string) ([]CodeRecord, error) {
	return r.queryCode(ctx, "SELECT "+codeColumns+" FROM code_records WHERE document_id = ? ORDER BY ordinal", documentID)
}

// GetText gets a text record by link identifier. Returns ErrNotFound if not found.
func (r *RecordRepo) GetText(ctx context.Context, linkID int64) (*TextRecord, error) {
	var t TextRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT "+textColumns+" FROM text_records WHERE link_id = ?", linkID,
	).Scan(&t.LinkID, &t.DocumentID, &t.Position, &t.Content, &t.NumCodeBlocks, &t.Origin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query text record: %w", err)
	}
	return &t, nil
}

// ListCodeByParent returns the code records linked to linkID ordered by ordinal.
// This works for gap identifiers too, which have code records but no text record.
func (r *RecordRepo) ListCodeByParent(ctx context.Context, linkID int64) ([]CodeRecord, error) {
	return r.queryCode(ctx, "SELECT "+codeColumns+" FROM code_records WHERE parent_link_id = ? ORDER BY ordinal", linkID)
}

// MaxLinkID returns the highest link identifier referenced by any record, or -1.
// Code records are included because a gap identifier appears only there.
func (r *RecordRepo) MaxLinkID(ctx context.Context) (int64, error) {
	var maxID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(
			COALESCE((SELECT MAX(link_id) FROM text_records), -1),
			COALESCE((SELECT MAX(parent_link_id) FROM code_records), -1)
		)`,
	).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to query max link id: %w", err)
	}
	return maxID, nil
}

// CountStats counts documents, records and orphaned code records.
func (r *RecordRepo) CountStats(ctx context.Context) (*RecordStats, error) {
	var stats RecordStats
	err := r.db.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM text_records),
			(SELECT COUNT(*) FROM code_records),
			(SELECT COUNT(*) FROM code_records c
			 WHERE NOT EXISTS (SELECT 1 FROM text_records t WHERE t.link_id = c.parent_link_id))`,
	).Scan(&stats.Documents, &stats.TextRecords, &stats.CodeRecords, &stats.OrphanCode)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	return &stats, nil
}

// TextLengths returns the character length of every text record.
func (r *RecordRepo) TextLengths(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT length(content) FROM text_records ORDER BY link_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query text lengths: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	lengths := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan text length: %w", err)
		}
		lengths = append(lengths, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lengths, nil
}
