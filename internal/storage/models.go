package storage

import "time"

// Document is an indexed markdown file.
type Document struct {
	ID        string // UUID
	RelPath   string // Relative path from the docs root, forward slashes
	Folder    string // Directory part of RelPath, "" at the root
	Title     string // First H1, else first H2, else file name
	Origin    string // Origin attached to the document's records
	Hash      string // SHA256 hex string of file content
	ChunkSize int    // Chunk size the records were produced with
	UpdatedAt time.Time
}

// TextRecord is a stored text chunk. LinkID is unique across the database.
type TextRecord struct {
	LinkID        int64
	DocumentID    string
	Position      int // Order within the document (starts at 0)
	Content       string
	NumCodeBlocks int
	Origin        string
}

// CodeRecord is a stored code block.
type CodeRecord struct {
	ID           string // UUID
	DocumentID   string
	ParentLinkID int64
	Ordinal      int // Order among the document's code blocks (starts at 0)
	Language     string
	Content      string
	Origin       string
}

// RecordStats summarises the stored records.
type RecordStats struct {
	Documents   int
	TextRecords int
	CodeRecords int
	// OrphanCode counts code records whose parent link identifier has no text record.
	OrphanCode int
}
