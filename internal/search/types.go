package search

import "docchunk/internal/storage"

const (
	// DefaultK is the number of hits returned when the request leaves k unset.
	DefaultK = 5
	// MaxK caps the number of hits per request.
	MaxK = 20
)

// Request is a similarity search over stored records.
type Request struct {
	// Query is the free text to search for.
	Query string
	// K is the number of hits wanted. Zero means DefaultK.
	K int
	// Kind restricts hits to "text" or "code". Empty searches both.
	Kind string
}

// Hit is a matched record together with the records linked to it.
type Hit struct {
	// Kind is the kind of the matched record.
	Kind string
	// Score is the final ranking score.
	Score float32
	// VectorScore is the similarity reported by the vector store.
	VectorScore float32
	// LexicalScore is the query term overlap bonus.
	LexicalScore float32
	// DocumentID and Title identify the document the record came from.
	DocumentID string
	Title      string
	RelPath    string
	Origin     string
	// Text is the matched text record, or for a code hit its parent text record.
	// It is nil for a code block whose chunk held no text.
	Text *storage.TextRecord
	// Code holds the code blocks linked to a text hit, or the matched block of a code hit.
	Code []storage.CodeRecord
}
