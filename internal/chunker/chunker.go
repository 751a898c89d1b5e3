// Package chunker splits markdown into bounded-size text records and the fenced code
// blocks found inside them, linked by a shared identifier.
package chunker

import (
	"fmt"
	"strings"

	"go.uber.org/atomic"
)

const (
	// DefaultChunkSize is the target chunk size in characters.
	DefaultChunkSize = 2000
	// DefaultOrigin is attached to records when the caller gives no origin.
	DefaultOrigin = "https://pydantic.com"
)

// GapPolicy decides what happens to the link identifier of a chunk that is empty
// once its markers are removed.
type GapPolicy int

const (
	// GapPreserve consumes the identifier anyway. No text record carries it, and the
	// chunk's code records point at it.
	GapPreserve GapPolicy = iota
	// GapCompact consumes no identifier and attaches the chunk's code blocks to the
	// neighbouring text record of the same document.
	GapCompact
)

// String returns the configuration name of the policy.
func (p GapPolicy) String() string {
	switch p {
	case GapPreserve:
		return "preserve"
	case GapCompact:
		return "compact"
	default:
		return fmt.Sprintf("GapPolicy(%d)", int(p))
	}
}

// ParseGapPolicy parses "preserve" or "compact". An empty string means GapPreserve.
func ParseGapPolicy(s string) (GapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preserve":
		return GapPreserve, nil
	case "compact":
		return GapCompact, nil
	default:
		return GapPreserve, fmt.Errorf("%w: %q", ErrInvalidGapPolicy, s)
	}
}

// Chunker turns markdown into linked text and code records. It owns the link
// identifier counter, so a process that needs identifiers unique across documents
// shares one Chunker. It is safe for concurrent use; every call receives a
// contiguous identifier range.
type Chunker struct {
	next      *atomic.Int64
	gap       GapPolicy
	origin    string
	chunkSize int
}

// Option customises a Chunker.
type Option func(*Chunker)

// WithStartID sets the first link identifier handed out. Negative values are ignored.
func WithStartID(id int64) Option {
	return func(c *Chunker) {
		if id >= 0 {
			c.next.Store(id)
		}
	}
}

// WithGapPolicy selects how chunks that hold only code blocks are numbered.
func WithGapPolicy(p GapPolicy) Option {
	return func(c *Chunker) {
		c.gap = p
	}
}

// WithDefaultOrigin sets the origin used when Chunk is called with an empty one.
func WithDefaultOrigin(origin string) Option {
	return func(c *Chunker) {
		if origin != "" {
			c.origin = origin
		}
	}
}

// WithChunkSize sets the size reported by ChunkSize for callers without their own.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// New creates a Chunker whose identifiers start at 0.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		next:      atomic.NewInt64(0),
		gap:       GapPreserve,
		origin:    DefaultOrigin,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NextID returns the identifier the next text record will receive.
func (c *Chunker) NextID() int64 {
	return c.next.Load()
}

// ChunkSize returns the configured default chunk size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// GapPolicy returns the configured gap policy.
func (c *Chunker) GapPolicy() GapPolicy {
	return c.gap
}

// Chunk extracts code blocks from text, splits the rest into chunks of about size
// characters and links every code block to the chunk it appeared in.
//
// Text records are returned in document order with consecutive link identifiers.
// Code records follow document order too, so their ParentLinkID never decreases.
// An empty origin is replaced by the default origin.
func (c *Chunker) Chunk(text, origin string, size int) ([]TextRecord, []CodeRecord, error) {
	substituted, blocks := ExtractCode(text)

	chunks, err := Split(substituted, size)
	if err != nil {
		return nil, nil, err
	}

	if origin == "" {
		origin = c.origin
	}

	linked := link(chunks, blocks)
	if c.gap == GapCompact {
		texts, codes := c.buildCompact(linked, origin)
		return texts, codes, nil
	}
	texts, codes := c.buildPreserve(linked, origin)
	return texts, codes, nil
}

// linkedChunk is a chunk with the code blocks that were inside it.
type linkedChunk struct {
	clean  string
	blocks []CodeBlock
}

// link walks chunks in order and hands each one as many code blocks as it has
// markers. Literal marker text in the source could ask for more blocks than remain,
// so the count is clamped.
func link(chunks []string, blocks []CodeBlock) []linkedChunk {
	linked := make([]linkedChunk, 0, len(chunks))
	ptr := 0
	for _, chunk := range chunks {
		n := min(strings.Count(chunk, Marker), len(blocks)-ptr)
		linked = append(linked, linkedChunk{
			clean:  strings.TrimSpace(strings.ReplaceAll(chunk, Marker, "")),
			blocks: blocks[ptr : ptr+n],
		})
		ptr += n
	}
	return linked
}

// reserve claims n consecutive identifiers and returns the first.
func (c *Chunker) reserve(n int) int64 {
	if n <= 0 {
		return c.next.Load()
	}
	return c.next.Add(int64(n)) - int64(n)
}

func (c *Chunker) buildPreserve(linked []linkedChunk, origin string) ([]TextRecord, []CodeRecord) {
	texts := make([]TextRecord, 0, len(linked))
	codes := make([]CodeRecord, 0)

	base := c.reserve(len(linked))
	for i, lc := range linked {
		id := base + int64(i)
		if lc.clean != "" {
			texts = append(texts, newTextRecord(lc.clean, id, len(lc.blocks), origin))
		}
		for _, block := range lc.blocks {
			codes = append(codes, newCodeRecord(block, id, origin))
		}
	}

	return texts, codes
}

func (c *Chunker) buildCompact(linked []linkedChunk, origin string) ([]TextRecord, []CodeRecord) {
	texts := make([]TextRecord, 0, len(linked))
	codes := make([]CodeRecord, 0)

	emitted, orphans := 0, 0
	for _, lc := range linked {
		if lc.clean != "" {
			emitted++
		} else {
			orphans += len(lc.blocks)
		}
	}
	if emitted == 0 && orphans > 0 {
		// Nothing to attach to; keep the blocks together under one identifier.
		emitted = 1
	}
	id := c.reserve(emitted)

	var pending []CodeBlock
	for _, lc := range linked {
		if lc.clean == "" {
			if len(texts) == 0 {
				pending = append(pending, lc.blocks...)
				continue
			}
			prev := &texts[len(texts)-1]
			prev.NumCodeBlocks += len(lc.blocks)
			for _, block := range lc.blocks {
				codes = append(codes, newCodeRecord(block, prev.LinkID, origin))
			}
			continue
		}

		own := append(pending, lc.blocks...)
		pending = nil
		texts = append(texts, newTextRecord(lc.clean, id, len(own), origin))
		for _, block := range own {
			codes = append(codes, newCodeRecord(block, id, origin))
		}
		id++
	}
	for _, block := range pending {
		codes = append(codes, newCodeRecord(block, id, origin))
	}

	return texts, codes
}

func newTextRecord(content string, id int64, numCode int, origin string) TextRecord {
	return TextRecord{
		Type:          RecordTypeText,
		Content:       content,
		LinkID:        id,
		NumCodeBlocks: numCode,
		Origin:        origin,
	}
}

func newCodeRecord(block CodeBlock, parent int64, origin string) CodeRecord {
	return CodeRecord{
		Type:         RecordTypeCode,
		Content:      strings.TrimSpace(block.Content),
		ParentLinkID: parent,
		Ordinal:      block.Ordinal,
		Language:     block.Language,
		Origin:       origin,
	}
}
