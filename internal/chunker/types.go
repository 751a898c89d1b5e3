package chunker

// Record types as they appear in the "type" field of serialized records.
const (
	RecordTypeText = "text"
	RecordTypeCode = "code"
)

// CodeBlock is a fenced code block found by ExtractCode.
type CodeBlock struct {
	Content  string `json:"content"`            // Raw payload between the fences
	Ordinal  int    `json:"ordinal"`            // Position among all code blocks of the document (starts at 0)
	Language string `json:"language,omitempty"` // Optional tag after the opening fence, "" when absent
}

// TextRecord is a cleaned text chunk with its link identifier.
type TextRecord struct {
	Type          string `json:"type"`
	Content       string `json:"content"`
	LinkID        int64  `json:"link_id"`
	NumCodeBlocks int    `json:"num_code_blocks"`
	Origin        string `json:"origin"`
}

// CodeRecord is a trimmed code block that points back at the text chunk it was
// extracted from through ParentLinkID.
type CodeRecord struct {
	Type         string `json:"type"`
	Content      string `json:"content"`
	ParentLinkID int64  `json:"parent_link_id"`
	Ordinal      int    `json:"ordinal"`
	Language     string `json:"language,omitempty"`
	Origin       string `json:"origin"`
}
