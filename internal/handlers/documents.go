package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"docchunk/internal/storage"
)

// DocumentHandler lists indexed documents and their records.
type DocumentHandler struct {
	documents storage.DocumentStore
	records   storage.RecordStore
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documents storage.DocumentStore, records storage.RecordStore) *DocumentHandler {
	return &DocumentHandler{documents: documents, records: records}
}

// DocumentResponse describes an indexed document.
type DocumentResponse struct {
	ID        string `json:"id"`
	RelPath   string `json:"rel_path"`
	Folder    string `json:"folder"`
	Title     string `json:"title"`
	Origin    string `json:"origin"`
	ChunkSize int    `json:"chunk_size"`
	UpdatedAt string `json:"updated_at"`
}

// TextRecordResponse is a stored text record.
type TextRecordResponse struct {
	LinkID        int64  `json:"link_id"`
	Position      int    `json:"position"`
	Content       string `json:"content"`
	NumCodeBlocks int    `json:"num_code_blocks"`
	Origin        string `json:"origin"`
}

// CodeRecordResponse is a stored code record.
type CodeRecordResponse struct {
	ID           string `json:"id"`
	ParentLinkID int64  `json:"parent_link_id"`
	Ordinal      int    `json:"ordinal"`
	Language     string `json:"language,omitempty"`
	Content      string `json:"content"`
	Origin       string `json:"origin"`
}

// DocumentRecordsResponse holds a document together with all its records.
type DocumentRecordsResponse struct {
	Document DocumentResponse     `json:"document"`
	Texts    []TextRecordResponse `json:"texts"`
	Code     []CodeRecordResponse `json:"code"`
}

// List handles GET /api/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docs, err := h.documents.List(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list documents")
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		resp = append(resp, toDocumentResponse(&docs[i]))
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Records handles GET /api/documents/{id}/records.
func (h *DocumentHandler) Records(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	doc, err := h.documents.GetByID(ctx, id)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to get document")
		return
	}

	texts, err := h.records.ListTextByDocument(ctx, doc.ID)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list text records")
		return
	}
	codes, err := h.records.ListCodeByDocument(ctx, doc.ID)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list code records")
		return
	}

	writeJSON(ctx, w, http.StatusOK, DocumentRecordsResponse{
		Document: toDocumentResponse(doc),
		Texts:    toTextResponses(texts),
		Code:     toCodeResponses(codes),
	})
}

func toDocumentResponse(d *storage.Document) DocumentResponse {
	return DocumentResponse{
		ID:        d.ID,
		RelPath:   d.RelPath,
		Folder:    d.Folder,
		Title:     d.Title,
		Origin:    d.Origin,
		ChunkSize: d.ChunkSize,
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
}

func toTextResponse(t *storage.TextRecord) *TextRecordResponse {
	if t == nil {
		return nil
	}
	return &TextRecordResponse{
		LinkID:        t.LinkID,
		Position:      t.Position,
		Content:       t.Content,
		NumCodeBlocks: t.NumCodeBlocks,
		Origin:        t.Origin,
	}
}

func toTextResponses(texts []storage.TextRecord) []TextRecordResponse {
	resp := make([]TextRecordResponse, 0, len(texts))
	for i := range texts {
		resp = append(resp, *toTextResponse(&texts[i]))
	}
	return resp
}

func toCodeResponses(codes []storage.CodeRecord) []CodeRecordResponse {
	resp := make([]CodeRecordResponse, 0, len(codes))
	for _, c := range codes {
		resp = append(resp, CodeRecordResponse{
			ID:           c.ID,
			ParentLinkID: c.ParentLinkID,
			Ordinal:      c.Ordinal,
			Language:     c.Language,
			Content:      c.Content,
			Origin:       c.Origin,
		})
	}
	return resp
}
