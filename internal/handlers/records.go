package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"docchunk/internal/contextutil"
	"docchunk/internal/service"
	"docchunk/internal/storage"
)

// RecordHandler serves a single link identifier: its text record and the code
// blocks linked to it, as JSON or as a rendered HTML page.
type RecordHandler struct {
	documents storage.DocumentStore
	records   storage.RecordStore
	parser    goldmark.Markdown
	template  *template.Template
}

// recordPageData holds template data for rendered record pages.
type recordPageData struct {
	Title   string
	LinkID  int64
	Origin  string
	Content template.HTML
}

// LinkedRecordResponse is a link identifier with its text and code.
// Text is null for an identifier whose chunk held only code.
type LinkedRecordResponse struct {
	LinkID int64                `json:"link_id"`
	Text   *TextRecordResponse  `json:"text"`
	Code   []CodeRecordResponse `json:"code"`
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(documents storage.DocumentStore, records storage.RecordStore) *RecordHandler {
	tmpl := template.Must(template.New("record").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} · record {{.LinkID}}</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
      background: #050b18;
      color: #e4ecff;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid rgba(148, 163, 184, 0.2);
      padding-bottom: 1.5rem;
    }
    h1 {
      margin-top: 0;
      color: #fff;
      font-size: 2rem;
    }
    article {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 2rem;
    }
    pre {
      background: #0f172a;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 10px;
      border: 1px solid rgba(99, 102, 241, 0.2);
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
      color: #cbd5ff;
    }
    a {
      color: #60a5fa;
      text-decoration: none;
    }
    .meta {
      color: #94a3b8;
      font-size: 0.95rem;
      margin-top: 0.5rem;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">Record {{.LinkID}}{{if .Origin}} &middot; <a href="{{.Origin}}">{{.Origin}}</a>{{end}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

	return &RecordHandler{
		documents: documents,
		records:   records,
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithUnsafe(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
	}
}

// Get handles GET /api/records/{linkID}.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	linkID, ok := parseLinkID(w, r)
	if !ok {
		return
	}

	text, code, err := h.load(r, linkID)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to get record")
		return
	}

	writeJSON(ctx, w, http.StatusOK, LinkedRecordResponse{
		LinkID: linkID,
		Text:   toTextResponse(text),
		Code:   toCodeResponses(code),
	})
}

// HTML handles GET /api/records/{linkID}/html. The text is rendered with its
// code blocks appended as fenced blocks, in ordinal order.
func (h *RecordHandler) HTML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	linkID, ok := parseLinkID(w, r)
	if !ok {
		return
	}

	text, code, err := h.load(r, linkID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "failed to load record", "link_id", linkID, "error", err)
		http.Error(w, "failed to load record", http.StatusInternalServerError)
		return
	}

	page := recordPageData{
		Title:  fmt.Sprintf("Record %d", linkID),
		LinkID: linkID,
	}

	documentID := ""
	if text != nil {
		documentID, page.Origin = text.DocumentID, text.Origin
	} else {
		documentID, page.Origin = code[0].DocumentID, code[0].Origin
	}
	if doc, err := h.documents.GetByID(ctx, documentID); err == nil && doc.Title != "" {
		page.Title = doc.Title
	}

	var buf bytes.Buffer
	if err := h.parser.Convert([]byte(reassemble(text, code)), &buf); err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "link_id", linkID, "error", err)
		http.Error(w, "failed to render record", http.StatusInternalServerError)
		return
	}
	page.Content = template.HTML(buf.String())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, page); err != nil {
		logger.ErrorContext(ctx, "failed to execute record template", "link_id", linkID, "error", err)
		http.Error(w, "failed to render record", http.StatusInternalServerError)
		return
	}
}

// load returns service.ErrNotFound when the identifier has neither text nor code.
func (h *RecordHandler) load(r *http.Request, linkID int64) (*storage.TextRecord, []storage.CodeRecord, error) {
	ctx := r.Context()

	text, err := h.records.GetText(ctx, linkID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, err
	}
	code, err := h.records.ListCodeByParent(ctx, linkID)
	if err != nil {
		return nil, nil, err
	}
	if text == nil && len(code) == 0 {
		return nil, nil, service.ErrNotFound
	}
	return text, code, nil
}

func parseLinkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "linkID")
	linkID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || linkID < 0 {
		writeError(w, http.StatusBadRequest, "Invalid link id")
		return 0, false
	}
	return linkID, true
}

// reassemble turns a text record and its code back into markdown.
func reassemble(text *storage.TextRecord, code []storage.CodeRecord) string {
	var b strings.Builder
	if text != nil {
		b.WriteString(text.Content)
	}
	for _, c := range code {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fence := codeFence(c.Content)
		b.WriteString(fence)
		b.WriteString(c.Language)
		b.WriteString("\n")
		b.WriteString(c.Content)
		b.WriteString("\n")
		b.WriteString(fence)
	}
	return b.String()
}

// codeFence returns a backtick fence longer than any backtick run in content.
func codeFence(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}
