package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	"docchunk/internal/chunker"
	embedding_mocks "docchunk/internal/embedding/mocks"
	"docchunk/internal/source"
	"docchunk/internal/storage"
	storage_mocks "docchunk/internal/storage/mocks"
	"docchunk/internal/vectorstore"
	vectorstore_mocks "docchunk/internal/vectorstore/mocks"
)

const guideDoc = "# Guide\n\nIntro text.\n\n```go\nfmt.Println(1)\n```\n\nMore text.\n"

type testEnv struct {
	root      string
	scanner   *source.Scanner
	documents *storage.DocumentRepo
	records   *storage.RecordRepo
	chunker   *chunker.Chunker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}

	root := t.TempDir()
	scanner, err := source.NewScanner(root)
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	return &testEnv{
		root:      root,
		scanner:   scanner,
		documents: storage.NewDocumentRepo(db),
		records:   storage.NewRecordRepo(db),
		chunker:   chunker.New(),
	}
}

func (e *testEnv) pipeline(opts ...Option) *Pipeline {
	opts = append([]Option{WithBaseOrigin("https://docs.example.com")}, opts...)
	return NewPipeline(e.scanner, e.documents, e.records, e.chunker, opts...)
}

func (e *testEnv) write(t *testing.T, relPath, content string) source.ScannedFile {
	t.Helper()
	abs := filepath.Join(e.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	folder := filepath.ToSlash(filepath.Dir(relPath))
	if folder == "." {
		folder = ""
	}
	return source.ScannedFile{RelPath: relPath, Folder: folder, AbsPath: abs}
}

func TestNewPipeline(t *testing.T) {
	c := chunker.New()
	p := NewPipeline(nil, nil, nil, c)

	if p.chunker != c {
		t.Error("NewPipeline() should keep the chunker")
	}
	if p.workers != 1 {
		t.Errorf("NewPipeline() workers = %d, want 1", p.workers)
	}
	if p.baseOrigin != chunker.DefaultOrigin {
		t.Errorf("NewPipeline() baseOrigin = %q, want %q", p.baseOrigin, chunker.DefaultOrigin)
	}
	if p.VectorsEnabled() {
		t.Error("NewPipeline() should not enable vectors by default")
	}

	p = NewPipeline(nil, nil, nil, c, WithWorkers(0))
	if p.workers != 1 {
		t.Errorf("WithWorkers(0) workers = %d, want 1", p.workers)
	}
}

func TestPipeline_IndexFile(t *testing.T) {
	env := newTestEnv(t)
	p := env.pipeline()
	ctx := context.Background()

	file := env.write(t, "guides/setup.md", guideDoc)

	skipped, err := p.IndexFile(ctx, file)
	if err != nil {
		t.Fatalf("IndexFile() error = %v", err)
	}
	if skipped {
		t.Fatal("IndexFile() skipped a new file")
	}

	doc, err := env.documents.GetByRelPath(ctx, "guides/setup.md")
	if err != nil {
		t.Fatalf("GetByRelPath() error = %v", err)
	}
	if doc.Title != "Guide" {
		t.Errorf("Title = %q, want Guide", doc.Title)
	}
	if doc.Folder != "guides" {
		t.Errorf("Folder = %q, want guides", doc.Folder)
	}
	if doc.Origin != "https://docs.example.com/guides/setup.md" {
		t.Errorf("Origin = %q", doc.Origin)
	}
	if doc.Hash == "" {
		t.Error("Hash should be recorded after a successful run")
	}
	if doc.ChunkSize != chunker.DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want %d", doc.ChunkSize, chunker.DefaultChunkSize)
	}

	texts, err := env.records.ListTextByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ListTextByDocument() error = %v", err)
	}
	codes, err := env.records.ListCodeByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ListCodeByDocument() error = %v", err)
	}
	if len(texts) != 1 || len(codes) != 1 {
		t.Fatalf("got %d text and %d code records, want 1 and 1", len(texts), len(codes))
	}
	if codes[0].ParentLinkID != texts[0].LinkID {
		t.Errorf("code parent = %d, want %d", codes[0].ParentLinkID, texts[0].LinkID)
	}
	if codes[0].Content != "fmt.Println(1)" {
		t.Errorf("code content = %q", codes[0].Content)
	}
	if texts[0].Origin != doc.Origin {
		t.Errorf("text origin = %q, want %q", texts[0].Origin, doc.Origin)
	}

	skipped, err = p.IndexFile(ctx, file)
	if err != nil {
		t.Fatalf("IndexFile() second run error = %v", err)
	}
	if !skipped {
		t.Error("IndexFile() should skip an unchanged file")
	}
}

func TestPipeline_IndexFile_ReindexesChangedFile(t *testing.T) {
	env := newTestEnv(t)
	p := env.pipeline()
	ctx := context.Background()

	file := env.write(t, "a.md", guideDoc)
	if _, err := p.IndexFile(ctx, file); err != nil {
		t.Fatalf("IndexFile() error = %v", err)
	}
	first, _ := env.documents.GetByRelPath(ctx, "a.md")

	env.write(t, "a.md", "# Changed\n\nOnly prose now.\n")
	skipped, err := p.IndexFile(ctx, file)
	if err != nil {
		t.Fatalf("IndexFile() error = %v", err)
	}
	if skipped {
		t.Fatal("IndexFile() skipped a changed file")
	}

	second, _ := env.documents.GetByRelPath(ctx, "a.md")
	if second.ID != first.ID {
		t.Errorf("document ID changed from %s to %s", first.ID, second.ID)
	}
	if second.Hash == first.Hash {
		t.Error("Hash should change with the content")
	}
	if second.Title != "Changed" {
		t.Errorf("Title = %q, want Changed", second.Title)
	}

	texts, _ := env.records.ListTextByDocument(ctx, second.ID)
	codes, _ := env.records.ListCodeByDocument(ctx, second.ID)
	if len(texts) != 1 || len(codes) != 0 {
		t.Fatalf("got %d text and %d code records, want 1 and 0", len(texts), len(codes))
	}
	// Identifiers are never reused within a process.
	if texts[0].LinkID != 1 {
		t.Errorf("LinkID = %d, want 1", texts[0].LinkID)
	}
}

func TestPipeline_IndexFile_ChunkSizeChangeReindexes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	file := env.write(t, "a.md", guideDoc)

	if _, err := env.pipeline().IndexFile(ctx, file); err != nil {
		t.Fatalf("IndexFile() error = %v", err)
	}

	env.chunker = chunker.New(chunker.WithChunkSize(10))
	skipped, err := env.pipeline().IndexFile(ctx, file)
	if err != nil {
		t.Fatalf("IndexFile() error = %v", err)
	}
	if skipped {
		t.Error("IndexFile() should re-index when the chunk size changes")
	}
}

func TestPipeline_IndexFile_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.pipeline().IndexFile(context.Background(), source.ScannedFile{
		RelPath: "gone.md",
		AbsPath: filepath.Join(env.root, "gone.md"),
	})
	if err == nil {
		t.Error("IndexFile() expected error for a missing file")
	}
}

func TestPipeline_IndexFile_EmbedsRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t)
	embedder := embedding_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	p := env.pipeline(WithVectors(embedder, store, "docs"))
	ctx := context.Background()

	file := env.write(t, "a.md", guideDoc)

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Len(2)).
		Return([][]float32{{0.1, 0.2}, {0.3, 0.4}}, nil)
	store.EXPECT().Upsert(gomock.Any(), "docs", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
			if len(points) != 2 {
				t.Fatalf("Upsert() got %d points, want 2", len(points))
			}
			text, code := points[0], points[1]
			if text.Payload.Kind != vectorstore.KindText || text.ID != vectorstore.TextPointID(0) {
				t.Errorf("text point = %+v", text)
			}
			if code.Payload.Kind != vectorstore.KindCode || code.Payload.LinkID != 0 {
				t.Errorf("code point = %+v", code)
			}
			if code.ID != vectorstore.CodePointID(code.Payload.CodeID) {
				t.Errorf("code point ID = %s, want derived from %s", code.ID, code.Payload.CodeID)
			}
			if code.Vec[0] != 0.3 {
				t.Errorf("code point got vector %v", code.Vec)
			}
			return nil
		})

	if _, err := p.IndexFile(ctx, file); err != nil {
		t.Fatalf("IndexFile() error = %v", err)
	}
}

func TestPipeline_IndexFile_EmbeddingFailureIsRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t)
	embedder := embedding_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	p := env.pipeline(WithVectors(embedder, store, "docs"))
	ctx := context.Background()

	file := env.write(t, "a.md", guideDoc)

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	if _, err := p.IndexFile(ctx, file); err == nil {
		t.Fatal("IndexFile() expected error")
	}

	doc, err := env.documents.GetByRelPath(ctx, "a.md")
	if err != nil {
		t.Fatalf("GetByRelPath() error = %v", err)
	}
	if doc.Hash != "" {
		t.Errorf("Hash = %q, want empty after a failed run", doc.Hash)
	}

	// The next run deletes the half-written points and tries again.
	store.EXPECT().Delete(gomock.Any(), "docs", gomock.Len(2)).Return(nil)
	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{1}, {2}}, nil)
	store.EXPECT().Upsert(gomock.Any(), "docs", gomock.Len(2)).Return(nil)

	skipped, err := p.IndexFile(ctx, file)
	if err != nil {
		t.Fatalf("IndexFile() retry error = %v", err)
	}
	if skipped {
		t.Error("IndexFile() should not skip a document whose last run failed")
	}
}

func TestPipeline_IndexFile_EmbeddingCountMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t)
	embedder := embedding_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	p := env.pipeline(WithVectors(embedder, store, "docs"))

	file := env.write(t, "a.md", guideDoc)
	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{1}}, nil)

	if _, err := p.IndexFile(context.Background(), file); err == nil {
		t.Error("IndexFile() expected error on embedding count mismatch")
	}
}

func TestPipeline_IndexAll(t *testing.T) {
	env := newTestEnv(t)
	p := env.pipeline(WithWorkers(2))
	ctx := context.Background()

	env.write(t, "a.md", guideDoc)
	env.write(t, "b.md", "# B\n\nSome text.\n")
	env.write(t, "nested/c.markdown", "# C\n\n```\nx\n```\n")
	env.write(t, "notes.txt", "not markdown")

	if err := p.IndexAll(ctx); err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}

	docs, err := env.documents.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("IndexAll() indexed %d documents, want 3", len(docs))
	}

	stats, err := env.records.CountStats(ctx)
	if err != nil {
		t.Fatalf("CountStats() error = %v", err)
	}
	if stats.CodeRecords != 2 {
		t.Errorf("CodeRecords = %d, want 2", stats.CodeRecords)
	}

	if err := os.Remove(filepath.Join(env.root, "b.md")); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}
	if err := p.IndexAll(ctx); err != nil {
		t.Fatalf("IndexAll() second run error = %v", err)
	}

	docs, _ = env.documents.List(ctx)
	if len(docs) != 2 {
		t.Fatalf("IndexAll() kept %d documents, want 2", len(docs))
	}
	for _, d := range docs {
		if d.RelPath == "b.md" {
			t.Error("IndexAll() should remove documents whose file is gone")
		}
	}
}

func TestPipeline_IndexAll_CanceledContext(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "a.md", guideDoc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := env.pipeline().IndexAll(ctx); err == nil {
		t.Error("IndexAll() expected error for a canceled context")
	}
}

func TestPipeline_ClearAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t)
	embedder := embedding_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	p := env.pipeline(WithVectors(embedder, store, "docs"))
	ctx := context.Background()

	env.write(t, "a.md", guideDoc)
	env.write(t, "b.md", "# B\n")

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			return make([][]float32, len(texts)), nil
		}).Times(2)
	store.EXPECT().Upsert(gomock.Any(), "docs", gomock.Any()).Return(nil).Times(2)
	if err := p.IndexAll(ctx); err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}

	store.EXPECT().Delete(gomock.Any(), "docs", gomock.Any()).Return(nil).Times(2)
	if err := p.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	stats, _ := env.records.CountStats(ctx)
	if stats.Documents != 0 || stats.TextRecords != 0 || stats.CodeRecords != 0 {
		t.Errorf("ClearAll() left %+v", stats)
	}
}

func TestNextLinkID(t *testing.T) {
	tests := []struct {
		name    string
		maxID   int64
		err     error
		want    int64
		wantErr bool
	}{
		{name: "empty store", maxID: -1, want: 0},
		{name: "existing records", maxID: 41, want: 42},
		{name: "store error", err: errors.New("db closed"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			records := storage_mocks.NewMockRecordStore(ctrl)
			records.EXPECT().MaxLinkID(gomock.Any()).Return(tt.maxID, tt.err)

			got, err := NextLinkID(context.Background(), records)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NextLinkID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NextLinkID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDocumentOrigin(t *testing.T) {
	tests := []struct {
		base    string
		relPath string
		want    string
	}{
		{base: "https://pydantic.com", relPath: "docs/a.md", want: "https://pydantic.com/docs/a.md"},
		{base: "https://pydantic.com/", relPath: "a.md", want: "https://pydantic.com/a.md"},
		{base: "https://pydantic.com", relPath: "/a.md", want: "https://pydantic.com/a.md"},
		{base: "", relPath: "a.md", want: "a.md"},
	}

	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.relPath, func(t *testing.T) {
			if got := DocumentOrigin(tt.base, tt.relPath); got != tt.want {
				t.Errorf("DocumentOrigin() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToStorageRecords(t *testing.T) {
	texts := []chunker.TextRecord{
		{Content: "a", LinkID: 7, NumCodeBlocks: 1, Origin: "o"},
		{Content: "b", LinkID: 8, Origin: "o"},
	}
	codes := []chunker.CodeRecord{
		{Content: "x", ParentLinkID: 7, Ordinal: 0, Language: "go", Origin: "o"},
	}

	textRows, codeRows := toStorageRecords("doc-1", texts, codes)

	if len(textRows) != 2 || textRows[1].Position != 1 || textRows[1].LinkID != 8 {
		t.Errorf("text rows = %+v", textRows)
	}
	if textRows[0].DocumentID != "doc-1" || textRows[0].NumCodeBlocks != 1 {
		t.Errorf("text row = %+v", textRows[0])
	}
	if len(codeRows) != 1 || codeRows[0].Language != "go" || codeRows[0].ParentLinkID != 7 {
		t.Errorf("code rows = %+v", codeRows)
	}

	_, again := toStorageRecords("doc-1", texts, codes)
	if again[0].ID != codeRows[0].ID {
		t.Error("code record IDs should be stable for the same document and ordinal")
	}
	_, other := toStorageRecords("doc-2", texts, codes)
	if other[0].ID == codeRows[0].ID {
		t.Error("code record IDs should differ between documents")
	}
}
