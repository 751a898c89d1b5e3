package search_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	embedding_mocks "docchunk/internal/embedding/mocks"
	"docchunk/internal/search"
	"docchunk/internal/service"
	"docchunk/internal/storage"
	storage_mocks "docchunk/internal/storage/mocks"
	"docchunk/internal/vectorstore"
	vectorstore_mocks "docchunk/internal/vectorstore/mocks"
)

type fixture struct {
	embedder  *embedding_mocks.MockEmbedder
	store     *vectorstore_mocks.MockVectorStore
	documents *storage_mocks.MockDocumentStore
	records   *storage_mocks.MockRecordStore
	svc       *search.Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		embedder:  embedding_mocks.NewMockEmbedder(ctrl),
		store:     vectorstore_mocks.NewMockVectorStore(ctrl),
		documents: storage_mocks.NewMockDocumentStore(ctrl),
		records:   storage_mocks.NewMockRecordStore(ctrl),
	}
	f.svc = search.NewService(f.embedder, f.store, "docs", f.documents, f.records)
	return f
}

func (f *fixture) expectQuery(results []vectorstore.SearchResult, k int, kind string) {
	f.embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"validators"}).Return([][]float32{{0.5}}, nil)
	f.store.EXPECT().Search(gomock.Any(), "docs", []float32{0.5}, k, vectorstore.Filter{Kind: kind}).Return(results, nil)
}

func textResult(linkID int64, score float32) vectorstore.SearchResult {
	return vectorstore.SearchResult{
		PointID: vectorstore.TextPointID(linkID),
		Score:   score,
		Payload: vectorstore.Payload{Kind: vectorstore.KindText, LinkID: linkID, DocumentID: "doc-1", Origin: "o"},
	}
}

func TestService_Search_TextHit(t *testing.T) {
	f := newFixture(t)
	f.expectQuery([]vectorstore.SearchResult{textResult(3, 0.8)}, 2*search.DefaultK, "")

	text := &storage.TextRecord{LinkID: 3, DocumentID: "doc-1", Content: "Field validators run after parsing."}
	code := []storage.CodeRecord{{ID: "c1", ParentLinkID: 3, Content: "@field_validator('x')"}}
	f.records.EXPECT().GetText(gomock.Any(), int64(3)).Return(text, nil)
	f.records.EXPECT().ListCodeByParent(gomock.Any(), int64(3)).Return(code, nil)
	f.documents.EXPECT().GetByID(gomock.Any(), "doc-1").Return(&storage.Document{ID: "doc-1", Title: "Validators", RelPath: "concepts/validators.md"}, nil)

	hits, err := f.svc.Search(context.Background(), search.Request{Query: "validators"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("Search() returned %d hits, want 1", len(hits))
	}

	hit := hits[0]
	if hit.Kind != vectorstore.KindText || hit.Text != text {
		t.Errorf("hit = %+v", hit)
	}
	if len(hit.Code) != 1 || hit.Code[0].ID != "c1" {
		t.Errorf("hit.Code = %+v, want the linked block", hit.Code)
	}
	if hit.Title != "Validators" || hit.RelPath != "concepts/validators.md" {
		t.Errorf("hit document = %q %q", hit.Title, hit.RelPath)
	}
	if hit.LexicalScore <= 0 || hit.Score != hit.VectorScore+hit.LexicalScore {
		t.Errorf("scores = %v + %v = %v", hit.VectorScore, hit.LexicalScore, hit.Score)
	}
}

func TestService_Search_CodeHitWithParent(t *testing.T) {
	f := newFixture(t)
	result := vectorstore.SearchResult{
		PointID: vectorstore.CodePointID("c2"),
		Score:   0.7,
		Payload: vectorstore.Payload{Kind: vectorstore.KindCode, LinkID: 4, CodeID: "c2", DocumentID: "doc-1"},
	}
	f.expectQuery([]vectorstore.SearchResult{result}, 6, vectorstore.KindCode)

	f.records.EXPECT().ListCodeByParent(gomock.Any(), int64(4)).Return([]storage.CodeRecord{
		{ID: "c1", ParentLinkID: 4, Content: "a"},
		{ID: "c2", ParentLinkID: 4, Content: "b"},
	}, nil)
	f.records.EXPECT().GetText(gomock.Any(), int64(4)).Return(&storage.TextRecord{LinkID: 4, Content: "parent"}, nil)
	f.documents.EXPECT().GetByID(gomock.Any(), "doc-1").Return(&storage.Document{ID: "doc-1"}, nil)

	hits, err := f.svc.Search(context.Background(), search.Request{Query: "validators", K: 3, Kind: vectorstore.KindCode})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || len(hits[0].Code) != 1 || hits[0].Code[0].ID != "c2" {
		t.Fatalf("Search() = %+v, want the matched block only", hits)
	}
	if hits[0].Text == nil || hits[0].Text.Content != "parent" {
		t.Errorf("hit.Text = %+v, want the parent record", hits[0].Text)
	}
}

func TestService_Search_OrphanCodeHit(t *testing.T) {
	f := newFixture(t)
	result := vectorstore.SearchResult{
		PointID: vectorstore.CodePointID("c9"),
		Score:   0.7,
		Payload: vectorstore.Payload{Kind: vectorstore.KindCode, LinkID: 9, CodeID: "c9", DocumentID: "doc-1"},
	}
	f.expectQuery([]vectorstore.SearchResult{result}, 2*search.DefaultK, "")

	f.records.EXPECT().ListCodeByParent(gomock.Any(), int64(9)).Return([]storage.CodeRecord{{ID: "c9", ParentLinkID: 9}}, nil)
	f.records.EXPECT().GetText(gomock.Any(), int64(9)).Return(nil, storage.ErrNotFound)
	f.documents.EXPECT().GetByID(gomock.Any(), "doc-1").Return(nil, storage.ErrNotFound)

	hits, err := f.svc.Search(context.Background(), search.Request{Query: "validators"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].Text != nil {
		t.Errorf("Search() = %+v, want one code hit without parent text", hits)
	}
}

func TestService_Search_SkipsStaleAndDuplicatePoints(t *testing.T) {
	f := newFixture(t)
	f.expectQuery([]vectorstore.SearchResult{
		textResult(1, 0.9),
		textResult(1, 0.9),
		textResult(2, 0.5),
	}, 2*search.DefaultK, "")

	f.records.EXPECT().GetText(gomock.Any(), int64(1)).Return(nil, storage.ErrNotFound)
	f.records.EXPECT().GetText(gomock.Any(), int64(2)).Return(&storage.TextRecord{LinkID: 2, Content: "x"}, nil)
	f.records.EXPECT().ListCodeByParent(gomock.Any(), int64(2)).Return(nil, nil)
	f.documents.EXPECT().GetByID(gomock.Any(), "doc-1").Return(&storage.Document{}, nil)

	hits, err := f.svc.Search(context.Background(), search.Request{Query: "validators"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].Text.LinkID != 2 {
		t.Errorf("Search() = %+v, want only link 2", hits)
	}
}

func TestService_Search_RanksAndTruncates(t *testing.T) {
	f := newFixture(t)
	f.expectQuery([]vectorstore.SearchResult{
		textResult(1, 0.50),
		textResult(2, 0.45),
		textResult(3, 0.10),
	}, 2, "")

	f.records.EXPECT().GetText(gomock.Any(), int64(1)).Return(&storage.TextRecord{LinkID: 1, Content: "unrelated words here"}, nil)
	f.records.EXPECT().GetText(gomock.Any(), int64(2)).Return(&storage.TextRecord{LinkID: 2, Content: "validators validators"}, nil)
	f.records.EXPECT().GetText(gomock.Any(), int64(3)).Return(&storage.TextRecord{LinkID: 3, Content: "nothing"}, nil)
	f.records.EXPECT().ListCodeByParent(gomock.Any(), gomock.Any()).Return(nil, nil).Times(3)
	f.documents.EXPECT().GetByID(gomock.Any(), "doc-1").Return(&storage.Document{}, nil)

	hits, err := f.svc.Search(context.Background(), search.Request{Query: "validators", K: 1})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("Search() returned %d hits, want 1", len(hits))
	}
	if hits[0].Text.LinkID != 2 {
		t.Errorf("top hit = %d, want 2 after lexical re-rank", hits[0].Text.LinkID)
	}
}

func TestService_Search_CapsK(t *testing.T) {
	f := newFixture(t)
	f.expectQuery(nil, 2*search.MaxK, "")

	hits, err := f.svc.Search(context.Background(), search.Request{Query: "validators", K: 100})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Search() = %+v, want none", hits)
	}
}

func TestService_Search_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     search.Request
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:    "empty query",
			req:     search.Request{Query: "  "},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "unknown kind",
			req:     search.Request{Query: "validators", Kind: "image"},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "negative k",
			req:     search.Request{Query: "validators", K: -1},
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "embedding failure",
			req:  search.Request{Query: "validators"},
			setup: func(f *fixture) {
				f.embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return(nil, errors.New("refused"))
			},
			wantErr: service.ErrExternalService,
		},
		{
			name: "vector store failure",
			req:  search.Request{Query: "validators"},
			setup: func(f *fixture) {
				f.embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{1}}, nil)
				f.store.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("down"))
			},
			wantErr: service.ErrExternalService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			_, err := f.svc.Search(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Search() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_Search_Unavailable(t *testing.T) {
	svc := search.NewService(nil, nil, "docs", nil, nil)

	if svc.Available() {
		t.Error("Available() = true without a vector backend")
	}
	_, err := svc.Search(context.Background(), search.Request{Query: "validators"})
	if !errors.Is(err, service.ErrUnavailable) {
		t.Errorf("Search() error = %v, want ErrUnavailable", err)
	}
}
