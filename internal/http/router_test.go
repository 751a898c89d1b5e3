package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"docchunk/internal/handlers"
	"docchunk/internal/indexer"
	search_mocks "docchunk/internal/search/mocks"
	service_mocks "docchunk/internal/service/mocks"
	"docchunk/internal/storage"
	storage_mocks "docchunk/internal/storage/mocks"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeIndexer struct{}

func (fakeIndexer) IndexAll(context.Context) error { return nil }
func (fakeIndexer) ClearAll(context.Context) error { return nil }

type fakeStats struct{}

func (fakeStats) Stats(context.Context, string) (*indexer.IndexStats, error) {
	return &indexer.IndexStats{ChunkSize: 2000}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *storage_mocks.MockDocumentStore) {
	ctrl := gomock.NewController(t)

	documents := storage_mocks.NewMockDocumentStore(ctrl)
	deps := &Deps{
		ChunkService: service_mocks.NewMockChunkService(ctrl),
		Index:        handlers.NewIndexHandler(context.Background(), fakeIndexer{}),
		Stats:        fakeStats{},
		Searcher:     search_mocks.NewMockSearcher(ctrl),
		Documents:    documents,
		Records:      storage_mocks.NewMockRecordStore(ctrl),
		DB:           fakePinger{},
	}
	return NewRouter(deps), documents
}

func TestRouter_Routes(t *testing.T) {
	router, documents := newTestRouter(t)
	documents.EXPECT().List(gomock.Any()).Return([]storage.Document{}, nil).AnyTimes()
	documents.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, storage.ErrNotFound).AnyTimes()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "POST /api/chunk exists",
			method:     http.MethodPost,
			path:       "/api/chunk",
			body:       "invalid json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/chunk method not allowed",
			method:     http.MethodGet,
			path:       "/api/chunk",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "POST /api/search requires a query",
			method:     http.MethodPost,
			path:       "/api/search",
			body:       `{"k": 3}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/documents",
			method:     http.MethodGet,
			path:       "/api/documents",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/documents/{id}/records unknown document",
			method:     http.MethodGet,
			path:       "/api/documents/missing/records",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "GET /api/records/{linkID} invalid id",
			method:     http.MethodGet,
			path:       "/api/records/abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/stats",
			method:     http.MethodGet,
			path:       "/api/stats",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/unknown",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "preflight",
			method:     http.MethodOptions,
			path:       "/api/chunk",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_HealthReportsDatabaseFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := NewRouter(&Deps{
		ChunkService: service_mocks.NewMockChunkService(ctrl),
		Index:        handlers.NewIndexHandler(context.Background(), fakeIndexer{}),
		Searcher:     search_mocks.NewMockSearcher(ctrl),
		DB:           fakePinger{err: errors.New("closed")},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /api/health status = %v, want %v", w.Code, http.StatusServiceUnavailable)
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chunk", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
}
