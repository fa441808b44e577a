package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/akash4chandran/docrag/models"
	"github/akash4chandran/docrag/services"
)

// stubRAGService lets the handlers be exercised without any external
// provider behind them.
type stubRAGService struct {
	answer  string
	err     error
	records *models.ListRecordsResponse
}

func (s *stubRAGService) Answer(ctx context.Context, query string) (string, error) {
	return s.answer, s.err
}

func (s *stubRAGService) ListRecords(ctx context.Context) (*models.ListRecordsResponse, error) {
	if s.records == nil {
		return &models.ListRecordsResponse{Records: []models.StoredRecord{}}, nil
	}
	return s.records, nil
}

// staticEmbedder gives every text the same vector; enough for routing
// ingestion through a real pipeline in handler tests.
type staticEmbedder struct{}

func (staticEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (staticEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func newTestRouter(rag services.RAGService) (*gin.Engine, *services.IngestionService) {
	gin.SetMode(gin.TestMode)
	ingestion := services.NewIngestionService(
		services.NewDefaultDocumentLoader(),
		services.NewTokenTextSplitter(50, 5),
		staticEmbedder{},
		services.NewMemoryVectorStore(2),
	)
	ctrl := NewRAGController(rag, ingestion)

	router := gin.New()
	router.GET("/ai", ctrl.Query)
	router.POST("/api/v1/ingest", ctrl.Ingest)
	router.GET("/api/v1/records", ctrl.ListRecords)
	return router, ingestion
}

func TestQueryReturnsPlainTextAnswer(t *testing.T) {
	router, _ := newTestRouter(&stubRAGService{answer: "Paris is the capital of France."})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ai?message=What+is+the+capital+of+France%3F", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Paris is the capital of France.", w.Body.String())
}

func TestQueryRequiresMessageParameter(t *testing.T) {
	router, _ := newTestRouter(&stubRAGService{answer: "unused"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ai", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryMapsPipelineFailuresToErrorStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"generation", &models.GenerationError{Err: errors.New("model down")}, http.StatusBadGateway},
		{"embedding", &models.EmbeddingError{Err: errors.New("provider down")}, http.StatusBadGateway},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter(&stubRAGService{err: tc.err})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ai?message=hi", nil))

			assert.Equal(t, tc.status, w.Code)
			assert.NotEmpty(t, w.Body.String(), "failures must never produce a silently empty body")
		})
	}
}

func TestIngestSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello ingestion"), 0644))

	router, _ := newTestRouter(&stubRAGService{})

	body, _ := json.Marshal(models.IngestRequest{Path: path})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp models.IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Records)
}

func TestIngestDirectoryReturnsBatchResult(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.pdf"), []byte("garbage"), 0644))

	router, _ := newTestRouter(&stubRAGService{})

	body, _ := json.Marshal(models.IngestRequest{Path: dir})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result models.BatchIngestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
}

func TestIngestUnknownPath(t *testing.T) {
	router, _ := newTestRouter(&stubRAGService{})

	body, _ := json.Marshal(models.IngestRequest{Path: "/no/such/path"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngestRejectsMissingBody(t *testing.T) {
	router, _ := newTestRouter(&stubRAGService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRecordsEndpoint(t *testing.T) {
	router, _ := newTestRouter(&stubRAGService{records: &models.ListRecordsResponse{
		Count:   1,
		Records: []models.StoredRecord{{ID: "id-1", Content: "chunk"}},
	}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ListRecordsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}
