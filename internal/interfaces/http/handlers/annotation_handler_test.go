package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regcat-io/regcat/internal/application/annotation"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test plumbing
// ─────────────────────────────────────────────────────────────────────────────

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(t *testing.T, handler http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

type fakeAnnotationService struct {
	searchResult *annotation.SearchResult
	created      *annotation.Annotation
	lastCreate   annotation.CreateInput
	deleted      []uuid.UUID
	err          error
}

func (f *fakeAnnotationService) Search(ctx context.Context, annotationType glossary.AnnotationType, entityID, documentID uuid.UUID) (*annotation.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.searchResult, nil
}

func (f *fakeAnnotationService) Create(ctx context.Context, in annotation.CreateInput) (*annotation.Annotation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastCreate = in
	return f.created, nil
}

func (f *fakeAnnotationService) Delete(ctx context.Context, worklogID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, worklogID)
	return nil
}

func annotatorRouter(svc AnnotationService) http.Handler {
	h := NewAnnotationHandler(svc)
	r := gin.New()
	scope := r.Group("/annotator/:annotationType/:entityID/:documentID")
	scope.GET("", h.Root)
	scope.GET("/search", h.Search)
	scope.POST("/annotations", h.Create)
	r.DELETE("/annotator/annotations/:annotationID", h.Delete)
	return r
}

func annotatorPath(annotationType string, suffix string) string {
	return "/annotator/" + annotationType + "/" + uuid.NewString() + "/" + uuid.NewString() + suffix
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestAnnotationRoot_ReturnsStoreMetadata(t *testing.T) {
	router := annotatorRouter(&fakeAnnotationService{})

	rec := perform(t, router, http.MethodGet, annotatorPath("occurence", ""), nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, annotation.Metadata, rec.Body.String())
}

func TestAnnotationSearch_ReturnsRows(t *testing.T) {
	svc := &fakeAnnotationService{
		searchResult: &annotation.SearchResult{
			Total: "1",
			Rows: []annotation.Annotation{
				{ID: uuid.NewString(), Quote: "own funds requirements"},
			},
		},
	}
	router := annotatorRouter(svc)

	rec := perform(t, router, http.MethodGet, annotatorPath("definition", "/search"), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result annotation.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "1", result.Total)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "own funds requirements", result.Rows[0].Quote)
}

func TestAnnotationSearch_UnknownType(t *testing.T) {
	router := annotatorRouter(&fakeAnnotationService{})

	rec := perform(t, router, http.MethodGet, annotatorPath("highlight", "/search"), nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnnotationCreate_RecordsAnnotation(t *testing.T) {
	svc := &fakeAnnotationService{created: &annotation.Annotation{ID: uuid.NewString()}}
	router := annotatorRouter(svc)

	body := map[string]interface{}{
		"quote": "shall report annually",
		"ranges": []map[string]interface{}{
			{"start": "/div[1]/p[2]", "startOffset": 10, "end": "/div[1]/p[2]", "endOffset": 31},
		},
	}
	rec := perform(t, router, http.MethodPost, annotatorPath("occurence", "/annotations"), body,
		map[string]string{"X-User": "reviewer@regcat.local"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, glossary.AnnotationOccurrence, svc.lastCreate.Type)
	assert.Equal(t, "reviewer@regcat.local", svc.lastCreate.User)
	assert.Equal(t, "shall report annually", svc.lastCreate.Quote)
	require.Len(t, svc.lastCreate.Ranges, 1)
	assert.Equal(t, 10, svc.lastCreate.Ranges[0].StartOffset)
	assert.Equal(t, "/div[1]/p[2]", svc.lastCreate.Ranges[0].Start)
	assert.False(t, svc.lastCreate.Rejected)
}

func TestAnnotationCreate_MissingUser(t *testing.T) {
	router := annotatorRouter(&fakeAnnotationService{})

	rec := perform(t, router, http.MethodPost, annotatorPath("occurence", "/annotations"),
		map[string]interface{}{"quote": "x"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnnotationDelete(t *testing.T) {
	svc := &fakeAnnotationService{}
	router := annotatorRouter(svc)
	id := uuid.New()

	rec := perform(t, router, http.MethodDelete, "/annotator/annotations/"+id.String(), nil, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, svc.deleted, 1)
	assert.Equal(t, id, svc.deleted[0])
}

func TestAnnotationDelete_NotFound(t *testing.T) {
	svc := &fakeAnnotationService{err: errors.New(errors.ErrCodeWorklogNotFound, "worklog not found")}
	router := annotatorRouter(svc)

	rec := perform(t, router, http.MethodDelete, "/annotator/annotations/"+uuid.NewString(), nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

//Personal.AI order the ending
