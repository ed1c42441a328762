package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regcat-io/regcat/internal/application/catalogue"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/infrastructure/search/opensearch"
	"github.com/regcat-io/regcat/pkg/errors"
)

type fakeCatalogueService struct {
	conceptPage    *catalogue.ConceptPage
	conceptDetail  *catalogue.ConceptDetail
	obligationPage *catalogue.ObligationPage
	view           *catalogue.DocumentObligationView
	highlightDoc   *opensearch.HighlightDocument
	states         []*glossary.AcceptanceState
	lastConceptQ   catalogue.ConceptQuery
	lastVerdict    catalogue.VerdictInput
	lastHighlight  catalogue.HighlightKind
	err            error
}

func (f *fakeCatalogueService) ListConcepts(ctx context.Context, q catalogue.ConceptQuery) (*catalogue.ConceptPage, error) {
	f.lastConceptQ = q
	return f.conceptPage, f.err
}

func (f *fakeCatalogueService) GetConcept(ctx context.Context, id uuid.UUID) (*catalogue.ConceptDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.conceptDetail, nil
}

func (f *fakeCatalogueService) ListObligations(ctx context.Context, q catalogue.ObligationQuery) (*catalogue.ObligationPage, error) {
	return f.obligationPage, f.err
}

func (f *fakeCatalogueService) DocumentObligations(ctx context.Context, documentID uuid.UUID) (*catalogue.DocumentObligationView, error) {
	return f.view, f.err
}

func (f *fakeCatalogueService) DocumentHighlights(ctx context.Context, documentID uuid.UUID, kind catalogue.HighlightKind) (*opensearch.HighlightDocument, error) {
	f.lastHighlight = kind
	return f.highlightDoc, f.err
}

func (f *fakeCatalogueService) AcceptanceValues() []glossary.AcceptanceValue {
	return []glossary.AcceptanceValue{
		glossary.AcceptanceUnvalidated,
		glossary.AcceptanceAccepted,
		glossary.AcceptanceRejected,
	}
}

func (f *fakeCatalogueService) EntityAcceptance(ctx context.Context, kind glossary.EntityKind, entityID uuid.UUID) ([]*glossary.AcceptanceState, error) {
	return f.states, f.err
}

func (f *fakeCatalogueService) SetVerdict(ctx context.Context, in catalogue.VerdictInput) error {
	if f.err != nil {
		return f.err
	}
	f.lastVerdict = in
	return nil
}

func catalogueRouter(svc CatalogueService) http.Handler {
	h := NewCatalogueHandler(svc)
	r := gin.New()
	r.GET("/concepts", h.ListConcepts)
	r.GET("/concepts/:conceptID", h.GetConcept)
	r.GET("/obligations", h.ListObligations)
	r.GET("/documents/:documentID/obligations", h.DocumentObligations)
	r.GET("/documents/:documentID/highlights/:layer", h.DocumentHighlights)
	r.GET("/acceptance/values", h.AcceptanceValues)
	r.GET("/acceptance/:entityKind/:entityID", h.EntityAcceptance)
	r.POST("/acceptance/:entityKind/:entityID", h.SetVerdict)
	return r
}

func TestListConcepts_ParsesQuery(t *testing.T) {
	svc := &fakeCatalogueService{conceptPage: &catalogue.ConceptPage{Total: 0}}
	router := catalogueRouter(svc)
	docID := uuid.New()

	rec := perform(t, router, http.MethodGet,
		"/concepts?keyword=own+funds&version=tf-idf&document="+docID.String()+"&limit=7&offset=14", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "own funds", svc.lastConceptQ.Keyword)
	assert.Equal(t, "tf-idf", svc.lastConceptQ.Version)
	require.NotNil(t, svc.lastConceptQ.DocumentID)
	assert.Equal(t, docID, *svc.lastConceptQ.DocumentID)
	assert.Equal(t, 7, svc.lastConceptQ.Limit)
	assert.Equal(t, 14, svc.lastConceptQ.Offset)
}

func TestListConcepts_CapsPageSize(t *testing.T) {
	svc := &fakeCatalogueService{conceptPage: &catalogue.ConceptPage{}}
	router := catalogueRouter(svc)

	rec := perform(t, router, http.MethodGet, "/concepts?limit=5000", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxPageSize, svc.lastConceptQ.Limit)
}

func TestListConcepts_InvalidDocumentFilter(t *testing.T) {
	router := catalogueRouter(&fakeCatalogueService{})

	rec := perform(t, router, http.MethodGet, "/concepts?document=not-a-uuid", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetConcept_NotFound(t *testing.T) {
	svc := &fakeCatalogueService{err: errors.New(errors.ErrCodeConceptNotFound, "concept not found")}
	router := catalogueRouter(svc)

	rec := perform(t, router, http.MethodGet, "/concepts/"+uuid.NewString(), nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocumentObligations_ReturnsView(t *testing.T) {
	docID := uuid.New()
	svc := &fakeCatalogueService{view: &catalogue.DocumentObligationView{DocumentID: docID.String()}}
	router := catalogueRouter(svc)

	rec := perform(t, router, http.MethodGet, "/documents/"+docID.String()+"/obligations", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var view catalogue.DocumentObligationView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, docID.String(), view.DocumentID)
}

func TestAcceptanceValues_ListsVocabulary(t *testing.T) {
	router := catalogueRouter(&fakeCatalogueService{})

	rec := perform(t, router, http.MethodGet, "/acceptance/values", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var values []glossary.AcceptanceValue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &values))
	assert.Equal(t, []glossary.AcceptanceValue{
		glossary.AcceptanceUnvalidated,
		glossary.AcceptanceAccepted,
		glossary.AcceptanceRejected,
	}, values)
}

func TestSetVerdict_RecordsUserState(t *testing.T) {
	svc := &fakeCatalogueService{}
	router := catalogueRouter(svc)
	conceptID := uuid.New()

	rec := perform(t, router, http.MethodPost, "/acceptance/concept/"+conceptID.String(),
		map[string]string{"value": "Accepted"},
		map[string]string{"X-User": "reviewer@regcat.local"})

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, glossary.EntityConcept, svc.lastVerdict.Kind)
	assert.Equal(t, conceptID, svc.lastVerdict.EntityID)
	assert.Equal(t, "reviewer@regcat.local", svc.lastVerdict.UserID)
	assert.Equal(t, glossary.AcceptanceAccepted, svc.lastVerdict.Value)
}

func TestSetVerdict_UnknownKind(t *testing.T) {
	router := catalogueRouter(&fakeCatalogueService{})

	rec := perform(t, router, http.MethodPost, "/acceptance/term/"+uuid.NewString(),
		map[string]string{"value": "Accepted"},
		map[string]string{"X-User": "reviewer@regcat.local"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetVerdict_MissingUser(t *testing.T) {
	router := catalogueRouter(&fakeCatalogueService{})

	rec := perform(t, router, http.MethodPost, "/acceptance/concept/"+uuid.NewString(),
		map[string]string{"value": "Accepted"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentHighlights_ReturnsLayer(t *testing.T) {
	docID := uuid.New()
	svc := &fakeCatalogueService{highlightDoc: &opensearch.HighlightDocument{
		DocumentID: docID,
		Text:       "The institution shall report quarterly.",
		Highlights: []opensearch.Highlight{{Text: "shall report", Start: 16, End: 28}},
	}}
	router := catalogueRouter(svc)

	rec := perform(t, router, http.MethodGet,
		"/documents/"+docID.String()+"/highlights/obligations", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, catalogue.HighlightObligations, svc.lastHighlight)

	var body struct {
		Text       string
		Highlights []struct {
			Text  string
			Start int
			End   int
		}
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Highlights, 1)
	assert.Equal(t, "shall report", body.Highlights[0].Text)
	assert.Equal(t, 16, body.Highlights[0].Start)
}

func TestDocumentHighlights_UnknownLayer(t *testing.T) {
	svc := &fakeCatalogueService{}
	router := catalogueRouter(svc)

	rec := perform(t, router, http.MethodGet,
		"/documents/"+uuid.NewString()+"/highlights/footnotes", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentHighlights_NotIndexed(t *testing.T) {
	svc := &fakeCatalogueService{err: errors.New(errors.ErrCodeNotFound, "document not present in index")}
	router := catalogueRouter(svc)

	rec := perform(t, router, http.MethodGet,
		"/documents/"+uuid.NewString()+"/highlights/occurrences", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

//Personal.AI order the ending
