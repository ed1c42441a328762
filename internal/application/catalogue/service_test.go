package catalogue

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regcat-io/regcat/internal/domain/document"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/domain/obligation"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/internal/infrastructure/search/opensearch"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeConceptRepo struct {
	glossary.ConceptRepository

	concepts []*glossary.Concept
	related  map[uuid.UUID][]*glossary.Concept
	lastList glossary.ConceptFilter
}

func (f *fakeConceptRepo) List(ctx context.Context, filter glossary.ConceptFilter) ([]*glossary.Concept, int64, error) {
	f.lastList = filter
	return f.concepts, int64(len(f.concepts)), nil
}

func (f *fakeConceptRepo) GetByID(ctx context.Context, id uuid.UUID) (*glossary.Concept, error) {
	for _, c := range f.concepts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "concept not found")
}

func (f *fakeConceptRepo) RelatedConcepts(ctx context.Context, id uuid.UUID) ([]*glossary.Concept, error) {
	return f.related[id], nil
}

type fakeObligationRepo struct {
	obligation.Repository

	obligations []*obligation.ReportingObligation
	lastList    obligation.Filter
}

func (f *fakeObligationRepo) List(ctx context.Context, filter obligation.Filter) ([]*obligation.ReportingObligation, int64, error) {
	f.lastList = filter
	return f.obligations, int64(len(f.obligations)), nil
}

func (f *fakeObligationRepo) GetByID(ctx context.Context, id uuid.UUID) (*obligation.ReportingObligation, error) {
	for _, ro := range f.obligations {
		if ro.ID == id {
			return ro, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "obligation not found")
}

type fakeAcceptanceRepo struct {
	glossary.AcceptanceRepository

	upserts []*glossary.AcceptanceState
}

func (f *fakeAcceptanceRepo) Upsert(ctx context.Context, state *glossary.AcceptanceState) error {
	f.upserts = append(f.upserts, state)
	return nil
}

func (f *fakeAcceptanceRepo) ByEntity(ctx context.Context, kind glossary.EntityKind, entityID uuid.UUID) ([]*glossary.AcceptanceState, error) {
	var out []*glossary.AcceptanceState
	for _, s := range f.upserts {
		if s.EntityKind == kind && s.EntityID == entityID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeDocumentRepo struct {
	document.Repository

	documents []*document.Document
	comments  map[uuid.UUID]*document.Comment
	refreshed []uuid.UUID
	lastList  document.Filter
}

func (f *fakeDocumentRepo) List(ctx context.Context, filter document.Filter) ([]*document.Document, int64, error) {
	f.lastList = filter
	return f.documents, int64(len(f.documents)), nil
}

func (f *fakeDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	for _, d := range f.documents {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "document not found")
}

func (f *fakeDocumentRepo) AddComment(ctx context.Context, c *document.Comment) error {
	f.comments[c.ID] = c
	return nil
}

func (f *fakeDocumentRepo) CommentsByDocument(ctx context.Context, documentID uuid.UUID) ([]*document.Comment, error) {
	var out []*document.Comment
	for _, c := range f.comments {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.comments[id]; !ok {
		return errors.New(errors.ErrCodeNotFound, "comment not found")
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeDocumentRepo) RefreshAcceptance(ctx context.Context, documentID uuid.UUID) error {
	f.refreshed = append(f.refreshed, documentID)
	return nil
}

type fakeGraphRepo struct {
	obligation.GraphRepository

	byDocument map[string][]*obligation.GraphObligation
	loads      int
}

func (f *fakeGraphRepo) ObligationsByDocument(ctx context.Context, catDocURI string) ([]*obligation.GraphObligation, error) {
	f.loads++
	return f.byDocument[catDocURI], nil
}

// fakeCache is a map-backed stand-in for the redis cache.  Values are kept as
// loader results rather than serialized bytes; GetOrSet copies through the
// same pointer shape the redis implementation produces.
type fakeHighlightSearcher struct {
	doc       *opensearch.HighlightDocument
	err       error
	lastLayer string
}

func (f *fakeHighlightSearcher) Occurrences(ctx context.Context, documentID uuid.UUID) (*opensearch.HighlightDocument, error) {
	f.lastLayer = "occurrences"
	return f.get()
}

func (f *fakeHighlightSearcher) Definitions(ctx context.Context, documentID uuid.UUID) (*opensearch.HighlightDocument, error) {
	f.lastLayer = "definitions"
	return f.get()
}

func (f *fakeHighlightSearcher) Obligations(ctx context.Context, documentID uuid.UUID) (*opensearch.HighlightDocument, error) {
	f.lastLayer = "obligations"
	return f.get()
}

func (f *fakeHighlightSearcher) get() (*opensearch.HighlightDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.doc == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "document not present in index")
	}
	return f.doc, nil
}

type fakeCache struct {
	views   map[string]*DocumentObligationView
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{views: make(map[string]*DocumentObligationView)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	view, ok := f.views[key]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "cache miss")
	}
	*dest.(*DocumentObligationView) = *view
	return nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.views[key] = value.(*DocumentObligationView)
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.views, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func (f *fakeCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	if err := f.Get(ctx, key, dest); err == nil {
		return nil
	}
	loaded, err := loader(ctx)
	if err != nil {
		return err
	}
	view := loaded.(*DocumentObligationView)
	f.views[key] = view
	*dest.(*DocumentObligationView) = *view
	return nil
}

func (f *fakeCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var n int64
	for key := range f.views {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(f.views, key)
			n++
		}
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

type catalogueFixtures struct {
	concepts    *fakeConceptRepo
	obligations *fakeObligationRepo
	acceptance  *fakeAcceptanceRepo
	documents   *fakeDocumentRepo
	graph       *fakeGraphRepo
	highlights  *fakeHighlightSearcher
	cache       *fakeCache
	vocab       obligation.Vocabulary
}

func newCatalogueFixtures() *catalogueFixtures {
	return &catalogueFixtures{
		concepts:    &fakeConceptRepo{related: make(map[uuid.UUID][]*glossary.Concept)},
		obligations: &fakeObligationRepo{},
		acceptance:  &fakeAcceptanceRepo{},
		documents:   &fakeDocumentRepo{comments: make(map[uuid.UUID]*document.Comment)},
		graph:       &fakeGraphRepo{byDocument: make(map[string][]*obligation.GraphObligation)},
		highlights:  &fakeHighlightSearcher{},
		cache:       newFakeCache(),
		vocab:       obligation.NewVocabulary("http://regcat.local"),
	}
}

func (f *catalogueFixtures) service() *Service {
	return NewService(f.concepts, f.obligations, f.acceptance, f.documents,
		f.graph, f.vocab, f.highlights, f.cache, logging.NewNopLogger())
}

// ─────────────────────────────────────────────────────────────────────────────
// Browsing
// ─────────────────────────────────────────────────────────────────────────────

func TestListDocuments_ForwardsFilter(t *testing.T) {
	f := newCatalogueFixtures()
	siteID := uuid.New()
	unvalidated := true
	f.documents.documents = []*document.Document{
		{ID: uuid.New(), Title: "Regulation (EU) 2019/2033"},
	}

	page, err := f.service().ListDocuments(context.Background(), DocumentQuery{
		WebsiteID:   &siteID,
		Keyword:     "2019/2033",
		Celex:       "32019R2033",
		Unvalidated: &unvalidated,
		Limit:       20,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), page.Total)
	require.NotNil(t, f.documents.lastList.WebsiteID)
	assert.Equal(t, siteID, *f.documents.lastList.WebsiteID)
	assert.Equal(t, "2019/2033", f.documents.lastList.TitleLike)
	assert.Equal(t, "32019R2033", f.documents.lastList.Celex)
	require.NotNil(t, f.documents.lastList.Unvalidated)
	assert.True(t, *f.documents.lastList.Unvalidated)
}

func TestComments_RoundTrip(t *testing.T) {
	f := newCatalogueFixtures()
	docID := uuid.New()
	svc := f.service()

	comment, err := svc.AddComment(context.Background(), docID, "reviewer@regcat.local", "title needs the consolidated date")
	require.NoError(t, err)
	assert.Equal(t, docID, comment.DocumentID)
	assert.False(t, comment.CreatedAt.IsZero())

	comments, err := svc.Comments(context.Background(), docID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	require.NoError(t, svc.DeleteComment(context.Background(), comment.ID))
	comments, err = svc.Comments(context.Background(), docID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestAddComment_Validation(t *testing.T) {
	f := newCatalogueFixtures()
	svc := f.service()

	_, err := svc.AddComment(context.Background(), uuid.New(), "", "text")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	_, err = svc.AddComment(context.Background(), uuid.New(), "reviewer@regcat.local", "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestListConcepts_ForwardsFilter(t *testing.T) {
	f := newCatalogueFixtures()
	docID := uuid.New()
	f.concepts.concepts = []*glossary.Concept{
		{ID: uuid.New(), Name: "own funds requirement"},
		{ID: uuid.New(), Name: "own funds"},
	}

	page, err := f.service().ListConcepts(context.Background(), ConceptQuery{
		Keyword:    "own funds",
		Version:    "tf-idf-test",
		DocumentID: &docID,
		Limit:      5,
		Offset:     10,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Concepts, 2)
	assert.Equal(t, "own funds", f.concepts.lastList.NameLike)
	assert.Equal(t, "tf-idf-test", f.concepts.lastList.Version)
	require.NotNil(t, f.concepts.lastList.DocumentID)
	assert.Equal(t, docID, *f.concepts.lastList.DocumentID)
	assert.Equal(t, 5, f.concepts.lastList.Limit)
	assert.Equal(t, 10, f.concepts.lastList.Offset)
}

func TestGetConcept_IncludesRelated(t *testing.T) {
	f := newCatalogueFixtures()
	concept := &glossary.Concept{ID: uuid.New(), Name: "own funds requirement"}
	neighbour := &glossary.Concept{ID: uuid.New(), Name: "own funds"}
	f.concepts.concepts = []*glossary.Concept{concept, neighbour}
	f.concepts.related[concept.ID] = []*glossary.Concept{neighbour}

	detail, err := f.service().GetConcept(context.Background(), concept.ID)
	require.NoError(t, err)

	assert.Equal(t, concept, detail.Concept)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, neighbour.ID, detail.Related[0].ID)
}

func TestGetConcept_NotFound(t *testing.T) {
	f := newCatalogueFixtures()

	_, err := f.service().GetConcept(context.Background(), uuid.New())
	assert.True(t, errors.IsNotFound(err))
}

func TestListObligations_ForwardsFilter(t *testing.T) {
	f := newCatalogueFixtures()
	f.obligations.obligations = []*obligation.ReportingObligation{
		{ID: uuid.New(), Value: "The institution shall report annually."},
	}

	page, err := f.service().ListObligations(context.Background(), ObligationQuery{
		Keyword: "report",
		Version: "ro-test",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "report", f.obligations.lastList.ValueLike)
	assert.Equal(t, "ro-test", f.obligations.lastList.Version)
}

// ─────────────────────────────────────────────────────────────────────────────
// Obligation views
// ─────────────────────────────────────────────────────────────────────────────

func TestDocumentObligations_CachesGraphReads(t *testing.T) {
	f := newCatalogueFixtures()
	docID := uuid.New()
	f.graph.byDocument[f.vocab.CatDoc(docID.String())] = []*obligation.GraphObligation{
		{URI: "http://regcat.local/reporting_obligations/rep_obl_abc", Value: "shall report"},
	}
	svc := f.service()

	first, err := svc.DocumentObligations(context.Background(), docID)
	require.NoError(t, err)
	second, err := svc.DocumentObligations(context.Background(), docID)
	require.NoError(t, err)

	assert.Equal(t, 1, f.graph.loads)
	assert.Equal(t, docID.String(), first.DocumentID)
	require.Len(t, second.Obligations, 1)
	assert.Equal(t, "shall report", second.Obligations[0].Value)
}

func TestDocumentObligations_NoCacheReadsGraphDirectly(t *testing.T) {
	f := newCatalogueFixtures()
	docID := uuid.New()
	svc := NewService(f.concepts, f.obligations, f.acceptance, f.documents,
		f.graph, f.vocab, nil, nil, logging.NewNopLogger())

	_, err := svc.DocumentObligations(context.Background(), docID)
	require.NoError(t, err)
	_, err = svc.DocumentObligations(context.Background(), docID)
	require.NoError(t, err)

	assert.Equal(t, 2, f.graph.loads)
}

// ─────────────────────────────────────────────────────────────────────────────
// Verdicts
// ─────────────────────────────────────────────────────────────────────────────

func TestSetVerdict_UpsertsUserState(t *testing.T) {
	f := newCatalogueFixtures()
	conceptID := uuid.New()

	err := f.service().SetVerdict(context.Background(), VerdictInput{
		Kind:     glossary.EntityConcept,
		EntityID: conceptID,
		UserID:   "reviewer@regcat.local",
		Value:    glossary.AcceptanceAccepted,
	})
	require.NoError(t, err)

	require.Len(t, f.acceptance.upserts, 1)
	state := f.acceptance.upserts[0]
	assert.Equal(t, glossary.EntityConcept, state.EntityKind)
	assert.Equal(t, conceptID, state.EntityID)
	require.NotNil(t, state.UserID)
	assert.Equal(t, "reviewer@regcat.local", *state.UserID)
	assert.Nil(t, state.ModelName)
	assert.Equal(t, glossary.AcceptanceAccepted, state.Value)
	assert.Empty(t, f.documents.refreshed)
}

func TestSetVerdict_DocumentRefreshesRollup(t *testing.T) {
	f := newCatalogueFixtures()
	docID := uuid.New()

	err := f.service().SetVerdict(context.Background(), VerdictInput{
		Kind:     glossary.EntityDocument,
		EntityID: docID,
		UserID:   "reviewer@regcat.local",
		Value:    glossary.AcceptanceRejected,
	})
	require.NoError(t, err)

	require.Len(t, f.documents.refreshed, 1)
	assert.Equal(t, docID, f.documents.refreshed[0])
}

func TestSetVerdict_ObligationInvalidatesView(t *testing.T) {
	f := newCatalogueFixtures()
	docID := uuid.New()
	ro := &obligation.ReportingObligation{ID: uuid.New(), DocumentID: docID}
	f.obligations.obligations = []*obligation.ReportingObligation{ro}
	svc := f.service()

	// Warm the cache, then verdict the obligation.
	_, err := svc.DocumentObligations(context.Background(), docID)
	require.NoError(t, err)

	err = svc.SetVerdict(context.Background(), VerdictInput{
		Kind:     glossary.EntityObligation,
		EntityID: ro.ID,
		UserID:   "reviewer@regcat.local",
		Value:    glossary.AcceptanceRejected,
	})
	require.NoError(t, err)

	assert.Contains(t, f.cache.deleted, roViewKey(docID))
	_, err = svc.DocumentObligations(context.Background(), docID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.graph.loads)
}

func TestSetVerdict_MissingUser(t *testing.T) {
	f := newCatalogueFixtures()

	err := f.service().SetVerdict(context.Background(), VerdictInput{
		Kind:     glossary.EntityConcept,
		EntityID: uuid.New(),
		Value:    glossary.AcceptanceAccepted,
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestEntityAcceptance_ReturnsStates(t *testing.T) {
	f := newCatalogueFixtures()
	conceptID := uuid.New()
	svc := f.service()

	require.NoError(t, svc.SetVerdict(context.Background(), VerdictInput{
		Kind:     glossary.EntityConcept,
		EntityID: conceptID,
		UserID:   "reviewer@regcat.local",
		Value:    glossary.AcceptanceAccepted,
	}))

	states, err := svc.EntityAcceptance(context.Background(), glossary.EntityConcept, conceptID)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, glossary.AcceptanceAccepted, states[0].Value)
}

func TestAcceptanceValues(t *testing.T) {
	f := newCatalogueFixtures()

	assert.Equal(t, []glossary.AcceptanceValue{
		glossary.AcceptanceUnvalidated,
		glossary.AcceptanceAccepted,
		glossary.AcceptanceRejected,
	}, f.service().AcceptanceValues())
}

func TestDocumentHighlights_RoutesToLayer(t *testing.T) {
	f := newCatalogueFixtures()
	docID := uuid.New()
	f.highlights.doc = &opensearch.HighlightDocument{
		DocumentID: docID,
		Text:       "The institution shall report quarterly.",
		Highlights: []opensearch.Highlight{{Text: "institution", Start: 4, End: 15}},
	}

	doc, err := f.service().DocumentHighlights(context.Background(), docID, HighlightDefinitions)
	require.NoError(t, err)
	assert.Equal(t, "definitions", f.highlights.lastLayer)
	require.Len(t, doc.Highlights, 1)
	assert.Equal(t, "institution", doc.Highlights[0].Text)
}

func TestDocumentHighlights_NoSearcherConfigured(t *testing.T) {
	f := newCatalogueFixtures()
	svc := NewService(f.concepts, f.obligations, f.acceptance, f.documents,
		f.graph, f.vocab, nil, nil, logging.NewNopLogger())

	_, err := svc.DocumentHighlights(context.Background(), uuid.New(), HighlightOccurrences)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalService))
}

func TestParseHighlightKind(t *testing.T) {
	kind, err := ParseHighlightKind("obligations")
	require.NoError(t, err)
	assert.Equal(t, HighlightObligations, kind)

	_, err = ParseHighlightKind("footnotes")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

//Personal.AI order the ending
