package extraction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/annotation"
	"github.com/regcat-io/regcat/internal/domain/document"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/domain/obligation"
	"github.com/regcat-io/regcat/internal/infrastructure/messaging/kafka"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/internal/nlp/cas"
	"github.com/regcat-io/regcat/internal/nlp/extract"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Store fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeDocuments struct {
	all        []*document.Document
	termStamps map[uuid.UUID]string
	roStamps   map[uuid.UUID]string
}

func newFakeDocuments(docs ...*document.Document) *fakeDocuments {
	return &fakeDocuments{
		all:        docs,
		termStamps: make(map[uuid.UUID]string),
		roStamps:   make(map[uuid.UUID]string),
	}
}

func (f *fakeDocuments) Create(ctx context.Context, d *document.Document) error {
	f.all = append(f.all, d)
	return nil
}

func (f *fakeDocuments) GetByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	for _, d := range f.all {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, errors.NotFound("document not found")
}

func (f *fakeDocuments) GetByURL(ctx context.Context, url string) (*document.Document, error) {
	return nil, errors.NotFound("document not found")
}

func (f *fakeDocuments) Update(ctx context.Context, d *document.Document) error { return nil }

func (f *fakeDocuments) List(ctx context.Context, filter document.Filter) ([]*document.Document, int64, error) {
	var matched []*document.Document
	for _, d := range f.all {
		if filter.WebsiteID != nil && d.WebsiteID != *filter.WebsiteID {
			continue
		}
		if filter.MissingTermVersion != "" && d.TermVersion == filter.MissingTermVersion {
			continue
		}
		if filter.MissingObligationVersion != "" && d.ObligationVersion == filter.MissingObligationVersion {
			continue
		}
		matched = append(matched, d)
	}
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (f *fakeDocuments) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeDocuments) SetTermVersion(ctx context.Context, id uuid.UUID, version string) error {
	f.termStamps[id] = version
	return nil
}

func (f *fakeDocuments) SetObligationVersion(ctx context.Context, id uuid.UUID, version string) error {
	f.roStamps[id] = version
	return nil
}

func (f *fakeDocuments) RefreshAcceptance(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeDocuments) AddComment(ctx context.Context, c *document.Comment) error { return nil }

func (f *fakeDocuments) CommentsByDocument(ctx context.Context, documentID uuid.UUID) ([]*document.Comment, error) {
	return nil, nil
}

func (f *fakeDocuments) DeleteComment(ctx context.Context, id uuid.UUID) error { return nil }

type fakeWebsites struct {
	sites map[uuid.UUID]*document.Website
}

func (f *fakeWebsites) Create(ctx context.Context, w *document.Website) error { return nil }

func (f *fakeWebsites) GetByID(ctx context.Context, id uuid.UUID) (*document.Website, error) {
	if w, ok := f.sites[id]; ok {
		return w, nil
	}
	return nil, errors.NotFound("website not found")
}

func (f *fakeWebsites) GetByName(ctx context.Context, name string) (*document.Website, error) {
	return nil, errors.NotFound("website not found")
}

func (f *fakeWebsites) List(ctx context.Context) ([]*document.Website, error) { return nil, nil }

type fakeConcepts struct {
	byKey       map[glossary.NaturalKey]*glossary.Concept
	occurrences []*glossary.Occurrence
	definitions []*glossary.Definition
	relations   [][2]uuid.UUID
}

func newFakeConcepts() *fakeConcepts {
	return &fakeConcepts{byKey: make(map[glossary.NaturalKey]*glossary.Concept)}
}

func (f *fakeConcepts) GetOrCreate(ctx context.Context, c *glossary.Concept) (*glossary.Concept, error) {
	if stored, ok := f.byKey[c.Key()]; ok {
		return stored, nil
	}
	stored := *c
	stored.ID = uuid.New()
	f.byKey[c.Key()] = &stored
	return &stored, nil
}

func (f *fakeConcepts) GetByID(ctx context.Context, id uuid.UUID) (*glossary.Concept, error) {
	for _, c := range f.byKey {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.NotFound("concept not found")
}

func (f *fakeConcepts) GetByKey(ctx context.Context, key glossary.NaturalKey) (*glossary.Concept, error) {
	if c, ok := f.byKey[key]; ok {
		return c, nil
	}
	return nil, errors.NotFound("concept not found")
}

func (f *fakeConcepts) Update(ctx context.Context, c *glossary.Concept) error { return nil }

func (f *fakeConcepts) List(ctx context.Context, filter glossary.ConceptFilter) ([]*glossary.Concept, int64, error) {
	return nil, 0, nil
}

func (f *fakeConcepts) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeConcepts) UpsertOccurrence(ctx context.Context, o *glossary.Occurrence) error {
	f.occurrences = append(f.occurrences, o)
	return nil
}

func (f *fakeConcepts) UpsertDefinition(ctx context.Context, d *glossary.Definition) error {
	f.definitions = append(f.definitions, d)
	return nil
}

func (f *fakeConcepts) OccurrencesByDocument(ctx context.Context, documentID uuid.UUID) ([]*glossary.Occurrence, error) {
	return f.occurrences, nil
}

func (f *fakeConcepts) DefinitionsByDocument(ctx context.Context, documentID uuid.UUID) ([]*glossary.Definition, error) {
	return f.definitions, nil
}

func (f *fakeConcepts) DeleteOccurrence(ctx context.Context, conceptID, documentID uuid.UUID, span annotation.Span) error {
	return nil
}

func (f *fakeConcepts) DeleteDefinition(ctx context.Context, conceptID, documentID uuid.UUID, span annotation.Span) error {
	return nil
}

func (f *fakeConcepts) LinkRelated(ctx context.Context, fromID, toID uuid.UUID) error {
	f.relations = append(f.relations, [2]uuid.UUID{fromID, toID})
	return nil
}

func (f *fakeConcepts) RelatedConcepts(ctx context.Context, conceptID uuid.UUID) ([]*glossary.Concept, error) {
	return nil, nil
}

type fakeAcceptance struct {
	states []*glossary.AcceptanceState
}

func (f *fakeAcceptance) Upsert(ctx context.Context, state *glossary.AcceptanceState) error {
	f.states = append(f.states, state)
	return nil
}

func (f *fakeAcceptance) ByEntity(ctx context.Context, kind glossary.EntityKind, entityID uuid.UUID) ([]*glossary.AcceptanceState, error) {
	return nil, nil
}

func (f *fakeAcceptance) UserState(ctx context.Context, kind glossary.EntityKind, entityID uuid.UUID, userID string) (*glossary.AcceptanceState, error) {
	return nil, errors.NotFound("acceptance state not found")
}

func (f *fakeAcceptance) DeleteByEntity(ctx context.Context, kind glossary.EntityKind, entityID uuid.UUID) error {
	return nil
}

type fakeWorklogs struct {
	entries []*glossary.Worklog
}

func (f *fakeWorklogs) Create(ctx context.Context, w *glossary.Worklog) error {
	f.entries = append(f.entries, w)
	return nil
}

func (f *fakeWorklogs) GetByID(ctx context.Context, id uuid.UUID) (*glossary.Worklog, error) {
	return nil, errors.NotFound("worklog not found")
}

func (f *fakeWorklogs) ByDocument(ctx context.Context, documentID uuid.UUID, types []glossary.AnnotationType) ([]*glossary.Worklog, error) {
	var out []*glossary.Worklog
	for _, w := range f.entries {
		if w.DocumentID != documentID {
			continue
		}
		if len(types) > 0 {
			found := false
			for _, t := range types {
				if w.Type == t {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeWorklogs) ByDocumentAndUser(ctx context.Context, documentID uuid.UUID, user string, types []glossary.AnnotationType) ([]*glossary.Worklog, error) {
	return nil, nil
}

func (f *fakeWorklogs) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeObligationRepo struct {
	upserts []*obligation.ReportingObligation
}

func (f *fakeObligationRepo) Upsert(ctx context.Context, o *obligation.ReportingObligation) (*obligation.ReportingObligation, error) {
	stored := *o
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	f.upserts = append(f.upserts, &stored)
	return &stored, nil
}

func (f *fakeObligationRepo) GetByID(ctx context.Context, id uuid.UUID) (*obligation.ReportingObligation, error) {
	return nil, errors.NotFound("obligation not found")
}

func (f *fakeObligationRepo) GetByRDFID(ctx context.Context, rdfID string) (*obligation.ReportingObligation, error) {
	return nil, errors.NotFound("obligation not found")
}

func (f *fakeObligationRepo) ByDocument(ctx context.Context, documentID uuid.UUID) ([]*obligation.ReportingObligation, error) {
	return f.upserts, nil
}

func (f *fakeObligationRepo) List(ctx context.Context, filter obligation.Filter) ([]*obligation.ReportingObligation, int64, error) {
	return nil, 0, nil
}

func (f *fakeObligationRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeGraph struct {
	prior    obligation.PriorMatches
	plans    []*obligation.Plan
	applyErr error
}

func (f *fakeGraph) MatchingObligations(ctx context.Context, catDocURI, value string) ([]string, error) {
	return f.prior[value], nil
}

func (f *fakeGraph) PriorMatchesForDocument(ctx context.Context, catDocURI string) (obligation.PriorMatches, error) {
	if f.prior == nil {
		return obligation.PriorMatches{}, nil
	}
	return f.prior, nil
}

func (f *fakeGraph) Apply(ctx context.Context, plan *obligation.Plan) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.plans = append(f.plans, plan)
	return nil
}

func (f *fakeGraph) ObligationsByDocument(ctx context.Context, catDocURI string) ([]*obligation.GraphObligation, error) {
	return nil, nil
}

func (f *fakeGraph) RemoveDocumentSource(ctx context.Context, catDocURI string, unlinkOnly bool) error {
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Pipeline collaborator fakes
// ─────────────────────────────────────────────────────────────────────────────

// fakeNLP answers each stage with the configured function, or echoes the
// envelope back when none is set.
type fakeNLP struct {
	calls []string

	html2Text   func(html, attributes string) (*cas.Envelope, error)
	paragraphs  func(env *cas.Envelope) (*cas.Envelope, error)
	definitions func(env *cas.Envelope) (*cas.Envelope, error)
	terms       func(env *cas.Envelope) (*cas.Envelope, error)
	obligations func(env *cas.Envelope) (*cas.Envelope, error)
}

const (
	testTermVersion = "tf-idf-test"
	testROVersion   = "ro-test"
)

func (f *fakeNLP) Version() string            { return testTermVersion }
func (f *fakeNLP) ObligationsVersion() string { return testROVersion }

func (f *fakeNLP) HTML2Text(ctx context.Context, html, attributes string) (*cas.Envelope, error) {
	f.calls = append(f.calls, "html2text")
	if f.html2Text != nil {
		return f.html2Text(html, attributes)
	}
	return nil, fmt.Errorf("html2text stage not configured")
}

func (f *fakeNLP) stage(name string, fn func(*cas.Envelope) (*cas.Envelope, error), env *cas.Envelope) (*cas.Envelope, error) {
	f.calls = append(f.calls, name)
	if fn != nil {
		return fn(env)
	}
	return env, nil
}

func (f *fakeNLP) DetectParagraphs(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error) {
	return f.stage("paragraphs", f.paragraphs, env)
}

func (f *fakeNLP) ExtractTerms(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error) {
	return f.stage("terms", f.terms, env)
}

func (f *fakeNLP) ExtractDefinitions(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error) {
	return f.stage("definitions", f.definitions, env)
}

func (f *fakeNLP) ExtractObligations(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error) {
	return f.stage("obligations", f.obligations, env)
}

func (f *fakeNLP) called(name string) bool {
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

type fakeContent struct {
	html string
	err  error
}

func (f *fakeContent) HTML(ctx context.Context, documentID uuid.UUID) (string, string, error) {
	return f.html, "crawler-attrs", f.err
}

type fakeCASStore struct {
	canonical map[uuid.UUID]*cas.CAS
	debug     map[uuid.UUID]*cas.CAS
}

func newFakeCASStore() *fakeCASStore {
	return &fakeCASStore{
		canonical: make(map[uuid.UUID]*cas.CAS),
		debug:     make(map[uuid.UUID]*cas.CAS),
	}
}

func (f *fakeCASStore) Save(ctx context.Context, documentID uuid.UUID, c *cas.CAS) error {
	f.canonical[documentID] = c
	return nil
}

func (f *fakeCASStore) SaveDebug(ctx context.Context, documentID uuid.UUID, c *cas.CAS) error {
	f.debug[documentID] = c
	return nil
}

func (f *fakeCASStore) Load(ctx context.Context, documentID uuid.UUID) (*cas.CAS, error) {
	if c, ok := f.canonical[documentID]; ok {
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeCASNotFound, "no archived CAS for document")
}

func (f *fakeCASStore) Exists(ctx context.Context, documentID uuid.UUID) (bool, error) {
	_, ok := f.canonical[documentID]
	return ok, nil
}

type fakeROHTML struct {
	saved map[string][]byte
}

func (f *fakeROHTML) Save(ctx context.Context, documentID uuid.UUID, version string, html []byte) error {
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[documentID.String()+"-"+version] = html
	return nil
}

type fakeIndex struct {
	occurrenceResults []*extract.Result
	definitionResults []*extract.Result
	highlightText     string
	highlightTokens   []extract.IndexToken
	pushErr           error
}

func (f *fakeIndex) PushOccurrences(ctx context.Context, documentID uuid.UUID, res *extract.Result) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.occurrenceResults = append(f.occurrenceResults, res)
	return nil
}

func (f *fakeIndex) PushDefinitions(ctx context.Context, documentID uuid.UUID, res *extract.Result) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.definitionResults = append(f.definitionResults, res)
	return nil
}

func (f *fakeIndex) PushHighlights(ctx context.Context, documentID uuid.UUID, text string, tokens []extract.IndexToken) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.highlightText = text
	f.highlightTokens = tokens
	return nil
}

type fakeLease struct {
	released bool
	extended bool
}

func (f *fakeLease) Release(ctx context.Context) error { f.released = true; return nil }

func (f *fakeLease) Extend(ctx context.Context) (bool, error) { f.extended = true; return true, nil }

type fakeLeases struct {
	lease    *fakeLease
	acquired []string
	err      error
}

func (f *fakeLeases) Acquire(ctx context.Context, pipeline string, documentID uuid.UUID) (Lease, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.acquired = append(f.acquired, pipeline)
	if f.lease == nil {
		f.lease = &fakeLease{}
	}
	return f.lease, nil
}

type fakePublisher struct {
	published []*kafka.ProducerMessage
	batches   [][]*kafka.ProducerMessage
}

func (f *fakePublisher) Publish(ctx context.Context, msg *kafka.ProducerMessage) error {
	f.published = append(f.published, msg)
	return nil
}

func (f *fakePublisher) PublishBatch(ctx context.Context, msgs []*kafka.ProducerMessage) (*kafka.BatchPublishResult, error) {
	f.batches = append(f.batches, msgs)
	f.published = append(f.published, msgs...)
	return &kafka.BatchPublishResult{}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixture wiring
// ─────────────────────────────────────────────────────────────────────────────

type fixtures struct {
	documents  *fakeDocuments
	websites   *fakeWebsites
	concepts   *fakeConcepts
	acceptance *fakeAcceptance
	worklogs   *fakeWorklogs
	obligation *fakeObligationRepo
	graph      *fakeGraph
	nlp        *fakeNLP
	content    *fakeContent
	casStore   *fakeCASStore
	roHTML     *fakeROHTML
	index      *fakeIndex
	leases     *fakeLeases
	publisher  *fakePublisher
}

func newFixtures(docs ...*document.Document) *fixtures {
	return &fixtures{
		documents:  newFakeDocuments(docs...),
		websites:   &fakeWebsites{sites: make(map[uuid.UUID]*document.Website)},
		concepts:   newFakeConcepts(),
		acceptance: &fakeAcceptance{},
		worklogs:   &fakeWorklogs{},
		obligation: &fakeObligationRepo{},
		graph:      &fakeGraph{},
		nlp:        &fakeNLP{},
		content:    &fakeContent{html: "<html><body>raw</body></html>"},
		casStore:   newFakeCASStore(),
		roHTML:     &fakeROHTML{},
		index:      &fakeIndex{},
		leases:     &fakeLeases{},
		publisher:  &fakePublisher{},
	}
}

func (f *fixtures) service() *Service {
	return NewService(Deps{
		Documents:   f.documents,
		Websites:    f.websites,
		Concepts:    f.concepts,
		Acceptance:  f.acceptance,
		Worklogs:    f.worklogs,
		Obligations: f.obligation,
		Graph:       f.graph,
		Vocab:       obligation.NewVocabulary("http://regcat.local"),
		NLP:         f.nlp,
		Content:     f.content,
		CASStore:    f.casStore,
		ROHTML:      f.roHTML,
		Index:       f.index,
		Leases:      f.leases,
		Publisher:   f.publisher,
		Logger:      logging.NewNopLogger(),
	})
}

//Personal.AI order the ending
