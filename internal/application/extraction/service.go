// Package extraction orchestrates the two document pipelines: glossary term
// extraction and reporting-obligation extraction.  Each run claims a
// per-document lease, acquires the canonical text, chains the external NLP
// stages, reconciles the output against the stores, pushes the search index
// payloads, archives the CAS, and stamps the document with the pipeline
// version.  A failed stage aborts the document without a version stamp; the
// lease expires and the next scheduled run retries it.
package extraction

import (
	"context"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/document"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/domain/obligation"
	"github.com/regcat-io/regcat/internal/infrastructure/messaging/kafka"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/internal/nlp/cas"
	"github.com/regcat-io/regcat/internal/nlp/extract"
)

// Pipeline names, used for lease keys and dispatch.
const (
	PipelineTerms       = "terms"
	PipelineObligations = "obligations"
)

// contentTypeHTML is the content type stamped on every CAS envelope; the
// catalogue ingests rendered HTML even for PDF-derived documents.
const contentTypeHTML = "html"

// NLPStages is the chain of external NLP services the pipelines call.
type NLPStages interface {
	HTML2Text(ctx context.Context, html, attributes string) (*cas.Envelope, error)
	DetectParagraphs(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error)
	ExtractTerms(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error)
	ExtractDefinitions(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error)
	ExtractObligations(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error)
	Version() string
	ObligationsVersion() string
}

// ContentSource hands back a document's raw markup and the opaque attribute
// string the crawler recorded with it.
type ContentSource interface {
	HTML(ctx context.Context, documentID uuid.UUID) (html, attributes string, err error)
}

// CASArchive stores canonical and debug CAS snapshots per document.
type CASArchive interface {
	Save(ctx context.Context, documentID uuid.UUID, c *cas.CAS) error
	SaveDebug(ctx context.Context, documentID uuid.UUID, c *cas.CAS) error
	Load(ctx context.Context, documentID uuid.UUID) (*cas.CAS, error)
	Exists(ctx context.Context, documentID uuid.UUID) (bool, error)
}

// ObligationHTMLArchive stores the rendered obligation view per document and
// pipeline version.
type ObligationHTMLArchive interface {
	Save(ctx context.Context, documentID uuid.UUID, version string, html []byte) error
}

// Index receives the token-offset payloads for highlighting.
type Index interface {
	PushOccurrences(ctx context.Context, documentID uuid.UUID, res *extract.Result) error
	PushDefinitions(ctx context.Context, documentID uuid.UUID, res *extract.Result) error
	PushHighlights(ctx context.Context, documentID uuid.UUID, text string, tokens []extract.IndexToken) error
}

// Lease is a held per-document processing claim.
type Lease interface {
	Release(ctx context.Context) error
	Extend(ctx context.Context) (bool, error)
}

// Leases claims per-(pipeline, document) processing leases.
type Leases interface {
	Acquire(ctx context.Context, pipeline string, documentID uuid.UUID) (Lease, error)
}

// Publisher sends extraction jobs to the message bus.
type Publisher interface {
	Publish(ctx context.Context, msg *kafka.ProducerMessage) error
	PublishBatch(ctx context.Context, msgs []*kafka.ProducerMessage) (*kafka.BatchPublishResult, error)
}

// Deps bundles everything the extraction service orchestrates.
type Deps struct {
	Documents   document.Repository
	Websites    document.WebsiteRepository
	Concepts    glossary.ConceptRepository
	Acceptance  glossary.AcceptanceRepository
	Worklogs    glossary.WorklogRepository
	Obligations obligation.Repository
	Graph       obligation.GraphRepository
	Vocab       obligation.Vocabulary
	NLP         NLPStages
	Content     ContentSource
	CASStore    CASArchive
	ROHTML      ObligationHTMLArchive
	Index       Index
	Leases      Leases
	Publisher   Publisher
	Logger      logging.Logger
}

// Service runs the extraction pipelines.
type Service struct {
	deps   Deps
	logger logging.Logger
}

// NewService builds the extraction service.
func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{deps: deps, logger: logger}
}

// canonicalCAS returns the document's canonical text CAS.  An archived CAS
// is authoritative: its text anchors every stored offset.  Documents without
// one go through HTML-to-text; fresh is true on that path so the caller
// knows paragraph detection still has to run.
func (s *Service) canonicalCAS(ctx context.Context, documentID uuid.UUID) (c *cas.CAS, fresh bool, err error) {
	exists, err := s.deps.CASStore.Exists(ctx, documentID)
	if err != nil {
		return nil, false, err
	}
	if exists {
		c, err := s.deps.CASStore.Load(ctx, documentID)
		return c, false, err
	}

	html, attributes, err := s.deps.Content.HTML(ctx, documentID)
	if err != nil {
		return nil, false, err
	}
	env, err := s.deps.NLP.HTML2Text(ctx, html, attributes)
	if err != nil {
		return nil, false, err
	}
	c, err = cas.Decode(env)
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

//Personal.AI order the ending
