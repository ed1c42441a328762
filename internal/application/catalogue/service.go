// Package catalogue serves the review frontend's read side: browsing
// glossary concepts and reporting obligations, assembling per-document
// obligation views from the graph, and recording validator verdicts.
package catalogue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/document"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/domain/obligation"
	"github.com/regcat-io/regcat/internal/infrastructure/database/redis"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/internal/infrastructure/search/opensearch"
	"github.com/regcat-io/regcat/pkg/errors"
)

// roViewKeyPrefix keys cached per-document obligation views.
const roViewKeyPrefix = "catalogue:roview:"

// roViewTTL bounds staleness of the cached obligation views; validator
// actions invalidate eagerly, re-extraction is picked up on expiry.
const roViewTTL = 10 * time.Minute

// DocumentQuery narrows a document listing.
type DocumentQuery struct {
	WebsiteID   *uuid.UUID
	Keyword     string
	Celex       string
	Unvalidated *bool
	Limit       int
	Offset      int
}

// DocumentPage is one page of documents plus the unpaged total.
type DocumentPage struct {
	Total     int64                `json:"total"`
	Documents []*document.Document `json:"documents"`
}

// ConceptQuery narrows a concept listing.
type ConceptQuery struct {
	Keyword    string
	Version    string
	DocumentID *uuid.UUID
	Limit      int
	Offset     int
}

// ConceptPage is one page of concepts plus the unpaged total.
type ConceptPage struct {
	Total    int64               `json:"total"`
	Concepts []*glossary.Concept `json:"concepts"`
}

// ConceptDetail is a concept with its related-concept neighbourhood.
type ConceptDetail struct {
	Concept *glossary.Concept   `json:"concept"`
	Related []*glossary.Concept `json:"related"`
}

// ObligationQuery narrows an obligation listing.
type ObligationQuery struct {
	Keyword    string
	Version    string
	DocumentID *uuid.UUID
	Limit      int
	Offset     int
}

// ObligationPage is one page of reporting obligations.
type ObligationPage struct {
	Total       int64                            `json:"total"`
	Obligations []*obligation.ReportingObligation `json:"obligations"`
}

// DocumentObligationView is the assembled per-document obligation view read
// from the graph: each obligation with its role-tagged sub-entities.
type DocumentObligationView struct {
	DocumentID  string                        `json:"document_id"`
	Obligations []*obligation.GraphObligation `json:"obligations"`
}

// HighlightKind selects which annotation layer of a document to render.
type HighlightKind string

const (
	HighlightOccurrences HighlightKind = "occurrences"
	HighlightDefinitions HighlightKind = "definitions"
	HighlightObligations HighlightKind = "obligations"
)

// ParseHighlightKind validates a highlight layer name from the request path.
func ParseHighlightKind(s string) (HighlightKind, error) {
	switch HighlightKind(s) {
	case HighlightOccurrences, HighlightDefinitions, HighlightObligations:
		return HighlightKind(s), nil
	}
	return "", errors.New(errors.ErrCodeValidation, "unknown highlight layer: "+s)
}

// HighlightSearcher reads per-document annotation highlights back from the
// search index.
type HighlightSearcher interface {
	Occurrences(ctx context.Context, documentID uuid.UUID) (*opensearch.HighlightDocument, error)
	Definitions(ctx context.Context, documentID uuid.UUID) (*opensearch.HighlightDocument, error)
	Obligations(ctx context.Context, documentID uuid.UUID) (*opensearch.HighlightDocument, error)
}

// VerdictInput records one validator verdict on an entity.
type VerdictInput struct {
	Kind     glossary.EntityKind
	EntityID uuid.UUID
	UserID   string
	Value    glossary.AcceptanceValue
}

// Service answers the catalogue's browse and verdict operations.
type Service struct {
	concepts    glossary.ConceptRepository
	obligations obligation.Repository
	acceptance  glossary.AcceptanceRepository
	documents   document.Repository
	graph       obligation.GraphRepository
	vocab       obligation.Vocabulary
	highlights  HighlightSearcher
	cache       redis.Cache
	logger      logging.Logger
}

// NewService builds the catalogue service.  Highlights and cache may be
// nil; highlight reads then fail as unavailable, views are assembled from
// the graph on every read.
func NewService(
	concepts glossary.ConceptRepository,
	obligations obligation.Repository,
	acceptance glossary.AcceptanceRepository,
	documents document.Repository,
	graph obligation.GraphRepository,
	vocab obligation.Vocabulary,
	highlights HighlightSearcher,
	cache redis.Cache,
	logger logging.Logger,
) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{
		concepts:    concepts,
		obligations: obligations,
		acceptance:  acceptance,
		documents:   documents,
		graph:       graph,
		vocab:       vocab,
		highlights:  highlights,
		cache:       cache,
		logger:      logger,
	}
}

// ListDocuments pages through the catalogue's documents.
func (s *Service) ListDocuments(ctx context.Context, q DocumentQuery) (*DocumentPage, error) {
	documents, total, err := s.documents.List(ctx, document.Filter{
		WebsiteID:   q.WebsiteID,
		TitleLike:   q.Keyword,
		Celex:       q.Celex,
		Unvalidated: q.Unvalidated,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &DocumentPage{Total: total, Documents: documents}, nil
}

// GetDocument reads one document.
func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	return s.documents.GetByID(ctx, id)
}

// AddComment attaches a reviewer note to a document.
func (s *Service) AddComment(ctx context.Context, documentID uuid.UUID, user, value string) (*document.Comment, error) {
	if user == "" {
		return nil, errors.New(errors.ErrCodeValidation, "comment user is required")
	}
	if value == "" {
		return nil, errors.New(errors.ErrCodeValidation, "comment text is required")
	}
	comment := &document.Comment{
		ID:         uuid.New(),
		DocumentID: documentID,
		User:       user,
		Value:      value,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.documents.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments lists a document's reviewer notes.
func (s *Service) Comments(ctx context.Context, documentID uuid.UUID) ([]*document.Comment, error) {
	return s.documents.CommentsByDocument(ctx, documentID)
}

// DeleteComment removes a reviewer note.
func (s *Service) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return s.documents.DeleteComment(ctx, id)
}

// ListConcepts pages through the glossary.
func (s *Service) ListConcepts(ctx context.Context, q ConceptQuery) (*ConceptPage, error) {
	concepts, total, err := s.concepts.List(ctx, glossary.ConceptFilter{
		NameLike:   q.Keyword,
		Version:    q.Version,
		DocumentID: q.DocumentID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &ConceptPage{Total: total, Concepts: concepts}, nil
}

// GetConcept reads one concept and the concepts defined alongside it.
func (s *Service) GetConcept(ctx context.Context, id uuid.UUID) (*ConceptDetail, error) {
	concept, err := s.concepts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	related, err := s.concepts.RelatedConcepts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ConceptDetail{Concept: concept, Related: related}, nil
}

// ListObligations pages through the reporting obligations.
func (s *Service) ListObligations(ctx context.Context, q ObligationQuery) (*ObligationPage, error) {
	obligations, total, err := s.obligations.List(ctx, obligation.Filter{
		ValueLike:  q.Keyword,
		Version:    q.Version,
		DocumentID: q.DocumentID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &ObligationPage{Total: total, Obligations: obligations}, nil
}

// DocumentObligations assembles a document's obligation view from the graph,
// serving from cache when one is wired.
func (s *Service) DocumentObligations(ctx context.Context, documentID uuid.UUID) (*DocumentObligationView, error) {
	if s.cache == nil {
		return s.loadObligationView(ctx, documentID)
	}

	var view DocumentObligationView
	err := s.cache.GetOrSet(ctx, roViewKey(documentID), &view, roViewTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.loadObligationView(ctx, documentID)
		})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *Service) loadObligationView(ctx context.Context, documentID uuid.UUID) (*DocumentObligationView, error) {
	catDoc := s.vocab.CatDoc(documentID.String())
	obligations, err := s.graph.ObligationsByDocument(ctx, catDoc)
	if err != nil {
		return nil, err
	}
	return &DocumentObligationView{DocumentID: documentID.String(), Obligations: obligations}, nil
}

// DocumentHighlights reads one annotation layer of a document back from the
// search index, with the highlight spans the review frontend renders.
func (s *Service) DocumentHighlights(ctx context.Context, documentID uuid.UUID, kind HighlightKind) (*opensearch.HighlightDocument, error) {
	if s.highlights == nil {
		return nil, errors.New(errors.ErrCodeExternalService, "search index is not configured")
	}
	switch kind {
	case HighlightOccurrences:
		return s.highlights.Occurrences(ctx, documentID)
	case HighlightDefinitions:
		return s.highlights.Definitions(ctx, documentID)
	case HighlightObligations:
		return s.highlights.Obligations(ctx, documentID)
	}
	return nil, errors.New(errors.ErrCodeValidation, "unknown highlight layer: "+string(kind))
}

// AcceptanceValues lists the verdict vocabulary.
func (s *Service) AcceptanceValues() []glossary.AcceptanceValue {
	return []glossary.AcceptanceValue{
		glossary.AcceptanceUnvalidated,
		glossary.AcceptanceAccepted,
		glossary.AcceptanceRejected,
	}
}

// EntityAcceptance lists every verdict attached to one entity.
func (s *Service) EntityAcceptance(ctx context.Context, kind glossary.EntityKind, entityID uuid.UUID) ([]*glossary.AcceptanceState, error) {
	return s.acceptance.ByEntity(ctx, kind, entityID)
}

// SetVerdict upserts one validator verdict.  Re-submitting overwrites the
// same (entity, user) state instead of stacking.  Document verdicts refresh
// the document's cached acceptance rollup; obligation verdicts invalidate
// the document's cached obligation view.
func (s *Service) SetVerdict(ctx context.Context, in VerdictInput) error {
	if in.UserID == "" {
		return errors.New(errors.ErrCodeValidation, "verdict user is required")
	}
	state := glossary.NewUserAcceptance(in.Kind, in.EntityID, in.UserID, in.Value)
	if err := state.Validate(); err != nil {
		return err
	}
	if err := s.acceptance.Upsert(ctx, state); err != nil {
		return err
	}

	switch in.Kind {
	case glossary.EntityDocument:
		if err := s.documents.RefreshAcceptance(ctx, in.EntityID); err != nil {
			return err
		}
	case glossary.EntityObligation:
		s.invalidateObligationView(ctx, in.EntityID)
	}

	s.logger.Info("Verdict recorded",
		logging.String("entity_kind", string(in.Kind)),
		logging.String("entity_id", in.EntityID.String()),
		logging.String("user", in.UserID),
		logging.String("value", string(in.Value)))
	return nil
}

// invalidateObligationView drops the cached view of the document the
// obligation belongs to.  Stale cache is tolerable, so lookup or delete
// failures only log.
func (s *Service) invalidateObligationView(ctx context.Context, obligationID uuid.UUID) {
	if s.cache == nil {
		return
	}
	ro, err := s.obligations.GetByID(ctx, obligationID)
	if err != nil {
		s.logger.Warn("Obligation lookup for cache invalidation failed",
			logging.String("obligation_id", obligationID.String()),
			logging.Err(err))
		return
	}
	if err := s.cache.Delete(ctx, roViewKey(ro.DocumentID)); err != nil {
		s.logger.Warn("Obligation view invalidation failed",
			logging.String("document_id", ro.DocumentID.String()),
			logging.Err(err))
	}
}

func roViewKey(documentID uuid.UUID) string {
	return roViewKeyPrefix + documentID.String()
}

//Personal.AI order the ending
