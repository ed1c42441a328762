// Package annotation exposes the catalogue's manual annotations in the
// annotator-store shape the review frontend speaks: each annotation is a
// quote plus a list of DOM ranges, keyed by a worklog entry.  Creating one
// records the worklog and mirrors accepted occurrence and definition spans
// into the concept offset tables, so the next extraction run sees the
// correction; deleting removes both.
package annotation

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/annotation"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// Metadata is the annotator-store discovery document.
const Metadata = `{"message": "Annotator Store API","links": {}}`

// Range is one DOM range of an annotation.  Start and End are the client's
// XPath selectors; the offsets index the document's canonical text.
type Range struct {
	Start       string `json:"start"`
	StartOffset int    `json:"startOffset"`
	End         string `json:"end"`
	EndOffset   int    `json:"endOffset"`
}

// Annotation is the annotator-store wire shape of one worklog entry.
type Annotation struct {
	ID     string  `json:"id"`
	Quote  string  `json:"quote"`
	Text   string  `json:"text"`
	Ranges []Range `json:"ranges"`
}

// SearchResult is the annotator-store search response.  Total is a string
// for compatibility with the store protocol.
type SearchResult struct {
	Total string       `json:"total"`
	Rows  []Annotation `json:"rows"`
}

// CreateInput carries one new annotation.
type CreateInput struct {
	Type       glossary.AnnotationType
	EntityID   uuid.UUID
	DocumentID uuid.UUID
	User       string

	// Rejected marks a correction that suppresses a machine span instead
	// of asserting one.  Rejected spans are not mirrored into the concept
	// offset tables.
	Rejected bool

	Quote  string
	Ranges []Range
}

// Service serves the annotator-store operations.
type Service struct {
	worklogs glossary.WorklogRepository
	concepts glossary.ConceptRepository
	logger   logging.Logger
}

// NewService builds the annotation store service.
func NewService(worklogs glossary.WorklogRepository, concepts glossary.ConceptRepository, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{worklogs: worklogs, concepts: concepts, logger: logger}
}

// Search lists the annotations of one (entity, document) pair, in creation
// order.
func (s *Service) Search(ctx context.Context, annotationType glossary.AnnotationType, entityID, documentID uuid.UUID) (*SearchResult, error) {
	if _, err := glossary.ParseAnnotationType(string(annotationType)); err != nil {
		return nil, err
	}

	worklogs, err := s.worklogs.ByDocument(ctx, documentID, []glossary.AnnotationType{annotationType})
	if err != nil {
		return nil, err
	}

	rows := make([]Annotation, 0, len(worklogs))
	for _, w := range worklogs {
		if w.ConceptID == nil || *w.ConceptID != entityID {
			continue
		}
		rows = append(rows, wireAnnotation(w))
	}
	return &SearchResult{Total: strconv.Itoa(len(rows)), Rows: rows}, nil
}

// Create records one manual annotation: the worklog entry plus, for accepted
// occurrences and definitions, the mirrored concept offset row the extractor
// consults.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Annotation, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	span := annotation.Span{Begin: in.Ranges[0].StartOffset, End: in.Ranges[0].EndOffset}
	worklog := &glossary.Worklog{
		ID:         uuid.New(),
		Type:       in.Type,
		DocumentID: in.DocumentID,
		ConceptID:  &in.EntityID,
		User:       in.User,
		Rejected:   in.Rejected,
		Span:       span,
		Quote:      in.Quote,
		XPathStart: in.Ranges[0].Start,
		XPathEnd:   in.Ranges[0].End,
		CreatedAt:  time.Now().UTC(),
	}
	if err := worklog.Validate(); err != nil {
		return nil, err
	}

	if !in.Rejected {
		if err := s.mirrorOffset(ctx, in, span); err != nil {
			return nil, err
		}
	}
	if err := s.worklogs.Create(ctx, worklog); err != nil {
		return nil, err
	}

	s.logger.Info("Annotation created",
		logging.String("worklog_id", worklog.ID.String()),
		logging.String("annotation_type", string(in.Type)),
		logging.String("document_id", in.DocumentID.String()),
		logging.Bool("rejected", in.Rejected))

	out := wireAnnotation(worklog)
	return &out, nil
}

// Delete removes one annotation.  The worklog repository cascades to the
// mirrored offset row in the same transaction.
func (s *Service) Delete(ctx context.Context, worklogID uuid.UUID) error {
	return s.worklogs.Delete(ctx, worklogID)
}

func (s *Service) mirrorOffset(ctx context.Context, in CreateInput, span annotation.Span) error {
	switch in.Type {
	case glossary.AnnotationOccurrence:
		occ := &glossary.Occurrence{
			ConceptID:   in.EntityID,
			DocumentID:  in.DocumentID,
			Span:        span,
			Probability: 1.0,
		}
		if err := occ.Validate(); err != nil {
			return err
		}
		return s.concepts.UpsertOccurrence(ctx, occ)
	case glossary.AnnotationDefinition:
		def := &glossary.Definition{
			ConceptID:  in.EntityID,
			DocumentID: in.DocumentID,
			Span:       span,
		}
		if err := def.Validate(); err != nil {
			return err
		}
		return s.concepts.UpsertDefinition(ctx, def)
	}
	// Obligation annotations reconcile through the graph, not through
	// concept offsets.
	return nil
}

func validateCreate(in CreateInput) error {
	if _, err := glossary.ParseAnnotationType(string(in.Type)); err != nil {
		return err
	}
	if in.EntityID == uuid.Nil {
		return errors.New(errors.ErrCodeValidation, "annotation entity id is required")
	}
	if in.DocumentID == uuid.Nil {
		return errors.New(errors.ErrCodeValidation, "annotation document id is required")
	}
	if in.Quote == "" {
		return errors.New(errors.ErrCodeValidation, "annotation quote is required")
	}
	if len(in.Ranges) == 0 {
		return errors.New(errors.ErrCodeValidation, "annotation needs at least one range")
	}
	r := in.Ranges[0]
	if r.StartOffset < 0 || r.EndOffset < r.StartOffset {
		return errors.New(errors.ErrCodeValidation, "annotation range offsets are invalid")
	}
	return nil
}

func wireAnnotation(w *glossary.Worklog) Annotation {
	return Annotation{
		ID:    w.ID.String(),
		Quote: w.Quote,
		Ranges: []Range{{
			Start:       w.XPathStart,
			StartOffset: w.Span.Begin,
			End:         w.XPathEnd,
			EndOffset:   w.Span.End,
		}},
	}
}

//Personal.AI order the ending
