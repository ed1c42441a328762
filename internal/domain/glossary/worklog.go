package glossary

import (
	"time"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/annotation"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Annotation worklog
// ─────────────────────────────────────────────────────────────────────────────

// AnnotationType names what kind of span a worklog entry annotates.  The
// "occurence" spelling is part of the annotation client's wire vocabulary and
// must not be corrected here.
type AnnotationType string

const (
	AnnotationOccurrence AnnotationType = "occurence"
	AnnotationDefinition AnnotationType = "definition"
	AnnotationObligation AnnotationType = "ro"
)

// ParseAnnotationType validates a wire-level annotation type string.
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch AnnotationType(s) {
	case AnnotationOccurrence, AnnotationDefinition, AnnotationObligation:
		return AnnotationType(s), nil
	}
	return "", errors.New(errors.ErrCodeAnnotationTypeInvalid, "unknown annotation type").
		WithDetail(s)
}

// Kind maps the wire annotation type onto the candidate kind it suppresses
// during reconciliation.
func (t AnnotationType) Kind() annotation.Kind {
	switch t {
	case AnnotationDefinition:
		return annotation.KindDefinition
	case AnnotationObligation:
		return annotation.KindObligation
	default:
		return annotation.KindOccurrence
	}
}

// Worklog records one manual annotation action: a user marked (or rejected)
// a span of document text as an occurrence, a definition, or an obligation.
// Each worklog owns exactly one offset record; deleting the worklog removes
// the offsets with it.
type Worklog struct {
	ID   uuid.UUID      `json:"id"`
	Type AnnotationType `json:"annotation_type"`

	DocumentID uuid.UUID  `json:"document_id"`
	ConceptID  *uuid.UUID `json:"concept_id,omitempty"`

	// User is the validator who made the annotation.
	User string `json:"user"`

	// Rejected marks a correction that removes a machine span instead of
	// adding one.  Rejected spans still suppress machine candidates.
	Rejected bool `json:"rejected"`

	Span annotation.Span `json:"span"`

	// Quote is the exact document text the annotation covers, kept so the
	// annotation can be re-anchored if the document text shifts.
	Quote string `json:"quote"`

	// XPathStart and XPathEnd are the annotator client's DOM selectors for
	// the range endpoints.  The catalogue treats them as opaque and returns
	// them unchanged so the client can re-anchor its highlight.
	XPathStart string `json:"xpath_start,omitempty"`
	XPathEnd   string `json:"xpath_end,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the worklog's type and span.
func (w *Worklog) Validate() error {
	if _, err := ParseAnnotationType(string(w.Type)); err != nil {
		return err
	}
	if err := w.Span.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeOccurrenceInvalid, "invalid worklog span")
	}
	if w.User == "" {
		return errors.New(errors.ErrCodeValidation, "worklog user must not be empty")
	}
	return nil
}

// UserSpan converts the worklog entry into the form the reconciliation
// resolver consumes.
func (w *Worklog) UserSpan() annotation.UserSpan {
	origin := annotation.OriginUser
	if w.Rejected {
		origin = annotation.OriginUserRejected
	}
	return annotation.UserSpan{
		Span:   w.Span,
		Origin: origin,
		Term:   w.Quote,
	}
}

//Personal.AI order the ending
