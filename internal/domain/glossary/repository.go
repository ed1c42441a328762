package glossary

import (
	"context"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/annotation"
)

// ConceptFilter narrows concept listings.
type ConceptFilter struct {
	// NameLike filters by a case-insensitive substring of the term.
	NameLike string

	// Version restricts results to concepts produced by one extraction
	// pipeline version.
	Version string

	// DocumentID restricts results to concepts whose definition lives in
	// the given document.
	DocumentID *uuid.UUID

	Limit  int
	Offset int
}

// ConceptRepository persists concepts and their document offsets.
type ConceptRepository interface {
	// GetOrCreate resolves the concept by its natural key, creating it when
	// missing, and returns the stored row.
	GetOrCreate(ctx context.Context, c *Concept) (*Concept, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Concept, error)
	GetByKey(ctx context.Context, key NaturalKey) (*Concept, error)
	Update(ctx context.Context, c *Concept) error
	List(ctx context.Context, filter ConceptFilter) ([]*Concept, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UpsertOccurrence inserts the occurrence or refreshes its probability
	// when the (concept, document, span) row already exists.
	UpsertOccurrence(ctx context.Context, o *Occurrence) error
	UpsertDefinition(ctx context.Context, d *Definition) error
	OccurrencesByDocument(ctx context.Context, documentID uuid.UUID) ([]*Occurrence, error)
	DefinitionsByDocument(ctx context.Context, documentID uuid.UUID) ([]*Definition, error)
	DeleteOccurrence(ctx context.Context, conceptID, documentID uuid.UUID, span annotation.Span) error
	DeleteDefinition(ctx context.Context, conceptID, documentID uuid.UUID, span annotation.Span) error

	// LinkRelated records a pairwise relation between two concepts defined
	// in the same document.  Linking is idempotent.
	LinkRelated(ctx context.Context, fromID, toID uuid.UUID) error
	RelatedConcepts(ctx context.Context, conceptID uuid.UUID) ([]*Concept, error)
}

// AcceptanceRepository persists validator and model verdicts.  Upserts key on
// (entity, user) or (entity, model) so each owner holds one state per entity.
type AcceptanceRepository interface {
	Upsert(ctx context.Context, state *AcceptanceState) error
	ByEntity(ctx context.Context, kind EntityKind, entityID uuid.UUID) ([]*AcceptanceState, error)
	UserState(ctx context.Context, kind EntityKind, entityID uuid.UUID, userID string) (*AcceptanceState, error)
	DeleteByEntity(ctx context.Context, kind EntityKind, entityID uuid.UUID) error
}

// WorklogRepository persists manual annotation records.  Delete removes the
// worklog's offset record in the same transaction.
type WorklogRepository interface {
	Create(ctx context.Context, w *Worklog) error
	GetByID(ctx context.Context, id uuid.UUID) (*Worklog, error)
	ByDocument(ctx context.Context, documentID uuid.UUID, types []AnnotationType) ([]*Worklog, error)
	ByDocumentAndUser(ctx context.Context, documentID uuid.UUID, user string, types []AnnotationType) ([]*Worklog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

//Personal.AI order the ending
