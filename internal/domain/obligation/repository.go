package obligation

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows obligation listings.
type Filter struct {
	// DocumentID restricts results to obligations extracted from one
	// document.
	DocumentID *uuid.UUID

	// ValueLike filters by a case-insensitive substring of the obligation
	// text.
	ValueLike string

	// Version restricts results to one extraction pipeline version.
	Version string

	Limit  int
	Offset int
}

// Repository persists reporting obligations relationally.  The graph is the
// identity authority; rows here carry the assigned RDFID for joining.
type Repository interface {
	// Upsert resolves by (document, value), creating the row when missing.
	// An existing row keeps its surrogate ID and RDFID; value fields are
	// overwritten.
	Upsert(ctx context.Context, o *ReportingObligation) (*ReportingObligation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ReportingObligation, error)
	GetByRDFID(ctx context.Context, rdfID string) (*ReportingObligation, error)
	ByDocument(ctx context.Context, documentID uuid.UUID) ([]*ReportingObligation, error)
	List(ctx context.Context, filter Filter) ([]*ReportingObligation, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GraphEntity is one sub-entity hanging off an obligation node, as read back
// from the store.
type GraphEntity struct {
	URI       string
	Predicate string
	Class     string
	Label     string
}

// GraphObligation is an obligation node as read back from the store.
type GraphObligation struct {
	URI      string
	Value    string
	Entities []GraphEntity
}

// GraphRepository is the triple store behind the RDF identity layer.
type GraphRepository interface {
	// MatchingObligations returns the URIs of obligation nodes attached to
	// the catalogue document whose value literal exactly equals value,
	// sorted ascending.
	MatchingObligations(ctx context.Context, catDocURI, value string) ([]string, error)

	// PriorMatchesForDocument returns every (value, URIs) pairing currently
	// attached to the catalogue document, for planning a whole run in one
	// round-trip.
	PriorMatchesForDocument(ctx context.Context, catDocURI string) (PriorMatches, error)

	// Apply executes a plan: retirements first, additions second, in one
	// batch per document.
	Apply(ctx context.Context, plan *Plan) error

	// ObligationsByDocument reads the obligations and their sub-entities
	// attached to a catalogue document.
	ObligationsByDocument(ctx context.Context, catDocURI string) ([]*GraphObligation, error)

	// RemoveDocumentSource breaks the link between a document and a source.
	// When unlinkOnly is false the source node itself is deleted too.
	RemoveDocumentSource(ctx context.Context, catDocURI string, unlinkOnly bool) error
}

//Personal.AI order the ending
