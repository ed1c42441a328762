package document

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows document listings.
type Filter struct {
	WebsiteID *uuid.UUID

	// TitleLike filters by a case-insensitive substring of the title.
	TitleLike string

	// Celex filters by exact EUR-Lex identifier.
	Celex string

	// Unvalidated, when set, selects only documents with (true) or without
	// (false) pending human review.
	Unvalidated *bool

	// MissingTermVersion selects documents whose term extraction marker
	// differs from the given version; empty means no version filtering.
	MissingTermVersion string

	// MissingObligationVersion is the obligation pipeline's counterpart.
	MissingObligationVersion string

	Limit  int
	Offset int
}

// Repository persists catalogue documents and their satellites.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	GetByURL(ctx context.Context, url string) (*Document, error)
	Update(ctx context.Context, d *Document) error
	List(ctx context.Context, filter Filter) ([]*Document, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// SetTermVersion stamps the term pipeline marker on a document.
	SetTermVersion(ctx context.Context, id uuid.UUID, version string) error
	// SetObligationVersion stamps the obligation pipeline marker.
	SetObligationVersion(ctx context.Context, id uuid.UUID, version string) error

	// RefreshAcceptance recomputes the cached acceptance probability and
	// the unvalidated flag from the document's acceptance states.
	RefreshAcceptance(ctx context.Context, id uuid.UUID) error

	AddComment(ctx context.Context, c *Comment) error
	CommentsByDocument(ctx context.Context, documentID uuid.UUID) ([]*Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

// WebsiteRepository persists document sources.
type WebsiteRepository interface {
	Create(ctx context.Context, w *Website) error
	GetByID(ctx context.Context, id uuid.UUID) (*Website, error)
	GetByName(ctx context.Context, name string) (*Website, error)
	List(ctx context.Context) ([]*Website, error)
}

//Personal.AI order the ending
