package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/document"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// WebsiteRepository is the PostgreSQL implementation of
// document.WebsiteRepository.
type WebsiteRepository struct {
	db     *sql.DB
	logger logging.Logger
}

// NewWebsiteRepository constructs a ready-to-use WebsiteRepository.
func NewWebsiteRepository(db *sql.DB, logger logging.Logger) *WebsiteRepository {
	return &WebsiteRepository{db: db, logger: logger}
}

const websiteColumns = `id, name, url, content, created_at, updated_at`

func scanWebsite(s scanner) (*document.Website, error) {
	var w document.Website
	var content sql.NullString
	if err := s.Scan(&w.ID, &w.Name, &w.URL, &content, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.Content = content.String
	return &w, nil
}

// Create stores a new website.  Names are unique.
func (r *WebsiteRepository) Create(ctx context.Context, w *document.Website) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO websites (id, name, url, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())`,
		w.ID, w.Name, w.URL, nullString(w.Content))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "create website")
	}
	return nil
}

// GetByID fetches one website.
func (r *WebsiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*document.Website, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+websiteColumns+` FROM websites WHERE id = $1`, id)
	w, err := scanWebsite(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeNotFound, "website not found")
	}
	return w, nil
}

// GetByName fetches one website by its unique name.
func (r *WebsiteRepository) GetByName(ctx context.Context, name string) (*document.Website, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+websiteColumns+` FROM websites WHERE name = $1`, name)
	w, err := scanWebsite(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeNotFound, "website not found")
	}
	return w, nil
}

// List returns every website, by name.
func (r *WebsiteRepository) List(ctx context.Context) ([]*document.Website, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+websiteColumns+` FROM websites ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list websites")
	}
	defer rows.Close()

	var out []*document.Website
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan website")
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

//Personal.AI order the ending
