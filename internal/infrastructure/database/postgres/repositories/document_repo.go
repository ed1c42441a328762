package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/document"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// DocumentRepository
// ─────────────────────────────────────────────────────────────────────────────

// DocumentRepository is the PostgreSQL implementation of document.Repository.
type DocumentRepository struct {
	db     *sql.DB
	logger logging.Logger
}

// NewDocumentRepository constructs a ready-to-use DocumentRepository.
func NewDocumentRepository(db *sql.DB, logger logging.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

const documentColumns = `id, celex, custom_id, title, title_prefix, author, status, doc_type,
	doc_date, date_of_effect, date_last_update, url, eli, website_id,
	summary, various, consolidated_versions, file_url,
	acceptance_probability, unvalidated, term_version, obligation_version,
	created_at, updated_at`

func scanDocument(s scanner) (*document.Document, error) {
	var d document.Document
	var celex, customID, titlePrefix, author, status, docType sql.NullString
	var eli, summary, various, consolidated, fileURL sql.NullString
	var dateOfEffect sql.NullTime
	var acceptance sql.NullFloat64
	if err := s.Scan(
		&d.ID, &celex, &customID, &d.Title, &titlePrefix, &author, &status, &docType,
		&d.Date, &dateOfEffect, &d.DateLastUpdate, &d.URL, &eli, &d.WebsiteID,
		&summary, &various, &consolidated, &fileURL,
		&acceptance, &d.Unvalidated, &d.TermVersion, &d.ObligationVersion,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.Celex = celex.String
	d.CustomID = customID.String
	d.TitlePrefix = titlePrefix.String
	d.Author = author.String
	d.Status = status.String
	d.Type = docType.String
	d.ELI = eli.String
	d.Summary = summary.String
	d.Various = various.String
	d.ConsolidatedVersions = consolidated.String
	d.FileURL = fileURL.String
	if dateOfEffect.Valid {
		t := dateOfEffect.Time
		d.DateOfEffect = &t
	}
	if acceptance.Valid {
		p := acceptance.Float64
		d.AcceptanceProbability = &p
	}
	return &d, nil
}

// Create stores a new document.  Documents are unique by URL.
func (r *DocumentRepository) Create(ctx context.Context, d *document.Document) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (
			id, celex, custom_id, title, title_prefix, author, status, doc_type,
			doc_date, date_of_effect, date_last_update, url, eli, website_id,
			summary, various, consolidated_versions, file_url,
			acceptance_probability, unvalidated, term_version, obligation_version,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, NOW(), NOW())`,
		d.ID, nullString(d.Celex), nullString(d.CustomID), d.Title,
		nullString(d.TitlePrefix), nullString(d.Author), nullString(d.Status), nullString(d.Type),
		d.Date, nullTime(d.DateOfEffect), d.DateLastUpdate, d.URL, nullString(d.ELI), d.WebsiteID,
		nullString(d.Summary), nullString(d.Various), nullString(d.ConsolidatedVersions), nullString(d.FileURL),
		d.AcceptanceProbability, d.Unvalidated, d.TermVersion, d.ObligationVersion)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "create document")
	}
	return nil
}

// GetByID fetches one document.
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeDocumentNotFound, "document not found")
	}
	return d, nil
}

// GetByURL fetches one document by its harvested URL.
func (r *DocumentRepository) GetByURL(ctx context.Context, url string) (*document.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE url = $1`, url)
	d, err := scanDocument(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeDocumentNotFound, "document not found")
	}
	return d, nil
}

// Update overwrites a document's metadata fields.  Pipeline markers and
// acceptance caches have dedicated writers and are left alone here.
func (r *DocumentRepository) Update(ctx context.Context, d *document.Document) error {
	if err := d.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET celex = $2, custom_id = $3, title = $4, title_prefix = $5, author = $6,
		    status = $7, doc_type = $8, doc_date = $9, date_of_effect = $10,
		    date_last_update = $11, url = $12, eli = $13, website_id = $14,
		    summary = $15, various = $16, consolidated_versions = $17, file_url = $18,
		    updated_at = NOW()
		WHERE id = $1`,
		d.ID, nullString(d.Celex), nullString(d.CustomID), d.Title,
		nullString(d.TitlePrefix), nullString(d.Author), nullString(d.Status), nullString(d.Type),
		d.Date, nullTime(d.DateOfEffect), d.DateLastUpdate, d.URL, nullString(d.ELI), d.WebsiteID,
		nullString(d.Summary), nullString(d.Various), nullString(d.ConsolidatedVersions), nullString(d.FileURL))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "update document")
	}
	return requireAffected(res, errors.ErrCodeDocumentNotFound, "document not found")
}

// List returns documents matching the filter plus the unfiltered total,
// review queue first (highest classifier confidence among unvalidated).
func (r *DocumentRepository) List(ctx context.Context, filter document.Filter) ([]*document.Document, int64, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0

	arg := func(v interface{}) string {
		n++
		args = append(args, v)
		return placeholder(n)
	}

	if filter.WebsiteID != nil {
		where += ` AND website_id = ` + arg(*filter.WebsiteID)
	}
	if filter.TitleLike != "" {
		where += ` AND LOWER(title) LIKE ` + arg(likePattern(filter.TitleLike))
	}
	if filter.Celex != "" {
		where += ` AND celex = ` + arg(filter.Celex)
	}
	if filter.Unvalidated != nil {
		where += ` AND unvalidated = ` + arg(*filter.Unvalidated)
	}
	if filter.MissingTermVersion != "" {
		where += ` AND term_version <> ` + arg(filter.MissingTermVersion)
	}
	if filter.MissingObligationVersion != "" {
		where += ` AND obligation_version <> ` + arg(filter.MissingObligationVersion)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count documents")
	}

	query := `SELECT ` + documentColumns + ` FROM documents` + where +
		` ORDER BY acceptance_probability DESC NULLS LAST, doc_date DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list documents")
	}
	defer rows.Close()

	var out []*document.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan document")
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// Delete removes a document; offsets, worklogs and comments cascade in the
// schema.
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete document")
	}
	return requireAffected(res, errors.ErrCodeDocumentNotFound, "document not found")
}

// SetTermVersion stamps the term pipeline marker.
func (r *DocumentRepository) SetTermVersion(ctx context.Context, id uuid.UUID, version string) error {
	return r.setVersion(ctx, id, "term_version", version)
}

// SetObligationVersion stamps the obligation pipeline marker.
func (r *DocumentRepository) SetObligationVersion(ctx context.Context, id uuid.UUID, version string) error {
	return r.setVersion(ctx, id, "obligation_version", version)
}

func (r *DocumentRepository) setVersion(ctx context.Context, id uuid.UUID, column, version string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET `+column+` = $2, updated_at = NOW() WHERE id = $1`,
		id, version)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "set pipeline version")
	}
	return requireAffected(res, errors.ErrCodeDocumentNotFound, "document not found")
}

// RefreshAcceptance recomputes the cached acceptance probability and the
// unvalidated flag from the document's acceptance states.
func (r *DocumentRepository) RefreshAcceptance(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents SET
			acceptance_probability = (
				SELECT MAX(probability) FROM acceptance_states
				WHERE entity_kind = 'document' AND entity_id = documents.id AND model_name IS NOT NULL
			),
			unvalidated = NOT EXISTS (
				SELECT 1 FROM acceptance_states
				WHERE entity_kind = 'document' AND entity_id = documents.id
				  AND user_id IS NOT NULL AND value <> 'Unvalidated'
			),
			updated_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "refresh acceptance")
	}
	return requireAffected(res, errors.ErrCodeDocumentNotFound, "document not found")
}

// ─────────────────────────────────────────────────────────────────────────────
// Comments
// ─────────────────────────────────────────────────────────────────────────────

// AddComment stores a reviewer note.
func (r *DocumentRepository) AddComment(ctx context.Context, c *document.Comment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO document_comments (id, document_id, user_name, value, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		c.ID, c.DocumentID, c.User, c.Value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "add comment")
	}
	return nil
}

// CommentsByDocument lists a document's reviewer notes, oldest first.
func (r *DocumentRepository) CommentsByDocument(ctx context.Context, documentID uuid.UUID) ([]*document.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, document_id, user_name, value, created_at
		FROM document_comments WHERE document_id = $1
		ORDER BY created_at`, documentID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list comments")
	}
	defer rows.Close()

	var out []*document.Comment
	for rows.Next() {
		var c document.Comment
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.User, &c.Value, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan comment")
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// DeleteComment removes one reviewer note.
func (r *DocumentRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM document_comments WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete comment")
	}
	return requireAffected(res, errors.ErrCodeNotFound, "comment not found")
}

//Personal.AI order the ending
