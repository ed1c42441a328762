package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// WorklogRepository
// ─────────────────────────────────────────────────────────────────────────────

// WorklogRepository is the PostgreSQL implementation of
// glossary.WorklogRepository.  A worklog row records one manual annotation
// action; deleting it also removes the machine-facing offset record it was
// mirrored into, so re-extraction sees the correction disappear atomically.
type WorklogRepository struct {
	db     *sql.DB
	logger logging.Logger
}

// NewWorklogRepository constructs a ready-to-use WorklogRepository.
func NewWorklogRepository(db *sql.DB, logger logging.Logger) *WorklogRepository {
	return &WorklogRepository{db: db, logger: logger}
}

const worklogColumns = `id, annotation_type, document_id, concept_id, user_name, rejected, begin_offset, end_offset, quote, xpath_start, xpath_end, created_at`

func scanWorklog(s scanner) (*glossary.Worklog, error) {
	var w glossary.Worklog
	var conceptID sql.NullString
	if err := s.Scan(&w.ID, &w.Type, &w.DocumentID, &conceptID, &w.User, &w.Rejected, &w.Span.Begin, &w.Span.End, &w.Quote, &w.XPathStart, &w.XPathEnd, &w.CreatedAt); err != nil {
		return nil, err
	}
	if conceptID.Valid {
		id, err := uuid.Parse(conceptID.String)
		if err == nil {
			w.ConceptID = &id
		}
	}
	return &w, nil
}

// Create stores a new worklog entry.
func (r *WorklogRepository) Create(ctx context.Context, w *glossary.Worklog) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO annotation_worklogs (id, annotation_type, document_id, concept_id, user_name, rejected, begin_offset, end_offset, quote, xpath_start, xpath_end, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())`,
		w.ID, w.Type, w.DocumentID, uuidOrNil(w.ConceptID), w.User, w.Rejected, w.Span.Begin, w.Span.End, w.Quote, w.XPathStart, w.XPathEnd)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "create worklog")
	}
	return nil
}

// GetByID fetches one worklog entry.
func (r *WorklogRepository) GetByID(ctx context.Context, id uuid.UUID) (*glossary.Worklog, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+worklogColumns+` FROM annotation_worklogs WHERE id = $1`, id)
	w, err := scanWorklog(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeWorklogNotFound, "worklog not found")
	}
	return w, nil
}

// ByDocument lists a document's worklog entries of the given types, oldest
// first.
func (r *WorklogRepository) ByDocument(ctx context.Context, documentID uuid.UUID, types []glossary.AnnotationType) ([]*glossary.Worklog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+worklogColumns+`
		FROM annotation_worklogs
		WHERE document_id = $1 AND annotation_type = ANY($2)
		ORDER BY created_at`, documentID, annotationTypeStrings(types))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list worklogs")
	}
	defer rows.Close()
	return collectWorklogs(rows)
}

// ByDocumentAndUser lists one reviewer's entries on a document, oldest first.
func (r *WorklogRepository) ByDocumentAndUser(ctx context.Context, documentID uuid.UUID, user string, types []glossary.AnnotationType) ([]*glossary.Worklog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+worklogColumns+`
		FROM annotation_worklogs
		WHERE document_id = $1 AND user_name = $2 AND annotation_type = ANY($3)
		ORDER BY created_at`, documentID, user, annotationTypeStrings(types))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list worklogs")
	}
	defer rows.Close()
	return collectWorklogs(rows)
}

func annotationTypeStrings(types []glossary.AnnotationType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func collectWorklogs(rows *sql.Rows) ([]*glossary.Worklog, error) {
	var out []*glossary.Worklog
	for rows.Next() {
		w, err := scanWorklog(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan worklog")
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Delete removes a worklog entry together with the offset record it created,
// in one transaction.  Accepted occurrence and definition entries mirror into
// the concept offset tables; rejections and obligation entries have no
// mirrored row, so their offset deletes may touch nothing.
func (r *WorklogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	w, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "begin delete worklog")
	}
	defer tx.Rollback()

	if w.ConceptID != nil && !w.Rejected {
		switch w.Type {
		case glossary.AnnotationOccurrence:
			_, err = tx.ExecContext(ctx, `
				DELETE FROM concept_occurrences
				WHERE concept_id = $1 AND document_id = $2 AND begin_offset = $3 AND end_offset = $4`,
				*w.ConceptID, w.DocumentID, w.Span.Begin, w.Span.End)
		case glossary.AnnotationDefinition:
			_, err = tx.ExecContext(ctx, `
				DELETE FROM concept_definitions
				WHERE concept_id = $1 AND document_id = $2 AND begin_offset = $3 AND end_offset = $4`,
				*w.ConceptID, w.DocumentID, w.Span.Begin, w.Span.End)
		}
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete mirrored offset")
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM annotation_worklogs WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete worklog")
	}
	if err := requireAffected(res, errors.ErrCodeWorklogNotFound, "worklog not found"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "commit delete worklog")
	}
	return nil
}

//Personal.AI order the ending
