package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/obligation"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// ObligationRepository
// ─────────────────────────────────────────────────────────────────────────────

// ObligationRepository is the relational side of obligation storage: one row
// per (document, value) pair, with the role fragments stored as JSONB and the
// graph URI mirrored in rdf_id.  The graph store stays authoritative for
// identity; this table serves catalogue browsing and acceptance workflows.
type ObligationRepository struct {
	db     *sql.DB
	logger logging.Logger
}

// NewObligationRepository constructs a ready-to-use ObligationRepository.
func NewObligationRepository(db *sql.DB, logger logging.Logger) *ObligationRepository {
	return &ObligationRepository{db: db, logger: logger}
}

const obligationColumns = `id, document_id, rdf_id, value, fragments, version, created_at, updated_at`

func scanObligation(s scanner) (*obligation.ReportingObligation, error) {
	var ro obligation.ReportingObligation
	var fragments []byte
	if err := s.Scan(&ro.ID, &ro.DocumentID, &ro.RDFID, &ro.Value, &fragments, &ro.Version, &ro.CreatedAt, &ro.UpdatedAt); err != nil {
		return nil, err
	}
	if len(fragments) > 0 {
		if err := json.Unmarshal(fragments, &ro.Fragments); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode obligation fragments")
		}
	}
	return &ro, nil
}

// Upsert stores an obligation keyed by (document_id, value).  A re-extraction
// that produces the same sentence keeps its surrogate ID, and an already
// assigned graph URI is never blanked by a write that lacks one.
func (r *ObligationRepository) Upsert(ctx context.Context, ro *obligation.ReportingObligation) (*obligation.ReportingObligation, error) {
	if err := ro.Validate(); err != nil {
		return nil, err
	}
	if ro.ID == uuid.Nil {
		ro.ID = uuid.New()
	}
	fragments, err := json.Marshal(ro.Fragments)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode obligation fragments")
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO reporting_obligations (id, document_id, rdf_id, value, fragments, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (document_id, value) DO UPDATE
			SET rdf_id    = CASE WHEN EXCLUDED.rdf_id <> '' THEN EXCLUDED.rdf_id ELSE reporting_obligations.rdf_id END,
			    fragments = EXCLUDED.fragments,
			    version   = EXCLUDED.version,
			    updated_at = NOW()
		RETURNING `+obligationColumns,
		ro.ID, ro.DocumentID, ro.RDFID, ro.Value, fragments, ro.Version)

	stored, err := scanObligation(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeObligationNotFound, "upsert obligation")
	}
	return stored, nil
}

// GetByID fetches one obligation.
func (r *ObligationRepository) GetByID(ctx context.Context, id uuid.UUID) (*obligation.ReportingObligation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+obligationColumns+` FROM reporting_obligations WHERE id = $1`, id)
	ro, err := scanObligation(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeObligationNotFound, "obligation not found")
	}
	return ro, nil
}

// GetByRDFID fetches one obligation by its graph URI.
func (r *ObligationRepository) GetByRDFID(ctx context.Context, rdfID string) (*obligation.ReportingObligation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+obligationColumns+` FROM reporting_obligations WHERE rdf_id = $1`, rdfID)
	ro, err := scanObligation(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeObligationNotFound, "obligation not found")
	}
	return ro, nil
}

// ByDocument lists a document's obligations in sentence order of insertion.
func (r *ObligationRepository) ByDocument(ctx context.Context, documentID uuid.UUID) ([]*obligation.ReportingObligation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+obligationColumns+`
		FROM reporting_obligations
		WHERE document_id = $1
		ORDER BY created_at, value`, documentID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list obligations")
	}
	defer rows.Close()
	return collectObligations(rows)
}

// List returns obligations matching the filter plus the unfiltered total.
func (r *ObligationRepository) List(ctx context.Context, filter obligation.Filter) ([]*obligation.ReportingObligation, int64, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0

	arg := func(v interface{}) string {
		n++
		args = append(args, v)
		return placeholder(n)
	}

	if filter.DocumentID != nil {
		where += ` AND document_id = ` + arg(*filter.DocumentID)
	}
	if filter.ValueLike != "" {
		where += ` AND LOWER(value) LIKE ` + arg(likePattern(filter.ValueLike))
	}
	if filter.Version != "" {
		where += ` AND version = ` + arg(filter.Version)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reporting_obligations`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count obligations")
	}

	query := `SELECT ` + obligationColumns + ` FROM reporting_obligations` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list obligations")
	}
	defer rows.Close()

	out, err := collectObligations(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Delete removes one obligation row.
func (r *ObligationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reporting_obligations WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete obligation")
	}
	return requireAffected(res, errors.ErrCodeObligationNotFound, "obligation not found")
}

func collectObligations(rows *sql.Rows) ([]*obligation.ReportingObligation, error) {
	var out []*obligation.ReportingObligation
	for rows.Next() {
		ro, err := scanObligation(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan obligation")
		}
		out = append(out, ro)
	}
	return out, rows.Err()
}

//Personal.AI order the ending
