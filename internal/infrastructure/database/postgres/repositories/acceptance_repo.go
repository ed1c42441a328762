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
// AcceptanceRepository
// ─────────────────────────────────────────────────────────────────────────────

// AcceptanceRepository is the PostgreSQL implementation of
// glossary.AcceptanceRepository.  A state row is keyed by
// (entity_kind, entity_id, user_id) for reviewer verdicts and by
// (entity_kind, entity_id, model_name) for classifier verdicts; the schema
// enforces each with a partial unique index, so the upsert picks its
// conflict target by owner.
type AcceptanceRepository struct {
	db     *sql.DB
	logger logging.Logger
}

// NewAcceptanceRepository constructs a ready-to-use AcceptanceRepository.
func NewAcceptanceRepository(db *sql.DB, logger logging.Logger) *AcceptanceRepository {
	return &AcceptanceRepository{db: db, logger: logger}
}

const acceptanceColumns = `id, entity_kind, entity_id, user_id, model_name, value, probability, updated_at`

func scanAcceptance(s scanner) (*glossary.AcceptanceState, error) {
	var st glossary.AcceptanceState
	var userID, modelName sql.NullString
	if err := s.Scan(&st.ID, &st.EntityKind, &st.EntityID, &userID, &modelName, &st.Value, &st.Probability, &st.UpdatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		st.UserID = &userID.String
	}
	if modelName.Valid {
		st.ModelName = &modelName.String
	}
	return &st, nil
}

// Upsert stores a verdict, replacing any previous verdict from the same
// owner on the same entity.
func (r *AcceptanceRepository) Upsert(ctx context.Context, st *glossary.AcceptanceState) error {
	if err := st.Validate(); err != nil {
		return err
	}
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}

	var query string
	if st.IsUserState() {
		query = `
		INSERT INTO acceptance_states (id, entity_kind, entity_id, user_id, model_name, value, probability, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (entity_kind, entity_id, user_id) WHERE user_id IS NOT NULL DO UPDATE
			SET value = EXCLUDED.value, probability = EXCLUDED.probability, updated_at = NOW()`
	} else {
		query = `
		INSERT INTO acceptance_states (id, entity_kind, entity_id, user_id, model_name, value, probability, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (entity_kind, entity_id, model_name) WHERE model_name IS NOT NULL DO UPDATE
			SET value = EXCLUDED.value, probability = EXCLUDED.probability, updated_at = NOW()`
	}

	_, err := r.db.ExecContext(ctx, query,
		st.ID, st.EntityKind, st.EntityID,
		nullStringPtr(st.UserID), nullStringPtr(st.ModelName),
		st.Value, st.Probability)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "upsert acceptance state")
	}
	return nil
}

// ByEntity lists every verdict recorded against an entity, newest first.
func (r *AcceptanceRepository) ByEntity(ctx context.Context, kind glossary.EntityKind, entityID uuid.UUID) ([]*glossary.AcceptanceState, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+acceptanceColumns+`
		FROM acceptance_states
		WHERE entity_kind = $1 AND entity_id = $2
		ORDER BY updated_at DESC`, kind, entityID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list acceptance states")
	}
	defer rows.Close()

	var out []*glossary.AcceptanceState
	for rows.Next() {
		st, err := scanAcceptance(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan acceptance state")
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// UserState fetches one reviewer's verdict on an entity.
func (r *AcceptanceRepository) UserState(ctx context.Context, kind glossary.EntityKind, entityID uuid.UUID, userID string) (*glossary.AcceptanceState, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+acceptanceColumns+`
		FROM acceptance_states
		WHERE entity_kind = $1 AND entity_id = $2 AND user_id = $3`,
		kind, entityID, userID)
	st, err := scanAcceptance(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeNotFound, "acceptance state not found")
	}
	return st, nil
}

// DeleteByEntity clears every verdict for an entity.
func (r *AcceptanceRepository) DeleteByEntity(ctx context.Context, kind glossary.EntityKind, entityID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM acceptance_states WHERE entity_kind = $1 AND entity_id = $2`,
		kind, entityID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete acceptance states")
	}
	return nil
}

// nullStringPtr maps a nil pointer to SQL NULL.
func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

//Personal.AI order the ending
