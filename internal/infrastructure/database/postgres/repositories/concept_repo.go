package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/annotation"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// ConceptRepository
// ─────────────────────────────────────────────────────────────────────────────

// ConceptRepository is the PostgreSQL implementation of
// glossary.ConceptRepository.  Concepts are keyed naturally by
// (name, lemma, definition); re-extraction upserts onto the same row, keeping
// surrogate IDs and everything attached to them stable.
type ConceptRepository struct {
	db     *sql.DB
	logger logging.Logger
}

// NewConceptRepository constructs a ready-to-use ConceptRepository.
func NewConceptRepository(db *sql.DB, logger logging.Logger) *ConceptRepository {
	return &ConceptRepository{db: db, logger: logger}
}

const conceptColumns = `id, name, lemma, definition, version, document_id, created_at, updated_at`

func scanConcept(s scanner) (*glossary.Concept, error) {
	var c glossary.Concept
	var docID sql.NullString
	if err := s.Scan(&c.ID, &c.Name, &c.Lemma, &c.Definition, &c.Version, &docID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if docID.Valid {
		id, err := uuid.Parse(docID.String)
		if err == nil {
			c.DocumentID = &id
		}
	}
	return &c, nil
}

// GetOrCreate resolves a concept by its natural key, creating the row when
// missing.  On conflict the version tag is refreshed but identity is kept.
func (r *ConceptRepository) GetOrCreate(ctx context.Context, c *glossary.Concept) (*glossary.Concept, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO concepts (id, name, lemma, definition, version, document_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (name, lemma, definition) DO UPDATE
			SET version    = EXCLUDED.version,
			    document_id = COALESCE(EXCLUDED.document_id, concepts.document_id),
			    updated_at = NOW()
		RETURNING `+conceptColumns,
		c.ID, c.Name, c.Lemma, c.Definition, c.Version, uuidOrNil(c.DocumentID),
	)

	stored, err := scanConcept(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeConceptNotFound, "upsert concept")
	}
	return stored, nil
}

// GetByID fetches one concept.
func (r *ConceptRepository) GetByID(ctx context.Context, id uuid.UUID) (*glossary.Concept, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+conceptColumns+` FROM concepts WHERE id = $1`, id)
	c, err := scanConcept(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeConceptNotFound, "concept not found")
	}
	return c, nil
}

// GetByKey fetches one concept by natural key.
func (r *ConceptRepository) GetByKey(ctx context.Context, key glossary.NaturalKey) (*glossary.Concept, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+conceptColumns+` FROM concepts WHERE name = $1 AND lemma = $2 AND definition = $3`,
		key.Name, key.Lemma, key.Definition)
	c, err := scanConcept(row)
	if err != nil {
		return nil, wrapQueryErr(err, errors.ErrCodeConceptNotFound, "concept not found")
	}
	return c, nil
}

// Update overwrites a concept's value fields.
func (r *ConceptRepository) Update(ctx context.Context, c *glossary.Concept) error {
	if err := c.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE concepts
		SET name = $2, lemma = $3, definition = $4, version = $5, document_id = $6, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Lemma, c.Definition, c.Version, uuidOrNil(c.DocumentID))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "update concept")
	}
	return requireAffected(res, errors.ErrCodeConceptNotFound, "concept not found")
}

// List returns concepts matching the filter plus the unfiltered total.
func (r *ConceptRepository) List(ctx context.Context, filter glossary.ConceptFilter) ([]*glossary.Concept, int64, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0

	arg := func(v interface{}) string {
		n++
		args = append(args, v)
		return placeholder(n)
	}

	if filter.NameLike != "" {
		where += ` AND LOWER(name) LIKE ` + arg(likePattern(filter.NameLike))
	}
	if filter.Version != "" {
		where += ` AND version = ` + arg(filter.Version)
	}
	if filter.DocumentID != nil {
		where += ` AND document_id = ` + arg(*filter.DocumentID)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM concepts`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count concepts")
	}

	query := `SELECT ` + conceptColumns + ` FROM concepts` + where + ` ORDER BY name, lemma`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list concepts")
	}
	defer rows.Close()

	var out []*glossary.Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan concept")
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// Delete removes a concept; offsets, relations and acceptance states cascade
// in the schema.
func (r *ConceptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM concepts WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete concept")
	}
	return requireAffected(res, errors.ErrCodeConceptNotFound, "concept not found")
}

// ─────────────────────────────────────────────────────────────────────────────
// Offsets
// ─────────────────────────────────────────────────────────────────────────────

// UpsertOccurrence inserts an occurrence unless a row for the same concept
// name already covers these offsets in this document.  The name-level
// pre-check keeps differently-sourced passes (occurrence vs definition) from
// duplicating offset rows.
func (r *ConceptRepository) UpsertOccurrence(ctx context.Context, o *glossary.Occurrence) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM concept_occurrences co
			JOIN concepts c ON c.id = co.concept_id
			WHERE c.name = (SELECT name FROM concepts WHERE id = $1)
			  AND co.document_id = $2 AND co.begin_offset = $3 AND co.end_offset = $4
		)`,
		o.ConceptID, o.DocumentID, o.Span.Begin, o.Span.End).Scan(&exists)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "check occurrence")
	}
	if exists {
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO concept_occurrences (id, concept_id, document_id, begin_offset, end_offset, probability, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (concept_id, document_id, begin_offset, end_offset) DO UPDATE
			SET probability = EXCLUDED.probability`,
		o.ID, o.ConceptID, o.DocumentID, o.Span.Begin, o.Span.End, o.Probability)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "upsert occurrence")
	}
	return nil
}

// UpsertDefinition inserts or refreshes a definition offset record.
func (r *ConceptRepository) UpsertDefinition(ctx context.Context, d *glossary.Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO concept_definitions (id, concept_id, document_id, begin_offset, end_offset, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (concept_id, document_id, begin_offset, end_offset) DO NOTHING`,
		d.ID, d.ConceptID, d.DocumentID, d.Span.Begin, d.Span.End)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "upsert definition")
	}
	return nil
}

// OccurrencesByDocument lists a document's occurrence records in offset order.
func (r *ConceptRepository) OccurrencesByDocument(ctx context.Context, documentID uuid.UUID) ([]*glossary.Occurrence, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, concept_id, document_id, begin_offset, end_offset, probability, created_at
		FROM concept_occurrences WHERE document_id = $1
		ORDER BY begin_offset, end_offset`, documentID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list occurrences")
	}
	defer rows.Close()

	var out []*glossary.Occurrence
	for rows.Next() {
		var o glossary.Occurrence
		if err := rows.Scan(&o.ID, &o.ConceptID, &o.DocumentID, &o.Span.Begin, &o.Span.End, &o.Probability, &o.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan occurrence")
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

// DefinitionsByDocument lists a document's definition records in offset order.
func (r *ConceptRepository) DefinitionsByDocument(ctx context.Context, documentID uuid.UUID) ([]*glossary.Definition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, concept_id, document_id, begin_offset, end_offset, created_at
		FROM concept_definitions WHERE document_id = $1
		ORDER BY begin_offset, end_offset`, documentID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list definitions")
	}
	defer rows.Close()

	var out []*glossary.Definition
	for rows.Next() {
		var d glossary.Definition
		if err := rows.Scan(&d.ID, &d.ConceptID, &d.DocumentID, &d.Span.Begin, &d.Span.End, &d.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan definition")
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// DeleteOccurrence removes one occurrence record by its full key.
func (r *ConceptRepository) DeleteOccurrence(ctx context.Context, conceptID, documentID uuid.UUID, span annotation.Span) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM concept_occurrences
		WHERE concept_id = $1 AND document_id = $2 AND begin_offset = $3 AND end_offset = $4`,
		conceptID, documentID, span.Begin, span.End)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete occurrence")
	}
	return requireAffected(res, errors.ErrCodeNotFound, "occurrence not found")
}

// DeleteDefinition removes one definition record by its full key.
func (r *ConceptRepository) DeleteDefinition(ctx context.Context, conceptID, documentID uuid.UUID, span annotation.Span) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM concept_definitions
		WHERE concept_id = $1 AND document_id = $2 AND begin_offset = $3 AND end_offset = $4`,
		conceptID, documentID, span.Begin, span.End)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete definition")
	}
	return requireAffected(res, errors.ErrCodeNotFound, "definition not found")
}

// ─────────────────────────────────────────────────────────────────────────────
// Relations
// ─────────────────────────────────────────────────────────────────────────────

// LinkRelated records an undirected relation between two concepts.  The pair
// is stored once, smaller ID first.
func (r *ConceptRepository) LinkRelated(ctx context.Context, fromID, toID uuid.UUID) error {
	a, b := fromID, toID
	if b.String() < a.String() {
		a, b = b, a
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO concept_relations (from_concept_id, to_concept_id)
		VALUES ($1, $2)
		ON CONFLICT (from_concept_id, to_concept_id) DO NOTHING`, a, b)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "link concepts")
	}
	return nil
}

// RelatedConcepts returns the concepts linked to the given one.
func (r *ConceptRepository) RelatedConcepts(ctx context.Context, conceptID uuid.UUID) ([]*glossary.Concept, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+prefixedConceptColumns("c")+`
		FROM concepts c
		JOIN concept_relations cr
		  ON (cr.from_concept_id = $1 AND cr.to_concept_id = c.id)
		  OR (cr.to_concept_id = $1 AND cr.from_concept_id = c.id)
		ORDER BY c.name`, conceptID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list related concepts")
	}
	defer rows.Close()

	var out []*glossary.Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan related concept")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

//Personal.AI order the ending
