// Package glossary implements the glossary bounded context: concepts mined
// from regulatory documents, their in-text occurrences and definitions, the
// acceptance states attached by human validators and probability models, and
// the annotation worklog that records every manual correction.
package glossary

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/annotation"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Term limits
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MaxTermRunes is the longest term the glossary will store, measured in
	// characters.  Longer spans are almost always extraction noise.
	MaxTermRunes = 500

	// MaxIndexableBytes is the ceiling on the UTF-8 byte length of any value
	// pushed into the search index.  It mirrors the storage engine's index
	// row limit; oversized values are excluded from both the relational rows
	// and the index payloads.
	MaxIndexableBytes = 32000
)

// ─────────────────────────────────────────────────────────────────────────────
// Concept aggregate
// ─────────────────────────────────────────────────────────────────────────────

// Concept is a glossary entry.  Its identity for reconciliation purposes is
// the natural key (Name, Lemma, Definition): re-running extraction over the
// same document must resolve to the same Concept row rather than creating a
// duplicate.
type Concept struct {
	ID uuid.UUID `json:"id"`

	// Name is the surface form of the term.
	Name string `json:"name"`

	// Lemma is the normalised form the NLP pipeline assigned.
	Lemma string `json:"lemma"`

	// Definition is the defining sentence (possibly widened to its
	// paragraph); empty for occurrence-only concepts.
	Definition string `json:"definition"`

	// Version records which extraction pipeline version produced the
	// concept, so that a model upgrade can re-process selectively.
	Version string `json:"version"`

	// DocumentID points at the document whose text defined the concept;
	// nil for occurrence-only concepts.
	DocumentID *uuid.UUID `json:"document_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate enforces the glossary's structural rules on a concept before it
// reaches persistence.
func (c *Concept) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return errors.New(errors.ErrCodeConceptInvalid, "concept name must not be empty")
	}
	if utf8.RuneCountInString(c.Name) > MaxTermRunes {
		return errors.New(errors.ErrCodeTermTooLong, "concept name exceeds maximum length").
			WithDetail(c.Name[:40] + "…")
	}
	if strings.TrimSpace(c.Lemma) == "" {
		return errors.New(errors.ErrCodeLemmaEmpty, "concept lemma must not be empty")
	}
	return nil
}

// NaturalKey identifies a concept independent of its surrogate ID.
type NaturalKey struct {
	Name       string
	Lemma      string
	Definition string
}

// Key returns the concept's natural key.
func (c *Concept) Key() NaturalKey {
	return NaturalKey{Name: c.Name, Lemma: c.Lemma, Definition: c.Definition}
}

// Indexable reports whether every indexed field of the concept fits under
// the search-index byte ceiling.
func (c *Concept) Indexable() bool {
	return len(c.Name) < MaxIndexableBytes && len(c.Definition) < MaxIndexableBytes
}

// ─────────────────────────────────────────────────────────────────────────────
// Occurrences and definitions
// ─────────────────────────────────────────────────────────────────────────────

// Occurrence records one in-text appearance of a concept in a document.
// The natural key is (ConceptID, DocumentID, Span): re-extraction upserts
// rather than duplicates.
type Occurrence struct {
	ID         uuid.UUID       `json:"id"`
	ConceptID  uuid.UUID       `json:"concept_id"`
	DocumentID uuid.UUID       `json:"document_id"`
	Span       annotation.Span `json:"span"`

	// Probability is the extractor's confidence for this occurrence.
	Probability float64 `json:"probability"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the occurrence's span.
func (o *Occurrence) Validate() error {
	if err := o.Span.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeOccurrenceInvalid, "invalid occurrence span")
	}
	return nil
}

// Definition records the span where a concept is defined in a document.
// Natural key (ConceptID, DocumentID, Span), same upsert semantics as
// Occurrence.
type Definition struct {
	ID         uuid.UUID       `json:"id"`
	ConceptID  uuid.UUID       `json:"concept_id"`
	DocumentID uuid.UUID       `json:"document_id"`
	Span       annotation.Span `json:"span"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Validate checks the definition's span.
func (d *Definition) Validate() error {
	if err := d.Span.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeOccurrenceInvalid, "invalid definition span")
	}
	return nil
}

// Relation links two concepts that were defined in the same document.  The
// extractor emits pairwise links in extraction order.
type Relation struct {
	FromConceptID uuid.UUID `json:"from_concept_id"`
	ToConceptID   uuid.UUID `json:"to_concept_id"`
}

//Personal.AI order the ending
