// Package document implements the catalogue bounded context: regulatory
// documents harvested from source websites, their metadata, acceptance
// bookkeeping, and the version markers the extraction pipelines use to decide
// what still needs processing.
package document

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/pkg/errors"
)

// Website is a harvested document source, e.g. EUR-Lex or a national
// regulator's register.
type Website struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	URL     string    `json:"url"`
	Content string    `json:"content,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the website's identifying fields.
func (w *Website) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return errors.New(errors.ErrCodeValidation, "website name must not be empty")
	}
	if strings.TrimSpace(w.URL) == "" {
		return errors.New(errors.ErrCodeValidation, "website url must not be empty")
	}
	return nil
}

// Document is one catalogue entry.  Its textual content lives in object
// storage as a CAS; the row carries metadata and processing state.
type Document struct {
	ID uuid.UUID `json:"id"`

	// Celex is the EUR-Lex identifier when the document came from there.
	Celex    string `json:"celex,omitempty"`
	CustomID string `json:"custom_id,omitempty"`

	Title       string `json:"title"`
	TitlePrefix string `json:"title_prefix,omitempty"`
	Author      string `json:"author,omitempty"`
	Status      string `json:"status,omitempty"`
	Type        string `json:"type,omitempty"`

	Date           time.Time  `json:"date"`
	DateOfEffect   *time.Time `json:"date_of_effect,omitempty"`
	DateLastUpdate time.Time  `json:"date_last_update"`

	URL string `json:"url"`

	// ELI is the European Legislation Identifier, when known.
	ELI string `json:"eli,omitempty"`

	WebsiteID uuid.UUID `json:"website_id"`

	Summary string `json:"summary,omitempty"`
	Various string `json:"various,omitempty"`

	// ConsolidatedVersions lists related consolidated texts, newline
	// separated, as harvested.
	ConsolidatedVersions string `json:"consolidated_versions,omitempty"`

	FileURL string `json:"file_url,omitempty"`

	// AcceptanceProbability caches the highest classifier confidence among
	// the document's acceptance states, for sorting the review queue.
	AcceptanceProbability *float64 `json:"acceptance_probability,omitempty"`

	// Unvalidated is true until any human verdict lands on the document.
	Unvalidated bool `json:"unvalidated"`

	// TermVersion and ObligationVersion mark which pipeline version last
	// processed the document; empty means never processed.
	TermVersion       string `json:"term_version,omitempty"`
	ObligationVersion string `json:"obligation_version,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the document's identifying fields.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New(errors.ErrCodeValidation, "document title must not be empty")
	}
	if strings.TrimSpace(d.URL) == "" {
		return errors.New(errors.ErrCodeValidation, "document url must not be empty")
	}
	if d.WebsiteID == uuid.Nil {
		return errors.New(errors.ErrCodeValidation, "document must belong to a website")
	}
	return nil
}

// NeedsTermExtraction reports whether the pipeline at version should process
// the document's terms.
func (d *Document) NeedsTermExtraction(version string) bool {
	return d.TermVersion != version
}

// NeedsObligationExtraction reports whether the pipeline at version should
// process the document's reporting obligations.
func (d *Document) NeedsObligationExtraction(version string) bool {
	return d.ObligationVersion != version
}

// Attachment is a file harvested alongside a document, such as an annex PDF.
type Attachment struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	URL        string    `json:"url"`
	Content    string    `json:"content,omitempty"`
	Extracted  bool      `json:"extracted"`
	CreatedAt  time.Time `json:"created_at"`
}

// Comment is a reviewer note on a document.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	User       string    `json:"user"`
	Value      string    `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

//Personal.AI order the ending
