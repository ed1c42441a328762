// Package obligation implements the reporting-obligation bounded context:
// role-tagged obligations extracted from regulatory documents, the RDF
// vocabulary they are published under, and the graph reconciliation that
// keeps their URIs stable across re-extractions.
package obligation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/pkg/errors"
)

// ReportingObligation is one extracted clause stating that some actor must
// report something to some body.  Value is the full obligation text; the
// Fragments decompose it into role-tagged sub-entities.
type ReportingObligation struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`

	// RDFID is the obligation's URI in the graph.  Once assigned it is
	// preserved across re-extractions of the same (document, value) pair.
	RDFID string `json:"rdf_id,omitempty"`

	// Value is the verbatim obligation sentence.
	Value string `json:"value"`

	Fragments []SentenceFragment `json:"fragments"`

	// Version records which extraction pipeline version produced the row.
	Version string `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate rejects obligations with no text.
func (o *ReportingObligation) Validate() error {
	if strings.TrimSpace(o.Value) == "" {
		return errors.New(errors.ErrCodeObligationEmpty, "reporting obligation text must not be empty")
	}
	return nil
}

// SentenceFragment is one role-tagged span of an obligation sentence, e.g.
// ("ARG0", "the credit institution") or ("V", "shall report").
type SentenceFragment struct {
	// Role is the PropBank-style argument label assigned by the extractor.
	Role string `json:"role"`

	// Value is the fragment's surface text.
	Value string `json:"value"`
}

//Personal.AI order the ending
