package obligation

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Well-known URIs from the external vocabularies the graph uses.
const (
	RDFType       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFValue      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#value"
	SKOSPrefLabel = "http://www.w3.org/2004/02/skos/core#prefLabel"
	SKOSConcept   = "http://www.w3.org/2004/02/skos/core#Concept"
)

// Relative names of the vocabulary's own classes and connecting predicates.
const (
	ClassCatalogueDocument   = "CatalogueDocument"
	ClassReportingObligation = "ReportingObligation"
	ClassDocumentSource      = "DocumentSource"

	PredHasReportingObligation = "hasReportingObligation"
	PredHasDocumentSource      = "hasDocumentSource"
)

// Vocabulary resolves relative vocabulary names and node identifiers to full
// URIs under a configured base.
type Vocabulary struct {
	base string
}

// NewVocabulary builds a vocabulary rooted at base, e.g.
// "http://regcat.local/".  The reporting-obligation namespace lives under
// base + "reporting_obligations/".
func NewVocabulary(base string) Vocabulary {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return Vocabulary{base: base}
}

// Namespace returns the reporting-obligation namespace prefix.
func (v Vocabulary) Namespace() string {
	return v.base + "reporting_obligations/"
}

// Term resolves a relative vocabulary name.  Names that are already absolute
// URIs (the SKOS fallback class, for one) pass through unchanged.
func (v Vocabulary) Term(name string) string {
	if strings.Contains(name, "://") {
		return name
	}
	return v.Namespace() + name
}

// CatDoc returns the URI of the catalogue-document node for a document.
func (v Vocabulary) CatDoc(docID string) string {
	return v.Namespace() + "cat_doc/" + docID
}

// DocSource returns the URI for a document source.  Source identifiers that
// already parse as absolute URIs are used as-is; anything else is slotted
// under the namespace with spaces collapsed to underscores.
func (v Vocabulary) DocSource(sourceID string) string {
	if u, err := url.Parse(sourceID); err == nil && u.IsAbs() {
		return sourceID
	}
	return v.Namespace() + "doc_src/" + strings.ReplaceAll(strings.TrimSpace(sourceID), " ", "_")
}

// ObligationURI mints the URI for a reporting obligation.  The suffix is
// derived from the document identifier and the obligation text, so
// re-extracting unchanged text reproduces the same URI without a store
// round-trip.
func (v Vocabulary) ObligationURI(docID, value string) string {
	h := sha256.New()
	h.Write([]byte(docID))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return v.Namespace() + "rep_obl_" + hex.EncodeToString(h.Sum(nil))[:20]
}

// EntityURI mints a fresh URI for an obligation sub-entity.  Sub-entities are
// replaced wholesale on every run, so their identifiers carry no reuse
// contract and are simply random.
func (v Vocabulary) EntityURI() string {
	return v.Namespace() + "entity_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

//Personal.AI order the ending
