package obligation

import (
	"fmt"
	"sort"
)

// ─────────────────────────────────────────────────────────────────────────────
// Graph mutation planning
// ─────────────────────────────────────────────────────────────────────────────

// Triple is one RDF statement.  Object is a URI unless Literal is set, in
// which case it is a plain value with an optional language tag.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
	Literal   bool
	Lang      string
}

// Retirement marks an existing obligation node whose triples must be removed
// before this run's additions are applied.  When KeepValue is set the node's
// (uri, rdf:value, text) triple survives, so external references that still
// point at the URI keep resolving to the obligation text.
type Retirement struct {
	URI       string
	KeepValue bool
}

// Plan is the full set of graph mutations for one document's extraction run.
// The store applies removals first, then additions, as a single batch.
type Plan struct {
	CatDocURI string
	Retired   []Retirement
	Additions []Triple

	// Warnings records degradations encountered while planning, such as
	// unknown fragment roles that fell back to the generic binding.
	Warnings []string
}

// Empty reports whether the plan carries no mutations.
func (p *Plan) Empty() bool {
	return len(p.Retired) == 0 && len(p.Additions) == 0
}

// PriorMatches maps obligation text to the URIs of the obligation nodes
// already attached to this document with exactly that value.
type PriorMatches map[string][]string

// BuildDocumentPlan plans the graph mutations for one document.  For each
// obligation it reuses the lexicographically smallest prior URI when the same
// text already exists on the document, retires every other prior match, and
// mints a deterministic URI otherwise.  Each obligation's RDFID field is set
// to the chosen URI as a side effect.
//
// A document with no obligations produces an empty plan; the catalogue
// document node is only asserted when there is something to attach to it.
func BuildDocumentPlan(v Vocabulary, docID string, obligations []*ReportingObligation, prior PriorMatches) *Plan {
	plan := &Plan{CatDocURI: v.CatDoc(docID)}
	if len(obligations) == 0 {
		return plan
	}

	plan.Additions = append(plan.Additions, Triple{
		Subject:   plan.CatDocURI,
		Predicate: RDFType,
		Object:    v.Term(ClassCatalogueDocument),
	})

	for _, ro := range obligations {
		uris := append([]string(nil), prior[ro.Value]...)
		sort.Strings(uris)

		if len(uris) > 0 {
			ro.RDFID = uris[0]
			for i, uri := range uris {
				plan.Retired = append(plan.Retired, Retirement{URI: uri, KeepValue: i == 0})
			}
		} else {
			ro.RDFID = v.ObligationURI(docID, ro.Value)
		}

		plan.Additions = append(plan.Additions,
			Triple{Subject: ro.RDFID, Predicate: RDFType, Object: v.Term(ClassReportingObligation)},
			Triple{Subject: plan.CatDocURI, Predicate: v.Term(PredHasReportingObligation), Object: ro.RDFID},
			Triple{Subject: ro.RDFID, Predicate: RDFValue, Object: ro.Value, Literal: true},
		)

		for _, frag := range ro.Fragments {
			binding, known := BindingForRole(frag.Role)
			if !known {
				plan.Warnings = append(plan.Warnings,
					fmt.Sprintf("unknown sentence fragment role %q, using generic entity binding", frag.Role))
			}

			entity := v.EntityURI()
			plan.Additions = append(plan.Additions,
				Triple{Subject: entity, Predicate: RDFType, Object: v.Term(binding.Class)},
				Triple{Subject: entity, Predicate: SKOSPrefLabel, Object: frag.Value, Literal: true, Lang: "en"},
				Triple{Subject: ro.RDFID, Predicate: v.Term(binding.Predicate), Object: entity},
			)
		}
	}

	return plan
}

// BuildSourcePlan plans the triples linking a document to one of its sources,
// typically the website it was fetched from.
func BuildSourcePlan(v Vocabulary, docID, sourceID, sourceName string) *Plan {
	plan := &Plan{CatDocURI: v.CatDoc(docID)}
	sourceURI := v.DocSource(sourceID)

	plan.Additions = append(plan.Additions,
		Triple{Subject: plan.CatDocURI, Predicate: v.Term(PredHasDocumentSource), Object: sourceURI},
		Triple{Subject: sourceURI, Predicate: RDFType, Object: v.Term(ClassDocumentSource)},
	)
	if sourceName != "" {
		plan.Additions = append(plan.Additions,
			Triple{Subject: sourceURI, Predicate: RDFValue, Object: sourceName, Literal: true, Lang: "en"})
	}
	return plan
}

//Personal.AI order the ending
