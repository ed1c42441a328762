package extraction

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/internal/nlp/cas"
)

// applyCorrections writes the document's manual annotations into the CAS as
// user-typed spans, so the extractor suppresses machine candidates that
// overlap them.  Obligation worklogs stay out: the obligation pipeline
// reconciles through the graph, not through CAS spans.
func (s *Service) applyCorrections(ctx context.Context, c *cas.CAS, documentID uuid.UUID) error {
	worklogs, err := s.deps.Worklogs.ByDocument(ctx, documentID,
		[]glossary.AnnotationType{glossary.AnnotationOccurrence, glossary.AnnotationDefinition})
	if err != nil {
		return err
	}
	if len(worklogs) == 0 {
		return nil
	}

	view, err := c.View(cas.ViewHTML2Text)
	if err != nil {
		return err
	}

	for _, w := range worklogs {
		view.Add(cas.Annotation{
			Type:  correctionType(w),
			Begin: w.Span.Begin,
			End:   w.Span.End,
			Features: map[string]string{
				cas.FeatUser:     w.User,
				cas.FeatTerm:     w.Quote,
				cas.FeatDatetime: w.CreatedAt.UTC().Format(time.RFC3339),
			},
		})
	}

	s.logger.Debug("Applied manual corrections to CAS",
		logging.String("document_id", documentID.String()),
		logging.Int("corrections", len(worklogs)))
	return nil
}

// correctionType maps a worklog entry onto the annotation type the extractor
// consults for its kind.
func correctionType(w *glossary.Worklog) string {
	switch w.Type {
	case glossary.AnnotationDefinition:
		if w.Rejected {
			return cas.TypeTokenRejected
		}
		return cas.TypeSentenceUser
	default:
		if w.Rejected {
			return cas.TypeTfidfRejected
		}
		return cas.TypeTfidfUser
	}
}

// nlpLayerTypes are the machine annotation layers stripped from the archived
// canonical CAS.  The archive keeps the text, the tag structure, and the
// user corrections; the NLP layers are reproducible and dominate the size.
var nlpLayerTypes = map[string]bool{
	cas.TypeSentence:   true,
	cas.TypeParagraph:  true,
	cas.TypeLemma:      true,
	cas.TypeTfidf:      true,
	cas.TypeToken:      true,
	cas.TypeDependency: true,
}

// cleanedForArchive copies a CAS, dropping the machine NLP layers.
func cleanedForArchive(c *cas.CAS) *cas.CAS {
	out := cas.New()
	for _, view := range c.Views {
		nv := out.AddView(view.SofaID)
		nv.Text = view.Text
		for _, a := range view.Annotations {
			if nlpLayerTypes[a.Type] {
				continue
			}
			nv.Add(a)
		}
	}
	return out
}

//Personal.AI order the ending
