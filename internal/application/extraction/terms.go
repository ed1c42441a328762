package extraction

import (
	"context"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/document"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/internal/nlp/cas"
	"github.com/regcat-io/regcat/internal/nlp/extract"
)

// ExtractTerms runs the glossary pipeline over one document: canonical text,
// definition and term extraction stages, persistence reconciliation, index
// push, CAS archival, version stamp.
func (s *Service) ExtractTerms(ctx context.Context, documentID uuid.UUID, force bool) error {
	version := s.deps.NLP.Version()

	doc, err := s.deps.Documents.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if !force && !doc.NeedsTermExtraction(version) {
		s.logger.Debug("Document already at term pipeline version",
			logging.String("document_id", documentID.String()),
			logging.String("version", version))
		return nil
	}

	lease, err := s.deps.Leases.Acquire(ctx, PipelineTerms, documentID)
	if err != nil {
		return err
	}
	defer lease.Release(ctx)

	c, fresh, err := s.canonicalCAS(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.applyCorrections(ctx, c, documentID); err != nil {
		return err
	}

	env, err := cas.Encode(c, contentTypeHTML)
	if err != nil {
		return err
	}
	if fresh {
		if env, err = s.deps.NLP.DetectParagraphs(ctx, env); err != nil {
			return err
		}
	}
	if env, err = s.deps.NLP.ExtractDefinitions(ctx, env); err != nil {
		return err
	}

	// The term stage is the slow one; push the lease expiry out first.
	if _, err := lease.Extend(ctx); err != nil {
		return err
	}
	if env, err = s.deps.NLP.ExtractTerms(ctx, env); err != nil {
		return err
	}

	annotated, err := cas.Decode(env)
	if err != nil {
		return err
	}
	res, err := extract.Run(annotated)
	if err != nil {
		return err
	}
	for _, skipped := range res.Skipped {
		s.logger.Warn("Extraction candidate skipped",
			logging.String("document_id", documentID.String()),
			logging.String("reason", skipped))
	}

	if err := s.persistTerms(ctx, doc, version, res); err != nil {
		return err
	}
	if err := s.deps.Index.PushOccurrences(ctx, documentID, res); err != nil {
		return err
	}
	if err := s.deps.Index.PushDefinitions(ctx, documentID, res); err != nil {
		return err
	}

	if err := s.deps.CASStore.SaveDebug(ctx, documentID, annotated); err != nil {
		return err
	}
	if err := s.deps.CASStore.Save(ctx, documentID, cleanedForArchive(annotated)); err != nil {
		return err
	}

	if err := s.deps.Documents.SetTermVersion(ctx, documentID, version); err != nil {
		return err
	}

	s.logger.Info("Term extraction finished",
		logging.String("document_id", documentID.String()),
		logging.String("version", version),
		logging.Int("occurrences", len(res.Occurrences)),
		logging.Int("definition_groups", len(res.Groups)))
	return nil
}

// persistTerms reconciles one extraction result with the glossary stores.
// Concepts resolve by natural key, occurrences and definitions upsert on
// (concept, document, span), and each touched concept gets the extractor's
// model verdict.  A single malformed candidate is skipped, not fatal.
func (s *Service) persistTerms(ctx context.Context, doc *document.Document, version string, res *extract.Result) error {
	for _, t := range res.Occurrences {
		concept := &glossary.Concept{Name: t.Term, Lemma: t.Lemma, Version: version}
		if err := concept.Validate(); err != nil {
			s.warnSkipped(doc.ID, t.Term, err)
			continue
		}
		stored, err := s.deps.Concepts.GetOrCreate(ctx, concept)
		if err != nil {
			return err
		}

		occ := &glossary.Occurrence{
			ConceptID:   stored.ID,
			DocumentID:  doc.ID,
			Span:        t.Span,
			Probability: t.Score,
		}
		if err := occ.Validate(); err != nil {
			s.warnSkipped(doc.ID, t.Term, err)
			continue
		}
		if err := s.deps.Concepts.UpsertOccurrence(ctx, occ); err != nil {
			return err
		}

		verdict := glossary.NewModelAcceptance(glossary.EntityConcept, stored.ID, version,
			glossary.AcceptanceUnvalidated, t.Score)
		if err := s.deps.Acceptance.Upsert(ctx, verdict); err != nil {
			return err
		}
	}

	for _, group := range res.Groups {
		var defined []uuid.UUID
		for _, dt := range group {
			concept := &glossary.Concept{
				Name:       dt.Term,
				Lemma:      dt.Lemma,
				Definition: dt.Definition,
				Version:    version,
				DocumentID: &doc.ID,
			}
			if err := concept.Validate(); err != nil {
				s.warnSkipped(doc.ID, dt.Term, err)
				continue
			}
			stored, err := s.deps.Concepts.GetOrCreate(ctx, concept)
			if err != nil {
				return err
			}

			def := &glossary.Definition{
				ConceptID:  stored.ID,
				DocumentID: doc.ID,
				Span:       dt.DefinitionSpan,
			}
			if err := def.Validate(); err != nil {
				s.warnSkipped(doc.ID, dt.Term, err)
				continue
			}
			if err := s.deps.Concepts.UpsertDefinition(ctx, def); err != nil {
				return err
			}
			defined = append(defined, stored.ID)
		}

		// Concepts defined by the same sentence are related pairwise.
		for i := 0; i < len(defined); i++ {
			for j := i + 1; j < len(defined); j++ {
				if err := s.deps.Concepts.LinkRelated(ctx, defined[i], defined[j]); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (s *Service) warnSkipped(documentID uuid.UUID, term string, err error) {
	s.logger.Warn("Skipping malformed extraction record",
		logging.String("document_id", documentID.String()),
		logging.String("term", term),
		logging.Err(err))
}

//Personal.AI order the ending
