package extraction

import (
	"context"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/domain/obligation"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/internal/nlp/cas"
	"github.com/regcat-io/regcat/internal/nlp/extract"
	"github.com/regcat-io/regcat/internal/nlp/roview"
)

// ExtractObligations runs the reporting-obligation pipeline over one
// document: canonical text, obligation extraction stage, graph
// reconciliation (reuse-first identity), relational upserts, highlight push,
// obligation HTML archival, version stamp.
func (s *Service) ExtractObligations(ctx context.Context, documentID uuid.UUID, force bool) error {
	version := s.deps.NLP.ObligationsVersion()

	doc, err := s.deps.Documents.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if !force && !doc.NeedsObligationExtraction(version) {
		s.logger.Debug("Document already at obligation pipeline version",
			logging.String("document_id", documentID.String()),
			logging.String("version", version))
		return nil
	}

	lease, err := s.deps.Leases.Acquire(ctx, PipelineObligations, documentID)
	if err != nil {
		return err
	}
	defer lease.Release(ctx)

	c, _, err := s.canonicalCAS(ctx, documentID)
	if err != nil {
		return err
	}
	canonical, err := c.View(cas.ViewHTML2Text)
	if err != nil {
		return err
	}

	env, err := cas.Encode(c, contentTypeHTML)
	if err != nil {
		return err
	}
	if _, err := lease.Extend(ctx); err != nil {
		return err
	}
	if env, err = s.deps.NLP.ExtractObligations(ctx, env); err != nil {
		return err
	}
	roCAS, err := cas.Decode(env)
	if err != nil {
		return err
	}

	obligations, err := roview.Obligations(roCAS)
	if err != nil {
		return err
	}
	kept := obligations[:0]
	for _, ro := range obligations {
		ro.DocumentID = documentID
		ro.Version = version
		if err := ro.Validate(); err != nil {
			s.warnSkipped(documentID, ro.Value, err)
			continue
		}
		kept = append(kept, ro)
	}

	if err := s.reconcileGraph(ctx, doc.WebsiteID, documentID, kept); err != nil {
		return err
	}

	// The graph assigned each obligation its URI; rows carry it for joins.
	for _, ro := range kept {
		stored, err := s.deps.Obligations.Upsert(ctx, ro)
		if err != nil {
			return err
		}
		verdict := glossary.NewModelAcceptance(glossary.EntityObligation, stored.ID, version,
			glossary.AcceptanceUnvalidated, 0)
		if err := s.deps.Acceptance.Upsert(ctx, verdict); err != nil {
			return err
		}
	}

	if err := s.pushHighlights(ctx, documentID, canonical.Text, roCAS); err != nil {
		return err
	}

	view, err := roview.RenderHTML(roCAS)
	if err != nil {
		return err
	}
	if err := s.deps.ROHTML.Save(ctx, documentID, version, view); err != nil {
		return err
	}

	if err := s.deps.Documents.SetObligationVersion(ctx, documentID, version); err != nil {
		return err
	}

	s.logger.Info("Obligation extraction finished",
		logging.String("document_id", documentID.String()),
		logging.String("version", version),
		logging.Int("obligations", len(kept)))
	return nil
}

// reconcileGraph applies this run's obligations to the graph in one planned
// batch, then re-asserts the document's source link.
func (s *Service) reconcileGraph(ctx context.Context, websiteID, documentID uuid.UUID, ros []*obligation.ReportingObligation) error {
	catDoc := s.deps.Vocab.CatDoc(documentID.String())

	prior, err := s.deps.Graph.PriorMatchesForDocument(ctx, catDoc)
	if err != nil {
		return err
	}

	plan := obligation.BuildDocumentPlan(s.deps.Vocab, documentID.String(), ros, prior)
	for _, w := range plan.Warnings {
		s.logger.Warn("Graph plan degradation",
			logging.String("document_id", documentID.String()),
			logging.String("warning", w))
	}
	if err := s.deps.Graph.Apply(ctx, plan); err != nil {
		return err
	}

	website, err := s.deps.Websites.GetByID(ctx, websiteID)
	if err != nil {
		return err
	}
	source := obligation.BuildSourcePlan(s.deps.Vocab, documentID.String(), website.URL, website.Name)
	return s.deps.Graph.Apply(ctx, source)
}

// pushHighlights maps the obligation paragraphs back onto the canonical text
// and pushes them as the highlight field's token payload.
func (s *Service) pushHighlights(ctx context.Context, documentID uuid.UUID, text string, roCAS *cas.CAS) error {
	highlights, err := roview.Highlights(roCAS)
	if err != nil {
		return err
	}

	tokens := make([]extract.IndexToken, 0, len(highlights))
	for _, h := range highlights {
		tokens = append(tokens, extract.IndexToken{Text: h.Text, Span: h.Span})
	}
	return s.deps.Index.PushHighlights(ctx, documentID, text, tokens)
}

//Personal.AI order the ending
