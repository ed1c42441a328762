package extraction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/domain/document"
	"github.com/regcat-io/regcat/internal/infrastructure/messaging/kafka"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// dispatchChunkSize bounds one listing page and one batch publish, so a
// website with tens of thousands of documents fans out in steady slices.
const dispatchChunkSize = 100

// dispatchSource tags envelopes emitted by the dispatcher.
const dispatchSource = "regcat-dispatcher"

// DispatchDocument queues one extraction job.
func (s *Service) DispatchDocument(ctx context.Context, documentID uuid.UUID, pipeline string, force bool) error {
	msg, err := s.jobMessage(documentID, pipeline, force)
	if err != nil {
		return err
	}
	return s.deps.Publisher.Publish(ctx, msg)
}

// DispatchWebsite queues one extraction job per document of a website that
// is not yet at the pipeline's current version (all documents when force is
// set), in chunks.  It returns the number of jobs queued.
func (s *Service) DispatchWebsite(ctx context.Context, websiteID uuid.UUID, pipeline string, force bool) (int, error) {
	version, _, err := s.pipelineParams(pipeline)
	if err != nil {
		return 0, err
	}

	filter := document.Filter{WebsiteID: &websiteID, Limit: dispatchChunkSize}
	if !force {
		switch pipeline {
		case PipelineTerms:
			filter.MissingTermVersion = version
		case PipelineObligations:
			filter.MissingObligationVersion = version
		}
	}

	dispatched := 0
	for {
		docs, _, err := s.deps.Documents.List(ctx, filter)
		if err != nil {
			return dispatched, err
		}
		if len(docs) == 0 {
			break
		}

		msgs := make([]*kafka.ProducerMessage, 0, len(docs))
		for _, doc := range docs {
			msg, err := s.jobMessage(doc.ID, pipeline, force)
			if err != nil {
				return dispatched, err
			}
			msgs = append(msgs, msg)
		}

		result, err := s.deps.Publisher.PublishBatch(ctx, msgs)
		if err != nil {
			return dispatched, err
		}
		if result.Failed > 0 {
			return dispatched, errors.New(errors.ErrCodeExternalService,
				fmt.Sprintf("%d of %d extraction jobs failed to publish", result.Failed, len(msgs)))
		}
		dispatched += len(msgs)

		if len(docs) < dispatchChunkSize {
			break
		}
		filter.Offset += dispatchChunkSize
	}

	s.logger.Info("Dispatched website extraction",
		logging.String("website_id", websiteID.String()),
		logging.String("pipeline", pipeline),
		logging.Int("jobs", dispatched))
	return dispatched, nil
}

// jobMessage builds the job envelope for one (document, pipeline) pair.
func (s *Service) jobMessage(documentID uuid.UUID, pipeline string, force bool) (*kafka.ProducerMessage, error) {
	version, topic, err := s.pipelineParams(pipeline)
	if err != nil {
		return nil, err
	}

	var payload any
	switch pipeline {
	case PipelineTerms:
		payload = kafka.ExtractTermsPayload{DocumentID: documentID.String(), Version: version, Force: force}
	default:
		payload = kafka.ExtractObligationsPayload{DocumentID: documentID.String(), Version: version, Force: force}
	}

	env, err := kafka.NewEventEnvelope(topic, dispatchSource, payload)
	if err != nil {
		return nil, err
	}
	return env.ToMessage(topic)
}

func (s *Service) pipelineParams(pipeline string) (version, topic string, err error) {
	switch pipeline {
	case PipelineTerms:
		return s.deps.NLP.Version(), kafka.TopicExtractTerms, nil
	case PipelineObligations:
		return s.deps.NLP.ObligationsVersion(), kafka.TopicExtractObligations, nil
	}
	return "", "", errors.New(errors.ErrCodeValidation, "unknown extraction pipeline").WithDetail(pipeline)
}

//Personal.AI order the ending
