package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regcat-io/regcat/internal/domain/document"
	"github.com/regcat-io/regcat/internal/infrastructure/messaging/kafka"
	"github.com/regcat-io/regcat/pkg/errors"
)

func websiteDocuments(websiteID uuid.UUID, n int) []*document.Document {
	docs := make([]*document.Document, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, &document.Document{
			ID:        uuid.New(),
			Title:     fmt.Sprintf("Document %d", i),
			URL:       fmt.Sprintf("https://example.org/doc/%d", i),
			WebsiteID: websiteID,
		})
	}
	return docs
}

func TestDispatchDocument_Terms(t *testing.T) {
	fx := newFixtures()
	docID := uuid.New()

	err := fx.service().DispatchDocument(context.Background(), docID, PipelineTerms, false)
	require.NoError(t, err)

	require.Len(t, fx.publisher.published, 1)
	msg := fx.publisher.published[0]
	assert.Equal(t, kafka.TopicExtractTerms, msg.Topic)
	assert.Equal(t, docID.String(), string(msg.Key))

	var env kafka.EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, kafka.TopicExtractTerms, env.EventType)
	assert.Equal(t, dispatchSource, env.Source)

	var payload kafka.ExtractTermsPayload
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, docID.String(), payload.DocumentID)
	assert.Equal(t, testTermVersion, payload.Version)
	assert.False(t, payload.Force)
}

func TestDispatchDocument_UnknownPipeline(t *testing.T) {
	fx := newFixtures()

	err := fx.service().DispatchDocument(context.Background(), uuid.New(), "sentiment", false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.Empty(t, fx.publisher.published)
}

func TestDispatchWebsite_ChunksLargeListings(t *testing.T) {
	websiteID := uuid.New()
	fx := newFixtures(websiteDocuments(websiteID, 150)...)

	dispatched, err := fx.service().DispatchWebsite(context.Background(), websiteID, PipelineTerms, false)
	require.NoError(t, err)
	assert.Equal(t, 150, dispatched)

	require.Len(t, fx.publisher.batches, 2)
	assert.Len(t, fx.publisher.batches[0], 100)
	assert.Len(t, fx.publisher.batches[1], 50)
	for _, msg := range fx.publisher.published {
		assert.Equal(t, kafka.TopicExtractTerms, msg.Topic)
	}
}

func TestDispatchWebsite_SkipsDocumentsAtCurrentVersion(t *testing.T) {
	websiteID := uuid.New()
	docs := websiteDocuments(websiteID, 3)
	docs[1].TermVersion = testTermVersion
	fx := newFixtures(docs...)

	dispatched, err := fx.service().DispatchWebsite(context.Background(), websiteID, PipelineTerms, false)
	require.NoError(t, err)
	assert.Equal(t, 2, dispatched)
}

func TestDispatchWebsite_ForceIncludesCurrentVersion(t *testing.T) {
	websiteID := uuid.New()
	docs := websiteDocuments(websiteID, 3)
	docs[1].TermVersion = testTermVersion
	fx := newFixtures(docs...)

	dispatched, err := fx.service().DispatchWebsite(context.Background(), websiteID, PipelineTerms, true)
	require.NoError(t, err)
	assert.Equal(t, 3, dispatched)
}

func TestDispatchWebsite_ObligationsPipeline(t *testing.T) {
	websiteID := uuid.New()
	fx := newFixtures(websiteDocuments(websiteID, 2)...)

	dispatched, err := fx.service().DispatchWebsite(context.Background(), websiteID, PipelineObligations, false)
	require.NoError(t, err)
	assert.Equal(t, 2, dispatched)

	require.Len(t, fx.publisher.published, 2)
	var payload kafka.ExtractObligationsPayload
	var env kafka.EventEnvelope
	require.NoError(t, json.Unmarshal(fx.publisher.published[0].Value, &env))
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, testROVersion, payload.Version)
}

func TestDispatchWebsite_OtherWebsitesUntouched(t *testing.T) {
	websiteID := uuid.New()
	docs := append(websiteDocuments(websiteID, 2), websiteDocuments(uuid.New(), 4)...)
	fx := newFixtures(docs...)

	dispatched, err := fx.service().DispatchWebsite(context.Background(), websiteID, PipelineTerms, false)
	require.NoError(t, err)
	assert.Equal(t, 2, dispatched)
}

//Personal.AI order the ending
