package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
)

type mockKafkaConn struct {
	createFunc func(topics ...kafka.TopicConfig) error
	deleteFunc func(topics ...string) error
	readFunc   func(topics ...string) ([]kafka.Partition, error)
	closeFunc  func() error
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createFunc != nil {
		return m.createFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) DeleteTopics(topics ...string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, nil
}

func (m *mockKafkaConn) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func TestDefaultTopics_CoverDispatchSurface(t *testing.T) {
	defaults := DefaultTopics()
	assert.Len(t, defaults, 5)

	names := make([]string, len(defaults))
	for i, cfg := range defaults {
		names[i] = cfg.Name
	}
	assert.Contains(t, names, TopicExtractTerms)
	assert.Contains(t, names, TopicExtractObligations)
	assert.Contains(t, names, TopicDeadLetterDefault)
}

func TestTopicManager_CreateTopic(t *testing.T) {
	var created []kafka.TopicConfig
	conn := &mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			created = append(created, topics...)
			return nil
		},
	}
	m := NewTopicManagerWithConn(conn, logging.NewNopLogger())

	err := m.CreateTopic(context.Background(), TopicConfig{
		Name:              TopicExtractTerms,
		NumPartitions:     6,
		ReplicationFactor: 3,
		RetentionMs:       1000,
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, TopicExtractTerms, created[0].Topic)
	assert.Equal(t, 6, created[0].NumPartitions)
	require.Len(t, created[0].ConfigEntries, 1)
	assert.Equal(t, "retention.ms", created[0].ConfigEntries[0].ConfigName)
}

func TestTopicManager_CreateTopic_Validation(t *testing.T) {
	m := NewTopicManagerWithConn(&mockKafkaConn{}, logging.NewNopLogger())
	ctx := context.Background()

	assert.Error(t, m.CreateTopic(ctx, TopicConfig{NumPartitions: 1, ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "x", ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "x", NumPartitions: 1}))
}

func TestTopicManager_ListTopics_Deduplicates(t *testing.T) {
	conn := &mockKafkaConn{
		readFunc: func(topics ...string) ([]kafka.Partition, error) {
			return []kafka.Partition{
				{Topic: TopicExtractTerms, ID: 0},
				{Topic: TopicExtractTerms, ID: 1},
				{Topic: TopicDocumentIngested, ID: 0},
			}, nil
		},
	}
	m := NewTopicManagerWithConn(conn, logging.NewNopLogger())

	topics, err := m.ListTopics(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{TopicExtractTerms, TopicDocumentIngested}, topics)
}

func TestEventEnvelope_RoundTrip(t *testing.T) {
	env, err := NewEventEnvelope(TopicExtractObligations, "dispatcher", ExtractObligationsPayload{
		DocumentID: "doc-9",
		Version:    "ro-1.2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)

	msg, err := env.ToMessage(TopicExtractObligations)
	require.NoError(t, err)
	assert.Equal(t, []byte("doc-9"), msg.Key)
	assert.Equal(t, TopicExtractObligations, msg.Headers["event_type"])

	decoded, err := MessageToEventEnvelope(&Message{Topic: msg.Topic, Value: msg.Value})
	require.NoError(t, err)

	var payload ExtractObligationsPayload
	require.NoError(t, decoded.DecodePayload(&payload))
	assert.Equal(t, "doc-9", payload.DocumentID)
	assert.Equal(t, "ro-1.2", payload.Version)
}

func TestMessageToEventEnvelope_Empty(t *testing.T) {
	_, err := MessageToEventEnvelope(&Message{})
	assert.Error(t, err)
}

//Personal.AI order the ending
