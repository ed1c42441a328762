// Package kafka carries the extraction dispatch traffic: the scraper
// announces new documents, the dispatcher fans per-document extraction jobs
// out to workers, and failures land on a dead letter topic.
package kafka

import (
	"context"
	"time"
)

// Message is a consumed record, decoupled from the kafka-go wire type.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// ProducerMessage is a record to publish.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Partition int
	Timestamp time.Time
}

// MessageHandler processes one consumed record.  A non-nil error triggers
// the consumer's retry and dead-letter path.
type MessageHandler func(ctx context.Context, msg *Message) error

// BatchPublishResult reports per-record outcomes of a batch publish.
type BatchPublishResult struct {
	Succeeded int
	Failed    int
	Errors    []BatchItemError
}

// BatchItemError is one failed record in a batch.  Index -1 means the whole
// batch failed before per-record errors were available.
type BatchItemError struct {
	Index int
	Topic string
	Error error
}

// TopicConfig describes a topic to ensure at startup.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
	CleanupPolicy     string
	MaxMessageBytes   int
	Configs           map[string]string
}

//Personal.AI order the ending
