// Package config provides configuration loading, defaults, and validation for
// the RegCat platform.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "regcat"
	DefaultDBMaxConns = 25

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "regcat-extraction"

	DefaultMinIOEndpoint  = "localhost:9000"
	DefaultCASBucket      = "cas-files"
	DefaultDebugCASBucket = "debug-cas-files"
	DefaultROHTMLBucket   = "ro-html-output"

	DefaultOccurrenceIndex = "concept_occurs"
	DefaultDefinitionIndex = "concept_defined"
	DefaultHighlightIndex  = "ro_highlight"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultWorkerConcurrency = 10
	DefaultLeaseTTL          = 30 * time.Minute
	DefaultDispatchChunk     = 100

	DefaultNLPRate     = 4.0
	DefaultNLPBurst    = 2
	DefaultNLPTimeout  = 5 * time.Minute
	DefaultNLPCacheTTL = 15 * time.Minute

	DefaultTermExtractVersion = "tf-idf-1"
	DefaultROExtractVersion   = "ro-1"

	DefaultGraphBaseURI = "http://regcat.local/"
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate().
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}

	// ── OpenSearch ────────────────────────────────────────────────────────────
	if cfg.OpenSearch.OccurrenceIndex == "" {
		cfg.OpenSearch.OccurrenceIndex = DefaultOccurrenceIndex
	}
	if cfg.OpenSearch.DefinitionIndex == "" {
		cfg.OpenSearch.DefinitionIndex = DefaultDefinitionIndex
	}
	if cfg.OpenSearch.HighlightIndex == "" {
		cfg.OpenSearch.HighlightIndex = DefaultHighlightIndex
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.CASBucket == "" {
		cfg.MinIO.CASBucket = DefaultCASBucket
	}
	if cfg.MinIO.DebugCASBucket == "" {
		cfg.MinIO.DebugCASBucket = DefaultDebugCASBucket
	}
	if cfg.MinIO.ROHTMLBucket == "" {
		cfg.MinIO.ROHTMLBucket = DefaultROHTMLBucket
	}

	// ── NLP ───────────────────────────────────────────────────────────────────
	if cfg.NLP.RatePerSecond == 0 {
		cfg.NLP.RatePerSecond = DefaultNLPRate
	}
	if cfg.NLP.Burst == 0 {
		cfg.NLP.Burst = DefaultNLPBurst
	}
	if cfg.NLP.RequestTimeout == 0 {
		cfg.NLP.RequestTimeout = DefaultNLPTimeout
	}
	if cfg.NLP.CacheTTL == 0 {
		cfg.NLP.CacheTTL = DefaultNLPCacheTTL
	}
	if cfg.NLP.TermExtractVersion == "" {
		cfg.NLP.TermExtractVersion = DefaultTermExtractVersion
	}
	if cfg.NLP.ROExtractVersion == "" {
		cfg.NLP.ROExtractVersion = DefaultROExtractVersion
	}

	// ── Graph ─────────────────────────────────────────────────────────────────
	if cfg.Graph.BaseURI == "" {
		cfg.Graph.BaseURI = DefaultGraphBaseURI
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.Mode == "" {
		cfg.Worker.Mode = "local"
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.LeaseTTL == 0 {
		cfg.Worker.LeaseTTL = DefaultLeaseTTL
	}
	if cfg.Worker.DispatchChunkSize == 0 {
		cfg.Worker.DispatchChunkSize = DefaultDispatchChunk
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

//Personal.AI order the ending
