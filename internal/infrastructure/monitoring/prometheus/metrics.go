package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPRequestSize     HistogramVec
	HTTPResponseSize    HistogramVec
	HTTPActiveRequests  GaugeVec

	// Extraction pipeline
	ExtractionJobsTotal    CounterVec
	ExtractionJobDuration  HistogramVec
	ExtractionJobRetries   CounterVec
	ExtractionSkippedTotal CounterVec
	ExtractionLeaseDenied  CounterVec
	DocumentsDispatched    CounterVec

	// NLP services
	NLPRequestsTotal    CounterVec
	NLPRequestDuration  HistogramVec
	NLPCacheHitsTotal   CounterVec
	NLPCacheMissesTotal CounterVec

	// Annotation output
	ConceptsUpserted     CounterVec
	OccurrencesIndexed   CounterVec
	ObligationsExtracted CounterVec

	// Obligation graph
	GraphNodesTotal    GaugeVec
	GraphQueryDuration HistogramVec
	GraphWriteDuration HistogramVec

	// Infrastructure Layer
	DBConnectionPoolSize   GaugeVec
	DBConnectionPoolActive GaugeVec
	DBQueryDuration        HistogramVec
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	MessageQueueDepth      GaugeVec
	MessageProcessDuration HistogramVec
	ObjectStoreDuration    HistogramVec

	// System Health
	ServiceUptime     GaugeVec
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets       = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultExtractionDurationBuckets = []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600}
	DefaultNLPDurationBuckets        = []float64{.5, 1, 2, 5, 10, 30, 60, 120}
	DefaultSizeBuckets               = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
	DefaultDBDurationBuckets         = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPRequestSize = collector.RegisterHistogram("http_request_size_bytes", "HTTP request size", DefaultSizeBuckets, "method", "path")
	m.HTTPResponseSize = collector.RegisterHistogram("http_response_size_bytes", "HTTP response size", DefaultSizeBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Extraction pipeline
	m.ExtractionJobsTotal = collector.RegisterCounter("extraction_jobs_total", "Extraction jobs processed", "pipeline", "status")
	m.ExtractionJobDuration = collector.RegisterHistogram("extraction_job_duration_seconds", "Extraction job duration", DefaultExtractionDurationBuckets, "pipeline")
	m.ExtractionJobRetries = collector.RegisterCounter("extraction_job_retries_total", "Extraction job retries", "pipeline", "reason")
	m.ExtractionSkippedTotal = collector.RegisterCounter("extraction_skipped_total", "Jobs skipped because the document is already at the current model version", "pipeline")
	m.ExtractionLeaseDenied = collector.RegisterCounter("extraction_lease_denied_total", "Jobs dropped because another worker holds the document lease", "pipeline")
	m.DocumentsDispatched = collector.RegisterCounter("documents_dispatched_total", "Documents queued for extraction", "pipeline", "origin")

	// NLP services
	m.NLPRequestsTotal = collector.RegisterCounter("nlp_requests_total", "Outbound NLP service calls", "service", "status")
	m.NLPRequestDuration = collector.RegisterHistogram("nlp_request_duration_seconds", "NLP service call duration", DefaultNLPDurationBuckets, "service")
	m.NLPCacheHitsTotal = collector.RegisterCounter("nlp_cache_hits_total", "NLP response cache hits", "service")
	m.NLPCacheMissesTotal = collector.RegisterCounter("nlp_cache_misses_total", "NLP response cache misses", "service")

	// Annotation output
	m.ConceptsUpserted = collector.RegisterCounter("concepts_upserted_total", "Concepts written to the glossary", "source")
	m.OccurrencesIndexed = collector.RegisterCounter("occurrences_indexed_total", "Annotation spans pushed to the search index", "index")
	m.ObligationsExtracted = collector.RegisterCounter("obligations_extracted_total", "Reporting obligations persisted", "status")

	// Obligation graph
	m.GraphNodesTotal = collector.RegisterGauge("graph_nodes_total", "Obligation graph nodes", "node_type")
	m.GraphQueryDuration = collector.RegisterHistogram("graph_query_duration_seconds", "Graph query duration", DefaultDBDurationBuckets, "query_type")
	m.GraphWriteDuration = collector.RegisterHistogram("graph_write_duration_seconds", "Graph write duration", DefaultDBDurationBuckets, "operation")

	// Infrastructure
	m.DBConnectionPoolSize = collector.RegisterGauge("db_pool_size", "Database connection pool size", "db")
	m.DBConnectionPoolActive = collector.RegisterGauge("db_pool_active", "Database active connections", "db")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.MessageQueueDepth = collector.RegisterGauge("mq_depth", "Message queue depth", "queue")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultHTTPDurationBuckets, "queue", "message_type")
	m.ObjectStoreDuration = collector.RegisterHistogram("object_store_duration_seconds", "Object store call duration", DefaultDBDurationBuckets, "bucket", "operation")

	// System Health
	m.ServiceUptime = collector.RegisterGauge("service_uptime_seconds", "Service uptime", "service")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type", "severity")

	return m
}

// RegisterAppMetrics is an alias for NewAppMetrics.
func RegisterAppMetrics(collector MetricsCollector) *AppMetrics {
	return NewAppMetrics(collector)
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration, reqSize, respSize int64) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	metrics.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

func RecordExtractionJob(metrics *AppMetrics, pipeline string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.ExtractionJobsTotal.WithLabelValues(pipeline, status).Inc()
	metrics.ExtractionJobDuration.WithLabelValues(pipeline).Observe(duration.Seconds())
}

func RecordNLPCall(metrics *AppMetrics, service string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	metrics.NLPRequestsTotal.WithLabelValues(service, status).Inc()
	metrics.NLPRequestDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func RecordDBQuery(metrics *AppMetrics, db, operation string, duration time.Duration, err error) {
	metrics.DBQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(db, "query_error", "error").Inc()
	}
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordError(metrics *AppMetrics, component, errorType, severity string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType, severity).Inc()
}

//Personal.AI order the ending
