package prometheus

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
)

// MetricsCollector owns a private Prometheus registry and hands out typed
// metric vectors. Both the API server and the extraction worker build one at
// startup and expose it through Handler on their scrape endpoint.
//
// Registration never fails at the call site: a name collision or type clash
// is logged and the caller receives a no-op vector, so instrumented code
// paths stay free of error handling.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	RegisterSummary(name, help string, objectives map[float64]float64, labels ...string) SummaryVec
	Handler() http.Handler
	MustRegister(collectors ...prometheus.Collector)
	Unregister(collector prometheus.Collector) bool
}

// CounterVec is a labelled family of monotonic counters.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
	With(labels map[string]string) Counter
}

// Counter only ever goes up.
type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec is a labelled family of gauges.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
	With(labels map[string]string) Gauge
}

// Gauge is a value that moves in both directions, such as pool sizes or
// in-flight job counts.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
	Add(delta float64)
	Sub(delta float64)
}

// HistogramVec is a labelled family of histograms.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
	With(labels map[string]string) Histogram
}

// Histogram records observations into fixed buckets.
type Histogram interface {
	Observe(value float64)
}

// SummaryVec is a labelled family of summaries.
type SummaryVec interface {
	WithLabelValues(lvs ...string) Summary
	With(labels map[string]string) Summary
}

// Summary records observations against quantile objectives.
type Summary interface {
	Observe(value float64)
}

// CollectorConfig controls naming and which runtime collectors get attached.
// Namespace is mandatory; Subsystem distinguishes the apiserver and worker
// binaries within one deployment.
type CollectorConfig struct {
	Namespace               string
	Subsystem               string
	EnableProcessMetrics    bool
	EnableGoMetrics         bool
	DefaultHistogramBuckets []float64
	ConstLabels             map[string]string
}

type collector struct {
	registry *prometheus.Registry
	cfg      CollectorConfig

	mu     sync.RWMutex
	byName map[string]prometheus.Collector

	logger logging.Logger
}

// NewMetricsCollector builds a collector around a fresh registry, optionally
// seeded with the process and Go runtime collectors.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	if cfg.DefaultHistogramBuckets == nil {
		cfg.DefaultHistogramBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	}

	reg := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{
			Namespace: cfg.Namespace,
		}))
	}
	if cfg.EnableGoMetrics {
		reg.MustRegister(prometheus.NewGoCollector())
	}

	return &collector{
		registry: reg,
		cfg:      cfg,
		byName:   make(map[string]prometheus.Collector),
		logger:   logger,
	}, nil
}

// Handler serves the scrape endpoint for this collector's registry only, so
// metrics registered elsewhere in the process never leak in.
func (c *collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

func (c *collector) MustRegister(collectors ...prometheus.Collector) {
	c.registry.MustRegister(collectors...)
}

func (c *collector) Unregister(col prometheus.Collector) bool {
	return c.registry.Unregister(col)
}

// registerOnce registers the candidate under its fully qualified name, or
// returns the collector already stored there. Registering the same metric
// from two call sites is therefore safe and yields a shared vector.
func (c *collector) registerOnce(name string, candidate prometheus.Collector) (prometheus.Collector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fqName := prometheus.BuildFQName(c.cfg.Namespace, c.cfg.Subsystem, name)
	if prior, ok := c.byName[fqName]; ok {
		return prior, nil
	}
	if err := c.registry.Register(candidate); err != nil {
		return nil, err
	}
	c.byName[fqName] = candidate
	return candidate, nil
}

func (c *collector) opts(name, help string) prometheus.Opts {
	return prometheus.Opts{
		Namespace:   c.cfg.Namespace,
		Subsystem:   c.cfg.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.cfg.ConstLabels,
	}
}

func (c *collector) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts(c.opts(name, help)), labels)

	got, err := c.registerOnce(name, vec)
	if err != nil {
		c.logger.Error("counter registration failed", logging.String("name", name), logging.Err(err))
		return nopCounterVec{}
	}
	cv, ok := got.(*prometheus.CounterVec)
	if !ok {
		c.logger.Warn("metric already registered with a different type",
			logging.String("name", name), logging.String("wanted", "counter"))
		return nopCounterVec{}
	}
	return counterVec{vec: cv}
}

func (c *collector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts(c.opts(name, help)), labels)

	got, err := c.registerOnce(name, vec)
	if err != nil {
		c.logger.Error("gauge registration failed", logging.String("name", name), logging.Err(err))
		return nopGaugeVec{}
	}
	gv, ok := got.(*prometheus.GaugeVec)
	if !ok {
		c.logger.Warn("metric already registered with a different type",
			logging.String("name", name), logging.String("wanted", "gauge"))
		return nopGaugeVec{}
	}
	return gaugeVec{vec: gv}
}

func (c *collector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = c.cfg.DefaultHistogramBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   c.cfg.Namespace,
		Subsystem:   c.cfg.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.cfg.ConstLabels,
		Buckets:     buckets,
	}, labels)

	got, err := c.registerOnce(name, vec)
	if err != nil {
		c.logger.Error("histogram registration failed", logging.String("name", name), logging.Err(err))
		return nopHistogramVec{}
	}
	hv, ok := got.(*prometheus.HistogramVec)
	if !ok {
		c.logger.Warn("metric already registered with a different type",
			logging.String("name", name), logging.String("wanted", "histogram"))
		return nopHistogramVec{}
	}
	return histogramVec{vec: hv}
}

func (c *collector) RegisterSummary(name, help string, objectives map[float64]float64, labels ...string) SummaryVec {
	if objectives == nil {
		objectives = map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001}
	}
	vec := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:   c.cfg.Namespace,
		Subsystem:   c.cfg.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.cfg.ConstLabels,
		Objectives:  objectives,
	}, labels)

	got, err := c.registerOnce(name, vec)
	if err != nil {
		c.logger.Error("summary registration failed", logging.String("name", name), logging.Err(err))
		return nopSummaryVec{}
	}
	sv, ok := got.(*prometheus.SummaryVec)
	if !ok {
		c.logger.Warn("metric already registered with a different type",
			logging.String("name", name), logging.String("wanted", "summary"))
		return nopSummaryVec{}
	}
	return summaryVec{vec: sv}
}

// Live wrappers over client_golang vectors.

type counterVec struct{ vec *prometheus.CounterVec }

func (v counterVec) WithLabelValues(lvs ...string) Counter {
	return counter{v.vec.WithLabelValues(lvs...)}
}
func (v counterVec) With(labels map[string]string) Counter { return counter{v.vec.With(labels)} }

type counter struct{ c prometheus.Counter }

func (c counter) Inc()              { c.c.Inc() }
func (c counter) Add(delta float64) { c.c.Add(delta) }

type gaugeVec struct{ vec *prometheus.GaugeVec }

func (v gaugeVec) WithLabelValues(lvs ...string) Gauge { return gauge{v.vec.WithLabelValues(lvs...)} }
func (v gaugeVec) With(labels map[string]string) Gauge { return gauge{v.vec.With(labels)} }

type gauge struct{ g prometheus.Gauge }

func (g gauge) Set(value float64) { g.g.Set(value) }
func (g gauge) Inc()              { g.g.Inc() }
func (g gauge) Dec()              { g.g.Dec() }
func (g gauge) Add(delta float64) { g.g.Add(delta) }
func (g gauge) Sub(delta float64) { g.g.Sub(delta) }

type histogramVec struct{ vec *prometheus.HistogramVec }

func (v histogramVec) WithLabelValues(lvs ...string) Histogram {
	return observer{v.vec.WithLabelValues(lvs...)}
}
func (v histogramVec) With(labels map[string]string) Histogram { return observer{v.vec.With(labels)} }

type summaryVec struct{ vec *prometheus.SummaryVec }

func (v summaryVec) WithLabelValues(lvs ...string) Summary {
	return observer{v.vec.WithLabelValues(lvs...)}
}
func (v summaryVec) With(labels map[string]string) Summary { return observer{v.vec.With(labels)} }

// observer serves both Histogram and Summary since each only needs Observe.
type observer struct{ o prometheus.Observer }

func (o observer) Observe(value float64) { o.o.Observe(value) }

// No-op fallbacks handed out when registration fails.

type nopCounterVec struct{}

func (nopCounterVec) WithLabelValues(...string) Counter { return nopMetric{} }
func (nopCounterVec) With(map[string]string) Counter    { return nopMetric{} }

type nopGaugeVec struct{}

func (nopGaugeVec) WithLabelValues(...string) Gauge { return nopMetric{} }
func (nopGaugeVec) With(map[string]string) Gauge    { return nopMetric{} }

type nopHistogramVec struct{}

func (nopHistogramVec) WithLabelValues(...string) Histogram { return nopMetric{} }
func (nopHistogramVec) With(map[string]string) Histogram    { return nopMetric{} }

type nopSummaryVec struct{}

func (nopSummaryVec) WithLabelValues(...string) Summary { return nopMetric{} }
func (nopSummaryVec) With(map[string]string) Summary    { return nopMetric{} }

// nopMetric satisfies every scalar metric interface and discards all input.
type nopMetric struct{}

func (nopMetric) Inc()            {}
func (nopMetric) Dec()            {}
func (nopMetric) Add(float64)     {}
func (nopMetric) Sub(float64)     {}
func (nopMetric) Set(float64)     {}
func (nopMetric) Observe(float64) {}

// Timer measures elapsed wall time into a histogram.
type Timer struct {
	histogram Histogram
	start     time.Time
}

// NewTimer starts measuring immediately. ObserveDuration records the elapsed
// seconds; a nil histogram makes it a no-op.
func NewTimer(histogram Histogram) *Timer {
	return &Timer{histogram: histogram, start: time.Now()}
}

func (t *Timer) ObserveDuration() {
	if t.histogram == nil {
		return
	}
	t.histogram.Observe(time.Since(t.start).Seconds())
}

//Personal.AI order the ending
