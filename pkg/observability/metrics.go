package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the service, registered on
// its own registry so tests never collide with the default one
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	FamiliesCreated        prometheus.Counter
	MutationsAttached      prometheus.Counter
	Classifications        *prometheus.CounterVec
	ClassificationDuration prometheus.Histogram
	CandidatesScored       prometheus.Histogram

	// Store metrics
	TrackedFamilies prometheus.Gauge
	TrackedNodes    prometheus.Gauge
}

// NewCollector creates the metrics collector. Singleton so repeated DI
// construction in tests does not re-register.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		FamiliesCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "families_created_total",
				Help:      "Total number of misinformation families seeded",
			},
		),
		MutationsAttached: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_attached_total",
				Help:      "Total number of variants attached to families",
			},
		),
		Classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifications_total",
				Help:      "Total number of classification decisions",
			},
			[]string{"decision"},
		),
		ClassificationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "classification_duration_seconds",
				Help:      "Classification latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		CandidatesScored: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "classification_candidates_scored",
				Help:      "Candidates scored per classification",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
			},
		),
		TrackedFamilies: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tracked_families",
				Help:      "Families currently held by the store",
			},
		),
		TrackedNodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tracked_nodes",
				Help:      "Nodes currently held by the store",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.FamiliesCreated,
		c.MutationsAttached,
		c.Classifications,
		c.ClassificationDuration,
		c.CandidatesScored,
		c.TrackedFamilies,
		c.TrackedNodes,
	)

	globalCollector = c
	return c
}

// Handler exposes the collector's registry for scraping
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
