package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the odds pipeline.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	EventsTotal     *prometheus.CounterVec
	RecordsTotal    *prometheus.CounterVec
	SkippedTotal    *prometheus.CounterVec
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odds_requests_total",
			Help: "Total HTTP requests issued, by source.",
		},
		[]string{"source"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "odds_request_duration_seconds",
			Help:    "HTTP request latency for odds sources.",
			Buckets: prometheus.DefBuckets,
		},
	)
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odds_events_discovered_total",
			Help: "Total events discovered, by provider.",
		},
		[]string{"provider"},
	)
	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odds_records_total",
			Help: "Total odds records extracted, by source.",
		},
		[]string{"source"},
	)
	skipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odds_skipped_total",
			Help: "Total payload elements skipped, by reason.",
		},
		[]string{"reason"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odds_errors_total",
			Help: "Total source errors, by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, events, records, skipped, errorsTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		EventsTotal:     events,
		RecordsTotal:    records,
		SkippedTotal:    skipped,
		ErrorsTotal:     errorsTotal,
	}
}

// IncRequest increments the requests counter for a source.
func (m *Metrics) IncRequest(source string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(source).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// AddEvents adds discovered events for a provider.
func (m *Metrics) AddEvents(provider string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.EventsTotal.WithLabelValues(provider).Add(float64(n))
}

// AddRecords adds extracted records for a source.
func (m *Metrics) AddRecords(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RecordsTotal.WithLabelValues(source).Add(float64(n))
}

// IncSkip increments the skip counter for a reason.
func (m *Metrics) IncSkip(reason string) {
	if m == nil {
		return
	}
	m.SkippedTotal.WithLabelValues(reason).Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
