package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/itpreg/internal/model"
)

// Submission outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeClosed      = "closed"
	OutcomeInFlight    = "in_flight"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Metrics holds all Prometheus metrics for the application
// Each instance owns its registry so parallel tests don't collide.
type Metrics struct {
	registry *prometheus.Registry

	Submissions      *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
	RemoteLatency    prometheus.Histogram
	Status           *prometheus.GaugeVec
	StreamClients    prometheus.Gauge
	HTTPRequests     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itpreg_submissions_total",
			Help: "Registration submissions by outcome",
		}, []string{"outcome"}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itpreg_validation_errors_total",
			Help: "Field validation failures by field",
		}, []string{"field"}),
		RemoteLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "itpreg_remote_request_seconds",
			Help:    "Latency of calls to the remote registration API",
			Buckets: prometheus.DefBuckets,
		}),
		Status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "itpreg_registration_status",
			Help: "1 for the current registration status, 0 otherwise",
		}, []string{"status"}),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "itpreg_countdown_stream_clients",
			Help: "Connected countdown event stream clients",
		}),
		HTTPRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "itpreg_http_request_seconds",
			Help:    "HTTP request latency by surface, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"surface", "method", "status"}),
	}

	reg.MustRegister(m.Submissions, m.ValidationErrors, m.RemoteLatency, m.Status, m.StreamClients, m.HTTPRequests)
	return m
}

// Handler serves the metrics in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSubmission increments the submissions counter for an outcome
func (m *Metrics) RecordSubmission(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

// RecordValidationErrors increments the per-field validation counter
func (m *Metrics) RecordValidationErrors(fields model.FieldErrors) {
	for field := range fields {
		m.ValidationErrors.WithLabelValues(field).Inc()
	}
}

// SetStatus marks the given status as current
func (m *Metrics) SetStatus(status model.Status) {
	for _, s := range []model.Status{model.StatusBefore, model.StatusLive, model.StatusEnded} {
		v := 0.0
		if s == status {
			v = 1
		}
		m.Status.WithLabelValues(string(s)).Set(v)
	}
}

// RequestObserver returns a callback recording request latency for one surface
func (m *Metrics) RequestObserver(surface string) func(method string, status int, d time.Duration) {
	return func(method string, status int, d time.Duration) {
		m.HTTPRequests.WithLabelValues(surface, method, strconv.Itoa(status)).Observe(d.Seconds())
	}
}
