// Package metrics exports dispatcher and upstream call metrics in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "serena_mcp"

// Exporter records function calls and upstream requests on a private registry.
type Exporter struct {
	registry *prometheus.Registry

	calls       *prometheus.CounterVec
	callLatency *prometheus.HistogramVec
	inFlight    prometheus.Gauge

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
}

// Config configures the exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns the default exporter configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}
}

// New creates an exporter and registers its collectors.
func New(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{registry: registry}

	e.calls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "calls_total",
			Help:      "Total number of function calls by outcome",
		},
		[]string{"function", "outcome"},
	)

	e.callLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "call_duration_seconds",
			Help:      "Function call latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"function"},
	)

	e.inFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "calls_in_flight",
			Help:      "Number of function calls currently executing",
		},
	)

	e.upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of upstream API requests by status code",
		},
		[]string{"target", "method", "code"},
	)

	e.upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Upstream API request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"target"},
	)

	registry.MustRegister(
		e.calls,
		e.callLatency,
		e.inFlight,
		e.upstreamRequests,
		e.upstreamLatency,
	)

	return e
}

// CallStarted marks a function call as in flight. Pair with ObserveCall.
func (e *Exporter) CallStarted() {
	e.inFlight.Inc()
}

// ObserveCall records the outcome of a finished function call.
func (e *Exporter) ObserveCall(function, outcome string, elapsed time.Duration) {
	e.inFlight.Dec()
	e.calls.WithLabelValues(function, outcome).Inc()
	e.callLatency.WithLabelValues(function).Observe(elapsed.Seconds())
}

// ObserveUpstream records an upstream request. A zero status is exported as "error".
func (e *Exporter) ObserveUpstream(target, method string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	e.upstreamRequests.WithLabelValues(target, method, code).Inc()
	e.upstreamLatency.WithLabelValues(target).Observe(elapsed.Seconds())
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}
