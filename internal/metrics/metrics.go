// Package metrics provides Prometheus collectors for the proxy.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "promptproxy"

// Downstream outcomes recorded by the forwarder.
const (
	OutcomeSuccess   = "success"
	OutcomeTimeout   = "timeout"
	OutcomeSpawn     = "spawn_error"
	OutcomeExit      = "exit_error"
	OutcomeUpstream  = "upstream_error"
	OutcomeTransport = "transport_error"
	OutcomeDecode    = "decode_error"
	OutcomeConfig    = "config_error"
	OutcomeInternal  = "internal_error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method and status code",
		},
		[]string{"method", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{0.01, 0.05, 0.25, 1, 2.5, 5, 10, 30, 60, 120, 180},
		},
		[]string{"method"},
	)

	downstreamCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "downstream",
			Name:      "calls_total",
			Help:      "Downstream invocations by invoker and outcome",
		},
		[]string{"invoker", "outcome"},
	)

	downstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "downstream",
			Name:      "duration_seconds",
			Help:      "Wall-clock time spent waiting on the downstream",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"invoker"},
	)

	downstreamInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "downstream",
			Name:      "in_flight",
			Help:      "Downstream calls currently running",
		},
		[]string{"invoker"},
	)

	promptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "downstream",
			Name:      "prompt_tokens",
			Help:      "Estimated prompt size in tokens",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		},
		[]string{"invoker"},
	)

	authFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Rejected bearer tokens by reason",
		},
		[]string{"reason"},
	)
)

// ObserveHTTP records one finished HTTP request.
func ObserveHTTP(method string, code int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// DownstreamStarted marks a call in flight and returns a func that records
// its outcome and duration.
func DownstreamStarted(invoker string) func(outcome string) {
	start := time.Now()
	downstreamInFlight.WithLabelValues(invoker).Inc()
	return func(outcome string) {
		downstreamInFlight.WithLabelValues(invoker).Dec()
		downstreamCalls.WithLabelValues(invoker, outcome).Inc()
		downstreamDuration.WithLabelValues(invoker).Observe(time.Since(start).Seconds())
	}
}

// ObservePromptTokens records a prompt token estimate.
func ObservePromptTokens(invoker string, tokens int) {
	promptTokens.WithLabelValues(invoker).Observe(float64(tokens))
}

// AuthFailure counts a rejected bearer token.
func AuthFailure(reason string) {
	authFailures.WithLabelValues(reason).Inc()
}

// DownstreamCalls exposes the outcome counter for tests.
func DownstreamCalls() *prometheus.CounterVec {
	return downstreamCalls
}

// AuthFailures exposes the auth failure counter for tests.
func AuthFailures() *prometheus.CounterVec {
	return authFailures
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
