// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
)

// Recorder is the metrics surface used by services and middleware.
type Recorder interface {
	RecordAuth(operation, outcome string)
	RecordGateRejection(code string)
	ObserveHTTP(method, route string, status int, duration time.Duration)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	authOperations *prometheus.CounterVec
	gateRejections *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_auth_operations_total",
			Help: "Auth service operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		gateRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_gate_rejections_total",
			Help: "Requests rejected by the authentication or role gate, by error code.",
		}, []string{"code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubhub_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(c.authOperations, c.gateRejections, c.httpDuration)
	return c
}

// RecordAuth counts one auth operation outcome.
func (c *Collector) RecordAuth(operation, outcome string) {
	c.authOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordGateRejection counts one rejected request.
func (c *Collector) RecordGateRejection(code string) {
	c.gateRejections.WithLabelValues(code).Inc()
}

// ObserveHTTP records request latency.
func (c *Collector) ObserveHTTP(method, route string, status int, duration time.Duration) {
	c.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordAuth(string, string)                      {}
func (Nop) RecordGateRejection(string)                     {}
func (Nop) ObserveHTTP(string, string, int, time.Duration) {}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
