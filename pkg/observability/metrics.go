// Package observability wires application metrics.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the application registers.
type Metrics struct {
	registry *prometheus.Registry

	storageOps     *prometheus.CounterVec
	storageLatency *prometheus.HistogramVec
	httpDuration   *prometheus.HistogramVec
	aggregateDrops *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		storageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "Storage gateway calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		storageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Storage gateway call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
		aggregateDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aggregate_updates_dropped_total",
			Help: "Denormalized counter/rollup updates swallowed after storage failure.",
		}, []string{"kind"}),
	}

	registry.MustRegister(m.storageOps, m.storageLatency, m.httpDuration, m.aggregateDrops)
	return m
}

// ObserveStorageOp records one storage gateway call.
func (m *Metrics) ObserveStorageOp(operation string, ok bool, d time.Duration) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.storageOps.WithLabelValues(operation, outcome).Inc()
	m.storageLatency.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

// AggregateUpdateDropped counts a swallowed aggregate maintenance failure.
// kind is "counter" or "rollup".
func (m *Metrics) AggregateUpdateDropped(kind string) {
	m.aggregateDrops.WithLabelValues(kind).Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
