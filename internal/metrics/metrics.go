// Package metrics holds the Prometheus collectors the server exposes on
// /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the application's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	InstancesGenerated  prometheus.Counter
	ExpansionsTruncated prometheus.Counter
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		InstancesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chorecal",
			Name:      "instances_generated_total",
			Help:      "Chore instances produced by recurrence expansion.",
		}),
		ExpansionsTruncated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chorecal",
			Name:      "expansions_truncated_total",
			Help:      "Expansions that stopped at the instance cap before their end bound.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chorecal",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chorecal",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.InstancesGenerated, m.ExpansionsTruncated, m.HTTPRequests, m.HTTPDuration)
	return m
}

// ObserveExpansion records the outcome of one expansion.
func (m *Metrics) ObserveExpansion(generated int, truncated bool) {
	if m == nil {
		return
	}
	m.InstancesGenerated.Add(float64(generated))
	if truncated {
		m.ExpansionsTruncated.Inc()
	}
}

// ObserveRequest records a finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
