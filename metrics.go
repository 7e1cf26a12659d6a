package mws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type clientMetrics struct {
	requests *prometheus.CounterVec
	retries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// newClientMetrics registers on reg. A nil reg keeps the collectors
// unregistered, which is the default for library users.
func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	f := promauto.With(reg)
	return &clientMetrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mws",
				Name:      "requests_total",
				Help:      "Total MWS API calls by final outcome",
			},
			[]string{"section", "action", "code"},
		),
		retries: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mws",
				Name:      "retries_total",
				Help:      "Total retried MWS API attempts",
			},
			[]string{"section", "action"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mws",
				Name:      "request_duration_seconds",
				Help:      "Latency of MWS API calls including retries",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"section", "action"},
		),
	}
}

// WithMetrics registers the client's collectors on reg.
func WithMetrics(reg prometheus.Registerer) ClientOption {
	return func(c *Client) {
		c.metrics = newClientMetrics(reg)
	}
}
