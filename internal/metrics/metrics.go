// Package metrics provides Prometheus metrics for the Splunk connector.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "splunk_connector"

	// ResultSuccess labels a connection attempt that produced a session
	ResultSuccess = "success"
	// ResultFailure labels a connection attempt that did not
	ResultFailure = "failure"
)

// Metrics holds the connector collectors and the registry they are registered with
type Metrics struct {
	registry *prometheus.Registry

	// ConnectionAttempts tracks connection attempts by result
	ConnectionAttempts *prometheus.CounterVec
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ConnectionAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connection_attempts_total",
				Help:      "Total number of Splunk connection attempts",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(m.ConnectionAttempts)
	return m
}

// ObserveConnection counts one connection attempt
func (m *Metrics) ObserveConnection(err error) {
	if m == nil {
		return
	}

	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.ConnectionAttempts.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
