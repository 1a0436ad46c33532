package adapters

import (
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/prometheus/client_golang/prometheus"

	"turbo-ncu/internal/ports"
)

// PrometheusMetrics records one run's metrics on a private registry. The
// CLI exports it as a node-exporter textfile when asked to.
type PrometheusMetrics struct {
	Registry *prometheus.Registry

	registryRequests *prometheus.CounterVec
	registryRetries  prometheus.Counter
	cacheLookups     *prometheus.CounterVec
	fetchDuration    prometheus.Histogram
	totalDuration    prometheus.Histogram
}

func NewPrometheusMetrics() *PrometheusMetrics {
	m := &PrometheusMetrics{
		Registry: prometheus.NewRegistry(),
		registryRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turbo_ncu_registry_requests_total",
				Help: "Number of registry HTTP attempts by outcome.",
			},
			[]string{"outcome"},
		),
		registryRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "turbo_ncu_registry_retries_total",
				Help: "Number of registry attempts made after a failure.",
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turbo_ncu_cache_lookups_total",
				Help: "Number of cache lookups by result.",
			},
			[]string{"result"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "turbo_ncu_fetch_duration_seconds",
				Help:    "Time spent fetching cache misses from the registry.",
				Buckets: prometheus.DefBuckets,
			},
		),
		totalDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "turbo_ncu_resolution_duration_seconds",
				Help:    "Time taken by a full resolution batch.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	m.Registry.MustRegister(
		m.registryRequests,
		m.registryRetries,
		m.cacheLookups,
		m.fetchDuration,
		m.totalDuration,
	)
	return m
}

func (m *PrometheusMetrics) RegistryRequest(outcome string) {
	m.registryRequests.WithLabelValues(outcome).Inc()
}

func (m *PrometheusMetrics) RegistryRetry() {
	m.registryRetries.Inc()
}

func (m *PrometheusMetrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *PrometheusMetrics) ObserveFetchDuration(d time.Duration) {
	m.fetchDuration.Observe(d.Seconds())
}

func (m *PrometheusMetrics) ObserveTotalDuration(d time.Duration) {
	m.totalDuration.Observe(d.Seconds())
}

// WriteTextfile writes the registry in the text exposition format.
func (m *PrometheusMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write metrics file %s", path)).
			WithCause(err)
	}
	return nil
}

var _ ports.MetricsPort = (*PrometheusMetrics)(nil)
