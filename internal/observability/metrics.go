// Package observability defines the Prometheus metrics exported by pacer.
//
// Metrics are registered against a caller-supplied registerer so tests can
// use an isolated registry; the API server passes the default one and
// serves it on /metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "pacer"

// Metrics holds the counters and histograms for playlist generation.
type Metrics struct {
	// GenerationsTotal counts generation calls by method and status (success, error).
	GenerationsTotal *prometheus.CounterVec

	// GenerationDuration measures selector runtime by method.
	GenerationDuration *prometheus.HistogramVec

	// SkippedIntervalsTotal counts intervals left empty by the greedy selector.
	SkippedIntervalsTotal prometheus.Counter

	// CatalogTracks reports the size of the loaded catalog.
	CatalogTracks prometheus.Gauge

	// PersistDroppedTotal counts playlists dropped because the persistence queue was full.
	PersistDroppedTotal prometheus.Counter
}

// NewMetrics creates and registers all metrics on reg.
// Registering twice on the same registry panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GenerationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "generations_total",
				Help:      "Total playlist generations by method and status",
			},
			[]string{"method", "status"},
		),
		GenerationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "generation_duration_seconds",
				Help:      "Selector runtime in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
			},
			[]string{"method"},
		),
		SkippedIntervalsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "skipped_intervals_total",
			Help:      "Intervals that received no track because the catalog was exhausted",
		}),
		CatalogTracks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "catalog_tracks",
			Help:      "Number of tracks in the loaded catalog",
		}),
		PersistDroppedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "persist_dropped_total",
			Help:      "Generated playlists dropped because the persistence queue was full",
		}),
	}
}

// ObserveGeneration records one generation call. A nil receiver is a no-op.
func (m *Metrics) ObserveGeneration(method string, elapsed time.Duration, skipped int, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.GenerationsTotal.WithLabelValues(method, status).Inc()
	if err != nil {
		return
	}
	m.GenerationDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	if skipped > 0 {
		m.SkippedIntervalsTotal.Add(float64(skipped))
	}
}

// SetCatalogSize records the loaded catalog size. A nil receiver is a no-op.
func (m *Metrics) SetCatalogSize(n int) {
	if m == nil {
		return
	}
	m.CatalogTracks.Set(float64(n))
}

// PersistDropped records a dropped persistence job. A nil receiver is a no-op.
func (m *Metrics) PersistDropped() {
	if m == nil {
		return
	}
	m.PersistDroppedTotal.Inc()
}
