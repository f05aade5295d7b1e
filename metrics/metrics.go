// Package metrics defines the Prometheus collectors for the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Projection sources, used as the "source" label.
const (
	SourceProperty  = "property"
	SourceStateless = "stateless"
	SourceSnapshot  = "snapshot"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Projection metrics
	ProjectionsTotal   *prometheus.CounterVec
	ProjectionDuration prometheus.Histogram
	ProjectionYears    prometheus.Histogram
	ProjectionSources  prometheus.Histogram

	// Snapshot metrics
	SnapshotsTaken *prometheus.CounterVec
	SnapshotErrors prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates all metrics and registers them with reg. Pass
// prometheus.NewRegistry() in tests to keep registrations isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ProjectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depreciation_projections_total",
				Help: "Total projections computed by source",
			},
			[]string{"source"},
		),
		ProjectionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "depreciation_projection_duration_seconds",
			Help:    "Duration of projection calculations",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		ProjectionYears: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "depreciation_projection_years",
			Help:    "Number of financial years per projection",
			Buckets: []float64{1, 5, 10, 20, 40, 100},
		}),
		ProjectionSources: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "depreciation_projection_sources",
			Help:    "Number of assets and capital works per projection",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		}),

		SnapshotsTaken: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depreciation_snapshots_total",
				Help: "Total projection snapshots stored by reason",
			},
			[]string{"reason"},
		),
		SnapshotErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "depreciation_snapshot_errors_total",
			Help: "Total snapshot refresh failures",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depreciation_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "depreciation_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "depreciation_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
	}
}

// ObserveProjection records one completed projection.
func (m *Metrics) ObserveProjection(source string, years, sources int, elapsed time.Duration) {
	m.ProjectionsTotal.WithLabelValues(source).Inc()
	m.ProjectionDuration.Observe(elapsed.Seconds())
	m.ProjectionYears.Observe(float64(years))
	m.ProjectionSources.Observe(float64(sources))
}
