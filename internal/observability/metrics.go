package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the padding service.
type Metrics struct {
	Requests        *prometheus.CounterVec   // labels: outcome={ok,invalid_input,geocode_error,upstream_error,storage_error,aborted,error}
	CacheLookups    *prometheus.CounterVec   // labels: result={hit,miss}
	Resolutions     *prometheus.CounterVec   // labels: outcome={ok,geocode_error,upstream_error}
	ResolveDuration prometheus.Histogram     // full geocode + tag lookup
	UpstreamLatency *prometheus.HistogramVec // labels: service={geocoder,tags}
	VerticalPad     prometheus.Histogram
	RunsLogged      prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Requests,
		m.CacheLookups,
		m.Resolutions,
		m.ResolveDuration,
		m.UpstreamLatency,
		m.VerticalPad,
		m.RunsLogged,
	)
	return m
}

// NewUnregisteredMetrics creates metrics that are not registered anywhere, for
// tests and one-shot commands that may build several per process.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "padstop",
			Name:      "requests_total",
			Help:      "Padding requests by outcome.",
		}, []string{"outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "padstop",
			Name:      "building_cache_lookups_total",
			Help:      "Building metadata cache lookups by result.",
		}, []string{"result"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "padstop",
			Name:      "building_resolutions_total",
			Help:      "Building metadata resolutions by outcome.",
		}, []string{"outcome"}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "padstop",
			Name:      "building_resolve_duration_seconds",
			Help:      "Duration of a geocode plus building tag lookup.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "padstop",
			Name:      "upstream_request_duration_seconds",
			Help:      "Outbound request duration by upstream service.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"service"}),
		VerticalPad: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "padstop",
			Name:      "vertical_pad_seconds",
			Help:      "Computed vertical padding.",
			Buckets:   []float64{60, 90, 120, 180, 240, 360, 600, 1200},
		}),
		RunsLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "padstop",
			Name:      "runs_logged_total",
			Help:      "Padding runs appended to the run log.",
		}),
	}
}
