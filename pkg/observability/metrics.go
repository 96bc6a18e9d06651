package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Render outcomes used as the "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeInputError   = "input_error"
	OutcomeRenderError  = "render_error"
	OutcomePersistError = "persist_error"
)

// Metrics holds the Prometheus collectors for rendering and the HTTP API.
type Metrics struct {
	Renders        *prometheus.CounterVec // labels: outcome
	RenderDuration prometheus.Histogram
	ShapesEmitted  prometheus.Histogram
	ParticlesDrawn prometheus.Histogram
	HTTPRequests   *prometheus.CounterVec // labels: route, code
}

func newMetrics() *Metrics {
	return &Metrics{
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherart",
			Name:      "renders_total",
			Help:      "Render attempts by outcome.",
		}, []string{"outcome"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weatherart",
			Name:      "render_duration_seconds",
			Help:      "Wall time of a complete render, persistence excluded.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ShapesEmitted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weatherart",
			Name:      "shapes_emitted",
			Help:      "Shapes drawn per render.",
			Buckets:   []float64{0, 500, 1000, 1500, 2000, 3000, 5000, 10000, 40000},
		}),
		ParticlesDrawn: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weatherart",
			Name:      "particles_drawn",
			Help:      "Rain particles drawn per render.",
			Buckets:   []float64{0, 100, 250, 500, 1000, 2500, 5000, 100000},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherart",
			Name:      "http_requests_total",
			Help:      "HTTP API requests by route and status code.",
		}, []string{"route", "code"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Renders,
		m.RenderDuration,
		m.ShapesEmitted,
		m.ParticlesDrawn,
		m.HTTPRequests,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
