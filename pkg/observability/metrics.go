package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Layout sources reported by ObserveDiagram.
const (
	SourceComputed = "computed"
	SourceSaved    = "saved"
	SourceMixed    = "mixed"
)

// Metrics groups the collectors recorded by the layout manager.
type Metrics struct {
	registry *prometheus.Registry

	diagramBuilds  *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	layoutSaves    *prometheus.CounterVec
	danglingEdges  prometheus.Counter
}

// NewMetrics creates the collectors and registers them on a fresh registry
// together with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		diagramBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowmap_diagram_builds_total",
				Help: "Total number of diagrams assembled, by layout source",
			},
			[]string{"source"},
		),
		layoutDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flowmap_layout_duration_seconds",
				Help:    "Duration of diagram assembly (build, validate, arrange)",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		layoutSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowmap_layout_saves_total",
				Help: "Total number of layout persistence attempts, by result",
			},
			[]string{"result"},
		),
		danglingEdges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "flowmap_dangling_edges_total",
				Help: "Total number of edge endpoints found without a matching node",
			},
		),
	}

	m.registry.MustRegister(
		m.diagramBuilds,
		m.layoutDuration,
		m.layoutSaves,
		m.danglingEdges,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDiagram records one diagram assembly.
func (m *Metrics) ObserveDiagram(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.diagramBuilds.WithLabelValues(source).Inc()
	m.layoutDuration.Observe(d.Seconds())
}

// ObserveSave records a layout persistence attempt.
func (m *Metrics) ObserveSave(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.layoutSaves.WithLabelValues(result).Inc()
}

// AddDanglingEdges records n dangling endpoints.
func (m *Metrics) AddDanglingEdges(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.danglingEdges.Add(float64(n))
}
