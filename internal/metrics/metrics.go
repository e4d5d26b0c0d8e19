// Package metrics exposes Prometheus counters for the pricing workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "artisan_pricing"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	calculations  prometheus.Counter
	productsSaved prometheus.Counter
	materials     *prometheus.CounterVec
	errors        *prometheus.CounterVec
}

// New registers the counters on a fresh registry together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		calculations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Price calculations performed, previews and saves included.",
		}),
		productsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_saved_total",
			Help:      "Products written to the history.",
		}),
		materials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "material_writes_total",
			Help:      "Material writes by action.",
		}, []string{"action"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors returned to clients by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.calculations,
		m.productsSaved,
		m.materials,
		m.errors,
	)
	return m
}

func (m *Metrics) Calculated() {
	if m != nil {
		m.calculations.Inc()
	}
}

func (m *Metrics) ProductSaved() {
	if m != nil {
		m.productsSaved.Inc()
	}
}

// MaterialWritten counts a create, update or delete.
func (m *Metrics) MaterialWritten(action string) {
	if m != nil {
		m.materials.WithLabelValues(action).Inc()
	}
}

// Error counts an error of the given kind ("validation", "not_found",
// "missing_reference", "persistence", ...).
func (m *Metrics) Error(kind string) {
	if m != nil {
		m.errors.WithLabelValues(kind).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
