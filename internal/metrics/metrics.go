// internal/metrics/metrics.go
//
// Prometheus collectors for the filter server.
// Each Metrics owns its registry so tests and multiple servers never collide
// on the global default registerer.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the server's collectors.
type Metrics struct {
	reg *prometheus.Registry

	Derivations *prometheus.CounterVec   // result="ok"|"malformed"|"conflict"
	Candidates  prometheus.Counter       // words examined by filters
	Matches     prometheus.Counter       // words accepted by filters
	Duration    *prometheus.HistogramVec // op="derive"|"filter"
	Sessions    prometheus.Gauge
}

// New registers a fresh set of collectors, plus Go runtime and process
// collectors, on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Derivations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wordle_filter_derivations_total",
			Help: "Requirement derivations by result",
		}, []string{"result"}),
		Candidates: f.NewCounter(prometheus.CounterOpts{
			Name: "wordle_filter_candidates_total",
			Help: "Candidate words examined by filters",
		}),
		Matches: f.NewCounter(prometheus.CounterOpts{
			Name: "wordle_filter_matches_total",
			Help: "Candidate words accepted by filters",
		}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wordle_filter_duration_seconds",
			Help:    "Duration of derive and filter operations",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.25},
		}, []string{"op"}),
		Sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "wordle_filter_sessions",
			Help: "Sessions currently held in memory",
		}),
	}
}

// Timer starts timing op; call ObserveDuration when done.
func (m *Metrics) Timer(op string) *prometheus.Timer {
	return prometheus.NewTimer(m.Duration.WithLabelValues(op))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
