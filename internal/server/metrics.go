package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes recorded by reports_generated_total.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial" // HTML written, PDF failed
	OutcomeInvalid = "invalid" // rejected upload or unusable data
	OutcomeError   = "error"
)

// Metrics holds the upload front-end's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	reportsGenerated   *prometheus.CounterVec
	pdfFailures        prometheus.Counter
	generationDuration prometheus.Histogram
}

// NewMetrics creates and registers the collectors.
func NewMetrics() (*Metrics, error) {
	// Custom registry so tests and embedders don't share global state
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.reportsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "takedownreport_reports_generated_total",
			Help: "Upload-driven report generations by outcome",
		},
		[]string{"outcome"},
	)
	m.pdfFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "takedownreport_pdf_failures_total",
		Help: "PDF conversions that failed after the HTML was written",
	})
	m.generationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "takedownreport_generation_duration_seconds",
		Help:    "Wall time of one generation including PDF conversion",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	for _, c := range []prometheus.Collector{m.reportsGenerated, m.pdfFailures, m.generationDuration} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// observe records one upload. pdfFailed is set only when a conversion was
// attempted and failed.
func (m *Metrics) observe(outcome string, pdfFailed bool, elapsed time.Duration) {
	m.reportsGenerated.WithLabelValues(outcome).Inc()
	if pdfFailed {
		m.pdfFailures.Inc()
	}
	if outcome == OutcomeSuccess || outcome == OutcomePartial {
		m.generationDuration.Observe(elapsed.Seconds())
	}
}
