package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the regulation module.
type Metrics struct {
	// List query latency
	ListLatency prometheus.Histogram

	// Status transitions by outcome: applied, rejected_invalid, rejected_transition, not_found
	StatusTransitions *prometheus.CounterVec
}

// New creates a new Metrics instance with all regulation module metrics
// registered. Call once per process.
func New() *Metrics {
	return &Metrics{
		ListLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "regwatch_regulation_list_duration_seconds",
			Help:    "Duration of regulation list queries",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "regwatch_regulation_status_transitions_total",
			Help: "Total status transition requests by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveListLatency records the duration of a list query.
func (m *Metrics) ObserveListLatency(d time.Duration) {
	if m != nil {
		m.ListLatency.Observe(d.Seconds())
	}
}

// IncrementTransition records a status transition outcome.
func (m *Metrics) IncrementTransition(outcome string) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(outcome).Inc()
	}
}
