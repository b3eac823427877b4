package regclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the client data layer. All methods are
// nil-safe so tests and demo wiring can skip metrics entirely.
type Metrics struct {
	// List fetch cycles by outcome: success, fallback, stale
	Fetches *prometheus.CounterVec

	// Status update requests by outcome: success, simulated, invalid
	StatusUpdates *prometheus.CounterVec

	// Gateway list latency, both outcomes
	FetchLatency prometheus.Histogram
}

// NewMetrics creates and registers all client data layer metrics. Call once
// per process.
func NewMetrics() *Metrics {
	return &Metrics{
		Fetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "regwatch_client_fetches_total",
			Help: "Total list fetch cycles by outcome",
		}, []string{"outcome"}),

		StatusUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "regwatch_client_status_updates_total",
			Help: "Total status update requests by outcome",
		}, []string{"outcome"}),

		FetchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "regwatch_client_fetch_duration_seconds",
			Help:    "Duration of gateway list calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementFetch records a completed fetch cycle.
func (m *Metrics) IncrementFetch(outcome string) {
	if m != nil {
		m.Fetches.WithLabelValues(outcome).Inc()
	}
}

// IncrementStatusUpdate records a status update request outcome.
func (m *Metrics) IncrementStatusUpdate(outcome string) {
	if m != nil {
		m.StatusUpdates.WithLabelValues(outcome).Inc()
	}
}

// ObserveFetchLatency records the duration of a gateway list call.
func (m *Metrics) ObserveFetchLatency(d time.Duration) {
	if m != nil {
		m.FetchLatency.Observe(d.Seconds())
	}
}
