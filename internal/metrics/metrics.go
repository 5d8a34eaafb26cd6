package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records ledger mutations and advice requests.
type Metrics struct {
	ledgerOps     *prometheus.CounterVec
	advice        *prometheus.CounterVec
	adviceLatency *prometheus.HistogramVec
}

// New registers the application metrics on the provided registerer. A nil
// registerer yields a Metrics whose methods do nothing.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	ledgerOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cofrinho_ledger_operations_total",
		Help: "Ledger mutations by operation.",
	}, []string{"operation"})
	advice := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cofrinho_advice_requests_total",
		Help: "Advice requests by outcome.",
	}, []string{"outcome"})
	adviceLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cofrinho_advice_duration_seconds",
		Help:    "Duration of calls to the text generation provider.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"provider"})
	reg.MustRegister(ledgerOps, advice, adviceLatency)
	return &Metrics{
		ledgerOps:     ledgerOps,
		advice:        advice,
		adviceLatency: adviceLatency,
	}
}

// IncLedgerOp counts one append or remove.
func (m *Metrics) IncLedgerOp(op string) {
	if m == nil || m.ledgerOps == nil {
		return
	}
	m.ledgerOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncAdvice counts one advice request with its outcome.
func (m *Metrics) IncAdvice(outcome string) {
	if m == nil || m.advice == nil {
		return
	}
	m.advice.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveAdvice records how long the provider took to answer.
func (m *Metrics) ObserveAdvice(provider string, d time.Duration) {
	if m == nil || m.adviceLatency == nil {
		return
	}
	m.adviceLatency.WithLabelValues(normalizeLabel(provider)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
