package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PolicyMetrics records the outcome of every policy engine decision.
type PolicyMetrics struct {
	duration  *prometheus.HistogramVec
	decisions *prometheus.CounterVec
	restocks  prometheus.Counter
	fines     prometheus.Counter
}

// NewPolicyMetrics registers the policy metrics on the provided registerer.
func NewPolicyMetrics(reg prometheus.Registerer) *PolicyMetrics {
	if reg == nil {
		return &PolicyMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "policy_decision_duration_seconds",
		Help:    "Duration of policy engine decisions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "policy_decisions_total",
		Help: "Policy engine decisions by operation and outcome.",
	}, []string{"operation", "outcome"})
	restocks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "book_restocks_total",
		Help: "Automatic restocks triggered by purchases.",
	})
	fines := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fines_charged_total",
		Help: "Total monetary amount of fines charged on returns.",
	})
	reg.MustRegister(duration, decisions, restocks, fines)
	return &PolicyMetrics{
		duration:  duration,
		decisions: decisions,
		restocks:  restocks,
		fines:     fines,
	}
}

// ObserveDuration records the duration for the named operation.
func (p *PolicyMetrics) ObserveDuration(operation string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncDecision increments the decision counter for an operation outcome.
// Outcome is "granted", a rejection reason, "not_found", or "error".
func (p *PolicyMetrics) IncDecision(operation, outcome string) {
	if p == nil || p.decisions == nil {
		return
	}
	p.decisions.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// IncRestock increments the automatic restock counter.
func (p *PolicyMetrics) IncRestock() {
	if p == nil || p.restocks == nil {
		return
	}
	p.restocks.Inc()
}

// AddFine adds the charged fine amount to the fines counter.
func (p *PolicyMetrics) AddFine(amount float64) {
	if p == nil || p.fines == nil || amount <= 0 {
		return
	}
	p.fines.Add(amount)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
