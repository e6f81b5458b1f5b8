package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the tutor's Prometheus collectors. A nil *Metrics is valid
// and records nothing, which keeps tests free of registry plumbing.
type Metrics struct {
	SessionsCreated   prometheus.Counter
	SessionsEnded     prometheus.Counter
	Strategies        *prometheus.CounterVec
	ProficiencyRules  *prometheus.CounterVec
	RetrievalFailures prometheus.Counter
	GenerationErrors  *prometheus.CounterVec
	ResponseLatency   prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tutor_sessions_created_total",
			Help: "Total number of tutoring sessions created",
		}),
		SessionsEnded: factory.NewCounter(prometheus.CounterOpts{
			Name: "tutor_sessions_ended_total",
			Help: "Total number of tutoring sessions ended and persisted",
		}),
		Strategies: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tutor_strategy_selected_total",
			Help: "Teaching strategies chosen for replies",
		}, []string{"strategy"}),
		ProficiencyRules: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tutor_proficiency_rule_total",
			Help: "Proficiency estimator rules that fired",
		}, []string{"rule"}),
		RetrievalFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "tutor_retrieval_failures_total",
			Help: "Retrievals that failed and fell back to conversation context only",
		}),
		GenerationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tutor_generation_errors_total",
			Help: "Generation provider errors by provider",
		}, []string{"provider"}),
		ResponseLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tutor_response_duration_seconds",
			Help:    "End-to-end reply latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
	}
}

func (m *Metrics) SessionCreated() {
	if m != nil {
		m.SessionsCreated.Inc()
	}
}

func (m *Metrics) SessionEnded() {
	if m != nil {
		m.SessionsEnded.Inc()
	}
}

func (m *Metrics) StrategySelected(strategy string) {
	if m != nil {
		m.Strategies.WithLabelValues(strategy).Inc()
	}
}

func (m *Metrics) RuleFired(rule string) {
	if m != nil {
		m.ProficiencyRules.WithLabelValues(rule).Inc()
	}
}

func (m *Metrics) RetrievalFailed() {
	if m != nil {
		m.RetrievalFailures.Inc()
	}
}

func (m *Metrics) GenerationFailed(provider string) {
	if m != nil {
		m.GenerationErrors.WithLabelValues(provider).Inc()
	}
}

func (m *Metrics) ObserveResponse(seconds float64) {
	if m != nil {
		m.ResponseLatency.Observe(seconds)
	}
}
