package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics counts what happens to visit drafts. A nil *IntakeMetrics
// is valid and records nothing.
type IntakeMetrics struct {
	draftsCreated prometheus.Counter
	stepAdvances  *prometheus.CounterVec
	confirmations *prometheus.CounterVec
	submissions   *prometheus.CounterVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		draftsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "visitor",
			Subsystem: "intake",
			Name:      "drafts_created_total",
			Help:      "Total visit drafts opened",
		}),
		stepAdvances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visitor",
			Subsystem: "intake",
			Name:      "step_advances_total",
			Help:      "Advance attempts by step and result",
		}, []string{"step", "result"}),
		confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visitor",
			Subsystem: "intake",
			Name:      "confirmations_total",
			Help:      "Confirmation prompts answered, by decision",
		}, []string{"decision"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visitor",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Visit submissions by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.draftsCreated, m.stepAdvances, m.confirmations, m.submissions)
	return m
}

func (m *IntakeMetrics) ObserveDraftCreated() {
	if m == nil {
		return
	}
	m.draftsCreated.Inc()
}

// ObserveAdvance records one advance attempt. result is "advanced",
// "blocked" or "confirm".
func (m *IntakeMetrics) ObserveAdvance(step, result string) {
	if m == nil {
		return
	}
	m.stepAdvances.WithLabelValues(step, result).Inc()
}

func (m *IntakeMetrics) ObserveConfirmation(accepted bool) {
	if m == nil {
		return
	}
	decision := "declined"
	if accepted {
		decision = "accepted"
	}
	m.confirmations.WithLabelValues(decision).Inc()
}

func (m *IntakeMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(status).Inc()
}
