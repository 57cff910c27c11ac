package evaluate

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rustyeddy/propfirm/risk"
)

// Metrics holds the Prometheus collectors for rule evaluation. A nil
// *Metrics records nothing.
type Metrics struct {
	Evaluations *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	RuleStatus  *prometheus.CounterVec
	Duration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propfirm_evaluations_total",
				Help: "Completed rule evaluations by overall status",
			},
			[]string{"overall_status"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propfirm_evaluation_failures_total",
				Help: "Aborted rule evaluations by reason",
			},
			[]string{"reason"},
		),
		RuleStatus: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propfirm_rule_status_total",
				Help: "Per-rule outcomes of completed evaluations",
			},
			[]string{"rule", "status"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "propfirm_evaluation_duration_seconds",
				Help:    "Wall time of a rule evaluation including storage reads",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
		),
	}

	for _, c := range []prometheus.Collector{m.Evaluations, m.Failures, m.RuleStatus, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(start time.Time, res risk.EvaluateRulesResult, err error) {
	if m == nil {
		return
	}
	m.Duration.Observe(time.Since(start).Seconds())

	if err != nil {
		m.Failures.WithLabelValues(failureReason(err)).Inc()
		return
	}
	m.Evaluations.WithLabelValues(string(res.OverallStatus)).Inc()
	for _, n := range res.Rules.Named() {
		m.RuleStatus.WithLabelValues(n.Key, string(n.Result.Status)).Inc()
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrEvaluationNotFound):
		return "evaluation_not_found"
	case errors.Is(err, ErrTemplateNotFound):
		return "template_not_found"
	case errors.Is(err, ErrAccountMismatch):
		return "account_mismatch"
	case errors.Is(err, ErrPerformanceQuery):
		return "performance_query"
	}
	return "other"
}
