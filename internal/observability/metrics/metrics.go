package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the intake pipeline.
type LeadMetrics struct {
	intakeTotal    *prometheus.CounterVec
	sinkTotal      *prometheus.CounterVec
	intakeDuration prometheus.Histogram
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		intakeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sopiauto",
			Subsystem: "leads",
			Name:      "intake_total",
			Help:      "Total lead intake requests by outcome",
		}, []string{"outcome"}),
		sinkTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sopiauto",
			Subsystem: "leads",
			Name:      "notification_sends_total",
			Help:      "Total notification sink sends by sink and status",
		}, []string{"sink", "status"}),
		intakeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sopiauto",
			Subsystem: "leads",
			Name:      "intake_duration_seconds",
			Help:      "Latency of accepted lead intake calls including fan-out",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.intakeTotal, m.sinkTotal, m.intakeDuration)
	return m
}

// ObserveIntake counts one intake request. Outcome is one of accepted,
// rejected, spam, error.
func (m *LeadMetrics) ObserveIntake(outcome string) {
	if m == nil {
		return
	}
	m.intakeTotal.WithLabelValues(outcome).Inc()
}

// ObserveSink counts one notification send attempt.
func (m *LeadMetrics) ObserveSink(sink, status string) {
	if m == nil {
		return
	}
	m.sinkTotal.WithLabelValues(sink, status).Inc()
}

func (m *LeadMetrics) ObserveIntakeDuration(seconds float64) {
	if m == nil {
		return
	}
	m.intakeDuration.Observe(seconds)
}
