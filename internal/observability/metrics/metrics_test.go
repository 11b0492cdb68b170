package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveIntake(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.ObserveIntake("accepted")
	m.ObserveIntake("accepted")
	m.ObserveIntake("spam")

	if got := testutil.ToFloat64(m.intakeTotal.WithLabelValues("accepted")); got != 2 {
		t.Errorf("accepted count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.intakeTotal.WithLabelValues("spam")); got != 1 {
		t.Errorf("spam count = %v, want 1", got)
	}
}

func TestObserveSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.ObserveSink("webhook", "error")
	m.ObserveSink("webhook", "ok")
	m.ObserveSink("webhook", "error")

	if got := testutil.ToFloat64(m.sinkTotal.WithLabelValues("webhook", "error")); got != 2 {
		t.Errorf("webhook error count = %v, want 2", got)
	}
}

func TestNilSafe(t *testing.T) {
	var m *LeadMetrics
	// Must not panic.
	m.ObserveIntake("accepted")
	m.ObserveSink("webhook", "ok")
	m.ObserveIntakeDuration(0.1)
}
