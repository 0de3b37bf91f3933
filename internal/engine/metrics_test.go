package engine

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsRegistered(t *testing.T) {
	// Verify all metrics are registered with the default registerer.
	// If any were not registered, Gather would not include them.
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	expected := []string{
		"strand_engine_tasks_submitted_total",
		"strand_engine_tasks_completed_total",
		"strand_engine_operations_total",
		"strand_engine_signals_published_total",
		"strand_engine_signal_waiters_resolved_total",
		"strand_engine_tasks_waiting",
	}

	found := make(map[string]bool)
	for _, fam := range families {
		found[fam.GetName()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("metric %q not registered", name)
		}
	}
}

func TestTasksCompletedLabels(t *testing.T) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var fam *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "strand_engine_tasks_completed_total" {
			fam = f
			break
		}
	}
	if fam == nil {
		t.Fatal("tasks_completed_total not found")
	}

	// The init pre-registration guarantees all three status labels are
	// present from startup.
	want := map[string]bool{
		statusFinished:  false,
		statusFailed:    false,
		statusCancelled: false,
	}
	for _, m := range fam.GetMetric() {
		for _, lbl := range m.GetLabel() {
			if lbl.GetName() == "status" {
				want[lbl.GetValue()] = true
			}
		}
	}
	for status, seen := range want {
		if !seen {
			t.Errorf("status label %q not pre-registered", status)
		}
	}
}
