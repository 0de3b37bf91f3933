package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phrazzld/strand/internal/domain"
)

// Metric label values for task terminal status.
const (
	statusFinished  = "finished"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

var (
	tasksSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "strand_engine_tasks_submitted_total",
			Help: "Total number of tasks accepted by the engine.",
		},
	)

	tasksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strand_engine_tasks_completed_total",
			Help: "Total number of tasks that reached a terminal state.",
		},
		[]string{"status"},
	)

	operationsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strand_engine_operations_total",
			Help: "Total number of operations dispatched by the scheduling loop.",
		},
		[]string{"kind"},
	)

	signalsPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "strand_engine_signals_published_total",
			Help: "Total number of signal publishes processed by the loop.",
		},
	)

	waitersResolved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "strand_engine_signal_waiters_resolved_total",
			Help: "Total number of signal waiters resolved by publishes.",
		},
	)

	tasksWaiting = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "strand_engine_tasks_waiting",
			Help: "Number of tasks currently suspended on a pending operation.",
		},
	)
)

func init() {
	prometheus.MustRegister(tasksSubmitted)
	prometheus.MustRegister(tasksCompleted)
	prometheus.MustRegister(operationsDispatched)
	prometheus.MustRegister(signalsPublished)
	prometheus.MustRegister(waitersResolved)
	prometheus.MustRegister(tasksWaiting)

	// Pre-initialize label combinations so they appear in /metrics with
	// value 0 from startup, rather than only after first observation.
	for _, s := range []string{statusFinished, statusFailed, statusCancelled} {
		tasksCompleted.WithLabelValues(s)
	}
	for _, k := range []domain.OpKind{domain.OpSleep, domain.OpWaitSignal, domain.OpRead} {
		operationsDispatched.WithLabelValues(string(k))
	}
}
