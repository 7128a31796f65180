// Package metrics holds the Prometheus collectors of the controller.
//
// Collectors are registered on controller-runtime's registry so that the
// manager's metrics endpoint serves them next to the built-in workqueue and
// client metrics. Filesystem mode serves the same registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

const namespace = "kubeautogpt"

// Reconcile results.
const (
	ResultSuccess  = "success"
	ResultRetry    = "retry"
	ResultTerminal = "terminal"
)

var (
	// ReconcileTotal counts completed reconcile passes by synthesis mode and outcome.
	ReconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_total",
			Help:      "Total number of reconcile passes by mode and result",
		},
		[]string{"mode", "result"},
	)

	// SynthesisDuration observes calls to the generative service.
	SynthesisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "synthesis_duration_seconds",
			Help:      "Duration of generative service calls in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"mode"},
	)

	// SynthesisErrors counts failed calls to the generative service.
	SynthesisErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_errors_total",
			Help:      "Total number of failed generative service calls",
		},
		[]string{"mode"},
	)

	// ApplyObjectsTotal counts objects handled by the apply engine by action.
	ApplyObjectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apply_objects_total",
			Help:      "Total number of manifest objects processed by action",
		},
		[]string{"action"},
	)

	// RepairExhaustedTotal counts records that ran out of repair attempts.
	RepairExhaustedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repair_exhausted_total",
			Help:      "Total number of records that reached the repair attempt limit",
		},
	)
)

func init() {
	ctrlmetrics.Registry.MustRegister(
		ReconcileTotal,
		SynthesisDuration,
		SynthesisErrors,
		ApplyObjectsTotal,
		RepairExhaustedTotal,
	)
}

// ObserveSynthesis records one generative service call.
func ObserveSynthesis(mode string, elapsed time.Duration, err error) {
	SynthesisDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if err != nil {
		SynthesisErrors.WithLabelValues(mode).Inc()
	}
}

// RecordApplyAction counts one processed manifest object.
func RecordApplyAction(action string) {
	ApplyObjectsTotal.WithLabelValues(action).Inc()
}

// RecordReconcile counts one reconcile pass.
func RecordReconcile(mode, result string) {
	ReconcileTotal.WithLabelValues(mode, result).Inc()
}

// RecordRepairExhausted counts a record that hit its repair limit.
func RecordRepairExhausted() {
	RepairExhaustedTotal.Inc()
}
