package reconciler

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubeautogpt/internal/apply"
	"kubeautogpt/internal/synth"
	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
)

// Synthesizer produces manifest text for a record.
type Synthesizer interface {
	Synthesize(ctx context.Context, req synth.Request) (string, error)
}

// Applier writes decoded manifests to the cluster.
type Applier interface {
	Apply(ctx context.Context, objs []*unstructured.Unstructured, dryRun bool) (apply.Result, error)
}

// Action tells the runtime what to do with a record after a reconcile pass.
type Action string

const (
	// ActionDone means the record converged. Nothing is rescheduled.
	ActionDone Action = "Done"

	// ActionRetry asks for another pass after Directive.After.
	ActionRetry Action = "Retry"

	// ActionTerminal means further passes cannot help until the record's
	// description or manifests change.
	ActionTerminal Action = "Terminal"
)

// Directive is the scheduling outcome of a reconcile pass.
type Directive struct {
	Action Action
	After  time.Duration
}

// Result is the outcome of OnCreate or OnUpdate. Spec and Status are the full
// new values to persist; the caller decides how to write them.
type Result struct {
	Spec      v1.KubeAutoGptsSpec
	Status    v1.KubeAutoGptsStatus
	Directive Directive

	// Mode is the synthesis mode used, empty when no synthesis ran.
	Mode synth.Mode

	// Err is the failure of this pass, if any.
	Err error
}

// DeleteAck acknowledges a deleted record. Objects lists what the record had
// applied; none of them are removed.
type DeleteAck struct {
	Objects []v1.CreatedObject
}

// State is a record's position in the reconciliation lifecycle. It is derived
// from spec and status and never stored.
type State string

const (
	StateFresh     State = "Fresh"
	StateConverged State = "Converged"
	StateFailed    State = "Failed"
	StateExhausted State = "Exhausted"
)

// StateOf derives the lifecycle state of a record. A maxRepairAttempts of
// zero disables the budget; a declined repair is Exhausted regardless.
func StateOf(spec v1.KubeAutoGptsSpec, status v1.KubeAutoGptsStatus, maxRepairAttempts int32) State {
	switch {
	case status.Error != "" && maxRepairAttempts > 0 && status.RepairAttempts >= maxRepairAttempts:
		return StateExhausted
	case status.Error != "" && repairWasDeclined(status):
		return StateExhausted
	case status.Error != "":
		return StateFailed
	case spec.ExpectedObjects != "":
		return StateConverged
	default:
		return StateFresh
	}
}

// repairWasDeclined reports whether the generator gave up on the last Repair.
func repairWasDeclined(status v1.KubeAutoGptsStatus) bool {
	c := meta.FindStatusCondition(status.Conditions, v1.ConditionReady)
	return c != nil && c.Reason == ReasonRepairDeclined
}
