package reconciler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/util/retry"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	kubeclient "kubeautogpt/internal/client"
	"kubeautogpt/internal/synth"
	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
	"kubeautogpt/pkg/logging"
	kstrings "kubeautogpt/pkg/strings"
)

// FinalizerName keeps deleted records around until OnDelete has seen them.
const FinalizerName = "kubeautogpt.io/finalizer"

// Event reasons.
const (
	EventReasonSynthesized     = "Synthesized"
	EventReasonApplied         = "Applied"
	EventReasonReconcileFailed = "ReconcileFailed"
	EventReasonRepairExhausted = "RepairExhausted"
	EventReasonRepairDeclined  = "RepairDeclined"
	EventReasonDeleted         = "Deleted"
)

// eventMessageWidth keeps event messages within the API server's limit.
const eventMessageWidth = 1024

// EventRecorder emits events about records.
type EventRecorder interface {
	RecordEvent(ctx context.Context, record *v1.KubeAutoGpts, eventType, reason, message string) error
}

// Controller drives the Machine from controller-runtime.
type Controller struct {
	client  client.Client
	events  EventRecorder
	machine *Machine
	workers int
}

// NewController creates a Controller. A nil events disables event emission.
func NewController(c client.Client, events EventRecorder, machine *Machine, workers int) *Controller {
	if workers <= 0 {
		workers = 1
	}
	return &Controller{
		client:  c,
		events:  events,
		machine: machine,
		workers: workers,
	}
}

// SetupWithManager registers the controller. Only generation changes trigger
// a pass, so the controller's own status writes do not.
func (r *Controller) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&v1.KubeAutoGpts{}, builder.WithPredicates(predicate.GenerationChangedPredicate{})).
		Named("kubeautogpts").
		WithOptions(controller.Options{MaxConcurrentReconciles: r.workers}).
		Complete(r)
}

// Reconcile runs one pass of the state machine for a record.
func (r *Controller) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	record := &v1.KubeAutoGpts{}
	if err := r.client.Get(ctx, req.NamespacedName, record); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	if !record.DeletionTimestamp.IsZero() {
		return ctrl.Result{}, r.finalize(ctx, record)
	}

	if !controllerutil.ContainsFinalizer(record, FinalizerName) {
		patch := client.MergeFrom(record.DeepCopy())
		controllerutil.AddFinalizer(record, FinalizerName)
		if err := r.client.Patch(ctx, record, patch); err != nil {
			return ctrl.Result{}, fmt.Errorf("failed to add finalizer to %s: %w", req.NamespacedName, err)
		}
	}

	var result Result
	if hasObservedState(record) {
		logging.Debug("Controller", "Updating %s", req.NamespacedName)
		result = r.machine.OnUpdate(ctx, record.Spec, record.Status)
	} else {
		logging.Info("Controller", "Creating %s", req.NamespacedName)
		result = r.machine.OnCreate(ctx, record.Spec, record.Status)
	}

	if err := r.persist(ctx, record, result); err != nil {
		logging.Error("Controller", err, "Failed to persist %s", req.NamespacedName)
		return ctrl.Result{}, err
	}

	r.emit(ctx, record, result)

	if result.Directive.Action == ActionRetry {
		return ctrl.Result{RequeueAfter: result.Directive.After}, nil
	}
	return ctrl.Result{}, nil
}

// persist writes status before spec. The spec write bumps the generation and
// triggers the next pass, which must already see the new status.
func (r *Controller) persist(ctx context.Context, record *v1.KubeAutoGpts, result Result) error {
	key := client.ObjectKeyFromObject(record)

	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		latest := &v1.KubeAutoGpts{}
		if err := r.client.Get(ctx, key, latest); err != nil {
			return err
		}
		patch := client.MergeFrom(latest.DeepCopy())
		latest.Status = result.Status
		if err := r.client.Status().Patch(ctx, latest, patch); err != nil {
			return err
		}
		record.Status = latest.Status
		return nil
	})
	if apierrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update status of %s: %w", key, err)
	}

	if result.Spec.ExpectedObjects == record.Spec.ExpectedObjects {
		return nil
	}

	err = retry.RetryOnConflict(retry.DefaultRetry, func() error {
		latest := &v1.KubeAutoGpts{}
		if err := r.client.Get(ctx, key, latest); err != nil {
			return err
		}
		patch := client.MergeFrom(latest.DeepCopy())
		latest.Spec.ExpectedObjects = result.Spec.ExpectedObjects
		if err := r.client.Patch(ctx, latest, patch); err != nil {
			return err
		}
		record.Spec = latest.Spec
		return nil
	})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to update expectedObjects of %s: %w", key, err)
	}
	return nil
}

// finalize acknowledges a deletion and releases the record.
func (r *Controller) finalize(ctx context.Context, record *v1.KubeAutoGpts) error {
	if !controllerutil.ContainsFinalizer(record, FinalizerName) {
		return nil
	}

	ack := r.machine.OnDelete(ctx, record.Spec, record.Status)
	msg := fmt.Sprintf("%d applied objects left in place", len(ack.Objects))
	logging.Info("Controller", "Record %s deleted, %s", client.ObjectKeyFromObject(record), msg)
	if r.events != nil {
		if err := r.events.RecordEvent(ctx, record, kubeclient.EventTypeNormal, EventReasonDeleted, msg); err != nil {
			logging.Debug("Controller", "Failed to record delete event: %v", err)
		}
	}

	patch := client.MergeFrom(record.DeepCopy())
	controllerutil.RemoveFinalizer(record, FinalizerName)
	if err := r.client.Patch(ctx, record, patch); err != nil {
		return client.IgnoreNotFound(err)
	}
	return nil
}

func (r *Controller) emit(ctx context.Context, record *v1.KubeAutoGpts, result Result) {
	if r.events == nil {
		return
	}

	eventType, reason, message := describeResult(record, result)
	if reason == "" {
		return
	}
	if err := r.events.RecordEvent(ctx, record, eventType, reason, message); err != nil {
		logging.Warn("Controller", "Failed to record event for %s: %v", client.ObjectKeyFromObject(record), err)
	}
}

// describeResult picks the event for a pass. Passes that did no work
// produce none.
func describeResult(record *v1.KubeAutoGpts, result Result) (eventType, reason, message string) {
	switch result.Directive.Action {
	case ActionDone:
		if record.Spec.DryRun {
			if result.Mode == "" {
				return "", "", ""
			}
			return kubeclient.EventTypeNormal, EventReasonSynthesized,
				fmt.Sprintf("Manifests generated in %s mode (dry run)", result.Mode)
		}
		return kubeclient.EventTypeNormal, EventReasonApplied,
			fmt.Sprintf("%d objects tracked", len(result.Status.CreatedObjects))
	case ActionTerminal:
		if result.Mode == "" && result.Err == nil {
			return "", "", ""
		}
		if result.Err == nil && repairWasDeclined(result.Status) {
			return kubeclient.EventTypeWarning, EventReasonRepairDeclined,
				kstrings.OneLine(fmt.Sprintf("Generator declined the repair on attempt %d: %s",
					result.Status.RepairAttempts, strings.Join(result.Status.Comments, " ")), eventMessageWidth)
		}
		return kubeclient.EventTypeWarning, EventReasonRepairExhausted,
			kstrings.OneLine(fmt.Sprintf("Giving up after %d attempts: %s", result.Status.RepairAttempts, result.Status.Error), eventMessageWidth)
	case ActionRetry:
		if result.Err == nil {
			return "", "", ""
		}
		msg := SanitizeErrorMessage(result.Err.Error())
		var transportErr *synth.TransportError
		if errors.As(result.Err, &transportErr) {
			// status.error is left alone, so this is where users see it.
			msg = "Generator unavailable, see the Synthesized condition: " + msg
		}
		return kubeclient.EventTypeWarning, EventReasonReconcileFailed,
			kstrings.OneLine(msg, eventMessageWidth)
	}
	return "", "", ""
}

// hasObservedState reports whether the controller has completed any pass
// for the record.
func hasObservedState(record *v1.KubeAutoGpts) bool {
	s := record.Status
	return s.ObservedDigest != "" || s.Error != "" || s.LastAttemptTime != nil || record.Spec.ExpectedObjects != ""
}
