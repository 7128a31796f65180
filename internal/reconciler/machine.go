package reconciler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubeautogpt/internal/apply"
	"kubeautogpt/internal/manifest"
	"kubeautogpt/internal/metrics"
	"kubeautogpt/internal/synth"
	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
	"kubeautogpt/pkg/logging"
)

const (
	// DefaultRetryDelay is the fixed delay before a failed record is retried.
	DefaultRetryDelay = 60 * time.Second

	// DefaultMaxRepairAttempts bounds consecutive failed attempts per record.
	DefaultMaxRepairAttempts int32 = 5
)

// Condition reasons.
const (
	ReasonSynthesized      = "Synthesized"
	ReasonTransportError   = "TransportError"
	ReasonParseError       = "ParseError"
	ReasonApplied          = "Applied"
	ReasonDryRun           = "DryRun"
	ReasonApplyError       = "ApplyError"
	ReasonReapplied        = "Reapplied"
	ReasonRepairDeclined   = "RepairDeclined"
	ReasonRepairLimit      = "RepairLimitReached"
	ReasonReconcileFailed  = "ReconcileFailed"
	ReasonReconcileSuccess = "Converged"
)

// errNoManifests is reported when a Generate or Update answer holds no objects.
var errNoManifests = errors.New("response contains no manifest objects")

// MachineConfig configures a Machine.
type MachineConfig struct {
	// RetryDelay is the delay attached to every Retry directive.
	RetryDelay time.Duration

	// MaxRepairAttempts is the number of consecutive failed attempts after
	// which a record becomes terminal. Zero means unbounded.
	MaxRepairAttempts int32

	// SkipUnchanged re-applies the stored manifests of a converged record
	// instead of asking the generator again when neither the description nor
	// the manifests changed.
	SkipUnchanged bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// NewTransaction returns an id for one apply attempt. Defaults to a random UUID.
	NewTransaction func() string
}

// Machine is the reconciliation state machine. It keeps no per-record state:
// everything it needs comes in with the record and goes out with the Result.
type Machine struct {
	synthesizer Synthesizer
	applier     Applier
	config      MachineConfig
}

// NewMachine creates a Machine. A zero RetryDelay falls back to DefaultRetryDelay.
func NewMachine(synthesizer Synthesizer, applier Applier, config MachineConfig) *Machine {
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	if config.MaxRepairAttempts < 0 {
		config.MaxRepairAttempts = 0
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewTransaction == nil {
		config.NewTransaction = func() string { return uuid.New().String() }
	}
	return &Machine{
		synthesizer: synthesizer,
		applier:     applier,
		config:      config,
	}
}

// Digest fingerprints the user-controlled inputs of a record.
func Digest(description, expectedObjects string) string {
	h := sha256.New()
	h.Write([]byte(description))
	h.Write([]byte{0})
	h.Write([]byte(expectedObjects))
	return hex.EncodeToString(h.Sum(nil))
}

// OnCreate handles a record seen for the first time.
func (m *Machine) OnCreate(ctx context.Context, spec v1.KubeAutoGptsSpec, status v1.KubeAutoGptsStatus) Result {
	return m.reconcile(ctx, "create", spec, status)
}

// OnUpdate handles a record whose spec changed or that was scheduled for retry.
func (m *Machine) OnUpdate(ctx context.Context, spec v1.KubeAutoGptsSpec, status v1.KubeAutoGptsStatus) Result {
	return m.reconcile(ctx, "update", spec, status)
}

// OnDelete acknowledges a deleted record. Applied objects are left in place.
func (m *Machine) OnDelete(_ context.Context, _ v1.KubeAutoGptsSpec, status v1.KubeAutoGptsStatus) DeleteAck {
	for _, obj := range status.CreatedObjects {
		logging.Info("Machine", "Leaving %s %s in place (transaction %s)", obj.Kind, createdObjectKey(obj), obj.Transaction)
	}
	objects := make([]v1.CreatedObject, len(status.CreatedObjects))
	copy(objects, status.CreatedObjects)
	return DeleteAck{Objects: objects}
}

// attempt carries one reconcile pass.
type attempt struct {
	spec   v1.KubeAutoGptsSpec
	status v1.KubeAutoGptsStatus
	mode   synth.Mode
	now    time.Time
}

func (m *Machine) reconcile(ctx context.Context, event string, spec v1.KubeAutoGptsSpec, status v1.KubeAutoGptsStatus) Result {
	a := &attempt{
		spec:   spec,
		status: *status.DeepCopy(),
		now:    m.config.Now(),
	}

	digest := Digest(a.spec.Description, a.spec.ExpectedObjects)
	unchanged := a.status.ObservedDigest == digest
	if !unchanged && a.status.RepairAttempts != 0 {
		logging.Debug("Machine", "Inputs changed, resetting %d repair attempts", a.status.RepairAttempts)
		a.status.RepairAttempts = 0
	}

	if unchanged && a.status.Error != "" {
		if m.exhausted(a.status) || repairWasDeclined(a.status) {
			return m.result(a, Directive{Action: ActionTerminal}, nil)
		}
		if a.status.LastAttemptTime != nil {
			next := a.status.LastAttemptTime.Add(m.config.RetryDelay)
			if a.now.Before(next) {
				return m.result(a, Directive{Action: ActionRetry, After: next.Sub(a.now)}, nil)
			}
		}
	}

	if m.config.SkipUnchanged && unchanged && a.status.Error == "" && a.spec.ExpectedObjects != "" {
		return m.reapply(ctx, a, digest)
	}

	a.mode = synth.SelectMode(a.status.Error != "", a.spec.ExpectedObjects != "")
	logging.Info("Machine", "Synthesizing on %s in %s mode", event, a.mode)

	text, err := m.synthesizer.Synthesize(ctx, synth.Request{
		Mode:            a.mode,
		Description:     a.spec.Description,
		CurrentManifest: a.spec.ExpectedObjects,
		Error:           a.status.Error,
	})
	if err != nil {
		return m.synthesisFailed(a, err)
	}
	m.setCondition(a, v1.ConditionSynthesized, metav1.ConditionTrue, ReasonSynthesized, fmt.Sprintf("Manifests generated in %s mode", a.mode))

	objs, err := manifest.Decode(text)
	if err == nil {
		var comments []string
		var found bool
		objs, comments, found = manifest.SplitComments(objs)
		if found {
			a.status.Comments = comments
		}
		if len(objs) == 0 {
			if a.mode == synth.ModeRepair && found {
				return m.repairDeclined(a, digest)
			}
			err = &manifest.ParseError{Err: errNoManifests}
		}
	}
	if err == nil {
		err = manifest.Validate(objs)
	}
	if err != nil {
		m.setCondition(a, v1.ConditionSynthesized, metav1.ConditionFalse, ReasonParseError, SanitizeErrorMessage(err.Error()))
		return m.failed(a, digest, err)
	}

	encoded, err := manifest.Encode(objs)
	if err != nil {
		return m.failed(a, digest, err)
	}
	a.spec.ExpectedObjects = encoded
	digest = Digest(a.spec.Description, a.spec.ExpectedObjects)

	return m.applyObjects(ctx, a, digest, objs)
}

// reapply writes the stored manifests of a converged record without
// synthesis.
func (m *Machine) reapply(ctx context.Context, a *attempt, digest string) Result {
	objs, err := manifest.Decode(a.spec.ExpectedObjects)
	if err == nil {
		objs, _, _ = manifest.SplitComments(objs)
		err = manifest.Validate(objs)
	}
	if err != nil {
		return m.failed(a, digest, err)
	}

	logging.Debug("Machine", "Inputs unchanged, re-applying %d stored objects", len(objs))
	return m.applyObjects(ctx, a, digest, objs)
}

func (m *Machine) applyObjects(ctx context.Context, a *attempt, digest string, objs []*unstructured.Unstructured) Result {
	txn := m.config.NewTransaction()
	res, err := m.applier.Apply(ctx, objs, a.spec.DryRun)
	a.status.CreatedObjects = mergeCreated(a.status.CreatedObjects, res.Objects, txn)

	if err != nil {
		if ctx.Err() != nil {
			return m.result(a, Directive{Action: ActionRetry, After: m.config.RetryDelay}, err)
		}
		m.setCondition(a, v1.ConditionApplied, metav1.ConditionFalse, ReasonApplyError, SanitizeErrorMessage(err.Error()))
		return m.failed(a, digest, err)
	}

	if a.spec.DryRun {
		m.setCondition(a, v1.ConditionApplied, metav1.ConditionFalse, ReasonDryRun, fmt.Sprintf("Dry run, %d objects not applied", len(objs)))
	} else {
		reason := ReasonApplied
		if a.mode == "" {
			reason = ReasonReapplied
		}
		m.setCondition(a, v1.ConditionApplied, metav1.ConditionTrue, reason, fmt.Sprintf("%d objects applied", len(res.Objects)))
	}

	a.status.Error = ""
	a.status.RepairAttempts = 0
	a.status.ObservedDigest = digest
	a.status.LastAttemptTime = &metav1.Time{Time: a.now}
	m.setCondition(a, v1.ConditionReady, metav1.ConditionTrue, ReasonReconcileSuccess, "Record converged")

	return m.result(a, Directive{Action: ActionDone}, nil)
}

// synthesisFailed handles an unreachable generator. The persisted error is
// left alone so that a transport failure never selects Repair mode.
func (m *Machine) synthesisFailed(a *attempt, err error) Result {
	if errors.Is(err, synth.ErrInvalidRequest) {
		m.setCondition(a, v1.ConditionSynthesized, metav1.ConditionFalse, ReasonReconcileFailed, err.Error())
		m.setCondition(a, v1.ConditionReady, metav1.ConditionFalse, ReasonReconcileFailed, err.Error())
		return m.result(a, Directive{Action: ActionTerminal}, err)
	}

	msg := SanitizeErrorMessage(err.Error())
	logging.Warn("Machine", "Generator unavailable in %s mode: %s", a.mode, msg)
	m.setCondition(a, v1.ConditionSynthesized, metav1.ConditionFalse, ReasonTransportError, msg)
	m.setCondition(a, v1.ConditionReady, metav1.ConditionFalse, ReasonTransportError, "Waiting for the generator")
	return m.result(a, Directive{Action: ActionRetry, After: m.config.RetryDelay}, err)
}

// repairDeclined handles a Repair answer that gives up: comments but no objects.
func (m *Machine) repairDeclined(a *attempt, digest string) Result {
	logging.Info("Machine", "Generator declined the repair: %v", a.status.Comments)

	a.status.RepairAttempts++
	a.status.ObservedDigest = digest
	a.status.LastAttemptTime = &metav1.Time{Time: a.now}
	m.setCondition(a, v1.ConditionReady, metav1.ConditionFalse, ReasonRepairDeclined, "The generator could not fix the error, see comments")

	return m.result(a, Directive{Action: ActionTerminal}, nil)
}

// failed records a parse or apply failure. The next pass runs in Repair mode
// when manifests are present.
func (m *Machine) failed(a *attempt, digest string, err error) Result {
	a.status.Error = SanitizeErrorMessage(err.Error())
	a.status.RepairAttempts++
	a.status.ObservedDigest = digest
	a.status.LastAttemptTime = &metav1.Time{Time: a.now}

	if m.exhausted(a.status) {
		logging.Warn("Machine", "Giving up after %d failed attempts: %s", a.status.RepairAttempts, a.status.Error)
		m.setCondition(a, v1.ConditionReady, metav1.ConditionFalse, ReasonRepairLimit,
			fmt.Sprintf("%d consecutive attempts failed", a.status.RepairAttempts))
		metrics.RecordRepairExhausted()
		return m.result(a, Directive{Action: ActionTerminal}, err)
	}

	logging.Info("Machine", "Attempt %d failed, retrying in %s: %s", a.status.RepairAttempts, m.config.RetryDelay, a.status.Error)
	m.setCondition(a, v1.ConditionReady, metav1.ConditionFalse, ReasonReconcileFailed, a.status.Error)
	return m.result(a, Directive{Action: ActionRetry, After: m.config.RetryDelay}, err)
}

func (m *Machine) exhausted(status v1.KubeAutoGptsStatus) bool {
	return m.config.MaxRepairAttempts > 0 && status.RepairAttempts >= m.config.MaxRepairAttempts
}

func (m *Machine) setCondition(a *attempt, conditionType string, status metav1.ConditionStatus, reason, message string) {
	meta.SetStatusCondition(&a.status.Conditions, metav1.Condition{
		Type:               conditionType,
		Status:             status,
		Reason:             reason,
		Message:            message,
		LastTransitionTime: metav1.NewTime(a.now),
	})
}

func (m *Machine) result(a *attempt, directive Directive, err error) Result {
	mode := string(a.mode)
	if mode == "" {
		mode = "none"
	}
	switch directive.Action {
	case ActionDone:
		metrics.RecordReconcile(mode, metrics.ResultSuccess)
	case ActionRetry:
		metrics.RecordReconcile(mode, metrics.ResultRetry)
	case ActionTerminal:
		metrics.RecordReconcile(mode, metrics.ResultTerminal)
	}

	return Result{
		Spec:      a.spec,
		Status:    a.status,
		Directive: directive,
		Mode:      a.mode,
		Err:       err,
	}
}

// mergeCreated folds the objects written by one apply attempt into the
// tracked list. Skipped objects were not written and are not tracked.
func mergeCreated(tracked []v1.CreatedObject, processed []apply.ObjectResult, txn string) []v1.CreatedObject {
	for _, p := range processed {
		if p.Action == apply.ActionSkipped {
			continue
		}
		ref := v1.CreatedObject{
			APIVersion:  p.APIVersion,
			Kind:        p.Kind,
			Namespace:   p.Namespace,
			Name:        p.Name,
			Transaction: txn,
		}

		found := false
		for i := range tracked {
			if sameObject(tracked[i], ref) {
				tracked[i].Transaction = txn
				found = true
				break
			}
		}
		if !found {
			tracked = append(tracked, ref)
		}
	}
	return tracked
}

func sameObject(a, b v1.CreatedObject) bool {
	return a.APIVersion == b.APIVersion && a.Kind == b.Kind && a.Namespace == b.Namespace && a.Name == b.Name
}

func createdObjectKey(obj v1.CreatedObject) string {
	if obj.Namespace == "" {
		return obj.Name
	}
	return obj.Namespace + "/" + obj.Name
}
