package apply

import (
	"context"
	"errors"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"kubeautogpt/internal/metrics"
	"kubeautogpt/pkg/logging"
)

const (
	// DefaultFieldManager owns every server-side applied field.
	DefaultFieldManager = "kube-autogpt"

	// DefaultNamespace receives namespaced objects that name no namespace.
	DefaultNamespace = "default"
)

// Action says what happened to one object.
type Action string

const (
	ActionCreated Action = "created"
	ActionApplied Action = "applied"
	ActionSkipped Action = "skipped"
)

// ObjectResult identifies one processed object.
type ObjectResult struct {
	APIVersion string
	Kind       string
	Namespace  string
	Name       string
	Action     Action
}

// Result lists every object processed before the run ended.
type Result struct {
	Objects []ObjectResult
}

// Options configures an Engine.
type Options struct {
	FieldManager     string
	DefaultNamespace string
}

// Engine applies manifest objects to a Cluster in order.
type Engine struct {
	cluster Cluster
	opts    Options
}

// NewEngine creates an Engine. Empty options fall back to the package defaults.
func NewEngine(cluster Cluster, opts Options) *Engine {
	if opts.FieldManager == "" {
		opts.FieldManager = DefaultFieldManager
	}
	if opts.DefaultNamespace == "" {
		opts.DefaultNamespace = DefaultNamespace
	}
	return &Engine{cluster: cluster, opts: opts}
}

// Apply processes objs in order.
//
// In dry-run mode the cluster is never contacted and every object is reported
// as skipped. Otherwise each object is created, falling back to a single
// server-side apply when the API server rejects the create. The first object
// that cannot be written ends the run with an *ApplyError; the returned Result
// still lists the objects written before it.
func (e *Engine) Apply(ctx context.Context, objs []*unstructured.Unstructured, dryRun bool) (Result, error) {
	var result Result

	for _, obj := range objs {
		if dryRun {
			result.Objects = append(result.Objects, objectResult(obj, ActionSkipped))
			metrics.RecordApplyAction(string(ActionSkipped))
			continue
		}

		action, err := e.applyOne(ctx, obj)
		if err != nil {
			return result, &ApplyError{
				APIVersion: obj.GetAPIVersion(),
				Kind:       obj.GetKind(),
				Namespace:  obj.GetNamespace(),
				Name:       obj.GetName(),
				Err:        err,
			}
		}

		result.Objects = append(result.Objects, objectResult(obj, action))
		metrics.RecordApplyAction(string(action))
	}

	return result, nil
}

func (e *Engine) applyOne(ctx context.Context, obj *unstructured.Unstructured) (Action, error) {
	if obj.GetNamespace() == "" {
		namespaced, err := e.cluster.IsNamespaced(obj)
		if err != nil {
			return "", err
		}
		if namespaced {
			obj.SetNamespace(e.opts.DefaultNamespace)
		}
	}

	err := e.cluster.Create(ctx, obj)
	if err == nil {
		logging.Debug("ApplyEngine", "Created %s %s", obj.GetKind(), objectKey(obj))
		return ActionCreated, nil
	}

	var status apierrors.APIStatus
	if !errors.As(err, &status) {
		return "", err
	}

	logging.Debug("ApplyEngine", "Create of %s %s rejected (%s), falling back to server-side apply",
		obj.GetKind(), objectKey(obj), apierrors.ReasonForError(err))

	if err := e.cluster.Apply(ctx, obj, e.opts.FieldManager); err != nil {
		return "", err
	}
	return ActionApplied, nil
}

func objectResult(obj *unstructured.Unstructured, action Action) ObjectResult {
	return ObjectResult{
		APIVersion: obj.GetAPIVersion(),
		Kind:       obj.GetKind(),
		Namespace:  obj.GetNamespace(),
		Name:       obj.GetName(),
		Action:     action,
	}
}

func objectKey(obj *unstructured.Unstructured) string {
	if obj.GetNamespace() == "" {
		return obj.GetName()
	}
	return obj.GetNamespace() + "/" + obj.GetName()
}
