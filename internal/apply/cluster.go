package apply

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Cluster is the narrow view of the Kubernetes API the engine needs.
type Cluster interface {
	// Create creates obj and fails if it already exists.
	Create(ctx context.Context, obj *unstructured.Unstructured) error

	// Apply sends obj as a server-side apply owned by fieldManager.
	Apply(ctx context.Context, obj *unstructured.Unstructured, fieldManager string) error

	// IsNamespaced reports whether obj's kind is namespace scoped. Kinds the
	// API server does not know return an error.
	IsNamespaced(obj *unstructured.Unstructured) (bool, error)
}

// ClusterOptions tunes KubeCluster.
type ClusterOptions struct {
	// ForceConflicts takes ownership of fields managed by someone else
	// instead of failing the apply.
	ForceConflicts bool
}

// KubeCluster implements Cluster with a controller-runtime client.
type KubeCluster struct {
	client client.Client
	opts   ClusterOptions
}

// NewKubeCluster wraps c.
func NewKubeCluster(c client.Client, opts ClusterOptions) *KubeCluster {
	return &KubeCluster{client: c, opts: opts}
}

// Create creates a copy of obj so that a rejected create leaves obj untouched.
func (k *KubeCluster) Create(ctx context.Context, obj *unstructured.Unstructured) error {
	return k.client.Create(ctx, obj.DeepCopy())
}

// Apply sends a copy of obj as an apply patch.
func (k *KubeCluster) Apply(ctx context.Context, obj *unstructured.Unstructured, fieldManager string) error {
	patch := obj.DeepCopy()
	patch.SetResourceVersion("")
	patch.SetManagedFields(nil)

	opts := []client.PatchOption{client.FieldOwner(fieldManager)}
	if k.opts.ForceConflicts {
		opts = append(opts, client.ForceOwnership)
	}
	return k.client.Patch(ctx, patch, client.Apply, opts...)
}

// IsNamespaced asks the client's REST mapper for obj's scope.
func (k *KubeCluster) IsNamespaced(obj *unstructured.Unstructured) (bool, error) {
	namespaced, err := k.client.IsObjectNamespaced(obj)
	if err != nil {
		return false, fmt.Errorf("failed to resolve scope of %s: %w", obj.GroupVersionKind(), err)
	}
	return namespaced, nil
}

// ErrNoCluster is returned by a DisconnectedCluster.
var ErrNoCluster = errors.New("no cluster configured")

// DisconnectedCluster fails every call. It lets dry-run records converge
// when no cluster is reachable.
type DisconnectedCluster struct{}

func (DisconnectedCluster) Create(context.Context, *unstructured.Unstructured) error {
	return ErrNoCluster
}

func (DisconnectedCluster) Apply(context.Context, *unstructured.Unstructured, string) error {
	return ErrNoCluster
}

func (DisconnectedCluster) IsNamespaced(*unstructured.Unstructured) (bool, error) {
	return false, ErrNoCluster
}
