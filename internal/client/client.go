package client

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"

	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
)

// EventSource is the component name on every event the controller emits.
const EventSource = "kube-autogpt"

// Event types, matching corev1.EventTypeNormal and corev1.EventTypeWarning.
const (
	EventTypeNormal  = "Normal"
	EventTypeWarning = "Warning"
)

// RecordClient reads and writes KubeAutoGpts records regardless of where
// they are stored.
type RecordClient interface {
	GetRecord(ctx context.Context, name, namespace string) (*v1.KubeAutoGpts, error)

	// ListRecords lists records in namespace, or in every namespace when
	// namespace is empty.
	ListRecords(ctx context.Context, namespace string) ([]v1.KubeAutoGpts, error)

	// UpdateRecord writes the record. Files are written whole; the
	// Kubernetes client writes metadata and spec only.
	UpdateRecord(ctx context.Context, record *v1.KubeAutoGpts) error

	RecordEvent(ctx context.Context, record *v1.KubeAutoGpts, eventType, reason, message string) error

	IsKubernetesMode() bool
}

// NewScheme returns a scheme with the client-go types and kubeautogpt.io/v1.
func NewScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(v1.AddToScheme(scheme))
	return scheme
}

// recordKey formats a record reference for logs and errors.
func recordKey(name, namespace string) string {
	if namespace == "" {
		return name
	}
	return fmt.Sprintf("%s/%s", namespace, name)
}
