package client

import (
	"context"
	"fmt"
	"sort"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"

	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
)

// KubernetesClient implements RecordClient with a controller-runtime client.
type KubernetesClient struct {
	client client.Client
}

// New creates a controller-runtime client for config with NewScheme.
func New(config *rest.Config) (client.Client, error) {
	c, err := client.New(config, client.Options{
		Scheme: NewScheme(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}
	return c, nil
}

// NewKubernetesClient wraps an existing controller-runtime client, such as
// the one owned by a manager.
func NewKubernetesClient(c client.Client) *KubernetesClient {
	return &KubernetesClient{client: c}
}

// GetRecord fetches a record by name and namespace.
func (k *KubernetesClient) GetRecord(ctx context.Context, name, namespace string) (*v1.KubeAutoGpts, error) {
	record := &v1.KubeAutoGpts{}
	if err := k.client.Get(ctx, types.NamespacedName{Name: name, Namespace: namespace}, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListRecords lists records sorted by namespace and name.
func (k *KubernetesClient) ListRecords(ctx context.Context, namespace string) ([]v1.KubeAutoGpts, error) {
	list := &v1.KubeAutoGptsList{}
	var opts []client.ListOption
	if namespace != "" {
		opts = append(opts, client.InNamespace(namespace))
	}
	if err := k.client.List(ctx, list, opts...); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	sort.Slice(list.Items, func(i, j int) bool {
		if list.Items[i].Namespace != list.Items[j].Namespace {
			return list.Items[i].Namespace < list.Items[j].Namespace
		}
		return list.Items[i].Name < list.Items[j].Name
	})
	return list.Items, nil
}

// UpdateRecord writes the record's metadata and spec.
func (k *KubernetesClient) UpdateRecord(ctx context.Context, record *v1.KubeAutoGpts) error {
	return k.client.Update(ctx, record)
}

// RecordEvent creates a Kubernetes Event for record.
func (k *KubernetesClient) RecordEvent(ctx context.Context, record *v1.KubeAutoGpts, eventType, reason, message string) error {
	now := metav1.NewTime(time.Now())
	event := &corev1.Event{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: record.GetName() + "-",
			Namespace:    record.GetNamespace(),
		},
		InvolvedObject: corev1.ObjectReference{
			APIVersion:      v1.GroupVersion.String(),
			Kind:            v1.Kind,
			Name:            record.GetName(),
			Namespace:       record.GetNamespace(),
			UID:             record.GetUID(),
			ResourceVersion: record.GetResourceVersion(),
		},
		Reason:         reason,
		Message:        message,
		Type:           eventType,
		Source:         corev1.EventSource{Component: EventSource},
		FirstTimestamp: now,
		LastTimestamp:  now,
		Count:          1,
	}

	if err := k.client.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create event for %s: %w", recordKey(record.GetName(), record.GetNamespace()), err)
	}
	return nil
}

// IsKubernetesMode always returns true.
func (k *KubernetesClient) IsKubernetesMode() bool {
	return true
}
