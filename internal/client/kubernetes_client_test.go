package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
)

func newRecord(name, namespace, description string) *v1.KubeAutoGpts {
	return &v1.KubeAutoGpts{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec:       v1.KubeAutoGptsSpec{Description: description, DryRun: true},
	}
}

func TestKubernetesClient_GetAndList(t *testing.T) {
	c := fake.NewClientBuilder().
		WithScheme(NewScheme()).
		WithObjects(
			newRecord("web", "team-b", "nginx"),
			newRecord("cache", "team-a", "redis"),
			newRecord("db", "team-a", "postgres"),
		).
		Build()
	k := NewKubernetesClient(c)

	record, err := k.GetRecord(context.Background(), "web", "team-b")
	require.NoError(t, err)
	assert.Equal(t, "nginx", record.Spec.Description)

	_, err = k.GetRecord(context.Background(), "web", "team-a")
	assert.True(t, apierrors.IsNotFound(err))

	all, err := k.ListRecords(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "cache", all[0].Name)
	assert.Equal(t, "db", all[1].Name)
	assert.Equal(t, "web", all[2].Name)

	teamA, err := k.ListRecords(context.Background(), "team-a")
	require.NoError(t, err)
	assert.Len(t, teamA, 2)
	assert.True(t, k.IsKubernetesMode())
}

func TestKubernetesClient_RecordEvent(t *testing.T) {
	record := newRecord("web", "default", "nginx")
	c := fake.NewClientBuilder().WithScheme(NewScheme()).WithObjects(record).Build()
	k := NewKubernetesClient(c)

	require.NoError(t, k.RecordEvent(context.Background(), record, EventTypeWarning, "ReconcileFailed", "apply failed"))

	events := &corev1.EventList{}
	require.NoError(t, c.List(context.Background(), events))
	require.Len(t, events.Items, 1)

	event := events.Items[0]
	assert.Equal(t, "ReconcileFailed", event.Reason)
	assert.Equal(t, EventTypeWarning, event.Type)
	assert.Equal(t, EventSource, event.Source.Component)
	assert.Equal(t, v1.Kind, event.InvolvedObject.Kind)
	assert.Equal(t, "kubeautogpt.io/v1", event.InvolvedObject.APIVersion)
	assert.Equal(t, "web", event.InvolvedObject.Name)
}
