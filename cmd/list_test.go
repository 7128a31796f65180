package cmd

import (
	"bytes"
	"strings"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"kubeautogpt/internal/reconciler"
	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
)

func TestRenderRecords(t *testing.T) {
	items := []v1.KubeAutoGpts{
		{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "default"},
			Spec:       v1.KubeAutoGptsSpec{Description: "nginx", ExpectedObjects: "kind: Service"},
			Status: v1.KubeAutoGptsStatus{
				CreatedObjects: []v1.CreatedObject{{APIVersion: "v1", Kind: "Service", Name: "web"}},
				Comments:       []string{"exposes port 80"},
			},
		},
		{
			ObjectMeta: metav1.ObjectMeta{Name: "db", Namespace: "data"},
			Spec:       v1.KubeAutoGptsSpec{Description: "postgres", ExpectedObjects: "kind: StatefulSet"},
			Status: v1.KubeAutoGptsStatus{
				Error:          "failed to apply StatefulSet data/db: " + strings.Repeat("x", 100),
				RepairAttempts: 5,
			},
		},
	}

	var buf bytes.Buffer
	renderRecords(&buf, items, 5, true)
	out := buf.String()

	for _, want := range []string{"NAME", "NAMESPACE", "data", "web", "db", "Converged", "Exhausted", "..."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("x", 100)) {
		t.Error("expected long errors to be truncated")
	}
}

func TestRenderRecordsEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderRecords(&buf, nil, 5, false)
	if !strings.Contains(buf.String(), "No records found") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRenderRecordsWithoutNamespace(t *testing.T) {
	items := []v1.KubeAutoGpts{{
		ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "default"},
		Spec:       v1.KubeAutoGptsSpec{Description: "nginx"},
	}}

	var buf bytes.Buffer
	renderRecords(&buf, items, 5, false)
	out := buf.String()

	if strings.Contains(out, "NAMESPACE") {
		t.Errorf("expected no namespace column:\n%s", out)
	}
	if !strings.Contains(out, "Fresh") {
		t.Errorf("expected a fresh record:\n%s", out)
	}
}

func TestErrorColumn(t *testing.T) {
	unavailable := v1.KubeAutoGptsStatus{
		Conditions: []metav1.Condition{{
			Type:    v1.ConditionSynthesized,
			Status:  metav1.ConditionFalse,
			Reason:  reconciler.ReasonTransportError,
			Message: "connection refused",
		}},
	}
	if got := errorColumn(unavailable); got != "generator unavailable: connection refused" {
		t.Errorf("errorColumn() = %q", got)
	}

	unavailable.Error = "failed to apply Deployment default/web"
	if got := errorColumn(unavailable); got != unavailable.Error {
		t.Errorf("expected status.error to win, got %q", got)
	}

	if got := errorColumn(v1.KubeAutoGptsStatus{}); got != "" {
		t.Errorf("expected an empty column, got %q", got)
	}
}
