package reconciler

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	kubeclient "kubeautogpt/internal/client"
	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
)

func newTestStore(t *testing.T, records ...*v1.KubeAutoGpts) *kubeclient.FilesystemClient {
	t.Helper()
	store := kubeclient.NewFilesystemClient(t.TempDir())
	for _, r := range records {
		if err := store.UpdateRecord(context.Background(), r); err != nil {
			t.Fatalf("failed to seed record %s: %v", r.Name, err)
		}
	}
	return store
}

func fileRecord(name, description string) *v1.KubeAutoGpts {
	return &v1.KubeAutoGpts{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec:       v1.KubeAutoGptsSpec{Description: description},
	}
}

func TestFileDriver_ProcessConverges(t *testing.T) {
	store := newTestStore(t, fileRecord("web", "nginx with a service"))
	s := &scriptedSynthesizer{responses: []string{deploymentYAML + "\n---\n" + serviceYAML}}
	a := &fakeApplier{}
	d := NewFileDriver(store, store.BasePath(), newTestMachine(s, a, newClock(), 5), FileDriverOptions{})

	after, err := d.Process(context.Background(), "web")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if after != 0 {
		t.Errorf("expected no retry, got %v", after)
	}

	record, err := store.GetRecord(context.Background(), "web", "")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if record.Spec.ExpectedObjects == "" {
		t.Error("expected expectedObjects to be written back")
	}
	if len(record.Status.CreatedObjects) != 2 {
		t.Errorf("expected 2 created objects, got %+v", record.Status.CreatedObjects)
	}
	if record.Spec.Description != "nginx with a service" {
		t.Error("description must never be modified")
	}
}

func TestFileDriver_RecordWithoutDryRunKeyIsDryRun(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.RecordPath("web"), []byte("spec:\n  description: deploy nginx on port 8080\n"), 0644); err != nil {
		t.Fatalf("failed to write record file: %v", err)
	}
	s := &scriptedSynthesizer{responses: []string{deploymentYAML}}
	a := &fakeApplier{}
	d := NewFileDriver(store, store.BasePath(), newTestMachine(s, a, newClock(), 5), FileDriverOptions{})

	if _, err := d.Process(context.Background(), "web"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(a.dryRuns) != 1 || !a.dryRuns[0] {
		t.Errorf("expected a single dry-run apply, got %v", a.dryRuns)
	}

	record, err := store.GetRecord(context.Background(), "web", "")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if !record.Spec.DryRun {
		t.Error("expected dryRun to stay true after write-back")
	}
	if len(record.Status.CreatedObjects) != 0 {
		t.Errorf("dry run must not track objects, got %+v", record.Status.CreatedObjects)
	}
}

func TestFileDriver_ProcessFailureSchedulesRetry(t *testing.T) {
	store := newTestStore(t, fileRecord("web", "nginx"))
	s := &scriptedSynthesizer{errs: []error{errors.New("connection refused")}}
	d := NewFileDriver(store, store.BasePath(), newTestMachine(s, &fakeApplier{}, newClock(), 5), FileDriverOptions{})

	after, err := d.Process(context.Background(), "web")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if after != time.Minute {
		t.Errorf("expected retry after 1m, got %v", after)
	}

	record, _ := store.GetRecord(context.Background(), "web", "")
	if record.Status.Error != "" {
		t.Errorf("transport errors must not be written to status.error, got %q", record.Status.Error)
	}
	if conditionStatus(record.Status, v1.ConditionSynthesized) != metav1.ConditionFalse {
		t.Error("expected Synthesized=False to be written back")
	}
}

func TestFileDriver_ProcessUnchangedDoesNotWrite(t *testing.T) {
	exhausted := fileRecord("web", "nginx")
	exhausted.Spec.ExpectedObjects = deploymentYAML
	exhausted.Status.Error = "failed to apply Deployment default/web: invalid"
	exhausted.Status.RepairAttempts = 5
	exhausted.Status.ObservedDigest = Digest("nginx", deploymentYAML)
	store := newTestStore(t, exhausted)

	path := store.RecordPath("web")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read record file: %v", err)
	}

	s := &scriptedSynthesizer{}
	d := NewFileDriver(store, store.BasePath(), newTestMachine(s, &fakeApplier{}, newClock(), 5), FileDriverOptions{})
	if _, err := d.Process(context.Background(), "web"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("expected an exhausted record to be left untouched")
	}
	if len(s.requests) != 0 {
		t.Errorf("expected no synthesis calls, got %d", len(s.requests))
	}
}

func TestFileDriver_ProcessRemovedRecord(t *testing.T) {
	store := newTestStore(t, fileRecord("web", "nginx"))
	s := &scriptedSynthesizer{responses: []string{deploymentYAML}}
	a := &fakeApplier{}
	d := NewFileDriver(store, store.BasePath(), newTestMachine(s, a, newClock(), 5), FileDriverOptions{})

	if _, err := d.Process(context.Background(), "web"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if err := os.Remove(store.RecordPath("web")); err != nil {
		t.Fatalf("failed to remove record file: %v", err)
	}
	if _, err := d.Process(context.Background(), "web"); err != nil {
		t.Fatalf("Process() after removal error = %v", err)
	}

	if len(a.calls) != 1 {
		t.Errorf("removal must not apply anything, got %d apply calls", len(a.calls))
	}
	d.mu.Lock()
	_, known := d.known["web"]
	d.mu.Unlock()
	if known {
		t.Error("expected removed record to be forgotten")
	}
}

func TestFileDriver_StatusOnlyChangeIsIgnored(t *testing.T) {
	store := newTestStore(t, fileRecord("web", "nginx"))
	s := &scriptedSynthesizer{responses: []string{deploymentYAML}}
	d := NewFileDriver(store, store.BasePath(), newTestMachine(s, &fakeApplier{}, newClock(), 5), FileDriverOptions{})

	if _, err := d.Process(context.Background(), "web"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	d.onFileChange(context.Background(), "web")
	if d.queue.Len() != 0 {
		t.Error("the driver's own write must not requeue the record")
	}

	record, _ := store.GetRecord(context.Background(), "web", "")
	record.Spec.Description = "nginx with 3 replicas"
	if err := store.UpdateRecord(context.Background(), record); err != nil {
		t.Fatalf("UpdateRecord() error = %v", err)
	}
	d.onFileChange(context.Background(), "web")
	if d.queue.Len() != 1 {
		t.Error("a description change must requeue the record")
	}
}

func TestFileDriver_RunWatchesDirectory(t *testing.T) {
	store := newTestStore(t)
	s := &scriptedSynthesizer{responses: []string{deploymentYAML}}
	a := &fakeApplier{}
	d := NewFileDriver(store, store.BasePath(), newTestMachine(s, a, newClock(), 5), FileDriverOptions{
		Workers:  2,
		Debounce: 20 * time.Millisecond,
		Watch:    true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	// Give the watcher time to start.
	time.Sleep(100 * time.Millisecond)
	if err := store.UpdateRecord(context.Background(), fileRecord("web", "nginx")); err != nil {
		t.Fatalf("UpdateRecord() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		record, err := store.GetRecord(context.Background(), "web", "")
		if err == nil && record.Spec.ExpectedObjects != "" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("record was not reconciled")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if len(s.requests) != 1 {
		t.Errorf("expected exactly one synthesis call, got %d", len(s.requests))
	}
}
