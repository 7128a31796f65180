package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/equality"

	kubeclient "kubeautogpt/internal/client"
	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
	"kubeautogpt/pkg/logging"
)

// RecordStore is the record storage a FileDriver works against.
type RecordStore interface {
	GetRecord(ctx context.Context, name, namespace string) (*v1.KubeAutoGpts, error)
	ListRecords(ctx context.Context, namespace string) ([]v1.KubeAutoGpts, error)
	UpdateRecord(ctx context.Context, record *v1.KubeAutoGpts) error
	RecordEvent(ctx context.Context, record *v1.KubeAutoGpts, eventType, reason, message string) error
}

// FileDriverOptions configures a FileDriver.
type FileDriverOptions struct {
	Workers  int
	Debounce time.Duration

	// Watch enables the directory watch. Without it only the initial listing
	// and retries are processed.
	Watch bool
}

// FileDriver runs the Machine over a directory of record files.
//
// Each record is processed by at most one worker at a time. A file change
// only triggers a pass when the record's spec differs from what the driver
// last saw, so the driver's own status writes do not loop.
type FileDriver struct {
	store   RecordStore
	dir     string
	machine *Machine
	opts    FileDriverOptions

	queue *delayedQueue

	mu sync.Mutex
	// known holds the last record state seen or written, by name
	known map[string]*v1.KubeAutoGpts
}

// NewFileDriver creates a driver for the records in dir.
func NewFileDriver(store RecordStore, dir string, machine *Machine, opts FileDriverOptions) *FileDriver {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &FileDriver{
		store:   store,
		dir:     dir,
		machine: machine,
		opts:    opts,
		queue:   newDelayedQueue(),
		known:   make(map[string]*v1.KubeAutoGpts),
	}
}

// Run processes records until ctx is cancelled.
func (d *FileDriver) Run(ctx context.Context) error {
	records, err := d.store.ListRecords(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	for _, r := range records {
		d.queue.Add(r.Name)
	}
	logging.Info("FileDriver", "Loaded %d records from %s", len(records), d.dir)

	g, gctx := errgroup.WithContext(ctx)

	if d.opts.Watch {
		watcher := NewFileWatcher(d.dir, d.opts.Debounce)
		if err := watcher.Start(gctx, func(name string) { d.onFileChange(gctx, name) }); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d.dir, err)
		}
		defer watcher.Stop()
	}

	g.Go(func() error {
		<-gctx.Done()
		d.queue.Shutdown()
		return nil
	})

	for i := 0; i < d.opts.Workers; i++ {
		g.Go(func() error {
			d.worker(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logging.Info("FileDriver", "Stopped")
	return nil
}

func (d *FileDriver) worker(ctx context.Context) {
	for {
		name, ok := d.queue.Get(ctx)
		if !ok {
			return
		}
		after, err := d.Process(ctx, name)
		if err != nil {
			logging.Error("FileDriver", err, "Failed to process record %s", name)
		}
		if after > 0 {
			d.queue.AddAfter(name, after)
		}
		d.queue.Done(name)
	}
}

// onFileChange enqueues name unless the change only touched status.
func (d *FileDriver) onFileChange(ctx context.Context, name string) {
	record, err := d.store.GetRecord(ctx, name, "")
	if err != nil && !apierrors.IsNotFound(err) {
		logging.Warn("FileDriver", "Ignoring unreadable record %s: %v", name, err)
		return
	}

	d.mu.Lock()
	prev, seen := d.known[name]
	d.mu.Unlock()

	if record != nil && seen && equality.Semantic.DeepEqual(prev.Spec, record.Spec) {
		return
	}
	if record == nil && !seen {
		return
	}
	d.queue.Add(name)
}

// Process runs one pass for the named record and writes the result back.
// It returns the delay after which the record should be processed again,
// or zero.
func (d *FileDriver) Process(ctx context.Context, name string) (time.Duration, error) {
	record, err := d.store.GetRecord(ctx, name, "")
	if apierrors.IsNotFound(err) {
		d.forget(ctx, name)
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var result Result
	if hasObservedState(record) {
		result = d.machine.OnUpdate(ctx, record.Spec, record.Status)
	} else {
		logging.Info("FileDriver", "Creating %s", name)
		result = d.machine.OnCreate(ctx, record.Spec, record.Status)
	}

	updated := record.DeepCopy()
	updated.Spec = result.Spec
	updated.Status = result.Status

	if !equality.Semantic.DeepEqual(record.Spec, updated.Spec) ||
		!equality.Semantic.DeepEqual(record.Status, updated.Status) {
		if err := d.store.UpdateRecord(ctx, updated); err != nil {
			return 0, fmt.Errorf("failed to write record %s: %w", name, err)
		}
	}

	d.mu.Lock()
	d.known[name] = updated
	d.mu.Unlock()

	if eventType, reason, message := describeResult(updated, result); reason != "" {
		if err := d.store.RecordEvent(ctx, updated, eventType, reason, message); err != nil {
			logging.Debug("FileDriver", "Failed to record event for %s: %v", name, err)
		}
	}

	if result.Directive.Action == ActionRetry {
		return result.Directive.After, nil
	}
	return 0, nil
}

func (d *FileDriver) forget(ctx context.Context, name string) {
	d.mu.Lock()
	prev, seen := d.known[name]
	delete(d.known, name)
	d.mu.Unlock()

	if !seen {
		return
	}
	ack := d.machine.OnDelete(ctx, prev.Spec, prev.Status)
	logging.Info("FileDriver", "Record %s removed, %d applied objects left in place", name, len(ack.Objects))
}

// compile-time check
var _ RecordStore = (*kubeclient.FilesystemClient)(nil)
