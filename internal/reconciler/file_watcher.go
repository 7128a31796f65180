package reconciler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	kubeclient "kubeautogpt/internal/client"
	"kubeautogpt/pkg/logging"
)

// DefaultDebounceInterval is how long FileWatcher waits for a file to settle.
const DefaultDebounceInterval = 500 * time.Millisecond

// FileWatcher reports record files that changed in a directory. Bursts of
// events for the same file are collapsed into one notification.
type FileWatcher struct {
	mu sync.Mutex

	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher

	// pending maps record names to their debounce timers
	pending map[string]*time.Timer

	stopCh  chan struct{}
	running bool
}

// NewFileWatcher creates a watcher for dir.
func NewFileWatcher(dir string, debounce time.Duration) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}
	return &FileWatcher{
		dir:      dir,
		debounce: debounce,
		pending:  make(map[string]*time.Timer),
	}
}

// Start watches the directory, creating it if needed, and calls notify with
// the record name of every settled change. notify runs on a timer goroutine.
func (w *FileWatcher) Start(ctx context.Context, notify func(name string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return err
	}

	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.running = true

	go w.processEvents(ctx, watcher, w.stopCh, notify)

	logging.Info("FileWatcher", "Watching %s for record changes", w.dir)
	return nil
}

func (w *FileWatcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, stopCh chan struct{}, notify func(string)) {
	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return
		case <-stopCh:
			w.cancelPending()
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, notify)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("FileWatcher", err, "Watcher error")
		}
	}
}

func (w *FileWatcher) handleEvent(event fsnotify.Event, notify func(string)) {
	name, ok := w.recordName(event.Name)
	if !ok {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[name]; ok {
		timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		current := w.pending[name] == timer
		if current {
			delete(w.pending, name)
		}
		w.mu.Unlock()

		if current {
			logging.Debug("FileWatcher", "Record %s changed (%s)", name, event.Op)
			notify(name)
		}
	})
	w.pending[name] = timer
}

// recordName maps a path directly inside the watched directory to a record
// name. Hidden files, such as in-progress atomic writes, are ignored.
func (w *FileWatcher) recordName(path string) (string, bool) {
	if filepath.Dir(path) != filepath.Clean(w.dir) {
		return "", false
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !kubeclient.IsYAMLFile(base) {
		return "", false
	}
	return kubeclient.NameFromFileName(base), true
}

func (w *FileWatcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, timer := range w.pending {
		timer.Stop()
	}
	w.pending = make(map[string]*time.Timer)
}

// Stop ends the watch. Pending notifications are dropped.
func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)

	err := w.watcher.Close()
	w.watcher = nil
	logging.Debug("FileWatcher", "Stopped watching %s", w.dir)
	return err
}
