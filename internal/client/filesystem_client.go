package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/yaml"

	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
	"kubeautogpt/pkg/logging"
)

// DefaultNamespace is given to records stored without one.
const DefaultNamespace = "default"

// eventsDirName holds event logs next to the records.
const eventsDirName = "events"

// FilesystemClient implements RecordClient over a directory of YAML files.
//
// Each record lives in {basePath}/{name}.yaml. The file name is the record's
// identity; metadata.name is filled from it when missing.
type FilesystemClient struct {
	basePath string
	now      func() time.Time
}

// NewFilesystemClient creates a client rooted at basePath.
func NewFilesystemClient(basePath string) *FilesystemClient {
	if basePath == "" {
		basePath = "."
	}
	return &FilesystemClient{basePath: basePath, now: time.Now}
}

// BasePath returns the directory holding the records.
func (f *FilesystemClient) BasePath() string {
	return f.basePath
}

// RecordPath returns the file a record named name is stored in.
func (f *FilesystemClient) RecordPath(name string) string {
	return filepath.Join(f.basePath, name+".yaml")
}

// GetRecord reads a record file. The namespace is only checked when given.
func (f *FilesystemClient) GetRecord(_ context.Context, name, namespace string) (*v1.KubeAutoGpts, error) {
	path, err := f.findRecordFile(name)
	if err != nil {
		return nil, err
	}

	record, err := f.readRecord(path, name)
	if err != nil {
		return nil, err
	}
	if namespace != "" && record.Namespace != namespace {
		return nil, notFound(name)
	}
	return record, nil
}

// ListRecords reads every YAML file in the base directory. Unreadable files
// are logged and skipped.
func (f *FilesystemClient) ListRecords(_ context.Context, namespace string) ([]v1.KubeAutoGpts, error) {
	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []v1.KubeAutoGpts{}, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", f.basePath, err)
	}

	records := []v1.KubeAutoGpts{}
	for _, entry := range entries {
		if entry.IsDir() || !IsYAMLFile(entry.Name()) {
			continue
		}

		record, err := f.readRecord(filepath.Join(f.basePath, entry.Name()), NameFromFileName(entry.Name()))
		if err != nil {
			logging.Error("FilesystemClient", err, "Failed to load record %s", entry.Name())
			continue
		}
		if namespace != "" && record.Namespace != namespace {
			continue
		}
		records = append(records, *record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

// UpdateRecord writes the whole record, spec and status alike.
func (f *FilesystemClient) UpdateRecord(_ context.Context, record *v1.KubeAutoGpts) error {
	return f.writeRecord(record)
}

// RecordEvent appends a JSON line to {basePath}/events/events-{date}.json.
func (f *FilesystemClient) RecordEvent(_ context.Context, record *v1.KubeAutoGpts, eventType, reason, message string) error {
	eventsDir := filepath.Join(f.basePath, eventsDirName)
	if err := os.MkdirAll(eventsDir, 0755); err != nil {
		return fmt.Errorf("failed to create events directory: %w", err)
	}

	now := f.now()
	line, err := json.Marshal(FileEvent{
		Timestamp: now,
		Namespace: record.Namespace,
		Name:      record.Name,
		Kind:      v1.Kind,
		Reason:    reason,
		Message:   message,
		Type:      eventType,
		Source:    EventSource,
	})
	if err != nil {
		return err
	}

	path := filepath.Join(eventsDir, fmt.Sprintf("events-%s.json", now.Format("2006-01-02")))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(append(line, '\n'))
	return err
}

// IsKubernetesMode always returns false.
func (f *FilesystemClient) IsKubernetesMode() bool {
	return false
}

// FileEvent is one line of a filesystem event log.
type FileEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Namespace string    `json:"namespace"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Reason    string    `json:"reason"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
}

func (f *FilesystemClient) findRecordFile(name string) (string, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(f.basePath, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", notFound(name)
}

func (f *FilesystemClient) readRecord(path, name string) (*v1.KubeAutoGpts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("failed to read record file %s: %w", path, err)
	}

	// Matches the CRD default for files that omit spec.dryRun.
	record := v1.KubeAutoGpts{Spec: v1.KubeAutoGptsSpec{DryRun: true}}
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record from %s: %w", path, err)
	}

	if record.Name == "" {
		record.Name = name
	}
	if record.Namespace == "" {
		record.Namespace = DefaultNamespace
	}
	if record.APIVersion == "" {
		record.APIVersion = v1.GroupVersion.String()
	}
	if record.Kind == "" {
		record.Kind = v1.Kind
	}
	return &record, nil
}

// writeRecord replaces the record file atomically.
func (f *FilesystemClient) writeRecord(record *v1.KubeAutoGpts) error {
	if record.Name == "" {
		return fmt.Errorf("record has no name")
	}

	path, err := f.findRecordFile(record.Name)
	if err != nil {
		path = f.RecordPath(record.Name)
	}

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", record.Name, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", record.Name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write record %s: %w", record.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write record %s: %w", record.Name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace record file %s: %w", path, err)
	}
	return nil
}

func notFound(name string) error {
	return errors.NewNotFound(schema.GroupResource{Group: v1.Group, Resource: v1.Plural}, name)
}

// IsYAMLFile reports whether filename has a YAML extension.
func IsYAMLFile(filename string) bool {
	ext := filepath.Ext(filename)
	return ext == ".yaml" || ext == ".yml"
}

// NameFromFileName strips the extension from filename.
func NameFromFileName(filename string) string {
	base := filepath.Base(filename)
	return base[:len(base)-len(filepath.Ext(base))]
}
