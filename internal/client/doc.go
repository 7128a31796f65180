// Package client gives uniform access to KubeAutoGpts records.
//
// Two backends implement RecordClient:
//
//   - KubernetesClient reads and writes records through controller-runtime
//     and emits corev1 Events.
//   - FilesystemClient keeps records as YAML files in one directory, one
//     record per file, and appends events to daily JSON-lines logs in an
//     events subdirectory.
//
// Both use the scheme built by NewScheme.
package client
