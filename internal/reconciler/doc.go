// Package reconciler implements the reconciliation state machine for
// KubeAutoGpts records and the runtimes that drive it.
//
// # Overview
//
// A Machine takes a record's spec and status, decides what to do and returns
// the new spec, the new status and a Directive telling the runtime whether to
// retry. It keeps no per-record state of its own:
//
//   - Fresh record: synthesize in Generate mode, decode, apply.
//   - Description changed: synthesize in Update mode from the stored manifests.
//   - Last attempt failed: synthesize in Repair mode with the stored error.
//   - Converged and unchanged: re-apply the stored manifests.
//
// Consecutive failures are counted in status.repairAttempts. Once the count
// reaches the configured budget the record is terminal until its
// description or manifests change.
//
// # Runtimes
//
// Two runtimes drive the same Machine:
//
//   - Controller: a controller-runtime reconciler for KubeAutoGpts resources.
//     It holds a finalizer so deletions are acknowledged, writes status and
//     spec back with merge patches and emits Kubernetes events.
//   - FileDriver: runs over a directory of record YAML files, watched with
//     fsnotify. A deduplicating queue keeps each record on at most one
//     worker, and results are written back into the file only when they
//     changed.
//
// Objects are never deleted. Removing a record leaves everything it applied
// in place.
package reconciler
