// Package synth asks a generative text service for Kubernetes manifests.
//
// A synthesis call runs in one of three modes chosen from the record's
// persisted state:
//
//   - Generate: manifests from the description alone
//   - Update: the previous manifests rewritten for a changed description
//   - Repair: the previous manifests rewritten to fix the last error
//
// Prompts are embedded templates. Every call sends a system instruction,
// one worked example and the real request, and the answer is normalized
// with manifest.Normalize before it is returned. Transport failures come
// back as *TransportError and are never retried inside this package.
package synth
