// Package v1 contains API Schema definitions for the kubeautogpt v1 API group.
//
// # API Group: kubeautogpt.io/v1
//
// ## KubeAutoGpts
//
// KubeAutoGpts is a desired-state record: a free-text description of the
// infrastructure a user wants on the cluster. The controller turns the
// description into manifests, applies them, and keeps the last generated
// manifest set in spec.expectedObjects so that later edits of the description
// are synthesized as updates of that set.
//
// Example:
//
//	apiVersion: kubeautogpt.io/v1
//	kind: KubeAutoGpts
//	metadata:
//	  name: nginx
//	  namespace: default
//	spec:
//	  description: deploy nginx on port 8080 with a LoadBalancer service
//	  dryRun: false
//
// The status carries the last error (if any), the comments returned by the
// generator, and references to the objects applied so far.
//
// +kubebuilder:object:generate=true
// +groupName=kubeautogpt.io
package v1
