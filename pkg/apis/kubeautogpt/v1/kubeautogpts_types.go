package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Condition types reported on KubeAutoGptsStatus.Conditions.
const (
	// ConditionSynthesized reports whether the last call to the generator succeeded.
	ConditionSynthesized = "Synthesized"

	// ConditionApplied reports whether the last generated manifest set was applied.
	ConditionApplied = "Applied"

	// ConditionReady is true when the record is converged.
	ConditionReady = "Ready"
)

// KubeAutoGptsSpec defines the desired state of KubeAutoGpts
type KubeAutoGptsSpec struct {
	// Description is the free-text description of the desired infrastructure.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MinLength=1
	Description string `json:"description" yaml:"description"`

	// ExpectedObjects holds the last generated multi-document manifest text,
	// without the comments document. It is maintained by the controller and
	// used as context when the description changes.
	ExpectedObjects string `json:"expectedObjects,omitempty" yaml:"expectedObjects,omitempty"`

	// DryRun runs synthesis and records the result without touching the cluster.
	// +kubebuilder:default=true
	DryRun bool `json:"dryRun" yaml:"dryRun"`
}

// CreatedObject references an object the controller has applied on behalf of a record.
type CreatedObject struct {
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`
	Kind       string `json:"kind" yaml:"kind"`
	Namespace  string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name       string `json:"name" yaml:"name"`

	// Transaction identifies the reconciliation attempt that last applied the object.
	Transaction string `json:"transaction,omitempty" yaml:"transaction,omitempty"`
}

// KubeAutoGptsStatus defines the observed state of KubeAutoGpts
type KubeAutoGptsStatus struct {
	// CreatedObjects lists the objects applied so far.
	CreatedObjects []CreatedObject `json:"createdObjects,omitempty" yaml:"createdObjects,omitempty"`

	// Error is the diagnostic of the last failed reconciliation. It is empty
	// once a reconciliation succeeds.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Comments are the advisory notes returned by the generator with the most
	// recent manifest set.
	Comments []string `json:"comments,omitempty" yaml:"comments,omitempty"`

	// RepairAttempts counts consecutive failed attempts since the last success.
	// +kubebuilder:validation:Minimum=0
	RepairAttempts int32 `json:"repairAttempts,omitempty" yaml:"repairAttempts,omitempty"`

	// ObservedDigest is the digest of description and expectedObjects as of the
	// last completed attempt.
	ObservedDigest string `json:"observedDigest,omitempty" yaml:"observedDigest,omitempty"`

	// LastAttemptTime is when error was last written.
	LastAttemptTime *metav1.Time `json:"lastAttemptTime,omitempty" yaml:"lastAttemptTime,omitempty"`

	// Conditions represent the latest available observations of the record.
	Conditions []metav1.Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=kag
// +kubebuilder:printcolumn:name="DryRun",type="boolean",JSONPath=".spec.dryRun"
// +kubebuilder:printcolumn:name="Ready",type="string",JSONPath=".status.conditions[?(@.type==\"Ready\")].status"
// +kubebuilder:printcolumn:name="Attempts",type="integer",JSONPath=".status.repairAttempts"
// +kubebuilder:printcolumn:name="Error",type="string",JSONPath=".status.error",priority=1
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// KubeAutoGpts is the Schema for the kubeautogpts API
type KubeAutoGpts struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   KubeAutoGptsSpec   `json:"spec,omitempty"`
	Status KubeAutoGptsStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// KubeAutoGptsList contains a list of KubeAutoGpts
type KubeAutoGptsList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []KubeAutoGpts `json:"items"`
}

func init() {
	SchemeBuilder.Register(&KubeAutoGpts{}, &KubeAutoGptsList{})
}
