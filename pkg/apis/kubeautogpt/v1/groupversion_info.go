package v1

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

const (
	// Group is the API group of the desired-state records.
	Group = "kubeautogpt.io"

	// Version is the served and stored API version.
	Version = "v1"

	// Plural is the resource name used in REST paths.
	Plural = "kubeautogpts"

	// Kind is the kind of the desired-state record.
	Kind = "KubeAutoGpts"
)

var (
	// GroupVersion is group version used to register these objects.
	GroupVersion = schema.GroupVersion{Group: Group, Version: Version}

	// SchemeBuilder is used to add go types to the GroupVersionKind scheme.
	SchemeBuilder = &scheme.Builder{GroupVersion: GroupVersion}

	// AddToScheme adds the types in this group-version to the given scheme.
	AddToScheme = SchemeBuilder.AddToScheme
)
