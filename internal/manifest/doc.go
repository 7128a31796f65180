// Package manifest turns generator output into Kubernetes objects and back.
//
// The generator is asked for plain multi-document YAML but routinely wraps
// its answer in a markdown code fence. Normalize removes that wrapping,
// Decode splits the text on document separators and decodes every document
// into an unstructured object, and Encode renders a sequence of objects back
// into the multi-document form that is persisted in spec.expectedObjects.
//
// A response may carry one extra pseudo-document of the form
//
//	comments:
//	  - "free text for the user"
//
// which is never applied to the cluster. SplitComments separates it from the
// real manifests.
package manifest
