package manifest

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// commentsKey is the only key of the comments pseudo-document.
const commentsKey = "comments"

// IsComments reports whether obj is the comments pseudo-document: it has a
// comments key and neither apiVersion nor kind.
func IsComments(obj *unstructured.Unstructured) bool {
	if obj == nil {
		return false
	}
	if _, ok := obj.Object[commentsKey]; !ok {
		return false
	}
	_, hasAPIVersion := obj.Object["apiVersion"]
	_, hasKind := obj.Object["kind"]
	return !hasAPIVersion && !hasKind
}

// SplitComments separates the comments pseudo-document from real manifests.
//
// found reports whether a comments document was present. The generator is
// asked for at most one; if it sends several their entries are concatenated
// in document order.
func SplitComments(objs []*unstructured.Unstructured) (manifests []*unstructured.Unstructured, comments []string, found bool) {
	for _, obj := range objs {
		if !IsComments(obj) {
			manifests = append(manifests, obj)
			continue
		}
		found = true
		comments = append(comments, commentLines(obj.Object[commentsKey])...)
	}
	return manifests, comments, found
}

func commentLines(v interface{}) []string {
	switch c := v.(type) {
	case nil:
		return nil
	case string:
		return []string{c}
	case []interface{}:
		lines := make([]string, 0, len(c))
		for _, item := range c {
			if s, ok := item.(string); ok {
				lines = append(lines, s)
				continue
			}
			lines = append(lines, fmt.Sprint(item))
		}
		return lines
	default:
		return []string{fmt.Sprint(c)}
	}
}
