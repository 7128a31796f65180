package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/yaml"
)

// documentSeparator joins encoded documents.
const documentSeparator = "\n---\n"

// Decode parses multi-document manifest text into objects, preserving order.
//
// Empty documents (including documents that only hold YAML comments) are
// skipped. A document that is not a mapping, or that fails to parse, aborts
// decoding with a *ParseError; nothing is silently dropped.
func Decode(text string) ([]*unstructured.Unstructured, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(strings.NewReader(text)))

	var objs []*unstructured.Unstructured
	for index := 0; ; index++ {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Index: index, Err: err}
		}
		if strings.TrimSpace(string(doc)) == "" {
			continue
		}

		var obj map[string]interface{}
		if err := utilyaml.Unmarshal(doc, &obj); err != nil {
			return nil, &ParseError{Index: index, Document: string(doc), Err: err}
		}
		if len(obj) == 0 {
			continue
		}
		objs = append(objs, &unstructured.Unstructured{Object: obj})
	}

	return objs, nil
}

// Encode renders objects as multi-document YAML in the given order.
func Encode(objs []*unstructured.Unstructured) (string, error) {
	docs := make([]string, 0, len(objs))
	for i, obj := range objs {
		data, err := yaml.Marshal(obj.Object)
		if err != nil {
			return "", fmt.Errorf("failed to encode manifest document %d: %w", i, err)
		}
		docs = append(docs, strings.TrimRight(string(data), "\n"))
	}
	return strings.Join(docs, documentSeparator), nil
}

// Validate checks that every object can be addressed on the cluster.
func Validate(objs []*unstructured.Unstructured) error {
	for i, obj := range objs {
		var missing []string
		if obj.GetAPIVersion() == "" {
			missing = append(missing, "apiVersion")
		}
		if obj.GetKind() == "" {
			missing = append(missing, "kind")
		}
		if len(missing) == 0 {
			continue
		}

		data, _ := yaml.Marshal(obj.Object)
		return &ParseError{
			Index:    i,
			Document: string(data),
			Err:      fmt.Errorf("object is missing %s", strings.Join(missing, " and ")),
		}
	}
	return nil
}
