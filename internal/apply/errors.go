package apply

import "fmt"

// ApplyError reports the object that stopped an apply run.
type ApplyError struct {
	APIVersion string
	Kind       string
	Namespace  string
	Name       string
	Err        error
}

// Error implements the error interface
func (e *ApplyError) Error() string {
	return fmt.Sprintf("failed to apply %s %s: %v", e.Kind, e.objectKey(), e.Err)
}

// Unwrap returns the underlying API or transport error.
func (e *ApplyError) Unwrap() error {
	return e.Err
}

func (e *ApplyError) objectKey() string {
	if e.Namespace == "" {
		return e.Name
	}
	return e.Namespace + "/" + e.Name
}
