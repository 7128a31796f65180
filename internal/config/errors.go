package config

import "fmt"

// Error types reported by ConfigurationError.
const (
	ErrorTypeIO         = "io"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
)

// ConfigurationError reports a config file that could not be used.
type ConfigurationError struct {
	FilePath  string
	ErrorType string
	Message   string

	// Err is the underlying error, if any. For validation failures it is a
	// ValidationErrors.
	Err error
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	return fmt.Sprintf("%s error in %s: %s", ce.ErrorType, ce.FilePath, ce.Message)
}

func (ce *ConfigurationError) Unwrap() error {
	return ce.Err
}
