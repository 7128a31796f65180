package manifest

import (
	"fmt"
)

// ParseError is returned when manifest text cannot be turned into objects.
//
// It is terminal for the current reconciliation attempt; the diagnostic is
// fed back to the generator on the next attempt.
type ParseError struct {
	// Index is the zero-based position of the offending document.
	Index int

	// Document is the text of the offending document.
	Document string

	// Err is the underlying parser diagnostic.
	Err error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing manifest document %d: %v", e.Index, e.Err)
}

// Unwrap returns the parser diagnostic.
func (e *ParseError) Unwrap() error {
	return e.Err
}
