package synth

import (
	"context"
	"fmt"
	"time"

	"kubeautogpt/internal/manifest"
	"kubeautogpt/internal/metrics"
	"kubeautogpt/pkg/logging"
)

// Completer is the generative text service: one request, one response text.
type Completer interface {
	Complete(ctx context.Context, model string, messages []Message) (string, error)
}

// TransportError reports that the generative service could not be reached or
// answered with an error. It is not retried here.
type TransportError struct {
	Mode Mode
	Err  error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("synthesis (%s) failed: %v", e.Mode, e.Err)
}

// Unwrap returns the transport failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Synthesizer turns synthesis requests into normalized manifest text.
type Synthesizer struct {
	completer Completer
	model     string
}

// New creates a Synthesizer that calls completer with the given model identifier.
func New(completer Completer, model string) *Synthesizer {
	return &Synthesizer{
		completer: completer,
		model:     model,
	}
}

// Model returns the model identifier sent with every call.
func (s *Synthesizer) Model() string {
	return s.model
}

// Synthesize builds the prompt for req, calls the generative service exactly
// once and returns its answer with any code fence removed.
func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (string, error) {
	messages, err := BuildMessages(req)
	if err != nil {
		return "", err
	}

	logging.Debug("Synthesizer", "Calling %s in %s mode (%d messages)", s.model, req.Mode, len(messages))

	start := time.Now()
	out, err := s.completer.Complete(ctx, s.model, messages)
	metrics.ObserveSynthesis(string(req.Mode), time.Since(start), err)
	if err != nil {
		return "", &TransportError{Mode: req.Mode, Err: err}
	}

	return manifest.Normalize(out), nil
}
