package synth

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(
	template.New("prompts").Funcs(sprig.TxtFuncMap()).ParseFS(promptFS, "prompts/*.tmpl"),
)

// ErrInvalidRequest is returned for requests that lack the inputs their mode needs.
var ErrInvalidRequest = errors.New("invalid synthesis request")

// Role tags a prompt message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged prompt message.
type Message struct {
	Role    Role
	Content string
}

// Request holds the inputs of one synthesis call.
type Request struct {
	Mode Mode

	// Description is the user's free-text intent. Required for every mode.
	Description string

	// CurrentManifest is the previously generated manifest text. Required for
	// Update and Repair.
	CurrentManifest string

	// Error is the diagnostic of the last failed attempt. Required for Repair.
	Error string
}

// Validate checks that the request carries what its mode needs.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("%w: description is empty", ErrInvalidRequest)
	}

	switch r.Mode {
	case ModeGenerate:
	case ModeUpdate:
		if strings.TrimSpace(r.CurrentManifest) == "" {
			return fmt.Errorf("%w: update needs the current manifest", ErrInvalidRequest)
		}
	case ModeRepair:
		if strings.TrimSpace(r.CurrentManifest) == "" {
			return fmt.Errorf("%w: repair needs the current manifest", ErrInvalidRequest)
		}
		if strings.TrimSpace(r.Error) == "" {
			return fmt.Errorf("%w: repair needs the last error", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, r.Mode)
	}
	return nil
}

// example returns the worked exchange shown before the real request.
func example(mode Mode) (Request, string) {
	switch mode {
	case ModeUpdate:
		return Request{
			Mode:            ModeUpdate,
			Description:     exampleUpdatedDescription,
			CurrentManifest: exampleManifest,
		}, exampleScaledManifest
	case ModeRepair:
		return Request{
			Mode:            ModeRepair,
			Description:     exampleUpdatedDescription,
			CurrentManifest: exampleBrokenManifest,
			Error:           exampleApplyError,
		}, exampleScaledManifest
	default:
		return Request{
			Mode:        ModeGenerate,
			Description: exampleDescription,
		}, exampleManifest
	}
}

// BuildMessages renders the prompt for a request.
//
// The result is deterministic: a system instruction, one worked example as a
// user/assistant pair, then the request itself.
func BuildMessages(req Request) ([]Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	system, err := render("system_"+string(req.Mode), nil)
	if err != nil {
		return nil, err
	}

	exampleReq, exampleAnswer := example(req.Mode)
	exampleUser, err := render("user_"+string(req.Mode), exampleReq)
	if err != nil {
		return nil, err
	}

	user, err := render("user_"+string(req.Mode), req)
	if err != nil {
		return nil, err
	}

	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: exampleUser},
		{Role: RoleAssistant, Content: exampleAnswer},
		{Role: RoleUser, Content: user},
	}, nil
}

func render(name string, data interface{}) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}
