package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codepad/internal/language"
	"codepad/internal/model"
	"codepad/internal/service"
)

// Action names a button on the page.
type Action string

const (
	ActionHighlight Action = "highlight"
	ActionSave      Action = "save"
)

// Status selects the banner an Outcome is shown in.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Command is one button press with the form contents at that moment.
type Command struct {
	Action   Action
	Code     string
	Language string
}

// Outcome is what the page shows after a Command.
type Outcome struct {
	Status   Status
	Message  string
	Path     string
	Document *model.HighlightedDocument
}

// Dispatcher routes commands to their handlers.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd Command) Outcome
}

// Shell dispatches commands to the snippet and highlight services.
// It keeps no state between commands.
type Shell struct {
	snippets   service.SnippetService
	highlights service.HighlightService
	registry   *language.Registry
	metrics    *Metrics
}

var _ Dispatcher = (*Shell)(nil)

// New returns a Shell. metrics may be nil.
func New(snippets service.SnippetService, highlights service.HighlightService, registry *language.Registry, metrics *Metrics) *Shell {
	return &Shell{snippets: snippets, highlights: highlights, registry: registry, metrics: metrics}
}

// Dispatch runs cmd to completion. It never returns an error: failures are
// reported as StatusError outcomes.
func (s *Shell) Dispatch(ctx context.Context, cmd Command) Outcome {
	var out Outcome
	action := cmd.Action
	switch cmd.Action {
	case ActionSave:
		out = s.save(ctx, cmd)
	case ActionHighlight:
		out = s.highlight(ctx, cmd)
	default:
		out = Outcome{Status: StatusError, Message: fmt.Sprintf("Unknown action %q.", cmd.Action)}
		action = "unknown"
	}
	s.metrics.observe(action, s.languageLabel(cmd.Language), out.Status)
	return out
}

// languageLabel keeps metric label values within the registry.
func (s *Shell) languageLabel(name string) string {
	if _, ok := s.registry.Lookup(name); ok {
		return name
	}
	return "other"
}

func blank(code string) bool {
	return strings.TrimSpace(code) == ""
}

func (s *Shell) save(ctx context.Context, cmd Command) Outcome {
	if blank(cmd.Code) {
		return Outcome{Status: StatusWarning, Message: "Please enter some code before saving."}
	}
	snip, err := s.snippets.Save(ctx, cmd.Code, cmd.Language)
	if err != nil {
		return Outcome{Status: StatusError, Message: "Error saving file: " + failureMessage(err)}
	}
	return Outcome{
		Status:  StatusSuccess,
		Message: "Code saved successfully to: " + snip.StoragePath,
		Path:    snip.StoragePath,
	}
}

func (s *Shell) highlight(ctx context.Context, cmd Command) Outcome {
	if blank(cmd.Code) {
		return Outcome{Status: StatusWarning, Message: "Please enter some code before highlighting."}
	}
	doc, err := s.highlights.Render(ctx, cmd.Code, cmd.Language)
	if err != nil {
		return Outcome{Status: StatusError, Message: "Error highlighting code: " + failureMessage(err)}
	}
	return Outcome{
		Status:   StatusSuccess,
		Message:  fmt.Sprintf("Highlighted %d %s as %s.", doc.Lines, plural(doc.Lines, "line", "lines"), cmd.Language),
		Document: doc,
	}
}

func failureMessage(err error) string {
	var f *service.Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
