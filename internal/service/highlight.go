package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"codepad/internal/highlight"
	"codepad/internal/language"
	"codepad/internal/model"
)

// Renderer produces a standalone HTML page for code using a lexer id.
type Renderer interface {
	Render(code, lexerID string) (string, error)
}

var _ Renderer = (*highlight.Renderer)(nil)

// HighlightService renders submitted code as highlighted HTML.
type HighlightService interface {
	// Render highlights code for language. Every call re-tokenises; nothing
	// is cached. Failures are *Failure with KindHighlight.
	Render(ctx context.Context, code, language string) (*model.HighlightedDocument, error)
}

type highlightService struct {
	renderer Renderer
	registry *language.Registry
}

// NewHighlightService constructs a new HighlightService.
func NewHighlightService(renderer Renderer, registry *language.Registry) HighlightService {
	return &highlightService{renderer: renderer, registry: registry}
}

func (s *highlightService) Render(ctx context.Context, code, lang string) (*model.HighlightedDocument, error) {
	_, span := tracer.Start(ctx, "HighlightService.Render")
	defer span.End()

	lexerID := s.registry.LexerIDFor(lang)
	span.SetAttributes(
		attribute.String("codepad.language", lang),
		attribute.String("codepad.lexer", lexerID),
	)

	out, err := s.renderer.Render(code, lexerID)
	if err != nil {
		f := newFailure(KindHighlight, err, "highlight %s", lang)
		span.RecordError(err)
		span.SetStatus(codes.Error, f.Message)
		return nil, f
	}

	return &model.HighlightedDocument{
		Language: lang,
		LexerID:  lexerID,
		HTML:     out,
		Lines:    highlight.LineCount(code),
		Height:   highlight.Height(code),
	}, nil
}
