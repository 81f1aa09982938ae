package repository

import (
	"context"

	"codepad/internal/model"
)

// SnippetRepository is the write-once save journal. Saved snippets are
// recorded but never queried back.
type SnippetRepository interface {
	// Create inserts a snippet record and returns the stored row.
	Create(ctx context.Context, s *model.Snippet) (*model.Snippet, error)
}

// NopSnippetRepository is used when no journal database is configured.
type NopSnippetRepository struct{}

var _ SnippetRepository = NopSnippetRepository{}

// Create returns s unchanged.
func (NopSnippetRepository) Create(_ context.Context, s *model.Snippet) (*model.Snippet, error) {
	return s, nil
}
