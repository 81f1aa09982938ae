package postgres

import (
	"context"
	"database/sql"

	"codepad/internal/model"
	"codepad/internal/repository"
)

// SnippetPostgres is a PostgreSQL implementation of repository.SnippetRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type SnippetPostgres struct {
	db *sql.DB
}

// NewSnippetPostgres creates a new SnippetPostgres repository.
func NewSnippetPostgres(db *sql.DB) *SnippetPostgres {
	return &SnippetPostgres{db: db}
}

var _ repository.SnippetRepository = (*SnippetPostgres)(nil)

// Create inserts a new snippet row and returns the stored record.
func (r *SnippetPostgres) Create(ctx context.Context, s *model.Snippet) (*model.Snippet, error) {
	const q = `
		INSERT INTO snippets (id, filename, storage_path, language, extension, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, filename, storage_path, language, extension, size, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.Filename,
		s.StoragePath,
		s.Language,
		s.Extension,
		s.Size,
		s.CreatedAt,
	)
	var out model.Snippet
	if err := row.Scan(
		&out.ID,
		&out.Filename,
		&out.StoragePath,
		&out.Language,
		&out.Extension,
		&out.Size,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}
