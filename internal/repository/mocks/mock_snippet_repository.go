package mocks

import (
	"context"

	"codepad/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockSnippetRepository struct {
	mock.Mock
}

func (m *MockSnippetRepository) Create(ctx context.Context, s *model.Snippet) (*model.Snippet, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snippet), args.Error(1)
}
