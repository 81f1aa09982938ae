package mocks

import (
	"context"

	"codepad/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockSnippetService struct {
	mock.Mock
}

func (m *MockSnippetService) Save(ctx context.Context, code, language string) (*model.Snippet, error) {
	args := m.Called(ctx, code, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snippet), args.Error(1)
}

type MockHighlightService struct {
	mock.Mock
}

func (m *MockHighlightService) Render(ctx context.Context, code, language string) (*model.HighlightedDocument, error) {
	args := m.Called(ctx, code, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HighlightedDocument), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(code, lexerID string) (string, error) {
	args := m.Called(code, lexerID)
	return args.String(0), args.Error(1)
}
