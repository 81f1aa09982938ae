package mocks

import (
	"context"

	"codepad/internal/shell"
	"github.com/stretchr/testify/mock"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, cmd shell.Command) shell.Outcome {
	args := m.Called(ctx, cmd)
	return args.Get(0).(shell.Outcome)
}
