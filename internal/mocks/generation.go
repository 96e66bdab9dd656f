package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGenerationClient is a mock implementation of service.IGenerationClient
type MockGenerationClient struct {
	mock.Mock
}

func (m *MockGenerationClient) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
