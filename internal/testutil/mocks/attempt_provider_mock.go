package mocks

import (
	"context"

	"github.com/recallcode/recallcode/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockAttemptProvider is a mock implementation of repository.AttemptProvider
type MockAttemptProvider struct {
	mock.Mock
}

func (m *MockAttemptProvider) Get(ctx context.Context, attemptID int64) (*models.Attempt, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attempt), args.Error(1)
}

func (m *MockAttemptProvider) ExistsAttemptBy(ctx context.Context, userID, problemID int64) (bool, error) {
	args := m.Called(ctx, userID, problemID)
	return args.Bool(0), args.Error(1)
}
