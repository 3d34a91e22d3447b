package mocks

import (
	"context"

	"github.com/recallcode/recallcode/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockUserDirectory is a mock implementation of repository.UserDirectory
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserDirectory) RecordStreakActivity(ctx context.Context, userID int64, date string) error {
	args := m.Called(ctx, userID, date)
	return args.Error(0)
}
