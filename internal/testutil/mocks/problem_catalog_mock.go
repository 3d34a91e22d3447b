package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProblemCatalog is a mock implementation of repository.ProblemCatalog
type MockProblemCatalog struct {
	mock.Mock
}

func (m *MockProblemCatalog) SampleUnattempted(ctx context.Context, userID int64, count int) ([]int64, error) {
	args := m.Called(ctx, userID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
