package mocks

import (
	"context"

	"github.com/recallcode/recallcode/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockPlanService is a mock implementation of services.PlanService
type MockPlanService struct {
	mock.Mock
}

func (m *MockPlanService) GetOrCreate(ctx context.Context, userID int64, date string) (*models.DailyPlan, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyPlan), args.Error(1)
}

func (m *MockPlanService) CompleteProblem(ctx context.Context, planID, problemID int64) (*models.DailyPlan, error) {
	args := m.Called(ctx, planID, problemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyPlan), args.Error(1)
}
