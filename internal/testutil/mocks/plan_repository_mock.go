package mocks

import (
	"context"

	"github.com/recallcode/recallcode/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockPlanRepository is a mock implementation of repository.PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) CreateIfAbsent(ctx context.Context, plan models.DailyPlan) (*models.DailyPlan, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyPlan), args.Error(1)
}

func (m *MockPlanRepository) Get(ctx context.Context, id int64) (*models.DailyPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyPlan), args.Error(1)
}

func (m *MockPlanRepository) GetByUserDate(ctx context.Context, userID int64, date string) (*models.DailyPlan, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyPlan), args.Error(1)
}

func (m *MockPlanRepository) FillEmpty(ctx context.Context, plan models.DailyPlan) (bool, error) {
	args := m.Called(ctx, plan)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlanRepository) UpdateCompletion(ctx context.Context, id int64, completed []int64, isCompleted bool) error {
	args := m.Called(ctx, id, completed, isCompleted)
	return args.Error(0)
}
