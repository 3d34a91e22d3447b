package mocks

import (
	"context"
	"time"

	"github.com/recallcode/recallcode/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) CreateIfAbsent(ctx context.Context, rec models.ReviewRecord) (*models.ReviewRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewRecord), args.Error(1)
}

func (m *MockReviewRepository) GetByAttempt(ctx context.Context, attemptID int64) (*models.ReviewRecord, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewRecord), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, rec models.ReviewRecord, expectedTotalReviews int) error {
	args := m.Called(ctx, rec, expectedTotalReviews)
	return args.Error(0)
}

func (m *MockReviewRepository) DueForUser(ctx context.Context, userID int64, now time.Time, limit int) ([]models.DueReview, error) {
	args := m.Called(ctx, userID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DueReview), args.Error(1)
}
