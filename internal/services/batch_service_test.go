package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/recallcode/recallcode/internal/errors"
	"github.com/recallcode/recallcode/internal/models"
	"github.com/recallcode/recallcode/internal/services"
	"github.com/recallcode/recallcode/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func activeUsers(ids ...int64) []models.User {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, models.User{ID: id, IsActive: true})
	}
	return users
}

func TestBatchRunGeneratesForAllUsers(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserDirectory)
	plans := new(mocks.MockPlanService)
	svc := services.NewBatchService(users, plans, 2, time.Second)

	users.On("ListActiveUsers", ctx).Return(activeUsers(1, 2, 3), nil)
	for _, id := range []int64{1, 2, 3} {
		plans.On("GetOrCreate", mock.Anything, id, "2026-08-31").
			Return(&models.DailyPlan{UserID: id, Date: "2026-08-31"}, nil)
	}

	summary, err := svc.Run(ctx, "2026-08-31")
	require.NoError(t, err)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, "2026-08-31", summary.Date)
	assert.Equal(t, 3, summary.Users)
	assert.Equal(t, 3, summary.Generated)
	assert.Empty(t, summary.Failures)
	assert.Zero(t, summary.Skipped)
	plans.AssertExpectations(t)
}

func TestBatchRunCollectsFailures(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserDirectory)
	plans := new(mocks.MockPlanService)
	svc := services.NewBatchService(users, plans, 2, time.Second)

	users.On("ListActiveUsers", ctx).Return(activeUsers(1, 2, 3), nil)
	plans.On("GetOrCreate", mock.Anything, int64(1), "2026-08-31").
		Return(&models.DailyPlan{UserID: 1}, nil)
	plans.On("GetOrCreate", mock.Anything, int64(2), "2026-08-31").
		Return(nil, errors.New("store unavailable"))
	plans.On("GetOrCreate", mock.Anything, int64(3), "2026-08-31").
		Return(&models.DailyPlan{UserID: 3}, nil)

	summary, err := svc.Run(ctx, "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Generated)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, int64(2), summary.Failures[0].UserID)
	assert.Contains(t, summary.Failures[0].Error, "store unavailable")
}

func TestBatchRunFailsWhenUserListUnavailable(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserDirectory)
	plans := new(mocks.MockPlanService)
	svc := services.NewBatchService(users, plans, 2, time.Second)

	users.On("ListActiveUsers", ctx).Return(nil, errors.New("db down"))

	_, err := svc.Run(ctx, "2026-08-31")
	assertAppErrorCode(t, err, apperrors.ErrCodeUnavailable)
	plans.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchRunSkipsRemainingUsersOnCancel(t *testing.T) {
	users := new(mocks.MockUserDirectory)
	plans := new(mocks.MockPlanService)
	svc := services.NewBatchService(users, plans, 1, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	users.On("ListActiveUsers", ctx).Return(activeUsers(1, 2, 3), nil)
	cancel()

	summary, err := svc.Run(ctx, "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Skipped)
	assert.Zero(t, summary.Generated)
	plans.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchRunIsIdempotentPerDate(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserDirectory)
	plans := new(mocks.MockPlanService)
	svc := services.NewBatchService(users, plans, 2, time.Second)

	users.On("ListActiveUsers", ctx).Return(activeUsers(1), nil)
	// Re-running the batch reuses the plan service's get-or-create, so the
	// same stored plan comes back both times.
	stored := &models.DailyPlan{ID: 9, UserID: 1, Date: "2026-08-31", AllProblemIDs: []int64{1, 2}}
	plans.On("GetOrCreate", mock.Anything, int64(1), "2026-08-31").Return(stored, nil).Twice()

	first, err := svc.Run(ctx, "2026-08-31")
	require.NoError(t, err)
	second, err := svc.Run(ctx, "2026-08-31")
	require.NoError(t, err)

	assert.Equal(t, 1, first.Generated)
	assert.Equal(t, 1, second.Generated)
	assert.NotEqual(t, first.RunID, second.RunID)
	plans.AssertExpectations(t)
}
