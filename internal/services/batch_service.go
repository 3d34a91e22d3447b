package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/recallcode/recallcode/internal/errors"
	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/models"
	"github.com/recallcode/recallcode/internal/repository"
	"golang.org/x/sync/errgroup"
)

// BatchService drives plan generation for the whole active user population.
type BatchService interface {
	// Run generates the daily plan for every active user. Per-user failures
	// are collected in the summary, never raised. Re-running for the same
	// date is idempotent.
	Run(ctx context.Context, date string) (*models.BatchSummary, error)
}

type batchService struct {
	users       repository.UserDirectory
	plans       PlanService
	workers     int
	userTimeout time.Duration
}

// NewBatchService creates a new BatchService with a bounded worker count and
// a per-user timeout.
func NewBatchService(users repository.UserDirectory, plans PlanService, workers int, userTimeout time.Duration) BatchService {
	if workers <= 0 {
		workers = 4
	}
	if userTimeout <= 0 {
		userTimeout = 30 * time.Second
	}
	return &batchService{
		users:       users,
		plans:       plans,
		workers:     workers,
		userTimeout: userTimeout,
	}
}

func (s *batchService) Run(ctx context.Context, date string) (*models.BatchSummary, error) {
	start := time.Now()
	summary := &models.BatchSummary{
		RunID: uuid.NewString(),
		Date:  date,
	}
	log := logger.FromContext(ctx).WithField("run_id", summary.RunID)
	log.Info("batch plan generation starting: date=%s, workers=%d", date, s.workers)

	users, err := s.users.ListActiveUsers(ctx)
	if err != nil {
		log.Error("failed to list active users: %v", err)
		return nil, apperrors.NewUnavailableError(err)
	}
	summary.Users = len(users)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, user := range users {
		user := user
		// Graceful cancellation: in-flight users finish, the rest are
		// abandoned and counted as skipped.
		if ctx.Err() != nil {
			mu.Lock()
			summary.Skipped++
			mu.Unlock()
			continue
		}

		g.Go(func() error {
			uctx, cancel := context.WithTimeout(ctx, s.userTimeout)
			defer cancel()

			_, err := s.plans.GetOrCreate(uctx, user.ID, date)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// One user's failure must not abort the rest of the batch.
				summary.Failures = append(summary.Failures, models.BatchFailure{
					UserID: user.ID,
					Error:  err.Error(),
				})
				log.Warn("plan generation failed: user_id=%d: %v", user.ID, err)
				return nil
			}
			summary.Generated++
			return nil
		})
	}

	_ = g.Wait()
	summary.Duration = time.Since(start)

	log.Info("batch plan generation finished: users=%d, generated=%d, failed=%d, skipped=%d, took=%v",
		summary.Users, summary.Generated, len(summary.Failures), summary.Skipped, summary.Duration)
	return summary, nil
}
