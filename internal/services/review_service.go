package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/recallcode/recallcode/internal/errors"
	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/models"
	"github.com/recallcode/recallcode/internal/repository"
	"github.com/recallcode/recallcode/internal/srs"
)

// ReviewService handles review scheduling business logic
type ReviewService interface {
	// CreateIfAbsent makes sure a review record exists for the attempt.
	// Calling it twice for the same attempt returns the same record.
	CreateIfAbsent(ctx context.Context, attemptID int64) (*models.ReviewRecord, error)
	// ProcessRating applies a 1-5 rating to the attempt's review record.
	// runtime (ms) and memory (KB) are the latest measurements, nil when
	// unavailable.
	ProcessRating(ctx context.Context, attemptID int64, rating int, runtime, memory *int) (*models.ReviewRecord, error)
	// DueReviews returns the user's due reviews, most overdue first.
	DueReviews(ctx context.Context, userID int64, limit int) ([]models.DueReview, error)
}

type reviewService struct {
	reviews    repository.ReviewRepository
	attempts   repository.AttemptProvider
	users      repository.UserDirectory
	params     srs.Params
	retryLimit int
	now        func() time.Time
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviews repository.ReviewRepository, attempts repository.AttemptProvider, users repository.UserDirectory, params srs.Params, retryLimit int) ReviewService {
	if retryLimit <= 0 {
		retryLimit = 3
	}
	return &reviewService{
		reviews:    reviews,
		attempts:   attempts,
		users:      users,
		params:     params,
		retryLimit: retryLimit,
		now:        time.Now,
	}
}

func (s *reviewService) CreateIfAbsent(ctx context.Context, attemptID int64) (*models.ReviewRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("ensuring review record: attempt_id=%d", attemptID)

	if _, err := s.attempts.Get(ctx, attemptID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("attempt", attemptID)
		}
		log.Error("failed to load attempt: %v", err)
		return nil, apperrors.NewUnavailableError(err)
	}

	due := s.now().Add(24 * time.Hour)
	rec, err := s.reviews.CreateIfAbsent(ctx, models.ReviewRecord{
		AttemptID:    attemptID,
		EaseFactor:   s.params.InitialEase,
		IntervalDays: 1,
		NextDue:      &due,
	})
	if err != nil {
		log.Error("failed to create review record: %v", err)
		return nil, apperrors.NewUnavailableError(err)
	}
	return rec, nil
}

func (s *reviewService) ProcessRating(ctx context.Context, attemptID int64, rating int, runtime, memory *int) (*models.ReviewRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("processing rating: attempt_id=%d, rating=%d", attemptID, rating)

	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating", "must be between 1 and 5")
	}

	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("attempt", attemptID)
		}
		log.Error("failed to load attempt: %v", err)
		return nil, apperrors.NewUnavailableError(err)
	}

	runtimeRatio := measurementRatio(runtime, attempt.RuntimeMS)
	memoryRatio := measurementRatio(memory, attempt.MemoryKB)

	// Retry the whole read-modify-write cycle on a lost-update race. A stale
	// computation is never persisted: each retry recomputes from a fresh read.
	var updated *models.ReviewRecord
	for i := 0; i < s.retryLimit; i++ {
		rec, err := s.reviews.GetByAttempt(ctx, attemptID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewNotFoundError("review record", attemptID)
			}
			log.Error("failed to load review record: %v", err)
			return nil, apperrors.NewUnavailableError(err)
		}

		res := srs.Compute(s.params, *rec, rating, runtimeRatio, memoryRatio)

		now := s.now()
		nextDue := now.Add(time.Duration(res.IntervalDays) * 24 * time.Hour)
		expected := rec.TotalReviews

		rec.Repetitions = res.Repetitions
		rec.EaseFactor = res.EaseFactor
		rec.IntervalDays = res.IntervalDays
		rec.LastRating = &rating
		rec.LastReviewedAt = &now
		rec.NextDue = &nextDue
		rec.TotalReviews++

		err = s.reviews.Update(ctx, *rec, expected)
		if errors.Is(err, repository.ErrConflict) {
			log.Debug("rating update conflicted, retrying: attempt_id=%d, try=%d", attemptID, i+1)
			continue
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("review record", attemptID)
		}
		if err != nil {
			log.Error("failed to persist rating: %v", err)
			return nil, apperrors.NewUnavailableError(err)
		}
		updated = rec
		break
	}
	if updated == nil {
		return nil, apperrors.NewConflictError("review record", attemptID)
	}

	log.Debug("rating applied: interval=%d days, ease=%.2f, repetitions=%d",
		updated.IntervalDays, updated.EaseFactor, updated.Repetitions)

	// Streak bookkeeping is owned by the user directory; a failure there
	// must not fail the rating.
	date := updated.LastReviewedAt.Format("2006-01-02")
	if err := s.users.RecordStreakActivity(ctx, attempt.UserID, date); err != nil {
		log.Warn("failed to record streak activity: %v", err)
	}

	return updated, nil
}

func (s *reviewService) DueReviews(ctx context.Context, userID int64, limit int) ([]models.DueReview, error) {
	log := logger.FromContext(ctx)
	log.Debug("fetching due reviews: user_id=%d, limit=%d", userID, limit)

	due, err := s.reviews.DueForUser(ctx, userID, s.now(), limit)
	if err != nil {
		log.Error("failed to fetch due reviews: %v", err)
		return nil, apperrors.NewUnavailableError(err)
	}
	return due, nil
}

// measurementRatio compares the latest measurement against the one recorded
// on the attempt. 1.0 means "no comparison possible" and applies no penalty.
func measurementRatio(current, previous *int) float64 {
	if current == nil || previous == nil {
		return 1.0
	}
	prev := *previous
	if prev < 1 {
		prev = 1
	}
	return float64(*current) / float64(prev)
}
