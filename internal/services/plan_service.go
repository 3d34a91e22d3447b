package services

import (
	"context"
	"errors"
	"slices"
	"time"

	apperrors "github.com/recallcode/recallcode/internal/errors"
	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/models"
	"github.com/recallcode/recallcode/internal/repository"
)

// PlanService handles daily plan business logic
type PlanService interface {
	// GetOrCreate returns the user's plan for the date, composing it on
	// first access. An existing plan is returned unchanged, except that a
	// plan with an empty problem list is regenerated once.
	GetOrCreate(ctx context.Context, userID int64, date string) (*models.DailyPlan, error)
	// CompleteProblem marks a problem done in the plan. Idempotent.
	CompleteProblem(ctx context.Context, planID, problemID int64) (*models.DailyPlan, error)
}

// PlanSizing caps how many problems a daily plan draws from each source.
type PlanSizing struct {
	DueLimit int
	NewLimit int
}

// DefaultPlanSizing returns the standard 3 due + 2 new plan shape.
func DefaultPlanSizing() PlanSizing {
	return PlanSizing{DueLimit: 3, NewLimit: 2}
}

type planService struct {
	plans   repository.PlanRepository
	reviews repository.ReviewRepository
	catalog repository.ProblemCatalog
	sizing  PlanSizing
	now     func() time.Time
}

// NewPlanService creates a new PlanService
func NewPlanService(plans repository.PlanRepository, reviews repository.ReviewRepository, catalog repository.ProblemCatalog, sizing PlanSizing) PlanService {
	return &planService{
		plans:   plans,
		reviews: reviews,
		catalog: catalog,
		sizing:  sizing,
		now:     time.Now,
	}
}

func (s *planService) GetOrCreate(ctx context.Context, userID int64, date string) (*models.DailyPlan, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting or creating plan: user_id=%d, date=%s", userID, date)

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apperrors.NewValidationError("date", "must be YYYY-MM-DD")
	}

	existing, err := s.plans.GetByUserDate(ctx, userID, date)
	switch {
	case err == nil:
		if len(existing.AllProblemIDs) > 0 {
			return existing, nil
		}
		// Self-healing: a plan created before any data existed is filled in
		// once on the next access.
		return s.regenerate(ctx, existing)
	case errors.Is(err, repository.ErrNotFound):
		// fall through to compose a fresh plan
	default:
		log.Error("failed to load plan: %v", err)
		return nil, apperrors.NewUnavailableError(err)
	}

	due, fresh, err := s.composeProblems(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.CreateIfAbsent(ctx, models.DailyPlan{
		UserID:              userID,
		Date:                date,
		DueProblemIDs:       due,
		NewProblemIDs:       fresh,
		AllProblemIDs:       concatIDs(due, fresh),
		CompletedProblemIDs: []int64{},
	})
	if err != nil {
		log.Error("failed to create plan: %v", err)
		return nil, apperrors.NewUnavailableError(err)
	}
	log.Info("daily plan ready: user_id=%d, date=%s, problems=%d", userID, date, len(plan.AllProblemIDs))
	return plan, nil
}

// regenerate fills an empty plan's problem lists. If a concurrent writer
// filled it first, the stored row wins and is returned untouched.
func (s *planService) regenerate(ctx context.Context, plan *models.DailyPlan) (*models.DailyPlan, error) {
	log := logger.FromContext(ctx)
	log.Debug("regenerating empty plan: id=%d", plan.ID)

	due, fresh, err := s.composeProblems(ctx, plan.UserID)
	if err != nil {
		return nil, err
	}

	refill := *plan
	refill.DueProblemIDs = due
	refill.NewProblemIDs = fresh
	refill.AllProblemIDs = concatIDs(due, fresh)

	filled, err := s.plans.FillEmpty(ctx, refill)
	if err != nil {
		log.Error("failed to fill plan: %v", err)
		return nil, apperrors.NewUnavailableError(err)
	}
	if !filled {
		log.Debug("plan was filled concurrently: id=%d", plan.ID)
	}

	stored, err := s.plans.Get(ctx, plan.ID)
	if err != nil {
		log.Error("failed to reload plan: %v", err)
		return nil, apperrors.NewUnavailableError(err)
	}
	return stored, nil
}

func (s *planService) composeProblems(ctx context.Context, userID int64) (due, fresh []int64, err error) {
	log := logger.FromContext(ctx)

	dueReviews, err := s.reviews.DueForUser(ctx, userID, s.now(), s.sizing.DueLimit)
	if err != nil {
		log.Error("failed to fetch due reviews for plan: %v", err)
		return nil, nil, apperrors.NewUnavailableError(err)
	}
	due = make([]int64, 0, len(dueReviews))
	for _, d := range dueReviews {
		due = append(due, d.ProblemID)
	}

	freshIDs, err := s.catalog.SampleUnattempted(ctx, userID, s.sizing.NewLimit)
	if err != nil {
		log.Error("failed to sample new problems: %v", err)
		return nil, nil, apperrors.NewUnavailableError(err)
	}
	fresh = make([]int64, 0, len(freshIDs))
	fresh = append(fresh, freshIDs...)

	return due, fresh, nil
}

func (s *planService) CompleteProblem(ctx context.Context, planID, problemID int64) (*models.DailyPlan, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing problem: plan_id=%d, problem_id=%d", planID, problemID)

	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("plan", planID)
		}
		log.Error("failed to load plan: %v", err)
		return nil, apperrors.NewUnavailableError(err)
	}

	if slices.Contains(plan.CompletedProblemIDs, problemID) {
		return plan, nil
	}

	plan.CompletedProblemIDs = append(plan.CompletedProblemIDs, problemID)
	plan.IsCompleted = containsAll(plan.CompletedProblemIDs, plan.AllProblemIDs)

	if err := s.plans.UpdateCompletion(ctx, plan.ID, plan.CompletedProblemIDs, plan.IsCompleted); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("plan", planID)
		}
		log.Error("failed to persist completion: %v", err)
		return nil, apperrors.NewUnavailableError(err)
	}

	if plan.IsCompleted {
		log.Info("daily plan completed: plan_id=%d, user_id=%d", plan.ID, plan.UserID)
	}
	return plan, nil
}

func concatIDs(due, fresh []int64) []int64 {
	all := make([]int64, 0, len(due)+len(fresh))
	all = append(all, due...)
	all = append(all, fresh...)
	return all
}

// containsAll reports whether every id in want is present in have.
func containsAll(have, want []int64) bool {
	for _, id := range want {
		if !slices.Contains(have, id) {
			return false
		}
	}
	return true
}
