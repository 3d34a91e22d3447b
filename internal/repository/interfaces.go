package repository

import (
	"context"
	"errors"
	"time"

	"github.com/recallcode/recallcode/internal/models"
)

// Sentinel errors returned by repositories. Services translate these into
// the user-facing error taxonomy.
var (
	// ErrNotFound means the referenced record or plan does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a read-modify-write cycle lost a race and must be
	// retried from a fresh read.
	ErrConflict = errors.New("concurrent update conflict")
)

// ReviewRepository handles review record data access.
type ReviewRepository interface {
	// CreateIfAbsent persists rec unless a record for its attempt already
	// exists, and returns the stored record either way. A uniqueness
	// conflict is success, not an error.
	CreateIfAbsent(ctx context.Context, rec models.ReviewRecord) (*models.ReviewRecord, error)
	GetByAttempt(ctx context.Context, attemptID int64) (*models.ReviewRecord, error)
	// Update writes the record's scheduling fields as one atomic write,
	// guarded by the total_reviews value observed at read time. Returns
	// ErrConflict when another writer got there first.
	Update(ctx context.Context, rec models.ReviewRecord, expectedTotalReviews int) error
	// DueForUser returns the user's records whose next_due is unset or has
	// passed, most overdue first (unset sorts before everything). limit <= 0
	// means no cap.
	DueForUser(ctx context.Context, userID int64, now time.Time, limit int) ([]models.DueReview, error)
}

// PlanRepository handles daily plan data access.
type PlanRepository interface {
	// CreateIfAbsent persists the plan unless one already exists for its
	// (user, date), and returns the stored plan either way.
	CreateIfAbsent(ctx context.Context, plan models.DailyPlan) (*models.DailyPlan, error)
	Get(ctx context.Context, id int64) (*models.DailyPlan, error)
	GetByUserDate(ctx context.Context, userID int64, date string) (*models.DailyPlan, error)
	// FillEmpty writes the plan's problem lists only if the stored row still
	// has an empty problem list, and reports whether the write happened.
	FillEmpty(ctx context.Context, plan models.DailyPlan) (bool, error)
	UpdateCompletion(ctx context.Context, id int64, completed []int64, isCompleted bool) error
}

// AttemptProvider exposes graded attempts owned by the judging collaborator.
type AttemptProvider interface {
	Get(ctx context.Context, attemptID int64) (*models.Attempt, error)
	// ExistsAttemptBy reports whether the user has any attempt on the
	// problem. Callers composing candidate sets use it to rule out
	// already-attempted problems.
	ExistsAttemptBy(ctx context.Context, userID, problemID int64) (bool, error)
}

// ProblemCatalog exposes the problem collaborator's candidate selection.
type ProblemCatalog interface {
	// SampleUnattempted returns up to count problem IDs the user has never
	// attempted. Selection among eligible problems is arbitrary.
	SampleUnattempted(ctx context.Context, userID int64, count int) ([]int64, error)
}

// UserDirectory exposes the user collaborator's population and streak hooks.
type UserDirectory interface {
	ListActiveUsers(ctx context.Context) ([]models.User, error)
	RecordStreakActivity(ctx context.Context, userID int64, date string) error
}
