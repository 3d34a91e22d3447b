package models

import "time"

// ReviewRecord tracks the spaced-repetition schedule for one graded attempt.
// Exactly one record exists per attempt.
type ReviewRecord struct {
	ID             int64      `json:"id"`
	AttemptID      int64      `json:"attempt_id"`
	Repetitions    int        `json:"repetitions"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	NextDue        *time.Time `json:"next_due"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	LastRating     *int       `json:"last_rating"`
	TotalReviews   int        `json:"total_reviews"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsDue reports whether the record should be reviewed at the given time.
// An unset NextDue means "due immediately".
func (r ReviewRecord) IsDue(now time.Time) bool {
	if r.NextDue == nil {
		return true
	}
	return !r.NextDue.After(now)
}

// DueReview is a review record joined with the problem it schedules.
type DueReview struct {
	ReviewRecord
	UserID    int64 `json:"user_id"`
	ProblemID int64 `json:"problem_id"`
}

// DailyPlan is the day's practice set for one user: due reviews first,
// then new problems. At most one plan exists per (user, date).
type DailyPlan struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	Date                string    `json:"date"` // YYYY-MM-DD
	DueProblemIDs       []int64   `json:"due_problem_ids"`
	NewProblemIDs       []int64   `json:"new_problem_ids"`
	AllProblemIDs       []int64   `json:"all_problem_ids"`
	CompletedProblemIDs []int64   `json:"completed_problem_ids"`
	IsCompleted         bool      `json:"is_completed"`
	CreatedAt           time.Time `json:"created_at"`
}

// Attempt is a user's graded submission for a problem, as seen through the
// attempt provider. Runtime/memory are the judge's measurements when present.
type Attempt struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProblemID int64     `json:"problem_id"`
	RuntimeMS *int      `json:"runtime_ms"`
	MemoryKB  *int      `json:"memory_kb"`
	Solved    bool      `json:"solved"`
	CreatedAt time.Time `json:"created_at"`
}

type Problem struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	IsActive       bool      `json:"is_active"`
	StreakCount    int       `json:"streak_count"`
	LastReviewDate *string   `json:"last_review_date"` // YYYY-MM-DD
	CreatedAt      time.Time `json:"created_at"`
}

// BatchFailure records one user whose plan generation failed during a batch run.
type BatchFailure struct {
	UserID int64  `json:"user_id"`
	Error  string `json:"error"`
}

// BatchSummary reports the outcome of one batch plan-generation run.
type BatchSummary struct {
	RunID     string         `json:"run_id"`
	Date      string         `json:"date"`
	Users     int            `json:"users"`
	Generated int            `json:"generated"`
	Skipped   int            `json:"skipped"`
	Failures  []BatchFailure `json:"failures"`
	Duration  time.Duration  `json:"duration"`
}
