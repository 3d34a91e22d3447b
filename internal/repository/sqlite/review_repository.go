package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/models"
	"github.com/recallcode/recallcode/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, attempt_id, repetitions, ease_factor, interval_days, next_due, last_reviewed_at, last_rating, total_reviews, created_at`

func (r *reviewRepository) CreateIfAbsent(ctx context.Context, rec models.ReviewRecord) (*models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("creating review record if absent: attempt_id=%d", rec.AttemptID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO review_records (attempt_id, repetitions, ease_factor, interval_days, next_due, total_reviews)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(attempt_id) DO NOTHING
`, rec.AttemptID, rec.Repetitions, rec.EaseFactor, rec.IntervalDays, rec.NextDue, rec.TotalReviews)
	if err != nil {
		log.Error("failed to insert review record: %v", err)
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("review record already exists: attempt_id=%d", rec.AttemptID)
	}

	// The stored row is authoritative whether we just created it or lost
	// the race to a concurrent creator.
	return r.GetByAttempt(ctx, rec.AttemptID)
}

func (r *reviewRepository) GetByAttempt(ctx context.Context, attemptID int64) (*models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")

	row := r.db.QueryRowContext(ctx, `
SELECT `+reviewColumns+`
FROM review_records
WHERE attempt_id = ?
`, attemptID)
	rec, err := scanReviewRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("review record not found: attempt_id=%d", attemptID)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get review record: %v", err)
		return nil, err
	}
	return rec, nil
}

func (r *reviewRepository) Update(ctx context.Context, rec models.ReviewRecord, expectedTotalReviews int) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("updating review record: id=%d, interval=%d, ease=%.2f, total_reviews=%d",
		rec.ID, rec.IntervalDays, rec.EaseFactor, rec.TotalReviews)

	res, err := r.db.ExecContext(ctx, `
UPDATE review_records
SET repetitions = ?, ease_factor = ?, interval_days = ?, next_due = ?, last_reviewed_at = ?, last_rating = ?, total_reviews = ?
WHERE id = ? AND total_reviews = ?
`, rec.Repetitions, rec.EaseFactor, rec.IntervalDays, rec.NextDue, rec.LastReviewedAt, rec.LastRating, rec.TotalReviews,
		rec.ID, expectedTotalReviews)
	if err != nil {
		log.Error("failed to update review record: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the record is gone or another writer bumped total_reviews
		// since our read. Distinguish so the caller knows whether to retry.
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM review_records WHERE id = ?`, rec.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		log.Debug("review record update conflicted: id=%d", rec.ID)
		return repository.ErrConflict
	}
	return nil
}

func (r *reviewRepository) DueForUser(ctx context.Context, userID int64, now time.Time, limit int) ([]models.DueReview, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching due reviews: user_id=%d, limit=%d", userID, limit)

	query := sqlBuilder.Select(
		"r.id", "r.attempt_id", "r.repetitions", "r.ease_factor", "r.interval_days",
		"r.next_due", "r.last_reviewed_at", "r.last_rating", "r.total_reviews", "r.created_at",
		"a.user_id", "a.problem_id",
	).
		From("review_records r").
		Join("attempts a ON a.id = r.attempt_id").
		Where(squirrel.Eq{"a.user_id": userID}).
		Where(squirrel.Or{
			squirrel.Eq{"r.next_due": nil},
			squirrel.LtOrEq{"r.next_due": now},
		}).
		// Unset next_due means "due immediately" and sorts as most overdue.
		OrderBy("r.next_due IS NOT NULL", "r.next_due ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build due query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query due reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var due []models.DueReview
	for rows.Next() {
		var d models.DueReview
		var nextDue, lastReviewed sql.NullTime
		var lastRating sql.NullInt64
		if err := rows.Scan(&d.ID, &d.AttemptID, &d.Repetitions, &d.EaseFactor, &d.IntervalDays,
			&nextDue, &lastReviewed, &lastRating, &d.TotalReviews, &d.CreatedAt,
			&d.UserID, &d.ProblemID); err != nil {
			log.Error("failed to scan due review row: %v", err)
			return nil, err
		}
		applyNullables(&d.ReviewRecord, nextDue, lastReviewed, lastRating)
		due = append(due, d)
	}
	log.Debug("found %d due reviews", len(due))
	return due, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReviewRecord(row rowScanner) (*models.ReviewRecord, error) {
	var rec models.ReviewRecord
	var nextDue, lastReviewed sql.NullTime
	var lastRating sql.NullInt64
	err := row.Scan(&rec.ID, &rec.AttemptID, &rec.Repetitions, &rec.EaseFactor, &rec.IntervalDays,
		&nextDue, &lastReviewed, &lastRating, &rec.TotalReviews, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	applyNullables(&rec, nextDue, lastReviewed, lastRating)
	return &rec, nil
}

func applyNullables(rec *models.ReviewRecord, nextDue, lastReviewed sql.NullTime, lastRating sql.NullInt64) {
	if nextDue.Valid {
		t := nextDue.Time
		rec.NextDue = &t
	}
	if lastReviewed.Valid {
		t := lastReviewed.Time
		rec.LastReviewedAt = &t
	}
	if lastRating.Valid {
		v := int(lastRating.Int64)
		rec.LastRating = &v
	}
}
