package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/models"
	"github.com/recallcode/recallcode/internal/repository"
)

type userDirectory struct {
	db *sql.DB
}

// NewUserDirectory creates a new UserDirectory implementation
func NewUserDirectory(db *sql.DB) repository.UserDirectory {
	return &userDirectory{db: db}
}

func (d *userDirectory) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_directory")

	rows, err := d.db.QueryContext(ctx, `
SELECT id, email, is_active, streak_count, last_review_date, created_at
FROM users
WHERE is_active = 1
ORDER BY id
`)
	if err != nil {
		log.Error("failed to list active users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var lastReview sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.IsActive, &u.StreakCount, &lastReview, &u.CreatedAt); err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		if lastReview.Valid {
			v := lastReview.String
			u.LastReviewDate = &v
		}
		users = append(users, u)
	}
	log.Debug("found %d active users", len(users))
	return users, rows.Err()
}

// RecordStreakActivity bumps the user's daily streak for the given date:
// consecutive days extend the streak, a gap restarts it at 1, and a repeat
// call for the same date is a no-op.
func (d *userDirectory) RecordStreakActivity(ctx context.Context, userID int64, date string) error {
	log := logger.FromContext(ctx).WithPrefix("user_directory")
	log.Debug("recording streak activity: user_id=%d, date=%s", userID, date)

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return err
	}

	var streak int
	var lastReview sql.NullString
	err = d.db.QueryRowContext(ctx, `SELECT streak_count, last_review_date FROM users WHERE id = ?`, userID).
		Scan(&streak, &lastReview)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to read user streak: %v", err)
		return err
	}

	newStreak := 1
	if lastReview.Valid {
		last, err := time.Parse("2006-01-02", lastReview.String)
		if err == nil {
			switch int(day.Sub(last).Hours() / 24) {
			case 0:
				return nil // already recorded today
			case 1:
				newStreak = streak + 1
			}
		}
	}

	_, err = d.db.ExecContext(ctx, `
UPDATE users SET streak_count = ?, last_review_date = ? WHERE id = ?
`, newStreak, date, userID)
	if err != nil {
		log.Error("failed to update user streak: %v", err)
	}
	return err
}
