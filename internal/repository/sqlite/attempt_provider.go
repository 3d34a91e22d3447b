package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/models"
	"github.com/recallcode/recallcode/internal/repository"
)

// attemptProvider is the sqlite-backed implementation of the attempt
// collaborator interface. Attempt rows are owned by the judging side; this
// provider only reads them.
type attemptProvider struct {
	db *sql.DB
}

// NewAttemptProvider creates a new AttemptProvider implementation
func NewAttemptProvider(db *sql.DB) repository.AttemptProvider {
	return &attemptProvider{db: db}
}

func (p *attemptProvider) Get(ctx context.Context, attemptID int64) (*models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_provider")

	var a models.Attempt
	var runtime, memory sql.NullInt64
	err := p.db.QueryRowContext(ctx, `
SELECT id, user_id, problem_id, runtime_ms, memory_kb, solved, created_at
FROM attempts
WHERE id = ?
`, attemptID).Scan(&a.ID, &a.UserID, &a.ProblemID, &runtime, &memory, &a.Solved, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("attempt not found: id=%d", attemptID)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get attempt: %v", err)
		return nil, err
	}
	if runtime.Valid {
		v := int(runtime.Int64)
		a.RuntimeMS = &v
	}
	if memory.Valid {
		v := int(memory.Int64)
		a.MemoryKB = &v
	}
	return &a, nil
}

func (p *attemptProvider) ExistsAttemptBy(ctx context.Context, userID, problemID int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_provider")

	var one int
	err := p.db.QueryRowContext(ctx, `
SELECT 1 FROM attempts WHERE user_id = ? AND problem_id = ? LIMIT 1
`, userID, problemID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Error("failed to check attempt existence: %v", err)
		return false, err
	}
	return true, nil
}
