package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/models"
	"github.com/recallcode/recallcode/internal/repository"
)

type planRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository implementation
func NewPlanRepository(db *sql.DB) repository.PlanRepository {
	return &planRepository{db: db}
}

const planColumns = `id, user_id, date, due_problems, new_problems, problems, completed_problems, is_completed, created_at`

func (r *planRepository) CreateIfAbsent(ctx context.Context, plan models.DailyPlan) (*models.DailyPlan, error) {
	log := logger.FromContext(ctx).WithPrefix("plan_repo")
	log.Debug("creating plan if absent: user_id=%d, date=%s", plan.UserID, plan.Date)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO daily_plans (user_id, date, due_problems, new_problems, problems, completed_problems, is_completed)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, date) DO NOTHING
`, plan.UserID, plan.Date, marshalIDs(plan.DueProblemIDs), marshalIDs(plan.NewProblemIDs),
		marshalIDs(plan.AllProblemIDs), marshalIDs(plan.CompletedProblemIDs), plan.IsCompleted)
	if err != nil {
		log.Error("failed to insert plan: %v", err)
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("plan already exists: user_id=%d, date=%s", plan.UserID, plan.Date)
	}

	return r.GetByUserDate(ctx, plan.UserID, plan.Date)
}

func (r *planRepository) Get(ctx context.Context, id int64) (*models.DailyPlan, error) {
	log := logger.FromContext(ctx).WithPrefix("plan_repo")

	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM daily_plans WHERE id = ?`, id)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("plan not found: id=%d", id)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get plan: %v", err)
		return nil, err
	}
	return plan, nil
}

func (r *planRepository) GetByUserDate(ctx context.Context, userID int64, date string) (*models.DailyPlan, error) {
	log := logger.FromContext(ctx).WithPrefix("plan_repo")

	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM daily_plans WHERE user_id = ? AND date = ?`, userID, date)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("plan not found: user_id=%d, date=%s", userID, date)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get plan: %v", err)
		return nil, err
	}
	return plan, nil
}

func (r *planRepository) FillEmpty(ctx context.Context, plan models.DailyPlan) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("plan_repo")
	log.Debug("filling empty plan: id=%d, problems=%d", plan.ID, len(plan.AllProblemIDs))

	// The guard keeps a concurrent fill from being overwritten: only a plan
	// that is still empty accepts the regenerated lists.
	res, err := r.db.ExecContext(ctx, `
UPDATE daily_plans
SET due_problems = ?, new_problems = ?, problems = ?
WHERE id = ? AND problems = '[]'
`, marshalIDs(plan.DueProblemIDs), marshalIDs(plan.NewProblemIDs), marshalIDs(plan.AllProblemIDs), plan.ID)
	if err != nil {
		log.Error("failed to fill plan: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *planRepository) UpdateCompletion(ctx context.Context, id int64, completed []int64, isCompleted bool) error {
	log := logger.FromContext(ctx).WithPrefix("plan_repo")
	log.Debug("updating plan completion: id=%d, completed=%d, is_completed=%v", id, len(completed), isCompleted)

	res, err := r.db.ExecContext(ctx, `
UPDATE daily_plans
SET completed_problems = ?, is_completed = ?
WHERE id = ?
`, marshalIDs(completed), isCompleted, id)
	if err != nil {
		log.Error("failed to update plan completion: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func marshalIDs(ids []int64) string {
	if len(ids) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

func unmarshalIDs(s string) ([]int64, error) {
	ids := []int64{}
	if s == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func scanPlan(row rowScanner) (*models.DailyPlan, error) {
	var p models.DailyPlan
	var due, fresh, all, completed string
	err := row.Scan(&p.ID, &p.UserID, &p.Date, &due, &fresh, &all, &completed, &p.IsCompleted, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if p.DueProblemIDs, err = unmarshalIDs(due); err != nil {
		return nil, err
	}
	if p.NewProblemIDs, err = unmarshalIDs(fresh); err != nil {
		return nil, err
	}
	if p.AllProblemIDs, err = unmarshalIDs(all); err != nil {
		return nil, err
	}
	if p.CompletedProblemIDs, err = unmarshalIDs(completed); err != nil {
		return nil, err
	}
	return &p, nil
}
