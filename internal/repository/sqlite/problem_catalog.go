package sqlite

import (
	"context"
	"database/sql"

	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/repository"
)

type problemCatalog struct {
	db *sql.DB
}

// NewProblemCatalog creates a new ProblemCatalog implementation
func NewProblemCatalog(db *sql.DB) repository.ProblemCatalog {
	return &problemCatalog{db: db}
}

func (c *problemCatalog) SampleUnattempted(ctx context.Context, userID int64, count int) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("problem_catalog")
	log.Debug("sampling unattempted problems: user_id=%d, count=%d", userID, count)

	if count <= 0 {
		return nil, nil
	}

	rows, err := c.db.QueryContext(ctx, `
SELECT id FROM problems
WHERE id NOT IN (SELECT problem_id FROM attempts WHERE user_id = ?)
ORDER BY RANDOM()
LIMIT ?
`, userID, count)
	if err != nil {
		log.Error("failed to sample problems: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan problem id: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Debug("sampled %d unattempted problems", len(ids))
	return ids, rows.Err()
}
