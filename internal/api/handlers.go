package api

import (
	"database/sql"

	"github.com/recallcode/recallcode/internal/services"
	"github.com/recallcode/recallcode/internal/worker"
)

type Server struct {
	DB       *sql.DB
	Reviews  services.ReviewService
	Plans    services.PlanService
	Batch    services.BatchService
	JobPool  *worker.Pool
	DueLimit int
}
