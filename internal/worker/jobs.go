package worker

import (
	"context"
	"time"

	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/services"
)

// GeneratePlansJob runs one batch plan-generation pass for the current date.
type GeneratePlansJob struct {
	Batch services.BatchService
}

func (j *GeneratePlansJob) Name() string { return "generate-plans" }

func (j *GeneratePlansJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	date := time.Now().Format("2006-01-02")
	summary, err := j.Batch.Run(ctx, date)
	if err != nil {
		return err
	}

	log.Info("generated plans: run_id=%s, date=%s, generated=%d, failed=%d",
		summary.RunID, summary.Date, summary.Generated, len(summary.Failures))
	return nil
}
