package api

import (
	"errors"
	"net/http"

	apperrors "github.com/recallcode/recallcode/internal/errors"
	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/worker"
)

// handleGeneratePlans queues a batch plan-generation run. The run happens on
// the worker pool; the response only acknowledges the submission.
func (s *Server) handleGeneratePlans(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	job := &worker.GeneratePlansJob{Batch: s.Batch}
	if err := s.JobPool.Submit(job); err != nil {
		if errors.Is(err, worker.ErrQueueFull) {
			handleError(w, r, &apperrors.AppError{
				Code:    apperrors.ErrCodeUnavailable,
				Message: "job queue full, try again later",
				Status:  http.StatusServiceUnavailable,
			})
			return
		}
		handleError(w, r, apperrors.NewInternalError(err))
		return
	}

	log.Info("batch plan generation queued")
	respondJSON(w, r, http.StatusAccepted, map[string]any{
		"status": "queued",
	})
}
