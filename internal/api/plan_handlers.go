package api

import (
	"net/http"
	"time"

	"github.com/recallcode/recallcode/internal/logger"
)

func (s *Server) handleTodayPlan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := userIDFromContext(r.Context())
	date := time.Now().Format("2006-01-02")

	log.Debug("fetching today's plan: user_id=%d, date=%s", userID, date)
	plan, err := s.Plans.GetOrCreate(r.Context(), userID, date)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, plan)
}

type completeRequest struct {
	ProblemID int64 `json:"problem_id"`
}

func (s *Server) handleCompleteProblem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	planID, err := pathID(r, "planID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req completeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log = log.WithFields(map[string]any{
		"plan_id":    planID,
		"problem_id": req.ProblemID,
	})
	log.Debug("completing plan problem")

	plan, err := s.Plans.CompleteProblem(r.Context(), planID, req.ProblemID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, plan)
}
