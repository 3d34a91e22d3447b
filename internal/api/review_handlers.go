package api

import (
	"net/http"

	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/models"
)

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	attemptID, err := pathID(r, "attemptID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("creating review record: attempt_id=%d", attemptID)
	rec, err := s.Reviews.CreateIfAbsent(r.Context(), attemptID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, rec)
}

type rateRequest struct {
	Rating    int  `json:"rating"`
	RuntimeMS *int `json:"runtime_ms"`
	MemoryKB  *int `json:"memory_kb"`
}

func (s *Server) handleRateReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	attemptID, err := pathID(r, "attemptID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log = log.WithFields(map[string]any{
		"attempt_id": attemptID,
		"rating":     req.Rating,
	})
	log.Debug("rating review")

	rec, err := s.Reviews.ProcessRating(r.Context(), attemptID, req.Rating, req.RuntimeMS, req.MemoryKB)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("review rated: interval=%d days", rec.IntervalDays)
	respondJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleDueReviews(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := userIDFromContext(r.Context())
	limit := queryLimit(r, s.DueLimit)

	log.Debug("listing due reviews: user_id=%d, limit=%d", userID, limit)
	due, err := s.Reviews.DueReviews(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if due == nil {
		due = []models.DueReview{}
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"reviews": due,
		"count":   len(due),
	})
}
