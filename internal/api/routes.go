package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(userMiddleware)

		r.Post("/attempts/{attemptID}/review", s.handleCreateReview)
		r.Post("/reviews/{attemptID}/rate", s.handleRateReview)
		r.Get("/reviews/due", s.handleDueReviews)
		r.Get("/plans/today", s.handleTodayPlan)
		r.Post("/plans/{planID}/complete", s.handleCompleteProblem)
	})

	r.Post("/admin/plans/generate", s.handleGeneratePlans)

	return r
}
