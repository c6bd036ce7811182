package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/hybridrec/feedback-service/internal/domain"
	"github.com/hybridrec/feedback-service/internal/feedback"
	"github.com/hybridrec/feedback-service/internal/merger"
	"github.com/hybridrec/feedback-service/internal/repository"
	"github.com/hybridrec/feedback-service/internal/scoring"
	"github.com/hybridrec/feedback-service/internal/stats"
)

type Handler struct {
	processor *feedback.Processor
	merger    *merger.Merger
	stats     *stats.Service
	repo      *repository.Repository
}

func NewHandler(processor *feedback.Processor, m *merger.Merger, st *stats.Service, repo *repository.Repository) *Handler {
	return &Handler{
		processor: processor,
		merger:    m,
		stats:     st,
		repo:      repo,
	}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// writeDomainError maps the error taxonomy to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", "User does not exist")
	case errors.Is(err, domain.ErrMovieNotFound):
		writeError(w, http.StatusNotFound, "movie_not_found", "Movie does not exist")
	case errors.Is(err, domain.ErrRecommendationNotFound):
		writeError(w, http.StatusNotFound, "recommendation_not_found", "Recommendation does not exist")
	case errors.Is(err, domain.ErrMissingWeight):
		// Provisioning fault: fatal, not retried.
		writeError(w, http.StatusInternalServerError, "missing_weight", "User account is missing its blend weight")
	case scoring.IsUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, "scoring_unavailable", "Scoring service is temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "Request timed out, please try again")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
