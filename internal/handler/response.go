package handler

import (
	"github.com/hybridrec/feedback-service/internal/domain"
	"github.com/hybridrec/feedback-service/internal/feedback"
)

type PendingResponse struct {
	UserID          string                         `json:"user_id"`
	Recommendations []domain.PendingRecommendation `json:"recommendations"`
	TotalCount      int                            `json:"total_count"`
}

type RecommendationListResponse struct {
	UserID          string                         `json:"user_id"`
	State           domain.InteractionState        `json:"state"`
	Recommendations []domain.PendingRecommendation `json:"recommendations"`
}

type MovieListResponse struct {
	UserID string                  `json:"user_id"`
	State  domain.InteractionState `json:"state"`
	Movies []domain.Movie          `json:"movies"`
}

type StatsResponse struct {
	UserID string                 `json:"user_id"`
	Models []domain.ModelOutcomes `json:"models"`
}

type FeedbackRequest struct {
	Action string `json:"action"`
}

type FeedbackResponse struct {
	UserID string           `json:"user_id"`
	Result *feedback.Result `json:"result"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
