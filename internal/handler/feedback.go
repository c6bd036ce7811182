package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/feedback"
)

// POST /users/{userID}/movies/{movieID}/feedback
func (h *Handler) MovieFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	movieID, err := strconv.ParseInt(chi.URLParam(r, "movieID"), 10, 64)
	if err != nil || movieID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid movie_id parameter")
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	kind, ok := feedback.DirectKind(req.Action)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_action", "Action must be like, dislike or save")
		return
	}

	result, err := h.processor.Apply(r.Context(), feedback.Action{
		UserID:  userID,
		Kind:    kind,
		MovieID: movieID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FeedbackResponse{UserID: userID.String(), Result: result})
}

// POST /users/{userID}/recommendations/{recID}/feedback
func (h *Handler) RecommendationFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	recID, err := strconv.ParseInt(chi.URLParam(r, "recID"), 10, 64)
	if err != nil || recID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid recommendation id parameter")
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	kind, ok := feedback.RecKind(req.Action)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_action", "Action must be like, dislike or save")
		return
	}

	result, err := h.processor.Apply(r.Context(), feedback.Action{
		UserID:           userID,
		Kind:             kind,
		RecommendationID: recID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FeedbackResponse{UserID: userID.String(), Result: result})
}

func parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return uuid.Nil, false
	}
	return userID, true
}
