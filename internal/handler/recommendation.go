package handler

import (
	"net/http"
	"strconv"

	"github.com/hybridrec/feedback-service/internal/domain"
)

// GET /users/{userID}/recommendations?state=&limit=
//
// Without a state filter this serves the pending view; with one it lists the
// user's liked, disliked or saved recommendation rows.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if stateStr := r.URL.Query().Get("state"); stateStr != "" {
		state := domain.InteractionState(stateStr)
		if !state.Valid() || state == domain.StateNone {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "State must be liked, disliked or saved")
			return
		}

		recs, err := h.repo.ListRecommendationsByState(r.Context(), userID, state)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, RecommendationListResponse{
			UserID:          userID.String(),
			State:           state,
			Recommendations: recs,
		})
		return
	}

	// Parse and validate limit
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	recs, err := h.merger.ListRecentN(r.Context(), userID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PendingResponse{
		UserID:          userID.String(),
		Recommendations: recs,
		TotalCount:      len(recs),
	})
}

// GET /users/{userID}/movies?state=liked
func (h *Handler) GetMovies(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	state := domain.InteractionState(r.URL.Query().Get("state"))
	if !state.Valid() || state == domain.StateNone {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "State must be liked, disliked or saved")
		return
	}

	movies, err := h.repo.ListMoviesByInteractionState(r.Context(), userID, state)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MovieListResponse{
		UserID: userID.String(),
		State:  state,
		Movies: movies,
	})
}

// GET /users/{userID}/stats
func (h *Handler) GetModelStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	outcomes, err := h.stats.ModelStats(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		UserID: userID.String(),
		Models: outcomes,
	})
}
