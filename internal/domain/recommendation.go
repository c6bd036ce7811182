package domain

import (
	"time"

	"github.com/google/uuid"
)

// Model identifies which of the two recommenders produced a row.
type Model string

const (
	ModelCF  Model = "cf"
	ModelCBF Model = "cbf"
)

func (m Model) Valid() bool {
	return m == ModelCF || m == ModelCBF
}

// Other returns the opposite model.
func (m Model) Other() Model {
	if m == ModelCF {
		return ModelCBF
	}
	return ModelCF
}

type Recommendation struct {
	ID             int64            `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	MovieID        int64            `json:"movie_id"`
	Model          Model            `json:"model"`
	State          InteractionState `json:"state"`
	FromMovieID    int64            `json:"from_movie_id"`
	FromMovieTitle string           `json:"from_movie_title"`
	FromLike       bool             `json:"from_like"`
	RecommendedAt  time.Time        `json:"recommended_at"`
}

// PendingRecommendation is a recommendation row joined with the metadata of
// the recommended movie, as served by the pending view.
type PendingRecommendation struct {
	Recommendation
	Movie Movie `json:"movie"`
}

// ModelOutcomes are the per-model counts reported by the stats view.
type ModelOutcomes struct {
	Model    Model `json:"model"`
	Liked    int   `json:"liked"`
	Disliked int   `json:"disliked"`
	Saved    int   `json:"saved"`
}
