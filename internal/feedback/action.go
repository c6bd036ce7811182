package feedback

import (
	"github.com/google/uuid"
)

// ActionKind is the closed set of user actions the processor handles.
// Dispatch is an exhaustive switch on this type, never on raw strings.
type ActionKind int

const (
	LikeMovie ActionKind = iota
	DislikeMovie
	SaveMovie
	LikeRecommendation
	DislikeRecommendation
	SaveRecommendation
)

func (k ActionKind) String() string {
	switch k {
	case LikeMovie:
		return "like_movie"
	case DislikeMovie:
		return "dislike_movie"
	case SaveMovie:
		return "save_movie"
	case LikeRecommendation:
		return "like_recommendation"
	case DislikeRecommendation:
		return "dislike_recommendation"
	case SaveRecommendation:
		return "save_recommendation"
	}
	return "unknown"
}

// Action is one user feedback event. MovieID is set for direct actions,
// RecommendationID for recommendation-card actions.
type Action struct {
	UserID           uuid.UUID
	Kind             ActionKind
	MovieID          int64
	RecommendationID int64
}

// DirectKind maps a wire action name to the direct-movie action kind.
func DirectKind(name string) (ActionKind, bool) {
	switch name {
	case "like":
		return LikeMovie, true
	case "dislike":
		return DislikeMovie, true
	case "save":
		return SaveMovie, true
	}
	return 0, false
}

// RecKind maps a wire action name to the recommendation-card action kind.
func RecKind(name string) (ActionKind, bool) {
	switch name {
	case "like":
		return LikeRecommendation, true
	case "dislike":
		return DislikeRecommendation, true
	case "save":
		return SaveRecommendation, true
	}
	return 0, false
}
