package domain

import (
	"time"

	"github.com/google/uuid"
)

// InteractionState is the single outcome of a user acting on a movie. A
// (user, movie) pair is in exactly one state at a time.
type InteractionState string

const (
	StateNone     InteractionState = "none"
	StateLiked    InteractionState = "liked"
	StateDisliked InteractionState = "disliked"
	StateSaved    InteractionState = "saved"
)

func (s InteractionState) Valid() bool {
	switch s {
	case StateNone, StateLiked, StateDisliked, StateSaved:
		return true
	}
	return false
}

type Interaction struct {
	UserID    uuid.UUID        `json:"user_id"`
	MovieID   int64            `json:"movie_id"`
	State     InteractionState `json:"state"`
	UpdatedAt time.Time        `json:"updated_at"`
}
