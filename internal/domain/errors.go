package domain

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrMovieNotFound          = errors.New("movie not found")
	ErrRecommendationNotFound = errors.New("recommendation not found")

	// ErrMissingWeight means an active user has no blend weight configured.
	// The caller never substitutes a default.
	ErrMissingWeight = errors.New("missing blend weight for user")
)
