package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

// GetInteractionState returns the current state for (user, movie). Absence
// of a row is StateNone, not an error.
func (r *Repository) GetInteractionState(ctx context.Context, userID uuid.UUID, movieID int64) (domain.InteractionState, error) {
	var state domain.InteractionState

	err := r.db.QueryRow(ctx,
		`SELECT state FROM user_movie_interactions
		 WHERE user_id = $1 AND movie_id = $2`,
		userID, movieID,
	).Scan(&state)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StateNone, nil
		}
		return domain.StateNone, fmt.Errorf("query interaction user=%s movie=%d: %w", userID, movieID, err)
	}

	return state, nil
}

// SetInteractionState upserts the single row per (user, movie). A concurrent
// duplicate insert resolves to an update through the conflict clause.
func (r *Repository) SetInteractionState(ctx context.Context, userID uuid.UUID, movieID int64, state domain.InteractionState) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_movie_interactions (user_id, movie_id, state, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, movie_id)
		 DO UPDATE SET state = EXCLUDED.state, updated_at = now()`,
		userID, movieID, state,
	)
	if err != nil {
		return fmt.Errorf("upsert interaction user=%s movie=%d: %w", userID, movieID, err)
	}
	return nil
}

// InteractedMovieIDs returns the ids of movies the user acted on directly.
func (r *Repository) InteractedMovieIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT movie_id FROM user_movie_interactions
		 WHERE user_id = $1 AND state <> 'none'`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query interacted movies for user %s: %w", userID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan movie id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interacted movies: %w", err)
	}
	return ids, nil
}

// DislikedMovieIDs returns the ids of movies the user disliked directly.
func (r *Repository) DislikedMovieIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT movie_id FROM user_movie_interactions
		 WHERE user_id = $1 AND state = 'disliked'`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query disliked movies for user %s: %w", userID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan movie id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate disliked movies: %w", err)
	}
	return ids, nil
}

// ListMoviesByInteractionState returns movie metadata for the user's liked,
// disliked or saved movies, most recent action first.
func (r *Repository) ListMoviesByInteractionState(ctx context.Context, userID uuid.UUID, state domain.InteractionState) ([]domain.Movie, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.movie_id, m.title, m.release_year, m.rating
		 FROM user_movie_interactions i
		 JOIN movies m ON m.movie_id = i.movie_id
		 WHERE i.user_id = $1 AND i.state = $2
		 ORDER BY i.updated_at DESC`,
		userID, state,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s movies for user %s: %w", state, userID, err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleaseYear, &m.Rating); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s movies: %w", state, err)
	}
	return movies, nil
}
