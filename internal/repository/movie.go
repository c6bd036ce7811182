package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hybridrec/feedback-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) GetMovieByID(ctx context.Context, movieID int64) (*domain.Movie, error) {
	movie := &domain.Movie{}

	err := r.db.QueryRow(ctx,
		`SELECT movie_id, title, release_year, rating
		 FROM movies WHERE movie_id = $1`,
		movieID,
	).Scan(&movie.ID, &movie.Title, &movie.ReleaseYear, &movie.Rating)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("query movie id=%d: %w", movieID, err)
	}

	return movie, nil
}
