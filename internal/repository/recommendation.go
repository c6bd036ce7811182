package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

const recommendationColumns = `r.id, r.user_id, r.movie_id, r.model, r.state,
	r.from_movie_id, r.from_movie_title, r.from_like, r.recommended_at`

// InsertCandidates inserts one row per candidate with conflict-skip on the
// unique (user, movie, model) key, so repeat expansions from the same seed
// never duplicate rows.
func (r *Repository) InsertCandidates(ctx context.Context, recs []domain.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	values := make([]string, 0, len(recs))
	args := make([]any, 0, len(recs)*7)
	for i, rec := range recs {
		base := i * 7
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, rec.UserID, rec.MovieID, rec.Model, rec.State,
			rec.FromMovieID, rec.FromMovieTitle, rec.FromLike)
	}

	query := fmt.Sprintf(
		`INSERT INTO movie_recommendations
		 (user_id, movie_id, model, state, from_movie_id, from_movie_title, from_like)
		 VALUES %s
		 ON CONFLICT (user_id, movie_id, model) DO NOTHING`,
		strings.Join(values, ", "),
	)

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %d candidates: %w", len(recs), err)
	}
	return nil
}

func (r *Repository) GetRecommendationByID(ctx context.Context, recID int64) (*domain.Recommendation, error) {
	rec := &domain.Recommendation{}

	err := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM movie_recommendations r WHERE r.id = $1`, recommendationColumns),
		recID,
	).Scan(&rec.ID, &rec.UserID, &rec.MovieID, &rec.Model, &rec.State,
		&rec.FromMovieID, &rec.FromMovieTitle, &rec.FromLike, &rec.RecommendedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecommendationNotFound
		}
		return nil, fmt.Errorf("query recommendation id=%d: %w", recID, err)
	}

	return rec, nil
}

// HasRecommendation reports whether a row exists for (user, movie, model).
// The feedback path uses it to detect cross-model signals.
func (r *Repository) HasRecommendation(ctx context.Context, userID uuid.UUID, movieID int64, model domain.Model) (bool, error) {
	var exists bool

	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM movie_recommendations
			WHERE user_id = $1 AND movie_id = $2 AND model = $3
		 )`,
		userID, movieID, model,
	).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("check recommendation user=%s movie=%d model=%s: %w", userID, movieID, model, err)
	}
	return exists, nil
}

// SetRecommendationStateForMovie flags every model's row for (user, movie),
// so a cf like also marks the cbf sibling when both exist.
func (r *Repository) SetRecommendationStateForMovie(ctx context.Context, userID uuid.UUID, movieID int64, state domain.InteractionState) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE movie_recommendations SET state = $3
		 WHERE user_id = $1 AND movie_id = $2`,
		userID, movieID, state,
	)
	if err != nil {
		return fmt.Errorf("update recommendation state user=%s movie=%d: %w", userID, movieID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecommendationNotFound
	}
	return nil
}

// ListRecommendations returns every recommendation row for the user joined
// with movie metadata, most recent first with a stable id tie-break.
func (r *Repository) ListRecommendations(ctx context.Context, userID uuid.UUID) ([]domain.PendingRecommendation, error) {
	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s, m.movie_id, m.title, m.release_year, m.rating
		 FROM movie_recommendations r
		 JOIN movies m ON m.movie_id = r.movie_id
		 WHERE r.user_id = $1
		 ORDER BY r.recommended_at DESC, r.id DESC`, recommendationColumns),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query recommendations for user %s: %w", userID, err)
	}
	defer rows.Close()

	return scanRecommendationRows(rows)
}

// ListRecommendationsByState returns the user's liked, disliked or saved
// recommendation rows.
func (r *Repository) ListRecommendationsByState(ctx context.Context, userID uuid.UUID, state domain.InteractionState) ([]domain.PendingRecommendation, error) {
	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s, m.movie_id, m.title, m.release_year, m.rating
		 FROM movie_recommendations r
		 JOIN movies m ON m.movie_id = r.movie_id
		 WHERE r.user_id = $1 AND r.state = $2
		 ORDER BY r.recommended_at DESC, r.id DESC`, recommendationColumns),
		userID, state,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s recommendations for user %s: %w", state, userID, err)
	}
	defer rows.Close()

	return scanRecommendationRows(rows)
}

// CountRecommendations counts the user's rows for one (model, state) pair.
func (r *Repository) CountRecommendations(ctx context.Context, userID uuid.UUID, model domain.Model, state domain.InteractionState) (int, error) {
	var count int

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM movie_recommendations
		 WHERE user_id = $1 AND model = $2 AND state = $3`,
		userID, model, state,
	).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("count %s/%s recommendations for user %s: %w", model, state, userID, err)
	}
	return count, nil
}

func scanRecommendationRows(rows pgx.Rows) ([]domain.PendingRecommendation, error) {
	var recs []domain.PendingRecommendation
	for rows.Next() {
		var rec domain.PendingRecommendation
		err := rows.Scan(&rec.ID, &rec.UserID, &rec.MovieID, &rec.Model, &rec.State,
			&rec.FromMovieID, &rec.FromMovieTitle, &rec.FromLike, &rec.RecommendedAt,
			&rec.Movie.ID, &rec.Movie.Title, &rec.Movie.ReleaseYear, &rec.Movie.Rating)
		if err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	return recs, nil
}
