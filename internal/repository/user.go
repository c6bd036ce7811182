package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Get single user
func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user := &domain.User{}
	var weight *float64

	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, blend_weight, created_at
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Name, &user.Email, &weight, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user id=%s: %w", userID, err)
	}

	if weight != nil {
		user.BlendWeight = *weight
	}
	return user, nil
}

// GetWeight reads the current blend weight. A user without a configured
// weight is a provisioning fault, surfaced as ErrMissingWeight.
func (r *Repository) GetWeight(ctx context.Context, userID uuid.UUID) (float64, error) {
	var weight *float64

	err := r.db.QueryRow(ctx,
		`SELECT blend_weight FROM users WHERE id = $1`, userID,
	).Scan(&weight)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("query weight for user %s: %w", userID, err)
	}

	if weight == nil {
		return 0, domain.ErrMissingWeight
	}
	return *weight, nil
}

func (r *Repository) UpdateWeight(ctx context.Context, userID uuid.UUID, weight float64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET blend_weight = $2 WHERE id = $1`, userID, weight,
	)
	if err != nil {
		return fmt.Errorf("update weight for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
