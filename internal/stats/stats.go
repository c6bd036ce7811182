// Package stats reports per-model outcome counts for a user.
package stats

import (
	"context"

	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/domain"
	"golang.org/x/sync/errgroup"
)

type Store interface {
	CountRecommendations(ctx context.Context, userID uuid.UUID, model domain.Model, state domain.InteractionState) (int, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ModelStats returns liked/disliked/saved counts for each model. The counts
// are independent read-only aggregates, so they run concurrently.
func (s *Service) ModelStats(ctx context.Context, userID uuid.UUID) ([]domain.ModelOutcomes, error) {
	models := []domain.Model{domain.ModelCF, domain.ModelCBF}
	outcomes := make([]domain.ModelOutcomes, len(models))

	g, ctx := errgroup.WithContext(ctx)
	for i, m := range models {
		outcomes[i].Model = m

		liked := &outcomes[i].Liked
		disliked := &outcomes[i].Disliked
		saved := &outcomes[i].Saved

		g.Go(func() error {
			n, err := s.store.CountRecommendations(ctx, userID, m, domain.StateLiked)
			*liked = n
			return err
		})
		g.Go(func() error {
			n, err := s.store.CountRecommendations(ctx, userID, m, domain.StateDisliked)
			*disliked = n
			return err
		})
		g.Go(func() error {
			n, err := s.store.CountRecommendations(ctx, userID, m, domain.StateSaved)
			*saved = n
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
