// Package feedback orchestrates the full effect of a single user action:
// store reads, the scoring call, the weight adjustment and all writes.
package feedback

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/domain"
	"github.com/hybridrec/feedback-service/internal/weight"
	"github.com/rs/zerolog"
)

// Store is the persistence surface one action needs. *repository.Repository
// satisfies it directly.
type Store interface {
	GetWeight(ctx context.Context, userID uuid.UUID) (float64, error)
	UpdateWeight(ctx context.Context, userID uuid.UUID, w float64) error
	GetMovieByID(ctx context.Context, movieID int64) (*domain.Movie, error)
	GetInteractionState(ctx context.Context, userID uuid.UUID, movieID int64) (domain.InteractionState, error)
	SetInteractionState(ctx context.Context, userID uuid.UUID, movieID int64, state domain.InteractionState) error
	GetRecommendationByID(ctx context.Context, recID int64) (*domain.Recommendation, error)
	HasRecommendation(ctx context.Context, userID uuid.UUID, movieID int64, model domain.Model) (bool, error)
	SetRecommendationStateForMovie(ctx context.Context, userID uuid.UUID, movieID int64, state domain.InteractionState) error
	InsertCandidates(ctx context.Context, recs []domain.Recommendation) error
}

// Runner adds transaction scoping: every write of one action goes through a
// single InTx call so the action commits atomically or not at all.
type Runner interface {
	Store
	InTx(ctx context.Context, fn func(Store) error) error
}

// Expander fetches scored candidates without writing anything; the processor
// orders it ahead of the transaction.
type Expander interface {
	Fetch(ctx context.Context, userID uuid.UUID, seed *domain.Movie, w float64, wasLike bool) ([]domain.Recommendation, error)
}

// Invalidator drops cached views after a committed action.
type Invalidator interface {
	ClearUserCache(ctx context.Context, userID uuid.UUID) error
}

// Result reports the state of the acted-upon movie and the weight in effect
// after the action.
type Result struct {
	MovieID int64                   `json:"movie_id"`
	State   domain.InteractionState `json:"state"`
	Weight  float64                 `json:"weight"`
}

type Processor struct {
	store  Runner
	merger Expander
	cache  Invalidator
	logger zerolog.Logger
}

func NewProcessor(store Runner, merger Expander, cache Invalidator, logger zerolog.Logger) *Processor {
	return &Processor{
		store:  store,
		merger: merger,
		cache:  cache,
		logger: logger.With().Str("component", "feedback").Logger(),
	}
}

// Apply handles one user action end to end. The read phase (current state,
// other-model check, weight) and the scoring call all happen before the
// first write; the writes then commit in a single transaction.
func (p *Processor) Apply(ctx context.Context, action Action) (*Result, error) {
	var (
		res *Result
		err error
	)

	switch action.Kind {
	case LikeMovie:
		res, err = p.applyDirect(ctx, action, domain.StateLiked)
	case DislikeMovie:
		res, err = p.applyDirect(ctx, action, domain.StateDisliked)
	case SaveMovie:
		res, err = p.applyDirect(ctx, action, domain.StateSaved)
	case LikeRecommendation:
		res, err = p.applyRec(ctx, action, domain.StateLiked)
	case DislikeRecommendation:
		res, err = p.applyRec(ctx, action, domain.StateDisliked)
	case SaveRecommendation:
		res, err = p.applyRec(ctx, action, domain.StateSaved)
	default:
		return nil, fmt.Errorf("unhandled action kind %d", action.Kind)
	}

	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if cacheErr := p.cache.ClearUserCache(ctx, action.UserID); cacheErr != nil {
			p.logger.Warn().Err(cacheErr).
				Str("user_id", action.UserID.String()).
				Msg("cache invalidation failed")
		}
	}

	p.logger.Info().
		Str("action", action.Kind.String()).
		Str("user_id", action.UserID.String()).
		Int64("movie_id", res.MovieID).
		Str("state", string(res.State)).
		Float64("weight", res.Weight).
		Msg("feedback applied")

	return res, nil
}

// applyDirect handles like/dislike/save on a movie outside the
// recommendation flow. Acting with the current state toggles back to none;
// only the none -> liked|saved transition expands the recommendation pool,
// and direct actions never adjust the weight.
func (p *Processor) applyDirect(ctx context.Context, action Action, target domain.InteractionState) (*Result, error) {
	movie, err := p.store.GetMovieByID(ctx, action.MovieID)
	if err != nil {
		return nil, err
	}

	current, err := p.store.GetInteractionState(ctx, action.UserID, action.MovieID)
	if err != nil {
		return nil, err
	}
	next := nextState(current, target)

	w, err := p.store.GetWeight(ctx, action.UserID)
	if err != nil {
		return nil, err
	}

	var candidates []domain.Recommendation
	if current == domain.StateNone && (target == domain.StateLiked || target == domain.StateSaved) {
		candidates, err = p.merger.Fetch(ctx, action.UserID, movie, w, target == domain.StateLiked)
		if err != nil {
			return nil, err
		}
	}

	err = p.store.InTx(ctx, func(tx Store) error {
		if len(candidates) > 0 {
			if err := tx.InsertCandidates(ctx, candidates); err != nil {
				return err
			}
		}
		return tx.SetInteractionState(ctx, action.UserID, action.MovieID, next)
	})
	if err != nil {
		return nil, err
	}

	return &Result{MovieID: action.MovieID, State: next, Weight: w}, nil
}

// applyRec handles like/dislike/save on a recommendation card. The
// other-model existence check is read before any write: when the movie was
// recommended by one model alone the signal credits (or debits) that model's
// trust, otherwise the weight stays put. Positive actions expand the pool
// with the post-adjustment weight; a dislike never seeds new rows, the
// disliked-seed exclusion would discard them immediately.
func (p *Processor) applyRec(ctx context.Context, action Action, target domain.InteractionState) (*Result, error) {
	rec, err := p.store.GetRecommendationByID(ctx, action.RecommendationID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != action.UserID {
		return nil, domain.ErrRecommendationNotFound
	}

	otherExists, err := p.store.HasRecommendation(ctx, action.UserID, rec.MovieID, rec.Model.Other())
	if err != nil {
		return nil, err
	}

	w, err := p.store.GetWeight(ctx, action.UserID)
	if err != nil {
		return nil, err
	}

	positive := target != domain.StateDisliked
	newWeight, _ := weight.Next(w, rec.Model, positive, otherExists, weight.DefaultStep)

	var candidates []domain.Recommendation
	if positive {
		movie, err := p.store.GetMovieByID(ctx, rec.MovieID)
		if err != nil {
			return nil, err
		}
		candidates, err = p.merger.Fetch(ctx, action.UserID, movie, newWeight, target == domain.StateLiked)
		if err != nil {
			return nil, err
		}
	}

	err = p.store.InTx(ctx, func(tx Store) error {
		wc := weight.NewController(tx)
		if positive {
			if _, err := wc.AdjustOnPositiveFeedback(ctx, action.UserID, rec.Model, otherExists); err != nil {
				return err
			}
		} else {
			if _, err := wc.AdjustOnNegativeFeedback(ctx, action.UserID, rec.Model, otherExists); err != nil {
				return err
			}
		}

		if len(candidates) > 0 {
			if err := tx.InsertCandidates(ctx, candidates); err != nil {
				return err
			}
		}

		if err := tx.SetRecommendationStateForMovie(ctx, action.UserID, rec.MovieID, target); err != nil {
			return err
		}
		return tx.SetInteractionState(ctx, action.UserID, rec.MovieID, target)
	})
	if err != nil {
		return nil, err
	}

	return &Result{MovieID: rec.MovieID, State: target, Weight: newWeight}, nil
}

// nextState is the total transition function for direct actions: acting with
// the current state toggles back to none, anything else moves to the acted
// state.
func nextState(current, target domain.InteractionState) domain.InteractionState {
	if current == target {
		return domain.StateNone
	}
	return target
}
