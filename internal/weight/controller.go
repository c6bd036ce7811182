// Package weight owns the per-user scalar blend weight between the cf and
// cbf recommenders. Higher values favor cf, lower values favor cbf.
package weight

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/domain"
)

const (
	MinWeight = 2.0
	MaxWeight = 10.0

	// DefaultStep is the adjustment magnitude for every positive and
	// negative signal, like and save alike.
	DefaultStep = 0.2
)

// Store is the slice of the persistence layer the controller needs.
type Store interface {
	GetWeight(ctx context.Context, userID uuid.UUID) (float64, error)
	UpdateWeight(ctx context.Context, userID uuid.UUID, weight float64) error
}

type Controller struct {
	store Store
	step  float64
}

func NewController(store Store) *Controller {
	return &Controller{store: store, step: DefaultStep}
}

// Weight reads the user's current blend weight. ErrMissingWeight propagates
// untouched: a silent default would corrupt the adjustment semantics.
func (c *Controller) Weight(ctx context.Context, userID uuid.UUID) (float64, error) {
	return c.store.GetWeight(ctx, userID)
}

// AdjustOnPositiveFeedback moves trust toward model and persists the result.
// The adjustment is skipped when the other model independently recommended
// the same movie (the signal is attributable to both) or when the weight sits
// on or outside the open interval (MinWeight, MaxWeight). Returns the weight
// in effect afterwards.
func (c *Controller) AdjustOnPositiveFeedback(ctx context.Context, userID uuid.UUID, model domain.Model, otherModelAlsoRecommended bool) (float64, error) {
	return c.adjust(ctx, userID, model, true, otherModelAlsoRecommended)
}

// AdjustOnNegativeFeedback moves trust away from model; otherwise symmetric
// with AdjustOnPositiveFeedback.
func (c *Controller) AdjustOnNegativeFeedback(ctx context.Context, userID uuid.UUID, model domain.Model, otherModelAlsoRecommended bool) (float64, error) {
	return c.adjust(ctx, userID, model, false, otherModelAlsoRecommended)
}

func (c *Controller) adjust(ctx context.Context, userID uuid.UUID, model domain.Model, positive, shared bool) (float64, error) {
	current, err := c.store.GetWeight(ctx, userID)
	if err != nil {
		return 0, err
	}

	next, changed := Next(current, model, positive, shared, c.step)
	if !changed {
		return current, nil
	}

	if err := c.store.UpdateWeight(ctx, userID, next); err != nil {
		return 0, fmt.Errorf("persist weight: %w", err)
	}
	return next, nil
}

// Next computes the weight after one feedback signal. It is a pure function
// so callers can know the post-adjustment weight before any write happens
// (the scoring call uses it ahead of the transaction).
//
// shared suppresses the adjustment entirely: when both models recommended
// the movie the signal credits neither. Adjustments only apply while the
// weight is strictly inside (MinWeight, MaxWeight), and the result is
// clamped unconditionally, so 9.9 + 0.2 lands on 10.0 and the weight can
// reach but never cross a bound.
func Next(current float64, model domain.Model, positive, shared bool, step float64) (float64, bool) {
	if shared {
		return current, false
	}
	if current <= MinWeight || current >= MaxWeight {
		return current, false
	}

	delta := step
	if model == domain.ModelCBF {
		delta = -delta
	}
	if !positive {
		delta = -delta
	}

	next := clamp(roundStep(current + delta))
	if next == current {
		return current, false
	}
	return next, true
}

func clamp(w float64) float64 {
	return math.Min(MaxWeight, math.Max(MinWeight, w))
}

// roundStep keeps the weight on a one-decimal grid; repeated float adds
// would otherwise drift (6.0 + 0.2 - 0.2 != 6.0 in binary floating point).
func roundStep(w float64) float64 {
	return math.Round(w*10) / 10
}
