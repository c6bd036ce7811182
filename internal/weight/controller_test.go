package weight

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/domain"
)

type fakeStore struct {
	weights map[uuid.UUID]float64
	missing bool
	updates int
}

func (s *fakeStore) GetWeight(ctx context.Context, userID uuid.UUID) (float64, error) {
	if s.missing {
		return 0, domain.ErrMissingWeight
	}
	w, ok := s.weights[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	return w, nil
}

func (s *fakeStore) UpdateWeight(ctx context.Context, userID uuid.UUID, w float64) error {
	s.weights[userID] = w
	s.updates++
	return nil
}

func TestNextStepsTowardModel(t *testing.T) {
	// cf positive moves up, cbf positive moves down
	w, changed := Next(6.0, domain.ModelCF, true, false, DefaultStep)
	if !changed || w != 6.2 {
		t.Errorf("expected 6.2, got %v (changed=%v)", w, changed)
	}

	w, changed = Next(6.0, domain.ModelCBF, true, false, DefaultStep)
	if !changed || w != 5.8 {
		t.Errorf("expected 5.8, got %v (changed=%v)", w, changed)
	}

	// negative feedback is symmetric
	w, changed = Next(6.0, domain.ModelCF, false, false, DefaultStep)
	if !changed || w != 5.8 {
		t.Errorf("expected 5.8, got %v (changed=%v)", w, changed)
	}

	w, changed = Next(6.0, domain.ModelCBF, false, false, DefaultStep)
	if !changed || w != 6.2 {
		t.Errorf("expected 6.2, got %v (changed=%v)", w, changed)
	}
}

func TestNextSharedSignalSuppressed(t *testing.T) {
	w, changed := Next(6.0, domain.ModelCF, true, true, DefaultStep)
	if changed || w != 6.0 {
		t.Errorf("shared signal must not adjust: got %v (changed=%v)", w, changed)
	}
}

func TestNextBounds(t *testing.T) {
	// On or outside the open interval: no adjustment at all.
	for _, w := range []float64{2.0, 10.0, 1.5, 11.0} {
		next, changed := Next(w, domain.ModelCF, true, false, DefaultStep)
		if changed || next != w {
			t.Errorf("weight %v must not adjust, got %v (changed=%v)", w, next, changed)
		}
	}

	// Just inside: adjusts, clamped to the bound.
	next, changed := Next(9.9, domain.ModelCF, true, false, DefaultStep)
	if !changed || next != 10.0 {
		t.Errorf("expected clamp to 10.0, got %v (changed=%v)", next, changed)
	}

	next, changed = Next(2.1, domain.ModelCF, false, false, DefaultStep)
	if !changed || next != 2.0 {
		t.Errorf("expected clamp to 2.0, got %v (changed=%v)", next, changed)
	}
}

func TestNextStaysInBoundsUnderAnySequence(t *testing.T) {
	w := 6.0
	models := []domain.Model{domain.ModelCF, domain.ModelCF, domain.ModelCBF, domain.ModelCF}
	for i := 0; i < 200; i++ {
		m := models[i%len(models)]
		w, _ = Next(w, m, i%3 != 0, false, DefaultStep)
		if w < MinWeight || w > MaxWeight {
			t.Fatalf("weight escaped bounds at step %d: %v", i, w)
		}
	}
}

func TestNextNoFloatDrift(t *testing.T) {
	w := 6.0
	for i := 0; i < 10; i++ {
		w, _ = Next(w, domain.ModelCF, true, false, DefaultStep)
		w, _ = Next(w, domain.ModelCBF, true, false, DefaultStep)
	}
	if w != 6.0 {
		t.Errorf("expected 6.0 after balanced adjustments, got %v", w)
	}
}

func TestControllerPersistsOnlyWhenChanged(t *testing.T) {
	userID := uuid.New()
	store := &fakeStore{weights: map[uuid.UUID]float64{userID: 6.0}}
	c := NewController(store)

	w, err := c.AdjustOnPositiveFeedback(context.Background(), userID, domain.ModelCF, false)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if w != 6.2 || store.weights[userID] != 6.2 {
		t.Errorf("expected persisted 6.2, got %v (stored %v)", w, store.weights[userID])
	}
	if store.updates != 1 {
		t.Errorf("expected 1 update, got %d", store.updates)
	}

	// Shared signal: no persistence call at all.
	w, err = c.AdjustOnPositiveFeedback(context.Background(), userID, domain.ModelCF, true)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if w != 6.2 || store.updates != 1 {
		t.Errorf("shared signal must be a no-op: weight %v, updates %d", w, store.updates)
	}
}

func TestControllerMissingWeight(t *testing.T) {
	store := &fakeStore{missing: true}
	c := NewController(store)

	if _, err := c.Weight(context.Background(), uuid.New()); !errors.Is(err, domain.ErrMissingWeight) {
		t.Errorf("expected ErrMissingWeight, got %v", err)
	}

	if _, err := c.AdjustOnNegativeFeedback(context.Background(), uuid.New(), domain.ModelCF, false); !errors.Is(err, domain.ErrMissingWeight) {
		t.Errorf("expected ErrMissingWeight, got %v", err)
	}
	if store.updates != 0 {
		t.Errorf("missing weight must never persist, got %d updates", store.updates)
	}
}
