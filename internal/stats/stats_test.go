package stats

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/domain"
)

type fakeStore struct {
	counts map[string]int
	err    error
}

func (s *fakeStore) CountRecommendations(ctx context.Context, userID uuid.UUID, model domain.Model, state domain.InteractionState) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.counts[fmt.Sprintf("%s/%s", model, state)], nil
}

func TestModelStats(t *testing.T) {
	store := &fakeStore{counts: map[string]int{
		"cf/liked":     3,
		"cf/disliked":  1,
		"cf/saved":     2,
		"cbf/liked":    5,
		"cbf/disliked": 0,
		"cbf/saved":    4,
	}}

	outcomes, err := NewService(store).ModelStats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 models, got %d", len(outcomes))
	}
	if outcomes[0].Model != domain.ModelCF || outcomes[0].Liked != 3 || outcomes[0].Disliked != 1 || outcomes[0].Saved != 2 {
		t.Errorf("bad cf outcomes: %+v", outcomes[0])
	}
	if outcomes[1].Model != domain.ModelCBF || outcomes[1].Liked != 5 || outcomes[1].Disliked != 0 || outcomes[1].Saved != 4 {
		t.Errorf("bad cbf outcomes: %+v", outcomes[1])
	}
}

func TestModelStatsPropagatesError(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("connection reset")}

	if _, err := NewService(store).ModelStats(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error")
	}
}
