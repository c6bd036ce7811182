package merger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/domain"
	"github.com/hybridrec/feedback-service/internal/scoring"
	"github.com/rs/zerolog"
)

type fakeStore struct {
	rows       []domain.PendingRecommendation
	interacted []int64
	disliked   []int64
	inserted   []domain.Recommendation
}

func (s *fakeStore) InsertCandidates(ctx context.Context, recs []domain.Recommendation) error {
	// conflict-skip on (user, movie, model)
	for _, rec := range recs {
		dup := false
		for _, have := range s.inserted {
			if have.UserID == rec.UserID && have.MovieID == rec.MovieID && have.Model == rec.Model {
				dup = true
				break
			}
		}
		if !dup {
			s.inserted = append(s.inserted, rec)
		}
	}
	return nil
}

func (s *fakeStore) ListRecommendations(ctx context.Context, userID uuid.UUID) ([]domain.PendingRecommendation, error) {
	return s.rows, nil
}

func (s *fakeStore) InteractedMovieIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	return s.interacted, nil
}

func (s *fakeStore) DislikedMovieIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	return s.disliked, nil
}

type fakeScorer struct {
	resp  *scoring.HybridResponse
	calls int
}

func (s *fakeScorer) Recommend(ctx context.Context, movieID int64, weight float64) (*scoring.HybridResponse, error) {
	s.calls++
	return s.resp, nil
}

func pendingRow(movieID int64, model domain.Model, state domain.InteractionState, fromMovieID int64, age time.Duration) domain.PendingRecommendation {
	return domain.PendingRecommendation{
		Recommendation: domain.Recommendation{
			MovieID:       movieID,
			Model:         model,
			State:         state,
			FromMovieID:   fromMovieID,
			RecommendedAt: time.Now().Add(-age),
		},
	}
}

func TestBuildCandidates(t *testing.T) {
	userID := uuid.New()
	seed := &domain.Movie{ID: 27205, Title: "Inception"}
	resp := &scoring.HybridResponse{
		MovieTitle: "Inception",
		CF:         []scoring.Candidate{{Title: "A", MovieID: 11}},
		CBF:        []scoring.Candidate{{Title: "B", MovieID: 12}},
	}

	recs := BuildCandidates(userID, seed, true, resp)
	if len(recs) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(recs))
	}

	if recs[0].MovieID != 11 || recs[0].Model != domain.ModelCF {
		t.Errorf("expected cf candidate for movie 11, got %+v", recs[0])
	}
	if recs[1].MovieID != 12 || recs[1].Model != domain.ModelCBF {
		t.Errorf("expected cbf candidate for movie 12, got %+v", recs[1])
	}

	for _, rec := range recs {
		if rec.FromMovieID != 27205 || rec.FromMovieTitle != "Inception" || !rec.FromLike {
			t.Errorf("bad provenance: %+v", rec)
		}
		if rec.State != domain.StateNone {
			t.Errorf("candidates must start pending, got %s", rec.State)
		}
	}
}

func TestExpandFromConflictSkip(t *testing.T) {
	userID := uuid.New()
	seed := &domain.Movie{ID: 27205, Title: "Inception"}
	store := &fakeStore{}
	scorer := &fakeScorer{resp: &scoring.HybridResponse{
		CF:  []scoring.Candidate{{Title: "A", MovieID: 11}},
		CBF: []scoring.Candidate{{Title: "B", MovieID: 12}},
	}}
	m := NewMerger(store, scorer, nil, zerolog.Nop())

	// Same seed twice: exactly one row per (user, movie, model).
	if err := m.ExpandFrom(context.Background(), userID, seed, 6.0, true); err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if err := m.ExpandFrom(context.Background(), userID, seed, 6.0, true); err != nil {
		t.Fatalf("repeat expand failed: %v", err)
	}

	if scorer.calls != 2 {
		t.Errorf("expected 2 scoring calls, got %d", scorer.calls)
	}
	if len(store.inserted) != 2 {
		t.Errorf("expected 2 rows after repeat expansion, got %d", len(store.inserted))
	}
}

func TestFilterPendingExcludesFlaggedAndInteracted(t *testing.T) {
	rows := []domain.PendingRecommendation{
		pendingRow(11, domain.ModelCF, domain.StateNone, 1, time.Minute),
		pendingRow(12, domain.ModelCF, domain.StateLiked, 1, 2*time.Minute), // flagged
		pendingRow(12, domain.ModelCBF, domain.StateNone, 1, 3*time.Minute), // sibling of flagged
		pendingRow(13, domain.ModelCF, domain.StateNone, 1, 4*time.Minute),  // interacted
		pendingRow(14, domain.ModelCF, domain.StateNone, 99, 5*time.Minute), // disliked seed
	}

	pending := filterPending(rows, map[int64]bool{13: true}, map[int64]bool{99: true})

	if len(pending) != 1 || pending[0].MovieID != 11 {
		t.Fatalf("expected only movie 11 pending, got %+v", pending)
	}
}

func TestFilterPendingDedupKeepsMostRecent(t *testing.T) {
	// Rows arrive ordered by recency descending; cf and cbf both recommended
	// movie 11, the newer row wins.
	newer := pendingRow(11, domain.ModelCF, domain.StateNone, 1, time.Minute)
	older := pendingRow(11, domain.ModelCBF, domain.StateNone, 2, time.Hour)
	rows := []domain.PendingRecommendation{newer, older}

	pending := filterPending(rows, nil, nil)

	if len(pending) != 1 {
		t.Fatalf("expected 1 row after dedup, got %d", len(pending))
	}
	if pending[0].Model != domain.ModelCF || !pending[0].RecommendedAt.Equal(newer.RecommendedAt) {
		t.Errorf("expected most recent row kept, got %+v", pending[0])
	}
}

func TestListRecentNTruncates(t *testing.T) {
	store := &fakeStore{rows: []domain.PendingRecommendation{
		pendingRow(11, domain.ModelCF, domain.StateNone, 1, time.Minute),
		pendingRow(12, domain.ModelCF, domain.StateNone, 1, 2*time.Minute),
		pendingRow(13, domain.ModelCF, domain.StateNone, 1, 3*time.Minute),
	}}
	m := NewMerger(store, &fakeScorer{}, nil, zerolog.Nop())

	pending, err := m.ListRecentN(context.Background(), uuid.New(), 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(pending))
	}
	if pending[0].MovieID != 11 || pending[1].MovieID != 12 {
		t.Errorf("expected most recent first, got %+v", pending)
	}
}
