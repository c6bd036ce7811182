// Package merger produces candidate recommendation rows from the scoring
// service and serves the deduplicated pending view.
package merger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hybridrec/feedback-service/internal/cache"
	"github.com/hybridrec/feedback-service/internal/domain"
	"github.com/hybridrec/feedback-service/internal/scoring"
	"github.com/rs/zerolog"
)

// Scorer is the slice of the scoring client the merger consumes.
type Scorer interface {
	Recommend(ctx context.Context, movieID int64, weight float64) (*scoring.HybridResponse, error)
}

// CandidateStore persists candidate rows with conflict-skip semantics.
type CandidateStore interface {
	InsertCandidates(ctx context.Context, recs []domain.Recommendation) error
}

// Store is everything the merger reads and writes.
type Store interface {
	CandidateStore
	ListRecommendations(ctx context.Context, userID uuid.UUID) ([]domain.PendingRecommendation, error)
	InteractedMovieIDs(ctx context.Context, userID uuid.UUID) ([]int64, error)
	DislikedMovieIDs(ctx context.Context, userID uuid.UUID) ([]int64, error)
}

type Merger struct {
	store  Store
	scorer Scorer
	cache  *cache.Cache
	logger zerolog.Logger
}

func NewMerger(store Store, scorer Scorer, c *cache.Cache, logger zerolog.Logger) *Merger {
	return &Merger{
		store:  store,
		scorer: scorer,
		cache:  c,
		logger: logger.With().Str("component", "merger").Logger(),
	}
}

// Fetch calls the scoring service once for the seed and builds the candidate
// rows for both models. No writes happen here, so callers are free to order
// the call ahead of their transaction.
func (m *Merger) Fetch(ctx context.Context, userID uuid.UUID, seed *domain.Movie, weight float64, wasLike bool) ([]domain.Recommendation, error) {
	resp, err := m.scorer.Recommend(ctx, seed.ID, weight)
	if err != nil {
		return nil, err
	}
	return BuildCandidates(userID, seed, wasLike, resp), nil
}

// PersistCandidates writes candidate rows through the given store. Duplicate
// (user, movie, model) rows are skipped, never errors.
func (m *Merger) PersistCandidates(ctx context.Context, store CandidateStore, recs []domain.Recommendation) error {
	if err := store.InsertCandidates(ctx, recs); err != nil {
		return fmt.Errorf("persist candidates: %w", err)
	}
	return nil
}

// ExpandFrom fetches candidates for a freshly liked or saved seed movie and
// persists them as pending rows. Repeat expansions from the same seed are
// no-ops on the unique key.
func (m *Merger) ExpandFrom(ctx context.Context, userID uuid.UUID, seed *domain.Movie, weight float64, wasLike bool) error {
	recs, err := m.Fetch(ctx, userID, seed, weight, wasLike)
	if err != nil {
		return err
	}
	return m.PersistCandidates(ctx, m.store, recs)
}

// ListPending serves the "My Recommendations" view: rows no model flagged,
// for movies the user never interacted with, whose seed the user did not
// dislike, one row per movie, most recently recommended first.
func (m *Merger) ListPending(ctx context.Context, userID uuid.UUID) ([]domain.PendingRecommendation, error) {
	return m.listPending(ctx, userID, 0)
}

// ListRecentN is ListPending truncated to the first n rows.
func (m *Merger) ListRecentN(ctx context.Context, userID uuid.UUID, n int) ([]domain.PendingRecommendation, error) {
	if n <= 0 {
		return m.ListPending(ctx, userID)
	}
	return m.listPending(ctx, userID, n)
}

func (m *Merger) listPending(ctx context.Context, userID uuid.UUID, limit int) ([]domain.PendingRecommendation, error) {
	if m.cache != nil {
		cached, found, err := m.cache.GetPending(ctx, userID, limit)
		if err != nil {
			m.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("pending cache get failed")
		}
		if found {
			return cached, nil
		}
	}

	rows, err := m.store.ListRecommendations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch recommendations: %w", err)
	}

	interacted, err := m.store.InteractedMovieIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch interacted movies: %w", err)
	}

	disliked, err := m.store.DislikedMovieIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch disliked movies: %w", err)
	}

	pending := filterPending(rows, toSet(interacted), toSet(disliked))
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	if m.cache != nil {
		if err := m.cache.SetPending(ctx, userID, limit, pending); err != nil {
			m.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("pending cache set failed")
		}
	}

	return pending, nil
}

// BuildCandidates turns a scoring response into recommendation rows carrying
// seed provenance, one per candidate per model.
func BuildCandidates(userID uuid.UUID, seed *domain.Movie, wasLike bool, resp *scoring.HybridResponse) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(resp.CF)+len(resp.CBF))
	for _, c := range resp.CF {
		recs = append(recs, candidateRow(userID, seed, wasLike, domain.ModelCF, c))
	}
	for _, c := range resp.CBF {
		recs = append(recs, candidateRow(userID, seed, wasLike, domain.ModelCBF, c))
	}
	return recs
}

func candidateRow(userID uuid.UUID, seed *domain.Movie, wasLike bool, model domain.Model, c scoring.Candidate) domain.Recommendation {
	return domain.Recommendation{
		UserID:         userID,
		MovieID:        c.MovieID,
		Model:          model,
		State:          domain.StateNone,
		FromMovieID:    seed.ID,
		FromMovieTitle: seed.Title,
		FromLike:       wasLike,
	}
}

// filterPending expects rows ordered by recency descending with a stable
// tie-break. A movie stays pending only while every one of its rows is
// unflagged, no interaction row exists for it, and its seed was not disliked.
func filterPending(rows []domain.PendingRecommendation, interacted, dislikedSeeds map[int64]bool) []domain.PendingRecommendation {
	flagged := make(map[int64]bool)
	for _, r := range rows {
		if r.State != domain.StateNone {
			flagged[r.MovieID] = true
		}
	}

	seen := make(map[int64]bool)
	pending := make([]domain.PendingRecommendation, 0, len(rows))
	for _, r := range rows {
		switch {
		case flagged[r.MovieID]:
		case interacted[r.MovieID]:
		case dislikedSeeds[r.FromMovieID]:
		case seen[r.MovieID]:
		default:
			seen[r.MovieID] = true
			pending = append(pending, r)
		}
	}
	return pending
}

func toSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
