package scoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Candidate is one recommended movie returned by the hybrid scorer.
type Candidate struct {
	Title   string `json:"rec_title"`
	MovieID int64  `json:"rec_movie_id"`
}

// HybridResponse carries the two ranked candidate lists for a seed movie.
type HybridResponse struct {
	MovieTitle string      `json:"movie_title"`
	CF         []Candidate `json:"cf"`
	CBF        []Candidate `json:"cbf"`
}

// UnavailableError marks a transient scoring failure (unreachable service,
// bad status, malformed body, open breaker). Callers may retry.
type UnavailableError struct {
	Msg string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func IsUnavailable(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*HybridResponse]
	logger  zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "scoring-service",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*HybridResponse](settings),
		logger:  logger.With().Str("component", "scoring").Logger(),
	}
}

// Recommend fetches the cf and cbf candidate lists for a seed movie at the
// given blend weight.
func (c *Client) Recommend(ctx context.Context, movieID int64, weight float64) (*HybridResponse, error) {
	resp, err := c.breaker.Execute(func() (*HybridResponse, error) {
		return c.recommend(ctx, movieID, weight)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &UnavailableError{Msg: "scoring circuit open", Err: err}
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) recommend(ctx context.Context, movieID int64, weight float64) (*HybridResponse, error) {
	url := fmt.Sprintf("%s/recommend/%d/%s", c.baseURL, movieID, formatWeight(weight))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build scoring request: %w", err)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, &UnavailableError{Msg: "scoring request failed", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &UnavailableError{Msg: fmt.Sprintf("scoring returned status %d", res.StatusCode)}
	}

	var hybrid HybridResponse
	if err := json.NewDecoder(res.Body).Decode(&hybrid); err != nil {
		return nil, &UnavailableError{Msg: "decode scoring response", Err: err}
	}

	c.logger.Debug().
		Int64("movie_id", movieID).
		Float64("weight", weight).
		Int("cf", len(hybrid.CF)).
		Int("cbf", len(hybrid.CBF)).
		Dur("elapsed", time.Since(start)).
		Msg("scoring call complete")

	return &hybrid, nil
}

// formatWeight renders the blend weight as the decimal path segment the
// scoring service expects, e.g. 6.2 -> "6.2".
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', 1, 64)
}
