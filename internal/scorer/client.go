// Package scorer talks to the external similarity-scorer service. The
// service computes pairwise metrics for statement pairs; this client adds
// batching, adaptive timeouts, retries, caching, and rate limiting.
package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/rkarpau/veritext/internal/cache"
	"github.com/rkarpau/veritext/internal/model"
	"github.com/rkarpau/veritext/internal/util"
)

const (
	comparePath = "/api/compare"
	healthPath  = "/api/health"

	// Adaptive per-attempt timeout bounds. Large reports produce thousands
	// of pairs, so the ceiling scales with batch size. A timed-out attempt
	// gets a fresh deadline on retry.
	timeoutFloor   = 300 * time.Second
	timeoutCeiling = 1200 * time.Second
	timeoutPerPair = 5 * time.Second

	healthTimeout = 10 * time.Second
)

// sleepFunc is the sleep used between retry attempts (injectable for tests)
var sleepFunc = time.Sleep

// timeoutFunc yields the per-attempt deadline (injectable for tests)
var timeoutFunc = timeoutFor

// Pair is one (input statement, output statement) comparison request.
type Pair struct {
	Input  string `json:"text1"`
	Output string `json:"text2"`
}

// Client is the similarity-scorer HTTP client. Compare never returns an
// error: after the retry budget is spent the client degrades to an empty
// result set so the caller can mark statements not_processed.
type Client struct {
	cfg        model.ScorerConfig
	httpClient *http.Client
	store      cache.Cache
	limiter    *rate.Limiter
	verbose    bool
}

// New creates a scorer client. store may be nil to disable response caching.
func New(cfg model.ScorerConfig, store cache.Cache, verbose bool) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}

	return &Client{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg),
		store:      store,
		limiter:    limiter,
		verbose:    verbose,
	}
}

func newHTTPClient(cfg model.ScorerConfig) *http.Client {
	return &http.Client{
		// Per-request deadlines are set via context; the client itself
		// carries no timeout so the adaptive deadline wins.
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
	}
}

// TestConnection reports whether the scorer answers its health endpoint.
func (c *Client) TestConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+healthPath, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Compare scores the given pairs. The result slice is index-aligned with
// pairs. On unrecoverable failure it returns an empty slice, never an error.
func (c *Client) Compare(ctx context.Context, pairs []Pair) []model.ComparisonResult {
	if len(pairs) == 0 {
		return []model.ComparisonResult{}
	}

	key := batchKey(pairs)
	if c.store != nil {
		if data, found := c.store.Get(key); found {
			var results []model.ComparisonResult
			if err := json.Unmarshal(data, &results); err == nil && len(results) == len(pairs) {
				return results
			}
			_ = c.store.Delete(key)
		}
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			if c.verbose {
				fmt.Fprintf(os.Stderr, "scorer: attempt %d failed (%v), retrying in %s\n", attempt, lastErr, backoff)
			}
			sleepFunc(backoff)
		}
		attempts++

		results, err := c.compareAttempt(ctx, pairs)
		if err == nil {
			if c.store != nil {
				if data, merr := json.Marshal(results); merr == nil {
					_ = c.store.Set(key, data, 0)
				}
			}
			return results
		}
		lastErr = err

		// A timed-out attempt is retried with a fresh deadline; only the
		// caller's own cancellation ends the loop early.
		if ctx.Err() != nil {
			break
		}
	}

	fmt.Fprintf(os.Stderr, "Warning: scorer unavailable after %d attempts: %v\n", attempts, lastErr)
	c.reset()
	return []model.ComparisonResult{}
}

// compareAttempt runs one attempt under its own adaptive deadline, derived
// from the caller's context.
func (c *Client) compareAttempt(ctx context.Context, pairs []Pair) ([]model.ComparisonResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeoutFunc(len(pairs)))
	defer cancel()
	return c.compareOnce(ctx, pairs)
}

// compareOnce performs a single POST /api/compare round trip.
func (c *Client) compareOnce(ctx context.Context, pairs []Pair) ([]model.ComparisonResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	body, err := json.Marshal(compareRequest{Pairs: pairs})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+comparePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return decodeResults(data, pairs)
}

// reset tears down the HTTP client and rebuilds it. Called after the retry
// budget is spent so the next batch starts from a clean connection state.
func (c *Client) reset() {
	if t, ok := c.httpClient.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	c.httpClient = newHTTPClient(c.cfg)
}

// Close releases the client's connections. Used on session cancellation.
func (c *Client) Close() {
	if t, ok := c.httpClient.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
}

// timeoutFor scales the request deadline with batch size, bounded to
// [timeoutFloor, timeoutCeiling].
func timeoutFor(pairs int) time.Duration {
	scaled := time.Duration(pairs) * timeoutPerPair
	if scaled > timeoutCeiling {
		scaled = timeoutCeiling
	}
	if scaled < timeoutFloor {
		scaled = timeoutFloor
	}
	return scaled
}

func batchKey(pairs []Pair) string {
	parts := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		parts = append(parts, p.Input, p.Output)
	}
	return cache.BatchKey(parts...)
}
