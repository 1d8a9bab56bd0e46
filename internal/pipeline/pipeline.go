package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rkarpau/veritext/internal/cache"
	"github.com/rkarpau/veritext/internal/llm"
	"github.com/rkarpau/veritext/internal/match"
	"github.com/rkarpau/veritext/internal/model"
	"github.com/rkarpau/veritext/internal/payload"
	"github.com/rkarpau/veritext/internal/scorer"
	"github.com/rkarpau/veritext/internal/verify"
)

// Pipeline wires the verification stages together: payload loading,
// fragment extraction and matching inside a session, scoring, correction,
// and the optional LLM summary. The scorer cache is shared across
// verifications; everything else is built fresh per call so concurrent
// batch workers never share session state.
type Pipeline struct {
	config     *model.Config
	store      cache.Cache
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	verbose    bool
}

// NewPipeline creates a pipeline from the given configuration
func NewPipeline(cfg *model.Config, verbose bool) *Pipeline {
	var store cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			if home, err := os.UserHomeDir(); err == nil {
				dir = filepath.Join(home, ".veritext", "cache")
			}
		}
		if dir != "" {
			store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
		} else {
			store = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		provider, err := llm.NewProvider(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = llm.NewSummarizer(provider, cfg.LLM)
		}
	}

	return &Pipeline{
		config:     cfg,
		store:      store,
		summarizer: summarizer,
		verbose:    verbose,
	}
}

// Verify runs a full verification sweep over the payload and returns the
// ranked report. The LLM summary, when enabled, is generated after scoring
// and never affects the verification results.
func (p *Pipeline) Verify(ctx context.Context, in model.VerificationInput) (*model.Report, error) {
	client := scorer.New(p.config.Scorer, p.store, p.verbose)
	minTier := model.ParseMatchTier(p.config.Verification.MinMatchTier)
	matcher := match.NewMatcher(client, minTier, p.config.Verification.VerboseMatches)

	session := verify.NewSession(p.config.Verification, matcher, client, p.verbose)
	defer session.Close()

	report, err := session.Verify(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	if p.summarizer != nil {
		p.summarizer.Summarize(ctx, report)
	}

	return report, nil
}

// VerifyFile loads a payload file and verifies it. It satisfies
// worker.Verifier so batch runs can fan files out across a pool.
func (p *Pipeline) VerifyFile(ctx context.Context, path string) (*model.Report, error) {
	in, err := payload.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load payload: %w", err)
	}
	return p.Verify(ctx, in)
}
