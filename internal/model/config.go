package model

import "time"

// Config is the full application configuration.
// Hierarchy (highest to lowest priority): CLI flags, VERITEXT_* environment
// variables, ~/.veritext/config.yaml, defaults.
type Config struct {
	Scorer       ScorerConfig       `yaml:"scorer" mapstructure:"scorer"`
	Verification VerificationConfig `yaml:"verification" mapstructure:"verification"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
}

// ScorerConfig configures the external similarity-scorer client
type ScorerConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst   int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	HTTPProxy   string  `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy     string  `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// VerificationConfig configures the orchestrator
type VerificationConfig struct {
	MaxRuns        int           `yaml:"max_runs" mapstructure:"max_runs"`
	RunBudget      time.Duration `yaml:"run_budget" mapstructure:"run_budget"`
	MinMatchTier   string        `yaml:"min_match_tier" mapstructure:"min_match_tier"`
	VerboseMatches bool          `yaml:"verbose_matches" mapstructure:"verbose_matches"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// CacheConfig configures scorer response caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	IncludeFragments bool `yaml:"include_fragments" mapstructure:"include_fragments"`
}

// LLMConfig configures the optional report summarizer.
// The summary runs strictly after scoring and never affects results.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scorer: ScorerConfig{
			BaseURL:     "http://localhost:8750",
			MaxAttempts: 3,
			RatePerSec:  2,
			RateBurst:   5,
		},
		Verification: VerificationConfig{
			MaxRuns:      5,
			RunBudget:    30 * time.Minute,
			MinMatchTier: WeakMatch.String(),
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // defaults to ~/.veritext/cache at runtime
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Output: OutputConfig{
			IncludeFragments: true,
		},
		LLM: LLMConfig{
			Provider:  "", // disabled by default
			Timeout:   30,
			MaxTokens: 1000,
		},
	}
}

// ParseMatchTier converts a configured tier name to its MatchType.
// Unknown names fall back to weak_match.
func ParseMatchTier(name string) MatchType {
	switch name {
	case "exact_match":
		return ExactMatch
	case "strong_match":
		return StrongMatch
	case "moderate_match":
		return ModerateMatch
	case "no_match":
		return NoMatch
	default:
		return WeakMatch
	}
}
