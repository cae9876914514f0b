package model

import "time"

// Config is the complete service configuration tree.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Embedding   EmbeddingConfig   `yaml:"embedding" mapstructure:"embedding"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Graph       GraphConfig       `yaml:"graph" mapstructure:"graph"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Performance PerformanceConfig `yaml:"performance" mapstructure:"performance"`
}

// HTTPConfig controls outbound page fetches for link ingestion.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// LLMConfig configures the completion provider. An empty APIKey disables
// the LLM entirely; every consumer then uses its deterministic fallback.
type LLMConfig struct {
	Provider       string        `yaml:"provider" mapstructure:"provider"`
	APIKey         string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	Model          string        `yaml:"model" mapstructure:"model"`
	FallbackModels []string      `yaml:"fallback_models" mapstructure:"fallback_models"`
	MaxTokens      int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Models returns the primary model followed by the configured fallbacks,
// dropping empty entries.
func (c LLMConfig) Models() []string {
	models := make([]string, 0, 1+len(c.FallbackModels))
	if c.Model != "" {
		models = append(models, c.Model)
	}
	for _, m := range c.FallbackModels {
		if m != "" {
			models = append(models, m)
		}
	}
	return models
}

// EmbeddingConfig configures the embedding provider used for relevance
// ranking, claim similarity and category inference.
type EmbeddingConfig struct {
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Model   string        `yaml:"model" mapstructure:"model"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SearchConfig configures the web and news search providers.
type SearchConfig struct {
	WebEndpoint string        `yaml:"web_endpoint" mapstructure:"web_endpoint"`
	WebAPIKey   string        `yaml:"web_api_key" mapstructure:"web_api_key"`
	NewsAPIKey  string        `yaml:"news_api_key" mapstructure:"news_api_key"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RatePerSec  float64       `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int           `yaml:"burst" mapstructure:"burst"`
	CacheTTL    time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// GraphConfig controls the claim similarity graph.
type GraphConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	// MaxClaims bounds how many recent claims participate in similarity
	// comparisons; 0 disables the bound.
	MaxClaims int `yaml:"max_claims" mapstructure:"max_claims"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Performance modes: "fast" skips LLM-assisted planning and the news API
// pass, "normal" is the default, "deep" reserves room for future expansion.
const (
	ModeFast   = "fast"
	ModeNormal = "normal"
	ModeDeep   = "deep"
)

// PerformanceConfig selects the performance mode.
type PerformanceConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"`
}

// Fast reports whether the fast mode is active.
func (p PerformanceConfig) Fast() bool { return p.Mode == ModeFast }

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "FactSense/0.3 (+https://github.com/Gokul1734/factsense)",
			MaxBodyBytes: 2_000_000,
		},
		LLM: LLMConfig{
			Provider: "openrouter",
			BaseURL:  "https://openrouter.ai/api/v1",
			Model:    "google/gemma-3n-e2b-it:free",
			FallbackModels: []string{
				"openrouter/auto",
				"meta-llama/llama-3.1-8b-instruct:free",
				"google/gemma-2-9b-it:free",
				"qwen/qwen-2.5-7b-instruct:free",
			},
			MaxTokens: 600,
			Timeout:   30 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Model:   "text-embedding-3-small",
			Timeout: 20 * time.Second,
		},
		Search: SearchConfig{
			WebEndpoint: "https://google.serper.dev/search",
			Timeout:     10 * time.Second,
			RatePerSec:  2,
			Burst:       5,
			CacheTTL:    15 * time.Minute,
		},
		Graph: GraphConfig{
			SimilarityThreshold: 0.8,
			MaxClaims:           2048,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Performance: PerformanceConfig{
			Mode: ModeNormal,
		},
	}
}
