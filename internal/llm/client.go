package llm

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors used to classify completion failures. Rate limiting and
// missing models are signalled distinctly so that the fallback runner can
// apply different policies (bounded backoff vs. immediate skip).
var (
	// ErrRateLimited marks an HTTP 429 from the provider.
	ErrRateLimited = errors.New("llm: rate limited")

	// ErrModelNotFound marks an HTTP 404 for the requested model.
	ErrModelNotFound = errors.New("llm: model not found")

	// ErrUnavailable marks any other transport or provider failure.
	ErrUnavailable = errors.New("llm: provider unavailable")

	// ErrParse marks a response that did not contain the expected
	// structured content.
	ErrParse = errors.New("llm: parse error")
)

// Client is the completion capability: one prompt in, one text out.
// Implementations must wrap rate-limit and not-found outcomes with
// ErrRateLimited / ErrModelNotFound so errors.Is works on the result.
type Client interface {
	// Name returns the provider name.
	Name() string

	// Complete sends a single-turn prompt to the given model.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest describes one completion call.
type CompletionRequest struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Config holds completion provider configuration.
type Config struct {
	// Provider name: "openrouter", "openai", "ollama", ""
	Provider string

	// APIKey for OpenRouter/OpenAI.
	APIKey string

	// BaseURL for custom endpoints.
	BaseURL string

	// Timeout for API requests.
	Timeout time.Duration

	// MaxTokens default for response generation.
	MaxTokens int
}
