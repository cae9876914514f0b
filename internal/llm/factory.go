package llm

import (
	"fmt"
	"strings"

	"github.com/Gokul1734/factsense/internal/model"
)

// NewClient creates a completion client based on configuration. A nil
// client with a nil error means the LLM is disabled; callers then rely on
// their deterministic fallbacks.
func NewClient(config Config) (Client, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openrouter", "openai":
		if config.APIKey == "" {
			// No key configured - LLM disabled.
			return nil, nil
		}
		return NewOpenRouterClient(config)

	case "ollama":
		return NewOllamaClient(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openrouter, openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:  modelConfig.Provider,
		APIKey:    modelConfig.APIKey,
		BaseURL:   modelConfig.BaseURL,
		Timeout:   modelConfig.Timeout,
		MaxTokens: modelConfig.MaxTokens,
	}
}
