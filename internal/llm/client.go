package llm

import (
	"context"
	"fmt"
	"io"

	"github.com/nkhl07/cold-email-assistant/internal/prompts"
)

// EmailGenerator produces one email from a composed prompt.
// An empty string with a nil error means the model produced no usable text.
type EmailGenerator interface {
	Generate(ctx context.Context, prompt prompts.Prompt) (string, error)
}

// Generator is an EmailGenerator that holds resources.
type Generator interface {
	EmailGenerator
	io.Closer
}

// NewGenerator creates a generator based on configuration
func NewGenerator(ctx context.Context, config *Config) (Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config)
	case ProviderOpenAI:
		return NewOpenAIClient(config)
	case ProviderOllama:
		return NewOllamaClient(config)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}
