package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/nkhl07/cold-email-assistant/internal/prompts"
)

// OllamaClient implements Generator for a local Ollama server through langchaingo
type OllamaClient struct {
	llm    llms.Model
	config *Config
}

// NewOllamaClient creates a new Ollama client; no API key is needed
func NewOllamaClient(config *Config) (*OllamaClient, error) {
	llm, err := ollama.New(
		ollama.WithModel(config.GetModel()),
		ollama.WithServerURL(config.GetBaseURL()),
		ollama.WithHTTPClient(&http.Client{Timeout: config.GetTimeout()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return &OllamaClient{llm: llm, config: config}, nil
}

// Generate sends a system and a human message and returns the first choice
func (c *OllamaClient) Generate(ctx context.Context, prompt prompts.Prompt) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, prompt.System),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt.User),
	}

	resp, err := c.llm.GenerateContent(ctx, content, llms.WithTemperature(float64(c.config.Temperature)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

// Close is a no-op
func (c *OllamaClient) Close() error {
	return nil
}
