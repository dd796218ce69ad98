// Package llm provides the generation collaborator: one interface and a backend per provider.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is any OpenAI-compatible chat completions endpoint
	ProviderOpenAI Provider = "openai"
	// ProviderOllama is a local Ollama server
	ProviderOllama Provider = "ollama"
)

// DefaultTimeout bounds one generation call.
const DefaultTimeout = 120 * time.Second

// DefaultModels is the model used per provider when none is configured.
var DefaultModels = map[Provider]string{
	ProviderGemini: "gemini-2.5-flash",
	ProviderOpenAI: "gpt-4o",
	ProviderOllama: "llama3.1",
}

// DefaultBaseURLs is the endpoint used per provider when none is configured.
var DefaultBaseURLs = map[Provider]string{
	ProviderOpenAI: "https://api.openai.com",
	ProviderOllama: "http://127.0.0.1:11434",
}

// Config holds the generation settings for the application
type Config struct {
	Provider    Provider
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       DefaultModels[ProviderGemini],
		Temperature: 0.7,
		Timeout:     DefaultTimeout,
	}
}

// ParseProvider maps a config string to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGemini, ProviderOpenAI, ProviderOllama:
		return p, nil
	case "":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unsupported LLM provider %q", s)
	}
}

// GetModel returns the configured model, falling back to the provider default
func (c *Config) GetModel() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModels[c.Provider]
}

// GetBaseURL returns the configured endpoint, falling back to the provider default
func (c *Config) GetBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return DefaultBaseURLs[c.Provider]
}

// GetTimeout returns the configured timeout or DefaultTimeout
func (c *Config) GetTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// WithModel returns a copy of the Config using model
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}
