// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration. It is built once at startup and passed down.
// Values come from an optional YAML file, then environment variables, then defaults.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Extraction ExtractionConfig `yaml:"extraction"`
	LLM        LLMConfig        `yaml:"llm"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig configures the outreach HTTP API.
type ServerConfig struct {
	Port         int           `yaml:"port" validate:"min=1,max=65535"`
	Variant      string        `yaml:"variant" validate:"oneof=text document"` // Request shape accepted
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`
}

// ExtractionConfig points at the content-extraction collaborator.
type ExtractionConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// LLMConfig selects the generation collaborator.
type LLMConfig struct {
	Provider    string        `yaml:"provider" validate:"oneof=gemini openai ollama"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"-"` // Secrets come from the environment only
	BaseURL     string        `yaml:"base_url" validate:"omitempty,url"`
	Temperature *float32      `yaml:"temperature" validate:"omitempty,gte=0,lte=2"` // Nil means unset; zero is a valid setting
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
}

// SamplingTemperature returns the configured temperature, or the default when unset.
func (c LLMConfig) SamplingTemperature() float32 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// ExtractorConfig configures the bundled extraction service.
type ExtractorConfig struct {
	Port             int           `yaml:"port" validate:"min=1,max=65535"`
	Concurrency      int           `yaml:"concurrency" validate:"min=1,max=32"`
	RateLimit        float64       `yaml:"rate_limit" validate:"gt=0"` // Page fetches per second
	PageTimeout      time.Duration `yaml:"page_timeout" validate:"gt=0"`
	MaxPageChars     int           `yaml:"max_page_chars" validate:"min=1"`
	UseBrowser       bool          `yaml:"use_browser"`
	BrowserThreshold int           `yaml:"browser_threshold" validate:"gte=0"` // Retry with a browser below this many characters
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Mode  string `yaml:"mode" validate:"oneof=development dev production prod"`
	Debug bool   `yaml:"debug"`
}

// Default values.
const (
	DefaultPort             = 3000
	DefaultVariant          = "document"
	DefaultExtractionURL    = "http://127.0.0.1:8000"
	DefaultExtractionWait   = 60 * time.Second
	DefaultProvider         = "gemini"
	DefaultTemperature      = 0.7
	DefaultLLMTimeout       = 120 * time.Second
	DefaultExtractorPort    = 8000
	DefaultConcurrency      = 4
	DefaultRateLimit        = 2.0
	DefaultPageTimeout      = 10 * time.Second
	DefaultMaxPageChars     = 10000
	DefaultBrowserThreshold = 500
	DefaultLogMode          = "development"
)

// LoadConfig reads a YAML file, applies environment overrides and defaults, and validates the result.
// An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		// Resolve path relative to current directory if not absolute
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := mergeWithEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Variant == "" {
		c.Server.Variant = DefaultVariant
	}

	if c.Extraction.BaseURL == "" {
		c.Extraction.BaseURL = DefaultExtractionURL
	}
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = DefaultExtractionWait
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.LLM.Temperature == nil {
		t := float32(DefaultTemperature)
		c.LLM.Temperature = &t
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = DefaultLLMTimeout
	}

	if c.Extractor.Port == 0 {
		c.Extractor.Port = DefaultExtractorPort
	}
	if c.Extractor.Concurrency == 0 {
		c.Extractor.Concurrency = DefaultConcurrency
	}
	if c.Extractor.RateLimit == 0 {
		c.Extractor.RateLimit = DefaultRateLimit
	}
	if c.Extractor.PageTimeout == 0 {
		c.Extractor.PageTimeout = DefaultPageTimeout
	}
	if c.Extractor.MaxPageChars == 0 {
		c.Extractor.MaxPageChars = DefaultMaxPageChars
	}
	if c.Extractor.BrowserThreshold == 0 {
		c.Extractor.BrowserThreshold = DefaultBrowserThreshold
	}

	if c.Logging.Mode == "" {
		c.Logging.Mode = DefaultLogMode
	}
}

func mergeWithEnv(c *Config) error {
	if v := firstEnv("EXTRACTOR_BASE_URL", "SCRAPER_BASE_URL"); v != "" {
		c.Extraction.BaseURL = v
	}
	if v := os.Getenv("REQUEST_VARIANT"); v != "" {
		c.Server.Variant = strings.ToLower(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PORT must be a number: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("EXTRACTOR_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: EXTRACTOR_PORT must be a number: %w", err)
		}
		c.Extractor.Port = port
	}

	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("config error: LLM_TEMPERATURE must be a number: %w", err)
		}
		temp := float32(t)
		c.LLM.Temperature = &temp
	}
	switch c.LLM.Provider {
	case "openai":
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
			c.LLM.BaseURL = v
		}
	case "ollama":
		if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
			c.LLM.BaseURL = v
		}
	default:
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if v := os.Getenv("LOG_MODE"); v != "" {
		c.Logging.Mode = strings.ToLower(v)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
