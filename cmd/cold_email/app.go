package main

import (
	"context"
	"fmt"

	"github.com/nkhl07/cold-email-assistant/internal/config"
	"github.com/nkhl07/cold-email-assistant/internal/extraction"
	"github.com/nkhl07/cold-email-assistant/internal/llm"
	"github.com/nkhl07/cold-email-assistant/internal/observability"
	"github.com/nkhl07/cold-email-assistant/internal/pipeline"
)

// loadConfig reads configuration and builds the logger it describes.
func loadConfig(path string) (*config.Config, *observability.Logger, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	log, err := observability.NewLogger(cfg.Logging.Mode, cfg.Logging.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

// llmConfig converts the LLM config section into the generator settings.
func llmConfig(cfg config.LLMConfig) (*llm.Config, error) {
	provider, err := llm.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	return &llm.Config{
		Provider:    provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.SamplingTemperature(),
		Timeout:     cfg.Timeout,
	}, nil
}

// buildPipeline wires both collaborators into a pipeline. The caller closes the generator.
func buildPipeline(ctx context.Context, cfg *config.Config, log *observability.Logger) (*pipeline.Pipeline, llm.Generator, error) {
	extractor, err := extraction.NewHTTPClient(extraction.Options{
		BaseURL: cfg.Extraction.BaseURL,
		Timeout: cfg.Extraction.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	genCfg, err := llmConfig(cfg.LLM)
	if err != nil {
		return nil, nil, err
	}
	generator, err := llm.NewGenerator(ctx, genCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s generator: %w", genCfg.Provider, err)
	}

	p, err := pipeline.New(extractor, generator, log)
	if err != nil {
		_ = generator.Close()
		return nil, nil, err
	}
	return p, generator, nil
}
