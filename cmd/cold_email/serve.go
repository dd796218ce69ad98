package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nkhl07/cold-email-assistant/internal/server"
	"github.com/nkhl07/cold-email-assistant/internal/validation"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the outreach REST API server",
	Long:  `Start an HTTP server that exposes POST /api/generate-email and GET /health.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	p, generator, err := buildPipeline(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = generator.Close() }()

	validator := validation.New(validation.Variant(cfg.Server.Variant), log)

	srv, err := server.New(server.Config{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, p, validator, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("outreach API configured",
		"variant", cfg.Server.Variant,
		"provider", cfg.LLM.Provider,
		"extractor", cfg.Extraction.BaseURL)
	return srv.Start()
}
