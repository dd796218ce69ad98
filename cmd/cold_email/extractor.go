package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nkhl07/cold-email-assistant/internal/config"
	"github.com/nkhl07/cold-email-assistant/internal/scraper"
)

var (
	extractorPort       int
	extractorUseBrowser bool
)

var extractorCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Start the content-extraction service",
	Long: `Start the service behind POST /scrape and POST /process. It fetches profile pages,
reduces them to text, and extracts the text of uploaded PDF résumés.`,
	RunE: runExtractor,
}

func init() {
	extractorCmd.Flags().IntVar(&extractorPort, "port", 0, "Port to listen on (overrides config and EXTRACTOR_PORT)")
	extractorCmd.Flags().BoolVar(&extractorUseBrowser, "use-browser", false, "Render thin pages in a headless browser (requires Chrome)")
	rootCmd.AddCommand(extractorCmd)
}

func runExtractor(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cmd.Flags().Changed("port") {
		cfg.Extractor.Port = extractorPort
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.Extractor.UseBrowser = extractorUseBrowser
	}

	svc, err := scraper.NewService(cfg.Extractor.Port, scraper.New(scraperConfig(cfg.Extractor), log), log)
	if err != nil {
		return fmt.Errorf("failed to create extractor service: %w", err)
	}
	return svc.Start()
}

func scraperConfig(cfg config.ExtractorConfig) scraper.Config {
	return scraper.Config{
		Concurrency:      cfg.Concurrency,
		RateLimit:        cfg.RateLimit,
		PageTimeout:      cfg.PageTimeout,
		MaxPageChars:     cfg.MaxPageChars,
		UseBrowser:       cfg.UseBrowser,
		BrowserThreshold: cfg.BrowserThreshold,
	}
}
