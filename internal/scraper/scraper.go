// Package scraper implements the content-extraction service that backs /scrape and /process.
package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nkhl07/cold-email-assistant/internal/fetch"
	"github.com/nkhl07/cold-email-assistant/internal/ingestion"
	"github.com/nkhl07/cold-email-assistant/internal/observability"
)

// PageBreak separates pages in the combined text.
const PageBreak = "\n\n--- PAGE BREAK ---\n\n"

// Defaults for Config fields left at zero.
const (
	DefaultConcurrency      = 4
	DefaultRateLimit        = 2.0
	DefaultPageTimeout      = 10 * time.Second
	DefaultMaxPageChars     = 10000
	DefaultBrowserThreshold = fetch.MinContentLength
)

// Config controls how pages are fetched.
type Config struct {
	Concurrency int
	// RateLimit is the number of page fetches started per second.
	RateLimit        float64
	PageTimeout      time.Duration
	MaxPageChars     int
	UseBrowser       bool
	BrowserThreshold int
}

// Scraper fetches pages and reduces them to plain text.
type Scraper struct {
	cfg      Config
	limiter  *rate.Limiter
	renderer fetch.Renderer
	fetch    *fetch.Options
	log      *observability.Logger
}

// New creates a Scraper, filling zero Config fields with defaults.
func New(cfg Config, log *observability.Logger) *Scraper {
	if log == nil {
		log = observability.Nop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = DefaultPageTimeout
	}
	if cfg.MaxPageChars <= 0 {
		cfg.MaxPageChars = DefaultMaxPageChars
	}
	if cfg.BrowserThreshold <= 0 {
		cfg.BrowserThreshold = DefaultBrowserThreshold
	}

	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.PageTimeout

	s := &Scraper{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Concurrency),
		fetch:   opts,
		log:     log,
	}
	if cfg.UseBrowser {
		s.renderer = fetch.BrowserRenderer(cfg.PageTimeout*3, log)
	}
	return s
}

// ScrapeAll fetches every URL and joins the page texts in input order.
// A failing URL contributes an error marker instead of failing the whole call.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) (string, error) {
	pieces := make([]string, len(urls))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i, u := range urls {
		g.Go(func() error {
			if err := s.limiter.Wait(gCtx); err != nil {
				return err
			}
			text, err := s.scrapeOne(gCtx, u)
			if err != nil {
				s.log.Warn("page scrape failed", "url", u, "error", err)
				pieces[i] = fmt.Sprintf("[Error scraping %s: %v]", u, err)
				return nil
			}
			pieces[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(pieces, PageBreak), nil
}

func (s *Scraper) scrapeOne(ctx context.Context, u string) (string, error) {
	pageCtx, cancel := context.WithTimeout(ctx, s.pageBudget())
	defer cancel()

	text, err := fetch.PageText(pageCtx, u, fetch.PageOptions{
		Fetch:            s.fetch,
		Renderer:         s.renderer,
		BrowserThreshold: s.cfg.BrowserThreshold,
		Log:              s.log,
	})
	if err != nil {
		return "", err
	}

	s.log.Debug("page scraped", "url", u, "platform", fetch.DetectPlatform(u), "chars", len([]rune(text)))
	return ingestion.Truncate(text, s.cfg.MaxPageChars), nil
}

// pageBudget bounds one page including a possible browser render.
func (s *Scraper) pageBudget() time.Duration {
	if s.renderer != nil {
		return s.cfg.PageTimeout * 4
	}
	return s.cfg.PageTimeout
}
