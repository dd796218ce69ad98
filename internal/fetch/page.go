package fetch

import (
	"context"
	"fmt"

	"github.com/nkhl07/cold-email-assistant/internal/observability"
)

// PageOptions configures PageText.
type PageOptions struct {
	Fetch *Options
	// Renderer is used when the HTTP text is shorter than BrowserThreshold. Nil disables the fallback.
	Renderer         Renderer
	BrowserThreshold int
	Log              *observability.Logger
}

// PageText fetches a profile page and returns its main text using platform-aware selectors.
func PageText(ctx context.Context, urlStr string, opts PageOptions) (string, error) {
	log := opts.Log
	if log == nil {
		log = observability.Nop()
	}

	platform := DetectPlatform(urlStr)
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	result, err := URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		if opts.Renderer == nil || result == nil {
			return "", err
		}
		// Some profile sites answer plain HTTP clients with an error page.
		log.Debug("HTTP fetch failed, trying browser", "url", urlStr, "error", err)
		return renderText(ctx, urlStr, opts.Renderer, content, noise)
	}

	text, err := ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	if opts.Renderer != nil && (NeedsBrowser(platform) || ShouldUseBrowser(text, opts.BrowserThreshold)) {
		rendered, err := renderText(ctx, urlStr, opts.Renderer, content, noise)
		if err != nil {
			log.Warn("browser fallback failed, keeping HTTP text", "url", urlStr, "error", err)
			return text, nil
		}
		if len(rendered) > len(text) {
			return rendered, nil
		}
	}

	return text, nil
}

func renderText(ctx context.Context, urlStr string, render Renderer, content, noise []string) (string, error) {
	html, err := render(ctx, urlStr)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}
	text, err := ExtractMainText(html, content, noise...)
	if err != nil {
		return "", fmt.Errorf("extract rendered text for %s: %w", urlStr, err)
	}
	return text, nil
}
