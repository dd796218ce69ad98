// Package fetch - platform.go provides platform detection and platform-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known kind of profile page.
type Platform string

const (
	// PlatformLinkedIn is a LinkedIn profile
	PlatformLinkedIn Platform = "linkedin"
	// PlatformGitHub is a GitHub user or organization page
	PlatformGitHub Platform = "github"
	// PlatformScholar is a Google Scholar citations page
	PlatformScholar Platform = "scholar"
	// PlatformUniversity is an academic department or faculty page
	PlatformUniversity Platform = "university"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the profile platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())

	switch {
	case host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com"):
		return PlatformLinkedIn
	case host == "github.com" || host == "www.github.com":
		return PlatformGitHub
	case strings.HasPrefix(host, "scholar.google."):
		return PlatformScholar
	case strings.HasSuffix(host, ".edu") || strings.Contains(host, ".edu.") || strings.Contains(host, ".ac."):
		return PlatformUniversity
	default:
		return PlatformUnknown
	}
}

// NeedsBrowser reports whether the platform renders its content with JavaScript.
func NeedsBrowser(platform Platform) bool {
	return platform == PlatformLinkedIn
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformLinkedIn:
		return []string{
			"main.scaffold-layout__main",
			".top-card-layout",
			".core-section-container",
			"main",
		}
	case PlatformGitHub:
		return []string{
			".js-profile-editable-area",
			"[itemtype='http://schema.org/Person']",
			"article.markdown-body",
			"main",
		}
	case PlatformScholar:
		return []string{
			"#gsc_prf",
			"#gsc_bdy",
			"#gs_bdy",
		}
	case PlatformUniversity:
		return []string{
			".faculty-profile",
			".profile",
			".people-profile",
			"#profile",
			"main",
			"article",
			"#content",
			".content",
		}
	default:
		return DefaultTextSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	// Common noise selectors for all platforms
	common := []string{
		"nav",
		"footer",
		"header",
		"form",
		".sidebar",
		".breadcrumb",
		".breadcrumbs",
		".skip-link",

		// Social and share buttons
		".social-share",
		".share-buttons",

		// Cookie and GDPR
		".cookie-consent",
		".gdpr-notice",
	}

	// Platform-specific noise selectors
	switch platform {
	case PlatformLinkedIn:
		return append(common,
			".authwall-join-form",
			".contextual-sign-in-modal",
			".people-also-viewed",
			".browsemap",
		)
	case PlatformGitHub:
		return append(common,
			".js-pinned-items-reorder-container form",
			".js-yearly-contributions",
			".contribution-activity",
		)
	case PlatformScholar:
		return append(common,
			"#gs_hdr",
			"#gsc_lwp",
			".gs_btnPR",
		)
	case PlatformUniversity:
		return append(common,
			".site-search",
			".event-listing",
			".news-listing",
		)
	default:
		return common
	}
}
