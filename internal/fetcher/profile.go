package fetcher

import (
	"strings"
	"time"
)

// SiteProfile is a per-domain fetch policy. Profiles are resolved by
// substring match on the request URL, first match wins; requests that
// match nothing get DefaultProfile. Immutable, loaded once per run.
type SiteProfile struct {
	// Domain is the substring matched against the request URL.
	Domain string

	// Headers are merged over the default browser-like header set.
	Headers map[string]string

	// MinDelay/MaxDelay bound the random inter-request delay.
	MinDelay time.Duration
	MaxDelay time.Duration

	// Retries is the per-site attempt budget. Zero means use the
	// fetcher-wide default.
	Retries int

	// Warmup requests a preliminary homepage GET to seed cookies before
	// the real request. Best-effort: warm-up failures never abort the
	// primary fetch.
	Warmup bool

	// WarmupURL is the homepage hit during warm-up.
	WarmupURL string

	// SearchReferer simulates arrival from a search engine during warm-up.
	SearchReferer string

	// StickyAgent pins the first user agent of the pool instead of
	// rotating: some defenses flag an agent change mid-session.
	StickyAgent bool
}

// DefaultProfile is the fallback policy for unrecognized domains.
var DefaultProfile = SiteProfile{
	Headers: map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"DNT":             "1",
	},
	MinDelay: 1 * time.Second,
	MaxDelay: 3 * time.Second,
	Retries:  2,
}

// DefaultProfiles holds the per-domain policies for the harvested sources.
// Moneycontrol runs the strictest bot defenses and gets the warm-up
// session plus a sticky agent and a larger retry budget.
func DefaultProfiles() []SiteProfile {
	return []SiteProfile{
		{
			Domain: "moneycontrol.com",
			Headers: map[string]string{
				"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
				"Accept-Language":           "en-US,en;q=0.9",
				"Referer":                   "https://www.google.com/",
				"DNT":                       "1",
				"Sec-Fetch-Dest":            "document",
				"Sec-Fetch-Mode":            "navigate",
				"Sec-Fetch-Site":            "none",
				"Sec-Fetch-User":            "?1",
				"Upgrade-Insecure-Requests": "1",
				"Cache-Control":             "max-age=0",
			},
			MinDelay:      4 * time.Second,
			MaxDelay:      7 * time.Second,
			Retries:       5,
			Warmup:        true,
			WarmupURL:     "https://www.moneycontrol.com/",
			SearchReferer: "https://www.google.com/search?q=moneycontrol+india+stock+news",
			StickyAgent:   true,
		},
		{
			Domain: "economictimes.indiatimes.com",
			Headers: map[string]string{
				"Referer": "https://economictimes.indiatimes.com/",
			},
			MinDelay: 2 * time.Second,
			MaxDelay: 5 * time.Second,
		},
		{
			Domain: "livemint.com",
			Headers: map[string]string{
				"Referer": "https://www.livemint.com/",
			},
			MinDelay: 2 * time.Second,
			MaxDelay: 4 * time.Second,
		},
		{
			Domain: "5paisa.com",
			Headers: map[string]string{
				"Referer": "https://www.5paisa.com/",
			},
			MinDelay: 3 * time.Second,
			MaxDelay: 5 * time.Second,
		},
	}
}

// userAgents is the rotation pool: a mix of current desktop and mobile
// browsers.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/105.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_3) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/112.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_3_1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36 Edg/112.0.1722.58",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 16_4_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.4 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Android 13; Mobile; rv:109.0) Gecko/113.0 Firefox/113.0",
	"Mozilla/5.0 (Linux; Android 13; SM-S908B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (iPad; CPU OS 16_4_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.4 Mobile/15E148 Safari/604.1",
}

// resolveProfile returns the first profile whose domain substring appears
// in the URL, merged over the default header set, or DefaultProfile.
func resolveProfile(profiles []SiteProfile, rawURL string) SiteProfile {
	for _, p := range profiles {
		if p.Domain != "" && containsDomain(rawURL, p.Domain) {
			return mergeProfile(p)
		}
	}
	return DefaultProfile
}

func containsDomain(rawURL, domain string) bool {
	return strings.Contains(rawURL, domain)
}

// mergeProfile fills gaps in a site profile from the default policy so
// every resolved profile has a complete header set and delay bounds.
func mergeProfile(p SiteProfile) SiteProfile {
	merged := p
	headers := make(map[string]string, len(DefaultProfile.Headers)+len(p.Headers))
	for k, v := range DefaultProfile.Headers {
		headers[k] = v
	}
	for k, v := range p.Headers {
		headers[k] = v
	}
	merged.Headers = headers
	if merged.MinDelay == 0 {
		merged.MinDelay = DefaultProfile.MinDelay
	}
	if merged.MaxDelay == 0 {
		merged.MaxDelay = DefaultProfile.MaxDelay
	}
	if merged.Retries == 0 {
		merged.Retries = DefaultProfile.Retries
	}
	return merged
}
