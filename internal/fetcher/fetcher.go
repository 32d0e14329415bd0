// Package fetcher acquires raw page content under adversarial server
// conditions: rate limiting, bot detection, transient failures. All
// failure modes are captured in the returned Outcome; Fetch never returns
// a Go error for request-level problems.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Outcome is the result of one fetch call. Either Success is true and
// Body/StatusCode are set, or Success is false and Err describes why.
type Outcome struct {
	Success    bool   `json:"success"`
	Body       string `json:"body,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        string `json:"error,omitempty"`
}

// Config configures a Fetcher.
type Config struct {
	// Timeout bounds each HTTP request. Default: 30s.
	Timeout time.Duration

	// Retries is the run-wide attempt budget, overridden by the site
	// profile, which is overridden by FetchWithRetries. Default: 2.
	Retries int

	// RequestsPerSec caps the overall request rate on top of per-profile
	// delays. Default: 2.
	RequestsPerSec float64

	// DisableDelays suppresses the random inter-request delays. Backoff
	// sleeps after failed attempts are not affected.
	DisableDelays bool

	// Profiles is the per-domain policy table. Default: DefaultProfiles.
	Profiles []SiteProfile
}

// Fetcher fetches pages with anti-blocking measures. Each Fetcher owns a
// cookie jar shared across its calls for session continuity; concurrent
// sources must each use their own Fetcher to avoid cross-site cookie
// corruption.
type Fetcher struct {
	client  *http.Client
	cfg     Config
	limiter *rate.Limiter

	// sleep is a test seam; defaults to a context-aware timer sleep.
	sleep func(ctx context.Context, d time.Duration)
}

// New creates a Fetcher with the given options.
func New(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retries == 0 {
		cfg.Retries = DefaultProfile.Retries
	}
	if cfg.RequestsPerSec == 0 {
		cfg.RequestsPerSec = 2
	}
	if cfg.Profiles == nil {
		cfg.Profiles = DefaultProfiles()
	}

	jar, _ := cookiejar.New(nil)
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
			// Redirects are followed by default; several sources bounce
			// through tracking redirects before the content page.
		},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		sleep:   sleepCtx,
	}
}

// Fetch retrieves the URL using the resolved site profile's retry budget.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Outcome {
	return f.FetchWithRetries(ctx, rawURL, 0)
}

// FetchWithRetries retrieves the URL with an explicit attempt budget.
// retries <= 0 falls back to the site profile, then the fetcher default.
func (f *Fetcher) FetchWithRetries(ctx context.Context, rawURL string, retries int) Outcome {
	profile := resolveProfile(f.cfg.Profiles, rawURL)

	if retries <= 0 {
		retries = profile.Retries
	}
	if retries <= 0 {
		retries = f.cfg.Retries
	}

	headers := f.buildHeaders(profile)

	if profile.Warmup {
		f.warmup(ctx, profile, headers)
	}

	f.applyDelay(ctx, profile)

	var lastStatus int
	for attempt := 0; attempt < retries; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return Outcome{Err: fmt.Sprintf("request error: %v", err)}
		}

		requestURL := rawURL
		if attempt > 0 {
			// Bust edge caches so a retried request cannot be served the
			// same blocked page.
			requestURL = appendQuery(rawURL, fmt.Sprintf("_cb=%d", time.Now().Unix()))
		}

		body, status, err := f.do(ctx, requestURL, headers)
		if err != nil {
			if attempt == retries-1 {
				return Outcome{Err: fmt.Sprintf("request error: %v", err)}
			}
			zap.L().Warn("fetch: request failed, retrying",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			f.backoff(ctx, attempt)
			continue
		}
		lastStatus = status

		switch {
		case IsSoftBlock(status, body):
			zap.L().Warn("fetch: suspected soft block (small page with challenge text)",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
			)
			f.sleep(ctx, expBackoff(attempt, 2, 4))

		case status == http.StatusOK:
			return Outcome{Success: true, Body: body, StatusCode: status}

		case status == http.StatusForbidden || status == http.StatusTooManyRequests:
			zap.L().Warn("fetch: rate limited or blocked, backing off",
				zap.String("url", rawURL),
				zap.Int("status", status),
				zap.Int("attempt", attempt+1),
			)
			f.sleep(ctx, expBackoff(attempt, 2, 5))

		default:
			// Any other status is a permanent failure for this call.
			return Outcome{
				StatusCode: status,
				Err:        fmt.Sprintf("http error: %d", status),
			}
		}

		f.backoff(ctx, attempt)
	}

	return Outcome{StatusCode: lastStatus, Err: "max retries exceeded"}
}

// do issues a single GET and reads the body.
func (f *Fetcher) do(ctx context.Context, requestURL string, headers map[string]string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", 0, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", 0, err
	}
	return string(body), resp.StatusCode, nil
}

// buildHeaders merges the profile headers with a rotated (or sticky)
// user agent.
func (f *Fetcher) buildHeaders(profile SiteProfile) map[string]string {
	headers := make(map[string]string, len(profile.Headers)+1)
	for k, v := range profile.Headers {
		headers[k] = v
	}
	if profile.StickyAgent {
		// Rotating mid-session can itself trigger defenses on strict
		// sites, so pin one agent for the whole exchange.
		headers["User-Agent"] = userAgents[0]
	} else {
		headers["User-Agent"] = userAgents[rand.IntN(len(userAgents))]
	}
	return headers
}

// warmup performs a best-effort homepage GET to seed cookies and session
// state, simulating arrival from a search engine. Failures are logged and
// the primary request proceeds regardless.
func (f *Fetcher) warmup(ctx context.Context, profile SiteProfile, headers map[string]string) {
	warmupHeaders := make(map[string]string, len(headers))
	for k, v := range headers {
		warmupHeaders[k] = v
	}
	warmupHeaders["Referer"] = profile.SearchReferer

	warmupURL := appendQuery(profile.WarmupURL,
		fmt.Sprintf("utm_source=leadscout&utm_medium=warmup&r=%d", rand.IntN(9000)+1000))

	if _, _, err := f.do(ctx, warmupURL, warmupHeaders); err != nil {
		zap.L().Warn("fetch: warm-up request failed, continuing",
			zap.String("url", profile.WarmupURL),
			zap.Error(err),
		)
	} else {
		zap.L().Debug("fetch: warm-up session established",
			zap.String("url", profile.WarmupURL),
		)
	}

	if !f.cfg.DisableDelays {
		f.sleep(ctx, uniformDuration(1, 3))
	}

	// Subsequent request looks like in-site navigation.
	headers["Referer"] = profile.WarmupURL
}

// applyDelay sleeps a random duration within the profile's bounds unless
// delay injection is disabled run-wide.
func (f *Fetcher) applyDelay(ctx context.Context, profile SiteProfile) {
	if f.cfg.DisableDelays {
		return
	}
	min := profile.MinDelay.Seconds()
	max := profile.MaxDelay.Seconds()
	if max <= min {
		max = min + 1
	}
	f.sleep(ctx, uniformDuration(min, max))
}

// backoff applies the general inter-attempt backoff.
func (f *Fetcher) backoff(ctx context.Context, attempt int) {
	f.sleep(ctx, expBackoff(attempt+1, 1, 3))
}

// expBackoff computes 2^attempt scaled by a uniform draw from [lo, hi]
// seconds.
func expBackoff(attempt int, lo, hi float64) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt)) * uniformSeconds(lo, hi) * float64(time.Second))
}

func uniformSeconds(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func uniformDuration(lo, hi float64) time.Duration {
	return time.Duration(uniformSeconds(lo, hi) * float64(time.Second))
}

// appendQuery attaches a query fragment with the right separator.
func appendQuery(rawURL, query string) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + query
}

// sleepCtx sleeps for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
