package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestFetcher disables delays and stubs the sleep seam so retry tests
// run instantly.
func newTestFetcher(cfg Config) *Fetcher {
	cfg.DisableDelays = true
	f := New(cfg)
	f.sleep = func(ctx context.Context, d time.Duration) {}
	return f
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.Repeat("real page content ", 100)))
	}))
	defer srv.Close()

	f := newTestFetcher(Config{RequestsPerSec: 1000})
	out := f.Fetch(context.Background(), srv.URL)

	assert.True(t, out.Success)
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Contains(t, out.Body, "real page content")
	assert.Empty(t, out.Err)
}

func TestFetch_SetsUserAgentFromPool(t *testing.T) {
	var gotAgent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(strings.Repeat("ok ", 300)))
	}))
	defer srv.Close()

	f := newTestFetcher(Config{RequestsPerSec: 1000})
	out := f.Fetch(context.Background(), srv.URL)
	require.True(t, out.Success)

	assert.Contains(t, userAgents, gotAgent.Load().(string))
}

func TestFetchWithRetries_ExhaustsOn429(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := newTestFetcher(Config{RequestsPerSec: 1000})
	out := f.FetchWithRetries(context.Background(), srv.URL, 3)

	assert.False(t, out.Success)
	assert.Equal(t, http.StatusTooManyRequests, out.StatusCode)
	assert.Equal(t, "max retries exceeded", out.Err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetchWithRetries_RecoversAfter429(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(strings.Repeat("listing ", 200)))
	}))
	defer srv.Close()

	f := newTestFetcher(Config{RequestsPerSec: 1000})
	out := f.FetchWithRetries(context.Background(), srv.URL, 3)

	assert.True(t, out.Success)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchWithRetries_SoftBlockRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		// 200 with a tiny challenge page must not count as success.
		_, _ = w.Write([]byte("<html>please solve this captcha</html>"))
	}))
	defer srv.Close()

	f := newTestFetcher(Config{RequestsPerSec: 1000})
	out := f.FetchWithRetries(context.Background(), srv.URL, 2)

	assert.False(t, out.Success)
	assert.Equal(t, "max retries exceeded", out.Err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchWithRetries_TerminalStatusNoRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(Config{RequestsPerSec: 1000})
	out := f.FetchWithRetries(context.Background(), srv.URL, 3)

	assert.False(t, out.Success)
	assert.Equal(t, http.StatusNotFound, out.StatusCode)
	assert.Equal(t, "http error: 404", out.Err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchWithRetries_CacheBusterOnRetry(t *testing.T) {
	var first, second atomic.Value
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch hits.Add(1) {
		case 1:
			first.Store(r.URL.String())
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			second.Store(r.URL.String())
			_, _ = w.Write([]byte(strings.Repeat("content ", 200)))
		}
	}))
	defer srv.Close()

	f := newTestFetcher(Config{RequestsPerSec: 1000})
	out := f.FetchWithRetries(context.Background(), srv.URL, 3)
	require.True(t, out.Success)

	assert.NotContains(t, first.Load().(string), "_cb=")
	assert.Contains(t, second.Load().(string), "_cb=")
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := newTestFetcher(Config{RequestsPerSec: 1000})
	out := f.FetchWithRetries(context.Background(), srv.URL, 2)

	assert.False(t, out.Success)
	assert.Contains(t, out.Err, "request error")
}

func TestIsSoftBlock(t *testing.T) {
	assert.True(t, IsSoftBlock(200, "<html>verify you are not a ROBOT</html>"))
	assert.True(t, IsSoftBlock(200, "solve the captcha"))
	assert.False(t, IsSoftBlock(403, "captcha"))
	assert.False(t, IsSoftBlock(200, "a perfectly ordinary small page"))
	assert.False(t, IsSoftBlock(200, strings.Repeat("captcha ", 100)))
}

func TestResolveProfile_KnownDomain(t *testing.T) {
	p := resolveProfile(DefaultProfiles(), "https://www.moneycontrol.com/markets/stock-ideas/")
	assert.True(t, p.Warmup)
	assert.True(t, p.StickyAgent)
	assert.Equal(t, 5, p.Retries)
	// Merged over the default header set.
	assert.NotEmpty(t, p.Headers["Accept-Language"])
	assert.Equal(t, "https://www.google.com/", p.Headers["Referer"])
}

func TestResolveProfile_UnknownDomainGetsDefault(t *testing.T) {
	p := resolveProfile(DefaultProfiles(), "https://example.org/page")
	assert.False(t, p.Warmup)
	assert.Equal(t, DefaultProfile.Retries, p.Retries)
	assert.Equal(t, DefaultProfile.MinDelay, p.MinDelay)
}

func TestResolveProfile_MergeFillsDelayGaps(t *testing.T) {
	p := resolveProfile([]SiteProfile{{Domain: "example.org", Retries: 7}}, "https://example.org/x")
	assert.Equal(t, 7, p.Retries)
	assert.Equal(t, DefaultProfile.MinDelay, p.MinDelay)
	assert.Equal(t, DefaultProfile.MaxDelay, p.MaxDelay)
}

func TestWarmup_HitsHomepageBeforeTarget(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(strings.Repeat("page ", 200)))
	}))
	defer srv.Close()

	profiles := []SiteProfile{{
		Domain:        "127.0.0.1",
		Warmup:        true,
		WarmupURL:     srv.URL + "/",
		SearchReferer: "https://www.google.com/search?q=test",
		StickyAgent:   true,
		Retries:       2,
	}}

	f := newTestFetcher(Config{RequestsPerSec: 1000, Profiles: profiles})
	out := f.Fetch(context.Background(), srv.URL+"/ideas")
	require.True(t, out.Success)

	require.Len(t, paths, 2)
	assert.Equal(t, "/", paths[0])
	assert.Equal(t, "/ideas", paths[1])
}

func TestExpBackoff_GrowsWithAttempt(t *testing.T) {
	for i := 0; i < 20; i++ {
		d0 := expBackoff(0, 2, 4)
		d2 := expBackoff(2, 2, 4)
		assert.GreaterOrEqual(t, d0, 2*time.Second)
		assert.LessOrEqual(t, d0, 4*time.Second)
		assert.GreaterOrEqual(t, d2, 8*time.Second)
		assert.LessOrEqual(t, d2, 16*time.Second)
	}
}

func TestAppendQuery(t *testing.T) {
	assert.Equal(t, "https://a/b?x=1", appendQuery("https://a/b", "x=1"))
	assert.Equal(t, "https://a/b?y=2&x=1", appendQuery("https://a/b?y=2", "x=1"))
}
