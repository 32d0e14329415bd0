// Package pipeline orchestrates a full harvesting run: fan the sources
// out over a bounded worker pool, fetch and extract each one
// independently, then consolidate whatever succeeded.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leadscout/leadscout/internal/adapter"
	"github.com/leadscout/leadscout/internal/consolidate"
	"github.com/leadscout/leadscout/internal/fetcher"
	"github.com/leadscout/leadscout/internal/model"
)

// Options configures a run.
type Options struct {
	// Sources selects which registered adapters run. Empty means all.
	Sources []string

	// Concurrency bounds the number of sources fetched in parallel.
	// Default: 5.
	Concurrency int

	// MinConfidence is the threshold for the quality view. Default: 0.7.
	MinConfidence float64

	// Retries overrides every site profile's attempt budget when > 0.
	Retries int

	// Fetch is the per-source fetcher configuration. Each worker gets its
	// own Fetcher built from it so cookie jars stay per-site.
	Fetch fetcher.Config
}

// Pipeline runs sources through fetch, parse, extract, and consolidation.
type Pipeline struct {
	registry *adapter.Registry
	opts     Options
}

// New creates a pipeline over the given adapter registry.
func New(registry *adapter.Registry, opts Options) *Pipeline {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.7
	}
	return &Pipeline{registry: registry, opts: opts}
}

// Run executes the full pipeline. Individual source failures are
// recorded in their SourceResult and never abort the run; Run itself
// only errors on unknown source names or a cancelled context.
func (p *Pipeline) Run(ctx context.Context) (*model.RunResult, error) {
	adapters, err := p.registry.Select(p.opts.Sources)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: select sources")
	}

	started := time.Now().UTC()
	zap.L().Info("pipeline: starting run",
		zap.Int("sources", len(adapters)),
		zap.Int("concurrency", p.opts.Concurrency),
	)

	var (
		mu      sync.Mutex
		results = make([]model.SourceResult, 0, len(adapters))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for _, site := range adapters {
		g.Go(func() error {
			res := p.harvestSource(gctx, site)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: run cancelled")
	}

	// Worker completion order is nondeterministic; restore registration
	// order for stable output.
	ordered := orderResults(adapters, results)

	leadsBySource := make(map[string][]model.Lead, len(ordered))
	for _, res := range ordered {
		leadsBySource[res.Source] = res.Leads
	}

	combined := consolidate.Consolidate(leadsBySource)
	run := &model.RunResult{
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Sources:    ordered,
		Combined:   combined,
		Quality:    consolidate.Quality(combined, p.opts.MinConfidence),
		WithGrowth: consolidate.WithGrowth(combined),
	}

	zap.L().Info("pipeline: run complete",
		zap.Int("combined", len(run.Combined)),
		zap.Int("quality", len(run.Quality)),
		zap.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)),
	)
	return run, nil
}

// harvestSource fetches and extracts one source. Every failure mode ends
// up in the SourceResult; the worker never returns an error of its own.
func (p *Pipeline) harvestSource(ctx context.Context, site adapter.SiteAdapter) model.SourceResult {
	start := time.Now()
	res := model.SourceResult{
		Source: site.Name(),
		URL:    site.URL(),
	}

	// One Fetcher per source keeps cookies and session warm-up scoped to
	// a single site.
	f := fetcher.New(p.opts.Fetch)

	outcome := f.FetchWithRetries(ctx, site.URL(), p.opts.Retries)
	res.StatusCode = outcome.StatusCode
	if !outcome.Success {
		res.FetchError = outcome.Err
		res.Elapsed = time.Since(start)
		zap.L().Warn("pipeline: source fetch failed",
			zap.String("source", site.Name()),
			zap.Int("status", outcome.StatusCode),
			zap.String("error", outcome.Err),
		)
		return res
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(outcome.Body))
	if err != nil {
		res.FetchError = eris.Wrap(err, "pipeline: parse document").Error()
		res.Elapsed = time.Since(start)
		return res
	}

	res.Leads = site.Extract(doc, site.URL())
	res.Elapsed = time.Since(start)

	zap.L().Info("pipeline: source harvested",
		zap.String("source", site.Name()),
		zap.Int("leads", len(res.Leads)),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res
}

// orderResults sorts the collected results into adapter registration
// order.
func orderResults(adapters []adapter.SiteAdapter, results []model.SourceResult) []model.SourceResult {
	byName := make(map[string]model.SourceResult, len(results))
	for _, res := range results {
		byName[res.Source] = res
	}
	ordered := make([]model.SourceResult, 0, len(adapters))
	for _, site := range adapters {
		if res, ok := byName[site.Name()]; ok {
			ordered = append(ordered, res)
		}
	}
	return ordered
}
