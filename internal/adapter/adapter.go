// Package adapter turns fetched page content into raw lead candidates.
// Each source gets one SiteAdapter variant; all variants share the
// heuristic extraction library and the central confidence scorer, so a new
// source is added by registering a new variant, never by duplicating
// pipeline logic.
package adapter

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/leadscout/leadscout/internal/model"
	"github.com/leadscout/leadscout/internal/scorer"
)

// SiteAdapter extracts leads from one source's pages.
//
// Implementations must never let a per-fragment parse error escape: bad
// fragments are logged and skipped, and Extract always returns whatever
// leads it managed to build (possibly none).
type SiteAdapter interface {
	// Name is the registry identifier, e.g. "moneycontrol".
	Name() string

	// URL is the page this source is harvested from.
	URL() string

	// Extract pulls zero or more leads out of a parsed page.
	Extract(doc *goquery.Document, sourceURL string) []model.Lead
}

// Registry maps source names to their adapters in registration order.
type Registry struct {
	adapters map[string]SiteAdapter
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]SiteAdapter)}
}

// DefaultRegistry registers every built-in source adapter.
func DefaultRegistry(sc *scorer.Scorer) *Registry {
	r := NewRegistry()
	r.Register(NewAxisDirect(sc))
	r.Register(NewICICIDirect(sc))
	r.Register(NewFivePaisa(sc))
	r.Register(NewKotakSecurities(sc))
	r.Register(NewSharekhan(sc))
	r.Register(NewMoneycontrol(sc))
	return r
}

// Register adds an adapter to the registry.
func (r *Registry) Register(a SiteAdapter) {
	name := a.Name()
	r.adapters[name] = a
	r.order = append(r.order, name)
}

// Get returns an adapter by source name.
func (r *Registry) Get(name string) (SiteAdapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, eris.Errorf("adapter: unknown source %q", name)
	}
	return a, nil
}

// Select resolves the named sources, or all of them when names is empty.
func (r *Registry) Select(names []string) ([]SiteAdapter, error) {
	if len(names) == 0 {
		return r.All(), nil
	}
	out := make([]SiteAdapter, 0, len(names))
	for _, name := range names {
		a, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// All returns every adapter in registration order.
func (r *Registry) All() []SiteAdapter {
	out := make([]SiteAdapter, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.adapters[name])
	}
	return out
}

// Names returns the registered source names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
