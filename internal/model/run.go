package model

import "time"

// SourceResult holds everything one source produced during a run.
type SourceResult struct {
	Source     string        `json:"source"`
	URL        string        `json:"url"`
	Leads      []Lead        `json:"leads"`
	StatusCode int           `json:"status_code,omitempty"`
	FetchError string        `json:"fetch_error,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// RunResult is the consolidated output of one pipeline run.
type RunResult struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Sources    []SourceResult `json:"sources"`
	Combined   []Lead         `json:"combined"`
	Quality    []Lead         `json:"quality"`
	WithGrowth []Lead         `json:"with_growth"`
}

// Summary reduces a run to per-source counts. A source that failed or
// matched nothing still appears with a zero count.
func (r *RunResult) Summary() RunSummary {
	s := RunSummary{
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		CountBySource: make(map[string]int, len(r.Sources)),
		TotalLeads:    0,
	}
	for _, src := range r.Sources {
		s.CountBySource[src.Source] = len(src.Leads)
		s.TotalLeads += len(src.Leads)
		if len(src.Leads) > 0 || src.FetchError == "" {
			s.SourcesSucceeded++
		}
	}
	s.SourcesTotal = len(r.Sources)
	s.UniqueLeads = len(r.Combined)
	s.QualityLeads = len(r.Quality)
	s.GrowthLeads = len(r.WithGrowth)
	return s
}

// RunSummary is the human-facing rollup reported at the end of a run.
type RunSummary struct {
	StartedAt        time.Time      `json:"started_at"`
	FinishedAt       time.Time      `json:"finished_at"`
	SourcesTotal     int            `json:"sources_total"`
	SourcesSucceeded int            `json:"sources_succeeded"`
	CountBySource    map[string]int `json:"count_by_source"`
	TotalLeads       int            `json:"total_leads"`
	UniqueLeads      int            `json:"unique_leads"`
	QualityLeads     int            `json:"quality_leads"`
	GrowthLeads      int            `json:"growth_leads"`
}
