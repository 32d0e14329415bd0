// Package store archives completed harvesting runs so past
// recommendations stay queryable after the output files are gone.
package store

import (
	"context"
	"time"

	"github.com/leadscout/leadscout/internal/model"
)

// ArchivedRun is one persisted run with its consolidated result.
type ArchivedRun struct {
	ID         string           `json:"id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	LeadCount  int              `json:"lead_count"`
	Result     *model.RunResult `json:"result,omitempty"`
}

// RunFilter narrows ListRuns.
type RunFilter struct {
	Source string
	Limit  int
	Offset int
}

// Store persists runs and their leads.
type Store interface {
	Migrate(ctx context.Context) error
	SaveRun(ctx context.Context, result *model.RunResult) (string, error)
	GetRun(ctx context.Context, runID string) (*ArchivedRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]ArchivedRun, error)
	TopLeads(ctx context.Context, limit int) ([]model.Lead, error)
	Close() error
}
