package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/leadscout/leadscout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	lead_count  INTEGER NOT NULL DEFAULT 0,
	result      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY,
	run_id         TEXT NOT NULL REFERENCES runs(id),
	symbol         TEXT,
	company_name   TEXT,
	recommendation TEXT NOT NULL,
	confidence     REAL NOT NULL,
	growth_percent REAL,
	source         TEXT NOT NULL,
	payload        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_leads_run_id ON leads(run_id);
CREATE INDEX IF NOT EXISTS idx_leads_symbol ON leads(symbol);
CREATE INDEX IF NOT EXISTS idx_leads_source ON leads(source);
CREATE INDEX IF NOT EXISTS idx_leads_confidence ON leads(confidence);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun archives the run and its consolidated leads in one
// transaction, returning the new run id.
func (s *SQLiteStore) SaveRun(ctx context.Context, result *model.RunResult) (string, error) {
	runID := uuid.New().String()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal result")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, lead_count, result) VALUES (?, ?, ?, ?, ?)`,
		runID, result.StartedAt, result.FinishedAt, len(result.Combined), string(resultJSON),
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert run")
	}

	for _, lead := range result.Combined {
		payload, err := json.Marshal(lead)
		if err != nil {
			return "", eris.Wrap(err, "sqlite: marshal lead")
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO leads (id, run_id, symbol, company_name, recommendation, confidence, growth_percent, source, payload)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), runID,
			nullable(lead.Symbol), nullable(lead.CompanyName),
			string(lead.Recommendation), lead.Confidence,
			lead.GrowthPercent, lead.Source, string(payload),
		)
		if err != nil {
			return "", eris.Wrap(err, "sqlite: insert lead")
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit")
	}
	return runID, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*ArchivedRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, lead_count, result FROM runs WHERE id = ?`,
		runID,
	)

	var r ArchivedRun
	var resultJSON string
	err := row.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.LeadCount, &resultJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	r.Result = &model.RunResult{}
	if err := json.Unmarshal([]byte(resultJSON), r.Result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal result")
	}
	return &r, nil
}

// ListRuns returns archived runs newest first. Results carry counts only;
// use GetRun for the full payload.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]ArchivedRun, error) {
	query := `SELECT DISTINCT r.id, r.started_at, r.finished_at, r.lead_count FROM runs r`
	var args []any

	if filter.Source != "" {
		query += ` JOIN leads l ON l.run_id = r.id AND l.source = ?`
		args = append(args, filter.Source)
	}
	query += ` ORDER BY r.started_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []ArchivedRun
	for rows.Next() {
		var r ArchivedRun
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.LeadCount); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run row")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// TopLeads returns the highest-confidence archived leads across all runs.
func (s *SQLiteStore) TopLeads(ctx context.Context, limit int) ([]model.Lead, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM leads ORDER BY confidence DESC, growth_percent DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: top leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		var lead model.Lead
		if err := json.Unmarshal([]byte(payload), &lead); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal lead")
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: top leads iterate")
}

// nullable maps the empty string to NULL so partial identities stay
// queryable as missing rather than empty.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
