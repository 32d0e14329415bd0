// Package report renders a finished run to disk: JSON and CSV exports
// per source and per consolidated view, plus a human-readable summary.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
)

// Writer exports run results under a base directory. Every run writes a
// fresh set of files stamped with the run start time, so consecutive
// runs never clobber each other.
type Writer struct {
	dir string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteRun exports the whole run: per-source leads, the consolidated
// views, and the markdown summary. Files for an empty lead set are still
// written so a failed source leaves a visible trace.
func (w *Writer) WriteRun(run *model.RunResult) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return eris.Wrap(err, "report: create output dir")
	}
	stamp := run.StartedAt.Format("20060102_150405")

	for _, src := range run.Sources {
		if err := w.writeLeads(fmt.Sprintf("%s_leads_%s", src.Source, stamp), src.Leads); err != nil {
			return err
		}
	}

	exports := []struct {
		name  string
		leads []model.Lead
	}{
		{"all_sources_leads_" + stamp, run.Combined},
		{"quality_leads_" + stamp, run.Quality},
		{"target_growth_leads_" + stamp, run.WithGrowth},
	}
	for _, e := range exports {
		if err := w.writeLeads(e.name, e.leads); err != nil {
			return err
		}
	}

	if err := w.writeSummary("summary_"+stamp+".md", run); err != nil {
		return err
	}

	zap.L().Info("report: run exported",
		zap.String("dir", w.dir),
		zap.Int("sources", len(run.Sources)),
	)
	return nil
}

// writeLeads writes both the JSON and CSV renditions of one lead set.
func (w *Writer) writeLeads(name string, leads []model.Lead) error {
	if leads == nil {
		leads = []model.Lead{}
	}

	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "report: marshal %s", name)
	}
	if err := os.WriteFile(filepath.Join(w.dir, name+".json"), data, 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s.json", name)
	}

	csvData, err := csvutil.Marshal(leads)
	if err != nil {
		return eris.Wrapf(err, "report: marshal %s csv", name)
	}
	if err := os.WriteFile(filepath.Join(w.dir, name+".csv"), csvData, 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s.csv", name)
	}
	return nil
}

// writeSummary renders the markdown rollup.
func (w *Writer) writeSummary(name string, run *model.RunResult) error {
	s := run.Summary()

	var b strings.Builder
	b.WriteString("# Stock Recommendation Harvest\n\n")
	fmt.Fprintf(&b, "- Started: %s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Finished: %s\n", s.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Sources: %d/%d succeeded\n", s.SourcesSucceeded, s.SourcesTotal)
	fmt.Fprintf(&b, "- Leads: %d raw, %d unique, %d quality, %d with growth\n\n",
		s.TotalLeads, s.UniqueLeads, s.QualityLeads, s.GrowthLeads)

	b.WriteString("## Per source\n\n")
	b.WriteString("| Source | Leads | Status |\n")
	b.WriteString("|--------|-------|--------|\n")
	for _, src := range run.Sources {
		status := "ok"
		if src.FetchError != "" {
			status = src.FetchError
			if src.StatusCode != 0 {
				status = fmt.Sprintf("%s (HTTP %d)", src.FetchError, src.StatusCode)
			}
		}
		fmt.Fprintf(&b, "| %s | %d | %s |\n", src.Source, len(src.Leads), status)
	}

	if len(run.Quality) > 0 {
		b.WriteString("\n## Top quality leads\n\n")
		b.WriteString("| Stock | Call | Entry | Target | Growth | Confidence | Source |\n")
		b.WriteString("|-------|------|-------|--------|--------|------------|--------|\n")
		top := run.Quality
		if len(top) > 10 {
			top = top[:10]
		}
		for _, lead := range top {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %.2f | %s |\n",
				displayName(lead), lead.Recommendation,
				fmtPrice(lead.EntryPrice), fmtPrice(lead.TargetPrice),
				fmtGrowth(lead.GrowthPercent), lead.Confidence, lead.Source)
		}
	}

	err := os.WriteFile(filepath.Join(w.dir, name), []byte(b.String()), 0o644)
	return eris.Wrapf(err, "report: write %s", name)
}

func displayName(l model.Lead) string {
	if l.Symbol != "" {
		return l.Symbol
	}
	return l.CompanyName
}

func fmtPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}

func fmtGrowth(g *float64) string {
	if g == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", *g)
}
