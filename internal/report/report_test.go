package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscout/leadscout/internal/model"
)

func fptr(v float64) *float64 { return &v }

func sampleRun() *model.RunResult {
	started := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	lead := model.Lead{
		Symbol:         "RELIANCE",
		EntryPrice:     fptr(2400),
		TargetPrice:    fptr(2700),
		GrowthPercent:  fptr(12.5),
		Recommendation: model.RecommendationBuy,
		Confidence:     0.95,
		Source:         "moneycontrol",
		RetrievedAt:    started,
	}
	return &model.RunResult{
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Minute),
		Sources: []model.SourceResult{
			{Source: "moneycontrol", Leads: []model.Lead{lead}},
			{Source: "sharekhan", FetchError: "max retries exceeded", StatusCode: 429},
		},
		Combined:   []model.Lead{lead},
		Quality:    []model.Lead{lead},
		WithGrowth: []model.Lead{lead},
	}
}

func TestWriteRun_ProducesAllFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewWriter(dir).WriteRun(sampleRun()))

	stamp := "20260820_093000"
	for _, name := range []string{
		"moneycontrol_leads_" + stamp + ".json",
		"moneycontrol_leads_" + stamp + ".csv",
		"sharekhan_leads_" + stamp + ".json",
		"sharekhan_leads_" + stamp + ".csv",
		"all_sources_leads_" + stamp + ".json",
		"all_sources_leads_" + stamp + ".csv",
		"quality_leads_" + stamp + ".json",
		"quality_leads_" + stamp + ".csv",
		"target_growth_leads_" + stamp + ".json",
		"target_growth_leads_" + stamp + ".csv",
		"summary_" + stamp + ".md",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "missing %s", name)
	}
}

func TestWriteRun_JSONRoundTrips(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewWriter(dir).WriteRun(sampleRun()))

	data, err := os.ReadFile(filepath.Join(dir, "all_sources_leads_20260820_093000.json"))
	require.NoError(t, err)

	var leads []model.Lead
	require.NoError(t, json.Unmarshal(data, &leads))
	require.Len(t, leads, 1)
	assert.Equal(t, "RELIANCE", leads[0].Symbol)
	assert.Equal(t, 2700.0, *leads[0].TargetPrice)
}

func TestWriteRun_FailedSourceStillExported(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewWriter(dir).WriteRun(sampleRun()))

	// The failed source gets an empty array, not a missing file.
	data, err := os.ReadFile(filepath.Join(dir, "sharekhan_leads_20260820_093000.json"))
	require.NoError(t, err)

	var leads []model.Lead
	require.NoError(t, json.Unmarshal(data, &leads))
	assert.Empty(t, leads)
}

func TestWriteRun_SummaryContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewWriter(dir).WriteRun(sampleRun()))

	data, err := os.ReadFile(filepath.Join(dir, "summary_20260820_093000.md"))
	require.NoError(t, err)
	summary := string(data)

	assert.Contains(t, summary, "RELIANCE")
	assert.Contains(t, summary, "moneycontrol")
	assert.Contains(t, summary, "max retries exceeded (HTTP 429)")
	assert.Contains(t, summary, "1 raw, 1 unique, 1 quality, 1 with growth")
}

func TestWriteRun_CSVHasHeader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewWriter(dir).WriteRun(sampleRun()))

	data, err := os.ReadFile(filepath.Join(dir, "quality_leads_20260820_093000.csv"))
	require.NoError(t, err)
	csv := string(data)

	assert.Contains(t, csv, "symbol")
	assert.Contains(t, csv, "target_price")
	assert.Contains(t, csv, "RELIANCE")
	assert.NotContains(t, csv, "raw_text")
}
