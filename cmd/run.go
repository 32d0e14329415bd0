package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/adapter"
	"github.com/leadscout/leadscout/internal/fetcher"
	"github.com/leadscout/leadscout/internal/model"
	"github.com/leadscout/leadscout/internal/pipeline"
	"github.com/leadscout/leadscout/internal/report"
	"github.com/leadscout/leadscout/internal/scorer"
	"github.com/leadscout/leadscout/internal/store"
)

var runFlags struct {
	sources       []string
	outputDir     string
	retries       int
	timeoutSecs   int
	concurrency   int
	minConfidence float64
	noDelays      bool
	dbPath        string
	noStore       bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Harvest recommendations from all (or selected) sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		outputDir := cfg.Run.OutputDir
		if runFlags.outputDir != "" {
			outputDir = runFlags.outputDir
		}
		concurrency := cfg.Run.Concurrency
		if runFlags.concurrency > 0 {
			concurrency = runFlags.concurrency
		}
		minConfidence := cfg.Run.MinConfidence
		if cmd.Flags().Changed("min-confidence") {
			minConfidence = runFlags.minConfidence
		}
		timeoutSecs := cfg.Fetch.TimeoutSecs
		if runFlags.timeoutSecs > 0 {
			timeoutSecs = runFlags.timeoutSecs
		}
		dbPath := cfg.Store.Path
		if runFlags.dbPath != "" {
			dbPath = runFlags.dbPath
		}

		scoringCfg := scorer.DefaultConfig()
		scoringCfg.GrowthBandMin = cfg.Scoring.GrowthBandMin
		scoringCfg.GrowthBandMax = cfg.Scoring.GrowthBandMax
		scoringCfg.GrowthBandBonus = cfg.Scoring.GrowthBandBonus

		registry := adapter.DefaultRegistry(scorer.New(scoringCfg))

		p := pipeline.New(registry, pipeline.Options{
			Sources:       runFlags.sources,
			Concurrency:   concurrency,
			MinConfidence: minConfidence,
			Retries:       runFlags.retries,
			Fetch: fetcher.Config{
				Timeout:        time.Duration(timeoutSecs) * time.Second,
				Retries:        cfg.Fetch.Retries,
				RequestsPerSec: cfg.Fetch.RequestsPerSec,
				DisableDelays:  cfg.Fetch.DisableDelays || runFlags.noDelays,
			},
		})

		result, err := p.Run(ctx)
		if err != nil {
			return err
		}

		if err := report.NewWriter(outputDir).WriteRun(result); err != nil {
			return err
		}

		if !runFlags.noStore {
			st, err := store.NewSQLite(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			runID, err := st.SaveRun(ctx, result)
			if err != nil {
				return err
			}
			zap.L().Info("run archived", zap.String("run_id", runID))
		}

		printSummary(cmd, result)
		return nil
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runFlags.sources, "sources", nil, "source names to harvest (default: all)")
	runCmd.Flags().StringVar(&runFlags.outputDir, "output-dir", "", "directory for JSON/CSV exports")
	runCmd.Flags().IntVar(&runFlags.retries, "retries", 0, "override per-site retry budget")
	runCmd.Flags().IntVar(&runFlags.timeoutSecs, "timeout", 0, "per-request timeout in seconds")
	runCmd.Flags().IntVar(&runFlags.concurrency, "concurrency", 0, "sources fetched in parallel")
	runCmd.Flags().Float64Var(&runFlags.minConfidence, "min-confidence", 0.7, "confidence threshold for the quality view")
	runCmd.Flags().BoolVar(&runFlags.noDelays, "no-delays", false, "skip randomized inter-request delays")
	runCmd.Flags().StringVar(&runFlags.dbPath, "db", "", "SQLite archive path")
	runCmd.Flags().BoolVar(&runFlags.noStore, "no-store", false, "skip archiving the run to SQLite")
	rootCmd.AddCommand(runCmd)
}

func printSummary(cmd *cobra.Command, result *model.RunResult) {
	s := result.Summary()
	cmd.Printf("Harvested %d sources (%d succeeded) in %s\n",
		s.SourcesTotal, s.SourcesSucceeded, s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
	for _, src := range result.Sources {
		line := fmt.Sprintf("  %-14s %d leads", src.Source, len(src.Leads))
		if src.FetchError != "" {
			line += " (" + src.FetchError + ")"
		}
		cmd.Println(line)
	}
	cmd.Printf("Leads: %d raw, %d unique, %d quality, %d with growth target\n",
		s.TotalLeads, s.UniqueLeads, s.QualityLeads, s.GrowthLeads)
}
