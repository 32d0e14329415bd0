package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadscout/leadscout/internal/store"
)

var runsFlags struct {
	dbPath string
	source string
	limit  int
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(cmd.Context(), store.RunFilter{
			Source: runsFlags.source,
			Limit:  runsFlags.limit,
		})
		if err != nil {
			return err
		}

		for _, r := range runs {
			cmd.Printf("%s  %s  %d leads\n",
				r.ID, r.StartedAt.Format(time.RFC3339), r.LeadCount)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print one archived run as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the highest-confidence archived leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		leads, err := st.TopLeads(cmd.Context(), runsFlags.limit)
		if err != nil {
			return err
		}

		for _, lead := range leads {
			name := lead.Symbol
			if name == "" {
				name = lead.CompanyName
			}
			cmd.Printf("%-14s %-4s conf=%.2f source=%s\n",
				name, lead.Recommendation, lead.Confidence, lead.Source)
		}
		return nil
	},
}

func openStore() (*store.SQLiteStore, error) {
	path := cfg.Store.Path
	if runsFlags.dbPath != "" {
		path = runsFlags.dbPath
	}
	return store.NewSQLite(path)
}

func init() {
	runsCmd.PersistentFlags().StringVar(&runsFlags.dbPath, "db", "", "SQLite archive path")
	runsCmd.PersistentFlags().StringVar(&runsFlags.source, "source", "", "only runs containing leads from this source")
	runsCmd.PersistentFlags().IntVar(&runsFlags.limit, "limit", 20, "maximum entries to show")
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(topCmd)
	rootCmd.AddCommand(runsCmd)
}
