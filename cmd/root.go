package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadscout",
	Short: "Stock recommendation harvester for Indian broker research pages",
	Long:  "Fetches broker research and stock-idea pages, extracts buy/sell/hold recommendations with prices via layered heuristics, scores each lead, and consolidates the results across sources.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
