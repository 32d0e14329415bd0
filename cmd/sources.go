package main

import (
	"github.com/spf13/cobra"

	"github.com/leadscout/leadscout/internal/adapter"
	"github.com/leadscout/leadscout/internal/scorer"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the registered source adapters",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := adapter.DefaultRegistry(scorer.New(scorer.DefaultConfig()))
		for _, a := range registry.All() {
			cmd.Printf("%-14s %s\n", a.Name(), a.URL())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
