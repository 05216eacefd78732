package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldops/finpipe/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "finpipe",
	Short: "Budget and expense consolidation pipeline",
	Long: "Ingests per-project budget files and expense stores, normalizes them, " +
		"converts amounts into a single reporting currency, and joins them into " +
		"one analytical table.",
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
