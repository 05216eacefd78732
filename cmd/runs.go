package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldops/finpipe/internal/runlog"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded pipeline runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rlog, err := runlog.Open(cfg.Runlog.Path)
		if err != nil {
			return err
		}
		defer rlog.Close()

		runs, err := rlog.List(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}

		for _, r := range runs {
			line := fmt.Sprintf("%s  %-8s  started %s  budget=%d expense=%d gold=%d",
				r.ID, r.Status, r.StartedAt.Format("2006-01-02 15:04:05"),
				r.BudgetRows, r.ExpenseRows, r.GoldRows)
			if r.Error != "" {
				line += "  error: " + r.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
