package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldops/finpipe/internal/ingest"
	"github.com/fieldops/finpipe/internal/pipeline"
	"github.com/fieldops/finpipe/internal/rates"
	"github.com/fieldops/finpipe/internal/runlog"
	"github.com/fieldops/finpipe/internal/sink"
	"github.com/fieldops/finpipe/pkg/exchangerate"
)

var (
	runSourceDir  string
	runOutputPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and write the gold artifact",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cfg.Rates.APIKey == "" {
			return eris.New("rate provider API key is required (FINPIPE_RATES_API_KEY)")
		}

		sourceDir := cfg.Source.Dir
		if runSourceDir != "" {
			sourceDir = runSourceDir
		}
		outputPath := cfg.Output.Path
		if runOutputPath != "" {
			outputPath = runOutputPath
		}

		rlog, err := runlog.Open(cfg.Runlog.Path)
		if err != nil {
			return err
		}
		defer rlog.Close()

		runID, err := rlog.Start(ctx)
		if err != nil {
			return err
		}

		client := exchangerate.NewClient(cfg.Rates.APIKey, exchangerate.WithBaseURL(cfg.Rates.BaseURL))
		p := pipeline.New(
			ingest.New(sourceDir),
			rates.NewAPIProvider(client),
			cfg.Rates.BaseCurrency,
		)

		result, err := p.Run(ctx)
		if err != nil {
			failRun(rlog, runID, err)
			return err
		}

		if err := sink.WriteCSV(outputPath, result.Gold); err != nil {
			failRun(rlog, runID, err)
			return err
		}

		if err := rlog.Complete(ctx, runID,
			result.BudgetRows, result.ExpenseRows, result.GoldRows, outputPath); err != nil {
			return err
		}

		zap.L().Info("run complete",
			zap.String("run_id", runID),
			zap.Int("gold_rows", result.GoldRows),
			zap.String("output", outputPath),
		)
		return nil
	},
}

// failRun records the failure on a fresh context so an aborted run is still
// logged even when the command context is already cancelled.
func failRun(rlog *runlog.Log, runID string, runErr error) {
	if err := rlog.Fail(context.Background(), runID, runErr.Error()); err != nil {
		zap.L().Warn("could not record failed run", zap.String("run_id", runID), zap.Error(err))
	}
}

func init() {
	runCmd.Flags().StringVar(&runSourceDir, "source", "", "source directory (overrides config)")
	runCmd.Flags().StringVar(&runOutputPath, "output", "", "gold CSV path (overrides config)")
	rootCmd.AddCommand(runCmd)
}
