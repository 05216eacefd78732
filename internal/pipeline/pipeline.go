// Package pipeline orchestrates the three transformation stages: ingest,
// normalize/convert, integrate.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/fieldops/finpipe/internal/ingest"
	"github.com/fieldops/finpipe/internal/integrate"
	"github.com/fieldops/finpipe/internal/model"
	"github.com/fieldops/finpipe/internal/normalize"
	"github.com/fieldops/finpipe/internal/rates"
)

// Pipeline runs the staged transformation end to end. Stages execute strictly
// in sequence, each handing ownership of its output table to the next; any
// stage failure aborts the run with no partial output.
type Pipeline struct {
	ingestor *ingest.Ingestor
	provider rates.Provider
	base     string
}

// New creates a Pipeline over a source directory, converting into the given
// reporting currency via the rate provider.
func New(ingestor *ingest.Ingestor, provider rates.Provider, baseCurrency string) *Pipeline {
	return &Pipeline{
		ingestor: ingestor,
		provider: provider,
		base:     baseCurrency,
	}
}

// Result summarizes a completed run.
type Result struct {
	Gold        model.GoldTable
	BudgetRows  int
	ExpenseRows int
	GoldRows    int
	Snapshot    *rates.Snapshot
}

// Run executes ingest, normalize/convert, and integrate, in that order. The
// rate provider is called exactly once, between ingestion and normalization,
// and the resulting snapshot is applied uniformly to every record: the
// provider has no historical series, so converted amounts for old records use
// today's rates. That approximation is deliberate and logged, not hidden.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := zap.L().With(zap.String("component", "pipeline"))

	budget, expenses, err := p.ingestor.Run(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := p.provider.Latest(ctx, p.base)
	if err != nil {
		return nil, err
	}
	log.Warn("applying one current rate snapshot uniformly to all historical records",
		zap.String("base", snap.Base),
		zap.Time("as_of", snap.AsOf),
	)

	cleanedBudget, err := normalize.Budget(budget, snap)
	if err != nil {
		return nil, err
	}
	cleanedExpenses, err := normalize.Expenses(expenses, snap)
	if err != nil {
		return nil, err
	}

	gold := integrate.Join(cleanedBudget, cleanedExpenses)

	log.Info("pipeline complete",
		zap.Int("budget_rows", len(cleanedBudget)),
		zap.Int("expense_rows", len(cleanedExpenses)),
		zap.Int("gold_rows", len(gold)),
	)

	return &Result{
		Gold:        gold,
		BudgetRows:  len(cleanedBudget),
		ExpenseRows: len(cleanedExpenses),
		GoldRows:    len(gold),
		Snapshot:    snap,
	}, nil
}
