// Package ingest reads budget files and expense stores from a source
// directory and unions them into the raw in-memory tables.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fieldops/finpipe/internal/model"
)

const (
	budgetSuffix  = "_budget.csv"
	expenseSuffix = ".db"
)

// Ingestor discovers and reads all sources under one directory.
type Ingestor struct {
	dir string
}

// New creates an Ingestor over the given source directory.
func New(dir string) *Ingestor {
	return &Ingestor{dir: dir}
}

// Run reads every budget file and expense store in the source directory, in
// sorted directory order, and returns the unioned tables. Sources are never
// mutated and duplicate dimension keys are preserved. Any unreadable or
// unparseable source aborts the whole ingestion; so does a project ID with no
// correction entry.
func (ig *Ingestor) Run(ctx context.Context) (model.BudgetTable, model.ExpenseTable, error) {
	log := zap.L().With(zap.String("stage", "ingest"), zap.String("dir", ig.dir))

	entries, err := os.ReadDir(ig.dir)
	if err != nil {
		return nil, nil, &SourceReadError{Source: ig.dir, Err: err}
	}

	var budget model.BudgetTable
	var expenses model.ExpenseTable

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		name := entry.Name()
		path := filepath.Join(ig.dir, name)

		switch {
		case strings.HasSuffix(name, budgetSuffix):
			rows, err := readBudgetFile(path)
			if err != nil {
				return nil, nil, err
			}
			log.Info("ingested budget file", zap.String("file", name), zap.Int("rows", len(rows)))
			budget = append(budget, rows...)

		case strings.HasSuffix(name, expenseSuffix):
			rows, err := readExpenseStore(ctx, path)
			if err != nil {
				return nil, nil, err
			}
			log.Info("ingested expense store", zap.String("store", name), zap.Int("rows", len(rows)))
			expenses = append(expenses, rows...)
		}
	}

	log.Info("ingest complete",
		zap.Int("budget_rows", len(budget)),
		zap.Int("expense_rows", len(expenses)),
	)
	return budget, expenses, nil
}

// SourceReadError indicates a source file or store that could not be opened or
// parsed. It identifies the offending source and aborts the run.
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("cannot read source %s: %v", e.Source, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}
