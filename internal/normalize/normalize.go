// Package normalize cleans the raw tables and converts amounts into the
// reporting currency using one rate snapshot per run.
package normalize

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fieldops/finpipe/internal/model"
	"github.com/fieldops/finpipe/internal/projects"
	"github.com/fieldops/finpipe/internal/rates"
)

// Budget produces the cleaned budget table: store metadata and the currency
// column are dropped, project IDs are canonicalized, year/month become the
// month-end date, and ConvertedAmount is amount times the snapshot factor for
// the record's currency. The input table is not modified.
//
// The same snapshot is applied to every row regardless of its date; see the
// rates package for the historical-rate approximation this implies.
func Budget(table model.BudgetTable, snap *rates.Snapshot) (model.CleanedBudgetTable, error) {
	out := make(model.CleanedBudgetTable, 0, len(table))
	for _, rec := range table {
		row, err := clean(rec.ProjectID, rec.Country, rec.Currency, rec.Category,
			rec.Department, rec.Year, rec.Month, rec.Amount, snap)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	zap.L().Debug("normalized budget table", zap.Int("rows", len(out)))
	return out, nil
}

// Expenses produces the cleaned expense table; same transformations as Budget,
// with the store's id and version columns pruned.
func Expenses(table model.ExpenseTable, snap *rates.Snapshot) (model.CleanedExpenseTable, error) {
	out := make(model.CleanedExpenseTable, 0, len(table))
	for _, rec := range table {
		row, err := clean(rec.ProjectID, rec.Country, rec.Currency, rec.Category,
			rec.Department, rec.Year, rec.Month, rec.Amount, snap)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	zap.L().Debug("normalized expense table", zap.Int("rows", len(out)))
	return out, nil
}

func clean(projectID, country, currency, category, department string,
	year, month int, amount decimal.Decimal, snap *rates.Snapshot) (model.CleanedRow, error) {

	canonical := projects.Canonical(projectID)

	date, err := model.MonthEnd(year, month)
	if err != nil {
		return model.CleanedRow{}, err
	}

	factor, err := snap.Factor(currency, canonical)
	if err != nil {
		return model.CleanedRow{}, err
	}

	return model.CleanedRow{
		Date:            date,
		ProjectID:       canonical,
		Country:         country,
		Department:      department,
		Category:        category,
		Amount:          amount,
		ConvertedAmount: amount.Mul(factor),
	}, nil
}
