// Package integrate joins the cleaned budget and expense tables into the
// final analytical table.
package integrate

import (
	"go.uber.org/zap"

	"github.com/fieldops/finpipe/internal/model"
)

// Join performs a relational inner join of the cleaned tables on the
// dimension key (date, project_id, country, department, category). A budget
// row and an expense row are joined iff all five key fields are equal; keys
// with multiple matches on either side produce the full cross product, with
// no aggregation. Rows whose key appears on only one side are dropped.
//
// Output order follows budget-side order, then expense-side order within a
// key. An empty result is valid: it means no key overlapped, which the caller
// may flag but is not an error. Pure function of its inputs.
func Join(budget model.CleanedBudgetTable, expenses model.CleanedExpenseTable) model.GoldTable {
	byKey := make(map[model.DimensionKey][]model.CleanedRow, len(expenses))
	for _, e := range expenses {
		k := e.Key()
		byKey[k] = append(byKey[k], e)
	}

	var gold model.GoldTable
	for _, b := range budget {
		for _, e := range byKey[b.Key()] {
			gold = append(gold, model.GoldRow{
				Date:                   model.DateOnly{Time: b.Date},
				ProjectID:              b.ProjectID,
				Country:                b.Country,
				Department:             b.Department,
				Category:               b.Category,
				AmountBudget:           b.Amount,
				ConvertedAmountBudget:  b.ConvertedAmount,
				AmountExpense:          e.Amount,
				ConvertedAmountExpense: e.ConvertedAmount,
			})
		}
	}

	if len(gold) == 0 {
		zap.L().Warn("join produced no rows: no dimension key present on both sides")
	}
	return gold
}
