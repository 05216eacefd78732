package integrate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/finpipe/internal/model"
)

func row(project, category string, month int, amount, converted string) model.CleanedRow {
	date, _ := model.MonthEnd(2024, month)
	return model.CleanedRow{
		Date:            date,
		ProjectID:       project,
		Country:         "Kenya",
		Department:      "Ops",
		Category:        category,
		Amount:          decimal.RequireFromString(amount),
		ConvertedAmount: decimal.RequireFromString(converted),
	}
}

func TestJoin_MatchingKey(t *testing.T) {
	t.Parallel()

	budget := model.CleanedBudgetTable{row("KE02", "Logistics", 3, "1000", "7.5")}
	expenses := model.CleanedExpenseTable{row("KE02", "Logistics", 3, "50", "0.375")}

	gold := Join(budget, expenses)
	require.Len(t, gold, 1)

	g := gold[0]
	assert.Equal(t, time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), g.Date.Time)
	assert.Equal(t, "KE02", g.ProjectID)
	assert.Equal(t, "Kenya", g.Country)
	assert.Equal(t, "Ops", g.Department)
	assert.Equal(t, "Logistics", g.Category)
	assert.True(t, g.AmountBudget.Equal(decimal.NewFromInt(1000)))
	assert.True(t, g.ConvertedAmountBudget.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, g.AmountExpense.Equal(decimal.NewFromInt(50)))
	assert.True(t, g.ConvertedAmountExpense.Equal(decimal.RequireFromString("0.375")))
}

func TestJoin_InnerOnly(t *testing.T) {
	t.Parallel()

	budget := model.CleanedBudgetTable{
		row("KE02", "Logistics", 3, "1000", "7.5"),
		row("KE02", "Medical", 3, "2000", "15"), // no expense match
	}
	expenses := model.CleanedExpenseTable{
		row("KE02", "Logistics", 3, "50", "0.375"),
		row("SN01", "Fuel", 3, "9", "9"), // no budget match
	}

	gold := Join(budget, expenses)
	require.Len(t, gold, 1, "rows whose key appears on only one side are dropped")
	assert.Equal(t, "Logistics", gold[0].Category)
}

func TestJoin_CrossProduct(t *testing.T) {
	t.Parallel()

	// 2 budget rows and 3 expense rows share one key; 1 budget and 1 expense
	// row share another. |gold| = 2*3 + 1*1.
	budget := model.CleanedBudgetTable{
		row("KE02", "Logistics", 3, "1000", "7.5"),
		row("KE02", "Logistics", 3, "1100", "8.25"),
		row("BF01", "Fuel", 2, "10", "10"),
	}
	expenses := model.CleanedExpenseTable{
		row("KE02", "Logistics", 3, "50", "0.375"),
		row("KE02", "Logistics", 3, "60", "0.45"),
		row("KE02", "Logistics", 3, "70", "0.525"),
		row("BF01", "Fuel", 2, "3", "3"),
	}

	gold := Join(budget, expenses)
	assert.Len(t, gold, 7, "cross product per key, no aggregation")
}

func TestJoin_OutputOrderIsDeterministic(t *testing.T) {
	t.Parallel()

	budget := model.CleanedBudgetTable{
		row("KE02", "Logistics", 3, "1000", "7.5"),
		row("BF01", "Fuel", 2, "10", "10"),
	}
	expenses := model.CleanedExpenseTable{
		row("BF01", "Fuel", 2, "3", "3"),
		row("KE02", "Logistics", 3, "50", "0.375"),
		row("KE02", "Logistics", 3, "60", "0.45"),
	}

	gold := Join(budget, expenses)
	require.Len(t, gold, 3)

	// Budget order outer, expense order inner.
	assert.Equal(t, "KE02", gold[0].ProjectID)
	assert.True(t, gold[0].AmountExpense.Equal(decimal.NewFromInt(50)))
	assert.True(t, gold[1].AmountExpense.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "BF01", gold[2].ProjectID)
}

func TestJoin_KeyMismatchOnSingleField(t *testing.T) {
	t.Parallel()

	b := row("KE02", "Logistics", 3, "1000", "7.5")
	e := row("KE02", "Logistics", 3, "50", "0.375")
	e.Department = "Medical"

	gold := Join(model.CleanedBudgetTable{b}, model.CleanedExpenseTable{e})
	assert.Empty(t, gold, "all five key fields must compare equal")
}

func TestJoin_EmptyInputs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Join(nil, nil))
	assert.Empty(t, Join(model.CleanedBudgetTable{row("KE02", "Logistics", 3, "1", "1")}, nil))
}
