package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/finpipe/internal/model"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	gold := model.GoldTable{{
		Date:                   model.DateOnly{Time: time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)},
		ProjectID:              "KE02",
		Country:                "Kenya",
		Department:             "Ops",
		Category:               "Logistics",
		AmountBudget:           decimal.NewFromInt(1000),
		ConvertedAmountBudget:  decimal.RequireFromString("7.5"),
		AmountExpense:          decimal.NewFromInt(50),
		ConvertedAmountExpense: decimal.RequireFromString("0.375"),
	}}

	path := filepath.Join(t.TempDir(), "out", "gold.csv")
	require.NoError(t, WriteCSV(path, gold))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"date,project_id,country,department,category,amount_budget,converted_amount_budget,amount_expense,converted_amount_expense",
		lines[0])
	assert.Equal(t, "2024-03-31,KE02,Kenya,Ops,Logistics,1000,7.5,50,0.375", lines[1])
}

func TestWriteCSV_EmptyTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gold.csv")
	require.NoError(t, WriteCSV(path, model.GoldTable{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "date,project_id", "header survives even with no rows")
}

func TestWriteCSV_AllRowsSurvive(t *testing.T) {
	t.Parallel()

	var gold model.GoldTable
	for i := 0; i < 25; i++ {
		gold = append(gold, model.GoldRow{
			Date:      model.DateOnly{Time: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)},
			ProjectID: "BE01", Country: "Belgium", Department: "Ops", Category: "Fuel",
			AmountBudget:           decimal.NewFromInt(int64(i)),
			ConvertedAmountBudget:  decimal.NewFromInt(int64(i)),
			AmountExpense:          decimal.NewFromInt(int64(i)),
			ConvertedAmountExpense: decimal.NewFromInt(int64(i)),
		})
	}

	path := filepath.Join(t.TempDir(), "gold.csv")
	require.NoError(t, WriteCSV(path, gold))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 26)
}
