package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/fieldops/finpipe/internal/model"
	"github.com/fieldops/finpipe/internal/projects"
)

// budgetFileRow is the column layout of a budget export file. The project is
// not a column; it is derived from the file name (BE01_budget.csv → BE01).
type budgetFileRow struct {
	Amount     decimal.Decimal `csv:"amount"`
	Year       int             `csv:"year"`
	Month      int             `csv:"month"`
	Department string          `csv:"department"`
	Category   string          `csv:"category"`
	Version    int64           `csv:"version"`
	ID         int64           `csv:"id"`
}

// readBudgetFile parses one budget file into raw records, stamping the
// canonical country and currency from the correction table. The raw project ID
// from the file name is kept as-is; canonicalization happens during
// normalization.
func readBudgetFile(path string) ([]model.RawBudgetRecord, error) {
	name := filepath.Base(path)
	projectID := strings.TrimSuffix(name, budgetSuffix)

	proj, err := projects.Resolve(projectID, name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceReadError{Source: name, Err: err}
	}
	defer f.Close()

	var fileRows []budgetFileRow
	if err := gocsv.UnmarshalFile(f, &fileRows); err != nil {
		return nil, &SourceReadError{Source: name, Err: err}
	}

	records := make([]model.RawBudgetRecord, 0, len(fileRows))
	for _, row := range fileRows {
		records = append(records, model.RawBudgetRecord{
			ProjectID:  projectID,
			Country:    proj.Country,
			Currency:   proj.Currency,
			Category:   row.Category,
			Department: row.Department,
			Year:       row.Year,
			Month:      row.Month,
			Amount:     row.Amount,
		})
	}
	return records, nil
}
