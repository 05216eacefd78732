package ingest

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/fieldops/finpipe/internal/model"
	"github.com/fieldops/finpipe/internal/projects"
)

// readExpenseStore reads the full expenses relation of one store. The file
// name is the project ID (KE02.db → KE02), and the correction table's country
// and currency override whatever the store rows claim: several stores carry a
// wrong currency or country, and the table is the source of truth.
func readExpenseStore(ctx context.Context, path string) ([]model.RawExpenseRecord, error) {
	name := filepath.Base(path)
	projectID := strings.TrimSuffix(name, expenseSuffix)

	proj, err := projects.Resolve(projectID, name)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &SourceReadError{Source: name, Err: err}
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, version, category, department, year, month, amount FROM expenses`)
	if err != nil {
		return nil, &SourceReadError{Source: name, Err: err}
	}
	defer rows.Close()

	var records []model.RawExpenseRecord
	for rows.Next() {
		var (
			id, version int64
			category    string
			department  string
			year, month int
			amount      decimal.Decimal
		)
		if err := rows.Scan(&id, &version, &category, &department, &year, &month, &amount); err != nil {
			return nil, &SourceReadError{Source: name, Err: err}
		}
		records = append(records, model.RawExpenseRecord{
			ID:         id,
			Version:    version,
			ProjectID:  projectID,
			Country:    proj.Country,
			Currency:   proj.Currency,
			Category:   category,
			Department: department,
			Year:       year,
			Month:      month,
			Amount:     amount,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &SourceReadError{Source: name, Err: err}
	}
	return records, nil
}
