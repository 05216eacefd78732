// Package model defines the record and table types carried between pipeline stages.
package model

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// RawBudgetRecord is one budget line item as read from a source file, after the
// project correction table has stamped the canonical country and currency.
type RawBudgetRecord struct {
	ProjectID  string
	Country    string
	Currency   string
	Category   string
	Department string
	Year       int
	Month      int
	Amount     decimal.Decimal
}

// RawExpenseRecord is one expense entry as read from an expense store. ID and
// Version come from the store row and are pruned during normalization.
type RawExpenseRecord struct {
	ID         int64
	Version    int64
	ProjectID  string
	Country    string
	Currency   string
	Category   string
	Department string
	Year       int
	Month      int
	Amount     decimal.Decimal
}

// BudgetTable is the union of all ingested budget records, in directory
// listing order. Duplicate dimension keys are preserved, not collapsed.
type BudgetTable []RawBudgetRecord

// ExpenseTable is the union of all ingested expense records, in directory
// listing order. Duplicate dimension keys are preserved, not collapsed.
type ExpenseTable []RawExpenseRecord

// CleanedRow is a budget or expense row after normalization: store id/version
// and the currency column are dropped, the project ID is canonical, year/month
// are folded into the month-end Date, and ConvertedAmount holds the amount in
// the reporting currency.
type CleanedRow struct {
	Date            time.Time
	ProjectID       string
	Country         string
	Department      string
	Category        string
	Amount          decimal.Decimal
	ConvertedAmount decimal.Decimal
}

// CleanedBudgetTable holds normalized budget rows, input order preserved.
type CleanedBudgetTable []CleanedRow

// CleanedExpenseTable holds normalized expense rows, input order preserved.
type CleanedExpenseTable []CleanedRow

// Key returns the dimension key this row joins on.
func (r CleanedRow) Key() DimensionKey {
	return DimensionKey{
		Date:       r.Date,
		ProjectID:  r.ProjectID,
		Country:    r.Country,
		Department: r.Department,
		Category:   r.Category,
	}
}

// DimensionKey is the five-part join key shared by budget and expense facts.
type DimensionKey struct {
	Date       time.Time
	ProjectID  string
	Country    string
	Department string
	Category   string
}

// GoldRow is one row of the integrated table: the dimension key once, plus the
// non-key measures from both sides. Colliding measure names carry the
// _budget/_expense suffix of the side they came from.
type GoldRow struct {
	Date                   DateOnly        `csv:"date"`
	ProjectID              string          `csv:"project_id"`
	Country                string          `csv:"country"`
	Department             string          `csv:"department"`
	Category               string          `csv:"category"`
	AmountBudget           decimal.Decimal `csv:"amount_budget"`
	ConvertedAmountBudget  decimal.Decimal `csv:"converted_amount_budget"`
	AmountExpense          decimal.Decimal `csv:"amount_expense"`
	ConvertedAmountExpense decimal.Decimal `csv:"converted_amount_expense"`
}

// GoldTable is the inner join of the cleaned budget and expense tables.
type GoldTable []GoldRow

// DateOnly renders a time.Time as YYYY-MM-DD in CSV output.
type DateOnly struct {
	time.Time
}

// MarshalCSV implements gocsv marshalling.
func (d DateOnly) MarshalCSV() (string, error) {
	return d.Format(time.DateOnly), nil
}

// UnmarshalCSV implements gocsv unmarshalling.
func (d *DateOnly) UnmarshalCSV(s string) error {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return eris.Wrapf(err, "model: parse date %q", s)
	}
	d.Time = t
	return nil
}

// MonthEnd returns the last calendar day of the given year and month, at
// midnight UTC. February resolves to the 29th in leap years.
func MonthEnd(year, month int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, eris.Errorf("model: month %d out of range 1..12", month)
	}
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC), nil
}
