package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one normalized spending record produced by the normalizer.
// Amount is always a non-negative magnitude; direction is carried only by
// IsIncome and is never inferred from the sign of the ingested numeral.
type Transaction struct {
	Date        time.Time       // parsed transaction date-time
	Description string          // cleaned, at most 500 characters
	Amount      decimal.Decimal // non-negative magnitude
	Category    string          // empty until categorized
	IsIncome    bool
	Source      string // provenance tag, e.g. "csv"
}

// Day returns the transaction's calendar day with time-of-day discarded.
// This is the aggregation key for daily series.
func (t Transaction) Day() time.Time {
	return time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, time.UTC)
}

// Budget is a monthly spending limit for one category.
type Budget struct {
	Category     string
	MonthlyLimit decimal.Decimal // must be positive
	Month        string          // budget month key, "2006-01"
}
