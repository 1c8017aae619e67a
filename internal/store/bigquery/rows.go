package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-ai/internal/domain"
)

// TransactionRow is the BigQuery schema for finance.transactions.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED

	Description string   `bigquery:"description"` // REQUIRED STRING
	Amount      *big.Rat `bigquery:"amount"`      // REQUIRED NUMERIC

	Category bigquery.NullString `bigquery:"category"` // NULLABLE
	IsIncome bool                `bigquery:"is_income"`
	Source   string              `bigquery:"source"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED (default CURRENT_TIMESTAMP)
}

// BudgetRow is the BigQuery schema for finance.budgets.
type BudgetRow struct {
	Category     string     `bigquery:"category"` // REQUIRED
	MonthlyLimit *big.Rat   `bigquery:"monthly_limit"` // REQUIRED NUMERIC
	Month        string     `bigquery:"month"` // REQUIRED, "2006-01"
	UpdatedTS    time.Time  `bigquery:"updated_ts"`
}

func rowFromTransaction(id string, tx domain.Transaction) *TransactionRow {
	row := &TransactionRow{
		TransactionID:   id,
		TransactionDate: civil.DateOf(tx.Date),
		Description:     tx.Description,
		Amount:          tx.Amount.Rat(),
		IsIncome:        tx.IsIncome,
		Source:          tx.Source,
		CreatedTS:       time.Now().UTC(),
	}
	if tx.Category != "" {
		row.Category = bigquery.NullString{StringVal: tx.Category, Valid: true}
	}
	return row
}

func (r *TransactionRow) toTransaction() domain.Transaction {
	return domain.Transaction{
		Date:        r.TransactionDate.In(time.UTC),
		Description: r.Description,
		Amount:      decimal.NewFromBigRat(r.Amount, 2),
		Category:    r.Category.StringVal,
		IsIncome:    r.IsIncome,
		Source:      r.Source,
	}
}

func (r *BudgetRow) toBudget() domain.Budget {
	return domain.Budget{
		Category:     r.Category,
		MonthlyLimit: decimal.NewFromBigRat(r.MonthlyLimit, 2),
		Month:        r.Month,
	}
}
