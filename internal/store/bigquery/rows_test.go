package bigquery

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-ai/internal/domain"
)

func TestRowFromTransaction(t *testing.T) {
	tx := domain.Transaction{
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Swiggy order",
		Amount:      decimal.RequireFromString("450.50"),
		Category:    "Dining",
		Source:      "csv",
	}

	row := rowFromTransaction("tx-1", tx)

	if row.TransactionID != "tx-1" {
		t.Errorf("expected id tx-1, got %s", row.TransactionID)
	}
	if row.TransactionDate.String() != "2024-03-15" {
		t.Errorf("expected date 2024-03-15, got %s", row.TransactionDate)
	}
	if !row.Category.Valid || row.Category.StringVal != "Dining" {
		t.Errorf("expected valid Dining category, got %+v", row.Category)
	}

	back := row.toTransaction()
	if !back.Amount.Equal(tx.Amount) {
		t.Errorf("amount round trip: %s vs %s", back.Amount, tx.Amount)
	}
	if !back.Date.Equal(tx.Date) {
		t.Errorf("date round trip: %v vs %v", back.Date, tx.Date)
	}
}

func TestRowFromTransactionEmptyCategory(t *testing.T) {
	tx := domain.Transaction{
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Unknown",
		Amount:      decimal.NewFromInt(100),
	}

	row := rowFromTransaction("tx-2", tx)
	if row.Category.Valid {
		t.Errorf("expected NULL category, got %+v", row.Category)
	}
}
