// Package store defines the persistence interfaces for transactions and
// budgets. Implementations live in the memory and bigquery subpackages.
package store

import (
	"context"
	"time"

	"github.com/dvloznov/finance-ai/internal/domain"
)

// TransactionFilter narrows a transaction listing. Zero-valued fields are
// ignored: an empty Category matches all categories, zero From/To leave the
// range unbounded on that side, and Limit zero means no cap.
type TransactionFilter struct {
	Category string
	Source   string
	From     time.Time
	To       time.Time
	Limit    int
}

// TransactionStore persists and queries transactions.
type TransactionStore interface {
	// InsertTransactions appends a batch of transactions.
	InsertTransactions(ctx context.Context, txs []domain.Transaction) error

	// ListTransactions returns transactions matching filter, ordered by
	// date ascending.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)
}

// BudgetStore persists and queries monthly budgets.
type BudgetStore interface {
	// UpsertBudget inserts or replaces the budget for its category and month.
	UpsertBudget(ctx context.Context, b domain.Budget) error

	// ListBudgets returns all budgets for the given month ("2006-01").
	ListBudgets(ctx context.Context, month string) ([]domain.Budget, error)
}

// Store is the full persistence surface.
type Store interface {
	TransactionStore
	BudgetStore

	// Close releases underlying resources.
	Close() error
}
