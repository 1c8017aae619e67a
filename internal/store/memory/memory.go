// Package memory provides an in-memory store implementation.
// It is safe for concurrent use. Data is lost on process exit - for
// persistence, use the bigquery-backed store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dvloznov/finance-ai/internal/domain"
	"github.com/dvloznov/finance-ai/internal/store"
)

type budgetKey struct {
	category string
	month    string
}

// Store holds transactions and budgets in memory.
type Store struct {
	mu      sync.RWMutex
	txs     []domain.Transaction
	budgets map[budgetKey]domain.Budget
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		budgets: make(map[budgetKey]domain.Budget),
	}
}

// InsertTransactions implements the TransactionStore interface.
func (s *Store) InsertTransactions(_ context.Context, txs []domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = append(s.txs, txs...)
	return nil
}

// ListTransactions implements the TransactionStore interface. Results are
// ordered by date ascending; ties keep insertion order.
func (s *Store) ListTransactions(_ context.Context, filter store.TransactionFilter) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Transaction
	for _, tx := range s.txs {
		if filter.Category != "" && tx.Category != filter.Category {
			continue
		}
		if filter.Source != "" && tx.Source != filter.Source {
			continue
		}
		if !filter.From.IsZero() && tx.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && tx.Date.After(filter.To) {
			continue
		}
		result = append(result, tx)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

// UpsertBudget implements the BudgetStore interface.
func (s *Store) UpsertBudget(_ context.Context, b domain.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.budgets[budgetKey{category: b.Category, month: b.Month}] = b
	return nil
}

// ListBudgets implements the BudgetStore interface. Results are ordered by
// category for deterministic output.
func (s *Store) ListBudgets(_ context.Context, month string) ([]domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Budget
	for key, b := range s.budgets {
		if key.month != month {
			continue
		}
		result = append(result, b)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})

	return result, nil
}

// Close implements the Store interface. It is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

var _ store.Store = (*Store)(nil)
