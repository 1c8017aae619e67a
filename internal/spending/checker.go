// Package spending checks month-to-date spending against budgets and
// dispatches alerts for breaches.
package spending

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-ai/internal/alert"
	"github.com/dvloznov/finance-ai/internal/notify"
	"github.com/dvloznov/finance-ai/internal/store"
)

// AlertDispatcher delivers alert events. Satisfied by notify.Dispatcher.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, policy alert.Policy, event alert.Event) []notify.Result
}

// CheckResult is the outcome of one category's budget check.
type CheckResult struct {
	Category   string          `json:"category"`
	Spending   decimal.Decimal `json:"spending"`
	Limit      decimal.Decimal `json:"limit"`
	Decision   alert.Decision  `json:"decision"`
	Deliveries []notify.Result `json:"deliveries,omitempty"`
}

// Checker evaluates every budgeted category for a month.
type Checker struct {
	store      store.Store
	dispatcher AlertDispatcher
	policy     alert.Policy
	log        zerolog.Logger
}

// NewChecker creates a Checker. dispatcher may be nil to evaluate without
// sending anything.
func NewChecker(st store.Store, dispatcher AlertDispatcher, policy alert.Policy, log zerolog.Logger) *Checker {
	return &Checker{store: st, dispatcher: dispatcher, policy: policy, log: log}
}

// CheckMonth evaluates all budgets for the given month ("2006-01"). Expense
// transactions in the month are summed per category and compared against
// the category budget. Breaches are dispatched when a dispatcher is set.
func (c *Checker) CheckMonth(ctx context.Context, month string) ([]CheckResult, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q: %w", month, err)
	}
	end := start.AddDate(0, 1, -1)

	budgets, err := c.store.ListBudgets(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}

	var results []CheckResult
	for _, budget := range budgets {
		txs, err := c.store.ListTransactions(ctx, store.TransactionFilter{
			Category: budget.Category,
			From:     start,
			To:       end,
		})
		if err != nil {
			return nil, fmt.Errorf("listing %s transactions: %w", budget.Category, err)
		}

		spending := decimal.Zero
		for _, tx := range txs {
			if tx.IsIncome {
				continue
			}
			spending = spending.Add(tx.Amount)
		}

		decision := alert.Evaluate(spending, budget.MonthlyLimit, c.policy.BudgetPct, c.policy.AbsoluteThreshold)

		result := CheckResult{
			Category: budget.Category,
			Spending: spending,
			Limit:    budget.MonthlyLimit,
			Decision: decision,
		}

		if decision.ShouldAlert {
			c.log.Warn().
				Str("category", budget.Category).
				Str("priority", string(decision.Priority)).
				Float64("pct_used", decision.PctUsed).
				Msg("Budget alert raised")

			if c.dispatcher != nil {
				event := alert.Event{
					Category:        budget.Category,
					CurrentSpending: spending,
					BudgetLimit:     budget.MonthlyLimit,
					PctUsed:         decision.PctUsed,
					Priority:        decision.Priority,
					OverBudget:      decision.OverBudget,
					OverThreshold:   decision.OverThreshold,
					At:              time.Now().UTC(),
				}
				result.Deliveries = c.dispatcher.Dispatch(ctx, c.policy, event)
			}
		}

		results = append(results, result)
	}

	return results, nil
}
