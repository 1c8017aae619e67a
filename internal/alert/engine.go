// Package alert decides when spending warrants a notification and at what
// priority. Evaluation is a pure function over the inputs; dispatching is
// the notify package's job.
package alert

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Priority is an alert priority tier.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Policy is a user's alerting configuration.
type Policy struct {
	// BudgetPct is the percentage of the budget limit at which spending
	// is considered over budget.
	BudgetPct float64

	// AbsoluteThreshold triggers a low-priority alert regardless of the
	// budget percentage.
	AbsoluteThreshold decimal.Decimal

	SMSEnabled   bool
	EmailEnabled bool
	Phone        string
	Email        string
}

// DefaultPolicy returns the stock thresholds: alert at 110% of budget or
// ₹5000 absolute spend, email on, SMS off.
func DefaultPolicy() Policy {
	return Policy{
		BudgetPct:         110.0,
		AbsoluteThreshold: decimal.NewFromInt(5000),
		EmailEnabled:      true,
	}
}

// Decision is the outcome of evaluating spending against thresholds.
type Decision struct {
	ShouldAlert   bool     `json:"should_alert"`
	Priority      Priority `json:"priority,omitempty"`
	PctUsed       float64  `json:"pct_used"` // rounded to one decimal place
	OverBudget    bool     `json:"over_budget"`
	OverThreshold bool     `json:"over_threshold"`
}

// Event is one triggered alert, consumed by the dispatcher and discarded.
// It is never persisted.
type Event struct {
	Category        string
	CurrentSpending decimal.Decimal
	BudgetLimit     decimal.Decimal
	PctUsed         float64
	Priority        Priority
	OverBudget      bool
	OverThreshold   bool
	ForecastTrend   string // "increasing" annotates the payloads
	At              time.Time
}

// tierRule pairs a threshold predicate with the tier it assigns. The table
// is evaluated in order and the first match wins, which makes the tie-break
// order data rather than code.
type tierRule struct {
	matches  func(pctUsed float64, overBudget, overThreshold bool) bool
	priority Priority
}

var tierRules = []tierRule{
	{
		matches:  func(pct float64, _, _ bool) bool { return pct >= 150 },
		priority: PriorityCritical,
	},
	{
		matches:  func(pct float64, _, _ bool) bool { return pct >= 125 },
		priority: PriorityHigh,
	},
	{
		matches:  func(_ float64, overBudget, _ bool) bool { return overBudget },
		priority: PriorityMedium,
	},
	{
		matches:  func(_ float64, _, overThreshold bool) bool { return overThreshold },
		priority: PriorityLow,
	},
}

// Evaluate checks spending against the percentage and absolute thresholds.
// A non-positive budget limit yields pct_used = 0 rather than an error.
func Evaluate(spending, budgetLimit decimal.Decimal, budgetPct float64, threshold decimal.Decimal) Decision {
	pctUsed := 0.0
	if budgetLimit.IsPositive() {
		s, _ := spending.Float64()
		l, _ := budgetLimit.Float64()
		pctUsed = s / l * 100
	}

	overBudget := pctUsed >= budgetPct
	overThreshold := spending.GreaterThanOrEqual(threshold)

	decision := Decision{
		PctUsed:       math.Round(pctUsed*10) / 10,
		OverBudget:    overBudget,
		OverThreshold: overThreshold,
	}

	for _, rule := range tierRules {
		if rule.matches(pctUsed, overBudget, overThreshold) {
			decision.ShouldAlert = true
			decision.Priority = rule.priority
			break
		}
	}

	return decision
}
