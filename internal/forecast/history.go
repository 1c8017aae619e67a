package forecast

import (
	"time"

	"github.com/dvloznov/finance-ai/internal/domain"
)

// HistorySummary holds derived statistics over the historical transactions.
// It is recomputed fresh for every forecast request and feeds the
// plausibility review prompt.
type HistorySummary struct {
	Count      int     `json:"count"`
	Total      float64 `json:"total"`
	AvgDaily   float64 `json:"avg_daily"`
	AvgMonthly float64 `json:"avg_monthly"`
	MaxSingle  float64 `json:"max_single"`
	MinSingle  float64 `json:"min_single"`
}

// Summarize computes summary statistics for the transactions feeding a
// forecast. With a category it keeps only that category; otherwise it keeps
// all non-income transactions. With fewer than two transactions the per-day
// and per-month averages stay zero.
func Summarize(txs []domain.Transaction, category string) HistorySummary {
	var amounts []float64
	var minDate, maxDate time.Time

	for _, tx := range txs {
		if category != "" {
			if tx.Category != category {
				continue
			}
		} else if tx.IsIncome {
			continue
		}

		amount, _ := tx.Amount.Float64()
		amounts = append(amounts, amount)

		if minDate.IsZero() || tx.Date.Before(minDate) {
			minDate = tx.Date
		}
		if maxDate.IsZero() || tx.Date.After(maxDate) {
			maxDate = tx.Date
		}
	}

	summary := HistorySummary{Count: len(amounts)}
	if len(amounts) == 0 {
		return summary
	}

	total := 0.0
	for _, a := range amounts {
		total += a
	}
	summary.Total = round2(total)

	if len(amounts) < 2 {
		return summary
	}

	maxSingle := amounts[0]
	minSingle := amounts[0]
	for _, a := range amounts[1:] {
		if a > maxSingle {
			maxSingle = a
		}
		if a < minSingle {
			minSingle = a
		}
	}
	summary.MaxSingle = maxSingle
	summary.MinSingle = minSingle

	days := int(maxDate.Sub(minDate).Hours() / 24)
	if days < 1 {
		days = 1
	}

	summary.AvgDaily = round2(total / float64(days))
	summary.AvgMonthly = round2(total / (float64(days) / 30))

	return summary
}
