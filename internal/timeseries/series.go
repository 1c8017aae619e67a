// Package timeseries turns normalized transactions into the complete,
// evenly spaced daily series the forecast engine requires. An irregular
// series biases the seasonal estimate, so calendar gaps are zero-filled.
package timeseries

import (
	"errors"
	"time"

	"github.com/dvloznov/finance-ai/internal/domain"
)

// ErrNoData indicates that no transactions remain after filtering out income
// (and, when requested, other categories). Fatal to the forecast request.
var ErrNoData = errors.New("no transactions found for forecasting")

// Point is one calendar day and the summed spending for it.
type Point struct {
	Day   time.Time
	Total float64
}

// Daily is an ordered, gapless sequence of daily totals covering every
// calendar day from the earliest to the latest observed transaction.
type Daily []Point

// Build filters transactions to non-income records (and to category when
// non-empty), groups them by canonical day, sums amounts, and returns the
// continuous zero-filled daily series.
func Build(txs []domain.Transaction, category string) (Daily, error) {
	sums := make(map[time.Time]float64)
	var minDay, maxDay time.Time

	for _, tx := range txs {
		if tx.IsIncome {
			continue
		}
		if category != "" && tx.Category != category {
			continue
		}

		day := tx.Day()
		amount, _ := tx.Amount.Float64()
		sums[day] += amount

		if minDay.IsZero() || day.Before(minDay) {
			minDay = day
		}
		if maxDay.IsZero() || day.After(maxDay) {
			maxDay = day
		}
	}

	if len(sums) == 0 {
		return nil, ErrNoData
	}

	series := make(Daily, 0, int(maxDay.Sub(minDay).Hours()/24)+1)
	for day := minDay; !day.After(maxDay); day = day.AddDate(0, 0, 1) {
		series = append(series, Point{Day: day, Total: sums[day]})
	}

	return series, nil
}

// Start returns the first day of the series.
func (d Daily) Start() time.Time { return d[0].Day }

// End returns the last day of the series.
func (d Daily) End() time.Time { return d[len(d)-1].Day }

// Values returns the totals as a plain slice, in day order.
func (d Daily) Values() []float64 {
	vs := make([]float64, len(d))
	for i, p := range d {
		vs[i] = p.Total
	}
	return vs
}
