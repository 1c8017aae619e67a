package forecast

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-ai/internal/store"
	"github.com/dvloznov/finance-ai/internal/timeseries"
)

const (
	daysPerMonth   = 30
	maxMonthsAhead = 12
)

// Service produces reviewed forecasts from stored transactions.
type Service struct {
	store    store.TransactionStore
	engine   *Engine
	reviewer *Reviewer
	log      zerolog.Logger
}

// NewService creates a Service. reviewer may be nil to skip the plausibility
// check entirely.
func NewService(st store.TransactionStore, engine *Engine, reviewer *Reviewer, log zerolog.Logger) *Service {
	return &Service{store: st, engine: engine, reviewer: reviewer, log: log}
}

// ForecastCategory loads the category's history, fits the model and projects
// monthsAhead months forward. monthsAhead must be between 1 and 12. An empty
// category forecasts all expense spending combined. When a reviewer is
// configured the result passes through the plausibility check, which
// degrades to accepted on failure.
func (s *Service) ForecastCategory(ctx context.Context, category string, monthsAhead int) (*Result, error) {
	if monthsAhead < 1 || monthsAhead > maxMonthsAhead {
		return nil, fmt.Errorf("months ahead must be between 1 and %d, got %d", maxMonthsAhead, monthsAhead)
	}

	txs, err := s.store.ListTransactions(ctx, store.TransactionFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	series, err := timeseries.Build(txs, category)
	if err != nil {
		return nil, fmt.Errorf("building daily series: %w", err)
	}

	s.log.Info().
		Str("category", category).
		Int("history_days", len(series)).
		Int("months_ahead", monthsAhead).
		Msg("Fitting forecast model")

	result, err := s.engine.Forecast(series, monthsAhead*daysPerMonth, category)
	if err != nil {
		return nil, err
	}

	if s.reviewer != nil {
		history := Summarize(txs, category)
		result = s.reviewer.Review(ctx, result, history)
	}

	return result, nil
}
