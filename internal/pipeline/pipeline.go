// Package pipeline runs the CSV statement ingestion flow as an ordered
// sequence of steps sharing one mutable state.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-ai/internal/categorize"
	"github.com/dvloznov/finance-ai/internal/domain"
	"github.com/dvloznov/finance-ai/internal/gcs"
	"github.com/dvloznov/finance-ai/internal/normalizer"
	"github.com/dvloznov/finance-ai/internal/store"
)

// PipelineStep represents a single step in the ingestion pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	IngestionID string
	Source      string
	GCSURI      string

	CSVBytes     []byte
	Transactions []domain.Transaction
	Rejected     []normalizer.RowError
	Categorized  []categorize.Result
}

// Summary reports what one pipeline run did.
type Summary struct {
	IngestionID string                `json:"ingestion_id"`
	File        string                `json:"file,omitempty"`
	Accepted    int                   `json:"accepted"`
	Rejected    []normalizer.RowError `json:"rejected,omitempty"`
	Stored      int                   `json:"stored"`
}

// Runner executes pipeline steps in order, stopping at the first failure.
type Runner struct {
	steps []PipelineStep
	log   zerolog.Logger
}

// NewRunner creates a Runner over the given steps.
func NewRunner(log zerolog.Logger, steps ...PipelineStep) *Runner {
	return &Runner{steps: steps, log: log}
}

// Run executes all steps against a fresh state holding the given CSV bytes
// and returns the run summary.
func (r *Runner) Run(ctx context.Context, source string, csvBytes []byte) (*Summary, error) {
	return r.run(ctx, &PipelineState{
		IngestionID: uuid.New().String(),
		Source:      source,
		CSVBytes:    csvBytes,
	})
}

// RunFromGCS executes all steps against a fresh state holding a gs:// URI.
// The step list must include a FetchCSVStep to resolve the URI into bytes.
func (r *Runner) RunFromGCS(ctx context.Context, source, gcsURI string) (*Summary, error) {
	return r.run(ctx, &PipelineState{
		IngestionID: uuid.New().String(),
		Source:      source,
		GCSURI:      gcsURI,
	})
}

func (r *Runner) run(ctx context.Context, state *PipelineState) (*Summary, error) {
	r.log.Info().Str("ingestion_id", state.IngestionID).Str("source", state.Source).Msg("Starting ingestion")

	for _, step := range r.steps {
		if err := step.Execute(ctx, state); err != nil {
			r.log.Error().Err(err).Str("ingestion_id", state.IngestionID).Msg("Ingestion failed")
			return nil, fmt.Errorf("ingestion %s: %w", state.IngestionID, err)
		}
	}

	r.log.Info().
		Str("ingestion_id", state.IngestionID).
		Int("accepted", len(state.Transactions)).
		Int("rejected", len(state.Rejected)).
		Msg("Ingestion complete")

	summary := &Summary{
		IngestionID: state.IngestionID,
		Accepted:    len(state.Transactions),
		Rejected:    state.Rejected,
		Stored:      len(state.Transactions),
	}
	if state.GCSURI != "" {
		summary.File = gcs.FilenameFromURI(state.GCSURI)
	}
	return summary, nil
}

// FetchCSVStep downloads the statement when the run was given a gs:// URI
// instead of inline bytes.
type FetchCSVStep struct {
	Fetcher gcs.Fetcher
}

func (s *FetchCSVStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.GCSURI == "" {
		return nil
	}

	data, err := s.Fetcher.Fetch(ctx, state.GCSURI)
	if err != nil {
		return fmt.Errorf("fetching statement: %w", err)
	}
	state.CSVBytes = data
	return nil
}

// NormalizeStep parses CSV bytes into transactions.
type NormalizeStep struct {
	Normalizer *normalizer.Normalizer
}

func (s *NormalizeStep) Execute(_ context.Context, state *PipelineState) error {
	result, err := s.Normalizer.Parse(string(state.CSVBytes))
	if err != nil {
		return fmt.Errorf("normalizing CSV: %w", err)
	}
	state.Transactions = result.Accepted
	state.Rejected = result.Rejected
	return nil
}

// CategorizeStep assigns a spending category to every parsed transaction.
// Degraded single-item results keep their fallback category and do not fail
// the run.
type CategorizeStep struct {
	Categorizer *categorize.Categorizer
}

func (s *CategorizeStep) Execute(ctx context.Context, state *PipelineState) error {
	if len(state.Transactions) == 0 {
		return nil
	}

	results := s.Categorizer.CategorizeBatch(ctx, state.Transactions)
	for i, res := range results {
		state.Transactions[i].Category = res.Category
		if res.Category == "Income" {
			state.Transactions[i].IsIncome = true
		}
	}
	state.Categorized = results
	return nil
}

// StoreStep persists the categorized transactions.
type StoreStep struct {
	Store store.TransactionStore
}

func (s *StoreStep) Execute(ctx context.Context, state *PipelineState) error {
	for i := range state.Transactions {
		state.Transactions[i].Source = state.Source
	}
	if err := s.Store.InsertTransactions(ctx, state.Transactions); err != nil {
		return fmt.Errorf("storing transactions: %w", err)
	}
	return nil
}
