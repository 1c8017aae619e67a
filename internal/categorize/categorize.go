// Package categorize assigns spending categories to transactions using a
// language model. Single-item failures degrade to the "Other" category with
// zero confidence rather than failing the batch.
package categorize

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-ai/internal/domain"
	"github.com/dvloznov/finance-ai/internal/oracle"
)

const fallbackCategory = "Other"

const promptTemplate = `You are a financial transaction classifier. Classify this transaction into ONE category.

Categories: %s

Transaction: "%s"
Amount: ₹%s

Output JSON only:
{"category": "CategoryName", "confidence": 0.95}

Rules:
- "Subscriptions" = Netflix, Spotify, SaaS
- "Dining" = restaurants, cafes, food delivery
- "Groceries" = supermarkets, food for home
- "Transport" = rides, fuel, public transit
- "Utilities" = electricity, water, internet, phone
- "Shopping" = goods, clothing, electronics
- "Entertainment" = movies, games, events
- "Health" = pharmacy, doctor, fitness
- "Income" = salary, refunds, deposits
- "Savings" = transfers to savings/investments

JSON:`

// Result is the categorization outcome for one transaction.
type Result struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	Error       string  `json:"error,omitempty"`
	ElapsedMS   int64   `json:"processing_time_ms"`
}

type modelVerdict struct {
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
}

// Categorizer classifies transactions through a completion client.
type Categorizer struct {
	client        oracle.CompletionClient
	maxConcurrent int
	log           zerolog.Logger
}

// New creates a Categorizer. maxConcurrent caps in-flight model calls
// during batch runs; values below one are raised to one.
func New(client oracle.CompletionClient, maxConcurrent int, log zerolog.Logger) *Categorizer {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Categorizer{client: client, maxConcurrent: maxConcurrent, log: log}
}

// Categorize classifies a single transaction. It never returns an error:
// model or parse failures produce a Result with the fallback category, zero
// confidence and the failure message.
func (c *Categorizer) Categorize(ctx context.Context, tx domain.Transaction) Result {
	start := time.Now()

	prompt := buildPrompt(tx)
	raw, err := c.client.Complete(ctx, prompt)
	if err != nil {
		return c.degraded(tx, start, err)
	}

	var verdict modelVerdict
	if err := oracle.DecodeJSON(raw, &verdict); err != nil {
		return c.degraded(tx, start, err)
	}

	category := verdict.Category
	if !domain.ValidCategory(category) {
		category = fallbackCategory
	}

	confidence := 0.5
	if verdict.Confidence != nil {
		confidence = *verdict.Confidence
	}

	return Result{
		Description: tx.Description,
		Category:    category,
		Confidence:  confidence,
		ElapsedMS:   time.Since(start).Milliseconds(),
	}
}

// CategorizeBatch classifies transactions concurrently, preserving input
// order in the returned slice. At most maxConcurrent model calls run at
// once. A panicking worker degrades only its own entry.
func (c *Categorizer) CategorizeBatch(ctx context.Context, txs []domain.Transaction) []Result {
	results := make([]Result, len(txs))
	sem := make(chan struct{}, c.maxConcurrent)

	var wg sync.WaitGroup
	for i, tx := range txs {
		wg.Add(1)
		go func(i int, tx domain.Transaction) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = c.degraded(tx, time.Now(), fmt.Errorf("categorize panicked: %v", r))
				}
			}()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = c.Categorize(ctx, tx)
		}(i, tx)
	}
	wg.Wait()

	return results
}

func (c *Categorizer) degraded(tx domain.Transaction, start time.Time, err error) Result {
	c.log.Warn().Err(err).Str("description", tx.Description).Msg("Categorization degraded")
	return Result{
		Description: tx.Description,
		Category:    fallbackCategory,
		Confidence:  0,
		Error:       err.Error(),
		ElapsedMS:   time.Since(start).Milliseconds(),
	}
}

func buildPrompt(tx domain.Transaction) string {
	return fmt.Sprintf(promptTemplate,
		strings.Join(domain.Categories, ", "),
		tx.Description,
		tx.Amount.StringFixed(2),
	)
}
