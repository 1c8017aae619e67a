package forecast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-ai/internal/oracle"
)

// skippedReason is recorded when the review could not run. The forecast is
// returned unmodified in that case.
const skippedReason = "Check skipped due to error"

const reviewPromptTemplate = `You are a financial analyst reviewing a forecast prediction.

Historical spending pattern: %s
Model forecast: ₹%.2f for %s on %s

Is this forecast reasonable given the historical pattern?
Respond with JSON:
{"is_plausible": true/false, "reason": "brief explanation", "suggested_adjustment": null or number}

JSON response:`

// Reviewer submits a forecast and its history summary to the oracle and
// applies the verdict.
type Reviewer struct {
	client oracle.CompletionClient
	log    zerolog.Logger
}

// NewReviewer creates a Reviewer backed by the given completion client.
func NewReviewer(client oracle.CompletionClient, log zerolog.Logger) *Reviewer {
	return &Reviewer{client: client, log: log}
}

// reviewVerdict is the strict JSON shape the oracle must return.
type reviewVerdict struct {
	IsPlausible         *bool    `json:"is_plausible"`
	Reason              string   `json:"reason"`
	SuggestedAdjustment *float64 `json:"suggested_adjustment"`
}

// Review returns the possibly-adjusted forecast. It never fails: any oracle
// or parse error is unwrapped to the safe default, so the pipeline cannot
// break solely because the plausibility check broke.
func (r *Reviewer) Review(ctx context.Context, result *Result, history HistorySummary) *Result {
	reviewed, err := r.tryReview(ctx, result, history)
	if err != nil {
		r.log.Warn().Err(err).Msg("Plausibility check failed, keeping forecast unmodified")
		fallback := *result
		fallback.Plausibility = Plausibility{IsPlausible: true, Reason: skippedReason}
		return &fallback
	}
	return reviewed
}

// tryReview performs one oracle round trip. Returning the error explicitly
// keeps the degrade-on-failure contract visible at the call site instead of
// hiding it behind a catch-all.
func (r *Reviewer) tryReview(ctx context.Context, result *Result, history HistorySummary) (*Result, error) {
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("tryReview: marshal history: %w", err)
	}

	category := result.Category
	if category == "" {
		category = "All"
	}

	prompt := fmt.Sprintf(reviewPromptTemplate,
		historyJSON,
		result.PredictedAmount,
		category,
		result.ForecastDate.Format("2006-01-02"),
	)

	raw, err := r.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("tryReview: oracle call: %w", err)
	}

	var verdict reviewVerdict
	if err := oracle.DecodeJSON(raw, &verdict); err != nil {
		return nil, fmt.Errorf("tryReview: %w", err)
	}

	reviewed := *result

	// An adjustment overrides the point prediction only. The confidence
	// bounds are not recomputed; Result documents this limitation.
	if verdict.SuggestedAdjustment != nil {
		reviewed.PredictedAmount = *verdict.SuggestedAdjustment
		reviewed.Adjusted = true
	}

	reviewed.Plausibility = Plausibility{
		IsPlausible: verdict.IsPlausible == nil || *verdict.IsPlausible,
		Reason:      verdict.Reason,
	}
	if reviewed.Plausibility.Reason == "" {
		reviewed.Plausibility.Reason = "No issues detected"
	}

	return &reviewed, nil
}
