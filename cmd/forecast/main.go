package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/finance-ai/internal/config"
	"github.com/dvloznov/finance-ai/internal/forecast"
	"github.com/dvloznov/finance-ai/internal/logger"
	"github.com/dvloznov/finance-ai/internal/oracle"
	"github.com/dvloznov/finance-ai/internal/store/bigquery"
	"github.com/dvloznov/finance-ai/internal/timeseries"
)

func main() {
	log := logger.New()

	category := flag.String("category", "", "Spending category to forecast (empty = all expenses)")
	months := flag.Int("months", 1, "Months ahead to forecast (1-12)")
	skipReview := flag.Bool("skip-review", false, "Skip the model plausibility review")
	changepointScale := flag.Float64("changepoint-scale", 0.05, "Trend flexibility; larger values follow the data more closely")
	flag.Parse()

	if *months < 1 || *months > 12 {
		log.Fatal().Int("months", *months).Msg("Error: --months must be between 1 and 12")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error: loading configuration")
	}
	if cfg.BigQueryProject == "" {
		log.Fatal().Msg("Error: BIGQUERY_PROJECT is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := bigquery.NewRepository(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Error: creating BigQuery repository")
	}
	defer repo.Close()

	modelCfg := forecast.DefaultConfig()
	modelCfg.ChangepointPriorScale = *changepointScale
	engine := forecast.NewEngine(modelCfg)

	var reviewer *forecast.Reviewer
	if !*skipReview {
		client, err := oracle.NewGenAIClient(ctx, cfg.ModelName)
		if err != nil {
			log.Fatal().Err(err).Msg("Error: creating model client")
		}
		reviewer = forecast.NewReviewer(client, log)
	}

	svc := forecast.NewService(repo, engine, reviewer, log)

	result, err := svc.ForecastCategory(ctx, *category, *months)
	if err != nil {
		if errors.Is(err, timeseries.ErrNoData) {
			log.Fatal().Str("category", *category).Msg("Error: no transactions to forecast")
		}
		var fitErr *forecast.ModelFitError
		if errors.As(err, &fitErr) {
			log.Fatal().Err(err).Msg("Error: series too sparse to fit")
		}
		log.Fatal().Err(err).Msg("Error: forecast failed")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Error: encoding result")
	}
	fmt.Println(string(out))
}
