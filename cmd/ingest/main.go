package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dvloznov/finance-ai/internal/categorize"
	"github.com/dvloznov/finance-ai/internal/config"
	"github.com/dvloznov/finance-ai/internal/gcs"
	"github.com/dvloznov/finance-ai/internal/logger"
	"github.com/dvloznov/finance-ai/internal/normalizer"
	"github.com/dvloznov/finance-ai/internal/oracle"
	"github.com/dvloznov/finance-ai/internal/pipeline"
	"github.com/dvloznov/finance-ai/internal/store/bigquery"
)

func main() {
	log := logger.New()

	filePath := flag.String("file", "", "Path to a local CSV statement")
	gcsURI := flag.String("gcs-uri", "", "GCS URI of a CSV statement (gs://bucket/path)")
	source := flag.String("source", "csv", "Source label stored with each transaction")
	inferIncome := flag.Bool("infer-income", false, "Treat credit rows as income")
	flag.Parse()

	if *filePath == "" && *gcsURI == "" {
		log.Fatal().Msg("Error: either --file or --gcs-uri is required")
	}
	if *filePath != "" && *gcsURI != "" {
		log.Fatal().Msg("Error: --file and --gcs-uri are mutually exclusive")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error: loading configuration")
	}
	if cfg.BigQueryProject == "" {
		log.Fatal().Msg("Error: BIGQUERY_PROJECT is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := bigquery.NewRepository(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Error: creating BigQuery repository")
	}
	defer repo.Close()

	model, err := oracle.NewGenAIClient(ctx, cfg.ModelName)
	if err != nil {
		log.Fatal().Err(err).Msg("Error: creating model client")
	}

	steps := []pipeline.PipelineStep{
		&pipeline.NormalizeStep{Normalizer: normalizer.New(normalizer.Options{
			InferIncomeFromSign: *inferIncome,
			Source:              *source,
		})},
		&pipeline.CategorizeStep{Categorizer: categorize.New(model, cfg.MaxConcurrentCalls, log)},
		&pipeline.StoreStep{Store: repo},
	}

	var summary *pipeline.Summary
	if *gcsURI != "" {
		fetcher, err := gcs.NewClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Error: creating storage client")
		}
		defer fetcher.Close()

		runner := pipeline.NewRunner(log, append([]pipeline.PipelineStep{&pipeline.FetchCSVStep{Fetcher: fetcher}}, steps...)...)
		summary, err = runner.RunFromGCS(ctx, *source, *gcsURI)
		if err != nil {
			log.Fatal().Err(err).Msg("Error: ingestion failed")
		}
	} else {
		data, err := os.ReadFile(*filePath)
		if err != nil {
			log.Fatal().Err(err).Str("file", *filePath).Msg("Error: reading CSV file")
		}

		runner := pipeline.NewRunner(log, steps...)
		summary, err = runner.Run(ctx, *source, data)
		if err != nil {
			log.Fatal().Err(err).Msg("Error: ingestion failed")
		}
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Error: encoding summary")
	}
	fmt.Println(string(out))
}
