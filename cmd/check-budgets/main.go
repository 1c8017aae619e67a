package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-ai/internal/alert"
	"github.com/dvloznov/finance-ai/internal/config"
	"github.com/dvloznov/finance-ai/internal/logger"
	"github.com/dvloznov/finance-ai/internal/notify"
	"github.com/dvloznov/finance-ai/internal/spending"
	"github.com/dvloznov/finance-ai/internal/store/bigquery"
)

func main() {
	log := logger.New()

	month := flag.String("month", time.Now().UTC().Format("2006-01"), "Month to check (YYYY-MM)")
	phone := flag.String("phone", "", "Destination phone number for SMS alerts")
	email := flag.String("email", "", "Destination address for email alerts")
	dryRun := flag.Bool("dry-run", false, "Evaluate budgets without sending alerts")
	flag.Parse()

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

	policy := alert.Policy{
		BudgetPct:         cfg.BudgetPct,
		AbsoluteThreshold: decimal.NewFromFloat(cfg.AbsoluteThreshold),
		SMSEnabled:        *phone != "",
		EmailEnabled:      *email != "",
		Phone:             *phone,
		Email:             *email,
	}

	var dispatcher spending.AlertDispatcher
	if !*dryRun {
		var sms notify.SMSSender
		if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
			sms = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		}
		var mail notify.EmailSender
		if cfg.ResendAPIKey != "" {
			mail = notify.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
		}
		dispatcher = notify.NewDispatcher(sms, mail, log)
	}

	checker := spending.NewChecker(repo, dispatcher, policy, log)

	results, err := checker.CheckMonth(ctx, *month)
	if err != nil {
		log.Fatal().Err(err).Str("month", *month).Msg("Error: budget check failed")
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Error: encoding results")
	}
	fmt.Println(string(out))
}
