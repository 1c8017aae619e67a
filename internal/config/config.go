package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration read from the environment.
type Config struct {
	// GCP
	BigQueryProject string
	BigQueryDataset string
	GCSBucket       string

	// LLM oracle
	ModelName string

	// Alerting defaults
	BudgetPct         float64
	AbsoluteThreshold float64

	// Twilio SMS
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// Resend email
	ResendAPIKey string
	EmailFrom    string

	// Categorizer fan-out cap
	MaxConcurrentCalls int
}

// Defaults that apply when the corresponding environment variable is unset.
const (
	DefaultModelName          = "gemini-2.5-flash"
	DefaultDataset            = "finance"
	DefaultBudgetPct          = 110.0
	DefaultAbsoluteThreshold  = 5000.0
	DefaultMaxConcurrentCalls = 10
	DefaultEmailFrom          = "Finance AI <alerts@yourdomain.com>"
)

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		BigQueryProject:    os.Getenv("BIGQUERY_PROJECT"),
		BigQueryDataset:    envOr("BIGQUERY_DATASET", DefaultDataset),
		GCSBucket:          os.Getenv("GCS_BUCKET"),
		ModelName:          envOr("MODEL_NAME", DefaultModelName),
		BudgetPct:          envFloat("ALERT_BUDGET_PCT", DefaultBudgetPct),
		AbsoluteThreshold:  envFloat("ALERT_THRESHOLD", DefaultAbsoluteThreshold),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:   os.Getenv("TWILIO_FROM_NUMBER"),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		EmailFrom:          envOr("EMAIL_FROM", DefaultEmailFrom),
		MaxConcurrentCalls: envInt("MAX_CONCURRENT_CALLS", DefaultMaxConcurrentCalls),
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
